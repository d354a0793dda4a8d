package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavedesk/internal/domain"
)

func testSession() *domain.Session {
	return &domain.Session{
		Token: "tok-123",
		User: domain.User{
			ID:         "u1",
			Name:       "Ada",
			Role:       domain.RoleFaculty,
			Department: "CS",
		},
	}
}

func TestStore_SaveThenLoadAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store := NewStore(path)
	require.NoError(t, store.Save(testSession()))

	// A new store simulates a process restart: the same session comes back
	// without re-authenticating.
	restarted := NewStore(path)
	sess := restarted.Load()
	require.NotNil(t, sess)
	assert.Equal(t, "tok-123", sess.Token)
	assert.Equal(t, domain.RoleFaculty, sess.User.Role)
	assert.Equal(t, sess, restarted.Current())
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))

	assert.Nil(t, store.Load())
	assert.Nil(t, store.Current())
}

func TestStore_LoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewStore(path)
	assert.Nil(t, store.Load())
}

func TestStore_LoadIncompleteRecord(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing token", `{"user":{"id":"u1","role":"student"}}`},
		{"missing user id", `{"token":"tok","user":{"role":"student"}}`},
		{"unknown role", `{"token":"tok","user":{"id":"u1","role":"overlord"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))

			store := NewStore(path)
			assert.Nil(t, store.Load())
		})
	}
}

func TestStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)
	require.NoError(t, store.Save(testSession()))

	require.NoError(t, store.Clear())

	assert.Nil(t, store.Current())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_ClearWithoutFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	assert.NoError(t, store.Clear())
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")
	store := NewStore(path)

	require.NoError(t, store.Save(testSession()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
