package domain

// Role is the wire value the backend uses for a user's role.
type Role string

const (
	// RoleStudent submits leave requests and sees only its own.
	RoleStudent Role = "student"
	// RoleFaculty reviews and decides pending leave requests.
	RoleFaculty Role = "faculty"
	// RoleAdmin reviews and decides pending leave requests.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a role the backend knows.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleFaculty || r == RoleAdmin
}

// CanDecide reports whether the role may approve or reject leave requests.
func (r Role) CanDecide() bool {
	return r == RoleFaculty || r == RoleAdmin
}

// User is the backend's view of an authenticated account.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

// Session is an authenticated identity and token pair. A Session is immutable
// once constructed: a new login produces a new Session, never a field update.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SessionSource is the read-only view of the session store. The gateway reads
// the current session through it and never mutates it.
type SessionSource interface {
	// Current returns the held session, or nil when signed out.
	Current() *Session
}

// SessionStore owns the session lifecycle: restore at startup, persist on
// login, clear on logout.
type SessionStore interface {
	SessionSource
	// Load restores the persisted session once at process start; a missing
	// or malformed record means no session, never an error.
	Load() *Session
	Save(sess *Session) error
	Clear() error
}
