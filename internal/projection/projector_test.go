package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leavedesk/internal/domain"
)

func sampleDatasets() domain.Datasets {
	return domain.Datasets{
		Stats: domain.StatsSnapshot{Total: 5, Pending: 2, Approved: 2, Rejected: 1},
		Mine: []domain.LeaveRequest{
			{ID: "m1", Status: domain.StatusApproved},
		},
		Pending: []domain.LeaveRequest{
			{ID: "p1", Status: domain.StatusPending},
			{ID: "p2", Status: domain.StatusPending},
		},
	}
}

func TestProject_StudentNeverSeesPendingQueue(t *testing.T) {
	view := Project(domain.RoleStudent, sampleDatasets())

	assert.Empty(t, view.Pending, "requester pending view must be empty even when data was fetched")
	assert.Equal(t, 5, view.Stats.Total)
	assert.Len(t, view.Mine, 1)
}

func TestProject_DecidingRolesSeePendingQueue(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleFaculty, domain.RoleAdmin} {
		view := Project(role, sampleDatasets())
		assert.Len(t, view.Pending, 2, "role %s", role)
	}
}

func TestProject_DropsNonPendingItemsFromQueue(t *testing.T) {
	d := sampleDatasets()
	d.Pending = append(d.Pending, domain.LeaveRequest{ID: "p3", Status: domain.StatusApproved})

	view := Project(domain.RoleAdmin, d)

	assert.Len(t, view.Pending, 2)
	for _, req := range view.Pending {
		assert.Equal(t, domain.StatusPending, req.Status)
	}
}

func TestProject_Deterministic(t *testing.T) {
	d := sampleDatasets()

	first := Project(domain.RoleFaculty, d)
	second := Project(domain.RoleFaculty, d)

	assert.Equal(t, first, second)
}

func TestProject_DoesNotAliasInput(t *testing.T) {
	d := sampleDatasets()
	view := Project(domain.RoleFaculty, d)

	d.Mine[0].Status = domain.StatusRejected
	d.Pending[0].Status = domain.StatusRejected

	assert.Equal(t, domain.StatusApproved, view.Mine[0].Status)
	assert.Equal(t, domain.StatusPending, view.Pending[0].Status)
}

func TestProject_EmptyInputsSerializeAsArrays(t *testing.T) {
	view := Project(domain.RoleStudent, domain.Datasets{})

	assert.NotNil(t, view.Mine)
	assert.NotNil(t, view.Pending)
}
