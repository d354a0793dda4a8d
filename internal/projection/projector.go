// Package projection derives the role-specific dashboard view from raw
// fetched datasets. Project is pure: same inputs, same outputs, no side
// effects.
package projection

import "leavedesk/internal/domain"

// Project maps (role, datasets) to the view the role is permitted to see.
// Stats and own requests are visible to every authenticated role. The pending
// queue is visible only to deciding roles; for a requester it is always empty
// no matter what the gateway returned, so stale data cannot leak into the UI.
// The pending view also drops any item that is not actually pending.
func Project(role domain.Role, d domain.Datasets) domain.DashboardView {
	view := domain.DashboardView{
		Stats:   d.Stats,
		Mine:    cloneRequests(d.Mine),
		Pending: []domain.LeaveRequest{},
	}

	if role.CanDecide() {
		for _, req := range d.Pending {
			if req.Status == domain.StatusPending {
				view.Pending = append(view.Pending, req)
			}
		}
	}

	return view
}

// cloneRequests copies the slice so the committed view never aliases the
// gateway's buffers. A nil input becomes an empty slice so the view always
// serializes as a JSON array.
func cloneRequests(reqs []domain.LeaveRequest) []domain.LeaveRequest {
	out := make([]domain.LeaveRequest, len(reqs))
	copy(out, reqs)
	return out
}
