package domain

// StatsSnapshot is a derived, non-authoritative aggregate. It is recomputed
// wholesale by the backend on every refresh; the client never updates it
// incrementally.
type StatsSnapshot struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Datasets is the raw result of one fetch cycle before role projection.
type Datasets struct {
	Stats   StatsSnapshot
	Mine    []LeaveRequest
	Pending []LeaveRequest
}

// DashboardView is the role-projected snapshot handed to the UI. Views are
// replaced atomically on each successful fetch cycle; a failed cycle leaves
// the previous view untouched.
type DashboardView struct {
	Stats   StatsSnapshot  `json:"stats"`
	Mine    []LeaveRequest `json:"mine"`
	Pending []LeaveRequest `json:"pending"`
}
