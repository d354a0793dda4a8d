package domain

// LeaveType classifies a leave application.
type LeaveType string

const (
	LeaveSick   LeaveType = "sick"
	LeaveCasual LeaveType = "casual"
	LeaveOther  LeaveType = "other"
)

// LeaveStatus is the lifecycle state of a leave request. Pending requests
// transition to approved or rejected exactly once; decided requests never
// transition again.
type LeaveStatus string

const (
	StatusPending  LeaveStatus = "pending"
	StatusApproved LeaveStatus = "approved"
	StatusRejected LeaveStatus = "rejected"
)

// LeaveRequest is the backend's authoritative record of one application.
// The client never mutates it; it requests a transition and re-fetches.
type LeaveRequest struct {
	ID            string      `json:"id"`
	ApplicantID   string      `json:"applicant_id"`
	ApplicantName string      `json:"applicant_name"`
	ApplicantRole Role        `json:"applicant_role"`
	Type          LeaveType   `json:"type"`
	Reason        string      `json:"reason"`
	StartDate     string      `json:"start_date"`
	EndDate       string      `json:"end_date"`
	AttachmentURL string      `json:"attachment_url,omitempty"`
	Status        LeaveStatus `json:"status"`
	DecidedBy     string      `json:"decided_by,omitempty"`
	Comment       string      `json:"comment,omitempty"`
}

// LeaveForm carries the fields of a new leave application. Dates use the
// backend's YYYY-MM-DD format.
type LeaveForm struct {
	Type          LeaveType `json:"type" validate:"required,oneof=sick casual other"`
	Reason        string    `json:"reason" validate:"required"`
	StartDate     string    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string    `json:"end_date" validate:"required,datetime=2006-01-02"`
	AttachmentURL string    `json:"attachment_url,omitempty" validate:"omitempty,url"`
}

// Reset restores the form to its default values after a successful submit.
func (f *LeaveForm) Reset() {
	*f = LeaveForm{Type: LeaveSick}
}

// RegisterForm carries the fields of a new account registration.
type RegisterForm struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       Role   `json:"role" validate:"required,oneof=student faculty admin"`
	Department string `json:"department" validate:"required"`
}
