package posting

import "time"

type Type string

const (
	TypeJob        Type = "job"
	TypeInternship Type = "internship"
)

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// AdminReview is attached exactly once, at the transition out of pending.
type AdminReview struct {
	ReviewedBy string    `json:"reviewed_by"`
	ReviewedAt time.Time `json:"reviewed_at"`
	Comments   string    `json:"comments,omitempty"`
}

type Posting struct {
	ID             string         `json:"id"`
	Type           Type           `json:"type"`
	PostedBy       string         `json:"posted_by"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	AdminReview    *AdminReview   `json:"admin_review,omitempty"`
	Title          string         `json:"title"`
	Company        string         `json:"company"`
	Location       string         `json:"location,omitempty"`
	Compensation   string         `json:"compensation,omitempty"`
	Description    string         `json:"description,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Reviewed reports whether the posting has left the pending state.
// Postings hold the invariant that AdminReview is present iff reviewed.
func (p Posting) Reviewed() bool {
	return p.ApprovalStatus != StatusPending
}
