package application

import "time"

// Status is the persisted vocabulary accepted by the backend. Recruiter
// screens use display labels instead; see internal/vocab.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusReviewed    Status = "reviewed"
	StatusShortlisted Status = "shortlisted"
	StatusHired       Status = "hired"
	StatusRejected    Status = "rejected"
)

// Final reports whether no further transition is expected.
func Final(status Status) bool {
	return status == StatusHired || status == StatusRejected
}

type Application struct {
	ID             string    `json:"id"`
	ApplicantEmail string    `json:"applicant_email"`
	JobID          string    `json:"job_id,omitempty"`
	InternshipID   string    `json:"internship_id,omitempty"`
	Type           string    `json:"application_type"`
	Status         Status    `json:"status"`
	Comments       string    `json:"comments,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PostingID returns whichever of job_id/internship_id is set.
func (a Application) PostingID() string {
	if a.JobID != "" {
		return a.JobID
	}
	return a.InternshipID
}
