package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SubmissionStatus is the moderation state of a submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// DistroSubmission is a catalog record proposed by a visitor. Moderators set
// popularity_rank and last_verified, so submissions carry neither.
type DistroSubmission struct {
	Distro
	SubmitterEmail string `json:"submitter_email,omitempty" validate:"omitempty,email"`
	SubmitterNotes string `json:"submitter_notes,omitempty" validate:"max=2000"`
}

// Validate checks every record field except last_verified.
func (s *DistroSubmission) Validate() error {
	validate := validator.New()
	return validate.StructExcept(s, "Distro.LastVerified")
}

// Submission is a stored DistroSubmission awaiting moderation.
type Submission struct {
	ID          uuid.UUID        `json:"submission_id"`
	Distro      DistroSubmission `json:"distro"`
	Status      SubmissionStatus `json:"status"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

// SubmissionList is the response for listing submissions.
type SubmissionList struct {
	Count       int          `json:"count"`
	Submissions []Submission `json:"submissions"`
}
