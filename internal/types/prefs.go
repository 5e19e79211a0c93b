//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Review is a user review of a distribution.
type Review struct {
	ID        uuid.UUID `json:"id"`
	DistroID  string    `json:"distro_id"`
	SessionID uuid.UUID `json:"-"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewSummary aggregates the ratings of a distribution.
type ReviewSummary struct {
	TotalReviews  int         `json:"total_reviews"`
	AverageRating float64     `json:"average_rating"`
	RatingCounts  map[int]int `json:"rating_counts"`
}

// ReviewList is the response for listing reviews.
type ReviewList struct {
	Reviews []Review      `json:"reviews"`
	Summary ReviewSummary `json:"summary"`
}

// CompareHistoryEntry records a pair of distributions the user compared.
type CompareHistoryEntry struct {
	Distro1ID string    `json:"distro1_id"`
	Distro2ID string    `json:"distro2_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateReviewRequest represents the request to create a review.
type CreateReviewRequest struct {
	DistroID string `json:"distro_id" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Title    string `json:"title" validate:"required,max=120"`
	Body     string `json:"body" validate:"required,max=5000"`
	UserName string `json:"user_name" validate:"required,min=1,max=50"`
}

// UpdateReviewRequest represents a partial review update.
type UpdateReviewRequest struct {
	Rating *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Title  *string `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Body   *string `json:"body,omitempty" validate:"omitempty,min=1,max=5000"`
}

// ToggleFavoriteRequest represents the favorite toggle request.
type ToggleFavoriteRequest struct {
	DistroID string `json:"distro_id" validate:"required"`
}

// CompareRequest represents a compare-history insertion.
type CompareRequest struct {
	Distro1ID string `json:"distro1_id" validate:"required"`
	Distro2ID string `json:"distro2_id" validate:"required"`
}

// Validate validates the CreateReviewRequest using the validator.
func (r *CreateReviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateReviewRequest using the validator.
func (r *UpdateReviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CompareRequest using the validator.
func (r *CompareRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
