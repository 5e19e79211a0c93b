package prefs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/distro-catalog/internal/types"
)

// storedReview keeps the authoring session next to the public review fields.
type storedReview struct {
	types.Review
	Author uuid.UUID `json:"author_session"`
}

func (r storedReview) public() types.Review {
	out := r.Review
	out.SessionID = r.Author
	return out
}

// Reviews returns the reviews of distroID, newest first, with a rating summary.
func (s *Service) Reviews(ctx context.Context, distroID string) (*types.ReviewList, error) {
	stored, err := s.loadReviews(ctx, distroID)
	if err != nil {
		return nil, err
	}

	list := &types.ReviewList{Reviews: make([]types.Review, 0, len(stored))}
	for _, r := range stored {
		list.Reviews = append(list.Reviews, r.public())
	}
	sort.SliceStable(list.Reviews, func(i, j int) bool {
		return list.Reviews[i].CreatedAt.After(list.Reviews[j].CreatedAt)
	})
	list.Summary = Summarize(list.Reviews)
	return list, nil
}

// Summarize computes the review count, the average rating rounded to one
// decimal and the number of reviews per rating 1..5.
func Summarize(reviews []types.Review) types.ReviewSummary {
	summary := types.ReviewSummary{RatingCounts: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	if len(reviews) == 0 {
		return summary
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
		summary.RatingCounts[r.Rating]++
	}
	summary.TotalReviews = len(reviews)
	summary.AverageRating = math.Round(float64(total)/float64(len(reviews))*10) / 10
	return summary
}

// AddReview stores a new review written by session.
func (s *Service) AddReview(ctx context.Context, session uuid.UUID, req types.CreateReviewRequest) (*types.Review, error) {
	req.DistroID = strings.TrimSpace(req.DistroID)
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	req.UserName = strings.TrimSpace(req.UserName)
	if err := req.Validate(); err != nil {
		return nil, validationErr(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.loadReviews(ctx, req.DistroID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	review := storedReview{
		Review: types.Review{
			ID:        uuid.New(),
			DistroID:  req.DistroID,
			Rating:    req.Rating,
			Title:     req.Title,
			Body:      req.Body,
			UserName:  req.UserName,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Author: session,
	}
	stored = append(stored, review)

	if err := s.save(ctx, reviewsKey(req.DistroID), stored); err != nil {
		return nil, err
	}
	if err := s.save(ctx, reviewIndexKey(review.ID), req.DistroID); err != nil {
		return nil, err
	}

	out := review.public()
	return &out, nil
}

// UpdateReview applies the non-nil fields of req to a review written by session.
func (s *Service) UpdateReview(ctx context.Context, session, reviewID uuid.UUID, req types.UpdateReviewRequest) (*types.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, validationErr(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	distroID, stored, idx, err := s.findReview(ctx, session, reviewID)
	if err != nil {
		return nil, err
	}

	r := &stored[idx]
	if req.Rating != nil {
		r.Rating = *req.Rating
	}
	if req.Title != nil {
		r.Title = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		r.Body = strings.TrimSpace(*req.Body)
	}
	r.UpdatedAt = s.now().UTC()

	if err := s.save(ctx, reviewsKey(distroID), stored); err != nil {
		return nil, err
	}
	out := r.public()
	return &out, nil
}

// DeleteReview removes a review written by session.
func (s *Service) DeleteReview(ctx context.Context, session, reviewID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	distroID, stored, idx, err := s.findReview(ctx, session, reviewID)
	if err != nil {
		return err
	}

	stored = append(stored[:idx], stored[idx+1:]...)
	if err := s.save(ctx, reviewsKey(distroID), stored); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, reviewIndexKey(reviewID)); err != nil {
		return fmt.Errorf("failed to delete review index: %w", err)
	}
	return nil
}

func (s *Service) loadReviews(ctx context.Context, distroID string) ([]storedReview, error) {
	stored := []storedReview{}
	if err := s.load(ctx, reviewsKey(distroID), &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// findReview locates reviewID and checks that session wrote it.
func (s *Service) findReview(ctx context.Context, session, reviewID uuid.UUID) (string, []storedReview, int, error) {
	var distroID string
	if err := s.load(ctx, reviewIndexKey(reviewID), &distroID); err != nil {
		return "", nil, 0, err
	}
	if distroID == "" {
		return "", nil, 0, ErrNotFound
	}

	stored, err := s.loadReviews(ctx, distroID)
	if err != nil {
		return "", nil, 0, err
	}
	for i := range stored {
		if stored[i].ID != reviewID {
			continue
		}
		if stored[i].Author != session {
			return "", nil, 0, ErrForbidden
		}
		return distroID, stored, i, nil
	}
	return "", nil, 0, ErrNotFound
}

// validationErr maps validator failures onto the package sentinels.
func validationErr(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Rating" {
				return ErrInvalidRating
			}
		}
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
