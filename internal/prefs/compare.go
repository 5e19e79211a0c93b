package prefs

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/distro-catalog/internal/types"
)

// MaxCompareHistory caps the number of comparisons kept per session.
const MaxCompareHistory = 20

// CompareHistory returns the session's comparisons, most recent first.
func (s *Service) CompareHistory(ctx context.Context, session uuid.UUID) ([]types.CompareHistoryEntry, error) {
	entries := []types.CompareHistoryEntry{}
	if err := s.load(ctx, compareKey(session), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddComparison records that the session compared two distributions. A pair
// already in the history, in either order, moves to the front.
func (s *Service) AddComparison(ctx context.Context, session uuid.UUID, req types.CompareRequest) ([]types.CompareHistoryEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.CompareHistory(ctx, session)
	if err != nil {
		return nil, err
	}

	next := make([]types.CompareHistoryEntry, 0, len(entries)+1)
	next = append(next, types.CompareHistoryEntry{
		Distro1ID: req.Distro1ID,
		Distro2ID: req.Distro2ID,
		Timestamp: s.now().UTC(),
	})
	for _, e := range entries {
		if samePair(e, req) {
			continue
		}
		next = append(next, e)
	}
	if len(next) > MaxCompareHistory {
		next = next[:MaxCompareHistory]
	}

	if err := s.save(ctx, compareKey(session), next); err != nil {
		return nil, err
	}
	return next, nil
}

// ClearCompareHistory removes the session's comparisons.
func (s *Service) ClearCompareHistory(ctx context.Context, session uuid.UUID) error {
	if err := s.store.Delete(ctx, compareKey(session)); err != nil {
		return fmt.Errorf("failed to clear compare history: %w", err)
	}
	return nil
}

func samePair(e types.CompareHistoryEntry, req types.CompareRequest) bool {
	return (e.Distro1ID == req.Distro1ID && e.Distro2ID == req.Distro2ID) ||
		(e.Distro1ID == req.Distro2ID && e.Distro2ID == req.Distro1ID)
}
