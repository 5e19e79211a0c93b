package prefs

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Favorites returns the session's favorite distribution ids in the order they
// were added.
func (s *Service) Favorites(ctx context.Context, session uuid.UUID) ([]string, error) {
	ids := []string{}
	if err := s.load(ctx, favoritesKey(session), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ToggleFavorite adds distroID to the session's favorites, or removes it if
// already present. It reports whether the distribution is now a favorite.
func (s *Service) ToggleFavorite(ctx context.Context, session uuid.UUID, distroID string) (bool, error) {
	distroID = strings.TrimSpace(distroID)
	if distroID == "" {
		return false, fmt.Errorf("%w: distro_id is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.Favorites(ctx, session)
	if err != nil {
		return false, err
	}

	kept := ids[:0]
	removed := false
	for _, id := range ids {
		if id == distroID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		kept = append(kept, distroID)
	}

	if err := s.save(ctx, favoritesKey(session), kept); err != nil {
		return false, err
	}
	return !removed, nil
}

// ClearFavorites removes all of the session's favorites.
func (s *Service) ClearFavorites(ctx context.Context, session uuid.UUID) error {
	if err := s.store.Delete(ctx, favoritesKey(session)); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}
