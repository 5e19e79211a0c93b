// Package prefs stores per-session favorites, compare history and shared
// distribution reviews on top of a kvstore.Store.
package prefs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/jonathan/distro-catalog/internal/kvstore"
)

// Service implements the preference operations. Read-modify-write cycles are
// serialized within the process.
type Service struct {
	store kvstore.Store
	now   func() time.Time
	mu    sync.Mutex
}

// NewService creates a preference service backed by store.
func NewService(store kvstore.Store) *Service {
	return &Service{store: store, now: time.Now}
}

func favoritesKey(session uuid.UUID) string { return "favorites:" + session.String() }
func compareKey(session uuid.UUID) string   { return "compare:" + session.String() }
func reviewsKey(distroID string) string     { return "reviews:" + distroID }
func reviewIndexKey(id uuid.UUID) string    { return "review:" + id.String() }

// load decodes the JSON value under key into v. A missing key leaves v untouched.
func (s *Service) load(ctx context.Context, key string, v any) error {
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
