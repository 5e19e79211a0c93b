package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/distro-catalog/internal/logging"
	"github.com/jonathan/distro-catalog/internal/types"
)

// Cached serves catalog snapshots from memory and reloads them from the
// underlying Loader once they are older than ttl. A ttl of zero never expires.
// Concurrent callers share one reload.
type Cached struct {
	src Loader
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	snapshot []*types.Distro
	index    map[string]*types.Distro
	loadedAt time.Time

	group singleflight.Group
}

// NewCached wraps src with a snapshot cache.
func NewCached(src Loader, ttl time.Duration) *Cached {
	return &Cached{src: src, ttl: ttl, now: time.Now}
}

// LoadAll returns the current snapshot, reloading it if stale.
// The reload runs detached from ctx so one caller giving up does not fail the
// others waiting on it; ctx only bounds how long this caller waits.
// Callers must not modify the returned records.
func (c *Cached) LoadAll(ctx context.Context) ([]*types.Distro, error) {
	c.mu.RLock()
	snap, fresh := c.snapshot, c.fresh()
	c.mu.RUnlock()
	if fresh {
		return snap, nil
	}

	ch := c.group.DoChan("snapshot", func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*types.Distro), nil
	}
}

// refresh reloads the snapshot. When the reload fails and an older snapshot
// exists, the older one keeps being served until the next attempt.
func (c *Cached) refresh(ctx context.Context) ([]*types.Distro, error) {
	c.mu.RLock()
	snap, fresh := c.snapshot, c.fresh()
	c.mu.RUnlock()
	if fresh {
		return snap, nil
	}

	records, err := c.src.LoadAll(ctx)
	if err != nil {
		if snap != nil {
			logging.Warn().Err(err).Int("records", len(snap)).Msg("catalog refresh failed, serving previous snapshot")
			return snap, nil
		}
		return nil, err
	}

	index := make(map[string]*types.Distro, len(records))
	for _, d := range records {
		index[d.ID] = d
	}

	c.mu.Lock()
	c.snapshot = records
	c.index = index
	c.loadedAt = c.now()
	c.mu.Unlock()

	logging.Debug().Int("records", len(records)).Msg("catalog snapshot refreshed")
	return records, nil
}

// LoadOne looks the id up in the current snapshot.
func (c *Cached) LoadOne(ctx context.Context, id string) (*types.Distro, bool) {
	if _, err := c.LoadAll(ctx); err != nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.index[id]
	return d, ok
}

// Invalidate drops the snapshot so the next call reloads.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.index = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}

// fresh must be called with mu held.
func (c *Cached) fresh() bool {
	if c.snapshot == nil {
		return false
	}
	return c.ttl == 0 || c.now().Sub(c.loadedAt) < c.ttl
}

// Service exposes catalog queries over a Loader.
type Service struct {
	loader Loader
}

// NewService creates a Service.
func NewService(loader Loader) *Service {
	return &Service{loader: loader}
}

// LoadAll returns the whole catalog in popularity order.
func (s *Service) LoadAll(ctx context.Context) ([]*types.Distro, error) {
	return s.loader.LoadAll(ctx)
}

// LoadOne returns a single record by id.
func (s *Service) LoadOne(ctx context.Context, id string) (*types.Distro, bool) {
	return s.loader.LoadOne(ctx, id)
}

// Filter applies c to the catalog.
func (s *Service) Filter(ctx context.Context, c Criteria) ([]*types.Distro, error) {
	all, err := s.loader.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, c), nil
}

// Search runs a case-insensitive substring search over the catalog.
func (s *Service) Search(ctx context.Context, query string) ([]*types.Distro, error) {
	all, err := s.loader.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return Search(all, query), nil
}

// RecommendedFor returns the first limit records aimed at skill.
func (s *Service) RecommendedFor(ctx context.Context, skill types.TargetUser, limit int) ([]*types.Distro, error) {
	all, err := s.loader.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return RecommendedFor(all, skill, limit), nil
}
