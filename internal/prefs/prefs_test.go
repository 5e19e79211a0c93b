package prefs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/distro-catalog/internal/kvstore"
	"github.com/jonathan/distro-catalog/internal/types"
)

func newTestService() *Service {
	svc := NewService(kvstore.NewMemory())
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return svc
}

func TestFavorites_Toggle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	session := uuid.New()

	ids, err := svc.Favorites(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)

	on, err := svc.ToggleFavorite(ctx, session, "ubuntu")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = svc.ToggleFavorite(ctx, session, "mint")
	require.NoError(t, err)
	assert.True(t, on)

	ids, _ = svc.Favorites(ctx, session)
	assert.Equal(t, []string{"ubuntu", "mint"}, ids)

	on, err = svc.ToggleFavorite(ctx, session, "ubuntu")
	require.NoError(t, err)
	assert.False(t, on)

	ids, _ = svc.Favorites(ctx, session)
	assert.Equal(t, []string{"mint"}, ids)
}

func TestFavorites_PerSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	_, err := svc.ToggleFavorite(ctx, a, "arch")
	require.NoError(t, err)

	ids, _ := svc.Favorites(ctx, b)
	assert.Empty(t, ids)
}

func TestFavorites_EmptyID(t *testing.T) {
	svc := newTestService()
	_, err := svc.ToggleFavorite(context.Background(), uuid.New(), "  ")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestFavorites_Clear(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	session := uuid.New()

	_, _ = svc.ToggleFavorite(ctx, session, "fedora")
	require.NoError(t, svc.ClearFavorites(ctx, session))

	ids, _ := svc.Favorites(ctx, session)
	assert.Empty(t, ids)
}

func TestCompareHistory_MostRecentFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	session := uuid.New()

	_, err := svc.AddComparison(ctx, session, types.CompareRequest{Distro1ID: "ubuntu", Distro2ID: "mint"})
	require.NoError(t, err)
	entries, err := svc.AddComparison(ctx, session, types.CompareRequest{Distro1ID: "arch", Distro2ID: "manjaro"})
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "arch", entries[0].Distro1ID)
	assert.Equal(t, "ubuntu", entries[1].Distro1ID)
	assert.True(t, entries[0].Timestamp.After(entries[1].Timestamp))
}

func TestCompareHistory_DuplicatePairMovesToFront(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	session := uuid.New()

	_, _ = svc.AddComparison(ctx, session, types.CompareRequest{Distro1ID: "ubuntu", Distro2ID: "mint"})
	_, _ = svc.AddComparison(ctx, session, types.CompareRequest{Distro1ID: "arch", Distro2ID: "manjaro"})
	entries, err := svc.AddComparison(ctx, session, types.CompareRequest{Distro1ID: "mint", Distro2ID: "ubuntu"})
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "mint", entries[0].Distro1ID)
	assert.Equal(t, "ubuntu", entries[0].Distro2ID)
	assert.Equal(t, "arch", entries[1].Distro1ID)
}

func TestCompareHistory_Capped(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	session := uuid.New()

	for i := 0; i < MaxCompareHistory+5; i++ {
		_, err := svc.AddComparison(ctx, session, types.CompareRequest{
			Distro1ID: fmt.Sprintf("a%d", i),
			Distro2ID: "b",
		})
		require.NoError(t, err)
	}

	entries, err := svc.CompareHistory(ctx, session)
	require.NoError(t, err)
	require.Len(t, entries, MaxCompareHistory)
	assert.Equal(t, fmt.Sprintf("a%d", MaxCompareHistory+4), entries[0].Distro1ID)
}

func TestCompareHistory_RequiresBothIDs(t *testing.T) {
	svc := newTestService()
	_, err := svc.AddComparison(context.Background(), uuid.New(), types.CompareRequest{Distro1ID: "ubuntu"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCompareHistory_Clear(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	session := uuid.New()

	_, _ = svc.AddComparison(ctx, session, types.CompareRequest{Distro1ID: "ubuntu", Distro2ID: "mint"})
	require.NoError(t, svc.ClearCompareHistory(ctx, session))

	entries, err := svc.CompareHistory(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type failingStore struct {
	kvstore.Store
}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func TestService_StoreErrorsPropagate(t *testing.T) {
	svc := NewService(failingStore{kvstore.NewMemory()})
	_, err := svc.Favorites(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
