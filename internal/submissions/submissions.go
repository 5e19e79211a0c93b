// Package submissions stores distributions proposed by visitors until a
// moderator reviews them.
package submissions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/jonathan/distro-catalog/internal/catalog"
	"github.com/jonathan/distro-catalog/internal/kvstore"
	"github.com/jonathan/distro-catalog/internal/logging"
	"github.com/jonathan/distro-catalog/internal/types"
)

var (
	// ErrInvalidInput wraps submission validation failures.
	ErrInvalidInput = errors.New("invalid submission")
	// ErrInCatalog is returned when the proposed id is already a catalog record.
	ErrInCatalog = errors.New("distribution is already in the catalog")
)

// indexKey lists submission ids in arrival order.
const indexKey = "submissions"

func submissionKey(id uuid.UUID) string { return "submission:" + id.String() }

// DistroLookup finds catalog records by id.
type DistroLookup interface {
	LoadOne(ctx context.Context, id string) (*types.Distro, bool)
}

// stored adds what only moderators may see.
type stored struct {
	types.Submission
	IPHash string `json:"ip_hash"`
}

// Service accepts and lists submissions.
type Service struct {
	store   kvstore.Store
	distros DistroLookup
	now     func() time.Time
	mu      sync.Mutex
}

// NewService creates a Service. distros may be nil, in which case ids are
// not checked against the catalog.
func NewService(store kvstore.Store, distros DistroLookup) *Service {
	return &Service{store: store, distros: distros, now: time.Now}
}

// Submit validates sub and stores it as pending. clientIP is kept only as a
// truncated SHA-256 digest.
func (s *Service) Submit(ctx context.Context, sub types.DistroSubmission, clientIP string) (*types.Submission, error) {
	sub.ID = strings.TrimSpace(sub.ID)
	sub.Name = strings.TrimSpace(sub.Name)
	sub.SubmitterEmail = strings.TrimSpace(sub.SubmitterEmail)
	sub.PopularityRank = nil
	sub.LastVerified = ""
	sub.ApplyDefaults()

	if err := sub.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !catalog.ValidID(sub.ID) {
		return nil, fmt.Errorf("%w: id %q must be a lowercase slug", ErrInvalidInput, sub.ID)
	}
	if s.distros != nil {
		if _, ok := s.distros.LoadOne(ctx, sub.ID); ok {
			return nil, fmt.Errorf("%w: %s", ErrInCatalog, sub.ID)
		}
	}

	rec := stored{
		Submission: types.Submission{
			ID:          uuid.New(),
			Distro:      sub,
			Status:      types.SubmissionPending,
			SubmittedAt: s.now().UTC(),
		},
		IPHash: HashIP(clientIP),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var index []uuid.UUID
	if err := s.load(ctx, indexKey, &index); err != nil {
		return nil, err
	}
	if err := s.save(ctx, submissionKey(rec.ID), rec); err != nil {
		return nil, err
	}
	if err := s.save(ctx, indexKey, append(index, rec.ID)); err != nil {
		return nil, err
	}

	logging.Info().Str("submission_id", rec.ID.String()).Str("distro_id", sub.ID).Msg("distribution submitted")
	out := rec.Submission
	return &out, nil
}

// List returns every submission, newest first.
func (s *Service) List(ctx context.Context) (*types.SubmissionList, error) {
	var index []uuid.UUID
	if err := s.load(ctx, indexKey, &index); err != nil {
		return nil, err
	}

	list := &types.SubmissionList{Submissions: make([]types.Submission, 0, len(index))}
	for _, id := range index {
		var rec stored
		found, err := s.get(ctx, submissionKey(id), &rec)
		if err != nil {
			return nil, err
		}
		if !found {
			logging.Warn().Str("submission_id", id.String()).Msg("indexed submission is missing")
			continue
		}
		list.Submissions = append(list.Submissions, rec.Submission)
	}

	// Index order is arrival order, so reversing first keeps equal timestamps newest first.
	for i, j := 0, len(list.Submissions)-1; i < j; i, j = i+1, j-1 {
		list.Submissions[i], list.Submissions[j] = list.Submissions[j], list.Submissions[i]
	}
	sort.SliceStable(list.Submissions, func(i, j int) bool {
		return list.Submissions[i].SubmittedAt.After(list.Submissions[j].SubmittedAt)
	})
	list.Count = len(list.Submissions)
	return list, nil
}

// HashIP returns the first 16 hex characters of the SHA-256 of ip, or "" for
// an empty address.
func HashIP(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])[:16]
}

func (s *Service) load(ctx context.Context, key string, v any) error {
	_, err := s.get(ctx, key, v)
	return err
}

func (s *Service) get(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
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
