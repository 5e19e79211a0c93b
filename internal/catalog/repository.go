package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/distro-catalog/internal/logging"
	"github.com/jonathan/distro-catalog/internal/metrics"
	"github.com/jonathan/distro-catalog/internal/schemas"
	"github.com/jonathan/distro-catalog/internal/types"
	schemafiles "github.com/jonathan/distro-catalog/schemas"
)

// UnrankedSentinel is the rank given to records without a popularity_rank so they sort last.
const UnrankedSentinel = 9999

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidID reports whether id can name a catalog record file.
func ValidID(id string) bool {
	return slugPattern.MatchString(id)
}

// Loader reads catalog snapshots.
type Loader interface {
	// LoadAll returns every valid record sorted by popularity. A missing source yields an empty slice.
	LoadAll(ctx context.Context) ([]*types.Distro, error)
	// LoadOne returns the record with the given id, or false when it is absent or invalid.
	LoadOne(ctx context.Context, id string) (*types.Distro, bool)
}

// Repository reads catalog records from a directory of <id>.json files.
type Repository struct {
	dir       string
	validator *schemas.Validator
}

// NewRepository creates a file-backed repository rooted at dir.
func NewRepository(dir string) *Repository {
	return &Repository{
		dir:       dir,
		validator: schemas.MustForSchema(schemafiles.DistroSchema),
	}
}

// Dir returns the catalog directory.
func (r *Repository) Dir() string {
	return r.dir
}

// LoadAll reads and validates every record in the directory. Invalid records and
// duplicate ids are logged and skipped. The only error returned is ctx's.
func (r *Repository) LoadAll(ctx context.Context) ([]*types.Distro, error) {
	start := time.Now()

	records, rejected, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}

	metrics.RecordCatalogLoad(len(records), len(rejected), time.Since(start))
	return records, nil
}

// Validate reads the whole directory and returns every per-record failure
// instead of only logging it. The returned records are what LoadAll would serve.
func (r *Repository) Validate(ctx context.Context) ([]*types.Distro, []error, error) {
	return r.scan(ctx)
}

func (r *Repository) scan(ctx context.Context) ([]*types.Distro, []error, error) {
	files, err := r.listFiles()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Warn().Str("dir", r.dir).Msg("catalog directory not found, serving empty catalog")
		} else {
			logging.Error().Err(err).Str("dir", r.dir).Msg("failed to read catalog directory, serving empty catalog")
		}
		return []*types.Distro{}, nil, nil
	}

	decoded := make([]*types.Distro, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := r.readRecord(name)
			if err != nil {
				failures[i] = err
				return nil
			}
			decoded[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	records := make([]*types.Distro, 0, len(files))
	rejected := make([]error, 0)
	seen := make(map[string]string, len(files))
	for i, d := range decoded {
		if failures[i] != nil {
			logging.Warn().Err(failures[i]).Str("file", files[i]).Msg("skipping invalid catalog record")
			rejected = append(rejected, failures[i])
			continue
		}
		if first, dup := seen[d.ID]; dup {
			dupErr := &ValidationError{File: files[i], ID: d.ID, Cause: fmt.Errorf("duplicate id, already defined in %s", first)}
			logging.Warn().Str("file", files[i]).Str("id", d.ID).Str("first", first).Msg("skipping duplicate catalog record")
			rejected = append(rejected, dupErr)
			continue
		}
		seen[d.ID] = files[i]
		records = append(records, d)
	}

	SortByPopularity(records)
	return records, rejected, nil
}

// LoadOne reads <dir>/<id>.json. It returns false for ids that are not plain slugs,
// missing files, and records that fail validation or whose id does not match.
func (r *Repository) LoadOne(_ context.Context, id string) (*types.Distro, bool) {
	if !ValidID(id) {
		return nil, false
	}

	d, err := r.readRecord(id + ".json")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn().Err(err).Str("id", id).Msg("catalog record failed to load")
		}
		return nil, false
	}
	if d.ID != id {
		logging.Warn().Str("id", id).Str("record_id", d.ID).Msg("catalog record id does not match file name")
		return nil, false
	}
	return d, true
}

func (r *Repository) listFiles() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}

func (r *Repository) readRecord(name string) (*types.Distro, error) {
	content, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return nil, &LoadError{File: name, Message: "failed to read file", Cause: err}
	}
	return r.decode(name, content)
}

func (r *Repository) decode(name string, content []byte) (*types.Distro, error) {
	if err := r.validator.ValidateBytes(content); err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			return nil, &ValidationError{File: name, Cause: err}
		}
		return nil, &LoadError{File: name, Message: "failed to parse JSON", Cause: err}
	}

	var d types.Distro
	if err := json.Unmarshal(content, &d); err != nil {
		return nil, &LoadError{File: name, Message: "failed to unmarshal JSON", Cause: err}
	}

	d.ApplyDefaults()
	if err := d.Validate(); err != nil {
		return nil, &ValidationError{File: name, ID: d.ID, Cause: err}
	}
	return &d, nil
}

// SortByPopularity orders records by ascending popularity rank; unranked records go last.
// Equal ranks keep their relative order.
func SortByPopularity(records []*types.Distro) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Rank(UnrankedSentinel) < records[j].Rank(UnrankedSentinel)
	})
}
