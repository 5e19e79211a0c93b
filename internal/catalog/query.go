package catalog

import (
	"strings"

	"github.com/jonathan/distro-catalog/internal/types"
)

// DefaultRecommendedLimit is used by RecommendedFor when limit is not positive.
const DefaultRecommendedLimit = 5

// Criteria narrows the catalog. Zero-valued fields impose no constraint;
// set fields combine with AND.
type Criteria struct {
	Family     types.Family
	TargetUser types.TargetUser
	// Tags matches a record carrying at least one of them.
	Tags []string
	// MinRAMMB is the machine's RAM; records needing more are dropped.
	MinRAMMB int
}

// IsZero reports whether the criteria impose no constraint at all.
func (c Criteria) IsZero() bool {
	return c.Family == "" && c.TargetUser == "" && len(c.Tags) == 0 && c.MinRAMMB <= 0
}

// Matches reports whether d satisfies every set criterion.
func (c Criteria) Matches(d *types.Distro) bool {
	if c.Family != "" && d.Family != c.Family {
		return false
	}
	if c.TargetUser != "" && !d.HasTargetUser(c.TargetUser) {
		return false
	}
	if len(c.Tags) > 0 && !hasAnyTag(d, c.Tags) {
		return false
	}
	if c.MinRAMMB > 0 && d.MinRAMMB > c.MinRAMMB {
		return false
	}
	return true
}

func hasAnyTag(d *types.Distro, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range d.Tags {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}
	return false
}

// Filter returns the records matching c, preserving order.
func Filter(records []*types.Distro, c Criteria) []*types.Distro {
	out := make([]*types.Distro, 0, len(records))
	for _, d := range records {
		if c.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

// Search returns records whose name, id, family, tags or desktop environments contain
// query, ignoring case. An empty query matches everything.
func Search(records []*types.Distro, query string) []*types.Distro {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*types.Distro, 0, len(records))
	for _, d := range records {
		if q == "" || matchesQuery(d, q) {
			out = append(out, d)
		}
	}
	return out
}

func matchesQuery(d *types.Distro, q string) bool {
	if containsFold(d.Name, q) || containsFold(d.ID, q) || containsFold(string(d.Family), q) {
		return true
	}
	for _, t := range d.Tags {
		if containsFold(t, q) {
			return true
		}
	}
	for _, de := range d.DesktopEnvironments {
		if containsFold(de, q) {
			return true
		}
	}
	return false
}

// containsFold reports whether lowerQuery occurs in s ignoring case. lowerQuery must be lower-cased.
func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

// RecommendedFor returns up to limit records listing skill as a target user, in catalog order.
func RecommendedFor(records []*types.Distro, skill types.TargetUser, limit int) []*types.Distro {
	if limit <= 0 {
		limit = DefaultRecommendedLimit
	}
	out := make([]*types.Distro, 0, limit)
	for _, d := range records {
		if len(out) == limit {
			break
		}
		if d.HasTargetUser(skill) {
			out = append(out, d)
		}
	}
	return out
}
