// Package guides serves the static installation and setup guides.
package guides

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed guides.yaml
var guidesYAML []byte

// Step is a single guide step.
type Step struct {
	ID              string `yaml:"id" json:"id"`
	Title           string `yaml:"title" json:"title"`
	Description     string `yaml:"description" json:"description"`
	DurationMinutes int    `yaml:"duration_minutes" json:"duration_minutes"`
	Difficulty      string `yaml:"difficulty" json:"difficulty"`
}

// Guide is an ordered list of steps aimed at a set of skill levels.
type Guide struct {
	ID            string   `yaml:"id" json:"id"`
	Title         string   `yaml:"title" json:"title"`
	Description   string   `yaml:"description" json:"description"`
	TargetUsers   []string `yaml:"target_users" json:"target_users"`
	TotalDuration int      `yaml:"-" json:"total_duration"`
	Steps         []Step   `yaml:"steps" json:"steps"`
}

type guideFile struct {
	Guides []Guide `yaml:"guides"`
}

var (
	loadOnce sync.Once
	loaded   []Guide
	loadErr  error
)

// Parse decodes a guides document and fills in each guide's total duration.
func Parse(data []byte) ([]Guide, error) {
	var f guideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse guides: %w", err)
	}

	seen := make(map[string]bool, len(f.Guides))
	for i := range f.Guides {
		g := &f.Guides[i]
		if g.ID == "" {
			return nil, fmt.Errorf("guide %d has no id", i)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("duplicate guide id %q", g.ID)
		}
		seen[g.ID] = true

		g.TotalDuration = 0
		for _, s := range g.Steps {
			if s.DurationMinutes < 0 {
				return nil, fmt.Errorf("guide %q step %q has negative duration", g.ID, s.ID)
			}
			g.TotalDuration += s.DurationMinutes
		}
	}
	return f.Guides, nil
}

func builtin() []Guide {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(guidesYAML)
	})
	if loadErr != nil {
		panic(loadErr)
	}
	return loaded
}

// All returns every guide in definition order.
func All() []Guide {
	src := builtin()
	out := make([]Guide, len(src))
	copy(out, src)
	return out
}

// Get returns the guide with the given id.
func Get(id string) (Guide, bool) {
	for _, g := range builtin() {
		if g.ID == id {
			return g, true
		}
	}
	return Guide{}, false
}

// ForUser returns the guides that target the given skill level.
func ForUser(skill string) []Guide {
	var out []Guide
	for _, g := range builtin() {
		for _, t := range g.TargetUsers {
			if t == skill {
				out = append(out, g)
				break
			}
		}
	}
	return out
}
