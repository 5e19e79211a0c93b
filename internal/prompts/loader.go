// Package prompts holds the assistant's prompt templates, embedded from JSON
// files at compile time. Each file maps a key to a template whose
// placeholders look like {{.Name}}.
package prompts

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// AdvisorFile holds the AI assistant prompts.
const AdvisorFile = "advisor.json"

// Keys in AdvisorFile.
const (
	KeySystem  = "system"
	KeyQuery   = "query"
	KeyExplain = "explain"
)

//go:embed *.json
var promptFiles embed.FS

// placeholders lists, per file and key, the placeholders a template must use.
// A file is rejected at load time when a listed key or placeholder is missing.
var placeholders = map[string]map[string][]string{
	AdvisorFile: {
		KeySystem:  nil,
		KeyQuery:   {"System", "Context", "Query"},
		KeyExplain: {"Answers", "Candidates"},
	},
}

var (
	mu     sync.Mutex
	loaded = make(map[string]map[string]string)
)

// Get returns the template stored under key in filename (e.g. "advisor.json").
func Get(filename, key string) (string, error) {
	set, err := load(filename)
	if err != nil {
		return "", err
	}
	tmpl, ok := set[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return tmpl, nil
}

// Render looks up a template and fills it with data.
func Render(filename, key string, data map[string]string) (string, error) {
	tmpl, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	return Format(tmpl, data), nil
}

// Format replaces {{.Key}} placeholders with values from data.
// Placeholders without a value are left in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(data))
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// List returns the keys defined in filename, sorted.
func List(filename string) ([]string, error) {
	set, err := load(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func load(filename string) (map[string]string, error) {
	mu.Lock()
	defer mu.Unlock()

	if set, ok := loaded[filename]; ok {
		return set, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	set, err := parse(filename, data)
	if err != nil {
		return nil, err
	}

	loaded[filename] = set
	return set, nil
}

// parse decodes a prompt file and checks it against placeholders.
func parse(filename string, data []byte) (map[string]string, error) {
	var set map[string]string
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	for key, names := range placeholders[filename] {
		tmpl, ok := set[key]
		if !ok || strings.TrimSpace(tmpl) == "" {
			return nil, fmt.Errorf("prompt file %s: key %q is missing or empty", filename, key)
		}
		for _, name := range names {
			if !strings.Contains(tmpl, "{{."+name+"}}") {
				return nil, fmt.Errorf("prompt file %s: key %q does not use {{.%s}}", filename, key, name)
			}
		}
	}
	return set, nil
}
