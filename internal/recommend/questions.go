// Package recommend scores the catalog against quiz answers and ranks the best matches.
package recommend

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/distro-catalog/internal/types"
)

// DefaultQuestions returns the built-in questionnaire. Each call returns a fresh copy.
func DefaultQuestions() []types.QuizQuestion {
	return []types.QuizQuestion{
		{
			ID:     types.QuestionExperience,
			Prompt: "What is your experience level with Linux?",
			Options: []types.QuizOption{
				{Value: "beginner", Label: "Beginner - New to Linux", WeightTags: []string{"beginner"}},
				{Value: "intermediate", Label: "Intermediate - Some Linux experience", WeightTags: []string{"intermediate"}},
				{Value: "advanced", Label: "Advanced - Comfortable with command line", WeightTags: []string{"advanced"}},
			},
		},
		{
			ID:     types.QuestionPurpose,
			Prompt: "What will you primarily use Linux for?",
			Options: []types.QuizOption{
				{Value: "daily", Label: "Daily computing (web browsing, office work)", WeightTags: []string{"daily", "stable"}},
				{Value: "programming", Label: "Software development & programming", WeightTags: []string{"development", "programming"}},
				{Value: "gaming", Label: "Gaming & entertainment", WeightTags: []string{"gaming"}},
				{Value: "server", Label: "Server & enterprise applications", WeightTags: []string{"server", "enterprise"}},
				{Value: "creative", Label: "Creative work (design, video editing)", WeightTags: []string{"creative"}},
			},
		},
		{
			ID:     types.QuestionInterface,
			Prompt: "What kind of interface do you prefer?",
			Options: []types.QuizOption{
				{Value: "windows-like", Label: "Windows-like (familiar and easy)", WeightTags: []string{"windows-like", "beginner-friendly"}},
				{Value: "mac-like", Label: "macOS-like (elegant and polished)", WeightTags: []string{"mac-like", "elegant"}},
				{Value: "minimal", Label: "Minimal & lightweight", WeightTags: []string{"lightweight", "minimal"}},
				{Value: "customizable", Label: "Highly customizable", WeightTags: []string{"customizable", "advanced"}},
			},
		},
		{
			ID:     types.QuestionInstallation,
			Prompt: "How do you plan to install Linux?",
			Options: []types.QuizOption{
				{Value: "virtual", Label: "Virtual Machine (VirtualBox, VMware)", WeightTags: []string{"vm-friendly"}},
				{Value: "dual-boot", Label: "Dual boot (alongside Windows/macOS)", WeightTags: []string{"dual-boot"}},
				{Value: "usb-live", Label: "Try first from USB (live mode)", WeightTags: []string{"live-usb"}},
				{Value: "full-install", Label: "Full installation (replace existing OS)", WeightTags: []string{"full-install"}},
			},
		},
		{
			ID:     types.QuestionSystem,
			Prompt: "What are your system specifications?",
			Options: []types.QuizOption{
				{Value: "old", Label: "Older hardware (4GB RAM or less)", WeightTags: []string{"lightweight", "low-resource"}},
				{Value: "moderate", Label: "Moderate hardware (4-8GB RAM)", WeightTags: []string{"moderate"}},
				{Value: "modern", Label: "Modern hardware (8GB+ RAM)", WeightTags: []string{"modern", "feature-rich"}},
				{Value: "high-end", Label: "High-end hardware (gaming PC/workstation)", WeightTags: []string{"high-performance"}},
			},
		},
	}
}

// QuestionError reports a malformed quiz definition.
type QuestionError struct {
	Question types.QuestionID
	Option   types.OptionValue
	Message  string
}

func (e *QuestionError) Error() string {
	switch {
	case e.Option != "":
		return fmt.Sprintf("quiz question %q option %q: %s", e.Question, e.Option, e.Message)
	case e.Question != "":
		return fmt.Sprintf("quiz question %q: %s", e.Question, e.Message)
	default:
		return fmt.Sprintf("quiz definition: %s", e.Message)
	}
}

// ValidateQuestions checks a quiz definition and normalizes weight tags in place
// (trimmed, lower-cased). Question ids must be unique and non-empty, every question
// needs options with unique non-empty values, and every option needs at least one tag.
func ValidateQuestions(questions []types.QuizQuestion) error {
	if len(questions) == 0 {
		return &QuestionError{Message: "no questions defined"}
	}

	seenQuestions := make(map[types.QuestionID]bool, len(questions))
	for qi := range questions {
		q := &questions[qi]
		if strings.TrimSpace(string(q.ID)) == "" {
			return &QuestionError{Message: fmt.Sprintf("question %d has an empty id", qi+1)}
		}
		if seenQuestions[q.ID] {
			return &QuestionError{Question: q.ID, Message: "duplicate question id"}
		}
		seenQuestions[q.ID] = true

		if len(q.Options) == 0 {
			return &QuestionError{Question: q.ID, Message: "no options defined"}
		}

		seenOptions := make(map[types.OptionValue]bool, len(q.Options))
		for oi := range q.Options {
			o := &q.Options[oi]
			if strings.TrimSpace(string(o.Value)) == "" {
				return &QuestionError{Question: q.ID, Message: fmt.Sprintf("option %d has an empty value", oi+1)}
			}
			if seenOptions[o.Value] {
				return &QuestionError{Question: q.ID, Option: o.Value, Message: "duplicate option value"}
			}
			seenOptions[o.Value] = true

			if len(o.WeightTags) == 0 {
				return &QuestionError{Question: q.ID, Option: o.Value, Message: "no weight tags"}
			}
			for ti, tag := range o.WeightTags {
				tag = strings.ToLower(strings.TrimSpace(tag))
				if tag == "" {
					return &QuestionError{Question: q.ID, Option: o.Value, Message: "empty weight tag"}
				}
				o.WeightTags[ti] = tag
			}
		}
	}
	return nil
}

// questionFile is the on-disk layout of a quiz override.
type questionFile struct {
	Questions []types.QuizQuestion `yaml:"questions"`
}

// LoadQuestions reads a YAML quiz definition and validates it.
func LoadQuestions(path string) ([]types.QuizQuestion, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read quiz file %s: %w", path, err)
	}

	var f questionFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("failed to parse quiz file %s: %w", path, err)
	}

	if err := ValidateQuestions(f.Questions); err != nil {
		return nil, err
	}
	return f.Questions, nil
}

// FindQuestion returns the question with the given id, or nil.
func FindQuestion(questions []types.QuizQuestion, id types.QuestionID) *types.QuizQuestion {
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i]
		}
	}
	return nil
}
