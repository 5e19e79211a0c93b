//nolint:revive // types is a standard Go package name pattern
package types

// QuestionID identifies a quiz question.
type QuestionID string

// OptionValue identifies a chosen option within a question.
type OptionValue string

// Well-known question ids referenced by scoring rules.
const (
	QuestionExperience   QuestionID = "experience"
	QuestionPurpose      QuestionID = "purpose"
	QuestionInterface    QuestionID = "interface"
	QuestionInstallation QuestionID = "installation"
	QuestionSystem       QuestionID = "system"
)

// QuizQuestion is a static, code-defined questionnaire entry.
type QuizQuestion struct {
	ID      QuestionID   `json:"id" yaml:"id"`
	Prompt  string       `json:"prompt" yaml:"prompt"`
	Options []QuizOption `json:"options" yaml:"options"`
}

// QuizOption is one selectable answer. Choosing it contributes WeightTags to the profile.
type QuizOption struct {
	Value      OptionValue `json:"value" yaml:"value"`
	Label      string      `json:"label" yaml:"label"`
	WeightTags []string    `json:"weight_tags" yaml:"weight_tags"`
}

// Option returns the option with the given value, or nil.
func (q *QuizQuestion) Option(v OptionValue) *QuizOption {
	for i := range q.Options {
		if q.Options[i].Value == v {
			return &q.Options[i]
		}
	}
	return nil
}

// AnswerSet maps a question to the chosen option. Partial sets are valid.
type AnswerSet map[QuestionID]OptionValue

// ScoredCandidate pairs a catalog record with its match score.
type ScoredCandidate struct {
	Distro    *Distro        `json:"distro"`
	Score     int            `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// ScoreBreakdown records which scoring terms contributed to a candidate's score.
type ScoreBreakdown struct {
	Audience    int      `json:"audience"`
	TagOverlap  int      `json:"tag_overlap"`
	MatchedTags []string `json:"matched_tags"`
	Bonus       int      `json:"bonus"`
	FiredRules  []string `json:"fired_rules"`
	Notes       string   `json:"notes"`
}

// Recommendations is the response envelope for a scored quiz.
type Recommendations struct {
	Ranked      []ScoredCandidate `json:"ranked"`
	Explanation string            `json:"explanation,omitempty"`
}
