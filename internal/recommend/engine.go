package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/distro-catalog/internal/types"
)

// Scoring constants
const (
	audiencePoints = 10
	tagPoints      = 5

	// TopN is the maximum number of ranked candidates returned.
	TopN = 5
)

// ExtractWeights collects the weight tags of every answered question, in question order.
// Repeats across questions are kept. Unknown questions and options contribute nothing.
func ExtractWeights(questions []types.QuizQuestion, answers types.AnswerSet) []string {
	weights := make([]string, 0)
	for i := range questions {
		value, ok := answers[questions[i].ID]
		if !ok {
			continue
		}
		option := questions[i].Option(value)
		if option == nil {
			continue
		}
		weights = append(weights, option.WeightTags...)
	}
	return weights
}

// distinctTags lower-cases tags and drops repeats, keeping first-seen order.
func distinctTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// audienceFor maps the experience answer to a target user, or "" when there is none.
func audienceFor(answers types.AnswerSet) types.TargetUser {
	level := types.TargetUser(answers[types.QuestionExperience])
	if !level.IsSkillLevel() {
		return ""
	}
	return level
}

// matchTags returns the weight tags that overlap any record tag. A weight tag matches
// when it contains a record tag or a record tag contains it, ignoring case.
func matchTags(d *types.Distro, weights []string) []string {
	recordTags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		if t = strings.ToLower(t); t != "" {
			recordTags = append(recordTags, t)
		}
	}

	matched := make([]string, 0)
	for _, w := range weights {
		for _, rt := range recordTags {
			if strings.Contains(rt, w) || strings.Contains(w, rt) {
				matched = append(matched, w)
				break
			}
		}
	}
	return matched
}

// Score computes one record's score and its breakdown.
// weights must already be distinct and lower-cased.
func Score(d *types.Distro, answers types.AnswerSet, weights []string, rules []Rule) types.ScoredCandidate {
	var b types.ScoreBreakdown

	if level := audienceFor(answers); level != "" && d.HasTargetUser(level) {
		b.Audience = audiencePoints
	}

	b.MatchedTags = matchTags(d, weights)
	b.TagOverlap = tagPoints * len(b.MatchedTags)

	b.FiredRules = make([]string, 0)
	for _, r := range rules {
		if r.Applies(answers, d) {
			b.Bonus += r.Points
			b.FiredRules = append(b.FiredRules, r.Name)
		}
	}

	b.Notes = generateNotes(answers, b)

	return types.ScoredCandidate{
		Distro:    d,
		Score:     b.Audience + b.TagOverlap + b.Bonus,
		Breakdown: b,
	}
}

// ScoreAndRank scores every record, drops zero scores, sorts by descending score
// keeping catalog order for ties, and returns at most TopN candidates.
// Scores are additive and unbounded. Output is never nil.
func ScoreAndRank(questions []types.QuizQuestion, answers types.AnswerSet, catalog []*types.Distro) []types.ScoredCandidate {
	return ScoreAndRankWith(Rules(), questions, answers, catalog)
}

// ScoreAndRankWith is ScoreAndRank with an explicit bonus table.
func ScoreAndRankWith(rules []Rule, questions []types.QuizQuestion, answers types.AnswerSet, catalog []*types.Distro) []types.ScoredCandidate {
	ranked := make([]types.ScoredCandidate, 0)
	if len(answers) == 0 {
		return ranked
	}

	weights := distinctTags(ExtractWeights(questions, answers))

	for _, d := range catalog {
		c := Score(d, answers, weights, rules)
		if c.Score > 0 {
			ranked = append(ranked, c)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return ranked
}

// generateNotes creates a brief explanation of a score.
func generateNotes(answers types.AnswerSet, b types.ScoreBreakdown) string {
	parts := make([]string, 0, 3)

	if b.Audience > 0 {
		parts = append(parts, fmt.Sprintf("Built for %s users", answers[types.QuestionExperience]))
	}
	if len(b.MatchedTags) > 0 {
		parts = append(parts, fmt.Sprintf("Matches %s", strings.Join(b.MatchedTags, ", ")))
	}
	if len(b.FiredRules) > 0 {
		parts = append(parts, fmt.Sprintf("Bonus: %s", strings.Join(b.FiredRules, ", ")))
	}

	if len(parts) == 0 {
		return "No match"
	}
	return strings.Join(parts, ". ")
}
