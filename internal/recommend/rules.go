package recommend

import (
	"strings"

	"github.com/jonathan/distro-catalog/internal/types"
)

// Rule awards Points to a record when the user gave Answer to Question and
// Predicate holds for the record.
type Rule struct {
	Name      string
	Question  types.QuestionID
	Answer    types.OptionValue
	Predicate func(d *types.Distro) bool
	Points    int
}

// Applies reports whether the rule fires for d under answers.
func (r Rule) Applies(answers types.AnswerSet, d *types.Distro) bool {
	if v, ok := answers[r.Question]; !ok || v != r.Answer {
		return false
	}
	return r.Predicate(d)
}

// Rules returns the bonus table in evaluation order.
func Rules() []Rule {
	return []Rule{
		{Name: "gaming-garuda", Question: types.QuestionPurpose, Answer: "gaming", Predicate: nameContainsAny("garuda"), Points: 15},
		{Name: "gaming-pop", Question: types.QuestionPurpose, Answer: "gaming", Predicate: nameContainsAny("pop"), Points: 10},
		{Name: "server-rhel-rebuilds", Question: types.QuestionPurpose, Answer: "server", Predicate: nameContainsAny("centos", "rocky", "alma"), Points: 15},
		{Name: "programming-dev-desktops", Question: types.QuestionPurpose, Answer: "programming", Predicate: nameContainsAny("ubuntu", "fedora", "pop"), Points: 10},
		{Name: "daily-friendly-desktops", Question: types.QuestionPurpose, Answer: "daily", Predicate: nameContainsAny("mint", "ubuntu", "zorin"), Points: 10},
		{Name: "windows-like-desktops", Question: types.QuestionInterface, Answer: "windows-like", Predicate: nameContainsAny("zorin", "mint"), Points: 12},
		{Name: "mac-like-elementary", Question: types.QuestionInterface, Answer: "mac-like", Predicate: nameContainsAny("elementary"), Points: 15},
		{Name: "minimal-light-flavours", Question: types.QuestionInterface, Answer: "minimal", Predicate: nameContainsAny("lubuntu", "xubuntu", "lite"), Points: 12},
		{Name: "customizable-arch-family", Question: types.QuestionInterface, Answer: "customizable", Predicate: nameContainsAny("arch", "manjaro", "endeavour"), Points: 12},
		{Name: "old-hardware", Question: types.QuestionSystem, Answer: "old", Predicate: ramAtMost(1024), Points: 15},
		{Name: "moderate-hardware", Question: types.QuestionSystem, Answer: "moderate", Predicate: ramAtMost(2048), Points: 10},
		{Name: "modern-hardware", Question: types.QuestionSystem, Answer: "modern", Predicate: ramAtMost(4096), Points: 5},
		{Name: "high-end-hardware", Question: types.QuestionSystem, Answer: "high-end", Predicate: ramAtLeast(4096), Points: 10},
	}
}

// nameContainsAny matches records whose name contains any of the lower-case needles, ignoring case.
func nameContainsAny(needles ...string) func(d *types.Distro) bool {
	return func(d *types.Distro) bool {
		name := strings.ToLower(d.Name)
		for _, n := range needles {
			if strings.Contains(name, n) {
				return true
			}
		}
		return false
	}
}

func ramAtMost(mb int) func(d *types.Distro) bool {
	return func(d *types.Distro) bool { return d.MinRAMMB <= mb }
}

func ramAtLeast(mb int) func(d *types.Distro) bool {
	return func(d *types.Distro) bool { return d.MinRAMMB >= mb }
}
