package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jonathan/distro-catalog/internal/advisor"
	"github.com/jonathan/distro-catalog/internal/llm"
	"github.com/jonathan/distro-catalog/internal/logging"
	"github.com/jonathan/distro-catalog/internal/recommend"
	"github.com/jonathan/distro-catalog/internal/schemas"
	"github.com/jonathan/distro-catalog/internal/types"
	schemafiles "github.com/jonathan/distro-catalog/schemas"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score quiz answers against the catalog",
	Long: `Score a set of quiz answers and print the best matching distributions.
Answers come from a JSON file ({"experience": "beginner", ...}) and/or repeated
--answer question=option flags; flags override the file.`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

var (
	recommendAnswersFile string
	recommendAnswers     []string
	recommendExplain     bool
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendAnswersFile, "answers", "a", "", "Path to a JSON answers file")
	recommendCmd.Flags().StringArrayVar(&recommendAnswers, "answer", nil, "Answer as question=option (repeatable)")
	recommendCmd.Flags().BoolVar(&recommendExplain, "explain", false, "Ask the AI assistant to explain the ranking")

	rootCmd.AddCommand(recommendCmd)
}

// collectAnswers merges the answers file and --answer flags into one document.
func collectAnswers(file string, pairs []string) (map[string]string, error) {
	answers := make(map[string]string)

	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read answers file: %w", err)
		}
		if err := json.Unmarshal(content, &answers); err != nil {
			return nil, fmt.Errorf("failed to parse answers file %s: %w", file, err)
		}
	}

	for _, pair := range pairs {
		q, o, ok := strings.Cut(pair, "=")
		q, o = strings.TrimSpace(q), strings.TrimSpace(o)
		if !ok || q == "" || o == "" {
			return nil, fmt.Errorf("invalid --answer %q: expected question=option", pair)
		}
		answers[q] = o
	}
	return answers, nil
}

// checkAnswers rejects question ids and options the quiz does not define.
// The HTTP API skips them instead.
func checkAnswers(questions []types.QuizQuestion, answers types.AnswerSet) error {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	for _, id := range ids {
		q := recommend.FindQuestion(questions, types.QuestionID(id))
		if q == nil {
			return fmt.Errorf("unknown question %q", id)
		}
		value := answers[types.QuestionID(id)]
		if q.Option(value) == nil {
			valid := make([]string, len(q.Options))
			for i, o := range q.Options {
				valid[i] = string(o.Value)
			}
			return fmt.Errorf("unknown option %q for question %q (choose from %s)", value, id, strings.Join(valid, ", "))
		}
	}
	return nil
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	cfg := currentConfig()

	raw, err := collectAnswers(recommendAnswersFile, recommendAnswers)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("no answers given: use --answers or --answer")
	}

	doc, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	validator, err := schemas.ForSchema(schemafiles.QuizAnswersSchema)
	if err != nil {
		return err
	}
	if err := validator.ValidateBytes(doc); err != nil {
		return fmt.Errorf("invalid answers: %w", err)
	}

	questions, err := quizQuestions(cfg)
	if err != nil {
		return err
	}
	answers := make(types.AnswerSet, len(raw))
	for q, o := range raw {
		answers[types.QuestionID(q)] = types.OptionValue(o)
	}
	if err := checkAnswers(questions, answers); err != nil {
		return err
	}

	catalogSvc := newCatalog(cfg)
	records, err := catalogSvc.LoadAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	recs := &types.Recommendations{
		Ranked: recommend.ScoreAndRankWith(recommend.Rules(), questions, answers, records),
	}

	if recommendExplain && len(recs.Ranked) > 0 {
		client, err := llm.Open(cmd.Context(), cfg.LLM)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		if client != nil {
			defer func() { _ = client.Close() }()
		}
		explanation, err := advisor.New(client, catalogSvc).Explain(cmd.Context(), answers, recs.Ranked)
		if err != nil {
			logging.Warn().Err(err).Msg("could not explain recommendations")
		} else {
			recs.Explanation = explanation
		}
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), recs)
	}
	printer(cmd).PrintRecommendations(recs)
	return nil
}
