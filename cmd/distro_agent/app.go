package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jonathan/distro-catalog/internal/catalog"
	"github.com/jonathan/distro-catalog/internal/config"
	"github.com/jonathan/distro-catalog/internal/observability"
	"github.com/jonathan/distro-catalog/internal/recommend"
	"github.com/jonathan/distro-catalog/internal/types"
)

// currentConfig returns the loaded configuration, falling back to defaults
// when a command runs without the root pre-run (as in tests).
func currentConfig() *config.Config {
	if appConfig == nil {
		appConfig = config.Default()
		if catalogDir != "" {
			appConfig.Catalog.Dir = catalogDir
		}
	}
	return appConfig
}

// newCatalog builds the cached catalog service for the configured directory.
func newCatalog(cfg *config.Config) *catalog.Service {
	return catalog.NewService(catalog.NewCached(catalog.NewRepository(cfg.Catalog.Dir), cfg.Catalog.CacheTTL))
}

// quizQuestions returns the quiz override from catalog.quiz_file, or the built-in quiz.
func quizQuestions(cfg *config.Config) ([]types.QuizQuestion, error) {
	if cfg.Catalog.QuizFile == "" {
		return recommend.DefaultQuestions(), nil
	}
	questions, err := recommend.LoadQuestions(cfg.Catalog.QuizFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	return questions, nil
}

func printer(cmd *cobra.Command) *observability.Printer {
	return observability.NewPrinter(cmd.OutOrStdout())
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
