package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jonathan/distro-catalog/internal/catalog"
	"github.com/jonathan/distro-catalog/internal/fetch"
	"github.com/jonathan/distro-catalog/internal/types"
)

var validateCatalogCmd = &cobra.Command{
	Use:   "validate-catalog",
	Short: "Validate every catalog record",
	Long: `Read every record in the catalog directory and report the ones the server
would skip: unreadable files, schema or field violations and duplicate ids.
The configured quiz file is validated too. With --check-links the docs, ISO and
screenshot URLs of every valid record are checked over HTTP.

Exits non-zero when any record is rejected or any link is broken.`,
	Args: cobra.NoArgs,
	RunE: runValidateCatalog,
}

var (
	validateCheckLinks  bool
	validateLinkTimeout time.Duration
	validateConcurrency int
	validateReport      string
)

func init() {
	validateCatalogCmd.Flags().BoolVar(&validateCheckLinks, "check-links", false, "Also check that record URLs are reachable")
	validateCatalogCmd.Flags().DurationVar(&validateLinkTimeout, "link-timeout", fetch.DefaultTimeout, "Per-request timeout for --check-links")
	validateCatalogCmd.Flags().IntVar(&validateConcurrency, "concurrency", fetch.DefaultConcurrency, "Links checked at once")
	validateCatalogCmd.Flags().StringVarP(&validateReport, "report", "r", "", "Write a JSON verification report to this path")

	rootCmd.AddCommand(validateCatalogCmd)
}

// ReportEntry is the verification outcome of one catalog file.
type ReportEntry struct {
	File   string   `json:"file"`
	ID     string   `json:"id,omitempty"`
	Status string   `json:"status"`
	Errors []string `json:"errors,omitempty"`
}

// ReportSummary counts report entries by outcome.
type ReportSummary struct {
	Total       int `json:"total"`
	Successful  int `json:"successful"`
	Errors      int `json:"errors"`
	BrokenLinks int `json:"broken_links"`
}

// VerificationReport is written by validate-catalog --report.
type VerificationReport struct {
	Timestamp time.Time          `json:"timestamp"`
	Directory string             `json:"directory"`
	Results   []ReportEntry      `json:"results"`
	QuizError string             `json:"quiz_error,omitempty"`
	Links     []fetch.LinkResult `json:"links,omitempty"`
	Summary   ReportSummary      `json:"summary"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// buildReport turns a validation run into per-file entries.
func buildReport(dir string, records []*types.Distro, problems []error) *VerificationReport {
	report := &VerificationReport{
		Timestamp: time.Now().UTC(),
		Directory: dir,
		Results:   make([]ReportEntry, 0, len(records)+len(problems)),
	}

	for _, d := range records {
		report.Results = append(report.Results, ReportEntry{File: d.ID + ".json", ID: d.ID, Status: statusSuccess})
	}
	for _, p := range problems {
		entry := ReportEntry{Status: statusError, Errors: []string{p.Error()}}
		var loadErr *catalog.LoadError
		var validationErr *catalog.ValidationError
		switch {
		case errors.As(p, &validationErr):
			entry.File, entry.ID = filepath.Base(validationErr.File), validationErr.ID
		case errors.As(p, &loadErr):
			entry.File = filepath.Base(loadErr.File)
		}
		report.Results = append(report.Results, entry)
	}

	report.Summary.Total = len(report.Results)
	report.Summary.Successful = len(records)
	report.Summary.Errors = len(problems)
	return report
}

func writeReport(path string, report *VerificationReport) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func runValidateCatalog(cmd *cobra.Command, _ []string) error {
	cfg := currentConfig()
	dir := cfg.Catalog.Dir

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("catalog directory not found: %s", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("catalog path is not a directory: %s", dir)
	}

	records, problems, err := catalog.NewRepository(dir).Validate(cmd.Context())
	if err != nil {
		return err
	}
	report := buildReport(dir, records, problems)

	if _, err := quizQuestions(cfg); err != nil {
		report.QuizError = err.Error()
		problems = append(problems, err)
	}

	if validateCheckLinks {
		opts := fetch.DefaultOptions()
		opts.Timeout = validateLinkTimeout
		links, err := fetch.CheckLinks(cmd.Context(), records, fetch.CheckOptions{Fetch: opts, Concurrency: validateConcurrency})
		if err != nil {
			return fmt.Errorf("link check interrupted: %w", err)
		}
		report.Links = links
		for _, l := range links {
			if !l.OK && !l.Skipped {
				report.Summary.BrokenLinks++
				problems = append(problems, fmt.Errorf("%s: broken %s link %s: %s", l.DistroID, l.Kind, l.URL, l.Error))
			}
		}
	}

	if validateReport != "" {
		if err := writeReport(validateReport, report); err != nil {
			return err
		}
	}

	if jsonOutput {
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printer(cmd).PrintValidationReport(len(records), problems)
	}

	if len(problems) > 0 {
		return fmt.Errorf("catalog validation found %d problem(s)", len(problems))
	}
	return nil
}
