// Package observability provides formatted, human-readable output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/distro-catalog/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n bytes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// PrintDistroList outputs one line per distribution.
func (p *Printer) PrintDistroList(title string, records []*types.Distro) {
	if len(records) == 0 {
		p.printBox(title, "No distributions matched.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-14s %-20s %-11s %s\n", "ID", "NAME", "FAMILY", "MIN RAM"))
	for _, d := range records {
		sb.WriteString(fmt.Sprintf("%-14s %-20s %-11s %d MB\n",
			truncate(d.ID, 14), truncate(d.Name, 20), truncate(string(d.Family), 11), d.MinRAMMB))
	}
	sb.WriteString(fmt.Sprintf("\n%d distributions", len(records)))

	p.printBox(title, sb.String())
}

// PrintDistro outputs the full record for one distribution.
func (p *Printer) PrintDistro(d *types.Distro) {
	if d == nil {
		return
	}

	var sb strings.Builder
	version := d.LatestVersion
	if d.Codename != "" {
		version += fmt.Sprintf(" (%s)", d.Codename)
	}
	sb.WriteString(fmt.Sprintf("Version:   %s, released %s\n", version, d.ReleaseDate))
	sb.WriteString(fmt.Sprintf("Family:    %s\n", d.Family))
	sb.WriteString(fmt.Sprintf("For:       %s\n", joinTargets(d.TargetUsers)))
	if len(d.DesktopEnvironments) > 0 {
		sb.WriteString(fmt.Sprintf("Desktops:  %s\n", strings.Join(d.DesktopEnvironments, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Packages:  %s, kernel %s\n", d.PackageManager, d.Kernel))
	sb.WriteString(fmt.Sprintf("Needs:     %d MB RAM, %d MB disk\n", d.MinRAMMB, d.MinStorageMB))
	sb.WriteString(fmt.Sprintf("License:   %s\n", d.License))
	if d.PopularityRank != nil {
		sb.WriteString(fmt.Sprintf("Rank:      #%d\n", *d.PopularityRank))
	}
	if len(d.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags:      %s\n", strings.Join(d.Tags, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Docs:      %s\n", d.OfficialDocsURL))

	if len(d.ISOFiles) > 0 {
		sb.WriteString("\nISO images:\n")
		count := min(len(d.ISOFiles), maxItemsToShow)
		for i := 0; i < count; i++ {
			iso := d.ISOFiles[i]
			sb.WriteString(fmt.Sprintf("  • %s (%.0f MB)\n", iso.Filename, iso.SizeMB))
			sb.WriteString(fmt.Sprintf("    sha256 %s\n", truncate(iso.SHA256, 40)))
		}
		if len(d.ISOFiles) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(d.ISOFiles)-maxItemsToShow))
		}
	}

	if len(d.InstallSteps) > 0 {
		sb.WriteString("\nInstall steps:\n")
		total := 0
		for i, step := range d.InstallSteps {
			total += step.EstimatedMinutes
			line := fmt.Sprintf("  %d. %s (%d min)", i+1, step.Title, step.EstimatedMinutes)
			if step.Risk == "high" {
				line += " ⚠"
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString(fmt.Sprintf("  about %d minutes in total\n", total))
	}

	if d.Notes != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", d.Notes))
	}

	p.printBox(strings.ToUpper(d.Name), strings.TrimSuffix(sb.String(), "\n"))
}

func joinTargets(targets []types.TargetUser) string {
	parts := make([]string, len(targets))
	for i, t := range targets {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

// PrintRecommendations outputs ranked quiz results with their score breakdowns.
func (p *Printer) PrintRecommendations(recs *types.Recommendations) {
	if recs == nil || len(recs.Ranked) == 0 {
		p.printBox("RECOMMENDATIONS", "No distribution matched your answers.\nTry answering more questions.")
		return
	}

	var sb strings.Builder
	for i, c := range recs.Ranked {
		sb.WriteString(fmt.Sprintf("#%d  %s  (score %d)\n", i+1, c.Distro.Name, c.Score))
		if len(c.Breakdown.MatchedTags) > 0 {
			sb.WriteString(fmt.Sprintf("    Tags: %s\n", truncate(strings.Join(c.Breakdown.MatchedTags, ", "), 44)))
		}
		if len(c.Breakdown.FiredRules) > 0 {
			sb.WriteString(fmt.Sprintf("    Bonus: +%d %s\n", c.Breakdown.Bonus, strings.Join(c.Breakdown.FiredRules, ", ")))
		}
		if c.Breakdown.Notes != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", c.Breakdown.Notes))
		}
		if i < len(recs.Ranked)-1 {
			sb.WriteString("\n")
		}
	}

	if recs.Explanation != "" {
		sb.WriteString("\n")
		sb.WriteString(wrap(recs.Explanation, boxWidth-4))
	}

	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidationReport summarizes a catalog validation run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidationReport(valid int, problems []error) {
	if len(problems) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("✅ %d RECORDS VALID", valid))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d valid, %d rejected:\n\n", valid, len(problems)))
	for i, err := range problems {
		sb.WriteString(fmt.Sprintf("⚠ %s", wrap(err.Error(), boxWidth-6)))
		if i < len(problems)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox("CATALOG PROBLEMS", sb.String())
}

// PrintAIResponse outputs an assistant answer with its steps, commands and sources.
func (p *Printer) PrintAIResponse(resp *types.AIResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(wrap(resp.AnswerMD, boxWidth-4))

	if len(resp.Steps) > 0 {
		sb.WriteString("\n\nSteps:\n")
		for i, s := range resp.Steps {
			sb.WriteString(fmt.Sprintf("  %d. %s", i+1, s.Title))
			if s.EstimatedMinutes > 0 {
				sb.WriteString(fmt.Sprintf(" (%d min)", s.EstimatedMinutes))
			}
			sb.WriteString("\n")
		}
	}

	if len(resp.Commands) > 0 {
		sb.WriteString("\nCommands:\n")
		for _, c := range resp.Commands {
			marker := "$"
			if c.ConfirmRequired {
				marker = "⚠ $"
			}
			sb.WriteString(fmt.Sprintf("  %s %s\n", marker, c.Command))
		}
	}

	if len(resp.Sources) > 0 {
		sb.WriteString("\nSources:\n")
		for _, s := range resp.Sources {
			sb.WriteString(fmt.Sprintf("  • %s\n    %s\n", s.Label, s.URL))
		}
	}

	if resp.Followup != nil && *resp.Followup != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", wrap(*resp.Followup, boxWidth-4)))
	}

	p.printBox("ASSISTANT", strings.TrimSuffix(sb.String(), "\n"))
}

// wrap breaks text into lines of at most width bytes on word boundaries.
func wrap(text string, width int) string {
	var out []string
	for _, para := range strings.Split(strings.TrimSpace(text), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
