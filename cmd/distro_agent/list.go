package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/distro-catalog/internal/catalog"
	"github.com/jonathan/distro-catalog/internal/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog distributions",
	Long: `List every valid catalog record, most popular first. Filters combine with AND;
--tags matches records carrying any of the given tags.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listFamily string
	listTarget string
	listTags   []string
	listMinRAM int
)

func init() {
	listCmd.Flags().StringVar(&listFamily, "family", "", "Only this family (Debian, Arch, Red Hat, ...)")
	listCmd.Flags().StringVar(&listTarget, "target", "", "Only distributions aimed at this audience (beginner, developer, server, ...)")
	listCmd.Flags().StringSliceVar(&listTags, "tags", nil, "Comma-separated tags; a record needs at least one")
	listCmd.Flags().IntVar(&listMinRAM, "min-ram", 0, "RAM of the target machine in MB; drops records that need more")

	rootCmd.AddCommand(listCmd)
}

// parseFamily matches a family name case-insensitively.
func parseFamily(name string) (types.Family, error) {
	if name == "" {
		return "", nil
	}
	for _, f := range types.Families() {
		if strings.EqualFold(string(f), name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown family %q", name)
}

func runList(cmd *cobra.Command, _ []string) error {
	family, err := parseFamily(listFamily)
	if err != nil {
		return err
	}
	if listMinRAM < 0 {
		return fmt.Errorf("--min-ram must not be negative")
	}

	criteria := catalog.Criteria{
		Family:     family,
		TargetUser: types.TargetUser(strings.ToLower(strings.TrimSpace(listTarget))),
		MinRAMMB:   listMinRAM,
	}
	for _, t := range listTags {
		if t = strings.TrimSpace(t); t != "" {
			criteria.Tags = append(criteria.Tags, t)
		}
	}

	records, err := newCatalog(currentConfig()).Filter(cmd.Context(), criteria)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), records)
	}
	printer(cmd).PrintDistroList("DISTRIBUTIONS", records)
	return nil
}
