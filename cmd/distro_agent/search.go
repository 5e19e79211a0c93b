package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the catalog by name, description or tag",
	Long:  "Case-insensitive substring search over names, descriptions and tags. An empty query lists everything.",
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	records, err := newCatalog(currentConfig()).Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), records)
	}
	title := "SEARCH RESULTS"
	if query != "" {
		title = fmt.Sprintf("SEARCH: %s", query)
	}
	printer(cmd).PrintDistroList(title, records)
	return nil
}
