package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one distribution in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	d, ok := newCatalog(currentConfig()).LoadOne(cmd.Context(), args[0])
	if !ok {
		return fmt.Errorf("distribution %q not found", args[0])
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), d)
	}
	printer(cmd).PrintDistro(d)
	return nil
}
