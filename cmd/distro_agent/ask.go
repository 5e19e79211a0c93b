package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/distro-catalog/internal/advisor"
	"github.com/jonathan/distro-catalog/internal/llm"
	"github.com/jonathan/distro-catalog/internal/types"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask the AI assistant an installation question",
	Long: `Ask the configured AI provider a question about installing or using a
distribution. Pass --distro to ground the answer in a catalog record.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var (
	askDistro         string
	askPlatform       string
	askSkill          string
	askAllowHostedISO bool
)

func init() {
	askCmd.Flags().StringVarP(&askDistro, "distro", "d", "", "Catalog id the question is about")
	askCmd.Flags().StringVar(&askPlatform, "platform", string(types.PlatformLinux), "Platform you are installing from: windows, wsl, macos, linux")
	askCmd.Flags().StringVar(&askSkill, "skill", string(types.TargetBeginner), "Your skill level: beginner, intermediate, advanced")
	askCmd.Flags().BoolVar(&askAllowHostedISO, "allow-hosted-iso", false, "Allow answers that point at hosted ISO mirrors")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()

	client, err := llm.Open(cmd.Context(), cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	req := types.AIQueryRequest{
		Query:          strings.Join(args, " "),
		DistroID:       askDistro,
		Platform:       types.Platform(strings.ToLower(askPlatform)),
		UserProfile:    types.UserProfile{SkillLevel: types.TargetUser(strings.ToLower(askSkill))},
		AllowHostedISO: askAllowHostedISO,
	}

	resp, err := advisor.New(client, newCatalog(cfg)).Query(cmd.Context(), req)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	printer(cmd).PrintAIResponse(resp)
	return nil
}
