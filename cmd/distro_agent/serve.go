package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/distro-catalog/internal/advisor"
	"github.com/jonathan/distro-catalog/internal/kvstore"
	"github.com/jonathan/distro-catalog/internal/llm"
	"github.com/jonathan/distro-catalog/internal/logging"
	"github.com/jonathan/distro-catalog/internal/prefs"
	"github.com/jonathan/distro-catalog/internal/server"
	"github.com/jonathan/distro-catalog/internal/server/ratelimit"
	"github.com/jonathan/distro-catalog/internal/submissions"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the catalog, quiz scoring, per-session
preferences, guides and the AI assistant as JSON endpoints.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := currentConfig()
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := buildServer(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return srv.Start(ctx)
}

// buildServer wires every backend named in the configuration. cleanup closes
// the preference store and the LLM client.
func buildServer(ctx context.Context) (*server.Server, func(), error) {
	cfg := currentConfig()

	questions, err := quizQuestions(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := kvstore.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open preference store: %w", err)
	}

	client, err := llm.Open(ctx, cfg.LLM)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	if client == nil {
		logging.Info().Msg("AI assistant disabled")
	}

	cleanup := func() {
		if client != nil {
			if err := client.Close(); err != nil {
				logging.Warn().Err(err).Msg("failed to close LLM client")
			}
		}
		if err := store.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close preference store")
		}
	}

	catalogSvc := newCatalog(cfg)
	deps := server.Deps{
		Catalog:     catalogSvc,
		Questions:   questions,
		Prefs:       prefs.NewService(store),
		Submissions: submissions.NewService(store, catalogSvc),
		Advisor:     advisor.New(client, catalogSvc),
		Limiter:     ratelimit.NewLimiter(ratelimit.FromSettings(cfg.RateLimit)),
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		deps.Limiter.Stop()
		cleanup()
		return nil, nil, fmt.Errorf("failed to create server: %w", err)
	}
	return srv, cleanup, nil
}
