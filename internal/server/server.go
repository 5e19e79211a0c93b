// Package server provides the HTTP REST API for the distro catalog.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/distro-catalog/internal/advisor"
	"github.com/jonathan/distro-catalog/internal/catalog"
	"github.com/jonathan/distro-catalog/internal/config"
	"github.com/jonathan/distro-catalog/internal/logging"
	"github.com/jonathan/distro-catalog/internal/prefs"
	"github.com/jonathan/distro-catalog/internal/recommend"
	"github.com/jonathan/distro-catalog/internal/schemas"
	"github.com/jonathan/distro-catalog/internal/server/middleware"
	"github.com/jonathan/distro-catalog/internal/server/ratelimit"
	"github.com/jonathan/distro-catalog/internal/submissions"
	"github.com/jonathan/distro-catalog/internal/types"
	schemafiles "github.com/jonathan/distro-catalog/schemas"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Deps are the services the API is built on.
type Deps struct {
	Catalog     *catalog.Service
	Questions   []types.QuizQuestion
	Rules       []recommend.Rule
	Prefs       *prefs.Service
	Submissions *submissions.Service
	Advisor     *advisor.Advisor
	Sessions    *SessionService
	Limiter     *ratelimit.Limiter
}

// Server represents the HTTP server
type Server struct {
	cfg           config.ServerConfig
	cookie        middleware.CookieOptions
	deps          Deps
	answersSchema *schemas.Validator
	router        chi.Router
	httpServer    *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Catalog == nil || deps.Prefs == nil || deps.Submissions == nil {
		return nil, fmt.Errorf("server requires catalog, preferences and submissions services")
	}
	if deps.Questions == nil {
		deps.Questions = recommend.DefaultQuestions()
	}
	if deps.Rules == nil {
		deps.Rules = recommend.Rules()
	}
	if deps.Advisor == nil {
		deps.Advisor = advisor.New(nil, deps.Catalog)
	}
	if deps.Sessions == nil {
		sessions, err := NewSessionService(cfg.Session)
		if err != nil {
			return nil, err
		}
		deps.Sessions = sessions
	}

	answersSchema, err := schemas.ForSchema(schemafiles.QuizAnswersSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz answers schema: %w", err)
	}

	s := &Server{
		cfg: cfg.Server,
		cookie: middleware.CookieOptions{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.TTL,
			Secure: cfg.Session.Secure,
		},
		deps:          deps,
		answersSchema: answersSchema,
	}
	s.router = s.routes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.withLogging)
	r.Use(chimw.Recoverer)
	r.Use(s.withCORS())
	if s.deps.Limiter != nil {
		r.Use(s.withRateLimit)
	}

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if s.cfg.RequestTimeout > 0 {
			r.Use(chimw.Timeout(s.cfg.RequestTimeout))
		}
		r.Use(middleware.Session(s.deps.Sessions.AsTokenService(), s.cookie))

		r.Route("/distros", func(r chi.Router) {
			r.Get("/", s.handleListDistros)
			r.Get("/search", s.handleSearchDistros)
			r.Get("/recommended", s.handleRecommendedDistros)
			r.Get("/{id}", s.handleGetDistro)
		})

		r.Get("/quiz", s.handleQuiz)
		r.Post("/quiz/score", s.handleScoreQuiz)

		r.Post("/ai/query", s.handleAIQuery)
		r.Get("/ai/health", s.handleAIHealth)

		r.Get("/favorites", s.handleListFavorites)
		r.Post("/favorites", s.handleToggleFavorite)
		r.Delete("/favorites", s.handleClearFavorites)

		r.Get("/reviews", s.handleListReviews)
		r.Post("/reviews", s.handleCreateReview)
		r.Put("/reviews/{id}", s.handleUpdateReview)
		r.Delete("/reviews/{id}", s.handleDeleteReview)

		r.Get("/compare-history", s.handleListCompareHistory)
		r.Post("/compare-history", s.handleAddComparison)
		r.Delete("/compare-history", s.handleClearCompareHistory)

		r.Get("/guides", s.handleListGuides)
		r.Get("/guides/{id}", s.handleGetGuide)

		r.Post("/submit", s.handleSubmit)
		r.Get("/submissions", s.handleListSubmissions)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

// Start listens for requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.stopBackground()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.stopBackground()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logging.Info().Msg("server stopped")
	return nil
}

func (s *Server) stopBackground() {
	if s.deps.Limiter != nil {
		s.deps.Limiter.Stop()
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":     "ok",
		"ai_enabled": s.deps.Advisor.Enabled(),
	}
	if records, err := s.deps.Catalog.LoadAll(r.Context()); err == nil {
		status["distros"] = len(records)
	} else {
		status["status"] = "degraded"
		status["error"] = "catalog unavailable"
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Err(err).Msg("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps a service error to its status. Internal failures are
// logged and reported without detail.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logging.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request failed")
		if errors.Is(err, advisor.ErrGenerationFailed) {
			s.errorResponse(w, status, advisor.ErrGenerationFailed.Error())
			return
		}
		s.errorResponse(w, status, "Internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a bounded JSON request body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Message: "invalid JSON body"}
	}
	return nil
}
