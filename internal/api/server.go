package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/MJE43/golf-sidebets-go/internal/games"
	"github.com/MJE43/golf-sidebets-go/internal/store"
)

// Server handles HTTP requests
type Server struct {
	db             store.DB
	logger         zerolog.Logger
	errorHandler   *ErrorHandler
	origins        []string
	requestTimeout time.Duration
	startTime      time.Time
}

// NewServer creates a new API server
func NewServer(db store.DB, logger zerolog.Logger) *Server {
	server := &Server{
		db:             db,
		logger:         logger,
		errorHandler:   NewErrorHandler(logger),
		origins:        []string{"*"},
		requestTimeout: 60 * time.Second,
		startTime:      time.Now(),
	}

	logger.Info().
		Int("games_available", len(games.List())).
		Bool("database_enabled", db != nil).
		Str("service_version", ServiceVersion).
		Msg("api server initialized")

	return server
}

// AllowOrigins replaces the allowed CORS origins.
func (s *Server) AllowOrigins(origins ...string) {
	if len(origins) > 0 {
		s.origins = origins
	}
}

// SetRequestTimeout overrides the per-request deadline.
func (s *Server) SetRequestTimeout(d time.Duration) {
	if d > 0 {
		s.requestTimeout = d
	}
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.RequestLoggingMiddleware)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(s.requestTimeout))
	r.Use(s.CORSMiddleware)

	// Health and monitoring endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", s.handleListGames)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/", s.handleListSessions)
			r.Post("/import", s.handleImportSession)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/export", s.handleExportSession)
				r.Get("/summary", s.handleSummary)
				r.Get("/stats/{game}", s.handleStats)
				r.Get("/actions", s.handleListActions)
				r.Post("/actions", s.handleRecordAction)
				r.Delete("/actions/{actionID}", s.handleRemoveAction)
			})
		})
	})

	return r
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Service-Version", ServiceVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// If encoding fails, try to write a simple error response
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError builds a structured error from the request context, logs it,
// and writes it as the response
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string, context map[string]interface{}) {
	builder := NewError(errType, message).
		WithRequestID(middleware.GetReqID(r.Context()))
	for key, value := range context {
		builder.WithContext(key, value)
	}
	s.errorHandler.Handle(w, r, builder.Build(), status)
}
