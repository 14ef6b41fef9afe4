package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wagerpong/internal/api/handler"
	"github.com/mcoot/wagerpong/internal/api/middleware"
	"github.com/mcoot/wagerpong/internal/api/response"
	"github.com/mcoot/wagerpong/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Sessions    handler.SessionReader
	Connections handler.ConnectionCounter
	Storage     storage.Storage
	// WebSocket serves the game connection at /ws
	WebSocket http.Handler
	// StaticDir is served at / when set
	StaticDir string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.Sessions, cfg.Connections)
	resultsHandler := handler.NewResultsHandler(cfg.Storage)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// Game connection
	r.Handle("/ws", recoveryMiddleware(loggingMiddleware(cfg.WebSocket))).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Live session routes
	api.HandleFunc("/players", sessionHandler.Players).Methods(http.MethodGet)
	api.HandleFunc("/stats", sessionHandler.Stats).Methods(http.MethodGet)

	// Match result routes
	api.HandleFunc("/results", resultsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/results/{id}", resultsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/results", resultsHandler.ListForPlayer).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	api.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	// Browser client
	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	handler.WriteError(w, handler.NewNotFoundError())
}
