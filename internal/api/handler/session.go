package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/mcoot/wagerpong/internal/api/response"
	"github.com/mcoot/wagerpong/internal/model"
)

// queryTimeout bounds how long a request waits on the engine worker
const queryTimeout = 2 * time.Second

// SessionReader answers read-only queries against the live session store
type SessionReader interface {
	Roster(ctx context.Context) ([]model.PlayerSummary, error)
	Stats(ctx context.Context) (model.Stats, error)
}

// ConnectionCounter reports live transport connections
type ConnectionCounter interface {
	ClientCount() int
}

// SessionHandler handles live session endpoints
type SessionHandler struct {
	sessions    SessionReader
	connections ConnectionCounter
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions SessionReader, connections ConnectionCounter) *SessionHandler {
	return &SessionHandler{
		sessions:    sessions,
		connections: connections,
	}
}

// Players handles GET /api/v1/players
func (h *SessionHandler) Players(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	roster, err := h.sessions.Roster(ctx)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromRoster(roster))
}

// Stats handles GET /api/v1/stats
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	stats, err := h.sessions.Stats(ctx)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats, h.connections.ClientCount()))
}
