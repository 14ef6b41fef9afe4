package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wagerpong/internal/api/request"
	"github.com/mcoot/wagerpong/internal/api/response"
	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/storage"
)

// ResultsHandler handles match result endpoints
type ResultsHandler struct {
	storage storage.Storage
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(storage storage.Storage) *ResultsHandler {
	return &ResultsHandler{
		storage: storage,
	}
}

// List handles GET /api/v1/results
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := request.Limit(r)
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	results, err := h.storage.ListMatchResults(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResultsFromModel(results))
}

// Get handles GET /api/v1/results/{id}
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ResultID(mux.Vars(r)["id"])

	result, err := h.storage.GetMatchResult(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResultFromModel(result))
}

// ListForPlayer handles GET /api/v1/players/{id}/results
func (h *ResultsHandler) ListForPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["id"])

	limit, err := request.Limit(r)
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	results, err := h.storage.ListPlayerResults(r.Context(), playerID, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResultsFromModel(results))
}
