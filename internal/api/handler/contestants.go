package handler

import (
	"encoding/json"
	"net/http"

	"github.com/neu-balayan/pageantscore/internal/api/apierr"
	"github.com/neu-balayan/pageantscore/internal/api/request"
	"github.com/neu-balayan/pageantscore/internal/api/response"
	"github.com/neu-balayan/pageantscore/internal/services/roster"
)

// ContestantHandler handles roster endpoints
type ContestantHandler struct {
	roster *roster.Service
}

// NewContestantHandler creates a new contestant handler
func NewContestantHandler(rosterService *roster.Service) *ContestantHandler {
	return &ContestantHandler{
		roster: rosterService,
	}
}

// List handles GET /api/v1/contestants?category=Mr
func (h *ContestantHandler) List(w http.ResponseWriter, r *http.Request) {
	contestants, err := h.roster.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ContestantListFromModel(contestants))
}

// Create handles POST /api/v1/contestants. A blank name is accepted and
// ignored with 204 No Content.
func (h *ContestantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.AddContestantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	c, err := h.roster.Add(r.Context(), req.Name, req.Category)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if c == nil {
		response.NoContent(w)
		return
	}

	response.JSON(w, http.StatusCreated, response.ContestantFromModel(*c))
}

// Counts handles GET /api/v1/contestants/counts
func (h *ContestantHandler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.roster.Counts(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CountsFromModel(counts))
}
