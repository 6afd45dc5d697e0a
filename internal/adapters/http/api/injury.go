package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/stride/internal/domain/injury"
)

// InjuryHandler serves recovery plans for injury reports.
type InjuryHandler struct {
	deps Dependencies
}

// NewInjuryHandler creates a new injury handler.
func NewInjuryHandler(deps Dependencies) *InjuryHandler {
	return &InjuryHandler{deps: deps}
}

// injuryResponse wraps a plan together with the known injury types so clients
// can discover what the service covers.
type injuryResponse struct {
	Plan       injury.Plan `json:"plan"`
	KnownTypes []string    `json:"known_types"`
}

// HandleInjury handles POST /injury requests.
func (h *InjuryHandler) HandleInjury(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req injury.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	plan, err := h.deps.InjuryPlan(r.Context(), req)
	switch {
	case errors.Is(err, injury.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err)
		return
	case errors.Is(err, injury.ErrUnknownInjury):
		writeError(w, http.StatusNotFound, "unknown_injury", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, injuryResponse{
		Plan:       plan,
		KnownTypes: injury.Types(),
	})
}
