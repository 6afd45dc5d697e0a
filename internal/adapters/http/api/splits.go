package api

import (
	"context"
	"net/http"

	"github.com/okian/stride/internal/ingest"
)

// SplitsProvider analyzes the per-km splits export in the data directory.
type SplitsProvider interface {
	AnalyzeSplits(ctx context.Context, activityID string) (ingest.SplitAnalysis, error)
}

// SplitsHandler serves split pacing summaries.
type SplitsHandler struct {
	provider SplitsProvider
}

// NewSplitsHandler creates a new splits handler.
func NewSplitsHandler(provider SplitsProvider) *SplitsHandler {
	return &SplitsHandler{provider: provider}
}

// HandleSplits handles GET /splits requests. An optional activity_id query
// parameter tags the analysis.
func (h *SplitsHandler) HandleSplits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	analysis, err := h.provider.AnalyzeSplits(r.Context(), r.URL.Query().Get("activity_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "splits_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
