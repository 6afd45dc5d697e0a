package api

import (
	"net/http"

	service "github.com/okian/stride/internal/app"
	"github.com/okian/stride/internal/domain/model"
)

// AnalyzeHandler runs the pipeline on data already in the data directory.
type AnalyzeHandler struct {
	deps Dependencies
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps Dependencies) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps}
}

// analyzeResponse is the result of a pipeline run triggered over HTTP.
type analyzeResponse struct {
	RunID   string                      `json:"run_id"`
	Results map[int]service.PhaseResult `json:"results"`
	AITips  model.TipsOutput            `json:"ai_tips"`
}

// HandleAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	report, err := h.deps.Run(r.Context(), service.RunOptions{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "pipeline_failed", err)
		return
	}
	plan, err := h.deps.Tips()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "tips_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		RunID:   report.RunID,
		Results: report.Results,
		AITips:  plan,
	})
}
