// Package api declares HTTP contracts and route registration helpers for the
// running analysis service.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/stride/internal/app"
	"github.com/okian/stride/internal/config"
	"github.com/okian/stride/internal/domain/injury"
	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/ingest"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the pipeline service.
type Dependencies interface {
	// Run executes pipeline phases and reports their outcome.
	Run(ctx context.Context, opts service.RunOptions) (service.RunReport, error)

	// Tips returns the stored training plan from the last prediction.
	Tips() (model.TipsOutput, error)

	// InjuryPlan builds a recovery plan for an injury report.
	InjuryPlan(ctx context.Context, req injury.Request) (injury.Plan, error)

	// GetStats exposes pipeline statistics for monitoring.
	GetStats() map[string]interface{}

	// AnalyzeSplits summarizes the per-km splits export.
	AnalyzeSplits(ctx context.Context, activityID string) (ingest.SplitAnalysis, error)

	// Config exposes the data directory layout for uploads.
	Config() *config.Config
}

// Server wires HTTP routes for the analysis API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	uploadHandler  *UploadHandler
	analyzeHandler *AnalyzeHandler
	injuryHandler  *InjuryHandler
	splitsHandler  *SplitsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		uploadHandler:  NewUploadHandler(deps),
		analyzeHandler: NewAnalyzeHandler(deps),
		injuryHandler:  NewInjuryHandler(deps),
		splitsHandler:  NewSplitsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/upload", MetricsMiddleware(s.uploadHandler.HandleUpload, "upload"))
	mux.HandleFunc("/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/injury", MetricsMiddleware(s.injuryHandler.HandleInjury, "injury"))
	mux.HandleFunc("/splits", MetricsMiddleware(s.splitsHandler.HandleSplits, "splits"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
