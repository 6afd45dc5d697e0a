package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	service "github.com/okian/stride/internal/app"
	"github.com/okian/stride/internal/domain/model"
)

// Multipart form field names accepted by POST /upload.
const (
	fieldActivities = "activities"
	fieldSplits     = "splits"
	fieldFIT        = "fit"
)

// maxUploadBytes caps the parsed multipart form size.
const maxUploadBytes = 64 << 20

// UploadHandler accepts Garmin exports and runs the pipeline over them.
type UploadHandler struct {
	deps Dependencies
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(deps Dependencies) *UploadHandler {
	return &UploadHandler{deps: deps}
}

// uploadResponse lists where the uploads landed and the resulting plan.
type uploadResponse struct {
	RunID   string                      `json:"run_id"`
	Saved   []string                    `json:"saved"`
	Results map[int]service.PhaseResult `json:"results"`
	AITips  model.TipsOutput            `json:"ai_tips"`
}

// HandleUpload handles POST /upload requests. The activities field lands at
// csv/Activities.csv, splits at csv/splits.csv and each fit file under fit/.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadUpload, err))
		return
	}

	cfg := h.deps.Config()
	var saved []string

	if file, _, err := r.FormFile(fieldActivities); err == nil {
		path := filepath.Join(cfg.CSVDir(), service.ActivitiesFileName)
		if err := saveUpload(file, path); err != nil {
			writeError(w, http.StatusInternalServerError, "save_failed", err)
			return
		}
		saved = append(saved, path)
	}

	if file, _, err := r.FormFile(fieldSplits); err == nil {
		path := filepath.Join(cfg.CSVDir(), service.SplitsFileName)
		if err := saveUpload(file, path); err != nil {
			writeError(w, http.StatusInternalServerError, "save_failed", err)
			return
		}
		saved = append(saved, path)
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File[fieldFIT] {
			file, err := header.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadUpload, err))
				return
			}
			path := filepath.Join(cfg.FITDir(), filepath.Base(header.Filename))
			if err := saveUpload(file, path); err != nil {
				writeError(w, http.StatusInternalServerError, "save_failed", err)
				return
			}
			saved = append(saved, path)
		}
	}

	if len(saved) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrNoFiles)
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
	writeJSON(w, http.StatusOK, uploadResponse{
		RunID:   report.RunID,
		Saved:   saved,
		Results: report.Results,
		AITips:  plan,
	})
}

// saveUpload streams one multipart file to disk, creating parent directories.
func saveUpload(src multipart.File, path string) error {
	defer src.Close()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write upload file: %w", err)
	}
	return nil
}
