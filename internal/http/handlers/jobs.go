package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shotserver/internal/domain"
)

type jobStatusResponse struct {
	ID          string          `json:"id"`
	ShotID      string          `json:"shot_id"`
	Status      string          `json:"status"`
	WorkerJobID string          `json:"worker_job_id,omitempty"`
	Error       string          `json:"error,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// JobStatus returns the current state of a render job. The stored payload is
// echoed so the front-end can restore its generation settings UI.
func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	job, err := a.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.requestLog(r).Error().Err(err).Str("job_id", jobID).Msg("job lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	a.json(w, http.StatusOK, jobStatusResponse{
		ID:          job.ID,
		ShotID:      job.ShotID,
		Status:      string(job.Status),
		WorkerJobID: job.WorkerJobID,
		Error:       job.ErrorMessage,
		Payload:     job.PayloadJSON,
	})
}
