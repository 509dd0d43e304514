package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"shotserver/internal/domain"
	"shotserver/internal/domain/jsoncfg"
)

type createShotRequest struct {
	ProjectID      string `json:"project_id"`
	Name           string `json:"name"`
	SourceFilename string `json:"source_filename"`
}

// ShotCreate registers a new shot. A missing name is derived from the first
// uploaded image's filename.
func (a *App) ShotCreate(w http.ResponseWriter, r *http.Request) {
	var req createShotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ProjectID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project_id required")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = deriveShotName(req.SourceFilename)
	}
	shot := &domain.Shot{
		ID:        uuid.NewString(),
		ProjectID: req.ProjectID,
		Name:      name,
	}
	if err := a.Shots.CreateShot(r.Context(), shot); err != nil {
		a.requestLog(r).Error().Err(err).Msg("create shot failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create shot")
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"id": shot.ID, "name": shot.Name})
}

type shotResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShotGet returns the shot row.
func (a *App) ShotGet(w http.ResponseWriter, r *http.Request) {
	shotID := chi.URLParam(r, "shot_id")
	if shotID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "shot_id required")
		return
	}
	shot, err := a.Shots.GetShot(r.Context(), shotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "shot not found")
			return
		}
		a.requestLog(r).Error().Err(err).Str("shot_id", shotID).Msg("shot lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load shot")
		return
	}
	a.json(w, http.StatusOK, shotResponse{
		ID:        shot.ID,
		ProjectID: shot.ProjectID,
		Name:      shot.Name,
		CreatedAt: shot.CreatedAt,
		UpdatedAt: shot.UpdatedAt,
	})
}

// ShotSettingsUpdate persists the shot's generation settings. The document is
// normalized and validated here, so rows only ever hold well-formed settings.
func (a *App) ShotSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	shotID := chi.URLParam(r, "shot_id")
	if shotID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "shot_id required")
		return
	}

	var settings jsoncfg.SettingsJSON
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		a.error(w, http.StatusUnprocessableEntity, "invalid_settings", err.Error())
		return
	}

	if _, err := a.Shots.GetShot(r.Context(), shotID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "shot not found")
			return
		}
		a.requestLog(r).Error().Err(err).Str("shot_id", shotID).Msg("shot lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load shot")
		return
	}

	if err := a.Shots.UpdateSettings(r.Context(), shotID, jsoncfg.MustMarshal(settings)); err != nil {
		a.requestLog(r).Error().Err(err).Str("shot_id", shotID).Msg("update shot settings failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save settings")
		return
	}
	a.json(w, http.StatusOK, settings)
}

// ShotCompile runs a dry-run compilation and returns the payload without
// enqueuing anything. The front-end uses it to preview the plan.
func (a *App) ShotCompile(w http.ResponseWriter, r *http.Request) {
	shotID := chi.URLParam(r, "shot_id")
	if shotID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "shot_id required")
		return
	}

	payload, err := a.Compiler.Compile(r.Context(), shotID)
	if err != nil {
		a.writeCompileError(w, r, err)
		return
	}
	a.bump(r.Context(), "compilations")
	a.json(w, http.StatusOK, payload)
}

type generateResponse struct {
	JobID                 string `json:"job_id"`
	Status                string `json:"status"`
	AdvancedModeEffective bool   `json:"advanced_mode_effective"`
}

// ShotGenerate compiles the shot and enqueues the payload as a render job.
// The queue worker handles the actual submission to the GPU worker.
func (a *App) ShotGenerate(w http.ResponseWriter, r *http.Request) {
	shotID := chi.URLParam(r, "shot_id")
	if shotID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "shot_id required")
		return
	}

	payload, err := a.Compiler.Compile(r.Context(), shotID)
	if err != nil {
		a.writeCompileError(w, r, err)
		return
	}

	job := &domain.RenderJob{
		ID:          uuid.NewString(),
		ShotID:      shotID,
		Status:      domain.RenderJobQueued,
		PayloadJSON: jsoncfg.MustMarshal(payload),
	}
	if err := a.Jobs.Create(r.Context(), job); err != nil {
		a.requestLog(r).Error().Err(err).Str("shot_id", shotID).Msg("enqueue render job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue render job")
		return
	}

	a.bump(r.Context(), "compilations")
	a.requestLog(r).Info().
		Str("shot_id", shotID).
		Str("job_id", job.ID).
		Str("model", payload.ModelName).
		Msg("render job queued")
	a.json(w, http.StatusAccepted, generateResponse{
		JobID:                 job.ID,
		Status:                string(job.Status),
		AdvancedModeEffective: payload.AdvancedModeEffective,
	})
}

func (a *App) writeCompileError(w http.ResponseWriter, r *http.Request, err error) {
	a.bump(r.Context(), "compile_failures")

	var phaseErr *domain.InvalidPhaseConfigError
	if errors.As(err, &phaseErr) {
		// The only compile failure a user action can cause; the response
		// message suggests the recovery the UI offers.
		a.json(w, http.StatusUnprocessableEntity, map[string]any{
			"code":            "invalid_phase_config",
			"message":         "phase configuration is inconsistent; reset advanced settings to defaults",
			"num_phases":      phaseErr.NumPhases,
			"phases":          phaseErr.PhaseCount,
			"steps_per_phase": phaseErr.StepCount,
		})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "not_found", "shot not found")
		return
	}
	a.requestLog(r).Error().Err(err).Msg("compilation failed")
	a.error(w, http.StatusInternalServerError, "internal", "compilation failed")
}

// deriveShotName turns an upload filename into a presentable default title.
func deriveShotName(filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Untitled Shot"
	}
	return cases.Title(language.Und).String(base)
}
