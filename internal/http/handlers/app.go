package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"shotserver/internal/compiler"
	"shotserver/internal/domain"
	"shotserver/internal/infra"
	"shotserver/internal/middleware"
)

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	Shots     domain.ShotRepository
	Jobs      domain.RenderJobRepository
	Analytics domain.AnalyticsRepository
	Compiler  *compiler.Compiler
	Logger    infra.Logger
}

// NewApp wires the handler container.
func NewApp(shots domain.ShotRepository, jobs domain.RenderJobRepository, analytics domain.AnalyticsRepository, comp *compiler.Compiler, logger infra.Logger) *App {
	return &App{
		Shots:     shots,
		Jobs:      jobs,
		Analytics: analytics,
		Compiler:  comp,
		Logger:    logger,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, errorResponse{Code: errCode, Message: msg})
}

// bump increments a single analytics counter for today. Counter writes never
// fail a request; errors are only logged.
func (a *App) bump(ctx context.Context, key string) {
	if a.Analytics == nil {
		return
	}
	day := time.Now().UTC().Format("2006-01-02")
	if err := a.Analytics.IncrementCounters(ctx, day, map[string]int{key: 1}); err != nil {
		a.Logger.Warn().Err(err).Str("counter", key).Msg("analytics increment failed")
	}
}

// requestLog adds the per-request correlation fields handlers log with.
func (a *App) requestLog(r *http.Request) *infra.Logger {
	logger := a.Logger.With().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Logger()
	if country := middleware.CountryFromContext(r.Context()); country != "" {
		logger = logger.With().Str("country", country).Logger()
	}
	return &logger
}
