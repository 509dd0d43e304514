package handlers

import (
	"errors"
	"net/http"
	"time"

	"shotserver/internal/domain"
)

type analyticsSummaryResponse struct {
	Day             string `json:"day"`
	Compilations    int    `json:"compilations"`
	CompileFailures int    `json:"compile_failures"`
	JobsSubmitted   int    `json:"jobs_submitted"`
	SubmitFailures  int    `json:"submit_failures"`
}

// AnalyticsSummary returns the most recent day's counters. A service with no
// recorded traffic reports zeros for today instead of a 404.
func (a *App) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Analytics.GetSummary(r.Context())
	if errors.Is(err, domain.ErrNotFound) {
		a.json(w, http.StatusOK, analyticsSummaryResponse{
			Day: time.Now().UTC().Format("2006-01-02"),
		})
		return
	}
	if err != nil {
		a.requestLog(r).Error().Err(err).Msg("analytics summary failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load analytics")
		return
	}
	a.json(w, http.StatusOK, analyticsSummaryResponse{
		Day:             summary.Day.Format("2006-01-02"),
		Compilations:    summary.Compilations,
		CompileFailures: summary.CompileFailures,
		JobsSubmitted:   summary.JobsSubmitted,
		SubmitFailures:  summary.SubmitFailures,
	})
}
