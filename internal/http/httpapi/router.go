package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"shotserver/internal/http/handlers"
	"shotserver/internal/infra"
	"shotserver/internal/infra/geoip"
	"shotserver/internal/middleware"
)

// NewRouter assembles the API routes and middleware chain.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger, geo geoip.CountryResolver, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(allowedOrigins),
		middleware.ClientGeo(geo),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute, logger),
	)

	r.Get("/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/shots", func(r chi.Router) {
			r.Post("/", app.ShotCreate)
			r.Get("/{shot_id}", app.ShotGet)
			r.Put("/{shot_id}/settings", app.ShotSettingsUpdate)
			r.Post("/{shot_id}/compile", app.ShotCompile)
			r.Post("/{shot_id}/generate", app.ShotGenerate)
		})
		r.Get("/jobs/{job_id}", app.JobStatus)
		r.Get("/analytics", app.AnalyticsSummary)
	})

	return r
}
