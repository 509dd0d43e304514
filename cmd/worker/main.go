package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shotserver/internal/adapter/repo"
	"shotserver/internal/domain"
	"shotserver/internal/infra"
	"shotserver/internal/providers/worker"
)

type queueWorker struct {
	jobs      domain.RenderJobRepository
	analytics domain.AnalyticsRepository
	submitter worker.Submitter
	logger    infra.Logger
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	qw := &queueWorker{
		jobs:      repo.NewRenderJobRepository(pool),
		analytics: repo.NewAnalyticsRepository(pool),
		submitter: worker.NewClient(cfg.WorkerBaseURL, cfg.WorkerAPIKey, cfg.SubmitTimeout),
		logger:    logger,
	}

	logger.Info().Str("worker_url", cfg.WorkerBaseURL).Msg("queue worker started")
	qw.run(ctx, cfg.JobPollInterval)
	logger.Info().Msg("queue worker stopped")
}

func (w *queueWorker) run(ctx context.Context, pollInterval time.Duration) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain submits every currently queued job before going back to sleep.
func (w *queueWorker) drain(ctx context.Context) {
	for {
		job, err := w.jobs.ClaimQueued(ctx)
		if errors.Is(err, domain.ErrNotFound) {
			return
		}
		if err != nil {
			w.logger.Error().Err(err).Msg("claim queued job failed")
			return
		}
		w.submit(ctx, job)
		if ctx.Err() != nil {
			return
		}
	}
}

func (w *queueWorker) submit(ctx context.Context, job *domain.RenderJob) {
	res, err := w.submitter.Submit(ctx, job.PayloadJSON)
	if err != nil {
		msg := err.Error()
		if uerr := w.jobs.UpdateStatus(ctx, job.ID, domain.RenderJobFailed, "", &msg); uerr != nil {
			w.logger.Error().Err(uerr).Str("job_id", job.ID).Msg("record submit failure failed")
		}
		w.bump(ctx, "submit_failures")
		w.logger.Error().Err(err).Str("job_id", job.ID).Str("shot_id", job.ShotID).Msg("job submission failed")
		return
	}

	if err := w.jobs.UpdateStatus(ctx, job.ID, domain.RenderJobRunning, res.JobID, nil); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID).Msg("record submit success failed")
		return
	}
	w.bump(ctx, "jobs_submitted")
	w.logger.Info().
		Str("job_id", job.ID).
		Str("shot_id", job.ShotID).
		Str("worker_job_id", res.JobID).
		Msg("job submitted")
}

func (w *queueWorker) bump(ctx context.Context, key string) {
	day := time.Now().UTC().Format("2006-01-02")
	if err := w.analytics.IncrementCounters(ctx, day, map[string]int{key: 1}); err != nil {
		w.logger.Warn().Err(err).Str("counter", key).Msg("analytics increment failed")
	}
}
