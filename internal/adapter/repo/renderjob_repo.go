package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shotserver/internal/domain"
)

// RenderJobRepositoryPG implements domain.RenderJobRepository.
type RenderJobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewRenderJobRepository creates a new render job repository backed by PostgreSQL.
func NewRenderJobRepository(pool *pgxpool.Pool) *RenderJobRepositoryPG {
	return &RenderJobRepositoryPG{pool: pool}
}

// Create inserts a new render job record.
func (r *RenderJobRepositoryPG) Create(ctx context.Context, job *domain.RenderJob) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO render_jobs (id, shot_id, status, payload_json, worker_job_id, error_message)
VALUES ($1, $2, $3, $4, $5, $6);
`,
		job.ID,
		job.ShotID,
		job.Status,
		job.PayloadJSON,
		job.WorkerJobID,
		job.ErrorMessage,
	)
	return err
}

// GetByID fetches a render job by its identifier.
func (r *RenderJobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.RenderJob, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, shot_id, status, payload_json, worker_job_id, error_message, created_at, updated_at
FROM render_jobs
WHERE id = $1;
`, jobID)
	job, err := scanRenderJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// ClaimQueued atomically claims the oldest queued job for submission.
// SKIP LOCKED lets multiple worker processes poll the same table without
// double-claiming; no queued job yields domain.ErrNotFound.
func (r *RenderJobRepositoryPG) ClaimQueued(ctx context.Context) (*domain.RenderJob, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE render_jobs
SET status = 'submitting',
    updated_at = NOW()
WHERE id = (
    SELECT id FROM render_jobs
    WHERE status = 'queued'
    ORDER BY created_at
    LIMIT 1
    FOR UPDATE SKIP LOCKED
)
RETURNING id, shot_id, status, payload_json, worker_job_id, error_message, created_at, updated_at;
`)
	job, err := scanRenderJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// UpdateStatus records a lifecycle transition, optionally attaching the
// worker-side job ID or a failure message.
func (r *RenderJobRepositoryPG) UpdateStatus(ctx context.Context, jobID string, status domain.RenderJobStatus, workerJobID string, errMsg *string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE render_jobs
SET status = $2,
    updated_at = NOW(),
    worker_job_id = COALESCE(NULLIF($3, ''), worker_job_id),
    error_message = COALESCE($4, error_message)
WHERE id = $1;
`, jobID, status, workerJobID, errMsg)
	return err
}

func scanRenderJob(row pgx.Row) (*domain.RenderJob, error) {
	var job domain.RenderJob
	if err := row.Scan(
		&job.ID,
		&job.ShotID,
		&job.Status,
		&job.PayloadJSON,
		&job.WorkerJobID,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}
