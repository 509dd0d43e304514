package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shotserver/internal/domain"
)

// AnalyticsRepositoryPG implements AnalyticsRepository using PostgreSQL.
type AnalyticsRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepositoryPG {
	return &AnalyticsRepositoryPG{pool: pool}
}

// IncrementCounters upserts compile/submit metrics for the provided day.
func (r *AnalyticsRepositoryPG) IncrementCounters(ctx context.Context, day string, counters map[string]int) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO analytics_daily (
    day, compilations, compile_failures, jobs_submitted, submit_failures
) VALUES (
    $1, $2, $3, $4, $5
) ON CONFLICT (day) DO UPDATE SET
    compilations = analytics_daily.compilations + EXCLUDED.compilations,
    compile_failures = analytics_daily.compile_failures + EXCLUDED.compile_failures,
    jobs_submitted = analytics_daily.jobs_submitted + EXCLUDED.jobs_submitted,
    submit_failures = analytics_daily.submit_failures + EXCLUDED.submit_failures,
    updated_at = NOW();
`,
		day,
		counters["compilations"],
		counters["compile_failures"],
		counters["jobs_submitted"],
		counters["submit_failures"],
	)
	return err
}

// GetSummary returns the most recent day's aggregated stats, or
// domain.ErrNotFound when no counters have been recorded yet.
func (r *AnalyticsRepositoryPG) GetSummary(ctx context.Context) (*domain.AnalyticsDaily, error) {
	row := r.pool.QueryRow(ctx, `
SELECT day, compilations, compile_failures, jobs_submitted, submit_failures, created_at, updated_at
FROM analytics_daily
ORDER BY day DESC
LIMIT 1;
`)
	var out domain.AnalyticsDaily
	if err := row.Scan(
		&out.Day,
		&out.Compilations,
		&out.CompileFailures,
		&out.JobsSubmitted,
		&out.SubmitFailures,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}
