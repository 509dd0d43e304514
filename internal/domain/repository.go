package domain

import "context"

// ShotRepository persists shots and their generation settings. Snapshot must
// hit storage on every call: compilation operates on a fresh view of the
// timeline, never a cached reordering. UpdateSettings stores the already
// normalized and validated settings document.
type ShotRepository interface {
	CreateShot(ctx context.Context, shot *Shot) error
	GetShot(ctx context.Context, shotID string) (*Shot, error)
	Snapshot(ctx context.Context, shotID string) (*ShotSnapshot, error)
	UpdateSettings(ctx context.Context, shotID string, settings []byte) error
}

// RenderJobRepository persists compiled render jobs and their lifecycle.
// ClaimQueued atomically moves the oldest queued job to submitting so
// concurrent worker processes never double-submit.
type RenderJobRepository interface {
	Create(ctx context.Context, job *RenderJob) error
	GetByID(ctx context.Context, jobID string) (*RenderJob, error)
	ClaimQueued(ctx context.Context) (*RenderJob, error)
	UpdateStatus(ctx context.Context, jobID string, status RenderJobStatus, workerJobID string, errMsg *string) error
}

// AnalyticsRepository updates per-day compile/submit counters.
type AnalyticsRepository interface {
	IncrementCounters(ctx context.Context, day string, counters map[string]int) error
	GetSummary(ctx context.Context) (*AnalyticsDaily, error)
}
