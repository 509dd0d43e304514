package domain

import "time"

// RenderJobStatus enumerates render job lifecycle states.
type RenderJobStatus string

const (
	RenderJobQueued     RenderJobStatus = "queued"
	RenderJobSubmitting RenderJobStatus = "submitting"
	RenderJobRunning    RenderJobStatus = "running"
	RenderJobFailed     RenderJobStatus = "failed"
)

// RenderJob is one compiled generation request awaiting or undergoing
// submission to the GPU worker. PayloadJSON is the compiled job payload,
// stored verbatim so the worker loop never recompiles a stale shot.
type RenderJob struct {
	ID           string
	ShotID       string
	Status       RenderJobStatus
	PayloadJSON  []byte
	WorkerJobID  string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
