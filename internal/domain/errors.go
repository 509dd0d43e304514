package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrWorkerFailure   = errors.New("worker failure")
	ErrJobNotSubmitted = errors.New("job not submitted")
)

// InvalidPhaseConfigError reports a phase-array length mismatch. It is fatal
// to the compilation attempt: padding or truncating the arrays would
// desynchronize step counts from LoRA assignments.
type InvalidPhaseConfigError struct {
	NumPhases  int
	PhaseCount int
	StepCount  int
}

func (e *InvalidPhaseConfigError) Error() string {
	return fmt.Sprintf("invalid phase configuration: num_phases=%d phases=%d steps_per_phase=%d",
		e.NumPhases, e.PhaseCount, e.StepCount)
}

// SegmentArrayError reports per-segment array lengths that diverged during
// assembly. This indicates a filtering bug upstream, not bad user input.
type SegmentArrayError struct {
	Segments        int
	FrameCounts     int
	Prompts         int
	NegativePrompts int
}

func (e *SegmentArrayError) Error() string {
	return fmt.Sprintf("segment array mismatch: segments=%d frame_counts=%d prompts=%d negative_prompts=%d",
		e.Segments, e.FrameCounts, e.Prompts, e.NegativePrompts)
}
