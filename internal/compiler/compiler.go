package compiler

import (
	"context"
	"fmt"

	"shotserver/internal/domain"
	"shotserver/internal/infra"
)

// DefaultSegmentFrames applies when a shot has no configured frame count.
const DefaultSegmentFrames = 60

// Compiler compiles shot snapshots into job payloads. It holds no mutable
// state: every compilation reads a fresh snapshot and runs the pure pipeline.
type Compiler struct {
	shots  domain.ShotRepository
	logger infra.Logger
}

// New constructs a Compiler over the given shot repository.
func New(shots domain.ShotRepository, logger infra.Logger) *Compiler {
	return &Compiler{shots: shots, logger: logger}
}

// Compile fetches the shot's current snapshot and compiles it. The fetch is
// deliberate: compiling a cached snapshot would race the user's reordering,
// so the repository read happens here, immediately before compilation, on
// every call. Fetch failures propagate unchanged and nothing is compiled
// from partial data.
func (c *Compiler) Compile(ctx context.Context, shotID string) (*JobPayload, error) {
	snap, err := c.shots.Snapshot(ctx, shotID)
	if err != nil {
		return nil, fmt.Errorf("fetch shot snapshot: %w", err)
	}

	payload, err := CompileSnapshot(*snap)
	if err != nil {
		c.logger.Error().Err(err).Str("shot_id", shotID).Msg("compilation failed")
		return nil, err
	}

	c.logger.Debug().
		Str("shot_id", shotID).
		Int("segments", len(payload.SegmentFrameCounts)).
		Str("model", payload.ModelName).
		Bool("advanced", payload.AdvancedModeEffective).
		Msg("shot compiled")
	return payload, nil
}

// CompileSnapshot runs the full compilation pipeline over an in-memory
// snapshot. Pure: identical snapshots produce identical payloads.
func CompileSnapshot(snap domain.ShotSnapshot) (*JobPayload, error) {
	settings := snap.Settings
	if settings.DefaultFrameCount <= 0 {
		settings.DefaultFrameCount = DefaultSegmentFrames
	}
	if settings.Mode == "" {
		settings.Mode = domain.GenerationModeTimeline
	}

	timeline := ResolveTimeline(snap.Images, settings.Mode, settings.DefaultFrameCount)

	prompts := ResolvePrompts(timeline.Images, len(timeline.Segments), snap.Overrides, settings.NegativePrompt)

	guidance := UnifyStructureGuidance(settings.StructureVideos, settings.LegacyStructure, timeline.TotalFrames())

	target := TargetI2V
	if guidance != nil {
		target = TargetVACE
		if guidance.Target == "uni3c" {
			target = TargetUni3C
		}
	}

	plan := ResolveMode(ModeInputs{
		AdvancedMode:    settings.AdvancedMode,
		UserPhaseConfig: settings.UserPhaseConfig,
		MotionMode:      settings.MotionMode,
		Target:          target,
		AmountOfMotion:  settings.AmountOfMotion,
		UserLoras:       settings.Loras,
	})

	return AssemblePayload(timeline, prompts, plan, guidance, settings)
}
