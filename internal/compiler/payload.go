package compiler

import "shotserver/internal/domain"

// JobPayload is the terminal compilation artifact handed to the submission
// client. Immutable once assembled.
type JobPayload struct {
	ImageURLs          []string           `json:"image_urls"`
	BasePrompts        []string           `json:"base_prompts"`
	BasePromptDefault  string             `json:"base_prompt_default"`
	SegmentFrameCounts []int              `json:"segment_frame_counts"`
	FrameOverlaps      []int              `json:"frame_overlaps"`
	NegativePrompts    []string           `json:"negative_prompts"`
	EnhancedPrompts    []string           `json:"enhanced_prompts,omitempty"`
	ModelName          string             `json:"model_name"`
	ModelType          domain.ModelType   `json:"model_type"`
	PhaseConfig        domain.PhaseConfig `json:"phase_config"`
	StructureGuidance  *StructureGuidance `json:"structure_guidance,omitempty"`
	Seed               *int64             `json:"seed,omitempty"`

	// UI state echoed back for restoration after submission.
	AdvancedModeEffective bool                  `json:"advanced_mode_effective"`
	AmountOfMotion        int                   `json:"amount_of_motion"`
	GenerationMode        domain.GenerationMode `json:"generation_mode"`
}

// AssemblePayload composes the final request object. It is the single gate
// for the array-length invariants: a violation aborts the compilation with a
// typed error and no partial payload escapes.
func AssemblePayload(timeline Timeline, prompts PromptSet, plan ResolvedPlan, guidance *StructureGuidance, settings domain.ShotSettings) (*JobPayload, error) {
	if !plan.PhaseConfig.Consistent() {
		return nil, &domain.InvalidPhaseConfigError{
			NumPhases:  plan.PhaseConfig.NumPhases,
			PhaseCount: len(plan.PhaseConfig.Phases),
			StepCount:  len(plan.PhaseConfig.StepsPerPhase),
		}
	}

	segCount := len(timeline.Segments)
	if len(prompts.Base) != segCount || len(prompts.Negative) != segCount {
		return nil, &domain.SegmentArrayError{
			Segments:        segCount,
			FrameCounts:     segCount,
			Prompts:         len(prompts.Base),
			NegativePrompts: len(prompts.Negative),
		}
	}

	payload := &JobPayload{
		ImageURLs:             make([]string, 0, len(timeline.Images)),
		BasePrompts:           prompts.Base,
		BasePromptDefault:     settings.BasePrompt,
		SegmentFrameCounts:    make([]int, 0, segCount),
		FrameOverlaps:         make([]int, 0, segCount),
		NegativePrompts:       prompts.Negative,
		ModelName:             plan.ModelName,
		ModelType:             plan.ModelType,
		PhaseConfig:           plan.PhaseConfig,
		StructureGuidance:     guidance,
		Seed:                  settings.Seed,
		AdvancedModeEffective: plan.AdvancedModeEffective,
		AmountOfMotion:        settings.AmountOfMotion,
		GenerationMode:        settings.Mode,
	}
	for _, img := range timeline.Images {
		payload.ImageURLs = append(payload.ImageURLs, img.LocationURL)
	}
	for _, seg := range timeline.Segments {
		payload.SegmentFrameCounts = append(payload.SegmentFrameCounts, seg.FrameCount)
		payload.FrameOverlaps = append(payload.FrameOverlaps, seg.FrameOverlap)
	}
	if prompts.HasEnhanced {
		payload.EnhancedPrompts = prompts.Enhanced
	}
	return payload, nil
}
