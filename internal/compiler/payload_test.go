package compiler

import (
	"errors"
	"testing"

	"shotserver/internal/domain"
)

func validPlanFixture() (Timeline, PromptSet, ResolvedPlan) {
	images := []domain.PositionedImage{img("a", intp(0)), img("b", intp(20))}
	tl := ResolveTimeline(images, domain.GenerationModeTimeline, 60)
	prompts := ResolvePrompts(tl.Images, len(tl.Segments), nil, "neg")
	name, modelType, cfg := SynthesizePhasePlan(false, false, 0, nil)
	return tl, prompts, ResolvedPlan{ModelName: name, ModelType: modelType, PhaseConfig: cfg}
}

func TestAssemblePayloadRejectsInconsistentPhaseConfig(t *testing.T) {
	tl, prompts, plan := validPlanFixture()
	plan.PhaseConfig.NumPhases = 3 // arrays still have 2 entries

	payload, err := AssemblePayload(tl, prompts, plan, nil, domain.ShotSettings{})
	if payload != nil {
		t.Fatalf("partial payload escaped: %+v", payload)
	}
	var phaseErr *domain.InvalidPhaseConfigError
	if !errors.As(err, &phaseErr) {
		t.Fatalf("err = %v, want InvalidPhaseConfigError", err)
	}
	if phaseErr.NumPhases != 3 || phaseErr.PhaseCount != 2 || phaseErr.StepCount != 2 {
		t.Fatalf("error counts = %+v", phaseErr)
	}
}

func TestAssemblePayloadRejectsSegmentArrayMismatch(t *testing.T) {
	tl, prompts, plan := validPlanFixture()
	prompts.Base = append(prompts.Base, "stray")

	_, err := AssemblePayload(tl, prompts, plan, nil, domain.ShotSettings{})
	var segErr *domain.SegmentArrayError
	if !errors.As(err, &segErr) {
		t.Fatalf("err = %v, want SegmentArrayError", err)
	}
}

func TestAssemblePayloadEnhancedPromptsGated(t *testing.T) {
	tl, prompts, plan := validPlanFixture()

	payload, err := AssemblePayload(tl, prompts, plan, nil, domain.ShotSettings{})
	if err != nil {
		t.Fatalf("AssemblePayload returned error: %v", err)
	}
	if payload.EnhancedPrompts != nil {
		t.Fatalf("enhanced prompts included despite being all empty")
	}

	prompts.Enhanced[0] = "enhanced"
	prompts.HasEnhanced = true
	payload, err = AssemblePayload(tl, prompts, plan, nil, domain.ShotSettings{})
	if err != nil {
		t.Fatalf("AssemblePayload returned error: %v", err)
	}
	if len(payload.EnhancedPrompts) != 1 {
		t.Fatalf("enhanced prompts = %v", payload.EnhancedPrompts)
	}
}

func TestAssemblePayloadEchoesSettings(t *testing.T) {
	tl, prompts, plan := validPlanFixture()
	seed := int64(1234)
	settings := domain.ShotSettings{
		Mode:           domain.GenerationModeTimeline,
		BasePrompt:     "a sweeping landscape",
		AmountOfMotion: 35,
		Seed:           &seed,
	}

	payload, err := AssemblePayload(tl, prompts, plan, nil, settings)
	if err != nil {
		t.Fatalf("AssemblePayload returned error: %v", err)
	}
	if payload.BasePromptDefault != "a sweeping landscape" {
		t.Fatalf("BasePromptDefault = %q", payload.BasePromptDefault)
	}
	if payload.AmountOfMotion != 35 || payload.GenerationMode != domain.GenerationModeTimeline {
		t.Fatalf("UI state fields not echoed: %+v", payload)
	}
	if payload.Seed == nil || *payload.Seed != 1234 {
		t.Fatalf("Seed not echoed: %v", payload.Seed)
	}
	if len(payload.ImageURLs) != 2 || len(payload.SegmentFrameCounts) != 1 || len(payload.FrameOverlaps) != 1 {
		t.Fatalf("array lengths: urls=%d frames=%d overlaps=%d", len(payload.ImageURLs), len(payload.SegmentFrameCounts), len(payload.FrameOverlaps))
	}
}
