package compiler

import "shotserver/internal/domain"

// GenerationTarget is the generation pathway requested for the shot. Uni3C
// implies structure guidance but executes on the I2V model family.
type GenerationTarget string

const (
	TargetI2V   GenerationTarget = "i2v"
	TargetVACE  GenerationTarget = "vace"
	TargetUni3C GenerationTarget = "uni3c"
)

// ModeInputs are the flags that jointly determine the execution plan. They
// are resolved in exactly one place so no caller ever branches on raw flag
// combinations.
type ModeInputs struct {
	AdvancedMode    bool
	UserPhaseConfig *domain.PhaseConfig
	MotionMode      domain.MotionMode
	Target          GenerationTarget
	AmountOfMotion  int
	UserLoras       []domain.LoraRef
}

// ResolvedPlan is the concrete execution plan for one compilation.
// AdvancedModeEffective records whether the user-authored config was
// actually used, which can differ from the raw advanced flag; the UI
// restores its state from this field, not the input.
type ResolvedPlan struct {
	ModelName             string
	ModelType             domain.ModelType
	PhaseConfig           domain.PhaseConfig
	AdvancedModeEffective bool
}

// ResolveMode reconciles advanced mode, the user-authored phase config and
// the generation target into one plan.
//
// Basic motion mode always wins: a stale advanced flag left behind by an
// earlier session never resurrects a user-authored config once the user has
// switched back to basic. When a user-authored I2V config runs on a VACE
// model, its Seko V1 LoRA URLs are rewritten to the V2 counterparts.
func ResolveMode(in ModeInputs) ResolvedPlan {
	advanced := in.AdvancedMode && in.UserPhaseConfig != nil && in.MotionMode != domain.MotionModeBasic

	if !advanced {
		name, modelType, cfg := SynthesizePhasePlan(in.Target != TargetI2V, in.Target == TargetUni3C, in.AmountOfMotion, in.UserLoras)
		return ResolvedPlan{ModelName: name, ModelType: modelType, PhaseConfig: cfg}
	}

	cfg := in.UserPhaseConfig.Clone()
	choice := modelTable[modelKey{structureGuidance: in.Target != TargetI2V, uni3c: in.Target == TargetUni3C}]
	if choice.Type == domain.ModelTypeVACE {
		substituteSekoLoras(&cfg)
	}
	return ResolvedPlan{
		ModelName:             choice.Name,
		ModelType:             choice.Type,
		PhaseConfig:           cfg,
		AdvancedModeEffective: true,
	}
}

func substituteSekoLoras(cfg *domain.PhaseConfig) {
	for i := range cfg.Phases {
		for j, lora := range cfg.Phases[i].Loras {
			if repl, ok := sekoSubstitutions[lora.URL]; ok {
				cfg.Phases[i].Loras[j].URL = repl
			}
			if repl, ok := sekoSubstitutions[lora.LowNoiseURL]; ok {
				cfg.Phases[i].Loras[j].LowNoiseURL = repl
			}
		}
	}
}
