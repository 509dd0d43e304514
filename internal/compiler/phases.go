package compiler

import "shotserver/internal/domain"

// SynthesizePhasePlan builds the basic-mode phase configuration and resolves
// the worker model.
//
// The plan starts from a deep clone of the I2V or VACE base template
// (selected by structure-guidance presence), then layers in the motion LoRA
// and the user's LoRA selections. Multi-stage user LoRAs split across the
// schedule: high-noise variant into every phase but the last, low-noise
// variant into the last phase only. A multi-stage entry missing one of its
// URLs contributes nothing to the corresponding phases; that is a valid
// terminal state, not an error.
func SynthesizePhasePlan(usesStructureGuidance, uni3c bool, amountOfMotion int, userLoras []domain.LoraRef) (string, domain.ModelType, domain.PhaseConfig) {
	base := i2vBase
	if usesStructureGuidance {
		base = vaceBase
	}
	cfg := base.Clone()

	if amountOfMotion > 0 {
		motion := domain.LoraRef{URL: MotionLoraURL, Strength: float64(amountOfMotion) / 100}
		for i := range cfg.Phases {
			cfg.Phases[i].Loras = append(cfg.Phases[i].Loras, motion)
		}
	}

	last := len(cfg.Phases) - 1
	for _, lora := range userLoras {
		if !lora.MultiStage {
			entry := domain.LoraRef{URL: lora.URL, Strength: lora.NormalizedStrength()}
			for i := range cfg.Phases {
				cfg.Phases[i].Loras = append(cfg.Phases[i].Loras, entry)
			}
			continue
		}
		for i := range cfg.Phases {
			switch {
			case i < last && lora.URL != "":
				cfg.Phases[i].Loras = append(cfg.Phases[i].Loras, domain.LoraRef{
					URL:      lora.URL,
					Strength: lora.NormalizedStrength(),
				})
			case i == last && lora.LowNoiseURL != "":
				cfg.Phases[i].Loras = append(cfg.Phases[i].Loras, domain.LoraRef{
					URL:      lora.LowNoiseURL,
					Strength: lora.NormalizedStrength(),
				})
			}
		}
	}

	choice := modelTable[modelKey{structureGuidance: usesStructureGuidance, uni3c: uni3c}]
	return choice.Name, choice.Type, cfg
}
