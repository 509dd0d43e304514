package compiler

import (
	"testing"

	"shotserver/internal/domain"
)

func TestSynthesizeMotionAndUserLora(t *testing.T) {
	userLora := domain.LoraRef{URL: "https://cdn.example.com/user.safetensors", Strength: 0.8}
	name, modelType, cfg := SynthesizePhasePlan(false, false, 40, []domain.LoraRef{userLora})

	if name != ModelI2V || modelType != domain.ModelTypeI2V {
		t.Fatalf("model = %q/%q, want i2v", name, modelType)
	}
	if len(cfg.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(cfg.Phases))
	}
	for i, phase := range cfg.Phases {
		if len(phase.Loras) != 3 {
			t.Fatalf("phase %d lora count = %d, want 3 (accelerator, motion, user)", i, len(phase.Loras))
		}
		motion := phase.Loras[1]
		if motion.URL != MotionLoraURL || motion.Strength != 0.40 {
			t.Fatalf("phase %d motion lora = %+v", i, motion)
		}
		user := phase.Loras[2]
		if user.URL != userLora.URL || user.Strength != 0.8 {
			t.Fatalf("phase %d user lora = %+v", i, user)
		}
	}
}

func TestSynthesizeZeroMotionOmitsMotionLora(t *testing.T) {
	_, _, cfg := SynthesizePhasePlan(false, false, 0, nil)
	for i, phase := range cfg.Phases {
		for _, lora := range phase.Loras {
			if lora.URL == MotionLoraURL {
				t.Fatalf("phase %d has motion lora despite motion amount 0", i)
			}
		}
	}
}

func TestSynthesizeMultiStageRouting(t *testing.T) {
	multi := domain.LoraRef{
		URL:         "https://cdn.example.com/style-high.safetensors",
		LowNoiseURL: "https://cdn.example.com/style-low.safetensors",
		Strength:    1.0,
		MultiStage:  true,
	}
	for _, guidance := range []bool{false, true} {
		_, _, cfg := SynthesizePhasePlan(guidance, false, 0, []domain.LoraRef{multi})
		last := len(cfg.Phases) - 1
		for i, phase := range cfg.Phases {
			var highs, lows int
			for _, lora := range phase.Loras {
				switch lora.URL {
				case multi.URL:
					highs++
				case multi.LowNoiseURL:
					lows++
				}
			}
			if i < last && (highs != 1 || lows != 0) {
				t.Fatalf("guidance=%v phase %d: highs=%d lows=%d, want high only", guidance, i, highs, lows)
			}
			if i == last && (highs != 0 || lows != 1) {
				t.Fatalf("guidance=%v phase %d: highs=%d lows=%d, want low only", guidance, i, highs, lows)
			}
		}
	}
}

func TestSynthesizeMultiStageMissingVariantIsSilent(t *testing.T) {
	noLow := domain.LoraRef{URL: "https://cdn.example.com/only-high.safetensors", Strength: 1, MultiStage: true}
	_, _, cfg := SynthesizePhasePlan(false, false, 0, []domain.LoraRef{noLow})
	last := len(cfg.Phases) - 1
	for _, lora := range cfg.Phases[last].Loras {
		if lora.URL == noLow.URL {
			t.Fatalf("last phase received the high-noise URL of a multi-stage lora with no low variant")
		}
	}

	noHigh := domain.LoraRef{LowNoiseURL: "https://cdn.example.com/only-low.safetensors", Strength: 1, MultiStage: true}
	_, _, cfg = SynthesizePhasePlan(false, false, 0, []domain.LoraRef{noHigh})
	for i := 0; i < last; i++ {
		for _, lora := range cfg.Phases[i].Loras {
			if lora.LowNoiseURL == noHigh.LowNoiseURL || lora.URL == noHigh.LowNoiseURL {
				t.Fatalf("phase %d received a low-noise-only multi-stage lora", i)
			}
		}
	}
}

func TestSynthesizePercentStrengthNormalized(t *testing.T) {
	user := domain.LoraRef{URL: "https://cdn.example.com/u.safetensors", Strength: 85}
	_, _, cfg := SynthesizePhasePlan(false, false, 0, []domain.LoraRef{user})
	got := cfg.Phases[0].Loras[len(cfg.Phases[0].Loras)-1].Strength
	if got != 0.85 {
		t.Fatalf("strength = %v, want 0.85", got)
	}
}

func TestSynthesizedConfigsAlwaysConsistent(t *testing.T) {
	// Property over the input grid: every synthesized config satisfies
	// num_phases == len(phases) == len(steps_per_phase).
	loraSets := [][]domain.LoraRef{
		nil,
		{{URL: "a", Strength: 1}},
		{{URL: "h", LowNoiseURL: "l", Strength: 1, MultiStage: true}},
		{{URL: "a", Strength: 1}, {URL: "h", LowNoiseURL: "l", Strength: 50, MultiStage: true}},
	}
	for _, guidance := range []bool{false, true} {
		for _, uni3c := range []bool{false, true} {
			for motion := 0; motion <= 100; motion += 25 {
				for _, loras := range loraSets {
					_, _, cfg := SynthesizePhasePlan(guidance, uni3c, motion, loras)
					if !cfg.Consistent() {
						t.Fatalf("inconsistent config for guidance=%v uni3c=%v motion=%d loras=%v: %+v",
							guidance, uni3c, motion, loras, cfg)
					}
				}
			}
		}
	}
}

func TestSynthesizeNoCrossPhaseAliasing(t *testing.T) {
	_, _, cfg := SynthesizePhasePlan(false, false, 50, []domain.LoraRef{{URL: "u", Strength: 1}})

	before := make([][]domain.LoraRef, len(cfg.Phases))
	for i, phase := range cfg.Phases {
		before[i] = domain.CloneLoras(phase.Loras)
	}

	// Mutating phase 0 must not leak into any other phase.
	cfg.Phases[0].Loras[0].Strength = 0.123
	cfg.Phases[0].Loras = append(cfg.Phases[0].Loras, domain.LoraRef{URL: "extra", Strength: 1})

	for i := 1; i < len(cfg.Phases); i++ {
		if len(cfg.Phases[i].Loras) != len(before[i]) {
			t.Fatalf("phase %d lora count changed after mutating phase 0", i)
		}
		for j, lora := range cfg.Phases[i].Loras {
			if lora != before[i][j] {
				t.Fatalf("phase %d lora %d changed after mutating phase 0: %+v", i, j, lora)
			}
		}
	}
}

func TestSynthesizeDoesNotMutateBaseTemplates(t *testing.T) {
	i2vBefore := len(i2vBase.Phases[0].Loras)
	vaceBefore := len(vaceBase.Phases[0].Loras)

	SynthesizePhasePlan(false, false, 100, []domain.LoraRef{{URL: "u", Strength: 1}})
	SynthesizePhasePlan(true, false, 100, []domain.LoraRef{{URL: "u", Strength: 1}})

	if len(i2vBase.Phases[0].Loras) != i2vBefore || len(vaceBase.Phases[0].Loras) != vaceBefore {
		t.Fatalf("synthesis mutated a base template")
	}
}

func TestModelLookupTable(t *testing.T) {
	cases := []struct {
		guidance bool
		uni3c    bool
		wantName string
		wantType domain.ModelType
	}{
		{false, false, ModelI2V, domain.ModelTypeI2V},
		{true, false, ModelVACE, domain.ModelTypeVACE},
		{true, true, ModelI2VUni3C, domain.ModelTypeI2V},
	}
	for _, tc := range cases {
		name, modelType, _ := SynthesizePhasePlan(tc.guidance, tc.uni3c, 0, nil)
		if name != tc.wantName || modelType != tc.wantType {
			t.Fatalf("guidance=%v uni3c=%v: got %q/%q, want %q/%q",
				tc.guidance, tc.uni3c, name, modelType, tc.wantName, tc.wantType)
		}
	}
}
