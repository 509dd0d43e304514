package domain

// ModelType enumerates the two model families the worker can execute.
type ModelType string

const (
	ModelTypeI2V  ModelType = "i2v"
	ModelTypeVACE ModelType = "vace"
)

// LoraRef points at one LoRA weight file. URL is the single-stage path, or
// the high-noise variant when MultiStage is set; LowNoiseURL is only
// meaningful for multi-stage entries. Strength accepts either a 0-1 float or
// a 0-100 percentage, disambiguated by magnitude.
type LoraRef struct {
	URL         string  `json:"url"`
	Strength    float64 `json:"strength"`
	LowNoiseURL string  `json:"low_noise_url,omitempty"`
	MultiStage  bool    `json:"multi_stage,omitempty"`
}

// NormalizedStrength maps percentage-style strengths into the 0-1 range the
// worker expects. Anything above 2 is treated as a percentage.
func (l LoraRef) NormalizedStrength() float64 {
	if l.Strength > 2 {
		return l.Strength / 100
	}
	return l.Strength
}

// Phase is one stage of a multi-stage diffusion sampling schedule. Each
// phase owns its Loras slice outright; phases never share backing arrays.
type Phase struct {
	Number        int       `json:"phase"`
	Steps         int       `json:"steps"`
	GuidanceScale float64   `json:"guidance_scale"`
	Loras         []LoraRef `json:"loras"`
}

// Clone returns a deep copy with a freshly allocated Loras slice.
func (p Phase) Clone() Phase {
	out := p
	out.Loras = CloneLoras(p.Loras)
	return out
}

// CloneLoras copies a LoRA list into a new backing array so that later
// appends or strength edits cannot leak across phases.
func CloneLoras(loras []LoraRef) []LoraRef {
	if loras == nil {
		return nil
	}
	out := make([]LoraRef, len(loras))
	copy(out, loras)
	return out
}

// PhaseConfig is a complete multi-phase sampling schedule. The invariant
// NumPhases == len(Phases) == len(StepsPerPhase) is checked before any
// payload is emitted, never silently repaired.
type PhaseConfig struct {
	NumPhases        int     `json:"num_phases"`
	StepsPerPhase    []int   `json:"steps_per_phase"`
	Phases           []Phase `json:"phases"`
	FlowShift        float64 `json:"flow_shift"`
	SampleSolver     string  `json:"sample_solver"`
	ModelSwitchPhase int     `json:"model_switch_phase"`
}

// Clone returns a deep copy: fresh phase slice, fresh steps slice and a
// fresh LoRA slice per phase.
func (c PhaseConfig) Clone() PhaseConfig {
	out := c
	if c.StepsPerPhase != nil {
		out.StepsPerPhase = make([]int, len(c.StepsPerPhase))
		copy(out.StepsPerPhase, c.StepsPerPhase)
	}
	if c.Phases != nil {
		out.Phases = make([]Phase, len(c.Phases))
		for i, ph := range c.Phases {
			out.Phases[i] = ph.Clone()
		}
	}
	return out
}

// Consistent reports whether the phase array lengths agree with NumPhases.
func (c PhaseConfig) Consistent() bool {
	return c.NumPhases == len(c.Phases) && c.NumPhases == len(c.StepsPerPhase)
}
