package compiler

import "shotserver/internal/domain"

// Model names understood by the worker. Uni3C conditions through the I2V
// pathway, so its entry stays in the I2V family even though structure
// guidance is present.
const (
	ModelI2V      = "wan_2_2_i2v_a14b"
	ModelVACE     = "wan_2_1_vace_14b"
	ModelI2VUni3C = "wan_2_2_i2v_a14b_uni3c"
)

// Accelerator LoRAs baked into the base templates, one per phase.
const (
	i2vLightningHighURL = "https://huggingface.co/lightx2v/Wan2.2-Lightning/resolve/main/Wan2.2-I2V-A14B-4steps-lora-HIGH-fp16.safetensors"
	i2vLightningLowURL  = "https://huggingface.co/lightx2v/Wan2.2-Lightning/resolve/main/Wan2.2-I2V-A14B-4steps-lora-LOW-fp16.safetensors"

	vaceSekoV2HighURL = "https://huggingface.co/Seko-AI/wan-vace-seko-v2/resolve/main/vace_seko_v2_high_noise.safetensors"
	vaceSekoV2LowURL  = "https://huggingface.co/Seko-AI/wan-vace-seko-v2/resolve/main/vace_seko_v2_low_noise.safetensors"

	i2vSekoV1HighURL = "https://huggingface.co/Seko-AI/wan-i2v-seko-v1/resolve/main/i2v_seko_v1_high_noise.safetensors"
	i2vSekoV1LowURL  = "https://huggingface.co/Seko-AI/wan-i2v-seko-v1/resolve/main/i2v_seko_v1_low_noise.safetensors"
)

// MotionLoraURL is appended to every phase when the motion amount is above
// zero, at strength amount/100.
const MotionLoraURL = "https://huggingface.co/Remade-AI/wan-motion-amplifier/resolve/main/motion_amplifier_v2.safetensors"

// sekoSubstitutions rewrites I2V Seko V1 LoRA URLs to their VACE Seko V2
// counterparts when a user-authored I2V phase config is executed on a VACE
// model. Table-driven 1:1 mapping, not a pattern heuristic.
var sekoSubstitutions = map[string]string{
	i2vSekoV1HighURL: vaceSekoV2HighURL,
	i2vSekoV1LowURL:  vaceSekoV2LowURL,
}

// i2vBase and vaceBase are the immutable basic-mode templates. They are
// never handed out directly: synthesis always starts from a deep clone so
// that per-phase LoRA lists stay unaliased.
var i2vBase = domain.PhaseConfig{
	NumPhases:     2,
	StepsPerPhase: []int{4, 4},
	Phases: []domain.Phase{
		{Number: 1, Steps: 4, GuidanceScale: 1.0, Loras: []domain.LoraRef{
			{URL: i2vLightningHighURL, Strength: 1.0},
		}},
		{Number: 2, Steps: 4, GuidanceScale: 1.0, Loras: []domain.LoraRef{
			{URL: i2vLightningLowURL, Strength: 1.0},
		}},
	},
	FlowShift:        5.0,
	SampleSolver:     "euler",
	ModelSwitchPhase: 2,
}

var vaceBase = domain.PhaseConfig{
	NumPhases:     2,
	StepsPerPhase: []int{3, 3},
	Phases: []domain.Phase{
		{Number: 1, Steps: 3, GuidanceScale: 3.0, Loras: []domain.LoraRef{
			{URL: vaceSekoV2HighURL, Strength: 1.0},
		}},
		{Number: 2, Steps: 3, GuidanceScale: 1.0, Loras: []domain.LoraRef{
			{URL: vaceSekoV2LowURL, Strength: 1.0},
		}},
	},
	FlowShift:        2.0,
	SampleSolver:     "unipc",
	ModelSwitchPhase: 2,
}

type modelKey struct {
	structureGuidance bool
	uni3c             bool
}

type modelChoice struct {
	Name string
	Type domain.ModelType
}

// modelTable resolves the worker model from structure-guidance presence and
// the uni3c flag. Uni3C is the one named exception: guidance present, I2V
// family model.
var modelTable = map[modelKey]modelChoice{
	{structureGuidance: false, uni3c: false}: {Name: ModelI2V, Type: domain.ModelTypeI2V},
	{structureGuidance: false, uni3c: true}:  {Name: ModelI2V, Type: domain.ModelTypeI2V},
	{structureGuidance: true, uni3c: false}:  {Name: ModelVACE, Type: domain.ModelTypeVACE},
	{structureGuidance: true, uni3c: true}:   {Name: ModelI2VUni3C, Type: domain.ModelTypeI2V},
}
