package compiler

import "shotserver/internal/domain"

// GuidanceVideo is one conditioning video in the unified schema, stripped of
// legacy per-video fields.
type GuidanceVideo struct {
	Path       string `json:"path"`
	StartFrame int    `json:"start_frame"`
	EndFrame   int    `json:"end_frame"`
	Treatment  string `json:"treatment"`
}

// StructureGuidance is the unified structure-guidance block. Target-specific
// fields are populated for one target and zero for the other.
type StructureGuidance struct {
	Target   string          `json:"target"`
	Videos   []GuidanceVideo `json:"videos"`
	Strength float64         `json:"strength"`

	StepWindow      []int  `json:"step_window,omitempty"`
	FramePolicy     string `json:"frame_policy,omitempty"`
	ZeroEmptyFrames bool   `json:"zero_empty_frames,omitempty"`

	Preprocessing  string  `json:"preprocessing,omitempty"`
	CannyIntensity float64 `json:"canny_intensity,omitempty"`
	DepthContrast  float64 `json:"depth_contrast,omitempty"`
}

// UnifyStructureGuidance normalizes zero, one (legacy) or many (current)
// structure-video descriptors into one block. This is the only migration
// point for the legacy single-video schema; nothing else in the compiler
// reads it.
//
// The first descriptor alone decides the target and the target-specific
// parameters. Additional descriptors keep their frame windows in Videos but
// cannot redirect the block to a different engine; mixed-engine jobs are out
// of contract. A legacy record migrates to a single entry spanning the whole
// computed duration. With no descriptors at all the block is omitted and the
// worker runs pure I2V.
func UnifyStructureGuidance(current []domain.StructureVideo, legacy *domain.LegacyStructureVideo, totalFrames int) *StructureGuidance {
	if len(current) > 0 {
		first := current[0]
		block := &StructureGuidance{
			Target:   guidanceTarget(first.Type),
			Videos:   make([]GuidanceVideo, 0, len(current)),
			Strength: first.Strength,
		}
		for _, v := range current {
			block.Videos = append(block.Videos, GuidanceVideo{
				Path:       v.Path,
				StartFrame: v.StartFrame,
				EndFrame:   v.EndFrame,
				Treatment:  v.Treatment,
			})
		}
		applyTargetParams(block, first.StepWindow, first.FramePolicy, first.ZeroEmptyFrames,
			first.Preprocessing, first.CannyIntensity, first.DepthContrast)
		return block
	}

	if legacy != nil {
		block := &StructureGuidance{
			Target: guidanceTarget(legacy.Type),
			Videos: []GuidanceVideo{{
				Path:       legacy.Path,
				StartFrame: 0,
				EndFrame:   totalFrames,
				Treatment:  legacy.Treatment,
			}},
			Strength: legacy.Strength,
		}
		applyTargetParams(block, legacy.StepWindow, legacy.FramePolicy, legacy.ZeroEmptyFrames,
			legacy.Preprocessing, legacy.CannyIntensity, legacy.DepthContrast)
		return block
	}

	return nil
}

func guidanceTarget(videoType string) string {
	if videoType == "uni3c" {
		return "uni3c"
	}
	return "vace"
}

func applyTargetParams(block *StructureGuidance, stepWindow []int, framePolicy string, zeroEmpty bool, preprocessing string, canny, depth float64) {
	if block.Target == "uni3c" {
		block.StepWindow = stepWindow
		block.FramePolicy = framePolicy
		block.ZeroEmptyFrames = zeroEmpty
		return
	}
	block.Preprocessing = preprocessing
	block.CannyIntensity = canny
	block.DepthContrast = depth
}
