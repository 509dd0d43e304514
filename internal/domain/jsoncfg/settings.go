// Package jsoncfg defines the JSON shapes persisted in the shot_settings
// column and their normalization into domain values. Both API handlers and
// the repository go through this package, so schema defaults live in exactly
// one place.
package jsoncfg

import (
	"encoding/json"
	"fmt"

	"shotserver/internal/domain"
)

const (
	// DefaultSettingsVersion is the schema version persisted for shot settings.
	DefaultSettingsVersion = "2025-07"
	// MaxAmountOfMotion caps the motion slider value.
	MaxAmountOfMotion = 100
)

var allowedStructureTypes = map[string]struct{}{
	"uni3c": {},
	"flow":  {},
	"canny": {},
	"depth": {},
}

// StructureVideoJSON is one structure-guidance descriptor in the current
// persisted schema.
type StructureVideoJSON struct {
	Path       string  `json:"path"`
	Type       string  `json:"type"`
	StartFrame int     `json:"start_frame"`
	EndFrame   int     `json:"end_frame"`
	Treatment  string  `json:"treatment"`
	Strength   float64 `json:"strength"`

	StepWindow      []int  `json:"step_window,omitempty"`
	FramePolicy     string `json:"frame_policy,omitempty"`
	ZeroEmptyFrames bool   `json:"zero_empty_frames,omitempty"`

	Preprocessing  string  `json:"preprocessing,omitempty"`
	CannyIntensity float64 `json:"canny_intensity,omitempty"`
	DepthContrast  float64 `json:"depth_contrast,omitempty"`
}

// LegacyStructureVideoJSON is the retired single-video schema, still present
// in rows saved before the multi-video migration.
type LegacyStructureVideoJSON struct {
	Path      string  `json:"path"`
	Type      string  `json:"type"`
	Treatment string  `json:"treatment"`
	Strength  float64 `json:"strength"`

	StepWindow      []int  `json:"step_window,omitempty"`
	FramePolicy     string `json:"frame_policy,omitempty"`
	ZeroEmptyFrames bool   `json:"zero_empty_frames,omitempty"`

	Preprocessing  string  `json:"preprocessing,omitempty"`
	CannyIntensity float64 `json:"canny_intensity,omitempty"`
	DepthContrast  float64 `json:"depth_contrast,omitempty"`
}

// SettingsJSON is the persisted shape of a shot's generation settings.
// StructureVideo (singular) is the legacy field; StructureVideos is current.
type SettingsJSON struct {
	Version           string                    `json:"version"`
	Mode              string                    `json:"mode"`
	DefaultFrameCount int                       `json:"default_frame_count"`
	BasePrompt        string                    `json:"base_prompt"`
	NegativePrompt    string                    `json:"negative_prompt"`
	AmountOfMotion    int                       `json:"amount_of_motion"`
	Loras             []domain.LoraRef          `json:"loras"`
	AdvancedMode      bool                      `json:"advanced_mode"`
	MotionMode        string                    `json:"motion_mode"`
	PhaseConfig       *domain.PhaseConfig       `json:"phase_config,omitempty"`
	StructureVideos   []StructureVideoJSON      `json:"structure_videos,omitempty"`
	StructureVideo    *LegacyStructureVideoJSON `json:"structure_video,omitempty"`
	Seed              *int64                    `json:"seed,omitempty"`
}

// Normalize ensures the settings JSON respects server defaults and limits.
func (s *SettingsJSON) Normalize() {
	if s == nil {
		return
	}
	if s.Version == "" {
		s.Version = DefaultSettingsVersion
	}
	if s.Mode == "" {
		s.Mode = string(domain.GenerationModeTimeline)
	}
	if s.MotionMode == "" {
		s.MotionMode = string(domain.MotionModeBasic)
	}
	if s.AmountOfMotion < 0 {
		s.AmountOfMotion = 0
	}
	if s.AmountOfMotion > MaxAmountOfMotion {
		s.AmountOfMotion = MaxAmountOfMotion
	}
}

// Validate ensures the settings satisfy the contract before persistence.
func (s SettingsJSON) Validate() error {
	switch domain.GenerationMode(s.Mode) {
	case domain.GenerationModeTimeline, domain.GenerationModeBatch:
	default:
		return fmt.Errorf("mode must be timeline or batch")
	}
	switch domain.MotionMode(s.MotionMode) {
	case domain.MotionModeBasic, domain.MotionModeAdvanced:
	default:
		return fmt.Errorf("motion_mode must be basic or advanced")
	}
	if s.DefaultFrameCount < 0 {
		return fmt.Errorf("default_frame_count must not be negative")
	}
	for i, v := range s.StructureVideos {
		if _, ok := allowedStructureTypes[v.Type]; !ok {
			return fmt.Errorf("structure_videos[%d].type must be one of uni3c, flow, canny, depth", i)
		}
	}
	if s.StructureVideo != nil {
		if _, ok := allowedStructureTypes[s.StructureVideo.Type]; !ok {
			return fmt.Errorf("structure_video.type must be one of uni3c, flow, canny, depth")
		}
	}
	return nil
}

// ToDomain converts the persisted shape into the compiler's settings view.
func (s SettingsJSON) ToDomain() domain.ShotSettings {
	out := domain.ShotSettings{
		Mode:              domain.GenerationMode(s.Mode),
		DefaultFrameCount: s.DefaultFrameCount,
		BasePrompt:        s.BasePrompt,
		NegativePrompt:    s.NegativePrompt,
		AmountOfMotion:    s.AmountOfMotion,
		Loras:             domain.CloneLoras(s.Loras),
		AdvancedMode:      s.AdvancedMode,
		MotionMode:        domain.MotionMode(s.MotionMode),
		Seed:              s.Seed,
	}
	if s.PhaseConfig != nil {
		cfg := s.PhaseConfig.Clone()
		out.UserPhaseConfig = &cfg
	}
	for _, v := range s.StructureVideos {
		out.StructureVideos = append(out.StructureVideos, domain.StructureVideo{
			Path:            v.Path,
			Type:            v.Type,
			StartFrame:      v.StartFrame,
			EndFrame:        v.EndFrame,
			Treatment:       v.Treatment,
			Strength:        v.Strength,
			StepWindow:      v.StepWindow,
			FramePolicy:     v.FramePolicy,
			ZeroEmptyFrames: v.ZeroEmptyFrames,
			Preprocessing:   v.Preprocessing,
			CannyIntensity:  v.CannyIntensity,
			DepthContrast:   v.DepthContrast,
		})
	}
	if s.StructureVideo != nil {
		out.LegacyStructure = &domain.LegacyStructureVideo{
			Path:            s.StructureVideo.Path,
			Type:            s.StructureVideo.Type,
			Treatment:       s.StructureVideo.Treatment,
			Strength:        s.StructureVideo.Strength,
			StepWindow:      s.StructureVideo.StepWindow,
			FramePolicy:     s.StructureVideo.FramePolicy,
			ZeroEmptyFrames: s.StructureVideo.ZeroEmptyFrames,
			Preprocessing:   s.StructureVideo.Preprocessing,
			CannyIntensity:  s.StructureVideo.CannyIntensity,
			DepthContrast:   s.StructureVideo.DepthContrast,
		}
	}
	return out
}

// MustMarshal panics on marshal failure; used for payloads built from
// in-memory values that cannot legitimately fail to encode.
func MustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("json marshal: %w", err))
	}
	return b
}
