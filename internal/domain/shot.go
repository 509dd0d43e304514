package domain

import "time"

// GenerationMode selects how segment frame counts are derived.
type GenerationMode string

const (
	// GenerationModeTimeline derives frame counts from image timeline positions.
	GenerationModeTimeline GenerationMode = "timeline"
	// GenerationModeBatch uses a uniform frame count for every segment.
	GenerationModeBatch GenerationMode = "batch"
)

// MotionMode selects whether the phase plan is synthesized or user-authored.
type MotionMode string

const (
	MotionModeBasic    MotionMode = "basic"
	MotionModeAdvanced MotionMode = "advanced"
)

// Shot is one ordered sequence of source images to be rendered into a video.
type Shot struct {
	ID        string
	ProjectID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PositionedImage is one source still image within a shot. Position is nil
// when the image has never been placed on the timeline.
type PositionedImage struct {
	ID          string
	PairGroupID string
	Position    *int
	LocationURL string
	IsVideo     bool
}

// Positioned reports whether the image participates in timeline-mode gap
// computation: a still image with a present, non-negative position.
func (p PositionedImage) Positioned() bool {
	return !p.IsVideo && p.Position != nil && *p.Position >= 0
}

// PairOverride carries optional per-segment prompt metadata attached to the
// first image of an adjacent pair. Nil fields mean "no override": the
// distinction between an absent override and an explicitly empty one matters
// for negative prompts, so these stay pointers rather than plain strings.
type PairOverride struct {
	Prompt         *string
	NegativePrompt *string
	EnhancedPrompt *string
}

// StructureVideo is one structure-guidance video descriptor in the current
// multi-video schema. Type is one of "uni3c", "flow", "canny" or "depth".
type StructureVideo struct {
	Path       string
	Type       string
	StartFrame int
	EndFrame   int
	Treatment  string
	Strength   float64

	// uni3c specific
	StepWindow      []int
	FramePolicy     string
	ZeroEmptyFrames bool

	// vace specific
	Preprocessing  string
	CannyIntensity float64
	DepthContrast  float64
}

// LegacyStructureVideo is the retired single-video schema. It carries no
// frame range: a migrated descriptor spans the whole computed duration.
type LegacyStructureVideo struct {
	Path      string
	Type      string
	Treatment string
	Strength  float64

	StepWindow      []int
	FramePolicy     string
	ZeroEmptyFrames bool

	Preprocessing  string
	CannyIntensity float64
	DepthContrast  float64
}

// ShotSettings are the user-tunable generation settings persisted per shot.
type ShotSettings struct {
	Mode              GenerationMode
	DefaultFrameCount int
	BasePrompt        string
	NegativePrompt    string
	AmountOfMotion    int
	Loras             []LoraRef
	AdvancedMode      bool
	MotionMode        MotionMode
	UserPhaseConfig   *PhaseConfig
	StructureVideos   []StructureVideo
	LegacyStructure   *LegacyStructureVideo
	Seed              *int64
}

// ShotSnapshot is the read-only view of a shot taken immediately before
// compilation. Overrides are keyed by the ID of the pair's start image.
type ShotSnapshot struct {
	ShotID    string
	Images    []PositionedImage
	Overrides map[string]PairOverride
	Settings  ShotSettings
}
