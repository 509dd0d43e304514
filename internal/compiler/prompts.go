package compiler

import (
	"strings"

	"shotserver/internal/domain"
)

// PromptSet holds the per-segment prompt arrays. Base, Negative and (when
// HasEnhanced) Enhanced are always segment-aligned.
type PromptSet struct {
	Base     []string
	Negative []string
	Enhanced []string
	// HasEnhanced gates inclusion of Enhanced in the payload. The worker
	// treats an all-empty enhanced array as an instruction to copy the base
	// prompt into every slot, so an array with no content must be withheld.
	HasEnhanced bool
}

// ResolvePrompts builds the effective prompt arrays for every segment.
// Overrides are attached to the pair's start image, so segment i reads the
// override of images[i].
//
// A missing or blank prompt override yields the empty string, not the
// shot-level default: the worker substitutes its own default per empty slot,
// and pre-filling it here would defeat per-segment customization. The
// negative prompt, by contrast, falls back to the shot default.
func ResolvePrompts(images []domain.PositionedImage, segmentCount int, overrides map[string]domain.PairOverride, defaultNegative string) PromptSet {
	set := PromptSet{
		Base:     make([]string, segmentCount),
		Negative: make([]string, segmentCount),
		Enhanced: make([]string, segmentCount),
	}
	for i := 0; i < segmentCount; i++ {
		var ov domain.PairOverride
		if i < len(images) {
			ov = overrides[images[i].ID]
		}

		if ov.Prompt != nil {
			set.Base[i] = strings.TrimSpace(*ov.Prompt)
		}

		set.Negative[i] = defaultNegative
		if ov.NegativePrompt != nil {
			if trimmed := strings.TrimSpace(*ov.NegativePrompt); trimmed != "" {
				set.Negative[i] = trimmed
			}
		}

		if ov.EnhancedPrompt != nil && *ov.EnhancedPrompt != "" {
			set.Enhanced[i] = *ov.EnhancedPrompt
			set.HasEnhanced = true
		}
	}
	return set
}
