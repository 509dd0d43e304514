// Package compiler turns a shot snapshot into a single, internally
// consistent job payload for the multi-phase video generation worker.
package compiler

import (
	"sort"

	"shotserver/internal/domain"
)

// DefaultFrameOverlap is the fixed per-segment overlap. Not a tunable.
const DefaultFrameOverlap = 10

// Segment is one generated clip spanning two adjacent source images.
type Segment struct {
	Index        int
	FrameCount   int
	FrameOverlap int
}

// Timeline is the resolved pairing for a shot: the canonical ordered image
// list plus one segment per adjacent pair. Every downstream array (prompts,
// frame counts, image URLs) is derived from Images, so the filter applied
// here is the only place image participation is decided.
type Timeline struct {
	Images   []domain.PositionedImage
	Segments []Segment
}

// ResolveTimeline filters a shot's raw image records down to usable stills
// and derives the segment list.
//
// Timeline mode keeps images with a non-negative position, sorts them
// ascending and uses the inter-image gaps as frame counts. Fewer than two
// positioned images is not an error: it degenerates to a single segment of
// defaultFrames. Batch mode emits max(n-1, 1) uniform segments.
func ResolveTimeline(images []domain.PositionedImage, mode domain.GenerationMode, defaultFrames int) Timeline {
	usable := make([]domain.PositionedImage, 0, len(images))
	for _, img := range images {
		if img.IsVideo || img.LocationURL == "" {
			continue
		}
		usable = append(usable, img)
	}

	if mode == domain.GenerationModeTimeline {
		positioned := make([]domain.PositionedImage, 0, len(usable))
		for _, img := range usable {
			if img.Positioned() {
				positioned = append(positioned, img)
			}
		}
		sort.SliceStable(positioned, func(i, j int) bool {
			return *positioned[i].Position < *positioned[j].Position
		})
		if len(positioned) < 2 {
			return Timeline{
				Images:   positioned,
				Segments: []Segment{{Index: 0, FrameCount: defaultFrames, FrameOverlap: DefaultFrameOverlap}},
			}
		}
		segments := make([]Segment, 0, len(positioned)-1)
		for i := 0; i < len(positioned)-1; i++ {
			segments = append(segments, Segment{
				Index:        i,
				FrameCount:   *positioned[i+1].Position - *positioned[i].Position,
				FrameOverlap: DefaultFrameOverlap,
			})
		}
		return Timeline{Images: positioned, Segments: segments}
	}

	count := len(usable) - 1
	if count < 1 {
		count = 1
	}
	segments := make([]Segment, count)
	for i := range segments {
		segments[i] = Segment{Index: i, FrameCount: defaultFrames, FrameOverlap: DefaultFrameOverlap}
	}
	return Timeline{Images: usable, Segments: segments}
}

// TotalFrames is the computed duration of the shot in frames.
func (t Timeline) TotalFrames() int {
	total := 0
	for _, seg := range t.Segments {
		total += seg.FrameCount
	}
	return total
}
