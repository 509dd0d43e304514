package compiler

import (
	"testing"

	"shotserver/internal/domain"
)

func strp(s string) *string { return &s }

func TestResolvePromptsNoOverridesEmitsEmptyStrings(t *testing.T) {
	images := []domain.PositionedImage{img("a", intp(0)), img("b", intp(20)), img("c", intp(55)), img("d", intp(81))}
	set := ResolvePrompts(images, 3, nil, "blurry, low quality")

	for i, p := range set.Base {
		// Empty, not the shot default: the worker fills defaults per slot.
		if p != "" {
			t.Fatalf("base prompt %d = %q, want empty", i, p)
		}
	}
	for i, n := range set.Negative {
		if n != "blurry, low quality" {
			t.Fatalf("negative prompt %d = %q, want shot default", i, n)
		}
	}
	if set.HasEnhanced {
		t.Fatalf("HasEnhanced = true with no overrides")
	}
}

func TestResolvePromptsOverrideOnMiddleSegment(t *testing.T) {
	images := []domain.PositionedImage{img("a", intp(0)), img("b", intp(20)), img("c", intp(55)), img("d", intp(81))}
	overrides := map[string]domain.PairOverride{
		"b": {Prompt: strp("neon city")},
	}
	set := ResolvePrompts(images, 3, overrides, "")

	if set.Base[0] != "" || set.Base[1] != "neon city" || set.Base[2] != "" {
		t.Fatalf("base prompts = %v, want [\"\", \"neon city\", \"\"]", set.Base)
	}
}

func TestResolvePromptsTrimsAndTreatsBlankAsEmpty(t *testing.T) {
	images := []domain.PositionedImage{img("a", intp(0)), img("b", intp(10))}
	overrides := map[string]domain.PairOverride{
		"a": {Prompt: strp("  padded prompt  ")},
	}
	set := ResolvePrompts(images, 1, overrides, "neg")
	if set.Base[0] != "padded prompt" {
		t.Fatalf("base prompt = %q, want trimmed", set.Base[0])
	}

	overrides["a"] = domain.PairOverride{Prompt: strp("   ")}
	set = ResolvePrompts(images, 1, overrides, "neg")
	if set.Base[0] != "" {
		t.Fatalf("whitespace-only override = %q, want empty", set.Base[0])
	}
}

func TestResolvePromptsNegativeFallback(t *testing.T) {
	images := []domain.PositionedImage{img("a", intp(0)), img("b", intp(10)), img("c", intp(20))}
	overrides := map[string]domain.PairOverride{
		"a": {NegativePrompt: strp("hands, text")},
		"b": {NegativePrompt: strp("   ")}, // blank override defers to default
	}
	set := ResolvePrompts(images, 2, overrides, "default neg")
	if set.Negative[0] != "hands, text" {
		t.Fatalf("negative 0 = %q", set.Negative[0])
	}
	if set.Negative[1] != "default neg" {
		t.Fatalf("negative 1 = %q, want fallback to shot default", set.Negative[1])
	}
}

func TestResolvePromptsEnhancedGating(t *testing.T) {
	images := []domain.PositionedImage{img("a", intp(0)), img("b", intp(10)), img("c", intp(20))}

	set := ResolvePrompts(images, 2, map[string]domain.PairOverride{
		"a": {EnhancedPrompt: strp("")},
	}, "")
	if set.HasEnhanced {
		t.Fatalf("empty enhanced prompt must not set HasEnhanced")
	}

	set = ResolvePrompts(images, 2, map[string]domain.PairOverride{
		"b": {EnhancedPrompt: strp("a rich cinematic description")},
	}, "")
	if !set.HasEnhanced {
		t.Fatalf("expected HasEnhanced")
	}
	if set.Enhanced[0] != "" || set.Enhanced[1] != "a rich cinematic description" {
		t.Fatalf("enhanced = %v", set.Enhanced)
	}
}

func TestResolvePromptsArraysAlwaysSegmentAligned(t *testing.T) {
	images := []domain.PositionedImage{img("a", intp(0))}
	set := ResolvePrompts(images, 1, nil, "neg")
	if len(set.Base) != 1 || len(set.Negative) != 1 || len(set.Enhanced) != 1 {
		t.Fatalf("array lengths = %d/%d/%d, want 1/1/1", len(set.Base), len(set.Negative), len(set.Enhanced))
	}
}
