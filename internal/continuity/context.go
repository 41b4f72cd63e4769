// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package continuity derives best-effort story context from a project's
// scenes and composes advisory next-scene suggestions from it. Nothing
// here carries a correctness contract: extraction prefers the structured
// metadata the generator returns and falls back to keyword scanning of
// raw prompt text, and the output never feeds invariant-bearing logic.
package continuity

import (
	"strings"

	"reelprompt/internal/models"
)

// SceneContext aggregates continuity signals across all scenes of a
// project, in scene order.
type SceneContext struct {
	Characters        []string `json:"characters,omitempty"`
	CurrentLocation   string   `json:"current_location,omitempty"`
	PreviousLocations []string `json:"previous_locations,omitempty"`
	Mood              string   `json:"mood,omitempty"`
	TimeOfDay         string   `json:"time_of_day,omitempty"`
	VisualStyle       string   `json:"visual_style,omitempty"`
	RecurringProps    []string `json:"recurring_props,omitempty"`
	SceneCount        int      `json:"scene_count"`
}

// IsEmpty reports whether extraction found nothing usable.
func (c SceneContext) IsEmpty() bool {
	return len(c.Characters) == 0 && c.CurrentLocation == "" && c.Mood == "" &&
		c.TimeOfDay == "" && c.VisualStyle == "" && len(c.RecurringProps) == 0
}

// Keyword tables for the fallback text scan. Deliberately coarse — a
// miss just means a weaker suggestion, never an error.
var (
	locationKeywords = []string{
		"forest", "city", "beach", "mountain", "desert", "rooftop",
		"street", "kitchen", "office", "warehouse", "cabin", "harbor",
		"market", "alley", "bridge", "lighthouse", "river", "meadow",
	}
	timeKeywords = []string{
		"dawn", "sunrise", "morning", "noon", "afternoon",
		"golden hour", "sunset", "dusk", "twilight", "night", "midnight",
	}
	moodKeywords = []string{
		"epic", "joyful", "mysterious", "tense", "melancholic", "romantic",
		"playful", "dreamy", "ominous", "triumphant", "nostalgic", "serene",
	}
	propKeywords = []string{
		"lantern", "letter", "map", "camera", "umbrella", "sword",
		"bicycle", "radio", "locket", "key", "journal", "telescope",
	}
)

// ExtractContext walks the scenes in order and aggregates continuity
// signals. Later scenes win for single-valued fields (location, mood,
// time of day, visual style); characters and props accumulate across the
// whole project.
func ExtractContext(scenes []models.SceneData) SceneContext {
	ctx := SceneContext{SceneCount: len(scenes)}

	seenChars := map[string]bool{}
	propCounts := map[string]int{}

	for _, scene := range scenes {
		md := sceneMetadata(scene)

		if md != nil {
			for _, ch := range md.Characters {
				addUnique(&ctx.Characters, seenChars, ch)
			}
			if md.Location != "" {
				pushLocation(&ctx, md.Location)
			}
			if md.Mood != "" {
				ctx.Mood = md.Mood
			}
			if md.TimeOfDay != "" {
				ctx.TimeOfDay = md.TimeOfDay
			}
			if md.VisualStyle != "" {
				ctx.VisualStyle = md.VisualStyle
			}
			for _, prop := range md.KeyProps {
				propCounts[strings.ToLower(prop)]++
			}
			continue
		}

		// No structured metadata — fall back to scanning the text we have.
		text := strings.ToLower(scene.SceneIdea)
		if scene.GeneratedPrompt != nil {
			text += " " + strings.ToLower(scene.GeneratedPrompt.MainPrompt)
		}

		if loc := firstKeyword(text, locationKeywords); loc != "" {
			pushLocation(&ctx, loc)
		}
		if tod := firstKeyword(text, timeKeywords); tod != "" {
			ctx.TimeOfDay = tod
		}
		if mood := firstKeyword(text, moodKeywords); mood != "" {
			ctx.Mood = mood
		} else if scene.SelectedEmotion != "" {
			ctx.Mood = scene.SelectedEmotion
		}
		for _, prop := range allKeywords(text, propKeywords) {
			propCounts[prop]++
		}
	}

	// A prop is "recurring" once it shows up in more than one scene, or in
	// the only scene of a single-scene project.
	threshold := 2
	if len(scenes) == 1 {
		threshold = 1
	}
	for _, prop := range propKeywords {
		if propCounts[prop] >= threshold {
			ctx.RecurringProps = append(ctx.RecurringProps, prop)
		}
	}
	// Metadata props are not in the keyword table; include those too.
	for prop, n := range propCounts {
		if n >= threshold && !keywordInTable(prop, propKeywords) {
			ctx.RecurringProps = append(ctx.RecurringProps, prop)
		}
	}

	return ctx
}

func sceneMetadata(scene models.SceneData) *models.PromptMetadata {
	if scene.GeneratedPrompt == nil {
		return nil
	}
	return scene.GeneratedPrompt.Metadata
}

func pushLocation(ctx *SceneContext, loc string) {
	if ctx.CurrentLocation != "" && !strings.EqualFold(ctx.CurrentLocation, loc) {
		ctx.PreviousLocations = append(ctx.PreviousLocations, ctx.CurrentLocation)
	}
	ctx.CurrentLocation = loc
}

func addUnique(list *[]string, seen map[string]bool, v string) {
	key := strings.ToLower(strings.TrimSpace(v))
	if key == "" || seen[key] {
		return
	}
	seen[key] = true
	*list = append(*list, strings.TrimSpace(v))
}

func firstKeyword(text string, table []string) string {
	for _, kw := range table {
		if strings.Contains(text, kw) {
			return kw
		}
	}
	return ""
}

func allKeywords(text string, table []string) []string {
	var found []string
	for _, kw := range table {
		if strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}

func keywordInTable(kw string, table []string) bool {
	for _, t := range table {
		if t == kw {
			return true
		}
	}
	return false
}
