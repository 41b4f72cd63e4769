// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package continuity

import (
	"fmt"
	"sort"
	"strings"
)

// MaxSuggestions caps how many next-scene candidates Suggest returns.
const MaxSuggestions = 4

// candidate is one templated suggestion with a coarse category tag used
// for deduplication and a relevance score used for ranking.
type candidate struct {
	category string
	text     string
	score    int
}

// Per-mood action templates. %s receives the subject (lead character or
// a generic "the main character").
var moodActions = map[string]string{
	"epic":        "%s faces the decisive confrontation as the scale widens dramatically",
	"joyful":      "%s celebrates a small victory, letting the energy spill into the surroundings",
	"mysterious":  "%s discovers a clue that deepens the mystery rather than resolving it",
	"tense":       "%s realizes they are being watched, and every sound sharpens",
	"melancholic": "%s lingers over a memento of what was lost before moving on",
	"romantic":    "%s shares a quiet, wordless moment that says more than dialogue could",
	"playful":     "%s turns an ordinary obstacle into an improvised game",
	"dreamy":      "%s drifts between reality and reverie as the boundary softens",
	"ominous":     "%s notices the first small sign that something is deeply wrong",
	"triumphant":  "%s stands at the summit of the effort, taking in how far they've come",
	"nostalgic":   "%s returns to a familiar place and finds it changed",
	"serene":      "%s pauses to absorb the stillness before the story moves again",
}

// Location progressions: where the story plausibly goes next.
var locationProgressions = map[string]string{
	"forest":     "the story emerges from the forest onto open ground",
	"city":       "the action climbs above the city to a rooftop vantage",
	"beach":      "the scene moves from the shoreline out onto the water",
	"rooftop":    "the story descends from the rooftop into the streets below",
	"street":     "the camera follows the character off the street into an interior",
	"kitchen":    "the scene spills from the kitchen into the rest of the home",
	"lighthouse": "the story leaves the lighthouse and follows the coastline",
	"cabin":      "the character steps out of the cabin into the surrounding wild",
}

// Cinematography variety beats, cycled by scene count so consecutive
// scenes get different coverage.
var cameraBeats = []string{
	"open on an extreme wide shot that re-establishes the world before closing in",
	"hold a single slow push-in for the entire beat, letting tension build in one take",
	"cut to an intimate handheld close-up that stays with the character's reaction",
	"track laterally alongside the movement, keeping the background alive",
}

// Suggest composes candidate next-scene descriptions from the extracted
// context, deduplicates by category, ranks by a simple keyword-presence
// score, and returns at most MaxSuggestions. Empty context yields nil;
// non-empty context always yields at least one suggestion.
func Suggest(ctx SceneContext) []string {
	if ctx.IsEmpty() {
		return nil
	}

	subject := "the main character"
	if len(ctx.Characters) > 0 {
		subject = ctx.Characters[0]
	}

	var cands []candidate

	if tmpl, ok := moodActions[strings.ToLower(ctx.Mood)]; ok {
		cands = append(cands, candidate{
			category: "mood",
			text:     fmt.Sprintf(tmpl, subject),
			score:    keywordScore(tmpl, ctx),
		})
	}

	if prog, ok := locationProgressions[strings.ToLower(ctx.CurrentLocation)]; ok {
		text := prog
		if ctx.TimeOfDay != "" {
			text = fmt.Sprintf("%s as %s settles in", prog, ctx.TimeOfDay)
		}
		cands = append(cands, candidate{
			category: "location",
			text:     text,
			score:    keywordScore(text, ctx),
		})
	} else if ctx.CurrentLocation != "" {
		text := fmt.Sprintf("the next scene pushes deeper into the %s, revealing a side of it the audience hasn't seen", ctx.CurrentLocation)
		cands = append(cands, candidate{category: "location", text: text, score: keywordScore(text, ctx)})
	}

	if ctx.SceneCount > 0 {
		beat := cameraBeats[ctx.SceneCount%len(cameraBeats)]
		text := beat
		if ctx.VisualStyle != "" {
			text = fmt.Sprintf("%s, keeping the %s look consistent", beat, ctx.VisualStyle)
		}
		cands = append(cands, candidate{category: "camera", text: text, score: keywordScore(text, ctx)})
	}

	for _, prop := range ctx.RecurringProps {
		text := fmt.Sprintf("the %s returns at the worst possible moment, forcing %s to act", prop, subject)
		cands = append(cands, candidate{category: "prop", text: text, score: keywordScore(text, ctx) + 1})
		break // one prop beat is enough
	}

	if len(ctx.Characters) > 1 {
		text := fmt.Sprintf("%s and %s are separated, and the scene follows each in parallel", ctx.Characters[0], ctx.Characters[1])
		cands = append(cands, candidate{category: "character", text: text, score: keywordScore(text, ctx)})
	}

	// Dedupe by category, keeping the higher-scoring candidate.
	best := map[string]candidate{}
	for _, c := range cands {
		if cur, ok := best[c.category]; !ok || c.score > cur.score {
			best[c.category] = c
		}
	}

	deduped := make([]candidate, 0, len(best))
	for _, c := range best {
		deduped = append(deduped, c)
	}
	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].score != deduped[j].score {
			return deduped[i].score > deduped[j].score
		}
		return deduped[i].category < deduped[j].category
	})

	if len(deduped) > MaxSuggestions {
		deduped = deduped[:MaxSuggestions]
	}

	out := make([]string, len(deduped))
	for i, c := range deduped {
		out[i] = c.text
	}
	return out
}

// keywordScore counts how many extracted context terms appear in the
// candidate text. Crude on purpose.
func keywordScore(text string, ctx SceneContext) int {
	lower := strings.ToLower(text)
	score := 0

	for _, term := range append([]string{ctx.CurrentLocation, ctx.Mood, ctx.TimeOfDay, ctx.VisualStyle}, ctx.RecurringProps...) {
		if term != "" && strings.Contains(lower, strings.ToLower(term)) {
			score++
		}
	}
	for _, ch := range ctx.Characters {
		if strings.Contains(lower, strings.ToLower(ch)) {
			score++
		}
	}
	return score
}
