package continuity

import (
	"strings"
	"testing"

	"reelprompt/internal/models"
)

func sceneWithMetadata(md *models.PromptMetadata) models.SceneData {
	return models.SceneData{
		GeneratedPrompt: &models.GeneratedPrompt{MainPrompt: "generated text", Metadata: md},
	}
}

func TestExtractContextPrefersMetadata(t *testing.T) {
	scenes := []models.SceneData{
		sceneWithMetadata(&models.PromptMetadata{
			Characters:  []string{"Mira"},
			Location:    "lighthouse",
			Mood:        "serene",
			TimeOfDay:   "dawn",
			VisualStyle: "anamorphic film",
			KeyProps:    []string{"lantern"},
		}),
		sceneWithMetadata(&models.PromptMetadata{
			Characters: []string{"Mira", "the keeper"},
			Location:   "harbor",
			Mood:       "tense",
			KeyProps:   []string{"lantern"},
		}),
	}

	ctx := ExtractContext(scenes)

	if len(ctx.Characters) != 2 {
		t.Errorf("characters = %v, want Mira and the keeper once each", ctx.Characters)
	}
	if ctx.CurrentLocation != "harbor" {
		t.Errorf("current location = %q, want harbor (latest scene wins)", ctx.CurrentLocation)
	}
	if len(ctx.PreviousLocations) != 1 || ctx.PreviousLocations[0] != "lighthouse" {
		t.Errorf("previous locations = %v", ctx.PreviousLocations)
	}
	if ctx.Mood != "tense" {
		t.Errorf("mood = %q, want latest scene's tense", ctx.Mood)
	}
	if ctx.TimeOfDay != "dawn" {
		t.Errorf("time of day = %q, want dawn carried from scene 1", ctx.TimeOfDay)
	}
	if len(ctx.RecurringProps) != 1 || ctx.RecurringProps[0] != "lantern" {
		t.Errorf("recurring props = %v, want [lantern]", ctx.RecurringProps)
	}
}

func TestExtractContextKeywordFallback(t *testing.T) {
	scenes := []models.SceneData{
		{
			SceneIdea:       "a detective walks a rain-soaked city street at night",
			SelectedEmotion: "mysterious",
		},
	}

	ctx := ExtractContext(scenes)

	if ctx.CurrentLocation != "city" {
		t.Errorf("location = %q, want city from keyword scan", ctx.CurrentLocation)
	}
	if ctx.TimeOfDay != "night" {
		t.Errorf("time of day = %q, want night", ctx.TimeOfDay)
	}
	if ctx.Mood != "mysterious" {
		t.Errorf("mood = %q, want mysterious", ctx.Mood)
	}
}

func TestExtractContextEmptyScenes(t *testing.T) {
	ctx := ExtractContext(nil)
	if !ctx.IsEmpty() {
		t.Errorf("context from no scenes should be empty: %+v", ctx)
	}
	if ctx.SceneCount != 0 {
		t.Errorf("scene count = %d", ctx.SceneCount)
	}
}

func TestSuggestNonEmptyForNonEmptyContext(t *testing.T) {
	ctx := SceneContext{
		Characters:      []string{"Mira"},
		CurrentLocation: "lighthouse",
		Mood:            "serene",
		TimeOfDay:       "dawn",
		SceneCount:      2,
	}

	got := Suggest(ctx)
	if len(got) == 0 {
		t.Fatal("non-empty context must produce at least one suggestion")
	}
	if len(got) > MaxSuggestions {
		t.Fatalf("got %d suggestions, cap is %d", len(got), MaxSuggestions)
	}
}

func TestSuggestEmptyContext(t *testing.T) {
	if got := Suggest(SceneContext{SceneCount: 3}); got != nil {
		t.Errorf("empty context produced suggestions: %v", got)
	}
}

func TestSuggestUsesLeadCharacter(t *testing.T) {
	ctx := SceneContext{
		Characters: []string{"Mira"},
		Mood:       "tense",
		SceneCount: 1,
	}

	found := false
	for _, s := range Suggest(ctx) {
		if strings.Contains(s, "Mira") {
			found = true
		}
	}
	if !found {
		t.Error("no suggestion mentioned the lead character")
	}
}

func TestSuggestDeduplicatesByCategory(t *testing.T) {
	ctx := SceneContext{
		CurrentLocation: "forest",
		Mood:            "epic",
		RecurringProps:  []string{"lantern", "map"},
		Characters:      []string{"Anna", "Ben"},
		SceneCount:      3,
	}

	got := Suggest(ctx)
	seen := map[string]bool{}
	for _, s := range got {
		if seen[s] {
			t.Errorf("duplicate suggestion: %q", s)
		}
		seen[s] = true
	}
}

func TestRecurringPropThreshold(t *testing.T) {
	// The lantern appears in two scenes, the key in one: only the lantern
	// should count as recurring.
	scenes := []models.SceneData{
		{SceneIdea: "she lights the lantern by the door"},
		{SceneIdea: "the lantern gutters as she finds a key"},
	}

	ctx := ExtractContext(scenes)
	if len(ctx.RecurringProps) != 1 || ctx.RecurringProps[0] != "lantern" {
		t.Errorf("recurring props = %v, want [lantern]", ctx.RecurringProps)
	}
}
