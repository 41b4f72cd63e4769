package features

import (
	"testing"

	"reelprompt/internal/models"
)

func TestForUnknownTierFailsClosed(t *testing.T) {
	got := For(models.Tier("enterprise"))
	want := For(models.TierStarter)

	if got.MaxScenes != want.MaxScenes || got.PromptHistory != want.PromptHistory {
		t.Errorf("unknown tier should map to starter, got %+v", got)
	}
	if len(got.Platforms) != len(want.Platforms) {
		t.Errorf("unknown tier platforms = %v, want starter's %v", got.Platforms, want.Platforms)
	}
}

func TestCatalogMembership(t *testing.T) {
	for _, tier := range []models.Tier{models.TierStarter, models.TierCreator, models.TierStudio} {
		f := For(tier)
		if len(f.Platforms) == 0 {
			t.Errorf("%s: empty platform set", tier)
		}
		if len(f.Emotions) == 0 {
			t.Errorf("%s: empty emotion set", tier)
		}
		for _, p := range f.Platforms {
			if !contains(AllPlatforms, p) {
				t.Errorf("%s: platform %q not in global catalog", tier, p)
			}
		}
		for _, e := range f.Emotions {
			if !contains(AllEmotions, e) {
				t.Errorf("%s: emotion %q not in global catalog", tier, e)
			}
		}
	}
}

// TestMonotonicUnlock pins the upgrade guarantee: everything starter can
// do, creator can do; everything creator can do, studio can do.
func TestMonotonicUnlock(t *testing.T) {
	order := []models.Tier{models.TierStarter, models.TierCreator, models.TierStudio}

	for i := 1; i < len(order); i++ {
		lower := For(order[i-1])
		higher := For(order[i])

		for _, p := range lower.Platforms {
			if !contains(higher.Platforms, p) {
				t.Errorf("%s lost platform %q available to %s", order[i], p, order[i-1])
			}
		}
		for _, e := range lower.Emotions {
			if !contains(higher.Emotions, e) {
				t.Errorf("%s lost emotion %q available to %s", order[i], e, order[i-1])
			}
		}
		if lower.CameraControls && !higher.CameraControls {
			t.Errorf("%s lost camera controls", order[i])
		}
		if lower.LightingOptions && !higher.LightingOptions {
			t.Errorf("%s lost lighting options", order[i])
		}
		if lower.PromptHistory && !higher.PromptHistory {
			t.Errorf("%s lost prompt history", order[i])
		}
		if lower.EnhancedPrompts && !higher.EnhancedPrompts {
			t.Errorf("%s lost enhanced prompts", order[i])
		}
		if higher.MaxScenes < lower.MaxScenes {
			t.Errorf("%s max scenes %d < %s's %d", order[i], higher.MaxScenes, order[i-1], lower.MaxScenes)
		}
		if higher.MonthlyGenerations < lower.MonthlyGenerations {
			t.Errorf("%s monthly quota %d < %s's %d", order[i], higher.MonthlyGenerations, order[i-1], lower.MonthlyGenerations)
		}
	}
}

func TestSceneCaps(t *testing.T) {
	cases := []struct {
		tier models.Tier
		want int
	}{
		{models.TierStarter, 2},
		{models.TierCreator, 5},
		{models.TierStudio, 10},
	}
	for _, tc := range cases {
		if got := For(tc.tier).MaxScenes; got != tc.want {
			t.Errorf("%s max scenes = %d, want %d", tc.tier, got, tc.want)
		}
	}
}

func TestAllowsPlatform(t *testing.T) {
	if !AllowsPlatform(models.TierStarter, "veo") {
		t.Error("starter should allow veo")
	}
	if AllowsPlatform(models.TierStarter, "kling") {
		t.Error("starter should not allow kling")
	}
	if !AllowsPlatform(models.TierStudio, "kling") {
		t.Error("studio should allow kling")
	}
}

func TestAllowsEmotion(t *testing.T) {
	if !AllowsEmotion(models.TierStarter, "epic") {
		t.Error("starter should allow epic")
	}
	if AllowsEmotion(models.TierCreator, "serene") {
		t.Error("creator should not allow serene")
	}
	if !AllowsEmotion(models.TierStudio, "serene") {
		t.Error("studio should allow serene")
	}
}
