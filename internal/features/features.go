// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package features holds the static subscription feature matrix: for each
// tier, the allowed target platforms and emotions plus boolean feature
// flags and quotas. The matrix is the single source of truth for tier
// gating — scene caps and generation quotas live here and nowhere else.
package features

import "reelprompt/internal/models"

// Platform catalog, in display order. Each identifier names a video
// generation target the prompt output is tuned for.
var AllPlatforms = []string{"veo", "sora", "runway", "pika", "kling", "luma"}

// Emotion catalog, in display order.
var AllEmotions = []string{
	"epic", "joyful", "mysterious", "tense", "melancholic", "romantic",
	"playful", "dreamy", "ominous", "triumphant",
	"nostalgic", "serene", "chaotic", "intimate",
}

// Features describes everything a tier unlocks.
type Features struct {
	Platforms          []string `json:"platforms"`
	Emotions           []string `json:"emotions"`
	CameraControls     bool     `json:"camera_controls"`
	LightingOptions    bool     `json:"lighting_options"`
	PromptHistory      bool     `json:"prompt_history"`
	EnhancedPrompts    bool     `json:"enhanced_prompts"`
	MaxScenes          int      `json:"max_scenes_per_project"`
	MonthlyGenerations int      `json:"monthly_generations"`
}

// matrix is loaded once at process start and never mutated. Higher tiers
// are strict supersets of lower ones.
var matrix = map[models.Tier]Features{
	models.TierStarter: {
		Platforms:          AllPlatforms[:2],
		Emotions:           AllEmotions[:6],
		CameraControls:     false,
		LightingOptions:    false,
		PromptHistory:      false,
		EnhancedPrompts:    false,
		MaxScenes:          2,
		MonthlyGenerations: 10,
	},
	models.TierCreator: {
		Platforms:          AllPlatforms[:4],
		Emotions:           AllEmotions[:10],
		CameraControls:     true,
		LightingOptions:    true,
		PromptHistory:      true,
		EnhancedPrompts:    false,
		MaxScenes:          5,
		MonthlyGenerations: 100,
	},
	models.TierStudio: {
		Platforms:          AllPlatforms,
		Emotions:           AllEmotions,
		CameraControls:     true,
		LightingOptions:    true,
		PromptHistory:      true,
		EnhancedPrompts:    true,
		MaxScenes:          10,
		MonthlyGenerations: 1000,
	},
}

// For returns the feature set for a tier. Unknown tiers fail closed to
// starter. The returned slices are shared — callers must not mutate them.
func For(tier models.Tier) Features {
	if f, ok := matrix[tier]; ok {
		return f
	}
	return matrix[models.TierStarter]
}

// AllowsPlatform reports whether the tier may target the given platform.
func AllowsPlatform(tier models.Tier, platform string) bool {
	return contains(For(tier).Platforms, platform)
}

// AllowsEmotion reports whether the tier may select the given emotion.
func AllowsEmotion(tier models.Tier, emotion string) bool {
	return contains(For(tier).Emotions, emotion)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
