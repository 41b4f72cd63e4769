// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"fmt"
	"strings"

	"reelprompt/internal/continuity"
	"reelprompt/internal/features"
	"reelprompt/internal/models"
	"reelprompt/internal/wizard"
)

// Request is the generation payload assembled from wizard state plus
// optional multi-scene continuity. Camera settings are a pointer: nil
// means every camera field was empty, and the group is omitted from the
// request entirely so the generator falls back to defaults/continuity.
type Request struct {
	SceneIdea      string                   `json:"scene_idea"`
	Platform       string                   `json:"platform"`
	Emotion        string                   `json:"emotion"`
	Dialog         models.DialogSettings    `json:"dialog_settings"`
	Sound          models.SoundSettings     `json:"sound_settings"`
	Camera         *models.CameraSettings   `json:"camera_settings,omitempty"`
	Lighting       models.LightingSettings  `json:"lighting_settings"`
	StyleReference string                   `json:"style_reference"`
	Tier           models.Tier              `json:"tier"`
	SceneNumber    int                      `json:"scene_number,omitempty"`
	TotalScenes    int                      `json:"total_scenes,omitempty"`
	IsMultiScene   bool                     `json:"is_multi_scene"`
	SceneContext   *continuity.SceneContext `json:"scene_context,omitempty"`
	Enhanced       bool                     `json:"enhanced"`
}

// BuildRequest packages the wizard state for generation. When the state
// belongs to a multi-scene project, proj supplies scene counters and the
// extracted continuity context.
func BuildRequest(state *wizard.State, tier models.Tier, proj *models.MultiSceneProject) Request {
	f := features.For(tier)

	req := Request{
		SceneIdea:      strings.TrimSpace(state.SceneIdea),
		Platform:       state.SelectedPlatform,
		Emotion:        state.SelectedEmotion,
		Dialog:         state.Dialog,
		Sound:          state.Sound,
		Lighting:       state.Lighting,
		StyleReference: state.StyleReference,
		Tier:           tier,
		Enhanced:       f.EnhancedPrompts,
	}

	if !state.Camera.IsEmpty() {
		cam := state.Camera
		req.Camera = &cam
	}

	switch state.Mode {
	case wizard.ModeAnimalVlog:
		req.SceneIdea = animalVlogIdea(state)
		if req.Platform == "" {
			req.Platform = state.DetectedPlatform
		}
	case wizard.ModeInstant:
		// Instant mode carries only the idea; everything else stays at
		// its zero value and the generator fills in sensible defaults.
	}

	if proj != nil && len(proj.Scenes) > 0 {
		req.IsMultiScene = true
		req.SceneNumber = proj.CurrentSceneIndex + 1
		req.TotalScenes = len(proj.Scenes)

		ctx := continuity.ExtractContext(proj.Scenes[:proj.CurrentSceneIndex])
		if !ctx.IsEmpty() {
			req.SceneContext = &ctx
		}
	}

	return req
}

// animalVlogIdea folds the animal vlog fields into a single scene
// description, preserving whatever shared idea text the user typed.
func animalVlogIdea(state *wizard.State) string {
	var b strings.Builder

	animal := state.AnimalType
	if animal == "" {
		animal = "an animal"
	}
	fmt.Fprintf(&b, "A first-person vlog hosted by %s", animal)

	if state.SceneVibe != "" {
		fmt.Fprintf(&b, " with a %s vibe", state.SceneVibe)
	}
	if idea := strings.TrimSpace(state.SceneIdea); idea != "" {
		fmt.Fprintf(&b, ". %s", idea)
	}
	if state.HasVoiceover && state.VoiceoverContent != "" {
		fmt.Fprintf(&b, ". Voiceover: %q", state.VoiceoverContent)
	}

	return b.String()
}
