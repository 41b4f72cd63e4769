// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package wizard implements the multi-step prompt builder: the active
// step sequence for each mode, next/previous navigation, and the draft
// form state that backs a user's in-progress scene.
package wizard

import (
	"github.com/google/uuid"

	"reelprompt/internal/features"
	"reelprompt/internal/models"
)

// Mode selects which step sequence the wizard walks through.
type Mode string

const (
	// ModeInstant is a single-step flow: describe the scene, generate.
	ModeInstant Mode = "instant"

	// ModeAnimalVlog is the fixed three-step animal vlog flow.
	ModeAnimalVlog Mode = "animal-vlog"

	// ModeCreative is the full cinematic flow with tier-gated steps.
	ModeCreative Mode = "creative"
)

// ParseMode maps a raw string to a Mode, defaulting to creative.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeInstant:
		return ModeInstant
	case ModeAnimalVlog:
		return ModeAnimalVlog
	default:
		return ModeCreative
	}
}

// Step identifies one screen of the wizard.
type Step string

const (
	StepSceneIdea       Step = "scene_idea"
	StepPlatformEmotion Step = "platform_emotion"
	StepDialog          Step = "dialog"
	StepSound           Step = "sound"
	StepCamera          Step = "camera"
	StepLighting        Step = "lighting"
	StepStyle           Step = "style"
	StepResults         Step = "results"

	StepAnimalType  Step = "animal_type"
	StepAnimalScene Step = "animal_scene"
	StepAnimalVoice Step = "animal_voice"
)

// State is the draft form state for one user's wizard session. It lives
// in Valkey between requests (see Drafts) and is the input to prompt
// generation.
type State struct {
	Mode        Mode `json:"mode"`
	CurrentStep int  `json:"current_step"` // 1-based position in the active sequence

	// Shared across modes.
	SceneIdea string `json:"scene_idea"`

	// Creative mode fields.
	SelectedPlatform string                  `json:"selected_platform"`
	SelectedEmotion  string                  `json:"selected_emotion"`
	Dialog           models.DialogSettings   `json:"dialog_settings"`
	Sound            models.SoundSettings    `json:"sound_settings"`
	Camera           models.CameraSettings   `json:"camera_settings"`
	Lighting         models.LightingSettings `json:"lighting_settings"`
	StyleReference   string                  `json:"style_reference"`

	// Animal vlog mode fields.
	AnimalType       string `json:"animal_type,omitempty"`
	SceneVibe        string `json:"scene_vibe,omitempty"`
	HasVoiceover     bool   `json:"has_voiceover,omitempty"`
	VoiceoverContent string `json:"voiceover_content,omitempty"`
	DetectedPlatform string `json:"detected_platform,omitempty"`

	// Active project, when the wizard is continuing a multi-scene story.
	ProjectID *uuid.UUID `json:"project_id,omitempty"`

	// Last generation result, kept so the results step can re-render.
	LastResult *models.GeneratedPrompt `json:"last_result,omitempty"`
}

// NewState returns a fresh wizard state positioned at step 1 of the
// given mode.
func NewState(mode Mode) *State {
	return &State{Mode: mode, CurrentStep: 1}
}

// Steps computes the ordered active step sequence for a mode under the
// given feature set. The count is derived, never fixed: creative mode
// grows when the tier unlocks camera controls or lighting options.
func Steps(mode Mode, f features.Features) []Step {
	switch mode {
	case ModeInstant:
		return []Step{StepSceneIdea}
	case ModeAnimalVlog:
		return []Step{StepAnimalType, StepAnimalScene, StepAnimalVoice}
	default:
		steps := []Step{StepSceneIdea, StepPlatformEmotion, StepDialog, StepSound}
		if f.CameraControls {
			steps = append(steps, StepCamera)
		}
		if f.LightingOptions {
			steps = append(steps, StepLighting)
		}
		steps = append(steps, StepStyle, StepResults)
		return steps
	}
}

// ActiveStep returns the step the state currently points at, clamping
// first so a shrunk sequence (tier change mid-session) cannot index out
// of range.
func (s *State) ActiveStep(f features.Features) Step {
	s.ClampStep(f)
	return Steps(s.Mode, f)[s.CurrentStep-1]
}

// Next advances to the following step. A no-op at the last step.
func (s *State) Next(f features.Features) {
	s.ClampStep(f)
	if s.CurrentStep < len(Steps(s.Mode, f)) {
		s.CurrentStep++
	}
}

// Prev moves back one step. A no-op at step 1.
func (s *State) Prev(f features.Features) {
	s.ClampStep(f)
	if s.CurrentStep > 1 {
		s.CurrentStep--
	}
}

// ClampStep pulls CurrentStep back into the valid range for the active
// sequence. Feature flags can change mid-session (tier upgrade or
// downgrade), so the stored position may reference a step that no longer
// exists.
func (s *State) ClampStep(f features.Features) {
	n := len(Steps(s.Mode, f))
	if s.CurrentStep > n {
		s.CurrentStep = n
	}
	if s.CurrentStep < 1 {
		s.CurrentStep = 1
	}
}

// SetMode switches the wizard to a different mode: position resets to
// step 1 and mode-specific fields are cleared, but the shared scene idea
// text survives the switch.
func (s *State) SetMode(mode Mode) {
	s.Mode = mode
	s.CurrentStep = 1

	s.AnimalType = ""
	s.SceneVibe = ""
	s.HasVoiceover = false
	s.VoiceoverContent = ""
	s.DetectedPlatform = ""
	s.LastResult = nil
}
