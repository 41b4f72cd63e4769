// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"

	"github.com/google/uuid"
)

// CameraSettings describes optional camera direction for a scene.
// Empty fields mean "unspecified" — the generator must tolerate absence.
type CameraSettings struct {
	Angle    string `json:"angle,omitempty"`
	Movement string `json:"movement,omitempty"`
	Shot     string `json:"shot,omitempty"`
}

// IsEmpty reports whether no camera field is set. An empty group is
// omitted from generation requests entirely: omission signals "use
// default/continuity", not "explicitly blank".
func (c CameraSettings) IsEmpty() bool {
	return strings.TrimSpace(c.Angle) == "" &&
		strings.TrimSpace(c.Movement) == "" &&
		strings.TrimSpace(c.Shot) == ""
}

// LightingSettings describes optional lighting direction for a scene.
type LightingSettings struct {
	Mood      string `json:"mood,omitempty"`
	Style     string `json:"style,omitempty"`
	TimeOfDay string `json:"time_of_day,omitempty"`
}

// DialogSettings describes whether and how characters speak.
type DialogSettings struct {
	HasDialog bool   `json:"has_dialog"`
	Type      string `json:"type,omitempty"`
	Style     string `json:"style,omitempty"`
	Language  string `json:"language,omitempty"`
	Content   string `json:"content,omitempty"`
}

// SoundSettings describes the scene's audio direction.
type SoundSettings struct {
	HasSound    bool   `json:"has_sound"`
	Genre       string `json:"genre,omitempty"`
	Effects     string `json:"effects,omitempty"`
	Ambience    string `json:"ambience,omitempty"`
	Description string `json:"description,omitempty"`
}

// PromptMetadata carries structured hints extracted by the generator.
// It feeds the continuity suggestion heuristics only and is never
// validated against the downstream generator.
type PromptMetadata struct {
	Characters    []string `json:"characters,omitempty"`
	Location      string   `json:"location,omitempty"`
	TimeOfDay     string   `json:"time_of_day,omitempty"`
	Mood          string   `json:"mood,omitempty"`
	VisualStyle   string   `json:"visual_style,omitempty"`
	KeyProps      []string `json:"key_props,omitempty"`
	ColorPalette  string   `json:"color_palette,omitempty"`
	CameraWork    string   `json:"camera_work,omitempty"`
	Lighting      string   `json:"lighting,omitempty"`
	StoryElements []string `json:"story_elements,omitempty"`
}

// GeneratedPrompt is the structured result of a generation call.
type GeneratedPrompt struct {
	MainPrompt     string          `json:"main_prompt"`
	TechnicalSpecs string          `json:"technical_specs"`
	StyleNotes     string          `json:"style_notes"`
	Platform       string          `json:"platform"`
	SceneNumber    int             `json:"scene_number,omitempty"`
	TotalScenes    int             `json:"total_scenes,omitempty"`
	Metadata       *PromptMetadata `json:"metadata,omitempty"`
}

// SceneData is one step of a story: the user's inputs for a single scene
// plus the optional generated result. SceneNumber is 1-based and assigned
// by append order; it never changes after creation.
type SceneData struct {
	ID               uuid.UUID        `json:"id"`
	SceneNumber      int              `json:"scene_number"`
	SceneIdea        string           `json:"scene_idea"`
	SelectedPlatform string           `json:"selected_platform"`
	SelectedEmotion  string           `json:"selected_emotion"`
	Dialog           DialogSettings   `json:"dialog_settings"`
	Sound            SoundSettings    `json:"sound_settings"`
	Camera           CameraSettings   `json:"camera_settings"`
	Lighting         LightingSettings `json:"lighting_settings"`
	StyleReference   string           `json:"style_reference"`
	GeneratedPrompt  *GeneratedPrompt `json:"generated_prompt,omitempty"`
}

// SceneDraft holds the fields a caller may set when creating or updating
// a scene. Nil pointers mean "leave unchanged" on update.
type SceneDraft struct {
	SceneIdea        *string           `json:"scene_idea,omitempty"`
	SelectedPlatform *string           `json:"selected_platform,omitempty"`
	SelectedEmotion  *string           `json:"selected_emotion,omitempty"`
	Dialog           *DialogSettings   `json:"dialog_settings,omitempty"`
	Sound            *SoundSettings    `json:"sound_settings,omitempty"`
	Camera           *CameraSettings   `json:"camera_settings,omitempty"`
	Lighting         *LightingSettings `json:"lighting_settings,omitempty"`
	StyleReference   *string           `json:"style_reference,omitempty"`
	GeneratedPrompt  *GeneratedPrompt  `json:"generated_prompt,omitempty"`
}

// Apply merges the draft's set fields into the scene, preserving its
// identity fields (ID, SceneNumber).
func (d *SceneDraft) Apply(s *SceneData) {
	if d.SceneIdea != nil {
		s.SceneIdea = *d.SceneIdea
	}
	if d.SelectedPlatform != nil {
		s.SelectedPlatform = *d.SelectedPlatform
	}
	if d.SelectedEmotion != nil {
		s.SelectedEmotion = *d.SelectedEmotion
	}
	if d.Dialog != nil {
		s.Dialog = *d.Dialog
	}
	if d.Sound != nil {
		s.Sound = *d.Sound
	}
	if d.Camera != nil {
		s.Camera = *d.Camera
	}
	if d.Lighting != nil {
		s.Lighting = *d.Lighting
	}
	if d.StyleReference != nil {
		s.StyleReference = *d.StyleReference
	}
	if d.GeneratedPrompt != nil {
		s.GeneratedPrompt = d.GeneratedPrompt
	}
}
