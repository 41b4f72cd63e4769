// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PromptHistoryItem mirrors a single generated prompt for quick listing.
// Write-once; deletable individually or in bulk. It is deliberately not
// linked referentially to MultiSceneProject — history survives project
// deletion.
type PromptHistoryItem struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	SceneIdea       string            `json:"scene_idea"`
	Platform        string            `json:"platform"`
	Style           string            `json:"style"`
	Emotion         string            `json:"emotion"`
	GeneratedPrompt GeneratedPrompt   `json:"generated_prompt"`
	Dialog          *DialogSettings   `json:"dialog_settings,omitempty"`
	Sound           *SoundSettings    `json:"sound_settings,omitempty"`
	Camera          *CameraSettings   `json:"camera_settings,omitempty"`
	Lighting        *LightingSettings `json:"lighting_settings,omitempty"`
	IsContinuation  bool              `json:"is_continuation"`
	CreatedAt       time.Time         `json:"created_at"`
}
