// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package project implements multi-scene project operations: pure
// mutations over models.MultiSceneProject that enforce the scene
// invariants, and a Service that persists each mutation before handing
// the result back to the caller.
package project

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"reelprompt/internal/apperr"
	"reelprompt/internal/models"
)

// New creates a project with one scene at index 0. The initial scene
// receives ID and scene number 1 here; the caller provides its content.
func New(userID uuid.UUID, title string, initial models.SceneData) *models.MultiSceneProject {
	now := time.Now()

	initial.ID = uuid.New()
	initial.SceneNumber = 1

	return &models.MultiSceneProject{
		ID:                uuid.New(),
		UserID:            userID,
		Title:             title,
		Scenes:            []models.SceneData{initial},
		CurrentSceneIndex: 0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// AddScene appends a new scene built from the draft: scene number is
// len(scenes)+1, the current index moves to the new scene, and any
// generated prompt carried over in the draft is cleared — a new scene
// starts without a result. Fails with ErrSceneLimitExceeded when the
// project is at the tier's cap, leaving the project unmodified.
func AddScene(p *models.MultiSceneProject, draft models.SceneDraft, maxScenes int) error {
	if len(p.Scenes) >= maxScenes {
		return fmt.Errorf("project has %d of %d scenes: %w", len(p.Scenes), maxScenes, apperr.ErrSceneLimitExceeded)
	}

	scene := models.SceneData{
		ID:          uuid.New(),
		SceneNumber: len(p.Scenes) + 1,
	}
	draft.Apply(&scene)
	scene.GeneratedPrompt = nil

	p.Scenes = append(p.Scenes, scene)
	p.CurrentSceneIndex = len(p.Scenes) - 1
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateScene merges the draft into the scene at index, preserving its
// ID and scene number. Fails with ErrInvalidIndex if out of range.
func UpdateScene(p *models.MultiSceneProject, index int, draft models.SceneDraft) error {
	if index < 0 || index >= len(p.Scenes) {
		return fmt.Errorf("scene index %d of %d: %w", index, len(p.Scenes), apperr.ErrInvalidIndex)
	}

	draft.Apply(&p.Scenes[index])
	p.UpdatedAt = time.Now()
	return nil
}

// SwitchScene moves the current scene pointer. Fails with
// ErrInvalidIndex if out of range.
func SwitchScene(p *models.MultiSceneProject, index int) error {
	if index < 0 || index >= len(p.Scenes) {
		return fmt.Errorf("scene index %d of %d: %w", index, len(p.Scenes), apperr.ErrInvalidIndex)
	}

	p.CurrentSceneIndex = index
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateScenePrompt sets only the generated prompt on the scene at index.
func UpdateScenePrompt(p *models.MultiSceneProject, index int, prompt *models.GeneratedPrompt) error {
	return UpdateScene(p, index, models.SceneDraft{GeneratedPrompt: prompt})
}
