// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// MultiSceneProject is an ordered collection of scenes representing a
// continuing story. Invariants: scene numbers are unique and densely
// increasing from 1; CurrentSceneIndex always resolves to an existing
// scene; the scene count never exceeds the tier's per-project cap.
type MultiSceneProject struct {
	ID                uuid.UUID   `json:"id"`
	UserID            uuid.UUID   `json:"user_id"`
	Title             string      `json:"title"`
	Scenes            []SceneData `json:"scenes"`
	CurrentSceneIndex int         `json:"current_scene_index"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// CurrentScene returns the scene at CurrentSceneIndex, or nil for an
// empty project.
func (p *MultiSceneProject) CurrentScene() *SceneData {
	if p.CurrentSceneIndex < 0 || p.CurrentSceneIndex >= len(p.Scenes) {
		return nil
	}
	return &p.Scenes[p.CurrentSceneIndex]
}

// Clone returns a deep copy of the project, scenes and nested prompt
// data included, so a copy can be mutated without aliasing the
// original's slices or pointers.
func (p *MultiSceneProject) Clone() *MultiSceneProject {
	c := *p
	c.Scenes = make([]SceneData, len(p.Scenes))
	copy(c.Scenes, p.Scenes)
	for i := range c.Scenes {
		if gp := c.Scenes[i].GeneratedPrompt; gp != nil {
			gpCopy := *gp
			if gp.Metadata != nil {
				mdCopy := *gp.Metadata
				gpCopy.Metadata = &mdCopy
			}
			c.Scenes[i].GeneratedPrompt = &gpCopy
		}
	}
	return &c
}
