// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"reelprompt/internal/apperr"
	"reelprompt/internal/models"
)

// ProjectStore persists multi-scene projects. A project is stored as a
// projects row plus one scenes row per scene; SaveProject writes both in
// a single transaction by replacing the full scene set, which keeps
// scene numbering authoritative in one place (the in-memory mutation).
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// SaveProject upserts the project row and replaces its scene set.
func (s *ProjectStore) SaveProject(ctx context.Context, p *models.MultiSceneProject) error {
	if p.ID == uuid.Nil || p.UserID == uuid.Nil {
		return fmt.Errorf("%w: project is missing id or owner", apperr.ErrPersistenceFailed)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", apperr.ErrPersistenceFailed, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, title, current_scene_index)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, current_scene_index = EXCLUDED.current_scene_index, updated_at = NOW()
	`, p.ID, p.UserID, p.Title, p.CurrentSceneIndex)
	if err != nil {
		return fmt.Errorf("%w: save project: %v", apperr.ErrPersistenceFailed, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scenes WHERE project_id = $1`, p.ID); err != nil {
		return fmt.Errorf("%w: clear scenes: %v", apperr.ErrPersistenceFailed, err)
	}

	for i := range p.Scenes {
		if err := insertScene(ctx, tx, p.ID, &p.Scenes[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", apperr.ErrPersistenceFailed, err)
	}
	return nil
}

func insertScene(ctx context.Context, tx *sql.Tx, projectID uuid.UUID, sc *models.SceneData) error {
	dialog, err := json.Marshal(sc.Dialog)
	if err != nil {
		return fmt.Errorf("%w: encode dialog: %v", apperr.ErrPersistenceFailed, err)
	}
	sound, err := json.Marshal(sc.Sound)
	if err != nil {
		return fmt.Errorf("%w: encode sound: %v", apperr.ErrPersistenceFailed, err)
	}
	camera, err := json.Marshal(sc.Camera)
	if err != nil {
		return fmt.Errorf("%w: encode camera: %v", apperr.ErrPersistenceFailed, err)
	}
	lighting, err := json.Marshal(sc.Lighting)
	if err != nil {
		return fmt.Errorf("%w: encode lighting: %v", apperr.ErrPersistenceFailed, err)
	}

	var prompt []byte
	if sc.GeneratedPrompt != nil {
		prompt, err = json.Marshal(sc.GeneratedPrompt)
		if err != nil {
			return fmt.Errorf("%w: encode prompt: %v", apperr.ErrPersistenceFailed, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scenes (id, project_id, scene_number, scene_idea, platform, emotion,
			dialog, sound, camera, lighting, style_reference, generated_prompt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, sc.ID, projectID, sc.SceneNumber, sc.SceneIdea, sc.SelectedPlatform, sc.SelectedEmotion,
		dialog, sound, camera, lighting, sc.StyleReference, nullableJSON(prompt))
	if err != nil {
		return fmt.Errorf("%w: save scene %d: %v", apperr.ErrPersistenceFailed, sc.SceneNumber, err)
	}
	return nil
}

// nullableJSON converts an empty byte slice to a SQL NULL.
func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

// GetProject loads a project with all its scenes ordered by scene number.
// Returns nil if the project does not exist or belongs to another user.
func (s *ProjectStore) GetProject(ctx context.Context, userID, projectID uuid.UUID) (*models.MultiSceneProject, error) {
	p := &models.MultiSceneProject{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, current_scene_index, created_at, updated_at
		FROM projects WHERE id = $1 AND user_id = $2
	`, projectID, userID).Scan(
		&p.ID, &p.UserID, &p.Title, &p.CurrentSceneIndex, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	scenes, err := s.loadScenes(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Scenes = scenes
	return p, nil
}

func (s *ProjectStore) loadScenes(ctx context.Context, projectID uuid.UUID) ([]models.SceneData, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scene_number, scene_idea, platform, emotion,
			dialog, sound, camera, lighting, style_reference, generated_prompt
		FROM scenes WHERE project_id = $1 ORDER BY scene_number ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("load scenes: %w", err)
	}
	defer rows.Close()

	var scenes []models.SceneData
	for rows.Next() {
		var sc models.SceneData
		var dialog, sound, camera, lighting, prompt []byte
		if err := rows.Scan(
			&sc.ID, &sc.SceneNumber, &sc.SceneIdea, &sc.SelectedPlatform, &sc.SelectedEmotion,
			&dialog, &sound, &camera, &lighting, &sc.StyleReference, &prompt,
		); err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}

		if err := decodeSceneJSON(&sc, dialog, sound, camera, lighting, prompt); err != nil {
			return nil, err
		}
		scenes = append(scenes, sc)
	}
	return scenes, rows.Err()
}

func decodeSceneJSON(sc *models.SceneData, dialog, sound, camera, lighting, prompt []byte) error {
	if len(dialog) > 0 {
		if err := json.Unmarshal(dialog, &sc.Dialog); err != nil {
			return fmt.Errorf("decode dialog: %w", err)
		}
	}
	if len(sound) > 0 {
		if err := json.Unmarshal(sound, &sc.Sound); err != nil {
			return fmt.Errorf("decode sound: %w", err)
		}
	}
	if len(camera) > 0 {
		if err := json.Unmarshal(camera, &sc.Camera); err != nil {
			return fmt.Errorf("decode camera: %w", err)
		}
	}
	if len(lighting) > 0 {
		if err := json.Unmarshal(lighting, &sc.Lighting); err != nil {
			return fmt.Errorf("decode lighting: %w", err)
		}
	}
	if len(prompt) > 0 {
		sc.GeneratedPrompt = &models.GeneratedPrompt{}
		if err := json.Unmarshal(prompt, sc.GeneratedPrompt); err != nil {
			return fmt.Errorf("decode generated prompt: %w", err)
		}
	}
	return nil
}

// ListProjects returns a user's projects, most recently updated first.
// Scenes are loaded for each project so list responses can show scene counts.
func (s *ProjectStore) ListProjects(ctx context.Context, userID uuid.UUID) ([]models.MultiSceneProject, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, current_scene_index, created_at, updated_at
		FROM projects WHERE user_id = $1 ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.MultiSceneProject
	for rows.Next() {
		var p models.MultiSceneProject
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.CurrentSceneIndex, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		scenes, err := s.loadScenes(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Scenes = scenes
	}
	return projects, nil
}

// DeleteProject removes a project and its scenes (via ON DELETE CASCADE).
func (s *ProjectStore) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM projects WHERE id = $1 AND user_id = $2
	`, projectID, userID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
