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

	"reelprompt/internal/models"
)

// HistoryStore persists prompt history items. History is write-once:
// items are created after a successful generation and only ever deleted.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a new HistoryStore.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Create inserts a history item and returns it with id and timestamp set.
func (s *HistoryStore) Create(ctx context.Context, item *models.PromptHistoryItem) (*models.PromptHistoryItem, error) {
	prompt, err := json.Marshal(item.GeneratedPrompt)
	if err != nil {
		return nil, fmt.Errorf("encode generated prompt: %w", err)
	}

	dialog, err := marshalOptional(item.Dialog)
	if err != nil {
		return nil, err
	}
	sound, err := marshalOptional(item.Sound)
	if err != nil {
		return nil, err
	}
	camera, err := marshalOptional(item.Camera)
	if err != nil {
		return nil, err
	}
	lighting, err := marshalOptional(item.Lighting)
	if err != nil {
		return nil, err
	}

	saved := *item
	saved.ID = uuid.New()
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO prompt_history (id, user_id, scene_idea, platform, style, emotion,
			generated_prompt, dialog, sound, camera, lighting, is_continuation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`, saved.ID, saved.UserID, saved.SceneIdea, saved.Platform, saved.Style, saved.Emotion,
		prompt, dialog, sound, camera, lighting, saved.IsContinuation).Scan(&saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create history item: %w", err)
	}
	return &saved, nil
}

// marshalOptional encodes a possibly-nil settings pointer, returning SQL NULL for nil.
func marshalOptional(v any) (any, error) {
	switch t := v.(type) {
	case *models.DialogSettings:
		if t == nil {
			return nil, nil
		}
	case *models.SoundSettings:
		if t == nil {
			return nil, nil
		}
	case *models.CameraSettings:
		if t == nil {
			return nil, nil
		}
	case *models.LightingSettings:
		if t == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return b, nil
}

// List returns a user's history, newest first, up to limit items.
// A limit of 0 returns everything.
func (s *HistoryStore) List(ctx context.Context, userID uuid.UUID, limit int) ([]models.PromptHistoryItem, error) {
	query := `
		SELECT id, user_id, scene_idea, platform, style, emotion,
			generated_prompt, dialog, sound, camera, lighting, is_continuation, created_at
		FROM prompt_history WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var items []models.PromptHistoryItem
	for rows.Next() {
		var item models.PromptHistoryItem
		var prompt, dialog, sound, camera, lighting []byte
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.SceneIdea, &item.Platform, &item.Style, &item.Emotion,
			&prompt, &dialog, &sound, &camera, &lighting, &item.IsContinuation, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}

		if err := json.Unmarshal(prompt, &item.GeneratedPrompt); err != nil {
			return nil, fmt.Errorf("decode generated prompt: %w", err)
		}
		if len(dialog) > 0 {
			item.Dialog = &models.DialogSettings{}
			if err := json.Unmarshal(dialog, item.Dialog); err != nil {
				return nil, fmt.Errorf("decode dialog: %w", err)
			}
		}
		if len(sound) > 0 {
			item.Sound = &models.SoundSettings{}
			if err := json.Unmarshal(sound, item.Sound); err != nil {
				return nil, fmt.Errorf("decode sound: %w", err)
			}
		}
		if len(camera) > 0 {
			item.Camera = &models.CameraSettings{}
			if err := json.Unmarshal(camera, item.Camera); err != nil {
				return nil, fmt.Errorf("decode camera: %w", err)
			}
		}
		if len(lighting) > 0 {
			item.Lighting = &models.LightingSettings{}
			if err := json.Unmarshal(lighting, item.Lighting); err != nil {
				return nil, fmt.Errorf("decode lighting: %w", err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Delete removes a single history item owned by the user.
func (s *HistoryStore) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM prompt_history WHERE id = $1 AND user_id = $2
	`, itemID, userID)
	if err != nil {
		return fmt.Errorf("delete history item: %w", err)
	}
	return nil
}

// DeleteAll clears a user's entire history.
func (s *HistoryStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM prompt_history WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("delete all history: %w", err)
	}
	return nil
}
