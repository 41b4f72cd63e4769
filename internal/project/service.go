// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reelprompt/internal/apperr"
	"reelprompt/internal/features"
	"reelprompt/internal/models"
)

// Store is the persistence the service writes projects through. The
// database-backed implementation lives in internal/store.
type Store interface {
	SaveProject(ctx context.Context, p *models.MultiSceneProject) error
	GetProject(ctx context.Context, userID, projectID uuid.UUID) (*models.MultiSceneProject, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]models.MultiSceneProject, error)
	DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error
}

// Service applies project mutations and persists them synchronously.
// Every mutating call saves the whole project (project row plus the full
// scene set) before returning; on a persistence failure the mutated
// value is discarded and only the error comes back.
type Service struct {
	store Store
}

// NewService creates a project service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Start creates and persists a project with one initial scene. Fails
// with ErrAuthRequired if no user identity is supplied.
func (s *Service) Start(ctx context.Context, userID uuid.UUID, title string, initial models.SceneData) (*models.MultiSceneProject, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrAuthRequired
	}
	if title == "" {
		title = "Untitled Story"
	}

	p := New(userID, title, initial)
	if err := s.store.SaveProject(ctx, p); err != nil {
		return nil, fmt.Errorf("start project: %w", err)
	}
	return p, nil
}

// AddScene loads the project, appends a scene under the tier's cap, and
// persists the result.
func (s *Service) AddScene(ctx context.Context, userID, projectID uuid.UUID, tier models.Tier, draft models.SceneDraft) (*models.MultiSceneProject, error) {
	p, err := s.load(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if err := AddScene(p, draft, features.For(tier).MaxScenes); err != nil {
		return nil, err
	}
	if err := s.store.SaveProject(ctx, p); err != nil {
		return nil, fmt.Errorf("add scene: %w", err)
	}
	return p, nil
}

// UpdateScene merges a draft into the scene at index and persists.
func (s *Service) UpdateScene(ctx context.Context, userID, projectID uuid.UUID, index int, draft models.SceneDraft) (*models.MultiSceneProject, error) {
	p, err := s.load(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if err := UpdateScene(p, index, draft); err != nil {
		return nil, err
	}
	if err := s.store.SaveProject(ctx, p); err != nil {
		return nil, fmt.Errorf("update scene: %w", err)
	}
	return p, nil
}

// SwitchScene moves the current scene pointer and persists.
func (s *Service) SwitchScene(ctx context.Context, userID, projectID uuid.UUID, index int) (*models.MultiSceneProject, error) {
	p, err := s.load(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if err := SwitchScene(p, index); err != nil {
		return nil, err
	}
	if err := s.store.SaveProject(ctx, p); err != nil {
		return nil, fmt.Errorf("switch scene: %w", err)
	}
	return p, nil
}

// UpdateScenePrompt stores a generation result on the scene at index.
func (s *Service) UpdateScenePrompt(ctx context.Context, userID, projectID uuid.UUID, index int, prompt *models.GeneratedPrompt) (*models.MultiSceneProject, error) {
	return s.UpdateScene(ctx, userID, projectID, index, models.SceneDraft{GeneratedPrompt: prompt})
}

// Get returns a project owned by the user, or nil when it does not
// exist (or belongs to someone else).
func (s *Service) Get(ctx context.Context, userID, projectID uuid.UUID) (*models.MultiSceneProject, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrAuthRequired
	}
	p, err := s.store.GetProject(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return p, nil
}

// List returns the user's projects, most recently updated first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.MultiSceneProject, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrAuthRequired
	}
	return s.store.ListProjects(ctx, userID)
}

// Delete removes a project wholesale. Scenes are never deleted
// individually, only with their project.
func (s *Service) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperr.ErrAuthRequired
	}
	return s.store.DeleteProject(ctx, userID, projectID)
}

func (s *Service) load(ctx context.Context, userID, projectID uuid.UUID) (*models.MultiSceneProject, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrAuthRequired
	}

	p, err := s.store.GetProject(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("project %s: %w", projectID, apperr.ErrInvalidIndex)
	}
	return p, nil
}
