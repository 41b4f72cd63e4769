// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"reelprompt/internal/apperr"
	"reelprompt/internal/cache"
	"reelprompt/internal/middleware"
	"reelprompt/internal/models"
	"reelprompt/internal/project"
	"reelprompt/internal/store"
	"reelprompt/internal/wizard"
)

// Projects groups the multi-scene project handlers. Mutations go through
// the project service, which persists synchronously; the wizard draft is
// kept pointing at the active project and scene.
type Projects struct {
	service     *project.Service
	drafts      *wizard.Drafts
	subs        *store.SubscriptionStore
	suggestions *cache.SuggestionCache // nil when Valkey caching is disabled
}

// NewProjects creates a new Projects handler group.
func NewProjects(service *project.Service, drafts *wizard.Drafts, subs *store.SubscriptionStore, suggestions *cache.SuggestionCache) *Projects {
	return &Projects{
		service:     service,
		drafts:      drafts,
		subs:        subs,
		suggestions: suggestions,
	}
}

// urlID parses the {id} URL parameter as a UUID.
func urlID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// urlIndex parses the {index} URL parameter as a non-negative integer.
func urlIndex(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "index"))
	return n, err == nil && n >= 0
}

type startProjectRequest struct {
	Title string `json:"title,omitempty"`
}

// Start creates a project whose first scene is seeded from the wizard
// draft, then attaches the draft to the new project.
func (h *Projects) Start(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}

	var req startProjectRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondBadRequest(w, "invalid request body")
			return
		}
	}
	if msg := validateProjectTitle(req.Title); msg != "" {
		respondBadRequest(w, "%s", msg)
		return
	}

	state, err := h.drafts.Get(r.Context(), sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	initial := models.SceneData{
		SceneIdea:        state.SceneIdea,
		SelectedPlatform: state.SelectedPlatform,
		SelectedEmotion:  state.SelectedEmotion,
		Dialog:           state.Dialog,
		Sound:            state.Sound,
		Camera:           state.Camera,
		Lighting:         state.Lighting,
		StyleReference:   state.StyleReference,
		GeneratedPrompt:  state.LastResult,
	}

	p, err := h.service.Start(r.Context(), sess.UserID, req.Title, initial)
	if err != nil {
		respondError(w, err)
		return
	}

	state.ProjectID = &p.ID
	if err := h.drafts.Save(r.Context(), sess.UserID, state); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

// List returns the user's projects, most recently updated first.
func (h *Projects) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}

	projects, err := h.service.List(r.Context(), sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if projects == nil {
		projects = []models.MultiSceneProject{}
	}
	respondJSON(w, http.StatusOK, projects)
}

// Get returns one project with all scenes.
func (h *Projects) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondBadRequest(w, "invalid project id")
		return
	}

	p, err := h.service.Get(r.Context(), sess.UserID, id)
	if err != nil {
		respondError(w, err)
		return
	}
	if p == nil {
		respondError(w, apperr.ErrInvalidIndex)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Delete removes a project, detaches the wizard draft if it pointed at
// it, and drops any cached suggestions.
func (h *Projects) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondBadRequest(w, "invalid project id")
		return
	}

	if err := h.service.Delete(r.Context(), sess.UserID, id); err != nil {
		respondError(w, err)
		return
	}

	if h.suggestions != nil {
		h.suggestions.Invalidate(r.Context(), id)
	}

	state, err := h.drafts.Get(r.Context(), sess.UserID)
	if err == nil && state.ProjectID != nil && *state.ProjectID == id {
		state.ProjectID = nil
		h.drafts.Save(r.Context(), sess.UserID, state)
	}

	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// AddScene appends a scene under the tier's cap and moves the project to
// it. The wizard draft follows: the new scene becomes the active draft.
func (h *Projects) AddScene(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondBadRequest(w, "invalid project id")
		return
	}

	tier, err := effectiveTier(h.subs, sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	var draft models.SceneDraft
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &draft); err != nil {
			respondBadRequest(w, "invalid request body")
			return
		}
	}

	p, err := h.service.AddScene(r.Context(), sess.UserID, id, tier, draft)
	if err != nil {
		respondError(w, err)
		return
	}

	h.syncDraftToScene(r, sess.UserID, p)

	respondJSON(w, http.StatusCreated, p)
}

// UpdateScene merges draft fields into the scene at {index}.
func (h *Projects) UpdateScene(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondBadRequest(w, "invalid project id")
		return
	}
	index, ok := urlIndex(r)
	if !ok {
		respondBadRequest(w, "invalid scene index")
		return
	}

	var draft models.SceneDraft
	if err := decodeJSON(r, &draft); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	p, err := h.service.UpdateScene(r.Context(), sess.UserID, id, index, draft)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// SwitchScene changes the active scene pointer and loads that scene's
// fields into the wizard draft so editing resumes where the scene is.
func (h *Projects) SwitchScene(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondBadRequest(w, "invalid project id")
		return
	}
	index, ok := urlIndex(r)
	if !ok {
		respondBadRequest(w, "invalid scene index")
		return
	}

	p, err := h.service.SwitchScene(r.Context(), sess.UserID, id, index)
	if err != nil {
		respondError(w, err)
		return
	}

	h.syncDraftToScene(r, sess.UserID, p)

	respondJSON(w, http.StatusOK, p)
}

// syncDraftToScene mirrors the project's current scene into the wizard
// draft. Draft sync failures are not fatal to the project mutation that
// already persisted.
func (h *Projects) syncDraftToScene(r *http.Request, userID uuid.UUID, p *models.MultiSceneProject) {
	scene := p.CurrentScene()
	if scene == nil {
		return
	}

	state, err := h.drafts.Get(r.Context(), userID)
	if err != nil {
		return
	}

	state.ProjectID = &p.ID
	state.SceneIdea = scene.SceneIdea
	state.SelectedPlatform = scene.SelectedPlatform
	state.SelectedEmotion = scene.SelectedEmotion
	state.Dialog = scene.Dialog
	state.Sound = scene.Sound
	state.Camera = scene.Camera
	state.Lighting = scene.Lighting
	state.StyleReference = scene.StyleReference
	state.LastResult = scene.GeneratedPrompt

	h.drafts.Save(r.Context(), userID, state)
}
