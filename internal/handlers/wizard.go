// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"reelprompt/internal/apperr"
	"reelprompt/internal/features"
	"reelprompt/internal/middleware"
	"reelprompt/internal/models"
	"reelprompt/internal/store"
	"reelprompt/internal/wizard"
)

// Wizard groups the draft wizard-state handlers. The state itself lives
// in Valkey; every response carries the step sequence derived from the
// user's current tier so the client renders exactly the steps the tier
// unlocks.
type Wizard struct {
	drafts *wizard.Drafts
	subs   *store.SubscriptionStore
}

// NewWizard creates a new Wizard handler group.
func NewWizard(drafts *wizard.Drafts, subs *store.SubscriptionStore) *Wizard {
	return &Wizard{drafts: drafts, subs: subs}
}

type wizardResponse struct {
	State      *wizard.State `json:"state"`
	Steps      []wizard.Step `json:"steps"`
	ActiveStep wizard.Step   `json:"active_step"`
	TotalSteps int           `json:"total_steps"`
}

func (h *Wizard) respondState(w http.ResponseWriter, state *wizard.State, f features.Features) {
	steps := wizard.Steps(state.Mode, f)
	respondJSON(w, http.StatusOK, wizardResponse{
		State:      state,
		Steps:      steps,
		ActiveStep: state.ActiveStep(f),
		TotalSteps: len(steps),
	})
}

// load fetches the session, tier features, and draft state for the
// current user.
func (h *Wizard) load(r *http.Request) (*wizard.State, features.Features, uuid.UUID, error) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return nil, features.Features{}, uuid.Nil, apperr.ErrAuthRequired
	}

	tier, err := effectiveTier(h.subs, sess.UserID)
	if err != nil {
		return nil, features.Features{}, uuid.Nil, err
	}

	state, err := h.drafts.Get(r.Context(), sess.UserID)
	if err != nil {
		return nil, features.Features{}, uuid.Nil, err
	}
	return state, features.For(tier), sess.UserID, nil
}

// Get returns the current wizard state and derived step sequence.
func (h *Wizard) Get(w http.ResponseWriter, r *http.Request) {
	state, f, _, err := h.load(r)
	if err != nil {
		respondError(w, err)
		return
	}
	h.respondState(w, state, f)
}

// wizardUpdateRequest carries partial field updates. Nil means "leave
// unchanged", so the client can PATCH one step's fields at a time.
type wizardUpdateRequest struct {
	SceneIdea        *string                  `json:"scene_idea,omitempty"`
	SelectedPlatform *string                  `json:"selected_platform,omitempty"`
	SelectedEmotion  *string                  `json:"selected_emotion,omitempty"`
	Dialog           *models.DialogSettings   `json:"dialog_settings,omitempty"`
	Sound            *models.SoundSettings    `json:"sound_settings,omitempty"`
	Camera           *models.CameraSettings   `json:"camera_settings,omitempty"`
	Lighting         *models.LightingSettings `json:"lighting_settings,omitempty"`
	StyleReference   *string                  `json:"style_reference,omitempty"`
	AnimalType       *string                  `json:"animal_type,omitempty"`
	SceneVibe        *string                  `json:"scene_vibe,omitempty"`
	HasVoiceover     *bool                    `json:"has_voiceover,omitempty"`
	VoiceoverContent *string                  `json:"voiceover_content,omitempty"`
	ProjectID        *uuid.UUID               `json:"project_id,omitempty"`
}

// Update merges field changes into the draft. Platform and emotion
// choices are checked against the tier's catalog and rejected when the
// tier does not include them.
func (h *Wizard) Update(w http.ResponseWriter, r *http.Request) {
	state, f, userID, err := h.load(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req wizardUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	if req.SelectedPlatform != nil && *req.SelectedPlatform != "" && !contains(f.Platforms, *req.SelectedPlatform) {
		respondBadRequest(w, "Platform %q is not available on your plan.", *req.SelectedPlatform)
		return
	}
	if req.SelectedEmotion != nil && *req.SelectedEmotion != "" && !contains(f.Emotions, *req.SelectedEmotion) {
		respondBadRequest(w, "Emotion %q is not available on your plan.", *req.SelectedEmotion)
		return
	}
	if req.Camera != nil && !f.CameraControls {
		respondBadRequest(w, "Camera controls are not available on your plan.")
		return
	}
	if req.Lighting != nil && !f.LightingOptions {
		respondBadRequest(w, "Lighting options are not available on your plan.")
		return
	}

	applyWizardUpdate(state, &req)

	if err := h.drafts.Save(r.Context(), userID, state); err != nil {
		respondError(w, err)
		return
	}
	h.respondState(w, state, f)
}

func applyWizardUpdate(s *wizard.State, req *wizardUpdateRequest) {
	if req.SceneIdea != nil {
		s.SceneIdea = *req.SceneIdea
	}
	if req.SelectedPlatform != nil {
		s.SelectedPlatform = *req.SelectedPlatform
	}
	if req.SelectedEmotion != nil {
		s.SelectedEmotion = *req.SelectedEmotion
	}
	if req.Dialog != nil {
		s.Dialog = *req.Dialog
	}
	if req.Sound != nil {
		s.Sound = *req.Sound
	}
	if req.Camera != nil {
		s.Camera = *req.Camera
	}
	if req.Lighting != nil {
		s.Lighting = *req.Lighting
	}
	if req.StyleReference != nil {
		s.StyleReference = *req.StyleReference
	}
	if req.AnimalType != nil {
		s.AnimalType = *req.AnimalType
	}
	if req.SceneVibe != nil {
		s.SceneVibe = *req.SceneVibe
	}
	if req.HasVoiceover != nil {
		s.HasVoiceover = *req.HasVoiceover
	}
	if req.VoiceoverContent != nil {
		s.VoiceoverContent = *req.VoiceoverContent
	}
	if req.ProjectID != nil {
		if *req.ProjectID == uuid.Nil {
			s.ProjectID = nil
		} else {
			id := *req.ProjectID
			s.ProjectID = &id
		}
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Next advances the wizard one step.
func (h *Wizard) Next(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(s *wizard.State, f features.Features) { s.Next(f) })
}

// Prev moves the wizard back one step.
func (h *Wizard) Prev(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(s *wizard.State, f features.Features) { s.Prev(f) })
}

func (h *Wizard) step(w http.ResponseWriter, r *http.Request, move func(*wizard.State, features.Features)) {
	state, f, userID, err := h.load(r)
	if err != nil {
		respondError(w, err)
		return
	}

	move(state, f)

	if err := h.drafts.Save(r.Context(), userID, state); err != nil {
		respondError(w, err)
		return
	}
	h.respondState(w, state, f)
}

type setModeRequest struct {
	Mode string `json:"mode"`
}

// SetMode switches the wizard mode, resetting position and mode-specific
// fields while keeping the shared scene idea.
func (h *Wizard) SetMode(w http.ResponseWriter, r *http.Request) {
	state, f, userID, err := h.load(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req setModeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	state.SetMode(wizard.ParseMode(req.Mode))

	if err := h.drafts.Save(r.Context(), userID, state); err != nil {
		respondError(w, err)
		return
	}
	h.respondState(w, state, f)
}

// Reset discards the draft; the next Get starts a fresh creative-mode state.
func (h *Wizard) Reset(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}

	if err := h.drafts.Delete(r.Context(), sess.UserID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"reset": true})
}
