// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelprompt/internal/apperr"
	"reelprompt/internal/features"
	"reelprompt/internal/generator"
	"reelprompt/internal/middleware"
	"reelprompt/internal/models"
	"reelprompt/internal/project"
	"reelprompt/internal/store"
	"reelprompt/internal/wizard"
)

// Generate handles prompt generation requests. It enforces the tier's
// monthly quota, calls the active provider through the invoker, and
// performs the side effects a successful generation carries: usage
// counting, prompt history (for tiers that have it), project scene
// updates, and refreshing the wizard draft's last result.
type Generate struct {
	drafts   *wizard.Drafts
	subs     *store.SubscriptionStore
	usage    *store.UsageStore
	history  *store.HistoryStore
	projects *project.Service
	invoker  *generator.Invoker
	limiter  *middleware.RateLimiter

	// seq tracks the latest generation per user so a slow response that
	// was superseded by a newer request gets discarded instead of
	// overwriting fresher state.
	mu  sync.Mutex
	seq map[uuid.UUID]uint64
}

// NewGenerate creates a new Generate handler.
func NewGenerate(
	drafts *wizard.Drafts,
	subs *store.SubscriptionStore,
	usage *store.UsageStore,
	history *store.HistoryStore,
	projects *project.Service,
	invoker *generator.Invoker,
	limiter *middleware.RateLimiter,
) *Generate {
	return &Generate{
		drafts:   drafts,
		subs:     subs,
		usage:    usage,
		history:  history,
		projects: projects,
		invoker:  invoker,
		limiter:  limiter,
		seq:      make(map[uuid.UUID]uint64),
	}
}

// begin registers a new generation for the user and returns its sequence
// number. Any generation already running for this user becomes stale.
func (h *Generate) begin(userID uuid.UUID) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq[userID]++
	return h.seq[userID]
}

// current reports whether seq is still the user's latest generation.
func (h *Generate) current(userID uuid.UUID, seq uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq[userID] == seq
}

type generateRequest struct {
	// SceneIdea optionally replaces the draft's idea before generating,
	// which is how instant mode submits in one call.
	SceneIdea *string `json:"scene_idea,omitempty"`
}

type generateResponse struct {
	Prompt         *models.GeneratedPrompt `json:"prompt"`
	SavedToHistory bool                    `json:"saved_to_history"`
	Notice         string                  `json:"notice,omitempty"`
}

// Handle runs one generation for the authenticated user.
func (h *Generate) Handle(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}

	if h.limiter != nil && !h.limiter.Allow(sess.UserID.String()) {
		respondError(w, apperr.ErrUsageLimitExceeded)
		return
	}

	tier, err := effectiveTier(h.subs, sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	f := features.For(tier)

	// Monthly quota check before any provider call.
	month := store.MonthKey(time.Now())
	used, err := h.usage.CountForMonth(r.Context(), sess.UserID, month)
	if err != nil {
		respondError(w, err)
		return
	}
	if used >= f.MonthlyGenerations {
		respondError(w, apperr.ErrUsageLimitExceeded)
		return
	}

	state, err := h.drafts.Get(r.Context(), sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	if r.Body != nil && r.ContentLength != 0 {
		var req generateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondBadRequest(w, "invalid request body")
			return
		}
		if req.SceneIdea != nil {
			state.SceneIdea = *req.SceneIdea
		}
	}

	if state.Mode != wizard.ModeAnimalVlog {
		if msg := validateSceneIdea(state.SceneIdea); msg != "" {
			respondBadRequest(w, "%s", msg)
			return
		}
	}

	// Load the active project, if the wizard is continuing a story.
	var proj *models.MultiSceneProject
	if state.ProjectID != nil {
		proj, err = h.projects.Get(r.Context(), sess.UserID, *state.ProjectID)
		if err != nil {
			respondError(w, err)
			return
		}
		if proj == nil {
			// Project was deleted out from under the draft; detach.
			state.ProjectID = nil
		}
	}

	seq := h.begin(sess.UserID)

	req := generator.BuildRequest(state, tier, proj)
	prompt, err := h.invoker.Generate(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	// A newer generation started while this one was in flight: drop the
	// result rather than clobbering the fresher state.
	if !h.current(sess.UserID, seq) {
		respondJSON(w, http.StatusConflict, errorResponse{Error: "superseded by a newer generation"})
		return
	}

	if _, err := h.usage.Increment(r.Context(), sess.UserID, month); err != nil {
		slog.Error("usage increment failed", "error", err, "user", sess.UserID)
	}

	notice := ""
	savedToHistory := false
	if f.PromptHistory {
		if err := h.saveHistory(r, sess.UserID, &req, prompt, proj != nil); err != nil {
			slog.Error("history save failed", "error", err, "user", sess.UserID)
			notice = "Prompt generated but could not be saved to history."
		} else {
			savedToHistory = true
		}
	}

	if proj != nil {
		_, err := h.projects.UpdateScenePrompt(r.Context(), sess.UserID, proj.ID, proj.CurrentSceneIndex, prompt)
		if err != nil {
			slog.Error("project prompt save failed", "error", err, "project", proj.ID)
			if notice == "" {
				notice = "Prompt generated but could not be saved to the project."
			}
		}
	}

	// Keep the result on the draft so the results step can re-render.
	state.LastResult = prompt
	if err := h.drafts.Save(r.Context(), sess.UserID, state); err != nil {
		slog.Error("draft save failed", "error", err, "user", sess.UserID)
	}

	respondJSON(w, http.StatusOK, generateResponse{
		Prompt:         prompt,
		SavedToHistory: savedToHistory,
		Notice:         notice,
	})
}

func (h *Generate) saveHistory(r *http.Request, userID uuid.UUID, req *generator.Request, prompt *models.GeneratedPrompt, continuation bool) error {
	item := &models.PromptHistoryItem{
		UserID:          userID,
		SceneIdea:       req.SceneIdea,
		Platform:        req.Platform,
		Style:           req.StyleReference,
		Emotion:         req.Emotion,
		GeneratedPrompt: *prompt,
		Camera:          req.Camera,
		IsContinuation:  continuation && prompt.SceneNumber > 1,
	}
	if req.Dialog.HasDialog {
		dialog := req.Dialog
		item.Dialog = &dialog
	}
	if req.Sound.HasSound {
		sound := req.Sound
		item.Sound = &sound
	}
	if req.Lighting != (models.LightingSettings{}) {
		lighting := req.Lighting
		item.Lighting = &lighting
	}

	_, err := h.history.Create(r.Context(), item)
	return err
}
