// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"reelprompt/internal/apperr"
	"reelprompt/internal/features"
	"reelprompt/internal/middleware"
	"reelprompt/internal/models"
	"reelprompt/internal/store"
)

// History groups the prompt history handlers. History is gated: tiers
// without the PromptHistory flag get a 403 on every endpoint.
type History struct {
	history *store.HistoryStore
	subs    *store.SubscriptionStore
}

// NewHistory creates a new History handler group.
func NewHistory(history *store.HistoryStore, subs *store.SubscriptionStore) *History {
	return &History{history: history, subs: subs}
}

// gate resolves the session and checks the tier unlocks history.
func (h *History) gate(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return uuid.Nil, false
	}

	tier, err := effectiveTier(h.subs, sess.UserID)
	if err != nil {
		respondError(w, err)
		return uuid.Nil, false
	}
	if !features.For(tier).PromptHistory {
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "Prompt history is not available on your plan."})
		return uuid.Nil, false
	}
	return sess.UserID, true
}

// List returns the user's history, newest first. The optional limit
// query parameter caps the number of items.
func (h *History) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondBadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	items, err := h.history.List(r.Context(), userID, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if items == nil {
		items = []models.PromptHistoryItem{}
	}
	respondJSON(w, http.StatusOK, items)
}

// Delete removes one history item.
func (h *History) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	id, valid := urlID(r)
	if !valid {
		respondBadRequest(w, "invalid history id")
		return
	}

	if err := h.history.Delete(r.Context(), userID, id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// DeleteAll clears the user's entire history.
func (h *History) DeleteAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	if err := h.history.DeleteAll(r.Context(), userID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
