// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"reelprompt/internal/apperr"
	"reelprompt/internal/cache"
	"reelprompt/internal/continuity"
	"reelprompt/internal/middleware"
	"reelprompt/internal/project"
)

// Suggest serves continuity suggestions for the next scene of a project.
// Suggestions are derived from the project's existing scenes; results are
// cached per project revision since extraction rescans every scene.
type Suggest struct {
	service     *project.Service
	suggestions *cache.SuggestionCache // nil disables caching
}

// NewSuggest creates a new Suggest handler.
func NewSuggest(service *project.Service, suggestions *cache.SuggestionCache) *Suggest {
	return &Suggest{service: service, suggestions: suggestions}
}

type suggestResponse struct {
	Context     continuity.SceneContext `json:"context"`
	Suggestions []string                `json:"suggestions"`
}

// ForProject extracts the project's scene context and returns ranked
// suggestions for its next scene.
func (h *Suggest) ForProject(w http.ResponseWriter, r *http.Request) {
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

	sceneCtx := continuity.ExtractContext(p.Scenes)

	var suggestions []string
	cacheKey := cache.Key(p.ID, p.UpdatedAt)
	if h.suggestions != nil {
		if cached, hit := h.suggestions.Get(r.Context(), cacheKey); hit {
			respondJSON(w, http.StatusOK, suggestResponse{Context: sceneCtx, Suggestions: cached})
			return
		}
	}

	suggestions = continuity.Suggest(sceneCtx)
	if suggestions == nil {
		suggestions = []string{}
	}

	if h.suggestions != nil {
		h.suggestions.Set(r.Context(), cacheKey, suggestions)
	}

	respondJSON(w, http.StatusOK, suggestResponse{Context: sceneCtx, Suggestions: suggestions})
}
