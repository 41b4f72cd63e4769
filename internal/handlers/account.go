// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"reelprompt/internal/apperr"
	"reelprompt/internal/billing"
	"reelprompt/internal/features"
	"reelprompt/internal/middleware"
	"reelprompt/internal/models"
	"reelprompt/internal/store"
)

// Account groups subscription and billing handlers.
type Account struct {
	subs    *store.SubscriptionStore
	usage   *store.UsageStore
	billing *billing.Client // nil when billing is not configured
}

// NewAccount creates a new Account handler group.
func NewAccount(subs *store.SubscriptionStore, usage *store.UsageStore, billingClient *billing.Client) *Account {
	return &Account{
		subs:    subs,
		usage:   usage,
		billing: billingClient,
	}
}

// effectiveTier resolves a user's gating tier from their subscription
// row. Missing or inactive subscriptions gate as starter.
func effectiveTier(subs *store.SubscriptionStore, userID uuid.UUID) (models.Tier, error) {
	sub, err := subs.FindByUser(userID)
	if err != nil {
		return models.TierStarter, err
	}
	return sub.EffectiveTier(), nil
}

type subscriptionResponse struct {
	Tier              models.Tier       `json:"tier"`
	Active            bool              `json:"active"`
	Features          features.Features `json:"features"`
	GenerationsUsed   int               `json:"generations_used"`
	GenerationsLimit  int               `json:"generations_limit"`
}

// Subscription returns the user's tier, its feature set, and current
// month usage. The client drives all feature gating UI from this.
func (a *Account) Subscription(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}

	sub, err := a.subs.FindByUser(sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	tier := sub.EffectiveTier()
	f := features.For(tier)

	used, err := a.usage.CountForMonth(r.Context(), sess.UserID, store.MonthKey(time.Now()))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, subscriptionResponse{
		Tier:             tier,
		Active:           sub != nil && sub.IsActive,
		Features:         f,
		GenerationsUsed:  used,
		GenerationsLimit: f.MonthlyGenerations,
	})
}

type checkoutRequest struct {
	Tier string `json:"tier"`
}

// Checkout starts a checkout session at the billing provider for a paid
// tier and returns the hosted payment URL.
func (a *Account) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}
	if a.billing == nil {
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Billing is not configured."})
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	tier := models.ParseTier(req.Tier)
	if tier == models.TierStarter {
		respondBadRequest(w, "Checkout requires a paid tier (creator or studio).")
		return
	}

	checkout, err := a.billing.CreateCheckout(r.Context(), sess.UserID, sess.Email, tier)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"checkout_url": checkout.URL,
		"session_id":   checkout.SessionID,
	})
}

type activateRequest struct {
	SessionID string `json:"session_id"`
}

// Activate verifies a finished checkout with the billing provider and,
// when paid, upgrades the user's subscription to the purchased tier.
func (a *Account) Activate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}
	if a.billing == nil {
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Billing is not configured."})
		return
	}

	var req activateRequest
	if err := decodeJSON(r, &req); err != nil || req.SessionID == "" {
		respondBadRequest(w, "session_id is required")
		return
	}

	result, err := a.billing.VerifySession(r.Context(), req.SessionID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !result.Paid() {
		respondJSON(w, http.StatusPaymentRequired, errorResponse{Error: "Checkout is not complete."})
		return
	}

	// ParseTier fails closed, so an unknown tier from the provider can
	// never grant more than starter.
	sub, err := a.subs.Upsert(sess.UserID, models.ParseTier(result.Tier), true)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"tier":     sub.Tier,
		"active":   sub.IsActive,
		"features": features.For(sub.EffectiveTier()),
	})
}
