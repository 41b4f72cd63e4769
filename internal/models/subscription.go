// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Tier represents a subscription level controlling feature and quota access.
type Tier string

const (
	TierStarter Tier = "starter"
	TierCreator Tier = "creator"
	TierStudio  Tier = "studio"
)

// Rank returns the tier's position in the upgrade order
// (starter < creator < studio). Unknown tiers rank as starter.
func (t Tier) Rank() int {
	switch t {
	case TierCreator:
		return 1
	case TierStudio:
		return 2
	default:
		return 0
	}
}

// ParseTier maps a raw string to a Tier, failing closed to starter for
// anything it does not recognize.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case TierCreator:
		return TierCreator
	case TierStudio:
		return TierStudio
	default:
		return TierStarter
	}
}

// Subscription records a user's current plan. Tier changes arrive from the
// external billing provider; this layer never downgrades on its own.
type Subscription struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	Tier             Tier       `json:"tier"`
	IsActive         bool       `json:"is_active"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// EffectiveTier returns the tier feature gating should use: inactive
// subscriptions fall back to starter.
func (s *Subscription) EffectiveTier() Tier {
	if s == nil || !s.IsActive {
		return TierStarter
	}
	return s.Tier
}
