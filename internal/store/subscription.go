// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"reelprompt/internal/models"
)

// SubscriptionStore handles subscription-related database operations.
// Each user has at most one subscription row; users with none are
// treated as starter-tier by models.Subscription.EffectiveTier.
type SubscriptionStore struct {
	db *sql.DB
}

// NewSubscriptionStore creates a new SubscriptionStore.
func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// FindByUser retrieves a user's subscription. Returns nil if not found.
func (s *SubscriptionStore) FindByUser(userID uuid.UUID) (*models.Subscription, error) {
	sub := &models.Subscription{}
	err := s.db.QueryRow(`
		SELECT id, user_id, tier, is_active, current_period_end, created_at, updated_at
		FROM subscriptions WHERE user_id = $1
	`, userID).Scan(
		&sub.ID, &sub.UserID, &sub.Tier, &sub.IsActive,
		&sub.CurrentPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return sub, nil
}

// Upsert creates or replaces a user's subscription with the given tier
// and activation state. Used when a checkout completes or a plan changes.
func (s *SubscriptionStore) Upsert(userID uuid.UUID, tier models.Tier, active bool) (*models.Subscription, error) {
	sub := &models.Subscription{}
	err := s.db.QueryRow(`
		INSERT INTO subscriptions (user_id, tier, is_active)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET tier = EXCLUDED.tier, is_active = EXCLUDED.is_active, updated_at = NOW()
		RETURNING id, user_id, tier, is_active, current_period_end, created_at, updated_at
	`, userID, tier, active).Scan(
		&sub.ID, &sub.UserID, &sub.Tier, &sub.IsActive,
		&sub.CurrentPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}
	return sub, nil
}

// Deactivate marks a user's subscription inactive without deleting it,
// preserving the tier for a later reactivation.
func (s *SubscriptionStore) Deactivate(userID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE subscriptions SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("deactivate subscription: %w", err)
	}
	return nil
}
