// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UsageStore tracks per-user monthly generation counters for quota
// enforcement. Counters are keyed by user and a "2026-08" period string,
// so a new month starts at zero without any reset job.
type UsageStore struct {
	db *sql.DB
}

// NewUsageStore creates a new UsageStore.
func NewUsageStore(db *sql.DB) *UsageStore {
	return &UsageStore{db: db}
}

// MonthKey formats a time as the period key used by the counters table.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// Increment adds one generation to the user's counter for the given month
// and returns the new total.
func (s *UsageStore) Increment(ctx context.Context, userID uuid.UUID, month string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO usage_counters (user_id, month, generations)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, month) DO UPDATE
		SET generations = usage_counters.generations + 1
		RETURNING generations
	`, userID, month).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("increment usage: %w", err)
	}
	return total, nil
}

// CountForMonth returns the user's generation count for the given month.
// A missing row counts as zero.
func (s *UsageStore) CountForMonth(ctx context.Context, userID uuid.UUID, month string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT generations FROM usage_counters WHERE user_id = $1 AND month = $2
	`, userID, month).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count usage: %w", err)
	}
	return total, nil
}
