// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// draftPrefix namespaces wizard drafts in Valkey.
	draftPrefix = "wizard:"

	// DefaultDraftTTL is how long an idle draft survives before expiry.
	// Each save resets the clock.
	DefaultDraftTTL = 7 * 24 * time.Hour
)

// Drafts persists per-user wizard state in Valkey as JSON with TTL.
type Drafts struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDrafts creates a draft store backed by the given Valkey client.
func NewDrafts(client *redis.Client) *Drafts {
	return &Drafts{client: client, ttl: DefaultDraftTTL}
}

// Get loads the draft for a user. Returns a fresh creative-mode state if
// none exists — an absent draft is not an error.
func (d *Drafts) Get(ctx context.Context, userID uuid.UUID) (*State, error) {
	payload, err := d.client.Get(ctx, draftPrefix+userID.String()).Bytes()
	if err == redis.Nil {
		return NewState(ModeCreative), nil
	}
	if err != nil {
		return nil, fmt.Errorf("draft get: %w", err)
	}

	var s State
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("draft unmarshal: %w", err)
	}
	if s.CurrentStep < 1 {
		s.CurrentStep = 1
	}
	return &s, nil
}

// Save stores the draft and resets its TTL.
func (d *Drafts) Save(ctx context.Context, userID uuid.UUID, s *State) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("draft marshal: %w", err)
	}
	if err := d.client.Set(ctx, draftPrefix+userID.String(), payload, d.ttl).Err(); err != nil {
		return fmt.Errorf("draft save: %w", err)
	}
	return nil
}

// Delete discards a user's draft.
func (d *Drafts) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := d.client.Del(ctx, draftPrefix+userID.String()).Err(); err != nil {
		return fmt.Errorf("draft delete: %w", err)
	}
	return nil
}
