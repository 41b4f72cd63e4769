// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// resetPrefix namespaces password reset tokens in Valkey.
	resetPrefix = "pwreset:"

	// ResetTTL is how long a password reset token stays redeemable.
	ResetTTL = time.Hour
)

// ResetTokens issues and redeems single-use password reset tokens.
// Tokens are random identifiers stored in Valkey with a short TTL; the
// stored value is the owning user's ID.
type ResetTokens struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResetTokens creates a reset token store backed by the given Valkey
// client.
func NewResetTokens(client *redis.Client) *ResetTokens {
	return &ResetTokens{
		client: client,
		ttl:    ResetTTL,
	}
}

// Issue creates a fresh token for the user and stores it with the
// configured TTL.
func (rt *ResetTokens) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := generateID()
	if err != nil {
		return "", fmt.Errorf("reset token generate: %w", err)
	}

	if err := rt.client.Set(ctx, resetPrefix+token, userID.String(), rt.ttl).Err(); err != nil {
		return "", fmt.Errorf("reset token store: %w", err)
	}

	return token, nil
}

// Redeem consumes a token and returns the user it was issued for.
// Returns uuid.Nil with no error when the token is unknown or expired.
// A token can only be redeemed once.
func (rt *ResetTokens) Redeem(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := rt.client.GetDel(ctx, resetPrefix+token).Result()
	if err == redis.Nil {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("reset token redeem: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("reset token parse: %w", err)
	}
	return userID, nil
}
