// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// suggestions.go provides a Valkey-backed cache for computed continuity
// suggestions. Suggestions are derived from every scene of a project, so
// recomputing them on each poll is wasted work; the cache is keyed by the
// project's id and last update time so any project edit naturally misses.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// suggestionKeyPrefix is the Valkey key prefix for cached suggestions.
	suggestionKeyPrefix = "suggest:"

	// DefaultSuggestionTTL is how long computed suggestions stay cached.
	DefaultSuggestionTTL = 5 * time.Minute
)

// SuggestionCache stores computed continuity suggestions in Valkey.
type SuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSuggestionCache creates a suggestion cache backed by the given Valkey client.
func NewSuggestionCache(client *redis.Client, ttl time.Duration) *SuggestionCache {
	if ttl == 0 {
		ttl = DefaultSuggestionTTL
	}
	return &SuggestionCache{client: client, ttl: ttl}
}

// Key returns the cache key for a project at a given revision time.
func Key(projectID uuid.UUID, updatedAt time.Time) string {
	return fmt.Sprintf("%s:%d", projectID, updatedAt.UnixNano())
}

// Get retrieves cached suggestions. Returns false on miss or decode failure.
func (sc *SuggestionCache) Get(ctx context.Context, key string) ([]string, bool) {
	val, err := sc.client.Get(ctx, suggestionKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("suggestion cache get error", "key", key, "error", err)
		return nil, false
	}

	var suggestions []string
	if err := json.Unmarshal(val, &suggestions); err != nil {
		slog.Warn("suggestion cache decode error", "key", key, "error", err)
		return nil, false
	}
	return suggestions, true
}

// Set stores suggestions for a key with the configured TTL.
func (sc *SuggestionCache) Set(ctx context.Context, key string, suggestions []string) {
	data, err := json.Marshal(suggestions)
	if err != nil {
		slog.Warn("suggestion cache encode error", "key", key, "error", err)
		return
	}
	if err := sc.client.Set(ctx, suggestionKeyPrefix+key, data, sc.ttl).Err(); err != nil {
		slog.Warn("suggestion cache set error", "key", key, "error", err)
	}
}

// Invalidate removes all cached suggestions for a project by scanning its
// key prefix. Called when a project is deleted.
func (sc *SuggestionCache) Invalidate(ctx context.Context, projectID uuid.UUID) {
	var cursor uint64
	for {
		keys, nextCursor, err := sc.client.Scan(ctx, cursor, suggestionKeyPrefix+projectID.String()+":*", 100).Result()
		if err != nil {
			slog.Warn("suggestion cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := sc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("suggestion cache delete error", "error", err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
}
