// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"reelprompt/internal/cache"
	"reelprompt/internal/database"
	"reelprompt/internal/generator"
	"reelprompt/internal/middleware"
	"reelprompt/internal/models"
	"reelprompt/internal/project"
	"reelprompt/internal/session"
	"reelprompt/internal/store"
	"reelprompt/internal/wizard"
)

// mockProvider implements generator.Provider for handler tests.
type mockProvider struct {
	name     string
	response string
	err      error

	mu    sync.Mutex
	calls int

	// hook, when set, runs inside Generate with the 1-based call number
	// before the response is returned. Tests use it to hold a call in
	// flight while another request races past it.
	hook func(call int)
}

func (m *mockProvider) Name() string { return m.name }
func (m *mockProvider) Generate(_ context.Context, _, _ string) (string, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	hook := m.hook
	m.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return m.response, m.err
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockPromptDocument is a well-formed generation response the mock
// provider returns by default.
const mockPromptDocument = `{
	"main_prompt": "A detective walks through a rain-soaked alley, neon reflections on wet pavement.",
	"technical_specs": "Cinematic 4K, 24fps, shallow depth of field",
	"style_notes": "Neo-noir, high contrast",
	"metadata": {
		"characters": ["detective"],
		"location": "rain-soaked alley",
		"mood": "tense",
		"visual_style": "neo-noir"
	}
}`

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "reelprompt")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "reelprompt")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session, draft, and cache keys.
		for _, pattern := range []string{"session:*", "wizard:*", "suggest:*", "pwreset:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB          *sql.DB
	Valkey      *redis.Client
	Sessions    *session.Store
	Drafts      *wizard.Drafts
	Suggestions *cache.SuggestionCache
	Users       *store.UserStore
	Subs        *store.SubscriptionStore
	History     *store.HistoryStore
	Usage       *store.UsageStore
	Service     *project.Service
	Provider    *mockProvider
	Auth        *Auth
	Account     *Account
	Wizard      *Wizard
	Generate    *Generate
	Projects    *Projects
	HistoryH    *History
	Suggest     *Suggest
}

// newTestEnv creates a complete test environment with all handler
// dependencies. The generation provider is a mock returning a fixed
// well-formed prompt document.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	resets := session.NewResetTokens(vk)
	drafts := wizard.NewDrafts(vk)
	suggestions := cache.NewSuggestionCache(vk, 0)

	userStore := store.NewUserStore(db)
	subStore := store.NewSubscriptionStore(db)
	projectStore := store.NewProjectStore(db)
	historyStore := store.NewHistoryStore(db)
	usageStore := store.NewUsageStore(db)

	service := project.NewService(projectStore)

	provider := &mockProvider{name: "test", response: mockPromptDocument}
	registry := generator.NewRegistry("test", map[string]generator.ProviderConfig{})
	registry.Register("test", provider)
	invoker := generator.NewInvoker(registry)

	return &testEnv{
		DB:          db,
		Valkey:      vk,
		Sessions:    sessions,
		Drafts:      drafts,
		Suggestions: suggestions,
		Users:       userStore,
		Subs:        subStore,
		History:     historyStore,
		Usage:       usageStore,
		Service:     service,
		Provider:    provider,
		Auth:        NewAuth(sessions, userStore, resets, true),
		Account:     NewAccount(subStore, usageStore, nil),
		Wizard:      NewWizard(drafts, subStore),
		Generate:    NewGenerate(drafts, subStore, usageStore, historyStore, service, invoker, nil),
		Projects:    NewProjects(service, drafts, subStore, suggestions),
		HistoryH:    NewHistory(historyStore, subStore),
		Suggest:     NewSuggest(service, suggestions),
	}
}

// seedUser creates a user with the given tier and returns it with a
// fully authenticated session. The user is removed on cleanup; all
// dependent rows cascade.
func seedUser(t *testing.T, env *testEnv, tier models.Tier) (*models.User, *session.Data) {
	t.Helper()

	email := fmt.Sprintf("test-%s@reelprompt.local", uuid.New().String()[:8])
	user, err := env.Users.Create(email, "secret-password", "Test User")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { env.Users.Delete(user.ID) })

	if tier != models.TierStarter {
		if _, err := env.Subs.Upsert(user.ID, tier, true); err != nil {
			t.Fatalf("upsert subscription: %v", err)
		}
	}

	return user, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TwoFADone:   true,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// jsonBody encodes v as a JSON request body.
func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

// decodeBody decodes a recorder's JSON body into v.
func decodeBody(t *testing.T, body *bytes.Buffer, v any) {
	t.Helper()
	if err := json.Unmarshal(body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, body.String())
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
