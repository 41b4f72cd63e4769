// Package main is the entry point for the ReelPrompt API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reelprompt/internal/billing"
	"reelprompt/internal/cache"
	"reelprompt/internal/config"
	"reelprompt/internal/database"
	"reelprompt/internal/generator"
	"reelprompt/internal/handlers"
	"reelprompt/internal/middleware"
	"reelprompt/internal/project"
	"reelprompt/internal/router"
	"reelprompt/internal/session"
	"reelprompt/internal/storage"
	"reelprompt/internal/store"
	"reelprompt/internal/wizard"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session/draft store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize session store backed by Valkey.
	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	resetTokens := session.NewResetTokens(valkeyClient)

	// Wizard drafts and the continuity suggestion cache share the client.
	drafts := wizard.NewDrafts(valkeyClient)
	suggestionCache := cache.NewSuggestionCache(valkeyClient, cache.DefaultSuggestionTTL)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	subscriptionStore := store.NewSubscriptionStore(db)
	projectStore := store.NewProjectStore(db)
	historyStore := store.NewHistoryStore(db)
	usageStore := store.NewUsageStore(db)

	projectService := project.NewService(projectStore)

	// Connect to S3-compatible object storage (optional — app works without it).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		}
	} else {
		slog.Warn("s3 storage not configured — style reference uploads disabled")
	}

	// Initialize the generation provider registry with all configured providers.
	registry := generator.NewRegistry(cfg.ActiveProvider, map[string]generator.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("generation providers initialized",
		"active", registry.ActiveName(),
		"available", registry.Available(),
	)

	invoker := generator.NewInvoker(registry)

	// Per-user burst guard in front of the monthly quota.
	generateLimiter := middleware.NewRateLimiter(6, time.Minute)
	defer generateLimiter.Stop()

	// External checkout provider (optional — upgrades disabled without it).
	billingClient := billing.NewClient(cfg.BillingBaseURL, cfg.BillingAPIKey, cfg.BillingReturnURL)
	if billingClient == nil {
		slog.Warn("billing not configured — tier upgrades disabled")
	}

	// Create handler groups with their dependencies.
	h := router.Handlers{
		Auth:     handlers.NewAuth(sessionStore, userStore, resetTokens, cfg.IsDev()),
		Account:  handlers.NewAccount(subscriptionStore, usageStore, billingClient),
		Wizard:   handlers.NewWizard(drafts, subscriptionStore),
		Generate: handlers.NewGenerate(drafts, subscriptionStore, usageStore, historyStore, projectService, invoker, generateLimiter),
		Projects: handlers.NewProjects(projectService, drafts, subscriptionStore, suggestionCache),
		History:  handlers.NewHistory(historyStore, subscriptionStore),
		Suggest:  handlers.NewSuggest(projectService, suggestionCache),
		Uploads:  handlers.NewUploads(storageClient),
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, h)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate generation endpoints that wait on LLM
	// responses (typically 10-30s, up to 60s for complex prompts).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
