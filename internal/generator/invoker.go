// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reelprompt/internal/models"
)

// DefaultTimeout bounds a single generation call. The provider clients
// carry their own HTTP timeouts; this is the invoker-level ceiling that
// turns a hung call into ErrGenerationFailed.
const DefaultTimeout = 30 * time.Second

// Invoker packages requests, calls the active provider, and interprets
// results. It never retries — the caller surfaces the error and lets
// the user retry explicitly.
type Invoker struct {
	registry *Registry
	timeout  time.Duration
}

// NewInvoker creates an invoker over the given provider registry.
func NewInvoker(registry *Registry) *Invoker {
	return &Invoker{registry: registry, timeout: DefaultTimeout}
}

// Generate calls the external generation endpoint with the assembled
// request and returns the parsed structured prompt. Errors from the
// provider are classified through ClassifyError.
func (inv *Invoker) Generate(ctx context.Context, req Request) (*models.GeneratedPrompt, error) {
	if strings.TrimSpace(req.SceneIdea) == "" {
		return nil, fmt.Errorf("generate: scene idea is empty")
	}

	user, err := userPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	raw, err := inv.registry.Generate(ctx, systemPrompt(req), user)
	if err != nil {
		return nil, ClassifyError(err)
	}

	return parsePromptDocument(raw, req), nil
}
