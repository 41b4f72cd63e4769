// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"fmt"
	"strings"

	"reelprompt/internal/apperr"
)

// ClassifyError maps an opaque provider error onto the application
// taxonomy by inspecting its message. Substring matching on third-party
// error text is inherently fragile, so all of it lives in this one
// function and its behaviour is pinned by unit tests.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg, "usage limit", "rate limit", "quota", "limit exceeded", "too many requests", "status 429"):
		return fmt.Errorf("%w: %v", apperr.ErrUsageLimitExceeded, err)
	case containsAny(msg, "session", "token", "unauthorized", "api key", "status 401", "status 403"):
		return fmt.Errorf("%w: %v", apperr.ErrAuthentication, err)
	default:
		return fmt.Errorf("%w: %v", apperr.ErrGenerationFailed, err)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
