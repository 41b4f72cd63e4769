// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the application error taxonomy. Handlers and
// services wrap these sentinels with fmt.Errorf("%w") so callers can
// classify failures with errors.Is and map them to HTTP responses.
package apperr

import "errors"

var (
	// ErrAuthRequired means no session exists where one is needed.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthentication means the session or upstream token is invalid
	// or expired.
	ErrAuthentication = errors.New("authentication failed")

	// ErrUsageLimitExceeded means the tier's generation quota is exhausted.
	ErrUsageLimitExceeded = errors.New("usage limit exceeded")

	// ErrSceneLimitExceeded means the project already holds the maximum
	// number of scenes the tier allows.
	ErrSceneLimitExceeded = errors.New("scene limit exceeded")

	// ErrInvalidIndex means a scene or step index is out of range.
	ErrInvalidIndex = errors.New("index out of range")

	// ErrGenerationFailed is the generic upstream generation failure.
	ErrGenerationFailed = errors.New("prompt generation failed")

	// ErrPersistenceFailed is a store read/write failure, including rows
	// missing required fields.
	ErrPersistenceFailed = errors.New("persistence failed")
)
