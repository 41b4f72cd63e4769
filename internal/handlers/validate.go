package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation limits for request fields.
const (
	maxSceneIdeaLen   = 2_000
	maxTitleLen       = 200
	maxDialogLen      = 2_000
	maxStyleRefLen    = 1_000
	maxDisplayNameLen = 100
	minPasswordLen    = 8
)

// validateSceneIdea checks the scene idea text and returns the first
// error found, or "" when valid.
func validateSceneIdea(idea string) string {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return "Scene idea is required."
	}
	if utf8.RuneCountInString(idea) > maxSceneIdeaLen {
		return "Scene idea is too long (max 2,000 characters)."
	}
	return ""
}

// validateProjectTitle checks an optional project title.
func validateProjectTitle(title string) string {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Project title is too long (max 200 characters)."
	}
	return ""
}

// validateCredentials checks signup/signin inputs.
func validateCredentials(email, password string) string {
	if _, err := mail.ParseAddress(email); err != nil {
		return "A valid email address is required."
	}
	return validatePassword(password)
}

// validatePassword checks a password on its own, for flows where the
// email is not part of the request.
func validatePassword(password string) string {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	return ""
}

// validateDisplayName checks an optional display name.
func validateDisplayName(name string) string {
	if utf8.RuneCountInString(name) > maxDisplayNameLen {
		return "Display name is too long (max 100 characters)."
	}
	return ""
}
