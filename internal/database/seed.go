package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a demo user with an active studio subscription if no users
// exist yet, so every feature tier can be exercised locally.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, totp_enabled)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, "demo@reelprompt.local", string(hash), "Demo Creator", false).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert demo user: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO subscriptions (user_id, tier, is_active)
		VALUES ($1, $2, TRUE)
	`, userID, "studio")
	if err != nil {
		return fmt.Errorf("seed insert subscription: %w", err)
	}

	slog.Info("database seeded with demo user", "email", "demo@reelprompt.local")
	return nil
}
