// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"reelprompt/internal/apperr"
	"reelprompt/internal/middleware"
	"reelprompt/internal/session"
	"reelprompt/internal/store"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
	resets    *session.ResetTokens
	dev       bool
}

// NewAuth creates a new Auth handler group. dev controls whether
// password reset tokens are returned in the response body; outside of
// development they are only logged.
func NewAuth(sessions *session.Store, userStore *store.UserStore, resets *session.ResetTokens, dev bool) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
		resets:    resets,
		dev:       dev,
	}
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	TOTPEnabled bool   `json:"totp_enabled"`
	Requires2FA bool   `json:"requires_2fa,omitempty"`
}

// Signup registers a new account and signs the user in.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msg := validateCredentials(req.Email, req.Password); msg != "" {
		respondBadRequest(w, "%s", msg)
		return
	}
	if msg := validateDisplayName(req.DisplayName); msg != "" {
		respondBadRequest(w, "%s", msg)
		return
	}

	existing, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	if existing != nil {
		respondJSON(w, http.StatusConflict, errorResponse{Error: "An account with this email already exists."})
		return
	}

	user, err := a.userStore.Create(req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondError(w, err)
		return
	}

	// New accounts have no 2FA yet, so the session is fully authenticated.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TwoFADone:   true,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, userResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
}

// Signin validates credentials and creates a session. When the account
// has 2FA enabled the session starts incomplete and the client must call
// the verify endpoint before using the API.
func (a *Auth) Signin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid email or password."})
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TwoFADone:   !user.TOTPEnabled,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, userResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TOTPEnabled: user.TOTPEnabled,
		Requires2FA: user.TOTPEnabled,
	})
}

// Signout destroys the current session.
func (a *Auth) Signout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	respondJSON(w, http.StatusOK, map[string]bool{"signed_out": true})
}

// Me returns the authenticated user's profile.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}

	respondJSON(w, http.StatusOK, userResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TOTPEnabled: user.TOTPEnabled,
	})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword changes the authenticated user's password after
// re-checking the current one.
func (a *Auth) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}

	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if msg := validateCredentials(sess.Email, req.NewPassword); msg != "" {
		respondBadRequest(w, "%s", msg)
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}
	if !a.userStore.CheckPassword(user, req.CurrentPassword) {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "Current password is incorrect."})
		return
	}

	if err := a.userStore.UpdatePassword(user.ID, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// resetIssuedMessage is returned whether or not the email matches an
// account, so the endpoint cannot be used to enumerate accounts.
const resetIssuedMessage = "If an account exists for this email, a reset token has been issued."

// ResetPassword issues a single-use password reset token for the
// account behind the given email. There is no mailer: the token is
// logged, and in development it is also returned in the response so
// the flow can be exercised end to end.
func (a *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		respondBadRequest(w, "Email is required.")
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil {
		respondJSON(w, http.StatusOK, resetPasswordResponse{Message: resetIssuedMessage})
		return
	}

	token, err := a.resets.Issue(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("password reset token issued", "user_id", user.ID, "token", token)

	resp := resetPasswordResponse{Message: resetIssuedMessage}
	if a.dev {
		resp.Token = token
	}
	respondJSON(w, http.StatusOK, resp)
}

type resetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPasswordConfirm redeems a reset token and sets the account's new
// password. The token is invalidated whether or not the update succeeds.
func (a *Auth) ResetPasswordConfirm(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if req.Token == "" {
		respondBadRequest(w, "Reset token is required.")
		return
	}
	if msg := validatePassword(req.NewPassword); msg != "" {
		respondBadRequest(w, "%s", msg)
		return
	}

	userID, err := a.resets.Redeem(r.Context(), req.Token)
	if err != nil {
		respondError(w, err)
		return
	}
	if userID == uuid.Nil {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid or expired reset token."})
		return
	}

	if err := a.userStore.UpdatePassword(userID, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}

	slog.Info("password reset completed", "user_id", userID)
	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

type twoFASetupResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"` // base64-encoded PNG
}

// TwoFASetup generates a TOTP secret for the user and returns it with a
// QR code for authenticator apps. The secret is stored but 2FA is not
// enabled until the first code verifies.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "ReelPrompt",
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		respondError(w, err)
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		respondError(w, err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, twoFASetupResponse{
		Secret: key.Secret(),
		QRCode: base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify validates a TOTP code. On first-time setup it enables 2FA
// for the account; in both cases it marks the session complete.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}

	var req twoFAVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		respondError(w, apperr.ErrAuthRequired)
		return
	}
	if user.TOTPSecret == nil {
		respondBadRequest(w, "Two-factor authentication is not set up.")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid code. Please try again."})
		return
	}

	// First successful verification activates 2FA for the account.
	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			respondError(w, err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"verified": true})
}
