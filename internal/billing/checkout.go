// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package billing talks to the external checkout provider. The provider
// hosts the actual payment page; this client only creates checkout
// sessions and verifies their outcome when the user returns.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"reelprompt/internal/models"
)

// Client is an HTTP client for the checkout provider's API.
type Client struct {
	baseURL   string
	apiKey    string
	returnURL string
	client    *http.Client
}

// NewClient creates a billing client. Returns nil if baseURL or apiKey
// is empty; checkout endpoints then report billing as unconfigured.
func NewClient(baseURL, apiKey, returnURL string) *Client {
	if baseURL == "" || apiKey == "" {
		return nil
	}
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		returnURL: returnURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CheckoutSession is the provider's handle for a started checkout.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// SessionResult is the provider's verdict on a finished checkout.
type SessionResult struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"` // "complete", "open", "expired"
	Tier      string `json:"tier"`
}

// Paid reports whether the checkout completed successfully.
func (r *SessionResult) Paid() bool {
	return r.Status == "complete"
}

// CreateCheckout starts a checkout session for upgrading a user to the
// given tier and returns the hosted payment page URL.
func (c *Client) CreateCheckout(ctx context.Context, userID uuid.UUID, email string, tier models.Tier) (*CheckoutSession, error) {
	payload, err := json.Marshal(map[string]string{
		"client_reference": userID.String(),
		"email":            email,
		"tier":             string(tier),
		"return_url":       c.returnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("billing marshal: %w", err)
	}

	var session CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", payload, &session); err != nil {
		return nil, err
	}
	if session.URL == "" {
		return nil, fmt.Errorf("billing: provider returned no checkout URL")
	}
	return &session, nil
}

// VerifySession fetches the outcome of a checkout session. Called when
// the user lands back on the return URL.
func (c *Client) VerifySession(ctx context.Context, sessionID string) (*SessionResult, error) {
	var result SessionResult
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+sessionID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("billing request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("billing call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("billing read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("billing API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("billing parse response: %w", err)
	}
	return nil
}
