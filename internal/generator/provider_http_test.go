// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestServer creates an httptest.Server that responds with the given
// status code and body bytes. The caller must call Close on the returned
// server.
func newTestServer(t *testing.T, statusCode int, body []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
}

func openAISuccessBody(text string) []byte {
	resp := openAIResponse{
		Choices: []openAIChoice{
			{Message: openAIMessage{Role: "assistant", Content: text}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

func claudeSuccessBody(text string) []byte {
	resp := claudeResponse{
		Content: []claudeContentBlock{
			{Type: "text", Text: text},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

func geminiSuccessBody(text string) []byte {
	resp := geminiResponse{
		Candidates: []geminiCandidate{
			{Content: geminiContent{Parts: []geminiPart{{Text: text}}}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

func TestOpenAIGenerate_Success(t *testing.T) {
	want := "Hello from OpenAI"
	srv := newTestServer(t, http.StatusOK, openAISuccessBody(want))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	got, err := p.Generate(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOpenAIGenerate_APIError(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, []byte(`{"error":{"message":"rate limit"}}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "status 429") {
		t.Errorf("error %q should carry the status code for classification", err)
	}
}

func TestOpenAIGenerate_NoChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"choices":[]}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	if _, err := p.Generate(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestClaudeGenerate_Success(t *testing.T) {
	want := "Hello from Claude"
	srv := newTestServer(t, http.StatusOK, claudeSuccessBody(want))
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "test-key", Model: "claude-sonnet", BaseURL: srv.URL})

	got, err := p.Generate(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClaudeGenerate_AuthError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, []byte(`{"error":{"message":"invalid api key"}}`))
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "bad-key", Model: "claude-sonnet", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("error %q should carry the status code", err)
	}
}

func TestGeminiGenerate_Success(t *testing.T) {
	want := "Hello from Gemini"
	srv := newTestServer(t, http.StatusOK, geminiSuccessBody(want))
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "test-key", Model: "gemini-pro", BaseURL: srv.URL})

	got, err := p.Generate(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGeminiGenerate_NoCandidates(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"candidates":[]}`))
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "test-key", Model: "gemini-pro", BaseURL: srv.URL})

	if _, err := p.Generate(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestMistralGenerate_Success(t *testing.T) {
	want := "Hello from Mistral"
	srv := newTestServer(t, http.StatusOK, openAISuccessBody(want))
	defer srv.Close()

	p := newMistral(ProviderConfig{APIKey: "test-key", Model: "mistral-large", BaseURL: srv.URL})

	got, err := p.Generate(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRegistrySkipsProvidersWithoutKeys(t *testing.T) {
	r := NewRegistry("openai", map[string]ProviderConfig{
		"openai": {APIKey: "key", Model: "gpt-4o"},
		"claude": {APIKey: "", Model: "claude-sonnet"},
	})

	if !r.HasProvider("openai") {
		t.Error("openai should be available")
	}
	if r.HasProvider("claude") {
		t.Error("claude has no key and should be skipped")
	}
}

func TestRegistrySetActive(t *testing.T) {
	r := NewRegistry("openai", map[string]ProviderConfig{
		"openai":  {APIKey: "key1"},
		"mistral": {APIKey: "key2"},
	})

	if err := r.SetActive("mistral"); err != nil {
		t.Fatalf("set active: %v", err)
	}
	if r.ActiveName() != "mistral" {
		t.Errorf("active = %q", r.ActiveName())
	}

	if err := r.SetActive("gemini"); err == nil {
		t.Error("switching to an unconfigured provider should fail")
	}
}

func TestRegistryActiveMissing(t *testing.T) {
	r := NewRegistry("openai", nil)
	if _, err := r.Active(); err == nil {
		t.Error("no configured providers: Active should fail")
	}
}
