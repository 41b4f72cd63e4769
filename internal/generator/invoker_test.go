package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reelprompt/internal/apperr"
	"reelprompt/internal/models"
	"reelprompt/internal/wizard"
)

// stubProvider implements Provider for invoker tests.
type stubProvider struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
}

func (s *stubProvider) Name() string { return "stub" }
func (s *stubProvider) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	return s.response, s.err
}

func stubRegistry(p Provider) *Registry {
	r := NewRegistry("stub", nil)
	r.Register("stub", p)
	return r
}

func creativeState(idea string) *wizard.State {
	s := wizard.NewState(wizard.ModeCreative)
	s.SceneIdea = idea
	s.SelectedPlatform = "veo"
	s.SelectedEmotion = "epic"
	return s
}

func TestInvokerParsesStructuredResponse(t *testing.T) {
	stub := &stubProvider{response: `{
		"main_prompt": "A lone rider crests the dune at golden hour.",
		"technical_specs": "16:9, 8 seconds, 24fps",
		"style_notes": "warm palette, lens flare",
		"metadata": {"characters": ["the rider"], "location": "desert", "mood": "epic"}
	}`}
	inv := NewInvoker(stubRegistry(stub))

	req := BuildRequest(creativeState("a rider in the desert"), models.TierCreator, nil)
	got, err := inv.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if got.MainPrompt != "A lone rider crests the dune at golden hour." {
		t.Errorf("main prompt = %q", got.MainPrompt)
	}
	if got.TechnicalSpecs != "16:9, 8 seconds, 24fps" {
		t.Errorf("technical specs = %q", got.TechnicalSpecs)
	}
	if got.Platform != "veo" {
		t.Errorf("platform echo = %q, want veo", got.Platform)
	}
	if got.Metadata == nil || got.Metadata.Location != "desert" {
		t.Errorf("metadata = %+v", got.Metadata)
	}
}

func TestInvokerStripsCodeFences(t *testing.T) {
	stub := &stubProvider{response: "```json\n{\"main_prompt\": \"fenced prompt\"}\n```"}
	inv := NewInvoker(stubRegistry(stub))

	got, err := inv.Generate(context.Background(), BuildRequest(creativeState("idea"), models.TierStarter, nil))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got.MainPrompt != "fenced prompt" {
		t.Errorf("main prompt = %q", got.MainPrompt)
	}
}

func TestInvokerFallsBackToRawText(t *testing.T) {
	stub := &stubProvider{response: "Just plain prose, no JSON at all."}
	inv := NewInvoker(stubRegistry(stub))

	got, err := inv.Generate(context.Background(), BuildRequest(creativeState("idea"), models.TierStarter, nil))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got.MainPrompt != "Just plain prose, no JSON at all." {
		t.Errorf("main prompt = %q", got.MainPrompt)
	}
}

func TestInvokerFencedNonJSONDropsFences(t *testing.T) {
	stub := &stubProvider{response: "```\nJust plain prose inside a fence.\n```"}
	inv := NewInvoker(stubRegistry(stub))

	got, err := inv.Generate(context.Background(), BuildRequest(creativeState("idea"), models.TierStarter, nil))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got.MainPrompt != "Just plain prose inside a fence." {
		t.Errorf("main prompt = %q", got.MainPrompt)
	}
	if strings.Contains(got.MainPrompt, "```") {
		t.Error("markdown fences must never reach the user")
	}
}

func TestInvokerRejectsEmptyIdea(t *testing.T) {
	stub := &stubProvider{response: "never called"}
	inv := NewInvoker(stubRegistry(stub))

	_, err := inv.Generate(context.Background(), BuildRequest(creativeState("   "), models.TierStarter, nil))
	if err == nil {
		t.Fatal("empty scene idea should fail before any network call")
	}
	if stub.lastUser != "" {
		t.Error("provider was called despite validation failure")
	}
}

func TestInvokerClassifiesProviderErrors(t *testing.T) {
	stub := &stubProvider{err: errors.New("openai API error (status 429): rate limit exceeded")}
	inv := NewInvoker(stubRegistry(stub))

	_, err := inv.Generate(context.Background(), BuildRequest(creativeState("idea"), models.TierStarter, nil))
	if !errors.Is(err, apperr.ErrUsageLimitExceeded) {
		t.Errorf("err = %v, want ErrUsageLimitExceeded", err)
	}
}

func TestInvokerPromptsCarryRequest(t *testing.T) {
	stub := &stubProvider{response: `{"main_prompt": "x"}`}
	inv := NewInvoker(stubRegistry(stub))

	state := creativeState("a chase across rooftops")
	state.Camera.Angle = "Low Angle"

	if _, err := inv.Generate(context.Background(), BuildRequest(state, models.TierStudio, nil)); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !strings.Contains(stub.lastUser, "a chase across rooftops") {
		t.Error("user prompt missing the scene idea")
	}
	if !strings.Contains(stub.lastUser, "Low Angle") {
		t.Error("user prompt missing camera settings")
	}
	if !strings.Contains(stub.lastSystem, "metadata") {
		t.Error("system prompt missing the metadata instruction")
	}
}

func TestInvokerEmptyCameraNoteInPrompt(t *testing.T) {
	stub := &stubProvider{response: `{"main_prompt": "x"}`}
	inv := NewInvoker(stubRegistry(stub))

	if _, err := inv.Generate(context.Background(), BuildRequest(creativeState("idea"), models.TierStarter, nil)); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(stub.lastUser, "No camera settings were specified") {
		t.Error("omitted camera group should be called out to the model")
	}
	if strings.Contains(stub.lastUser, `"camera_settings"`) {
		t.Error("empty camera group leaked into the wire request")
	}
}
