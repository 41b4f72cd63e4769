// wizard_flow_test.go contains handler integration tests for the Wizard
// handler: Get, Update, Next, Prev, SetMode, and Reset. Tests exercise
// real database and Valkey connections; they are skipped when those
// services are unavailable.
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"reelprompt/internal/wizard"
)

type wizardStateResponse struct {
	State      *wizard.State `json:"state"`
	Steps      []wizard.Step `json:"steps"`
	ActiveStep wizard.Step   `json:"active_step"`
	TotalSteps int           `json:"total_steps"`
}

func TestWizardGet_FreshDraftIsCreativeMode(t *testing.T) {
	env := newTestEnv(t)
	_, sess := seedUser(t, env, "starter")

	req := httptest.NewRequest(http.MethodGet, "/api/wizard", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	env.Wizard.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp wizardStateResponse
	decodeBody(t, rec.Body, &resp)
	if resp.State.Mode != wizard.ModeCreative {
		t.Errorf("mode: got %q, want %q", resp.State.Mode, wizard.ModeCreative)
	}
	if resp.State.CurrentStep != 1 {
		t.Errorf("current step: got %d, want 1", resp.State.CurrentStep)
	}
	// Starter tier: no camera or lighting steps in the sequence.
	if resp.TotalSteps != 6 {
		t.Errorf("total steps: got %d, want 6", resp.TotalSteps)
	}
}

func TestWizardGet_StudioTierHasFullSequence(t *testing.T) {
	env := newTestEnv(t)
	_, sess := seedUser(t, env, "studio")

	req := httptest.NewRequest(http.MethodGet, "/api/wizard", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	env.Wizard.Get(rec, req)

	var resp wizardStateResponse
	decodeBody(t, rec.Body, &resp)
	if resp.TotalSteps != 8 {
		t.Errorf("total steps: got %d, want 8 (camera and lighting unlocked)", resp.TotalSteps)
	}
}

func TestWizardUpdate_MergesFields(t *testing.T) {
	env := newTestEnv(t)
	_, sess := seedUser(t, env, "starter")

	body := jsonBody(t, map[string]any{
		"scene_idea":        "A fox explores an abandoned lighthouse",
		"selected_platform": "veo",
		"selected_emotion":  "mysterious",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/wizard", body)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	env.Wizard.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp wizardStateResponse
	decodeBody(t, rec.Body, &resp)
	if resp.State.SceneIdea != "A fox explores an abandoned lighthouse" {
		t.Errorf("scene idea: got %q", resp.State.SceneIdea)
	}
	if resp.State.SelectedPlatform != "veo" {
		t.Errorf("platform: got %q, want veo", resp.State.SelectedPlatform)
	}

	// A second partial update must not clobber the earlier fields.
	body = jsonBody(t, map[string]any{"selected_emotion": "epic"})
	req = httptest.NewRequest(http.MethodPut, "/api/wizard", body)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec = httptest.NewRecorder()

	env.Wizard.Update(rec, req)

	decodeBody(t, rec.Body, &resp)
	if resp.State.SceneIdea == "" {
		t.Error("scene idea lost on partial update")
	}
	if resp.State.SelectedEmotion != "epic" {
		t.Errorf("emotion: got %q, want epic", resp.State.SelectedEmotion)
	}
}

func TestWizardUpdate_PlatformOutsideTierRejected(t *testing.T) {
	env := newTestEnv(t)
	_, sess := seedUser(t, env, "starter")

	// Starter only has the first two platforms; "luma" is studio-only.
	body := jsonBody(t, map[string]any{"selected_platform": "luma"})
	req := httptest.NewRequest(http.MethodPut, "/api/wizard", body)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	env.Wizard.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestWizardUpdate_CameraGatedByTier(t *testing.T) {
	env := newTestEnv(t)
	_, sess := seedUser(t, env, "starter")

	body := jsonBody(t, map[string]any{
		"camera_settings": map[string]string{"angle": "low", "movement": "dolly"},
	})
	req := httptest.NewRequest(http.MethodPut, "/api/wizard", body)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	env.Wizard.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d (camera controls are not on starter)", rec.Code, http.StatusBadRequest)
	}
}

func TestWizardUpdate_CameraAllowedOnCreator(t *testing.T) {
	env := newTestEnv(t)
	_, sess := seedUser(t, env, "creator")

	body := jsonBody(t, map[string]any{
		"camera_settings": map[string]string{"angle": "low", "movement": "dolly"},
	})
	req := httptest.NewRequest(http.MethodPut, "/api/wizard", body)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	env.Wizard.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp wizardStateResponse
	decodeBody(t, rec.Body, &resp)
	if resp.State.Camera.Angle != "low" {
		t.Errorf("camera angle: got %q, want low", resp.State.Camera.Angle)
	}
}

func TestWizardNextPrev_MovesAndClamps(t *testing.T) {
	env := newTestEnv(t)
	_, sess := seedUser(t, env, "starter")

	next := func() wizardStateResponse {
		req := httptest.NewRequest(http.MethodPost, "/api/wizard/next", nil)
		req = req.WithContext(ctxWithSession(req.Context(), sess))
		rec := httptest.NewRecorder()
		env.Wizard.Next(rec, req)
		var resp wizardStateResponse
		decodeBody(t, rec.Body, &resp)
		return resp
	}

	resp := next()
	if resp.State.CurrentStep != 2 {
		t.Errorf("after next: got step %d, want 2", resp.State.CurrentStep)
	}

	// Advancing past the end stays at the last step.
	for range 10 {
		resp = next()
	}
	if resp.State.CurrentStep != resp.TotalSteps {
		t.Errorf("clamped step: got %d, want %d", resp.State.CurrentStep, resp.TotalSteps)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/wizard/prev", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	env.Wizard.Prev(rec, req)
	decodeBody(t, rec.Body, &resp)
	if resp.State.CurrentStep != resp.TotalSteps-1 {
		t.Errorf("after prev: got step %d, want %d", resp.State.CurrentStep, resp.TotalSteps-1)
	}
}

func TestWizardSetMode_KeepsSceneIdea(t *testing.T) {
	env := newTestEnv(t)
	user, sess := seedUser(t, env, "starter")

	state := wizard.NewState(wizard.ModeCreative)
	state.SceneIdea = "A golden retriever reviews street food"
	state.CurrentStep = 3
	state.AnimalType = ""
	if err := env.Drafts.Save(context.Background(), user.ID, state); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	body := jsonBody(t, map[string]string{"mode": "animal-vlog"})
	req := httptest.NewRequest(http.MethodPost, "/api/wizard/mode", body)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	env.Wizard.SetMode(rec, req)

	var resp wizardStateResponse
	decodeBody(t, rec.Body, &resp)
	if resp.State.Mode != wizard.ModeAnimalVlog {
		t.Errorf("mode: got %q, want %q", resp.State.Mode, wizard.ModeAnimalVlog)
	}
	if resp.State.CurrentStep != 1 {
		t.Errorf("step: got %d, want 1 (mode switch resets position)", resp.State.CurrentStep)
	}
	if resp.State.SceneIdea != "A golden retriever reviews street food" {
		t.Errorf("scene idea lost on mode switch: got %q", resp.State.SceneIdea)
	}
	if resp.TotalSteps != 3 {
		t.Errorf("total steps: got %d, want 3", resp.TotalSteps)
	}
}

func TestWizardReset_DiscardsDraft(t *testing.T) {
	env := newTestEnv(t)
	user, sess := seedUser(t, env, "starter")

	state := wizard.NewState(wizard.ModeInstant)
	state.SceneIdea = "throwaway"
	if err := env.Drafts.Save(context.Background(), user.ID, state); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/wizard", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	env.Wizard.Reset(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	fresh, err := env.Drafts.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if fresh.SceneIdea != "" || fresh.Mode != wizard.ModeCreative {
		t.Errorf("draft not reset: mode=%q idea=%q", fresh.Mode, fresh.SceneIdea)
	}
}
