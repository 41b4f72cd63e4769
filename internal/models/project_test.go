package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestCloneIsDeepCopy(t *testing.T) {
	original := &MultiSceneProject{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Title:  "Night Chase",
		Scenes: []SceneData{
			{
				ID:          uuid.New(),
				SceneNumber: 1,
				SceneIdea:   "A courier weaves through traffic",
				GeneratedPrompt: &GeneratedPrompt{
					MainPrompt: "A courier weaves through neon traffic.",
					Metadata: &PromptMetadata{
						Characters: []string{"courier"},
						Location:   "downtown",
					},
				},
			},
		},
	}

	clone := original.Clone()

	clone.Title = "Renamed"
	clone.Scenes[0].SceneIdea = "changed"
	clone.Scenes[0].GeneratedPrompt.MainPrompt = "changed"
	clone.Scenes[0].GeneratedPrompt.Metadata.Location = "elsewhere"
	clone.Scenes = append(clone.Scenes, SceneData{SceneNumber: 2})

	if original.Title != "Night Chase" {
		t.Errorf("title mutated through clone: %q", original.Title)
	}
	if len(original.Scenes) != 1 {
		t.Fatalf("scene count mutated through clone: %d", len(original.Scenes))
	}
	if original.Scenes[0].SceneIdea != "A courier weaves through traffic" {
		t.Errorf("scene idea mutated through clone: %q", original.Scenes[0].SceneIdea)
	}
	if original.Scenes[0].GeneratedPrompt.MainPrompt != "A courier weaves through neon traffic." {
		t.Errorf("prompt mutated through clone: %q", original.Scenes[0].GeneratedPrompt.MainPrompt)
	}
	if original.Scenes[0].GeneratedPrompt.Metadata.Location != "downtown" {
		t.Errorf("metadata mutated through clone: %q", original.Scenes[0].GeneratedPrompt.Metadata.Location)
	}
}

func TestCurrentSceneBounds(t *testing.T) {
	p := &MultiSceneProject{}
	if p.CurrentScene() != nil {
		t.Error("empty project must have no current scene")
	}

	p.Scenes = []SceneData{{SceneNumber: 1}, {SceneNumber: 2}}
	p.CurrentSceneIndex = 1
	if s := p.CurrentScene(); s == nil || s.SceneNumber != 2 {
		t.Errorf("current scene: got %+v, want scene 2", s)
	}

	p.CurrentSceneIndex = 5
	if p.CurrentScene() != nil {
		t.Error("out-of-range index must yield no current scene")
	}
}
