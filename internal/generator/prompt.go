package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// systemPrompt instructs the model to answer with the structured JSON
// document parsePromptDocument expects. The enhanced variant (studio
// tier) asks for the full metadata block used by continuity suggestions.
func systemPrompt(req Request) string {
	var b strings.Builder

	b.WriteString(`You are a cinematography director writing production-ready prompts for AI video generation models.

Respond with ONLY a JSON object, no code fences, with these keys:
- "main_prompt": the complete video generation prompt, one paragraph, concrete and visual.
- "technical_specs": resolution, duration, frame rate and format guidance for the target platform.
- "style_notes": tone, palette and reference notes the editor can reuse.`)

	if req.Enhanced {
		b.WriteString(`
- "metadata": an object with "characters" (array), "location", "time_of_day", "mood", "visual_style", "key_props" (array), "color_palette", "camera_work", "lighting", "story_elements" (array). Fill every field you can infer.`)
	} else {
		b.WriteString(`
- "metadata": an object with "characters" (array), "location", "mood". Other fields optional.`)
	}

	if req.Platform != "" {
		fmt.Fprintf(&b, "\n\nTarget platform: %s. Respect its formatting conventions and duration limits.", req.Platform)
	}
	if req.IsMultiScene {
		fmt.Fprintf(&b, "\nThis is scene %d of %d in a continuing story. Maintain strict visual and character continuity with the provided scene context.", req.SceneNumber, req.TotalScenes)
	}

	return b.String()
}

// userPrompt renders the request as the user message. The wire shape
// mirrors the Request JSON so the document the model sees is exactly
// what the caller assembled — including the deliberate omission of the
// camera group when it was empty.
func userPrompt(req Request) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scene request:\n%s", payload)

	if req.Camera == nil {
		b.WriteString("\n\nNo camera settings were specified — choose camera work that fits the scene (or continues the previous scene's coverage).")
	}

	return b.String(), nil
}
