package generator

import (
	"encoding/json"
	"strings"

	"reelprompt/internal/models"
)

// parsePromptDocument interprets the provider's raw text as the
// structured prompt document. Code fences are stripped first since
// models wrap JSON in them despite instructions. If the text is not
// valid JSON at all, the whole response becomes the main prompt rather
// than failing — the user still gets usable output.
func parsePromptDocument(raw string, req Request) *models.GeneratedPrompt {
	cleaned := stripCodeFence(raw)

	var doc struct {
		MainPrompt     string                 `json:"main_prompt"`
		TechnicalSpecs string                 `json:"technical_specs"`
		StyleNotes     string                 `json:"style_notes"`
		Metadata       *models.PromptMetadata `json:"metadata"`
	}

	prompt := &models.GeneratedPrompt{
		Platform:    req.Platform,
		SceneNumber: req.SceneNumber,
		TotalScenes: req.TotalScenes,
	}

	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil || doc.MainPrompt == "" {
		// Fall back to the fence-stripped text so markdown fences never
		// leak into the prompt shown to the user.
		prompt.MainPrompt = cleaned
		return prompt
	}

	prompt.MainPrompt = strings.TrimSpace(doc.MainPrompt)
	prompt.TechnicalSpecs = strings.TrimSpace(doc.TechnicalSpecs)
	prompt.StyleNotes = strings.TrimSpace(doc.StyleNotes)
	prompt.Metadata = doc.Metadata
	return prompt
}

// stripCodeFence removes a surrounding markdown code fence, with or
// without a language tag.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		first := strings.TrimSpace(s[:idx])
		if len(first) <= 10 && !strings.Contains(first, "{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
