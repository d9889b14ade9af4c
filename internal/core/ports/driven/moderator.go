package driven

import "context"

// ContentModerator is the LLM-backed moderation decision-maker.
//
// Implementations send the message text with the rubric prompt and
// return the model's raw response. The moderation engine owns verdict
// parsing and the fail-closed policy; adapters only transport text.
//
// Implementations may include:
//   - Gemini (google.golang.org/genai)
//   - Anthropic (Claude, raw HTTP)
type ContentModerator interface {
	// Moderate submits one message text for review and returns the raw
	// model response, expected to be the JSON verdict shape
	// {approved, reason, language, category}, possibly wrapped in
	// code fences.
	Moderate(ctx context.Context, text string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}
