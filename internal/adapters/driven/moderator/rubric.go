// Package moderator holds the moderation rubric shared by the content
// classifier adapters. The rubric is the fixed contract with the model:
// what to reject, what to allow, and the exact JSON verdict shape.
package moderator

import (
	"fmt"

	"github.com/pssst-dev/pssst-cli/internal/core/ports/driven"
)

// DefaultRubric is the moderation prompt. The %s placeholder receives
// the message text under review.
const DefaultRubric = `You are reviewing a short community-submitted developer message for a public quote catalog.

Reject ONLY if the message contains:
- hate speech or harassment targeting a person or group
- violent or terroristic threats
- spam or advertising
- sexual content
- instructions for illegal or dangerous activities

Explicitly ALLOW: profanity, criticism, complaints, dark humor, and ordinary informal developer speech.

Message to review:
%s

Respond with ONLY a JSON object, no other text:
{"approved": true or false, "reason": "short explanation", "language": "detected language", "category": "general|hate|violence|spam|sexual|dangerous"}`

// BuildPrompt renders the rubric for one message, preferring a
// customised template from the prompt store when available.
func BuildPrompt(store driven.PromptStore, text string) string {
	template := DefaultRubric
	if store != nil {
		if custom, err := store.Load(driven.PromptModerationRubric); err == nil && custom != "" {
			template = custom
		}
	}
	return fmt.Sprintf(template, text)
}
