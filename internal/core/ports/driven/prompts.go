package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed defaults.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a
	// sensible default or an error, depending on whether the prompt
	// is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptModerationRubric is the moderation rubric sent with every
	// review. The template expects a %s placeholder for the message text.
	PromptModerationRubric = "moderation_rubric"
)
