// Package gemini provides a content moderator using Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/pssst-dev/pssst-cli/internal/adapters/driven/moderator"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driven"
)

// Ensure Moderator implements the interface.
var _ driven.ContentModerator = (*Moderator)(nil)

// Default configuration values.
const (
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the Gemini moderator.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model to use (default: gemini-2.0-flash).
	Model string

	// Timeout bounds each moderation call (default: 60s).
	Timeout time.Duration
}

// Moderator classifies message content using Gemini.
type Moderator struct {
	client      *genai.Client
	model       string
	timeout     time.Duration
	promptStore driven.PromptStore
}

// New creates a Gemini moderator.
func New(ctx context.Context, cfg Config) (*Moderator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Moderator{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Moderate submits one message for review and returns the raw model
// response. Temperature zero keeps verdicts as deterministic as the
// model allows.
func (m *Moderator) Moderate(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	prompt := moderator.BuildPrompt(m.promptStore, text)
	result, err := m.client.Models.GenerateContent(ctx,
		m.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}

	response := result.Text()
	if response == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return response, nil
}

// ModelName returns the name of the model being used.
func (m *Moderator) ModelName() string {
	return m.model
}

// SetPromptStore sets the prompt store for a customised rubric.
// If not set, the moderator uses the default rubric.
func (m *Moderator) SetPromptStore(store driven.PromptStore) {
	m.promptStore = store
}
