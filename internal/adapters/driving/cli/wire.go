package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pssst-dev/pssst-cli/internal/adapters/driven/auth"
	"github.com/pssst-dev/pssst-cli/internal/adapters/driven/config/file"
	"github.com/pssst-dev/pssst-cli/internal/adapters/driven/moderator/anthropic"
	"github.com/pssst-dev/pssst-cli/internal/adapters/driven/moderator/gemini"
	"github.com/pssst-dev/pssst-cli/internal/adapters/driven/repository/github"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driven"
	"github.com/pssst-dev/pssst-cli/internal/core/services"
	"github.com/pssst-dev/pssst-cli/internal/logger"
)

// Default catalog repository. Overridable via repo.* config keys.
const (
	DefaultOwner  = "yybmion"
	DefaultRepo   = "pssst"
	DefaultBranch = "main"
)

// Environment variables consulted for moderation API keys, taking
// precedence over the config store.
const (
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

var configStore driven.ConfigStore

// ensureConfig loads the config store from ~/.pssst once.
func ensureConfig() error {
	if configStore != nil {
		return nil
	}
	store, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configStore = store
	return nil
}

func configString(key, fallback string) string {
	if v := configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func repoConfig() github.Config {
	return github.Config{
		Owner:      configString(file.KeyRepoOwner, DefaultOwner),
		Name:       configString(file.KeyRepoName, DefaultRepo),
		BaseBranch: configString(file.KeyRepoBranch, DefaultBranch),
	}
}

func newRepo() *github.Repo {
	cfg := repoConfig()
	logger.Debug("catalog repository: %s/%s@%s", cfg.Owner, cfg.Name, cfg.BaseBranch)
	return github.New(cfg, auth.NewEnvConfigProvider(configStore))
}

// ensureReader builds the reader service unless one was injected.
func ensureReader() error {
	if readerService != nil {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}
	readerService = services.NewReaderService(newRepo(), repoConfig().BaseBranch)
	return nil
}

// ensureContribution builds the contribution service unless one was injected.
func ensureContribution() error {
	if contributionService != nil {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}
	contributionService = services.NewContributionService(newRepo(), repoConfig().BaseBranch)
	return nil
}

// ensureModeration builds the moderation service unless one was
// injected. This is the only path that needs a content moderator.
func ensureModeration(ctx context.Context) error {
	if moderationService != nil {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}

	mod, err := buildModerator(ctx)
	if err != nil {
		return err
	}
	moderationService = services.NewModerationService(newRepo(), mod)
	return nil
}

// buildModerator constructs the configured content moderator. The
// provider defaults to Gemini; API keys come from the environment
// first, then the config store.
func buildModerator(ctx context.Context) (driven.ContentModerator, error) {
	prompts, err := file.NewPromptStore("")
	if err != nil {
		return nil, fmt.Errorf("prompt store: %w", err)
	}

	provider := configString(file.KeyModerationProvider, "gemini")
	model := configStore.GetString(file.KeyModerationModel)
	apiKey := configStore.GetString(file.KeyModerationAPIKey)

	switch provider {
	case "gemini":
		if key := os.Getenv(EnvGeminiAPIKey); key != "" {
			apiKey = key
		}
		m, err := gemini.New(ctx, gemini.Config{APIKey: apiKey, Model: model})
		if err != nil {
			return nil, err
		}
		m.SetPromptStore(prompts)
		logger.Debug("moderation provider: gemini (%s)", m.ModelName())
		return m, nil

	case "anthropic":
		if key := os.Getenv(EnvAnthropicAPIKey); key != "" {
			apiKey = key
		}
		m, err := anthropic.New(anthropic.Config{APIKey: apiKey, Model: model})
		if err != nil {
			return nil, err
		}
		m.SetPromptStore(prompts)
		logger.Debug("moderation provider: anthropic (%s)", m.ModelName())
		return m, nil

	default:
		return nil, fmt.Errorf("unknown moderation provider %q (want gemini or anthropic)", provider)
	}
}
