// Package auth provides GitHub token resolution for authenticated calls.
// Tokens come from the environment first, then the config store. Reading
// the catalog never needs one; contributing and moderating do.
package auth

import (
	"context"
	"os"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driven"
)

// Ensure EnvConfigProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*EnvConfigProvider)(nil)

// Environment variables consulted, in order of precedence.
const (
	EnvToken       = "PSSST_TOKEN"
	EnvGitHubToken = "GITHUB_TOKEN"
)

// configKeyToken is the config store key holding a personal access token.
const configKeyToken = "github.token"

// EnvConfigProvider resolves tokens from environment variables with a
// config store fallback. Personal access tokens don't expire and don't
// require refresh.
type EnvConfigProvider struct {
	config driven.ConfigStore
}

// NewEnvConfigProvider creates a token provider backed by the environment
// and the given config store. The store may be nil, in which case only
// environment variables are consulted.
func NewEnvConfigProvider(config driven.ConfigStore) *EnvConfigProvider {
	return &EnvConfigProvider{config: config}
}

// GetToken returns the first configured token, checking PSSST_TOKEN,
// then GITHUB_TOKEN, then the config store. Returns
// domain.ErrAuthRequired when none is set.
func (p *EnvConfigProvider) GetToken(_ context.Context) (string, error) {
	if token := p.resolve(); token != "" {
		return token, nil
	}
	return "", domain.ErrAuthRequired
}

// IsAuthenticated returns true if a token is available without
// performing any network call.
func (p *EnvConfigProvider) IsAuthenticated() bool {
	return p.resolve() != ""
}

func (p *EnvConfigProvider) resolve() string {
	if token := os.Getenv(EnvToken); token != "" {
		return token
	}
	if token := os.Getenv(EnvGitHubToken); token != "" {
		return token
	}
	if p.config != nil {
		return p.config.GetString(configKeyToken)
	}
	return ""
}
