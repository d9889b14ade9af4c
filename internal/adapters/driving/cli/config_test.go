package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pssst-dev/pssst-cli/internal/adapters/driven/config/file"
)

// setupTestConfig injects a config store rooted in a temp dir.
func setupTestConfig(t *testing.T) func() {
	t.Helper()
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	old := configStore
	configStore = store
	return func() {
		configStore = old
		rootCmd.SetArgs(nil)
	}
}

func TestConfigCmd_SetAndGet(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer cleanup()

	_, err := execute("config", "set", file.KeyRepoOwner, "pssst-dev")
	require.NoError(t, err)

	out, err := execute("config", "get", file.KeyRepoOwner)
	require.NoError(t, err)
	assert.Contains(t, out, "pssst-dev")
}

func TestConfigCmd_ShowMasksSecrets(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer cleanup()

	_, err := execute("config", "set", file.KeyGitHubToken, "ghp_super_secret_token")
	require.NoError(t, err)

	out, err := execute("config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "ghp_super_secret_token")
	assert.Contains(t, out, "ghp_...oken")
	assert.Contains(t, out, "repo.owner")
	assert.Contains(t, out, "(not set)")
}

func TestConfigCmd_Path(t *testing.T) {
	cleanup := setupTestConfig(t)
	defer cleanup()

	out, err := execute("config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "config.toml")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "abcd...wxyz", maskSecret("abcdefghijklmnopqrstuvwxyz"))
}
