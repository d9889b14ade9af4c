package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pssst-dev/pssst-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pssst configuration",
	Long: `View and edit the pssst configuration file.

Known keys:
  repo.owner            catalog repository owner
  repo.name             catalog repository name
  repo.branch           published branch
  github.token          personal access token for writes
  moderation.provider   gemini or anthropic
  moderation.model      model override for the moderation provider
  moderation.api_key    API key for the moderation provider`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// secretKeys are masked in show output.
var secretKeys = map[string]bool{
	file.KeyGitHubToken:      true,
	file.KeyModerationAPIKey: true,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	keys := []string{
		file.KeyRepoOwner,
		file.KeyRepoName,
		file.KeyRepoBranch,
		file.KeyGitHubToken,
		file.KeyModerationProvider,
		file.KeyModerationModel,
		file.KeyModerationAPIKey,
	}

	for _, key := range keys {
		val := configStore.GetString(key)
		switch {
		case val == "":
			cmd.Printf("%-22s (not set)\n", key)
		case secretKeys[key]:
			cmd.Printf("%-22s %s\n", key, maskSecret(val))
		default:
			cmd.Printf("%-22s %s\n", key, val)
		}
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}
	cmd.Println(configStore.GetString(args[0]))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}
	if err := configStore.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}
	cmd.Println(configStore.Path())
	return nil
}

func maskSecret(val string) string {
	if len(val) <= 8 {
		return "****"
	}
	return val[:4] + "..." + val[len(val)-4:]
}
