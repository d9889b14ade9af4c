// Package cli wires the cobra command tree for the pssst CLI.
// The default action prints one random message; subcommands cover the
// recent listing, contribution, moderation and version.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driving"
	"github.com/pssst-dev/pssst-cli/internal/logger"
)

// version is overridden at build time via SetVersion.
var version = "dev"

// Services used by the commands. Populated lazily from configuration on
// first use; tests inject stubs directly.
var (
	readerService       driving.ReaderService
	contributionService driving.ContributionService
	moderationService   driving.ModerationService
)

var (
	verboseFlag bool
	langFlag    string
	authorFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "pssst",
	Short: "Developer messages, whispered from a community catalog",
	Long: `Pssst prints short messages other developers left behind.

The catalog lives as JSON files in a public GitHub repository. Run with
no arguments to get one random message, or use the subcommands to list
recent messages, send your own, or moderate pending contributions.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRandom,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&langFlag, "lang", "l", "all", "catalog language (ko|en|ch|jp|all)")
	rootCmd.Flags().BoolVar(&authorFlag, "author", false, "show expanded author detail")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	}
}

// Root returns the assembled command tree for execution.
func Root() *cobra.Command {
	return rootCmd
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

func runRandom(cmd *cobra.Command, _ []string) error {
	lang, err := domain.ParseLanguage(langFlag)
	if err != nil {
		return err
	}

	if err := ensureReader(); err != nil {
		return err
	}

	msg, err := readerService.Random(cmd.Context(), lang)
	if err != nil {
		if errors.Is(err, domain.ErrNoMessages) {
			cmd.Println(errorStyle.Render("No messages yet. Be the first: pssst send \"...\""))
			return nil
		}
		// The read path degrades to a message, never a crash.
		logger.Debug("random message fetch failed: %v", err)
		cmd.Println(errorStyle.Render("GitHub API connect fail😢"))
		return nil
	}

	printMessage(cmd, msg, authorFlag)
	return nil
}
