package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
)

var sendAnonymous bool

var sendCmd = &cobra.Command{
	Use:     "send [message]",
	Aliases: []string{"contribute"},
	Short:   "Propose a new message for the catalog",
	Long: fmt.Sprintf(`Proposes a new message for the community catalog.

The message is classified by language, appended on a contribution
branch, and opened as a pull request. It only becomes visible to
readers once moderation merges it. Messages are capped at %d
characters.`, domain.MaxMessageLength),
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().BoolVar(&sendAnonymous, "anonymous", false, "contribute without attribution")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	if err := ensureContribution(); err != nil {
		return err
	}

	result, err := contributionService.Submit(cmd.Context(), args[0], sendAnonymous)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMessageTooLong):
			cmd.Println(errorStyle.Render(err.Error()))
			return err
		case errors.Is(err, domain.ErrAuthRequired):
			cmd.Println(errorStyle.Render("A GitHub token is required to send messages."))
			cmd.Println(metaStyle.Render("Set PSSST_TOKEN or GITHUB_TOKEN, or run: pssst config set github.token <token>"))
			return err
		default:
			return fmt.Errorf("send message: %w", err)
		}
	}

	cmd.Println(successStyle.Render("Pssst! Your message is on its way 🚀"))
	cmd.Println(metaStyle.Render(fmt.Sprintf("  language: %s", result.Language)))
	if result.Mixed {
		cmd.Println(metaStyle.Render("  mixed-language message, filed under the aggregate catalog only"))
	}
	cmd.Println(metaStyle.Render(fmt.Sprintf("  author:   %s", result.Author)))
	cmd.Println(metaStyle.Render(fmt.Sprintf("  review:   %s", result.ChangeRequestURL)))
	return nil
}
