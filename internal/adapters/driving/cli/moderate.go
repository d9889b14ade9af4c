package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
)

var moderateCmd = &cobra.Command{
	Use:   "moderate [pr-number]",
	Short: "Review a pending contribution and merge or close it",
	Long: `Runs the automated content review for one contribution pull request.

Every newly proposed message is classified by the configured model.
Unanimous approval merges and publishes the contribution; any rejection
closes it. Running against an already-decided pull request is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runModerate,
}

func init() {
	rootCmd.AddCommand(moderateCmd)
}

func runModerate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid pull request number %q: %w", args[0], err)
	}

	if err := ensureModeration(cmd.Context()); err != nil {
		return err
	}

	outcome, err := moderationService.Review(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("moderate #%d: %w", id, err)
	}

	if outcome.Skipped {
		cmd.Println(metaStyle.Render(fmt.Sprintf("#%d is already decided, nothing to do.", id)))
		return nil
	}

	for i, v := range outcome.Verdicts {
		mark := successStyle.Render("approved")
		if !v.Approved {
			mark = errorStyle.Render("rejected")
		}
		cmd.Printf("  [%d] %s", i+1, mark)
		if v.Reason != "" {
			cmd.Printf(" %s", metaStyle.Render("("+v.Reason+")"))
		}
		cmd.Println()
	}

	switch outcome.Decision {
	case domain.ChangeRequestMerged:
		cmd.Println(successStyle.Render(fmt.Sprintf("#%d merged, the message is now published.", id)))
	case domain.ChangeRequestClosed:
		cmd.Println(errorStyle.Render(fmt.Sprintf("#%d closed, the content was rejected.", id)))
	case domain.ChangeRequestOpen:
		cmd.Println(warnStyle.Render(fmt.Sprintf("#%d approved but not mergeable, left open for manual attention.", id)))
	}
	return nil
}
