package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driving"
	"github.com/pssst-dev/pssst-cli/internal/logger"
)

// defaultRecentCount is how many messages recent shows without an argument.
const defaultRecentCount = 5

var recentCmd = &cobra.Command{
	Use:   "recent [count]",
	Short: "List the most recent messages",
	Long: fmt.Sprintf(`Lists the most recent catalog messages, newest first.
Count defaults to %d and is capped at %d.`, defaultRecentCount, driving.RecentLimit),
	Args: cobra.MaximumNArgs(1),
	RunE: runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
	count := defaultRecentCount
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[0], err)
		}
		count = n
	}

	lang, err := domain.ParseLanguage(langFlag)
	if err != nil {
		return err
	}

	if err := ensureReader(); err != nil {
		return err
	}

	messages, err := readerService.Recent(cmd.Context(), lang, count)
	if err != nil {
		if errors.Is(err, domain.ErrNoMessages) {
			cmd.Println(errorStyle.Render("No messages yet. Be the first: pssst send \"...\""))
			return nil
		}
		logger.Debug("recent messages fetch failed: %v", err)
		cmd.Println(errorStyle.Render("GitHub API connect fail😢"))
		return nil
	}

	for i, msg := range messages {
		cmd.Printf("%s %s\n",
			metaStyle.Render(fmt.Sprintf("[%d]", i+1)),
			messageStyle.Render(fmt.Sprintf("%q", msg.Text)))
		cmd.Println(metaStyle.Render(fmt.Sprintf("    - %s, author @%s", timeAgo(msg.Time(), nowFunc()), msg.Author)))
	}
	return nil
}
