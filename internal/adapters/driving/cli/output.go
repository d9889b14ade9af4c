package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
)

// Terminal styles. lipgloss drops the colors on non-TTY output.
var (
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // cyan
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
)

// nowFunc is swappable for tests of relative-time rendering.
var nowFunc = time.Now

// timeAgo renders a coarse relative age: "Ndays before", "Nhours
// before", or "now".
func timeAgo(t, now time.Time) string {
	if t.IsZero() || now.Before(t) {
		return "now"
	}

	diff := now.Sub(t)
	if days := int(diff.Hours() / 24); days > 0 {
		return fmt.Sprintf("%ddays before", days)
	}
	if hours := int(diff.Hours()); hours > 0 {
		return fmt.Sprintf("%dhours before", hours)
	}
	return "now"
}

// printMessage renders one message in the quoted-text-plus-byline shape.
func printMessage(cmd *cobra.Command, msg domain.Message, expandAuthor bool) {
	cmd.Println(messageStyle.Render(fmt.Sprintf("%q", msg.Text)))
	cmd.Println(metaStyle.Render(fmt.Sprintf("- %s, author @%s", timeAgo(msg.Time(), nowFunc()), msg.Author)))
	if expandAuthor {
		cmd.Println(metaStyle.Render(fmt.Sprintf("  @%s · %s · %s", msg.Author, msg.Lang, msg.Timestamp)))
	}
}
