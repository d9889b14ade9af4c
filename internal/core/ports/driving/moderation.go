package driving

import (
	"context"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
)

// ReviewOutcome summarises one moderation run.
type ReviewOutcome struct {
	// Decision is the terminal action taken: merged, closed, or left
	// open (merge rejected by the platform).
	Decision domain.ChangeRequestState

	// Verdicts are the per-message moderation verdicts, in discovery order.
	Verdicts []domain.Verdict

	// Skipped is true when the change request was already terminal and
	// the run was a no-op.
	Skipped bool
}

// ModerationService drives a change request to a terminal state based
// on the content classifier's verdicts.
type ModerationService interface {
	// Review inspects the newly proposed messages of a change request,
	// obtains a verdict for each, and merges or closes accordingly.
	// Running it on an already-merged or already-closed request is a
	// safe no-op.
	Review(ctx context.Context, id int) (*ReviewOutcome, error)
}
