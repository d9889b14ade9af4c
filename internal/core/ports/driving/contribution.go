package driving

import (
	"context"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
)

// ContributionService proposes new catalog messages via change requests.
type ContributionService interface {
	// Submit validates, classifies and proposes text as a new catalog
	// message. With anonymous set, the author is the anonymous marker;
	// otherwise it is resolved from the authenticated identity,
	// degrading to anonymous on failure.
	//
	// A failure at any step is terminal for the call. Already-created
	// branches are left behind for manual cleanup; nothing becomes
	// visible to readers before the change request merges.
	Submit(ctx context.Context, text string, anonymous bool) (*domain.SubmissionResult, error)
}
