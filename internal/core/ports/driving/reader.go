package driving

import (
	"context"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
)

// RecentLimit bounds the count accepted by Recent.
const RecentLimit = 50

// ReaderService is the client-facing query path over the published
// catalog. It never observes in-flight contributions.
type ReaderService interface {
	// Random returns one uniformly random message from the published
	// document for lang. Returns domain.ErrNoMessages when the document
	// is absent or empty.
	Random(ctx context.Context, lang domain.Language) (domain.Message, error)

	// Recent returns up to count messages ordered most recent first,
	// ties broken by original catalog order. Count is clamped to
	// 1..RecentLimit. Returns domain.ErrNoMessages when empty.
	Recent(ctx context.Context, lang domain.Language, count int) ([]domain.Message, error)
}
