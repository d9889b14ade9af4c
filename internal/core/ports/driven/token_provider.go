package driven

import "context"

// TokenProvider provides access tokens for authenticated repository calls.
// The read path never consults it; contribution and moderation require it.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// Returns domain.ErrAuthRequired when no token is configured.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if a token is available without
	// performing any network call.
	IsAuthenticated() bool
}
