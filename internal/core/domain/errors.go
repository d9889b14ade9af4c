package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMessageTooLong indicates a contribution exceeded MaxMessageLength.
	// Rejected before any side effect.
	ErrMessageTooLong = errors.New("message too long")

	// ErrUnknownLanguage indicates a language tag outside the catalog set.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrNoMessages indicates the requested catalog document is empty or
	// absent. The read path renders this as "no messages available".
	ErrNoMessages = errors.New("no messages available")

	// Authentication errors.

	// ErrAuthRequired indicates a write operation was attempted without
	// a configured token. Checked before any network call.
	ErrAuthRequired = errors.New("authentication required")

	// Moderation errors.

	// ErrAlreadyDecided indicates moderation was invoked on a change
	// request that is already merged or closed. A safe no-op.
	ErrAlreadyDecided = errors.New("change request already decided")

	// ErrMergeRejected indicates the platform declined a merge despite
	// content approval. The request stays open for human attention.
	ErrMergeRejected = errors.New("merge rejected by platform")

	// ErrNoProposedMessages indicates a change request touched no
	// catalog documents, so there is nothing to review.
	ErrNoProposedMessages = errors.New("no proposed messages in change request")
)
