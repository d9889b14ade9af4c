package domain

// ChangeRequestState is the lifecycle state of a proposed contribution.
type ChangeRequestState string

// A change request is created open and terminated exactly once, either
// merged or closed. No other terminal transitions exist.
const (
	ChangeRequestOpen   ChangeRequestState = "open"
	ChangeRequestClosed ChangeRequestState = "closed"
	ChangeRequestMerged ChangeRequestState = "merged"
)

// Terminal reports whether the state admits no further transitions.
func (s ChangeRequestState) Terminal() bool {
	return s == ChangeRequestClosed || s == ChangeRequestMerged
}

// ChangeRequest represents one proposed contribution in flight: a pull
// request from a contribution branch against the published line.
type ChangeRequest struct {
	// ID is the platform identifier (PR number).
	ID int

	// URL is the human-facing location of the request.
	URL string

	// SourceBranch is the contribution branch.
	SourceBranch string

	// State is the lifecycle state as reported by the platform.
	State ChangeRequestState

	// Mergeable is false when the platform has flagged the request as
	// not mergeable (conflicts with the published line).
	Mergeable bool
}

// Moderation verdict categories substituted on failure. Any classifier
// error resolves to a fail-closed verdict rather than a crash.
const (
	CategoryParsingError = "parsing_error"
	CategoryAPIError     = "api_error"
)

// Verdict is the structured moderation decision for one proposed
// message. It is ephemeral and never persisted.
type Verdict struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
	Language string `json:"language"`
	Category string `json:"category"`
}

// FailClosedVerdict builds the not-approved verdict substituted when
// the content classifier errors or returns an unparseable response.
func FailClosedVerdict(category, reason string) Verdict {
	return Verdict{
		Approved: false,
		Reason:   reason,
		Category: category,
	}
}

// SubmissionResult is the outcome of a successful contribution.
type SubmissionResult struct {
	// ChangeRequestURL locates the opened pull request.
	ChangeRequestURL string

	// Language is the detected catalog tag.
	Language Language

	// Mixed is true when the message spans scripts and was written only
	// to the aggregate document.
	Mixed bool

	// Author is the resolved identity or the anonymous marker.
	Author string
}
