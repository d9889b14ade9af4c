package driven

import (
	"context"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
)

// File is a repository file at a specific revision. The version token
// (the content blob SHA on GitHub) makes updates optimistic: a write
// conditioned on a stale token is rejected rather than lost.
type File struct {
	Path         string
	Content      []byte
	VersionToken string
}

// RepoService is the versioned repository hosting the message catalog.
// All mutations happen on contribution branches; the published line only
// changes when a change request merges.
type RepoService interface {
	// BranchTip returns the head revision of a branch.
	// Returns domain.ErrNotFound for unknown branches.
	BranchTip(ctx context.Context, branch string) (string, error)

	// CreateBranch creates a branch at the given revision.
	CreateBranch(ctx context.Context, name, fromRevision string) error

	// GetFile fetches a file at a branch tip or revision.
	// Returns domain.ErrNotFound when the path does not exist there.
	GetFile(ctx context.Context, path, ref string) (*File, error)

	// PutFile writes content to a path on a branch. A non-empty
	// expectedVersion makes the write conditional on the version token
	// observed by the caller's read; an empty one creates the file.
	PutFile(ctx context.Context, path string, content []byte, branch, commitMessage, expectedVersion string) error

	// OpenChangeRequest opens a pull request from sourceBranch to the
	// published line.
	OpenChangeRequest(ctx context.Context, title, body, sourceBranch string) (*domain.ChangeRequest, error)

	// GetChangeRequest fetches current state and mergeability.
	GetChangeRequest(ctx context.Context, id int) (*domain.ChangeRequest, error)

	// ListChangedFiles returns the paths touched by a change request.
	ListChangedFiles(ctx context.Context, id int) ([]string, error)

	// AddComment posts a comment on a change request.
	AddComment(ctx context.Context, id int, body string) error

	// MergeChangeRequest merges an open change request. Returns
	// domain.ErrMergeRejected when the platform declines.
	MergeChangeRequest(ctx context.Context, id int, commitMessage string) error

	// CloseChangeRequest closes a change request without merging.
	CloseChangeRequest(ctx context.Context, id int) error

	// AuthenticatedUser returns the login of the token's owner.
	// Used for author resolution; failures degrade to anonymous.
	AuthenticatedUser(ctx context.Context) (string, error)
}
