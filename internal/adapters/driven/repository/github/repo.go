package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the HTTP request timeout for all API calls.
	DefaultTimeout = 30 * time.Second

	// MergeMethod is the merge strategy for approved change requests.
	MergeMethod = "squash"
)

// Ensure Repo implements the interface.
var _ driven.RepoService = (*Repo)(nil)

// Config identifies the catalog repository.
type Config struct {
	// Owner is the repository owner (user or organisation).
	Owner string

	// Name is the repository name.
	Name string

	// BaseBranch is the published line change requests target.
	BaseBranch string
}

// Repo is the GitHub binding of the versioned repository service.
type Repo struct {
	gh            *gh.Client
	cfg           Config
	tokenProvider driven.TokenProvider
	limiter       *RateLimiter
}

// New creates a repository service. The token provider may be nil for
// read-only use; write operations then fail with domain.ErrAuthRequired.
func New(cfg Config, tokenProvider driven.TokenProvider) *Repo {
	return &Repo{
		cfg:           cfg,
		tokenProvider: tokenProvider,
		limiter:       NewRateLimiter(),
	}
}

// NewWithClient creates a repository service over an existing go-github
// client. Useful for tests against a stub transport.
func NewWithClient(cfg Config, client *gh.Client) *Repo {
	return &Repo{
		gh:      client,
		cfg:     cfg,
		limiter: NewRateLimiter(),
	}
}

// ensureClient initializes the go-github client if not already done.
// This is called lazily so we can get the token when needed.
func (r *Repo) ensureClient(ctx context.Context) error {
	if r.gh != nil {
		return nil
	}

	if r.tokenProvider == nil || !r.tokenProvider.IsAuthenticated() {
		// Unauthenticated client: fine for reads, 60 requests/hour.
		r.gh = gh.NewClient(&http.Client{Timeout: DefaultTimeout})
		return nil
	}

	token, err := r.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout
	r.gh = gh.NewClient(tc)

	return nil
}

// requireAuth guards write operations.
func (r *Repo) requireAuth() error {
	if r.tokenProvider == nil || !r.tokenProvider.IsAuthenticated() {
		return domain.ErrAuthRequired
	}
	return nil
}

func (r *Repo) prepare(ctx context.Context) error {
	if err := r.ensureClient(ctx); err != nil {
		return err
	}
	return r.limiter.Wait(ctx)
}

// BranchTip returns the head revision of a branch.
func (r *Repo) BranchTip(ctx context.Context, branch string) (string, error) {
	if err := r.prepare(ctx); err != nil {
		return "", err
	}

	ref, resp, err := r.gh.Git.GetRef(ctx, r.cfg.Owner, r.cfg.Name, "heads/"+branch)
	if err != nil {
		return "", r.wrapError(err, "get branch tip")
	}
	r.update(resp)

	return ref.GetObject().GetSHA(), nil
}

// CreateBranch creates a branch at the given revision.
func (r *Repo) CreateBranch(ctx context.Context, name, fromRevision string) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if err := r.prepare(ctx); err != nil {
		return err
	}

	ref := gh.CreateRef{
		Ref: "refs/heads/" + name,
		SHA: fromRevision,
	}
	_, resp, err := r.gh.Git.CreateRef(ctx, r.cfg.Owner, r.cfg.Name, ref)
	if err != nil {
		return r.wrapError(err, "create branch")
	}
	r.update(resp)
	return nil
}

// GetFile fetches a file at a branch tip or revision. The blob SHA is
// returned as the version token for conditional writes.
func (r *Repo) GetFile(ctx context.Context, path, ref string) (*driven.File, error) {
	if err := r.prepare(ctx); err != nil {
		return nil, err
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	content, _, resp, err := r.gh.Repositories.GetContents(ctx, r.cfg.Owner, r.cfg.Name, path, opts)
	if err != nil {
		wrapped := r.wrapError(err, "get contents")
		if IsNotFound(wrapped) {
			return nil, fmt.Errorf("%s at %s: %w", path, ref, domain.ErrNotFound)
		}
		return nil, wrapped
	}
	r.update(resp)

	if content == nil {
		return nil, fmt.Errorf("get contents: %s is a directory", path)
	}
	decoded, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}

	return &driven.File{
		Path:         path,
		Content:      []byte(decoded),
		VersionToken: content.GetSHA(),
	}, nil
}

// PutFile writes content to a path on a branch. A non-empty
// expectedVersion updates the existing blob; an empty one creates it.
func (r *Repo) PutFile(ctx context.Context, path string, content []byte, branch, commitMessage, expectedVersion string) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if err := r.prepare(ctx); err != nil {
		return err
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(commitMessage),
		Content: content,
		Branch:  gh.Ptr(branch),
	}

	var resp *gh.Response
	var err error
	if expectedVersion == "" {
		_, resp, err = r.gh.Repositories.CreateFile(ctx, r.cfg.Owner, r.cfg.Name, path, opts)
	} else {
		opts.SHA = gh.Ptr(expectedVersion)
		_, resp, err = r.gh.Repositories.UpdateFile(ctx, r.cfg.Owner, r.cfg.Name, path, opts)
	}
	if err != nil {
		return r.wrapError(err, "put contents")
	}
	r.update(resp)
	return nil
}

// OpenChangeRequest opens a pull request against the base branch.
func (r *Repo) OpenChangeRequest(ctx context.Context, title, body, sourceBranch string) (*domain.ChangeRequest, error) {
	if err := r.requireAuth(); err != nil {
		return nil, err
	}
	if err := r.prepare(ctx); err != nil {
		return nil, err
	}

	pr, resp, err := r.gh.PullRequests.Create(ctx, r.cfg.Owner, r.cfg.Name, &gh.NewPullRequest{
		Title: gh.Ptr(title),
		Body:  gh.Ptr(body),
		Head:  gh.Ptr(sourceBranch),
		Base:  gh.Ptr(r.cfg.BaseBranch),
	})
	if err != nil {
		return nil, r.wrapError(err, "open pull request")
	}
	r.update(resp)

	return toChangeRequest(pr), nil
}

// GetChangeRequest fetches current state and mergeability.
func (r *Repo) GetChangeRequest(ctx context.Context, id int) (*domain.ChangeRequest, error) {
	if err := r.prepare(ctx); err != nil {
		return nil, err
	}

	pr, resp, err := r.gh.PullRequests.Get(ctx, r.cfg.Owner, r.cfg.Name, id)
	if err != nil {
		return nil, r.wrapError(err, "get pull request")
	}
	r.update(resp)

	return toChangeRequest(pr), nil
}

// ListChangedFiles returns the paths touched by a change request.
func (r *Repo) ListChangedFiles(ctx context.Context, id int) ([]string, error) {
	if err := r.prepare(ctx); err != nil {
		return nil, err
	}

	var paths []string
	opts := &gh.ListOptions{PerPage: 100}
	for {
		files, resp, err := r.gh.PullRequests.ListFiles(ctx, r.cfg.Owner, r.cfg.Name, id, opts)
		if err != nil {
			return nil, r.wrapError(err, "list pull request files")
		}
		r.update(resp)

		for _, f := range files {
			paths = append(paths, f.GetFilename())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage

		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// AddComment posts a comment on a change request.
func (r *Repo) AddComment(ctx context.Context, id int, body string) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if err := r.prepare(ctx); err != nil {
		return err
	}

	_, resp, err := r.gh.Issues.CreateComment(ctx, r.cfg.Owner, r.cfg.Name, id, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	if err != nil {
		return r.wrapError(err, "add comment")
	}
	r.update(resp)
	return nil
}

// MergeChangeRequest merges an open change request.
func (r *Repo) MergeChangeRequest(ctx context.Context, id int, commitMessage string) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if err := r.prepare(ctx); err != nil {
		return err
	}

	result, resp, err := r.gh.PullRequests.Merge(ctx, r.cfg.Owner, r.cfg.Name, id, commitMessage,
		&gh.PullRequestOptions{MergeMethod: MergeMethod})
	if err != nil {
		wrapped := r.wrapError(err, "merge pull request")
		if IsMergeConflict(wrapped) {
			return fmt.Errorf("%w: %v", domain.ErrMergeRejected, wrapped)
		}
		return wrapped
	}
	r.update(resp)

	if !result.GetMerged() {
		return fmt.Errorf("%w: %s", domain.ErrMergeRejected, result.GetMessage())
	}
	return nil
}

// CloseChangeRequest closes a change request without merging.
func (r *Repo) CloseChangeRequest(ctx context.Context, id int) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if err := r.prepare(ctx); err != nil {
		return err
	}

	_, resp, err := r.gh.PullRequests.Edit(ctx, r.cfg.Owner, r.cfg.Name, id, &gh.PullRequest{
		State: gh.Ptr("closed"),
	})
	if err != nil {
		return r.wrapError(err, "close pull request")
	}
	r.update(resp)
	return nil
}

// AuthenticatedUser returns the login of the token's owner.
func (r *Repo) AuthenticatedUser(ctx context.Context) (string, error) {
	if err := r.requireAuth(); err != nil {
		return "", err
	}
	if err := r.prepare(ctx); err != nil {
		return "", err
	}

	user, resp, err := r.gh.Users.Get(ctx, "")
	if err != nil {
		return "", r.wrapError(err, "get authenticated user")
	}
	r.update(resp)
	return user.GetLogin(), nil
}

// toChangeRequest maps a pull request to the domain type. An unknown
// mergeability (GitHub computes it asynchronously) counts as mergeable;
// the merge call itself is the final arbiter.
func toChangeRequest(pr *gh.PullRequest) *domain.ChangeRequest {
	state := domain.ChangeRequestState(pr.GetState())
	if pr.GetMerged() {
		state = domain.ChangeRequestMerged
	}
	return &domain.ChangeRequest{
		ID:           pr.GetNumber(),
		URL:          pr.GetHTMLURL(),
		SourceBranch: pr.GetHead().GetRef(),
		State:        state,
		Mergeable:    pr.Mergeable == nil || pr.GetMergeable(),
	}
}

// update refreshes the rate limiter from GitHub response headers.
func (r *Repo) update(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	r.limiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (r *Repo) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			Operation:  operation,
		}
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   r.limiter.ResetTime(),
			Remaining: r.limiter.Remaining(),
			Limit:     r.limiter.Limit(),
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
