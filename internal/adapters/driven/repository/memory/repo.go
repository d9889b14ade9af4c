// Package memory provides an in-memory implementation of the versioned
// repository port. It backs the service tests with deterministic
// branch, file and change-request semantics, including version-token
// conflicts on writes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driven"
)

// Ensure Repo implements the interface.
var _ driven.RepoService = (*Repo)(nil)

// fileEntry is one stored file with its version token.
type fileEntry struct {
	content []byte
	version string
}

// changeRequest is the stored state of one pull request.
type changeRequest struct {
	id           int
	sourceBranch string
	title        string
	body         string
	state        domain.ChangeRequestState
	mergeable    bool
	comments     []string
	mergeCalls   int
	closeCalls   int
}

// Repo is an in-memory implementation of driven.RepoService.
type Repo struct {
	mu        sync.Mutex
	published string
	branches  map[string]string                // branch name -> tip revision
	files     map[string]map[string]*fileEntry // branch -> path -> entry
	requests  map[int]*changeRequest
	nextRev   int
	nextID    int

	// User is returned by AuthenticatedUser; empty means resolution fails.
	User string

	// NotMergeable marks every opened change request as not mergeable.
	NotMergeable bool

	// Hooks for failure injection. A nil hook never fires.
	OnPutFile func(path string) error
	OnComment func(id int) error
}

// NewRepo creates an in-memory repository with an empty published branch.
func NewRepo(publishedBranch string) *Repo {
	r := &Repo{
		published: publishedBranch,
		branches:  make(map[string]string),
		files:     make(map[string]map[string]*fileEntry),
		requests:  make(map[int]*changeRequest),
	}
	r.branches[publishedBranch] = r.newRevision()
	r.files[publishedBranch] = make(map[string]*fileEntry)
	return r
}

func (r *Repo) newRevision() string {
	r.nextRev++
	return "rev-" + strconv.Itoa(r.nextRev)
}

// Seed writes a file directly to a branch, bypassing version checks.
func (r *Repo) Seed(branch, path string, content []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.files[branch] == nil {
		r.files[branch] = make(map[string]*fileEntry)
		r.branches[branch] = r.newRevision()
	}
	r.files[branch][path] = &fileEntry{content: content, version: r.newRevision()}
}

// BranchTip returns the head revision of a branch.
func (r *Repo) BranchTip(_ context.Context, branch string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tip, ok := r.branches[branch]
	if !ok {
		return "", fmt.Errorf("branch %s: %w", branch, domain.ErrNotFound)
	}
	return tip, nil
}

// CreateBranch creates a branch at the given revision, copying the
// files of whichever branch currently has that tip.
func (r *Repo) CreateBranch(_ context.Context, name, fromRevision string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.branches[name]; exists {
		return fmt.Errorf("branch %s already exists", name)
	}

	var source string
	for branch, tip := range r.branches {
		if tip == fromRevision {
			source = branch
			break
		}
	}
	if source == "" {
		return fmt.Errorf("revision %s: %w", fromRevision, domain.ErrNotFound)
	}

	copied := make(map[string]*fileEntry, len(r.files[source]))
	for path, entry := range r.files[source] {
		copied[path] = &fileEntry{content: append([]byte(nil), entry.content...), version: entry.version}
	}
	r.branches[name] = fromRevision
	r.files[name] = copied
	return nil
}

// GetFile fetches a file at a branch tip.
func (r *Repo) GetFile(_ context.Context, path, ref string) (*driven.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	branchFiles, ok := r.files[ref]
	if !ok {
		return nil, fmt.Errorf("ref %s: %w", ref, domain.ErrNotFound)
	}
	entry, ok := branchFiles[path]
	if !ok {
		return nil, fmt.Errorf("%s at %s: %w", path, ref, domain.ErrNotFound)
	}
	return &driven.File{
		Path:         path,
		Content:      append([]byte(nil), entry.content...),
		VersionToken: entry.version,
	}, nil
}

// PutFile writes content to a branch, enforcing optimistic concurrency
// against the version token.
func (r *Repo) PutFile(_ context.Context, path string, content []byte, branch, _, expectedVersion string) error {
	if r.OnPutFile != nil {
		if err := r.OnPutFile(path); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	branchFiles, ok := r.files[branch]
	if !ok {
		return fmt.Errorf("branch %s: %w", branch, domain.ErrNotFound)
	}

	existing, exists := branchFiles[path]
	if exists && existing.version != expectedVersion {
		return fmt.Errorf("version conflict on %s: have %s, expected %s", path, existing.version, expectedVersion)
	}
	if !exists && expectedVersion != "" {
		return fmt.Errorf("version conflict on %s: file does not exist", path)
	}

	branchFiles[path] = &fileEntry{content: append([]byte(nil), content...), version: r.newRevision()}
	r.branches[branch] = r.newRevision()
	return nil
}

// OpenChangeRequest opens a pull request against the published branch.
func (r *Repo) OpenChangeRequest(_ context.Context, title, body, sourceBranch string) (*domain.ChangeRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.branches[sourceBranch]; !ok {
		return nil, fmt.Errorf("branch %s: %w", sourceBranch, domain.ErrNotFound)
	}

	r.nextID++
	cr := &changeRequest{
		id:           r.nextID,
		sourceBranch: sourceBranch,
		title:        title,
		body:         body,
		state:        domain.ChangeRequestOpen,
		mergeable:    !r.NotMergeable,
	}
	r.requests[cr.id] = cr
	return r.toDomain(cr), nil
}

// GetChangeRequest fetches current state and mergeability.
func (r *Repo) GetChangeRequest(_ context.Context, id int) (*domain.ChangeRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cr, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("change request #%d: %w", id, domain.ErrNotFound)
	}
	return r.toDomain(cr), nil
}

// ListChangedFiles diffs the source branch against the published branch.
func (r *Repo) ListChangedFiles(_ context.Context, id int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cr, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("change request #%d: %w", id, domain.ErrNotFound)
	}

	published := r.files[r.published]
	var changed []string
	for path, entry := range r.files[cr.sourceBranch] {
		base, ok := published[path]
		if !ok || string(base.content) != string(entry.content) {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed, nil
}

// AddComment posts a comment on a change request.
func (r *Repo) AddComment(_ context.Context, id int, body string) error {
	if r.OnComment != nil {
		if err := r.OnComment(id); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	cr, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("change request #%d: %w", id, domain.ErrNotFound)
	}
	cr.comments = append(cr.comments, body)
	return nil
}

// MergeChangeRequest merges an open, mergeable request into the
// published branch.
func (r *Repo) MergeChangeRequest(_ context.Context, id int, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cr, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("change request #%d: %w", id, domain.ErrNotFound)
	}
	cr.mergeCalls++
	if cr.state != domain.ChangeRequestOpen || !cr.mergeable {
		return domain.ErrMergeRejected
	}

	published := r.files[r.published]
	for path, entry := range r.files[cr.sourceBranch] {
		published[path] = &fileEntry{content: append([]byte(nil), entry.content...), version: r.newRevision()}
	}
	r.branches[r.published] = r.newRevision()
	cr.state = domain.ChangeRequestMerged
	return nil
}

// CloseChangeRequest closes a request without merging.
func (r *Repo) CloseChangeRequest(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cr, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("change request #%d: %w", id, domain.ErrNotFound)
	}
	cr.closeCalls++
	if cr.state != domain.ChangeRequestOpen {
		return fmt.Errorf("change request #%d is %s", id, cr.state)
	}
	cr.state = domain.ChangeRequestClosed
	return nil
}

// AuthenticatedUser returns the configured login.
func (r *Repo) AuthenticatedUser(_ context.Context) (string, error) {
	if r.User == "" {
		return "", domain.ErrAuthRequired
	}
	return r.User, nil
}

func (r *Repo) toDomain(cr *changeRequest) *domain.ChangeRequest {
	return &domain.ChangeRequest{
		ID:           cr.id,
		URL:          fmt.Sprintf("https://example.test/pull/%d", cr.id),
		SourceBranch: cr.sourceBranch,
		State:        cr.state,
		Mergeable:    cr.mergeable,
	}
}

// Test inspection helpers.

// Comments returns the comments posted on a change request.
func (r *Repo) Comments(id int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cr, ok := r.requests[id]; ok {
		return append([]string(nil), cr.comments...)
	}
	return nil
}

// RequestTitle returns the title of a change request.
func (r *Repo) RequestTitle(id int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cr, ok := r.requests[id]; ok {
		return cr.title
	}
	return ""
}

// MergeCalls returns how many times merge was attempted on a request.
func (r *Repo) MergeCalls(id int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cr, ok := r.requests[id]; ok {
		return cr.mergeCalls
	}
	return 0
}

// CloseCalls returns how many times close was attempted on a request.
func (r *Repo) CloseCalls(id int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cr, ok := r.requests[id]; ok {
		return cr.closeCalls
	}
	return 0
}

// Branches returns the names of all branches.
func (r *Repo) Branches() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.branches))
	for name := range r.branches {
		names = append(names, name)
	}
	return names
}
