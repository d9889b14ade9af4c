package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driven"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driving"
	"github.com/pssst-dev/pssst-cli/internal/logger"
)

// Ensure ContributionService implements the interface.
var _ driving.ContributionService = (*ContributionService)(nil)

// ContributionService proposes catalog messages: it creates a branch,
// appends to the catalog documents there, and opens a change request.
// Nothing it does is visible to readers until the request merges.
type ContributionService struct {
	repo   driven.RepoService
	branch string

	// now and branchSuffix are swappable for deterministic tests.
	now          func() time.Time
	branchSuffix func() string
}

// NewContributionService creates a submitter targeting the published branch.
func NewContributionService(repo driven.RepoService, publishedBranch string) *ContributionService {
	return &ContributionService{
		repo:         repo,
		branch:       publishedBranch,
		now:          time.Now,
		branchSuffix: func() string { return uuid.NewString()[:8] },
	}
}

// Submit validates, classifies and proposes text as a new catalog message.
func (s *ContributionService) Submit(ctx context.Context, text string, anonymous bool) (*domain.SubmissionResult, error) {
	// Length check happens before any side effect.
	if n := len([]rune(text)); n > domain.MaxMessageLength {
		return nil, fmt.Errorf("%w (%d/%d characters)", domain.ErrMessageTooLong, n, domain.MaxMessageLength)
	}

	author := s.resolveAuthor(ctx, anonymous)
	lang, mixed := domain.DetectLanguage(text)
	msg := domain.NewMessage(text, author, lang, s.now())
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	logger.Info("Classified message as %s (mixed=%t), author %s", lang, mixed, author)

	branch, err := s.createBranch(ctx)
	if err != nil {
		return nil, err
	}

	// The aggregate document always receives the message; the specific
	// document only when the language is determined. Both writes land on
	// the contribution branch, so a failure after the first write leaves
	// the branch partial but nothing reader-visible.
	paths := []string{domain.CatalogPath(domain.LanguageAll)}
	if !mixed {
		paths = []string{domain.CatalogPath(lang), domain.CatalogPath(domain.LanguageAll)}
	}
	for _, path := range paths {
		if err := s.appendTo(ctx, path, msg, branch); err != nil {
			return nil, fmt.Errorf("update %s on %s: %w", path, branch, err)
		}
	}

	cr, err := s.repo.OpenChangeRequest(ctx, prTitle(msg, anonymous), prBody(msg, anonymous), branch)
	if err != nil {
		return nil, fmt.Errorf("open change request: %w", err)
	}
	logger.Info("Opened change request %s", cr.URL)

	return &domain.SubmissionResult{
		ChangeRequestURL: cr.URL,
		Language:         lang,
		Mixed:            mixed,
		Author:           author,
	}, nil
}

// resolveAuthor returns the anonymous marker or the authenticated login.
// Resolution failure degrades to anonymous rather than aborting.
func (s *ContributionService) resolveAuthor(ctx context.Context, anonymous bool) string {
	if anonymous {
		return domain.AnonymousAuthor
	}
	login, err := s.repo.AuthenticatedUser(ctx)
	if err != nil || login == "" {
		logger.Warn("Could not resolve author, submitting anonymously: %v", err)
		return domain.AnonymousAuthor
	}
	return login
}

// createBranch cuts a uniquely named branch from the published tip.
// The millisecond timestamp keeps names orderable; the uuid suffix
// removes the collision window between concurrent contributors.
func (s *ContributionService) createBranch(ctx context.Context) (string, error) {
	tip, err := s.repo.BranchTip(ctx, s.branch)
	if err != nil {
		return "", fmt.Errorf("resolve %s tip: %w", s.branch, err)
	}

	name := fmt.Sprintf("add-message-%d-%s", s.now().UnixMilli(), s.branchSuffix())
	if err := s.repo.CreateBranch(ctx, name, tip); err != nil {
		return "", fmt.Errorf("create branch %s: %w", name, err)
	}
	logger.Debug("Created branch %s at %s", name, tip)
	return name, nil
}

// appendTo performs one optimistic read-modify-write of a catalog
// document at the branch tip. The write is conditioned on the version
// token observed by the read; a missing document is created.
func (s *ContributionService) appendTo(ctx context.Context, path string, msg domain.Message, branch string) error {
	var content []byte
	var version string

	file, err := s.repo.GetFile(ctx, path, branch)
	switch {
	case err == nil:
		content = file.Content
		version = file.VersionToken
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("Document %s not found, creating", path)
	default:
		return fmt.Errorf("read: %w", err)
	}

	catalog, err := domain.ParseCatalog(content)
	if err != nil {
		return err
	}

	updated, err := catalog.Append(msg).Encode()
	if err != nil {
		return err
	}

	commitMsg := fmt.Sprintf("Add message to %s", path)
	if err := s.repo.PutFile(ctx, path, updated, branch, commitMsg, version); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// prTitle generates the change request title, varying by anonymity.
func prTitle(msg domain.Message, anonymous bool) string {
	if anonymous {
		return fmt.Sprintf("Add new %s anonymous message", msg.Lang)
	}
	return fmt.Sprintf("Add new %s message by @%s", msg.Lang, msg.Author)
}

// prBody generates the structured change request body.
func prBody(msg domain.Message, anonymous bool) string {
	mode := "Public"
	if anonymous {
		mode = "Anonymous"
	}
	return fmt.Sprintf(`## 🌍 New Developer Message

**Message:** %q
**Author:** %s
**Language:** %s
**Mode:** %s

*This PR was created automatically by Pssst*`, msg.Text, msg.Author, msg.Lang, mode)
}
