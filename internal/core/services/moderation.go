package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driven"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driving"
	"github.com/pssst-dev/pssst-cli/internal/logger"
)

// Ensure ModerationService implements the interface.
var _ driving.ModerationService = (*ModerationService)(nil)

// ModerationService drives a change request to a terminal state. The
// classifier's free-form response is a trust boundary: it is parsed
// strictly and every error path resolves to a not-approved verdict.
type ModerationService struct {
	repo      driven.RepoService
	moderator driven.ContentModerator
}

// NewModerationService creates a moderation engine.
func NewModerationService(repo driven.RepoService, moderator driven.ContentModerator) *ModerationService {
	return &ModerationService{
		repo:      repo,
		moderator: moderator,
	}
}

// Review inspects a change request and merges or closes it.
func (s *ModerationService) Review(ctx context.Context, id int) (*driving.ReviewOutcome, error) {
	cr, err := s.repo.GetChangeRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get change request #%d: %w", id, err)
	}

	// Idempotence: a terminal request is never acted on twice.
	if cr.State.Terminal() {
		logger.Info("Change request #%d already %s, skipping", id, cr.State)
		return &driving.ReviewOutcome{Decision: cr.State, Skipped: true}, nil
	}

	proposed, err := s.discover(ctx, cr)
	if err != nil {
		// Leave a human-visible trace before giving up on this run.
		s.comment(ctx, id, fmt.Sprintf("⚠️ Automated review failed: %v", err))
		return nil, err
	}

	verdicts := make([]domain.Verdict, len(proposed))
	approved := true
	for i, msg := range proposed {
		verdicts[i] = s.review(ctx, msg)
		logger.Info("Verdict for %q: approved=%t category=%s", msg.Text, verdicts[i].Approved, verdicts[i].Category)
		approved = approved && verdicts[i].Approved
	}

	// Unanimous approval is required for the whole request.
	if !approved {
		return s.reject(ctx, cr, proposed, verdicts)
	}
	return s.approve(ctx, cr, proposed, verdicts)
}

// discover enumerates the newly proposed messages of a change request:
// the last entry of each touched catalog document at the branch tip,
// deduplicated so the dual-write yields one review, not two.
func (s *ModerationService) discover(ctx context.Context, cr *domain.ChangeRequest) ([]domain.Message, error) {
	paths, err := s.repo.ListChangedFiles(ctx, cr.ID)
	if err != nil {
		return nil, fmt.Errorf("list changed files: %w", err)
	}

	var proposed []domain.Message
	for _, path := range paths {
		if !domain.IsCatalogPath(path) {
			continue
		}

		file, err := s.repo.GetFile(ctx, path, cr.SourceBranch)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("fetch %s: %w", path, err)
		}

		catalog, err := domain.ParseCatalog(file.Content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		last, ok := catalog.Last()
		if !ok {
			continue
		}

		duplicate := false
		for _, seen := range proposed {
			if seen.SameContribution(last) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			proposed = append(proposed, last)
		}
	}

	if len(proposed) == 0 {
		return nil, domain.ErrNoProposedMessages
	}
	logger.Debug("Discovered %d proposed message(s) in #%d", len(proposed), cr.ID)
	return proposed, nil
}

// review obtains one verdict, substituting a fail-closed verdict for
// classifier errors and unparseable responses. It never fails open.
func (s *ModerationService) review(ctx context.Context, msg domain.Message) domain.Verdict {
	raw, err := s.moderator.Moderate(ctx, msg.Text)
	if err != nil {
		logger.Warn("Classifier call failed: %v", err)
		return domain.FailClosedVerdict(domain.CategoryAPIError, fmt.Sprintf("classifier error: %v", err))
	}

	var verdict domain.Verdict
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &verdict); err != nil {
		logger.Warn("Unparseable verdict %q: %v", raw, err)
		return domain.FailClosedVerdict(domain.CategoryParsingError, "classifier returned an unparseable verdict")
	}

	// Ambiguous shapes default to the safe branch.
	if verdict.Approved && verdict.Category == "" {
		verdict.Category = "general"
	}
	if !verdict.Approved && verdict.Reason == "" {
		verdict.Reason = "no reason given"
	}
	return verdict
}

// approve posts the approval explanation and attempts the merge. A
// platform merge rejection is not a content rejection: the request is
// left open for human attention.
func (s *ModerationService) approve(
	ctx context.Context, cr *domain.ChangeRequest, msgs []domain.Message, verdicts []domain.Verdict,
) (*driving.ReviewOutcome, error) {
	s.comment(ctx, cr.ID, approvalComment(msgs, verdicts))

	if !cr.Mergeable {
		s.comment(ctx, cr.ID, mergeFailureComment(domain.ErrMergeRejected))
		logger.Warn("Change request #%d approved but not mergeable, leaving open", cr.ID)
		return &driving.ReviewOutcome{Decision: domain.ChangeRequestOpen, Verdicts: verdicts}, nil
	}

	if err := s.repo.MergeChangeRequest(ctx, cr.ID, fmt.Sprintf("Merge community message (#%d)", cr.ID)); err != nil {
		s.comment(ctx, cr.ID, mergeFailureComment(err))
		logger.Warn("Merge of #%d rejected: %v", cr.ID, err)
		return &driving.ReviewOutcome{Decision: domain.ChangeRequestOpen, Verdicts: verdicts}, nil
	}

	logger.Info("Merged change request #%d", cr.ID)
	return &driving.ReviewOutcome{Decision: domain.ChangeRequestMerged, Verdicts: verdicts}, nil
}

// reject posts the rejection explanation and closes without merging.
func (s *ModerationService) reject(
	ctx context.Context, cr *domain.ChangeRequest, msgs []domain.Message, verdicts []domain.Verdict,
) (*driving.ReviewOutcome, error) {
	s.comment(ctx, cr.ID, rejectionComment(msgs, verdicts))

	if err := s.repo.CloseChangeRequest(ctx, cr.ID); err != nil {
		return nil, fmt.Errorf("close change request #%d: %w", cr.ID, err)
	}

	logger.Info("Closed change request #%d", cr.ID)
	return &driving.ReviewOutcome{Decision: domain.ChangeRequestClosed, Verdicts: verdicts}, nil
}

// comment posts best-effort: a failed comment never blocks the decision.
func (s *ModerationService) comment(ctx context.Context, id int, body string) {
	if err := s.repo.AddComment(ctx, id, body); err != nil {
		logger.Warn("Could not comment on #%d: %v", id, err)
	}
}

// stripCodeFences removes incidental Markdown code-block wrapping from
// a model response before JSON parsing.
func stripCodeFences(raw string) string {
	out := strings.TrimSpace(raw)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```")
	// Drop a language hint like "json" on the opening fence.
	if idx := strings.IndexByte(out, '\n'); idx >= 0 {
		first := strings.TrimSpace(out[:idx])
		if first == "json" || first == "" {
			out = out[idx+1:]
		}
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

func approvalComment(msgs []domain.Message, verdicts []domain.Verdict) string {
	var b strings.Builder
	b.WriteString("## ✅ Approved by automated review\n")
	for i, msg := range msgs {
		fmt.Fprintf(&b, "\n**Message:** %q\n**Author:** %s\n**Language:** %s\n**Category:** %s\n**Reason:** %s\n",
			msg.Text, msg.Author, verdicts[i].Language, verdicts[i].Category, verdicts[i].Reason)
	}
	return b.String()
}

func rejectionComment(msgs []domain.Message, verdicts []domain.Verdict) string {
	var b strings.Builder
	b.WriteString("## ❌ Rejected by automated review\n")
	for i, msg := range msgs {
		fmt.Fprintf(&b, "\n**Message:** %q\n**Author:** %s\n**Reason:** %s\n",
			msg.Text, msg.Author, verdicts[i].Reason)
	}
	b.WriteString("\nThis change request will be closed without merging.")
	return b.String()
}

func mergeFailureComment(err error) string {
	return fmt.Sprintf("⚠️ The message was approved but the automatic merge failed: %v\n\nA maintainer needs to merge this manually.", err)
}
