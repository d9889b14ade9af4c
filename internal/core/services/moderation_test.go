package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pssst-dev/pssst-cli/internal/adapters/driven/repository/memory"
	"github.com/pssst-dev/pssst-cli/internal/core/domain"
)

// stubModerator returns a canned response or error per call.
type stubModerator struct {
	response string
	err      error
	calls    int
}

func (m *stubModerator) Moderate(_ context.Context, _ string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *stubModerator) ModelName() string { return "stub" }

// submitTestMessage drives a real contribution so moderation sees the
// same branch and change-request shape as production.
func submitTestMessage(t *testing.T, repo *memory.Repo, text string) int {
	t.Helper()
	repo.User = "alice"
	_, err := newTestSubmitter(repo).Submit(context.Background(), text, false)
	require.NoError(t, err)
	return 1
}

func TestModerationService_ApproveAndMerge(t *testing.T) {
	repo := memory.NewRepo("main")
	id := submitTestMessage(t, repo, "Hello world")

	moderator := &stubModerator{response: `{"approved": true, "reason": "harmless greeting", "language": "en", "category": "general"}`}
	service := NewModerationService(repo, moderator)

	outcome, err := service.Review(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ChangeRequestMerged, outcome.Decision)
	assert.False(t, outcome.Skipped)
	require.Len(t, outcome.Verdicts, 1)
	assert.True(t, outcome.Verdicts[0].Approved)

	// The dual-write yields one review, not two.
	assert.Equal(t, 1, moderator.calls)

	// Merge published the message to the main branch.
	file, err := repo.GetFile(context.Background(), "messages/all.json", "main")
	require.NoError(t, err)
	catalog, err := domain.ParseCatalog(file.Content)
	require.NoError(t, err)
	require.Len(t, catalog.Messages, 1)
	assert.Equal(t, "Hello world", catalog.Messages[0].Text)

	comments := repo.Comments(id)
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0], "Approved")
	assert.Contains(t, comments[0], "Hello world")
}

func TestModerationService_RejectAndClose(t *testing.T) {
	repo := memory.NewRepo("main")
	id := submitTestMessage(t, repo, "buy cheap followers now")

	moderator := &stubModerator{response: `{"approved": false, "reason": "advertising", "language": "en", "category": "spam"}`}
	service := NewModerationService(repo, moderator)

	outcome, err := service.Review(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ChangeRequestClosed, outcome.Decision)
	assert.Equal(t, "spam", outcome.Verdicts[0].Category)

	// No merge was attempted and the request is closed.
	assert.Equal(t, 0, repo.MergeCalls(id))
	cr, err := repo.GetChangeRequest(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ChangeRequestClosed, cr.State)

	comments := repo.Comments(id)
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0], "Rejected")
	assert.Contains(t, comments[0], "advertising")

	// Nothing reached the published catalog.
	_, err = repo.GetFile(context.Background(), "messages/all.json", "main")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestModerationService_Idempotent(t *testing.T) {
	repo := memory.NewRepo("main")
	id := submitTestMessage(t, repo, "Hello world")

	moderator := &stubModerator{response: `{"approved": true, "reason": "fine", "language": "en", "category": "general"}`}
	service := NewModerationService(repo, moderator)

	_, err := service.Review(context.Background(), id)
	require.NoError(t, err)
	commentsAfterFirst := len(repo.Comments(id))

	outcome, err := service.Review(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, outcome.Skipped)
	assert.Equal(t, domain.ChangeRequestMerged, outcome.Decision)

	// No second merge, no duplicate comment.
	assert.Equal(t, 1, repo.MergeCalls(id))
	assert.Len(t, repo.Comments(id), commentsAfterFirst)
}

func TestModerationService_FailClosedOnClassifierError(t *testing.T) {
	repo := memory.NewRepo("main")
	id := submitTestMessage(t, repo, "Hello world")

	moderator := &stubModerator{err: errors.New("quota exhausted")}
	service := NewModerationService(repo, moderator)

	outcome, err := service.Review(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ChangeRequestClosed, outcome.Decision)
	require.Len(t, outcome.Verdicts, 1)
	assert.False(t, outcome.Verdicts[0].Approved)
	assert.Equal(t, domain.CategoryAPIError, outcome.Verdicts[0].Category)
}

func TestModerationService_FailClosedOnUnparseableVerdict(t *testing.T) {
	repo := memory.NewRepo("main")
	id := submitTestMessage(t, repo, "Hello world")

	moderator := &stubModerator{response: "I think this message is fine!"}
	service := NewModerationService(repo, moderator)

	outcome, err := service.Review(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ChangeRequestClosed, outcome.Decision)
	assert.False(t, outcome.Verdicts[0].Approved)
	assert.Equal(t, domain.CategoryParsingError, outcome.Verdicts[0].Category)
}

func TestModerationService_ParsesFencedVerdict(t *testing.T) {
	repo := memory.NewRepo("main")
	id := submitTestMessage(t, repo, "Hello world")

	moderator := &stubModerator{response: "```json\n{\"approved\": true, \"reason\": \"ok\", \"language\": \"en\", \"category\": \"general\"}\n```"}
	service := NewModerationService(repo, moderator)

	outcome, err := service.Review(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ChangeRequestMerged, outcome.Decision)
	assert.True(t, outcome.Verdicts[0].Approved)
}

func TestModerationService_MergeRejectedLeavesOpen(t *testing.T) {
	repo := memory.NewRepo("main")
	repo.NotMergeable = true
	id := submitTestMessage(t, repo, "Hello world")

	moderator := &stubModerator{response: `{"approved": true, "reason": "fine", "language": "en", "category": "general"}`}
	service := NewModerationService(repo, moderator)

	outcome, err := service.Review(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ChangeRequestOpen, outcome.Decision)

	// A failed automatic merge is not a content rejection.
	cr, err := repo.GetChangeRequest(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ChangeRequestOpen, cr.State)
	assert.Equal(t, 0, repo.CloseCalls(id))

	comments := repo.Comments(id)
	require.Len(t, comments, 2)
	assert.Contains(t, comments[1], "merge failed")
}

func TestModerationService_NoCatalogChanges(t *testing.T) {
	repo := memory.NewRepo("main")
	repo.User = "alice"

	// Hand-build a change request touching nothing under messages/.
	require.NoError(t, repo.CreateBranch(context.Background(), "feature", mustTip(t, repo, "main")))
	require.NoError(t, repo.PutFile(context.Background(), "README.md", []byte("docs"), "feature", "update docs", ""))
	cr, err := repo.OpenChangeRequest(context.Background(), "docs", "", "feature")
	require.NoError(t, err)

	moderator := &stubModerator{response: `{"approved": true}`}
	service := NewModerationService(repo, moderator)

	_, err = service.Review(context.Background(), cr.ID)
	assert.ErrorIs(t, err, domain.ErrNoProposedMessages)

	// The failure left a human-visible trace.
	comments := repo.Comments(cr.ID)
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0], "review failed")
}

func mustTip(t *testing.T, repo *memory.Repo, branch string) string {
	t.Helper()
	tip, err := repo.BranchTip(context.Background(), branch)
	require.NoError(t, err)
	return tip
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare json", in: `{"approved": true}`, want: `{"approved": true}`},
		{name: "fenced", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "fenced with language", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding whitespace", in: "  {\"a\":1}\n", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}
