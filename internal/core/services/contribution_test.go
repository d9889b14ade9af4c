package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pssst-dev/pssst-cli/internal/adapters/driven/repository/memory"
	"github.com/pssst-dev/pssst-cli/internal/core/domain"
)

func newTestSubmitter(repo *memory.Repo) *ContributionService {
	service := NewContributionService(repo, "main")
	service.now = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) }
	service.branchSuffix = func() string { return "abcd1234" }
	return service
}

func contributionBranch(t *testing.T, repo *memory.Repo) string {
	t.Helper()
	for _, name := range repo.Branches() {
		if name != "main" {
			return name
		}
	}
	t.Fatal("no contribution branch created")
	return ""
}

func TestContributionService_Submit_English(t *testing.T) {
	repo := memory.NewRepo("main")
	repo.User = "alice"
	service := newTestSubmitter(repo)

	result, err := service.Submit(context.Background(), "Hello world", false)
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageEnglish, result.Language)
	assert.False(t, result.Mixed)
	assert.Equal(t, "alice", result.Author)
	assert.NotEmpty(t, result.ChangeRequestURL)

	// Both the language document and the aggregate were written on the branch.
	branch := contributionBranch(t, repo)
	for _, path := range []string{"messages/en.json", "messages/all.json"} {
		file, err := repo.GetFile(context.Background(), path, branch)
		require.NoError(t, err, path)

		catalog, err := domain.ParseCatalog(file.Content)
		require.NoError(t, err)
		last, ok := catalog.Last()
		require.True(t, ok)
		assert.Equal(t, "Hello world", last.Text)
		assert.Equal(t, "alice", last.Author)
		assert.Equal(t, domain.LanguageEnglish, last.Lang)
	}

	// Nothing is published before moderation merges.
	_, err = repo.GetFile(context.Background(), "messages/en.json", "main")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, "Add new en message by @alice", repo.RequestTitle(1))
}

func TestContributionService_Submit_MixedWritesAggregateOnly(t *testing.T) {
	repo := memory.NewRepo("main")
	repo.User = "alice"
	service := newTestSubmitter(repo)

	result, err := service.Submit(context.Background(), "안녕 hello", false)
	require.NoError(t, err)
	assert.True(t, result.Mixed)
	assert.Equal(t, domain.LanguageAll, result.Language)

	branch := contributionBranch(t, repo)
	_, err = repo.GetFile(context.Background(), "messages/all.json", branch)
	require.NoError(t, err)

	for _, lang := range []domain.Language{domain.LanguageKorean, domain.LanguageEnglish} {
		_, err = repo.GetFile(context.Background(), domain.CatalogPath(lang), branch)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}

func TestContributionService_Submit_TooLongHasNoSideEffects(t *testing.T) {
	repo := memory.NewRepo("main")
	repo.User = "alice"
	service := newTestSubmitter(repo)

	_, err := service.Submit(context.Background(), strings.Repeat("x", domain.MaxMessageLength+1), false)
	require.ErrorIs(t, err, domain.ErrMessageTooLong)

	assert.Equal(t, []string{"main"}, repo.Branches())
	_, err = repo.GetChangeRequest(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContributionService_Submit_AnonymousFlag(t *testing.T) {
	repo := memory.NewRepo("main")
	repo.User = "alice"
	service := newTestSubmitter(repo)

	result, err := service.Submit(context.Background(), "Hello", true)
	require.NoError(t, err)
	assert.Equal(t, domain.AnonymousAuthor, result.Author)
	assert.Equal(t, "Add new en anonymous message", repo.RequestTitle(1))
}

func TestContributionService_Submit_AuthorResolutionDegradesToAnonymous(t *testing.T) {
	repo := memory.NewRepo("main") // User unset: resolution fails
	service := newTestSubmitter(repo)

	result, err := service.Submit(context.Background(), "Hello", false)
	require.NoError(t, err)
	assert.Equal(t, domain.AnonymousAuthor, result.Author)
}

func TestContributionService_Submit_AppendsToExistingCatalog(t *testing.T) {
	repo := memory.NewRepo("main")
	repo.User = "bob"
	seedCatalog(t, repo, domain.LanguageEnglish,
		domain.Message{Text: "existing", Author: "alice", Timestamp: "2024-01-01T00:00:00.000Z", Lang: domain.LanguageEnglish},
	)
	service := newTestSubmitter(repo)

	_, err := service.Submit(context.Background(), "brand new", false)
	require.NoError(t, err)

	branch := contributionBranch(t, repo)
	file, err := repo.GetFile(context.Background(), "messages/en.json", branch)
	require.NoError(t, err)

	catalog, err := domain.ParseCatalog(file.Content)
	require.NoError(t, err)
	require.Len(t, catalog.Messages, 2)
	assert.Equal(t, "existing", catalog.Messages[0].Text)
	assert.Equal(t, "brand new", catalog.Messages[1].Text)
}

func TestContributionService_Submit_SecondWriteFailureIsTerminal(t *testing.T) {
	repo := memory.NewRepo("main")
	repo.User = "alice"
	repo.OnPutFile = func(path string) error {
		if path == "messages/all.json" {
			return errors.New("write failed")
		}
		return nil
	}
	service := newTestSubmitter(repo)

	_, err := service.Submit(context.Background(), "Hello world", false)
	require.Error(t, err)

	// The branch holds a partial update but no change request was opened,
	// so readers can never observe the inconsistency.
	_, err = repo.GetChangeRequest(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContributionService_BranchNameIncludesTimestamp(t *testing.T) {
	repo := memory.NewRepo("main")
	repo.User = "alice"
	service := newTestSubmitter(repo)

	_, err := service.Submit(context.Background(), "Hello", false)
	require.NoError(t, err)

	branch := contributionBranch(t, repo)
	assert.True(t, strings.HasPrefix(branch, "add-message-"), branch)
	assert.True(t, strings.HasSuffix(branch, "-abcd1234"), branch)
}
