package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
)

func testMessage(text, author string, lang domain.Language, age time.Duration) domain.Message {
	return domain.NewMessage(text, author, lang, time.Now().Add(-age))
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "pssst", rootCmd.Use)
}

func TestRootCmd_PrintsRandomMessage(t *testing.T) {
	reader := &stubReader{messages: []domain.Message{
		testMessage("works on my machine", "alice", domain.LanguageEnglish, 3*time.Hour),
	}}
	cleanup := setupTestServices(reader, nil, nil)
	defer cleanup()

	out, err := execute()

	require.NoError(t, err)
	assert.Contains(t, out, `"works on my machine"`)
	assert.Contains(t, out, "author @alice")
	assert.Contains(t, out, "3hours before")
	assert.Equal(t, domain.LanguageAll, reader.lastLang)
}

func TestRootCmd_LangFlag(t *testing.T) {
	reader := &stubReader{messages: []domain.Message{
		testMessage("안녕하세요", "bob", domain.LanguageKorean, time.Minute),
	}}
	cleanup := setupTestServices(reader, nil, nil)
	defer cleanup()

	out, err := execute("--lang", "ko")

	require.NoError(t, err)
	assert.Contains(t, out, "안녕하세요")
	assert.Equal(t, domain.LanguageKorean, reader.lastLang)
}

func TestRootCmd_InvalidLang(t *testing.T) {
	cleanup := setupTestServices(&stubReader{}, nil, nil)
	defer cleanup()

	_, err := execute("--lang", "klingon")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownLanguage)
}

func TestRootCmd_AuthorDetail(t *testing.T) {
	reader := &stubReader{messages: []domain.Message{
		testMessage("ship it", "carol", domain.LanguageEnglish, time.Minute),
	}}
	cleanup := setupTestServices(reader, nil, nil)
	defer cleanup()

	out, err := execute("--author")

	require.NoError(t, err)
	assert.Contains(t, out, "@carol · en ·")
}

func TestRootCmd_EmptyCatalog(t *testing.T) {
	cleanup := setupTestServices(&stubReader{}, nil, nil)
	defer cleanup()

	out, err := execute()

	require.NoError(t, err)
	assert.Contains(t, out, "No messages yet")
}

func TestRootCmd_NetworkFailureDegrades(t *testing.T) {
	reader := &stubReader{err: errors.New("dial tcp: connection refused")}
	cleanup := setupTestServices(reader, nil, nil)
	defer cleanup()

	out, err := execute()

	require.NoError(t, err)
	assert.Contains(t, out, "GitHub API connect fail")
}

func TestVersionCmd(t *testing.T) {
	cleanup := setupTestServices(&stubReader{}, nil, nil)
	defer cleanup()

	out, err := execute("version")

	require.NoError(t, err)
	assert.Contains(t, out, "pssst version")
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"days", now.Add(-49 * time.Hour), "2days before"},
		{"single day", now.Add(-25 * time.Hour), "1days before"},
		{"hours", now.Add(-3 * time.Hour), "3hours before"},
		{"minutes collapse to now", now.Add(-30 * time.Minute), "now"},
		{"future is now", now.Add(time.Hour), "now"},
		{"zero time is now", time.Time{}, "now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeAgo(tt.t, now))
		})
	}
}
