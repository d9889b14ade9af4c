package cli

import (
	"bytes"
	"context"

	"github.com/pssst-dev/pssst-cli/internal/core/domain"
	"github.com/pssst-dev/pssst-cli/internal/core/ports/driving"
)

// Stub services for command tests.

type stubReader struct {
	messages []domain.Message
	err      error
	lastLang domain.Language
	lastN    int
}

func (s *stubReader) Random(_ context.Context, lang domain.Language) (domain.Message, error) {
	s.lastLang = lang
	if s.err != nil {
		return domain.Message{}, s.err
	}
	if len(s.messages) == 0 {
		return domain.Message{}, domain.ErrNoMessages
	}
	return s.messages[0], nil
}

func (s *stubReader) Recent(_ context.Context, lang domain.Language, count int) ([]domain.Message, error) {
	s.lastLang = lang
	s.lastN = count
	if s.err != nil {
		return nil, s.err
	}
	if len(s.messages) == 0 {
		return nil, domain.ErrNoMessages
	}
	if count > len(s.messages) {
		count = len(s.messages)
	}
	return s.messages[:count], nil
}

type stubContribution struct {
	result        *domain.SubmissionResult
	err           error
	lastText      string
	lastAnonymous bool
}

func (s *stubContribution) Submit(_ context.Context, text string, anonymous bool) (*domain.SubmissionResult, error) {
	s.lastText = text
	s.lastAnonymous = anonymous
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubModeration struct {
	outcome *driving.ReviewOutcome
	err     error
	lastID  int
}

func (s *stubModeration) Review(_ context.Context, id int) (*driving.ReviewOutcome, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.outcome, nil
}

// setupTestServices injects stub services and returns a cleanup that
// restores package state, including flag defaults.
func setupTestServices(reader *stubReader, contribution *stubContribution, moderation *stubModeration) func() {
	oldReader := readerService
	oldContribution := contributionService
	oldModeration := moderationService

	if reader != nil {
		readerService = reader
	}
	if contribution != nil {
		contributionService = contribution
	}
	if moderation != nil {
		moderationService = moderation
	}

	return func() {
		readerService = oldReader
		contributionService = oldContribution
		moderationService = oldModeration
		langFlag = "all"
		authorFlag = false
		sendAnonymous = false
		verboseFlag = false
		rootCmd.SetArgs(nil)
	}
}

// execute runs the root command with args and captures combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
