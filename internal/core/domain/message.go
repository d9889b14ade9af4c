package domain

import (
	"fmt"
	"time"
)

const (
	// MaxMessageLength is the hard cap on message text length.
	// Contributions above this are rejected before any side effect.
	MaxMessageLength = 200

	// AnonymousAuthor is the literal author marker for anonymous contributions.
	AnonymousAuthor = "anonymous"

	// TimestampLayout is the wire format for message timestamps:
	// ISO-8601 UTC with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z"
)

// Message is the atomic catalog entry. Messages are created once by the
// contribution flow and never edited or removed afterwards.
type Message struct {
	// Text is the message body, 1..MaxMessageLength characters.
	Text string `json:"text"`

	// Author is a resolved identity handle or AnonymousAuthor.
	Author string `json:"author"`

	// Timestamp is the contribution time in TimestampLayout.
	Timestamp string `json:"timestamp"`

	// Lang is the detected language tag.
	Lang Language `json:"lang"`
}

// NewMessage builds a Message stamped with the current time.
func NewMessage(text, author string, lang Language, now time.Time) Message {
	return Message{
		Text:      text,
		Author:    author,
		Timestamp: now.UTC().Format(TimestampLayout),
		Lang:      lang,
	}
}

// Validate checks the message against catalog constraints.
func (m Message) Validate() error {
	if m.Text == "" {
		return fmt.Errorf("%w: message text is empty", ErrInvalidInput)
	}
	if n := len([]rune(m.Text)); n > MaxMessageLength {
		return fmt.Errorf("%w: message too long (%d/%d characters)", ErrMessageTooLong, n, MaxMessageLength)
	}
	if m.Author == "" {
		return fmt.Errorf("%w: message author is empty", ErrInvalidInput)
	}
	if !m.Lang.Valid() {
		return fmt.Errorf("%w: unknown language tag %q", ErrInvalidInput, string(m.Lang))
	}
	return nil
}

// Time parses the message timestamp. A malformed timestamp yields the
// zero time, which sorts last in recency ordering.
func (m Message) Time() time.Time {
	t, err := time.Parse(TimestampLayout, m.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SameContribution reports whether two messages are the same logical
// contribution. The dual-write to a language file and the aggregate file
// produces identical (text, author) pairs.
func (m Message) SameContribution(other Message) bool {
	return m.Text == other.Text && m.Author == other.Author
}
