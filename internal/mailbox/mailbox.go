// Package mailbox abstracts the mail account the email agents operate on.
// Backends: IMAP/SMTP, the Gmail API, and a deterministic mock inbox used
// for demos and tests.
package mailbox

import (
	"context"
	"time"

	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/logging"
)

// Message is one email message.
type Message struct {
	ID      string    `json:"id"`
	Sender  string    `json:"sender"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Date    time.Time `json:"date"`
	Read    bool      `json:"read"`

	// Filled in by agents, not by readers.
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// Reader is the mail access interface consumed by agents.
type Reader interface {
	// Unread returns up to limit unread messages, newest first.
	Unread(ctx context.Context, limit int) ([]Message, error)

	// Send delivers a message from the configured account.
	Send(ctx context.Context, to, subject, body string) error
}

// New builds the Reader selected by cfg. Unknown or unconfigured backends
// fall back to the mock inbox.
func New(cfg config.MailConfig, log *logging.Logger) Reader {
	switch cfg.Backend {
	case "imap":
		return NewIMAPReader(cfg.IMAP, log)
	case "gmail":
		return NewGmailReader(log)
	default:
		return NewMockReader()
	}
}

// MockReader serves a fixed demo inbox and records sent mail in memory.
type MockReader struct {
	Messages []Message
	Sent     []Message
}

// NewMockReader creates a mock inbox with representative demo messages.
func NewMockReader() *MockReader {
	now := time.Now()
	return &MockReader{
		Messages: []Message{
			{
				ID:       "1",
				Sender:   "boss@company.com",
				Subject:  "Urgent: Q4 Report Due",
				Body:     "Please submit the Q4 report by end of day. This is critical for the board meeting.",
				Date:     now,
				Priority: "high",
			},
			{
				ID:       "2",
				Sender:   "newsletter@techcrunch.com",
				Subject:  "Daily Tech News Digest",
				Body:     "Here's your daily roundup of tech news...",
				Date:     now,
				Priority: "low",
			},
			{
				ID:       "3",
				Sender:   "amazon@amazon.com",
				Subject:  "Your order has shipped",
				Body:     "Your order #123-456 has been shipped and will arrive tomorrow.",
				Date:     now,
				Priority: "normal",
			},
		},
	}
}

func (m *MockReader) Unread(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 || limit > len(m.Messages) {
		limit = len(m.Messages)
	}
	out := make([]Message, limit)
	copy(out, m.Messages[:limit])
	return out, nil
}

func (m *MockReader) Send(ctx context.Context, to, subject, body string) error {
	m.Sent = append(m.Sent, Message{Sender: to, Subject: subject, Body: body, Date: time.Now()})
	return nil
}
