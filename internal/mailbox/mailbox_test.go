package mailbox

import (
	"context"
	"strings"
	"testing"

	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockReaderUnread(t *testing.T) {
	m := NewMockReader()

	msgs, err := m.Unread(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)

	msgs, err = m.Unread(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "boss@company.com", msgs[0].Sender)
}

func TestMockReaderSend(t *testing.T) {
	m := NewMockReader()
	require.NoError(t, m.Send(context.Background(), "x@y.com", "hi", "body"))
	require.Len(t, m.Sent, 1)
	assert.Equal(t, "hi", m.Sent[0].Subject)
}

func TestNewSelectsBackend(t *testing.T) {
	log := logging.New(nil, "silent")

	r := New(config.MailConfig{Backend: "mock"}, log)
	_, ok := r.(*MockReader)
	assert.True(t, ok)

	r = New(config.MailConfig{Backend: "imap"}, log)
	_, ok = r.(*IMAPReader)
	assert.True(t, ok)

	r = New(config.MailConfig{Backend: "gmail"}, log)
	_, ok = r.(*GmailReader)
	assert.True(t, ok)

	// Unknown backends degrade to the mock inbox.
	r = New(config.MailConfig{Backend: "pigeon"}, log)
	_, ok = r.(*MockReader)
	assert.True(t, ok)
}

func TestReadPlainBody(t *testing.T) {
	raw := "From: a@b.com\r\nSubject: test\r\n\r\nthe actual body\r\n"
	assert.Equal(t, "the actual body", readPlainBody(strings.NewReader(raw)))

	// Unparseable input degrades to empty, never panics.
	assert.Equal(t, "", readPlainBody(strings.NewReader("")))
}
