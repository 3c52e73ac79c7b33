package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/logging"
)

// IMAPReader reads a mailbox over IMAP and sends via SMTP.
// A fresh connection is made per call; agent runs are infrequent enough
// that connection pooling isn't worth the state.
type IMAPReader struct {
	cfg config.IMAPConfig
	log *logging.Logger
}

// NewIMAPReader creates a reader for the given account.
func NewIMAPReader(cfg config.IMAPConfig, log *logging.Logger) *IMAPReader {
	return &IMAPReader{cfg: cfg, log: log.Sub("mailbox.imap")}
}

func (r *IMAPReader) connect() (*client.Client, error) {
	addr := fmt.Sprintf("%s:%d", r.cfg.IMAPHost, r.cfg.IMAPPort)

	c, err := client.DialTLS(addr, &tls.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}

	if err := c.Login(r.cfg.Address, r.cfg.Password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

// Unread fetches unread messages from INBOX, newest first.
func (r *IMAPReader) Unread(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 20
	}

	c, err := r.connect()
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("searching unread: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var out []Message
	for msg := range messages {
		m := Message{
			ID:      fmt.Sprintf("%d", msg.Uid),
			Subject: msg.Envelope.Subject,
			Date:    msg.Envelope.Date,
		}
		if len(msg.Envelope.From) > 0 {
			m.Sender = msg.Envelope.From[0].Address()
		}
		if body := msg.GetBody(section); body != nil {
			m.Body = readPlainBody(body)
		}
		out = append(out, m)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetching messages: %w", err)
	}

	// Newest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Send delivers a plain-text message via SMTP with STARTTLS auth.
func (r *IMAPReader) Send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", r.cfg.SMTPHost, r.cfg.SMTPPort)
	auth := smtp.PlainAuth("", r.cfg.Address, r.cfg.Password, r.cfg.SMTPHost)

	msg := strings.Join([]string{
		"From: " + r.cfg.Address,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, r.cfg.Address, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	r.log.Info().Str("to", to).Str("subject", subject).Msg("message sent")
	return nil
}

// readPlainBody extracts the text body from a raw RFC822 message,
// returning the raw remainder when parsing fails.
func readPlainBody(raw io.Reader) string {
	msg, err := mail.ReadMessage(raw)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(msg.Body)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
