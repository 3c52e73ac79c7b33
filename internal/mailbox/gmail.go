package mailbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/soyeahso/cerberus/internal/logging"
)

// GmailReader reads a Gmail account through the Gmail API. Credentials and
// the OAuth token live as JSON files under ~/.cerberus (override paths with
// GMAIL_CREDENTIALS_FILE / GMAIL_TOKEN_FILE). The service is built lazily on
// first use so that constructing the reader never touches the network.
type GmailReader struct {
	log *logging.Logger
	svc *gmail.Service
}

// NewGmailReader creates a Gmail-backed reader.
func NewGmailReader(log *logging.Logger) *GmailReader {
	return &GmailReader{log: log.Sub("mailbox.gmail")}
}

func (g *GmailReader) service(ctx context.Context) (*gmail.Service, error) {
	if g.svc != nil {
		return g.svc, nil
	}

	credentialsPath := os.Getenv("GMAIL_CREDENTIALS_FILE")
	if credentialsPath == "" {
		credentialsPath = filepath.Join(os.Getenv("HOME"), ".cerberus", "gmail-credentials.json")
	}
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading gmail credentials: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parsing gmail credentials: %w", err)
	}

	tokenPath := os.Getenv("GMAIL_TOKEN_FILE")
	if tokenPath == "" {
		tokenPath = filepath.Join(os.Getenv("HOME"), ".cerberus", "gmail-token.json")
	}
	token, err := tokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("no gmail auth token at %s: %w", tokenPath, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	g.svc = svc
	return svc, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// Unread lists unread inbox messages, newest first (the Gmail API's
// natural order).
func (g *GmailReader) Unread(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 20
	}

	svc, err := g.service(ctx)
	if err != nil {
		return nil, err
	}

	list, err := svc.Users.Messages.List("me").
		Q("is:unread in:inbox").
		MaxResults(int64(limit)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	var out []Message
	for _, stub := range list.Messages {
		full, err := svc.Users.Messages.Get("me", stub.Id).Format("full").Context(ctx).Do()
		if err != nil {
			g.log.Warn().Err(err).Str("id", stub.Id).Msg("skipping unfetchable message")
			continue
		}

		m := Message{ID: stub.Id, Body: extractGmailBody(full.Payload)}
		if m.Body == "" {
			m.Body = full.Snippet
		}
		for _, h := range full.Payload.Headers {
			switch h.Name {
			case "From":
				m.Sender = h.Value
			case "Subject":
				m.Subject = h.Value
			case "Date":
				if t, err := mailDate(h.Value); err == nil {
					m.Date = t
				}
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// Send delivers a plain-text message through the Gmail API.
func (g *GmailReader) Send(ctx context.Context, to, subject, body string) error {
	svc, err := g.service(ctx)
	if err != nil {
		return err
	}

	raw := strings.Join([]string{
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}
	if _, err := svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}

	g.log.Info().Str("to", to).Str("subject", subject).Msg("message sent")
	return nil
}

// extractGmailBody walks the MIME tree for the first text/plain part.
func extractGmailBody(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
			return string(data)
		}
	}
	for _, p := range part.Parts {
		if body := extractGmailBody(p); body != "" {
			return body
		}
	}
	return ""
}

func mailDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, "Mon, 2 Jan 2006 15:04:05 -0700"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %s", value)
}
