package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/mailbox"
)

var defaultEmailCategories = []string{"urgent", "work", "personal", "newsletters", "receipts", "spam"}

var emailPriorities = []string{"high", "normal", "low"}

// EmailManager manages a mail inbox: categorization, drafting, action-item
// extraction, summaries, and sending.
type EmailManager struct {
	BaseAgent
	mail       mailbox.Reader
	categories []string
	routes     []route
}

// NewEmailManager builds an email manager agent. When no mail backend was
// configured the mock inbox is used.
func NewEmailManager(cfg config.AgentConfig, deps Deps) (*EmailManager, error) {
	a := &EmailManager{BaseAgent: newBase(cfg, deps)}
	a.mail = deps.Mail
	if a.mail == nil {
		a.mail = mailbox.NewMockReader()
	}
	a.categories = cfg.SettingStrings("categories", defaultEmailCategories)
	a.routes = []route{
		{name: "categorize", keywords: []string{"categorize", "category"}, handler: a.categorize},
		{name: "draft", keywords: []string{"draft", "response", "reply"}, handler: a.draftResponse},
		{name: "actions", keywords: []string{"action", "extract"}, handler: a.extractActions},
		{name: "summarize", keywords: []string{"summarize", "summary"}, handler: a.summarize},
		{name: "send", keywords: []string{"send"}, handler: a.send},
	}
	return a, nil
}

func (a *EmailManager) Execute(ctx context.Context, task string, params Params) (*TaskResult, error) {
	return dispatch(ctx, task, params, a.routes, func(ctx context.Context, params Params) (*TaskResult, error) {
		return a.interpretTask(ctx, task)
	})
}

func (a *EmailManager) unread(ctx context.Context, limit int) ([]mailbox.Message, error) {
	if limit <= 0 {
		limit = 20
	}
	msgs, err := a.mail.Unread(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("reading inbox: %w", err)
	}
	return msgs, nil
}

func (a *EmailManager) categorize(ctx context.Context, params Params) (*TaskResult, error) {
	emails, err := a.unread(ctx, params.Int("limit", 20))
	if err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return Success(a.Name(), "No unread emails", map[string]any{"categorized": []any{}}), nil
	}

	categorized := make([]map[string]any, 0, len(emails))
	for _, email := range emails {
		prompt := fmt.Sprintf(`Categorize this email into one of these categories: %s

From: %s
Subject: %s
Body preview: %s

Return ONLY the category name, nothing else.`,
			strings.Join(a.categories, ", "), email.Sender, email.Subject, truncate(email.Body, 200))

		answer, err := a.AskAI(ctx, prompt, "")
		if err != nil {
			return nil, err
		}
		email.Category = CoerceCategory(answer, a.categories, "other")

		priorityPrompt := fmt.Sprintf(`Rate the urgency of this email as: high, normal, or low

From: %s
Subject: %s

Return ONLY: high, normal, or low`, email.Sender, email.Subject)

		answer, err = a.AskAI(ctx, priorityPrompt, "")
		if err != nil {
			return nil, err
		}
		// An out-of-set answer keeps the message's existing priority.
		if p := CoerceCategory(answer, emailPriorities, ""); p != "" {
			email.Priority = p
		}

		categorized = append(categorized, map[string]any{
			"id":       email.ID,
			"subject":  email.Subject,
			"sender":   email.Sender,
			"category": email.Category,
			"priority": email.Priority,
		})
		a.Log("categorized email", map[string]any{
			"subject": email.Subject, "category": email.Category, "priority": email.Priority,
		})
	}

	return Success(a.Name(), fmt.Sprintf("Categorized %d emails", len(categorized)), map[string]any{
		"categorized": categorized,
	}), nil
}

func (a *EmailManager) draftResponse(ctx context.Context, params Params) (*TaskResult, error) {
	emails, err := a.unread(ctx, 0)
	if err != nil {
		return nil, err
	}

	var target *mailbox.Message
	switch {
	case params.Str("email_id") != "":
		for i := range emails {
			if emails[i].ID == params.Str("email_id") {
				target = &emails[i]
				break
			}
		}
	case params.Str("subject") != "":
		want := strings.ToLower(params.Str("subject"))
		for i := range emails {
			if strings.Contains(strings.ToLower(emails[i].Subject), want) {
				target = &emails[i]
				break
			}
		}
	case len(emails) > 0:
		target = &emails[0]
	}
	if target == nil {
		return Errorf(a.Name(), "No email found to respond to"), nil
	}

	prompt := fmt.Sprintf(`Draft a professional response to this email:

From: %s
Subject: %s
Body: %s

Write a clear, professional response. Be concise but helpful.`, target.Sender, target.Subject, target.Body)

	draft, err := a.AskAI(ctx, prompt, "")
	if err != nil {
		return nil, err
	}

	return Success(a.Name(), "", map[string]any{
		"original_subject": target.Subject,
		"original_sender":  target.Sender,
		"draft_response":   draft,
		"action_required":  "Review and approve before sending",
	}), nil
}

func (a *EmailManager) extractActions(ctx context.Context, params Params) (*TaskResult, error) {
	emails, err := a.unread(ctx, params.Int("limit", 10))
	if err != nil {
		return nil, err
	}

	actionItems := make([]map[string]any, 0)
	for _, email := range emails {
		prompt := fmt.Sprintf(`Extract any action items or tasks from this email.
If there are no action items, respond with "None".

From: %s
Subject: %s
Body: %s

List action items as a simple bullet list, or "None" if no actions needed.`,
			email.Sender, email.Subject, email.Body)

		actions, err := a.AskAI(ctx, prompt, "")
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(strings.TrimSpace(actions), "none") {
			continue
		}
		actionItems = append(actionItems, map[string]any{
			"email_subject": email.Subject,
			"sender":        email.Sender,
			"actions":       actions,
		})
	}

	return Success(a.Name(), "", map[string]any{
		"action_items":         actionItems,
		"total_emails_scanned": len(emails),
	}), nil
}

func (a *EmailManager) summarize(ctx context.Context, params Params) (*TaskResult, error) {
	emails, err := a.unread(ctx, params.Int("limit", 20))
	if err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return Success(a.Name(), "", map[string]any{
			"summary":      "Inbox is empty. No unread emails.",
			"unread_count": 0,
		}), nil
	}

	var list strings.Builder
	highPriority := 0
	for _, e := range emails {
		fmt.Fprintf(&list, "- From: %s, Subject: %s\n", e.Sender, e.Subject)
		if e.Priority == "high" {
			highPriority++
		}
	}

	prompt := fmt.Sprintf(`Summarize this inbox in 2-3 sentences. Highlight any urgent items.

Unread emails (%d):
%s`, len(emails), list.String())

	summary, err := a.AskAI(ctx, prompt, "")
	if err != nil {
		return nil, err
	}

	return Success(a.Name(), "", map[string]any{
		"summary":             summary,
		"unread_count":        len(emails),
		"high_priority_count": highPriority,
	}), nil
}

func (a *EmailManager) send(ctx context.Context, params Params) (*TaskResult, error) {
	to, subject, body := params.Str("to"), params.Str("subject"), params.Str("body")
	if to == "" || subject == "" {
		return Errorf(a.Name(), "send requires 'to' and 'subject' parameters"), nil
	}
	if err := a.mail.Send(ctx, to, subject, body); err != nil {
		return nil, fmt.Errorf("sending email: %w", err)
	}
	a.Log("sent email", map[string]any{"to": to, "subject": subject})
	return Success(a.Name(), fmt.Sprintf("Email sent to %s", to), map[string]any{"subject": subject}), nil
}

func (a *EmailManager) interpretTask(ctx context.Context, task string) (*TaskResult, error) {
	prompt := fmt.Sprintf(`You are an email management assistant. The user wants to: %s

Available actions:
- Categorize emails
- Draft responses
- Extract action items
- Summarize inbox
- Send emails

Explain what you would do to help with this request.`, task)

	response, err := a.AskAI(ctx, prompt, "")
	if err != nil {
		return nil, err
	}
	return Success(a.Name(), "", map[string]any{"task": task, "ai_response": response}), nil
}
