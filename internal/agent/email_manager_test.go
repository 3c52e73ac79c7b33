package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/mailbox"
)

func emailCfg() config.AgentConfig {
	return config.AgentConfig{Name: "inbox", Type: config.AgentTypeEmailManager, Enabled: true}
}

func TestEmailManagerCategorize(t *testing.T) {
	// Answers alternate: category then priority, per message. The mock
	// inbox has three messages.
	deps := scriptedDeps(t,
		"urgent", "high",
		"The category is newsletters.", "low",
		"receipts", "not sure",
	)
	a, err := NewEmailManager(emailCfg(), deps)
	require.NoError(t, err)

	res := Run(context.Background(), a, "categorize my inbox", nil)
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "Categorized 3 emails", res.Message)

	categorized, ok := res.Output["categorized"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, categorized, 3)

	assert.Equal(t, "urgent", categorized[0]["category"])
	assert.Equal(t, "high", categorized[0]["priority"])

	// Model chatter around the category name is not a valid answer.
	assert.Equal(t, "other", categorized[1]["category"])
	assert.Equal(t, "low", categorized[1]["priority"])

	// Invalid priority keeps the message's existing one.
	assert.Equal(t, "receipts", categorized[2]["category"])
	assert.Equal(t, "normal", categorized[2]["priority"])
}

func TestEmailManagerCategorizeCustomCategories(t *testing.T) {
	cfg := emailCfg()
	cfg.Settings = map[string]any{"categories": []any{"billing", "support"}}
	deps := scriptedDeps(t, "billing", "normal")
	a, err := NewEmailManager(cfg, deps)
	require.NoError(t, err)

	res := Run(context.Background(), a, "categorize", Params{"limit": 1})
	require.Equal(t, StatusSuccess, res.Status)
	categorized := res.Output["categorized"].([]map[string]any)
	require.Len(t, categorized, 1)
	assert.Equal(t, "billing", categorized[0]["category"])
}

func TestEmailManagerDraftBySubject(t *testing.T) {
	deps := scriptedDeps(t, "Dear boss, the report is attached.")
	a, err := NewEmailManager(emailCfg(), deps)
	require.NoError(t, err)

	res := Run(context.Background(), a, "draft a response", Params{"subject": "q4 report"})
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "Urgent: Q4 Report Due", res.Output["original_subject"])
	assert.Equal(t, "boss@company.com", res.Output["original_sender"])
	assert.Equal(t, "Dear boss, the report is attached.", res.Output["draft_response"])
	assert.Equal(t, "Review and approve before sending", res.Output["action_required"])
}

func TestEmailManagerDraftNotFound(t *testing.T) {
	a, err := NewEmailManager(emailCfg(), scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "draft a reply", Params{"email_id": "999"})
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "No email found to respond to", res.Message)
}

func TestEmailManagerExtractActionsSkipsNone(t *testing.T) {
	deps := scriptedDeps(t, "- Submit Q4 report by EOD", "None", " none ")
	a, err := NewEmailManager(emailCfg(), deps)
	require.NoError(t, err)

	res := Run(context.Background(), a, "extract action items", nil)
	require.Equal(t, StatusSuccess, res.Status)

	items := res.Output["action_items"].([]map[string]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Urgent: Q4 Report Due", items[0]["email_subject"])
	assert.Equal(t, 3, res.Output["total_emails_scanned"])
}

func TestEmailManagerSummarize(t *testing.T) {
	deps := scriptedDeps(t, "One urgent report due, plus a newsletter and a shipping notice.")
	a, err := NewEmailManager(emailCfg(), deps)
	require.NoError(t, err)

	res := Run(context.Background(), a, "summarize inbox", nil)
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 3, res.Output["unread_count"])
	assert.Equal(t, 1, res.Output["high_priority_count"])
	assert.NotEmpty(t, res.Output["summary"])
}

func TestEmailManagerSend(t *testing.T) {
	mock := mailbox.NewMockReader()
	deps := scriptedDeps(t)
	deps.Mail = mock
	a, err := NewEmailManager(emailCfg(), deps)
	require.NoError(t, err)

	res := Run(context.Background(), a, "send an email", Params{
		"to": "client@example.com", "subject": "Invoice", "body": "Attached.",
	})
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "Email sent to client@example.com", res.Message)
	require.Len(t, mock.Sent, 1)
	assert.Equal(t, "Invoice", mock.Sent[0].Subject)
}

func TestEmailManagerSendMissingParams(t *testing.T) {
	a, err := NewEmailManager(emailCfg(), scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "send", Params{"to": "x@y.z"})
	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Message, "requires")
}

func TestEmailManagerFallbackInterpretsTask(t *testing.T) {
	deps := scriptedDeps(t, "I would archive messages older than 30 days.")
	a, err := NewEmailManager(emailCfg(), deps)
	require.NoError(t, err)

	res := Run(context.Background(), a, "archive old emails", nil)
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "archive old emails", res.Output["task"])
	assert.NotEmpty(t, res.Output["ai_response"])
}

func TestEmailManagerRouteOrder(t *testing.T) {
	// "extract" appears before "summarize" in the task; route order
	// decides: actions is declared before summarize.
	deps := scriptedDeps(t, "None", "None", "None")
	a, err := NewEmailManager(emailCfg(), deps)
	require.NoError(t, err)

	res := Run(context.Background(), a, "extract a summary of actions", nil)
	require.Equal(t, StatusSuccess, res.Status)
	assert.Contains(t, res.Output, "action_items")
}
