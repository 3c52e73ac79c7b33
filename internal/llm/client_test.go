package llm

import (
	"context"
	"testing"

	"github.com/soyeahso/cerberus/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func TestBuildClaudeArgs(t *testing.T) {
	args := buildClaudeArgs(CompletionRequest{Prompt: "hello"})
	assert.Contains(t, args, "-p")
	assert.Contains(t, args, "json")
	assert.NotContains(t, args, "--model")

	args = buildClaudeArgs(CompletionRequest{Prompt: "hello", Model: "sonnet", System: "be brief"})
	assert.Contains(t, args, "--model")
	assert.Contains(t, args, "sonnet")
	assert.Contains(t, args, "--system-prompt")
}

func TestParseClaudeResponse(t *testing.T) {
	out := []byte(`{"type":"result","subtype":"success","is_error":false,"result":"The answer is 42.","session_id":"s1","duration_ms":1200,"total_cost_usd":0.003,"usage":{"input_tokens":25,"output_tokens":9}}`)

	resp, err := parseClaudeResponse(out)
	require.NoError(t, err)
	assert.Equal(t, "The answer is 42.", resp.Content)
	assert.Equal(t, 25, resp.Usage.InputTokens)
	assert.Equal(t, 0.003, resp.CostUSD)
}

func TestParseClaudeResponseError(t *testing.T) {
	out := []byte(`{"type":"result","is_error":true,"result":"rate limited"}`)

	_, err := parseClaudeResponse(out)
	require.Error(t, err)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "claude", provErr.Provider)
	assert.Contains(t, provErr.Message, "rate limited")
}

func TestParseClaudeResponseInterspersedLines(t *testing.T) {
	out := []byte("loading model...\n" +
		`{"type":"system","subtype":"init"}` + "\n" +
		"progress 50%\n" +
		`{"type":"result","result":"done","usage":{"input_tokens":1,"output_tokens":1}}` + "\n")

	resp, err := parseClaudeResponse(out)
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Content)
}

func TestParseClaudeResponseGarbage(t *testing.T) {
	_, err := parseClaudeResponse([]byte("not json at all"))
	require.Error(t, err)
}

func TestExternalCLIParseJSONField(t *testing.T) {
	client := NewExternalCLIClient(ExternalCLIConfig{
		Command:     "fake",
		Name:        "fake",
		ResultField: "result",
	}, silentLog())

	resp, err := client.cfg.ParseResponse([]byte(`{"result":" hi there "}`))
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Content)

	// Non-JSON output degrades to raw text.
	resp, err = client.cfg.ParseResponse([]byte("plain text\n"))
	require.NoError(t, err)
	assert.Equal(t, "plain text", resp.Content)
}

func TestMockClient(t *testing.T) {
	mock := &MockClient{ProviderName: "mock"}
	resp, err := mock.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "mock response", resp.Content)
	assert.Equal(t, "mock", mock.Name())
}

func TestCLIExists(t *testing.T) {
	assert.True(t, CLIExists("sh"))
	assert.False(t, CLIExists("definitely-not-a-real-binary-xyz"))
}
