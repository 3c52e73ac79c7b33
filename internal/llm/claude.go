package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/soyeahso/cerberus/internal/logging"
)

// claudeJSONResult is the JSON output from `claude -p --output-format json`.
type claudeJSONResult struct {
	Type       string  `json:"type"`
	Subtype    string  `json:"subtype"`
	IsError    bool    `json:"is_error"`
	Result     string  `json:"result"`
	SessionID  string  `json:"session_id"`
	DurationMs int     `json:"duration_ms"`
	CostUSD    float64 `json:"total_cost_usd"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewClaudeClient creates a Client that wraps the `claude` CLI.
func NewClaudeClient(log *logging.Logger) *CLIClient {
	return NewCLIClient(CLIConfig{
		Command:        "claude",
		ProviderName:   "claude",
		BuildArgs:      buildClaudeArgs,
		ParseResponse:  parseClaudeResponse,
		PromptViaStdin: true,
	}, log)
}

func buildClaudeArgs(req CompletionRequest) []string {
	// SECURITY: --dangerously-skip-permissions is required for non-interactive
	// (piped stdin) mode. Tool execution is disabled below via --tools "".
	// Do not remove --tools "" without also removing this flag.
	args := []string{"-p", "--dangerously-skip-permissions", "--output-format", "json"}

	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	if req.System != "" {
		args = append(args, "--system-prompt", req.System)
	}

	// Disable built-in tools for pure completion (no file editing, etc.)
	args = append(args, "--tools", "")

	// The prompt is piped via stdin (handled by CLIClient)
	return args
}

func parseClaudeResponse(data []byte) (*CompletionResponse, error) {
	result := decodeClaudeJSON(data)
	if result == nil {
		// Fallback: line-by-line parsing in case diagnostics are
		// interspersed with the JSON output.
		result = decodeClaudeJSONLines(data)
	}
	if result == nil {
		preview := string(data)
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		return nil, fmt.Errorf("no valid JSON object in claude output (%d bytes): %s", len(data), preview)
	}

	if result.IsError {
		return nil, &ProviderError{Provider: "claude", Message: result.Result}
	}

	return &CompletionResponse{
		Content: result.Result,
		CostUSD: result.CostUSD,
		Usage: Usage{
			InputTokens:  result.Usage.InputTokens,
			OutputTokens: result.Usage.OutputTokens,
		},
	}, nil
}

// decodeClaudeJSON parses concatenated JSON objects from the raw output and
// returns the "result" object, or the last valid object if none is typed.
func decodeClaudeJSON(data []byte) *claudeJSONResult {
	dec := json.NewDecoder(bytes.NewReader(data))
	var best, last *claudeJSONResult

	for dec.More() {
		var raw claudeJSONResult
		if err := dec.Decode(&raw); err != nil {
			break
		}
		last = &raw
		if raw.Type == "result" || raw.Result != "" {
			best = &raw
		}
	}

	if best != nil {
		return best
	}
	return last
}

// decodeClaudeJSONLines tries line-by-line JSON parsing as a fallback for
// output where non-JSON text is mixed in with JSON lines.
func decodeClaudeJSONLines(data []byte) *claudeJSONResult {
	var best, last *claudeJSONResult

	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var raw claudeJSONResult
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}
		last = &raw
		if raw.Type == "result" || raw.Result != "" {
			best = &raw
		}
	}

	if best != nil {
		return best
	}
	return last
}
