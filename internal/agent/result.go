package agent

import "fmt"

// Status discriminates task outcomes.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// TaskResult is the uniform envelope returned by every agent operation.
// Status is always set; Message is always set when Status is error.
type TaskResult struct {
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	Agent   string         `json:"agent,omitempty"`
	Output  map[string]any `json:"output,omitempty"`
}

// Success builds a success result.
func Success(agentName, message string, output map[string]any) *TaskResult {
	return &TaskResult{Status: StatusSuccess, Message: message, Agent: agentName, Output: output}
}

// Errorf builds an error result with a formatted message.
func Errorf(agentName, format string, args ...any) *TaskResult {
	return &TaskResult{Status: StatusError, Message: fmt.Sprintf(format, args...), Agent: agentName}
}

// Params carries task parameters. Values arrive from YAML settings, CLI
// flags, or JSON request bodies, so accessors tolerate loose typing.
type Params map[string]any

// Str returns a string parameter, or "" when absent.
func (p Params) Str(key string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Int returns an integer parameter, or fallback when absent. JSON numbers
// decode as float64, so both forms are accepted.
func (p Params) Int(key string, fallback int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

// Strings returns a string-slice parameter, accepting both []string and
// []any. Returns nil when absent.
func (p Params) Strings(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Map returns a map parameter, or nil when absent.
func (p Params) Map(key string) map[string]any {
	if v, ok := p[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}
