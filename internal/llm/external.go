package llm

import (
	"encoding/json"
	"strings"

	"github.com/soyeahso/cerberus/internal/logging"
)

// ExternalCLIConfig describes a generic external inference CLI whose output
// is either a flat JSON object or plain text.
type ExternalCLIConfig struct {
	Command     string
	Name        string
	BaseArgs    []string // fixed arguments placed before everything else
	ModelFlag   string   // e.g. "--model"; empty means the model is a positional arg
	SystemFlag  string   // e.g. "--system"; empty means system text is prepended to the prompt
	JSONArgs    []string // arguments requesting JSON output, if supported
	ResultField string   // JSON field holding the response text; empty means raw stdout
}

// NewExternalCLIClient wraps a generic CLI as a provider.
func NewExternalCLIClient(cfg ExternalCLIConfig, log *logging.Logger) *CLIClient {
	return NewCLIClient(CLIConfig{
		Command:        cfg.Command,
		ProviderName:   cfg.Name,
		PromptViaStdin: true,
		BuildArgs: func(req CompletionRequest) []string {
			args := append([]string{}, cfg.BaseArgs...)
			if req.Model != "" {
				if cfg.ModelFlag != "" {
					args = append(args, cfg.ModelFlag, req.Model)
				} else {
					args = append(args, req.Model)
				}
			}
			if req.System != "" && cfg.SystemFlag != "" {
				args = append(args, cfg.SystemFlag, req.System)
			}
			args = append(args, cfg.JSONArgs...)
			return args
		},
		ParseResponse: func(data []byte) (*CompletionResponse, error) {
			if cfg.ResultField != "" {
				var raw map[string]json.RawMessage
				if err := json.Unmarshal(data, &raw); err == nil {
					if val, ok := raw[cfg.ResultField]; ok {
						var s string
						if err := json.Unmarshal(val, &s); err == nil {
							return &CompletionResponse{Content: strings.TrimSpace(s)}, nil
						}
					}
				}
				// Fall through to raw text when the JSON shape is off.
			}
			return &CompletionResponse{Content: strings.TrimSpace(string(data))}, nil
		},
	}, log)
}

// NewGeminiClient wraps the `gemini` CLI.
func NewGeminiClient(log *logging.Logger) *CLIClient {
	return NewExternalCLIClient(ExternalCLIConfig{
		Command:     "gemini",
		Name:        "gemini",
		ModelFlag:   "--model",
		SystemFlag:  "--system",
		JSONArgs:    []string{"--format", "json"},
		ResultField: "result",
	}, log)
}

// NewOllamaClient wraps the `ollama` CLI.
func NewOllamaClient(log *logging.Logger) *CLIClient {
	return NewExternalCLIClient(ExternalCLIConfig{
		Command:  "ollama",
		Name:     "ollama",
		BaseArgs: []string{"run"},
	}, log)
}
