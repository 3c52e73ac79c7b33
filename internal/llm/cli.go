package llm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/soyeahso/cerberus/internal/logging"
)

// CLIConfig configures a CLI-based inference provider.
type CLIConfig struct {
	// Command is the CLI binary name (e.g., "claude", "gemini").
	Command string

	// BuildArgs turns a CompletionRequest into CLI arguments.
	BuildArgs func(req CompletionRequest) []string

	// ParseResponse parses the CLI's output into a CompletionResponse.
	ParseResponse func(data []byte) (*CompletionResponse, error)

	// ProviderName is the display name for this provider.
	ProviderName string

	// PromptViaStdin pipes the prompt to the CLI's stdin instead of
	// passing it as an argument (e.g., claude -p reads from stdin).
	PromptViaStdin bool
}

// CLIClient wraps any CLI tool as an inference provider.
type CLIClient struct {
	cfg CLIConfig
	log *logging.Logger
}

// NewCLIClient creates a new CLI-based client.
func NewCLIClient(cfg CLIConfig, log *logging.Logger) *CLIClient {
	return &CLIClient{cfg: cfg, log: log.Sub("llm." + cfg.ProviderName)}
}

// Name returns the provider name.
func (c *CLIClient) Name() string { return c.cfg.ProviderName }

// Complete runs the CLI synchronously and returns the parsed response.
// The context deadline kills the subprocess; expiry surfaces as a
// ProviderError rather than a hang.
func (c *CLIClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	args := c.cfg.BuildArgs(req)

	c.log.Debug().
		Str("cmd", c.cfg.Command).
		Strs("args", args).
		Int("promptLen", len(req.Prompt)).
		Msg("running completion")

	start := time.Now()

	cmd := exec.CommandContext(ctx, c.cfg.Command, args...)
	if c.cfg.PromptViaStdin {
		cmd.Stdin = strings.NewReader(req.Prompt)
	}

	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ProviderError{
				Provider: c.cfg.ProviderName,
				Message:  fmt.Sprintf("timed out after %s", time.Since(start).Round(time.Millisecond)),
			}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ProviderError{
				Provider: c.cfg.ProviderName,
				Message:  fmt.Sprintf("%s exited %d: %s", c.cfg.Command, exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr))),
			}
		}
		return nil, fmt.Errorf("%s: %w", c.cfg.Command, err)
	}

	resp, err := c.cfg.ParseResponse(out)
	if err != nil {
		return nil, fmt.Errorf("parsing %s output: %w", c.cfg.Command, err)
	}

	resp.Duration = time.Since(start)

	c.log.Debug().
		Str("model", resp.Model).
		Int("inputTokens", resp.Usage.InputTokens).
		Int("outputTokens", resp.Usage.OutputTokens).
		Dur("duration", resp.Duration).
		Msg("completion done")

	return resp, nil
}

// CLIExists checks whether a CLI command is available in PATH.
func CLIExists(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
