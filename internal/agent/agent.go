package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/document"
	"github.com/soyeahso/cerberus/internal/llm"
	"github.com/soyeahso/cerberus/internal/logging"
	"github.com/soyeahso/cerberus/internal/mailbox"
)

// Agent is the contract every worker implements. Execute carries the raw
// task semantics; callers dispatch through Run, which wraps Execute with
// lifecycle bookkeeping and error capture.
type Agent interface {
	Execute(ctx context.Context, task string, params Params) (*TaskResult, error)
	base() *BaseAgent
}

// Deps bundles the shared services handed to every agent instance.
type Deps struct {
	Registry *llm.Registry
	Sink     *logging.Sink
	Log      *logging.Logger
	Mail     mailbox.Reader
	Docs     *document.Reader
	Hooks    Emitter

	// Timeout bounds each AI query. Zero means 60s.
	Timeout time.Duration

	// Model forces a provider alias for all queries; empty selects per
	// prompt.
	Model string

	// DataDir is the base directory for agent file output.
	DataDir string
}

// Emitter receives lifecycle events. Satisfied by hooks.Manager.
type Emitter interface {
	Emit(ctx context.Context, event string, data map[string]any)
}

// ErrorRecord is one captured failure. Records accumulate for the life of
// the agent instance and are never trimmed.
type ErrorRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent"`
	Message   string    `json:"message"`
	Task      string    `json:"task,omitempty"`
	Exception string    `json:"exception,omitempty"`
}

// Stats is a point-in-time snapshot of an agent's run history.
type Stats struct {
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	Enabled    bool          `json:"enabled"`
	RunCount   int           `json:"run_count"`
	LastRun    time.Time     `json:"last_run,omitzero"`
	ErrorCount int           `json:"error_count"`
	Errors     []ErrorRecord `json:"errors,omitempty"`
}

// BaseAgent holds the state and helpers common to all agents. Concrete
// agents embed it and implement Execute.
type BaseAgent struct {
	cfg  config.AgentConfig
	deps Deps

	runCount int
	lastRun  time.Time
	errs     []ErrorRecord

	// curTask is the task name of the in-flight run, for error records.
	curTask string
}

func newBase(cfg config.AgentConfig, deps Deps) BaseAgent {
	if deps.Timeout <= 0 {
		deps.Timeout = 60 * time.Second
	}
	return BaseAgent{cfg: cfg, deps: deps}
}

func (b *BaseAgent) base() *BaseAgent { return b }

// Name returns the agent's configured name.
func (b *BaseAgent) Name() string { return b.cfg.Name }

// Config returns the agent's configuration.
func (b *BaseAgent) Config() config.AgentConfig { return b.cfg }

// Stats reports the agent's run history.
func (b *BaseAgent) Stats() Stats {
	errs := make([]ErrorRecord, len(b.errs))
	copy(errs, b.errs)
	return Stats{
		Name:       b.cfg.Name,
		Type:       string(b.cfg.Type),
		Enabled:    b.cfg.Enabled,
		RunCount:   b.runCount,
		LastRun:    b.lastRun,
		ErrorCount: len(errs),
		Errors:     errs,
	}
}

// Log emits a structured action entry tagged with the agent name.
func (b *BaseAgent) Log(message string, data map[string]any) {
	if b.deps.Sink == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["agent"] = b.cfg.Name
	b.deps.Sink.LogAction(message, data)
}

// RecordError appends an error record and reports it to the sink.
func (b *BaseAgent) RecordError(message string, err error) {
	rec := ErrorRecord{
		Timestamp: time.Now(),
		Agent:     b.cfg.Name,
		Message:   message,
		Task:      b.curTask,
	}
	if err != nil {
		rec.Exception = err.Error()
	}
	b.errs = append(b.errs, rec)
	if b.deps.Sink != nil {
		b.deps.Sink.LogError(message, err, map[string]any{"agent": b.cfg.Name})
	}
}

// AskAI sends a prompt to the configured inference provider and returns the
// trimmed response text. contextText, when non-empty, is prepended so the
// model sees the surrounding material before the instruction.
func (b *BaseAgent) AskAI(ctx context.Context, prompt, contextText string) (string, error) {
	if b.deps.Registry == nil {
		err := fmt.Errorf("no inference registry configured")
		b.RecordError("AI query failed: no registry", err)
		return "", err
	}
	full := prompt
	if contextText != "" {
		full = "Context: " + contextText + "\n\nTask: " + prompt
	}
	model := b.deps.Model
	if model == "" {
		model = llm.SelectModel(full)
	}
	client, err := b.deps.Registry.Resolve(model)
	if err != nil {
		b.RecordError("AI query failed: "+err.Error(), err)
		return "", err
	}
	b.Log("querying AI", map[string]any{"model": model, "prompt_chars": len(full)})

	cctx, cancel := context.WithTimeout(ctx, b.deps.Timeout)
	defer cancel()
	resp, err := client.Complete(cctx, llm.CompletionRequest{Model: model, Prompt: full})
	if err != nil {
		b.RecordError("AI query failed: "+err.Error(), err)
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// Run dispatches a task through the full lifecycle: the run is stamped and
// counted before Execute, and every failure mode, returned error or panic,
// is converted into an error result with exactly one recorded error. Run
// never panics and never returns nil.
func Run(ctx context.Context, a Agent, task string, params Params) (result *TaskResult) {
	b := a.base()
	b.lastRun = time.Now()
	b.runCount++
	b.curTask = task
	errsBefore := len(b.errs)
	b.Log("starting task", map[string]any{"task": truncate(task, 50), "run_count": b.runCount})

	// Record a failure only when the execute path did not already record
	// one for this run, so each failed run yields exactly one entry.
	recordOnce := func(msg string, err error) {
		if len(b.errs) == errsBefore {
			b.RecordError(msg, err)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("task panicked: %v", r)
			recordOnce(msg, nil)
			result = Errorf(b.cfg.Name, "%s", msg)
		}
		b.curTask = ""
	}()

	res, err := a.Execute(ctx, task, params)
	if err != nil {
		recordOnce("task failed: "+err.Error(), err)
		return Errorf(b.cfg.Name, "%s", err.Error())
	}
	if res == nil {
		res = Success(b.cfg.Name, "", nil)
	}
	if res.Agent == "" {
		res.Agent = b.cfg.Name
	}
	if res.Status == StatusError && res.Message != "" {
		recordOnce("task failed: "+res.Message, nil)
	}
	b.Log("task finished", map[string]any{"task": truncate(task, 50), "status": string(res.Status)})
	return res
}

// truncate caps s at n runes, never splitting a multibyte character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
