package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/soyeahso/cerberus/internal/config"
)

// AgentInfo is the public listing entry for one registered agent.
type AgentInfo struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Enabled  bool           `json:"enabled"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Orchestrator owns the agent registry and dispatches tasks. Agent instances
// are transient: each run gets a fresh instance built from the stored
// config, so run state never leaks between calls.
type Orchestrator struct {
	mu      sync.RWMutex
	order   []string
	configs map[string]config.AgentConfig
	deps    Deps
}

// NewOrchestrator creates an orchestrator with the given shared
// dependencies.
func NewOrchestrator(deps Deps) *Orchestrator {
	return &Orchestrator{configs: map[string]config.AgentConfig{}, deps: deps}
}

// LoadAgents reads every agent YAML in dir and registers the valid ones.
// Malformed files are logged and skipped so one bad config never blocks the
// rest. Returns the number of agents registered.
func (o *Orchestrator) LoadAgents(dir string) int {
	cfgs, errs := config.LoadAgentConfigs(dir)
	for _, err := range errs {
		if o.deps.Sink != nil {
			o.deps.Sink.LogError("skipping agent config", err, nil)
		}
	}
	for _, cfg := range cfgs {
		o.Register(cfg)
	}
	return len(cfgs)
}

// Register adds an agent config, replacing any existing agent with the same
// name while keeping its original position in the listing order.
func (o *Orchestrator) Register(cfg config.AgentConfig) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.configs[cfg.Name]; !exists {
		o.order = append(o.order, cfg.Name)
	}
	o.configs[cfg.Name] = cfg
	if o.deps.Sink != nil {
		o.deps.Sink.LogAction("registered agent", map[string]any{
			"agent": cfg.Name, "type": string(cfg.Type), "enabled": cfg.Enabled,
		})
	}
}

// newAgent builds a transient agent instance for one run.
func (o *Orchestrator) newAgent(cfg config.AgentConfig) (Agent, error) {
	switch cfg.Type {
	case config.AgentTypeEmailManager:
		return NewEmailManager(cfg, o.deps)
	case config.AgentTypeDataEntry:
		return NewDataEntry(cfg, o.deps)
	case config.AgentTypeDocProcessor:
		return NewDocProcessor(cfg, o.deps)
	default:
		return NewCustom(cfg, o.deps)
	}
}

// RunAgent dispatches a task to a named agent through the full run
// lifecycle. It never returns nil: unknown names, disabled agents, and
// construction failures all come back as error results.
func (o *Orchestrator) RunAgent(ctx context.Context, name, task string, params Params) *TaskResult {
	o.mu.RLock()
	cfg, ok := o.configs[name]
	o.mu.RUnlock()

	if !ok {
		return Errorf(name, "Agent '%s' not found", name)
	}
	if !cfg.Enabled {
		return Errorf(name, "Agent '%s' is disabled", name)
	}

	if o.deps.Sink != nil {
		o.deps.Sink.LogAction("Running agent: "+name, map[string]any{"task": task, "agent": name})
	}
	o.emit(ctx, "agent_run_started", map[string]any{"agent": name, "task": task})

	a, err := o.newAgent(cfg)
	if err != nil {
		res := Errorf(name, "%s", fmt.Sprintf("Agent '%s' failed to initialize: %v", name, err))
		o.emit(ctx, "agent_run_failed", map[string]any{"agent": name, "task": task, "message": res.Message})
		return res
	}

	res := Run(ctx, a, task, params)
	if res.Status == StatusError {
		o.emit(ctx, "agent_run_failed", map[string]any{"agent": name, "task": task, "message": res.Message})
	} else {
		o.emit(ctx, "agent_run_completed", map[string]any{"agent": name, "task": task})
	}
	return res
}

func (o *Orchestrator) emit(ctx context.Context, event string, data map[string]any) {
	if o.deps.Hooks != nil {
		o.deps.Hooks.Emit(ctx, event, data)
	}
}

// ListAgents returns registered agents in registration order.
func (o *Orchestrator) ListAgents() []AgentInfo {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]AgentInfo, 0, len(o.order))
	for _, name := range o.order {
		cfg := o.configs[name]
		out = append(out, AgentInfo{
			Name:     cfg.Name,
			Type:     string(cfg.Type),
			Enabled:  cfg.Enabled,
			Settings: cfg.Settings,
		})
	}
	return out
}

// Status reports a point-in-time platform summary.
func (o *Orchestrator) Status() map[string]any {
	agents := o.ListAgents()
	return map[string]any{
		"status":        "running",
		"agents_loaded": len(agents),
		"agents":        agents,
		"timestamp":     time.Now().Format(time.RFC3339),
	}
}
