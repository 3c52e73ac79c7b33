package cli

import (
	"path/filepath"
	"time"

	"github.com/soyeahso/cerberus/internal/agent"
	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/document"
	"github.com/soyeahso/cerberus/internal/hooks"
	"github.com/soyeahso/cerberus/internal/llm"
	"github.com/soyeahso/cerberus/internal/logging"
	"github.com/soyeahso/cerberus/internal/mailbox"
)

// buildDeps assembles the shared agent dependencies from config: the AI
// registry, the action sink, the mailbox backend, and the document reader.
func buildDeps(cfg config.Config, hm *hooks.Manager) agent.Deps {
	actionFile := cfg.Logging.ActionFile
	if actionFile != "" && !filepath.IsAbs(actionFile) {
		actionFile = filepath.Join(paths.Logs, actionFile)
	}

	deps := agent.Deps{
		Registry: llm.NewRegistryFromConfig(cfg.AI, log),
		Sink:     logging.NewSink(log, actionFile),
		Log:      log,
		Mail:     mailbox.New(cfg.Mail, log),
		Docs:     document.NewReader(log),
		Model:    cfg.AI.Model,
		DataDir:  paths.Data,
	}
	if cfg.AI.TimeoutSeconds > 0 {
		deps.Timeout = time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	}
	if hm != nil {
		deps.Hooks = hm
	}
	return deps
}

// buildOrchestrator loads config, assembles deps, and registers every agent
// defined under the agents directory. The returned cleanup closes the
// action sink.
func buildOrchestrator() (*agent.Orchestrator, config.Config, func(), error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	deps := buildDeps(cfg, nil)
	orch := agent.NewOrchestrator(deps)
	orch.LoadAgents(paths.Agents)

	cleanup := func() {
		deps.Sink.Close()
	}
	return orch, cfg, cleanup, nil
}
