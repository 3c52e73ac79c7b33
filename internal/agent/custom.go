package agent

import (
	"context"
	"encoding/json"

	"github.com/soyeahso/cerberus/internal/config"
)

// Custom is the catch-all agent type: the task goes straight to the AI with
// the agent's settings serialized as context.
type Custom struct {
	BaseAgent
}

// NewCustom builds a custom agent.
func NewCustom(cfg config.AgentConfig, deps Deps) (*Custom, error) {
	return &Custom{BaseAgent: newBase(cfg, deps)}, nil
}

func (a *Custom) Execute(ctx context.Context, task string, params Params) (*TaskResult, error) {
	contextText := ""
	if settings := a.Config().Settings; len(settings) > 0 {
		if raw, err := json.Marshal(settings); err == nil {
			contextText = string(raw)
		}
	}
	response, err := a.AskAI(ctx, task, contextText)
	if err != nil {
		return nil, err
	}
	return Success(a.Name(), "", map[string]any{"output": response}), nil
}
