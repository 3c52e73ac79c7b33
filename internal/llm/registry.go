package llm

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/logging"
)

// Registry manages inference providers and resolves model references to clients.
type Registry struct {
	mu       sync.RWMutex
	clients  map[string]Client // provider name → client
	aliases  map[string]string // model alias → provider name
	fallback string            // default provider name
	log      *logging.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		clients: make(map[string]Client),
		aliases: make(map[string]string),
		log:     log.Sub("llm.registry"),
	}
}

// Register adds a client under the given provider name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	r.log.Info().Str("provider", name).Msg("registered inference provider")
}

// Alias maps a model name/alias to a provider.
// e.g., Alias("sonnet", "claude") means "sonnet" resolves to the "claude" provider.
func (r *Registry) Alias(model, provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[model] = provider
}

// SetFallback sets the default provider used when no model/provider match is found.
func (r *Registry) SetFallback(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = provider
}

// Resolve returns the Client for the given model reference.
// Resolution order: exact provider name → alias → fallback.
func (r *Registry) Resolve(model string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.clients[model]; ok {
		return c, nil
	}

	if provider, ok := r.aliases[model]; ok {
		if c, ok := r.clients[provider]; ok {
			return c, nil
		}
	}

	if r.fallback != "" {
		if c, ok := r.clients[r.fallback]; ok {
			return c, nil
		}
	}

	return nil, fmt.Errorf("no inference provider for model %q", model)
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for n := range r.clients {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewRegistryFromConfig builds a Registry by auto-detecting available CLI
// tools. cfg.CLI pins a single provider; empty auto-detects all of them.
func NewRegistryFromConfig(cfg config.AIConfig, log *logging.Logger) *Registry {
	reg := NewRegistry(log)
	mode := strings.ToLower(strings.TrimSpace(cfg.CLI))

	if (mode == "" || mode == "claude") && CLIExists("claude") {
		reg.Register("claude", NewClaudeClient(log))
		reg.SetFallback("claude")
		for _, alias := range []string{"sonnet", "opus", "haiku", "claude-sonnet", "claude-opus", "claude-haiku"} {
			reg.Alias(alias, "claude")
		}
	}

	if (mode == "" || mode == "gemini") && CLIExists("gemini") {
		reg.Register("gemini", NewGeminiClient(log))
		if mode == "gemini" || len(reg.List()) == 1 {
			reg.SetFallback("gemini")
		}
		for _, alias := range []string{"gemini-pro", "gemini-flash"} {
			reg.Alias(alias, "gemini")
		}
	}

	if (mode == "" || mode == "ollama") && CLIExists("ollama") {
		reg.Register("ollama", NewOllamaClient(log))
		if mode == "ollama" || len(reg.List()) == 1 {
			reg.SetFallback("ollama")
		}
		for _, alias := range []string{"llama", "llama3", "mistral"} {
			reg.Alias(alias, "ollama")
		}
	}

	return reg
}

// heavyHints mark prompts that warrant a more capable model.
var heavyHints = []string{"analyze", "report", "compare", "comparison", "thorough"}

// SelectModel maps a prompt to a model alias. The policy is deliberately
// simple: single-token classification prompts go to the cheapest model,
// long or analytical prompts to the most capable one, everything else to
// the middle tier.
func SelectModel(prompt string) string {
	lower := strings.ToLower(prompt)

	if strings.Contains(lower, "return only") && len(prompt) < 1500 {
		return "haiku"
	}

	if len(prompt) > 6000 {
		return "opus"
	}
	for _, hint := range heavyHints {
		if strings.Contains(lower, hint) {
			return "opus"
		}
	}

	return "sonnet"
}
