package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for Cerberus, loaded from
// ~/.cerberus/config.yaml.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard,omitempty"`
	AI        AIConfig        `yaml:"ai,omitempty"`
	Mail      MailConfig      `yaml:"mail,omitempty"`
	Store     StoreConfig     `yaml:"store,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// DashboardConfig controls the dashboard HTTP server.
type DashboardConfig struct {
	Port           int           `yaml:"port,omitempty"`
	Bind           string        `yaml:"bind,omitempty"` // "loopback" | "lan"
	Auth           DashboardAuth `yaml:"auth,omitempty"`
	AllowedOrigins []string      `yaml:"allowedOrigins,omitempty"`
}

// DashboardAuth configures dashboard authentication.
type DashboardAuth struct {
	Token string `yaml:"token,omitempty"` // supports ${ENV_VAR} references
}

// AIConfig selects and tunes the AI inference CLI.
type AIConfig struct {
	CLI            string `yaml:"cli,omitempty"`   // "claude" | "gemini" | "ollama" | "" for auto-detect
	Model          string `yaml:"model,omitempty"` // default model alias; empty lets the router decide
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"`
}

// MailConfig selects the mailbox backend used by email agents.
type MailConfig struct {
	Backend string     `yaml:"backend,omitempty"` // "imap" | "gmail" | "mock"
	IMAP    IMAPConfig `yaml:"imap,omitempty"`
}

// IMAPConfig holds IMAP/SMTP account settings.
type IMAPConfig struct {
	Address  string `yaml:"address"`            // user@example.com
	Password string `yaml:"password,omitempty"` // supports ${ENV_VAR} references
	IMAPHost string `yaml:"imapHost"`
	IMAPPort int    `yaml:"imapPort,omitempty"`
	SMTPHost string `yaml:"smtpHost,omitempty"`
	SMTPPort int    `yaml:"smtpPort,omitempty"`
}

// StoreConfig controls the business database.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"` // defaults to <data>/business.db
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ActionFile string `yaml:"actionFile,omitempty"`
}

// AgentType identifies which concrete agent implementation handles a config.
type AgentType string

const (
	AgentTypeEmailManager AgentType = "email_manager"
	AgentTypeDataEntry    AgentType = "data_entry"
	AgentTypeDocProcessor AgentType = "doc_processor"
	AgentTypeCustom       AgentType = "custom"
)

// KnownAgentTypes lists every valid agent type.
var KnownAgentTypes = []AgentType{
	AgentTypeEmailManager,
	AgentTypeDataEntry,
	AgentTypeDocProcessor,
	AgentTypeCustom,
}

// Valid reports whether t is a known agent type.
func (t AgentType) Valid() bool {
	for _, k := range KnownAgentTypes {
		if t == k {
			return true
		}
	}
	return false
}

// UnmarshalYAML validates the agent type while decoding.
func (t *AgentType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	at := AgentType(s)
	if !at.Valid() {
		return fmt.Errorf("unknown agent type %q", s)
	}
	*t = at
	return nil
}

// AgentConfig is one agent definition, loaded from a YAML file in the
// agents directory. Immutable after load.
type AgentConfig struct {
	Name     string         `yaml:"name"`
	Type     AgentType      `yaml:"type"`
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`

	// Path records where the config was loaded from; empty for configs
	// constructed in code (tests).
	Path string `yaml:"-"`
}

// Setting returns a string-valued setting, or fallback when absent.
func (c AgentConfig) Setting(key, fallback string) string {
	if v, ok := c.Settings[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// SettingStrings returns a []string setting, or fallback when absent.
// YAML sequences decode to []any, so elements are converted individually.
func (c AgentConfig) SettingStrings(key string, fallback []string) []string {
	v, ok := c.Settings[key]
	if !ok {
		return fallback
	}
	items, ok := v.([]any)
	if !ok {
		return fallback
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// SettingMap returns a map-valued setting, or nil when absent.
func (c AgentConfig) SettingMap(key string) map[string]any {
	v, ok := c.Settings[key]
	if !ok {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}
