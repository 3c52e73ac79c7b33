package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Dashboard.Port < 0 || cfg.Dashboard.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "dashboard.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Dashboard.Port),
		})
	}

	validBinds := []string{"loopback", "lan"}
	if cfg.Dashboard.Bind != "" && !slices.Contains(validBinds, cfg.Dashboard.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "dashboard.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Dashboard.Bind),
		})
	}

	validCLIs := []string{"claude", "gemini", "ollama"}
	if cfg.AI.CLI != "" && !slices.Contains(validCLIs, cfg.AI.CLI) {
		issues = append(issues, ValidationIssue{
			Path:    "ai.cli",
			Message: fmt.Sprintf("must be one of %v, got %q", validCLIs, cfg.AI.CLI),
		})
	}

	if cfg.AI.TimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "ai.timeoutSeconds",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.AI.TimeoutSeconds),
		})
	}

	validBackends := []string{"imap", "gmail", "mock"}
	if cfg.Mail.Backend != "" && !slices.Contains(validBackends, cfg.Mail.Backend) {
		issues = append(issues, ValidationIssue{
			Path:    "mail.backend",
			Message: fmt.Sprintf("must be one of %v, got %q", validBackends, cfg.Mail.Backend),
		})
	}

	if cfg.Mail.Backend == "imap" {
		if cfg.Mail.IMAP.Address == "" {
			issues = append(issues, ValidationIssue{
				Path:    "mail.imap.address",
				Message: "required when mail.backend is imap",
			})
		}
		if cfg.Mail.IMAP.IMAPHost == "" {
			issues = append(issues, ValidationIssue{
				Path:    "mail.imap.imapHost",
				Message: "required when mail.backend is imap",
			})
		}
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	return issues
}
