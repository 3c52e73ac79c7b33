package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Dashboard: DashboardConfig{
			Port: 8417,
			Bind: "loopback",
		},
		AI: AIConfig{
			TimeoutSeconds: 60,
		},
		Mail: MailConfig{
			Backend: "mock",
			IMAP: IMAPConfig{
				IMAPPort: 993,
				SMTPPort: 587,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
