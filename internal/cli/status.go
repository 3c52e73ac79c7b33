package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/llm"
	"github.com/soyeahso/cerberus/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show Cerberus status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%s\n\n", version.Info())

			// Show paths
			fmt.Printf("Config:    %s\n", paths.Config)
			fmt.Printf("Agents:    %s\n", paths.Agents)
			fmt.Printf("Data:      %s\n", paths.Data)
			fmt.Printf("Logs:      %s\n", paths.Logs)
			fmt.Println()

			// Load config (missing file falls back to defaults)
			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Printf("Config:    error loading: %v\n", err)
				return nil
			}

			// Dashboard config
			auth := "off"
			if cfg.Dashboard.Auth.Token != "" || os.Getenv("CERBERUS_DASHBOARD_TOKEN") != "" {
				auth = "token"
			}
			fmt.Printf("Dashboard: port=%d bind=%s auth=%s\n",
				cfg.Dashboard.Port, cfg.Dashboard.Bind, auth)

			// Business store
			dbPath := cfg.Store.Path
			if dbPath == "" {
				dbPath = filepath.Join(paths.Data, "business.db")
			}
			fmt.Printf("Store:     %s\n", dbPath)

			// Mail backend
			backend := cfg.Mail.Backend
			if backend == "" {
				backend = "mock"
			}
			fmt.Printf("Mail:      %s\n", backend)

			// AI providers
			registry := llm.NewRegistryFromConfig(cfg.AI, log)
			providers := registry.List()
			if len(providers) > 0 {
				fmt.Printf("AI:        %s\n", strings.Join(providers, ", "))
			} else {
				fmt.Println("AI:        (no CLI detected)")
			}

			// Agents
			agents, loadErrs := config.LoadAgentConfigs(paths.Agents)
			if len(agents) == 0 {
				fmt.Println("Agent:     (none configured)")
			}
			for _, a := range agents {
				state := "enabled"
				if !a.Enabled {
					state = "disabled"
				}
				fmt.Printf("Agent:     %s type=%s %s\n", a.Name, a.Type, state)
			}
			for _, e := range loadErrs {
				fmt.Printf("Agent:     load error: %v\n", e)
			}

			// Validation
			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s\n", issue)
				}
			}

			return nil
		},
	}
}
