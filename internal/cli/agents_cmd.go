package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/soyeahso/cerberus/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage configured agents",
	}

	cmd.AddCommand(newAgentsListCmd())
	cmd.AddCommand(newAgentsInfoCmd())
	cmd.AddCommand(newAgentsStatsCmd())
	return cmd
}

func newAgentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agents, loadErrs := config.LoadAgentConfigs(paths.Agents)
			if len(agents) == 0 {
				fmt.Printf("No agents configured. Add YAML files under %s\n", paths.Agents)
			}
			for _, a := range agents {
				state := ""
				if !a.Enabled {
					state = "  (disabled)"
				}
				fmt.Printf("  %-20s %s%s\n", a.Name, a.Type, state)
			}
			for _, e := range loadErrs {
				fmt.Fprintf(os.Stderr, "warning: %v\n", e)
			}
			return nil
		},
	}
}

func newAgentsInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Show one agent's full configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agents, _ := config.LoadAgentConfigs(paths.Agents)
			for _, a := range agents {
				if a.Name != args[0] {
					continue
				}
				data, err := yaml.Marshal(a)
				if err != nil {
					return err
				}
				fmt.Print(string(data))
				return nil
			}
			return fmt.Errorf("agent %q not found under %s", args[0], paths.Agents)
		},
	}
}

func newAgentsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the orchestrator status summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, _, cleanup, err := buildOrchestrator()
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := json.MarshalIndent(orch.Status(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
