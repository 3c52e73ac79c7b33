package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/soyeahso/cerberus/internal/agent"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		agentName string
		task      string
		rawParams []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single agent task and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(rawParams)
			if err != nil {
				return err
			}

			orch, _, cleanup, err := buildOrchestrator()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result := orch.RunAgent(ctx, agentName, task, params)

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))

			if result.Status != agent.StatusSuccess {
				return fmt.Errorf("task failed: %s", result.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&agentName, "agent", "", "agent name (required)")
	cmd.Flags().StringVar(&task, "task", "", "task description (required)")
	cmd.Flags().StringArrayVar(&rawParams, "param", nil, "task parameter as key=value (repeatable)")
	cmd.MarkFlagRequired("agent")
	cmd.MarkFlagRequired("task")

	return cmd
}

// parseParams turns repeated key=value flags into task params.
func parseParams(raw []string) (agent.Params, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := agent.Params{}
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", kv)
		}
		params[key] = value
	}
	return params, nil
}
