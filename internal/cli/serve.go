package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/soyeahso/cerberus/internal/agent"
	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/dashboard"
	"github.com/soyeahso/cerberus/internal/hooks"
	"github.com/soyeahso/cerberus/internal/store"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Dashboard.Port = port
			}
			if bind != "" {
				cfg.Dashboard.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("creating data directories: %w", err)
			}

			// Business store
			dbPath := cfg.Store.Path
			if dbPath == "" {
				dbPath = filepath.Join(paths.Data, "business.db")
			}
			db, err := store.Open(dbPath, log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
			biz := store.NewBusiness(db)

			// Hook manager feeds the dashboard event stream
			hookMgr := hooks.NewManager(log)

			// Agents
			deps := buildDeps(cfg, hookMgr)
			defer deps.Sink.Close()

			orch := agent.NewOrchestrator(deps)
			loaded := orch.LoadAgents(paths.Agents)
			log.Info().Int("agents", loaded).Str("dir", paths.Agents).Msg("agents loaded")

			providers := deps.Registry.List()
			if len(providers) > 0 {
				log.Info().Strs("providers", providers).Msg("AI providers available")
			} else {
				log.Warn().Msg("no AI CLI found — agent runs will fail until one is installed")
			}

			srv := dashboard.New(cfg, log, biz, orch, dashboard.WithHooks(hookMgr))

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override dashboard port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan)")

	return cmd
}
