package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/logkit/logapi"
	"github.com/kbukum/logkit/logger"
	"github.com/kbukum/logkit/server"
)

func (a *App) newServeCommand() *cobra.Command {
	var (
		cfg      server.Config
		projects []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local log service emulator",
		Long: `Run an in-memory emulator of the project and logstore API until
interrupted. Point logctl at it with --endpoint http://127.0.0.1:PORT and use
--virtual-host for project commands.`,
		Example: `  logctl serve --port 8080 --project demo
  logctl --endpoint http://127.0.0.1:8080 project get demo --virtual-host`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context(), cfg, projects)
		},
	}

	cmd.Flags().StringVar(&cfg.Host, "host", "127.0.0.1", "listen host")
	cmd.Flags().IntVar(&cfg.Port, "port", 8080, "listen port (0 picks a free port)")
	cmd.Flags().StringVar(&cfg.Domain, "domain", "localhost", "endpoint host projects are addressed under")
	cmd.Flags().StringVar(&cfg.Region, "region", "local", "region reported on projects")
	cmd.Flags().StringArrayVar(&projects, "project", nil, "project to create at startup (repeatable)")

	return cmd
}

func (a *App) runServe(ctx context.Context, cfg server.Config, projects []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	srv := server.New(cfg, logger.Get("emulator"))
	for _, name := range projects {
		if _, err := srv.Store().CreateProject(logapi.CreateProjectRequest{Name: name}); err != nil {
			return fmt.Errorf("create project %s: %w", name, err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "log service emulator listening on %s (domain %s)\n", srv.Endpoint(), srv.Domain())

	<-ctx.Done()
	return srv.Stop(context.Background())
}
