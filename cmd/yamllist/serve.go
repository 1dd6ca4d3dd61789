package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"mercator-hq/yamllist/pkg/cli"
	"mercator-hq/yamllist/pkg/history"
	"mercator-hq/yamllist/pkg/server"
	"mercator-hq/yamllist/pkg/service"
	"mercator-hq/yamllist/pkg/telemetry/health"
	"mercator-hq/yamllist/pkg/telemetry/metrics"
	"mercator-hq/yamllist/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the list operation over HTTP",
	Long: `Start an HTTP server exposing POST /v1/list.

The server also exposes GET /v1/history (when history is enabled),
/health, /ready, /version and Prometheus metrics. When history is enabled
and a retention schedule is configured, old records are pruned in the
background.

Examples:
  # Start with defaults
  yamllist serve

  # Override the listen address
  yamllist serve --listen 0.0.0.0:8080

  # Validate configuration without starting
  yamllist serve --config yamllist.yaml --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	out := cmd.OutOrStdout()
	if serveFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewConfigError("telemetry.tracing", err.Error())
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	a, err := newApp(cfg, appOptions{metrics: collector, tracer: tracer})
	if err != nil {
		return err
	}
	defer a.Close()

	checker := health.New(0)
	checker.RegisterCheck("engine", engineCheck(a.service))
	if a.store != nil {
		store := a.store
		checker.RegisterCheck("history", func(ctx context.Context) error {
			_, err := store.Count(ctx, history.Query{Limit: 1})
			return err
		})
	}

	srv := server.NewServer(&cfg.Server, a.service, server.Options{
		Metrics:     collector,
		MetricsPath: cfg.Telemetry.Metrics.Path,
		Health:      checker,
		Version:     Version,
		GitCommit:   GitCommit,
		BuildTime:   BuildDate,
	})

	var scheduler *history.Scheduler
	if a.store != nil {
		pruner := history.NewPruner(a.store, cfg.History.Retention, collector)
		scheduler = history.NewScheduler(pruner, cfg.History.Retention.Schedule)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(ctx)
	})
	if scheduler != nil {
		g.Go(func() error {
			if err := scheduler.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			scheduler.Stop()
			return nil
		})
	}

	fmt.Fprintf(out, "yamllist %s listening on %s (engine %s)\n", Version, cfg.Server.ListenAddress, a.service.Engine())
	slog.Info("server configured",
		"engine", a.service.Engine(),
		"history", cfg.History.Enabled,
		"metrics", cfg.Telemetry.Metrics.Enabled,
		"tracing", cfg.Telemetry.Tracing.Enabled,
	)

	if err := g.Wait(); err != nil {
		return cli.NewCommandError("serve", err)
	}
	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// engineCheck reports the engine unhealthy if it cannot list a trivial
// document.
func engineCheck(svc *service.Service) health.CheckFunc {
	return func(ctx context.Context) error {
		if _, err := svc.Lister().List("- ok"); err != nil {
			return fmt.Errorf("engine %s: %w", svc.Engine(), err)
		}
		return nil
	}
}
