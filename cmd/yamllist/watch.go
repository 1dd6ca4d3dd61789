package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"mercator-hq/yamllist/pkg/cli"
	"mercator-hq/yamllist/pkg/config"
	"mercator-hq/yamllist/pkg/service"
	"mercator-hq/yamllist/pkg/watch"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
)

var watchCmd = &cobra.Command{
	Use:   "watch PATH",
	Short: "Re-list documents whenever they change",
	Long: `List a document, or every document in a directory, and list them again
each time they are saved.

Bursts of file events are collapsed using the configured debounce
interval. Failures are printed and watching continues. Stop with Ctrl+C.

When --config is given the configuration file is watched too. Saving it
reloads the configuration and lists every document again; an invalid
file is reported and the previous configuration stays in use.

Examples:
  yamllist watch fruits.yaml
  yamllist watch docs/
  yamllist watch --config yamllist.yaml docs/`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// watchSession owns the app used for listing so a configuration reload can
// replace it between batches.
type watchSession struct {
	mu      sync.Mutex
	app     *app
	out     io.Writer
	target  string
	cfgPath string
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()

	a, err := newApp(cfg, appOptions{})
	if err != nil {
		return err
	}
	s := &watchSession{
		app:     a,
		out:     cmd.OutOrStdout(),
		target:  args[0],
		cfgPath: cfgFile,
	}
	defer s.close()

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	if err := s.relistAll(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}

	docs, err := watch.NewFileWatcher(s.target, cfg.Watch)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer docs.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return docs.Watch(ctx, func(paths []string) error {
			s.relistPaths(ctx, paths)
			return nil
		})
	})

	if s.cfgPath != "" {
		conf, err := watch.NewFileWatcher(s.cfgPath, cfg.Watch)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer conf.Stop()

		g.Go(func() error {
			return conf.Watch(ctx, func([]string) error {
				if err := s.reload(); err != nil {
					s.report(s.cfgPath, err)
					return nil
				}
				return s.relistAll(ctx)
			})
		})
	}

	if err := g.Wait(); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// relistAll lists every document under the watch target.
func (s *watchSession) relistAll(ctx context.Context) error {
	s.mu.Lock()
	cfg := s.app.cfg
	s.mu.Unlock()

	files, err := collectFiles([]string{s.target}, cfg.Watch.Extensions, cfg.Watch.SkipHidden)
	if err != nil {
		return err
	}
	s.relistPaths(ctx, files)
	return nil
}

// relistPaths lists paths in order. Batches may overlap when listing is
// slower than the debounce interval, so they are serialized here.
func (s *watchSession) relistPaths(ctx context.Context, paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		relist(ctx, s.app.service, s.out, p)
	}
}

// reload re-reads the configuration file and swaps in a new app. On error
// the current app is kept.
func (s *watchSession) reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := config.ReloadConfig(s.cfgPath, applyFlagOverrides); err != nil {
		return err
	}
	next, err := newApp(config.GetConfig(), appOptions{})
	if err != nil {
		return err
	}

	prev := s.app
	s.app = next
	if err := prev.Close(); err != nil {
		slog.Warn("failed to close previous history store", "error", err)
	}
	fmt.Fprintf(s.out, "reloaded configuration from %s\n", s.cfgPath)
	return nil
}

func (s *watchSession) report(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s: %v\n", path, err)
}

func (s *watchSession) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Close()
}

// relist prints "path: result" or "path: error" for one document.
func relist(ctx context.Context, svc *service.Service, out io.Writer, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", path, err)
		return
	}

	res, err := svc.List(ctx, service.Request{Document: string(data), Source: path})
	if err != nil {
		if e, ok := ylerrors.As(err); ok {
			fmt.Fprintf(out, "%s: [%s] %s (line %d, column %d)\n", path, e.Kind, e.Message, e.Location.Line, e.Location.Column)
			return
		}
		fmt.Fprintf(out, "%s: %v\n", path, err)
		return
	}
	fmt.Fprintf(out, "%s: %s\n", path, res.Output)
}
