package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"mercator-hq/yamllist/pkg/cli"
	"mercator-hq/yamllist/pkg/config"
	"mercator-hq/yamllist/pkg/history"
	"mercator-hq/yamllist/pkg/service"
	"mercator-hq/yamllist/pkg/telemetry/metrics"
	"mercator-hq/yamllist/pkg/telemetry/tracing"
)

// stdinName is the source name and argument used for standard input.
const stdinName = "-"

// currentConfig returns the configuration installed by the root command, or
// the defaults when a command runs on its own.
func currentConfig() *config.Config {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// app bundles the collaborators a command needs.
type app struct {
	cfg     *config.Config
	service *service.Service
	store   history.Storage
}

type appOptions struct {
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// newApp opens history storage when enabled and builds the list service.
// Close must be called when the command finishes.
func newApp(cfg *config.Config, opts appOptions) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.History.Enabled {
		store, err := history.NewStorage(cfg.History)
		if err != nil {
			return nil, fmt.Errorf("failed to open history storage: %w", err)
		}
		a.store = store
	}

	svc, err := service.New(cfg, service.Deps{
		Metrics: opts.metrics,
		Tracer:  opts.tracer,
		History: a.store,
	})
	if err != nil {
		a.Close()
		return nil, cli.NewConfigError("engine", err.Error())
	}
	a.service = svc
	return a, nil
}

// Close releases history storage.
func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// readDocument reads a file, or stdin for "-". It returns the document and
// its source name.
func readDocument(name string, stdin io.Reader) (string, string, error) {
	if name == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), name, nil
}

// collectFiles expands directories into the documents they contain,
// filtered by extension. Plain file arguments are kept as given.
func collectFiles(args []string, extensions []string, skipHidden bool) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			hidden := strings.HasPrefix(d.Name(), ".") && path != arg
			if d.IsDir() {
				if hidden && skipHidden {
					return filepath.SkipDir
				}
				return nil
			}
			if hidden && skipHidden {
				return nil
			}
			if hasExtension(path, extensions) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// commandContext returns the command's context, or a background context
// when the command is run directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
