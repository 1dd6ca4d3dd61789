package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"mercator-hq/yamllist/pkg/cli"
	"mercator-hq/yamllist/pkg/service"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
)

var checkFlags struct {
	concurrency int
	format      string
	progress    bool
}

var checkCmd = &cobra.Command{
	Use:   "check PATH...",
	Short: "Check that documents can be listed",
	Long: `List every document under the given files and directories and report
which ones fail.

Directories are searched recursively for the configured watch extensions
(.yaml and .yml by default). Documents are processed concurrently. The
command exits with status 1 if any document fails.

Examples:
  yamllist check docs/
  yamllist check --concurrency 16 --format csv docs/ extra.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IntVarP(&checkFlags.concurrency, "concurrency", "j", 4, "number of documents checked in parallel")
	checkCmd.Flags().StringVarP(&checkFlags.format, "format", "f", "text", "output format: text, json, csv")
	checkCmd.Flags().BoolVar(&checkFlags.progress, "progress", false, "show a progress bar on stderr")
}

// checkResult is the outcome for one document.
type checkResult struct {
	File   string `json:"file"`
	OK     bool   `json:"ok"`
	Items  int    `json:"items,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	Error  string `json:"error,omitempty"`

	err *ylerrors.Error
}

// checkReport implements cli.Table.
type checkReport []checkResult

func (r checkReport) Header() []string {
	return []string{"FILE", "STATUS", "ITEMS", "LOCATION", "MESSAGE"}
}

func (r checkReport) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, res := range r {
		status, items, loc := "ok", strconv.Itoa(res.Items), ""
		if !res.OK {
			status, items = res.Kind, ""
			if res.Line > 0 {
				loc = fmt.Sprintf("%d:%d", res.Line, res.Column)
			}
		}
		rows = append(rows, []string{res.File, status, items, loc, res.Error})
	}
	return rows
}

// errors collects the failures in report order.
func (r checkReport) errors() *ylerrors.ErrorList {
	list := ylerrors.NewErrorList()
	for _, res := range r {
		if res.OK {
			continue
		}
		e := res.err
		if e == nil {
			e = &ylerrors.Error{Kind: ylerrors.Kind(res.Kind), Message: res.Error}
		}
		list.Add(e)
	}
	return list
}

// writeFailureSummary prints one "kind: count" line per error kind.
func writeFailureSummary(w io.Writer, errs *ylerrors.ErrorList) {
	seen := make(map[ylerrors.Kind]bool)
	var kinds []string
	for _, e := range errs.Errors {
		if !seen[e.Kind] {
			seen[e.Kind] = true
			kinds = append(kinds, string(e.Kind))
		}
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %s: %d\n", k, len(errs.ByKind(ylerrors.Kind(k))))
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(checkFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}
	if checkFlags.concurrency < 1 {
		return cli.NewConfigError("concurrency", "must be at least 1")
	}

	cfg := currentConfig()
	files, err := collectFiles(args, cfg.Watch.Extensions, cfg.Watch.SkipHidden)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	a, err := newApp(cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	var progress cli.ProgressReporter
	if checkFlags.progress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
		progress.Start(int64(len(files)))
	}

	report, err := checkFiles(commandContext(cmd), a.service, files, checkFlags.concurrency, progress)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	if progress != nil {
		progress.Finish()
	}

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if errs := report.errors(); errs.HasErrors() {
		writeFailureSummary(cmd.ErrOrStderr(), errs)
		return cli.NewCommandError("check", fmt.Errorf("%d of %d documents failed", errs.Count(), len(report)))
	}
	return nil
}

// checkFiles lists files with at most limit in flight. Results keep the
// order of files. Only read failures and cancellation stop the run.
func checkFiles(ctx context.Context, svc *service.Service, files []string, limit int, progress cli.ProgressReporter) (checkReport, error) {
	report := make(checkReport, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			doc, source, err := readDocument(file, nil)
			if err != nil {
				return err
			}

			res := checkResult{File: file}
			out, err := svc.List(ctx, service.Request{Document: doc, Source: source})
			if err != nil {
				res.Kind = string(ylerrors.KindOf(err))
				res.Error = err.Error()
				if e, ok := ylerrors.As(err); ok {
					res.err = e
					res.Error = e.Message
					res.Line = e.Location.Line
					res.Column = e.Location.Column
				}
			} else {
				res.OK = true
				res.Items = out.Items
			}

			report[i] = res

			if progress != nil {
				progress.Increment()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
