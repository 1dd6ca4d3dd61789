package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/yamllist/pkg/cli"
	"mercator-hq/yamllist/pkg/service"
)

var listFlags struct {
	format string
	output string
}

var listCmd = &cobra.Command{
	Use:   "list [FILE|-]...",
	Short: "Render the top-level sequence of documents",
	Long: `Render the top-level sequence of each document as one line.

Items are separated by ", ". Nested sequences are written as [a, b] and
mappings as {k: v}. A scalar document is listed as a single item. With no
arguments, or "-", the document is read from stdin.

Examples:
  # List a file
  yamllist list fruits.yaml

  # List stdin
  printf -- '- apple\n- pear\n' | yamllist list

  # Write JSON results to a file
  yamllist list --format json --output out.json a.yaml b.yaml`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFlags.format, "format", "f", "text", "output format: text, json")
	listCmd.Flags().StringVarP(&listFlags.output, "output", "o", "", "write results to this file instead of stdout")
}

// listOutput is the JSON form of one listed document.
type listOutput struct {
	Source string `json:"source"`
	Result string `json:"result"`
	Items  int    `json:"items"`
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(listFlags.format)
	if err != nil || format == cli.FormatCSV {
		return cli.NewConfigError("format", fmt.Sprintf("unsupported list format %q", listFlags.format))
	}
	if len(args) == 0 {
		args = []string{stdinName}
	}

	a, err := newApp(currentConfig(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	var out io.Writer = cmd.OutOrStdout()
	if listFlags.output != "" {
		f, err := os.Create(listFlags.output)
		if err != nil {
			return cli.NewCommandError("list", err)
		}
		defer f.Close()
		out = f
	}

	results := make([]listOutput, 0, len(args))
	for _, name := range args {
		doc, source, err := readDocument(name, cmd.InOrStdin())
		if err != nil {
			return cli.NewCommandError("list", err)
		}
		res, err := a.service.List(commandContext(cmd), service.Request{Document: doc, Source: source})
		if err != nil {
			return cli.NewCommandError("list", err)
		}
		results = append(results, listOutput{Source: source, Result: res.Output, Items: res.Items})
	}

	if format == cli.FormatJSON {
		var data any = results
		if len(results) == 1 {
			data = results[0]
		}
		return cli.NewFormatter(format).FormatTo(out, data)
	}

	for _, r := range results {
		if len(results) > 1 {
			fmt.Fprintf(out, "%s: %s\n", r.Source, r.Result)
			continue
		}
		fmt.Fprintln(out, r.Result)
	}
	return nil
}
