package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"mercator-hq/yamllist/pkg/cli"
	"mercator-hq/yamllist/pkg/ylist/ast"
	"mercator-hq/yamllist/pkg/ylist/path"
	"mercator-hq/yamllist/pkg/ylist/render"
)

var getFlags struct {
	block bool
	as    string
}

var getCmd = &cobra.Command{
	Use:   "get FILE PATH",
	Short: "Print the value at a key path",
	Long: `Print the value found at a slash-separated key path.

Plain segments select mapping keys. Segments starting with @ select
sequence items: @N (0-based), @last, @before N and @after N.

Scalars are printed as is; collections are printed inline, or as block
YAML with --block. --as converts a scalar to bool (true/false), int
(decimal or 0x hex) or float and fails if it does not convert.

Examples:
  yamllist get config.yaml servers/@0/host
  yamllist get config.yaml tags/@last
  yamllist get --as int config.yaml servers/@0/port
  yamllist get --block config.yaml servers`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().BoolVar(&getFlags.block, "block", false, "print collections as block YAML")
	getCmd.Flags().StringVar(&getFlags.as, "as", "", "convert the scalar: bool, int, float")
}

func runGet(cmd *cobra.Command, args []string) error {
	switch getFlags.as {
	case "", "bool", "int", "float":
	default:
		return cli.NewConfigError("as", fmt.Sprintf("unsupported type %q: must be bool, int or float", getFlags.as))
	}

	a, err := newApp(currentConfig(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	root, err := parseInput(a.service, args[0], cmd)
	if err != nil {
		return cli.NewCommandError("get", err)
	}
	out := cmd.OutOrStdout()
	if getFlags.as != "" {
		s, err := path.LookupScalar(root, args[1])
		if err != nil {
			return cli.NewCommandError("get", err)
		}
		text, err := convertScalar(s, getFlags.as)
		if err != nil {
			return cli.NewCommandError("get", err)
		}
		_, err = fmt.Fprintln(out, text)
		return err
	}

	value, err := path.Lookup(root, args[1])
	if err != nil {
		return cli.NewCommandError("get", err)
	}
	if _, isScalar := value.(*ast.Scalar); getFlags.block && !isScalar {
		return render.Block(out, value)
	}
	_, err = fmt.Fprintln(out, render.Inline(value))
	return err
}

func convertScalar(s *ast.Scalar, as string) (string, error) {
	switch as {
	case "bool":
		b, err := s.Bool()
		return strconv.FormatBool(b), err
	case "int":
		n, err := s.Int()
		return strconv.FormatInt(n, 10), err
	default:
		f, err := s.Float()
		return strconv.FormatFloat(f, 'g', -1, 64), err
	}
}
