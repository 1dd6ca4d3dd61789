package render

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"mercator-hq/yamllist/pkg/ylist/ast"
)

// FlowDepth is the nesting depth from which collections are written in
// flow style. The root is depth 0.
const FlowDepth = 3

// Block writes v to w as block YAML.
//
// Scalars containing line breaks use literal style; empty scalars and
// scalars made of anything other than letters, digits, '_' and '.' are
// double-quoted.
// Collections nested FlowDepth or more levels deep use flow style.
func Block(w io.Writer, v ast.Value) error {
	if v == nil {
		return fmt.Errorf("render: nil value")
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(toNode(v, 0)); err != nil {
		return fmt.Errorf("render: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("render: flush: %w", err)
	}
	return nil
}

// BlockString returns the block YAML rendering of v.
func BlockString(v ast.Value) (string, error) {
	var sb strings.Builder
	if err := Block(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func toNode(v ast.Value, depth int) *yaml.Node {
	switch vv := v.(type) {
	case *ast.Sequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if depth >= FlowDepth {
			n.Style = yaml.FlowStyle
		}
		for _, item := range vv.Items {
			n.Content = append(n.Content, toNode(item, depth+1))
		}
		return n

	case *ast.Mapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if depth >= FlowDepth {
			n.Style = yaml.FlowStyle
		}
		for _, e := range vv.Entries {
			n.Content = append(n.Content, scalarNode(e.Key.Text), toNode(e.Value, depth+1))
		}
		return n

	case *ast.Scalar:
		return scalarNode(vv.Text)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func scalarNode(text string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: text}
	switch {
	case strings.ContainsAny(text, "\r\n"):
		n.Style = yaml.LiteralStyle
	case text == "" || !isPlainWord(text):
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// isPlainWord reports whether s consists only of ASCII letters, digits,
// '_' and '.'.
func isPlainWord(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
