package engine

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"mercator-hq/yamllist/pkg/ylist/ast"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
)

var yamlErrLine = regexp.MustCompile(`line (\d+)`)

// YAMLv3 parses documents with gopkg.in/yaml.v3.
// Anchors, aliases and tags are outside the supported model: aliases are
// rejected and tags are dropped.
type YAMLv3 struct {
	maxDepth int
}

// NewYAMLv3 creates a yaml.v3 backed engine.
func NewYAMLv3(opts Options) *YAMLv3 {
	return &YAMLv3{maxDepth: opts.maxDepth()}
}

// Name implements Engine.
func (y *YAMLv3) Name() string { return NameYAMLv3 }

// Parse implements Engine.
func (y *YAMLv3) Parse(text, source string) (ast.Value, error) {
	dec := yaml.NewDecoder(strings.NewReader(text))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, emptyDocument(source)
		}
		return nil, syntaxError(err, source)
	}
	if len(doc.Content) == 0 {
		return nil, emptyDocument(source)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, syntaxError(err, source)
		}
		at := &extra
		if len(extra.Content) > 0 {
			at = extra.Content[0]
		}
		return nil, ylerrors.New(ylerrors.KindUnexpectedToken,
			ast.Location{Source: source, Line: at.Line, Column: at.Column},
			"multiple documents in one stream are not supported")
	}

	c := &converter{source: source, maxDepth: y.maxDepth}
	return c.convert(doc.Content[0])
}

// converter turns yaml.v3 nodes into ast values.
type converter struct {
	source   string
	maxDepth int
	depth    int
}

func (c *converter) loc(n *yaml.Node) ast.Location {
	return ast.Location{Source: c.source, Line: n.Line, Column: n.Column}
}

func (c *converter) convert(n *yaml.Node) (ast.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return c.scalar(n), nil

	case yaml.SequenceNode:
		if err := c.enter(n); err != nil {
			return nil, err
		}
		defer c.leave()

		seq := &ast.Sequence{Location: c.loc(n)}
		for _, item := range n.Content {
			v, err := c.convert(item)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, v)
		}
		return seq, nil

	case yaml.MappingNode:
		if err := c.enter(n); err != nil {
			return nil, err
		}
		defer c.leave()

		m := &ast.Mapping{Location: c.loc(n)}
		seen := make(map[string]ast.Location)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valueNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, ylerrors.New(ylerrors.KindSyntax, c.loc(keyNode),
					"mapping keys must be scalars")
			}
			key := c.scalar(keyNode)
			if prev, dup := seen[key.Text]; dup {
				return nil, ylerrors.New(ylerrors.KindDuplicateKey, key.Location,
					"duplicate mapping key %q (first defined at %s)", key.Text, prev)
			}
			seen[key.Text] = key.Location

			v, err := c.convert(valueNode)
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, ast.Entry{Key: key, Value: v})
		}
		return m, nil

	case yaml.AliasNode:
		return nil, ylerrors.New(ylerrors.KindSyntax, c.loc(n), "aliases are not supported")
	}

	return nil, ylerrors.New(ylerrors.KindSyntax, c.loc(n), "unsupported node kind %d", n.Kind)
}

func (c *converter) scalar(n *yaml.Node) *ast.Scalar {
	return &ast.Scalar{
		Text:     n.Value,
		Quoted:   n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0,
		Location: c.loc(n),
	}
}

func (c *converter) enter(n *yaml.Node) error {
	c.depth++
	if c.depth > c.maxDepth {
		return ylerrors.New(ylerrors.KindDepthExceeded, c.loc(n),
			"nesting depth exceeds the limit of %d", c.maxDepth)
	}
	return nil
}

func (c *converter) leave() {
	c.depth--
}

func emptyDocument(source string) error {
	return ylerrors.New(ylerrors.KindEmptyDocument,
		ast.Location{Source: source, Line: 1, Column: 1}, "document has no content")
}

// syntaxError maps a yaml.v3 error onto a Syntax error, keeping the line
// number when the message carries one.
func syntaxError(err error, source string) error {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	loc := ast.Location{Source: source}
	if m := yamlErrLine.FindStringSubmatch(msg); m != nil {
		if line, convErr := strconv.Atoi(m[1]); convErr == nil {
			loc.Line, loc.Column = line, 1
		}
	}
	return ylerrors.New(ylerrors.KindSyntax, loc, "%s", msg)
}
