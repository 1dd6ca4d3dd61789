// Package engine defines the parsing backends behind the list operation.
//
// Two engines are available:
//
//   - native: the indentation-sensitive parser in package parser
//   - yamlv3: gopkg.in/yaml.v3, with nodes converted to ast values
//
// Both produce the same trees for the shared subset (block and flow
// sequences and mappings of plain or quoted scalars, with comments only on
// lines of their own), so the renderer and entry point do not depend on
// which one is used.
//
// Trailing comments after a plain scalar are where they differ: native
// keeps "# ..." as part of the scalar text, while yamlv3 drops it. The
// document "- a # c\n- b" lists as "a # c, b" with native and "a, b" with
// yamlv3. A comment after a quoted scalar is dropped by both.
package engine

import (
	"fmt"
	"sort"

	"mercator-hq/yamllist/pkg/ylist/ast"
	"mercator-hq/yamllist/pkg/ylist/parser"
)

const (
	NameNative = "native"
	NameYAMLv3 = "yamlv3"
)

// Engine parses document text into a value tree. Implementations are
// stateless and safe for concurrent use.
type Engine interface {
	// Name returns the engine name used in configuration and metrics.
	Name() string

	// Parse parses text. source names the document in error locations.
	Parse(text, source string) (ast.Value, error)
}

// Options configures an engine.
type Options struct {
	MaxDepth int // Maximum collection nesting depth (default: 64)
}

func (o Options) maxDepth() int {
	if o.MaxDepth < 1 {
		return parser.DefaultMaxDepth
	}
	return o.MaxDepth
}

var constructors = map[string]func(Options) Engine{
	NameNative: func(o Options) Engine { return NewNative(o) },
	NameYAMLv3: func(o Options) Engine { return NewYAMLv3(o) },
}

// New returns the engine registered under name.
func New(name string, opts Options) (Engine, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q (available: %v)", name, Names())
	}
	return ctor(opts), nil
}

// Names returns the registered engine names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Native is the built-in indentation-sensitive parser.
type Native struct {
	maxDepth int
}

// NewNative creates a native engine.
func NewNative(opts Options) *Native {
	return &Native{maxDepth: opts.maxDepth()}
}

// Name implements Engine.
func (n *Native) Name() string { return NameNative }

// Parse implements Engine.
func (n *Native) Parse(text, source string) (ast.Value, error) {
	return parser.NewParser().
		WithMaxDepth(n.maxDepth).
		WithSource(source).
		Parse(text)
}
