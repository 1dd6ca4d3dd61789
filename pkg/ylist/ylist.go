package ylist

import (
	"mercator-hq/yamllist/pkg/ylist/ast"
	"mercator-hq/yamllist/pkg/ylist/engine"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
	"mercator-hq/yamllist/pkg/ylist/render"
)

// DefaultMaxInputBytes is the default document size limit (1 MiB).
const DefaultMaxInputBytes = 1 << 20

// Lister renders documents as list lines.
type Lister struct {
	engine        engine.Engine
	maxDepth      int
	maxInputBytes int
}

// Option configures a Lister.
type Option func(*Lister)

// WithEngine sets the parsing engine. It takes precedence over WithMaxDepth.
func WithEngine(e engine.Engine) Option {
	return func(l *Lister) {
		l.engine = e
	}
}

// WithMaxDepth sets the nesting limit of the default native engine.
func WithMaxDepth(depth int) Option {
	return func(l *Lister) {
		l.maxDepth = depth
	}
}

// WithMaxInputBytes sets the document size limit. Zero or less disables it.
func WithMaxInputBytes(n int) Option {
	return func(l *Lister) {
		l.maxInputBytes = n
	}
}

// New creates a Lister. Without options it uses the native engine, a
// nesting limit of 64 and a 1 MiB size limit.
func New(opts ...Option) *Lister {
	l := &Lister{maxInputBytes: DefaultMaxInputBytes}
	for _, opt := range opts {
		opt(l)
	}
	if l.engine == nil {
		l.engine = engine.NewNative(engine.Options{MaxDepth: l.maxDepth})
	}
	return l
}

// Engine returns the engine the Lister parses with.
func (l *Lister) Engine() engine.Engine {
	return l.engine
}

// MaxInputBytes returns the document size limit, or 0 if there is none.
func (l *Lister) MaxInputBytes() int {
	if l.maxInputBytes < 0 {
		return 0
	}
	return l.maxInputBytes
}

// List renders the top-level sequence of document as one line.
func (l *Lister) List(document string) (string, error) {
	return l.ListSource("", document)
}

// ListSource is List with a document name recorded in error locations.
func (l *Lister) ListSource(source, document string) (string, error) {
	root, err := l.Parse(source, document)
	if err != nil {
		return "", err
	}

	seq, err := ToSequence(root)
	if err != nil {
		return "", err
	}
	return render.Sequence(seq)
}

// Parse checks the size limit and parses document with the Lister's engine.
func (l *Lister) Parse(source, document string) (ast.Value, error) {
	if limit := l.MaxInputBytes(); limit > 0 && len(document) > limit {
		return nil, ylerrors.New(ylerrors.KindInputTooLarge, ast.Location{Source: source},
			"document is %d bytes, limit is %d", len(document), limit)
	}
	return l.engine.Parse(document, source)
}

// ToSequence returns the sequence to render for a document root.
// A scalar root becomes a one-element sequence; a mapping root is a
// RootNotSequence error.
func ToSequence(root ast.Value) (*ast.Sequence, error) {
	switch v := root.(type) {
	case *ast.Sequence:
		return v, nil
	case *ast.Scalar:
		return &ast.Sequence{Items: []ast.Value{v}, Location: v.Location}, nil
	case *ast.Mapping:
		return nil, ylerrors.New(ylerrors.KindRootNotSequence, v.Location,
			"document root is a mapping, expected a sequence or scalar")
	}
	return nil, ylerrors.New(ylerrors.KindRootNotSequence, ast.Location{}, "document has no root value")
}

var defaultLister = New()

// List renders the top-level sequence of document as one line using the
// default Lister.
func List(document string) (string, error) {
	return defaultLister.List(document)
}
