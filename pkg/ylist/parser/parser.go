package parser

import (
	"mercator-hq/yamllist/pkg/ylist/ast"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
	"mercator-hq/yamllist/pkg/ylist/lexer"
)

// DefaultMaxDepth is the default limit on collection nesting.
const DefaultMaxDepth = 64

// Parser parses documents into value trees.
type Parser struct {
	maxDepth int    // Maximum collection nesting depth (default: 64)
	source   string // Document name used in locations
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxDepth: DefaultMaxDepth,
	}
}

// WithMaxDepth sets the maximum collection nesting depth.
// Values below 1 restore the default.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	if depth < 1 {
		depth = DefaultMaxDepth
	}
	p.maxDepth = depth
	return p
}

// WithSource sets the document name recorded in node and error locations.
func (p *Parser) WithSource(name string) *Parser {
	p.source = name
	return p
}

// MaxDepth returns the configured nesting limit.
func (p *Parser) MaxDepth() int {
	return p.maxDepth
}

// Parse parses text and returns the root value.
func (p *Parser) Parse(text string) (ast.Value, error) {
	l := lexer.New(text, lexer.WithSource(p.source))
	return p.ParseTokens(l.Next)
}

// ParseTokens parses the tokens returned by next. next must follow the
// lexer's contract: Indent tokens open lines, Newline tokens close them,
// and the stream ends with EndOfInput.
func (p *Parser) ParseTokens(next func() (lexer.Token, error)) (ast.Value, error) {
	s := &state{
		next:     next,
		source:   p.source,
		maxDepth: p.maxDepth,
	}
	return s.parseDocument()
}

// Parse parses text with a default Parser.
func Parse(text string) (ast.Value, error) {
	return NewParser().Parse(text)
}

// state holds the per-call parsing state.
type state struct {
	next     func() (lexer.Token, error)
	buf      []lexer.Token
	source   string
	maxDepth int
	depth    int
}

// peek returns the token n positions ahead without consuming it.
func (s *state) peek(n int) (lexer.Token, error) {
	for len(s.buf) <= n {
		tok, err := s.next()
		if err != nil {
			return lexer.Token{}, err
		}
		s.buf = append(s.buf, tok)
		if tok.Kind == lexer.EndOfInput {
			// Pad so lookahead past the end sees EndOfInput.
			for len(s.buf) <= n {
				s.buf = append(s.buf, tok)
			}
		}
	}
	return s.buf[n], nil
}

// advance consumes and returns the next token.
func (s *state) advance() (lexer.Token, error) {
	tok, err := s.peek(0)
	if err != nil {
		return tok, err
	}
	s.buf = s.buf[1:]
	return tok, nil
}

func (s *state) loc(tok lexer.Token) ast.Location {
	return tok.Location(s.source)
}

// enter records one more level of collection nesting.
func (s *state) enter(at ast.Location) error {
	s.depth++
	if s.depth > s.maxDepth {
		return ylerrors.New(ylerrors.KindDepthExceeded, at,
			"nesting depth exceeds the limit of %d", s.maxDepth)
	}
	return nil
}

func (s *state) leave() {
	s.depth--
}
