// Package lexer turns document text into a lazy stream of tokens.
//
// The lexer works one line at a time. Each content line produces an
// Indent token, the line's structural tokens (dashes, key, colon, value)
// and a closing Newline. Blank lines and comment lines produce nothing.
// The stream always ends with EndOfInput.
//
// Scalars are the raw trimmed text of the line remainder. A scalar that
// starts with a single or double quote must close on the same line; the
// quotes are stripped and nothing inside them is decoded.
package lexer

import (
	"iter"
	"strings"

	"mercator-hq/yamllist/pkg/ylist/ast"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
)

const documentStart = "---"

// Lexer produces tokens on demand. It is not safe for concurrent use;
// create one Lexer per document.
type Lexer struct {
	source  string // document name used in error locations
	rest    string // unread input
	line    int    // number of the last line read
	pending []Token
	started bool // a content line or document start marker has been seen
	done    bool
	err     error
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithSource sets the document name reported in error locations.
func WithSource(name string) Option {
	return func(l *Lexer) {
		l.source = name
	}
}

// New creates a lexer over text.
func New(text string, opts ...Option) *Lexer {
	l := &Lexer{rest: text}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Next returns the next token. After EndOfInput it keeps returning
// EndOfInput; after an error it keeps returning the same error.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	for len(l.pending) == 0 {
		if l.done {
			return Token{Kind: EndOfInput, Line: l.line + 1, Column: 1}, nil
		}
		if err := l.scanLine(); err != nil {
			l.err = err
			return Token{}, err
		}
	}

	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok, nil
}

// Tokenize returns an iterator over the tokens of text. Every range over
// the result lexes text from the beginning. Iteration stops after
// EndOfInput or after the first error.
func Tokenize(text string, opts ...Option) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l := New(text, opts...)
		for {
			tok, err := l.Next()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if !yield(tok, nil) || tok.Kind == EndOfInput {
				return
			}
		}
	}
}

// scanLine reads one physical line and queues its tokens.
func (l *Lexer) scanLine() error {
	if l.rest == "" {
		l.done = true
		return nil
	}

	var text string
	if i := strings.IndexByte(l.rest, '\n'); i >= 0 {
		text, l.rest = l.rest[:i], l.rest[i+1:]
	} else {
		text, l.rest = l.rest, ""
	}
	text = strings.TrimSuffix(text, "\r")
	l.line++

	indent := 0
	for indent < len(text) && text[indent] == ' ' {
		indent++
	}
	body := strings.TrimRight(text[indent:], " \t")

	if strings.TrimLeft(body, " \t") == "" || strings.HasPrefix(strings.TrimLeft(body, " \t"), "#") {
		return nil
	}
	if body[0] == '\t' {
		return ylerrors.New(ylerrors.KindIndentationMismatch, l.loc(indent+1),
			"tab character in indentation")
	}

	if body == documentStart && indent == 0 {
		if l.started {
			return ylerrors.New(ylerrors.KindUnexpectedToken, l.loc(1),
				"multiple documents in one stream are not supported")
		}
		l.started = true
		return nil
	}
	l.started = true

	col := indent + 1
	l.emit(Token{Kind: Indent, Column: col})

	for isDash(body) {
		l.emit(Token{Kind: SequenceDash, Text: "-", Column: col})
		n := 1 + countBlanks(body[1:])
		body, col = body[n:], col+n
	}

	if body != "" && body[0] != '#' {
		if err := l.scanContent(body, col); err != nil {
			return err
		}
	}

	l.emit(Token{Kind: Newline, Column: len(text) + 1})
	return nil
}

// scanContent queues the tokens of a line remainder that follows any dashes.
func (l *Lexer) scanContent(body string, col int) error {
	if isFlowStart(body[0]) {
		l.emit(Token{Kind: Scalar, Text: body, Column: col})
		return nil
	}

	colon, err := l.findKeyEnd(body, col)
	if err != nil {
		return err
	}
	if colon < 0 {
		return l.scanScalar(body, col)
	}

	if err := l.scanScalar(strings.TrimRight(body[:colon], " \t"), col); err != nil {
		return err
	}
	l.emit(Token{Kind: MappingColon, Text: ":", Column: col + colon})

	value := body[colon+1:]
	n := countBlanks(value)
	value = value[n:]
	if value == "" || value[0] == '#' {
		return nil
	}
	return l.scanScalar(value, col+colon+1+n)
}

// findKeyEnd returns the offset of the colon that ends a mapping key, or -1
// if body is not a key/value pair.
func (l *Lexer) findKeyEnd(body string, col int) (int, error) {
	start := 0
	if isQuote(body[0]) {
		end := strings.IndexByte(body[1:], body[0])
		if end < 0 {
			return -1, l.unterminated(col)
		}
		start = end + 2
		after := strings.TrimLeft(body[start:], " \t")
		if !strings.HasPrefix(after, ":") {
			return -1, nil
		}
		start = len(body) - len(after)
	}

	for i := start; i < len(body); i++ {
		if body[i] != ':' {
			continue
		}
		if i+1 == len(body) || body[i+1] == ' ' || body[i+1] == '\t' {
			return i, nil
		}
	}
	return -1, nil
}

// scanScalar queues a single scalar token for text starting at col.
func (l *Lexer) scanScalar(text string, col int) error {
	if text == "" || !isQuote(text[0]) {
		l.emit(Token{Kind: Scalar, Text: text, Column: col})
		return nil
	}

	end := strings.IndexByte(text[1:], text[0])
	if end < 0 {
		return l.unterminated(col)
	}
	inner := text[1 : end+1]

	trailing := text[end+2:]
	n := countBlanks(trailing)
	if n < len(trailing) && trailing[n] != '#' {
		return ylerrors.New(ylerrors.KindUnexpectedToken, l.loc(col+end+2+n),
			"unexpected text after quoted scalar: %q", trailing[n:])
	}

	l.emit(Token{Kind: Scalar, Text: inner, Column: col, Quoted: true})
	return nil
}

func (l *Lexer) emit(tok Token) {
	tok.Line = l.line
	l.pending = append(l.pending, tok)
}

func (l *Lexer) loc(col int) ast.Location {
	return ast.Location{Source: l.source, Line: l.line, Column: col}
}

func (l *Lexer) unterminated(col int) error {
	return ylerrors.New(ylerrors.KindUnterminatedQuote, l.loc(col),
		"quoted scalar is not closed on the same line")
}

// isDash reports whether s starts with a sequence dash.
func isDash(s string) bool {
	return len(s) > 0 && s[0] == '-' && (len(s) == 1 || s[1] == ' ' || s[1] == '\t')
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}

func isFlowStart(c byte) bool {
	return c == '[' || c == '{'
}

func countBlanks(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}
