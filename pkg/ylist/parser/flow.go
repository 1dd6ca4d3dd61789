package parser

import (
	"strings"

	"mercator-hq/yamllist/pkg/ylist/ast"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
	"mercator-hq/yamllist/pkg/ylist/lexer"
)

const (
	valueStops = ",[]{}"
	keyStops   = ":,[]{}"
)

// flowParser parses an inline collection such as [a, {k: v}] from the
// text of a single scalar token.
type flowParser struct {
	s    *state
	text string
	pos  int
	line int
	col  int // column of text[0]
}

// parseFlow parses tok's text as a flow sequence or mapping.
func (s *state) parseFlow(tok lexer.Token) (ast.Value, error) {
	f := &flowParser{s: s, text: tok.Text, line: tok.Line, col: tok.Column}

	v, err := f.parseNode(valueStops)
	if err != nil {
		return nil, err
	}

	f.skipSpaces()
	if f.pos < len(f.text) {
		return nil, f.malformed("unexpected %q after flow collection", f.text[f.pos:])
	}
	return v, nil
}

func (f *flowParser) parseNode(stops string) (ast.Value, error) {
	f.skipSpaces()
	switch f.peek() {
	case '[':
		return f.parseSequence()
	case '{':
		return f.parseMapping()
	}
	return f.parseScalar(stops)
}

func (f *flowParser) parseSequence() (ast.Value, error) {
	seq := &ast.Sequence{Location: f.loc()}
	if err := f.s.enter(seq.Location); err != nil {
		return nil, err
	}
	defer f.s.leave()

	f.pos++
	f.skipSpaces()
	if f.peek() == ']' {
		f.pos++
		return seq, nil
	}

	for {
		item, err := f.parseNode(valueStops)
		if err != nil {
			return nil, err
		}
		seq.Items = append(seq.Items, item)

		done, err := f.separator(']')
		if err != nil {
			return nil, err
		}
		if done {
			return seq, nil
		}
	}
}

func (f *flowParser) parseMapping() (ast.Value, error) {
	m := &ast.Mapping{Location: f.loc()}
	if err := f.s.enter(m.Location); err != nil {
		return nil, err
	}
	defer f.s.leave()

	f.pos++
	f.skipSpaces()
	if f.peek() == '}' {
		f.pos++
		return m, nil
	}

	seen := make(map[string]ast.Location)
	for {
		f.skipSpaces()
		if c := f.peek(); c == '[' || c == '{' {
			return nil, f.malformed("flow mapping keys must be scalars")
		}
		kv, err := f.parseScalar(keyStops)
		if err != nil {
			return nil, err
		}
		key := kv.(*ast.Scalar)

		if prev, dup := seen[key.Text]; dup {
			return nil, ylerrors.New(ylerrors.KindDuplicateKey, key.Location,
				"duplicate mapping key %q (first defined at %s)", key.Text, prev)
		}
		seen[key.Text] = key.Location

		f.skipSpaces()
		if f.peek() != ':' {
			return nil, f.malformed("expected ':' after key %q", key.Text)
		}
		f.pos++

		value, err := f.parseNode(valueStops)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, ast.Entry{Key: key, Value: value})

		done, err := f.separator('}')
		if err != nil {
			return nil, err
		}
		if done {
			return m, nil
		}
	}
}

// separator consumes the ',' or closing bracket after an element. A comma
// directly followed by the closing bracket is accepted.
func (f *flowParser) separator(closing byte) (bool, error) {
	f.skipSpaces()
	switch f.peek() {
	case closing:
		f.pos++
		return true, nil
	case ',':
		f.pos++
		f.skipSpaces()
		if f.peek() == closing {
			f.pos++
			return true, nil
		}
		return false, nil
	case 0:
		return false, f.malformed("flow collection is not closed")
	}
	return false, f.malformed("expected ',' or '%c'", closing)
}

func (f *flowParser) parseScalar(stops string) (ast.Value, error) {
	f.skipSpaces()
	at := f.loc()

	if c := f.peek(); c == '\'' || c == '"' {
		end := strings.IndexByte(f.text[f.pos+1:], c)
		if end < 0 {
			return nil, ylerrors.New(ylerrors.KindUnterminatedQuote, at,
				"quoted scalar is not closed")
		}
		text := f.text[f.pos+1 : f.pos+1+end]
		f.pos += end + 2
		return &ast.Scalar{Text: text, Quoted: true, Location: at}, nil
	}

	start := f.pos
	for f.pos < len(f.text) && strings.IndexByte(stops, f.text[f.pos]) < 0 {
		f.pos++
	}
	text := strings.TrimRight(f.text[start:f.pos], " \t")
	if text == "" {
		return nil, f.malformed("expected a value")
	}
	return &ast.Scalar{Text: text, Location: at}, nil
}

func (f *flowParser) peek() byte {
	if f.pos >= len(f.text) {
		return 0
	}
	return f.text[f.pos]
}

func (f *flowParser) skipSpaces() {
	for f.pos < len(f.text) && (f.text[f.pos] == ' ' || f.text[f.pos] == '\t') {
		f.pos++
	}
}

func (f *flowParser) loc() ast.Location {
	return ast.Location{Source: f.s.source, Line: f.line, Column: f.col + f.pos}
}

func (f *flowParser) malformed(format string, args ...any) error {
	return ylerrors.New(ylerrors.KindMalformedFlow, f.loc(), format, args...)
}
