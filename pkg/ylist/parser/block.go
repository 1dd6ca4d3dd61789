package parser

import (
	"mercator-hq/yamllist/pkg/ylist/ast"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
	"mercator-hq/yamllist/pkg/ylist/lexer"
)

// parseDocument parses the whole token stream into a single root value.
func (s *state) parseDocument() (ast.Value, error) {
	first, err := s.peek(0)
	if err != nil {
		return nil, err
	}
	if first.Kind == lexer.EndOfInput {
		return nil, ylerrors.New(ylerrors.KindEmptyDocument,
			ast.Location{Source: s.source, Line: 1, Column: 1},
			"document has no content")
	}

	indent, err := s.advance()
	if err != nil {
		return nil, err
	}

	root, err := s.parseBlock()
	if err != nil {
		return nil, err
	}

	rest, err := s.peek(0)
	if err != nil {
		return nil, err
	}
	if rest.Kind == lexer.EndOfInput {
		return root, nil
	}

	content, err := s.peek(1)
	if err != nil {
		return nil, err
	}
	if rest.Column != indent.Column {
		return nil, ylerrors.New(ylerrors.KindIndentationMismatch, s.loc(content),
			"line indentation matches no open block (column %d, document root at %d)",
			rest.Column, indent.Column)
	}
	return nil, ylerrors.New(ylerrors.KindUnexpectedToken, s.loc(content),
		"unexpected content after the document root")
}

// parseBlock parses the construct starting at the current token, which is
// the first token after an Indent or after a dash on the same line.
func (s *state) parseBlock() (ast.Value, error) {
	tok, err := s.peek(0)
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case lexer.SequenceDash:
		return s.parseSequence(tok.Column)
	case lexer.Scalar:
		after, err := s.peek(1)
		if err != nil {
			return nil, err
		}
		if after.Kind == lexer.MappingColon {
			return s.parseMapping(tok.Column)
		}
		return s.parseScalarLine()
	}
	return nil, s.unexpected(tok)
}

// parseSequence parses sequence items whose dashes sit at col.
func (s *state) parseSequence(col int) (ast.Value, error) {
	first, err := s.peek(0)
	if err != nil {
		return nil, err
	}

	seq := &ast.Sequence{Location: s.loc(first)}
	if err := s.enter(seq.Location); err != nil {
		return nil, err
	}
	defer s.leave()

	for {
		dash, err := s.advance()
		if err != nil {
			return nil, err
		}

		item, err := s.parseItem(dash)
		if err != nil {
			return nil, err
		}
		seq.Items = append(seq.Items, item)

		more, err := s.continues(col, s.atDash)
		if err != nil {
			return nil, err
		}
		if !more {
			return seq, nil
		}
	}
}

// parseItem parses the value following a dash.
func (s *state) parseItem(dash lexer.Token) (ast.Value, error) {
	tok, err := s.peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Kind != lexer.Newline {
		return s.parseBlock()
	}

	if _, err := s.advance(); err != nil {
		return nil, err
	}
	return s.parseNested(dash.Column, false, s.loc(dash))
}

// parseMapping parses key/value entries whose keys start at col.
func (s *state) parseMapping(col int) (ast.Value, error) {
	first, err := s.peek(0)
	if err != nil {
		return nil, err
	}

	m := &ast.Mapping{Location: s.loc(first)}
	if err := s.enter(m.Location); err != nil {
		return nil, err
	}
	defer s.leave()

	seen := make(map[string]ast.Location)
	for {
		keyTok, err := s.advance()
		if err != nil {
			return nil, err
		}
		colon, err := s.advance()
		if err != nil {
			return nil, err
		}

		key := &ast.Scalar{Text: keyTok.Text, Quoted: keyTok.Quoted, Location: s.loc(keyTok)}
		if prev, dup := seen[key.Text]; dup {
			return nil, ylerrors.New(ylerrors.KindDuplicateKey, key.Location,
				"duplicate mapping key %q (first defined at %s)", key.Text, prev)
		}
		seen[key.Text] = key.Location

		value, err := s.parseValue(col, colon)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, ast.Entry{Key: key, Value: value})

		more, err := s.continues(col, s.atKey)
		if err != nil {
			return nil, err
		}
		if !more {
			return m, nil
		}
	}
}

// parseValue parses the value following a mapping colon.
func (s *state) parseValue(col int, colon lexer.Token) (ast.Value, error) {
	tok, err := s.peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.Scalar {
		return s.parseScalarLine()
	}
	if tok.Kind != lexer.Newline {
		return nil, s.unexpected(tok)
	}

	if _, err := s.advance(); err != nil {
		return nil, err
	}
	return s.parseNested(col, true, s.loc(colon))
}

// parseNested parses a construct on the lines following a dash or key at
// parentCol. With indentless set, a sequence at parentCol also belongs to
// the parent. If nothing nested follows the value is an empty scalar.
func (s *state) parseNested(parentCol int, indentless bool, at ast.Location) (ast.Value, error) {
	tok, err := s.peek(0)
	if err != nil {
		return nil, err
	}

	if tok.Kind == lexer.Indent {
		dash, err := s.atDash()
		if err != nil {
			return nil, err
		}
		if tok.Column > parentCol || (indentless && tok.Column == parentCol && dash) {
			if _, err := s.advance(); err != nil {
				return nil, err
			}
			return s.parseBlock()
		}
	}

	return &ast.Scalar{Location: at}, nil
}

// parseScalarLine consumes a scalar and the Newline ending its line.
func (s *state) parseScalarLine() (ast.Value, error) {
	tok, err := s.advance()
	if err != nil {
		return nil, err
	}

	end, err := s.advance()
	if err != nil {
		return nil, err
	}
	if end.Kind != lexer.Newline {
		return nil, s.unexpected(end)
	}

	if !tok.Quoted && tok.Text != "" && (tok.Text[0] == '[' || tok.Text[0] == '{') {
		return s.parseFlow(tok)
	}
	return &ast.Scalar{Text: tok.Text, Quoted: tok.Quoted, Location: s.loc(tok)}, nil
}

// continues reports whether the next line continues the construct at col.
// It consumes the line's Indent token when it does. A line indented deeper
// than col cannot belong to any open construct and is an error.
func (s *state) continues(col int, match func() (bool, error)) (bool, error) {
	tok, err := s.peek(0)
	if err != nil {
		return false, err
	}
	if tok.Kind != lexer.Indent || tok.Column < col {
		return false, nil
	}

	if tok.Column > col {
		content, err := s.peek(1)
		if err != nil {
			return false, err
		}
		return false, ylerrors.New(ylerrors.KindIndentationMismatch, s.loc(content),
			"line is indented deeper than the enclosing block (column %d, expected %d)",
			tok.Column, col)
	}

	ok, err := match()
	if err != nil || !ok {
		return false, err
	}
	_, err = s.advance()
	return err == nil, err
}

// atDash reports whether the line after the pending Indent starts with a dash.
func (s *state) atDash() (bool, error) {
	tok, err := s.peek(1)
	if err != nil {
		return false, err
	}
	return tok.Kind == lexer.SequenceDash, nil
}

// atKey reports whether the line after the pending Indent starts with a key.
func (s *state) atKey() (bool, error) {
	tok, err := s.peek(1)
	if err != nil {
		return false, err
	}
	if tok.Kind != lexer.Scalar {
		return false, nil
	}
	colon, err := s.peek(2)
	if err != nil {
		return false, err
	}
	return colon.Kind == lexer.MappingColon, nil
}

func (s *state) unexpected(tok lexer.Token) error {
	return ylerrors.New(ylerrors.KindUnexpectedToken, s.loc(tok), "unexpected %s", tok.Kind)
}
