package lexer

import (
	"fmt"

	"mercator-hq/yamllist/pkg/ylist/ast"
)

// Kind classifies a token.
type Kind int

const (
	EndOfInput Kind = iota
	Scalar
	SequenceDash
	MappingColon
	Indent
	Newline
)

var kindNames = [...]string{
	EndOfInput:   "EndOfInput",
	Scalar:       "Scalar",
	SequenceDash: "SequenceDash",
	MappingColon: "MappingColon",
	Indent:       "Indent",
	Newline:      "Newline",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Token is a classified fragment of the input.
//
// Indent tokens open every content line; their Column is the column of the
// line's first non-space character. Scalar tokens carry their text with
// quotes stripped.
type Token struct {
	Kind   Kind
	Text   string
	Line   int  // 1-based
	Column int  // 1-based
	Quoted bool // Scalar only
}

// Location returns the token position as an ast.Location.
func (t Token) Location(source string) ast.Location {
	return ast.Location{Source: source, Line: t.Line, Column: t.Column}
}

func (t Token) String() string {
	switch t.Kind {
	case Scalar:
		if t.Quoted {
			return fmt.Sprintf("Scalar(%q)@%d:%d", t.Text, t.Line, t.Column)
		}
		return fmt.Sprintf("Scalar(%s)@%d:%d", t.Text, t.Line, t.Column)
	default:
		return fmt.Sprintf("%s@%d:%d", t.Kind, t.Line, t.Column)
	}
}
