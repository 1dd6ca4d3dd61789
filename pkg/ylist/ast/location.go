package ast

import "fmt"

// Location represents the source position of a node or token.
// Line and Column are 1-based; the zero Location means "unknown".
type Location struct {
	Source string // Document name (file path, "stdin", request ID); optional
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns a human-readable representation of the location.
// Format: "source:line:column", or "line:column" when Source is empty.
func (l Location) String() string {
	if !l.IsValid() {
		return "<unknown>"
	}
	if l.Source == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.Source, l.Line, l.Column)
}

// IsValid returns true if the location has line information.
func (l Location) IsValid() bool {
	return l.Line > 0
}
