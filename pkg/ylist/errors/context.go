package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"mercator-hq/yamllist/pkg/ylist/ast"
)

// ExtractContext returns the lines of source surrounding location,
// formatted with line numbers and a caret under the error column.
func ExtractContext(source string, location ast.Location, contextLines int) string {
	if !location.IsValid() {
		return ""
	}

	lines := strings.Split(source, "\n")
	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		return ""
	}

	startLine := errorLine - contextLines
	endLine := errorLine + contextLines
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	var sb strings.Builder
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, maxLineNumWidth, i+1, strings.TrimRight(lines[i], "\r")))

		if i == errorLine && location.Column > 0 {
			padding := strings.Repeat(" ", location.Column-1)
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", maxLineNumWidth), padding))
		}
	}

	return sb.String()
}

// WithSource fills in the context and default suggestion of the *Error
// in err's chain using the document text. Other errors are returned as is.
func WithSource(err error, source string, contextLines int) error {
	var e *Error
	if !stderrors.As(err, &e) {
		return err
	}
	if e.Context == "" {
		e.Context = ExtractContext(source, e.Location, contextLines)
	}
	if e.Suggestion == "" {
		e.Suggestion = SuggestForKind(e.Kind)
	}
	return err
}
