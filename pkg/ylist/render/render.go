// Package render turns value trees back into text.
//
// Sequence produces the single-line list rendering used by the entry
// point: items joined with Separator, nested sequences as [a, b] and
// nested mappings as {k: v}. Block produces multi-line YAML.
//
// Output is deterministic: the same tree always renders to the same bytes.
package render

import (
	"strings"

	"mercator-hq/yamllist/pkg/ylist/ast"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
)

// Separator joins the items of a rendered sequence.
const Separator = ", "

// Sequence renders a sequence as one line. Any other value is a
// NotASequence error.
func Sequence(v ast.Value) (string, error) {
	seq, ok := v.(*ast.Sequence)
	if !ok {
		kind := "nil"
		var at ast.Location
		if v != nil {
			kind = string(v.Kind())
			at = v.Pos()
		}
		return "", ylerrors.New(ylerrors.KindNotASequence, at, "cannot render a %s as a list", kind)
	}

	var sb strings.Builder
	writeItems(&sb, seq.Items)
	return sb.String(), nil
}

// Inline renders any value on one line. Scalars are written as is.
func Inline(v ast.Value) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeItems(sb *strings.Builder, items []ast.Value) {
	for i, item := range items {
		if i > 0 {
			sb.WriteString(Separator)
		}
		writeValue(sb, item)
	}
}

func writeValue(sb *strings.Builder, v ast.Value) {
	switch vv := v.(type) {
	case *ast.Scalar:
		sb.WriteString(vv.Text)
	case *ast.Sequence:
		sb.WriteByte('[')
		writeItems(sb, vv.Items)
		sb.WriteByte(']')
	case *ast.Mapping:
		sb.WriteByte('{')
		for i, e := range vv.Entries {
			if i > 0 {
				sb.WriteString(Separator)
			}
			sb.WriteString(e.Key.Text)
			sb.WriteString(": ")
			writeValue(sb, e.Value)
		}
		sb.WriteByte('}')
	}
}
