package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"mercator-hq/yamllist/pkg/ylist/ast"
)

func TestError_Is(t *testing.T) {
	err := New(KindDuplicateKey, ast.Location{Line: 2, Column: 1}, "duplicate mapping key %q", "a")
	wrapped := fmt.Errorf("parse list.yaml: %w", err)

	if !stderrors.Is(wrapped, ErrDuplicateKey) {
		t.Error("errors.Is(wrapped, ErrDuplicateKey) = false, want true")
	}
	if stderrors.Is(wrapped, ErrEmptyDocument) {
		t.Error("errors.Is(wrapped, ErrEmptyDocument) = true, want false")
	}
	if got := KindOf(wrapped); got != KindDuplicateKey {
		t.Errorf("KindOf() = %q, want %q", got, KindDuplicateKey)
	}
	if got := KindOf(stderrors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		kind Kind
		want ErrorType
	}{
		{KindEmptyDocument, ErrorTypeSyntax},
		{KindIndentationMismatch, ErrorTypeSyntax},
		{KindUnterminatedQuote, ErrorTypeSyntax},
		{KindRootNotSequence, ErrorTypeType},
		{KindNotASequence, ErrorTypeType},
		{KindDepthExceeded, ErrorTypeLimit},
		{KindInputTooLarge, ErrorTypeLimit},
		{KindPathNotFound, ErrorTypeLookup},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := TypeOf(tt.kind); got != tt.want {
				t.Errorf("TypeOf(%s) = %q, want %q", tt.kind, got, tt.want)
			}
			if got := New(tt.kind, ast.Location{}, "x").Type; got != tt.want {
				t.Errorf("New(%s).Type = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestError_Format(t *testing.T) {
	source := "- a\n-  b\n   c\n- d"
	err := New(KindIndentationMismatch, ast.Location{Source: "list.yaml", Line: 3, Column: 4}, "unexpected indentation")
	WithSource(err, source, 1)

	msg := err.Error()
	for _, want := range []string{
		"[IndentationMismatch] unexpected indentation",
		"--> list.yaml:3:4",
		"  2 | -  b",
		"-> 3 |    c",
		"     |    ^",
		"  4 | - d",
		"= suggestion: Align the line",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() missing %q, got:\n%s", want, msg)
		}
	}
}

func TestError_FormatWithoutLocation(t *testing.T) {
	err := New(KindEmptyDocument, ast.Location{}, "document is empty")
	if got, want := err.Error(), "[EmptyDocument] document is empty"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestExtractContext(t *testing.T) {
	source := "a\nb\nc"

	tests := []struct {
		name string
		loc  ast.Location
		want string
	}{
		{"invalid location", ast.Location{}, ""},
		{"line past end", ast.Location{Line: 9, Column: 1}, ""},
		{"first line", ast.Location{Line: 1, Column: 1}, "-> 1 | a\n     | ^\n   2 | b\n"},
		{"last line", ast.Location{Line: 3, Column: 2}, "   2 | b\n-> 3 | c\n     |  ^\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractContext(source, tt.loc, 1); got != tt.want {
				t.Errorf("ExtractContext() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithSource_NonEngineError(t *testing.T) {
	plain := stderrors.New("boom")
	if got := WithSource(plain, "x", 2); got != plain {
		t.Errorf("WithSource() = %v, want original error", got)
	}
}

func TestSuggestKey(t *testing.T) {
	keys := []string{"name", "items", "version"}

	if got := SuggestKey("itmes", keys); got != "Did you mean 'items'?" {
		t.Errorf("SuggestKey(itmes) = %q", got)
	}
	if got := SuggestKey("zzzzzzz", keys); got != "Valid keys: name, items, version" {
		t.Errorf("SuggestKey(zzzzzzz) = %q", got)
	}
	if got := SuggestKey("x", nil); got != "" {
		t.Errorf("SuggestKey(no keys) = %q, want empty", got)
	}
}

func TestErrorList(t *testing.T) {
	el := NewErrorList()
	if el.ToError() != nil {
		t.Error("empty list ToError() != nil")
	}

	el.Add(New(KindDuplicateKey, ast.Location{Line: 1, Column: 1}, "dup"))
	el.Add(New(KindEmptyDocument, ast.Location{}, "empty"))
	el.Add(New(KindDuplicateKey, ast.Location{Line: 4, Column: 1}, "dup"))

	if el.Count() != 3 {
		t.Errorf("Count() = %d, want 3", el.Count())
	}
	if got := len(el.ByKind(KindDuplicateKey)); got != 2 {
		t.Errorf("len(ByKind(DuplicateKey)) = %d, want 2", got)
	}
	if !strings.HasPrefix(el.Error(), "Found 3 error(s):") {
		t.Errorf("Error() = %q", el.Error())
	}
}
