package parser

import (
	"strings"
	"testing"

	"mercator-hq/yamllist/pkg/ylist/ast"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
	"mercator-hq/yamllist/pkg/ylist/lexer"
)

func s(text string) *ast.Scalar { return ast.NewScalar(text) }

func seq(items ...ast.Value) *ast.Sequence { return ast.NewSequence(items...) }

// mapping builds a mapping from alternating keys and values.
func mapping(kv ...ast.Value) *ast.Mapping {
	m := &ast.Mapping{}
	for i := 0; i < len(kv); i += 2 {
		m.Entries = append(m.Entries, ast.Entry{Key: kv[i].(*ast.Scalar), Value: kv[i+1]})
	}
	return m
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ast.Value
	}{
		{
			name: "flat sequence",
			text: "- a\n- b\n- c\n",
			want: seq(s("a"), s("b"), s("c")),
		},
		{
			name: "bare scalar",
			text: "hello",
			want: s("hello"),
		},
		{
			name: "scalar with separators stays one scalar",
			text: "a, b, c",
			want: s("a, b, c"),
		},
		{
			name: "comments, blank lines and document start",
			text: "# list\n---\n\n- a # not a comment\n\n# trailing\n- 'b'\n",
			want: seq(s("a # not a comment"), s("b")),
		},
		{
			name: "nested sequence on following lines",
			text: "- a\n-\n  - b\n  - c\n- d",
			want: seq(s("a"), seq(s("b"), s("c")), s("d")),
		},
		{
			name: "nested sequence on the same line",
			text: "- - a\n  - b\n- c",
			want: seq(seq(s("a"), s("b")), s("c")),
		},
		{
			name: "empty items",
			text: "-\n- b\n-",
			want: seq(s(""), s("b"), s("")),
		},
		{
			name: "mapping",
			text: "name: demo\nitems:\n  - x\n  - y\n",
			want: mapping(s("name"), s("demo"), s("items"), seq(s("x"), s("y"))),
		},
		{
			name: "indentless sequence under a key",
			text: "items:\n- x\n- y\nnext: z",
			want: mapping(s("items"), seq(s("x"), s("y")), s("next"), s("z")),
		},
		{
			name: "missing mapping value",
			text: "a:\nb: 2",
			want: mapping(s("a"), s(""), s("b"), s("2")),
		},
		{
			name: "nested mapping",
			text: "outer:\n  inner:\n    leaf: 1\n  other: 2",
			want: mapping(s("outer"), mapping(s("inner"), mapping(s("leaf"), s("1")), s("other"), s("2"))),
		},
		{
			name: "compact mappings in a sequence",
			text: "- name: a\n  size: 1\n- name: b\n  tags:\n    - t1\n",
			want: seq(
				mapping(s("name"), s("a"), s("size"), s("1")),
				mapping(s("name"), s("b"), s("tags"), seq(s("t1"))),
			),
		},
		{
			name: "flow collections",
			text: "- [a, b]\n- {k: v, n: [1, 2]}\n- []\n- {}",
			want: seq(
				seq(s("a"), s("b")),
				mapping(s("k"), s("v"), s("n"), seq(s("1"), s("2"))),
				seq(),
				mapping(),
			),
		},
		{
			name: "flow as mapping value",
			text: "list: [x, 'y, z', ]",
			want: mapping(s("list"), seq(s("x"), s("y, z"))),
		},
		{
			name: "quoted flow text is a scalar",
			text: "- '[a, b]'",
			want: seq(s("[a, b]")),
		},
		{
			name: "indented root",
			text: "  - a\n  - b",
			want: seq(s("a"), s("b")),
		},
		{
			name: "crlf line endings",
			text: "- a\r\n- b\r\n",
			want: seq(s("a"), s("b")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewParser().Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}
			if !ast.Equal(got, tt.want) {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		kind   ylerrors.Kind
		line   int
		column int
	}{
		{"empty document", "", ylerrors.KindEmptyDocument, 1, 1},
		{"only comments", "# nothing here\n\n", ylerrors.KindEmptyDocument, 1, 1},
		{"only document start", "---\n", ylerrors.KindEmptyDocument, 1, 1},
		{"duplicate key", "a: 1\na: 2", ylerrors.KindDuplicateKey, 2, 1},
		{"duplicate key with different values", "a: [x]\nb: 1\na:\n  - y", ylerrors.KindDuplicateKey, 3, 1},
		{"duplicate nested key", "- k: 1\n  k: 1", ylerrors.KindDuplicateKey, 2, 3},
		{"duplicate flow key", "- {a: 1, a: 2}", ylerrors.KindDuplicateKey, 1, 10},
		{"continuation deeper than item", " - a\n  b", ylerrors.KindIndentationMismatch, 2, 3},
		{"item deeper than sibling", "- a\n   - b", ylerrors.KindIndentationMismatch, 2, 4},
		{"key deeper than sibling", "a: 1\n  b: 2", ylerrors.KindIndentationMismatch, 2, 3},
		{"scalar root continued deeper", "a\n  b", ylerrors.KindIndentationMismatch, 2, 3},
		{"between two levels", "a:\n    b: 1\n  c: 2", ylerrors.KindIndentationMismatch, 3, 3},
		{"unterminated quote", "- a\n- 'b", ylerrors.KindUnterminatedQuote, 2, 3},
		{"mapping line shallower than indented root", "  a: 1\nb: 2", ylerrors.KindIndentationMismatch, 2, 1},
		{"item shallower than indented root", "  - a\n - b", ylerrors.KindIndentationMismatch, 2, 2},
		{"content after scalar root", "a\nb", ylerrors.KindUnexpectedToken, 2, 1},
		{"content after indented scalar root", "  a\n  b", ylerrors.KindUnexpectedToken, 2, 3},
		{"sequence after mapping", "a: 1\n- b", ylerrors.KindUnexpectedToken, 2, 1},
		{"unclosed flow", "- [a, b", ylerrors.KindMalformedFlow, 1, 8},
		{"empty flow item", "- [a,, b]", ylerrors.KindMalformedFlow, 1, 6},
		{"flow key without colon", "- {a}", ylerrors.KindMalformedFlow, 1, 5},
		{"text after flow", "- [a] b", ylerrors.KindMalformedFlow, 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().WithSource("doc.yaml").Parse(tt.text)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			e, ok := ylerrors.As(err)
			if !ok {
				t.Fatalf("error %v is not *errors.Error", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s (%v)", e.Kind, tt.kind, err)
			}
			if e.Location.Line != tt.line || e.Location.Column != tt.column {
				t.Errorf("Location = %s, want %d:%d", e.Location, tt.line, tt.column)
			}
			if e.Location.Source != "doc.yaml" {
				t.Errorf("Source = %q, want doc.yaml", e.Location.Source)
			}
		})
	}
}

func TestParser_MaxDepth(t *testing.T) {
	nested := func(depth int) string {
		var sb strings.Builder
		for i := 0; i < depth; i++ {
			sb.WriteString(strings.Repeat("  ", i))
			sb.WriteString("-\n")
		}
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("leaf\n")
		return sb.String()
	}

	if _, err := NewParser().Parse(nested(DefaultMaxDepth)); err != nil {
		t.Fatalf("Parse() at the depth limit failed: %v", err)
	}

	_, err := NewParser().Parse(nested(DefaultMaxDepth + 1))
	if ylerrors.KindOf(err) != ylerrors.KindDepthExceeded {
		t.Errorf("Parse() past the limit error = %v, want DepthExceeded", err)
	}

	_, err = NewParser().WithMaxDepth(3).Parse("- [[[a]]]")
	if ylerrors.KindOf(err) != ylerrors.KindDepthExceeded {
		t.Errorf("flow nesting error = %v, want DepthExceeded", err)
	}

	if got := NewParser().WithMaxDepth(0).MaxDepth(); got != DefaultMaxDepth {
		t.Errorf("WithMaxDepth(0).MaxDepth() = %d, want %d", got, DefaultMaxDepth)
	}
}

func TestParser_Locations(t *testing.T) {
	v, err := NewParser().WithSource("list.yaml").Parse("items:\n  - one\n  - [two]\n")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	m := v.(*ast.Mapping)
	items := m.Get("items").(*ast.Sequence)

	tests := []struct {
		name string
		got  ast.Location
		want string
	}{
		{"mapping", m.Pos(), "list.yaml:1:1"},
		{"sequence", items.Pos(), "list.yaml:2:3"},
		{"scalar", items.At(0).Pos(), "list.yaml:2:5"},
		{"flow sequence", items.At(1).Pos(), "list.yaml:3:5"},
		{"flow item", items.At(1).(*ast.Sequence).At(0).Pos(), "list.yaml:3:6"},
	}
	for _, tt := range tests {
		if tt.got.String() != tt.want {
			t.Errorf("%s location = %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestParser_Quoted(t *testing.T) {
	v, err := Parse("- \"a: b\"\n- ''\n- plain")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	items := v.(*ast.Sequence).Items

	first := items[0].(*ast.Scalar)
	if first.Text != "a: b" || !first.Quoted {
		t.Errorf("item 0 = %+v, want quoted %q", first, "a: b")
	}
	empty := items[1].(*ast.Scalar)
	if empty.Text != "" || !empty.Quoted || empty.IsEmpty() {
		t.Errorf("item 1 = %+v, want quoted empty scalar", empty)
	}
	if items[2].(*ast.Scalar).Quoted {
		t.Error("item 2 reported as quoted")
	}
}

func TestParser_ParseTokens(t *testing.T) {
	toks := []lexer.Token{
		{Kind: lexer.Indent, Line: 1, Column: 1},
		{Kind: lexer.SequenceDash, Line: 1, Column: 1},
		{Kind: lexer.Scalar, Text: "x", Line: 1, Column: 3},
		{Kind: lexer.Newline, Line: 1, Column: 4},
		{Kind: lexer.EndOfInput, Line: 2, Column: 1},
	}
	i := 0
	next := func() (lexer.Token, error) {
		tok := toks[i]
		if i < len(toks)-1 {
			i++
		}
		return tok, nil
	}

	v, err := NewParser().ParseTokens(next)
	if err != nil {
		t.Fatalf("ParseTokens() failed: %v", err)
	}
	if !ast.Equal(v, seq(s("x"))) {
		t.Errorf("ParseTokens() = %#v", v)
	}
}

func TestParser_ConcurrentUse(t *testing.T) {
	p := NewParser().WithSource("shared")
	docs := []string{"- a\n- b", "k: v", "x", "- [1, 2]"}

	done := make(chan error, len(docs)*10)
	for i := 0; i < 10; i++ {
		for _, doc := range docs {
			go func(doc string) {
				_, err := p.Parse(doc)
				done <- err
			}(doc)
		}
	}
	for i := 0; i < len(docs)*10; i++ {
		if err := <-done; err != nil {
			t.Errorf("Parse() failed: %v", err)
		}
	}
}
