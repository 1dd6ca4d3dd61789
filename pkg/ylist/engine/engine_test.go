package engine

import (
	"strings"
	"testing"

	"mercator-hq/yamllist/pkg/ylist/ast"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
)

func TestNew(t *testing.T) {
	for _, name := range []string{NameNative, NameYAMLv3} {
		e, err := New(name, Options{})
		if err != nil {
			t.Fatalf("New(%q) failed: %v", name, err)
		}
		if e.Name() != name {
			t.Errorf("Name() = %q, want %q", e.Name(), name)
		}
	}

	if _, err := New("libyaml", Options{}); err == nil {
		t.Error("New(libyaml) succeeded, want error")
	} else if !strings.Contains(err.Error(), "native") {
		t.Errorf("error %q does not list available engines", err)
	}

	if got := Names(); len(got) != 2 || got[0] != NameNative || got[1] != NameYAMLv3 {
		t.Errorf("Names() = %v", got)
	}
}

func TestEngines_Parity(t *testing.T) {
	docs := map[string]string{
		"flat sequence":     "- a\n- b\n- c\n",
		"bare scalar":       "hello",
		"mapping":           "name: demo\nitems:\n  - x\n  - y\n",
		"indentless":        "items:\n- x\n- y\nnext: z\n",
		"flow":              "- [a, b]\n- {k: v, n: [1, 2]}\n",
		"compact mapping":   "- k: v\n  n: 1\n- other\n",
		"nested sequence":   "- a\n-\n  - b\n  - c\n",
		"empty item":        "-\n- b\n",
		"quoted":            "- 'single'\n- \"dou ble\"\n",
		"comment lines":     "# head\n- a\n\n# mid\n- b\n",
		"document start":    "---\n- a\n",
		"windows newlines":  "- a\r\n- b\r\n",
		"deeper mapping":    "a:\n  b:\n    c: d\n",
		"missing map value": "a:\nb: 2\n",
	}

	native := NewNative(Options{})
	yv3 := NewYAMLv3(Options{})

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			want, err := native.Parse(doc, "doc")
			if err != nil {
				t.Fatalf("native Parse() failed: %v", err)
			}
			got, err := yv3.Parse(doc, "doc")
			if err != nil {
				t.Fatalf("yamlv3 Parse() failed: %v", err)
			}
			if !ast.Equal(got, want) {
				t.Errorf("yamlv3 = %#v, native = %#v", got, want)
			}
		})
	}
}

func TestEngines_TrailingComments(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		native []string
		yamlv3 []string
	}{
		{"plain scalar", "- a # c\n- b\n", []string{"a # c", "b"}, []string{"a", "b"}},
		{"quoted scalar", "- 'a' # c\n- b\n", []string{"a", "b"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, e := range []struct {
				engine Engine
				want   []string
			}{
				{NewNative(Options{}), tt.native},
				{NewYAMLv3(Options{}), tt.yamlv3},
			} {
				v, err := e.engine.Parse(tt.doc, "")
				if err != nil {
					t.Fatalf("%s: Parse() failed: %v", e.engine.Name(), err)
				}
				seq, ok := v.(*ast.Sequence)
				if !ok || len(seq.Items) != len(e.want) {
					t.Fatalf("%s: got %#v, want %d items", e.engine.Name(), v, len(e.want))
				}
				for i, item := range seq.Items {
					if got := item.(*ast.Scalar).Text; got != e.want[i] {
						t.Errorf("%s: item %d = %q, want %q", e.engine.Name(), i, got, e.want[i])
					}
				}
			}
		})
	}
}

func TestYAMLv3_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind ylerrors.Kind
		line int
	}{
		{"empty", "", ylerrors.KindEmptyDocument, 1},
		{"comment only", "# nothing\n", ylerrors.KindEmptyDocument, 1},
		{"duplicate key", "a: 1\na: 2\n", ylerrors.KindDuplicateKey, 2},
		{"alias", "- &x a\n- *x\n", ylerrors.KindSyntax, 2},
		{"bad syntax", "a: b: c\n", ylerrors.KindSyntax, 1},
		{"multiple documents", "- a\n---\n- b\n", ylerrors.KindUnexpectedToken, 3},
	}

	e := NewYAMLv3(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Parse(tt.doc, "doc.yaml")
			ye, ok := ylerrors.As(err)
			if !ok {
				t.Fatalf("Parse() error = %v, want *errors.Error", err)
			}
			if ye.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s (%v)", ye.Kind, tt.kind, err)
			}
			if ye.Location.Line != tt.line {
				t.Errorf("Line = %d, want %d", ye.Location.Line, tt.line)
			}
			if ye.Location.Source != "doc.yaml" {
				t.Errorf("Source = %q, want doc.yaml", ye.Location.Source)
			}
		})
	}
}

func TestEngines_MaxDepth(t *testing.T) {
	doc := "- [[[a]]]\n"
	for _, e := range []Engine{NewNative(Options{MaxDepth: 3}), NewYAMLv3(Options{MaxDepth: 3})} {
		_, err := e.Parse(doc, "")
		if ylerrors.KindOf(err) != ylerrors.KindDepthExceeded {
			t.Errorf("%s: error = %v, want DepthExceeded", e.Name(), err)
		}
		if _, err := e.Parse("- [[a]]\n", ""); err != nil {
			t.Errorf("%s: depth 3 failed: %v", e.Name(), err)
		}
	}
}

func TestYAMLv3_QuotedFlag(t *testing.T) {
	v, err := NewYAMLv3(Options{}).Parse("- 'a'\n- b\n", "")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	seq := v.(*ast.Sequence)
	if !seq.Items[0].(*ast.Scalar).Quoted || seq.Items[1].(*ast.Scalar).Quoted {
		t.Errorf("quoted flags = %v, %v; want true, false",
			seq.Items[0].(*ast.Scalar).Quoted, seq.Items[1].(*ast.Scalar).Quoted)
	}
	if got := seq.Items[1].Pos(); got.Line != 2 || got.Column != 3 {
		t.Errorf("item location = %s, want 2:3", got)
	}
}
