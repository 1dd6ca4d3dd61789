package path

import (
	"strings"
	"testing"

	"mercator-hq/yamllist/pkg/ylist/ast"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
	"mercator-hq/yamllist/pkg/ylist/parser"
)

const doc = `servers:
  - host: alpha
    port: 0x1F90
  - host: beta
    port: 8080
tags: [a, b, c]
debug: true
ratio: 0.25
`

func mustParse(t *testing.T, text string) ast.Value {
	t.Helper()
	v, err := parser.Parse(text)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return v
}

func TestLookup(t *testing.T) {
	root := mustParse(t, doc)

	tests := []struct {
		path string
		want string
	}{
		{"servers/@0/host", "alpha"},
		{"servers/@1/host", "beta"},
		{"servers/@last/host", "beta"},
		{"/servers/@before 1/port", "8080"},
		{"servers/@after 0/host", "beta"},
		{"servers/@before last/host", "beta"},
		{"tags/@2", "c"},
		{"tags/@last", "c"},
		{"debug", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			s, err := LookupScalar(root, tt.path)
			if err != nil {
				t.Fatalf("LookupScalar(%q) failed: %v", tt.path, err)
			}
			if s.Text != tt.want {
				t.Errorf("LookupScalar(%q) = %q, want %q", tt.path, s.Text, tt.want)
			}
		})
	}
}

func TestLookup_Root(t *testing.T) {
	root := mustParse(t, doc)
	for _, p := range []string{"", "/"} {
		v, err := Lookup(root, p)
		if err != nil || v != root {
			t.Errorf("Lookup(%q) = %v, %v; want root", p, v, err)
		}
	}
}

func TestLookup_TypedScalars(t *testing.T) {
	root := mustParse(t, doc)

	port, _ := LookupScalar(root, "servers/@0/port")
	if n, err := port.Int(); err != nil || n != 8080 {
		t.Errorf("port.Int() = %d, %v; want 8080", n, err)
	}
	debug, _ := LookupScalar(root, "debug")
	if b, err := debug.Bool(); err != nil || !b {
		t.Errorf("debug.Bool() = %v, %v; want true", b, err)
	}
	ratio, _ := LookupScalar(root, "ratio")
	if f, err := ratio.Float(); err != nil || f != 0.25 {
		t.Errorf("ratio.Float() = %v, %v; want 0.25", f, err)
	}
}

func TestLookup_NotFound(t *testing.T) {
	root := mustParse(t, doc)

	tests := []struct {
		path       string
		message    string
		suggestion string
	}{
		{"severs", `key "severs" not found at /`, "Did you mean 'servers'?"},
		{"servers/@5", "out of range", ""},
		{"servers/@next", "out of range", ""},
		{"servers/@after last", "out of range", ""},
		{"servers/host", "not a mapping", ""},
		{"debug/@0", "not a sequence", ""},
		{"tags/@x", "invalid list reference", ""},
		{"tags/@-1", "invalid list reference", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := Lookup(root, tt.path)
			e, ok := ylerrors.As(err)
			if !ok {
				t.Fatalf("Lookup(%q) error = %v, want *errors.Error", tt.path, err)
			}
			if e.Kind != ylerrors.KindPathNotFound {
				t.Errorf("Kind = %s, want PathNotFound", e.Kind)
			}
			if !strings.Contains(e.Message, tt.message) {
				t.Errorf("Message = %q, want it to contain %q", e.Message, tt.message)
			}
			if e.Suggestion != tt.suggestion {
				t.Errorf("Suggestion = %q, want %q", e.Suggestion, tt.suggestion)
			}
		})
	}
}

func TestLookupScalar_NotScalar(t *testing.T) {
	root := mustParse(t, doc)
	if _, err := LookupScalar(root, "servers"); err == nil {
		t.Error("LookupScalar(servers) succeeded, want error")
	}
}

func TestResolveIndex(t *testing.T) {
	three := ast.NewSequence(ast.NewScalar("a"), ast.NewScalar("b"), ast.NewScalar("c"))
	empty := ast.NewSequence()

	tests := []struct {
		seq  *ast.Sequence
		ref  string
		want int
	}{
		{three, "@0", 0},
		{three, "@2", 2},
		{three, "@next", 3},
		{three, "@last", 2},
		{three, "@before 1", 1},
		{three, "@after 1", 2},
		{three, "@before last", 2},
		{three, "@after last", 3},
		{empty, "@last", 0},
		{empty, "@after last", 0},
		{empty, "@next", 0},
	}

	for _, tt := range tests {
		got, err := ResolveIndex(tt.seq, tt.ref)
		if err != nil {
			t.Errorf("ResolveIndex(%d items, %q) failed: %v", tt.seq.Len(), tt.ref, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveIndex(%d items, %q) = %d, want %d", tt.seq.Len(), tt.ref, got, tt.want)
		}
	}
}

func TestSplit(t *testing.T) {
	if got := Split("/a/@0/b/"); len(got) != 3 || got[1] != "@0" {
		t.Errorf("Split() = %q", got)
	}
	if got := Split("/"); got != nil {
		t.Errorf("Split(/) = %q, want nil", got)
	}
}
