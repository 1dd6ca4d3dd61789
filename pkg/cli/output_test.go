package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type testTable struct {
	rows [][]string
}

func (t testTable) Header() []string { return []string{"FILE", "RESULT"} }
func (t testTable) Rows() [][]string { return t.rows }

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"junit", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}

	output, err := formatter.Format("a, b, c")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if string(output) != "a, b, c\n" {
		t.Errorf("Format() = %q, want %q", output, "a, b, c\n")
	}
}

func TestTextFormatter_Table(t *testing.T) {
	buf := &bytes.Buffer{}
	table := testTable{rows: [][]string{{"a.yaml", "ok"}, {"longer-name.yaml", "DuplicateKey"}}}

	if err := (&TextFormatter{}).FormatTo(buf, table); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	want := "FILE              RESULT\n" +
		"a.yaml            ok\n" +
		"longer-name.yaml  DuplicateKey\n"
	if buf.String() != want {
		t.Errorf("FormatTo() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   any
		indent bool
	}{
		{name: "simple string", data: "test"},
		{name: "map with indent", data: map[string]string{"key": "value"}, indent: true},
		{
			name: "struct",
			data: struct {
				Result string `json:"result"`
				Items  int    `json:"items"`
			}{Result: "a, b", Items: 2},
			indent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}
			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			var decoded any
			if err := json.Unmarshal(output, &decoded); err != nil {
				t.Errorf("Format() produced invalid JSON: %v", err)
			}
			if tt.indent != strings.Contains(string(output), "\n") && tt.name != "simple string" {
				t.Errorf("indentation mismatch: %s", output)
			}
		})
	}
}

func TestCSVFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	table := testTable{rows: [][]string{{"a.yaml", "x, y"}}}

	if err := (&CSVFormatter{}).FormatTo(buf, table); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	want := "FILE,RESULT\na.yaml,\"x, y\"\n"
	if buf.String() != want {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), want)
	}

	if _, err := (&CSVFormatter{}).Format("not a table"); err == nil {
		t.Error("Format() of a non-table error = nil")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatText, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatCSV, "*cli.CSVFormatter"},
		{"unknown", "*cli.TextFormatter"},
	}
	for _, tt := range tests {
		got := NewFormatter(tt.format)
		if typeName(got) != tt.want {
			t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, typeName(got), tt.want)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *TextFormatter:
		return "*cli.TextFormatter"
	case *JSONFormatter:
		return "*cli.JSONFormatter"
	case *CSVFormatter:
		return "*cli.CSVFormatter"
	}
	return "unknown"
}
