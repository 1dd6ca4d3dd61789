package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"mercator-hq/yamllist/pkg/cli"
	"mercator-hq/yamllist/pkg/config"
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"
)

// testCommand returns a command wired to in-memory streams and installs cfg
// as the current configuration.
func testCommand(t *testing.T, cfg *config.Config, stdin string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	prev := config.GetConfig()
	config.SetConfig(cfg)
	t.Cleanup(func() { config.SetConfig(prev) })

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	return cmd, out
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunList(t *testing.T) {
	dir := t.TempDir()
	fruits := writeDoc(t, dir, "fruits.yaml", "- apple\n- banana\n")
	nested := writeDoc(t, dir, "nested.yaml", "- a\n- [b, c]\n- k: v\n")

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{"single file", []string{fruits}, "", "apple, banana\n"},
		{"nested", []string{nested}, "", "a, [b, c], {k: v}\n"},
		{"stdin", nil, "[x, y]", "x, y\n"},
		{"scalar stdin", []string{"-"}, "solo\n", "solo\n"},
		{"several files", []string{fruits, nested}, "", fruits + ": apple, banana\n" + nested + ": a, [b, c], {k: v}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listFlags.format, listFlags.output = "text", ""
			cmd, out := testCommand(t, nil, tt.stdin)

			if err := runList(cmd, tt.args); err != nil {
				t.Fatalf("runList() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunList_Errors(t *testing.T) {
	listFlags.format, listFlags.output = "text", ""
	cmd, _ := testCommand(t, nil, "a: 1\n")

	err := runList(cmd, nil)
	if !errors.Is(err, ylerrors.ErrRootNotSequence) {
		t.Errorf("runList() error = %v, want RootNotSequence", err)
	}
	if cli.ExitCode(err) != cli.ExitFailure {
		t.Errorf("ExitCode() = %d, want %d", cli.ExitCode(err), cli.ExitFailure)
	}

	listFlags.format = "csv"
	cmd, _ = testCommand(t, nil, "a: 1\n")
	if err := runList(cmd, nil); cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("csv format error = %v, want config error", err)
	}
	listFlags.format = "text"
}

func TestRunList_ErrorContext(t *testing.T) {
	listFlags.format, listFlags.output = "text", ""
	cmd, _ := testCommand(t, nil, "a: 1\na: 2\n")

	err := runList(cmd, nil)
	if ylerrors.KindOf(err) != ylerrors.KindDuplicateKey {
		t.Fatalf("runList() error = %v, want DuplicateKey", err)
	}
	msg := err.Error()
	for _, want := range []string{
		"  |\n",
		"-> 2 | a: 2",
		"= suggestion: " + ylerrors.SuggestForKind(ylerrors.KindDuplicateKey),
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message missing %q:\n%s", want, msg)
		}
	}
}

func TestRunList_JSONToFile(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "doc.yaml", "- 1\n- 2\n")
	outPath := filepath.Join(dir, "out.json")

	listFlags.format, listFlags.output = "json", outPath
	defer func() { listFlags.format, listFlags.output = "text", "" }()

	cmd, out := testCommand(t, nil, "")
	if err := runList(cmd, []string{doc}); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("stdout = %q, want nothing with --output", out.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var got listOutput
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON %s: %v", data, err)
	}
	if got.Result != "1, 2" || got.Items != 2 || got.Source != doc {
		t.Errorf("output = %+v", got)
	}
}

func TestRunGet(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "servers.yaml", "servers:\n  - host: a.example\n    ports: [80, 443]\n  - host: b.example\n")

	tests := []struct {
		name     string
		path     string
		block    bool
		want     string
		wantKind ylerrors.Kind
	}{
		{name: "scalar", path: "servers/@0/host", want: "a.example\n"},
		{name: "last item", path: "servers/@last/host", want: "b.example\n"},
		{name: "inline sequence", path: "servers/@0/ports", want: "[80, 443]\n"},
		{name: "block", path: "servers/@1", block: true, want: "host: b.example\n"},
		{name: "missing key", path: "servers/@0/hots", wantKind: ylerrors.KindPathNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getFlags.block = tt.block
			defer func() { getFlags.block = false }()

			cmd, out := testCommand(t, nil, "")
			err := runGet(cmd, []string{doc, tt.path})
			if tt.wantKind != "" {
				if ylerrors.KindOf(err) != tt.wantKind {
					t.Fatalf("runGet() error = %v, want %s", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("runGet() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunEmit(t *testing.T) {
	emitFlags.output, emitFlags.set, emitFlags.empty = "", nil, false
	cmd, out := testCommand(t, nil, "- a\n- k: v\n")

	if err := runEmit(cmd, nil); err != nil {
		t.Fatalf("runEmit() error = %v", err)
	}
	want := "- a\n- k: v\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunEmit_Set(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "servers.yaml", "servers:\n  - host: a.example\n")

	tests := []struct {
		name     string
		args     []string
		set      []string
		empty    bool
		want     string
		wantCode int
	}{
		{
			name:  "new document",
			set:   []string{"flag=true", "str=just a test", "num=9"},
			empty: true,
			want:  "flag: true\nstr: \"just a test\"\nnum: 9\n",
		},
		{
			name: "append to existing list",
			args: []string{doc},
			set:  []string{"servers/@next/host=b.example"},
			want: "servers:\n  - host: a.example\n  - host: b.example\n",
		},
		{
			name:  "hex normalized",
			set:   []string{"port=0x1F90"},
			empty: true,
			want:  "port: 8080\n",
		},
		{name: "missing equals", set: []string{"flag"}, empty: true, wantCode: cli.ExitConfig},
		{name: "new without set", empty: true, wantCode: cli.ExitConfig},
		{name: "new with file", args: []string{doc}, set: []string{"a=b"}, empty: true, wantCode: cli.ExitConfig},
		{name: "index into mapping", args: []string{doc}, set: []string{"servers/@0/host/@0=x"}, wantCode: cli.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emitFlags.output, emitFlags.set, emitFlags.empty = "", tt.set, tt.empty
			defer func() { emitFlags.set, emitFlags.empty = nil, false }()

			cmd, out := testCommand(t, nil, "")
			err := runEmit(cmd, tt.args)
			if tt.wantCode != 0 {
				if cli.ExitCode(err) != tt.wantCode {
					t.Fatalf("runEmit() error = %v, want exit code %d", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("runEmit() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunGet_As(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "server.yaml", "port: 0x1F90\ndebug: True\nratio: 2.50\nname: api\nports: [1, 2]\n")

	tests := []struct {
		name     string
		path     string
		as       string
		want     string
		wantCode int
	}{
		{name: "hex int", path: "port", as: "int", want: "8080\n"},
		{name: "bool", path: "debug", as: "bool", want: "true\n"},
		{name: "float", path: "ratio", as: "float", want: "2.5\n"},
		{name: "not a bool", path: "name", as: "bool", wantCode: cli.ExitFailure},
		{name: "not a scalar", path: "ports", as: "int", wantCode: cli.ExitFailure},
		{name: "unknown type", path: "port", as: "duration", wantCode: cli.ExitConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getFlags.as = tt.as
			defer func() { getFlags.as = "" }()

			cmd, out := testCommand(t, nil, "")
			err := runGet(cmd, []string{doc, tt.path})
			if tt.wantCode != 0 {
				if cli.ExitCode(err) != tt.wantCode {
					t.Fatalf("runGet() error = %v, want exit code %d", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("runGet() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "good.yaml", "- a\n- b\n")
	writeDoc(t, dir, "sub/also-good.yml", "[1, 2, 3]\n")
	writeDoc(t, dir, "bad.yaml", "a: 1\na: 2\n")
	writeDoc(t, dir, "notes.txt", "not checked")
	writeDoc(t, dir, ".hidden/skipped.yaml", "a: 1\n")

	checkFlags.concurrency, checkFlags.format, checkFlags.progress = 2, "json", false
	defer func() { checkFlags.format = "text" }()

	cmd, out := testCommand(t, nil, "")
	err := runCheck(cmd, []string{dir})
	if cli.ExitCode(err) != cli.ExitFailure {
		t.Fatalf("runCheck() error = %v, want failure for bad.yaml", err)
	}

	var report []checkResult
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(report) != 3 {
		t.Fatalf("checked %d files, want 3: %+v", len(report), report)
	}

	byName := map[string]checkResult{}
	for _, r := range report {
		byName[filepath.Base(r.File)] = r
	}
	if r := byName["bad.yaml"]; r.OK || r.Kind != "DuplicateKey" || r.Line != 2 {
		t.Errorf("bad.yaml = %+v", r)
	}
	if r := byName["also-good.yml"]; !r.OK || r.Items != 3 {
		t.Errorf("also-good.yml = %+v", r)
	}

	stderr := cmd.ErrOrStderr().(*bytes.Buffer).String()
	if !strings.Contains(stderr, "  DuplicateKey: 1\n") {
		t.Errorf("stderr missing failure summary:\n%s", stderr)
	}
	if !strings.Contains(err.Error(), "1 of 3 documents failed") {
		t.Errorf("error = %v", err)
	}
}

func TestRunCheck_AllGood(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.yaml", "- a\n")
	b := writeDoc(t, dir, "b.yaml", "b\n")

	checkFlags.concurrency, checkFlags.format, checkFlags.progress = 4, "csv", true
	defer func() { checkFlags.format, checkFlags.progress = "text", false }()

	cmd, out := testCommand(t, nil, "")
	if err := runCheck(cmd, []string{a, b}); err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}
	want := "FILE,STATUS,ITEMS,LOCATION,MESSAGE\n" + a + ",ok,1,,\n" + b + ",ok,1,,\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunCheck_InvalidConcurrency(t *testing.T) {
	checkFlags.concurrency, checkFlags.format = 0, "text"
	defer func() { checkFlags.concurrency = 4 }()

	cmd, _ := testCommand(t, nil, "")
	if err := runCheck(cmd, []string{t.TempDir()}); cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("runCheck() error = %v, want config error", err)
	}
}

func TestWatchSession_Reload(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	writeDoc(t, docs, "list.yaml", "- a # note\n- b\n")
	cfgPath := writeDoc(t, dir, "yamllist.yaml", "engine:\n  name: native\n")

	cmd, out := testCommand(t, nil, "")
	a, err := newApp(currentConfig(), appOptions{})
	if err != nil {
		t.Fatal(err)
	}
	s := &watchSession{app: a, out: out, target: docs, cfgPath: cfgPath}
	defer s.close()
	ctx := commandContext(cmd)

	if err := s.relistAll(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out.String(), ": a # note, b\n") {
		t.Errorf("native output = %q", out.String())
	}

	writeDoc(t, dir, "yamllist.yaml", "engine:\n  name: yamlv3\n")
	out.Reset()
	if err := s.reload(); err != nil {
		t.Fatalf("reload() error = %v", err)
	}
	if err := s.relistAll(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "reloaded configuration from "+cfgPath+"\n") ||
		!strings.HasSuffix(out.String(), ": a, b\n") {
		t.Errorf("output after reload = %q", out.String())
	}
	if got := s.app.cfg.Engine.Name; got != "yamlv3" {
		t.Errorf("engine after reload = %q, want yamlv3", got)
	}

	writeDoc(t, dir, "yamllist.yaml", "engine:\n  name: bogus\n")
	current := s.app
	if err := s.reload(); err == nil {
		t.Fatal("reload() accepted an invalid configuration")
	}
	if s.app != current {
		t.Error("failed reload replaced the app")
	}
	if config.GetConfig().Engine.Name != "yamlv3" {
		t.Errorf("failed reload changed the global configuration")
	}
}

func TestHistoryCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.History.Enabled = true
	cfg.History.Backend = "sqlite"
	cfg.History.SQLite.Path = filepath.Join(dir, "history.db")

	doc := writeDoc(t, dir, "doc.yaml", "- a\n")
	listFlags.format, listFlags.output = "text", ""
	for i := 0; i < 3; i++ {
		cmd, _ := testCommand(t, cfg, "")
		if err := runList(cmd, []string{doc}); err != nil {
			t.Fatal(err)
		}
	}
	cmd, _ := testCommand(t, cfg, "k: v\n")
	runList(cmd, nil)

	historyFlags.limit, historyFlags.format, historyFlags.outcome = 100, "json", ""
	cmd, out := testCommand(t, cfg, "")
	if err := runHistoryQuery(cmd, nil); err != nil {
		t.Fatalf("runHistoryQuery() error = %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("query returned %d records, want 4", len(records))
	}

	historyFlags.format, historyFlags.outcome = "text", "error"
	cmd, out = testCommand(t, cfg, "")
	if err := runHistoryQuery(cmd, nil); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 2 || !strings.Contains(out.String(), "RootNotSequence") {
		t.Errorf("error query output =\n%s", out.String())
	}
	historyFlags.outcome = ""

	historyFlags.days, historyFlags.maxRecords = -1, 1
	defer func() { historyFlags.days, historyFlags.maxRecords = 0, 0 }()
	cmd, out = testCommand(t, cfg, "")
	if err := runHistoryPrune(cmd, nil); err != nil {
		t.Fatalf("runHistoryPrune() error = %v", err)
	}
	if !strings.Contains(out.String(), "Pruned 3 records") {
		t.Errorf("prune output = %q", out.String())
	}
}

func TestHistoryCommands_Disabled(t *testing.T) {
	cmd, _ := testCommand(t, config.Default(), "")
	if err := runHistoryQuery(cmd, nil); cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("runHistoryQuery() error = %v, want config error", err)
	}
}

func TestParseTimeFlag(t *testing.T) {
	if got, err := parseTimeFlag(""); err != nil || !got.IsZero() {
		t.Errorf("parseTimeFlag(\"\") = %v, %v", got, err)
	}
	if got, err := parseTimeFlag("2026-01-02T03:04:05Z"); err != nil || got.Year() != 2026 {
		t.Errorf("parseTimeFlag(rfc3339) = %v, %v", got, err)
	}
	if _, err := parseTimeFlag("1h"); err != nil {
		t.Errorf("parseTimeFlag(1h) error = %v", err)
	}
	if _, err := parseTimeFlag("yesterday"); err == nil {
		t.Error("parseTimeFlag(yesterday) error = nil")
	}
}

func TestServeDryRun(t *testing.T) {
	serveFlags.dryRun = true
	defer func() { serveFlags.dryRun = false }()

	cmd, out := testCommand(t, nil, "")
	if err := runServe(cmd, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Configuration valid") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"list", "get", "emit", "check", "watch", "serve", "history", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out := &bytes.Buffer{}
	versionCmd.SetOut(out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)

	for _, want := range []string{"yamllist " + Version, "Git Commit: " + GitCommit, runtime.Version()} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("version output missing %q:\n%s", want, out.String())
		}
	}
}
