package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	// keep a stray pangea.toml in the package directory out of the way
	wd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-log-level", "none"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestEvalFlag(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"plus 2 3", "5\n"},
		{"plus times 2 3 4", "10\n"},
		{`println "hi"`, "hi\n"},
	}

	for _, tt := range tests {
		code, out, errOut := runCLI(t, "", "-e", tt.code)
		if code != 0 {
			t.Errorf("%q exited %d: %s", tt.code, code, errOut)
		}
		if out != tt.expected {
			t.Errorf("%q expected=%q, got=%q", tt.code, tt.expected, out)
		}
	}
}

func TestEvalError(t *testing.T) {
	code, out, errOut := runCLI(t, "", "-e", "divide 1 0")
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if out != "" {
		t.Errorf("unexpected stdout %q", out)
	}
	if !strings.HasPrefix(errOut, "Error: line 1: divide: division by zero\n") {
		t.Errorf("unexpected stderr %q", errOut)
	}
	if !strings.Contains(errOut, ">    1 | divide 1 0") {
		t.Errorf("missing source context in %q", errOut)
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.pg")
	src := "# sums\nplus\n  times 2 3 # six\n  4\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runCLI(t, "", path)
	if code != 0 || out != "10\n" {
		t.Errorf("exit=%d out=%q err=%q", code, out, errOut)
	}

	if code, _, _ := runCLI(t, "", filepath.Join(t.TempDir(), "missing.pg")); code != 1 {
		t.Errorf("missing file should exit 1, got %d", code)
	}
}

func TestInteractiveFromPipe(t *testing.T) {
	code, out, _ := runCLI(t, "plus 1 2\nexit\n")
	if code != 0 {
		t.Errorf("exit code %d", code)
	}
	if !strings.Contains(out, "=> 3\n") {
		t.Errorf("REPL output missing result: %q", out)
	}
}

func TestBadFlag(t *testing.T) {
	if code, _, _ := runCLI(t, "", "-nope"); code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
}

func TestStrictArityFlag(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-strict-arity", "-e", "plus 1")
	if code != 1 || !strings.Contains(errOut, "arity") {
		t.Errorf("exit=%d err=%q", code, errOut)
	}

	if code, out, _ := runCLI(t, "", "-e", "plus 1"); code != 0 || out != "1null\n" {
		t.Errorf("lenient shortfall: exit=%d out=%q", code, out)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "pangea.toml")
	if err := os.WriteFile(cfg, []byte("[eval]\nstrict_arity = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if code, _, _ := runCLI(t, "", "-config", cfg, "-e", "plus 1"); code != 1 {
		t.Errorf("strict_arity from config not applied, exit %d", code)
	}
	if code, _, _ := runCLI(t, "", "-config", filepath.Join(dir, "none.toml"), "-e", "plus 1 1"); code != 1 {
		t.Errorf("missing explicit config should fail, exit %d", code)
	}
}

func TestTranscriptFlags(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "t.db")
	code, out, errOut := runCLI(t, "", "-transcript-driver", "sqlite3", "-transcript-dsn", dsn, "-e", "times 6 7")
	if code != 0 || out != "42\n" {
		t.Errorf("exit=%d out=%q err=%q", code, out, errOut)
	}
	if _, err := os.Stat(dsn); err != nil {
		t.Errorf("transcript database not created: %v", err)
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "", "-v")
	if code != 0 || !strings.HasPrefix(out, "pangea version 'vdev'") {
		t.Errorf("exit=%d out=%q", code, out)
	}
}
