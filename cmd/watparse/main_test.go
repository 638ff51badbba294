package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut strings.Builder
	code = run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunValid(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.wat": "(module (func (export \"f\") (result i32) i32.const 1))",
	})
	code, out, errOut := runCLI(t, "", filepath.Join(dir, "ok.wat"))
	assert.Equal(t, exitOK, code, errOut)
	assert.Empty(t, out)
}

func TestRunDiagnostics(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"bad.wat": "(module (func (result i32",
	})
	bad := filepath.Join(dir, "bad.wat")

	t.Run("text", func(t *testing.T) {
		code, out, _ := runCLI(t, "", "-color", "never", bad)
		assert.Equal(t, exitErrors, code)
		assert.Equal(t, bad+":1:26: error: <valtype> or ')' expected\n"+
			" 1 | (module (func (result i32\n"+
			"   |                          ^\n", out)
	})

	t.Run("short", func(t *testing.T) {
		code, out, _ := runCLI(t, "", "-format", "short", bad)
		assert.Equal(t, exitErrors, code)
		assert.Equal(t, bad+":1:26: <valtype> or ')' expected\n", out)
	})
}

func TestRunOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.wat":     "(module (type))",
		"b.wat":     "(module)",
		"sub/c.wat": "(module (func) oops)",
	})
	code, out, _ := runCLI(t, "", "-format", "short", "-j", "3", filepath.Join(dir, "**", "*.wat"))
	assert.Equal(t, exitErrors, code)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, filepath.Join(dir, "a.wat")+":1:14: IDENTIFIER or '(' expected, got ')'", lines[0])
	assert.Equal(t, filepath.Join(dir, "sub", "c.wat")+":1:16: '(' expected, got 'oops'", lines[1])
}

func TestRunStdin(t *testing.T) {
	code, out, errOut := runCLI(t, "(i32.add (local.get 0) (i32.const 1))", "-entry", "foldeinstr", "-tree", "-")
	assert.Equal(t, exitOK, code, errOut)
	assert.True(t, strings.HasPrefix(out, "File [0,37)\n  FoldedInstr [0,37)\n"), out)
}

func TestRunMissingFile(t *testing.T) {
	code, _, errOut := runCLI(t, "", filepath.Join(t.TempDir(), "nope.wat"))
	assert.Equal(t, exitErrors, code)
	assert.Contains(t, errOut, "read source")
}

func TestRunSeveralFailures(t *testing.T) {
	dir := writeFiles(t, map[string]string{"ok.wat": "(module)"})
	code, _, errOut := runCLI(t, "",
		filepath.Join(dir, "a.wat"),
		filepath.Join(dir, "ok.wat"),
		filepath.Join(dir, "b.wat"))
	assert.Equal(t, exitErrors, code)

	lines := strings.Split(strings.TrimSpace(errOut), "\n")
	require.Len(t, lines, 2, errOut)
	assert.Contains(t, lines[0], "a.wat")
	assert.Contains(t, lines[1], "b.wat")
}

func TestRunNoMatch(t *testing.T) {
	code, _, errOut := runCLI(t, "", filepath.Join(t.TempDir(), "*.wat"))
	assert.Equal(t, exitErrors, code)
	assert.Contains(t, errOut, "not found")
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no_inputs", nil, "Usage: watparse"},
		{"bad_color", []string{"-color", "blue", "x.wat"}, "unknown color mode"},
		{"bad_format", []string{"-format", "json", "x.wat"}, "unknown format"},
		{"bad_jobs", []string{"-j", "0", "x.wat"}, "must be at least 1"},
		{"bad_entry", []string{"-entry", "modul", "x.wat"}, "modul"},
		{"unknown_flag", []string{"-nope"}, "flag provided but not defined"},
		{"missing_config", []string{"-config", "/nonexistent/watparse.yaml", "x.wat"}, "read source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, "", tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestRunHelp(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-h")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, errOut, "Entries: file, module, modulefield")
}

func TestRunConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"src/a.wat":      "(module (type))",
		"src/skip/b.wat": "(module (type))",
		"plain.wat":      "(memory 1)",
	})
	cfg := filepath.Join(dir, "watparse.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(
		"format: short\n"+
			"include:\n  - "+filepath.Join(dir, "src", "**", "*.wat")+"\n"+
			"exclude:\n  - "+filepath.Join(dir, "src", "skip", "**")+"\n"), 0o644))

	code, out, _ := runCLI(t, "", "-config", cfg)
	assert.Equal(t, exitErrors, code)
	assert.Equal(t, filepath.Join(dir, "src", "a.wat")+":1:14: IDENTIFIER or '(' expected, got ')'\n", out)

	// Flags win over the file.
	code, out, _ = runCLI(t, "", "-config", cfg, "-format", "text", "-color", "never")
	assert.Equal(t, exitErrors, code)
	assert.Contains(t, out, "error: IDENTIFIER or '(' expected")
}

func TestRunInteractiveNeedsOneFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.wat": "(module)", "b.wat": "(module)"})
	code, _, errOut := runCLI(t, "", "-i", filepath.Join(dir, "*.wat"))
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "exactly one file")
}

func TestExpand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.wat":   "",
		"b.wat":   "",
		"c/d.wat": "",
	})
	a := filepath.Join(dir, "a.wat")

	files, err := expand([]string{a, filepath.Join(dir, "*.wat"), "-"}, []string{filepath.Join(dir, "b.wat")})
	require.NoError(t, err)
	assert.Equal(t, []string{a, "-"}, files)

	files, err = expand([]string{filepath.Join(dir, "**", "*.wat")}, nil)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}
