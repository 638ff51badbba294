// Package corpora runs table-driven tests whose table lives in the file
// system: every input file under a root is one case, and each of its
// expected outputs is a sibling file named after it.
package corpora

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus describes a directory of test cases.
type Corpus struct {
	// Root is the test data directory, relative to the file calling Run.
	Root string

	// Refresh names an environment variable holding a glob. Cases whose
	// name matches it have their outputs rewritten instead of compared.
	Refresh string

	// Extension (without a dot) of the files that define a case, e.g. "wat".
	Extension string

	// Outputs are the expected results of each case. A missing output
	// file means the output is expected to be empty.
	Outputs []Output

	// Test runs one case and returns one string per element of Outputs.
	Test func(t *testing.T, path, text string) []string
}

// Output is one result of a test case, stored in "<case>.<Extension>".
type Output struct {
	Extension string

	// Compare may be nil for a byte-for-byte comparison.
	Compare Compare
}

// Compare returns "" if got matches want, and a description of the
// difference otherwise.
type Compare func(got, want string) string

// Run executes every case under Root as a subtest.
func (c Corpus) Run(t *testing.T) {
	t.Helper()
	dir := callerDir(0)
	root := filepath.Join(dir, c.Root)

	cases, err := doublestar.Glob(os.DirFS(root), "**/*."+c.Extension, doublestar.WithFilesOnly())
	if err != nil {
		t.Fatalf("corpora: listing %q: %v", root, err)
	}
	if len(cases) == 0 {
		t.Fatalf("corpora: no *.%s files under %q", c.Extension, root)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: invalid glob in %s: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		t.Logf("corpora: refreshing outputs matching %s=%s", c.Refresh, refresh)
	}

	for _, name := range cases {
		path := filepath.Join(root, filepath.FromSlash(name))
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("corpora: reading %q: %v", path, err)
			}
			results := c.Test(t, name, string(data))
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: got %d results, want %d", len(results), len(c.Outputs))
			}

			update := false
			if refresh != "" {
				update, _ = doublestar.Match(refresh, name)
			}
			for i, out := range c.Outputs {
				file := path + "." + out.Extension
				if update {
					if err := write(file, results[i]); err != nil {
						t.Errorf("corpora: %v", err)
					}
					continue
				}

				want, err := os.ReadFile(file)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("corpora: reading %q: %v", file, err)
					continue
				}
				cmp := out.Compare
				if cmp == nil {
					cmp = Diff
				}
				if msg := cmp(results[i], string(want)); msg != "" {
					t.Errorf("output mismatch for %q:\n%s", file, msg)
				}
			}
		})
	}
}

// write stores an output, removing the file when the output is empty.
func write(file, content string) error {
	if content == "" {
		if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return os.WriteFile(file, []byte(content), 0o644)
}

// Diff compares byte for byte and describes a mismatch as a unified diff.
func Diff(got, want string) string {
	if got == want {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	if diff == "" {
		// Differences difflib cannot show, such as a missing final newline.
		return fmt.Sprintf("want %q, got %q", want, got)
	}
	return diff
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine the test file's directory")
	}
	return filepath.Dir(file)
}
