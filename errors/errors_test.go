package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindSyntax,
				File:   "add.wat",
				Span:   &Span{Start: 12, End: 15},
				Detail: "')' expected, got 'foo'",
			},
			contains: []string{"[parse]", "syntax", "add.wat:12-15", "')' expected, got 'foo'"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLex,
				Kind:  KindBadToken,
			},
			contains: []string{"[lex]", "bad_token"},
		},
		{
			name: "span without file",
			err: &Error{
				Phase: PhaseParse,
				Kind:  KindSyntax,
				Span:  &Span{Start: 0, End: 1},
			},
			contains: []string{" in 0-1"},
		},
		{
			name: "config path",
			err: &Error{
				Phase:  PhaseConfig,
				Kind:   KindInvalidConfig,
				Path:   []string{"parser", "max_depth"},
				Detail: "must not be negative",
			},
			contains: []string{"[config]", "at parser.max_depth", "must not be negative"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseIO,
				Kind:   KindInvalidInput,
				Detail: "read source",
				Cause:  errors.New("permission denied"),
			},
			contains: []string{"[io]", "invalid_input", "read source", "caused by", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseIO,
		Kind:  KindInvalidInput,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := Syntax(3, 4, "unexpected ')'")

	if !err.Is(&Error{Phase: PhaseParse, Kind: KindSyntax}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseLex, Kind: KindSyntax}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseParse, Kind: KindRecursionLimit}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, &Error{Phase: PhaseParse, Kind: KindSyntax}) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseConfig, KindInvalidConfig).
		Path("parser", "entry").
		File("watparse.yaml").
		Span(4, 9).
		Value("modul").
		Cause(cause).
		Detail("unknown entry %q", "modul").
		Build()

	if err.Phase != PhaseConfig {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseConfig)
	}
	if err.Kind != KindInvalidConfig {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidConfig)
	}
	if len(err.Path) != 2 || err.Path[0] != "parser" || err.Path[1] != "entry" {
		t.Errorf("Path = %v, want [parser entry]", err.Path)
	}
	if err.File != "watparse.yaml" {
		t.Errorf("File = %v, want watparse.yaml", err.File)
	}
	if err.Span == nil || *err.Span != (Span{Start: 4, End: 9}) {
		t.Errorf("Span = %v, want {4 9}", err.Span)
	}
	if err.Value != "modul" {
		t.Errorf("Value = %v, want modul", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != `unknown entry "modul"` {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Syntax", func(t *testing.T) {
		err := Syntax(5, 6, "unexpected 'x'")
		if err.Kind != KindSyntax || err.Phase != PhaseParse {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if err.Span.Start != 5 || err.Span.End != 6 {
			t.Errorf("Span = %v", err.Span)
		}
	})

	t.Run("BadToken", func(t *testing.T) {
		err := BadToken(0, 4, `"abc`)
		if err.Kind != KindBadToken || err.Phase != PhaseLex {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if err.Value != `"abc` {
			t.Errorf("Value = %v", err.Value)
		}
	})

	t.Run("RecursionLimit", func(t *testing.T) {
		err := RecursionLimit(10, 11, "maximum recursion depth (3) reached in 'instr'")
		if err.Kind != KindRecursionLimit {
			t.Errorf("Kind = %v, want %v", err.Kind, KindRecursionLimit)
		}
	})

	t.Run("InvalidEntry", func(t *testing.T) {
		err := InvalidEntry("modul", []string{"file", "module"})
		if err.Kind != KindInvalidEntry {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidEntry)
		}
		if !strings.Contains(err.Detail, "file, module") {
			t.Errorf("Detail = %v, should list valid entries", err.Detail)
		}
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		err := InvalidConfig([]string{"jobs"}, "must be positive", nil)
		if err.Kind != KindInvalidConfig || err.Path[0] != "jobs" {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseIO, "file", "missing.wat")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Detail, `"missing.wat"`) {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("ReadFailed", func(t *testing.T) {
		cause := errors.New("eof")
		err := ReadFailed("a.wat", cause)
		if err.Phase != PhaseIO || !errors.Is(err, cause) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("boom")
		err := Wrap(PhaseRender, KindInvalidInput, cause, "write report")
		if !errors.Is(err, cause) {
			t.Error("Wrap should keep cause")
		}
	})
}

func TestList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var l *List
		if l.Len() != 0 {
			t.Errorf("Len = %d, want 0", l.Len())
		}
		if err := (&List{}).Err(); err != nil {
			t.Errorf("Err = %v, want nil", err)
		}
	})

	t.Run("single", func(t *testing.T) {
		l := &List{}
		l.Add(Syntax(0, 1, "unexpected 'x'"))
		if l.Error() != l.Errors[0].Error() {
			t.Errorf("single error message = %q", l.Error())
		}
	})

	t.Run("multiple", func(t *testing.T) {
		l := &List{}
		l.Add(Syntax(0, 1, "unexpected 'x'"))
		l.Add(BadToken(4, 6, `"a`))
		err := l.Err()
		if err == nil {
			t.Fatal("Err should not be nil")
		}
		msg := err.Error()
		if !strings.HasPrefix(msg, "2 errors:") {
			t.Errorf("message = %q", msg)
		}
		if !errors.Is(err, &Error{Phase: PhaseLex, Kind: KindBadToken}) {
			t.Error("errors.Is should find a listed error")
		}
		if !errors.Is(err, &List{}) {
			t.Error("errors.Is should match List")
		}
		var target *Error
		if !errors.As(err, &target) || target.Kind != KindSyntax {
			t.Errorf("errors.As = %v", target)
		}
	})
}

func TestCombine(t *testing.T) {
	if err := Combine(nil, nil); err != nil {
		t.Errorf("Combine(nil, nil) = %v", err)
	}

	a := NotFound(PhaseIO, "file", "a.wat")
	b := Syntax(0, 1, "unexpected ')'")
	err := Combine(a, nil, b)
	if got := Flatten(err); len(got) != 2 {
		t.Fatalf("Flatten = %v, want 2 errors", got)
	}
	if !errors.Is(err, &Error{Phase: PhaseParse, Kind: KindSyntax}) {
		t.Error("combined error should match its parts")
	}

	var acc error
	acc = Append(acc, a)
	acc = Append(acc, nil)
	if got := Flatten(acc); len(got) != 1 {
		t.Errorf("Append kept %d errors, want 1", len(got))
	}
}
