package errors

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLex    Phase = "lex"    // tokenization
	PhaseParse  Phase = "parse"  // grammar rules
	PhaseConfig Phase = "config" // parser and CLI configuration
	PhaseRender Phase = "render" // diagnostic and tree output
	PhaseIO     Phase = "io"     // reading sources
)

// Kind categorizes the error
type Kind string

const (
	KindSyntax         Kind = "syntax"
	KindBadToken       Kind = "bad_token"
	KindInvalidInput   Kind = "invalid_input"
	KindInvalidEntry   Kind = "invalid_entry"
	KindInvalidConfig  Kind = "invalid_config"
	KindNotFound       Kind = "not_found"
	KindRecursionLimit Kind = "recursion_limit"
)

// Span is a byte range [Start, End) in a source file.
type Span struct {
	Start int
	End   int
}

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Span   *Span
	Phase  Phase
	Kind   Kind
	File   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.File != "" || e.Span != nil {
		b.WriteString(" in ")
		b.WriteString(e.File)
		if e.Span != nil {
			if e.File != "" {
				b.WriteByte(':')
			}
			fmt.Fprintf(&b, "%d-%d", e.Span.Start, e.Span.End)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// File sets the source file name
func (b *Builder) File(name string) *Builder {
	b.err.File = name
	return b
}

// Span sets the byte range the error covers
func (b *Builder) Span(start, end int) *Builder {
	b.err.Span = &Span{Start: start, End: end}
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Syntax creates a syntax error over [start, end)
func Syntax(start, end int, msg string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSyntax,
		Span:   &Span{Start: start, End: end},
		Detail: msg,
	}
}

// BadToken creates an error for text the lexer could not classify
func BadToken(start, end int, text string) *Error {
	return &Error{
		Phase:  PhaseLex,
		Kind:   KindBadToken,
		Span:   &Span{Start: start, End: end},
		Detail: fmt.Sprintf("bad token %q", text),
		Value:  text,
	}
}

// RecursionLimit creates an error for a parse that hit the nesting limit
func RecursionLimit(start, end int, msg string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindRecursionLimit,
		Span:   &Span{Start: start, End: end},
		Detail: msg,
	}
}

// InvalidEntry creates an error for an unknown entry rule name
func InvalidEntry(name string, valid []string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidEntry,
		Detail: fmt.Sprintf("unknown entry %q (valid: %s)", name, strings.Join(valid, ", ")),
		Value:  name,
	}
}

// InvalidConfig creates a configuration error for the given key path
func InvalidConfig(path []string, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidConfig,
		Path:   path,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ReadFailed creates an error for a source that could not be read
func ReadFailed(file string, cause error) *Error {
	return &Error{
		Phase:  PhaseIO,
		Kind:   KindInvalidInput,
		File:   file,
		Detail: "read source",
		Cause:  cause,
	}
}

// List holds every error of one operation, such as all syntax errors of
// a parse, in report order.
type List struct {
	Errors []*Error
}

// Add appends err to the list
func (l *List) Add(err *Error) {
	l.Errors = append(l.Errors, err)
}

// Len returns the number of errors
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Errors)
}

// Err returns the list as an error, or nil when it is empty
func (l *List) Err() error {
	if l.Len() == 0 {
		return nil
	}
	return l
}

func (l *List) Error() string {
	switch len(l.Errors) {
	case 0:
		return "no errors"
	case 1:
		return l.Errors[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(l.Errors))
	for _, e := range l.Errors {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As
func (l *List) Unwrap() []error {
	out := make([]error, len(l.Errors))
	for i, e := range l.Errors {
		out[i] = e
	}
	return out
}

// Is reports whether target matches this error type
func (l *List) Is(target error) bool {
	_, ok := target.(*List)
	return ok
}

// Combine merges errors into one, skipping nils. It returns nil when
// every input is nil.
func Combine(errs ...error) error {
	return multierr.Combine(errs...)
}

// Append adds err to into, either of which may be nil.
func Append(into, err error) error {
	return multierr.Append(into, err)
}

// Flatten returns the errors merged by Combine or Append.
func Flatten(err error) []error {
	return multierr.Errors(err)
}
