// Package errors provides structured error types for the wat-syntax library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: source file, byte span, config key path and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
//		Path("parser", "max_depth").
//		Value(-3).
//		Detail("must not be negative").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Syntax(12, 15, "')' expected, got 'foo'")
//	err := errors.InvalidEntry("modul", valid)
//
// A parse reports all of its syntax errors at once as a *List. Errors
// from independent operations, such as parsing several files, are merged
// with Combine and split again with Flatten.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
