// Package wat provides error-tolerant parsing of the WebAssembly Text format.
//
// Parsing never fails. Every input, however malformed, produces a concrete
// syntax tree that covers each byte of the source (whitespace and comments
// included) together with a list of diagnostics. This makes the package a
// fit for editors, linters and formatters that must keep working while the
// text is being typed.
//
// Basic usage:
//
//	res := wat.Parse(`(module
//		(func (export "add") (param i32 i32) (result i32)
//			(i32.add (local.get 0) (local.get 1)))
//	)`)
//	for _, d := range res.Diagnostics {
//		fmt.Println(d)
//	}
//	mod := res.Module()
//
// A parse can also start from a single grammar rule:
//
//	res := wat.ParseWithConfig("(i32.add (local.get 0) (i32.const 1))",
//		&wat.Config{Entry: wat.EntryFoldedInstr})
//
// Recognized syntax:
//   - Modules and bare module fields at the top level
//   - type, import, func, table, memory, global, export, start, elem, data
//   - Inline import/export on func, table, memory, global
//   - Inline (elem ...) in tables and inline (data ...) in memories
//   - Plain, folded and structured (block/loop/if) instructions
//   - Memory arguments offset= and align=
//   - Element lists: funcref (item ...) and func $a $b
//   - Comments: line (;;) and nested block (; ;)
//
// Recovery: once a construct has seen its distinguishing keyword it is
// committed; missing parts are reported as "X expected, got 'y'" and
// stray tokens are skipped into Error nodes up to a synchronization
// point such as the closing parenthesis or 'end'.
//
// The tree is syntactic only. Names are not resolved and the module is
// not validated or encoded.
package wat
