package wat

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/wat-syntax/errors"
	"github.com/wippyai/wat-syntax/wat/cst"
	"github.com/wippyai/wat-syntax/wat/internal/parser"
	"github.com/wippyai/wat-syntax/wat/token"
)

// Entry selects the grammar rule a parse starts from.
type Entry int

const (
	EntryFile Entry = iota // items until end of input
	EntryModule
	EntryModuleField
	EntryInstr
	EntryPlainInstr
	EntryFoldedInstr
	EntryBlockInstr
	EntryTypeUse
	EntryFuncType
	EntryValType
	EntryGlobalType
	EntryTableType
	EntryMemType
	EntryElemList
	EntryIdx

	numEntries
)

var entryNames = [...]string{
	EntryFile:        parser.FileEntry,
	EntryModule:      "module",
	EntryModuleField: "modulefield",
	EntryInstr:       "instr",
	EntryPlainInstr:  "plaininstr",
	EntryFoldedInstr: "foldeinstr",
	EntryBlockInstr:  "blockinstr",
	EntryTypeUse:     "typeuse",
	EntryFuncType:    "functype",
	EntryValType:     "valtype",
	EntryGlobalType:  "globaltype",
	EntryTableType:   "tabletype",
	EntryMemType:     "memtype",
	EntryElemList:    "elemlist",
	EntryIdx:         "idx",
}

func (e Entry) String() string {
	if e >= 0 && e < numEntries {
		return entryNames[e]
	}
	return fmt.Sprintf("Entry(%d)", int(e))
}

// Entries returns every entry point, EntryFile first.
func Entries() []Entry {
	out := make([]Entry, numEntries)
	for i := range out {
		out[i] = Entry(i)
	}
	return out
}

// ParseEntry looks an entry up by its rule name, such as "module" or
// "foldeinstr".
func ParseEntry(name string) (Entry, error) {
	for e, n := range entryNames {
		if n == name {
			return Entry(e), nil
		}
	}
	return 0, errors.InvalidEntry(name, entryNames[:])
}

// MarshalText implements encoding.TextMarshaler.
func (e Entry) MarshalText() ([]byte, error) {
	if e < 0 || e >= numEntries {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidEntry).
			Value(int(e)).
			Detail("entry %d out of range", int(e)).
			Build()
	}
	return []byte(entryNames[e]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so entries can be
// given as flags and in config files by name.
func (e *Entry) UnmarshalText(text []byte) error {
	v, err := ParseEntry(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Config holds per-parse settings. A nil *Config means defaults.
type Config struct {
	// Logger overrides the package logger for this parse.
	Logger *zap.Logger

	// Entry is the rule to start from. The zero value parses a whole file.
	Entry Entry

	// MaxDepth limits rule nesting. 0 means 1000, negative disables the
	// limit.
	MaxDepth int
}

// Diagnostic is a syntax error over the byte range [Start, End) of the
// source.
type Diagnostic struct {
	Message string
	Start   int
	End     int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d-%d: %s", d.Start, d.End, d.Message)
}

// Result is the outcome of a parse: a tree that covers every token of
// the input, and the syntax errors found on the way. A Result is not
// modified after it is returned.
type Result struct {
	Root        *cst.Node
	Tokens      []token.Token
	Diagnostics []Diagnostic

	limit int
}

// Parse parses a whole source file.
func Parse(src string) *Result {
	return ParseWithConfig(src, nil)
}

// ParseWithConfig tokenizes src and parses it with cfg.
func ParseWithConfig(src string, cfg *Config) *Result {
	return ParseTokens(token.Tokenize(src), cfg)
}

// ParseTokens parses an already tokenized source. tokens must be the
// complete output of token.Tokenize, trivia included. It panics if
// cfg.Entry is not one of the declared entries.
func ParseTokens(tokens []token.Token, cfg *Config) *Result {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Entry < 0 || cfg.Entry >= numEntries {
		panic(fmt.Sprintf("wat: invalid entry %v", cfg.Entry))
	}
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}

	p := parser.New(tokens, parser.Config{Logger: log, MaxDepth: cfg.MaxDepth})
	root := p.Parse(cfg.Entry.String())

	r := &Result{Root: root, Tokens: tokens, limit: -1}
	for i, d := range p.Diagnostics() {
		if d.Limit {
			r.limit = i
		}
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Message: d.Message, Start: d.Start, End: d.End})
	}
	return r
}

// OK reports whether the parse found no syntax errors.
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Items returns the top-level Module and ModuleField nodes in source
// order.
func (r *Result) Items() []*cst.Node {
	var out []*cst.Node
	for _, n := range r.Root.Nodes() {
		if n.Kind == cst.Module || n.Kind == cst.ModuleField {
			out = append(out, n)
		}
	}
	return out
}

// Module returns the first top-level Module node, or nil.
func (r *Result) Module() *cst.Node {
	return r.Root.Child(cst.Module)
}

// Err returns the diagnostics as an *errors.List, or nil if there are
// none. Diagnostics on text the lexer rejected have kind bad_token; the
// nesting limit has kind recursion_limit.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	list := &errors.List{}
	for i, d := range r.Diagnostics {
		switch {
		case i == r.limit:
			list.Add(errors.RecursionLimit(d.Start, d.End, d.Message))
		case r.badTokenAt(d.Start):
			list.Add(errors.BadToken(d.Start, d.End, r.Tokens[r.tokenAt(d.Start)].Text))
		default:
			list.Add(errors.Syntax(d.Start, d.End, d.Message))
		}
	}
	return list.Err()
}

// tokenAt returns the index of the token starting at offset, or
// len(r.Tokens).
func (r *Result) tokenAt(offset int) int {
	i := sort.Search(len(r.Tokens), func(i int) bool {
		return r.Tokens[i].Start >= offset
	})
	if i < len(r.Tokens) && r.Tokens[i].Start == offset {
		return i
	}
	return len(r.Tokens)
}

func (r *Result) badTokenAt(offset int) bool {
	i := r.tokenAt(offset)
	return i < len(r.Tokens) && r.Tokens[i].Kind == token.BadToken
}
