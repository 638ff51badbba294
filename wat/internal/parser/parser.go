package parser

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/wat-syntax/wat/cst"
	"github.com/wippyai/wat-syntax/wat/internal/builder"
	"github.com/wippyai/wat-syntax/wat/token"
)

// FileEntry parses top-level items until the end of input.
const FileEntry = "file"

// Config holds per-parse settings.
type Config struct {
	Logger *zap.Logger

	// MaxDepth limits rule nesting. 0 means builder.DefaultMaxDepth,
	// negative disables the limit.
	MaxDepth int
}

// Parser drives the grammar rules over one token stream. A Parser is
// single-use and not safe for concurrent use.
type Parser struct {
	b      *builder.Builder
	log    *zap.Logger
	tokens int
}

func New(tokens []token.Token, cfg Config) *Parser {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		b:      builder.New(tokens, cfg.MaxDepth),
		log:    log,
		tokens: len(tokens),
	}
}

// entries are the rules a caller may start from besides FileEntry.
var entries = map[string]rule{
	"module":      module,
	"modulefield": moduleField,
	"instr":       instr,
	"plaininstr":  plainInstr,
	"foldeinstr":  foldeInstr,
	"blockinstr":  blockInstr,
	"typeuse":     typeUse,
	"functype":    funcType,
	"valtype":     valType,
	"globaltype":  globalType,
	"tabletype":   tableType,
	"memtype":     memType,
	"elemlist":    elemList,
	"idx":         idx,
}

// Entries returns the accepted entry names, FileEntry first.
func Entries() []string {
	names := make([]string, 0, len(entries)+1)
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return append([]string{FileEntry}, names...)
}

// Parse runs the named entry over the whole token stream. The result is
// always a File node covering every token; anything the entry rule does
// not accept ends up in Error nodes with matching diagnostics.
func (p *Parser) Parse(entry string) *cst.Node {
	var root *cst.Node
	if entry == FileEntry {
		root = p.file()
	} else {
		r, ok := entries[entry]
		if !ok {
			panic(fmt.Sprintf("parser: unknown entry %q", entry))
		}
		root = p.single(r)
	}

	if n := p.b.OpenMarkers(); n != 0 {
		panic(fmt.Sprintf("parser: %d markers left open", n))
	}
	if p.b.Overflowed() {
		p.log.Warn("rule nesting limit reached", zap.String("entry", entry))
	}
	p.log.Debug("parsed",
		zap.String("entry", entry),
		zap.Int("tokens", p.tokens),
		zap.Int("diagnostics", len(p.b.Diagnostics())))
	return root
}

// Diagnostics returns the errors reported by Parse.
func (p *Parser) Diagnostics() []builder.Diagnostic {
	return p.b.Diagnostics()
}

// file is the top-level driver: item* until the end of input. An item
// that does not parse is reported once and skipped up to the next '('.
func (p *Parser) file() *cst.Node {
	b := p.b
	m := b.Open()
	for !b.AtEnd() {
		b.ResetExpected()
		if item(p) {
			continue
		}
		p.skipItem()
	}
	b.FlushTrivia()
	return b.Complete(m, cst.File)
}

func (p *Parser) skipItem() {
	b := p.b
	start := b.Offset()
	b.ReportFurthest()
	m := b.Open()
	b.Advance()
	for !b.AtEnd() && !b.At(token.LPar) {
		b.Advance()
	}
	b.Complete(m, cst.Error)
	p.log.Debug("skipped top-level tokens",
		zap.Int("from", start),
		zap.Int("to", b.Offset()))
}

// single parses one instance of r and wraps any remaining input in an
// Error node.
func (p *Parser) single(r rule) *cst.Node {
	b := p.b
	m := b.Open()
	if !r(p) {
		b.ReportFurthest()
	}
	if !b.AtEnd() {
		b.ReportUnexpected()
		e := b.Open()
		for !b.AtEnd() {
			b.Advance()
		}
		b.Complete(e, cst.Error)
	}
	b.FlushTrivia()
	return b.Complete(m, cst.File)
}

// item = module | modulefield
func item(p *Parser) bool {
	return module(p) || moduleField(p)
}
