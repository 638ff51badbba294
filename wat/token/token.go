package token

import "fmt"

// Kind is the lexical category of a token.
type Kind int

const (
	BadToken Kind = iota
	EOF           // never produced by Tokenize; returned by lookahead past the last token

	// Trivia
	Whitespace
	LineComment
	BlockComment

	// Structure and literals
	LPar
	RPar
	Identifier
	String
	Unsigned
	Signed
	Float

	// Keywords
	ModuleKey
	TypeKey
	FuncKey
	ParamKey
	ResultKey
	LocalKey
	ImportKey
	ExportKey
	TableKey
	MemoryKey
	GlobalKey
	StartKey
	ElemKey
	DataKey
	BlockKey
	LoopKey
	IfKey
	ThenKey
	ElseKey
	EndKey
	MutKey
	OffsetKey
	ItemKey
	DeclareKey
	ExternKey
	OffsetEqKey
	AlignEqKey

	// Types
	NumType
	RefType

	// Instruction classes
	ControlInstr
	ControlInstrIdx
	CallInstr
	CallIndirectInstr
	BrTableInstr
	RefIsNullInstr
	RefNullInstr
	RefFuncInstr
	ParametricInstr
	LocalInstr
	GlobalInstr
	TableInstrIdx
	TableCopyInstr
	TableInitInstr
	ElemDropInstr
	MemoryInstr
	MemoryInstrIdx
	MemoryInstrMemarg
	IConst
	FConst
	NumericInstr

	numKinds
)

var kindNames = [...]string{
	BadToken:     "BAD_TOKEN",
	EOF:          "<EOF>",
	Whitespace:   "WHITE_SPACE",
	LineComment:  "LINE_COMMENT",
	BlockComment: "BLOCK_COMMENT",

	LPar:       "'('",
	RPar:       "')'",
	Identifier: "IDENTIFIER",
	String:     "STRING",
	Unsigned:   "UNSIGNED",
	Signed:     "SIGNED",
	Float:      "FLOAT",

	ModuleKey:   "'module'",
	TypeKey:     "'type'",
	FuncKey:     "'func'",
	ParamKey:    "'param'",
	ResultKey:   "'result'",
	LocalKey:    "'local'",
	ImportKey:   "'import'",
	ExportKey:   "'export'",
	TableKey:    "'table'",
	MemoryKey:   "'memory'",
	GlobalKey:   "'global'",
	StartKey:    "'start'",
	ElemKey:     "'elem'",
	DataKey:     "'data'",
	BlockKey:    "'block'",
	LoopKey:     "'loop'",
	IfKey:       "'if'",
	ThenKey:     "'then'",
	ElseKey:     "'else'",
	EndKey:      "'end'",
	MutKey:      "'mut'",
	OffsetKey:   "'offset'",
	ItemKey:     "'item'",
	DeclareKey:  "'declare'",
	ExternKey:   "'extern'",
	OffsetEqKey: "'offset='",
	AlignEqKey:  "'align='",

	NumType: "NUMTYPE",
	RefType: "REFTYPE",

	ControlInstr:      "CONTROLINSTR",
	ControlInstrIdx:   "CONTROLINSTR_IDX",
	CallInstr:         "CALLINSTR",
	CallIndirectInstr: "CALLINDIRECTINSTR",
	BrTableInstr:      "BRTABLEINSTR",
	RefIsNullInstr:    "REFISNULLINST",
	RefNullInstr:      "REFNULLINSTR",
	RefFuncInstr:      "REFFUNCINSTR",
	ParametricInstr:   "PARAMETRICINSTR",
	LocalInstr:        "LOCALINSTR",
	GlobalInstr:       "GLOBALINSTR",
	TableInstrIdx:     "TABLEINSTR_IDX",
	TableCopyInstr:    "TABLECOPYINSTR",
	TableInitInstr:    "TABLEINITINSTR",
	ElemDropInstr:     "ELEMDROPINSTR",
	MemoryInstr:       "MEMORYINSTR",
	MemoryInstrIdx:    "MEMORYINSTR_IDX",
	MemoryInstrMemarg: "MEMORYINSTR_MEMARG",
	IConst:            "ICONST",
	FConst:            "FCONST",
	NumericInstr:      "NUMERICINSTR",
}

// String returns the display name used in diagnostics: quoted text for
// fixed keywords and punctuation, an upper-case category otherwise.
func (k Kind) String() string {
	if k >= 0 && k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsTrivia reports whether tokens of this kind are skipped by the grammar.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == LineComment || k == BlockComment
}

// IsComment reports whether k is a line or block comment.
func (k Kind) IsComment() bool {
	return k == LineComment || k == BlockComment
}

// IsKeyword reports whether k is a fixed keyword such as 'module' or 'offset='.
func (k Kind) IsKeyword() bool {
	return k >= ModuleKey && k <= AlignEqKey
}

// instrKeys is the set of tokens that can start an unfolded instruction,
// in grammar order.
var instrKeys = []Kind{
	BlockKey, LoopKey, IfKey,
	ControlInstr, ControlInstrIdx, CallInstr, BrTableInstr, CallIndirectInstr,
	RefIsNullInstr, RefNullInstr, RefFuncInstr, ParametricInstr,
	LocalInstr, GlobalInstr,
	TableInstrIdx, TableCopyInstr, TableInitInstr, ElemDropInstr,
	MemoryInstr, MemoryInstrIdx, MemoryInstrMemarg,
	IConst, FConst, NumericInstr,
}

// IsInstrKey reports whether k can start an unfolded instruction.
func (k Kind) IsInstrKey() bool {
	return k == BlockKey || k == LoopKey || k == IfKey || (k >= ControlInstr && k <= NumericInstr)
}

// InstrKeys returns the instruction-starting kinds in grammar order.
func InstrKeys() []Kind {
	return append([]Kind(nil), instrKeys...)
}

// Token is a lexed slice of the source. Start and End are byte offsets;
// Text is always source[Start:End].
type Token struct {
	Text  string
	Kind  Kind
	Start int
	End   int
}

func (t Token) String() string {
	return fmt.Sprintf("%v %q [%d,%d)", t.Kind, t.Text, t.Start, t.End)
}
