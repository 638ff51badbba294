package cst

import "fmt"

// Kind tags a tree node with the grammar production it was built from.
// The zero value is not a valid node kind.
type Kind uint8

const (
	Token Kind = iota + 1 // leaf holding a single lexer token
	File                  // root of every parse
	Error                 // tokens skipped during error recovery

	Module
	ModuleField
	Type
	Import
	ImportDesc
	Func
	Table
	Mem
	Global
	Export
	ExportDesc
	Start
	Elem
	ElemList
	Data
	Param
	Result
	Local
	TypeUse
	TypeRef
	Instr
	PlainInstr
	BlockInstr
	FoldedInstr
	Then
	Else
	CallInstr
	CallIndirectInstr
	RefFuncInstr
	LocalInstr
	GlobalInstr
	TableIdxInstr
	TableCopyInstr
	TableInitInstr
	ElemDropInstr
	MemoryIdxInstr
	Idx
	ValType
	BlockType
	FuncType
	TableType
	MemType
	GlobalType
	Aligneq
	Offseteq
	InlineImport
	InlineExport
	InlineElem
	InlineData
	Comment
	LexerTokens

	numKinds
)

var kindNames = [...]string{
	Token:             "Token",
	File:              "File",
	Error:             "Error",
	Module:            "Module",
	ModuleField:       "ModuleField",
	Type:              "Type",
	Import:            "Import",
	ImportDesc:        "ImportDesc",
	Func:              "Func",
	Table:             "Table",
	Mem:               "Mem",
	Global:            "Global",
	Export:            "Export",
	ExportDesc:        "ExportDesc",
	Start:             "Start",
	Elem:              "Elem",
	ElemList:          "ElemList",
	Data:              "Data",
	Param:             "Param",
	Result:            "Result",
	Local:             "Local",
	TypeUse:           "TypeUse",
	TypeRef:           "TypeRef",
	Instr:             "Instr",
	PlainInstr:        "PlainInstr",
	BlockInstr:        "BlockInstr",
	FoldedInstr:       "FoldedInstr",
	Then:              "Then",
	Else:              "Else",
	CallInstr:         "CallInstr",
	CallIndirectInstr: "CallIndirectInstr",
	RefFuncInstr:      "RefFuncInstr",
	LocalInstr:        "LocalInstr",
	GlobalInstr:       "GlobalInstr",
	TableIdxInstr:     "TableIdxInstr",
	TableCopyInstr:    "TableCopyInstr",
	TableInitInstr:    "TableInitInstr",
	ElemDropInstr:     "ElemDropInstr",
	MemoryIdxInstr:    "MemoryIdxInstr",
	Idx:               "Idx",
	ValType:           "ValType",
	BlockType:         "BlockType",
	FuncType:          "FuncType",
	TableType:         "TableType",
	MemType:           "MemType",
	GlobalType:        "GlobalType",
	Aligneq:           "Aligneq",
	Offseteq:          "Offseteq",
	InlineImport:      "InlineImport",
	InlineExport:      "InlineExport",
	InlineElem:        "InlineElem",
	InlineData:        "InlineData",
	Comment:           "Comment",
	LexerTokens:       "LexerTokens",
}

func (k Kind) String() string {
	if k > 0 && k < numKinds && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind looks a kind up by its String name.
func ParseKind(name string) (Kind, bool) {
	for k := Token; k < numKinds; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// Kinds returns every valid node kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := Token; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}
