package token

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type kt struct {
	Kind Kind
	Text string
}

func significant(tokens []Token) []kt {
	var out []kt
	for _, tok := range tokens {
		if !tok.Kind.IsTrivia() {
			out = append(out, kt{tok.Kind, tok.Text})
		}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []kt
	}{
		{
			"empty",
			"",
			nil,
		},
		{
			"parens",
			"()",
			[]kt{{LPar, "("}, {RPar, ")"}},
		},
		{
			"module",
			"(module)",
			[]kt{{LPar, "("}, {ModuleKey, "module"}, {RPar, ")"}},
		},
		{
			"whitespace",
			"  (  module  )  ",
			[]kt{{LPar, "("}, {ModuleKey, "module"}, {RPar, ")"}},
		},
		{
			"identifier",
			"$foo",
			[]kt{{Identifier, "$foo"}},
		},
		{
			"lone_dollar",
			"$",
			[]kt{{BadToken, "$"}},
		},
		{
			"unicode_identifier",
			"$日本語",
			[]kt{{Identifier, "$日本語"}},
		},
		{
			"types",
			"i32 i64 f32 f64 funcref externref",
			[]kt{{NumType, "i32"}, {NumType, "i64"}, {NumType, "f32"}, {NumType, "f64"}, {RefType, "funcref"}, {RefType, "externref"}},
		},
		{
			"unsigned",
			"42 0xFF 1_000_000",
			[]kt{{Unsigned, "42"}, {Unsigned, "0xFF"}, {Unsigned, "1_000_000"}},
		},
		{
			"signed",
			"-42 +7 -0x10",
			[]kt{{Signed, "-42"}, {Signed, "+7"}, {Signed, "-0x10"}},
		},
		{
			"float",
			"3.14 1e10 1e-10 0x1.5p10 1. -inf nan nan:0x1234",
			[]kt{{Float, "3.14"}, {Float, "1e10"}, {Float, "1e-10"}, {Float, "0x1.5p10"}, {Float, "1."}, {Float, "-inf"}, {Float, "nan"}, {Float, "nan:0x1234"}},
		},
		{
			"bad_numbers",
			"1abc 1e nan:0x",
			[]kt{{BadToken, "1abc"}, {BadToken, "1e"}, {BadToken, "nan:0x"}},
		},
		{
			"string",
			`"hello"`,
			[]kt{{String, `"hello"`}},
		},
		{
			"string_escape",
			`"say \"hi\"\n"`,
			[]kt{{String, `"say \"hi\"\n"`}},
		},
		{
			"unterminated_string",
			"\"abc\n)",
			[]kt{{BadToken, `"abc`}, {RPar, ")"}},
		},
		{
			"memarg",
			"i32.load offset=8 align=4",
			[]kt{{MemoryInstrMemarg, "i32.load"}, {OffsetEqKey, "offset="}, {Unsigned, "8"}, {AlignEqKey, "align="}, {Unsigned, "4"}},
		},
		{
			"instructions",
			"local.get br_if call_indirect ref.null i32.const f64.const i32.add drop",
			[]kt{
				{LocalInstr, "local.get"}, {ControlInstrIdx, "br_if"}, {CallIndirectInstr, "call_indirect"},
				{RefNullInstr, "ref.null"}, {IConst, "i32.const"}, {FConst, "f64.const"},
				{NumericInstr, "i32.add"}, {ParametricInstr, "drop"},
			},
		},
		{
			"unknown_word",
			"frobnicate",
			[]kt{{BadToken, "frobnicate"}},
		},
		{
			"stray_characters",
			"(, ;)",
			[]kt{{LPar, "("}, {BadToken, ","}, {BadToken, ";"}, {RPar, ")"}},
		},
		{
			"unterminated_block_comment",
			"(module (; never closed",
			[]kt{{LPar, "("}, {ModuleKey, "module"}, {BadToken, "(; never closed"}},
		},
		{
			"complex",
			`(module (func $add (param i32 i32) (result i32) (i32.add (local.get 0) (local.get 1))))`,
			[]kt{
				{LPar, "("}, {ModuleKey, "module"},
				{LPar, "("}, {FuncKey, "func"}, {Identifier, "$add"},
				{LPar, "("}, {ParamKey, "param"}, {NumType, "i32"}, {NumType, "i32"}, {RPar, ")"},
				{LPar, "("}, {ResultKey, "result"}, {NumType, "i32"}, {RPar, ")"},
				{LPar, "("}, {NumericInstr, "i32.add"},
				{LPar, "("}, {LocalInstr, "local.get"}, {Unsigned, "0"}, {RPar, ")"},
				{LPar, "("}, {LocalInstr, "local.get"}, {Unsigned, "1"}, {RPar, ")"},
				{RPar, ")"}, {RPar, ")"}, {RPar, ")"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := significant(Tokenize(tt.input))
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestTokenizeTrivia(t *testing.T) {
	input := ";; line\n(; block (; nested ;) ;)(module)"
	var got []Kind
	for _, tok := range Tokenize(input) {
		got = append(got, tok.Kind)
	}
	want := []Kind{LineComment, Whitespace, BlockComment, LPar, ModuleKey, RPar}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeCoversInput(t *testing.T) {
	inputs := []string{
		"",
		"(module)",
		"(module (func $f (param i32) (result i32) local.get 0))",
		"\x00\xff junk ;; \n (; x",
		`(data "\"unterminated`,
		"(memory 1) (export \"m\" (memory 0))\r\n",
	}
	for _, input := range inputs {
		var b strings.Builder
		pos := 0
		for _, tok := range Tokenize(input) {
			if tok.Start != pos {
				t.Fatalf("%q: token %v starts at %d, want %d", input, tok, tok.Start, pos)
			}
			if tok.End <= tok.Start {
				t.Fatalf("%q: empty token %v", input, tok)
			}
			b.WriteString(tok.Text)
			pos = tok.End
		}
		if b.String() != input {
			t.Errorf("concatenated tokens = %q, want %q", b.String(), input)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		want string
		kind Kind
	}{
		{"'('", LPar},
		{"')'", RPar},
		{"IDENTIFIER", Identifier},
		{"STRING", String},
		{"'module'", ModuleKey},
		{"'offset='", OffsetEqKey},
		{"NUMTYPE", NumType},
		{"MEMORYINSTR_MEMARG", MemoryInstrMemarg},
		{"Kind(999)", Kind(999)},
	}

	for _, tt := range tests {
		got := tt.kind.String()
		if got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestKindPredicates(t *testing.T) {
	if !Whitespace.IsTrivia() || !BlockComment.IsTrivia() || LPar.IsTrivia() {
		t.Error("IsTrivia misclassifies")
	}
	if !BlockKey.IsInstrKey() || !NumericInstr.IsInstrKey() || EndKey.IsInstrKey() || ThenKey.IsInstrKey() {
		t.Error("IsInstrKey misclassifies")
	}
	for _, k := range InstrKeys() {
		if !k.IsInstrKey() {
			t.Errorf("InstrKeys contains %v which is not an instruction key", k)
		}
	}
	if !AlignEqKey.IsKeyword() || NumType.IsKeyword() {
		t.Error("IsKeyword misclassifies")
	}
}
