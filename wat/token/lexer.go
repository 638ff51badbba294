package token

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wippyai/wat-syntax/wat/internal/opcode"
)

var keywords = map[string]Kind{
	"module":  ModuleKey,
	"type":    TypeKey,
	"func":    FuncKey,
	"param":   ParamKey,
	"result":  ResultKey,
	"local":   LocalKey,
	"import":  ImportKey,
	"export":  ExportKey,
	"table":   TableKey,
	"memory":  MemoryKey,
	"global":  GlobalKey,
	"start":   StartKey,
	"elem":    ElemKey,
	"data":    DataKey,
	"block":   BlockKey,
	"loop":    LoopKey,
	"if":      IfKey,
	"then":    ThenKey,
	"else":    ElseKey,
	"end":     EndKey,
	"mut":     MutKey,
	"offset":  OffsetKey,
	"item":    ItemKey,
	"declare": DeclareKey,
	"extern":  ExternKey,

	"i32":       NumType,
	"i64":       NumType,
	"f32":       NumType,
	"f64":       NumType,
	"funcref":   RefType,
	"externref": RefType,
}

var instrKinds = map[opcode.Class]Kind{
	opcode.Numeric:      NumericInstr,
	opcode.Control:      ControlInstr,
	opcode.ControlIdx:   ControlInstrIdx,
	opcode.Call:         CallInstr,
	opcode.CallIndirect: CallIndirectInstr,
	opcode.BrTable:      BrTableInstr,
	opcode.RefIsNull:    RefIsNullInstr,
	opcode.RefNull:      RefNullInstr,
	opcode.RefFunc:      RefFuncInstr,
	opcode.Parametric:   ParametricInstr,
	opcode.Local:        LocalInstr,
	opcode.Global:       GlobalInstr,
	opcode.TableIdx:     TableInstrIdx,
	opcode.TableCopy:    TableCopyInstr,
	opcode.TableInit:    TableInitInstr,
	opcode.ElemDrop:     ElemDropInstr,
	opcode.Memory:       MemoryInstr,
	opcode.MemoryIdx:    MemoryInstrIdx,
	opcode.MemoryMemarg: MemoryInstrMemarg,
	opcode.IConst:       IConst,
	opcode.FConst:       FConst,
}

// Tokenize splits input into tokens. It never fails: every byte of the
// input belongs to exactly one token, and anything that is not valid
// text-format syntax comes out as BadToken. Whitespace and comments are
// returned as trivia tokens.
func Tokenize(input string) []Token {
	var tokens []Token
	emit := func(kind Kind, start, end int) {
		tokens = append(tokens, Token{input[start:end], kind, start, end})
	}

	for i := 0; i < len(input); {
		c := input[i]
		start := i

		switch {
		case isSpace(c):
			for i < len(input) && isSpace(input[i]) {
				i++
			}
			emit(Whitespace, start, i)

		case c == ';' && i+1 < len(input) && input[i+1] == ';':
			for i < len(input) && input[i] != '\n' {
				i++
			}
			emit(LineComment, start, i)

		case c == '(' && i+1 < len(input) && input[i+1] == ';':
			end, ok := blockComment(input, i)
			i = end
			if ok {
				emit(BlockComment, start, i)
			} else {
				emit(BadToken, start, i)
			}

		case c == '(':
			i++
			emit(LPar, start, i)

		case c == ')':
			i++
			emit(RPar, start, i)

		case c == '"':
			end, ok := stringLiteral(input, i)
			i = end
			if ok {
				emit(String, start, i)
			} else {
				emit(BadToken, start, i)
			}

		default:
			r, size := utf8.DecodeRuneInString(input[i:])
			if !isIDChar(r) {
				i += size
				emit(BadToken, start, i)
				continue
			}
			for i < len(input) {
				r, size := utf8.DecodeRuneInString(input[i:])
				if !isIDChar(r) {
					break
				}
				i += size
			}
			tokens = appendWord(tokens, input, start, i)
		}
	}

	return tokens
}

// appendWord classifies a run of identifier characters. offset= and
// align= split into the keyword and the number that follows it.
func appendWord(tokens []Token, input string, start, end int) []Token {
	word := input[start:end]
	for _, eq := range []struct {
		prefix string
		kind   Kind
	}{{"offset=", OffsetEqKey}, {"align=", AlignEqKey}} {
		if strings.HasPrefix(word, eq.prefix) {
			mid := start + len(eq.prefix)
			tokens = append(tokens, Token{input[start:mid], eq.kind, start, mid})
			if mid < end {
				tokens = append(tokens, Token{input[mid:end], classify(input[mid:end]), mid, end})
			}
			return tokens
		}
	}
	return append(tokens, Token{word, classify(word), start, end})
}

func classify(word string) Kind {
	if word[0] == '$' {
		if len(word) > 1 {
			return Identifier
		}
		return BadToken
	}
	if k, ok := keywords[word]; ok {
		return k
	}
	if c, ok := opcode.Lookup(word); ok {
		return instrKinds[c]
	}
	return numberKind(word)
}

// numberKind recognizes integer and float literals, including hex
// floats, inf, nan and nan:0x payloads.
func numberKind(word string) Kind {
	s := word
	signed := s[0] == '+' || s[0] == '-'
	if signed {
		s = s[1:]
	}

	switch {
	case s == "inf" || s == "nan":
		return Float
	case strings.HasPrefix(s, "nan:0x"):
		if n := digits(s[6:], true); n > 0 && n == len(s)-6 {
			return Float
		}
		return BadToken
	}

	hex := strings.HasPrefix(s, "0x")
	if hex {
		s = s[2:]
	}
	n := digits(s, hex)
	if n == 0 {
		return BadToken
	}
	s = s[n:]

	float := false
	if s != "" && s[0] == '.' {
		float = true
		s = s[1:]
		s = s[digits(s, hex):]
	}
	exp := byte('e')
	if hex {
		exp = 'p'
	}
	if s != "" && s[0]|0x20 == exp {
		float = true
		s = s[1:]
		if s != "" && (s[0] == '+' || s[0] == '-') {
			s = s[1:]
		}
		n := digits(s, false)
		if n == 0 {
			return BadToken
		}
		s = s[n:]
	}

	switch {
	case s != "":
		return BadToken
	case float:
		return Float
	case signed:
		return Signed
	}
	return Unsigned
}

// digits returns the length of the digit run at the start of s.
// Underscores are allowed after the first digit.
func digits(s string, hex bool) int {
	i := 0
	for i < len(s) {
		c := s[i]
		if isDigit(c) || hex && isHexLetter(c) || c == '_' && i > 0 {
			i++
			continue
		}
		break
	}
	return i
}

// blockComment scans a nested (; ... ;) comment starting at i.
// An unterminated comment runs to the end of input.
func blockComment(input string, i int) (int, bool) {
	depth := 1
	i += 2
	for i < len(input) {
		switch {
		case input[i] == '(' && i+1 < len(input) && input[i+1] == ';':
			depth++
			i += 2
		case input[i] == ';' && i+1 < len(input) && input[i+1] == ')':
			depth--
			i += 2
			if depth == 0 {
				return i, true
			}
		default:
			i++
		}
	}
	return i, false
}

// stringLiteral scans a quoted string starting at i, honoring backslash
// escapes. An unterminated string stops before the end of its line.
func stringLiteral(input string, i int) (int, bool) {
	i++
	for i < len(input) {
		switch input[i] {
		case '"':
			return i + 1, true
		case '\\':
			if i+1 < len(input) && input[i+1] != '\n' {
				i++
			}
		case '\n':
			return i, false
		}
		i++
	}
	return i, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexLetter(c byte) bool {
	return c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// isIDChar reports whether r may appear in a keyword, identifier or
// number. Non-ASCII letters and digits are accepted in identifiers.
func isIDChar(r rune) bool {
	if r < utf8.RuneSelf {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return true
		}
		return strings.ContainsRune("!#$%&'*+-./:<=>?@\\^_`|~", r)
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
