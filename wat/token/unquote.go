package token

import (
	"unicode/utf8"

	"github.com/wippyai/wat-syntax/errors"
)

// Unquote decodes the text of a String token: the surrounding quotes are
// removed and escapes (\n \t \r \\ \" \' \XX \u{X...}) are resolved.
// The result is raw bytes since \XX may produce invalid UTF-8.
func Unquote(text string) ([]byte, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return nil, errors.InvalidInput(errors.PhaseLex, "string literal must be quoted")
	}
	s := text[1 : len(text)-1]

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if i+1 >= len(s) {
			return nil, escapeError(s[i:])
		}

		if s[i+1] == 'u' {
			end := i + 3
			for end < len(s) && s[end] != '}' {
				end++
			}
			if i+2 >= len(s) || s[i+2] != '{' || end >= len(s) {
				return nil, escapeError(s[i:min(i+2, len(s))])
			}
			r, ok := parseHex(s[i+3 : end])
			if !ok || !utf8.ValidRune(r) {
				return nil, escapeError(s[i : end+1])
			}
			out = utf8.AppendRune(out, r)
			i = end
			continue
		}

		if i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
			out = append(out, hexValue(s[i+1])<<4|hexValue(s[i+2]))
			i += 2
			continue
		}

		switch s[i+1] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '\\', '"', '\'':
			out = append(out, s[i+1])
		default:
			return nil, escapeError(s[i : i+2])
		}
		i++
	}
	return out, nil
}

func escapeError(seq string) error {
	return errors.New(errors.PhaseLex, errors.KindInvalidInput).
		Value(seq).
		Detail("invalid escape %q", seq).
		Build()
}

func parseHex(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	var val rune
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			continue
		}
		if !isHexDigit(c) || val > utf8.MaxRune {
			return 0, false
		}
		val = val<<4 | rune(hexValue(c))
	}
	return val, true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
