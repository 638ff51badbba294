package parser

import "github.com/wippyai/wat-syntax/wat/token"

// Recovery predicates hold while the next token should be skipped.
// None of them is consulted at the end of input.

func itemRecover(p *Parser) bool {
	return !p.b.At(token.RPar)
}

func blockRecover(p *Parser) bool {
	return !p.b.At(token.EndKey)
}

func alignRecover(p *Parser) bool {
	return !p.b.At(token.RPar) && !p.lookahead(instr)
}

func offsetRecover(p *Parser) bool {
	return !p.b.At(token.RPar) && !p.lookahead(alignEq) && !p.lookahead(instr)
}

func funcIdentRecover(p *Parser) bool {
	k := p.b.Peek()
	return k != token.LPar && k != token.RPar && !k.IsInstrKey()
}

func tableIdentRecover(p *Parser) bool {
	switch p.b.Peek() {
	case token.LPar, token.RPar, token.RefType, token.Unsigned:
		return false
	}
	return true
}

func moduleNameRecover(p *Parser) bool {
	switch p.b.Peek() {
	case token.String, token.LPar, token.RPar:
		return false
	}
	return true
}

// strayBeforeName matches one or more stray tokens followed by a STRING.
func strayBeforeName(p *Parser) bool {
	n := 0
	for !p.b.AtEnd() && moduleNameRecover(p) {
		p.b.Advance()
		n++
	}
	return n > 0 && p.b.At(token.String)
}

func itemNameRecover(p *Parser) bool {
	switch p.b.Peek() {
	case token.LPar, token.RPar:
		return false
	}
	return true
}
