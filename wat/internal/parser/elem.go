package parser

import (
	"github.com/wippyai/wat-syntax/wat/cst"
	"github.com/wippyai/wat-syntax/wat/token"
)

// elem = '(' 'elem' IDENTIFIER?
//
//	( ('(' 'table' idx ')')? (instr | '(' 'offset' instr* ')') | 'declare' )?
//	elemlist ')'
func elemField(p *Parser) bool {
	return p.paren("elem", cst.Elem, func(p *Parser) bool {
		return p.keyed("elem_aux", tok(token.ElemKey), optIdent, opt(choice(
			seq(opt(seq(lpar, tok(token.TableKey), idx, rpar)), offsetExpr),
			tok(token.DeclareKey),
		)), elemList)
	})
}

// offsetExpr = instr | '(' 'offset' instr* ')'
func offsetExpr(p *Parser) bool {
	return choice(instr, seq(lpar, tok(token.OffsetKey), star(instr), rpar))(p)
}

// elemlist = REFTYPE (instr | '(' 'item' instr* ')')* | 'func'? idx*
func elemList(p *Parser) bool {
	s := p.enterLabeled("elemlist", cst.ElemList, "<elemlist>")
	s.parse(choice(
		seq(refType, star(choice(instr, seq(lpar, tok(token.ItemKey), star(instr), rpar)))),
		seq(opt(tok(token.FuncKey)), star(idx)),
	))
	return s.exit(nil)
}

// data = '(' 'data' IDENTIFIER? (memuse? offset)? STRING* ')'
func dataField(p *Parser) bool {
	return p.paren("data", cst.Data, func(p *Parser) bool {
		return p.keyed("data_aux", tok(token.DataKey), optIdent,
			opt(seq(opt(memUse), offsetExpr)), star(str))
	})
}

// memuse = '(' 'memory' idx ')'
func memUse(p *Parser) bool {
	s := p.enter("memuse", noNode)
	s.parse(lpar, tok(token.MemoryKey))
	s.pin()
	s.parse(idx, rpar)
	return s.exit(nil)
}
