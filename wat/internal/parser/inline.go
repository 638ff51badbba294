package parser

import (
	"github.com/wippyai/wat-syntax/wat/cst"
	"github.com/wippyai/wat-syntax/wat/token"
)

// inline_import = '(' 'import' STRING STRING ')'
//
// It never commits: '(' 'import' may still start a field of its own.
func inlineImport(p *Parser) bool {
	s := p.enter("inline_import", cst.InlineImport)
	s.parse(lpar, tok(token.ImportKey), str, str, rpar)
	return s.exit(nil)
}

// inline_export = '(' 'export' STRING ')'
func inlineExport(p *Parser) bool {
	s := p.enter("inline_export", cst.InlineExport)
	s.parse(lpar, tok(token.ExportKey))
	s.pin()
	s.parse(str, rpar)
	return s.exit(nil)
}

// inline_elem = REFTYPE '(' 'elem' (instr+ | elemlist)? ')'
func inlineElem(p *Parser) bool {
	s := p.enter("inline_elem", cst.InlineElem)
	s.parse(refType, lpar, func(p *Parser) bool {
		return p.keyed("inline_elem_aux", tok(token.ElemKey), opt(choice(plus(instr), elemList)))
	})
	s.pin()
	s.parse(rpar)
	return s.exit(nil)
}

// inline_data = '(' 'data' STRING* ')'
func inlineData(p *Parser) bool {
	return p.paren("inline_data", cst.InlineData, func(p *Parser) bool {
		return p.keyed("inline_data_aux", tok(token.DataKey), star(str))
	})
}
