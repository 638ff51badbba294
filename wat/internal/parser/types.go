package parser

import (
	"github.com/wippyai/wat-syntax/wat/cst"
	"github.com/wippyai/wat-syntax/wat/token"
)

// functype = '(' 'func' param* result* ')'
func funcType(p *Parser) bool {
	s := p.enter("functype", cst.FuncType)
	s.parse(lpar, tok(token.FuncKey))
	s.pin()
	s.parse(star(param), star(result), rpar)
	return s.exit(nil)
}

// param = '(' 'param' (IDENTIFIER valtype | valtype*) ')'
func param(p *Parser) bool {
	return p.paren("param", cst.Param, func(p *Parser) bool {
		return p.keyed("param_aux", tok(token.ParamKey), choice(seq(ident, valType), star(valType)))
	})
}

// result = '(' 'result' valtype* ')'
func result(p *Parser) bool {
	return p.paren("result", cst.Result, func(p *Parser) bool {
		return p.keyed("result_aux", tok(token.ResultKey), star(valType))
	})
}

// typeuse tries its seven shapes longest first; the grammar is not
// LL(1) without the ordering.
func typeUse(p *Parser) bool {
	s := p.enter("typeuse", cst.TypeUse)
	s.parse(choice(
		seq(typeRef, plus(param), plus(result)),
		seq(typeRef, plus(param)),
		seq(typeRef, plus(result)),
		typeRef,
		seq(plus(param), plus(result)),
		plus(param),
		plus(result),
	))
	return s.exit(nil)
}

// typeref = '(' 'type' idx ')'
func typeRef(p *Parser) bool {
	s := p.enter("typeref", cst.TypeRef)
	s.parse(lpar, tok(token.TypeKey))
	s.pin()
	s.parse(idx, rpar)
	return s.exit(nil)
}

// valtype = NUMTYPE | REFTYPE
func valType(p *Parser) bool {
	s := p.enterLabeled("valtype", cst.ValType, "<valtype>")
	s.parse(choice(tok(token.NumType), refType))
	return s.exit(nil)
}

// blocktype = result | typeuse
func blockType(p *Parser) bool {
	s := p.enter("blocktype", cst.BlockType)
	s.parse(choice(result, typeUse))
	return s.exit(nil)
}

// globaltype = valtype | '(' 'mut' valtype ')'
func globalType(p *Parser) bool {
	s := p.enterLabeled("globaltype", cst.GlobalType, "<globaltype>")
	s.parse(choice(valType, mutGlobalType))
	return s.exit(nil)
}

func mutGlobalType(p *Parser) bool {
	s := p.enter("globaltype_mut", noNode)
	s.parse(lpar, tok(token.MutKey))
	s.pin()
	s.parse(valType, rpar)
	return s.exit(nil)
}

// tabletype = memtype REFTYPE
func tableType(p *Parser) bool {
	s := p.enter("tabletype", cst.TableType)
	s.parse(memType, refType)
	return s.exit(nil)
}

// memtype = UNSIGNED UNSIGNED?
func memType(p *Parser) bool {
	s := p.enter("memtype", cst.MemType)
	s.parse(unsigned, opt(unsigned))
	return s.exit(nil)
}

// idx = UNSIGNED | IDENTIFIER
func idx(p *Parser) bool {
	s := p.enterLabeled("idx", cst.Idx, "<idx>")
	s.parse(choice(unsigned, ident))
	return s.exit(nil)
}
