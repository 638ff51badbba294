package parser

import (
	"github.com/wippyai/wat-syntax/wat/cst"
	"github.com/wippyai/wat-syntax/wat/token"
)

// instr = foldeinstr | plaininstr | blockinstr
func instr(p *Parser) bool {
	s := p.enterLabeled("instr", cst.Instr, "<instr>")
	s.parse(choice(foldeInstr, plainInstr, blockInstr))
	return s.exit(nil)
}

// plainInstr lists the unfolded instruction shapes. Alternatives are
// tried in this order.
func plainInstr(p *Parser) bool {
	s := p.enterLabeled("plaininstr", cst.PlainInstr, "<plaininstr>")
	s.parse(choice(
		tok(token.ControlInstr),
		seq(tok(token.ControlInstrIdx), idx),
		callInstr,
		seq(tok(token.BrTableInstr), plus(idx)),
		callIndirectInstr,
		tok(token.RefIsNullInstr),
		seq(tok(token.RefNullInstr), choice(tok(token.FuncKey), tok(token.ExternKey))),
		keyIdx("ref_func_instr", cst.RefFuncInstr, token.RefFuncInstr),
		tok(token.ParametricInstr),
		keyIdx("local_instr", cst.LocalInstr, token.LocalInstr),
		keyIdx("global_instr", cst.GlobalInstr, token.GlobalInstr),
		tableIdxInstr,
		tableCopyInstr,
		tableInitInstr,
		keyIdx("elem_drop_instr", cst.ElemDropInstr, token.ElemDropInstr),
		tok(token.MemoryInstr),
		keyIdx("memory_idx_instr", cst.MemoryIdxInstr, token.MemoryInstrIdx),
		seq(tok(token.MemoryInstrMemarg), opt(offsetEq), opt(alignEq)),
		seq(tok(token.IConst), choice(unsigned, tok(token.Signed))),
		seq(tok(token.FConst), choice(tok(token.Float), unsigned, tok(token.Signed))),
		tok(token.NumericInstr),
	))
	return s.exit(nil)
}

// keyIdx builds KEY idx rules that commit on the keyword.
func keyIdx(name string, kind cst.Kind, key token.Kind) rule {
	return func(p *Parser) bool {
		s := p.enter(name, kind)
		s.parse(tok(key))
		s.pin()
		s.parse(idx)
		return s.exit(nil)
	}
}

// call_instr = CALLINSTR idx
func callInstr(p *Parser) bool {
	return keyIdx("call_instr", cst.CallInstr, token.CallInstr)(p)
}

// call_indirect_instr = CALLINDIRECTINSTR idx? typeuse?
func callIndirectInstr(p *Parser) bool {
	s := p.enter("call_indirect_instr", cst.CallIndirectInstr)
	s.parse(tok(token.CallIndirectInstr))
	s.pin()
	s.parse(opt(idx), opt(typeUse))
	return s.exit(nil)
}

// table_idx_instr = TABLEINSTR_IDX idx?
func tableIdxInstr(p *Parser) bool {
	s := p.enter("table_idx_instr", cst.TableIdxInstr)
	s.parse(tok(token.TableInstrIdx))
	s.pin()
	s.parse(opt(idx))
	return s.exit(nil)
}

// table_copy_instr = TABLECOPYINSTR idx? idx?
func tableCopyInstr(p *Parser) bool {
	s := p.enter("table_copy_instr", cst.TableCopyInstr)
	s.parse(tok(token.TableCopyInstr))
	s.pin()
	s.parse(opt(idx), opt(idx))
	return s.exit(nil)
}

// table_init_instr = TABLEINITINSTR idx idx?
func tableInitInstr(p *Parser) bool {
	s := p.enter("table_init_instr", cst.TableInitInstr)
	s.parse(tok(token.TableInitInstr))
	s.pin()
	s.parse(idx, opt(idx))
	return s.exit(nil)
}

// offseteq = 'offset=' UNSIGNED
func offsetEq(p *Parser) bool {
	s := p.enter("offseteq", cst.Offseteq)
	s.parse(tok(token.OffsetEqKey))
	s.pin()
	s.parse(unsigned)
	return s.exit(offsetRecover)
}

// aligneq = 'align=' UNSIGNED
func alignEq(p *Parser) bool {
	s := p.enter("aligneq", cst.Aligneq)
	s.parse(tok(token.AlignEqKey))
	s.pin()
	s.parse(unsigned)
	return s.exit(alignRecover)
}

// blockinstr = block | loop | if
func blockInstr(p *Parser) bool {
	s := p.enterLabeled("blockinstr", cst.BlockInstr, "<blockinstr>")
	s.parse(choice(block, loop, ifBlock))
	return s.exit(nil)
}

// block = 'block' IDENTIFIER? blocktype? instr* 'end' IDENTIFIER?
func block(p *Parser) bool {
	return p.blockBody("block", token.BlockKey, nil)
}

// loop = 'loop' IDENTIFIER? blocktype? instr* 'end' IDENTIFIER?
func loop(p *Parser) bool {
	return p.blockBody("loop", token.LoopKey, nil)
}

// if = foldeinstr* 'if' IDENTIFIER? blocktype? instr*
//
//	('else' IDENTIFIER? instr*)? 'end' IDENTIFIER?
func ifBlock(p *Parser) bool {
	s := p.enter("if", noNode)
	s.parse(star(foldeInstr), tok(token.IfKey))
	s.pin()
	s.parse(
		func(p *Parser) bool {
			return p.blockAux("if_aux", opt(seq(tok(token.ElseKey), optIdent, star(instr))))
		},
		tok(token.EndKey),
		optIdent,
	)
	return s.exit(nil)
}

func (p *Parser) blockBody(name string, key token.Kind, tail rule) bool {
	s := p.enter(name, noNode)
	s.parse(tok(key))
	s.pin()
	s.parse(
		func(p *Parser) bool { return p.blockAux(name+"_aux", tail) },
		tok(token.EndKey),
		optIdent,
	)
	return s.exit(nil)
}

// blockAux parses a block body up to 'end'. Tokens that do not form an
// instruction are skipped up to the next 'end'.
func (p *Parser) blockAux(name string, tail rule) bool {
	s := p.enter(name, noNode)
	s.parse(optIdent, opt(blockType), star(instr))
	if tail != nil {
		s.parse(tail)
	}
	return s.exit(blockRecover)
}

// foldeinstr = '(' plaininstr foldeinstr* ')'
//
//	| '(' 'block' IDENTIFIER? blocktype? instr* ')' IDENTIFIER?
//	| '(' 'loop' IDENTIFIER? blocktype? instr* ')' IDENTIFIER?
//	| '(' 'if' IDENTIFIER? blocktype? foldeinstr* then else? ')'
func foldeInstr(p *Parser) bool {
	s := p.enter("foldeinstr", cst.FoldedInstr)
	s.parse(choice(foldedPlain, foldedBlock("foldeinstr_block", token.BlockKey),
		foldedBlock("foldeinstr_loop", token.LoopKey), foldedIf))
	return s.exit(nil)
}

func foldedPlain(p *Parser) bool {
	return p.paren("foldeinstr_plaininstr", noNode, func(p *Parser) bool {
		return p.keyed("foldeinstr_plaininstr_aux", plainInstr, star(foldeInstr))
	})
}

func foldedBlock(name string, key token.Kind) rule {
	return func(p *Parser) bool {
		s := p.enter(name, noNode)
		s.parse(lpar, func(p *Parser) bool {
			return p.keyed(name+"_aux", tok(key), optIdent, opt(blockType), star(instr))
		})
		s.pin()
		s.parse(rpar, optIdent)
		return s.exit(nil)
	}
}

func foldedIf(p *Parser) bool {
	return p.paren("foldeinstr_if", noNode, func(p *Parser) bool {
		return p.keyed("foldeinstr_if_aux", tok(token.IfKey),
			optIdent, opt(blockType), star(foldeInstr), thenBranch, opt(elseBranch))
	})
}

// then = '(' 'then' instr* ')'
func thenBranch(p *Parser) bool {
	return p.paren("then", cst.Then, func(p *Parser) bool {
		return p.keyed("then_aux", tok(token.ThenKey), star(instr))
	})
}

// else = '(' 'else' instr* ')'
func elseBranch(p *Parser) bool {
	return p.paren("else", cst.Else, func(p *Parser) bool {
		return p.keyed("else_aux", tok(token.ElseKey), star(instr))
	})
}
