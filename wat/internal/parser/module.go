package parser

import (
	"github.com/wippyai/wat-syntax/wat/cst"
	"github.com/wippyai/wat-syntax/wat/token"
)

// module = '(' 'module' IDENTIFIER? modulefield* ')'
func module(p *Parser) bool {
	return p.paren("module", cst.Module, moduleAux)
}

func moduleAux(p *Parser) bool {
	return p.keyed("module_aux", tok(token.ModuleKey), optIdent, star(moduleField))
}

// modulefield = type | import | func | table | mem | global | export | start | elem | data
func moduleField(p *Parser) bool {
	s := p.enter("modulefield", cst.ModuleField)
	s.parse(choice(typeField, importField, funcField, tableField, memField,
		globalField, exportField, startField, elemField, dataField))
	return s.exit(nil)
}

// type = '(' 'type' IDENTIFIER? functype ')'
func typeField(p *Parser) bool {
	return p.paren("type", cst.Type, func(p *Parser) bool {
		return p.keyed("type_aux", tok(token.TypeKey), optIdent, funcType)
	})
}

// import = '(' 'import' STRING STRING importdesc ')'
func importField(p *Parser) bool {
	return p.paren("import", cst.Import, func(p *Parser) bool {
		return p.keyed("import_aux", tok(token.ImportKey), moduleName, itemName, importDesc)
	})
}

// importdesc = (func IDENTIFIER? typeuse?) | (table IDENTIFIER? tabletype)
//
//	| (memory IDENTIFIER? memtype) | (global IDENTIFIER? globaltype)
func importDesc(p *Parser) bool {
	s := p.enter("importdesc", cst.ImportDesc)
	s.parse(choice(
		descriptor("importdesc_func", token.FuncKey, optIdent, opt(typeUse)),
		descriptor("importdesc_table", token.TableKey, optIdent, tableType),
		descriptor("importdesc_memory", token.MemoryKey, optIdent, memType),
		descriptor("importdesc_global", token.GlobalKey, optIdent, globalType),
	))
	return s.exit(nil)
}

// export = '(' 'export' STRING exportdesc ')'
func exportField(p *Parser) bool {
	return p.paren("export", cst.Export, func(p *Parser) bool {
		return p.keyed("export_aux", tok(token.ExportKey), itemName, exportDesc)
	})
}

// exportdesc = (func idx) | (table idx) | (memory idx) | (global idx)
func exportDesc(p *Parser) bool {
	s := p.enter("exportdesc", cst.ExportDesc)
	s.parse(choice(
		descriptor("exportdesc_func", token.FuncKey, idx),
		descriptor("exportdesc_table", token.TableKey, idx),
		descriptor("exportdesc_memory", token.MemoryKey, idx),
		descriptor("exportdesc_global", token.GlobalKey, idx),
	))
	return s.exit(nil)
}

// descriptor parses '(' key body ')' without a node of its own.
func descriptor(name string, key token.Kind, body ...rule) rule {
	return func(p *Parser) bool {
		return p.paren(name, noNode, func(p *Parser) bool {
			return p.keyed(name+"_aux", tok(key), body...)
		})
	}
}

// start = '(' 'start' idx ')'
func startField(p *Parser) bool {
	return p.paren("start", cst.Start, func(p *Parser) bool {
		return p.keyed("start_aux", tok(token.StartKey), idx)
	})
}

// table = '(' 'table' IDENTIFIER? ( inline_elem
//
//	| inline_import? tabletype
//	| inline_export (inline_import | inline_export | inline_elem)? tabletype? ) ')'
func tableField(p *Parser) bool {
	return p.paren("table", cst.Table, func(p *Parser) bool {
		return p.keyed("table_aux", tok(token.TableKey), opt(tableIdent), choice(
			inlineElem,
			seq(opt(inlineImport), tableType),
			seq(inlineExport, opt(choice(inlineImport, inlineExport, inlineElem)), opt(tableType)),
		))
	})
}

// mem = '(' 'memory' IDENTIFIER? ( inline_data
//
//	| inline_import? memtype
//	| inline_export (inline_import | inline_export | inline_data)* memtype ) ')'
func memField(p *Parser) bool {
	return p.paren("memory", cst.Mem, func(p *Parser) bool {
		return p.keyed("memory_aux", tok(token.MemoryKey), optIdent, choice(
			inlineData,
			seq(opt(inlineImport), memType),
			seq(inlineExport, star(choice(inlineImport, inlineExport, inlineData)), memType),
		))
	})
}

// global = '(' 'global' IDENTIFIER? ( inline_import globaltype
//
//	| (inline_export (inline_import | inline_export)?)? globaltype instr* ) ')'
func globalField(p *Parser) bool {
	return p.paren("global", cst.Global, func(p *Parser) bool {
		return p.keyed("global_aux", tok(token.GlobalKey), optIdent, choice(
			seq(inlineImport, globalType),
			seq(opt(seq(inlineExport, opt(choice(inlineImport, inlineExport)))), globalType, star(instr)),
		))
	})
}

// func = '(' 'func' IDENTIFIER? ( inline_import typeuse?
//
//	| (inline_export (inline_export | inline_import)?)? typeuse? local* instr* ) ')'
func funcField(p *Parser) bool {
	return p.paren("func", cst.Func, funcAux)
}

func funcAux(p *Parser) bool {
	return p.keyed("func_aux", tok(token.FuncKey), opt(funcIdent), choice(
		seq(inlineImport, opt(typeUse)),
		seq(opt(seq(inlineExport, opt(choice(inlineExport, inlineImport)))), opt(typeUse), star(local), star(instr)),
	))
}

// local = '(' 'local' (IDENTIFIER valtype | valtype*) ')'
func local(p *Parser) bool {
	return p.paren("local", cst.Local, func(p *Parser) bool {
		return p.keyed("local_aux", tok(token.LocalKey), choice(seq(ident, valType), star(valType)))
	})
}

// funcIdent is the optional function name. A stray token in its place is
// skipped up to the next '(', ')' or instruction.
func funcIdent(p *Parser) bool {
	s := p.enterGlue("func_ident")
	s.parse(ident)
	return s.exit(funcIdentRecover)
}

// tableIdent is the optional table name. A stray token in its place is
// skipped up to the next '(', ')', reference type or limit.
func tableIdent(p *Parser) bool {
	s := p.enterGlue("table_ident")
	s.parse(ident)
	return s.exit(tableIdentRecover)
}

// moduleName is the first string of an import. Stray tokens after it
// are skipped only when the item name follows them; otherwise itemName
// reports them in its place.
func moduleName(p *Parser) bool {
	s := p.enterGlue("module_name")
	s.parse(str)
	if s.ok && !p.lookahead(strayBeforeName) {
		return s.exit(nil)
	}
	return s.exit(moduleNameRecover)
}

// itemName is the name string of an import or export.
func itemName(p *Parser) bool {
	s := p.enterGlue("item_name")
	s.parse(str)
	return s.exit(itemNameRecover)
}
