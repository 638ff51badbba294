package opcode

// Class groups instruction mnemonics by the operands the text grammar
// expects after them. The lexer maps every mnemonic to one class and
// the parser only ever sees the class.
type Class int

const (
	Numeric      Class = iota // i32.add, f64.sqrt, ...
	Control                   // unreachable, nop, return
	ControlIdx                // br, br_if (label index)
	Call                      // call, return_call (func index)
	CallIndirect              // call_indirect, return_call_indirect
	BrTable                   // br_table (one or more label indices)
	RefIsNull                 // ref.is_null
	RefNull                   // ref.null (heap type)
	RefFunc                   // ref.func (func index)
	Parametric                // drop, select
	Local                     // local.get/set/tee
	Global                    // global.get/set
	TableIdx                  // table.get/set/size/grow/fill (optional table index)
	TableCopy                 // table.copy (two optional table indices)
	TableInit                 // table.init (elem index, optional table index)
	ElemDrop                  // elem.drop
	Memory                    // memory.size/grow/fill/copy
	MemoryIdx                 // memory.init, data.drop
	MemoryMemarg              // loads and stores (offset=, align=)
	IConst                    // i32.const, i64.const
	FConst                    // f32.const, f64.const
)

var classNames = [...]string{
	Numeric:      "numeric",
	Control:      "control",
	ControlIdx:   "control-idx",
	Call:         "call",
	CallIndirect: "call-indirect",
	BrTable:      "br-table",
	RefIsNull:    "ref-is-null",
	RefNull:      "ref-null",
	RefFunc:      "ref-func",
	Parametric:   "parametric",
	Local:        "local",
	Global:       "global",
	TableIdx:     "table-idx",
	TableCopy:    "table-copy",
	TableInit:    "table-init",
	ElemDrop:     "elem-drop",
	Memory:       "memory",
	MemoryIdx:    "memory-idx",
	MemoryMemarg: "memory-memarg",
	IConst:       "iconst",
	FConst:       "fconst",
}

func (c Class) String() string {
	if c >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// Lookup returns the class of an instruction mnemonic.
func Lookup(name string) (Class, bool) {
	c, ok := table[name]
	return c, ok
}

// Names returns every known mnemonic of the given class.
func Names(c Class) []string {
	var out []string
	for name, cls := range table {
		if cls == c {
			out = append(out, name)
		}
	}
	return out
}

var table = func() map[string]Class {
	m := make(map[string]Class, 256)
	add := func(c Class, names ...string) {
		for _, n := range names {
			m[n] = c
		}
	}

	add(Control, "unreachable", "nop", "return")
	add(ControlIdx, "br", "br_if")
	add(Call, "call", "return_call")
	add(CallIndirect, "call_indirect", "return_call_indirect")
	add(BrTable, "br_table")
	add(RefIsNull, "ref.is_null")
	add(RefNull, "ref.null")
	add(RefFunc, "ref.func")
	add(Parametric, "drop", "select")
	add(Local, "local.get", "local.set", "local.tee")
	add(Global, "global.get", "global.set")
	add(TableIdx, "table.get", "table.set", "table.size", "table.grow", "table.fill")
	add(TableCopy, "table.copy")
	add(TableInit, "table.init")
	add(ElemDrop, "elem.drop")
	add(Memory, "memory.size", "memory.grow", "memory.fill", "memory.copy")
	add(MemoryIdx, "memory.init", "data.drop")
	add(MemoryMemarg,
		"i32.load", "i64.load", "f32.load", "f64.load",
		"i32.load8_s", "i32.load8_u", "i32.load16_s", "i32.load16_u",
		"i64.load8_s", "i64.load8_u", "i64.load16_s", "i64.load16_u",
		"i64.load32_s", "i64.load32_u",
		"i32.store", "i64.store", "f32.store", "f64.store",
		"i32.store8", "i32.store16",
		"i64.store8", "i64.store16", "i64.store32",
	)
	add(IConst, "i32.const", "i64.const")
	add(FConst, "f32.const", "f64.const")

	// Integer tests, comparisons and arithmetic share one shape per width.
	for _, t := range []string{"i32", "i64"} {
		add(Numeric,
			t+".eqz", t+".eq", t+".ne",
			t+".lt_s", t+".lt_u", t+".gt_s", t+".gt_u",
			t+".le_s", t+".le_u", t+".ge_s", t+".ge_u",
			t+".clz", t+".ctz", t+".popcnt",
			t+".add", t+".sub", t+".mul",
			t+".div_s", t+".div_u", t+".rem_s", t+".rem_u",
			t+".and", t+".or", t+".xor",
			t+".shl", t+".shr_s", t+".shr_u", t+".rotl", t+".rotr",
			t+".extend8_s", t+".extend16_s",
			t+".trunc_f32_s", t+".trunc_f32_u", t+".trunc_f64_s", t+".trunc_f64_u",
			t+".trunc_sat_f32_s", t+".trunc_sat_f32_u",
			t+".trunc_sat_f64_s", t+".trunc_sat_f64_u",
		)
	}
	for _, t := range []string{"f32", "f64"} {
		add(Numeric,
			t+".eq", t+".ne", t+".lt", t+".gt", t+".le", t+".ge",
			t+".abs", t+".neg", t+".ceil", t+".floor", t+".trunc", t+".nearest", t+".sqrt",
			t+".add", t+".sub", t+".mul", t+".div", t+".min", t+".max", t+".copysign",
			t+".convert_i32_s", t+".convert_i32_u", t+".convert_i64_s", t+".convert_i64_u",
		)
	}
	add(Numeric,
		"i32.wrap_i64",
		"i64.extend_i32_s", "i64.extend_i32_u", "i64.extend32_s",
		"f32.demote_f64", "f64.promote_f32",
		"i32.reinterpret_f32", "i64.reinterpret_f64",
		"f32.reinterpret_i32", "f64.reinterpret_i64",
	)
	return m
}()
