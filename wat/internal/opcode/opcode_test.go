package opcode

import (
	"sort"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name  string
		class Class
	}{
		// Control
		{"unreachable", Control},
		{"nop", Control},
		{"return", Control},
		{"br", ControlIdx},
		{"br_if", ControlIdx},
		{"br_table", BrTable},
		{"call", Call},
		{"return_call", Call},
		{"call_indirect", CallIndirect},

		// References
		{"ref.null", RefNull},
		{"ref.is_null", RefIsNull},
		{"ref.func", RefFunc},

		// Variables
		{"local.get", Local},
		{"local.tee", Local},
		{"global.set", Global},

		// Tables
		{"table.get", TableIdx},
		{"table.fill", TableIdx},
		{"table.copy", TableCopy},
		{"table.init", TableInit},
		{"elem.drop", ElemDrop},

		// Memory
		{"memory.size", Memory},
		{"memory.copy", Memory},
		{"memory.init", MemoryIdx},
		{"data.drop", MemoryIdx},
		{"i32.load", MemoryMemarg},
		{"i64.load32_u", MemoryMemarg},
		{"i64.store32", MemoryMemarg},

		// Constants
		{"i32.const", IConst},
		{"i64.const", IConst},
		{"f32.const", FConst},
		{"f64.const", FConst},

		// Numeric
		{"i32.add", Numeric},
		{"i64.rotr", Numeric},
		{"f32.copysign", Numeric},
		{"f64.promote_f32", Numeric},
		{"i32.trunc_sat_f64_u", Numeric},
		{"i64.extend32_s", Numeric},
		{"drop", Parametric},
		{"select", Parametric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.name)
			}
			if got != tt.class {
				t.Errorf("Lookup(%q) = %v, want %v", tt.name, got, tt.class)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, name := range []string{"", "i32", "module", "i32.bogus", "v128.load", "f32.eqz"} {
		if c, ok := Lookup(name); ok {
			t.Errorf("Lookup(%q) = %v, want not found", name, c)
		}
	}
}

func TestNames(t *testing.T) {
	got := Names(IConst)
	sort.Strings(got)
	if len(got) != 2 || got[0] != "i32.const" || got[1] != "i64.const" {
		t.Errorf("Names(IConst) = %v", got)
	}
}

func TestClassString(t *testing.T) {
	if got := MemoryMemarg.String(); got != "memory-memarg" {
		t.Errorf("MemoryMemarg.String() = %q", got)
	}
	if got := Class(99).String(); got != "unknown" {
		t.Errorf("Class(99).String() = %q", got)
	}
}
