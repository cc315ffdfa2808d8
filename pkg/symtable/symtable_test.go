package symtable_test

import (
	"testing"

	"jackc.dev/compiler/pkg/symtable"
)

func TestDefineAndLookup(t *testing.T) {
	table := symtable.New()

	test := func(name, typ string, kind symtable.Kind, wantIndex uint16, fail bool) {
		entry, err := table.Define(name, typ, kind)
		if fail {
			if err == nil {
				t.Fatalf("Define(%q) expected an error, got none", name)
			}
			return
		}
		if err != nil {
			t.Fatalf("Define(%q) unexpected error: %s", name, err)
		}
		if entry.Index != wantIndex {
			t.Fatalf("Define(%q) index = %d, want %d", name, entry.Index, wantIndex)
		}
	}

	t.Run("Valid data", func(t *testing.T) {
		test("x", "int", symtable.Field, 0, false)
		test("y", "int", symtable.Field, 1, false)
		test("count", "int", symtable.Static, 0, false)
		test("ax", "int", symtable.Arg, 0, false)
	})

	t.Run("Invalid data", func(t *testing.T) {
		test("x", "int", symtable.Field, 0, true) // redeclaration in class scope
		test("ax", "boolean", symtable.Arg, 0, true) // redeclaration in subroutine scope
	})

	entry, ok := table.Lookup("x")
	if !ok || entry.Kind != symtable.Field || entry.Index != 0 {
		t.Fatalf("Lookup(x) = %+v, %v, want field#0", entry, ok)
	}
	if _, ok := table.Lookup("nope"); ok {
		t.Fatal("Lookup(nope) should fail")
	}
}

func TestStartSubroutineResetsScopeOnly(t *testing.T) {
	table := symtable.New()
	if _, err := table.Define("field1", "int", symtable.Field); err != nil {
		t.Fatal(err)
	}
	if _, err := table.Define("a", "int", symtable.Arg); err != nil {
		t.Fatal(err)
	}

	table.StartSubroutine()

	if _, ok := table.Lookup("a"); ok {
		t.Fatal("subroutine scope should be discarded after StartSubroutine")
	}
	if _, ok := table.Lookup("field1"); !ok {
		t.Fatal("class scope should survive StartSubroutine")
	}
	if table.VarCount(symtable.Arg) != 0 {
		t.Fatalf("VarCount(Arg) = %d, want 0 after reset", table.VarCount(symtable.Arg))
	}

	if _, err := table.Define("b", "int", symtable.Var); err != nil {
		t.Fatal(err)
	}
	if table.VarCount(symtable.Var) != 1 {
		t.Fatalf("VarCount(Var) = %d, want 1", table.VarCount(symtable.Var))
	}
}

func TestSubroutineShadowsClass(t *testing.T) {
	table := symtable.New()
	if _, err := table.Define("v", "int", symtable.Field); err != nil {
		t.Fatal(err)
	}
	if _, err := table.Define("v", "boolean", symtable.Var); err != nil {
		t.Fatal(err) // shadowing across scopes is allowed
	}

	entry, ok := table.Lookup("v")
	if !ok || entry.Kind != symtable.Var {
		t.Fatalf("Lookup(v) = %+v, want subroutine-scope Var to shadow class-scope Field", entry)
	}
}
