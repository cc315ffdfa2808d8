// Package symtable implements the compiler's two-level symbol table:
// class scope (static, field) and subroutine scope (arg, var), with
// subroutine scope shadowing class scope on lookup.
package symtable

import "fmt"

// Kind is the storage class of a declared identifier.
type Kind string

const (
	Static Kind = "static"
	Field  Kind = "field"
	Arg    Kind = "arg"
	Var    Kind = "var"
)

// Entry is what the table resolves a name to.
type Entry struct {
	Kind  Kind
	Type  string // source-language type name: a primitive or a class name
	Index uint16
}

// Table holds the class-scope mapping (persists for the class's lifetime)
// and the current subroutine-scope mapping (replaced wholesale on every
// StartSubroutine call, per the Design Notes: a fresh value rather than a
// mutated/cleared one).
type Table struct {
	class      map[string]Entry
	subroutine map[string]Entry

	nStatic uint16
	nField  uint16
	nArg    uint16
	nVar    uint16
}

// New returns an empty symbol table with no subroutine scope yet.
func New() *Table {
	return &Table{class: map[string]Entry{}, subroutine: map[string]Entry{}}
}

// Define inserts name into the scope implied by kind, assigning it the
// next index for that kind and bumping the matching counter. It fails if
// kind is unrecognized, or if name is already declared in the scope kind
// belongs to (redeclaration within a scope is an error; redeclaration
// across scopes is shadowing and is allowed).
func (t *Table) Define(name, typ string, kind Kind) (Entry, error) {
	switch kind {
	case Static:
		if _, dup := t.class[name]; dup {
			return Entry{}, fmt.Errorf("redeclaration of %q in class scope", name)
		}
		entry := Entry{Kind: Static, Type: typ, Index: t.nStatic}
		t.class[name] = entry
		t.nStatic++
		return entry, nil
	case Field:
		if _, dup := t.class[name]; dup {
			return Entry{}, fmt.Errorf("redeclaration of %q in class scope", name)
		}
		entry := Entry{Kind: Field, Type: typ, Index: t.nField}
		t.class[name] = entry
		t.nField++
		return entry, nil
	case Arg:
		if _, dup := t.subroutine[name]; dup {
			return Entry{}, fmt.Errorf("redeclaration of %q in subroutine scope", name)
		}
		entry := Entry{Kind: Arg, Type: typ, Index: t.nArg}
		t.subroutine[name] = entry
		t.nArg++
		return entry, nil
	case Var:
		if _, dup := t.subroutine[name]; dup {
			return Entry{}, fmt.Errorf("redeclaration of %q in subroutine scope", name)
		}
		entry := Entry{Kind: Var, Type: typ, Index: t.nVar}
		t.subroutine[name] = entry
		t.nVar++
		return entry, nil
	default:
		return Entry{}, fmt.Errorf("unrecognized symbol kind %q", kind)
	}
}

// StartSubroutine discards the previous subroutine scope (a fresh map, not
// a cleared one) and resets its per-kind counters. Class scope and its
// counters are untouched.
func (t *Table) StartSubroutine() {
	t.subroutine = map[string]Entry{}
	t.nArg = 0
	t.nVar = 0
}

// VarCount returns the running count for kind within the scope it lives in.
func (t *Table) VarCount(kind Kind) int {
	switch kind {
	case Static:
		return int(t.nStatic)
	case Field:
		return int(t.nField)
	case Arg:
		return int(t.nArg)
	case Var:
		return int(t.nVar)
	default:
		return 0
	}
}

// Lookup resolves name, checking subroutine scope first so that it shadows
// class scope, as required.
func (t *Table) Lookup(name string) (Entry, bool) {
	if entry, ok := t.subroutine[name]; ok {
		return entry, true
	}
	entry, ok := t.class[name]
	return entry, ok
}

// ClassEntries returns a snapshot of the class-scope table, keyed by name.
// Used by the driver's optional symbol table dump; never read by the
// compiler itself, which always goes through Lookup.
func (t *Table) ClassEntries() map[string]Entry {
	out := make(map[string]Entry, len(t.class))
	for k, v := range t.class {
		out[k] = v
	}
	return out
}

// SubroutineEntries returns a snapshot of the current subroutine-scope
// table, keyed by name. Only meaningful while a subroutine is being
// compiled; StartSubroutine replaces it on the next call.
func (t *Table) SubroutineEntries() map[string]Entry {
	out := make(map[string]Entry, len(t.subroutine))
	for k, v := range t.subroutine {
		out[k] = v
	}
	return out
}
