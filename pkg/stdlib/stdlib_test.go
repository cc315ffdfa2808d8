package stdlib_test

import (
	"testing"

	"jackc.dev/compiler/pkg/stdlib"
)

func TestArityAndKnown(t *testing.T) {
	test := func(class, method string, wantArity int, wantOK bool) {
		n, ok := stdlib.Arity(class, method)
		if ok != wantOK {
			t.Fatalf("Arity(%s.%s) ok = %v, want %v", class, method, ok, wantOK)
		}
		if ok && n != wantArity {
			t.Fatalf("Arity(%s.%s) = %d, want %d", class, method, n, wantArity)
		}
	}

	t.Run("Valid data", func(t *testing.T) {
		test("Math", "multiply", 2, true)
		test("Math", "divide", 2, true)
		test("String", "appendChar", 2, true)
		test("Memory", "alloc", 1, true)
	})

	t.Run("Invalid data", func(t *testing.T) {
		test("Math", "frobnicate", 0, false)
		test("NotAClass", "anything", 0, false)
	})

	if !stdlib.Known("Output") {
		t.Fatal(`Known("Output") should be true`)
	}
	if stdlib.Known("UserClass") {
		t.Fatal(`Known("UserClass") should be false`)
	}
}
