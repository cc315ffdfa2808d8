package main

import "testing"

func TestHintStdlibCalls(t *testing.T) {
	test := func(lines []string, wantWarnings int) {
		got := hintStdlibCalls(lines)
		if len(got) != wantWarnings {
			t.Fatalf("hintStdlibCalls(%v) = %v, want %d warning(s)", lines, got, wantWarnings)
		}
	}

	t.Run("Valid data", func(t *testing.T) {
		test([]string{"push constant 2", "call Math.multiply 2", "return"}, 0)
		test([]string{"call UserClass.helper 3"}, 0) // not a stdlib class, never warned
	})

	t.Run("Invalid data", func(t *testing.T) {
		test([]string{"call Math.multiply 3"}, 1)     // wrong arity, not receiver-adjusted either
		test([]string{"call Memory.alloc 0"}, 1)
	})
}
