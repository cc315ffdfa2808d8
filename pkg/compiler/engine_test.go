package compiler_test

import (
	"strings"
	"testing"

	"jackc.dev/compiler/pkg/compiler"
	"jackc.dev/compiler/pkg/parsetree"
	"jackc.dev/compiler/pkg/token"
)

func compile(t *testing.T, basename, source string) []string {
	t.Helper()
	tokens, err := token.Lex([]byte(source))
	if err != nil {
		t.Fatalf("Lex unexpected error: %s", err)
	}
	engine := compiler.New(basename+".jack", basename, tokens, parsetree.Noop{})
	emitter, err := engine.Compile()
	if err != nil {
		t.Fatalf("Compile unexpected error: %s", err)
	}
	if err := emitter.Err(); err != nil {
		t.Fatalf("emitter recorded an error: %s", err)
	}
	return emitter.Lines()
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d\ngot:  %s\nwant: %s",
			len(got), len(want), strings.Join(got, " / "), strings.Join(want, " / "))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q\ngot:  %s\nwant: %s",
				i, got[i], want[i], strings.Join(got, " / "), strings.Join(want, " / "))
		}
	}
}

func TestReturnExpressionStatement(t *testing.T) {
	got := compile(t, "Main", `
		class Main {
			function void main() {
				return 1+2;
			}
		}
	`)
	assertLines(t, got, []string{
		"function Main.main 0",
		"push constant 1",
		"push constant 2",
		"add",
		"return",
	})
}

func TestDoStatementClassCallDiscardsReturnValue(t *testing.T) {
	got := compile(t, "Main", `
		class Main {
			function void main() {
				do Output.printInt(42);
				return;
			}
		}
	`)
	assertLines(t, got, []string{
		"function Main.main 0",
		"push constant 42",
		"call Output.printInt 1",
		"pop temp 0",
		"push constant 0",
		"return",
	})
}

func TestMethodCallOnFieldPushesReceiverFirst(t *testing.T) {
	got := compile(t, "Game", `
		class Game {
			field Board board;
			method void render() {
				do board.draw();
				return;
			}
		}
	`)
	assertLines(t, got, []string{
		"function Game.render 0",
		"push argument 0",
		"pop pointer 0",
		"push this 0",
		"call Board.draw 1",
		"pop temp 0",
		"push constant 0",
		"return",
	})
}

func TestArrayLetStatementSwapsThroughTempAndPointer1(t *testing.T) {
	got := compile(t, "Main", `
		class Main {
			function void main() {
				var Array a;
				var int i, j;
				let a[i] = a[j];
				return;
			}
		}
	`)
	assertLines(t, got, []string{
		"function Main.main 3",
		"push local 0",
		"push local 1",
		"add",
		"push local 0",
		"push local 2",
		"add",
		"pop pointer 1",
		"push that 0",
		"pop temp 0",
		"pop pointer 1",
		"push temp 0",
		"pop that 0",
		"push constant 0",
		"return",
	})
}

func TestWhileStatementLabelsAndNegation(t *testing.T) {
	got := compile(t, "Main", `
		class Main {
			function void main() {
				var int x;
				let x = 0;
				while (x < 10) {
					let x = x + 1;
				}
				return;
			}
		}
	`)
	assertLines(t, got, []string{
		"function Main.main 1",
		"push constant 0",
		"pop local 0",
		"label MAIN_WHILE_LOOP0",
		"push local 0",
		"push constant 10",
		"lt",
		"not",
		"if-goto MAIN_WHILE_EXIT1",
		"push local 0",
		"push constant 1",
		"add",
		"pop local 0",
		"goto MAIN_WHILE_LOOP0",
		"label MAIN_WHILE_EXIT1",
		"push constant 0",
		"return",
	})
}

func TestConstructorProloguePushesFieldCount(t *testing.T) {
	got := compile(t, "Point", `
		class Point {
			field int x, y;
			constructor Point new(int ax, int ay) {
				let x = ax;
				let y = ay;
				return this;
			}
		}
	`)
	assertLines(t, got, []string{
		"function Point.new 0",
		"push constant 2",
		"call Memory.alloc 1",
		"pop pointer 0",
		"push argument 0",
		"pop this 0",
		"push argument 1",
		"pop this 1",
		"push pointer 0",
		"return",
	})
}

func TestIfElseLabelsBracketBothBranches(t *testing.T) {
	got := compile(t, "Main", `
		class Main {
			function void main() {
				if (true) {
					do Output.println();
				} else {
					do Output.println();
				}
				return;
			}
		}
	`)
	assertLines(t, got, []string{
		"function Main.main 0",
		"push constant 0",
		"not",
		"not",
		"if-goto MAIN_IF_ELSE0",
		"call Output.println 0",
		"pop temp 0",
		"goto MAIN_IF_ENDIF1",
		"label MAIN_IF_ELSE0",
		"call Output.println 0",
		"pop temp 0",
		"label MAIN_IF_ENDIF1",
		"push constant 0",
		"return",
	})
}

func TestClassNameMustMatchFileBasename(t *testing.T) {
	tokens, err := token.Lex([]byte(`class Main { function void main() { return; } }`))
	if err != nil {
		t.Fatal(err)
	}
	engine := compiler.New("Other.jack", "Other", tokens, parsetree.Noop{})
	if _, err := engine.Compile(); err == nil {
		t.Fatal("Compile should fail when the class name does not match the file's basename")
	}
}

func TestRedeclarationInSameScopeIsAnError(t *testing.T) {
	tokens, err := token.Lex([]byte(`
		class Main {
			function void main() {
				var int x;
				var boolean x;
				return;
			}
		}
	`))
	if err != nil {
		t.Fatal(err)
	}
	engine := compiler.New("Main.jack", "Main", tokens, parsetree.Noop{})
	if _, err := engine.Compile(); err == nil {
		t.Fatal("Compile should fail on redeclaration within the same scope")
	}
}
