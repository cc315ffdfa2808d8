package token_test

import (
	"testing"

	"jackc.dev/compiler/pkg/token"
)

func TestLex(t *testing.T) {
	test := func(source string, want []token.Token, fail bool) {
		stream, err := token.Lex([]byte(source))
		if fail {
			if err == nil {
				t.Fatalf("Lex(%q) expected an error, got none", source)
			}
			return
		}
		if err != nil {
			t.Fatalf("Lex(%q) unexpected error: %s", source, err)
		}

		var got []token.Token
		for stream.HasMore() {
			tok, _ := stream.Advance()
			got = append(got, tok)
		}
		if len(got) != len(want) {
			t.Fatalf("Lex(%q) = %d tokens, want %d (%+v)", source, len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Lex(%q) token[%d] = %+v, want %+v", source, i, got[i], want[i])
			}
		}
	}

	t.Run("Valid data", func(t *testing.T) {
		test("let x = 1;", []token.Token{
			{Lexeme: "let", Kind: token.Keyword},
			{Lexeme: "x", Kind: token.Identifier},
			{Lexeme: "=", Kind: token.Symbol},
			{Lexeme: "1", Kind: token.IntegerConstant},
			{Lexeme: ";", Kind: token.Symbol},
		}, false)

		test(`"hello"`, []token.Token{
			{Lexeme: "hello", Kind: token.StringConstant},
		}, false)

		test("// a comment\nclass Foo {}", []token.Token{
			{Lexeme: "class", Kind: token.Keyword},
			{Lexeme: "Foo", Kind: token.Identifier},
			{Lexeme: "{", Kind: token.Symbol},
			{Lexeme: "}", Kind: token.Symbol},
		}, false)

		test("/* multi\nline */ return;", []token.Token{
			{Lexeme: "return", Kind: token.Keyword},
			{Lexeme: ";", Kind: token.Symbol},
		}, false)

		test("-x", []token.Token{
			{Lexeme: "-", Kind: token.Symbol},
			{Lexeme: "x", Kind: token.Identifier},
		}, false)
	})

	t.Run("Invalid data", func(t *testing.T) {
		test("let x = @;", nil, true) // '@' is not part of the lexical grammar
	})
}

func TestIsKeyword(t *testing.T) {
	if !token.IsKeyword("class") {
		t.Fatal(`IsKeyword("class") should be true`)
	}
	if token.IsKeyword("Foo") {
		t.Fatal(`IsKeyword("Foo") should be false`)
	}
}
