// Package compiler implements the Compilation Engine: a hand-rolled
// recursive-descent parser over a token.Stream that, production by
// production, updates a symtable.Table and writes to a vm.Emitter in the
// same pass. It is the only component that both reads the tokenizer and
// writes the emitter.
//
// Per the Design Notes, this is an explicit parser value owning a token
// cursor (peek/consume), not a recursion that mutates a shared "current
// token" by reference; identifier classification is one resolve call
// into the symbol table rather than ad-hoc lookahead; class scope and
// subroutine scope are two values in symtable.Table, the latter replaced
// wholesale on subroutine entry; unary-vs-binary minus is resolved by
// grammar position (a term is always expected right after an operator or
// an opening bracket), never by token lookahead tricks.
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"jackc.dev/compiler/pkg/diag"
	"jackc.dev/compiler/pkg/parsetree"
	"jackc.dev/compiler/pkg/symtable"
	"jackc.dev/compiler/pkg/token"
	"jackc.dev/compiler/pkg/vm"
)

// Engine drives one file's compilation end-to-end. It owns its tokens,
// symbol table and emitter exclusively for the duration of the call —
// nothing here is shared across files, so running one Engine per file
// concurrently is safe (see cmd/jackc's --jobs flag).
type Engine struct {
	file     string // for diagnostics
	basename string // expected class name
	tokens   *token.Stream
	symbols  *symtable.Table
	emit     *vm.Emitter
	tree     parsetree.Recorder
	trace    diag.Trace

	className string
	labelSeq  int
}

// New returns an Engine ready to compile one file. basename is the file's
// name without extension; the parsed class name must match it exactly.
// tree may be parsetree.Noop{} when no XML artifact is wanted.
func New(file, basename string, tokens *token.Stream, tree parsetree.Recorder) *Engine {
	return &Engine{
		file:     file,
		basename: basename,
		tokens:   tokens,
		symbols:  symtable.New(),
		emit:     vm.NewEmitter(),
		tree:     tree,
	}
}

// Symbols returns the engine's symbol table, for the driver's optional
// symbol table dump. Only meaningful after Compile returns successfully.
func (e *Engine) Symbols() *symtable.Table { return e.symbols }

// Compile runs the engine to completion and returns the populated
// Emitter. On any error it returns a nil Emitter, so nothing can be
// written for the failed file, matching the fail-fast, no-partial-output
// policy.
func (e *Engine) Compile() (*vm.Emitter, error) {
	if err := e.compileClass(); err != nil {
		return nil, err
	}
	return e.emit, nil
}

// ----------------------------------------------------------------------------
// Token cursor helpers

func (e *Engine) peek() (token.Token, bool) { return e.tokens.Peek() }

func (e *Engine) consume() (token.Token, bool) { return e.tokens.Advance() }

// expectKeyword consumes the current token, failing unless it is the
// keyword kw.
func (e *Engine) expectKeyword(kw string) (token.Token, error) {
	tok, ok := e.consume()
	if !ok || tok.Kind != token.Keyword || tok.Lexeme != kw {
		return tok, e.syntaxErr(tok, fmt.Sprintf("expected keyword %q", kw))
	}
	return tok, nil
}

// expectSymbol consumes the current token, failing unless it is the
// symbol sym.
func (e *Engine) expectSymbol(sym string) (token.Token, error) {
	tok, ok := e.consume()
	if !ok || tok.Kind != token.Symbol || tok.Lexeme != sym {
		return tok, e.syntaxErr(tok, fmt.Sprintf("expected %q", sym))
	}
	return tok, nil
}

// expectIdentifier consumes the current token, failing unless it is an identifier.
func (e *Engine) expectIdentifier() (token.Token, error) {
	tok, ok := e.consume()
	if !ok || tok.Kind != token.Identifier {
		return tok, e.syntaxErr(tok, "expected identifier")
	}
	return tok, nil
}

func (e *Engine) atSymbol(sym string) bool {
	tok, ok := e.peek()
	return ok && tok.Kind == token.Symbol && tok.Lexeme == sym
}

func (e *Engine) atKeyword(kws ...string) bool {
	tok, ok := e.peek()
	if !ok || tok.Kind != token.Keyword {
		return false
	}
	for _, kw := range kws {
		if tok.Lexeme == kw {
			return true
		}
	}
	return false
}

// ----------------------------------------------------------------------------
// Diagnostics

func (e *Engine) syntaxErr(tok token.Token, msg string) error {
	return &diag.Error{
		Kind: diag.Syntactic, File: e.file, Lexeme: tok.Lexeme,
		Production: e.trace.Snapshot(), Cause: fmt.Errorf("%s", msg),
	}
}

func (e *Engine) semanticErr(lexeme, msg string) error {
	return &diag.Error{
		Kind: diag.Semantic, File: e.file, Lexeme: lexeme,
		Production: e.trace.Snapshot(), Cause: fmt.Errorf("%s", msg),
	}
}

func (e *Engine) internalErr(err error) error {
	return &diag.Error{Kind: diag.Internal, File: e.file, Production: e.trace.Snapshot(), Cause: err}
}

// ----------------------------------------------------------------------------
// Class = 'class' className '{' ClassVarDec* SubroutineDec* '}'

func (e *Engine) compileClass() error {
	defer e.trace.Enter("class")()

	if _, err := e.expectKeyword("class"); err != nil {
		return err
	}
	nameTok, err := e.expectIdentifier()
	if err != nil {
		return err
	}
	if nameTok.Lexeme != e.basename {
		return e.semanticErr(nameTok.Lexeme,
			fmt.Sprintf("class name %q does not match file basename %q", nameTok.Lexeme, e.basename))
	}
	e.className = nameTok.Lexeme

	classNode := e.tree.Open("class")
	defer classNode.Close()
	classNode.Leaf("identifier", e.className)

	if _, err := e.expectSymbol("{"); err != nil {
		return err
	}
	classNode.Leaf("symbol", "{")

	for e.atKeyword("static", "field") {
		if err := e.compileClassVarDec(classNode); err != nil {
			return err
		}
	}
	for e.atKeyword("constructor", "function", "method") {
		if err := e.compileSubroutine(classNode); err != nil {
			return err
		}
	}

	if _, err := e.expectSymbol("}"); err != nil {
		return err
	}
	classNode.Leaf("symbol", "}")

	if e.tokens.HasMore() {
		tok, _ := e.peek()
		return e.syntaxErr(tok, "unexpected content after class body (only one class per file is supported)")
	}
	return nil
}

// ClassVarDec = ('static'|'field') Type varName (',' varName)* ';'
func (e *Engine) compileClassVarDec(parent parsetree.Recorder) error {
	defer e.trace.Enter("classVarDec")()
	node := parent.Open("classVarDec")
	defer node.Close()

	kwTok, _ := e.consume()
	var kind symtable.Kind
	switch kwTok.Lexeme {
	case "static":
		kind = symtable.Static
	case "field":
		kind = symtable.Field
	}
	node.Leaf("keyword", kwTok.Lexeme)

	typ, err := e.compileType(node)
	if err != nil {
		return err
	}

	for {
		nameTok, err := e.expectIdentifier()
		if err != nil {
			return err
		}
		if _, err := e.symbols.Define(nameTok.Lexeme, typ, kind); err != nil {
			return e.semanticErr(nameTok.Lexeme, err.Error())
		}
		node.Leaf("identifier", nameTok.Lexeme)

		if e.atSymbol(",") {
			e.consume()
			node.Leaf("symbol", ",")
			continue
		}
		break
	}

	if _, err := e.expectSymbol(";"); err != nil {
		return err
	}
	node.Leaf("symbol", ";")
	return nil
}

// Type = 'int' | 'char' | 'boolean' | className
func (e *Engine) compileType(node parsetree.Recorder) (string, error) {
	tok, ok := e.consume()
	if !ok {
		return "", e.syntaxErr(tok, "expected a type")
	}
	switch {
	case tok.Kind == token.Keyword && (tok.Lexeme == "int" || tok.Lexeme == "char" || tok.Lexeme == "boolean"):
		node.Leaf("keyword", tok.Lexeme)
		return tok.Lexeme, nil
	case tok.Kind == token.Identifier:
		node.Leaf("identifier", tok.Lexeme)
		return tok.Lexeme, nil
	default:
		return "", e.syntaxErr(tok, "expected a type")
	}
}

// mint produces the next unique VM label for this compilation unit:
// <CLASS>_<SUFFIX><seq>, uppercased, seq monotonically increasing.
func (e *Engine) mint(suffix string) string {
	label := strings.ToUpper(fmt.Sprintf("%s_%s%d", e.className, suffix, e.labelSeq))
	e.labelSeq++
	return label
}

func (e *Engine) atoi(tok token.Token) (uint16, error) {
	n, err := strconv.Atoi(tok.Lexeme)
	if err != nil || n < 0 || n > 32767 {
		return 0, e.semanticErr(tok.Lexeme, "invalid integer constant")
	}
	return uint16(n), nil
}
