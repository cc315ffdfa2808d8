package compiler

import (
	"jackc.dev/compiler/pkg/parsetree"
	"jackc.dev/compiler/pkg/token"
	"jackc.dev/compiler/pkg/vm"
)

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	"&": true, "|": true, "<": true, ">": true, "=": true,
}

// Expression = Term (Op Term)*
// Operators are left-associative with equal precedence: no precedence
// climbing, by design of the source language.
func (e *Engine) compileExpression(parent parsetree.Recorder) error {
	defer e.trace.Enter("expression")()
	node := parent.Open("expression")
	defer node.Close()

	if err := e.compileTerm(node); err != nil {
		return err
	}

	for {
		tok, ok := e.peek()
		if !ok || tok.Kind != token.Symbol || !binaryOps[tok.Lexeme] {
			break
		}
		e.consume()
		node.Leaf("symbol", tok.Lexeme)

		if err := e.compileTerm(node); err != nil {
			return err
		}
		if err := e.emit.Arith(tok.Lexeme[0]); err != nil {
			return e.internalErr(err)
		}
	}
	return nil
}

// Term = IntConst | StringConst | KwConst | varName | varName '[' Expression ']'
//      | SubroutineCall | '(' Expression ')' | UnaryOp Term
func (e *Engine) compileTerm(parent parsetree.Recorder) error {
	defer e.trace.Enter("term")()
	node := parent.Open("term")
	defer node.Close()

	tok, ok := e.peek()
	if !ok {
		return e.syntaxErr(tok, "expected a term")
	}

	switch {
	case tok.Kind == token.IntegerConstant:
		e.consume()
		node.Leaf("integerConstant", tok.Lexeme)
		n, err := e.atoi(tok)
		if err != nil {
			return err
		}
		e.emit.Push(vm.Constant, n)
		return nil

	case tok.Kind == token.StringConstant:
		e.consume()
		node.Leaf("stringConstant", tok.Lexeme)
		e.emit.StringLiteral(tok.Lexeme)
		return nil

	case tok.Kind == token.Keyword && tok.Lexeme == "true":
		e.consume()
		node.Leaf("keyword", tok.Lexeme)
		e.emit.Push(vm.Constant, 0)
		return e.wrapUnary(e.emit.Unary('~'))

	case tok.Kind == token.Keyword && (tok.Lexeme == "false" || tok.Lexeme == "null"):
		e.consume()
		node.Leaf("keyword", tok.Lexeme)
		e.emit.Push(vm.Constant, 0)
		return nil

	case tok.Kind == token.Keyword && tok.Lexeme == "this":
		e.consume()
		node.Leaf("keyword", tok.Lexeme)
		e.emit.Push(vm.Pointer, 0)
		return nil

	case tok.Kind == token.Symbol && (tok.Lexeme == "-" || tok.Lexeme == "~"):
		e.consume()
		node.Leaf("symbol", tok.Lexeme)
		if err := e.compileTerm(node); err != nil {
			return err
		}
		return e.wrapUnary(e.emit.Unary(tok.Lexeme[0]))

	case tok.Kind == token.Symbol && tok.Lexeme == "(":
		e.consume()
		node.Leaf("symbol", "(")
		if err := e.compileExpression(node); err != nil {
			return err
		}
		if _, err := e.expectSymbol(")"); err != nil {
			return err
		}
		node.Leaf("symbol", ")")
		return nil

	case tok.Kind == token.Identifier:
		e.consume()
		node.Leaf("identifier", tok.Lexeme)
		return e.compileIdentifierTerm(node, tok)

	default:
		return e.syntaxErr(tok, "unrecognized symbol in term context")
	}
}

func (e *Engine) wrapUnary(err error) error {
	if err != nil {
		return e.internalErr(err)
	}
	return nil
}

// compileIdentifierTerm handles the four ways an identifier can continue
// once already consumed as a term: array index read, qualified call,
// unqualified call (a method on 'this'), or a plain variable read.
func (e *Engine) compileIdentifierTerm(node parsetree.Recorder, name token.Token) error {
	switch {
	case e.atSymbol("["):
		e.consume()
		node.Leaf("symbol", "[")

		entry, ok := e.symbols.Lookup(name.Lexeme)
		if !ok {
			return e.semanticErr(name.Lexeme, "undefined identifier in array access")
		}
		e.emit.Push(segmentOf(entry.Kind), entry.Index)

		if err := e.compileExpression(node); err != nil {
			return err
		}
		if _, err := e.expectSymbol("]"); err != nil {
			return err
		}
		node.Leaf("symbol", "]")

		if err := e.emit.Arith('+'); err != nil {
			return e.internalErr(err)
		}
		e.emit.Pop(vm.Pointer, 1)
		e.emit.Push(vm.That, 0)
		return nil

	case e.atSymbol(".") || e.atSymbol("("):
		return e.compileSubroutineCall(node, name)

	default:
		entry, ok := e.symbols.Lookup(name.Lexeme)
		if !ok {
			return e.semanticErr(name.Lexeme, "undefined identifier")
		}
		e.emit.Push(segmentOf(entry.Kind), entry.Index)
		return nil
	}
}

// SubroutineCall = name '(' ExprList ')' | (varName|className) '.' name '(' ExprList ')'
// name has already been consumed by the caller (compileDo or
// compileIdentifierTerm); this handles everything from '.'/'(' onward.
func (e *Engine) compileSubroutineCall(node parsetree.Recorder, name token.Token) error {
	defer e.trace.Enter("subroutineCall")()

	if e.atSymbol(".") {
		e.consume()
		node.Leaf("symbol", ".")

		methodTok, err := e.expectIdentifier()
		if err != nil {
			return err
		}
		node.Leaf("identifier", methodTok.Lexeme)

		if _, err := e.expectSymbol("("); err != nil {
			return err
		}
		node.Leaf("symbol", "(")

		entry, isVar := e.symbols.Lookup(name.Lexeme)

		if isVar {
			e.emit.Push(segmentOf(entry.Kind), entry.Index)
		}
		nArgs, err := e.compileExpressionList(node)
		if err != nil {
			return err
		}
		if _, err := e.expectSymbol(")"); err != nil {
			return err
		}
		node.Leaf("symbol", ")")

		if isVar {
			e.emit.Call(entry.Type+"."+methodTok.Lexeme, uint16(1+nArgs))
		} else {
			e.emit.Call(name.Lexeme+"."+methodTok.Lexeme, uint16(nArgs))
		}
		return nil
	}

	// Unqualified call: a method on the current object.
	if _, err := e.expectSymbol("("); err != nil {
		return err
	}
	node.Leaf("symbol", "(")

	e.emit.Push(vm.Pointer, 0)
	nArgs, err := e.compileExpressionList(node)
	if err != nil {
		return err
	}
	if _, err := e.expectSymbol(")"); err != nil {
		return err
	}
	node.Leaf("symbol", ")")

	e.emit.Call(e.className+"."+name.Lexeme, uint16(1+nArgs))
	return nil
}

// ExpressionList = (Expression (',' Expression)*)?
func (e *Engine) compileExpressionList(parent parsetree.Recorder) (int, error) {
	defer e.trace.Enter("expressionList")()
	node := parent.Open("expressionList")
	defer node.Close()

	if e.atSymbol(")") {
		return 0, nil
	}

	count := 0
	for {
		if err := e.compileExpression(node); err != nil {
			return 0, err
		}
		count++
		if e.atSymbol(",") {
			e.consume()
			node.Leaf("symbol", ",")
			continue
		}
		break
	}
	return count, nil
}
