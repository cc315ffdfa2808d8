package compiler

import (
	"jackc.dev/compiler/pkg/parsetree"
	"jackc.dev/compiler/pkg/vm"
)

// Statement = Let | If | While | Do | Return
func (e *Engine) compileStatement(parent parsetree.Recorder) error {
	switch {
	case e.atKeyword("let"):
		return e.compileLet(parent)
	case e.atKeyword("if"):
		return e.compileIf(parent)
	case e.atKeyword("while"):
		return e.compileWhile(parent)
	case e.atKeyword("do"):
		return e.compileDo(parent)
	case e.atKeyword("return"):
		return e.compileReturn(parent)
	default:
		tok, _ := e.peek()
		return e.syntaxErr(tok, "expected a statement")
	}
}

// 'let' varName ('[' Expression ']')? '=' Expression ';'
func (e *Engine) compileLet(parent parsetree.Recorder) error {
	defer e.trace.Enter("letStatement")()
	node := parent.Open("letStatement")
	defer node.Close()

	e.consume() // 'let'
	node.Leaf("keyword", "let")

	nameTok, err := e.expectIdentifier()
	if err != nil {
		return err
	}
	node.Leaf("identifier", nameTok.Lexeme)

	entry, ok := e.symbols.Lookup(nameTok.Lexeme)
	if !ok {
		return e.semanticErr(nameTok.Lexeme, "undefined identifier in assignment")
	}
	seg := segmentOf(entry.Kind)

	if e.atSymbol("[") {
		e.consume()
		node.Leaf("symbol", "[")

		e.emit.Push(seg, entry.Index)
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

		if _, err := e.expectSymbol("="); err != nil {
			return err
		}
		node.Leaf("symbol", "=")
		if err := e.compileExpression(node); err != nil {
			return err
		}
		if _, err := e.expectSymbol(";"); err != nil {
			return err
		}
		node.Leaf("symbol", ";")

		// Swap the evaluated rhs through temp 0 because evaluating it may
		// itself have touched pointer 1 (e.g. another array access).
		e.emit.Pop(vm.Temp, 0)
		e.emit.Pop(vm.Pointer, 1)
		e.emit.Push(vm.Temp, 0)
		e.emit.Pop(vm.That, 0)
		return nil
	}

	if _, err := e.expectSymbol("="); err != nil {
		return err
	}
	node.Leaf("symbol", "=")
	if err := e.compileExpression(node); err != nil {
		return err
	}
	if _, err := e.expectSymbol(";"); err != nil {
		return err
	}
	node.Leaf("symbol", ";")

	e.emit.Pop(seg, entry.Index)
	return nil
}

// 'if' '(' Expression ')' '{' Statement* '}' ('else' '{' Statement* '}')?
func (e *Engine) compileIf(parent parsetree.Recorder) error {
	defer e.trace.Enter("ifStatement")()
	node := parent.Open("ifStatement")
	defer node.Close()

	e.consume() // 'if'
	node.Leaf("keyword", "if")

	if _, err := e.expectSymbol("("); err != nil {
		return err
	}
	node.Leaf("symbol", "(")
	if err := e.compileExpression(node); err != nil {
		return err
	}
	if _, err := e.expectSymbol(")"); err != nil {
		return err
	}
	node.Leaf("symbol", ")")

	labelElse := e.mint("IF_ELSE")
	labelEnd := e.mint("IF_ENDIF")

	if err := e.emit.Unary('~'); err != nil {
		return e.internalErr(err)
	}
	e.emit.IfGoto(labelElse)

	if _, err := e.expectSymbol("{"); err != nil {
		return err
	}
	node.Leaf("symbol", "{")
	for !e.atSymbol("}") {
		if err := e.compileStatement(node); err != nil {
			return err
		}
	}
	if _, err := e.expectSymbol("}"); err != nil {
		return err
	}
	node.Leaf("symbol", "}")

	e.emit.Goto(labelEnd)
	e.emit.Label(labelElse)

	if e.atKeyword("else") {
		e.consume()
		node.Leaf("keyword", "else")
		if _, err := e.expectSymbol("{"); err != nil {
			return err
		}
		node.Leaf("symbol", "{")
		for !e.atSymbol("}") {
			if err := e.compileStatement(node); err != nil {
				return err
			}
		}
		if _, err := e.expectSymbol("}"); err != nil {
			return err
		}
		node.Leaf("symbol", "}")
	}

	e.emit.Label(labelEnd)
	return nil
}

// 'while' '(' Expression ')' '{' Statement* '}'
func (e *Engine) compileWhile(parent parsetree.Recorder) error {
	defer e.trace.Enter("whileStatement")()
	node := parent.Open("whileStatement")
	defer node.Close()

	e.consume() // 'while'
	node.Leaf("keyword", "while")

	labelLoop := e.mint("WHILE_LOOP")
	labelExit := e.mint("WHILE_EXIT")

	e.emit.Label(labelLoop)

	if _, err := e.expectSymbol("("); err != nil {
		return err
	}
	node.Leaf("symbol", "(")
	if err := e.compileExpression(node); err != nil {
		return err
	}
	if _, err := e.expectSymbol(")"); err != nil {
		return err
	}
	node.Leaf("symbol", ")")

	if err := e.emit.Unary('~'); err != nil {
		return e.internalErr(err)
	}
	e.emit.IfGoto(labelExit)

	if _, err := e.expectSymbol("{"); err != nil {
		return err
	}
	node.Leaf("symbol", "{")
	for !e.atSymbol("}") {
		if err := e.compileStatement(node); err != nil {
			return err
		}
	}
	if _, err := e.expectSymbol("}"); err != nil {
		return err
	}
	node.Leaf("symbol", "}")

	e.emit.Goto(labelLoop)
	e.emit.Label(labelExit)
	return nil
}

// 'do' SubroutineCall ';'
func (e *Engine) compileDo(parent parsetree.Recorder) error {
	defer e.trace.Enter("doStatement")()
	node := parent.Open("doStatement")
	defer node.Close()

	e.consume() // 'do'
	node.Leaf("keyword", "do")

	nameTok, err := e.expectIdentifier()
	if err != nil {
		return err
	}
	node.Leaf("identifier", nameTok.Lexeme)

	if err := e.compileSubroutineCall(node, nameTok); err != nil {
		return err
	}

	if _, err := e.expectSymbol(";"); err != nil {
		return err
	}
	node.Leaf("symbol", ";")

	e.emit.Pop(vm.Temp, 0)
	return nil
}

// 'return' Expression? ';'
func (e *Engine) compileReturn(parent parsetree.Recorder) error {
	defer e.trace.Enter("returnStatement")()
	node := parent.Open("returnStatement")
	defer node.Close()

	e.consume() // 'return'
	node.Leaf("keyword", "return")

	if e.atSymbol(";") {
		e.consume()
		node.Leaf("symbol", ";")
		e.emit.Return(true)
		return nil
	}

	if err := e.compileExpression(node); err != nil {
		return err
	}
	if _, err := e.expectSymbol(";"); err != nil {
		return err
	}
	node.Leaf("symbol", ";")

	e.emit.Return(false)
	return nil
}
