package compiler

import (
	"jackc.dev/compiler/pkg/parsetree"
	"jackc.dev/compiler/pkg/symtable"
	"jackc.dev/compiler/pkg/vm"
)

// SubroutineDec = ('constructor'|'function'|'method') ('void'|Type) name
//                 '(' ParamList ')' Body
func (e *Engine) compileSubroutine(parent parsetree.Recorder) error {
	defer e.trace.Enter("subroutineDec")()
	node := parent.Open("subroutineDec")
	defer node.Close()

	kindTok, _ := e.consume()
	node.Leaf("keyword", kindTok.Lexeme)
	e.symbols.StartSubroutine()

	if e.atKeyword("void") {
		tok, _ := e.consume()
		node.Leaf("keyword", tok.Lexeme)
	} else if _, err := e.compileType(node); err != nil {
		return err
	}

	nameTok, err := e.expectIdentifier()
	if err != nil {
		return err
	}
	node.Leaf("identifier", nameTok.Lexeme)

	if kindTok.Lexeme == "method" {
		if _, err := e.symbols.Define("this", e.className, symtable.Arg); err != nil {
			return e.internalErr(err)
		}
	}

	if _, err := e.expectSymbol("("); err != nil {
		return err
	}
	node.Leaf("symbol", "(")
	if err := e.compileParamList(node); err != nil {
		return err
	}
	if _, err := e.expectSymbol(")"); err != nil {
		return err
	}
	node.Leaf("symbol", ")")

	if _, err := e.expectSymbol("{"); err != nil {
		return err
	}
	node.Leaf("symbol", "{")

	for e.atKeyword("var") {
		if err := e.compileVarDec(node); err != nil {
			return err
		}
	}

	nLocals := uint16(e.symbols.VarCount(symtable.Var))
	e.emit.Function(e.className+"."+nameTok.Lexeme, nLocals)

	switch kindTok.Lexeme {
	case "constructor":
		nFields := uint16(e.symbols.VarCount(symtable.Field))
		e.emit.Push(vm.Constant, nFields)
		e.emit.Call("Memory.alloc", 1)
		e.emit.Pop(vm.Pointer, 0)
	case "method":
		e.emit.Push(vm.Argument, 0)
		e.emit.Pop(vm.Pointer, 0)
	}

	for !e.atSymbol("}") {
		if err := e.compileStatement(node); err != nil {
			return err
		}
	}
	if _, err := e.expectSymbol("}"); err != nil {
		return err
	}
	node.Leaf("symbol", "}")

	if e.emit.Err() != nil {
		return e.internalErr(e.emit.Err())
	}
	return nil
}

// ParamList = (Type varName (',' Type varName)*)?
func (e *Engine) compileParamList(parent parsetree.Recorder) error {
	defer e.trace.Enter("parameterList")()
	node := parent.Open("parameterList")
	defer node.Close()

	if e.atSymbol(")") {
		return nil
	}
	for {
		typ, err := e.compileType(node)
		if err != nil {
			return err
		}
		nameTok, err := e.expectIdentifier()
		if err != nil {
			return err
		}
		if _, err := e.symbols.Define(nameTok.Lexeme, typ, symtable.Arg); err != nil {
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
	return nil
}

// VarDec = 'var' Type varName (',' varName)* ';'
func (e *Engine) compileVarDec(parent parsetree.Recorder) error {
	defer e.trace.Enter("varDec")()
	node := parent.Open("varDec")
	defer node.Close()

	e.consume() // 'var'
	node.Leaf("keyword", "var")

	typ, err := e.compileType(node)
	if err != nil {
		return err
	}

	for {
		nameTok, err := e.expectIdentifier()
		if err != nil {
			return err
		}
		if _, err := e.symbols.Define(nameTok.Lexeme, typ, symtable.Var); err != nil {
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
