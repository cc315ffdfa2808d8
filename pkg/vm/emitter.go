package vm

import (
	"fmt"
	"os"
	"path/filepath"
)

// Emitter is the append-only sink described in the spec's VM Emitter
// component: it knows the instruction grammar and segment names but
// carries no parsing state of its own. Every call renders its operation
// to text immediately and appends it to an in-memory buffer; nothing
// touches disk until Close, so a compilation that fails partway through
// never leaves a partial file behind.
type Emitter struct {
	codegen CodeGenerator
	lines   []string
	err     error
}

// NewEmitter returns an empty Emitter ready to accept operations.
func NewEmitter() *Emitter {
	return &Emitter{codegen: NewCodeGenerator()}
}

func (e *Emitter) append(op Operation, gen func(Operation) (string, error)) {
	if e.err != nil {
		return
	}
	line, err := gen(op)
	if err != nil {
		e.err = err
		return
	}
	e.lines = append(e.lines, line)
}

// Push emits "push <seg> <i>".
func (e *Emitter) Push(seg SegmentType, i uint16) {
	op := MemoryOp{Operation: Push, Segment: seg, Offset: i}
	e.append(op, func(o Operation) (string, error) { return e.codegen.GenerateMemoryOp(o.(MemoryOp)) })
}

// Pop emits "pop <seg> <i>".
func (e *Emitter) Pop(seg SegmentType, i uint16) {
	op := MemoryOp{Operation: Pop, Segment: seg, Offset: i}
	e.append(op, func(o Operation) (string, error) { return e.codegen.GenerateMemoryOp(o.(MemoryOp)) })
}

// Arith emits the instruction(s) for one of the source language's binary
// operators. '*' and '/' are not native VM instructions; they translate
// to calls into the runtime's Math class, per spec.
func (e *Emitter) Arith(sym byte) error {
	switch sym {
	case '+':
		e.arith(Add)
	case '-':
		e.arith(Sub)
	case '&':
		e.arith(And)
	case '|':
		e.arith(Or)
	case '<':
		e.arith(Lt)
	case '>':
		e.arith(Gt)
	case '=':
		e.arith(Eq)
	case '*':
		e.Call("Math.multiply", 2)
	case '/':
		e.Call("Math.divide", 2)
	default:
		return fmt.Errorf("unsupported binary operator %q", sym)
	}
	return nil
}

// Unary emits the instruction for one of the source language's unary
// operators: '-' negates, '~' bitwise-inverts the stack top.
func (e *Emitter) Unary(sym byte) error {
	switch sym {
	case '-':
		e.arith(Neg)
	case '~':
		e.arith(Not)
	default:
		return fmt.Errorf("unsupported unary operator %q", sym)
	}
	return nil
}

func (e *Emitter) arith(op ArithOpType) {
	a := ArithmeticOp{Operation: op}
	e.append(a, func(o Operation) (string, error) { return e.codegen.GenerateArithmeticOp(o.(ArithmeticOp)) })
}

// Label emits "label <L>".
func (e *Emitter) Label(name string) {
	op := LabelDecl{Name: name}
	e.append(op, func(o Operation) (string, error) { return e.codegen.GenerateLabelDecl(o.(LabelDecl)) })
}

// Goto emits "goto <L>".
func (e *Emitter) Goto(label string) {
	op := GotoOp{Jump: Unconditional, Label: label}
	e.append(op, func(o Operation) (string, error) { return e.codegen.GenerateGotoOp(o.(GotoOp)) })
}

// IfGoto emits "if-goto <L>".
func (e *Emitter) IfGoto(label string) {
	op := GotoOp{Jump: Conditional, Label: label}
	e.append(op, func(o Operation) (string, error) { return e.codegen.GenerateGotoOp(o.(GotoOp)) })
}

// Call emits "call <name> <n>".
func (e *Emitter) Call(name string, nArgs uint16) {
	op := FuncCallOp{Name: name, NArgs: nArgs}
	e.append(op, func(o Operation) (string, error) { return e.codegen.GenerateFuncCallOp(o.(FuncCallOp)) })
}

// Function emits "function <name> <n_locals>".
func (e *Emitter) Function(name string, nLocals uint16) {
	op := FuncDecl{Name: name, NLocal: nLocals}
	e.append(op, func(o Operation) (string, error) { return e.codegen.GenerateFuncDecl(o.(FuncDecl)) })
}

// Return emits the return sequence. A void subroutine must leave a value
// on the stack for its (discarded) caller-side pop, so it pushes a dummy
// constant 0 first.
func (e *Emitter) Return(isVoid bool) {
	if isVoid {
		e.Push(Constant, 0)
	}
	op := ReturnOp{}
	e.append(op, func(o Operation) (string, error) { return e.codegen.GenerateReturnOp(o.(ReturnOp)) })
}

// StringLiteral emits the instruction sequence that constructs a String
// object at runtime from a Go string: String.new with the capacity, then
// one String.appendChar call per rune.
func (e *Emitter) StringLiteral(s string) {
	runes := []rune(s)
	e.Push(Constant, uint16(len(runes)))
	e.Call("String.new", 1)
	for _, r := range runes {
		e.Push(Constant, uint16(r))
		e.Call("String.appendChar", 2)
	}
}

// Err returns the first error encountered by any emit call, if any. Once
// set, further emit calls are no-ops — this mirrors the engine's
// fail-fast policy: once a production fails there is nothing worth
// emitting afterward.
func (e *Emitter) Err() error { return e.err }

// Lines returns the buffered output accumulated so far. Used by the
// driver's stdlib hints and by tests; output files are written by Close.
func (e *Emitter) Lines() []string { return append([]string(nil), e.lines...) }

// Close flushes the buffered lines to path atomically: it writes to a
// temporary file in the same directory and renames it into place, so a
// reader never observes a partially-written .vm file. If the emitter
// recorded an error, Close refuses to write anything (no partial output
// for a failed compilation).
func (e *Emitter) Close(path string) error {
	if e.err != nil {
		return fmt.Errorf("refusing to write %s: %w", path, e.err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".vm-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	for _, line := range e.lines {
		if _, err := fmt.Fprintln(tmp, line); err != nil {
			tmp.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp output file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into place %s: %w", path, err)
	}
	return nil
}
