package vm

import "fmt"

// ----------------------------------------------------------------------------
// Code Generator

// Translates individual VM operations to their assembly text line. Each
// file is compiled and emitted one operation at a time (see Emitter), so
// CodeGenerator carries no state of its own beyond grouping the per-op
// Generate* methods.
type CodeGenerator struct{}

// NewCodeGenerator returns a CodeGenerator ready to render operations.
func NewCodeGenerator() CodeGenerator {
	return CodeGenerator{}
}

// GenerateMemoryOp converts a MemoryOp to its "push|pop <seg> <i>" line.
func (cg *CodeGenerator) GenerateMemoryOp(op MemoryOp) (string, error) {
	if op.Segment == Pointer && op.Offset > 1 {
		return "", fmt.Errorf("invalid 'pointer' offset, got %d", op.Offset)
	}
	if op.Segment == Temp && op.Offset > 7 {
		return "", fmt.Errorf("invalid 'temp' offset, got %d", op.Offset)
	}

	return fmt.Sprintf("%s %s %d", string(op.Operation), string(op.Segment), op.Offset), nil
}

// GenerateArithmeticOp converts an ArithmeticOp to its bare mnemonic line.
func (cg *CodeGenerator) GenerateArithmeticOp(op ArithmeticOp) (string, error) {
	return string(op.Operation), nil
}

// GenerateLabelDecl converts a LabelDecl to its "label <L>" line.
func (cg *CodeGenerator) GenerateLabelDecl(op LabelDecl) (string, error) {
	if op.Name == "" {
		return "", fmt.Errorf("unable to produce empty label declaration")
	}

	return fmt.Sprintf("label %s", op.Name), nil
}

// GenerateGotoOp converts a GotoOp to its "goto|if-goto <L>" line.
func (cg *CodeGenerator) GenerateGotoOp(op GotoOp) (string, error) {
	if op.Label == "" {
		return "", fmt.Errorf("unable to produce empty jump label")
	}

	return fmt.Sprintf("%s %s", string(op.Jump), op.Label), nil
}

// GenerateFuncDecl converts a FuncDecl to its "function <name> <n>" line.
func (cg *CodeGenerator) GenerateFuncDecl(op FuncDecl) (string, error) {
	if op.Name == "" {
		return "", fmt.Errorf("unable to produce empty function declaration")
	}

	return fmt.Sprintf("function %s %d", op.Name, op.NLocal), nil
}

// GenerateReturnOp converts a ReturnOp to its bare "return" line.
func (cg *CodeGenerator) GenerateReturnOp(op ReturnOp) (string, error) {
	return "return", nil
}

// GenerateFuncCallOp converts a FuncCallOp to its "call <name> <n>" line.
func (cg *CodeGenerator) GenerateFuncCallOp(op FuncCallOp) (string, error) {
	if op.Name == "" {
		return "", fmt.Errorf("unable to produce empty function call")
	}

	return fmt.Sprintf("call %s %d", op.Name, op.NArgs), nil
}
