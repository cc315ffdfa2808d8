package compiler

import (
	"jackc.dev/compiler/pkg/symtable"
	"jackc.dev/compiler/pkg/vm"
)

// segmentOf maps a symbol's storage kind to the VM segment it lives in:
// static->static, field->this, arg->argument, var->local.
func segmentOf(kind symtable.Kind) vm.SegmentType {
	switch kind {
	case symtable.Static:
		return vm.Static
	case symtable.Field:
		return vm.This
	case symtable.Arg:
		return vm.Argument
	case symtable.Var:
		return vm.Local
	default:
		return ""
	}
}
