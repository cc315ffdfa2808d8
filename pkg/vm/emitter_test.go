package vm_test

import (
	"os"
	"path/filepath"
	"testing"

	"jackc.dev/compiler/pkg/vm"
)

func TestEmitterBuffering(t *testing.T) {
	e := vm.NewEmitter()
	e.Push(vm.Constant, 1)
	e.Push(vm.Constant, 2)
	if err := e.Arith('+'); err != nil {
		t.Fatalf("Arith(+) unexpected error: %s", err)
	}
	e.Return(false)

	want := []string{"push constant 1", "push constant 2", "add", "return"}
	got := e.Lines()
	if len(got) != len(want) {
		t.Fatalf("Lines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Lines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEmitterMultiplyDivideLowerToMathCalls(t *testing.T) {
	e := vm.NewEmitter()
	e.Push(vm.Constant, 6)
	e.Push(vm.Constant, 7)
	if err := e.Arith('*'); err != nil {
		t.Fatal(err)
	}

	want := []string{"push constant 6", "push constant 7", "call Math.multiply 2"}
	got := e.Lines()
	if len(got) != len(want) || got[2] != want[2] {
		t.Fatalf("Lines() = %v, want %v", got, want)
	}
}

func TestEmitterTrueIsAllOnes(t *testing.T) {
	e := vm.NewEmitter()
	e.Push(vm.Constant, 0)
	if err := e.Unary('~'); err != nil {
		t.Fatal(err)
	}
	want := []string{"push constant 0", "not"}
	got := e.Lines()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Lines() = %v, want %v", got, want)
	}
}

func TestEmitterCloseRefusesOnError(t *testing.T) {
	e := vm.NewEmitter()
	e.Push(vm.Temp, 8) // out of range: temp is 0-7

	dir := t.TempDir()
	path := filepath.Join(dir, "Out.vm")
	if err := e.Close(path); err == nil {
		t.Fatal("Close should refuse to write once the emitter has recorded an error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("Close must not leave a partial output file behind on error")
	}
}

func TestEmitterCloseWritesAtomically(t *testing.T) {
	e := vm.NewEmitter()
	e.Push(vm.Constant, 42)
	e.Return(false)

	dir := t.TempDir()
	path := filepath.Join(dir, "Out.vm")
	if err := e.Close(path); err != nil {
		t.Fatalf("Close unexpected error: %s", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "Out.vm" {
		t.Fatalf("directory contains %v, want exactly Out.vm (no leftover temp file)", entries)
	}
}
