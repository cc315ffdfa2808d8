package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"jackc.dev/compiler/pkg/compiler"
	"jackc.dev/compiler/pkg/diag"
	"jackc.dev/compiler/pkg/symtable"
)

// symbolDump is the on-disk shape of a symbol table dump, tagged with the
// build that produced it so a batch of dumps can be correlated.
type symbolDump struct {
	BuildID string                 `json:"buildId"`
	Class   string                 `json:"class"`
	Entries map[string]entryRecord `json:"entries"`
}

type entryRecord struct {
	Kind  string `json:"kind"`
	Type  string `json:"type"`
	Index uint16 `json:"index"`
}

func dumpSymbols(outDir, basename string, engine *compiler.Engine, buildID string) error {
	symbolsDir := filepath.Join(outDir, "symbol_tables")
	if err := os.MkdirAll(symbolsDir, 0o755); err != nil {
		return &diag.Error{Kind: diag.IO, File: basename, Cause: err}
	}

	if err := writeDump(filepath.Join(symbolsDir, "class_table.txt"),
		basename, buildID, engine.Symbols().ClassEntries()); err != nil {
		return err
	}
	if err := writeDump(filepath.Join(symbolsDir, "subroutine_table.txt"),
		basename, buildID, engine.Symbols().SubroutineEntries()); err != nil {
		return err
	}
	return nil
}

func writeDump(path, class, buildID string, entries map[string]symtable.Entry) error {
	dump := symbolDump{BuildID: buildID, Class: class, Entries: map[string]entryRecord{}}
	for name, e := range entries {
		dump.Entries[name] = entryRecord{Kind: string(e.Kind), Type: e.Type, Index: e.Index}
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return &diag.Error{Kind: diag.IO, File: path, Cause: fmt.Errorf("encoding symbol dump: %w", err)}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &diag.Error{Kind: diag.IO, File: path, Cause: err}
	}
	return nil
}
