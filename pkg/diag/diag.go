// Package diag defines the compiler's diagnostic type and the
// production-context trace the engine maintains while descending through
// the grammar, plus colorized rendering for the driver's CLI output.
package diag

import (
	"fmt"

	"github.com/fatih/color"

	"jackc.dev/compiler/pkg/utils"
)

// Kind classifies a diagnostic per the error taxonomy.
type Kind string

const (
	IO        Kind = "io"
	Lexical   Kind = "lexical"
	Syntactic Kind = "syntactic"
	Semantic  Kind = "semantic"
	Internal  Kind = "internal"
)

// Error is the compiler's one diagnostic type. Every Error carries enough
// to point a user at the offending lexeme and, where known, the chain of
// grammar productions active when it was raised.
type Error struct {
	Kind       Kind
	File       string
	Lexeme     string
	Production []string // innermost first, captured from a Trace snapshot
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s error", e.File, e.Kind)
	if e.Lexeme != "" {
		msg += fmt.Sprintf(" at %q", e.Lexeme)
	}
	if len(e.Production) > 0 {
		msg += fmt.Sprintf(" (in %s)", joinProduction(e.Production))
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func joinProduction(rules []string) string {
	out := rules[0]
	for _, r := range rules[1:] {
		out = r + " > " + out
	}
	return out
}

// Trace tracks the grammar productions currently being parsed, innermost
// last. The engine pushes the current production's name on entry and pops
// it on return; a raised Error snapshots it via Snapshot. Adapted from the
// teacher's generic utils.Stack[T] container, repurposed here from symbol
// shadowing (its original use in the teacher's scope tables) to
// diagnostic bookkeeping.
type Trace struct {
	stack utils.Stack[string]
}

// Enter pushes production onto the trace. Call its returned func on
// return (typically via defer) to pop it back off.
func (t *Trace) Enter(production string) func() {
	t.stack.Push(production)
	return func() { _, _ = t.stack.Pop() }
}

// Snapshot returns the current production chain, innermost first.
func (t *Trace) Snapshot() []string {
	var out []string
	for name := range t.stack.Iterator() {
		out = append(out, name)
	}
	return out
}

// Colorizer formats diagnostics as strings for the driver to print, with
// a colored prefix when enabled; it is typically built once per driver
// invocation.
type Colorizer struct {
	enabled bool
}

func NewColorizer(enabled bool) *Colorizer { return &Colorizer{enabled: enabled} }

func (c *Colorizer) Error(err error) string {
	if !c.enabled {
		return "error: " + err.Error()
	}
	return color.New(color.FgRed, color.Bold).Sprint("error: ") + err.Error()
}

func (c *Colorizer) Warn(msg string) string {
	if !c.enabled {
		return "warning: " + msg
	}
	return color.New(color.FgYellow, color.Bold).Sprint("warning: ") + msg
}
