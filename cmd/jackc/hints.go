package main

import (
	"fmt"
	"regexp"
	"strconv"

	"jackc.dev/compiler/pkg/stdlib"
)

var callLine = regexp.MustCompile(`^call (\w+)\.(\w+) (\d+)$`)

// hintStdlibCalls scans already-generated VM text for calls into a known
// stdlib class whose argument count matches neither the registered arity
// nor that arity plus one (a receiver pushed for a method call). It never
// affects compilation — these are advisory only, since the compiler
// performs no type checking beyond identifier resolution.
func hintStdlibCalls(lines []string) []string {
	var warnings []string
	for _, line := range lines {
		m := callLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		class, method, argc := m[1], m[2], m[3]
		if !stdlib.Known(class) {
			continue
		}
		want, ok := stdlib.Arity(class, method)
		if !ok {
			continue
		}
		got, err := strconv.Atoi(argc)
		if err != nil {
			continue
		}
		if got != want && got != want+1 {
			warnings = append(warnings, fmt.Sprintf(
				"warning: %s.%s called with %d argument(s), stdlib ABI expects %d", class, method, got, want))
		}
	}
	return warnings
}
