// Package monomorph expands generic functions and structs into one
// concrete clone per type-argument instantiation the analyzer recorded,
// so the IR builder never has to lower an unresolved generic parameter.
package monomorph

import (
	"strings"

	"github.com/otabekoff/flc/internal/semantic/types"
)

// Mangle produces a deterministic name for a generic instantiated with
// args: Box<Int32> -> Box$Int32, Pair<Int32, String> -> Pair$Int32$string.
// The result is not guaranteed to be a legal source identifier (the '$'
// separators remain, and fixed-size array arguments keep their [N]
// brackets once sanitized), only a unique, reproducible symbol name for
// the IR and linker.
func Mangle(base string, args []types.Type) string {
	var b strings.Builder
	b.WriteString(base)
	for _, arg := range args {
		b.WriteByte('$')
		b.WriteString(sanitize(arg.String()))
	}
	return b.String()
}

func sanitize(s string) string {
	replacer := strings.NewReplacer(
		"[]", "Slice_",
		" ", "",
		"<", "$",
		">", "$",
		"(", "T$",
		")", "$",
		",", "_",
		".", "_",
		"*", "Ptr_",
		"&", "Ref_",
	)
	return replacer.Replace(s)
}
