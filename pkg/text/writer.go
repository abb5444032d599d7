package text

import "github.com/usethesource/pdb.values/pkg/value"

// Writer prints values in the canonical textual form.
//
// ValueToString is deliberately thin: every value.Value kind already
// implements String() in exactly this grammar (pkg/value's doc comments
// call this out explicitly, so the two can never drift apart), and
// Writer exists as a named, documented entry point at the package this
// library's external interface lists it under, per spec.md §6's "Text
// writer surface: one primary entry valueToString(v) -> String".
type Writer struct{}

// ValueToString returns v's canonical textual representation.
func (Writer) ValueToString(v value.Value) string { return v.String() }
