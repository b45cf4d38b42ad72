package ast

import "github.com/switchkit/hipcidl/span"

// TypeAlias is a named synonym for a NominalType. Its right-hand side
// is resolved lexically only — no check that it doesn't (directly or
// transitively) alias itself is performed at parse time (spec §3);
// that would require cross-declaration resolution, an explicit
// Non-goal.
type TypeAlias struct {
	Name NamespacedIdent
	Type NominalType
	Span span.Span
}
