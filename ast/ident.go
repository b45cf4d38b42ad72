// Package ast is the typed, validated abstract model this front-end
// produces: nominal types, aggregate declarations, interfaces and
// their commands, and the wire-level Value vocabulary those commands'
// arguments are drawn from. Every node carries the span.Span of its
// defining syntax. Nodes are immutable once constructed; aggregate
// types (Struct, Enum, Bitflags) are only ever built through their
// validating New* constructors, which are the sole place structural
// invariants (name uniqueness, marker combinability, arm-value range
// checks) are enforced. The sf::Bytes size and alignment checks are
// made by the parser, not by this package.
package ast

import (
	"strings"

	"github.com/switchkit/hipcidl/span"
)

// NamespacedIdent is a qualified name: zero or more namespace segments
// followed by a terminal name, e.g. ["ncm", "ProgramId"] for
// `ncm::ProgramId`, or just ["Get"] for an unqualified name. Every
// segment (including the terminal one) is a non-empty identifier.
type NamespacedIdent struct {
	Segments []string
	Span     span.Span
}

// Name returns the terminal (rightmost) segment.
func (n NamespacedIdent) Name() string {
	if len(n.Segments) == 0 {
		return ""
	}
	return n.Segments[len(n.Segments)-1]
}

// String renders the qualified name with `::` separators, matching
// the IDL's own surface syntax.
func (n NamespacedIdent) String() string {
	return strings.Join(n.Segments, "::")
}
