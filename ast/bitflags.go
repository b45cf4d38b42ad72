package ast

import (
	"github.com/switchkit/hipcidl/diag"
	"github.com/switchkit/hipcidl/span"
)

// BitflagsArm is one named bit pattern of a Bitflags set.
type BitflagsArm struct {
	Name  string
	Value uint64
	Span  span.Span
}

// Bitflags is a flag bag over a fixed-width integer base type, with
// the same arm-name-uniqueness and value-range invariants as Enum.
// As with Enum, duplicate *values* across distinct arms are not
// rejected.
type Bitflags struct {
	Name NamespacedIdent
	Base IntType
	Arms []BitflagsArm
	Span span.Span
}

// NewBitflags mirrors NewEnum's validation exactly.
func NewBitflags(name NamespacedIdent, base IntType, arms []BitflagsArm, sp span.Span) (Bitflags, []diag.Diagnostic) {
	var ds []diag.Diagnostic

	seen := make(map[string]span.Span, len(arms))
	for _, a := range arms {
		if first, dup := seen[a.Name]; dup {
			ds = append(ds, diag.Errorf(a.Span, "duplicate bitflags arm %q", a.Name).
				WithLabel(diag.Secondary, first, "first defined here"))
			continue
		}
		seen[a.Name] = a.Span
		if !base.Fits(a.Value) {
			ds = append(ds, diag.Errorf(a.Span, "value %d does not fit in base type %s", a.Value, base))
		}
	}

	if len(ds) > 0 {
		return Bitflags{}, ds
	}
	return Bitflags{Name: name, Base: base, Arms: arms, Span: sp}, nil
}
