package ast

import (
	"github.com/switchkit/hipcidl/diag"
	"github.com/switchkit/hipcidl/span"
)

// EnumArm is one named discriminant value of an Enum.
type EnumArm struct {
	Name  string
	Value uint64
	Span  span.Span
}

// Enum is a tagged enumeration over a fixed-width integer base type.
// Arm names must be unique; arm values must each be representable in
// Base, but duplicate *values* across distinct arms are intentionally
// left unenforced (spec §9 open question 1 — downstream codegen may
// or may not rely on discriminant uniqueness, and nothing here
// prejudges that).
type Enum struct {
	Name NamespacedIdent
	Base IntType
	Arms []EnumArm
	Span span.Span
}

// NewEnum validates arm-name uniqueness and that every arm's value
// fits in base, returning diagnostics local to the offending arms on
// failure (decorated with the enum's span by the caller, as NewStruct
// documents).
func NewEnum(name NamespacedIdent, base IntType, arms []EnumArm, sp span.Span) (Enum, []diag.Diagnostic) {
	var ds []diag.Diagnostic

	seen := make(map[string]span.Span, len(arms))
	for _, a := range arms {
		if first, dup := seen[a.Name]; dup {
			ds = append(ds, diag.Errorf(a.Span, "duplicate enum arm %q", a.Name).
				WithLabel(diag.Secondary, first, "first defined here"))
			continue
		}
		seen[a.Name] = a.Span
		if !base.Fits(a.Value) {
			ds = append(ds, diag.Errorf(a.Span, "value %d does not fit in base type %s", a.Value, base))
		}
	}

	if len(ds) > 0 {
		return Enum{}, ds
	}
	return Enum{Name: name, Base: base, Arms: arms, Span: sp}, nil
}
