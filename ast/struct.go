package ast

import (
	"fmt"

	"github.com/switchkit/hipcidl/diag"
	"github.com/switchkit/hipcidl/span"
)

// StructField is one named component of a Struct.
type StructField struct {
	Name string
	Type NominalType
	Span span.Span
}

// MarkerKind discriminates StructMarker's variants.
type MarkerKind int

const (
	LargeData MarkerKind = iota
	PrefersTransferModeMarker
)

// StructMarker is a trait tag attached to a struct declaration.
type StructMarker struct {
	Kind MarkerKind
	// valid when Kind == PrefersTransferModeMarker
	Mode TransferMode
	Span span.Span
}

// Struct is a validated aggregate named type. It can only be built via
// NewStruct, which enforces field-name uniqueness and marker
// combinability (spec §4.4 "Validation on reduction").
type Struct struct {
	Name    NamespacedIdent
	Fields  []StructField
	Markers []StructMarker
	Span    span.Span
}

// NewStruct validates fields and markers and, on success, returns the
// constructed Struct. On failure it returns the zero Struct and a
// non-empty diagnostic vector whose spans are local to the offending
// fields/markers — callers (the parser) are expected to decorate each
// diagnostic with a primary label covering the struct's own span
// before surfacing it (spec §4.2).
func NewStruct(name NamespacedIdent, fields []StructField, markers []StructMarker, sp span.Span) (Struct, []diag.Diagnostic) {
	var ds []diag.Diagnostic

	seen := make(map[string]span.Span, len(fields))
	for _, f := range fields {
		if first, dup := seen[f.Name]; dup {
			d := diag.Errorf(f.Span, "duplicate field %q", f.Name).
				WithLabel(diag.Secondary, first, "first defined here")
			ds = append(ds, d)
			continue
		}
		seen[f.Name] = f.Span
	}

	var transferMarkers []StructMarker
	for _, m := range markers {
		if m.Kind == PrefersTransferModeMarker {
			transferMarkers = append(transferMarkers, m)
		}
	}
	if len(transferMarkers) > 1 {
		d := diag.Errorf(transferMarkers[0].Span, "struct specifies more than one transfer-mode preference marker")
		for _, m := range transferMarkers[1:] {
			d = d.WithLabel(diag.Secondary, m.Span, "also specified here")
		}
		ds = append(ds, d)
	}

	if len(ds) > 0 {
		return Struct{}, ds
	}
	return Struct{Name: name, Fields: fields, Markers: markers, Span: sp}, nil
}

// HasMarker reports whether s carries a marker of kind k.
func (s Struct) HasMarker(k MarkerKind) bool {
	for _, m := range s.Markers {
		if m.Kind == k {
			return true
		}
	}
	return false
}

func (s Struct) String() string {
	return fmt.Sprintf("struct %s", s.Name)
}
