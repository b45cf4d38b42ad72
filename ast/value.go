package ast

import "github.com/switchkit/hipcidl/span"

// TransferMode is how a buffer or array argument is conveyed over
// HIPC (spec GLOSSARY).
type TransferMode int

const (
	MapAlias TransferMode = iota
	Pointer
	AutoSelect
)

func (m TransferMode) String() string {
	switch m {
	case MapAlias:
		return "MapAlias"
	case Pointer:
		return "Pointer"
	default:
		return "AutoSelect"
	}
}

// BufferAttrs are orthogonal flags on a buffer argument, on top of its
// TransferMode.
type BufferAttrs int

const (
	NoAttrs BufferAttrs = iota
	AllowNonSecure
	AllowNonDevice
)

// HandleKind is whether a kernel handle argument is duplicated or
// ownership-transferred.
type HandleKind int

const (
	Copy HandleKind = iota
	Move
)

func (k HandleKind) String() string {
	if k == Copy {
		return "Copy"
	}
	return "Move"
}

// ValueKind discriminates Value's variants — the closed, non-recursive
// wire-level argument vocabulary spec §9 describes.
type ValueKind int

const (
	In ValueKind = iota
	Out
	InBuffer
	OutBuffer
	InArray
	OutArray
	InHandle
	OutHandle
	InObject
	OutObject
	ClientProcessId
)

// Value is one command argument's wire-level kind. Only the fields
// relevant to Kind are populated; see the comments on each for which
// Kind they belong to.
type Value struct {
	Kind ValueKind

	// In, Out, InArray, OutArray: the referenced element type.
	Elem *NominalType

	// InBuffer, OutBuffer, InArray, OutArray: transfer mode. Arrays may
	// omit it (ModeSet == false) if the surface form didn't specify one.
	Mode    TransferMode
	ModeSet bool

	// InBuffer, OutBuffer only.
	Attrs BufferAttrs

	// InHandle, OutHandle only.
	Handle HandleKind

	// InObject, OutObject only. For OutObject, nil Iface means
	// sf::SharedPointer<sf::IUnknown> (spec §4.4 value table).
	Iface *NamespacedIdent

	Span span.Span
}
