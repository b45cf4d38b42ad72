package ast

import (
	"fmt"

	"github.com/switchkit/hipcidl/span"
)

// IntType is one of the eight fixed-width integer primitives. s8..s64
// are surface aliases of i8..i64 (spec §3) and lex/parse to the same
// IntType value — there is no separate "signed-alias" flag to carry.
type IntType int

const (
	U8 IntType = iota
	U16
	U32
	U64
	I8
	I16
	I32
	I64
)

var intTypeNames = map[IntType]string{
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	I8: "i8", I16: "i16", I32: "i32", I64: "i64",
}

func (t IntType) String() string {
	if n, ok := intTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("inttype(%d)", int(t))
}

// BitWidth returns the type's width in bits.
func (t IntType) BitWidth() int {
	switch t {
	case U8, I8:
		return 8
	case U16, I16:
		return 16
	case U32, I32:
		return 32
	default:
		return 64
	}
}

// Fits reports whether v is representable in t's bit width. Since
// numeric literals in this grammar are never negative (spec §6), this
// is just a range-on-magnitude check: does v fit in BitWidth() bits,
// treating the bit pattern as either the signed or unsigned
// interpretation of that width.
func (t IntType) Fits(v uint64) bool {
	bits := t.BitWidth()
	if bits >= 64 {
		return true
	}
	return v <= (uint64(1)<<uint(bits))-1
}

// IntTypeFromKeyword maps a surface keyword (u8, s32, i64, ...) to its
// IntType, reporting ok == false for anything else.
func IntTypeFromKeyword(kw string) (IntType, bool) {
	switch kw {
	case "u8":
		return U8, true
	case "u16":
		return U16, true
	case "u32":
		return U32, true
	case "u64":
		return U64, true
	case "i8", "s8":
		return I8, true
	case "i16", "s16":
		return I16, true
	case "i32", "s32":
		return I32, true
	case "i64", "s64":
		return I64, true
	default:
		return 0, false
	}
}

// NominalKind discriminates NominalType's variants.
type NominalKind int

const (
	NominalInt NominalKind = iota
	NominalBool
	NominalF32
	NominalBytes
	NominalUnknown
	NominalTypeName
)

// NominalType is a type expression usable in a struct field or a type
// alias's right-hand side — never a command argument's Value, which
// is a disjoint, non-recursive vocabulary (spec §3, §9).
type NominalType struct {
	Kind NominalKind

	Int IntType // valid when Kind == NominalInt

	// valid when Kind == NominalBytes
	BytesSize      uint64
	BytesAlignment uint64

	// valid when Kind == NominalUnknown; nil means no explicit size
	UnknownSize *uint64

	// valid when Kind == NominalTypeName
	TypeName NamespacedIdent

	Span span.Span
}

// ValidBytesAlignments are the only alignments sf::Bytes<size,
// alignment> accepts (spec §3).
var ValidBytesAlignments = map[uint64]bool{1: true, 2: true, 4: true, 8: true, 16: true}
