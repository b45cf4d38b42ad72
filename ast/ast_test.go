package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/switchkit/hipcidl/ast"
	"github.com/switchkit/hipcidl/span"
)

func ident(name string) ast.NamespacedIdent {
	return ast.NamespacedIdent{Segments: []string{name}}
}

// TestNewStruct_RejectsDuplicateFields verifies field-name collisions
// are reported with a primary label on the second occurrence and a
// secondary label pointing back at the first.
func TestNewStruct_RejectsDuplicateFields(t *testing.T) {
	first := span.Span{File: 1, Lo: 0, Hi: 5}
	second := span.Span{File: 1, Lo: 10, Hi: 15}
	fields := []ast.StructField{
		{Name: "x", Span: first},
		{Name: "x", Span: second},
	}

	_, ds := ast.NewStruct(ident("S"), fields, nil, span.Span{File: 1})
	require.Len(t, ds, 1)
	assert.Equal(t, second, ds[0].PrimarySpan())
}

// TestNewStruct_RejectsMultipleTransferModeMarkers verifies at most
// one sf::Prefers*TransferMode marker is allowed per struct.
func TestNewStruct_RejectsMultipleTransferModeMarkers(t *testing.T) {
	m1 := ast.StructMarker{Kind: ast.PrefersTransferModeMarker, Mode: ast.MapAlias, Span: span.Span{File: 1, Lo: 0, Hi: 1}}
	m2 := ast.StructMarker{Kind: ast.PrefersTransferModeMarker, Mode: ast.Pointer, Span: span.Span{File: 1, Lo: 2, Hi: 3}}

	_, ds := ast.NewStruct(ident("S"), nil, []ast.StructMarker{m1, m2}, span.Span{File: 1})
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "more than one transfer-mode")
}

// TestNewStruct_AcceptsLargeDataAlongsideTransferModeMarker verifies
// LargeData and a single transfer-mode marker can coexist.
func TestNewStruct_AcceptsLargeDataAlongsideTransferModeMarker(t *testing.T) {
	markers := []ast.StructMarker{
		{Kind: ast.LargeData},
		{Kind: ast.PrefersTransferModeMarker, Mode: ast.AutoSelect},
	}
	s, ds := ast.NewStruct(ident("S"), nil, markers, span.Span{File: 1})
	require.Empty(t, ds)
	assert.True(t, s.HasMarker(ast.LargeData))
	assert.True(t, s.HasMarker(ast.PrefersTransferModeMarker))
}

// TestNewEnum_RejectsOutOfRangeValue verifies an arm value that
// doesn't fit the base integer type is rejected.
func TestNewEnum_RejectsOutOfRangeValue(t *testing.T) {
	arms := []ast.EnumArm{{Name: "Big", Value: 256, Span: span.Span{File: 1, Lo: 0, Hi: 3}}}
	_, ds := ast.NewEnum(ident("E"), ast.U8, arms, span.Span{File: 1})
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "does not fit")
}

// TestNewEnum_AllowsDuplicateValuesAcrossArms verifies duplicate
// *values* (as opposed to duplicate names) are intentionally
// unenforced.
func TestNewEnum_AllowsDuplicateValuesAcrossArms(t *testing.T) {
	arms := []ast.EnumArm{
		{Name: "A", Value: 0, Span: span.Span{File: 1, Lo: 0, Hi: 1}},
		{Name: "B", Value: 0, Span: span.Span{File: 1, Lo: 2, Hi: 3}},
	}
	_, ds := ast.NewEnum(ident("E"), ast.U8, arms, span.Span{File: 1})
	assert.Empty(t, ds)
}

// TestNewEnum_RejectsDuplicateArmNames verifies arm-name uniqueness is
// still enforced even when values differ.
func TestNewEnum_RejectsDuplicateArmNames(t *testing.T) {
	arms := []ast.EnumArm{
		{Name: "A", Value: 0, Span: span.Span{File: 1, Lo: 0, Hi: 1}},
		{Name: "A", Value: 1, Span: span.Span{File: 1, Lo: 2, Hi: 3}},
	}
	_, ds := ast.NewEnum(ident("E"), ast.U8, arms, span.Span{File: 1})
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "duplicate enum arm")
}

// TestIntType_Fits verifies the bit-width boundary check used by both
// Enum and Bitflags validation.
func TestIntType_Fits(t *testing.T) {
	assert.True(t, ast.U8.Fits(255))
	assert.False(t, ast.U8.Fits(256))
	assert.True(t, ast.U64.Fits(1<<63))
}

// TestIntTypeFromKeyword_SignedAliases verifies s8..s64 map onto the
// same IntType as i8..i64 (spec §3: they're surface aliases, not a
// distinct signedness flag).
func TestIntTypeFromKeyword_SignedAliases(t *testing.T) {
	it, ok := ast.IntTypeFromKeyword("s32")
	require.True(t, ok)
	assert.Equal(t, ast.I32, it)

	it2, ok := ast.IntTypeFromKeyword("i32")
	require.True(t, ok)
	assert.Equal(t, it, it2)

	_, ok = ast.IntTypeFromKeyword("u128")
	assert.False(t, ok)
}

// TestNewCommand_RejectsOversizedID verifies command ids must fit in
// a 32-bit unsigned integer.
func TestNewCommand_RejectsOversizedID(t *testing.T) {
	_, ds := ast.NewCommand(1<<32, span.Span{File: 1}, "Get", nil, span.Span{File: 1})
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "32-bit")
}

// TestNewInterface_RejectsOverlongServiceName verifies the 8-character
// service-manager name length limit.
func TestNewInterface_RejectsOverlongServiceName(t *testing.T) {
	sp := span.Span{File: 1, Lo: 0, Hi: 10}
	_, ds := ast.NewInterface(ident("IFoo"), []string{"toolongname"}, []span.Span{sp}, nil, span.Span{File: 1})
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "longer than 8")
}

// TestNewInterface_RejectsInvalidServiceNameCharset verifies
// characters outside [A-Za-z0-9_:-] are rejected.
func TestNewInterface_RejectsInvalidServiceNameCharset(t *testing.T) {
	sp := span.Span{File: 1, Lo: 0, Hi: 5}
	_, ds := ast.NewInterface(ident("IFoo"), []string{"bad name"}, []span.Span{sp}, nil, span.Span{File: 1})
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "outside")
}

// TestNamespacedIdent_NameAndString verify the terminal-segment
// accessor and the "::"-joined surface rendering.
func TestNamespacedIdent_NameAndString(t *testing.T) {
	n := ast.NamespacedIdent{Segments: []string{"ncm", "ProgramId"}}
	assert.Equal(t, "ProgramId", n.Name())
	assert.Equal(t, "ncm::ProgramId", n.String())
}
