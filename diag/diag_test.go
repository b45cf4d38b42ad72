package diag_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/switchkit/hipcidl/diag"
	"github.com/switchkit/hipcidl/span"
)

// TestErrorf_BuildsPrimaryLabel verifies Errorf stamps an Error
// severity diagnostic with exactly one primary label at the given span.
func TestErrorf_BuildsPrimaryLabel(t *testing.T) {
	sp := span.Span{File: 1, Lo: 3, Hi: 7}
	d := diag.Errorf(sp, "bad thing: %d", 42)

	assert.Equal(t, diag.Error, d.Severity)
	assert.Equal(t, "bad thing: 42", d.Message)
	require.Len(t, d.Labels, 1)
	assert.Equal(t, diag.Primary, d.Labels[0].Style)
	assert.Equal(t, sp, d.PrimarySpan())
}

// TestWithPrimaryLabel_PrependsAheadOfExisting verifies the parser's
// decoration pattern: adding an enclosing-item label keeps it first so
// PrimarySpan reports the item span, while sub-node labels remain
// reachable.
func TestWithPrimaryLabel_PrependsAheadOfExisting(t *testing.T) {
	fieldSpan := span.Span{File: 1, Lo: 10, Hi: 14}
	itemSpan := span.Span{File: 1, Lo: 0, Hi: 40}

	d := diag.Errorf(fieldSpan, "duplicate field %q", "x").
		WithLabel(diag.Secondary, span.Span{File: 1, Lo: 20, Hi: 24}, "first defined here")
	d = d.WithPrimaryLabel(itemSpan, "in struct S")

	require.Len(t, d.Labels, 3)
	assert.Equal(t, itemSpan, d.Labels[0].Span)
	assert.Equal(t, itemSpan, d.PrimarySpan())
}

// TestHasErrors verifies the Error/Bug-only predicate spec.md uses to
// decide overall pass/fail.
func TestHasErrors(t *testing.T) {
	none := []diag.Diagnostic{{Severity: diag.Warning}, {Severity: diag.Note}}
	assert.False(t, diag.HasErrors(none))

	withError := append(none, diag.Diagnostic{Severity: diag.Error})
	assert.True(t, diag.HasErrors(withError))

	withBug := append(none, diag.Diagnostic{Severity: diag.Bug})
	assert.True(t, diag.HasErrors(withBug))
}

// TestRender_PlainIncludesLocationAndCaret verifies the unstyled
// rendering path prints the file:line:col location and a caret line
// under the offending text, with no ANSI escapes.
func TestRender_PlainIncludesLocationAndCaret(t *testing.T) {
	reg := span.NewRegistry()
	id := reg.AddFile("f.id", "struct S { u32 x; u32 x; }")

	sp := span.Span{File: id, Lo: 22, Hi: 23} // second "x"
	d := diag.Errorf(sp, "duplicate field %q", "x")

	var buf bytes.Buffer
	diag.Render(&buf, reg, d, false)

	out := buf.String()
	assert.Contains(t, out, "error: duplicate field \"x\"")
	assert.Contains(t, out, "f.id:1:23")
	assert.Contains(t, out, "^")
	assert.NotContains(t, out, "\x1b[")
}
