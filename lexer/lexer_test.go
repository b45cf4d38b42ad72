package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/switchkit/hipcidl/lexer"
	"github.com/switchkit/hipcidl/span"
)

func scanAll(t *testing.T, src string) ([]lexer.Token, []string) {
	t.Helper()
	lx := lexer.New(span.FileID(1), src)
	var toks []lexer.Token
	var texts []string
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		texts = append(texts, lx.TokenText())
		if tok.Kind == lexer.EOF {
			break
		}
	}
	return toks, texts
}

// TestLexer_SkipsWhitespaceAndNonDocComments verifies trivia (spaces,
// line comments, block comments) never produces a token, while a doc
// line (///) always does.
func TestLexer_SkipsWhitespaceAndNonDocComments(t *testing.T) {
	toks, texts := scanAll(t, "  // a plain comment\n/* block */ x /// doc\n")
	require.Len(t, toks, 3) // Ident("x"), DocLine, EOF
	assert.Equal(t, lexer.Ident, toks[0].Kind)
	assert.Equal(t, "x", texts[0])
	assert.Equal(t, lexer.DocLine, toks[1].Kind)
	assert.Equal(t, "/// doc", texts[1])
	assert.Equal(t, lexer.EOF, toks[2].Kind)
}

// TestLexer_ContextualKeywordsAreJustIdents verifies the lexer never
// emits a dedicated keyword Kind -- "struct" and an ordinary name both
// come back as Ident, with disambiguation left to the parser.
func TestLexer_ContextualKeywordsAreJustIdents(t *testing.T) {
	toks, texts := scanAll(t, "struct Foo")
	assert.Equal(t, lexer.Ident, toks[0].Kind)
	assert.Equal(t, "struct", texts[0])
	assert.Equal(t, lexer.Ident, toks[1].Kind)
	assert.Equal(t, "Foo", texts[1])
}

// TestLexer_HexAndDecimalNumbers verifies both numeric literal forms
// lex to NumLit with their exact source text preserved.
func TestLexer_HexAndDecimalNumbers(t *testing.T) {
	toks, texts := scanAll(t, "0x1A 42")
	assert.Equal(t, lexer.NumLit, toks[0].Kind)
	assert.Equal(t, "0x1A", texts[0])
	assert.Equal(t, lexer.NumLit, toks[1].Kind)
	assert.Equal(t, "42", texts[1])
}

// TestLexer_OverflowingNumberIsDiagnosed verifies a literal that
// doesn't fit in 64 bits is still returned as a NumLit token (so the
// parser can keep going) but reports exactly one diagnostic.
func TestLexer_OverflowingNumberIsDiagnosed(t *testing.T) {
	lx := lexer.New(span.FileID(1), "99999999999999999999")
	tok := lx.Next()
	assert.Equal(t, lexer.NumLit, tok.Kind)
	require.Len(t, lx.Diagnostics, 1)
	assert.Contains(t, lx.Diagnostics[0].Message, "overflow")
}

// TestLexer_ServiceNameLiteral verifies quoted service-manager names
// lex to ServiceName with the surrounding quotes kept in the text (the
// parser strips them).
func TestLexer_ServiceNameLiteral(t *testing.T) {
	toks, texts := scanAll(t, `"fsp-srv"`)
	assert.Equal(t, lexer.ServiceName, toks[0].Kind)
	assert.Equal(t, `"fsp-srv"`, texts[0])
}

// TestLexer_UnterminatedServiceNameIsDiagnosed verifies an unterminated
// quoted literal is flagged rather than silently consuming the rest of
// the file.
func TestLexer_UnterminatedServiceNameIsDiagnosed(t *testing.T) {
	lx := lexer.New(span.FileID(1), `"fsp-srv`)
	tok := lx.Next()
	assert.Equal(t, lexer.ServiceName, tok.Kind)
	require.Len(t, lx.Diagnostics, 1)
	assert.Contains(t, lx.Diagnostics[0].Message, "unterminated")
}

// TestLexer_Punctuation verifies each punctuation rune lexes to a Kind
// equal to its own rune value.
func TestLexer_Punctuation(t *testing.T) {
	toks, _ := scanAll(t, "{}()<>[],;:=+-.@")
	want := "{}()<>[],;:=+-.@"
	require.Len(t, toks, len(want)+1) // plus EOF
	for i, r := range want {
		assert.Equal(t, lexer.Kind(r), toks[i].Kind)
	}
}

// TestLexer_ByteOffsetsRoundTrip verifies a token's [Start,End) byte
// range, read back from the source, equals its own text -- the
// invariant the UTF-8 byte-offset lexer exists to guarantee.
func TestLexer_ByteOffsetsRoundTrip(t *testing.T) {
	src := "struct Pos { u32 x; u32 y; }"
	lx := lexer.New(span.FileID(1), src)
	for {
		tok := lx.Next()
		if tok.Kind == lexer.EOF {
			break
		}
		got := src[tok.Start.Offset:tok.End.Offset]
		assert.Equal(t, lx.TokenText(), got)
	}
}
