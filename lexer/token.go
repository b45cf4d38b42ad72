// Package lexer turns IDL source text into a flat token stream.
// Keyword recognition is contextual: the lexer only ever emits Ident
// for `[A-Za-z_][A-Za-z0-9_]*` runs, and the parser decides — based on
// grammatical position — whether a given Ident spells a keyword like
// `struct` or an ordinary name.
package lexer

import "fmt"

// Kind identifies what a Token is. Punctuation tokens use their own
// rune value as their Kind, following the teacher's convention of
// reusing the literal rune for single-character tokens so switch
// statements can match '{' directly instead of a named constant.
type Kind rune

const (
	EOF Kind = -(iota + 1)
	Unexpected

	Ident       // [A-Za-z_][A-Za-z0-9_]*
	NumLit      // 0x[0-9a-fA-F]+ or [0-9]+
	ServiceName // "[A-Za-z0-9_:\-]*"
	DocLine     // ///[^\r\n]*
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "<eof>"
	case Unexpected:
		return "<unexpected>"
	case Ident:
		return "<ident>"
	case NumLit:
		return "<number>"
	case ServiceName:
		return "<service-name>"
	case DocLine:
		return "<doc>"
	default:
		if k >= 0 && k < 128 {
			return fmt.Sprintf("%q", rune(k))
		}
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Position is a byte offset plus the 1-based line/column it falls on,
// matching text/scanner.Position's shape so callers can format
// locations without reaching into span.Registry when all they have is
// a bare Token.
type Position struct {
	Offset      int
	Line, Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one lexical unit: a Kind, the byte range it spans, and
// (lazily, via Lexer.TokenText) its literal text.
type Token struct {
	Kind       Kind
	Start, End Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%s", t.Kind, t.Start)
}
