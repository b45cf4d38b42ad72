// Package parser turns a token stream into an ast.IpcFile (or a
// diagnostic vector). It's a hand-written recursive-descent parser
// with two tokens of lookahead, matching the teacher's own
// (kdlc/parser) structure of peek/next/expect helpers and per-production
// parse* methods rather than a goyacc-generated table — see DESIGN.md
// for why recursive descent was chosen over a generated parser.
//
// Recovery is never attempted (spec §4.5): the first syntactic error
// aborts the whole parse. Structural errors raised by ast's validating
// constructors (duplicate fields, conflicting markers, ...) do not
// abort — they accumulate across every item in the file, and only
// prevent the file from having a successful result; they never halt
// parsing of subsequent items the way a syntax error does.
package parser

import (
	"fmt"
	"strings"

	"github.com/switchkit/hipcidl/ast"
	"github.com/switchkit/hipcidl/diag"
	"github.com/switchkit/hipcidl/lexer"
	"github.com/switchkit/hipcidl/span"
)

// parseAbort is the sentinel panic value used to unwind to the
// entry-point function on the first syntax error, without attempting
// recovery (spec §4.5).
type parseAbort struct{}

type parser struct {
	lex  *lexer.Lexer
	file span.FileID

	tok  [2]lexer.Token
	text [2]string

	lexDiagsSeen int
	diags        []diag.Diagnostic
}

func newParser(file span.FileID, src string) *parser {
	p := &parser{lex: lexer.New(file, src), file: file}
	p.tok[0] = p.lex.Next()
	p.text[0] = p.lex.TokenText()
	p.drainLexDiags()
	p.tok[1] = p.lex.Next()
	p.text[1] = p.lex.TokenText()
	p.drainLexDiags()
	return p
}

func (p *parser) drainLexDiags() {
	if len(p.lex.Diagnostics) > p.lexDiagsSeen {
		p.diags = append(p.diags, p.lex.Diagnostics[p.lexDiagsSeen:]...)
		p.lexDiagsSeen = len(p.lex.Diagnostics)
	}
}

func (p *parser) peek() lexer.Token   { return p.tok[0] }
func (p *parser) peekText() string    { return p.text[0] }
func (p *parser) peek2() lexer.Token  { return p.tok[1] }

func (p *parser) advance() (lexer.Token, string) {
	cur, curText := p.tok[0], p.text[0]
	p.tok[0], p.text[0] = p.tok[1], p.text[1]
	p.tok[1] = p.lex.Next()
	p.text[1] = p.lex.TokenText()
	p.drainLexDiags()
	return cur, curText
}

func spanOf(file span.FileID, tok lexer.Token) span.Span {
	return span.Span{File: file, Lo: uint32(tok.Start.Offset), Hi: uint32(tok.End.Offset)}
}

func (p *parser) sp(tok lexer.Token) span.Span { return spanOf(p.file, tok) }

func (p *parser) fail(d diag.Diagnostic) {
	p.diags = append(p.diags, d)
	panic(parseAbort{})
}

// failUnexpected aborts the parse with a single diagnostic describing
// the unexpected token and the set of tokens that would have been
// accepted. If the lexer already reported this token as malformed
// (lexer.Unexpected), no second diagnostic is added — the lexer's is
// more specific.
func (p *parser) failUnexpected(expected ...string) {
	tok := p.peek()
	if tok.Kind == lexer.Unexpected {
		panic(parseAbort{})
	}
	sp := p.sp(tok)
	msg := fmt.Sprintf("unexpected token %s", tok.Kind)
	d := diag.Errorf(sp, "%s", msg)
	if len(expected) > 0 {
		d = d.WithLabel(diag.Secondary, sp, "expected one of: "+strings.Join(expected, ", "))
	}
	p.fail(d)
}

func (p *parser) atPunct(r rune) bool {
	return p.peek().Kind == lexer.Kind(r)
}

func (p *parser) expectPunct(r rune) lexer.Token {
	if !p.atPunct(r) {
		p.failUnexpected(fmt.Sprintf("%q", r))
	}
	tok, _ := p.advance()
	return tok
}

func (p *parser) atColonColon() bool {
	return p.atPunct(':') && p.peek2().Kind == lexer.Kind(':')
}

func (p *parser) atKeyword(word string) bool {
	return p.peek().Kind == lexer.Ident && p.peekText() == word
}

func (p *parser) expectKeyword(word string) lexer.Token {
	if !p.atKeyword(word) {
		p.failUnexpected(fmt.Sprintf("%q", word))
	}
	tok, _ := p.advance()
	return tok
}

func (p *parser) expectIdent() (lexer.Token, string) {
	if p.peek().Kind != lexer.Ident {
		p.failUnexpected("identifier")
	}
	return p.advance()
}

func (p *parser) expectNumLit() (lexer.Token, uint64) {
	if p.peek().Kind != lexer.NumLit {
		p.failUnexpected("number")
	}
	tok, text := p.advance()
	v, err := lexer.ParseNumLitText(text)
	if err != nil {
		// the lexer already reported this; treat as 0 so parsing can continue
		return tok, 0
	}
	return tok, v
}

func (p *parser) expectServiceName() (lexer.Token, string) {
	if p.peek().Kind != lexer.ServiceName {
		p.failUnexpected("service name literal")
	}
	tok, text := p.advance()
	return tok, strings.Trim(text, `"`)
}

// expectEOF is used by the single-definition entry points, which
// parse exactly one item and nothing else.
func (p *parser) expectEOF() {
	if p.peek().Kind != lexer.EOF {
		p.failUnexpected("<eof>")
	}
}

// decorate adds a primary label covering sp to every diagnostic in ds,
// as spec §4.2 requires the parser to do with diagnostics bubbled up
// from a model constructor.
func decorate(ds []diag.Diagnostic, sp span.Span, message string) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(ds))
	for i, d := range ds {
		out[i] = d.WithPrimaryLabel(sp, message)
	}
	return out
}

// skipDocs consumes (and discards) any run of leading DocLine tokens.
// Doc comments carry no semantic payload in this model (spec §4.3, §9).
func (p *parser) skipDocs() {
	for p.peek().Kind == lexer.DocLine {
		p.advance()
	}
}

func (p *parser) parseNamespacedIdent() ast.NamespacedIdent {
	tok, text := p.expectIdent()
	segments := []string{text}
	sp := p.sp(tok)
	for p.atColonColon() {
		p.advance() // first ':'
		p.advance() // second ':'
		tok2, text2 := p.expectIdent()
		segments = append(segments, text2)
		sp = span.Join(sp, p.sp(tok2))
	}
	return ast.NamespacedIdent{Segments: segments, Span: sp}
}

func (p *parser) atIntTypeKeyword() (ast.IntType, bool) {
	if p.peek().Kind != lexer.Ident {
		return 0, false
	}
	return ast.IntTypeFromKeyword(p.peekText())
}

func (p *parser) parseIntType() (ast.IntType, span.Span) {
	it, ok := p.atIntTypeKeyword()
	if !ok {
		p.failUnexpected("u8", "u16", "u32", "u64", "i8", "i16", "i32", "i64", "s8", "s16", "s32", "s64")
	}
	tok, _ := p.advance()
	return it, p.sp(tok)
}

// parseNominalType implements the NominalType production (spec §4.4).
func (p *parser) parseNominalType() (ast.NominalType, []diag.Diagnostic) {
	if it, ok := p.atIntTypeKeyword(); ok {
		tok, _ := p.advance()
		return ast.NominalType{Kind: ast.NominalInt, Int: it, Span: p.sp(tok)}, nil
	}
	if p.atKeyword("b8") || p.atKeyword("bool") {
		tok, _ := p.advance()
		return ast.NominalType{Kind: ast.NominalBool, Span: p.sp(tok)}, nil
	}
	if p.atKeyword("f32") {
		tok, _ := p.advance()
		return ast.NominalType{Kind: ast.NominalF32, Span: p.sp(tok)}, nil
	}
	name := p.parseNamespacedIdent()
	return p.finishNominalTypeFrom(name)
}

// finishNominalTypeFrom handles the two "sf::"-qualified NominalType
// forms (sf::Bytes<...>, sf::Unknown<...>) given an already-parsed
// NamespacedIdent, falling back to a plain type-name reference.
// Shared between parseNominalType and parseValue, since sf::Bytes and
// sf::Unknown may also appear bare in command-argument position,
// wrapped as Value.In (spec §4.4 value table, last row). Structural
// diagnostics (zero size, bad alignment) are returned rather than
// recorded directly: finishNominalTypeFrom runs before any enclosing
// item's span is known, so the caller decorates them with that span
// the same way every other structural invariant is (spec §7).
func (p *parser) finishNominalTypeFrom(name ast.NamespacedIdent) (ast.NominalType, []diag.Diagnostic) {
	switch name.String() {
	case "sf::Bytes":
		p.expectPunct('<')
		_, size := p.expectNumLit()
		alignment := uint64(1)
		if p.atPunct(',') {
			p.advance()
			_, alignment = p.expectNumLit()
		}
		closeTok := p.expectPunct('>')
		sp := span.Join(name.Span, p.sp(closeTok))
		var ds []diag.Diagnostic
		if size < 1 {
			ds = append(ds, diag.Errorf(sp, "sf::Bytes size must be >= 1"))
		}
		if !ast.ValidBytesAlignments[alignment] {
			ds = append(ds, diag.Errorf(sp, "sf::Bytes alignment %d must be one of 1, 2, 4, 8, 16", alignment))
		}
		return ast.NominalType{Kind: ast.NominalBytes, BytesSize: size, BytesAlignment: alignment, Span: sp}, ds
	case "sf::Unknown":
		sp := name.Span
		var sizePtr *uint64
		if p.atPunct('<') {
			p.advance()
			_, size := p.expectNumLit()
			sizePtr = &size
			closeTok := p.expectPunct('>')
			sp = span.Join(sp, p.sp(closeTok))
		}
		return ast.NominalType{Kind: ast.NominalUnknown, UnknownSize: sizePtr, Span: sp}, nil
	default:
		return ast.NominalType{Kind: ast.NominalTypeName, TypeName: name, Span: name.Span}, nil
	}
}

var flatValueForms = map[string]ast.Value{
	"sf::ClientProcessId": {Kind: ast.ClientProcessId},
	"sf::CopyHandle":      {Kind: ast.InHandle, Handle: ast.Copy},
	"sf::MoveHandle":      {Kind: ast.InHandle, Handle: ast.Move},
	"sf::OutCopyHandle":   {Kind: ast.OutHandle, Handle: ast.Copy},
	"sf::OutMoveHandle":   {Kind: ast.OutHandle, Handle: ast.Move},

	"sf::InBuffer":         {Kind: ast.InBuffer, Mode: ast.MapAlias, ModeSet: true},
	"sf::InMapAliasBuffer": {Kind: ast.InBuffer, Mode: ast.MapAlias, ModeSet: true},
	"sf::InPointerBuffer":  {Kind: ast.InBuffer, Mode: ast.Pointer, ModeSet: true},
	"sf::InAutoSelectBuffer": {Kind: ast.InBuffer, Mode: ast.AutoSelect, ModeSet: true},
	"sf::InNonSecureBuffer":  {Kind: ast.InBuffer, Mode: ast.MapAlias, ModeSet: true, Attrs: ast.AllowNonSecure},
	"sf::InNonDeviceBuffer":  {Kind: ast.InBuffer, Mode: ast.MapAlias, ModeSet: true, Attrs: ast.AllowNonDevice},
	"sf::InNonSecureAutoSelectBuffer": {Kind: ast.InBuffer, Mode: ast.AutoSelect, ModeSet: true, Attrs: ast.AllowNonSecure},

	"sf::OutBuffer":         {Kind: ast.OutBuffer, Mode: ast.MapAlias, ModeSet: true},
	"sf::OutMapAliasBuffer": {Kind: ast.OutBuffer, Mode: ast.MapAlias, ModeSet: true},
	"sf::OutPointerBuffer":  {Kind: ast.OutBuffer, Mode: ast.Pointer, ModeSet: true},
	"sf::OutAutoSelectBuffer": {Kind: ast.OutBuffer, Mode: ast.AutoSelect, ModeSet: true},
	"sf::OutNonSecureBuffer":  {Kind: ast.OutBuffer, Mode: ast.MapAlias, ModeSet: true, Attrs: ast.AllowNonSecure},
	"sf::OutNonDeviceBuffer":  {Kind: ast.OutBuffer, Mode: ast.MapAlias, ModeSet: true, Attrs: ast.AllowNonDevice},
	"sf::OutNonSecureAutoSelectBuffer": {Kind: ast.OutBuffer, Mode: ast.AutoSelect, ModeSet: true, Attrs: ast.AllowNonSecure},
}

var arrayValueForms = map[string]struct {
	kind    ast.ValueKind
	mode    ast.TransferMode
	modeSet bool
}{
	"sf::InArray":           {kind: ast.InArray},
	"sf::InMapAliasArray":   {kind: ast.InArray, mode: ast.MapAlias, modeSet: true},
	"sf::InPointerArray":    {kind: ast.InArray, mode: ast.Pointer, modeSet: true},
	"sf::InAutoSelectArray": {kind: ast.InArray, mode: ast.AutoSelect, modeSet: true},
	"sf::OutArray":           {kind: ast.OutArray},
	"sf::OutMapAliasArray":   {kind: ast.OutArray, mode: ast.MapAlias, modeSet: true},
	"sf::OutPointerArray":    {kind: ast.OutArray, mode: ast.Pointer, modeSet: true},
	"sf::OutAutoSelectArray": {kind: ast.OutArray, mode: ast.AutoSelect, modeSet: true},
}

// parseValue implements the command-argument Value vocabulary (spec
// §4.4's "Value vocabulary" table). Structural diagnostics surfaced by
// a nested NominalType (e.g. a malformed sf::Bytes<...>) are returned
// rather than recorded directly, so the caller can decorate them with
// the enclosing command's span.
func (p *parser) parseValue() (ast.Value, []diag.Diagnostic) {
	if it, ok := p.atIntTypeKeyword(); ok {
		tok, _ := p.advance()
		nt := ast.NominalType{Kind: ast.NominalInt, Int: it, Span: p.sp(tok)}
		return ast.Value{Kind: ast.In, Elem: &nt, Span: nt.Span}, nil
	}
	if p.atKeyword("b8") || p.atKeyword("bool") || p.atKeyword("f32") {
		nt, ds := p.parseNominalType()
		return ast.Value{Kind: ast.In, Elem: &nt, Span: nt.Span}, ds
	}
	if p.peek().Kind != lexer.Ident {
		p.failUnexpected("value")
	}

	name := p.parseNamespacedIdent()
	qualified := name.String()

	if v, ok := flatValueForms[qualified]; ok {
		v.Span = name.Span
		return v, nil
	}
	if form, ok := arrayValueForms[qualified]; ok {
		p.expectPunct('<')
		elem, ds := p.parseNominalType()
		closeTok := p.expectPunct('>')
		sp := span.Join(name.Span, p.sp(closeTok))
		return ast.Value{Kind: form.kind, Elem: &elem, Mode: form.mode, ModeSet: form.modeSet, Span: sp}, ds
	}
	if qualified == "sf::SharedPointer" {
		iface, sp := p.parseSharedPointerGeneric(name)
		return ast.Value{Kind: ast.InObject, Iface: &iface, Span: sp}, nil
	}
	if qualified == "sf::Out" {
		return p.parseOutValue(name)
	}

	// not a Value-only surface form: a bare NominalType used as an
	// In(T) argument, including sf::Bytes<...>/sf::Unknown<...>.
	nt, ds := p.finishNominalTypeFrom(name)
	return ast.Value{Kind: ast.In, Elem: &nt, Span: nt.Span}, ds
}

// parseOutValue implements sf::Out<T> (spec §4.4), where T ranges over
// the full NominalType grammar -- including sf::Bytes<...> and
// sf::Unknown<...> -- except for the one special case
// sf::Out<sf::SharedPointer<Iface>>, which denotes an output object
// rather than an Out(T) scalar/buffer. A short token-count lookahead
// can't tell "sf::SharedPointer" apart from other "sf::"-qualified
// names (sf::Bytes, sf::Unknown among them) that share its first few
// tokens, so T's leading NamespacedIdent is always parsed in full and
// the object case is decided by comparing the joined name, never by
// guessing from a partial peek.
func (p *parser) parseOutValue(outName ast.NamespacedIdent) (ast.Value, []diag.Diagnostic) {
	p.expectPunct('<')

	if it, ok := p.atIntTypeKeyword(); ok {
		tok, _ := p.advance()
		nt := ast.NominalType{Kind: ast.NominalInt, Int: it, Span: p.sp(tok)}
		closeTok := p.expectPunct('>')
		return ast.Value{Kind: ast.Out, Elem: &nt, Span: span.Join(outName.Span, p.sp(closeTok))}, nil
	}
	if p.atKeyword("b8") || p.atKeyword("bool") || p.atKeyword("f32") {
		nt, ds := p.parseNominalType()
		closeTok := p.expectPunct('>')
		return ast.Value{Kind: ast.Out, Elem: &nt, Span: span.Join(outName.Span, p.sp(closeTok))}, ds
	}

	sub := p.parseNamespacedIdent()
	if sub.String() == "sf::SharedPointer" {
		iface, _ := p.parseSharedPointerGeneric(sub)
		closeTok := p.expectPunct('>')
		sp := span.Join(outName.Span, p.sp(closeTok))
		var ifacePtr *ast.NamespacedIdent
		if iface.String() != "sf::IUnknown" {
			ifacePtr = &iface
		}
		return ast.Value{Kind: ast.OutObject, Iface: ifacePtr, Span: sp}, nil
	}

	inner, ds := p.finishNominalTypeFrom(sub)
	closeTok := p.expectPunct('>')
	return ast.Value{Kind: ast.Out, Elem: &inner, Span: span.Join(outName.Span, p.sp(closeTok))}, ds
}

func (p *parser) parseSharedPointerGeneric(name ast.NamespacedIdent) (ast.NamespacedIdent, span.Span) {
	if name.String() != "sf::SharedPointer" {
		p.failUnexpected("sf::SharedPointer<Iface>")
	}
	p.expectPunct('<')
	iface := p.parseNamespacedIdent()
	closeTok := p.expectPunct('>')
	return iface, span.Join(name.Span, p.sp(closeTok))
}

// --- top-level items ---

func (p *parser) parseTypeAlias() *ast.TypeAlias {
	startTok := p.expectKeyword("type")
	name := p.parseNamespacedIdent()
	p.expectPunct('=')
	typ, tds := p.parseNominalType()
	endTok := p.expectPunct(';')
	sp := span.Join(p.sp(startTok), p.sp(endTok))
	if len(tds) > 0 {
		p.diags = append(p.diags, decorate(tds, sp, fmt.Sprintf("in type alias %s", name))...)
	}
	return &ast.TypeAlias{Name: name, Type: typ, Span: sp}
}

var structMarkerForms = map[string]ast.StructMarker{
	"sf::LargeData":                      {Kind: ast.LargeData},
	"sf::PrefersMapAliasTransferMode":     {Kind: ast.PrefersTransferModeMarker, Mode: ast.MapAlias},
	"sf::PrefersPointerTransferMode":      {Kind: ast.PrefersTransferModeMarker, Mode: ast.Pointer},
	"sf::PrefersAutoSelectTransferMode":   {Kind: ast.PrefersTransferModeMarker, Mode: ast.AutoSelect},
}

func (p *parser) parseStructMarker() ast.StructMarker {
	name := p.parseNamespacedIdent()
	m, ok := structMarkerForms[name.String()]
	if !ok {
		p.failUnexpected("sf::LargeData", "sf::PrefersMapAliasTransferMode", "sf::PrefersPointerTransferMode", "sf::PrefersAutoSelectTransferMode")
	}
	m.Span = name.Span
	return m
}

func (p *parser) parseStructField() (ast.StructField, []diag.Diagnostic) {
	typ, tds := p.parseNominalType()
	_, name := p.expectIdent()
	endTok := p.expectPunct(';')
	return ast.StructField{Name: name, Type: typ, Span: span.Join(typ.Span, p.sp(endTok))}, tds
}

func (p *parser) parseStructDef() *ast.Struct {
	startTok := p.expectKeyword("struct")
	name := p.parseNamespacedIdent()

	var markers []ast.StructMarker
	if p.atPunct(':') {
		p.advance()
		markers = append(markers, p.parseStructMarker())
		for p.atPunct(',') {
			p.advance()
			markers = append(markers, p.parseStructMarker())
		}
	}

	p.expectPunct('{')
	var fields []ast.StructField
	var fieldDiags []diag.Diagnostic
	for {
		p.skipDocs()
		if p.atPunct('}') {
			break
		}
		f, fds := p.parseStructField()
		fields = append(fields, f)
		fieldDiags = append(fieldDiags, fds...)
	}
	closeTok := p.expectPunct('}')
	sp := span.Join(p.sp(startTok), p.sp(closeTok))

	s, ds := ast.NewStruct(name, fields, markers, sp)
	ds = append(fieldDiags, ds...)
	if len(ds) > 0 {
		p.diags = append(p.diags, decorate(ds, sp, fmt.Sprintf("in struct %s", name))...)
	}
	return &s
}

func (p *parser) parseEnumArm() ast.EnumArm {
	p.skipDocs()
	nameTok, name := p.expectIdent()
	p.expectPunct('=')
	numTok, value := p.expectNumLit()
	return ast.EnumArm{Name: name, Value: value, Span: span.Join(p.sp(nameTok), p.sp(numTok))}
}

func (p *parser) parseEnumDef() *ast.Enum {
	startTok := p.expectKeyword("enum")
	name := p.parseNamespacedIdent()
	p.expectPunct(':')
	base, _ := p.parseIntType()
	p.expectPunct('{')

	var arms []ast.EnumArm
	p.skipDocs()
	if !p.atPunct('}') {
		arms = append(arms, p.parseEnumArm())
		for p.atPunct(',') {
			p.advance()
			p.skipDocs()
			if p.atPunct('}') {
				break
			}
			arms = append(arms, p.parseEnumArm())
		}
	}
	closeTok := p.expectPunct('}')
	sp := span.Join(p.sp(startTok), p.sp(closeTok))

	e, ds := ast.NewEnum(name, base, arms, sp)
	if len(ds) > 0 {
		p.diags = append(p.diags, decorate(ds, sp, fmt.Sprintf("in enum %s", name))...)
	}
	return &e
}

func (p *parser) parseBitflagsArm() ast.BitflagsArm {
	p.skipDocs()
	nameTok, name := p.expectIdent()
	p.expectPunct('=')
	numTok, value := p.expectNumLit()
	return ast.BitflagsArm{Name: name, Value: value, Span: span.Join(p.sp(nameTok), p.sp(numTok))}
}

func (p *parser) parseBitflagsDef() *ast.Bitflags {
	startTok := p.expectKeyword("bitflags")
	name := p.parseNamespacedIdent()
	p.expectPunct(':')
	base, _ := p.parseIntType()
	p.expectPunct('{')

	var arms []ast.BitflagsArm
	p.skipDocs()
	if !p.atPunct('}') {
		arms = append(arms, p.parseBitflagsArm())
		for p.atPunct(',') {
			p.advance()
			p.skipDocs()
			if p.atPunct('}') {
				break
			}
			arms = append(arms, p.parseBitflagsArm())
		}
	}
	closeTok := p.expectPunct('}')
	sp := span.Join(p.sp(startTok), p.sp(closeTok))

	b, ds := ast.NewBitflags(name, base, arms, sp)
	if len(ds) > 0 {
		p.diags = append(p.diags, decorate(ds, sp, fmt.Sprintf("in bitflags %s", name))...)
	}
	return &b
}

// parseCommandDecorators consumes zero or more "@version(...)" /
// "@undocumented" decorators, validating their shape but discarding
// their content (spec §4.4, §9: accepted syntactically, dropped
// semantically).
func (p *parser) parseCommandDecorators() {
	for p.atPunct('@') {
		p.advance()
		switch {
		case p.atKeyword("version"):
			p.advance()
			p.expectPunct('(')
			p.parseVersionSpec()
			p.expectPunct(')')
		case p.atKeyword("undocumented"):
			p.advance()
		default:
			p.failUnexpected("version", "undocumented")
		}
	}
}

func (p *parser) parseVersion() {
	p.expectNumLit()
	p.expectPunct('.')
	p.expectNumLit()
	p.expectPunct('.')
	p.expectNumLit()
}

func (p *parser) parseVersionSpec() {
	p.parseVersion()
	if p.atPunct('+') || p.atPunct('-') {
		p.advance()
		p.parseVersion()
	}
}

func (p *parser) parseInputSpec() (ast.CommandArg, []diag.Diagnostic) {
	val, vds := p.parseValue()
	sp := val.Span
	name := ""
	if p.peek().Kind == lexer.Ident {
		tok, text := p.advance()
		name = text
		sp = span.Join(sp, p.sp(tok))
	}
	return ast.CommandArg{Name: name, Value: val, Span: sp}, vds
}

func (p *parser) parseCommand() ast.Command {
	p.skipDocs()
	p.parseCommandDecorators()

	startTok := p.expectPunct('[')
	idTok, idValue := p.expectNumLit()
	p.expectPunct(']')
	_, name := p.expectIdent()

	p.expectPunct('(')
	var args []ast.CommandArg
	var argDiags []diag.Diagnostic
	if !p.atPunct(')') {
		a, ads := p.parseInputSpec()
		args = append(args, a)
		argDiags = append(argDiags, ads...)
		for p.atPunct(',') {
			p.advance()
			a, ads := p.parseInputSpec()
			args = append(args, a)
			argDiags = append(argDiags, ads...)
		}
	}
	closeTok := p.expectPunct(')')
	sp := span.Join(p.sp(startTok), p.sp(closeTok))

	cmd, ds := ast.NewCommand(idValue, p.sp(idTok), name, args, sp)
	ds = append(argDiags, ds...)
	if len(ds) > 0 {
		p.diags = append(p.diags, decorate(ds, sp, fmt.Sprintf("in command %s", name))...)
	}
	return cmd
}

func (p *parser) parseInterfaceDef() *ast.Interface {
	startTok := p.expectKeyword("interface")
	name := p.parseNamespacedIdent()

	var smNames []string
	var smSpans []span.Span
	if p.atKeyword("is") {
		p.advance()
		tok, sm := p.expectServiceName()
		smNames = append(smNames, sm)
		smSpans = append(smSpans, p.sp(tok))
		for p.atPunct(',') {
			p.advance()
			tok, sm := p.expectServiceName()
			smNames = append(smNames, sm)
			smSpans = append(smSpans, p.sp(tok))
		}
	}

	p.expectPunct('{')
	var commands []ast.Command
	for {
		p.skipDocs()
		if p.atPunct('}') {
			break
		}
		commands = append(commands, p.parseCommand())
		p.expectPunct(';')
	}
	closeTok := p.expectPunct('}')
	sp := span.Join(p.sp(startTok), p.sp(closeTok))

	iface, ds := ast.NewInterface(name, smNames, smSpans, commands, sp)
	if len(ds) > 0 {
		p.diags = append(p.diags, decorate(ds, sp, fmt.Sprintf("in interface %s", name))...)
	}
	return &iface
}

func (p *parser) parseItem() ast.Item {
	switch {
	case p.atKeyword("type"):
		return p.parseTypeAlias()
	case p.atKeyword("struct"):
		return p.parseStructDef()
	case p.atKeyword("enum"):
		return p.parseEnumDef()
	case p.atKeyword("bitflags"):
		return p.parseBitflagsDef()
	case p.atKeyword("interface"):
		return p.parseInterfaceDef()
	default:
		p.failUnexpected("type", "struct", "enum", "bitflags", "interface")
		return nil // unreachable
	}
}

func (p *parser) parseFile() *ast.IpcFile {
	var items []ast.Item
	for {
		p.skipDocs()
		if p.peek().Kind == lexer.EOF {
			break
		}
		items = append(items, p.parseItem())
	}
	return &ast.IpcFile{Items: items}
}

// runGuarded runs fn, catching the parseAbort panic a failed
// non-recovering parse raises, and reports whether fn completed
// without hitting one.
func (p *parser) runGuarded(fn func()) (completed bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); ok {
				completed = false
				return
			}
			panic(r)
		}
	}()
	fn()
	return true
}

// ParseFile parses one full IDL file, implementing the grammar's
// top-level IpcFile production (spec §4.4, §6 "Exported API").
func ParseFile(file span.FileID, src string) (*ast.IpcFile, []diag.Diagnostic) {
	p := newParser(file, src)
	var result *ast.IpcFile
	p.runGuarded(func() {
		result = p.parseFile()
	})
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return result, nil
}

// ParseStructDef parses a single struct declaration and nothing else.
func ParseStructDef(file span.FileID, src string) (*ast.Struct, []diag.Diagnostic) {
	p := newParser(file, src)
	var result *ast.Struct
	p.runGuarded(func() {
		p.skipDocs()
		result = p.parseStructDef()
		p.expectEOF()
	})
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return result, nil
}

// ParseEnumDef parses a single enum declaration and nothing else.
func ParseEnumDef(file span.FileID, src string) (*ast.Enum, []diag.Diagnostic) {
	p := newParser(file, src)
	var result *ast.Enum
	p.runGuarded(func() {
		p.skipDocs()
		result = p.parseEnumDef()
		p.expectEOF()
	})
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return result, nil
}

// ParseBitflagsDef parses a single bitflags declaration and nothing else.
func ParseBitflagsDef(file span.FileID, src string) (*ast.Bitflags, []diag.Diagnostic) {
	p := newParser(file, src)
	var result *ast.Bitflags
	p.runGuarded(func() {
		p.skipDocs()
		result = p.parseBitflagsDef()
		p.expectEOF()
	})
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return result, nil
}

// ParseInterfaceDef parses a single interface declaration and nothing else.
func ParseInterfaceDef(file span.FileID, src string) (*ast.Interface, []diag.Diagnostic) {
	p := newParser(file, src)
	var result *ast.Interface
	p.runGuarded(func() {
		p.skipDocs()
		result = p.parseInterfaceDef()
		p.expectEOF()
	})
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return result, nil
}
