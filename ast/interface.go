package ast

import (
	"regexp"

	"github.com/switchkit/hipcidl/diag"
	"github.com/switchkit/hipcidl/span"
)

// CommandArg is one (optional name, Value) pair in a Command's
// argument list.
type CommandArg struct {
	Name  string // "" if unnamed
	Value Value
	Span  span.Span
}

// Command is one numbered RPC operation on an Interface.
type Command struct {
	ID   uint32
	Name string
	Args []CommandArg
	Span span.Span
}

// NewCommand validates that id fits in a uint32 (spec §4.4) before
// building the Command. idValue is the raw (unsigned 64-bit) literal
// value as the lexer parsed it; idSpan locates the literal.
func NewCommand(idValue uint64, idSpan span.Span, name string, args []CommandArg, sp span.Span) (Command, []diag.Diagnostic) {
	if idValue > 0xFFFFFFFF {
		return Command{}, []diag.Diagnostic{
			diag.Errorf(idSpan, "command id %d does not fit in a 32-bit unsigned integer", idValue),
		}
	}
	return Command{ID: uint32(idValue), Name: name, Args: args, Span: sp}, nil
}

var serviceNamePattern = regexp.MustCompile(`^[A-Za-z0-9_:\-]*$`)

// Interface is a service surface: a named collection of commands,
// optionally bound to one or more service-manager names.
//
// IsDomain is always false; there is currently no surface syntax that
// sets it (spec §9 open question 2).
type Interface struct {
	Name       NamespacedIdent
	SMNames    []string
	Commands   []Command
	IsDomain   bool
	Span       span.Span
}

// NewInterface validates each service-manager name's character set and
// length (spec §3: chars in [A-Za-z0-9_:-], length <= 8) before
// building the Interface.
func NewInterface(name NamespacedIdent, smNames []string, smSpans []span.Span, commands []Command, sp span.Span) (Interface, []diag.Diagnostic) {
	var ds []diag.Diagnostic
	for i, sm := range smNames {
		smSpan := smSpans[i]
		if !serviceNamePattern.MatchString(sm) {
			ds = append(ds, diag.Errorf(smSpan, "service name %q contains characters outside [A-Za-z0-9_:-]", sm))
			continue
		}
		if len(sm) > 8 {
			ds = append(ds, diag.Errorf(smSpan, "service name %q is longer than 8 characters", sm))
		}
	}
	if len(ds) > 0 {
		return Interface{}, ds
	}
	return Interface{Name: name, SMNames: smNames, Commands: commands, IsDomain: false, Span: sp}, nil
}
