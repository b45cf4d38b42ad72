// Package diag holds diagnostics as plain data: a severity, a message,
// and an ordered list of labelled spans. Diagnostics compose and are
// rendered separately (see Render) — nothing here panics or writes to
// a stream.
package diag

import (
	"fmt"

	"github.com/switchkit/hipcidl/span"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
	Help
	Bug
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	case Help:
		return "help"
	case Bug:
		return "bug"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// LabelStyle distinguishes the label that pinpoints the defect from
// labels that provide supporting context (e.g. "first defined here").
type LabelStyle int

const (
	Primary LabelStyle = iota
	Secondary
)

// Label attaches a message to a span, styled as primary or secondary.
type Label struct {
	Style   LabelStyle
	Span    span.Span
	Message string
}

// Diagnostic is a single error/warning/note report.
type Diagnostic struct {
	Severity Severity
	Message  string
	Labels   []Label
}

// PrimarySpan returns the span of the first primary label, or the
// zero span if there is none.
func (d Diagnostic) PrimarySpan() span.Span {
	for _, l := range d.Labels {
		if l.Style == Primary {
			return l.Span
		}
	}
	return span.Span{}
}

// Errorf builds an Error-severity diagnostic with a single primary
// label at sp.
func Errorf(sp span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Labels:   []Label{{Style: Primary, Span: sp}},
	}
}

// WithLabel appends a label and returns the updated diagnostic, so
// callers can chain: diag.Errorf(...).WithLabel(diag.Secondary, other, "first defined here").
func (d Diagnostic) WithLabel(style LabelStyle, sp span.Span, message string) Diagnostic {
	d.Labels = append(d.Labels, Label{Style: style, Span: sp, Message: message})
	return d
}

// WithPrimaryLabel inserts a primary label covering an enclosing
// construct's span, ahead of any existing labels — used by the parser
// to decorate diagnostics bubbled up from a model constructor with the
// span of the item that contains the offending sub-node (spec §4.2).
func (d Diagnostic) WithPrimaryLabel(sp span.Span, message string) Diagnostic {
	d.Labels = append([]Label{{Style: Primary, Span: sp, Message: message}}, d.Labels...)
	return d
}

// HasErrors reports whether any diagnostic in ds is Error or Bug
// severity — the predicate spec.md §7 uses to decide overall success.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == Error || d.Severity == Bug {
			return true
		}
	}
	return false
}
