package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/switchkit/hipcidl/span"
)

var (
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warningStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	noteStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	primaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	secondaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
	locationStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Faint(true)
)

func severityStyle(sev Severity) lipgloss.Style {
	switch sev {
	case Error, Bug:
		return errorStyle
	case Warning:
		return warningStyle
	default:
		return noteStyle
	}
}

// Render writes a human-readable, multi-label rendering of d to w. When
// styled is true, severities and carets are colored with lipgloss;
// otherwise the plain-text layout is used (no ANSI codes), matching
// the teacher's own undecorated Snippet/printChunk rendering.
func Render(w io.Writer, reg *span.Registry, d Diagnostic, styled bool) {
	prefix := fmt.Sprintf("%s: %s", d.Severity, d.Message)
	if styled {
		prefix = severityStyle(d.Severity).Render(d.Severity.String()+":") + " " + d.Message
	}
	fmt.Fprintln(w, prefix)

	for _, l := range d.Labels {
		renderLabel(w, reg, l, styled)
	}
}

func renderLabel(w io.Writer, reg *span.Registry, l Label, styled bool) {
	name, content, ok := reg.Resolve(l.Span.File)
	if !ok {
		fmt.Fprintf(w, "  --> <unknown file %d>\n", l.Span.File)
		return
	}
	line, col, _ := reg.LineCol(l.Span.File, l.Span.Lo)

	loc := fmt.Sprintf("  --> %s:%d:%d", name, line, col)
	if styled {
		loc = "  " + locationStyle.Render(fmt.Sprintf("--> %s:%d:%d", name, line, col))
	}
	fmt.Fprintln(w, loc)

	lineStart := strings.LastIndexByte(content[:l.Span.Lo], '\n') + 1
	lineEnd := strings.IndexByte(content[l.Span.Lo:], '\n')
	if lineEnd == -1 {
		lineEnd = len(content)
	} else {
		lineEnd += int(l.Span.Lo)
	}
	srcLine := content[lineStart:lineEnd]
	fmt.Fprintf(w, "   | %s\n", srcLine)

	hi := l.Span.Hi
	if int(hi) > lineEnd {
		hi = uint32(lineEnd)
	}
	markerLen := int(hi) - int(l.Span.Lo)
	if markerLen < 1 {
		markerLen = 1
	}
	marker := strings.Repeat(markerChar(l.Style), markerLen)
	if styled {
		if l.Style == Primary {
			marker = primaryStyle.Render(marker)
		} else {
			marker = secondaryStyle.Render(marker)
		}
	}
	pad := strings.Repeat(" ", int(l.Span.Lo)-lineStart)
	fmt.Fprintf(w, "   | %s%s", pad, marker)
	if l.Message != "" {
		fmt.Fprintf(w, " %s", l.Message)
	}
	fmt.Fprintln(w)
}

func markerChar(style LabelStyle) string {
	if style == Primary {
		return "^"
	}
	return "~"
}
