// Command idlc parses HIPC IDL files and prints their diagnostics (or,
// with --dump-ast, their parsed structure) in one of three formats.
// It exists to exercise the span/diag/lexer/ast/parser packages from
// the outside; it's deliberately thin and holds no parsing logic of
// its own.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/switchkit/hipcidl/ast"
	"github.com/switchkit/hipcidl/diag"
	"github.com/switchkit/hipcidl/internal/obslog"
	"github.com/switchkit/hipcidl/parser"
	"github.com/switchkit/hipcidl/span"
)

// maxConcurrentParses bounds how many files are parsed at once. IDL
// files are small and parsing is CPU-only, so this just keeps a very
// large file list from spawning one goroutine per file.
const maxConcurrentParses = 4

type flags struct {
	format  string
	dumpAST bool
	quiet   bool
	verbose bool
	styled  bool
}

func parseFlags(args []string) (flags, []string, error) {
	fs := pflag.NewFlagSet("idlc", pflag.ContinueOnError)
	f := flags{}
	fs.StringVarP(&f.format, "format", "f", "text", "output format: text, json, or yaml")
	fs.BoolVar(&f.dumpAST, "dump-ast", false, "print the parsed AST for files with no diagnostics")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "suppress informational logging")
	fs.BoolVar(&f.verbose, "verbose", false, "enable debug-level logging")
	fs.BoolVar(&f.styled, "color", isTerminalStdout(), "style diagnostic output for a terminal")
	if err := fs.Parse(args); err != nil {
		return f, nil, err
	}
	switch f.format {
	case "text", "json", "yaml":
	default:
		return f, nil, fmt.Errorf("unknown --format %q (want text, json, or yaml)", f.format)
	}
	return f, fs.Args(), nil
}

type fileResult struct {
	path   string
	fileID span.FileID
	file   *ast.IpcFile
	diags  []diag.Diagnostic
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	f, paths, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "idlc: no input files")
		return 2
	}

	logger, sync, err := obslog.New(obslog.Options{Verbose: f.verbose, JSON: f.format == "json"})
	if err != nil {
		fmt.Fprintln(stderr, "idlc: failed to initialize logging:", err)
		return 2
	}
	defer sync()

	registry := span.NewRegistry()
	results := make([]fileResult, len(paths))

	for i, path := range paths {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			fileID := registry.AddFile(path, "")
			results[i] = fileResult{
				path:   path,
				fileID: fileID,
				diags: []diag.Diagnostic{
					diag.Errorf(span.Span{File: fileID}, "failed to read %s: %v", path, readErr),
				},
			}
			continue
		}
		results[i] = fileResult{path: path, fileID: registry.AddFile(path, string(content))}
	}

	if !f.quiet {
		logger.Info("parsing files", "count", len(paths))
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentParses)
	for i := range results {
		i := i
		if results[i].diags != nil {
			continue // read already failed; nothing to parse
		}
		g.Go(func() error {
			raw, _, _ := registry.Resolve(results[i].fileID)
			file, diags := parser.ParseFile(results[i].fileID, raw)
			results[i].file = file
			results[i].diags = diags
			return nil
		})
	}
	_ = g.Wait() // parser goroutines never return an error; diagnostics carry failures

	hasErrors := false
	for _, r := range results {
		if diag.HasErrors(r.diags) {
			hasErrors = true
		}
	}

	if err := emit(stdout, f, registry, results); err != nil {
		fmt.Fprintln(stderr, "idlc: failed to write output:", err)
		return 2
	}

	if !f.quiet {
		logger.Info("done", "files", len(paths), "ok", !hasErrors)
	}
	if hasErrors {
		return 1
	}
	return 0
}

func emit(w io.Writer, f flags, registry *span.Registry, results []fileResult) error {
	switch f.format {
	case "text":
		return emitText(w, f, registry, results)
	case "json":
		return emitStructured(w, registry, results, f.dumpAST, json.MarshalIndent)
	default: // yaml
		return emitStructured(w, registry, results, f.dumpAST, func(v interface{}, _, _ string) ([]byte, error) {
			return yaml.Marshal(v)
		})
	}
}

func emitText(w io.Writer, f flags, registry *span.Registry, results []fileResult) error {
	for _, r := range results {
		for _, d := range r.diags {
			diag.Render(w, registry, d, f.styled)
		}
		if f.dumpAST && r.file != nil {
			for _, item := range dumpFile(r.file) {
				fmt.Fprintf(w, "%s: %+v\n", r.path, item)
			}
		}
	}
	return nil
}

type marshalFunc func(v interface{}, prefix, indent string) ([]byte, error)

func emitStructured(w io.Writer, registry *span.Registry, results []fileResult, dumpAST bool, marshal marshalFunc) error {
	type fileOut struct {
		Path        string        `json:"path" yaml:"path"`
		Diagnostics []diagnosticOut `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
		AST         []interface{} `json:"ast,omitempty" yaml:"ast,omitempty"`
	}

	out := make([]fileOut, 0, len(results))
	for _, r := range results {
		fo := fileOut{Path: r.path}
		for _, d := range r.diags {
			fo.Diagnostics = append(fo.Diagnostics, toDiagnosticOut(registry, d))
		}
		if dumpAST && r.file != nil {
			fo.AST = dumpFile(r.file)
		}
		out = append(out, fo)
	}

	data, err := marshal(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

type positionOut struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
	Col  int    `json:"col" yaml:"col"`
}

type labelOut struct {
	Style   string      `json:"style" yaml:"style"`
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
	Start   positionOut `json:"start" yaml:"start"`
}

type diagnosticOut struct {
	Severity string     `json:"severity" yaml:"severity"`
	Message  string     `json:"message" yaml:"message"`
	Labels   []labelOut `json:"labels,omitempty" yaml:"labels,omitempty"`
}

func toDiagnosticOut(registry *span.Registry, d diag.Diagnostic) diagnosticOut {
	out := diagnosticOut{Severity: d.Severity.String(), Message: d.Message}
	for _, l := range d.Labels {
		style := "secondary"
		if l.Style == diag.Primary {
			style = "primary"
		}
		name, _, ok := registry.Resolve(l.Span.File)
		line, col, _ := registry.LineCol(l.Span.File, l.Span.Lo)
		if !ok {
			name = "<unknown>"
		}
		out.Labels = append(out.Labels, labelOut{
			Style:   style,
			Message: l.Message,
			Start:   positionOut{File: name, Line: line, Col: col},
		})
	}
	return out
}
