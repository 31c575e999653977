// Package errors formats interpreter failures (lexer, parser, lowering, and
// runtime) into Rust-style terminal diagnostics: a colored header naming the
// error's taxonomy kind, a "--> file:line:col" location line, the offending
// source line with a caret marker, and optional notes/help text.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/glint-lang/glint/internal/token"
)

// Kind is the six-member error taxonomy every stage of the pipeline tags
// its failures with.
type Kind string

const (
	LexerError     Kind = "LexerError"
	ParseError     Kind = "ParseError"
	VariableError  Kind = "VariableError"
	TypeError      Kind = "TypeError"
	AttributeError Kind = "AttributeError"
	RuntimeError   Kind = "RuntimeError"
)

// CompilerError is a structured failure ready for either plain-string
// rendering (Error()) or a full terminal report (Reporter.Format).
type CompilerError struct {
	Kind     Kind
	Message  string
	Position token.Position
	Length   int // width of the caret span; 0 defaults to 1
	Notes    []string
	HelpText string
}

// Error renders the failure the way spec.md's "single error string prefixed
// with its kind" surface requires, matching the ad hoc Error() methods
// already used by internal/lexer, internal/parser, internal/lower, and
// internal/vm before they reach a Reporter.
func (e CompilerError) Error() string {
	return string(e.Kind) + ": " + e.Message + " at " + e.Position.Short()
}

// Reporter renders CompilerErrors against the source text they came from.
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter builds a Reporter for a named source file.
func NewReporter(filename, source string) *Reporter {
	return &Reporter{filename: filename, lines: strings.Split(source, "\n")}
}

// Format produces the full colored, multi-line diagnostic for err.
func (r *Reporter) Format(err CompilerError) string {
	var out strings.Builder

	kindColor := r.kindColor(err.Kind)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	out.WriteString(fmt.Sprintf("%s: %s\n", kindColor(string(err.Kind)), err.Message))

	width := r.lineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", width)

	out.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
		indent, dim("-->"), r.filename, err.Position.Line, err.Position.Column))
	out.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if err.Position.Line > 1 && err.Position.Line-1 <= len(r.lines) {
		out.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", width, err.Position.Line-1)), dim("│"), r.lines[err.Position.Line-2]))
	}

	if err.Position.Line > 0 && err.Position.Line <= len(r.lines) {
		out.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", width, err.Position.Line)), dim("│"), r.lines[err.Position.Line-1]))
		out.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), r.marker(err.Position.Column, err.Length, err.Kind)))
	}

	if err.Position.Line > 0 && err.Position.Line < len(r.lines) {
		out.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", width, err.Position.Line+1)), dim("│"), r.lines[err.Position.Line]))
	}

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		out.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), noteColor("note:"), note))
	}

	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		out.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), helpColor("help:"), err.HelpText))
	}

	return out.String()
}

func (r *Reporter) kindColor(k Kind) func(...interface{}) string {
	switch k {
	case TypeError, AttributeError:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func (r *Reporter) marker(column, length int, k Kind) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))
	markerColor := r.kindColor(k)
	return spaces + markerColor(strings.Repeat("^", length))
}

func (r *Reporter) lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
