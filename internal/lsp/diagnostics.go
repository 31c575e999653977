package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/glint-lang/glint/internal/ast"
	"github.com/glint-lang/glint/internal/errors"
	"github.com/glint-lang/glint/internal/lower"
	"github.com/glint-lang/glint/internal/parser"
	"github.com/glint-lang/glint/internal/registry"
)

// Validate runs source through lex/parse/lower and reports diagnostics for
// whichever stage first fails. It returns the parsed statement list
// whenever parsing itself succeeded, even if lowering later failed, so the
// handler can still cache a structurally valid tree.
func Validate(source string) ([]ast.Statement, []protocol.Diagnostic) {
	stmts, parseErrs, scanErrs := parser.ParseProgram(source)

	var diags []protocol.Diagnostic
	for _, e := range scanErrs {
		diags = append(diags, toDiagnostic(errors.From(e)))
	}
	for _, e := range parseErrs {
		diags = append(diags, toDiagnostic(errors.From(e)))
	}
	if len(diags) > 0 {
		return nil, diags
	}

	if _, err := lower.New(registry.New()).Program(stmts); err != nil {
		diags = append(diags, toDiagnostic(errors.From(err)))
		return stmts, diags
	}

	return stmts, nil
}

func toDiagnostic(ce errors.CompilerError) protocol.Diagnostic {
	length := ce.Length
	if length <= 0 {
		length = 1
	}
	line := uint32(0)
	if ce.Position.Line > 0 {
		line = uint32(ce.Position.Line - 1)
	}
	col := uint32(0)
	if ce.Position.Column > 0 {
		col = uint32(ce.Position.Column - 1)
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + uint32(length)},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("glint"),
		Message:  string(ce.Kind) + ": " + ce.Message,
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
