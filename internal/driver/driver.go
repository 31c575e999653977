// Package driver wires the lexer, parser, lowering, and vm stages into the
// two entry points a host embeds: Parse, which lists the lowered
// instruction vector, and Run, which executes source directly. Both lower
// the top-level statement list as one function body; Run then registers it
// as a synthetic zero-argument, unit-returning function, matching the
// reference implementation's weso_parse/weso_run.
package driver

import (
	"fmt"

	"github.com/glint-lang/glint/internal/errors"
	"github.com/glint-lang/glint/internal/lower"
	"github.com/glint-lang/glint/internal/opcode"
	"github.com/glint-lang/glint/internal/parser"
	"github.com/glint-lang/glint/internal/registry"
	"github.com/glint-lang/glint/internal/scope"
	"github.com/glint-lang/glint/internal/types"
	"github.com/glint-lang/glint/internal/value"
	"github.com/glint-lang/glint/internal/vm"
)

// compile lexes, parses, and lowers source, returning the flat instruction
// vector along with the registry any nested function definitions were
// registered into. The first error encountered at any stage is reported
// through internal/errors so callers get one consistent CompilerError
// shape regardless of which stage failed.
func compile(source string) ([]opcode.Instruction, *registry.Registry, error) {
	stmts, parseErrs, scanErrs := parser.ParseProgram(source)
	if len(scanErrs) > 0 {
		return nil, nil, errors.From(scanErrs[0])
	}
	if len(parseErrs) > 0 {
		return nil, nil, errors.From(parseErrs[0])
	}

	reg := registry.Global()
	lw := lower.New(reg)
	code, err := lw.Program(stmts)
	if err != nil {
		return nil, nil, errors.From(err)
	}
	return code, reg, nil
}

// Parse lowers source and renders its instruction listing, one line per
// instruction: the index left-aligned in 6 columns, a space, the
// "line:col" position left-aligned in 10 columns, a space, then the
// instruction, matching the reference implementation's weso_parse format.
func Parse(source string) (string, error) {
	code, _, err := compile(source)
	if err != nil {
		return "", err
	}
	out := ""
	for i, ins := range code {
		out += fmt.Sprintf("%-6d %-10s %s\n", i, ins.Position.Short(), ins.String())
	}
	return out, nil
}

// Run lowers source, registers it as the program's entry function, and
// executes it over a scope chained to a fresh top-level global scope
// (matching weso_run's Runtime::new(Some(global), func_id, [])).
func Run(source string) (value.Value, error) {
	code, reg, err := compile(source)
	if err != nil {
		return value.Value{}, err
	}

	mainID := reg.Register(registry.Function{ReturnType: types.Unit, Code: code})
	global := scope.New()
	rt, err := vm.New(global, reg, mainID, nil)
	if err != nil {
		return value.Value{}, errors.From(err)
	}
	result, err := rt.Run()
	if err != nil {
		return value.Value{}, errors.From(err)
	}
	return result, nil
}
