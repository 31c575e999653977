package errors

import (
	"github.com/glint-lang/glint/internal/builtins"
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/lower"
	"github.com/glint-lang/glint/internal/parser"
	"github.com/glint-lang/glint/internal/token"
	"github.com/glint-lang/glint/internal/vm"
)

// From converts any error produced by the lexer, parser, lowering, or vm
// packages into a CompilerError a Reporter can render. Errors that already
// carry a Kind and Position are unwrapped directly; anything else is
// reported as a bare RuntimeError so driver callers never need a type
// switch of their own.
func From(err error) CompilerError {
	switch e := err.(type) {
	case lexer.ScanError:
		return CompilerError{Kind: LexerError, Message: e.Message, Position: e.Position, Length: e.Length}
	case parser.ParseError:
		return CompilerError{Kind: ParseError, Message: e.Message, Position: e.Position}
	case *lower.Error:
		return CompilerError{Kind: Kind(e.Kind), Message: e.Message, Position: e.Position}
	case *vm.Error:
		return CompilerError{Kind: Kind(e.Kind), Message: e.Message, Position: e.Position}
	case *builtins.RuntimeErrorf:
		return CompilerError{Kind: RuntimeError, Message: e.Message, Position: token.Position{Line: 1, Column: 1}}
	case CompilerError:
		return e
	default:
		return CompilerError{Kind: RuntimeError, Message: err.Error(), Position: token.Position{Line: 1, Column: 1}}
	}
}
