// Package parser implements a hand-rolled recursive-descent statement
// parser with a precedence-climbing expression parser, consuming the
// token stream internal/lexer produces and producing the internal/ast
// tree the lowering stage consumes.
package parser

import (
	"github.com/glint-lang/glint/internal/ast"
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/token"
)

// ParseError describes a single grammar violation. After a statement that
// produced an error, the parser synchronizes to the next statement boundary
// so one error does not prevent later ones from being reported.
type ParseError struct {
	Message  string
	Position token.Position
}

func (e ParseError) Error() string {
	return "ParseError: " + e.Message + " at " + e.Position.Short()
}

// Parser holds the token cursor and accumulated errors for one parse.
type Parser struct {
	tokens  []token.Token
	current int
	errors  []ParseError
}

// ParseProgram lexes and parses source into a top-level statement list
// representing the program body (the synthetic __main__ function). It
// always returns a best-effort tree; callers should treat a non-empty
// error slice as a failed parse.
func ParseProgram(source string) ([]ast.Statement, []ParseError, []lexer.ScanError) {
	toks, scanErrs := lexer.Scan(source)
	p := &Parser{tokens: toks}
	stmts := p.parseStatements(token.EOF)
	return stmts, p.errors, scanErrs
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return t == token.EOF
	}
	return p.peek().Type == t
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.Type, message string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.errorAtCurrent(message)
	return p.peek()
}

func (p *Parser) errorAtCurrent(message string) {
	p.errors = append(p.errors, ParseError{Message: message, Position: p.peek().Position})
}

// synchronize discards tokens until a likely statement boundary, so a
// single syntax error does not cascade into dozens of spurious ones.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.FN, token.LET, token.CONST, token.IF, token.WHILE,
			token.FOR, token.RETURN, token.TYPE, token.RBRACE:
			return
		}
		p.advance()
	}
}
