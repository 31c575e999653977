package parser

import (
	"github.com/glint-lang/glint/internal/ast"
	"github.com/glint-lang/glint/internal/token"
)

// binaryPrecedence gives every surface binary operator a precedence
// level; higher binds tighter. "||" and "&&" get their own AST nodes
// (short-circuit control flow); every other operator here desugars to a
// Call, per binaryBuiltin below.
var binaryPrecedence = map[token.Type]int{
	token.OR:    1,
	token.AND:   2,
	token.PIPE:  3,
	token.CARET: 4,
	token.AMP:   5,
	token.EQ:    6, token.NEQ: 6,
	token.LT: 7, token.LEQ: 7, token.GT: 7, token.GEQ: 7,
	token.SHL: 8, token.SHR: 8,
	token.PLUS: 9, token.MINUS: 9,
	token.STAR: 10, token.SLASH: 10, token.PERCENT: 10,
	token.STAR_STAR: 11,
}

// rightAssoc marks the operators that associate right-to-left; every
// other operator here is left-associative.
var rightAssoc = map[token.Type]bool{
	token.STAR_STAR: true,
}

// binaryBuiltin maps a surface operator to the builtin function name a
// `Call` expression targets once desugared. Operators absent from this
// table (the bitwise/modulo/power family) still parse — they desugar to
// a Call naming the literal operator text, which resolves to a
// VariableError only when actually evaluated, never at parse time.
var binaryBuiltin = map[token.Type]string{
	token.PLUS: "add", token.MINUS: "sub",
	token.STAR: "mul", token.SLASH: "div",
	token.EQ: "equal", token.NEQ: "neq",
	token.LT: "lt", token.GT: "gt", token.LEQ: "leq", token.GEQ: "geq",
}

func (p *Parser) parseExpr() ast.Expression {
	return p.parseTernary()
}

func (p *Parser) parseTernary() ast.Expression {
	cond := p.parseBinary(0)
	if p.match(token.QUESTION) {
		start := cond.Pos()
		thenE := p.parseExpr()
		p.consume(token.COLON, "expected ':' in ternary expression")
		elseE := p.parseExpr()
		return ast.TernaryExpr{
			NodeBase: ast.NewBase(start, elseE.EndPos()),
			Test:     cond, Then: thenE, Else: elseE,
		}
	}
	return cond
}

func (p *Parser) parseBinary(minPrec int) ast.Expression {
	left := p.parseUnary()

	for {
		opTok := p.peek()
		prec, ok := binaryPrecedence[opTok.Type]
		if !ok || prec < minPrec {
			break
		}
		p.advance()

		nextMin := prec + 1
		if rightAssoc[opTok.Type] {
			nextMin = prec
		}
		right := p.parseBinary(nextMin)

		left = desugarBinary(opTok, left, right)
	}

	return left
}

// desugarBinary builds the AST for a parsed binary operator: "&&"/"||"
// get their own short-circuit nodes, everything else becomes a Call to
// the matching (or, for unsupported operators, the literal) builtin
// name.
func desugarBinary(opTok token.Token, left, right ast.Expression) ast.Expression {
	base := ast.NewBase(left.Pos(), right.EndPos())
	switch opTok.Type {
	case token.AND:
		return ast.AndExpr{NodeBase: base, Left: left, Right: right}
	case token.OR:
		return ast.OrExpr{NodeBase: base, Left: left, Right: right}
	}

	name, ok := binaryBuiltin[opTok.Type]
	if !ok {
		name = opTok.Lexeme
	}
	callee := ast.IdentExpr{NodeBase: ast.NewBase(opTok.Position, opTok.Position), Name: name}
	return ast.CallExpr{NodeBase: base, Callee: callee, Args: []ast.Expression{left, right}}
}

func (p *Parser) parseUnary() ast.Expression {
	switch {
	case p.check(token.BANG):
		op := p.advance()
		x := p.parseUnary()
		return ast.NotExpr{NodeBase: ast.NewBase(op.Position, x.EndPos()), X: x}
	case p.check(token.MINUS):
		// Unary minus desugars to `sub(0, x)`: the closed builtin catalog
		// has no dedicated negate operation.
		op := p.advance()
		x := p.parseUnary()
		zero := ast.LiteralExpr{NodeBase: ast.NewBase(op.Position, op.Position), Kind: ast.LitInteger, Text: "0"}
		callee := ast.IdentExpr{NodeBase: ast.NewBase(op.Position, op.Position), Name: "sub"}
		return ast.CallExpr{NodeBase: ast.NewBase(op.Position, x.EndPos()), Callee: callee, Args: []ast.Expression{zero, x}}
	case p.check(token.TILDE):
		op := p.advance()
		x := p.parseUnary()
		callee := ast.IdentExpr{NodeBase: ast.NewBase(op.Position, op.Position), Name: "~"}
		return ast.CallExpr{NodeBase: ast.NewBase(op.Position, x.EndPos()), Callee: callee, Args: []ast.Expression{x}}
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

func (p *Parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		switch {
		case p.match(token.DOT):
			field := p.consume(token.IDENT, "expected field name after '.'")
			fieldExpr := ast.IdentExpr{NodeBase: p.span(field, field), Name: field.Lexeme}
			expr = ast.DotExpr{NodeBase: ast.NewBase(expr.Pos(), field.Position), Left: expr, Right: fieldExpr}
		case p.check(token.LPAREN):
			p.advance()
			args := p.parseArgList()
			end := p.consume(token.RPAREN, "expected ')' after arguments")
			expr = ast.CallExpr{NodeBase: ast.NewBase(expr.Pos(), end.Position), Callee: expr, Args: args}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgList() []ast.Expression {
	var args []ast.Expression
	if p.check(token.RPAREN) {
		return args
	}
	for {
		args = append(args, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	switch {
	case p.match(token.NUMBER):
		tok := p.previous()
		return ast.LiteralExpr{NodeBase: p.span(tok, tok), Kind: ast.LitInteger, Text: tok.Lexeme}
	case p.match(token.FLOAT):
		tok := p.previous()
		return ast.LiteralExpr{NodeBase: p.span(tok, tok), Kind: ast.LitFloat, Text: tok.Lexeme}
	case p.match(token.STRING):
		tok := p.previous()
		return ast.LiteralExpr{NodeBase: p.span(tok, tok), Kind: ast.LitString, Text: tok.Lexeme}
	case p.match(token.TRUE):
		tok := p.previous()
		return ast.LiteralExpr{NodeBase: p.span(tok, tok), Kind: ast.LitTrue}
	case p.match(token.FALSE):
		tok := p.previous()
		return ast.LiteralExpr{NodeBase: p.span(tok, tok), Kind: ast.LitFalse}
	case p.match(token.NULL):
		tok := p.previous()
		return ast.LiteralExpr{NodeBase: p.span(tok, tok), Kind: ast.LitNull}
	case p.match(token.UNIT):
		tok := p.previous()
		return ast.LiteralExpr{NodeBase: p.span(tok, tok), Kind: ast.LitUnit}
	case p.match(token.IDENT):
		return p.parseIdentOrStructLiteral()
	case p.match(token.LPAREN):
		inner := p.parseExpr()
		p.consume(token.RPAREN, "expected ')'")
		return inner
	default:
		tok := p.peek()
		p.errorAtCurrent("unexpected token in expression")
		p.advance()
		return ast.BadExpr{NodeBase: p.span(tok, tok), Message: "unexpected token in expression: " + tok.Lexeme}
	}
}

func (p *Parser) parseIdentOrStructLiteral() ast.Expression {
	nameTok := p.previous()
	name := ast.IdentExpr{NodeBase: p.span(nameTok, nameTok), Name: nameTok.Lexeme}

	if p.check(token.AT) {
		p.advance()
		return p.parseStructLiteral(nameTok)
	}
	return name
}

func (p *Parser) parseStructLiteral(nameTok token.Token) ast.Expression {
	p.consume(token.LBRACE, "expected '{' after '@' in struct literal")
	var fields []ast.StructLiteralField

	for !p.check(token.RBRACE) && !p.isAtEnd() {
		fieldTok := p.consume(token.IDENT, "expected field name")
		var value ast.Expression
		if p.match(token.COLON) {
			value = p.parseExpr()
		} else {
			// shorthand `name` means `name: name`
			value = ast.IdentExpr{NodeBase: p.span(fieldTok, fieldTok), Name: fieldTok.Lexeme}
		}
		fields = append(fields, ast.StructLiteralField{Name: fieldTok.Lexeme, Value: value})
		if !p.match(token.COMMA) {
			break
		}
	}

	end := p.consume(token.RBRACE, "expected '}' after struct literal")

	// Field order here is source order; normalizing to lexicographic
	// construction order happens during lowering (internal/lower), not
	// here, so diagnostics and tooling still see the field order as
	// written.
	return ast.StructLiteralExpr{
		NodeBase: ast.NewBase(nameTok.Position, end.Position),
		Name:     nameTok.Lexeme,
		Fields:   fields,
	}
}
