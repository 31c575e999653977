package parser

import (
	"github.com/glint-lang/glint/internal/ast"
	"github.com/glint-lang/glint/internal/token"
)

// augOp maps an augmented-assignment operator token to the builtin name
// its right-hand `Call(Var(op), 2)` lowering targets.
var augOp = map[token.Type]string{
	token.PLUS_EQ: "add", token.MINUS_EQ: "sub",
	token.STAR_EQ: "mul", token.SLASH_EQ: "div",
	token.PERCENT_EQ: "%", token.STAR_STAR_EQ: "**",
	token.PIPE_EQ: "|", token.AMP_EQ: "&", token.CARET_EQ: "^",
	token.SHL_EQ: "<<", token.SHR_EQ: ">>",
}

// parseStatements parses statements until it sees stop (RBRACE for a
// block, EOF for the top-level program).
func (p *Parser) parseStatements(stop token.Type) []ast.Statement {
	var stmts []ast.Statement
	for !p.check(stop) && !p.isAtEnd() {
		errsBefore := len(p.errors)
		stmt := p.parseStatement()
		if len(p.errors) > errsBefore {
			p.synchronize()
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *Parser) parseBlock() []ast.Statement {
	p.consume(token.LBRACE, "expected '{'")
	stmts := p.parseStatements(token.RBRACE)
	p.consume(token.RBRACE, "expected '}'")
	return stmts
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.check(token.BREAK):
		return p.parseBreak()
	case p.check(token.CONTINUE):
		return p.parseContinue()
	case p.check(token.RETURN):
		return p.parseReturn()
	case p.check(token.LET):
		return p.parseVarDef(false)
	case p.check(token.CONST):
		return p.parseVarDef(true)
	case p.check(token.TYPE):
		return p.parseTypeDef()
	case p.check(token.FN):
		return p.parseFuncDef()
	case p.check(token.IF):
		return p.parseIf()
	case p.check(token.WHILE):
		return p.parseWhile()
	case p.check(token.FOR):
		return p.parseFor()
	default:
		return p.parseExprOrAssignStatement()
	}
}

func (p *Parser) optionalSemicolon() {
	p.match(token.SEMICOLON)
}

func (p *Parser) parseBreak() ast.Statement {
	start := p.advance()
	p.optionalSemicolon()
	return ast.BreakStmt{NodeBase: p.span(start, p.previous())}
}

func (p *Parser) parseContinue() ast.Statement {
	start := p.advance()
	p.optionalSemicolon()
	return ast.ContinueStmt{NodeBase: p.span(start, p.previous())}
}

func (p *Parser) parseReturn() ast.Statement {
	start := p.advance()
	var value ast.Expression
	if !p.check(token.SEMICOLON) && !p.check(token.RBRACE) && !p.isAtEnd() {
		value = p.parseExpr()
	}
	end := p.previous()
	p.optionalSemicolon()
	return ast.ReturnStmt{NodeBase: p.span(start, end), Value: value}
}

func (p *Parser) parseVarDef(isConst bool) ast.Statement {
	start := p.advance() // 'let' or 'const'
	nameTok := p.consume(token.IDENT, "expected variable name")
	mutable := !isConst
	p.consume(token.COLON, "expected ':' after variable name")
	typ := p.parseTypeExpr()

	var init ast.Expression
	if p.match(token.ASSIGN) {
		init = p.parseExpr()
	}
	end := p.previous()
	p.optionalSemicolon()

	return ast.VarDef{
		NodeBase: p.span(start, end),
		Mutable:  mutable,
		Const:    isConst,
		Name:     nameTok.Lexeme,
		Type:     typ,
		Init:     init,
	}
}

// parseTypeDef is lowered as a no-op (reserved); the parser still
// validates a minimal `type Name = ...;` shape so malformed type
// declarations still produce a ParseError.
func (p *Parser) parseTypeDef() ast.Statement {
	start := p.advance() // 'type'
	nameTok := p.consume(token.IDENT, "expected type name")
	if p.match(token.ASSIGN) {
		p.parseTypeExpr()
	}
	end := p.previous()
	p.optionalSemicolon()
	return ast.TypeDef{NodeBase: p.span(start, end), Name: nameTok.Lexeme}
}

func (p *Parser) parseFuncDef() ast.Statement {
	start := p.advance() // 'fn'
	nameTok := p.consume(token.IDENT, "expected function name")
	p.consume(token.LPAREN, "expected '(' after function name")

	var params []ast.Param
	if !p.check(token.RPAREN) {
		for {
			pname := p.consume(token.IDENT, "expected parameter name")
			p.consume(token.COLON, "expected ':' after parameter name")
			ptype := p.parseTypeExpr()
			params = append(params, ast.Param{Name: pname.Lexeme, Type: ptype})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expected ')' after parameters")

	retType := ast.TypeExpr{Name: "unit"}
	if p.match(token.ARROW) {
		retType = p.parseTypeExpr()
	}

	body := p.parseBlock()
	end := p.previous()

	return ast.FuncDef{
		NodeBase:   p.span(start, end),
		Name:       nameTok.Lexeme,
		Params:     params,
		ReturnType: retType,
		Body:       body,
	}
}

func (p *Parser) parseIf() ast.Statement {
	start := p.advance() // 'if'
	test := p.parseExpr()
	then := p.parseBlock()

	var elseBody []ast.Statement
	if p.check(token.ELIF) {
		elseBody = []ast.Statement{p.parseElif()}
	} else if p.match(token.ELSE) {
		elseBody = p.parseBlock()
	}
	end := p.previous()

	return ast.IfStmt{NodeBase: p.span(start, end), Test: test, Then: then, Else: elseBody}
}

// parseElif treats `elif` as a nested if, so a chain of elif clauses
// lowers using the same If-statement rule recursively.
func (p *Parser) parseElif() ast.Statement {
	start := p.advance() // 'elif'
	test := p.parseExpr()
	then := p.parseBlock()

	var elseBody []ast.Statement
	if p.check(token.ELIF) {
		elseBody = []ast.Statement{p.parseElif()}
	} else if p.match(token.ELSE) {
		elseBody = p.parseBlock()
	}
	end := p.previous()

	return ast.IfStmt{NodeBase: p.span(start, end), Test: test, Then: then, Else: elseBody}
}

func (p *Parser) parseWhile() ast.Statement {
	start := p.advance() // 'while'
	test := p.parseExpr()
	then := p.parseBlock()
	end := p.previous()
	return ast.WhileStmt{NodeBase: p.span(start, end), Test: test, Then: then}
}

// parseFor is lowered as a no-op (reserved placeholder); the parser still
// validates `for x in expr { ... }` surface grammar.
func (p *Parser) parseFor() ast.Statement {
	start := p.advance() // 'for'
	nameTok := p.consume(token.IDENT, "expected loop variable name")
	p.consume(token.IN, "expected 'in' in for statement")
	iter := p.parseExpr()
	body := p.parseBlock()
	end := p.previous()
	return ast.ForStmt{NodeBase: p.span(start, end), Var: nameTok.Lexeme, Iter: iter, Body: body}
}

func (p *Parser) parseExprOrAssignStatement() ast.Statement {
	startTok := p.peek()
	left := p.parseExpr()

	var stmt ast.Statement
	switch {
	case p.match(token.ASSIGN):
		right := p.parseExpr()
		stmt = ast.AssignStmt{NodeBase: p.span(startTok, p.previous()), Left: left, Right: right}
	case p.match(token.WALRUS):
		right := p.parseExpr()
		stmt = ast.MoveStmt{NodeBase: p.span(startTok, p.previous()), Left: left, Right: right}
	default:
		if op, ok := augOp[p.peek().Type]; ok {
			p.advance()
			right := p.parseExpr()
			stmt = ast.AugAssignStmt{NodeBase: p.span(startTok, p.previous()), Op: op, Left: left, Right: right}
		} else {
			stmt = ast.ExprStmt{NodeBase: p.span(startTok, p.previous()), X: left}
		}
	}

	p.optionalSemicolon()
	return stmt
}

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	nameTok := p.consume(token.IDENT, "expected type name")
	te := ast.TypeExpr{NodeBase: p.span(nameTok, nameTok), Name: nameTok.Lexeme}
	if p.match(token.LT) {
		if !p.check(token.GT) {
			te.Generics = append(te.Generics, p.parseTypeExpr())
			for p.match(token.COMMA) {
				te.Generics = append(te.Generics, p.parseTypeExpr())
			}
		}
		closing := p.consume(token.GT, "expected '>' after generic type arguments")
		te.NodeBase = p.span(nameTok, closing)
	}
	return te
}

func (p *Parser) span(start, end token.Token) ast.NodeBase {
	return ast.NewBase(start.Position, end.Position)
}
