package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glint-lang/glint/internal/token"
)

func TestNodeBasePositions(t *testing.T) {
	start := token.Position{Line: 1, Column: 1}
	end := token.Position{Line: 1, Column: 5}
	lit := LiteralExpr{NodeBase: NewBase(start, end), Kind: LitInteger, Text: "41"}

	assert.Equal(t, start, lit.Pos())
	assert.Equal(t, end, lit.EndPos())
}

func TestStatementsImplementInterface(t *testing.T) {
	var stmts []Statement
	stmts = append(stmts, BreakStmt{}, ContinueStmt{}, ReturnStmt{}, VarDef{}, IfStmt{}, WhileStmt{})
	assert.Len(t, stmts, 6)
}

func TestExpressionsImplementInterface(t *testing.T) {
	var exprs []Expression
	exprs = append(exprs, LiteralExpr{}, IdentExpr{}, CallExpr{}, AndExpr{}, OrExpr{}, NotExpr{}, TernaryExpr{})
	assert.Len(t, exprs, 7)
}
