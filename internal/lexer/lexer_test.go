package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glint-lang/glint/internal/token"
)

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, errs := Scan("fn let if elif else while for in break continue return null unit true false customIdent")
	assert.Empty(t, errs)

	expected := []token.Type{
		token.FN, token.LET, token.IF, token.ELIF, token.ELSE, token.WHILE,
		token.FOR, token.IN, token.BREAK, token.CONTINUE, token.RETURN,
		token.NULL, token.UNIT, token.TRUE, token.FALSE, token.IDENT, token.EOF,
	}
	assert.Len(t, toks, len(expected))
	for i, want := range expected {
		assert.Equalf(t, want, toks[i].Type, "token %d", i)
	}
}

func TestScanMultiCharOperators(t *testing.T) {
	toks, errs := Scan(":= -> == != <= >= && || ** += -= *= /= %= **= |= &= ^= <<= >>=")
	assert.Empty(t, errs)

	expected := []token.Type{
		token.WALRUS, token.ARROW, token.EQ, token.NEQ, token.LEQ, token.GEQ,
		token.AND, token.OR, token.STAR_STAR,
		token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ, token.PERCENT_EQ,
		token.STAR_STAR_EQ, token.PIPE_EQ, token.AMP_EQ, token.CARET_EQ,
		token.SHL_EQ, token.SHR_EQ, token.EOF,
	}
	assert.Len(t, toks, len(expected))
	for i, want := range expected {
		assert.Equalf(t, want, toks[i].Type, "token %d", i)
	}
}

func TestScanNumbersAndStrings(t *testing.T) {
	toks, errs := Scan(`1234 3.14 "hello" 'world'`)
	assert.Empty(t, errs)

	assert.Equal(t, token.NUMBER, toks[0].Type)
	assert.Equal(t, "1234", toks[0].Lexeme)
	assert.Equal(t, token.FLOAT, toks[1].Type)
	assert.Equal(t, "3.14", toks[1].Lexeme)
	assert.Equal(t, token.STRING, toks[2].Type)
	assert.Equal(t, "hello", toks[2].Lexeme)
	assert.Equal(t, token.STRING, toks[3].Type)
	assert.Equal(t, "world", toks[3].Lexeme)
}

func TestScanLineComment(t *testing.T) {
	toks, errs := Scan("let a = 1 // trailing comment\nlet b = 2")
	assert.Empty(t, errs)
	// let a = 1 let b = 2 EOF: the comment contributes no tokens
	assert.Len(t, toks, 9)

	var kinds []token.Type
	for _, tk := range toks {
		kinds = append(kinds, tk.Type)
	}
	assert.NotContains(t, kinds, token.ILLEGAL)
}

func TestScanIsPermissive(t *testing.T) {
	toks, errs := Scan("let a = 1 $ let b = 2")
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "unexpected character")
	// the rest of the source is still tokenized
	last := toks[len(toks)-1]
	assert.Equal(t, token.EOF, last.Type)
	assert.True(t, len(toks) > 5)
}

func TestPositionTracking(t *testing.T) {
	toks, _ := Scan("let\na")
	// "a" is on line 2, column 1
	var ident token.Token
	for _, tk := range toks {
		if tk.Type == token.IDENT {
			ident = tk
		}
	}
	assert.Equal(t, 2, ident.Position.Line)
	assert.Equal(t, 1, ident.Position.Column)
}
