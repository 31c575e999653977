package lsp

import (
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/token"
)

// SemanticToken is a single LSP semantic token entry; Line and StartChar
// are 0-based, TokenType indexes SemanticTokenTypes.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

// collectSemanticTokens classifies source's token stream directly (glint
// has no type checker to resolve identifiers against, so classification
// is lexical: keywords, numbers, strings, and call-position identifiers
// rather than a fully resolved symbol table), sorted by position as the
// LSP wire format requires.
func collectSemanticTokens(source string) []SemanticToken {
	toks, _ := lexer.Scan(source)
	var out []SemanticToken

	for i, tok := range toks {
		typeIdx, ok := classify(tok, toks, i)
		if !ok {
			continue
		}
		out = append(out, SemanticToken{
			Line:      uint32(tok.Position.Line - 1),
			StartChar: uint32(tok.Position.Column - 1),
			Length:    uint32(len(tok.Lexeme)),
			TokenType: typeIdx,
		})
	}
	return out
}

func classify(tok token.Token, toks []token.Token, i int) (int, bool) {
	switch tok.Type {
	case token.NUMBER, token.FLOAT:
		return indexOf("number"), true
	case token.STRING:
		return indexOf("string"), true
	case token.FN, token.TYPE, token.STRUCT, token.LET, token.CONST,
		token.IF, token.ELIF, token.ELSE, token.WHILE, token.FOR, token.IN,
		token.BREAK, token.CONTINUE, token.RETURN,
		token.NULL, token.UNIT, token.TRUE, token.FALSE:
		return indexOf("keyword"), true
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.ASSIGN, token.WALRUS, token.EQ, token.NEQ, token.LT, token.GT,
		token.LEQ, token.GEQ, token.BANG, token.AND, token.OR, token.AMP,
		token.PIPE, token.CARET, token.SHL, token.SHR, token.STAR_STAR,
		token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ,
		token.PERCENT_EQ, token.STAR_STAR_EQ, token.PIPE_EQ, token.AMP_EQ,
		token.CARET_EQ, token.SHL_EQ, token.SHR_EQ, token.QUESTION, token.TILDE:
		return indexOf("operator"), true
	case token.IDENT:
		if i+1 < len(toks) && toks[i+1].Type == token.LPAREN {
			return indexOf("function"), true
		}
		if tok.Position.Column > 0 && i > 0 && toks[i-1].Type == token.DOT {
			return indexOf("property"), true
		}
		return indexOf("variable"), true
	}
	return 0, false
}

func indexOf(name string) int {
	for i, t := range SemanticTokenTypes {
		if t == name {
			return i
		}
	}
	return 0
}
