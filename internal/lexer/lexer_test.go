package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func typesOf(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestLexerBasicFunction(t *testing.T) {
	toks := All("pub fn add(x: Int, y: Int) -> Int {\n  x + y\n}")
	require.Equal(t, []TokenType{
		PUB, FN, IDENT, LPAREN, IDENT, COLON, UPPER_IDENT, COMMA,
		IDENT, COLON, UPPER_IDENT, RPAREN, ARROW, UPPER_IDENT, LBRACE,
		IDENT, PLUS, IDENT, RBRACE, EOF,
	}, typesOf(toks))
}

func TestLexerHexIntAndPipe(t *testing.T) {
	toks := All("let x = 0xFF |> f")
	require.Equal(t, []TokenType{LET, IDENT, EQ, INT, PIPE_ARROW, IDENT, EOF}, typesOf(toks))
	require.Equal(t, "0xFF", toks[3].Literal)
}

func TestLexerStringWithEscape(t *testing.T) {
	toks := All(`"hello\nworld"`)
	require.Equal(t, STRING, toks[0].Type)
	require.Equal(t, `hello\nworld`, toks[0].Literal)
}

func TestLexerStringConcatIdent(t *testing.T) {
	toks := All(`"a" <> rest`)
	require.Equal(t, []TokenType{STRING, CONCAT, IDENT, EOF}, typesOf(toks))
}

func TestLexerDocComment(t *testing.T) {
	toks := All("/// doc\npub fn f() { 1 }")
	require.Equal(t, DOC_COMMENT, toks[0].Type)
}

func TestLexerNormalizeStripsBOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("let x = 1")...)
	normalised := Normalize(withBOM)
	toks := All(string(normalised))
	require.Equal(t, []TokenType{LET, IDENT, EQ, INT, EOF}, typesOf(toks))
}
