// Package lexer tokenises Gleam-dialect source text. It is not one of the
// nine pipeline stages spec.md §2 enumerates (those begin from an already-
// parsed AST) but is the unavoidable producer of that AST from the raw
// source text §6 says the core accepts, so it is carried as ambient
// plumbing (see SPEC_FULL.md). Structure follows the teacher's
// internal/lexer/token.go: one TokenType enum, literal/keyword/operator/
// delimiter tokens grouped by kind.
package lexer

import "fmt"

// TokenType identifies a lexical token kind.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	COMMENT
	DOC_COMMENT // `///`
	MOD_COMMENT // `////`

	IDENT       // lower_snake identifier
	UPPER_IDENT // Upper constructor/type identifier
	DISCARD     // `_` or `_name`
	INT
	FLOAT
	STRING

	// Keywords
	PUB
	FN
	TYPE
	OPAQUE
	CONST
	IMPORT
	AS
	LET
	ASSERT
	CASE
	IF
	USE
	TODO
	PANIC

	// Operators
	PLUS        // +
	PLUS_DOT    // +.
	MINUS       // -
	MINUS_DOT   // -.
	STAR        // *
	STAR_DOT    // *.
	SLASH       // /
	SLASH_DOT   // /.
	EQ_EQ       // ==
	NOT_EQ      // !=
	LT          // <
	LT_EQ       // <=
	GT          // >
	GT_EQ       // >=
	LT_DOT      // <.
	LT_EQ_DOT   // <=.
	GT_DOT      // >.
	GT_EQ_DOT   // >=.
	AMP_AMP     // &&
	PIPE_PIPE   // ||
	CONCAT      // <>
	PIPE_ARROW  // |>
	ARROW       // ->
	LARROW      // <-
	BANG        // !
	DOT_DOT     // ..

	// Delimiters / punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	LDANGLE // <<
	RDANGLE // >>
	COMMA
	DOT
	COLON
	HASH // #
	AT   // @
	EQ   // =
	PIPE // |
)

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	DOC_COMMENT: "DOC_COMMENT", MOD_COMMENT: "MOD_COMMENT",
	IDENT: "IDENT", UPPER_IDENT: "UPPER_IDENT", DISCARD: "DISCARD",
	INT: "INT", FLOAT: "FLOAT", STRING: "STRING",
	PUB: "pub", FN: "fn", TYPE: "type", OPAQUE: "opaque", CONST: "const",
	IMPORT: "import", AS: "as", LET: "let", ASSERT: "assert", CASE: "case",
	IF: "if", USE: "use", TODO: "todo", PANIC: "panic",
	PLUS: "+", PLUS_DOT: "+.", MINUS: "-", MINUS_DOT: "-.",
	STAR: "*", STAR_DOT: "*.", SLASH: "/", SLASH_DOT: "/.",
	EQ_EQ: "==", NOT_EQ: "!=", LT: "<", LT_EQ: "<=", GT: ">", GT_EQ: ">=",
	LT_DOT: "<.", LT_EQ_DOT: "<=.", GT_DOT: ">.", GT_EQ_DOT: ">=.",
	AMP_AMP: "&&", PIPE_PIPE: "||", CONCAT: "<>", PIPE_ARROW: "|>",
	ARROW: "->", LARROW: "<-", BANG: "!", DOT_DOT: "..",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", LDANGLE: "<<", RDANGLE: ">>",
	COMMA: ",", DOT: ".", COLON: ":", HASH: "#", AT: "@", EQ: "=", PIPE: "|",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"pub": PUB, "fn": FN, "type": TYPE, "opaque": OPAQUE, "const": CONST,
	"import": IMPORT, "as": AS, "let": LET, "assert": ASSERT, "case": CASE,
	"if": IF, "use": USE, "todo": TODO, "panic": PANIC,
}

// Token is one lexeme: its kind, literal text, and source span.
type Token struct {
	Type    TokenType
	Literal string
	Start   int
	End     int
}
