package lexer

import "strings"

// Lexer scans normalised source bytes into Tokens one at a time.
type Lexer struct {
	src  string
	pos  int
	ch   byte
}

// New creates a Lexer over src. Callers should pass src through Normalize
// first; New does not normalise itself so callers that already have
// normalised bytes (e.g. re-lexing a cached file) avoid the repeat cost.
func New(src string) *Lexer {
	l := &Lexer{src: src}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.pos >= len(l.src) {
		l.ch = 0
		return
	}
	l.ch = l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	p := l.pos + offset
	if p >= len(l.src) {
		return 0
	}
	return l.src[p]
}

func (l *Lexer) advance() { l.pos++; l.readChar() }

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLower(c byte) bool  { return c >= 'a' && c <= 'z' }
func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isIdentStart(c byte) bool { return isLower(c) || isUpper(c) || c == '_' }
func isIdentCont(c byte) bool  { return isLower(c) || isUpper(c) || isDigit(c) || c == '_' }

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.advance()
	}
}

// Next scans and returns the next token, including comment tokens (the
// parser is responsible for skipping plain COMMENT while retaining
// DOC_COMMENT/MOD_COMMENT for doc-string attachment, matching how the
// teacher's own lexer hands comments upward rather than swallowing them).
func (l *Lexer) Next() Token {
	l.skipWhitespace()
	start := l.pos

	if l.ch == 0 {
		return Token{Type: EOF, Start: start, End: start}
	}

	switch {
	case l.ch == '/' && l.peekAt(1) == '/':
		return l.scanComment(start)
	case isIdentStart(l.ch):
		return l.scanIdent(start)
	case isDigit(l.ch):
		return l.scanNumber(start)
	case l.ch == '"':
		return l.scanString(start)
	}

	return l.scanOperator(start)
}

func (l *Lexer) scanComment(start int) Token {
	depth := 0
	for l.ch == '/' {
		depth++
		l.advance()
	}
	for l.ch != 0 && l.ch != '\n' {
		l.advance()
	}
	lit := l.src[start:l.pos]
	typ := COMMENT
	switch {
	case depth >= 4:
		typ = MOD_COMMENT
	case depth == 3:
		typ = DOC_COMMENT
	}
	return Token{Type: typ, Literal: lit, Start: start, End: l.pos}
}

func (l *Lexer) scanIdent(start int) Token {
	for isIdentCont(l.ch) {
		l.advance()
	}
	lit := l.src[start:l.pos]
	if lit == "_" || strings.HasPrefix(lit, "_") {
		return Token{Type: DISCARD, Literal: lit, Start: start, End: l.pos}
	}
	if kw, ok := keywords[lit]; ok {
		return Token{Type: kw, Literal: lit, Start: start, End: l.pos}
	}
	if isUpper(lit[0]) {
		return Token{Type: UPPER_IDENT, Literal: lit, Start: start, End: l.pos}
	}
	return Token{Type: IDENT, Literal: lit, Start: start, End: l.pos}
}

// scanNumber handles decimal, 0x/0o/0b integers, and floats. The literal
// text is kept verbatim (underscores and all) so gtype/hydrator-adjacent
// stages and the Nix backend's scalar lowering (§4.7.2) can apply their own
// normalisation rules rather than lose information here.
func (l *Lexer) scanNumber(start int) Token {
	if l.ch == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X' || l.peekAt(1) == 'o' || l.peekAt(1) == 'O' || l.peekAt(1) == 'b' || l.peekAt(1) == 'B') {
		l.advance()
		l.advance()
		for isHexDigitOrUnderscore(l.ch) {
			l.advance()
		}
		return Token{Type: INT, Literal: l.src[start:l.pos], Start: start, End: l.pos}
	}

	isFloat := false
	for isDigit(l.ch) || l.ch == '_' {
		l.advance()
	}
	if l.ch == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.ch) || l.ch == '_' {
			l.advance()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		save := l.pos
		l.advance()
		if l.ch == '+' || l.ch == '-' {
			l.advance()
		}
		if isDigit(l.ch) {
			isFloat = true
			for isDigit(l.ch) {
				l.advance()
			}
		} else {
			l.pos = save
			l.readChar()
		}
	}
	typ := INT
	if isFloat {
		typ = FLOAT
	}
	return Token{Type: typ, Literal: l.src[start:l.pos], Start: start, End: l.pos}
}

func isHexDigitOrUnderscore(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == '_'
}

// scanString consumes a quoted string literal, leaving escape sequences
// unresolved in Literal (raw, between the quotes) — the parser's
// unescapeString resolves all of them, \n \t \r \\ \" \' as well as \f and
// \u{...}, into the runes stored in the AST.
func (l *Lexer) scanString(start int) Token {
	l.advance() // opening quote
	contentStart := l.pos
	for l.ch != 0 && l.ch != '"' {
		if l.ch == '\\' && l.peekAt(1) != 0 {
			l.advance()
		}
		l.advance()
	}
	content := l.src[contentStart:l.pos]
	if l.ch == '"' {
		l.advance()
	}
	return Token{Type: STRING, Literal: content, Start: start, End: l.pos}
}

type opRule struct {
	text string
	typ  TokenType
}

// multi-char operators, longest first so scanOperator's greedy match is
// correct without backtracking.
var opRules = []opRule{
	{"<=.", LT_EQ_DOT}, {">=.", GT_EQ_DOT},
	{"<=", LT_EQ}, {">=", GT_EQ}, {"==", EQ_EQ}, {"!=", NOT_EQ},
	{"&&", AMP_AMP}, {"||", PIPE_PIPE}, {"<>", CONCAT}, {"|>", PIPE_ARROW},
	{"->", ARROW}, {"<-", LARROW}, {"..", DOT_DOT},
	{"+.", PLUS_DOT}, {"-.", MINUS_DOT}, {"*.", STAR_DOT}, {"/.", SLASH_DOT},
	{"<.", LT_DOT}, {">.", GT_DOT},
	{"<<", LDANGLE}, {">>", RDANGLE},
}

var singleRules = map[byte]TokenType{
	'+': PLUS, '-': MINUS, '*': STAR, '/': SLASH,
	'<': LT, '>': GT, '!': BANG,
	'(': LPAREN, ')': RPAREN, '{': LBRACE, '}': RBRACE,
	'[': LBRACKET, ']': RBRACKET, ',': COMMA, '.': DOT, ':': COLON,
	'#': HASH, '@': AT, '=': EQ, '|': PIPE,
}

func (l *Lexer) scanOperator(start int) Token {
	rest := l.src[l.pos:]
	for _, rule := range opRules {
		if strings.HasPrefix(rest, rule.text) {
			for range rule.text {
				l.advance()
			}
			return Token{Type: rule.typ, Literal: rule.text, Start: start, End: l.pos}
		}
	}
	if typ, ok := singleRules[l.ch]; ok {
		l.advance()
		return Token{Type: typ, Literal: string(rest[0]), Start: start, End: l.pos}
	}
	bad := l.ch
	l.advance()
	return Token{Type: ILLEGAL, Literal: string(bad), Start: start, End: l.pos}
}

// All lexes the entire source into a token slice, dropping COMMENT (but
// keeping DOC_COMMENT/MOD_COMMENT) and appending one trailing EOF. Most
// parser use goes through this rather than pull-based Next, since the
// parser needs lookahead.
func All(src string) []Token {
	l := New(src)
	var toks []Token
	for {
		t := l.Next()
		if t.Type == COMMENT {
			continue
		}
		toks = append(toks, t)
		if t.Type == EOF {
			break
		}
	}
	return toks
}
