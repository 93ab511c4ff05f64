package parser

import (
	"strings"

	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/lexer"
)

// parseStatement parses one statement inside a `{ ... }` block: `let`/`let
// assert`, `use`, or a bare expression.
func (p *Parser) parseStatement() ast.Statement {
	start := p.cur()
	switch {
	case p.at(lexer.LET):
		return p.parseLetStatement(start)
	case p.at(lexer.USE):
		return p.parseUseStatement(start)
	default:
		e := p.parseExpr(precLowest)
		return wrapExprStatement(e)
	}
}

func (p *Parser) parseLetStatement(start lexer.Token) ast.Statement {
	p.advance() // `let`
	kind := ast.LetPlain
	if p.at(lexer.ASSERT) {
		p.advance()
		kind = ast.LetAssert
	}
	pat := p.parsePattern()
	var annot ast.TypeAst
	if p.at(lexer.COLON) {
		p.advance()
		annot = p.parseType()
	}
	p.expect(lexer.EQ)
	value := p.parseExpr(precLowest)
	ls := &ast.LetStatement{Kind: kind, Pattern: pat, Annotation: annot, Value: value}
	ls.SetSpan(p.span(start))
	return ls
}

// parseUseStatement parses `use p1, p2 <- call(args...)`; Rest is filled in
// by the caller (parseBlockStatements), since it is every statement
// following this one in the enclosing block.
func (p *Parser) parseUseStatement(start lexer.Token) ast.Statement {
	p.advance() // `use`
	var pats []ast.Pattern
	if !p.at(lexer.LARROW) {
		pats = append(pats, p.parsePattern())
		for p.at(lexer.COMMA) {
			p.advance()
			pats = append(pats, p.parsePattern())
		}
	}
	p.expect(lexer.LARROW)
	call := p.parseExpr(precLowest)
	us := &ast.UseStatement{Patterns: pats, Call: call}
	us.SetSpan(p.span(start))
	return us
}

// parseBlockStatements reads `{ stmt* }`, and, when it encounters a `use`
// statement, attaches every subsequent statement as its Rest so the typer
// can lower the whole remainder into the use-call's callback body per
// spec.md §4.5 ("Use sugar").
func (p *Parser) parseBlockStatements() []ast.Statement {
	p.expect(lexer.LBRACE)
	var stmts []ast.Statement
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		s := p.parseStatement()
		if use, ok := s.(*ast.UseStatement); ok {
			var rest []ast.Statement
			for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
				rest = append(rest, p.parseStatement())
			}
			use.Rest = rest
			stmts = append(stmts, use)
			break
		}
		stmts = append(stmts, s)
	}
	p.expect(lexer.RBRACE)
	return stmts
}

// unescapeString resolves the subset of escapes Gleam string literals
// support (`\n \t \r \\ \" \' \f` and `\u{XXXX}`) into their literal runes.
// `\f` and `\u{...}` are resolved here as well, so no backslash escape
// reaches the AST; the Nix backend emits the resulting runes as they are
// inside its string literal and does not rewrite them into escape or
// interpolation forms.
func unescapeString(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			continue
		}
		next := raw[i+1]
		switch next {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		case '"':
			b.WriteByte('"')
			i++
		case '\'':
			b.WriteByte('\'')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'u':
			if i+2 < len(raw) && raw[i+2] == '{' {
				end := strings.IndexByte(raw[i+3:], '}')
				if end >= 0 {
					hex := raw[i+3 : i+3+end]
					if r, ok := parseHexRune(hex); ok {
						b.WriteRune(r)
						i += 3 + end
						continue
					}
				}
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func parseHexRune(hex string) (rune, bool) {
	var v rune
	if hex == "" {
		return 0, false
	}
	for _, c := range hex {
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, false
		}
		v = v*16 + d
	}
	return v, true
}
