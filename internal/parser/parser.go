// Package parser is a recursive-descent / Pratt parser turning a token
// stream (internal/lexer) into a internal/ast.Module. As with internal/lexer,
// it is ambient plumbing rather than one of spec.md's nine named pipeline
// stages (see SPEC_FULL.md) — it exists so the Hydrator and Expression
// Typer have something to consume from literal source text, and so the
// end-to-end scenarios in spec.md §8 can be exercised from source.
//
// Structure mirrors the teacher's internal/parser split across
// parser.go/parser_decl.go/parser_expr.go/parser_type.go/parser_pattern.go:
// one Parser struct holding the token slice and position, one method per
// grammar production, Pratt-style precedence climbing for expressions.
package parser

import (
	"fmt"

	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/lexer"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/srcspan"
)

// Parser holds parse state for one module's token stream.
type Parser struct {
	toks     []lexer.Token
	pos      int
	problems *problems.Problems
	pendingDoc string
}

// Parse tokenises and parses src into an *ast.Module named name, recording
// any parse errors into probs and recovering by skipping to the next
// plausible declaration boundary (fault-tolerant, matching spec.md's
// analyser-wide policy of keeping going after most errors).
func Parse(name, src string, origin ast.Origin, probs *problems.Problems) *ast.Module {
	normalised := lexer.Normalize([]byte(src))
	toks := lexer.All(string(normalised))
	p := &Parser{toks: toks, problems: probs}
	return p.parseModule(name, origin)
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peek(n int) lexer.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}
func (p *Parser) at(t lexer.TokenType) bool { return p.cur().Type == t }

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if t.Type != lexer.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) span(start lexer.Token) srcspan.Span {
	end := p.toks[p.pos-1]
	if p.pos == 0 {
		end = start
	}
	return srcspan.NewSpan(start.Start, end.End)
}

func (p *Parser) errorf(tok lexer.Token, code, format string, args ...any) {
	sp := srcspan.NewSpan(tok.Start, tok.End)
	p.problems.Error(&problems.Diagnostic{
		Code: code, Phase: "parser",
		Message: fmt.Sprintf(format, args...),
		Span:    &sp,
	})
}

// expect consumes a token of type t, or records PAR001 and returns false,
// leaving the cursor in place so the caller can attempt recovery.
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, bool) {
	if p.cur().Type != t {
		p.errorf(p.cur(), problems.PAR001UnexpectedToken,
			"expected %s, found %s %q", t, p.cur().Type, p.cur().Literal)
		return p.cur(), false
	}
	return p.advance(), true
}

// syncToDecl skips tokens until a plausible start of the next top-level
// declaration, so one malformed declaration does not cascade into spurious
// errors for the rest of the file.
func (p *Parser) syncToDecl() {
	for !p.at(lexer.EOF) {
		switch p.cur().Type {
		case lexer.PUB, lexer.FN, lexer.TYPE, lexer.CONST, lexer.IMPORT, lexer.AT:
			return
		}
		p.advance()
	}
}

func (p *Parser) consumeDoc() string {
	doc := p.pendingDoc
	p.pendingDoc = ""
	return doc
}

func (p *Parser) skipDocAndModComments() {
	for p.at(lexer.DOC_COMMENT) || p.at(lexer.MOD_COMMENT) {
		t := p.advance()
		if t.Type == lexer.DOC_COMMENT {
			line := t.Literal
			if len(line) >= 3 {
				line = line[3:]
			}
			if p.pendingDoc != "" {
				p.pendingDoc += "\n"
			}
			p.pendingDoc += line
		}
		// MOD_COMMENT (module-level `////`) is dropped here; a full
		// implementation would attach it to the Module itself.
	}
}

func (p *Parser) parseModule(name string, origin ast.Origin) *ast.Module {
	start := p.cur()
	mod := &ast.Module{Name: name, Origin: origin}

	for !p.at(lexer.EOF) {
		p.skipDocAndModComments()
		if p.at(lexer.EOF) {
			break
		}

		switch p.cur().Type {
		case lexer.IMPORT:
			mod.Imports = append(mod.Imports, p.parseImport())
		case lexer.PUB, lexer.TYPE, lexer.CONST, lexer.FN, lexer.AT:
			p.parseTopLevelDecl(mod)
		default:
			p.errorf(p.cur(), problems.PAR001UnexpectedToken,
				"unexpected top-level token %s %q", p.cur().Type, p.cur().Literal)
			p.advance()
			p.syncToDecl()
		}
	}

	full := srcspan.NewSpan(start.Start, p.toks[len(p.toks)-1].End)
	mod.SetSpan(full)
	return mod
}

func (p *Parser) parseImport() *ast.Import {
	start := p.advance() // `import`
	path := p.parseModulePath()
	imp := &ast.Import{Path: path}

	if p.at(lexer.AS) {
		p.advance()
		if t, ok := p.expect(lexer.IDENT); ok {
			imp.Alias = t.Literal
		}
	}
	if p.at(lexer.DOT) {
		p.advance()
		p.expect(lexer.LBRACE)
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			isType := p.at(lexer.TYPE)
			if isType {
				p.advance()
			}
			nameTok := p.advance()
			u := ast.UnqualifiedImport{Name: nameTok.Literal, IsType: isType,
				Span: srcspan.NewSpan(nameTok.Start, nameTok.End)}
			if p.at(lexer.AS) {
				p.advance()
				if t, ok := p.expect(lexer.IDENT); ok {
					u.Alias = t.Literal
				}
			}
			imp.Unqualified = append(imp.Unqualified, u)
			if p.at(lexer.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RBRACE)
	}
	imp.SetSpan(p.span(start))
	return imp
}

// parseModulePath reads the slash-separated path in `import gleam/option`.
// The lexer tokenises `/` as ILLEGAL-adjacent to SLASH since `/` is also
// division; a bare path is parsed here as IDENT tokens joined by SLASH.
func (p *Parser) parseModulePath() string {
	out := ""
	for {
		t := p.advance()
		out += t.Literal
		if p.at(lexer.SLASH) {
			p.advance()
			out += "/"
			continue
		}
		break
	}
	return out
}

func (p *Parser) parseTopLevelDecl(mod *ast.Module) {
	start := p.cur()
	var externals []ast.ExternalAttr
	for p.at(lexer.AT) {
		externals = append(externals, p.parseExternalAttr())
	}

	pub := ast.Private
	if p.at(lexer.PUB) {
		p.advance()
		pub = ast.Public
	}

	switch {
	case p.at(lexer.TYPE):
		p.parseTypeDecl(mod, pub, start)
	case p.at(lexer.CONST):
		mod.Constants = append(mod.Constants, p.parseConst(pub, start))
	case p.at(lexer.FN):
		mod.Functions = append(mod.Functions, p.parseFn(pub, start, externals))
	default:
		p.errorf(p.cur(), problems.PAR001UnexpectedToken, "expected a declaration")
		p.advance()
		p.syncToDecl()
	}
}

func (p *Parser) parseExternalAttr() ast.ExternalAttr {
	start := p.advance() // `@`
	if t, ok := p.expect(lexer.IDENT); !ok || t.Literal != "external" {
		return ast.ExternalAttr{Span: p.span(start)}
	}
	p.expect(lexer.LPAREN)
	target := p.advance().Literal
	p.expect(lexer.COMMA)
	modName := p.parseStringLiteralRaw()
	p.expect(lexer.COMMA)
	fnName := p.parseStringLiteralRaw()
	p.expect(lexer.RPAREN)
	return ast.ExternalAttr{Target: target, Module: modName, Function: fnName, Span: p.span(start)}
}

func (p *Parser) parseStringLiteralRaw() string {
	t, ok := p.expect(lexer.STRING)
	if !ok {
		return ""
	}
	return unescapeString(t.Literal)
}

func (p *Parser) parseTypeDecl(mod *ast.Module, pub ast.Publicity, start lexer.Token) {
	p.advance() // `type`
	opaque := false
	if p.at(lexer.IDENT) && p.cur().Literal == "opaque" {
		opaque = true
		p.advance()
	}
	nameTok, _ := p.expect(lexer.UPPER_IDENT)
	var params []string
	if p.at(lexer.LPAREN) {
		p.advance()
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			params = append(params, p.advance().Literal)
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RPAREN)
	}

	doc := p.consumeDoc()

	if p.at(lexer.EQ) {
		p.advance()
		rhs := p.parseType()
		alias := &ast.TypeAliasDecl{Name: nameTok.Literal, Publicity: pub, Params: params, RHS: rhs, Doc: doc}
		alias.SetSpan(p.span(start))
		mod.TypeAliases = append(mod.TypeAliases, alias)
		return
	}

	decl := &ast.CustomTypeDecl{Name: nameTok.Literal, Publicity: pub, Opaque: opaque, Params: params, Doc: doc}
	if p.at(lexer.LBRACE) {
		p.advance()
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			decl.Variants = append(decl.Variants, p.parseVariant())
		}
		p.expect(lexer.RBRACE)
	}
	decl.SetSpan(p.span(start))
	mod.CustomTypes = append(mod.CustomTypes, decl)
}

func (p *Parser) parseVariant() *ast.VariantDecl {
	start := p.cur()
	p.skipDocAndModComments()
	nameTok, _ := p.expect(lexer.UPPER_IDENT)
	v := &ast.VariantDecl{Name: nameTok.Literal, Doc: p.consumeDoc()}
	if p.at(lexer.LPAREN) {
		p.advance()
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			v.Fields = append(v.Fields, p.parseVariantField())
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RPAREN)
	}
	v.SetSpan(p.span(start))
	return v
}

func (p *Parser) parseVariantField() ast.VariantField {
	start := p.cur()
	label := ""
	// `label: Type` vs bare `Type` — disambiguate by lookahead for COLON
	// after an IDENT.
	if p.at(lexer.IDENT) && p.peek(1).Type == lexer.COLON {
		label = p.advance().Literal
		p.advance() // COLON
	}
	typ := p.parseType()
	return ast.VariantField{Label: label, Type: typ, Span: srcspan.NewSpan(start.Start, p.toks[p.pos-1].End)}
}

func (p *Parser) parseConst(pub ast.Publicity, start lexer.Token) *ast.ConstDecl {
	p.advance() // `const`
	nameTok, _ := p.expect(lexer.IDENT)
	c := &ast.ConstDecl{Name: nameTok.Literal, Publicity: pub, Doc: p.consumeDoc()}
	if p.at(lexer.COLON) {
		p.advance()
		c.Type = p.parseType()
	}
	p.expect(lexer.EQ)
	c.Value = p.parseExpr(precLowest)
	c.SetSpan(p.span(start))
	return c
}

func (p *Parser) parseFn(pub ast.Publicity, start lexer.Token, externals []ast.ExternalAttr) *ast.FuncDecl {
	p.advance() // `fn`
	nameTok, _ := p.expect(lexer.IDENT)
	fn := &ast.FuncDecl{Name: nameTok.Literal, Publicity: pub, Externals: externals, Doc: p.consumeDoc()}
	fn.Params = p.parseParamList()
	if p.at(lexer.ARROW) {
		p.advance()
		fn.ReturnType = p.parseType()
	}
	if p.at(lexer.LBRACE) {
		fn.Body = p.parseBlockStatements()
	}
	fn.SetSpan(p.span(start))
	return fn
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(lexer.LPAREN)
	var params []ast.Param
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		params = append(params, p.parseParam())
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

func (p *Parser) parseParam() ast.Param {
	start := p.cur()
	label := ""
	if (p.at(lexer.IDENT) || p.at(lexer.DISCARD)) && (p.peek(1).Type == lexer.IDENT || p.peek(1).Type == lexer.DISCARD) {
		label = p.advance().Literal
	}
	nameTok := p.advance()
	param := ast.Param{Label: label, Name: nameTok.Literal}
	if p.at(lexer.COLON) {
		p.advance()
		param.Type = p.parseType()
	}
	param.Span = srcspan.NewSpan(start.Start, p.toks[p.pos-1].End)
	return param
}
