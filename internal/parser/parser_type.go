package parser

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/lexer"
)

// parseType parses surface type syntax: `Name(args)`, `Module.Name(args)`,
// `fn(args) -> ret`, `#(a, b, c)`, a lowercase type variable, or `_`.
func (p *Parser) parseType() ast.TypeAst {
	start := p.cur()
	switch {
	case p.at(lexer.FN):
		return p.parseFnType(start)
	case p.at(lexer.HASH):
		return p.parseTupleType(start)
	case p.at(lexer.DISCARD):
		p.advance()
		t := &ast.HoleType{}
		t.SetSpan(p.span(start))
		return t
	case p.at(lexer.IDENT):
		return p.parseVarOrNamedType(start)
	case p.at(lexer.UPPER_IDENT):
		return p.parseNamedType(start, "")
	default:
		p.errorf(p.cur(), "PAR007", "expected a type, found %s %q", p.cur().Type, p.cur().Literal)
		p.advance()
		t := &ast.HoleType{}
		t.SetSpan(p.span(start))
		return t
	}
}

func (p *Parser) parseFnType(start lexer.Token) ast.TypeAst {
	p.advance() // `fn`
	p.expect(lexer.LPAREN)
	var args []ast.TypeAst
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		args = append(args, p.parseType())
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	var ret ast.TypeAst
	if p.at(lexer.ARROW) {
		p.advance()
		ret = p.parseType()
	}
	t := &ast.FnType{Args: args, Ret: ret}
	t.SetSpan(p.span(start))
	return t
}

func (p *Parser) parseTupleType(start lexer.Token) ast.TypeAst {
	p.advance() // `#`
	p.expect(lexer.LPAREN)
	var elems []ast.TypeAst
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		elems = append(elems, p.parseType())
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	t := &ast.TupleType{Elems: elems}
	t.SetSpan(p.span(start))
	return t
}

// parseVarOrNamedType handles a lowercase leading token: a bare type
// variable `a`, or a qualified name `module.Name(args)` (modules are always
// lowercase snake_case; the dotted member is resolved to a type only if it
// starts uppercase).
func (p *Parser) parseVarOrNamedType(start lexer.Token) ast.TypeAst {
	name := p.advance().Literal
	if p.at(lexer.DOT) && p.peek(1).Type == lexer.UPPER_IDENT {
		p.advance() // `.`
		return p.parseNamedType(start, name)
	}
	t := &ast.VarType{Name: name}
	t.SetSpan(p.span(start))
	return t
}

func (p *Parser) parseNamedType(start lexer.Token, module string) ast.TypeAst {
	nameTok, _ := p.expect(lexer.UPPER_IDENT)
	var args []ast.TypeAst
	if p.at(lexer.LPAREN) {
		p.advance()
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			args = append(args, p.parseType())
			if p.at(lexer.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RPAREN)
	}
	t := &ast.NamedType{Module: module, Name: nameTok.Literal, Args: args}
	t.SetSpan(p.span(start))
	return t
}
