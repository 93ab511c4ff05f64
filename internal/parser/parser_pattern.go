package parser

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/lexer"
)

// parsePattern parses one pattern, then wraps it in AssignPattern if
// followed by `as name`.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur()
	pat := p.parsePatternPrimary(start)
	if p.at(lexer.AS) {
		p.advance()
		nameTok, _ := p.expect(lexer.IDENT)
		ap := &ast.AssignPattern{Inner: pat, Name: nameTok.Literal}
		ap.SetSpan(p.span(start))
		return ap
	}
	return pat
}

func (p *Parser) parsePatternPrimary(start lexer.Token) ast.Pattern {
	switch {
	case p.at(lexer.DISCARD):
		t := p.advance()
		name := t.Literal
		if name == "_" {
			name = ""
		} else {
			name = name[1:]
		}
		pat := &ast.DiscardPattern{Name: name}
		pat.SetSpan(p.span(start))
		return pat
	case p.at(lexer.IDENT):
		return p.parseVarOrDiscardPattern(start)
	case p.at(lexer.UPPER_IDENT):
		return p.parseConstructorPattern(start, "")
	case p.at(lexer.INT):
		t := p.advance()
		pat := &ast.IntPattern{Text: t.Literal}
		pat.SetSpan(p.span(start))
		return pat
	case p.at(lexer.FLOAT):
		t := p.advance()
		pat := &ast.FloatPattern{Text: t.Literal}
		pat.SetSpan(p.span(start))
		return pat
	case p.at(lexer.STRING):
		return p.parseStringOrPrefixPattern(start)
	case p.at(lexer.LBRACKET):
		return p.parseListPattern(start)
	case p.at(lexer.HASH):
		return p.parseTuplePattern(start)
	case p.at(lexer.LDANGLE):
		return p.parseBitArrayPattern(start)
	case p.at(lexer.MINUS):
		// Negative literal pattern, e.g. `-1`.
		p.advance()
		if p.at(lexer.FLOAT) {
			t := p.advance()
			pat := &ast.FloatPattern{Text: "-" + t.Literal}
			pat.SetSpan(p.span(start))
			return pat
		}
		t, _ := p.expect(lexer.INT)
		pat := &ast.IntPattern{Text: "-" + t.Literal}
		pat.SetSpan(p.span(start))
		return pat
	default:
		p.errorf(p.cur(), "PAR006", "expected a pattern, found %s %q", p.cur().Type, p.cur().Literal)
		p.advance()
		pat := &ast.DiscardPattern{}
		pat.SetSpan(p.span(start))
		return pat
	}
}

func (p *Parser) parseVarOrDiscardPattern(start lexer.Token) ast.Pattern {
	name := p.advance().Literal
	if p.at(lexer.DOT) && p.peek(1).Type == lexer.UPPER_IDENT {
		p.advance()
		return p.parseConstructorPattern(start, name)
	}
	pat := &ast.VarPattern{Name: name}
	pat.SetSpan(p.span(start))
	return pat
}

func (p *Parser) parseConstructorPattern(start lexer.Token, module string) ast.Pattern {
	nameTok, _ := p.expect(lexer.UPPER_IDENT)
	ctor := &ast.ConstructorPattern{Module: module, Name: nameTok.Literal}
	if p.at(lexer.LPAREN) {
		p.advance()
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			if p.at(lexer.DOT_DOT) {
				p.advance()
				ctor.Spread = true
				break
			}
			ctor.Args = append(ctor.Args, p.parsePatternArg())
			if p.at(lexer.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RPAREN)
	}
	ctor.SetSpan(p.span(start))
	return ctor
}

func (p *Parser) parsePatternArg() ast.ConstructorPatternArg {
	label := ""
	if (p.at(lexer.IDENT)) && p.peek(1).Type == lexer.COLON {
		label = p.advance().Literal
		p.advance() // `:`
	}
	return ast.ConstructorPatternArg{Label: label, Pattern: p.parsePattern()}
}

// parseStringOrPrefixPattern handles both a plain string pattern and the
// `"pfx" <> rest` string-prefix form.
func (p *Parser) parseStringOrPrefixPattern(start lexer.Token) ast.Pattern {
	t := p.advance()
	value := unescapeString(t.Literal)
	if p.at(lexer.CONCAT) {
		p.advance()
		right := ""
		if p.at(lexer.DISCARD) {
			p.advance()
		} else if t2, ok := p.expect(lexer.IDENT); ok {
			right = t2.Literal
		}
		pat := &ast.StringPrefixPattern{Prefix: value, RightName: right}
		pat.SetSpan(p.span(start))
		return pat
	}
	pat := &ast.StringPattern{Value: value}
	pat.SetSpan(p.span(start))
	return pat
}

func (p *Parser) parseListPattern(start lexer.Token) ast.Pattern {
	p.advance() // `[`
	lp := &ast.ListPattern{}
	for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
		if p.at(lexer.DOT_DOT) {
			p.advance()
			if !p.at(lexer.RBRACKET) {
				lp.Tail = p.parsePattern()
			} else {
				lp.Tail = &ast.DiscardPattern{}
			}
			break
		}
		lp.Elements = append(lp.Elements, p.parsePattern())
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACKET)
	lp.SetSpan(p.span(start))
	return lp
}

func (p *Parser) parseTuplePattern(start lexer.Token) ast.Pattern {
	p.advance() // `#`
	p.expect(lexer.LPAREN)
	tp := &ast.TuplePattern{}
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		tp.Elements = append(tp.Elements, p.parsePattern())
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	tp.SetSpan(p.span(start))
	return tp
}

func (p *Parser) parseBitArrayPattern(start lexer.Token) ast.Pattern {
	p.advance() // `<<`
	bp := &ast.BitArrayPattern{}
	for !p.at(lexer.RDANGLE) && !p.at(lexer.EOF) {
		seg := ast.BitArraySegmentPattern{Value: p.parsePattern()}
		if p.at(lexer.COLON) {
			p.advance()
			seg.Options = p.parseBitArrayOptions()
		}
		bp.Segments = append(bp.Segments, seg)
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RDANGLE)
	bp.SetSpan(p.span(start))
	return bp
}

// parseBitArrayOptions reads one or more segment options joined by `-`, as
// in `int-size(8)-little`; it stops at the first option that is not
// followed by `-`.
func (p *Parser) parseBitArrayOptions() []ast.BitArraySegmentOption {
	var opts []ast.BitArraySegmentOption
	for {
		start := p.cur()
		nameTok := p.advance()
		opt := ast.BitArraySegmentOption{Name: nameTok.Literal}
		if p.at(lexer.LPAREN) {
			p.advance()
			opt.Arg = p.parseExpr(precLowest)
			p.expect(lexer.RPAREN)
		}
		opt.Span = p.span(start)
		opts = append(opts, opt)
		if p.at(lexer.MINUS) {
			p.advance()
			continue
		}
		break
	}
	return opts
}
