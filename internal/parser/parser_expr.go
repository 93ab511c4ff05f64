package parser

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/lexer"
	"github.com/glistix/glistix-core/internal/srcspan"
)

// Precedence levels, low to high. Mirrors Gleam's own operator table: pipe
// binds loosest (so `a |> f() |> g() == true` reads as a single pipe
// chain compared against `true` at the top), then boolean, then
// comparison/concat, then arithmetic.
const (
	precLowest = iota
	precPipe
	precOr
	precAnd
	precEq
	precCompare
	precConcat
	precAdd
	precMul
	precUnary
	precCall
)

var binPrec = map[lexer.TokenType]int{
	lexer.PIPE_ARROW: precPipe,
	lexer.PIPE_PIPE:  precOr,
	lexer.AMP_AMP:    precAnd,
	lexer.EQ_EQ:      precEq,
	lexer.NOT_EQ:     precEq,
	lexer.LT:         precCompare,
	lexer.LT_EQ:      precCompare,
	lexer.GT:         precCompare,
	lexer.GT_EQ:      precCompare,
	lexer.LT_DOT:     precCompare,
	lexer.LT_EQ_DOT:  precCompare,
	lexer.GT_DOT:     precCompare,
	lexer.GT_EQ_DOT:  precCompare,
	lexer.CONCAT:     precConcat,
	lexer.PLUS:       precAdd,
	lexer.PLUS_DOT:   precAdd,
	lexer.MINUS:      precAdd,
	lexer.MINUS_DOT:  precAdd,
	lexer.STAR:       precMul,
	lexer.STAR_DOT:   precMul,
	lexer.SLASH:      precMul,
	lexer.SLASH_DOT:  precMul,
}

var binOpKind = map[lexer.TokenType]ast.BinOpKind{
	lexer.PLUS: ast.OpAdd, lexer.PLUS_DOT: ast.OpAddFloat,
	lexer.MINUS: ast.OpSub, lexer.MINUS_DOT: ast.OpSubFloat,
	lexer.STAR: ast.OpMul, lexer.STAR_DOT: ast.OpMulFloat,
	lexer.SLASH: ast.OpDiv, lexer.SLASH_DOT: ast.OpDivFloat,
	lexer.EQ_EQ: ast.OpEq, lexer.NOT_EQ: ast.OpNotEq,
	lexer.LT: ast.OpLt, lexer.LT_EQ: ast.OpLtEq, lexer.GT: ast.OpGt, lexer.GT_EQ: ast.OpGtEq,
	lexer.LT_DOT: ast.OpLtFloat, lexer.LT_EQ_DOT: ast.OpLtEqFloat,
	lexer.GT_DOT: ast.OpGtFloat, lexer.GT_EQ_DOT: ast.OpGtEqFloat,
	lexer.AMP_AMP: ast.OpAnd, lexer.PIPE_PIPE: ast.OpOr, lexer.CONCAT: ast.OpConcat,
}

// parseExpr is the Pratt entry point: parse a prefix term, then fold in
// infix/postfix operators whose precedence exceeds minPrec.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		tt := p.cur().Type
		if tt == lexer.PIPE_ARROW {
			if precPipe <= minPrec {
				break
			}
			left = p.parsePipeTail(left)
			continue
		}
		prec, ok := binPrec[tt]
		if !ok || prec <= minPrec {
			break
		}
		opTok := p.advance()
		right := p.parseExpr(prec)
		bin := &ast.BinOp{Op: binOpKind[opTok.Type], Left: left, Right: right}
		bin.SetSpan(srcspan.NewSpan(left.Span().Start, right.Span().End))
		left = bin
	}
	return left
}

func (p *Parser) parsePipeTail(left ast.Expr) ast.Expr {
	p.advance() // `|>`
	right := p.parseUnary()
	pe := &ast.PipeExpr{Left: left, Right: right}
	pe.SetSpan(srcspan.NewSpan(left.Span().Start, right.Span().End))
	return pe
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur()
	switch {
	case p.at(lexer.MINUS):
		p.advance()
		v := p.parseUnary()
		e := &ast.NegateExpr{Kind: ast.NegateInt, Value: v}
		e.SetSpan(p.span(start))
		return e
	case p.at(lexer.BANG):
		p.advance()
		v := p.parseUnary()
		e := &ast.NegateExpr{Kind: ast.NegateBool, Value: v}
		e.SetSpan(p.span(start))
		return e
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

// parsePostfix folds in call application, field access, and tuple index,
// which bind tighter than any binary operator.
func (p *Parser) parsePostfix(e ast.Expr) ast.Expr {
	startOffset := e.Span().Start
	for {
		switch {
		case p.at(lexer.LPAREN):
			e = p.parseCallTail(e, startOffset)
		case p.at(lexer.DOT) && p.peek(1).Type == lexer.INT:
			p.advance()
			idxTok := p.advance()
			idx := 0
			for _, c := range idxTok.Literal {
				idx = idx*10 + int(c-'0')
			}
			te := &ast.TupleIndexExpr{Tuple: e, Index: idx}
			te.SetSpan(srcspan.NewSpan(startOffset, idxTok.End))
			e = te
		case p.at(lexer.DOT) && (p.peek(1).Type == lexer.IDENT || p.peek(1).Type == lexer.UPPER_IDENT):
			p.advance()
			nameTok := p.advance()
			fe := &ast.FieldAccessExpr{Record: e, Label: nameTok.Literal}
			fe.SetSpan(srcspan.NewSpan(startOffset, nameTok.End))
			e = fe
		default:
			return e
		}
	}
}

// parseCallTail parses `(args...)` applied to fun. Two special forms are
// recognised inside the argument list:
//   - a leading `..base` turns the call into a record update (§4.5 "Record
//     update"), valid only when fun is itself a constructor reference;
//   - a bare `_` placeholder anywhere (the capture sugar `f(_, 2)`) wraps
//     the whole call in a synthesized single-parameter FnExpr.
func (p *Parser) parseCallTail(fun ast.Expr, startOffset int) ast.Expr {
	p.advance() // `(`

	if p.at(lexer.DOT_DOT) {
		if ru, ok := p.parseRecordUpdateTail(fun, startOffset); ok {
			return ru
		}
	}

	var args []ast.CallArg
	captureName := ""
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		argStart := p.cur()
		label := ""
		if p.at(lexer.IDENT) && p.peek(1).Type == lexer.COLON {
			label = p.advance().Literal
			p.advance() // `:`
		}
		if p.at(lexer.DISCARD) && p.cur().Literal == "_" && (p.peek(1).Type == lexer.COMMA || p.peek(1).Type == lexer.RPAREN) {
			p.advance()
			if captureName == "" {
				captureName = "_capture"
			}
			args = append(args, ast.CallArg{Label: label, Hole: true,
				Value: &ast.VarExpr{Name: captureName}, Span: p.span(argStart)})
		} else {
			v := p.parseExpr(precLowest)
			args = append(args, ast.CallArg{Label: label, Value: v, Span: p.span(argStart)})
		}
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	endTok, _ := p.expect(lexer.RPAREN)
	call := &ast.CallExpr{Fun: fun, Args: args}
	call.SetSpan(srcspan.NewSpan(startOffset, endTok.End))

	if captureName == "" {
		return call
	}
	fn := &ast.FnExpr{
		Params:    []ast.Param{{Name: captureName}},
		Body:      []ast.Statement{wrapExprStatement(call)},
		IsCapture: true,
	}
	fn.SetSpan(call.Span())
	return fn
}

// parseRecordUpdateTail consumes `..base, field: value, ...)` once the
// opening `(` and a lookahead `..` have both been confirmed present.
func (p *Parser) parseRecordUpdateTail(ctor ast.Expr, startOffset int) (ast.Expr, bool) {
	p.advance() // `..`
	base := p.parseExpr(precLowest)
	var fields []ast.RecordUpdateField
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RPAREN) {
			break
		}
		fStart := p.cur()
		label, _ := p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		val := p.parseExpr(precLowest)
		fields = append(fields, ast.RecordUpdateField{Label: label.Literal, Value: val, Span: p.span(fStart)})
	}
	endTok, _ := p.expect(lexer.RPAREN)
	ru := &ast.RecordUpdateExpr{Constructor: ctor, Base: base, Fields: fields}
	ru.SetSpan(srcspan.NewSpan(startOffset, endTok.End))
	return ru, true
}

func wrapExprStatement(e ast.Expr) ast.Statement {
	s := &ast.ExprStatement{Expr: e}
	s.SetSpan(e.Span())
	return s
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur()
	switch {
	case p.at(lexer.INT):
		t := p.advance()
		e := &ast.IntLit{Text: t.Literal}
		e.SetSpan(p.span(start))
		return e
	case p.at(lexer.FLOAT):
		t := p.advance()
		e := &ast.FloatLit{Text: t.Literal}
		e.SetSpan(p.span(start))
		return e
	case p.at(lexer.STRING):
		t := p.advance()
		e := &ast.StringLit{Value: unescapeString(t.Literal)}
		e.SetSpan(p.span(start))
		return e
	case p.at(lexer.TODO):
		p.advance()
		msg := p.parseOptionalMessage()
		e := &ast.TodoExpr{Message: msg}
		e.SetSpan(p.span(start))
		return e
	case p.at(lexer.PANIC):
		p.advance()
		msg := p.parseOptionalMessage()
		e := &ast.PanicExpr{Message: msg}
		e.SetSpan(p.span(start))
		return e
	case p.at(lexer.FN):
		return p.parseFnExpr(start)
	case p.at(lexer.CASE):
		return p.parseCaseExpr(start)
	case p.at(lexer.LBRACE):
		return p.parseBlockExpr(start)
	case p.at(lexer.LBRACKET):
		return p.parseListExpr(start)
	case p.at(lexer.HASH):
		return p.parseTupleExpr(start)
	case p.at(lexer.LDANGLE):
		return p.parseBitArrayExpr(start)
	case p.at(lexer.LPAREN):
		p.advance()
		e := p.parseExpr(precLowest)
		p.expect(lexer.RPAREN)
		return e
	case p.at(lexer.IDENT):
		return p.parseVarOrQualifiedExpr(start)
	case p.at(lexer.UPPER_IDENT):
		p.advance()
		e := &ast.VarExpr{Name: start.Literal}
		e.SetSpan(p.span(start))
		return e
	default:
		p.errorf(p.cur(), "PAR001", "expected an expression, found %s %q", p.cur().Type, p.cur().Literal)
		p.advance()
		e := &ast.VarExpr{Name: "_invalid"}
		e.SetSpan(p.span(start))
		return e
	}
}

func (p *Parser) parseOptionalMessage() string {
	if p.at(lexer.STRING) {
		t := p.advance()
		return unescapeString(t.Literal)
	}
	return ""
}

func (p *Parser) parseVarOrQualifiedExpr(start lexer.Token) ast.Expr {
	name := p.advance().Literal
	if p.at(lexer.DOT) && (p.peek(1).Type == lexer.IDENT || p.peek(1).Type == lexer.UPPER_IDENT) {
		// Ambiguous with field access on a variable; the parser always
		// produces the qualified VarExpr form and leaves disambiguation
		// (is `name` an imported module alias, or a local binding?) to the
		// module analyser/typer, which has the import table this stage
		// does not.
		p.advance() // `.`
		memberTok := p.advance()
		e := &ast.VarExpr{Module: name, Name: memberTok.Literal}
		e.SetSpan(p.span(start))
		return e
	}
	e := &ast.VarExpr{Name: name}
	e.SetSpan(p.span(start))
	return e
}

func (p *Parser) parseFnExpr(start lexer.Token) ast.Expr {
	p.advance() // `fn`
	params := p.parseParamList()
	var ret ast.TypeAst
	if p.at(lexer.ARROW) {
		p.advance()
		ret = p.parseType()
	}
	body := p.parseBlockStatements()
	e := &ast.FnExpr{Params: params, ReturnType: ret, Body: body}
	e.SetSpan(p.span(start))
	return e
}

func (p *Parser) parseCaseExpr(start lexer.Token) ast.Expr {
	p.advance() // `case`
	var subjects []ast.Expr
	subjects = append(subjects, p.parseExpr(precPipe))
	for p.at(lexer.COMMA) {
		p.advance()
		subjects = append(subjects, p.parseExpr(precPipe))
	}
	p.expect(lexer.LBRACE)
	var clauses []ast.CaseClause
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		clauses = append(clauses, p.parseCaseClause())
	}
	p.expect(lexer.RBRACE)
	e := &ast.CaseExpr{Subjects: subjects, Clauses: clauses}
	e.SetSpan(p.span(start))
	return e
}

func (p *Parser) parseCaseClause() ast.CaseClause {
	start := p.cur()
	var alts [][]ast.Pattern
	alts = append(alts, p.parsePatternList())
	for p.at(lexer.PIPE) {
		p.advance()
		alts = append(alts, p.parsePatternList())
	}
	var guard ast.Expr
	if p.at(lexer.IF) {
		p.advance()
		guard = p.parseExpr(precLowest)
	}
	p.expect(lexer.ARROW)
	var body []ast.Statement
	if p.at(lexer.LBRACE) {
		body = p.parseBlockStatements()
	} else {
		body = []ast.Statement{wrapExprStatement(p.parseExpr(precLowest))}
	}
	return ast.CaseClause{Patterns: alts, Guard: guard, Body: body, Span: p.span(start)}
}

func (p *Parser) parsePatternList() []ast.Pattern {
	var pats []ast.Pattern
	pats = append(pats, p.parsePattern())
	for p.at(lexer.COMMA) {
		p.advance()
		pats = append(pats, p.parsePattern())
	}
	return pats
}

func (p *Parser) parseBlockExpr(start lexer.Token) ast.Expr {
	stmts := p.parseBlockStatements()
	e := &ast.BlockExpr{Statements: stmts}
	e.SetSpan(p.span(start))
	return e
}

func (p *Parser) parseListExpr(start lexer.Token) ast.Expr {
	p.advance() // `[`
	le := &ast.ListExpr{}
	for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
		if p.at(lexer.DOT_DOT) {
			p.advance()
			le.Tail = p.parseExpr(precLowest)
			break
		}
		le.Elements = append(le.Elements, p.parseExpr(precLowest))
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACKET)
	le.SetSpan(p.span(start))
	return le
}

func (p *Parser) parseTupleExpr(start lexer.Token) ast.Expr {
	p.advance() // `#`
	p.expect(lexer.LPAREN)
	te := &ast.TupleExpr{}
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		te.Elements = append(te.Elements, p.parseExpr(precLowest))
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	te.SetSpan(p.span(start))
	return te
}

func (p *Parser) parseBitArrayExpr(start lexer.Token) ast.Expr {
	p.advance() // `<<`
	be := &ast.BitArrayExpr{}
	for !p.at(lexer.RDANGLE) && !p.at(lexer.EOF) {
		seg := ast.BitArraySegment{Value: p.parseExpr(precConcat)}
		if p.at(lexer.COLON) {
			p.advance()
			seg.Options = p.parseBitArrayOptions()
		}
		be.Segments = append(be.Segments, seg)
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RDANGLE)
	be.SetSpan(p.span(start))
	return be
}
