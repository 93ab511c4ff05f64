package typer

import (
	"fmt"

	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/typedast"
)

// inferStatementSeq infers a `{ ... }` block's statements, threading the
// previous_panics flag (spec.md §4.5 "Todo / panic / placeholder") through
// the sequence and resetting it for nested sequences so an outer panic
// does not bleed unreachable-code warnings into an unrelated inner block.
func (t *Typer) inferStatementSeq(stmts []ast.Statement) ([]typedast.TStatement, gtype.Type) {
	savedPanics, savedWarned := t.previousPanics, t.panicWarned
	t.previousPanics, t.panicWarned = false, false
	defer func() { t.previousPanics, t.panicWarned = savedPanics, savedWarned }()

	if len(stmts) == 0 {
		return nil, gtype.Nil
	}

	out := make([]typedast.TStatement, 0, len(stmts))
	var lastType gtype.Type = gtype.Nil

	for _, s := range stmts {
		if t.previousPanics && !t.panicWarned {
			t.warnf(s.Span(), problems.WRN013UnreachableAfterPanic, "unreachable code after panic/todo")
			t.panicWarned = true
		}

		if use, ok := s.(*ast.UseStatement); ok {
			desugared := t.desugarUse(use)
			ts := t.inferExprStatement(desugared)
			out = append(out, ts)
			lastType = ts.Type()
			break // Rest was already folded into the desugared call.
		}

		ts, typ := t.inferStatement(s)
		out = append(out, ts)
		lastType = typ
	}
	return out, lastType
}

func (t *Typer) inferStatement(s ast.Statement) (typedast.TStatement, gtype.Type) {
	switch s := s.(type) {
	case *ast.ExprStatement:
		ts := t.inferExprStatement(s.Expr)
		return ts, ts.Type()
	case *ast.LetStatement:
		return t.inferLetStatement(s)
	default:
		inv := typedast.NewInvalid(s.Span(), freshUnbound(t.env))
		return typedast.NewExprStatement(s.Span(), inv.Type(), inv), inv.Type()
	}
}

func (t *Typer) inferExprStatement(e ast.Expr) *typedast.ExprStatement {
	te := t.inferExpr(e)
	if call, ok := te.(*typedast.Call); ok {
		if res, ok := gtype.Deref(call.Type()).(*gtype.Named); ok && res.Name == "Result" {
			t.warnf(e.Span(), problems.WRN006ImplicitlyDiscardedResult,
				"the result of this call is discarded without being matched on")
		}
	}
	return typedast.NewExprStatement(e.Span(), te.Type(), te)
}

func (t *Typer) inferLetStatement(s *ast.LetStatement) (typedast.TStatement, gtype.Type) {
	value := t.inferExpr(s.Value)
	subjectType := value.Type()

	if s.Annotation != nil {
		annotType, err := t.hyd.TypeFromAST(s.Annotation)
		if err == nil {
			if uerr := gtype.Unify(annotType, subjectType); uerr != nil {
				t.errorf(s.Value.Span(), problems.TYP001UnifyError, "expected %s, got %s", annotType, subjectType)
			} else {
				subjectType = annotType
			}
		}
	}

	pat := t.inferPattern(s.Pattern, subjectType)

	tree := t.compileExhaustiveness([][]typedast.TPattern{{pat}})
	exhaustive := isTreeExhaustive(tree)

	switch s.Kind {
	case ast.LetPlain:
		if !exhaustive {
			t.errorf(s.Pattern.Span(), problems.EXH002InexhaustiveLet,
				"pattern match is not exhaustive, missing: %v", missingPatternsOf(tree))
		}
	case ast.LetAssert:
		if exhaustive {
			t.warnf(s.Pattern.Span(), problems.WRN010RedundantAssertAssignment,
				"this pattern always matches; `let assert` is redundant here")
		}
	}

	ls := typedast.NewLetStatement(s.Span(), subjectType, letKindOf(s.Kind), pat, value)
	return ls, subjectType
}

func letKindOf(k ast.LetKind) typedast.LetKind {
	if k == ast.LetAssert {
		return typedast.LetAssert
	}
	return typedast.LetPlain
}

// desugarUse lowers `use p1, p2 <- call(args...)` into `call(args...,
// fn(p1, p2) { rest })`, per spec.md §4.5 "Use sugar". A plain variable
// pattern becomes the callback parameter directly; any other pattern
// becomes a synthesized parameter plus an injected `let pattern =
// _useN` at the top of the callback body.
func (t *Typer) desugarUse(u *ast.UseStatement) ast.Expr {
	params := make([]ast.Param, len(u.Patterns))
	var prelude []ast.Statement

	for i, pat := range u.Patterns {
		if vp, ok := pat.(*ast.VarPattern); ok {
			params[i] = ast.Param{Name: vp.Name, Span: pat.Span()}
			continue
		}
		synth := fmt.Sprintf("_use%d", i)
		params[i] = ast.Param{Name: synth, Span: pat.Span()}
		synthVar := &ast.VarExpr{Name: synth}
		synthVar.SetSpan(pat.Span())
		let := &ast.LetStatement{Kind: ast.LetPlain, Pattern: pat, Value: synthVar}
		let.SetSpan(pat.Span())
		prelude = append(prelude, let)
	}

	body := append(prelude, u.Rest...)
	callback := &ast.FnExpr{Params: params, Body: body}
	callback.SetSpan(u.Span())

	if call, ok := u.Call.(*ast.CallExpr); ok {
		args := append(append([]ast.CallArg{}, call.Args...), ast.CallArg{Value: callback, Span: callback.Span()})
		newCall := &ast.CallExpr{Fun: call.Fun, Args: args}
		newCall.SetSpan(u.Span())
		return newCall
	}

	newCall := &ast.CallExpr{Fun: u.Call, Args: []ast.CallArg{{Value: callback, Span: callback.Span()}}}
	newCall.SetSpan(u.Span())
	return newCall
}
