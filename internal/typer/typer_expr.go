package typer

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/typedast"
)

// inferExpr is the dispatcher for spec.md §4.5's expression typing rules,
// one case per internal/ast.Expr variant.
func (t *Typer) inferExpr(e ast.Expr) typedast.TExpr {
	switch e := e.(type) {
	case *ast.IntLit:
		return typedast.NewInt(e.Span(), gtype.Int, e.Text)
	case *ast.FloatLit:
		return typedast.NewFloat(e.Span(), gtype.Float, e.Text)
	case *ast.StringLit:
		return typedast.NewString(e.Span(), gtype.StringT, e.Value)
	case *ast.VarExpr:
		return t.inferVarExpr(e)
	case *ast.ListExpr:
		return t.inferListExpr(e)
	case *ast.TupleExpr:
		return t.inferTupleExpr(e)
	case *ast.CallExpr:
		return t.inferCallExpr(e)
	case *ast.FnExpr:
		return t.inferFnExpr(e, nil)
	case *ast.BinOp:
		return t.inferBinOp(e)
	case *ast.PipeExpr:
		return t.inferPipe(e)
	case *ast.NegateExpr:
		return t.inferNegate(e)
	case *ast.BlockExpr:
		stmts, typ := t.inferStatementSeq(e.Statements)
		return typedast.NewBlock(e.Span(), typ, stmts)
	case *ast.CaseExpr:
		return t.inferCase(e)
	case *ast.FieldAccessExpr:
		return t.inferFieldAccess(e)
	case *ast.TupleIndexExpr:
		return t.inferTupleIndex(e)
	case *ast.RecordUpdateExpr:
		return t.inferRecordUpdate(e)
	case *ast.TodoExpr:
		t.warnf(e.Span(), problems.WRN001Todo, "todo expression")
		t.previousPanics = true
		return typedast.NewTodo(e.Span(), freshUnbound(t.env), e.Message)
	case *ast.PanicExpr:
		t.previousPanics = true
		return typedast.NewPanic(e.Span(), freshUnbound(t.env), e.Message)
	case *ast.BitArrayExpr:
		return t.inferBitArrayExpr(e)
	default:
		t.errorf(e.Span(), problems.TYP001UnifyError, "internal error: unhandled expression kind %T", e)
		return typedast.NewInvalid(e.Span(), freshUnbound(t.env))
	}
}

func (t *Typer) inferListExpr(e *ast.ListExpr) typedast.TExpr {
	elemType := freshUnbound(t.env)
	elements := make([]typedast.TExpr, len(e.Elements))
	for i, el := range e.Elements {
		te := t.inferExpr(el)
		if err := gtype.Unify(elemType, te.Type()); err != nil {
			t.errorf(el.Span(), problems.TYP001UnifyError, "list element has wrong type: %v", err)
		}
		elements[i] = te
	}
	var tail typedast.TExpr
	listType := gtype.ListOf(elemType)
	if e.Tail != nil {
		tail = t.inferExpr(e.Tail)
		if err := gtype.Unify(listType, tail.Type()); err != nil {
			t.errorf(e.Tail.Span(), problems.TYP001UnifyError, "list tail has wrong type: %v", err)
		}
	}
	return typedast.NewList(e.Span(), listType, elements, tail)
}

func (t *Typer) inferTupleExpr(e *ast.TupleExpr) typedast.TExpr {
	elements := make([]typedast.TExpr, len(e.Elements))
	types := make([]gtype.Type, len(e.Elements))
	for i, el := range e.Elements {
		te := t.inferExpr(el)
		elements[i] = te
		types[i] = te.Type()
	}
	return typedast.NewTuple(e.Span(), &gtype.Tuple{Elems: types}, elements)
}

// inferFnExpr infers a lambda/function literal. expectedParams, when
// non-nil, supplies parameter types from call context (spec.md §4.5 "when
// the parameter is a function type and the argument is a lambda with
// matching arity, infer the lambda in call context so its parameters gain
// the expected types").
func (t *Typer) inferFnExpr(e *ast.FnExpr, expectedParams []gtype.Type) typedast.TExpr {
	var typed []typedast.TStatement
	var resultType gtype.Type
	params := make([]typedast.FnParam, len(e.Params))
	paramTypes := make([]gtype.Type, len(e.Params))

	for i, p := range e.Params {
		var pt gtype.Type
		if p.Type != nil {
			if ht, err := t.hyd.TypeFromAST(p.Type); err == nil {
				pt = ht
			}
		}
		if pt == nil && expectedParams != nil && i < len(expectedParams) {
			pt = expectedParams[i]
		}
		if pt == nil {
			pt = freshUnbound(t.env)
		}
		paramTypes[i] = pt
		params[i] = typedast.FnParam{Name: p.Name, Type: pt}
	}

	unused := t.env.InNewScope(func() {
		for i, p := range e.Params {
			if p.Name == "" {
				continue
			}
			t.env.InsertVariable(p.Name, genv.LocalVariable{Location: p.Span}, paramTypes[i], gtype.Private, "")
		}
		typed, resultType = t.inferStatementSeq(e.Body)
	})
	t.FlushUnusedBindings(unused)

	var retType gtype.Type
	if e.ReturnType != nil {
		if ht, err := t.hyd.TypeFromAST(e.ReturnType); err == nil {
			if uerr := gtype.Unify(ht, resultType); uerr != nil {
				t.errorf(e.Span(), problems.TYP001UnifyError, "function body does not match its return annotation: %v", uerr)
				typed = append(typed, typedast.NewExprStatement(e.Span(), ht, typedast.NewInvalid(e.Span(), ht)))
			}
			retType = ht
		}
	}
	if retType == nil {
		retType = resultType
	}

	fnType := &gtype.Fn{Args: paramTypes, Ret: retType}
	return typedast.NewFn(e.Span(), fnType, params, typed)
}

func (t *Typer) inferNegate(e *ast.NegateExpr) typedast.TExpr {
	value := t.inferExpr(e.Value)
	switch e.Kind {
	case ast.NegateInt:
		if err := gtype.Unify(gtype.Int, value.Type()); err != nil {
			t.errorf(e.Span(), problems.TYP001UnifyError, "can only negate Int: %v", err)
		}
		return typedast.NewNegate(e.Span(), gtype.Int, typedast.NegateInt, value)
	default:
		if err := gtype.Unify(gtype.Bool, value.Type()); err != nil {
			t.errorf(e.Span(), problems.TYP001UnifyError, "can only negate Bool: %v", err)
		}
		if inner, ok := e.Value.(*ast.NegateExpr); ok && inner.Kind == ast.NegateBool {
			t.warnf(e.Span(), problems.WRN007DoubleNegation, "unnecessary double boolean negation")
		}
		return typedast.NewNegate(e.Span(), gtype.Bool, typedast.NegateBool, value)
	}
}

func (t *Typer) inferFieldAccess(e *ast.FieldAccessExpr) typedast.TExpr {
	record := t.inferExpr(e.Record)
	named, ok := gtype.Deref(record.Type()).(*gtype.Named)
	if !ok {
		t.errorf(e.Span(), problems.TYP004RecordAccessUnknown, "cannot access field %q: type is not known yet", e.Label)
		return typedast.NewInvalid(e.Span(), freshUnbound(t.env))
	}
	am, ok := t.env.GetAccessors(named.Name)
	if !ok {
		t.errorf(e.Span(), problems.TYP004RecordAccessUnknown, "type %q has no field accessors", named.Name)
		return typedast.NewInvalid(e.Span(), freshUnbound(t.env))
	}
	acc, ok := am.Accessors[e.Label]
	if !ok {
		t.errorf(e.Span(), problems.TYP005UnknownRecordField, "type %q has no field %q", named.Name, e.Label)
		return typedast.NewInvalid(e.Span(), freshUnbound(t.env))
	}
	return typedast.NewFieldAccess(e.Span(), acc.Type, record, e.Label, acc.Index)
}

func (t *Typer) inferTupleIndex(e *ast.TupleIndexExpr) typedast.TExpr {
	tup := t.inferExpr(e.Tuple)
	tt, ok := gtype.Deref(tup.Type()).(*gtype.Tuple)
	if !ok {
		t.errorf(e.Span(), problems.TYP002NotATuple, "expected a tuple")
		return typedast.NewInvalid(e.Span(), freshUnbound(t.env))
	}
	if e.Index < 0 || e.Index >= len(tt.Elems) {
		t.errorf(e.Span(), problems.TYP003OutOfBoundsTupleIndex, "tuple index %d out of bounds for a %d-tuple", e.Index, len(tt.Elems))
		return typedast.NewInvalid(e.Span(), freshUnbound(t.env))
	}
	return typedast.NewTupleIndex(e.Span(), tt.Elems[e.Index], tup, e.Index)
}

func (t *Typer) inferBitArrayExpr(e *ast.BitArrayExpr) typedast.TExpr {
	segments := make([]typedast.BitArraySegment, len(e.Segments))
	for i, s := range e.Segments {
		val := t.inferExpr(s.Value)
		opts := t.checkBitArraySegmentOptions(s.Options)
		segments[i] = typedast.BitArraySegment{Value: val, Options: opts}
	}
	return typedast.NewBitArray(e.Span(), gtype.BitArray, segments)
}

// checkBitArraySegmentOptions validates the option combination spec.md
// §4.5 lists and lowers each option's argument expression (if any).
func (t *Typer) checkBitArraySegmentOptions(opts []ast.BitArraySegmentOption) []typedast.BitArraySegmentOption {
	out := make([]typedast.BitArraySegmentOption, len(opts))
	seenEndianness, seenSign, seenType := false, false, false
	for i, o := range opts {
		switch o.Name {
		case "big", "little", "native":
			if seenEndianness {
				t.errorf(o.Span, problems.NIX003BadSegmentOptions, "conflicting endianness options")
			}
			seenEndianness = true
		case "signed", "unsigned":
			if seenSign {
				t.errorf(o.Span, problems.NIX003BadSegmentOptions, "conflicting signedness options")
			}
			seenSign = true
		case "int", "float", "bytes", "binary", "bits", "bitstring", "utf8", "utf16", "utf32":
			if seenType {
				t.errorf(o.Span, problems.NIX003BadSegmentOptions, "conflicting segment type options")
			}
			seenType = true
		}
		var arg typedast.TExpr
		if o.Arg != nil {
			te := t.inferExpr(o.Arg)
			if err := gtype.Unify(gtype.Int, te.Type()); err != nil {
				t.errorf(o.Span, problems.TYP001UnifyError, "size/unit argument must be Int: %v", err)
			}
			arg = te
		}
		out[i] = typedast.BitArraySegmentOption{Name: o.Name, Arg: arg}
	}
	return out
}
