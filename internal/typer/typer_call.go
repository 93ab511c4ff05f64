package typer

import (
	"fmt"
	"sort"

	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/glistix/glistix-core/internal/typedast"
)

// pipedArg carries an already-typed expression that a pipe's strategy 1
// (spec.md §4.5 "Pipe") inserts as a call's first positional argument,
// without re-inferring or re-parsing it as surface syntax.
type pipedArg struct {
	span  srcspan.Span
	typed typedast.TExpr
}

func (t *Typer) inferCallExpr(e *ast.CallExpr) typedast.TExpr {
	switch e.Fun.(type) {
	case *ast.TodoExpr, *ast.PanicExpr:
		// `todo(...)` / `panic(...)`: todo and panic are expressions, not
		// functions, so call syntax here is almost always a mistake left
		// over from treating them as a placeholder function to invoke.
		t.warnf(e.Span(), problems.WRN015TodoOrPanicAsFunction,
			"todo/panic is not a function and does not need to be called")
	}
	return t.inferCallCore(e.Fun, e.Args, nil, e.Span())
}

// inferCallWithFirstArg types a fully-formed ast.CallExpr with an
// already-typed leading argument; nothing in the module calls it.
func (t *Typer) inferCallWithFirstArg(e *ast.CallExpr, first typedast.TExpr) typedast.TExpr {
	return t.inferCallCore(e.Fun, e.Args, &pipedArg{span: e.Span(), typed: first}, e.Span())
}

// inferCallCore implements spec.md §4.5 "Call": resolve the callee, reorder
// labelled arguments via its FieldMap, tolerate arity mismatches so
// children still type-check, and special-case lambda arguments passed to a
// function-typed parameter (call-context inference).
func (t *Typer) inferCallCore(funExpr ast.Expr, args []ast.CallArg, prepend *pipedArg, span srcspan.Span) typedast.TExpr {
	fieldMap, calleeTyped, implsOf := t.resolveCallee(funExpr)

	ordered, orderedSpans, ok := t.reorderArgs(fieldMap, args, prepend, span)
	if !ok {
		// Still infer each argument so later errors in them surface, even
		// though arity/labels already failed.
		for _, a := range args {
			t.inferExpr(a.Value)
		}
		return typedast.NewInvalid(span, freshUnbound(t.env))
	}

	fnType, _ := gtype.Deref(calleeTyped.Type()).(*gtype.Fn)
	var retType gtype.Type = freshUnbound(t.env)
	typedArgs := make([]typedast.TExpr, len(ordered))

	for i, a := range ordered {
		var expected gtype.Type
		if fnType != nil && i < len(fnType.Args) {
			expected = fnType.Args[i]
		}
		if a.piped != nil {
			typedArgs[i] = a.piped
		} else if lam, isLambda := a.expr.(*ast.FnExpr); isLambda && expected != nil {
			if expFn, isFn := gtype.Deref(expected).(*gtype.Fn); isFn && len(expFn.Args) == len(lam.Params) {
				typedArgs[i] = t.inferFnExpr(lam, expFn.Args)
			} else {
				typedArgs[i] = t.inferExpr(a.expr)
			}
		} else {
			typedArgs[i] = t.inferExpr(a.expr)
		}
		if expected != nil {
			if err := gtype.Unify(expected, typedArgs[i].Type()); err != nil {
				t.errorf(orderedSpans[i], problems.TYP001UnifyError, "argument %d has the wrong type: %v", i+1, err)
			}
		}
	}

	if fnType != nil {
		retType = fnType.Ret
	}
	if implsOf != nil {
		t.impls = t.impls.Intersect(*implsOf)
	}
	return typedast.NewCall(span, retType, calleeTyped, typedArgs)
}

// resolveCallee infers the callee expression, additionally extracting its
// FieldMap (for label reordering) when it resolves to a known
// ModuleFn/Record value constructor.
func (t *Typer) resolveCallee(funExpr ast.Expr) (fieldMap *genv.FieldMap, typed typedast.TExpr, impls *genv.Implementations) {
	if ve, ok := funExpr.(*ast.VarExpr); ok {
		vc, kind, module, ok := t.resolveVar(ve)
		if !ok {
			return nil, typedast.NewInvalid(ve.Span(), freshUnbound(t.env)), nil
		}
		if vc.Deprecation != "" {
			t.warnf(ve.Span(), problems.WRN002DeprecatedItem, "%s is deprecated: %s", ve.Name, vc.Deprecation)
		}
		typ := t.freshInstantiator().Instantiate(vc.Type)
		im := t.implementationsOf(vc)
		_, isConstructor := vc.Variant.(genv.Record)
		return t.fieldMapOf(vc), typedast.NewVar(ve.Span(), typ, kind, module, ve.Name, im, isConstructor), &im
	}
	return nil, t.inferExpr(funExpr), nil
}

// orderedArg is one final, positionally-resolved call argument.
type orderedArg struct {
	expr  ast.Expr
	piped typedast.TExpr // non-nil only for the synthetic piped-in argument
}

// reorderArgs applies spec.md §4.5's "reorder labelled arguments via
// callee's FieldMap" rule. When fieldMap is nil (callee isn't a known
// function/constructor, e.g. a higher-order parameter), labels are
// rejected and arguments are used in positional order as given.
func (t *Typer) reorderArgs(fieldMap *genv.FieldMap, args []ast.CallArg, prepend *pipedArg, span srcspan.Span) ([]orderedArg, []srcspan.Span, bool) {
	if fieldMap == nil {
		var out []orderedArg
		var spans []srcspan.Span
		if prepend != nil {
			out = append(out, orderedArg{piped: prepend.typed})
			spans = append(spans, prepend.span)
		}
		for _, a := range args {
			if a.Label != "" {
				t.errorf(a.Span, problems.ARI002UnexpectedLabel, "unexpected labelled argument %q", a.Label)
			}
			out = append(out, orderedArg{expr: a.Value})
			spans = append(spans, a.Span)
		}
		return out, spans, true
	}

	arity := int(fieldMap.Arity)
	slots := make([]*ast.CallArg, arity)
	slotPiped := make([]typedast.TExpr, arity)
	slotSpans := make([]srcspan.Span, arity)
	filled := make([]bool, arity)
	next := 0

	if prepend != nil && arity > 0 {
		slotPiped[0] = prepend.typed
		slotSpans[0] = prepend.span
		filled[0] = true
		next = 1
	}

	for i := range args {
		a := &args[i]
		if a.Label == "" {
			for next < arity && filled[next] {
				next++
			}
			if next >= arity {
				t.errorf(a.Span, problems.ARI001IncorrectArity, "too many positional arguments")
				continue
			}
			slots[next] = a
			slotSpans[next] = a.Span
			filled[next] = true
			next++
			continue
		}
		idx, ok := fieldMap.Fields[a.Label]
		if !ok {
			t.errorf(a.Span, problems.ARI003UnknownLabel, "unknown label %q", a.Label)
			continue
		}
		if filled[idx] {
			t.errorf(a.Span, problems.ARI001IncorrectArity, "label %q given more than once", a.Label)
			continue
		}
		slots[idx] = a
		slotSpans[idx] = a.Span
		filled[idx] = true
	}

	var missing []string
	for i := 0; i < arity; i++ {
		if !filled[i] {
			missing = append(missing, labelOf(fieldMap, i))
		}
	}
	if len(missing) > 0 {
		t.errorf(span, problems.ARI001IncorrectArity, "missing argument(s): %s", joinLabels(missing))
		return nil, nil, false
	}

	out := make([]orderedArg, arity)
	spans := make([]srcspan.Span, arity)
	for i := 0; i < arity; i++ {
		if slotPiped[i] != nil {
			out[i] = orderedArg{piped: slotPiped[i]}
		} else {
			out[i] = orderedArg{expr: slots[i].Value}
		}
		spans[i] = slotSpans[i]
	}
	return out, spans, true
}

func labelOf(fm *genv.FieldMap, index int) string {
	for l, i := range fm.Fields {
		if int(i) == index {
			return l
		}
	}
	return fmt.Sprintf("#%d", index)
}

func joinLabels(labels []string) string {
	sort.Strings(labels)
	out := ""
	for i, l := range labels {
		if i > 0 {
			out += ", "
		}
		out += l
	}
	return out
}
