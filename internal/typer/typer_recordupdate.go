package typer

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/typedast"
)

// inferRecordUpdate implements spec.md §4.5 "Record update `..r, field:
// v`": the constructor must have a FieldMap and be the sole variant of its
// type (else UpdateMultiConstructorType); each update unifies against the
// spread's corresponding field (not the constructor's own instantiation),
// which is what lets the untouched fields keep whatever polymorphic type
// the spread value actually has.
func (t *Typer) inferRecordUpdate(e *ast.RecordUpdateExpr) typedast.TExpr {
	ve, ok := e.Constructor.(*ast.VarExpr)
	if !ok {
		t.errorf(e.Span(), problems.TYP001UnifyError, "record update target must be a constructor")
		return typedast.NewInvalid(e.Span(), freshUnbound(t.env))
	}
	vc, found := t.lookupConstructor(ve.Module, ve.Name)
	if !found {
		t.errorf(e.Span(), problems.RES001UnknownVariable, "unknown constructor %q", ve.Name)
		return typedast.NewInvalid(e.Span(), freshUnbound(t.env))
	}
	rec, ok := vc.Variant.(genv.Record)
	if !ok {
		t.errorf(e.Span(), problems.TYP001UnifyError, "%q is not a constructor", ve.Name)
		return typedast.NewInvalid(e.Span(), freshUnbound(t.env))
	}
	if rec.CtorCount != 1 {
		t.errorf(e.Span(), problems.TYP009UpdateMultiCtorType,
			"record update requires a type with exactly one constructor, %q has %d", ve.Name, rec.CtorCount)
	}
	if rec.FieldMap == nil {
		t.errorf(e.Span(), problems.TYP001UnifyError, "constructor %q has no labelled fields to update", ve.Name)
		return typedast.NewInvalid(e.Span(), freshUnbound(t.env))
	}

	ctorType := t.freshInstantiator().Instantiate(vc.Type)
	fn, isFn := gtype.Deref(ctorType).(*gtype.Fn)
	if !isFn {
		t.errorf(e.Span(), problems.TYP001UnifyError, "constructor %q takes no arguments", ve.Name)
		return typedast.NewInvalid(e.Span(), freshUnbound(t.env))
	}

	base := t.inferExpr(e.Base)
	if err := gtype.Unify(fn.Ret, base.Type()); err != nil {
		t.errorf(e.Base.Span(), problems.TYP001UnifyError, "spread value does not match %q's type: %v", ve.Name, err)
	}

	overridden := make(map[string]ast.Expr, len(e.Fields))
	for _, f := range e.Fields {
		overridden[f.Label] = f.Value
	}
	if len(e.Fields) == 0 {
		t.warnf(e.Span(), problems.WRN012NoFieldsRecordUpdate, "record update with no fields changes nothing")
	} else if len(e.Fields) == len(rec.FieldMap.Fields) {
		t.warnf(e.Span(), problems.WRN011AllFieldsRecordUpdate, "record update overrides every field; consider building a new record instead")
	}

	fields := make([]typedast.RecordUpdateField, len(fn.Args))
	for label, idx := range rec.FieldMap.Fields {
		fieldType := fn.Args[idx]
		if valExpr, isOverridden := overridden[label]; isOverridden {
			val := t.inferExpr(valExpr)
			if err := gtype.Unify(fieldType, val.Type()); err != nil {
				t.errorf(valExpr.Span(), problems.TYP001UnifyError, "field %q: %v", label, err)
			}
			fields[idx] = typedast.RecordUpdateField{Label: label, Value: val, Overridden: true}
		} else {
			access := typedast.NewFieldAccess(e.Base.Span(), fieldType, base, label, idx)
			fields[idx] = typedast.RecordUpdateField{Label: label, Value: access, Overridden: false}
		}
	}

	return typedast.NewRecordUpdate(e.Span(), fn.Ret, ve.Name, base, fields)
}
