package typer

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/typedast"
)

// resolveVar looks up a (possibly module-qualified) value reference,
// reporting UnknownVariable/UnknownModule/UnknownModuleValue with
// did-you-mean suggestions on failure, per spec.md §4.3/§4.5.
func (t *Typer) resolveVar(ve *ast.VarExpr) (vc *genv.ValueConstructor, kind typedast.VarKind, module string, ok bool) {
	if ve.Module != "" {
		iface, found := t.env.GetImportedModule(ve.Module)
		if !found {
			t.probs.Error(&problems.Diagnostic{
				Code: problems.IMP001UnknownModule, Phase: "typer",
				Message: "unknown module " + quote(ve.Module),
				Span:    spanPtr(ve.Span()),
				Data:    map[string]any{"suggestions": t.env.SuggestModules(ve.Module)},
			})
			return nil, 0, "", false
		}
		v, found := iface.LookupValue(ve.Name)
		if !found {
			t.probs.Error(&problems.Diagnostic{
				Code: problems.IMP002UnknownModuleValue, Phase: "typer",
				Message: "module " + quote(ve.Module) + " has no public value " + quote(ve.Name),
				Span:    spanPtr(ve.Span()),
			})
			return nil, 0, "", false
		}
		return v, typedast.VarImported, ve.Module, true
	}

	v, found := t.env.GetVariable(ve.Name)
	if !found {
		t.probs.Error(&problems.Diagnostic{
			Code: problems.RES001UnknownVariable, Phase: "typer",
			Message: "unknown variable " + quote(ve.Name),
			Span:    spanPtr(ve.Span()),
			Data:    map[string]any{"suggestions": t.env.SuggestNames(ve.Name)},
		})
		return nil, 0, "", false
	}
	if _, local := v.Variant.(genv.LocalVariable); local {
		return v, typedast.VarLocal, "", true
	}
	return v, typedast.VarModuleLevel, "", true
}

func (t *Typer) implementationsOf(vc *genv.ValueConstructor) genv.Implementations {
	switch v := vc.Variant.(type) {
	case genv.ModuleFn:
		return v.Impls
	case genv.ModuleConstant:
		return v.Impls
	default:
		return genv.NewPureGleam()
	}
}

func (t *Typer) fieldMapOf(vc *genv.ValueConstructor) *genv.FieldMap {
	switch v := vc.Variant.(type) {
	case genv.ModuleFn:
		return v.FieldMap
	case genv.Record:
		return v.FieldMap
	default:
		return nil
	}
}

// inferVarExpr builds a typedast.Var for a resolved reference, narrowing
// the currently-inferring function's Implementations by the referenced
// value's own (spec.md §4.5 "Target-support narrowing") and warning on
// deprecated references.
func (t *Typer) inferVarExpr(ve *ast.VarExpr) typedast.TExpr {
	vc, kind, module, ok := t.resolveVar(ve)
	if !ok {
		return typedast.NewInvalid(ve.Span(), freshUnbound(t.env))
	}
	if vc.Deprecation != "" {
		t.warnf(ve.Span(), problems.WRN002DeprecatedItem, "%s is deprecated: %s", ve.Name, vc.Deprecation)
	}
	typ := t.freshInstantiator().Instantiate(vc.Type)
	impls := t.implementationsOf(vc)
	if kind != typedast.VarLocal {
		t.impls = t.impls.Intersect(impls)
		t.checkExpressionTargetSupport(ve, impls)
	}
	_, isConstructor := vc.Variant.(genv.Record)
	return typedast.NewVar(ve.Span(), typ, kind, module, ve.Name, impls, isConstructor)
}

// checkExpressionTargetSupport implements spec.md §4.5's
// UnsupportedExpressionTarget rule: a reference to a module value that
// cannot run on the current target is an error at the expression's own
// location, unless the function currently being inferred has an `@external`
// stub for that target (which is checked again, module-wide, by
// UnsupportedPublicFunctionTarget once the whole body has been inferred).
func (t *Typer) checkExpressionTargetSupport(ve *ast.VarExpr, impls genv.Implementations) {
	if t.env.TargetSupport != genv.TargetSupportEnforced || impls.SupportsTarget(t.env.Target) {
		return
	}
	for _, e := range t.externals {
		if e.Target == t.env.Target.String() {
			return
		}
	}
	t.errorf(ve.Span(), problems.TGT001UnsupportedExpression,
		"%s is not supported on the %s target", ve.Name, t.env.Target.String())
}

func quote(s string) string { return "\"" + s + "\"" }
