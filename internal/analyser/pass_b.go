package analyser

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/hydrator"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/typedast"
)

// pendingDef is one function or constant whose signature Pass B has already
// registered into env, carried forward so Pass C only needs to infer
// bodies rather than re-deriving FieldMaps or starting Implementations.
type pendingDef struct {
	fn       *ast.FuncDecl // nil for a constant
	constant *ast.ConstDecl
	impls    genv.Implementations
	fieldMap *genv.FieldMap
	argTypes []gtype.Type
	retType  gtype.Type

	// Filled in by Pass C.
	typedBody  []typedast.TStatement
	typedValue typedast.TExpr
}

// passB implements spec.md §4.4 Pass B: build FieldMaps, hydrate argument
// and return types, and register every function/constant/constructor's
// ValueConstructor so Pass C's body inference (and any forward/mutually
// recursive reference) finds a signature already in scope.
func passB(mod *ast.Module, env *genv.Environment, probs *problems.Problems) []*pendingDef {
	var pending []*pendingDef

	for _, ct := range mod.CustomTypes {
		if ct.Opaque && len(ct.Variants) == 0 {
			sp := ct.Span()
			probs.Warn(&problems.Diagnostic{
				Code: problems.WRN014OpaqueExternalType, Phase: "analyser",
				Message: "type " + quote(ct.Name) + " has no constructors, so marking it opaque has no effect",
				Span:    &sp,
			})
		}
		registerConstructors(ct, env, probs)
	}

	for _, fn := range mod.Functions {
		pending = append(pending, registerFunctionSignature(fn, env, probs))
	}

	for _, c := range mod.Constants {
		pending = append(pending, registerConstantPlaceholder(c, env, probs))
	}

	return pending
}

func registerFunctionSignature(fn *ast.FuncDecl, env *genv.Environment, probs *problems.Problems) *pendingDef {
	h := hydrator.New(env, probs)
	hasBody := len(fn.Body) > 0
	// Holes are only safe to permit when a body exists to re-derive the
	// hole's real type from inference; an external-only stub has no body,
	// so an omitted annotation there must be an error instead of silently
	// becoming `_`.
	h.PermitHoles(hasBody)

	fm := genv.NewFieldMap(uint32(len(fn.Params)))
	argTypes := make([]gtype.Type, len(fn.Params))
	missingAnnotation := false
	for i, p := range fn.Params {
		if p.Type == nil {
			missingAnnotation = true
		}
		if p.Label != "" {
			if !fm.Insert(p.Label, uint32(i)) {
				sp := p.Span
				probs.Error(&problems.Diagnostic{
					Code: problems.RES004DuplicateField, Phase: "analyser",
					Message: "duplicate labelled argument " + quote(p.Label),
					Span:    &sp,
				})
			}
		}
		if p.Type != nil {
			t, err := h.TypeFromAST(p.Type)
			if err == nil {
				argTypes[i] = t
				continue
			}
		}
		argTypes[i] = &gtype.Var{Cell: gtype.NewUnboundCell(env.NextUniqueID())}
	}

	var retType gtype.Type
	if fn.ReturnType != nil {
		if t, err := h.TypeFromAST(fn.ReturnType); err == nil {
			retType = t
		}
	}
	if retType == nil {
		retType = &gtype.Var{Cell: gtype.NewUnboundCell(env.NextUniqueID())}
	}
	if !hasBody && (missingAnnotation || fn.ReturnType == nil) {
		sp := fn.Span()
		probs.Error(&problems.Diagnostic{
			Code: problems.TGT004ExternalMissingAnnotation, Phase: "analyser",
			Message: "external function " + quote(fn.Name) + " must annotate every argument and its return type",
			Span:    &sp,
		})
	}

	impls := startingImplementations(hasBody, fn.Externals)

	if fm.Arity == 0 {
		fm = nil
	}
	env.InsertVariable(fn.Name, genv.ModuleFn{
		Doc: fn.Doc, Name: fn.Name, Module: env.CurrentModule,
		Arity: len(fn.Params), FieldMap: fm, Location: fn.Span(), Impls: impls,
	}, &gtype.Fn{Args: argTypes, Ret: retType}, publicityOf(fn.Publicity), fn.Deprecation)

	return &pendingDef{fn: fn, impls: impls, fieldMap: fm, argTypes: argTypes, retType: retType}
}

func registerConstantPlaceholder(c *ast.ConstDecl, env *genv.Environment, probs *problems.Problems) *pendingDef {
	var typ gtype.Type
	if c.Type != nil {
		h := hydrator.New(env, probs)
		if t, err := h.TypeFromAST(c.Type); err == nil {
			typ = t
		}
	}
	if typ == nil {
		typ = &gtype.Var{Cell: gtype.NewUnboundCell(env.NextUniqueID())}
	}
	impls := genv.NewPureGleam()
	env.InsertVariable(c.Name, genv.ModuleConstant{Doc: c.Doc, Module: env.CurrentModule, Impls: impls}, typ, publicityOf(c.Publicity), "")
	return &pendingDef{constant: c, impls: impls, retType: typ}
}

// startingImplementations derives Pass B's starting Implementations from
// body presence and @external attributes (spec.md §4.4): a plain body
// starts pure-Gleam (every target); each @external attribute additionally
// grants (or, for an external-only stub, exclusively grants) that target.
func startingImplementations(hasBody bool, externals []ast.ExternalAttr) genv.Implementations {
	var impls genv.Implementations
	if hasBody {
		impls = genv.NewPureGleam()
	}
	for _, e := range externals {
		switch e.Target {
		case "erlang":
			impls.CanRunOnErlang = true
			impls.UsesErlangExternals = true
		case "javascript":
			impls.CanRunOnJavaScript = true
			impls.UsesJavaScriptExternals = true
		case "nix":
			impls.CanRunOnNix = true
			impls.UsesNixExternals = true
		}
	}
	return impls
}

// registerConstructors handles spec.md §4.4 Pass B's custom-type half: for
// each variant, check unique name, hydrate each field, register both the
// constructor function (arity>0 gives a Fn type) and its Record variant,
// plus an AccessorsMap when the type has exactly one variant (so `r.field`
// works) and that variant has at least one field; only its labelled fields
// get an accessor.
func registerConstructors(ct *ast.CustomTypeDecl, env *genv.Environment, probs *problems.Problems) {
	ctorCount := len(ct.Variants)

	for idx, v := range ct.Variants {
		h := hydrator.New(env, probs)
		params := make([]gtype.Type, len(ct.Params))
		for i, p := range ct.Params {
			params[i] = h.PreBind(p)
		}
		h.DisallowNewTypeVariables()

		fm := genv.NewFieldMap(uint32(len(v.Fields)))
		argTypes := make([]gtype.Type, len(v.Fields))
		for i, f := range v.Fields {
			if f.Label != "" {
				if !fm.Insert(f.Label, uint32(i)) {
					sp := f.Span
					probs.Error(&problems.Diagnostic{
						Code: problems.RES004DuplicateField, Phase: "analyser",
						Message: "duplicate field " + quote(f.Label) + " in constructor " + v.Name,
						Span:    &sp,
					})
				}
			}
			t, err := h.TypeFromAST(f.Type)
			if err != nil {
				t = &gtype.Var{Cell: gtype.NewUnboundCell(env.NextUniqueID())}
			}
			argTypes[i] = t
		}
		if fm.Arity == 0 {
			fm = nil
		}

		resultType := &gtype.Named{Module: env.CurrentModule, Name: ct.Name, Publicity: publicityOf(ct.Publicity), Args: params}

		pub := publicityOf(ct.Publicity)
		if ct.Opaque {
			pub = gtype.Private
		}

		var ctorType gtype.Type = resultType
		if len(argTypes) > 0 {
			ctorType = &gtype.Fn{Args: argTypes, Ret: resultType}
		}

		if _, exists := env.PeekVariable(v.Name); exists {
			sp := v.Span()
			probs.Error(&problems.Diagnostic{
				Code: problems.RES002DuplicateName, Phase: "analyser",
				Message: "duplicate constructor name " + quote(v.Name),
				Span:    &sp,
			})
			continue
		}

		env.InsertVariable(v.Name, genv.Record{
			Name: v.Name, Arity: len(v.Fields), FieldMap: fm, Module: env.CurrentModule,
			CtorIndex: idx, CtorCount: ctorCount, Doc: v.Doc,
		}, ctorType, pub, "")

		if ctorCount == 1 && fm != nil {
			registerAccessors(ct.Name, resultType, v, fm, argTypes, env)
		}
	}
}

func registerAccessors(typeName string, resultType gtype.Type, v *ast.VariantDecl, fm *genv.FieldMap, argTypes []gtype.Type, env *genv.Environment) {
	am := &genv.AccessorsMap{Type: resultType, Publicity: gtype.Public, Accessors: map[string]genv.RecordAccessor{}}
	for label, idx := range fm.Fields {
		am.Accessors[label] = genv.RecordAccessor{Index: int(idx), Label: label, Type: argTypes[idx]}
	}
	env.InsertAccessors(typeName, am)
}
