package analyser

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/hydrator"
	"github.com/glistix/glistix-core/internal/problems"
)

// passA implements spec.md §4.4 Pass A: register every CustomType's shape
// (so later NamedType references resolve, even before its variants are
// hydrated in Pass B) then topologically sort and hydrate type aliases,
// reporting a cycle as RecursiveTypeAlias instead of looping forever.
func passA(mod *ast.Module, env *genv.Environment, probs *problems.Problems) {
	for _, ct := range mod.CustomTypes {
		registerCustomTypeShape(ct, env, probs)
	}

	infos := make(map[string]*typeAliasInfo, len(mod.TypeAliases))
	for _, al := range mod.TypeAliases {
		infos[al.Name] = &typeAliasInfo{decl: al, deps: aliasDeps(al, mod)}
	}

	var visit func(name string) bool
	visit = func(name string) bool {
		info, ok := infos[name]
		if !ok {
			return true // not a local alias (a custom type, builtin, or import)
		}
		if info.visited {
			return true
		}
		if info.onStack {
			sp := info.decl.Span()
			probs.Error(&problems.Diagnostic{
				Code: problems.TYP006RecursiveTypeAlias, Phase: "analyser",
				Message: "type alias " + info.decl.Name + " is defined in terms of itself",
				Span:    &sp,
			})
			return false
		}
		info.onStack = true
		ok = true
		for _, d := range info.deps {
			if !visit(d) {
				ok = false
			}
		}
		info.onStack = false
		info.visited = true
		if ok {
			hydrateTypeAlias(info.decl, env, probs)
		} else {
			registerPlaceholderAlias(info.decl, env, probs)
		}
		return ok
	}

	for _, al := range mod.TypeAliases {
		visit(al.Name)
	}
}

// aliasDeps collects the names of local type aliases referenced (directly,
// unqualified) from al's right-hand side, for topological ordering. A
// reference to al itself is included, so a self-referential alias is
// reported as a cycle.
func aliasDeps(al *ast.TypeAliasDecl, mod *ast.Module) []string {
	known := make(map[string]bool, len(mod.TypeAliases))
	for _, other := range mod.TypeAliases {
		known[other.Name] = true
	}
	var deps []string
	seen := map[string]bool{}
	var walk func(t ast.TypeAst)
	walk = func(t ast.TypeAst) {
		switch t := t.(type) {
		case *ast.NamedType:
			if t.Module == "" && known[t.Name] && !seen[t.Name] {
				seen[t.Name] = true
				deps = append(deps, t.Name)
			}
			for _, a := range t.Args {
				walk(a)
			}
		case *ast.FnType:
			for _, a := range t.Args {
				walk(a)
			}
			if t.Ret != nil {
				walk(t.Ret)
			}
		case *ast.TupleType:
			for _, e := range t.Elems {
				walk(e)
			}
		}
	}
	walk(al.RHS)
	return deps
}

func registerCustomTypeShape(ct *ast.CustomTypeDecl, env *genv.Environment, probs *problems.Problems) {
	h := hydrator.New(env, probs)
	params := make([]gtype.Type, len(ct.Params))
	for i, p := range ct.Params {
		params[i] = h.PreBind(p)
	}
	pub := publicityOf(ct.Publicity)
	tc := &genv.TypeConstructor{
		Origin:      ct.Span(),
		Module:      env.CurrentModule,
		Params:      params,
		Type:        &gtype.Named{Module: env.CurrentModule, Name: ct.Name, Publicity: pub, Args: params},
		Publicity:   pub,
		Deprecation: ct.Deprecation,
		Doc:         ct.Doc,
	}
	if err := env.InsertTypeConstructor(ct.Name, tc); err != nil {
		sp := ct.Span()
		probs.Error(&problems.Diagnostic{
			Code: problems.RES002DuplicateName, Phase: "analyser",
			Message: err.Error(), Span: &sp,
		})
	}
}

func hydrateTypeAlias(al *ast.TypeAliasDecl, env *genv.Environment, probs *problems.Problems) {
	h := hydrator.New(env, probs)
	params := make([]gtype.Type, len(al.Params))
	for i, p := range al.Params {
		params[i] = h.PreBind(p)
	}
	h.DisallowNewTypeVariables()
	rhs, err := h.TypeFromAST(al.RHS)
	if err != nil {
		rhs = &gtype.Var{Cell: gtype.NewUnboundCell(env.NextUniqueID())}
	}
	pub := publicityOf(al.Publicity)
	tc := &genv.TypeConstructor{
		Origin:      al.Span(),
		Module:      env.CurrentModule,
		Params:      params,
		Type:        rhs,
		Publicity:   pub,
		Deprecation: al.Deprecation,
		Doc:         al.Doc,
	}
	if err := env.InsertTypeConstructor(al.Name, tc); err != nil {
		sp := al.Span()
		probs.Error(&problems.Diagnostic{
			Code: problems.RES002DuplicateName, Phase: "analyser",
			Message: err.Error(), Span: &sp,
		})
	}
}

// registerPlaceholderAlias still registers a name for a cyclic alias (so
// every other reference to it resolves to *something*, keeping the rest of
// the module's analysis fault-tolerant) but with an unbound-variable body
// instead of attempting to hydrate the cyclic RHS.
func registerPlaceholderAlias(al *ast.TypeAliasDecl, env *genv.Environment, probs *problems.Problems) {
	tc := &genv.TypeConstructor{
		Origin:    al.Span(),
		Module:    env.CurrentModule,
		Type:      &gtype.Var{Cell: gtype.NewUnboundCell(env.NextUniqueID())},
		Publicity: publicityOf(al.Publicity),
		Doc:       al.Doc,
	}
	_ = env.InsertTypeConstructor(al.Name, tc)
}

func publicityOf(p ast.Publicity) gtype.Publicity {
	if p == ast.Public {
		return gtype.Public
	}
	return gtype.Private
}
