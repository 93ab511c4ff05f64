package analyser

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/glistix/glistix-core/internal/typedast"
	"github.com/glistix/glistix-core/internal/typer"
)

// name returns the declaration's top-level name, whichever of fn/constant
// is set.
func (p *pendingDef) name() string {
	if p.fn != nil {
		return p.fn.Name
	}
	return p.constant.Name
}

// passC implements spec.md §4.4 Pass C: build a call graph over every
// pending function/constant, process strongly connected components in
// dependency order, infer each member's body, generalise the whole
// component's free type variables together (so mutual recursion shares
// generalisation), then check the PrivateTypeLeak and target-support
// invariants before publishing the final signature back into env.
func passC(mod *ast.Module, env *genv.Environment, probs *problems.Problems, pending []*pendingDef, floor uint64) *Result {
	byName := make(map[string]*pendingDef, len(pending))
	for _, p := range pending {
		byName[p.name()] = p
	}

	g := newCallGraph()
	for _, p := range pending {
		g.addNode(p.name())
	}
	for _, p := range pending {
		for _, ref := range references(p) {
			if _, ok := byName[ref]; ok {
				g.addEdge(p.name(), ref)
			}
		}
	}

	res := &Result{}
	t := typer.New(env, probs)
	for _, comp := range g.sccs() {
		for _, name := range comp {
			p := byName[name]
			if p == nil {
				continue
			}
			inferDefinition(t, p, env, probs)
		}
		for _, name := range comp {
			p := byName[name]
			if p == nil {
				continue
			}
			finaliseDefinition(t, p, env, probs, floor, res)
		}
	}
	return res
}

// inferDefinition runs the body inference for one pending function or
// constant, narrowing p's Implementations and updating p.argTypes/retType in
// place with whatever the Typer unified them to.
func inferDefinition(t *typer.Typer, p *pendingDef, env *genv.Environment, probs *problems.Problems) {
	if p.fn != nil {
		inferFunctionBody(t, p, env)
		return
	}
	inferConstantBody(t, p, env, probs)
}

func inferFunctionBody(t *typer.Typer, p *pendingDef, env *genv.Environment) {
	t.ResetImplementations(p.impls)
	t.SetCurrentExternals(p.fn.Externals)

	var body []typedast.TStatement
	unused := env.InNewScope(func() {
		for i, param := range p.fn.Params {
			if param.Name == "" {
				continue
			}
			env.InsertVariable(param.Name, genv.LocalVariable{Location: param.Span}, p.argTypes[i], gtype.Private, "")
		}
		body, _ = t.InferBody(p.fn.Body, p.retType)
	})
	t.FlushUnusedBindings(unused)

	p.typedBody = body
	p.impls = t.Implementations()
}

func inferConstantBody(t *typer.Typer, p *pendingDef, env *genv.Environment, probs *problems.Problems) {
	t.ResetImplementations(genv.NewPureGleam())
	typed, resultType := t.InferBody([]ast.Statement{&ast.ExprStatement{Expr: p.constant.Value}}, p.retType)
	if len(typed) == 1 {
		if es, ok := typed[0].(*typedast.ExprStatement); ok {
			p.typedValue = es.Expr
		}
	}
	p.retType = resultType
	p.impls = t.Implementations()
}

// finaliseDefinition generalises p's signature above floor, checks the
// PrivateTypeLeak and target-support invariants (spec.md §4.4), and
// publishes the final ValueConstructor back into env, replacing the Pass B
// placeholder. It also appends the completed TypedFunction/TypedConstant to
// res.
func finaliseDefinition(t *typer.Typer, p *pendingDef, env *genv.Environment, probs *problems.Problems, floor uint64, res *Result) {
	if p.fn != nil {
		finaliseFunction(p, env, probs, floor, res)
		return
	}
	finaliseConstant(p, env, probs, floor, res)
}

func finaliseFunction(p *pendingDef, env *genv.Environment, probs *problems.Problems, floor uint64, res *Result) {
	fnType := &gtype.Fn{Args: p.argTypes, Ret: p.retType}
	gtype.Generalise(fnType, floor)

	pub := publicityOf(p.fn.Publicity)
	if pub == gtype.Public && gtype.ContainsPrivate(fnType) {
		sp := p.fn.Span()
		probs.Error(&problems.Diagnostic{
			Code: problems.TYP007PrivateTypeLeak, Phase: "analyser",
			Message: "public function " + quote(p.fn.Name) + " refers to a private type",
			Span:    &sp,
		})
	}
	checkTargetSupport(p.fn.Name, pub, p.impls, p.fn.Externals, p.fn.Span(), env, probs)

	fm := p.fieldMap
	if fm != nil && fm.Arity == 0 {
		fm = nil
	}
	env.InsertVariable(p.fn.Name, genv.ModuleFn{
		Doc: p.fn.Doc, Name: p.fn.Name, Module: env.CurrentModule,
		Arity: len(p.fn.Params), FieldMap: fm, Location: p.fn.Span(), Impls: p.impls,
	}, fnType, pub, p.fn.Deprecation)

	params := make([]typedast.FnParam, len(p.fn.Params))
	for i, prm := range p.fn.Params {
		params[i] = typedast.FnParam{Name: prm.Name, Type: p.argTypes[i]}
	}
	res.Functions = append(res.Functions, &TypedFunction{
		Name: p.fn.Name, Publicity: pub, Doc: p.fn.Doc,
		Params: params, Body: p.typedBody, Type: fnType,
		Impls: p.impls, Externals: p.fn.Externals, Span: p.fn.Span(),
	})
}

func finaliseConstant(p *pendingDef, env *genv.Environment, probs *problems.Problems, floor uint64, res *Result) {
	gtype.Generalise(p.retType, floor)

	pub := publicityOf(p.constant.Publicity)
	if pub == gtype.Public && gtype.ContainsPrivate(p.retType) {
		sp := p.constant.Span()
		probs.Error(&problems.Diagnostic{
			Code: problems.TYP007PrivateTypeLeak, Phase: "analyser",
			Message: "public constant " + quote(p.constant.Name) + " refers to a private type",
			Span:    &sp,
		})
	}
	checkTargetSupport(p.constant.Name, pub, p.impls, nil, p.constant.Span(), env, probs)

	env.InsertVariable(p.constant.Name, genv.ModuleConstant{
		Doc: p.constant.Doc, Module: env.CurrentModule, Impls: p.impls,
	}, p.retType, pub, "")

	res.Constants = append(res.Constants, &TypedConstant{
		Name: p.constant.Name, Publicity: pub, Doc: p.constant.Doc,
		Value: p.typedValue, Type: p.retType, Span: p.constant.Span(),
	})
}

// checkTargetSupport implements spec.md §4.4's "the module's Implementations
// for each value must support the build target when target_support=Enforced
// unless the function has an external for that target".
func checkTargetSupport(name string, pub gtype.Publicity, impls genv.Implementations, externals []ast.ExternalAttr, span srcspan.Span, env *genv.Environment, probs *problems.Problems) {
	if env.TargetSupport != genv.TargetSupportEnforced || pub != gtype.Public {
		return
	}
	if impls.SupportsTarget(env.Target) {
		return
	}
	for _, e := range externals {
		if e.Target == env.Target.String() {
			return
		}
	}
	sp := span
	probs.Error(&problems.Diagnostic{
		Code: problems.TGT002UnsupportedPublicFunction, Phase: "analyser",
		Message: "public value " + quote(name) + " does not support the " + env.Target.String() + " target",
		Span:    &sp,
	})
}

// references collects the unqualified names p's body refers to, for the
// call-graph edges Pass C groups into strongly connected components.
func references(p *pendingDef) []string {
	var out []string
	if p.fn != nil {
		walkStatements(p.fn.Body, &out)
	} else {
		walkExpr(p.constant.Value, &out)
	}
	return out
}

func walkStatements(stmts []ast.Statement, out *[]string) {
	for _, s := range stmts {
		walkStatement(s, out)
	}
}

func walkStatement(s ast.Statement, out *[]string) {
	switch s := s.(type) {
	case *ast.ExprStatement:
		walkExpr(s.Expr, out)
	case *ast.LetStatement:
		walkExpr(s.Value, out)
	case *ast.UseStatement:
		walkExpr(s.Call, out)
		walkStatements(s.Rest, out)
	}
}

func walkExpr(e ast.Expr, out *[]string) {
	if e == nil {
		return
	}
	switch e := e.(type) {
	case *ast.VarExpr:
		if e.Module == "" {
			*out = append(*out, e.Name)
		}
	case *ast.ListExpr:
		for _, el := range e.Elements {
			walkExpr(el, out)
		}
		walkExpr(e.Tail, out)
	case *ast.TupleExpr:
		for _, el := range e.Elements {
			walkExpr(el, out)
		}
	case *ast.CallExpr:
		walkExpr(e.Fun, out)
		for _, a := range e.Args {
			walkExpr(a.Value, out)
		}
	case *ast.FnExpr:
		walkStatements(e.Body, out)
	case *ast.BinOp:
		walkExpr(e.Left, out)
		walkExpr(e.Right, out)
	case *ast.PipeExpr:
		walkExpr(e.Left, out)
		walkExpr(e.Right, out)
	case *ast.NegateExpr:
		walkExpr(e.Value, out)
	case *ast.BlockExpr:
		walkStatements(e.Statements, out)
	case *ast.CaseExpr:
		for _, s := range e.Subjects {
			walkExpr(s, out)
		}
		for _, c := range e.Clauses {
			walkExpr(c.Guard, out)
			walkStatements(c.Body, out)
		}
	case *ast.FieldAccessExpr:
		walkExpr(e.Record, out)
	case *ast.TupleIndexExpr:
		walkExpr(e.Tuple, out)
	case *ast.RecordUpdateExpr:
		walkExpr(e.Constructor, out)
		walkExpr(e.Base, out)
		for _, f := range e.Fields {
			walkExpr(f.Value, out)
		}
	case *ast.BitArrayExpr:
		for _, seg := range e.Segments {
			walkExpr(seg.Value, out)
			for _, o := range seg.Options {
				walkExpr(o.Arg, out)
			}
		}
	}
}
