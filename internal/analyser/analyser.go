// Package analyser is the three-pass Module Analyser spec.md §4.4
// describes: (A) register types and type aliases, topologically sorted by
// dependency; (B) pre-register every function/constant/constructor's
// signature; (C) infer bodies in dependency order, one strongly-connected
// call-graph component at a time, generalising after each.
//
// Grounded on the teacher's internal/link/module_linker.go (a multi-pass
// linker that registers declarations before resolving bodies) and
// internal/elaborate/scc.go (the Tarjan call-graph grouping consumed here
// as callgraph.go, generalised from the teacher's single-pass "elaborate
// whatever comes next" shape into the three explicit passes spec.md
// requires, since the teacher's checker does not pre-register every
// top-level signature before inferring any body).
package analyser

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/glistix/glistix-core/internal/typedast"
)

// TypedFunction is one analysed top-level function, its typed body and
// final (possibly generalised) signature.
type TypedFunction struct {
	Name       string
	Publicity  gtype.Publicity
	Doc        string
	Params     []typedast.FnParam
	Body       []typedast.TStatement
	Type       *gtype.Fn
	Impls      genv.Implementations
	Externals  []ast.ExternalAttr
	Span       srcspan.Span
}

// TypedConstant is one analysed top-level `const`.
type TypedConstant struct {
	Name      string
	Publicity gtype.Publicity
	Doc       string
	Value     typedast.TExpr
	Type      gtype.Type
	Span      srcspan.Span
}

// Result bundles everything the rest of the pipeline needs from one
// module's analysis: typed bodies for the Nix backend to lower, and enough
// of the final environment state for internal/iface to publish a
// ModuleInterface.
type Result struct {
	Functions []*TypedFunction
	Constants []*TypedConstant
}

// typeAliasInfo tracks one registered alias through Pass A's topological
// sort: its declaration, the names of other aliases it immediately
// mentions, and whether it has already been fully hydrated.
type typeAliasInfo struct {
	decl    *ast.TypeAliasDecl
	deps    []string
	visited bool
	onStack bool
}

// AnalyseModule runs all three passes over mod. env must already have had
// its imports resolved (internal/importer.Resolve), since Pass B's
// signature hydration and Pass C's body inference both look up imported
// names through env.
func AnalyseModule(mod *ast.Module, env *genv.Environment, probs *problems.Problems) *Result {
	// floor is captured before Pass A/B mint any type variable, so every
	// Unbound cell this module's analysis creates — including the
	// placeholder cells Pass B mints for unannotated holes, well before any
	// SCC in Pass C even exists — has an id >= floor and is therefore a
	// candidate for generalisation once its owning definition's body is
	// fully inferred. A cell imported from an already-analysed module can
	// never be reachable here with an id in this range, since that module's
	// own generalisation already turned every one of its free variables
	// into a Generic cell (or left a concrete Named/Fn type) before it was
	// published.
	floor := env.NextUniqueID()
	passA(mod, env, probs)
	pending := passB(mod, env, probs)
	res := passC(mod, env, probs, pending, floor)
	flushUnusedImports(env, probs)
	flushUnusedTypes(env, probs)
	return res
}

// flushUnusedImports implements spec.md §4.2's "unused-variable usage
// tracking is flushed to the problem set at module end" for imported module
// aliases never referenced by any qualified lookup.
func flushUnusedImports(env *genv.Environment, probs *problems.Problems) {
	for _, u := range env.UnusedImportBindings() {
		sp := u.Span
		probs.Warn(&problems.Diagnostic{
			Code: problems.WRN003UnusedImport, Phase: "analyser",
			Message: "unused import " + quote(u.Name),
			Span:    &sp,
		})
	}
}

// flushUnusedTypes is flushUnusedImports' counterpart for unqualified
// `import mod.{type T}` type imports never referenced.
func flushUnusedTypes(env *genv.Environment, probs *problems.Problems) {
	for _, u := range env.UnusedTypeBindings() {
		sp := u.Span
		probs.Warn(&problems.Diagnostic{
			Code: problems.WRN005UnusedType, Phase: "analyser",
			Message: "unused type " + quote(u.Name),
			Span:    &sp,
		})
	}
}

// quote wraps a name in double quotes for diagnostic messages, shared by
// all three passes.
func quote(s string) string { return "\"" + s + "\"" }
