// Package importer resolves a module's `import` declarations against the
// set of already-analysed module interfaces, per spec.md §4.3. It runs
// after every dependency of a module has been analysed (the build
// orchestrator topologically sorts modules by import edges before invoking
// this package) and before the Module Analyser's three passes, since Pass B
// needs imported names already sitting in genv.Environment's scope.
//
// Grounded on the teacher's internal/module.Resolver (ResolveImport's
// ordered lookup strategy: try the exact name, then fall back, erroring
// with a clear "module not found" message) generalised from filesystem path
// resolution to a lookup over an in-memory table of finished
// iface.ModuleInterface values, since this compiler's modules are resolved
// by name against a prior analysis pass rather than by reading files here.
package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/iface"
	"github.com/glistix/glistix-core/internal/problems"
)

// ModuleSet is every module interface available to resolve imports
// against, keyed by dotted module path ("gleam/option").
type ModuleSet map[string]*iface.ModuleInterface

// PackageOf reports which package a module path belongs to, and the set of
// package names the current module's package directly depends on. Both are
// supplied by the project's manifest/config (internal/config,
// internal/pkgmanifest), not computed here.
type PackageOf struct {
	PackageOfModule    map[string]string // module path -> package name
	CurrentPackage     string
	DirectDependencies map[string]bool // package names
}

// Resolve processes mod's imports in declaration order against modules,
// inserting aliases and unqualified names into env and reporting problems
// to probs. Returns the module paths that were successfully resolved, in
// declaration order, for the build orchestrator's dependency graph.
func Resolve(mod *ast.Module, modules ModuleSet, pkgs PackageOf, env *genv.Environment, probs *problems.Problems) []string {
	var resolved []string
	for _, imp := range mod.Imports {
		target, ok := modules[imp.Path]
		if !ok {
			sp := imp.Span()
			probs.Error(&problems.Diagnostic{
				Code: problems.IMP001UnknownModule, Phase: "importer",
				Message: fmt.Sprintf("unknown module %q", imp.Path),
				Span:    &sp,
				Data:    map[string]any{"suggestions": suggestModuleNames(imp.Path, modules)},
			})
			continue
		}
		resolved = append(resolved, imp.Path)

		alias := imp.Alias
		if alias == "" {
			alias = lastSegment(imp.Path)
		}
		env.AddImportedModule(alias, imp.Span(), target)

		for _, u := range imp.Unqualified {
			resolveUnqualified(u, imp.Path, target, pkgs.CurrentPackage, env, probs)
		}

		if definingPkg, ok := pkgs.PackageOfModule[imp.Path]; ok {
			if definingPkg != pkgs.CurrentPackage && !pkgs.DirectDependencies[definingPkg] {
				sp := imp.Span()
				probs.Warn(&problems.Diagnostic{
					Code: problems.IMP005TransitiveDependency, Phase: "importer",
					Message: fmt.Sprintf("module %q is imported transitively via package %q, which is not a direct dependency", imp.Path, definingPkg),
					Span:    &sp,
				})
			}
		}
	}
	return resolved
}

func resolveUnqualified(u ast.UnqualifiedImport, modPath string, target *iface.ModuleInterface, fromPackage string, env *genv.Environment, probs *problems.Problems) {
	localName := u.Name
	if u.Alias != "" {
		localName = u.Alias
	}

	if u.IsType {
		tc, ok := target.LookupType(u.Name)
		if !ok || !iface.IsImportable(tc.Publicity, target.Package, fromPackage) {
			probs.Error(&problems.Diagnostic{
				Code: problems.IMP003UnknownModuleType, Phase: "importer",
				Message: fmt.Sprintf("module %q has no public type %q", modPath, u.Name),
				Span:    &u.Span,
			})
			return
		}
		if err := env.InsertImportedTypeConstructor(localName, tc, u.Span); err != nil {
			probs.Error(&problems.Diagnostic{
				Code: problems.RES002DuplicateName, Phase: "importer",
				Message: err.Error(),
				Span:    &u.Span,
			})
		}
		return
	}

	vc, ok := target.LookupValue(u.Name)
	if !ok || !iface.IsImportable(vc.Publicity, target.Package, fromPackage) {
		probs.Error(&problems.Diagnostic{
			Code: problems.IMP002UnknownModuleValue, Phase: "importer",
			Message: fmt.Sprintf("module %q has no public value %q", modPath, u.Name),
			Span:    &u.Span,
		})
		return
	}
	env.InsertVariable(localName, vc.Variant, vc.Type, vc.Publicity, vc.Deprecation)
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// suggestModuleNames returns up to 3 known module paths close to want by
// edit distance, for the UnknownModule diagnostic's did-you-mean list.
func suggestModuleNames(want string, modules ModuleSet) []string {
	type scored struct {
		name string
		dist int
	}
	var all []scored
	for name := range modules {
		all = append(all, scored{name, levenshtein(want, name)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].dist != all[j].dist {
			return all[i].dist < all[j].dist
		}
		return all[i].name < all[j].name
	})
	var out []string
	for i := 0; i < len(all) && i < 3; i++ {
		if all[i].dist <= 4 {
			out = append(out, all[i].name)
		}
	}
	return out
}

func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}
