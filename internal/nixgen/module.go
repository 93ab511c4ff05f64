package nixgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/glistix/glistix-core/internal/analyser"
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/nixir"
	"github.com/glistix/glistix-core/internal/srcspan"
)

// PreludePath is the relative path every generated module imports its
// runtime helpers from, matching the layout the teacher's own
// `gleam_core`-style prelude module uses: one prelude file, imported
// identically by every compiled module, never duplicated per-file.
const PreludePath = "./gleam.nix"

// ModuleAlias derives the local Nix `let` identifier a module gets bound
// to when another module imports it: `gleam/list` -> `gleam_list`, so
// qualified references (`list.map`) become `gleam_list.map` without
// needing any further quoting (dotted paths are never valid bare Nix
// identifiers).
func ModuleAlias(modulePath string) string {
	return strings.NewReplacer("/", "_", "-", "_").Replace(modulePath)
}

// GenerateModule lowers one analysed module into a nixir.Module: one Import
// per surface `import` declaration, one Definition per analysed constant
// and function, and a sorted export list of every public constant and
// function. Types and record constructors get no Definition of their own
// and are not exported; constructed values are built inline where they
// are used.
func GenerateModule(mod *ast.Module, result *analyser.Result, src string) *nixir.Module {
	lines := srcspan.NewLineNumbers(src)
	tracker := &UsageTracker{}

	out := &nixir.Module{PreludePath: PreludePath}

	for _, imp := range mod.Imports {
		out.Imports = append(out.Imports, lowerImport(imp))
	}

	for _, c := range result.Constants {
		gen := NewGenerator(mod.Name, c.Name, tracker, lines)
		value := gen.lowerExpr(c.Value, &scopeStack{})
		out.Definitions = append(out.Definitions, nixir.Definition{
			Name:  SanitiseIdent(c.Name),
			Value: value,
			Doc:   c.Doc,
		})
		if c.Publicity == gtype.Public {
			out.Exports = append(out.Exports, SanitiseIdent(c.Name))
		}
	}

	for _, f := range result.Functions {
		gen := NewGenerator(mod.Name, f.Name, tracker, lines)
		out.Definitions = append(out.Definitions, nixir.Definition{
			Name:  SanitiseIdent(f.Name),
			Value: gen.lowerFunction(f),
			Doc:   f.Doc,
		})
		if f.Publicity == gtype.Public {
			out.Exports = append(out.Exports, SanitiseIdent(f.Name))
		}
	}

	sort.Strings(out.Exports)

	// The prelude import itself only ever pulls in the helpers this
	// module's generation actually referenced (spec.md §9's usage-tracker
	// design note), appended as the first import so it's always available
	// to every definition above.
	if used := tracker.Used(); len(used) > 0 {
		names := make([]nixir.ImportedName, len(used))
		for i, n := range used {
			names[i] = nixir.ImportedName{Name: n}
		}
		out.Imports = append([]nixir.Import{{Path: PreludePath, Names: names}}, out.Imports...)
	}

	return out
}

func lowerImport(imp *ast.Import) nixir.Import {
	alias := imp.Alias
	if alias == "" {
		segs := strings.Split(imp.Path, "/")
		alias = segs[len(segs)-1]
	}
	path := SanitisePath(importTargetPath(imp.Path))

	result := nixir.Import{Path: path}
	result.Names = append(result.Names, nixir.ImportedName{Name: ModuleAlias(imp.Path)})
	for _, u := range imp.Unqualified {
		if u.IsType {
			// Types have no runtime presence (spec.md §4.7.8): only value
			// imports need a binding.
			continue
		}
		name := u.Alias
		if name == "" {
			name = u.Name
		}
		result.Aliased = append(result.Aliased, nixir.AliasedImport{
			Alias:  SanitiseIdent(name),
			Remote: SanitiseIdent(u.Name),
		})
	}
	return result
}

// importTargetPath turns a dotted Gleam module path into the relative path
// its compiled sibling `.nix` file will sit at, mirroring how every
// compiled module in one project shares a single output directory tree
// keyed by module path (spec.md §4.7.8).
func importTargetPath(modulePath string) string {
	return fmt.Sprintf("./%s.nix", modulePath)
}

// lowerFunction curries a top-level function's parameters into nested
// Lambdas exactly like a Fn literal (expr.go's lowerFn), since a Gleam
// top-level function and a Gleam anonymous function compile to the same
// Nix shape: a value bound to a name is indistinguishable from a
// self-contained lambda expression in Nix.
func (g *Generator) lowerFunction(f *analyser.TypedFunction) nixir.Expr {
	st := &scopeStack{}
	scope := newLetScope(g)
	st.push(scope)

	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("_discarded%d", i)
		}
		names[i] = scope.bindParam(name)
	}

	body := g.lowerStatements(f.Body, st)
	st.pop()

	var result nixir.Expr = body
	for i := len(names) - 1; i >= 0; i-- {
		result = &nixir.Lambda{Param: names[i], Body: result}
	}
	return result
}
