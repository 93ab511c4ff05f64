package importer

import (
	"testing"

	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/iface"
	"github.com/glistix/glistix-core/internal/ident"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/stretchr/testify/require"
)

func listModule() *iface.ModuleInterface {
	m := iface.New("gleam_stdlib", "gleam/list", "gleam/list.gleam", "src", false)
	m.Values["map"] = &genv.ValueConstructor{
		Publicity: gtype.Public,
		Variant:   genv.ModuleFn{Name: "map", Module: "gleam/list", Arity: 2},
		Type:      &gtype.Named{Name: "Fn"},
	}
	m.Types["List"] = &genv.TypeConstructor{Module: "gleam/list", Publicity: gtype.Public, Type: &gtype.Named{Name: "List"}}
	m.Finalize()
	return m
}

func newEnv() *genv.Environment {
	return genv.New("my_app", "my_app/main", genv.TargetErlang, genv.TargetSupportNotEnforced, ident.NewUniqueIDGenerator())
}

func TestResolveQualifiedImportAddsAliasDefaultingToLastSegment(t *testing.T) {
	mod := &ast.Module{Imports: []*ast.Import{{Path: "gleam/list"}}}
	modules := ModuleSet{"gleam/list": listModule()}
	env := newEnv()
	probs := problems.New()

	resolved := Resolve(mod, modules, PackageOf{CurrentPackage: "my_app", DirectDependencies: map[string]bool{}}, env, probs)

	require.Equal(t, []string{"gleam/list"}, resolved)
	require.False(t, probs.HasErrors())
	ref, ok := env.GetImportedModule("list")
	require.True(t, ok)
	require.Equal(t, "gleam_stdlib", ref.PackageName())
}

func TestResolveExplicitAliasOverridesLastSegment(t *testing.T) {
	mod := &ast.Module{Imports: []*ast.Import{{Path: "gleam/list", Alias: "l"}}}
	modules := ModuleSet{"gleam/list": listModule()}
	env := newEnv()
	probs := problems.New()

	Resolve(mod, modules, PackageOf{CurrentPackage: "my_app", DirectDependencies: map[string]bool{}}, env, probs)

	_, ok := env.GetImportedModule("l")
	require.True(t, ok)
	_, ok = env.GetImportedModule("list")
	require.False(t, ok)
}

func TestResolveUnknownModuleReportsError(t *testing.T) {
	mod := &ast.Module{Imports: []*ast.Import{{Path: "gleam/nope"}}}
	env := newEnv()
	probs := problems.New()

	resolved := Resolve(mod, ModuleSet{}, PackageOf{CurrentPackage: "my_app", DirectDependencies: map[string]bool{}}, env, probs)

	require.Empty(t, resolved)
	require.True(t, probs.HasErrors())
	require.Equal(t, problems.IMP001UnknownModule, probs.Errors()[0].Code)
}

func TestResolveUnqualifiedValueInsertsVariable(t *testing.T) {
	mod := &ast.Module{Imports: []*ast.Import{{
		Path:        "gleam/list",
		Unqualified: []ast.UnqualifiedImport{{Name: "map"}},
	}}}
	modules := ModuleSet{"gleam/list": listModule()}
	env := newEnv()
	probs := problems.New()

	Resolve(mod, modules, PackageOf{CurrentPackage: "my_app", DirectDependencies: map[string]bool{}}, env, probs)

	require.False(t, probs.HasErrors())
	vc, ok := env.GetVariable("map")
	require.True(t, ok)
	require.IsType(t, genv.ModuleFn{}, vc.Variant)
}

func TestResolveUnqualifiedValueAliasUsesLocalName(t *testing.T) {
	mod := &ast.Module{Imports: []*ast.Import{{
		Path:        "gleam/list",
		Unqualified: []ast.UnqualifiedImport{{Name: "map", Alias: "lmap"}},
	}}}
	modules := ModuleSet{"gleam/list": listModule()}
	env := newEnv()
	probs := problems.New()

	Resolve(mod, modules, PackageOf{CurrentPackage: "my_app", DirectDependencies: map[string]bool{}}, env, probs)

	_, ok := env.GetVariable("lmap")
	require.True(t, ok)
	_, ok = env.GetVariable("map")
	require.False(t, ok)
}

func TestResolveUnqualifiedUnknownValueReportsError(t *testing.T) {
	mod := &ast.Module{Imports: []*ast.Import{{
		Path:        "gleam/list",
		Unqualified: []ast.UnqualifiedImport{{Name: "does_not_exist", Span: srcspan.Span{Start: 1, End: 2}}},
	}}}
	modules := ModuleSet{"gleam/list": listModule()}
	env := newEnv()
	probs := problems.New()

	Resolve(mod, modules, PackageOf{CurrentPackage: "my_app", DirectDependencies: map[string]bool{}}, env, probs)

	require.True(t, probs.HasErrors())
	require.Equal(t, problems.IMP002UnknownModuleValue, probs.Errors()[0].Code)
}

func TestResolveUnqualifiedTypeInsertsTypeConstructor(t *testing.T) {
	mod := &ast.Module{Imports: []*ast.Import{{
		Path:        "gleam/list",
		Unqualified: []ast.UnqualifiedImport{{Name: "List", IsType: true}},
	}}}
	modules := ModuleSet{"gleam/list": listModule()}
	env := newEnv()
	probs := problems.New()

	Resolve(mod, modules, PackageOf{CurrentPackage: "my_app", DirectDependencies: map[string]bool{}}, env, probs)

	require.False(t, probs.HasErrors())
	_, ok := env.GetTypeConstructor("List")
	require.True(t, ok)
}

func TestResolveTransitiveDependencyWarns(t *testing.T) {
	mod := &ast.Module{Imports: []*ast.Import{{Path: "gleam/list"}}}
	modules := ModuleSet{"gleam/list": listModule()}
	env := newEnv()
	probs := problems.New()
	pkgs := PackageOf{
		PackageOfModule:    map[string]string{"gleam/list": "gleam_stdlib"},
		CurrentPackage:     "my_app",
		DirectDependencies: map[string]bool{},
	}

	Resolve(mod, modules, pkgs, env, probs)

	require.False(t, probs.HasErrors())
	require.Len(t, probs.Warnings(), 1)
	require.Equal(t, problems.IMP005TransitiveDependency, probs.Warnings()[0].Code)
}

func TestResolveDirectDependencyDoesNotWarn(t *testing.T) {
	mod := &ast.Module{Imports: []*ast.Import{{Path: "gleam/list"}}}
	modules := ModuleSet{"gleam/list": listModule()}
	env := newEnv()
	probs := problems.New()
	pkgs := PackageOf{
		PackageOfModule:    map[string]string{"gleam/list": "gleam_stdlib"},
		CurrentPackage:     "my_app",
		DirectDependencies: map[string]bool{"gleam_stdlib": true},
	}

	Resolve(mod, modules, pkgs, env, probs)

	require.Empty(t, probs.Warnings())
}
