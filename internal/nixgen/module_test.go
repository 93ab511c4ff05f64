package nixgen

import (
	"testing"

	"github.com/glistix/glistix-core/internal/analyser"
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/ident"
	"github.com/glistix/glistix-core/internal/parser"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/stretchr/testify/require"
)

func analyseForGen(t *testing.T, src string) (*ast.Module, *analyser.Result) {
	t.Helper()
	probs := problems.New()
	mod := parser.Parse("test_module", src, ast.OriginSrc, probs)
	require.False(t, probs.HasErrors(), "unexpected parse errors: %v", probs.Errors())
	env := genv.New("test_pkg", "test_module", genv.TargetNix, genv.TargetSupportNotEnforced, ident.NewUniqueIDGenerator())
	res := analyser.AnalyseModule(mod, env, probs)
	require.False(t, probs.HasErrors(), "unexpected analysis errors: %v", probs.Errors())
	return mod, res
}

func TestGenerateModuleExportsOnlyPublicValues(t *testing.T) {
	mod, res := analyseForGen(t, `
pub fn add(x, y) {
  x + y
}

fn helper(x) {
  x
}

pub const limit = 10
`)
	out := GenerateModule(mod, res, "")
	require.Equal(t, []string{"add", "limit"}, out.Exports)
	require.Len(t, out.Definitions, 3)
}

func TestGenerateModulePrependsPreludeImportWhenUsed(t *testing.T) {
	mod, res := analyseForGen(t, `
pub fn half(x) {
  x / 2
}
`)
	out := GenerateModule(mod, res, "")
	require.NotEmpty(t, out.Imports)
	require.Equal(t, PreludePath, out.Imports[0].Path)
	require.Equal(t, "divideInt", out.Imports[0].Names[0].Name)
}

func TestGenerateModuleNoPreludeImportWhenUnused(t *testing.T) {
	mod, res := analyseForGen(t, `
pub fn identity(x) {
  x
}
`)
	out := GenerateModule(mod, res, "")
	for _, imp := range out.Imports {
		require.NotEqual(t, PreludePath, imp.Path)
	}
}

func TestModuleAliasReplacesSlashesAndDashes(t *testing.T) {
	require.Equal(t, "gleam_string_builder", ModuleAlias("gleam-string/builder"))
}

func TestLowerImportQualifiedAliasDefaultsToLastSegment(t *testing.T) {
	imp := &ast.Import{Path: "gleam/list"}
	out := lowerImport(imp)
	require.Equal(t, "./gleam/list.nix", out.Path)
	require.Equal(t, "gleam_list", out.Names[0].Name)
}

func TestLowerImportUnqualifiedValueGetsAliasedBinding(t *testing.T) {
	imp := &ast.Import{Path: "gleam/list", Unqualified: []ast.UnqualifiedImport{
		{Name: "map"},
		{Name: "Thing", IsType: true},
	}}
	out := lowerImport(imp)
	require.Len(t, out.Aliased, 1)
	require.Equal(t, "map", out.Aliased[0].Alias)
	require.Equal(t, "map", out.Aliased[0].Remote)
}
