package analyser

import (
	"testing"

	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/ident"
	"github.com/glistix/glistix-core/internal/parser"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/stretchr/testify/require"
)

func analyse(t *testing.T, src string) (*ast.Module, *genv.Environment, *problems.Problems, *Result) {
	t.Helper()
	probs := problems.New()
	mod := parser.Parse("test_module", src, ast.OriginSrc, probs)
	require.False(t, probs.HasErrors(), "unexpected parse errors: %v", probs.Errors())

	env := genv.New("test_pkg", "test_module", genv.TargetErlang, genv.TargetSupportNotEnforced, ident.NewUniqueIDGenerator())
	res := AnalyseModule(mod, env, probs)
	return mod, env, probs, res
}

func findFunction(res *Result, name string) *TypedFunction {
	for _, f := range res.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func TestAnalyseModuleInfersSimpleFunction(t *testing.T) {
	_, _, probs, res := analyse(t, `
fn add(x, y) {
  x + y
}
`)
	require.False(t, probs.HasErrors())
	fn := findFunction(res, "add")
	require.NotNil(t, fn)
	require.Equal(t, "fn(Int, Int) -> Int", fn.Type.String())
}

func TestAnalyseModuleGeneralisesUnusedTypeVariable(t *testing.T) {
	_, _, probs, res := analyse(t, `
fn identity(x) {
  x
}
`)
	require.False(t, probs.HasErrors())
	fn := findFunction(res, "identity")
	require.NotNil(t, fn)
	// The single parameter's type must have been generalised to a fresh
	// generic variable rather than left floating unbound.
	fnType, ok := gtype.Type(fn.Type).(*gtype.Fn)
	require.True(t, ok)
	require.Len(t, fnType.Args, 1)
	v, ok := fnType.Args[0].(*gtype.Var)
	require.True(t, ok)
	_, isGeneric := v.Cell.IsGeneric()
	require.True(t, isGeneric)
}

func TestAnalyseModuleMutualRecursionSharesGeneralisation(t *testing.T) {
	_, _, probs, res := analyse(t, `
fn is_even(n) {
  case n {
    0 -> 1
    _ -> is_odd(n - 1)
  }
}

fn is_odd(n) {
  case n {
    0 -> 0
    _ -> is_even(n - 1)
  }
}
`)
	require.False(t, probs.HasErrors())
	require.NotNil(t, findFunction(res, "is_even"))
	even := findFunction(res, "is_even")
	require.Equal(t, "fn(Int) -> Int", even.Type.String())
	odd := findFunction(res, "is_odd")
	require.Equal(t, "fn(Int) -> Int", odd.Type.String())
}

func TestAnalyseModuleRegistersCustomTypeConstructors(t *testing.T) {
	_, env, probs, res := analyse(t, `
type Box(a) {
  Box(value: a)
}

fn unwrap(b) {
  let Box(value) = b
  value
}
`)
	require.False(t, probs.HasErrors())
	fn := findFunction(res, "unwrap")
	require.NotNil(t, fn)

	vc, ok := env.GetVariable("Box")
	require.True(t, ok)
	_, isRecord := vc.Variant.(genv.Record)
	require.True(t, isRecord)
}

func TestAnalyseModuleRecursiveTypeAliasReportsError(t *testing.T) {
	_, _, probs, _ := analyse(t, `
type Loopy = Loopy
`)
	require.True(t, probs.HasErrors())
	require.Equal(t, problems.TYP006RecursiveTypeAlias, probs.Errors()[0].Code)
}

func TestAnalyseModuleDuplicateConstructorNameReportsError(t *testing.T) {
	_, _, probs, _ := analyse(t, `
type A {
  Dup
}

type B {
  Dup
}
`)
	require.True(t, probs.HasErrors())
	require.Equal(t, problems.RES002DuplicateName, probs.Errors()[0].Code)
}

func TestAnalyseModulePublicFunctionLeakingPrivateTypeReportsError(t *testing.T) {
	_, _, probs, _ := analyse(t, `
type Secret {
  Secret
}

pub fn reveal() {
  Secret
}
`)
	require.True(t, probs.HasErrors())
	found := false
	for _, d := range probs.Errors() {
		if d.Code == problems.TYP007PrivateTypeLeak {
			found = true
		}
	}
	require.True(t, found)
}

func TestAnalyseModuleSingleVariantRecordGetsAccessors(t *testing.T) {
	_, env, probs, _ := analyse(t, `
type Point {
  Point(x: Int, y: Int)
}
`)
	require.False(t, probs.HasErrors())
	am, ok := env.GetAccessors("Point")
	require.True(t, ok)
	acc, ok := am.Accessors["x"]
	require.True(t, ok)
	require.Equal(t, 0, acc.Index)
}

func TestAnalyseModuleConstant(t *testing.T) {
	_, _, probs, res := analyse(t, `
const limit = 10
`)
	require.False(t, probs.HasErrors())
	require.Len(t, res.Constants, 1)
	require.Equal(t, "limit", res.Constants[0].Name)
	require.Equal(t, gtype.Int.String(), res.Constants[0].Type.String())
}
