package hydrator

import (
	"testing"

	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/ident"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/stretchr/testify/require"
)

func newEnv() *genv.Environment {
	return genv.New("my_app", "my_app/main", genv.TargetErlang, genv.TargetSupportNotEnforced, ident.NewUniqueIDGenerator())
}

func TestTypeFromASTBuiltinScalars(t *testing.T) {
	h := New(newEnv(), problems.New())
	ty, err := h.TypeFromAST(ast.NewNamedType(srcspan.Span{}, "", "Int"))
	require.NoError(t, err)
	require.Same(t, gtype.Int, ty)
}

func TestTypeFromASTListOfInt(t *testing.T) {
	h := New(newEnv(), problems.New())
	ty, err := h.TypeFromAST(ast.NewNamedType(srcspan.Span{}, "", "List", ast.NewNamedType(srcspan.Span{}, "", "Int")))
	require.NoError(t, err)
	require.Equal(t, "List(Int)", ty.String())
}

func TestTypeFromASTFnType(t *testing.T) {
	h := New(newEnv(), problems.New())
	fnAst := &ast.FnType{
		Args: []ast.TypeAst{ast.NewNamedType(srcspan.Span{}, "", "Int"), ast.NewNamedType(srcspan.Span{}, "", "Int")},
		Ret:  ast.NewNamedType(srcspan.Span{}, "", "Bool"),
	}
	ty, err := h.TypeFromAST(fnAst)
	require.NoError(t, err)
	require.Equal(t, "fn(Int, Int) -> Bool", ty.String())
}

func TestTypeFromASTSameVarNameSharesCell(t *testing.T) {
	h := New(newEnv(), problems.New())
	a, err := h.TypeFromAST(&ast.VarType{Name: "a"})
	require.NoError(t, err)
	b, err := h.TypeFromAST(&ast.VarType{Name: "a"})
	require.NoError(t, err)
	require.Same(t, a, b)
}

func TestTypeFromASTHoleDisallowedByDefaultReportsError(t *testing.T) {
	probs := problems.New()
	h := New(newEnv(), probs)
	_, err := h.TypeFromAST(&ast.HoleType{})
	require.NoError(t, err)
	require.True(t, probs.HasErrors())
	require.Equal(t, "TYP011", probs.Errors()[0].Code)
}

func TestTypeFromASTHolePermittedProducesUnboundVar(t *testing.T) {
	probs := problems.New()
	h := New(newEnv(), probs)
	h.PermitHoles(true)
	ty, err := h.TypeFromAST(&ast.HoleType{})
	require.NoError(t, err)
	require.False(t, probs.HasErrors())
	v, ok := ty.(*gtype.Var)
	require.True(t, ok)
	_, unbound := v.Cell.IsUnbound()
	require.True(t, unbound)
}

func TestTypeFromASTDisallowNewTypeVariablesReportsUnknownVar(t *testing.T) {
	probs := problems.New()
	h := New(newEnv(), probs)
	h.DisallowNewTypeVariables()
	_, err := h.TypeFromAST(&ast.VarType{Name: "never_declared"})
	require.NoError(t, err)
	require.True(t, probs.HasErrors())
	require.Equal(t, "TYP010", probs.Errors()[0].Code)
}

func TestTypeFromASTUnknownNamedTypeReportsError(t *testing.T) {
	probs := problems.New()
	h := New(newEnv(), probs)
	_, err := h.TypeFromAST(ast.NewNamedType(srcspan.Span{}, "", "Thing"))
	require.NoError(t, err)
	require.True(t, probs.HasErrors())
	require.Equal(t, "RES001", probs.Errors()[0].Code)
}

func TestTypeFromASTKnownCustomTypeResolvesRegisteredConstructor(t *testing.T) {
	env := newEnv()
	probs := problems.New()
	err := env.InsertTypeConstructor("Box", &genv.TypeConstructor{
		Module: "my_app/main", Publicity: gtype.Public, Params: []gtype.Type{},
	})
	require.NoError(t, err)

	h := New(env, probs)
	ty, e := h.TypeFromAST(ast.NewNamedType(srcspan.Span{}, "", "Box"))
	require.NoError(t, e)
	require.False(t, probs.HasErrors())
	named, ok := ty.(*gtype.Named)
	require.True(t, ok)
	require.Equal(t, "Box", named.Name)
}

func TestTypeFromASTArityMismatchReportsError(t *testing.T) {
	env := newEnv()
	probs := problems.New()
	require.NoError(t, env.InsertTypeConstructor("Box", &genv.TypeConstructor{
		Module: "my_app/main", Publicity: gtype.Public,
		Params: []gtype.Type{&gtype.Var{Cell: gtype.NewGenericCell(0)}},
	}))

	h := New(env, probs)
	_, err := h.TypeFromAST(ast.NewNamedType(srcspan.Span{}, "", "Box"))
	require.NoError(t, err)
	require.True(t, probs.HasErrors())
	require.Equal(t, "ARI001", probs.Errors()[0].Code)
}

func TestPreBindThenTypeFromASTSharesSameVariable(t *testing.T) {
	h := New(newEnv(), problems.New())
	pre := h.PreBind("a")
	ty, err := h.TypeFromAST(&ast.VarType{Name: "a"})
	require.NoError(t, err)
	require.Same(t, pre, ty)
}

func TestUnusedTypeVariablesReportsNeverReferencedRigidName(t *testing.T) {
	h := New(newEnv(), problems.New())
	h.PreBind("a")
	h.PreBind("b")
	_, err := h.TypeFromAST(&ast.VarType{Name: "a"})
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, h.UnusedTypeVariables())
}

func TestClearRigidTypeNamesResetsSharedVariables(t *testing.T) {
	h := New(newEnv(), problems.New())
	first, err := h.TypeFromAST(&ast.VarType{Name: "a"})
	require.NoError(t, err)
	h.ClearRigidTypeNames()
	second, err := h.TypeFromAST(&ast.VarType{Name: "a"})
	require.NoError(t, err)
	require.NotSame(t, first, second)
}
