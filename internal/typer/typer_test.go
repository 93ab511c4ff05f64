package typer

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

// bodyOf parses src (expected to declare exactly one top-level function
// named fnName) and returns its statement list, ready for InferBody.
func bodyOf(t *testing.T, src, fnName string) []ast.Statement {
	t.Helper()
	probs := problems.New()
	mod := parser.Parse("test_module", src, ast.OriginSrc, probs)
	require.False(t, probs.HasErrors(), "unexpected parse errors: %v", probs.Errors())
	for _, fn := range mod.Functions {
		if fn.Name == fnName {
			return fn.Body
		}
	}
	t.Fatalf("function %q not found", fnName)
	return nil
}

func newTyper() (*Typer, *genv.Environment, *problems.Problems) {
	probs := problems.New()
	env := genv.New("test_pkg", "test_module", genv.TargetErlang, genv.TargetSupportNotEnforced, ident.NewUniqueIDGenerator())
	return New(env, probs), env, probs
}

func TestInferBodyIntLiteral(t *testing.T) {
	ty, _, probs := newTyper()
	stmts := bodyOf(t, "fn f() { 1 }", "f")
	_, result := ty.InferBody(stmts, nil)
	require.False(t, probs.HasErrors())
	require.Same(t, gtype.Int, gtype.Deref(result))
}

func TestInferBodyBinOpArithmetic(t *testing.T) {
	ty, _, probs := newTyper()
	stmts := bodyOf(t, "fn f() { 1 + 2 }", "f")
	_, result := ty.InferBody(stmts, nil)
	require.False(t, probs.HasErrors())
	require.Equal(t, "Int", gtype.Deref(result).String())
}

func TestInferBodyBinOpComparisonReturnsBool(t *testing.T) {
	ty, _, probs := newTyper()
	stmts := bodyOf(t, "fn f() { 1.0 <. 2.0 }", "f")
	_, result := ty.InferBody(stmts, nil)
	require.False(t, probs.HasErrors())
	require.Equal(t, "Bool", gtype.Deref(result).String())
}

func TestInferBodyLetBindingThenUse(t *testing.T) {
	ty, _, probs := newTyper()
	stmts := bodyOf(t, "fn f() {\n  let x = 1\n  x + 1\n}", "f")
	_, result := ty.InferBody(stmts, nil)
	require.False(t, probs.HasErrors())
	require.Equal(t, "Int", gtype.Deref(result).String())
}

func TestInferBodyReturnAnnotationMismatchReportsError(t *testing.T) {
	ty, _, probs := newTyper()
	stmts := bodyOf(t, "fn f() { 1 }", "f")
	ty.InferBody(stmts, gtype.Bool)
	require.True(t, probs.HasErrors())
	require.Equal(t, problems.TYP001UnifyError, probs.Errors()[0].Code)
}

func TestInferBodyReturnAnnotationMatchingIsClean(t *testing.T) {
	ty, _, probs := newTyper()
	stmts := bodyOf(t, "fn f() { 1 }", "f")
	ty.InferBody(stmts, gtype.Int)
	require.False(t, probs.HasErrors())
}

func TestInferBodyStringConcatenation(t *testing.T) {
	ty, _, probs := newTyper()
	stmts := bodyOf(t, `fn f() { "a" <> "b" }`, "f")
	_, result := ty.InferBody(stmts, nil)
	require.False(t, probs.HasErrors())
	require.Equal(t, "String", gtype.Deref(result).String())
}

func TestInferBodyTupleLiteral(t *testing.T) {
	ty, _, probs := newTyper()
	stmts := bodyOf(t, "fn f() { #(1, \"a\") }", "f")
	_, result := ty.InferBody(stmts, nil)
	require.False(t, probs.HasErrors())
	require.Equal(t, "#(Int, String)", gtype.Deref(result).String())
}

func TestResetImplementationsClearsPanicState(t *testing.T) {
	ty, _, _ := newTyper()
	ty.previousPanics = true
	ty.panicWarned = true
	ty.ResetImplementations(genv.Implementations{})
	require.False(t, ty.previousPanics)
	require.False(t, ty.panicWarned)
}

func TestInferEqualityAgainstEmptyListWarns(t *testing.T) {
	ty, _, probs := newTyper()
	stmts := bodyOf(t, "fn f() {\n  let xs = [1]\n  xs == []\n}", "f")
	ty.InferBody(stmts, nil)
	require.False(t, probs.HasErrors())
	require.Len(t, probs.Warnings(), 1)
	require.Equal(t, problems.WRN008InefficientEmptyListCheck, probs.Warnings()[0].Code)
}

func TestInferCallOfTodoAsFunctionWarns(t *testing.T) {
	ty, _, probs := newTyper()
	stmts := bodyOf(t, `fn f() { todo() }`, "f")
	ty.InferBody(stmts, nil)
	var codes []string
	for _, w := range probs.Warnings() {
		codes = append(codes, w.Code)
	}
	require.Contains(t, codes, problems.WRN015TodoOrPanicAsFunction)
}

func TestInferFnExprFlushesUnusedParameterAsWarning(t *testing.T) {
	ty, _, probs := newTyper()
	stmts := bodyOf(t, "fn f() { fn(unused) { 1 } }", "f")
	ty.InferBody(stmts, nil)
	require.False(t, probs.HasErrors())
	require.Len(t, probs.Warnings(), 1)
	require.Equal(t, problems.WRN004UnusedValue, probs.Warnings()[0].Code)
}

func TestCheckExpressionTargetSupportErrorsWithoutMatchingExternal(t *testing.T) {
	probs := problems.New()
	env := genv.New("test_pkg", "test_module", genv.TargetNix, genv.TargetSupportEnforced, ident.NewUniqueIDGenerator())
	env.InsertVariable("erlang_only", genv.ModuleFn{Name: "erlang_only", Module: "test_module"},
		&gtype.Fn{Ret: gtype.Int}, gtype.Public, "")
	ty := New(env, probs)

	stmts := bodyOf(t, "fn f() { erlang_only }", "f")
	ty.InferBody(stmts, nil)

	require.True(t, probs.HasErrors())
	require.Equal(t, problems.TGT001UnsupportedExpression, probs.Errors()[0].Code)
}

func TestCheckExpressionTargetSupportExcusedByCurrentExternal(t *testing.T) {
	probs := problems.New()
	env := genv.New("test_pkg", "test_module", genv.TargetNix, genv.TargetSupportEnforced, ident.NewUniqueIDGenerator())
	env.InsertVariable("erlang_only", genv.ModuleFn{Name: "erlang_only", Module: "test_module"},
		&gtype.Fn{Ret: gtype.Int}, gtype.Public, "")
	ty := New(env, probs)
	ty.ResetImplementations(genv.NewExternalOnly(false, false, true))
	ty.SetCurrentExternals([]ast.ExternalAttr{{Target: "nix"}})

	stmts := bodyOf(t, "fn f() { erlang_only }", "f")
	ty.InferBody(stmts, nil)

	require.False(t, probs.HasErrors())
}
