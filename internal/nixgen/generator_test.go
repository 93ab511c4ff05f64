package nixgen

import (
	"testing"

	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/nixir"
	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/glistix/glistix-core/internal/typedast"
	"github.com/stretchr/testify/require"
)

func newGen() *Generator {
	return NewGenerator("my/module", "main", &UsageTracker{}, nil)
}

func TestLowerIntLiteralDecimal(t *testing.T) {
	g := newGen()
	out := g.lowerIntLiteral("42")
	require.Equal(t, &nixir.Int{Text: "42"}, out)
	require.False(t, g.Tracker.ParseNumber)
}

func TestLowerIntLiteralHexUsesParseNumber(t *testing.T) {
	g := newGen()
	out := g.lowerIntLiteral("0xFF")
	require.Equal(t, &nixir.App{
		Fun:  &nixir.Var{Name: "parseNumber"},
		Args: []nixir.Expr{&nixir.Str{Value: "0xFF"}},
	}, out)
	require.True(t, g.Tracker.ParseNumber)
}

func TestLowerVarLocalResolvesThroughScope(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	scope := newLetScope(g)
	st.push(scope)
	scope.bind("x", &nixir.Int{Text: "1"}, false)

	v := typedast.NewVar(srcspan.Span{}, gtype.Int, typedast.VarLocal, "", "x", genv.NewPureGleam(), false)
	out := g.lowerVar(v, st)
	require.Equal(t, &nixir.Var{Name: "x"}, out)
}

func TestLowerVarShadowedGetsRenamed(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	scope := newLetScope(g)
	st.push(scope)
	scope.bind("x", &nixir.Int{Text: "1"}, false)
	scope.bind("x", &nixir.Int{Text: "2"}, false)

	v := typedast.NewVar(srcspan.Span{}, gtype.Int, typedast.VarLocal, "", "x", genv.NewPureGleam(), false)
	out := g.lowerVar(v, st)
	require.Equal(t, &nixir.Var{Name: "x'1"}, out)
}

func TestLowerConstructorVarIsAttrsLiteral(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	v := typedast.NewVar(srcspan.Span{}, gtype.Bool, typedast.VarModuleLevel, "", "Nothing", genv.NewPureGleam(), true)
	out := g.lowerVar(v, st)
	attrs, ok := out.(*nixir.Attrs)
	require.True(t, ok)
	require.Equal(t, "__gleamTag", attrs.Fields[0].Key)
}

func TestLowerBinOpDivideIntUsesPrelude(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	bin := &typedast.BinOp{
		Op:    typedast.OpDivInt,
		Left:  typedast.NewInt(srcspan.Span{}, gtype.Int, "10"),
		Right: typedast.NewInt(srcspan.Span{}, gtype.Int, "2"),
	}
	out := g.lowerBinOp(bin, st)
	app, ok := out.(*nixir.App)
	require.True(t, ok)
	require.Equal(t, "divideInt", app.Fun.(*nixir.Var).Name)
	require.True(t, g.Tracker.DivideInt)
}

func TestLowerBinOpAddIsNativeOp(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	bin := &typedast.BinOp{
		Op:    typedast.OpAddInt,
		Left:  typedast.NewInt(srcspan.Span{}, gtype.Int, "1"),
		Right: typedast.NewInt(srcspan.Span{}, gtype.Int, "2"),
	}
	out := g.lowerBinOp(bin, st)
	require.Equal(t, &nixir.BinOp{Op: "+", Left: &nixir.Int{Text: "1"}, Right: &nixir.Int{Text: "2"}}, out)
}

func TestLowerStatementsSingleStrictExprWrapsInSeq(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	stmts := []typedast.TStatement{
		&typedast.ExprStatement{Expr: typedast.NewInt(srcspan.Span{}, gtype.Int, "1")},
		&typedast.ExprStatement{Expr: typedast.NewInt(srcspan.Span{}, gtype.Int, "2")},
	}
	out := g.lowerStatements(stmts, st)
	letIn, ok := out.(*nixir.LetIn)
	require.True(t, ok)
	seq, ok := letIn.Body.(*nixir.Seq)
	require.True(t, ok)
	require.Equal(t, &nixir.Int{Text: "2"}, seq.Body)
}

func TestLowerLetStatementSimpleVarNoAssertion(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	stmts := []typedast.TStatement{
		&typedast.LetStatement{
			Kind:    typedast.LetPlain,
			Pattern: typedast.NewVarPattern(srcspan.Span{}, gtype.Int, "x"),
			Value:   typedast.NewInt(srcspan.Span{}, gtype.Int, "1"),
		},
		&typedast.ExprStatement{Expr: typedast.NewVar(srcspan.Span{}, gtype.Int, typedast.VarLocal, "", "x", genv.NewPureGleam(), false)},
	}
	out := g.lowerStatements(stmts, st)
	letIn, ok := out.(*nixir.LetIn)
	require.True(t, ok)
	require.Len(t, letIn.Bindings, 1)
	require.Equal(t, "x", letIn.Bindings[0].Name)
	require.False(t, g.Tracker.MakeError)
}
