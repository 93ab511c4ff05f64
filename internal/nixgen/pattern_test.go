package nixgen

import (
	"testing"

	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/nixir"
	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/glistix/glistix-core/internal/typedast"
	"github.com/stretchr/testify/require"
)

func TestCompilePatternVarBindsWithNoCondition(t *testing.T) {
	subject := &nixir.Var{Name: "x"}
	cond, binds := compilePattern(typedast.NewVarPattern(srcspan.Span{}, gtype.Int, "y"), subject)
	require.Nil(t, cond)
	require.Equal(t, []binding{{name: "y", value: subject}}, binds)
}

func TestCompilePatternIntComparesSubject(t *testing.T) {
	subject := &nixir.Var{Name: "x"}
	cond, binds := compilePattern(typedast.NewIntPattern(srcspan.Span{}, gtype.Int, "3"), subject)
	require.Empty(t, binds)
	require.Equal(t, &nixir.BinOp{Op: "==", Left: subject, Right: &nixir.Int{Text: "3"}}, cond)
}

func TestCompilePatternTupleAndsElementConditions(t *testing.T) {
	subject := &nixir.Var{Name: "t"}
	pat := typedast.NewTuplePattern(srcspan.Span{}, gtype.Int, []typedast.TPattern{
		typedast.NewIntPattern(srcspan.Span{}, gtype.Int, "1"),
		typedast.NewVarPattern(srcspan.Span{}, gtype.Int, "rest"),
	})
	cond, binds := compilePattern(pat, subject)
	want := &nixir.BinOp{
		Op:   "==",
		Left: &nixir.ElemAt{Tuple: subject, Index: 0},
		Right: &nixir.Int{Text: "1"},
	}
	require.Equal(t, want, cond)
	require.Equal(t, []binding{{name: "rest", value: &nixir.ElemAt{Tuple: subject, Index: 1}}}, binds)
}

func TestCompileConstructorPatternMultiVariantChecksTag(t *testing.T) {
	subject := &nixir.Var{Name: "b"}
	boxType := &gtype.Named{Name: "Box"}
	pat := typedast.NewConstructorPattern(srcspan.Span{}, boxType, "", "Some", nil, false, 0, 2)
	cond, binds := compilePattern(pat, subject)
	require.Empty(t, binds)
	require.Equal(t, &nixir.BinOp{
		Op:    "==",
		Left:  &nixir.FieldAccess{Target: subject, Field: "__gleamTag"},
		Right: &nixir.Str{Value: "Some"},
	}, cond)
}

func TestCompileConstructorPatternSingleVariantOmitsTagCheck(t *testing.T) {
	subject := &nixir.Var{Name: "b"}
	boxType := &gtype.Named{Name: "Box"}
	pat := typedast.NewConstructorPattern(srcspan.Span{}, boxType, "", "Box", []typedast.TPattern{
		typedast.NewVarPattern(srcspan.Span{}, gtype.Int, "value"),
	}, false, 0, 1)
	cond, binds := compilePattern(pat, subject)
	require.Nil(t, cond)
	require.Equal(t, []binding{{name: "value", value: &nixir.FieldAccess{Target: subject, Field: "_0"}}}, binds)
}

func TestCompileConstructorPatternBoolComparesNative(t *testing.T) {
	subject := &nixir.Var{Name: "b"}
	pat := typedast.NewConstructorPattern(srcspan.Span{}, gtype.Bool, "", "True", nil, false, 0, 2)
	cond, binds := compilePattern(pat, subject)
	require.Empty(t, binds)
	require.Equal(t, &nixir.BinOp{Op: "==", Left: subject, Right: &nixir.Bool{Value: true}}, cond)
}

func TestCompileListPatternWithTailChecksNonEmptyThenBindsTail(t *testing.T) {
	subject := &nixir.Var{Name: "xs"}
	pat := typedast.NewListPattern(srcspan.Span{}, gtype.Int,
		[]typedast.TPattern{typedast.NewVarPattern(srcspan.Span{}, gtype.Int, "head")},
		typedast.NewVarPattern(srcspan.Span{}, gtype.Int, "tail"))
	cond, binds := compilePattern(pat, subject)
	require.NotNil(t, cond)
	require.Equal(t, []binding{
		{name: "head", value: &nixir.FieldAccess{Target: subject, Field: "_0"}},
		{name: "tail", value: &nixir.FieldAccess{Target: subject, Field: "_1"}},
	}, binds)
}

func TestCompileListPatternWithoutTailChecksEmpty(t *testing.T) {
	subject := &nixir.Var{Name: "xs"}
	pat := typedast.NewListPattern(srcspan.Span{}, gtype.Int, nil, nil)
	cond, binds := compilePattern(pat, subject)
	require.Empty(t, binds)
	require.Equal(t, &nixir.BinOp{
		Op:    "==",
		Left:  &nixir.FieldAccess{Target: subject, Field: "__gleamTag"},
		Right: &nixir.Str{Value: "Empty"},
	}, cond)
}

func TestCompileStringPrefixPatternBindsRemainder(t *testing.T) {
	subject := &nixir.Var{Name: "s"}
	pat := typedast.NewStringPrefixPattern(srcspan.Span{}, gtype.StringT, "He", "rest")
	cond, binds := compilePattern(pat, subject)
	require.NotNil(t, cond)
	require.Len(t, binds, 1)
	require.Equal(t, "rest", binds[0].name)
	app, ok := binds[0].value.(*nixir.App)
	require.True(t, ok)
	require.Equal(t, "substring", app.Fun.(*nixir.FieldAccess).Field)
}

func TestDestructureBindingsDiscardsCondition(t *testing.T) {
	subject := &nixir.Var{Name: "b"}
	boxType := &gtype.Named{Name: "Box"}
	pat := typedast.NewConstructorPattern(srcspan.Span{}, boxType, "", "Box", []typedast.TPattern{
		typedast.NewVarPattern(srcspan.Span{}, gtype.Int, "value"),
	}, false, 0, 1)
	binds := destructureBindings(pat, subject)
	require.Equal(t, []binding{{name: "value", value: &nixir.FieldAccess{Target: subject, Field: "_0"}}}, binds)
}
