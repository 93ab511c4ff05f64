package dtree

import (
	"testing"

	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/glistix/glistix-core/internal/typedast"
	"github.com/stretchr/testify/require"
)

func varPat(name string) typedast.TPattern { return typedast.NewVarPattern(srcspan.Span{}, nil, name) }
func discardPat() typedast.TPattern        { return typedast.NewDiscardPattern(srcspan.Span{}, nil, "") }
func intPat(text string) typedast.TPattern { return typedast.NewIntPattern(srcspan.Span{}, nil, text) }

func ctorPat(name string, count int, args ...typedast.TPattern) typedast.TPattern {
	return typedast.NewConstructorPattern(srcspan.Span{}, nil, "", name, args, false, 0, count)
}

func TestCompileAllWildcardSingleRowIsLeaf(t *testing.T) {
	c := NewCompiler([]Clause{{Patterns: []typedast.TPattern{varPat("x")}}})
	tree := c.Compile()
	leaf, ok := tree.(*Leaf)
	require.True(t, ok)
	require.Equal(t, 0, leaf.ArmIndex)
	require.True(t, IsExhaustive(tree))
	require.True(t, c.IsReachable(0))
}

func TestCompileMissingCaseIsInexhaustive(t *testing.T) {
	c := NewCompiler([]Clause{
		{Patterns: []typedast.TPattern{ctorPat("True", 2)}},
	})
	tree := c.Compile()
	require.False(t, IsExhaustive(tree))
	require.Equal(t, []string{"_"}, MissingPatterns(tree))
}

func TestCompileBothVariantsCoveredIsExhaustive(t *testing.T) {
	c := NewCompiler([]Clause{
		{Patterns: []typedast.TPattern{ctorPat("True", 2)}},
		{Patterns: []typedast.TPattern{ctorPat("False", 2)}},
	})
	tree := c.Compile()
	require.True(t, IsExhaustive(tree))
	require.True(t, c.IsReachable(0))
	require.True(t, c.IsReachable(1))
}

func TestCompileWildcardAfterConstructorRowsMakesDefaultUnreachable(t *testing.T) {
	c := NewCompiler([]Clause{
		{Patterns: []typedast.TPattern{ctorPat("True", 2)}},
		{Patterns: []typedast.TPattern{ctorPat("False", 2)}},
		{Patterns: []typedast.TPattern{discardPat()}},
	})
	tree := c.Compile()
	require.True(t, IsExhaustive(tree))
	// Every concrete variant is already covered by arms 0/1, so the
	// catch-all at arm 2 can never actually be selected.
	require.False(t, c.IsReachable(2))
}

func TestCompileIntPatternsAlwaysNeedDefault(t *testing.T) {
	c := NewCompiler([]Clause{
		{Patterns: []typedast.TPattern{intPat("0")}},
		{Patterns: []typedast.TPattern{intPat("1")}},
	})
	tree := c.Compile()
	require.False(t, IsExhaustive(tree))
}

func TestCompileGuardedLeafFallsThroughOnGuardFailure(t *testing.T) {
	c := NewCompiler([]Clause{
		{Patterns: []typedast.TPattern{varPat("x")}, Guarded: true},
		{Patterns: []typedast.TPattern{varPat("y")}},
	})
	tree := c.Compile()
	gl, ok := tree.(*GuardedLeaf)
	require.True(t, ok)
	require.Equal(t, 0, gl.ArmIndex)
	fallbackLeaf, ok := gl.Fallback.(*Leaf)
	require.True(t, ok)
	require.Equal(t, 1, fallbackLeaf.ArmIndex)
	require.True(t, IsExhaustive(tree))
}

func TestCompileConstructorWithSubPatternsSpecialisesColumns(t *testing.T) {
	box := func(inner typedast.TPattern) typedast.TPattern { return ctorPat("Box", 1, inner) }
	c := NewCompiler([]Clause{
		{Patterns: []typedast.TPattern{box(intPat("0"))}},
		{Patterns: []typedast.TPattern{box(varPat("n"))}},
	})
	tree := c.Compile()
	sw, ok := tree.(*Switch)
	require.True(t, ok)
	require.Contains(t, sw.Cases, "ctor:.Box")
	require.True(t, c.IsReachable(0))
	require.True(t, c.IsReachable(1))
}

func TestMissingPatternsReportsUncoveredConstructorAsWildcard(t *testing.T) {
	c := NewCompiler([]Clause{
		{Patterns: []typedast.TPattern{ctorPat("True", 2)}},
	})
	tree := c.Compile()
	missing := MissingPatterns(tree)
	require.Equal(t, []string{"_"}, missing)
}
