package nixgen

import (
	"testing"

	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/nixir"
	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/glistix/glistix-core/internal/typedast"
	"github.com/stretchr/testify/require"
)

func TestLowerBitArraySegmentDefaultsToEightBitBigEndian(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	seg := typedast.BitArraySegment{Value: typedast.NewInt(srcspan.Span{}, gtype.Int, "255")}
	out := g.lowerBitArraySegment(seg, st)
	require.Equal(t, &nixir.App{
		Fun: &nixir.Var{Name: "sizedInt"},
		Args: []nixir.Expr{
			&nixir.Int{Text: "255"},
			&nixir.Int{Text: "8"},
			&nixir.Bool{Value: false},
		},
	}, out)
	require.True(t, g.Tracker.SizedInt)
}

func TestLowerBitArraySegmentHonoursSizeAndLittleEndian(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	seg := typedast.BitArraySegment{
		Value: typedast.NewInt(srcspan.Span{}, gtype.Int, "1"),
		Options: []typedast.BitArraySegmentOption{
			{Name: "size", Arg: typedast.NewInt(srcspan.Span{}, gtype.Int, "16")},
			{Name: "little"},
		},
	}
	out := g.lowerBitArraySegment(seg, st)
	require.Equal(t, &nixir.App{
		Fun: &nixir.Var{Name: "sizedInt"},
		Args: []nixir.Expr{
			&nixir.Int{Text: "1"},
			&nixir.Int{Text: "16"},
			&nixir.Bool{Value: true},
		},
	}, out)
}

func TestLowerBitArraySegmentUtf8UsesStringBits(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	seg := typedast.BitArraySegment{
		Value:   typedast.NewString(srcspan.Span{}, gtype.StringT, "hi"),
		Options: []typedast.BitArraySegmentOption{{Name: "utf8"}},
	}
	out := g.lowerBitArraySegment(seg, st)
	app, ok := out.(*nixir.App)
	require.True(t, ok)
	require.Equal(t, "stringBits", app.Fun.(*nixir.Var).Name)
	require.True(t, g.Tracker.StringBits)
	require.False(t, g.Tracker.SizedInt)
}

func TestLowerBitArraySegmentUtfCodepointUsesCodepointBits(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	seg := typedast.BitArraySegment{
		Value:   typedast.NewInt(srcspan.Span{}, gtype.Int, "128512"),
		Options: []typedast.BitArraySegmentOption{{Name: "utf_codepoint"}},
	}
	out := g.lowerBitArraySegment(seg, st)
	app, ok := out.(*nixir.App)
	require.True(t, ok)
	require.Equal(t, "codepointBits", app.Fun.(*nixir.Var).Name)
	require.True(t, g.Tracker.CodepointBits)
}

func TestLowerBitArrayWrapsSegmentsInToBitArrayCall(t *testing.T) {
	g := newGen()
	st := &scopeStack{}
	e := &typedast.BitArray{Segments: []typedast.BitArraySegment{
		{Value: typedast.NewInt(srcspan.Span{}, gtype.Int, "1")},
		{Value: typedast.NewInt(srcspan.Span{}, gtype.Int, "2")},
	}}
	out := g.lowerBitArray(e, st)
	app, ok := out.(*nixir.App)
	require.True(t, ok)
	require.Equal(t, "toBitArray", app.Fun.(*nixir.Var).Name)
	list, ok := app.Args[0].(*nixir.List)
	require.True(t, ok)
	require.Len(t, list.Elements, 2)
	require.True(t, g.Tracker.ToBitArray)
}
