package nixgen

import (
	"github.com/glistix/glistix-core/internal/nixir"
	"github.com/glistix/glistix-core/internal/typedast"
)

// lowerBitArray encodes a bit-array literal as `toBitArray [ seg1 seg2 ... ]`
// where each segment is pre-expanded to its byte sequence by one of the
// prelude's segment helpers (spec.md §4.7's bit-array polyfills:
// sizedInt/stringBits/codepointBits), matching the teacher's own pattern
// of giving each literal kind its own small runtime helper rather than
// inlining the bit-twiddling into every call site.
func (g *Generator) lowerBitArray(e *typedast.BitArray, st *scopeStack) nixir.Expr {
	g.Tracker.ToBitArray = true
	segs := make([]nixir.Expr, len(e.Segments))
	for i, seg := range e.Segments {
		segs[i] = g.lowerBitArraySegment(seg, st)
	}
	return &nixir.App{Fun: &nixir.Var{Name: "toBitArray"}, Args: []nixir.Expr{&nixir.List{Elements: segs}}}
}

func (g *Generator) lowerBitArraySegment(seg typedast.BitArraySegment, st *scopeStack) nixir.Expr {
	value := g.lowerExpr(seg.Value, st)

	var sizeArg nixir.Expr
	littleEndian := false
	for _, opt := range seg.Options {
		switch opt.Name {
		case "utf8":
			g.Tracker.StringBits = true
			return &nixir.App{Fun: &nixir.Var{Name: "stringBits"}, Args: []nixir.Expr{value}}
		case "utf_codepoint":
			g.Tracker.CodepointBits = true
			return &nixir.App{Fun: &nixir.Var{Name: "codepointBits"}, Args: []nixir.Expr{value}}
		case "size":
			if opt.Arg != nil {
				sizeArg = g.lowerExpr(opt.Arg, st)
			}
		case "little":
			littleEndian = true
		}
	}
	if sizeArg == nil {
		sizeArg = &nixir.Int{Text: "8"}
	}
	g.Tracker.SizedInt = true
	return &nixir.App{
		Fun: &nixir.Var{Name: "sizedInt"},
		Args: []nixir.Expr{value, sizeArg, &nixir.Bool{Value: littleEndian}},
	}
}
