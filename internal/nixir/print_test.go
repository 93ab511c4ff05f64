package nixir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintSimpleModule(t *testing.T) {
	mod := &Module{
		PreludePath: "./gleam.nix",
		Imports: []Import{
			{Path: "./gleam.nix", Names: []ImportedName{{Name: "toList"}}},
		},
		Definitions: []Definition{
			{Name: "add", Value: &Lambda{Param: "x", Body: &Lambda{Param: "y", Body: &BinOp{Op: "+", Left: &Var{Name: "x"}, Right: &Var{Name: "y"}}}}},
		},
		Exports: []string{"add"},
	}
	out := Print(mod)
	require.Contains(t, out, "inherit (builtins.import ./gleam.nix) toList;")
	require.Contains(t, out, "add = x: y: x + y;")
	require.Contains(t, out, "inherit add;")
}

func TestWrapChildParenthesisesCall(t *testing.T) {
	app := &App{Fun: &Var{Name: "f"}, Args: []Expr{&Int{Text: "1"}}}
	out := wrapChild(app, 0)
	require.Equal(t, "(f 1)", out)
}

func TestWrapChildLeavesVarUnparenthesised(t *testing.T) {
	out := wrapChild(&Var{Name: "x"}, 0)
	require.Equal(t, "x", out)
}

func TestWrapChildParenthesisesNegativeInt(t *testing.T) {
	out := wrapChild(&Int{Text: "-1"}, 0)
	require.Equal(t, "(-1)", out)
}

func TestWrapChildParenthesisesParsedInt(t *testing.T) {
	out := wrapChild(&Int{Text: "0xFF", Parse: true}, 0)
	require.Equal(t, "(parseNumber \"0xFF\")", out)
}

func TestPrintIfElse(t *testing.T) {
	expr := &If{Cond: &Bool{Value: true}, Then: &Int{Text: "1"}, Else: &Int{Text: "2"}}
	out := printExpr(expr, 0)
	require.Equal(t, "if true then 1 else 2", out)
}

func TestPrintLetIn(t *testing.T) {
	expr := &LetIn{
		Bindings: []Binding{{Name: "x", Value: &Int{Text: "1"}}},
		Body:     &Var{Name: "x"},
	}
	out := printExpr(expr, 0)
	require.Contains(t, out, "let")
	require.Contains(t, out, "x = 1;")
	require.Contains(t, out, "in")
}

func TestPrintAttrsFieldOrderPreserved(t *testing.T) {
	attrs := &Attrs{Fields: []Field{
		{Key: "__gleamTag", Value: &Str{Value: "Some"}},
		{Key: "_0", Value: &Int{Text: "1"}},
	}}
	out := printExpr(attrs, 0)
	tagIdx := indexOf(out, "__gleamTag")
	fieldIdx := indexOf(out, "_0")
	require.True(t, tagIdx >= 0 && fieldIdx > tagIdx)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestSanitiseKeywordKey(t *testing.T) {
	require.Equal(t, `"if"`, quoteKeyIfNeeded("if"))
	require.Equal(t, "x", quoteKeyIfNeeded("x"))
}
