package nixgen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitiseIdentKeyword(t *testing.T) {
	require.Equal(t, "let'", SanitiseIdent("let"))
	require.Equal(t, "rec'", SanitiseIdent("rec"))
}

func TestSanitiseIdentLeadingUnderscoreOrDigit(t *testing.T) {
	require.Equal(t, "_foo'", SanitiseIdent("_foo"))
	require.Equal(t, "1x'", SanitiseIdent("1x"))
}

func TestSanitiseIdentPlainNameUnchanged(t *testing.T) {
	require.Equal(t, "my_value", SanitiseIdent("my_value"))
}

func TestSanitiseIdentIsIdempotent(t *testing.T) {
	once := SanitiseIdent("let")
	require.Equal(t, once, SanitiseIdent(once))
}

func TestSanitisePathAddsRelativePrefix(t *testing.T) {
	require.Equal(t, "./gleam/list.nix", SanitisePath("gleam/list.nix"))
}

func TestSanitisePathLeavesExplicitRelativeAlone(t *testing.T) {
	require.Equal(t, "../sibling.nix", SanitisePath("../sibling.nix"))
}

func TestValidExternalNixModule(t *testing.T) {
	require.True(t, ValidExternalNixModule("./local.nix"))
	require.True(t, ValidExternalNixModule("<nixpkgs>"))
	require.False(t, ValidExternalNixModule("~/home.nix"))
	require.False(t, ValidExternalNixModule("bare"))
}

func TestValidExternalNixFunction(t *testing.T) {
	require.True(t, ValidExternalNixFunction("my_func"))
	require.True(t, ValidExternalNixFunction("_private"))
	require.False(t, ValidExternalNixFunction("1bad"))
}

func TestSanitiseStringEscapesInterpolation(t *testing.T) {
	out := SanitiseString(`has ${interp} and "quotes"`)
	require.Equal(t, `has \${interp} and \"quotes\"`, out)
}

func TestEscapeSequenceRewriteFormFeed(t *testing.T) {
	interior, used := EscapeSequenceRewrite(`a\fb`)
	require.True(t, used)
	require.Equal(t, `a${parseEscape "\\f"}b`, interior)
}

func TestEscapeSequenceRewriteUnicodeDoesNotDoubleEscape(t *testing.T) {
	interior, used := EscapeSequenceRewrite(`x\u{1F600}y`)
	require.True(t, used)
	require.Equal(t, `x${parseEscape "\\u{1F600}"}y`, interior)
	require.NotContains(t, interior, `\$`)
}

func TestEscapeSequenceRewriteNoEscapesPassesThrough(t *testing.T) {
	interior, used := EscapeSequenceRewrite(`plain text`)
	require.False(t, used)
	require.Equal(t, "plain text", interior)
}
