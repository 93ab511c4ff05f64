package problems

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glistix/glistix-core/internal/srcspan"
)

func TestSessionIsStampedOnEveryDiagnostic(t *testing.T) {
	p := New()
	require.NotEmpty(t, p.Session())

	p.Error(&Diagnostic{Code: "TYP001", Phase: "typer", Message: "boom"})
	p.Warn(&Diagnostic{Code: "WRN001", Phase: "typer", Message: "heads up"})

	for _, d := range p.All() {
		require.Equal(t, p.Session(), d.Session)
	}
}

func TestMergeRestampsAbsorbedDiagnosticsWithOwnSession(t *testing.T) {
	owner := New()
	sub := New()
	sub.Error(&Diagnostic{Code: "TYP001", Phase: "typer", Message: "boom"})

	owner.Merge(sub)

	require.Len(t, owner.Errors(), 1)
	require.Equal(t, owner.Session(), owner.Errors()[0].Session)
	require.NotEqual(t, sub.Session(), owner.Errors()[0].Session)
}

func TestRenderColoursSeverityAndIncludesSpan(t *testing.T) {
	span := srcspan.NewSpan(4, 9)
	p := New()
	p.Error(&Diagnostic{Code: "TYP001", Phase: "typer", Message: "cannot unify", Span: &span})

	out := Render(p.Errors())
	require.Contains(t, out, "TYP001")
	require.Contains(t, out, "cannot unify")
	require.Contains(t, out, "(4..9)")
	require.True(t, strings.Contains(out, "error") || strings.Contains(out, "\x1b"))
}
