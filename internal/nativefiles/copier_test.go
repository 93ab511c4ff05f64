package nativefiles

import (
	"testing"
	"time"

	"github.com/glistix/glistix-core/internal/problems"
	"github.com/stretchr/testify/require"
)

func TestCheckIgnoresUnknownExtension(t *testing.T) {
	c := NewChecker()
	probs := problems.New()
	result := c.Check([]Entry{{RelativePath: "src/readme.md"}}, probs)
	require.False(t, probs.HasErrors())
	require.Empty(t, result.Decisions)
}

func TestCheckMarksErlAndExForCompile(t *testing.T) {
	c := NewChecker()
	probs := problems.New()
	result := c.Check([]Entry{
		{RelativePath: "src/foo.erl"},
		{RelativePath: "src/bar.ex"},
		{RelativePath: "src/baz.nix"},
	}, probs)
	require.False(t, probs.HasErrors())
	require.ElementsMatch(t, []string{"src/foo.erl", "src/bar.ex"}, result.ToCompile)
	require.True(t, result.AnyElixir)
}

func TestCheckSkipsUnchangedFile(t *testing.T) {
	c := NewChecker()
	probs := problems.New()
	older := time.Unix(1000, 0)
	newer := time.Unix(2000, 0)
	result := c.Check([]Entry{
		{RelativePath: "src/foo.erl", DestExists: true, SrcModTime: older, DestModTime: newer},
	}, probs)
	require.False(t, probs.HasErrors())
	require.True(t, result.Decisions[0].Skip)
	require.Empty(t, result.ToCompile)
}

func TestCheckDuplicateNativeFile(t *testing.T) {
	c := NewChecker()
	probs := problems.New()
	c.Check([]Entry{{RelativePath: "src/foo.nix"}, {RelativePath: "src/foo.nix"}}, probs)
	require.True(t, probs.HasErrors())
	require.Equal(t, problems.NTV001DuplicateSourceFile, probs.Errors()[0].Code)
}

func TestCheckGleamClashesWithHandWrittenMjs(t *testing.T) {
	c := NewChecker()
	probs := problems.New()
	c.Check([]Entry{
		{RelativePath: "src/foo.gleam"},
		{RelativePath: "src/foo.mjs"},
	}, probs)
	require.True(t, probs.HasErrors())
	require.Equal(t, problems.NTV002ClashingGleamAndNative, probs.Errors()[0].Code)
}

func TestCheckDuplicateErlangModuleAcrossSubdirs(t *testing.T) {
	c := NewChecker()
	probs := problems.New()
	c.Check([]Entry{
		{RelativePath: "src/a/shared.erl"},
		{RelativePath: "src/b/shared.erl"},
	}, probs)
	require.True(t, probs.HasErrors())
	require.Equal(t, problems.NTV003DuplicateErlangModule, probs.Errors()[0].Code)
}

func TestCheckDifferentMjsSubpathsDoNotClash(t *testing.T) {
	c := NewChecker()
	probs := problems.New()
	c.Check([]Entry{
		{RelativePath: "src/a/util.mjs"},
		{RelativePath: "src/b/util.mjs"},
	}, probs)
	require.False(t, probs.HasErrors())
}
