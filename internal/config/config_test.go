package config

import (
	"testing"

	"github.com/glistix/glistix-core/internal/pkgmanifest"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/stretchr/testify/require"
)

func TestReadDefaultsTargetAndVersion(t *testing.T) {
	probs := problems.New()
	cfg, ok := Read(`name = "my_app"`, probs)
	require.True(t, ok)
	require.False(t, probs.HasErrors())
	require.Equal(t, TargetErlang, cfg.Target)
	require.Equal(t, "0.1.0", cfg.Version)
}

func TestReadTargetNix(t *testing.T) {
	probs := problems.New()
	cfg, ok := Read("name = \"my_app\"\ntarget = \"nix\"\n", probs)
	require.True(t, ok)
	require.Equal(t, TargetNix, cfg.Target)
}

func TestReadInvalidNameUppercase(t *testing.T) {
	probs := problems.New()
	_, ok := Read(`name = "MyApp"`, probs)
	require.False(t, ok)
	require.Equal(t, problems.CFG004InvalidProjectNameFormat, probs.Errors()[0].Code)
}

func TestReadInvalidNameGleamPrefix(t *testing.T) {
	probs := problems.New()
	_, ok := Read(`name = "gleam_thing"`, probs)
	require.False(t, ok)
}

func TestReadInvalidNameErlangReservedWord(t *testing.T) {
	probs := problems.New()
	_, ok := Read(`name = "case"`, probs)
	require.False(t, ok)
}

func TestReadDependenciesParsed(t *testing.T) {
	probs := problems.New()
	cfg, ok := Read(`
name = "my_app"

[dependencies]
gleam_stdlib = ">= 0.34.0 and < 1.0.0"
local_lib = { path = "../local_lib" }
`, probs)
	require.True(t, ok)
	require.Equal(t, ">= 0.34.0 and < 1.0.0", cfg.Dependencies["gleam_stdlib"].Hex)
	require.Equal(t, "../local_lib", cfg.Dependencies["local_lib"].Path)
}

func TestAllDirectDependenciesDetectsDuplicate(t *testing.T) {
	cfg := &PackageConfig{
		Dependencies:    Dependencies{"x": {Hex: ">= 1.0.0"}},
		DevDependencies: Dependencies{"x": {Hex: ">= 2.0.0"}},
	}
	probs := problems.New()
	all := cfg.AllDirectDependencies(probs)
	require.True(t, probs.HasErrors())
	require.Equal(t, problems.CFG001DuplicateDependency, probs.Errors()[0].Code)
	require.Contains(t, all, "x")
}

func TestIsInternalModuleDefaultGlobs(t *testing.T) {
	cfg := &PackageConfig{Name: "my_app"}
	require.True(t, cfg.IsInternalModule("my_app/internal"))
	require.True(t, cfg.IsInternalModule("my_app/internal/foo"))
	require.False(t, cfg.IsInternalModule("my_app/public"))
}

func TestIsInternalModuleCustomGlobs(t *testing.T) {
	cfg := &PackageConfig{Name: "my_app", InternalModules: []string{"my_app/secret"}}
	require.True(t, cfg.IsInternalModule("my_app/secret"))
	require.False(t, cfg.IsInternalModule("my_app/internal"))
}

func TestCheckGleamCompatibility(t *testing.T) {
	cfg := &PackageConfig{Name: "my_app", GleamVersion: ">= 1.0.0 and < 2.0.0"}
	probs := problems.New()
	require.True(t, cfg.CheckGleamCompatibility("1.5.0", probs))
	require.False(t, probs.HasErrors())

	probs = problems.New()
	require.False(t, cfg.CheckGleamCompatibility("2.1.0", probs))
	require.Equal(t, problems.CFG003IncompatibleCompiler, probs.Errors()[0].Code)
}

func TestSatisfiesPessimisticOperator(t *testing.T) {
	require.True(t, Satisfies("~> 1.2", "1.2.5"))
	require.False(t, Satisfies("~> 1.2", "2.0.0"))
}

func TestLockedRecursesIntoDependencyTree(t *testing.T) {
	cfg := &PackageConfig{
		Name:         "my_app",
		Dependencies: Dependencies{"a": {Hex: "~> 1.0"}},
	}
	manifest := &pkgmanifest.Manifest{
		Requirements: map[string]pkgmanifest.Requirement{"a": {Hex: "~> 1.0"}},
		Packages: []pkgmanifest.ManifestPackage{
			{Name: "a", Version: "1.0.0", Requirements: []string{"b"}},
			{Name: "b", Version: "3.0.0"},
		},
	}
	locked := cfg.Locked(manifest)
	require.Equal(t, "1.0.0", locked["a"])
	require.Equal(t, "3.0.0", locked["b"])
}

func TestLockedUnlocksChangedRequirement(t *testing.T) {
	cfg := &PackageConfig{
		Name:         "my_app",
		Dependencies: Dependencies{"a": {Hex: "~> 2.0"}},
	}
	manifest := &pkgmanifest.Manifest{
		Requirements: map[string]pkgmanifest.Requirement{"a": {Hex: "~> 1.0"}},
		Packages: []pkgmanifest.ManifestPackage{
			{Name: "a", Version: "1.0.0"},
		},
	}
	locked := cfg.Locked(manifest)
	require.Empty(t, locked)
}
