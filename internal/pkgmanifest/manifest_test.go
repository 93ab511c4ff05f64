package pkgmanifest

import (
	"testing"

	"github.com/glistix/glistix-core/internal/problems"
	"github.com/stretchr/testify/require"
)

func TestParseManifestRoundTrip(t *testing.T) {
	src := `packages = [
  { name = "gleam_stdlib", version = "0.34.0", build_tools = ["gleam"], requirements = [], source = "hex", outer_checksum = "ABCD" },
]

[requirements]
gleam_stdlib = ">= 0.34.0 and < 1.0.0"
`
	probs := problems.New()
	m, ok := Parse(src, probs)
	require.True(t, ok)
	require.False(t, probs.HasErrors())
	require.Len(t, m.Packages, 1)
	require.Equal(t, "gleam_stdlib", m.Packages[0].Name)
	require.Equal(t, "hex", m.Packages[0].Source.Kind)
	require.Equal(t, "ABCD", m.Packages[0].Source.OuterChecksum)
	require.Equal(t, ">= 0.34.0 and < 1.0.0", m.Requirements["gleam_stdlib"].Hex)
}

func TestParseManifestInvalidSourceIsCorrupt(t *testing.T) {
	src := `packages = [
  { name = "x", version = "1.0.0", build_tools = [], requirements = [], source = "nonsense" },
]

[requirements]
`
	probs := problems.New()
	_, ok := Parse(src, probs)
	require.False(t, ok)
	require.True(t, probs.HasErrors())
	require.Equal(t, problems.CFG002CorruptManifest, probs.Errors()[0].Code)
}

func TestParseManifestMalformedTOMLIsCorrupt(t *testing.T) {
	probs := problems.New()
	_, ok := Parse("not = [valid", probs)
	require.False(t, ok)
	require.True(t, probs.HasErrors())
}

func TestManifestToTOMLSortsPackagesAndRequirements(t *testing.T) {
	m := &Manifest{
		Requirements: map[string]Requirement{
			"zeta": {Hex: ">= 1.0.0"},
			"alfa": {Hex: ">= 2.0.0"},
		},
		Packages: []ManifestPackage{
			{Name: "zeta", Version: "1.0.0", BuildTools: []string{"gleam"}, Source: ManifestPackageSource{Kind: "hex", OuterChecksum: "AA"}},
			{Name: "alfa", Version: "2.0.0", BuildTools: []string{"gleam"}, Requirements: []string{"zeta", "beta"}, Source: ManifestPackageSource{Kind: "local", Path: "../alfa"}},
		},
	}
	out := m.ToTOML()
	alfaIdx := indexOf(out, `name = "alfa"`)
	zetaIdx := indexOf(out, `name = "zeta"`)
	require.True(t, alfaIdx >= 0 && zetaIdx > alfaIdx)
	require.Contains(t, out, `requirements = ["beta", "zeta"]`)
	reqAlfa := indexOf(out, "alfa = ")
	reqZeta := indexOf(out, "zeta = ")
	require.True(t, reqAlfa >= 0 && reqZeta > reqAlfa)
	require.Contains(t, out, `source = "local", path = "../alfa"`)
}

func TestManifestToTOMLPatchWithRename(t *testing.T) {
	m := &Manifest{
		Requirements:   map[string]Requirement{},
		GlistixPatches: map[string]GlistixPatch{"old_pkg": {Name: "new_pkg", Source: Requirement{Path: "../vendored"}}},
	}
	out := m.ToTOML()
	require.Contains(t, out, "[glistix.preview.patch]")
	require.Contains(t, out, `old_pkg = { name = "new_pkg", path = "../vendored" }`)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
