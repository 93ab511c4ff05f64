package pkgmanifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/glistix/glistix-core/internal/problems"
)

// ManifestPackageSource is the one-of {hex, git, local} origin a locked
// package was resolved from, spec.md §6's
// `source ∈ {hex{outer_checksum}, git{repo, commit}, local{path}}`.
type ManifestPackageSource struct {
	Kind string // "hex", "git", or "local"

	// Hex
	OuterChecksum string

	// Git
	Repo   string
	Commit string

	// Local
	Path string
}

// ManifestPackage is one locked dependency entry.
type ManifestPackage struct {
	Name         string
	Version      string
	BuildTools   []string
	OtpApp       string
	Requirements []string
	Source       ManifestPackageSource
}

// GlistixPatch renames or re-sources a package recursively, mirroring
// internal/config's GlistixPatch. Duplicated here rather than imported:
// internal/config already imports pkgmanifest for Requirement, so importing
// config back would cycle; the original Rust avoids this because
// manifest.rs simply reuses config::GlistixPatches directly (Rust modules
// within one crate don't have Go's per-package import-cycle restriction).
type GlistixPatch struct {
	Name   string
	Source Requirement
}

// Manifest is the parsed or about-to-be-written manifest.toml contents.
type Manifest struct {
	Requirements map[string]Requirement
	Packages     []ManifestPackage
	// GlistixPatches records [glistix.preview.patch] at the time the
	// manifest was generated, so StalePackageRemover can detect when the
	// project's active patches have since changed.
	GlistixPatches map[string]GlistixPatch
}

// rawManifest is the intermediate TOML shape BurntSushi/toml can decode
// into directly; Manifest itself uses richer Go types (slices of structs
// rather than TOML's array-of-tables idiom) that aren't worth round-tripping
// through toml struct tags given the hand-written writer below.
type rawManifest struct {
	Requirements map[string]Requirement `toml:"requirements"`
	Packages     []rawPackage            `toml:"packages"`
	Glistix      struct {
		Preview struct {
			Patch map[string]rawPatch `toml:"patch"`
		} `toml:"preview"`
	} `toml:"glistix"`
}

type rawPackage struct {
	Name          string   `toml:"name"`
	Version       string   `toml:"version"`
	BuildTools    []string `toml:"build_tools"`
	OtpApp        string   `toml:"otp_app"`
	Requirements  []string `toml:"requirements"`
	Source        string   `toml:"source"`
	OuterChecksum string   `toml:"outer_checksum"`
	Repo          string   `toml:"repo"`
	Commit        string   `toml:"commit"`
	Path          string   `toml:"path"`
}

type rawPatch struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Path    string `toml:"path"`
	Git     string `toml:"git"`
}

func corruptManifestError(probs *problems.Problems, detail string) {
	probs.Error(&problems.Diagnostic{
		Code:    problems.CFG002CorruptManifest,
		Phase:   "manifest",
		Message: fmt.Sprintf("corrupt manifest.toml: %s", detail),
	})
}

// Parse decodes manifest.toml contents. Parse failures are recorded into
// probs as CFG002CorruptManifest rather than returned as a bare Go error,
// matching the analyser's fault-tolerant error-accumulation convention used
// module-wide.
func Parse(src string, probs *problems.Problems) (*Manifest, bool) {
	var raw rawManifest
	if _, err := toml.Decode(src, &raw); err != nil {
		corruptManifestError(probs, err.Error())
		return nil, false
	}

	m := &Manifest{
		Requirements:   raw.Requirements,
		GlistixPatches: map[string]GlistixPatch{},
	}
	for name, p := range raw.Glistix.Preview.Patch {
		m.GlistixPatches[name] = GlistixPatch{
			Name: p.Name,
			Source: Requirement{
				Hex:  p.Version,
				Path: p.Path,
				Git:  p.Git,
			},
		}
	}
	for _, rp := range raw.Packages {
		pkg := ManifestPackage{
			Name:         rp.Name,
			Version:      rp.Version,
			BuildTools:   rp.BuildTools,
			OtpApp:       rp.OtpApp,
			Requirements: rp.Requirements,
		}
		switch rp.Source {
		case "hex":
			pkg.Source = ManifestPackageSource{Kind: "hex", OuterChecksum: rp.OuterChecksum}
		case "git":
			pkg.Source = ManifestPackageSource{Kind: "git", Repo: rp.Repo, Commit: rp.Commit}
		case "local":
			pkg.Source = ManifestPackageSource{Kind: "local", Path: rp.Path}
		default:
			corruptManifestError(probs, fmt.Sprintf("package %q has unknown source %q", rp.Name, rp.Source))
			return nil, false
		}
		m.Packages = append(m.Packages, pkg)
	}
	return m, true
}

// ToTOML renders the manifest the way manifest.rs's hand-written `to_toml`
// does rather than via a generic TOML marshaller: one line per package,
// one line per requirement, both lists sorted by name, so the file stays
// merge-friendly and diff-stable across regenerations (spec.md §8
// property 4).
func (m *Manifest) ToTOML() string {
	var b strings.Builder
	b.WriteString("# This file was generated by Glistix\n")
	b.WriteString("# You typically do not need to edit this file\n\n")

	b.WriteString("packages = [\n")
	packages := make([]ManifestPackage, len(m.Packages))
	copy(packages, m.Packages)
	sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })
	for _, p := range packages {
		b.WriteString("  { name = ")
		b.WriteString(fmt.Sprintf("%q", p.Name))
		b.WriteString(", version = ")
		b.WriteString(fmt.Sprintf("%q", p.Version))
		b.WriteString(", build_tools = [")
		for i, t := range p.BuildTools {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("%q", t))
		}
		b.WriteString("], requirements = [")
		reqs := make([]string, len(p.Requirements))
		copy(reqs, p.Requirements)
		sort.Strings(reqs)
		for i, r := range reqs {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("%q", r))
		}
		b.WriteString("]")
		if p.OtpApp != "" {
			b.WriteString(", otp_app = ")
			b.WriteString(fmt.Sprintf("%q", p.OtpApp))
		}
		switch p.Source.Kind {
		case "hex":
			b.WriteString(fmt.Sprintf(`, source = "hex", outer_checksum = %q`, p.Source.OuterChecksum))
		case "git":
			b.WriteString(fmt.Sprintf(`, source = "git", repo = %q, commit = %q`, p.Source.Repo, p.Source.Commit))
		case "local":
			b.WriteString(fmt.Sprintf(`, source = "local", path = %q`, p.Source.Path))
		}
		b.WriteString(" },\n")
	}
	b.WriteString("]\n\n")

	b.WriteString("[requirements]\n")
	names := make([]string, 0, len(m.Requirements))
	for name := range m.Requirements {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(m.Requirements[name].ToTOML())
		b.WriteString("\n")
	}

	if len(m.GlistixPatches) > 0 {
		b.WriteString("\n[glistix.preview.patch]\n")
		pnames := make([]string, 0, len(m.GlistixPatches))
		for name := range m.GlistixPatches {
			pnames = append(pnames, name)
		}
		sort.Strings(pnames)
		for _, name := range pnames {
			patch := m.GlistixPatches[name]
			b.WriteString(name)
			b.WriteString(" = ")
			if patch.Name != "" {
				b.WriteString(fmt.Sprintf("{ name = %q, ", patch.Name))
				b.WriteString(strings.TrimPrefix(patch.Source.ToTOML(), "{ "))
			} else {
				b.WriteString(patch.Source.ToTOML())
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
