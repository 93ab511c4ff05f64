// Package config implements project-config round-tripping: glistix.toml's
// [MODULE]-equivalent in spec.md §6 ("Project config"). Grounded on
// _examples/original_source/compiler-core/src/config.rs's `PackageConfig`
// (fields, defaults, `is_internal_module`, `check_gleam_compatibility`,
// `all_direct_dependencies`) and `compiler-cli/src/config.rs` (the
// read-from-disk entry point), translated from serde field attributes to
// BurntSushi/toml struct tags and from pubgrub version ranges to a small
// hand-rolled comparator (see version.go) since no semver library appears
// anywhere in the example pack.
package config

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/glistix/glistix-core/internal/pkgmanifest"
	"github.com/glistix/glistix-core/internal/problems"
)

// Target is the compilation backend a package targets, spec.md §6's
// `target ∈ {erlang, javascript, nix}`.
type Target string

const (
	TargetErlang     Target = "erlang"
	TargetJavaScript Target = "javascript"
	TargetNix        Target = "nix"
)

// Dependencies maps a package name to its version/source requirement.
type Dependencies = map[string]pkgmanifest.Requirement

// GlistixPatch renames or re-sources a dependency recursively — see
// config.rs's GlistixPatch and its `patch_req_hash_map`.
type GlistixPatch struct {
	Name   string
	Source pkgmanifest.Requirement
}

// GlistixPreviewConfig is `[glistix.preview]`.
type GlistixPreviewConfig struct {
	HexPatch      Dependencies
	LocalOverrides []string
	Patch         map[string]GlistixPatch
}

// GlistixConfig is `[glistix]`.
type GlistixConfig struct {
	Preview GlistixPreviewConfig
}

// PackageConfig is glistix.toml's decoded contents.
type PackageConfig struct {
	Name             string
	Version          string
	GleamVersion     string
	Description      string
	Dependencies     Dependencies
	DevDependencies  Dependencies
	Target           Target
	InternalModules  []string
	Glistix          GlistixConfig
}

var projectNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var erlangReservedWords = map[string]bool{
	"after": true, "and": true, "andalso": true, "band": true, "begin": true,
	"bnot": true, "bor": true, "bsl": true, "bsr": true, "bxor": true,
	"case": true, "catch": true, "cond": true, "div": true, "end": true,
	"fun": true, "if": true, "let": true, "not": true, "of": true, "or": true,
	"orelse": true, "receive": true, "rem": true, "try": true, "when": true,
	"xor": true,
}

var erlangStdlibModules = map[string]bool{
	"lists": true, "string": true, "maps": true, "dict": true, "io": true,
	"erlang": true, "gen_server": true, "supervisor": true, "calendar": true,
}

var gleamReservedWords = map[string]bool{
	"as": true, "assert": true, "auto": true, "case": true, "const": true,
	"delegate": true, "derive": true, "echo": true, "else": true, "external": true,
	"fn": true, "if": true, "implement": true, "import": true, "let": true,
	"macro": true, "opaque": true, "panic": true, "pub": true, "test": true,
	"todo": true, "type": true, "use": true,
}

var gleamReservedModules = map[string]bool{"gleam": true, "glistix": true}

// rawConfig mirrors PackageConfig's TOML shape before defaulting.
type rawConfig struct {
	Name            string                  `toml:"name"`
	Version         string                  `toml:"version"`
	Gleam           string                  `toml:"gleam"`
	Description     string                  `toml:"description"`
	Dependencies    Dependencies            `toml:"dependencies"`
	DevDependencies Dependencies            `toml:"dev-dependencies"`
	Target          string                  `toml:"target"`
	InternalModules []string                `toml:"internal_modules"`
	Glistix         struct {
		Preview struct {
			HexPatch       Dependencies            `toml:"hex-patch"`
			LocalOverrides []string                `toml:"local-overrides"`
			Patch          map[string]rawGlistixPatch `toml:"patch"`
		} `toml:"preview"`
	} `toml:"glistix"`
}

type rawGlistixPatch struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Path    string `toml:"path"`
	Git     string `toml:"git"`
}

func errf(probs *problems.Problems, code, format string, args ...any) {
	if probs == nil {
		return
	}
	probs.Error(&problems.Diagnostic{Code: code, Phase: "config", Message: fmt.Sprintf(format, args...)})
}

// Read decodes glistix.toml's contents and validates the project name,
// recording any violation into probs per the InvalidProjectName{...}
// taxonomy spec.md §7 lists. Returns (config, true) only once the name has
// been confirmed valid — callers that need partial results even on a
// naming violation should inspect probs directly instead.
func Read(src string, probs *problems.Problems) (*PackageConfig, bool) {
	var raw rawConfig
	if _, err := toml.Decode(src, &raw); err != nil {
		errf(probs, problems.CFG002CorruptManifest, "failed to parse glistix.toml: %s", err)
		return nil, false
	}

	cfg := &PackageConfig{
		Name:            raw.Name,
		Version:         raw.Version,
		GleamVersion:    raw.Gleam,
		Description:     raw.Description,
		Dependencies:    raw.Dependencies,
		DevDependencies: raw.DevDependencies,
		Target:          Target(raw.Target),
		InternalModules: raw.InternalModules,
	}
	if cfg.Version == "" {
		cfg.Version = "0.1.0"
	}
	if cfg.Target == "" {
		cfg.Target = TargetErlang
	}
	if cfg.Dependencies == nil {
		cfg.Dependencies = Dependencies{}
	}
	if cfg.DevDependencies == nil {
		cfg.DevDependencies = Dependencies{}
	}
	cfg.Glistix.Preview.HexPatch = raw.Glistix.Preview.HexPatch
	cfg.Glistix.Preview.LocalOverrides = raw.Glistix.Preview.LocalOverrides
	cfg.Glistix.Preview.Patch = map[string]GlistixPatch{}
	for name, p := range raw.Glistix.Preview.Patch {
		cfg.Glistix.Preview.Patch[name] = GlistixPatch{
			Name:   p.Name,
			Source: pkgmanifest.Requirement{Hex: p.Version, Path: p.Path, Git: p.Git},
		}
	}

	ok := validateProjectName(cfg.Name, probs)
	return cfg, ok
}

// validateProjectName reimplements the distinct InvalidProjectName variants
// spec.md §7 names: Format (doesn't match the name regex), NotLowercase,
// GleamPrefix, the two Erlang reserved-word/stdlib-module clashes, and the
// two Gleam reserved-word/module clashes.
func validateProjectName(name string, probs *problems.Problems) bool {
	ok := true
	if !projectNamePattern.MatchString(name) {
		if name != strings.ToLower(name) {
			errf(probs, problems.CFG004InvalidProjectNameFormat, "project name %q must be lowercase", name)
		} else {
			errf(probs, problems.CFG004InvalidProjectNameFormat, "project name %q must match ^[a-z][a-z0-9_]*$", name)
		}
		ok = false
	}
	if strings.HasPrefix(name, "gleam_") {
		errf(probs, problems.CFG004InvalidProjectNameFormat, "project name %q must not start with gleam_, reserved for the standard library", name)
		ok = false
	}
	if erlangReservedWords[name] {
		errf(probs, problems.CFG004InvalidProjectNameFormat, "project name %q is an Erlang reserved word", name)
		ok = false
	}
	if erlangStdlibModules[name] {
		errf(probs, problems.CFG004InvalidProjectNameFormat, "project name %q clashes with an Erlang standard library module", name)
		ok = false
	}
	if gleamReservedWords[name] {
		errf(probs, problems.CFG004InvalidProjectNameFormat, "project name %q is a Gleam reserved word", name)
		ok = false
	}
	if gleamReservedModules[name] {
		errf(probs, problems.CFG004InvalidProjectNameFormat, "project name %q clashes with a reserved module name", name)
		ok = false
	}
	return ok
}

// AllDirectDependencies merges dependencies and dev-dependencies, recording
// CFG001DuplicateDependency for any name present in both (config.rs's
// `all_direct_dependencies`).
func (c *PackageConfig) AllDirectDependencies(probs *problems.Problems) Dependencies {
	out := make(Dependencies, len(c.Dependencies)+len(c.DevDependencies))
	for name, req := range c.Dependencies {
		out[name] = req
	}
	for name, req := range c.DevDependencies {
		if _, exists := out[name]; exists {
			errf(probs, problems.CFG001DuplicateDependency, "dependency %q is listed in both dependencies and dev-dependencies", name)
			continue
		}
		out[name] = req
	}
	return out
}

// IsInternalModule reports whether module should be hidden from generated
// docs, per config.rs's is_internal_module. Falls back to
// `{name}/internal` and `{name}/internal/*` when InternalModules is unset,
// matching the teacher-absent default the original hard-codes.
func (c *PackageConfig) IsInternalModule(module string) bool {
	globs := c.InternalModules
	if globs == nil {
		globs = []string{c.Name + "/internal", c.Name + "/internal/*"}
	}
	for _, glob := range globs {
		if ok, _ := path.Match(glob, module); ok {
			return true
		}
	}
	return false
}

// CheckGleamCompatibility validates the compiler-version string against the
// config's `gleam` version range. Unlike the original's pubgrub-backed
// range, this core has no semver range library wired in (none appears in
// any example repo's dependency graph), so Satisfies (version.go)
// implements just the common operator set Gleam's own range syntax uses.
func (c *PackageConfig) CheckGleamCompatibility(compilerVersion string, probs *problems.Problems) bool {
	if c.GleamVersion == "" {
		return true
	}
	if Satisfies(c.GleamVersion, compilerVersion) {
		return true
	}
	errf(probs, problems.CFG003IncompatibleCompiler,
		"package %q requires gleam version %q, but the running compiler is %q",
		c.Name, c.GleamVersion, compilerVersion)
	return false
}
