// Package pkgmanifest implements the manifest.toml round-trip spec.md §6
// ("Manifest") and §8 property 4 call for: packages sorted by name on a
// single line each, requirements sorted by name, patches flattened unless
// renaming. Grounded on
// _examples/original_source/compiler-core/src/manifest.rs, whose
// hand-written `to_toml` the teacher's own config layer has no analogue
// for (ailang has no package manager), so the shape is carried across
// from the original rather than adapted from teacher code.
package pkgmanifest

import (
	"fmt"
	"strings"
)

// Requirement is one dependency's version/source constraint, as it appears
// on the right-hand side of a `[dependencies]` entry: either a bare string
// (a Hex version constraint) or an inline table naming a path or git
// source. TOML doesn't have tagged unions, so decoding dispatches on the
// concrete value's shape via UnmarshalTOML.
type Requirement struct {
	Hex  string // e.g. ">= 1.0.0", set when this requirement is a plain string
	Path string
	Git  string
}

// UnmarshalTOML implements BurntSushi/toml's Unmarshaler hook so a
// Requirement can be decoded from either a bare string or an inline table,
// mirroring the Rust `Requirement` enum's serde(untagged)-like behaviour.
func (r *Requirement) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		r.Hex = v
		return nil
	case map[string]interface{}:
		if p, ok := v["path"].(string); ok {
			r.Path = p
			return nil
		}
		if g, ok := v["git"].(string); ok {
			r.Git = g
			return nil
		}
		if h, ok := v["version"].(string); ok {
			r.Hex = h
			return nil
		}
		return fmt.Errorf("requirement table must have a version, path, or git key")
	default:
		return fmt.Errorf("requirement must be a string or table, got %T", data)
	}
}

// ToTOML renders one Requirement the way manifest.rs's `Requirement::to_toml`
// does: a quoted string for Hex, `{ path = "..." }` / `{ git = "..." }`
// otherwise.
func (r Requirement) ToTOML() string {
	switch {
	case r.Path != "":
		return fmt.Sprintf("{ path = %q }", r.Path)
	case r.Git != "":
		return fmt.Sprintf("{ git = %q }", r.Git)
	default:
		return fmt.Sprintf("%q", r.Hex)
	}
}

// Equal reports whether two requirements denote the same constraint, used
// by StalePackageRemover to decide whether a dependency's requirement has
// changed since the last lock.
func (r Requirement) Equal(other Requirement) bool {
	return r.Hex == other.Hex && r.Path == other.Path && r.Git == other.Git
}

func (r Requirement) String() string {
	var parts []string
	if r.Hex != "" {
		parts = append(parts, "hex="+r.Hex)
	}
	if r.Path != "" {
		parts = append(parts, "path="+r.Path)
	}
	if r.Git != "" {
		parts = append(parts, "git="+r.Git)
	}
	return strings.Join(parts, ",")
}
