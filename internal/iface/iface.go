// Package iface is the published, immutable ModuleInterface spec.md §3
// describes: the only surface downstream modules see of a module they
// import. Shape is grounded on the teacher's internal/iface.Iface (a
// Schema-versioned struct with Exports/Constructors/Types maps plus a
// deterministic digest) generalised to carry the richer value-constructor
// variants, accessor maps, and per-module warning/unused-import bookkeeping
// spec.md §3's ModuleInterface row calls for.
package iface

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/srcspan"
)

const Schema = "glistix.iface/v1"

// ModuleInterface is the published surface of one analysed module.
// Immutable after Finalize: downstream modules hold it by value-of-pointer
// and must never mutate it (spec.md §5 "reads only immutable
// ModuleInterfaces of upstream modules").
type ModuleInterface struct {
	Schema  string `json:"schema"`
	Name    string `json:"name"`
	Package string `json:"package"`

	Types     map[string]*genv.TypeConstructor  `json:"types"`
	Values    map[string]*genv.ValueConstructor `json:"values"`
	Accessors map[string]*genv.AccessorsMap     `json:"-"` // not JSON-safe (holds gtype cells); re-derived on load if needed

	Origin        string   `json:"origin"` // "src" | "test"
	Internal      bool     `json:"is_internal"`
	UnusedImports []string `json:"unused_imports,omitempty"`

	SrcPath     string             `json:"src_path"`
	LineNumbers *srcspan.LineNumbers `json:"-"`

	Warnings []*problems.Diagnostic `json:"warnings,omitempty"`

	Digest string `json:"digest"`
}

// New creates an empty interface for module name in package pkg.
func New(pkg, name, srcPath, origin string, isInternal bool) *ModuleInterface {
	return &ModuleInterface{
		Schema:     Schema,
		Name:       name,
		Package:    pkg,
		Types:      map[string]*genv.TypeConstructor{},
		Values:     map[string]*genv.ValueConstructor{},
		Accessors:  map[string]*genv.AccessorsMap{},
		Origin:     origin,
		Internal:   isInternal,
		SrcPath:    srcPath,
	}
}

// LookupValue implements genv.ModuleInterfaceRef.
func (m *ModuleInterface) LookupValue(name string) (*genv.ValueConstructor, bool) {
	vc, ok := m.Values[name]
	return vc, ok
}

// LookupType implements genv.ModuleInterfaceRef.
func (m *ModuleInterface) LookupType(name string) (*genv.TypeConstructor, bool) {
	tc, ok := m.Types[name]
	return tc, ok
}

// LookupAccessors implements genv.ModuleInterfaceRef.
func (m *ModuleInterface) LookupAccessors(name string) (*genv.AccessorsMap, bool) {
	am, ok := m.Accessors[name]
	return am, ok
}

// PackageName implements genv.ModuleInterfaceRef.
func (m *ModuleInterface) PackageName() string { return m.Package }

// IsInternal implements genv.ModuleInterfaceRef.
func (m *ModuleInterface) IsInternal() bool { return m.Internal }

var _ genv.ModuleInterfaceRef = (*ModuleInterface)(nil)

// Finalize computes the deterministic digest spec.md §8 property 8
// (diagnostics determinism) extends naturally to interfaces: the same
// module compiled twice must publish byte-identical interfaces. Call once
// analysis of the module has completed.
func (m *ModuleInterface) Finalize() {
	sort.Strings(m.UnusedImports)
	data, _ := json.Marshal(publicSnapshot(m))
	sum := sha256.Sum256(data)
	m.Digest = hex.EncodeToString(sum[:])
}

// publicSnapshot renders only the publicly-visible parts of m in sorted-key
// form, so Finalize's digest does not depend on map iteration order or on
// fields (like SrcPath) that are legitimately machine-specific.
func publicSnapshot(m *ModuleInterface) map[string]any {
	typeNames := make([]string, 0, len(m.Types))
	for n, tc := range m.Types {
		if tc.Publicity == gtype.Private {
			continue
		}
		typeNames = append(typeNames, n)
	}
	sort.Strings(typeNames)

	valueNames := make([]string, 0, len(m.Values))
	for n, vc := range m.Values {
		if vc.Publicity == gtype.Private {
			continue
		}
		valueNames = append(valueNames, n)
	}
	sort.Strings(valueNames)

	values := make(map[string]string, len(valueNames))
	for _, n := range valueNames {
		values[n] = m.Values[n].Type.String()
	}

	return map[string]any{
		"schema":  m.Schema,
		"name":    m.Name,
		"package": m.Package,
		"types":   typeNames,
		"values":  values,
	}
}

// IsImportable reports whether a name registered with the given publicity
// can be imported from another module in fromPackage, per spec.md §4.3
// step 3 ("public or same package with Internal").
func IsImportable(pub gtype.Publicity, definingPackage, fromPackage string) bool {
	switch pub {
	case gtype.Public:
		return true
	case gtype.Internal:
		return definingPackage == fromPackage
	default:
		return false
	}
}
