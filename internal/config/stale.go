package config

import (
	"github.com/glistix/glistix-core/internal/pkgmanifest"
)

// Locked computes, for the current direct dependencies and a previously
// written manifest, the subset of packages still considered locked: ones
// whose requirement (or an ancestor's requirement) hasn't changed since the
// manifest was written. Anything not locked must be re-resolved. Grounded
// on
// _examples/original_source/compiler-core/src/config/stale_package_remover.rs's
// `StalePackageRemover`.
func (c *PackageConfig) Locked(manifest *pkgmanifest.Manifest) map[string]string {
	if manifest == nil {
		return map[string]string{}
	}
	direct := c.AllDirectDependencies(nil)
	return freshAndLocked(direct, manifest, c.Glistix.Preview.Patch)
}

type stalePackageRemover struct {
	fresh  map[string]bool
	locked map[string][]string // package name -> its recorded dependency names
}

func freshAndLocked(requirements Dependencies, manifest *pkgmanifest.Manifest, patches map[string]GlistixPatch) map[string]string {
	r := &stalePackageRemover{
		fresh:  map[string]bool{},
		locked: map[string][]string{},
	}
	for _, pkg := range manifest.Packages {
		r.locked[pkg.Name] = pkg.Requirements
	}

	newlyPatched := newlyPatchedPackageNames(manifest.GlistixPatches, patches)

	for name, req := range requirements {
		manifestReq, hadManifestReq := manifest.Requirements[name]
		if !hadManifestReq || !manifestReq.Equal(req) || newlyPatched[name] {
			continue // requirement changed (or is new, or was newly patched): not fresh
		}
		r.recordTreeFresh(name, newlyPatched)
	}

	out := map[string]string{}
	for _, pkg := range manifest.Packages {
		dependsOnNewlyPatched := false
		if len(newlyPatched) > 0 {
			for _, dep := range pkg.Requirements {
				if newlyPatched[dep] {
					dependsOnNewlyPatched = true
					break
				}
			}
		}
		_, isNew := requirements[pkg.Name]
		_, wasInManifest := manifest.Requirements[pkg.Name]
		isNew = isNew && !wasInManifest
		locked := !dependsOnNewlyPatched && !isNew && r.fresh[pkg.Name]
		if locked {
			out[pkg.Name] = pkg.Version
		}
	}
	return out
}

func (r *stalePackageRemover) recordTreeFresh(name string, newlyPatched map[string]bool) {
	if r.fresh[name] {
		return
	}
	r.fresh[name] = true
	deps, ok := r.locked[name]
	if !ok {
		// Optional dependency not present in the manifest; nothing further
		// to recurse into.
		return
	}
	for _, dep := range deps {
		if newlyPatched[dep] {
			continue
		}
		r.recordTreeFresh(dep, newlyPatched)
	}
}

// newlyPatchedPackageNames collects both the old and new names of any patch
// that was added, changed, or removed between the manifest's recorded
// patches and the project's current ones, per
// stale_package_remover.rs's two filtered iterators over
// `glistix_packages_from_removed_patches` and
// `glistix_newly_patched_packages`.
func newlyPatchedPackageNames(recorded map[string]pkgmanifest.GlistixPatch, current map[string]GlistixPatch) map[string]bool {
	out := map[string]bool{}
	for oldName, patch := range recorded {
		if _, stillActive := current[oldName]; !stillActive {
			out[oldName] = true
			if patch.Name != "" {
				out[patch.Name] = true
			}
		}
	}
	for oldName, patch := range current {
		prev, existed := recorded[oldName]
		if existed && prev.Name == patch.Name && prev.Source.Equal(patch.Source) {
			continue // unchanged
		}
		out[oldName] = true
		if patch.Name != "" {
			out[patch.Name] = true
		}
		if existed && prev.Name != "" && prev.Name != patch.Name {
			out[prev.Name] = true
		}
	}
	return out
}
