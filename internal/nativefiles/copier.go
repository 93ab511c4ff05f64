// Package nativefiles implements the native-file copier's *checking*
// interface spec.md §6 describes: given the native (non-Gleam) files found
// alongside a module's Gleam sources, decide which ones must error as
// duplicates or name clashes, which can be skipped because they haven't
// changed, and which need compiling afterwards. It never touches the
// filesystem itself — copying, mkdir, and reading mtimes remain the build
// orchestrator's job, which is external per spec.md §1's Non-goals.
//
// Grounded on
// _examples/original_source/compiler-core/src/build/native_file_copier.rs's
// `NativeFileCopier`, with its `io.copy`/`io.mkdir` calls replaced by a
// returned Decision the caller acts on.
package nativefiles

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/glistix/glistix-core/internal/problems"
)

// nativeExtensions are the file extensions spec.md §6 names as valid
// native-file formats: `.erl, .ex, .hrl, .mjs, .js, .ts, .nix`.
var nativeExtensions = map[string]bool{
	"erl": true, "ex": true, "hrl": true, "mjs": true, "js": true, "ts": true, "nix": true,
}

// Entry describes one candidate file discovered under a module's src/ or
// test/ directory.
type Entry struct {
	// RelativePath is '/'-separated, relative to the src/ or test/ root.
	RelativePath string
	// DestExists and DestModTime describe the file already present (from a
	// previous build) at the copier's destination, if any.
	DestExists  bool
	SrcModTime  time.Time
	DestModTime time.Time
}

func (e Entry) extension() string {
	ext := path.Ext(e.RelativePath)
	return strings.TrimPrefix(ext, ".")
}

// Decision is what the build orchestrator should do with one Entry.
type Decision struct {
	RelativePath string
	Skip         bool // dest is at least as new as src: no copy needed
	Compile      bool // .erl/.ex files that were (or would be) copied
	IsElixir     bool
}

// Result is CopiedNativeFiles from native_file_copier.rs, adapted to a
// check-only interface: ToCompile/AnyElixir assume every non-Skip Decision
// was, in fact, copied by the caller.
type Result struct {
	Decisions []Decision
	ToCompile []string
	AnyElixir bool
}

// Checker accumulates cross-entry state (which relative paths and which
// module names have already been seen) across one Check call, mirroring
// NativeFileCopier's seen_native_files/seen_modules fields.
type Checker struct {
	seenNativeFiles map[string]bool
	seenJSModules   map[string]string // .mjs-equivalent relative path -> first source
	seenErlModules  map[string]string // bare .erl filename -> first relative path
}

// NewChecker returns an empty Checker, ready for one Check call over a
// single module tree (src/ and test/ entries checked together, as the
// original's single NativeFileCopier instance does across both).
func NewChecker() *Checker {
	return &Checker{
		seenNativeFiles: map[string]bool{},
		seenJSModules:   map[string]string{},
		seenErlModules:  map[string]string{},
	}
}

// Check runs every §6 rule over entries in order, recording violations into
// probs, and returns the accumulated copy/compile decisions. Entries after
// one that produces an error are still checked (fault-tolerant, matching
// the rest of this module's error-accumulation convention) rather than
// aborting the whole batch on the first clash.
func (c *Checker) Check(entries []Entry, probs *problems.Problems) Result {
	var result Result
	for _, e := range entries {
		ext := e.extension()

		if ext == "gleam" {
			// Not itself a native file, but still compiles to a `.mjs` that
			// could clash with a hand-written one.
			c.checkConflictingJSModule(e.RelativePath, probs)
			continue
		}

		if !nativeExtensions[ext] {
			continue
		}

		if !c.seenNativeFiles[e.RelativePath] {
			c.seenNativeFiles[e.RelativePath] = true
		} else {
			errf(probs, problems.NTV001DuplicateSourceFile, "duplicate native file %q", e.RelativePath)
			continue
		}

		c.checkConflictingJSModule(e.RelativePath, probs)
		c.checkConflictingErlangModule(e.RelativePath, probs)

		skip := e.DestExists && !e.SrcModTime.After(e.DestModTime)
		dec := Decision{RelativePath: e.RelativePath, Skip: skip}
		if !skip {
			dec.IsElixir = ext == "ex"
			dec.Compile = ext == "erl" || ext == "ex"
			if dec.IsElixir {
				result.AnyElixir = true
			}
			if dec.Compile {
				result.ToCompile = append(result.ToCompile, e.RelativePath)
			}
		}
		result.Decisions = append(result.Decisions, dec)
	}
	return result
}

// checkConflictingJSModule enforces that a Gleam module compiling to
// `foo.mjs` doesn't collide with a hand-written `foo.mjs`, and that two
// hand-written `.mjs` files don't share a path either.
func (c *Checker) checkConflictingJSModule(relativePath string, probs *problems.Problems) {
	ext := path.Ext(relativePath)
	var mjsName string
	switch ext {
	case ".gleam":
		mjsName = strings.TrimSuffix(relativePath, ext) + ".mjs"
	case ".mjs":
		mjsName = relativePath
	default:
		return
	}

	first, seen := c.seenJSModules[mjsName]
	c.seenJSModules[mjsName] = relativePath
	if !seen || first == relativePath {
		return
	}

	firstIsGleam := strings.HasSuffix(first, ".gleam")
	currentIsGleam := strings.HasSuffix(relativePath, ".gleam")
	if firstIsGleam || currentIsGleam {
		gleamFile, nativeFile := relativePath, first
		if firstIsGleam {
			gleamFile, nativeFile = first, relativePath
		}
		errf(probs, problems.NTV002ClashingGleamAndNative, "gleam module %q clashes with hand-written native file %q", gleamFile, nativeFile)
		return
	}
	errf(probs, problems.NTV001DuplicateSourceFile, "duplicate module %q: %q and %q both compile to it", mjsName, first, relativePath)
}

// checkConflictingErlangModule enforces Erlang's global (not
// directory-scoped) module-name uniqueness requirement.
func (c *Checker) checkConflictingErlangModule(relativePath string, probs *problems.Problems) {
	if path.Ext(relativePath) != ".erl" {
		return
	}
	name := path.Base(relativePath)
	if first, seen := c.seenErlModules[name]; seen {
		errf(probs, problems.NTV003DuplicateErlangModule, "duplicate erlang module %q: %q and %q", name, first, relativePath)
		return
	}
	c.seenErlModules[name] = relativePath
}

func errf(probs *problems.Problems, code, format string, args ...any) {
	if probs == nil {
		return
	}
	probs.Error(&problems.Diagnostic{
		Code:    code,
		Phase:   "nativefiles",
		Message: fmt.Sprintf(format, args...),
	})
}
