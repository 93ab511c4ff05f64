// Package nixgen lowers an analysed module (internal/analyser.Result, over
// internal/typedast trees) into internal/nixir, then prints it to Nix
// source text — spec.md §4.7, the Nix Backend.
//
// Grounded on compiler-core/src/nix/{expression,import,syntax}.rs (the
// original Glistix Nix backend, kept under _examples/original_source since
// the distilled spec.md is silent on several emission details this package
// needed to resolve): syntax.rs's path/string sanitisation is reproduced
// here almost rule-for-rule; expression.rs's Generator (local_var shadow
// renaming, wrap_child_expression parenthesisation, statement/assignment
// scope handling, UsageTracker flags) is reworked into Go's typedast
// dispatch style the rest of this module already uses (one function per
// typedast node kind, rather than the Rust match-per-variant with an
// error-propagating `?`).
package nixgen

import (
	"regexp"
	"strings"

	"github.com/glistix/glistix-core/internal/nixir"
)

// SanitiseIdent escapes name so it is always a valid, collision-free Nix
// identifier (spec.md §4.7.1): a Nix keyword, or a name starting with `_`
// or a digit, gets a trailing `'` appended. Escaping is idempotent per
// spec.md §8 property 7: a name that already ends in `'` (which no Gleam
// identifier does) is returned unchanged, so a second pass leaves an
// escaped name as it is.
func SanitiseIdent(name string) string {
	if name == "" || strings.HasSuffix(name, "'") {
		return name
	}
	if nixir.IsNixKeyword(name) {
		return name + "'"
	}
	if name[0] == '_' || (name[0] >= '0' && name[0] <= '9') {
		return name + "'"
	}
	return name
}

var invalidPathSegment = regexp.MustCompile(`[^a-zA-Z0-9./_\-+]+`)

// SanitisePath renders a relative import path for `builtins.import`. Gleam
// module names never contain characters Nix paths can't already represent
// (they are restricted to `[a-z0-9_/]`), so this never needs the
// `${"..."}` interpolation escape compiler-core/src/nix/syntax.rs falls
// back to for arbitrary external-module paths (see ValidExternalNixModule for
// that check, used only for `@external(nix, ...)` attributes).
func SanitisePath(path string) string {
	switch path {
	case "":
		return path
	}
	if !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "./") && !strings.HasPrefix(path, "../") {
		path = "./" + path
	}
	sanitised := invalidPathSegment.ReplaceAllStringFunc(path, func(seg string) string {
		return `${"` + SanitiseString(seg) + `"}`
	})
	return sanitised
}

// ValidExternalNixModule reports whether value is a legal `@external(nix,
// module, function)` module path (spec.md §4.7.1): absolute, relative
// (`./…`, `../…`, `.`, `..`), or a Nix-store lookup path `<…>`. Home paths
// (`~/…`) and bare names are rejected.
func ValidExternalNixModule(value string) bool {
	switch {
	case value == "." || value == "..":
		return true
	case strings.HasPrefix(value, "/"):
		return true
	case strings.HasPrefix(value, "./") || strings.HasPrefix(value, "../"):
		return true
	case strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">") && len(value) > 1:
		return true
	default:
		return false
	}
}

var externalNixFunctionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_'-]*$`)

// ValidExternalNixFunction reports whether value is a legal external
// function name (spec.md §4.7.1).
func ValidExternalNixFunction(value string) bool {
	return externalNixFunctionName.MatchString(value)
}

// SanitiseString escapes value for emission inside a Nix double-quoted
// string literal: `"` and `\` get a backslash, `${` is escaped to `\${`,
// and newlines become `\n` (spec.md §4.7.1). `\f` and `\u{XXXX}` sequences
// are not rewritten here; EscapeSequenceRewrite does that. The
// returned string is the literal's *interior*, not yet wrapped in quotes
// (nixir.Str.Value / the printer add those).
func SanitiseString(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '\n':
			b.WriteString(`\n`)
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\':
			b.WriteString(`\\`)
		case c == '$' && i+1 < len(value) && value[i+1] == '{':
			b.WriteString(`\$`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// EscapeSequenceRewrite rewrites a string containing literal `\f` or
// `\u{XXXX}` escape text (backslash sequences as written in Gleam source;
// the parser resolves these escapes before String.Value is built, and
// module lowering does not call this function) into a Nix string built
// from `${parseEscape "..."}`
// interpolations spliced between the surrounding literal segments. Returns
// the interior of a double-quoted Nix string (same convention as
// SanitiseString) and whether parseEscape is required at all.
func EscapeSequenceRewrite(raw string) (interior string, usesParseEscape bool) {
	var b strings.Builder
	i, runStart := 0, 0
	flush := func(end int) {
		if end > runStart {
			b.WriteString(SanitiseString(raw[runStart:end]))
		}
	}
	for i < len(raw) {
		if raw[i] == '\\' && i+1 < len(raw) && raw[i+1] == 'f' {
			flush(i)
			b.WriteString(`${parseEscape "\\f"}`)
			usesParseEscape = true
			i += 2
			runStart = i
			continue
		}
		if raw[i] == '\\' && i+2 < len(raw) && raw[i+1] == 'u' && raw[i+2] == '{' {
			if end := strings.IndexByte(raw[i+3:], '}'); end >= 0 {
				flush(i)
				code := raw[i+3 : i+3+end]
				b.WriteString(`${parseEscape "\\u{` + code + `}"}`)
				usesParseEscape = true
				i += 3 + end + 1
				runStart = i
				continue
			}
		}
		i++
	}
	flush(len(raw))
	return b.String(), usesParseEscape
}
