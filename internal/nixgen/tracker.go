package nixgen

import "sort"

// UsageTracker records, for one module's generation, which prelude
// polyfills were referenced, so the module's final `inherit` list pulls in
// exactly (and only) what it needs (spec.md §4.7 / §9 "Global mutable
// usage tracker"). Grounded on compiler-core/src/nix/mod.rs's
// UsageTracker: a flat struct of bools flipped as the generator emits each
// construct, consulted once at module-emission time.
type UsageTracker struct {
	ToList       bool
	ListPrepend  bool
	ToBitArray   bool
	SizedInt     bool
	StringBits   bool
	CodepointBits bool
	ParseNumber  bool
	ParseEscape  bool
	DivideInt    bool
	DivideFloat  bool
	RemainderInt bool
	MakeError    bool
	SeqAll       bool
}

// preludeNames pairs each flag with the prelude binding it gates, in the
// fixed order spec.md §4.7 lists them.
var preludeNames = []struct {
	name string
	get  func(*UsageTracker) bool
}{
	{"toList", func(t *UsageTracker) bool { return t.ToList }},
	{"listPrepend", func(t *UsageTracker) bool { return t.ListPrepend }},
	{"toBitArray", func(t *UsageTracker) bool { return t.ToBitArray }},
	{"sizedInt", func(t *UsageTracker) bool { return t.SizedInt }},
	{"stringBits", func(t *UsageTracker) bool { return t.StringBits }},
	{"codepointBits", func(t *UsageTracker) bool { return t.CodepointBits }},
	{"parseNumber", func(t *UsageTracker) bool { return t.ParseNumber }},
	{"parseEscape", func(t *UsageTracker) bool { return t.ParseEscape }},
	{"divideInt", func(t *UsageTracker) bool { return t.DivideInt }},
	{"divideFloat", func(t *UsageTracker) bool { return t.DivideFloat }},
	{"remainderInt", func(t *UsageTracker) bool { return t.RemainderInt }},
	{"makeError", func(t *UsageTracker) bool { return t.MakeError }},
	{"seqAll", func(t *UsageTracker) bool { return t.SeqAll }},
}

// Used returns the sorted list of prelude names this tracker's module
// referenced, for the `inherit (prelude) ...` line (DESIGN.md: sorted so
// the emitted file is deterministic per spec.md §8 property 8, independent
// of the order the generator happened to visit definitions in).
func (t *UsageTracker) Used() []string {
	var names []string
	for _, p := range preludeNames {
		if p.get(t) {
			names = append(names, p.name)
		}
	}
	sort.Strings(names)
	return names
}
