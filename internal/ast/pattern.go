package ast

// Pattern is surface pattern syntax, matching spec.md §3's Pattern variant
// tree: Variable, Discard, Int/Float/String, Assign, List, Tuple,
// Constructor, BitArray, StringPrefix. `Invalid` is not a surface
// construct — it is synthesised only by the typer/elaborator when recovery
// is needed (internal/typedast.InvalidPattern), so it has no entry here.
type Pattern interface {
	Node
	isPattern()
}

// VarPattern binds the scrutinee to Name.
type VarPattern struct {
	base
	Name string
}

func (*VarPattern) isPattern() {}

// DiscardPattern is `_` or `_name` (named discard, still never bound).
type DiscardPattern struct {
	base
	Name string // "" for bare `_`
}

func (*DiscardPattern) isPattern() {}

// IntPattern / FloatPattern / StringPattern match literal values.
type IntPattern struct {
	base
	Text string // original digits, as written (base prefix retained)
}

func (*IntPattern) isPattern() {}

type FloatPattern struct {
	base
	Text string
}

func (*FloatPattern) isPattern() {}

type StringPattern struct {
	base
	Value string
}

func (*StringPattern) isPattern() {}

// AssignPattern is `pattern as name`.
type AssignPattern struct {
	base
	Inner Pattern
	Name  string
}

func (*AssignPattern) isPattern() {}

// ListPattern is `[a, b, ..rest]`; Tail is nil for a fully-closed list.
type ListPattern struct {
	base
	Elements []Pattern
	Tail     Pattern // nil, or a VarPattern/DiscardPattern/ListPattern
}

func (*ListPattern) isPattern() {}

// TuplePattern is `#(a, b, c)`.
type TuplePattern struct {
	base
	Elements []Pattern
}

func (*TuplePattern) isPattern() {}

// ConstructorPattern is `Module.Ctor(args)` / `Ctor(label: pat, ..)`, with
// an optional spread `..` marking "ignore remaining fields".
type ConstructorPattern struct {
	base
	Module string // "" if unqualified
	Name   string
	Args   []ConstructorPatternArg
	Spread bool
}

func (*ConstructorPattern) isPattern() {}

// ConstructorPatternArg is one argument inside a constructor pattern.
type ConstructorPatternArg struct {
	Label   string // "" if positional
	Pattern Pattern
}

// BitArrayPattern is `<<seg, ..>>`; segments are opaque per spec.md §4.6
// ("coverage only proven by a catch-all").
type BitArrayPattern struct {
	base
	Segments []BitArraySegmentPattern
}

func (*BitArrayPattern) isPattern() {}

// BitArraySegmentPattern is one `value:options` inside a bit array pattern.
type BitArraySegmentPattern struct {
	Value   Pattern
	Options []BitArraySegmentOption
}

// StringPrefixPattern is `"pfx" <> rest`.
type StringPrefixPattern struct {
	base
	Prefix      string
	RightName   string // "" if the remainder is discarded
}

func (*StringPrefixPattern) isPattern() {}
