// Package typedast is the output of internal/typer's Hindley-Milner pass:
// every internal/ast.Expr/Pattern node re-expressed with its inferred
// internal/gtype.Type attached, plus the per-call-site Implementations
// narrowing spec.md §4.5's "target-support narrowing" paragraph describes.
// internal/dtree compiles TPattern trees into decision trees; internal/nixgen
// lowers TExpr trees into Nix IR. Neither package touches internal/ast
// again once typing has happened.
//
// Grounded on the teacher's internal/core package (a parallel IR the
// elaborator produces from internal/ast, one struct per surface construct)
// generalised to carry a type and Implementations on every node instead of
// core's A-Normal-Form restructuring, since spec.md's Nix backend lowers
// directly from a typed version of the *original* expression tree rather
// than from a desugared ANF form.
package typedast

import (
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/srcspan"
)

// TNode is implemented by every typed node.
type TNode interface {
	Span() srcspan.Span
	Type() gtype.Type
}

type base struct {
	span srcspan.Span
	typ  gtype.Type
}

func (b base) Span() srcspan.Span { return b.span }
func (b base) Type() gtype.Type   { return b.typ }
func (b *base) SetType(t gtype.Type) { b.typ = t }

// newBase is the constructor every typer rule uses to build a base with its
// span and inferred type fixed at construction time.
func newBase(span srcspan.Span, typ gtype.Type) base { return base{span: span, typ: typ} }

// TExpr is a type-annotated expression.
type TExpr interface {
	TNode
	isTExpr()
}

// TStatement is a type-annotated statement (let/use/bare expression).
type TStatement interface {
	TNode
	isTStatement()
}

// TPattern is a type-annotated pattern, the input to internal/dtree.
type TPattern interface {
	TNode
	isTPattern()
}

// Invalid stands in for an expression that failed to type-check, per
// spec.md §4.4 Pass C ("push problem and substitute an Invalid expression
// with an unbound type so later checks can proceed"). The Nix backend must
// never see one: a module with any Invalid node failed analysis and is not
// eligible for code generation.
type Invalid struct{ base }

func (*Invalid) isTExpr() {}

func NewInvalid(span srcspan.Span, typ gtype.Type) *Invalid {
	return &Invalid{newBase(span, typ)}
}

// InvalidPattern is Invalid's pattern-side counterpart.
type InvalidPattern struct{ base }

func (*InvalidPattern) isTPattern() {}

func NewInvalidPattern(span srcspan.Span, typ gtype.Type) *InvalidPattern {
	return &InvalidPattern{newBase(span, typ)}
}

// --- Expressions ---

type Int struct {
	base
	Text string
}

func (*Int) isTExpr() {}

type Float struct {
	base
	Text string
}

func (*Float) isTExpr() {}

type String struct {
	base
	Value string
}

func (*String) isTExpr() {}

// VarKind distinguishes a local binding from a module-level value, since
// the Nix backend needs to know whether to emit a bare name or a qualified
// attribute-set lookup.
type VarKind int

const (
	VarLocal VarKind = iota
	VarModuleLevel
	VarImported
)

// Var is a resolved value reference. Implementations is the referenced
// value's own Implementations record, consulted when narrowing the calling
// function's target support (spec.md §4.5 "Target-support narrowing").
// IsConstructor marks a reference to a custom-type variant (internal/genv's
// Record variant) rather than a function or constant, which internal/nixgen
// needs to know before it can decide whether a saturating Call becomes a
// Nix function application or a direct attribute-set literal (spec.md
// §4.7.7 "a call where the callee is a record constructor becomes a direct
// attribute set").
type Var struct {
	base
	Kind            VarKind
	Name            string
	Module          string // "" unless Kind == VarImported
	Implementations genv.Implementations
	IsConstructor   bool
}

func (*Var) isTExpr() {}

type List struct {
	base
	Elements []TExpr
	Tail     TExpr // nil for a literal-closed list
}

func (*List) isTExpr() {}

type Tuple struct {
	base
	Elements []TExpr
}

func (*Tuple) isTExpr() {}

// Call is a resolved call: Args is already reordered into positional order
// per the callee's FieldMap (spec.md §4.5 "Call").
type Call struct {
	base
	Fun  TExpr
	Args []TExpr
}

func (*Call) isTExpr() {}

type Fn struct {
	base
	Params []FnParam
	Body   []TStatement
}

func (*Fn) isTExpr() {}

// FnParam is one typed lambda/function parameter.
type FnParam struct {
	Name string // "" for a discarded parameter
	Type gtype.Type
}

type BinOpKind int

const (
	OpAddInt BinOpKind = iota
	OpAddFloat
	OpSubInt
	OpSubFloat
	OpMulInt
	OpMulFloat
	OpDivInt
	OpDivFloat
	OpEq
	OpNotEq
	OpLtInt
	OpLtEqInt
	OpGtInt
	OpGtEqInt
	OpLtFloat
	OpLtEqFloat
	OpGtFloat
	OpGtEqFloat
	OpAnd
	OpOr
	OpConcat
)

type BinOp struct {
	base
	Op    BinOpKind
	Left  TExpr
	Right TExpr
}

func (*BinOp) isTExpr() {}

type NegateKind int

const (
	NegateInt NegateKind = iota
	NegateBool
)

type Negate struct {
	base
	Kind  NegateKind
	Value TExpr
}

func (*Negate) isTExpr() {}

type Block struct {
	base
	Statements []TStatement
}

func (*Block) isTExpr() {}

type Case struct {
	base
	Subjects []TExpr
	Clauses  []Clause
}

func (*Case) isTExpr() {}

// Clause is one compiled case arm. Reachable is filled in by
// internal/dtree after exhaustiveness analysis over the whole Case.
type Clause struct {
	Patterns  [][]TPattern
	Guard     TExpr // nil if absent
	Body      []TStatement
	Reachable bool
	Span      srcspan.Span
}

type FieldAccess struct {
	base
	Record TExpr
	Label  string
	Index  int // resolved field position, for the Nix backend
}

func (*FieldAccess) isTExpr() {}

type TupleIndex struct {
	base
	Tuple TExpr
	Index int
}

func (*TupleIndex) isTExpr() {}

// RecordUpdate is `Ctor(..base, field: value, ...)` after resolution:
// Fields holds every field of the record in constructor order, Overridden
// marking which ones came from an explicit update rather than the spread.
type RecordUpdate struct {
	base
	Constructor string
	Spread      TExpr
	Fields      []RecordUpdateField
}

func (*RecordUpdate) isTExpr() {}

type RecordUpdateField struct {
	Label      string
	Value      TExpr
	Overridden bool
}

type Todo struct {
	base
	Message string
}

func (*Todo) isTExpr() {}

type Panic struct {
	base
	Message string
}

func (*Panic) isTExpr() {}

type BitArray struct {
	base
	Segments []BitArraySegment
}

func (*BitArray) isTExpr() {}

type BitArraySegment struct {
	Value   TExpr
	Options []BitArraySegmentOption
}

type BitArraySegmentOption struct {
	Name string
	Arg  TExpr
}

// --- Statements ---

type ExprStatement struct {
	base
	Expr TExpr
}

func (*ExprStatement) isTStatement() {}

type LetKind int

const (
	LetPlain LetKind = iota
	LetAssert
)

type LetStatement struct {
	base
	Kind    LetKind
	Pattern TPattern
	Value   TExpr
}

func (*LetStatement) isTStatement() {}

// --- Patterns ---

type VarPattern struct {
	base
	Name string
}

func (*VarPattern) isTPattern() {}

type DiscardPattern struct {
	base
	Name string
}

func (*DiscardPattern) isTPattern() {}

type IntPattern struct {
	base
	Text string
}

func (*IntPattern) isTPattern() {}

type FloatPattern struct {
	base
	Text string
}

func (*FloatPattern) isTPattern() {}

type StringPattern struct {
	base
	Value string
}

func (*StringPattern) isTPattern() {}

type AssignPattern struct {
	base
	Inner TPattern
	Name  string
}

func (*AssignPattern) isTPattern() {}

type ListPattern struct {
	base
	Elements []TPattern
	Tail     TPattern
}

func (*ListPattern) isTPattern() {}

type TuplePattern struct {
	base
	Elements []TPattern
}

func (*TuplePattern) isTPattern() {}

// ConstructorPattern is resolved: Name, CtorIndex and CtorCount identify
// which genv.Record variant this pattern matches, and Args is reordered into the
// constructor's declared field order so internal/dtree can specialise by
// position without re-resolving labels.
type ConstructorPattern struct {
	base
	Module    string
	Name      string
	Args      []TPattern
	Spread    bool
	CtorIndex int // this variant's position among its type's constructors
	CtorCount int // total number of constructors on this pattern's type
}

func (*ConstructorPattern) isTPattern() {}

type BitArrayPattern struct {
	base
	Segments []BitArraySegmentPattern
}

func (*BitArrayPattern) isTPattern() {}

type BitArraySegmentPattern struct {
	Value   TPattern
	Options []BitArraySegmentOption
}

type StringPrefixPattern struct {
	base
	Prefix    string
	RightName string
}

func (*StringPrefixPattern) isTPattern() {}

// The New* constructors below give internal/typer one call per
// node that fixes span+type together, matching how internal/ast's parser
// constructs nodes.
func NewInt(span srcspan.Span, typ gtype.Type, text string) *Int {
	return &Int{newBase(span, typ), text}
}

func NewFloat(span srcspan.Span, typ gtype.Type, text string) *Float {
	return &Float{newBase(span, typ), text}
}

func NewString(span srcspan.Span, typ gtype.Type, value string) *String {
	return &String{newBase(span, typ), value}
}

func NewVar(span srcspan.Span, typ gtype.Type, kind VarKind, module, name string, impls genv.Implementations, isConstructor bool) *Var {
	return &Var{newBase(span, typ), kind, name, module, impls, isConstructor}
}

func NewVarPattern(span srcspan.Span, typ gtype.Type, name string) *VarPattern {
	return &VarPattern{newBase(span, typ), name}
}

func NewDiscardPattern(span srcspan.Span, typ gtype.Type, name string) *DiscardPattern {
	return &DiscardPattern{newBase(span, typ), name}
}
