package ast

import "github.com/glistix/glistix-core/internal/srcspan"

// BitArraySegmentOption is one of the `int|float|bytes|bits|utf8|utf16|
// utf32|codepoint|signed|unsigned|big|little|native|size(n)|unit(n)`
// options spec.md §4.5 lists for bit-array segments. Kept as a single
// struct (rather than one Go type per option) because the Nix backend and
// typer both just need to inspect which options are present and their
// integer arguments, per §4.7.3.
type BitArraySegmentOption struct {
	Name string // "int","float","bytes","binary","bits","bitstring","utf8","utf16","utf32","codepoint","signed","unsigned","big","little","native","size","unit"
	Arg  Expr   // non-nil only for size(n)/unit(n); may be a literal or a variable
	Span srcspan.Span
}

// Statement is one entry in a function body or `{ ... }` block: either a
// plain expression, a `let`/`let assert` binding, a `use` sugar form, or an
// assignment to `_` (implicit discard, same AST shape as a bare expr).
type Statement interface {
	Node
	isStatement()
}

// ExprStatement wraps a bare expression statement.
type ExprStatement struct {
	base
	Expr Expr
}

func (*ExprStatement) isStatement() {}

// LetKind distinguishes `let` from `let assert`.
type LetKind int

const (
	LetPlain LetKind = iota
	LetAssert
)

// LetStatement is `let pattern = value` / `let assert pattern = value`,
// optionally with a type annotation on the pattern.
type LetStatement struct {
	base
	Kind       LetKind
	Pattern    Pattern
	Annotation TypeAst // nil if unannotated
	Value      Expr
}

func (*LetStatement) isStatement() {}

// UseStatement is `use p1, p2 <- call(args...)`; Rest is every subsequent
// statement in the enclosing block, which the typer lowers into the
// callback body per spec.md §4.5 "Use sugar".
type UseStatement struct {
	base
	Patterns []Pattern
	Call     Expr // the call expression up to (not including) the injected callback
	Rest     []Statement
}

func (*UseStatement) isStatement() {}

// Expr is surface expression syntax.
type Expr interface {
	Node
	isExpr()
}

type IntLit struct {
	base
	Text string
}

func (*IntLit) isExpr() {}

type FloatLit struct {
	base
	Text string
}

func (*FloatLit) isExpr() {}

type StringLit struct {
	base
	Value string // fully unescaped by the parser, `\f` and `\u{...}` included
}

func (*StringLit) isExpr() {}

// VarExpr is a bare or qualified value reference, `name` / `module.name`.
type VarExpr struct {
	base
	Module string // "" if unqualified
	Name   string
}

func (*VarExpr) isExpr() {}

// ListExpr is `[e1, e2, ..tail]`.
type ListExpr struct {
	base
	Elements []Expr
	Tail     Expr // nil for a literal-closed list
}

func (*ListExpr) isExpr() {}

// TupleExpr is `#(e1, e2, e3)`.
type TupleExpr struct {
	base
	Elements []Expr
}

func (*TupleExpr) isExpr() {}

// CallExpr is `f(args...)`, including constructor application.
type CallExpr struct {
	base
	Fun  Expr
	Args []CallArg
}

func (*CallExpr) isExpr() {}

// CallArg is one (possibly labelled) call argument; Hole marks a use-sugar
// placeholder `_` standing in for the eventual callback slot.
type CallArg struct {
	Label string
	Value Expr
	Hole  bool
	Span  srcspan.Span
}

// FnExpr is an anonymous function literal `fn(params) -> ret { body }`.
type FnExpr struct {
	base
	Params     []Param
	ReturnType TypeAst
	Body       []Statement
	IsCapture  bool // true for the `f(_, 2)` capture sugar, already desugared by the parser into a FnExpr with one synthesized param
}

func (*FnExpr) isExpr() {}

// BinOp is a surface binary operator application; Pipe (`|>`) is its own
// node because its elaboration strategy (spec.md §4.5) differs from a
// normal infix operator.
type BinOpKind int

const (
	OpAdd BinOpKind = iota
	OpAddFloat
	OpSub
	OpSubFloat
	OpMul
	OpMulFloat
	OpDiv
	OpDivFloat
	OpEq
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpLtFloat
	OpLtEqFloat
	OpGtFloat
	OpGtEqFloat
	OpAnd
	OpOr
	OpConcat // <> on strings
)

type BinOp struct {
	base
	Op    BinOpKind
	Left  Expr
	Right Expr
}

func (*BinOp) isExpr() {}

// PipeExpr is `a |> f`.
type PipeExpr struct {
	base
	Left  Expr
	Right Expr
}

func (*PipeExpr) isExpr() {}

// NegateKind distinguishes numeric negation from boolean negation.
type NegateKind int

const (
	NegateInt NegateKind = iota
	NegateBool
)

type NegateExpr struct {
	base
	Kind  NegateKind
	Value Expr
}

func (*NegateExpr) isExpr() {}

// BlockExpr is `{ stmt* }` used as an expression (e.g. a case clause body,
// or a function body when constructed directly rather than via FuncDecl).
type BlockExpr struct {
	base
	Statements []Statement
}

func (*BlockExpr) isExpr() {}

// CaseExpr is `case subjects { clauses }`.
type CaseExpr struct {
	base
	Subjects []Expr
	Clauses  []CaseClause
}

func (*CaseExpr) isExpr() {}

// CaseClause is one `patterns[, alt-patterns] [if guard] -> body` arm. Each
// entry in Patterns is one alternative (`|`-separated); each inner slice
// has one pattern per subject.
type CaseClause struct {
	Patterns [][]Pattern
	Guard    Expr // nil if absent
	Body     []Statement
	Span     srcspan.Span
}

// FieldAccessExpr is `record.field`.
type FieldAccessExpr struct {
	base
	Record Expr
	Label  string
}

func (*FieldAccessExpr) isExpr() {}

// TupleIndexExpr is `tuple.0`.
type TupleIndexExpr struct {
	base
	Tuple Expr
	Index int
}

func (*TupleIndexExpr) isExpr() {}

// RecordUpdateExpr is `Ctor(..base, field: value, ...)`.
type RecordUpdateExpr struct {
	base
	Constructor Expr // a VarExpr naming the constructor
	Base        Expr
	Fields      []RecordUpdateField
}

func (*RecordUpdateExpr) isExpr() {}

// RecordUpdateField is one `field: value` inside a record update.
type RecordUpdateField struct {
	Label string
	Value Expr
	Span  srcspan.Span
}

// TodoExpr / PanicExpr carry an optional message.
type TodoExpr struct {
	base
	Message string // "" if absent
}

func (*TodoExpr) isExpr() {}

type PanicExpr struct {
	base
	Message string
}

func (*PanicExpr) isExpr() {}

// BitArrayExpr is `<<seg, ..>>`.
type BitArrayExpr struct {
	base
	Segments []BitArraySegment
}

func (*BitArrayExpr) isExpr() {}

// BitArraySegment is one `value:options` inside a bit array literal.
type BitArraySegment struct {
	Value   Expr
	Options []BitArraySegmentOption
}
