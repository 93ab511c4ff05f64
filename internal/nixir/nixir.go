// Package nixir is the Nix backend's intermediate representation: a small
// expression/module tree mirroring Nix's own grammar closely enough that
// internal/nixgen only ever needs to decide *what* Nix shape a typed node
// becomes, never how to print it. internal/nixgen lowers typedast trees into
// this IR; Print (print.go) renders it to text.
//
// Grounded on the pack's own Nix backend (compiler-core/src/nix/expression.rs
// and syntax.rs): a Generator there builds pretty-printing Documents
// directly while lowering, with parenthesisation handled by a dedicated
// wrap_child_expression pass. Here the two are split into a data type (this
// file) and a separate printer (print.go) because Go's `pretty`-combinator
// ecosystem the Rust original depends on (`pretty.rs`) has no pack
// equivalent; a plain string builder keeps the same wrap_child_expression
// parenthesisation rule without needing a layout combinator library.
package nixir

// Expr is one node of a Nix expression tree.
type Expr interface{ isExpr() }

// Raw is an escape hatch for already-rendered Nix text (used for the
// handful of builtins.* forms that don't need their own node kind).
type Raw struct{ Text string }

func (*Raw) isExpr() {}

// Var is a bare identifier reference, already sanitised (see
// nixgen.SanitiseIdent) by the time it reaches the IR.
type Var struct{ Name string }

func (*Var) isExpr() {}

// Int is an already-rendered decimal integer literal, or (when Parse is
// true) a quoted non-decimal literal meant to be passed to the prelude's
// parseNumber helper.
type Int struct {
	Text  string
	Parse bool
}

func (*Int) isExpr() {}

// Float is an already-rendered Nix float literal.
type Float struct{ Text string }

func (*Float) isExpr() {}

// Str is a Nix string literal; Value is the already-escaped interior (the
// printer wraps it in double quotes verbatim, so callers control every
// escape).
type Str struct{ Value string }

func (*Str) isExpr() {}

// Bool is `true`/`false`.
type Bool struct{ Value bool }

func (*Bool) isExpr() {}

// Null is `null`.
type Null struct{}

func (*Null) isExpr() {}

// List is a bracketed Nix list `[ e1 e2 ... ]`.
type List struct{ Elements []Expr }

func (*List) isExpr() {}

// Field is one key/value pair of an Attrs literal or update.
type Field struct {
	Key   string
	Value Expr
}

// Attrs is a Nix attribute-set literal `{ k1 = v1; k2 = v2; ... }`. Fields
// preserve insertion order so a tagged record's `__gleamTag` field always
// comes first, matching the pack's construct_record output.
type Attrs struct{ Fields []Field }

func (*Attrs) isExpr() {}

// RecordUpdate is `base // { k1 = v1; ... }`.
type RecordUpdate struct {
	Base   Expr
	Fields []Field
}

func (*RecordUpdate) isExpr() {}

// FieldAccess is `target.field` (or `target."field"` when field collides
// with a Nix keyword).
type FieldAccess struct {
	Target Expr
	Field  string
}

func (*FieldAccess) isExpr() {}

// ElemAt is `builtins.elemAt tuple index`, tuple access.
type ElemAt struct {
	Tuple Expr
	Index int
}

func (*ElemAt) isExpr() {}

// BinOp is an infix application of one of Nix's own operators (`+`, `==`,
// `&&`, ...). Op is rendered verbatim.
type BinOp struct {
	Op          string
	Left, Right Expr
}

func (*BinOp) isExpr() {}

// Negate is unary `-x` or `!x`.
type Negate struct {
	Op    string // "-" or "!"
	Value Expr
}

func (*Negate) isExpr() {}

// App is a curried function application `fun arg1 arg2 ...`; each argument
// is printed through wrapChild (print.go) so any argument whose own
// representation contains top-level spaces gets parenthesised.
type App struct {
	Fun  Expr
	Args []Expr
}

func (*App) isExpr() {}

// Lambda is a single-parameter Nix lambda `param: body`; multi-parameter
// Gleam functions lower to nested Lambdas, since Nix itself only ever binds
// one argument per `:`.
type Lambda struct {
	Param string
	Body  Expr
}

func (*Lambda) isExpr() {}

// Binding is one `name = value;` line of a LetIn.
type Binding struct {
	Name  string
	Value Expr
}

// LetIn is `let b1; b2; ...; in body`.
type LetIn struct {
	Bindings []Binding
	Body     Expr
}

func (*LetIn) isExpr() {}

// If is `if cond then then_ else else_`.
type If struct {
	Cond, Then, Else Expr
}

func (*If) isExpr() {}

// Seq is `builtins.seq v body`.
type Seq struct{ Var, Body Expr }

func (*Seq) isExpr() {}

// SeqAll is `seqAll [ v1 v2 ... ] body`, the prelude helper used in place
// of nested Seq once more than one strict binding needs forcing.
type SeqAll struct {
	Vars []Expr
	Body Expr
}

func (*SeqAll) isExpr() {}

// Throw is `builtins.throw value`.
type Throw struct{ Value Expr }

func (*Throw) isExpr() {}

// Import is one `inherit (builtins.import path) name1 name2;` or aliased
// `alias = (builtins.import path).name;` line in a module's prelude.
type Import struct {
	Path    string
	Names   []ImportedName // plain re-exports via `inherit (...)`
	Aliased []AliasedImport
}

// ImportedName is one unaliased name pulled in from an imported module.
type ImportedName struct{ Name string }

// AliasedImport is `alias = (builtins.import path).remote;`.
type AliasedImport struct {
	Alias  string
	Remote string
}

// Definition is one top-level module binding (function, constant, or
// re-exported constructor).
type Definition struct {
	Name  string
	Value Expr
	Doc   string
}

// Module is one compiled `.nix` file: a `let` binding the prelude import,
// every other module's imports, then the module's own definitions,
// followed by `in { inherit <exports>; }` (spec.md §4.7.8).
type Module struct {
	PreludePath string
	Imports     []Import
	Definitions []Definition
	Exports     []string
}
