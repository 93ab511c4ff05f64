// Package ast defines the surface syntax produced by internal/parser: the
// literal tree of a Gleam-dialect source file before name resolution or type
// inference. Every node carries a srcspan.Span so later phases can report
// precise diagnostics (spec.md §2 item 1, §3 "every node carries its span").
//
// The shape mirrors the teacher's internal/ast package (a Node interface,
// Pos/Span embedding, one struct per surface construct) but the vocabulary
// is the Gleam-dialect one spec.md names: CustomType/TypeAlias/Fn/Const at
// module level, and the expression/pattern/type grammars of §4.5.
package ast

import "github.com/glistix/glistix-core/internal/srcspan"

// Node is implemented by every AST node so generic tooling (formatting,
// span lookup for the language server's narrow interface) has one entry
// point.
type Node interface {
	Span() srcspan.Span
}

type base struct{ span srcspan.Span }

func (b base) Span() srcspan.Span { return b.span }

// Publicity mirrors gtype.Publicity at the surface syntax level (before the
// module analyser has resolved what it actually means for a given module's
// internal_modules glob).
type Publicity int

const (
	Public Publicity = iota
	Private
)

// Module is one parsed source file. Declaration order is kept because
// diagnostics are emitted "in source order first" (spec.md §5) before being
// stably sorted.
type Module struct {
	base
	Name        string // dotted module path, e.g. "gleam/option"
	Imports     []*Import
	TypeAliases []*TypeAliasDecl
	CustomTypes []*CustomTypeDecl
	Functions   []*FuncDecl
	Constants   []*ConstDecl
	Origin      Origin
}

// Origin distinguishes application/library source from test-only source,
// per spec.md §6 ("origin ∈ {Src, Test}").
type Origin int

const (
	OriginSrc Origin = iota
	OriginTest
)

// Import is one `import a/b/c as alias.{x, Y, z as w}` declaration.
type Import struct {
	base
	Path        string
	Alias       string // explicit alias, or "" to use the last path segment
	Unqualified []UnqualifiedImport
}

// UnqualifiedImport is one name inside an import's `{...}` clause.
type UnqualifiedImport struct {
	Name   string
	Alias  string // "" if not aliased
	IsType bool   // true for `type Foo` / capitalised type imports
	Span   srcspan.Span
}

// TypeAliasDecl is `type Name(params) = RHS`.
type TypeAliasDecl struct {
	base
	Name        string
	Publicity   Publicity
	Params      []string
	RHS         TypeAst
	Doc         string
	Deprecation string
}

// CustomTypeDecl is `type Name(params) { Variant1(...) Variant2(...) }`,
// possibly `pub opaque type`.
type CustomTypeDecl struct {
	base
	Name        string
	Publicity   Publicity
	Opaque      bool
	Params      []string
	Variants    []*VariantDecl
	Doc         string
	Deprecation string
}

// VariantDecl is one constructor of a custom type.
type VariantDecl struct {
	base
	Name   string
	Fields []VariantField
	Doc    string
}

// VariantField is one constructor argument, optionally labelled.
type VariantField struct {
	Label string // "" if positional
	Type  TypeAst
	Span  srcspan.Span
}

// FuncDecl is a top-level function, `pub fn name(params) -> Ret { body }`,
// or an external stub `@external(target, module, name) pub fn name(...) -> Ret`.
type FuncDecl struct {
	base
	Name        string
	Publicity   Publicity
	Params      []Param
	ReturnType  TypeAst // nil if unannotated
	Body        []Statement
	Externals   []ExternalAttr
	Doc         string
	Deprecation string
}

// ExternalAttr is one `@external(target, module, function)` attribute.
type ExternalAttr struct {
	Target   string // "erlang" | "javascript" | "nix"
	Module   string
	Function string
	Span     srcspan.Span
}

// Param is one function parameter.
type Param struct {
	Label string  // "" if positional
	Name  string  // "" (discard) allowed
	Type  TypeAst // nil if unannotated
	Span  srcspan.Span
}

// ConstDecl is a top-level `const name = expr` / `pub const name: T = expr`.
type ConstDecl struct {
	base
	Name      string
	Publicity Publicity
	Type      TypeAst // nil if unannotated
	Value     Expr
	Doc       string
}
