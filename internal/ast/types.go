package ast

import "github.com/glistix/glistix-core/internal/srcspan"

// TypeAst is surface type syntax: what the Hydrator (internal/hydrator)
// converts into gtype.Type. It intentionally mirrors spec.md §3's Type sum
// (Named/Fn/Tuple/Var) one level up, plus a Hole for `_` in annotations.
type TypeAst interface {
	Node
	isTypeAst()
}

// NamedType is `Module.Name(args)` or bare `Name(args)`.
type NamedType struct {
	base
	Module string // "" if unqualified
	Name   string
	Args   []TypeAst
}

func (*NamedType) isTypeAst() {}

// FnType is `fn(args) -> ret`.
type FnType struct {
	base
	Args []TypeAst
	Ret  TypeAst
}

func (*FnType) isTypeAst() {}

// TupleType is `#(a, b, c)`.
type TupleType struct {
	base
	Elems []TypeAst
}

func (*TupleType) isTypeAst() {}

// VarType is a lowercase type variable name, e.g. `a` in `List(a)`.
type VarType struct {
	base
	Name string
}

func (*VarType) isTypeAst() {}

// HoleType is `_` in a position where a type annotation is optional.
type HoleType struct{ base }

func (*HoleType) isTypeAst() {}

// NewNamedType is a constructor helper used by the parser and by tests that
// build surface types by hand.
func NewNamedType(span srcspan.Span, module, name string, args ...TypeAst) *NamedType {
	return &NamedType{base: base{span}, Module: module, Name: name, Args: args}
}
