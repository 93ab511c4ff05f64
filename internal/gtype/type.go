// Package gtype is the internal Type representation shared by the
// Hydrator, Environment, Expression Typer and Nix backend (spec.md §3).
//
// The shape follows the teacher's internal/types package (TVar/TCon/TFunc/
// TTuple, union-find style Substitute/Equals/String methods) but replaces
// the teacher's named-row-polymorphism model with the flatter sum spec.md
// actually specifies: Named/Fn/Tuple/Var, where Var is an interior-mutable
// cell that is Unbound, Generic, or Link.
package gtype

import (
	"fmt"
	"strings"

	"github.com/glistix/glistix-core/internal/ident"
)

// Publicity mirrors spec.md's Publicity glossary entry.
type Publicity int

const (
	Public Publicity = iota
	Internal
	Private
)

func (p Publicity) String() string {
	switch p {
	case Public:
		return "public"
	case Internal:
		return "internal"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// Type is the sum type described in spec.md §3. All four variants implement
// it; Var additionally exposes its cell through AsVar for callers that need
// to walk or mutate the union-find graph directly (the Unifier, the
// generaliser).
type Type interface {
	isType()
	String() string
}

// Named is a type constructor applied to zero or more argument types, e.g.
// gleam/option.Option(Int) or the builtin Int/String/Bool/Nil.
type Named struct {
	Package   string // empty for the current package
	Module    string // defining module path, e.g. "gleam/option"
	Name      string // e.g. "Option"
	Publicity Publicity
	Args      []Type
}

func (*Named) isType() {}

func (t *Named) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", t.Name, strings.Join(parts, ", "))
}

// Fn is a function type: (Args...) -> Ret.
type Fn struct {
	Args []Type
	Ret  Type
}

func (*Fn) isType() {}

func (t *Fn) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), t.Ret.String())
}

// Tuple is a fixed-arity product #(a, b, c).
type Tuple struct {
	Elems []Type
}

func (*Tuple) isType() {}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("#(%s)", strings.Join(parts, ", "))
}

// Var is a type variable: an interior-mutable reference to a Cell. Two Var
// values that share a Cell pointer are the same variable; copying a Var
// struct is cheap but does not copy the cell, which is exactly the aliasing
// behaviour unification relies on.
type Var struct {
	Cell *Cell
}

func (*Var) isType() {}

func (t *Var) String() string {
	switch c := t.Cell.Resolve().(type) {
	case *unboundState:
		return fmt.Sprintf("?%d", c.ID)
	case *genericState:
		return fmt.Sprintf("'%s", genericLetter(c.ID))
	case *linkState:
		return c.To.String()
	default:
		return "?"
	}
}

func genericLetter(id uint64) string {
	// a, b, c, ... z, a1, b1, ... matching common HM pretty-printing.
	letters := "abcdefghijklmnopqrstuvwxyz"
	n := id - 1
	letter := string(letters[n%26])
	gen := n / 26
	if gen == 0 {
		return letter
	}
	return fmt.Sprintf("%s%d", letter, gen)
}

// Cell is the mutable slot inside a Var. Exactly one of the three states
// below is current at any time; Link replaces whatever state preceded it
// (typically Unbound) the first time the variable is bound during
// unification.
type Cell struct {
	state cellState
}

type cellState interface{ isCellState() }

type unboundState struct{ ID uint64 }
type genericState struct{ ID uint64 }
type linkState struct{ To Type }

func (*unboundState) isCellState() {}
func (*genericState) isCellState() {}
func (*linkState) isCellState()    {}

// NewUnboundCell creates a Cell in the Unbound state carrying id. Every
// distinct call produces a distinct, not-yet-linked variable.
func NewUnboundCell(id uint64) *Cell {
	return &Cell{state: &unboundState{ID: id}}
}

// NewGenericCell creates a Cell already in the Generic state, used when the
// hydrator introduces a named rigid type parameter (it is schematic from
// the start, never unified away).
func NewGenericCell(id uint64) *Cell {
	return &Cell{state: &genericState{ID: id}}
}

// Resolve follows Link chains (with path compression) and returns the
// terminal state: *unboundState, *genericState, or the *linkState of the
// last cell in the chain when that link points at a non-Var type.
func (c *Cell) Resolve() cellState {
	cur := c
	for {
		l, ok := cur.state.(*linkState)
		if !ok {
			break
		}
		if v, ok := l.To.(*Var); ok {
			cur = v.Cell
			continue
		}
		break
	}
	if cur != c {
		// Path compression: point c directly at the end of the chain, so
		// repeated lookups of the same long chain are O(1) after the
		// first. A concrete link never changes again and is shared as is;
		// a cell that is still a variable is linked to, not copied, so a
		// later Link or MakeGeneric of cur is seen through c as well.
		if _, linked := cur.state.(*linkState); linked {
			c.state = cur.state
		} else if c.state.(*linkState).To.(*Var).Cell != cur {
			c.state = &linkState{To: &Var{Cell: cur}}
		}
	}
	return cur.state
}

// ResolvedType returns the shallow type this cell currently denotes: either
// itself (if Unbound/Generic) wrapped back into a *Var, or the linked-to
// Type if the link target is not itself a Var.
func (c *Cell) ResolvedType(self *Var) Type {
	cur := c
	for {
		l, ok := cur.state.(*linkState)
		if !ok {
			return self
		}
		if v, ok := l.To.(*Var); ok {
			cur = v.Cell
			self = v
			continue
		}
		return l.To
	}
}

// Link binds the cell to concrete type t. Callers (the Unifier) must have
// already run the occurs check; Link itself does not re-check.
func (c *Cell) Link(t Type) {
	c.state = &linkState{To: t}
}

// IsUnbound reports whether the cell (after following links) is still an
// Unbound variable, and if so returns its id.
func (c *Cell) IsUnbound() (uint64, bool) {
	if u, ok := c.Resolve().(*unboundState); ok {
		return u.ID, true
	}
	return 0, false
}

// IsGeneric reports whether the cell denotes a Generic variable.
func (c *Cell) IsGeneric() (uint64, bool) {
	if g, ok := c.Resolve().(*genericState); ok {
		return g.ID, true
	}
	return 0, false
}

// MakeGeneric converts an Unbound cell in place into a Generic one. Used by
// generalisation (spec.md §4.4 Pass C): "free unbound variables whose ids
// are >= the SCC entry level become Generic."
func (c *Cell) MakeGeneric() {
	if u, ok := c.state.(*unboundState); ok {
		c.state = &genericState{ID: u.ID}
	}
}

// Builtin scalar types, interned once.
var (
	Int    = &Named{Name: "Int", Publicity: Public}
	Float  = &Named{Name: "Float", Publicity: Public}
	StringT = &Named{Name: "String", Publicity: Public}
	Bool   = &Named{Name: "Bool", Publicity: Public}
	Nil    = &Named{Name: "Nil", Publicity: Public}
	BitArray = &Named{Name: "BitArray", Publicity: Public}
)

// ListOf builds the `List(elem)` type.
func ListOf(elem Type) *Named {
	return &Named{Name: "List", Publicity: Public, Args: []Type{elem}}
}

// ResultOf builds the `Result(ok, error)` type.
func ResultOf(ok, errT Type) *Named {
	return &Named{Name: "Result", Publicity: Public, Args: []Type{ok, errT}}
}

// Deref returns what t currently denotes. For a Var it follows the whole
// chain of links (a Link may point at another Var) and returns the linked-to
// non-Var type, or the last Var of the chain when that one is still Unbound
// or Generic. Any other t is returned as is.
func Deref(t Type) Type {
	if v, ok := t.(*Var); ok {
		return v.Cell.ResolvedType(v)
	}
	return t
}

// NameOf returns the generating ident.Name for diagnostics that want an
// interned handle rather than repeatedly formatting t.String().
func NameOf(t Type) ident.Name {
	switch t := Deref(t).(type) {
	case *Named:
		return ident.Intern(t.Name)
	case *Fn:
		return ident.Intern("fn")
	case *Tuple:
		return ident.Intern("tuple")
	default:
		return ident.Intern("?")
	}
}
