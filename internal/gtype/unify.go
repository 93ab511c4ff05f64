package gtype

import "fmt"

// UnifyError reports a unification failure. Situation carries the
// human-facing context spec.md §4.5 asks for (operator, list element, list
// tail, return annotation, case clause mismatch, ...); the expression typer
// fills it in, the Unifier itself leaves it empty.
type UnifyError struct {
	Want, Got Type
	Situation string
}

func (e *UnifyError) Error() string {
	if e.Situation != "" {
		return fmt.Sprintf("cannot unify %s with %s (%s)", e.Want, e.Got, e.Situation)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.Want, e.Got)
}

// OccursError reports that unifying would create a cyclic type.
type OccursError struct {
	VarID uint64
	In    Type
}

func (e *OccursError) Error() string {
	return fmt.Sprintf("type variable ?%d occurs in %s", e.VarID, e.In)
}

// Unify attempts to make a and b denote the same type by linking unbound
// variable cells, mutating the graph in place (spec.md's "shared
// structurally" model: the cells are the only mutable state). It returns a
// UnifyError or OccursError on failure; partial linking performed before
// the failure is not rolled back, matching the teacher's fault-tolerant
// analyser, which substitutes an Invalid sentinel and keeps going rather
// than unwinding substitutions.
func Unify(a, b Type) error {
	a = Deref(a)
	b = Deref(b)

	if av, ok := a.(*Var); ok {
		return unifyVar(av, b)
	}
	if bv, ok := b.(*Var); ok {
		return unifyVar(bv, a)
	}

	switch at := a.(type) {
	case *Named:
		bt, ok := b.(*Named)
		if !ok || at.Module != bt.Module || at.Name != bt.Name || len(at.Args) != len(bt.Args) {
			return &UnifyError{Want: a, Got: b}
		}
		for i := range at.Args {
			if err := Unify(at.Args[i], bt.Args[i]); err != nil {
				return err
			}
		}
		return nil

	case *Fn:
		bt, ok := b.(*Fn)
		if !ok || len(at.Args) != len(bt.Args) {
			return &UnifyError{Want: a, Got: b}
		}
		for i := range at.Args {
			if err := Unify(at.Args[i], bt.Args[i]); err != nil {
				return err
			}
		}
		return Unify(at.Ret, bt.Ret)

	case *Tuple:
		bt, ok := b.(*Tuple)
		if !ok || len(at.Elems) != len(bt.Elems) {
			return &UnifyError{Want: a, Got: b}
		}
		for i := range at.Elems {
			if err := Unify(at.Elems[i], bt.Elems[i]); err != nil {
				return err
			}
		}
		return nil
	}

	return &UnifyError{Want: a, Got: b}
}

func unifyVar(v *Var, other Type) error {
	if ov, ok := other.(*Var); ok && ov.Cell == v.Cell {
		return nil // same cell, already unified
	}
	if gid, isGeneric := v.Cell.IsGeneric(); isGeneric {
		// A Generic var only unifies with itself; anything else is a
		// genuine mismatch (generic vars only appear this way when a
		// caller re-checks an already-generalised signature, e.g. a
		// recursive call inside its own un-generalised SCC body should
		// never see Generic cells — if it does, that is a compiler bug
		// surfaced as an error rather than a panic).
		if ov, ok := other.(*Var); ok {
			if oGid, ok2 := ov.Cell.IsGeneric(); ok2 && oGid == gid {
				return nil
			}
		}
		return &UnifyError{Want: v, Got: other, Situation: "generic variable"}
	}
	id, _ := v.Cell.IsUnbound()
	if occurs(id, other) {
		return &OccursError{VarID: id, In: other}
	}
	v.Cell.Link(other)
	return nil
}

// occurs walks t looking for an Unbound cell with the given id, used to
// reject infinite types like `a = List(a)` before linking.
func occurs(id uint64, t Type) bool {
	t = Deref(t)
	switch t := t.(type) {
	case *Var:
		oid, ok := t.Cell.IsUnbound()
		return ok && oid == id
	case *Named:
		for _, a := range t.Args {
			if occurs(id, a) {
				return true
			}
		}
		return false
	case *Fn:
		for _, a := range t.Args {
			if occurs(id, a) {
				return true
			}
		}
		return occurs(id, t.Ret)
	case *Tuple:
		for _, e := range t.Elems {
			if occurs(id, e) {
				return true
			}
		}
		return false
	}
	return false
}

// FreeUnboundAbove returns the set (as a slice, insertion order preserved)
// of Unbound variable ids reachable from t whose id is >= floor. Spec.md
// §4.4 Pass C: "free unbound variables whose ids are >= the SCC entry
// level become Generic" — this collects exactly those candidates.
func FreeUnboundAbove(t Type, floor uint64, seen map[uint64]bool, out *[]*Cell) {
	t = Deref(t)
	switch t := t.(type) {
	case *Var:
		if id, ok := t.Cell.IsUnbound(); ok && id >= floor && !seen[id] {
			seen[id] = true
			*out = append(*out, t.Cell)
		}
	case *Named:
		for _, a := range t.Args {
			FreeUnboundAbove(a, floor, seen, out)
		}
	case *Fn:
		for _, a := range t.Args {
			FreeUnboundAbove(a, floor, seen, out)
		}
		FreeUnboundAbove(t.Ret, floor, seen, out)
	case *Tuple:
		for _, e := range t.Elems {
			FreeUnboundAbove(e, floor, seen, out)
		}
	}
}

// Generalise converts every free Unbound cell reachable from t whose id is
// >= floor into a Generic cell, in place, and returns t unchanged
// (generalisation mutates the graph rather than rebuilding it, since the
// cells are shared with whatever scope originally allocated them; spec.md's
// "generalisation walks the graph once per definition and replaces still-
// unbound vars with fresh Generic{id} nodes, severing cycles before the
// ModuleInterface is exposed").
func Generalise(t Type, floor uint64) Type {
	seen := map[uint64]bool{}
	var cells []*Cell
	FreeUnboundAbove(t, floor, seen, &cells)
	for _, c := range cells {
		c.MakeGeneric()
	}
	return t
}

// Instantiator produces fresh Unbound cells for a Generic variable the
// first time it is seen and reuses that same fresh cell for subsequent
// occurrences of the same Generic id within one Instantiate call, so shared
// type variables in a signature stay shared after instantiation.
type Instantiator struct {
	fresh map[uint64]*Cell
	next  func() uint64
}

// NewInstantiator builds one bound to a source of fresh ids (typically
// ident.UniqueIDGenerator.Next).
func NewInstantiator(next func() uint64) *Instantiator {
	return &Instantiator{fresh: make(map[uint64]*Cell), next: next}
}

// Instantiate returns a structural copy of t with every Generic cell
// replaced by a fresh Unbound cell. Every Named, Fn and Tuple node is
// rebuilt, including ones that hold no variables. Each call starts from an
// empty Generic-to-fresh-cell table, so two calls never share fresh cells.
func (inst *Instantiator) Instantiate(t Type) Type {
	inst.fresh = make(map[uint64]*Cell)
	return inst.instantiate(t)
}

func (inst *Instantiator) instantiate(t Type) Type {
	switch t := Deref(t).(type) {
	case *Var:
		gid, ok := t.Cell.IsGeneric()
		if !ok {
			return t // unbound vars pass through unchanged (shared with caller's scope)
		}
		if c, ok := inst.fresh[gid]; ok {
			return &Var{Cell: c}
		}
		c := NewUnboundCell(inst.next())
		inst.fresh[gid] = c
		return &Var{Cell: c}
	case *Named:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = inst.instantiate(a)
		}
		return &Named{Package: t.Package, Module: t.Module, Name: t.Name, Publicity: t.Publicity, Args: args}
	case *Fn:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = inst.instantiate(a)
		}
		return &Fn{Args: args, Ret: inst.instantiate(t.Ret)}
	case *Tuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = inst.instantiate(e)
		}
		return &Tuple{Elems: elems}
	default:
		return t
	}
}

// ContainsPrivate reports whether t mentions any Named type whose
// Publicity is Private — used to enforce spec.md §4.4's invariant
// "every public value's inferred type must not mention any private type"
// (PrivateTypeLeak).
func ContainsPrivate(t Type) bool {
	switch t := Deref(t).(type) {
	case *Named:
		if t.Publicity == Private {
			return true
		}
		for _, a := range t.Args {
			if ContainsPrivate(a) {
				return true
			}
		}
		return false
	case *Fn:
		for _, a := range t.Args {
			if ContainsPrivate(a) {
				return true
			}
		}
		return ContainsPrivate(t.Ret)
	case *Tuple:
		for _, e := range t.Elems {
			if ContainsPrivate(e) {
				return true
			}
		}
		return false
	}
	return false
}
