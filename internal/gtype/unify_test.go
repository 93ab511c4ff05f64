package gtype

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestUnifyUnboundLinksToConcrete(t *testing.T) {
	v := &Var{Cell: NewUnboundCell(1)}
	require.NoError(t, Unify(v, Int))
	require.Equal(t, Int, Deref(v))
}

func TestUnifyOccursCheckRejectsCycle(t *testing.T) {
	v := &Var{Cell: NewUnboundCell(1)}
	err := Unify(v, ListOf(v))
	require.Error(t, err)
	var occ *OccursError
	require.ErrorAs(t, err, &occ)
}

func TestUnifyNamedArityMismatch(t *testing.T) {
	err := Unify(ListOf(Int), &Named{Name: "List"})
	require.Error(t, err)
}

func TestUnifyFnShapeMismatch(t *testing.T) {
	f1 := &Fn{Args: []Type{Int}, Ret: Bool}
	f2 := &Fn{Args: []Type{Int, Int}, Ret: Bool}
	require.Error(t, Unify(f1, f2))
}

func TestGeneraliseThenInstantiateProducesFreshVars(t *testing.T) {
	// id 2 is allocated "inside" the function being generalised; id 1
	// represents something bound in an enclosing scope and must not be
	// generalised away.
	outer := &Var{Cell: NewUnboundCell(1)}
	inner := &Var{Cell: NewUnboundCell(2)}
	fn := &Fn{Args: []Type{inner}, Ret: &Tuple{Elems: []Type{inner, outer}}}

	Generalise(fn, 2)

	_, isGeneric := inner.Cell.IsGeneric()
	require.True(t, isGeneric)
	_, stillUnbound := outer.Cell.IsUnbound()
	require.True(t, stillUnbound)

	next := uint64(100)
	gen := func() uint64 { next++; return next }
	inst := NewInstantiator(gen)
	copy1 := inst.Instantiate(fn)
	copy2 := inst.Instantiate(fn)

	c1 := copy1.(*Fn)
	c2 := copy2.(*Fn)
	// Within one instantiation, the two occurrences of the generic var
	// must resolve to the same fresh cell.
	require.Same(t, c1.Args[0].(*Var).Cell, c1.Ret.(*Tuple).Elems[0].(*Var).Cell)
	// Across two instantiations, the fresh cells must differ.
	require.NotSame(t, c1.Args[0].(*Var).Cell, c2.Args[0].(*Var).Cell)
	// The outer (non-generalised) var is shared, not refreshed.
	require.Same(t, outer.Cell, c1.Ret.(*Tuple).Elems[1].(*Var).Cell)
}

func TestContainsPrivateDetectsNestedPrivateType(t *testing.T) {
	private := &Named{Name: "Internal", Publicity: Private}
	public := ListOf(private)
	require.True(t, ContainsPrivate(public))
	require.False(t, ContainsPrivate(ListOf(Int)))
}

// TestUnifyProducesStructurallyIdenticalTree unifies two independently-built
// concrete (Var-free) type trees and diffs them with go-cmp, which is better
// at pinpointing exactly which nested field disagrees than a bare
// require.Equal would be once Fn/Tuple nesting gets more than one level deep.
func TestUnifyProducesStructurallyIdenticalTree(t *testing.T) {
	left := &Fn{
		Args: []Type{ListOf(Int), &Tuple{Elems: []Type{Bool, StringT}}},
		Ret:  &Named{Name: "Option", Publicity: Public, Args: []Type{Int}},
	}
	right := &Fn{
		Args: []Type{ListOf(Int), &Tuple{Elems: []Type{Bool, StringT}}},
		Ret:  &Named{Name: "Option", Publicity: Public, Args: []Type{Int}},
	}

	require.NoError(t, Unify(left, right))
	if diff := cmp.Diff(left, right); diff != "" {
		t.Fatalf("unified trees differ (-left +right):\n%s", diff)
	}

	right.Ret.(*Named).Name = "Result"
	diff := cmp.Diff(left, right)
	require.NotEmpty(t, diff, "expected go-cmp to detect the mutated Ret name")
	require.Contains(t, diff, "Name")
}
