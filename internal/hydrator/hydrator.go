// Package hydrator converts surface type syntax (internal/ast.TypeAst) into
// internal/gtype.Type values, per spec.md §4.1. It tracks which type
// variable names are in scope for the current signature, whether holes
// (`_`) are currently permitted, and the "rigid" names a function's own
// signature introduced (kept so later error messages can refer to a type
// parameter by its original source name instead of a synthesised letter).
//
// Grounded on the teacher's internal/elaborate type-annotation conversion
// (elaborate/file.go's surface-to-core type lowering) generalised to
// spec.md's Hydrator contract: an explicit Options object
// (permit_holes/disallow_new_type_variables/clear_rigid_type_names) rather
// than the teacher's implicit always-permissive conversion, since spec.md
// requires those modes to gate distinct error conditions (PrivateTypeLeak-
// adjacent "holes disallowed" and "unknown type variable" diagnostics).
package hydrator

import (
	"fmt"
	"sort"

	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/srcspan"
)

// Hydrator converts one function/type-alias/constructor signature's worth
// of surface type syntax. A fresh Hydrator is created per signature; its
// rigid-name table is NOT shared across declarations.
type Hydrator struct {
	env     *genv.Environment
	probs   *problems.Problems
	rigid   map[string]gtype.Type // name -> the Generic/Unbound var it was bound to
	order   []string              // insertion order, for UnusedTypeVariables
	used    map[string]bool

	permitHoles       bool
	disallowNewVars   bool
}

// New creates a Hydrator bound to env (for its unique-id generator and
// type-constructor table) and probs (for diagnostics).
func New(env *genv.Environment, probs *problems.Problems) *Hydrator {
	return &Hydrator{
		env:   env,
		probs: probs,
		rigid: map[string]gtype.Type{},
		used:  map[string]bool{},
	}
}

// PermitHoles sets whether `_` in a type position becomes a fresh unbound
// variable (true) or is an error (false). Constructor/function signatures
// with no external implementation anywhere must disallow holes, since the
// resulting type could never be re-derived from a body alone.
func (h *Hydrator) PermitHoles(v bool) { h.permitHoles = v }

// DisallowNewTypeVariables, once set, makes any type-variable name not
// already bound in this Hydrator's rigid table an error instead of
// introducing a new one — used when hydrating a type alias's RHS, where
// every variable must come from the alias's own parameter list.
func (h *Hydrator) DisallowNewTypeVariables() { h.disallowNewVars = true }

// ClearRigidTypeNames discards the rigid-name table, used between
// unrelated signatures sharing one Hydrator instance (rare; most callers
// just create a new Hydrator per signature instead).
func (h *Hydrator) ClearRigidTypeNames() {
	h.rigid = map[string]gtype.Type{}
	h.order = nil
	h.used = map[string]bool{}
}

// UnusedTypeVariables lists rigid names that were declared (by a function's
// own parameter list, via PreBind) but never referenced in any hydrated
// type.
func (h *Hydrator) UnusedTypeVariables() []string {
	var out []string
	for _, n := range h.order {
		if !h.used[n] {
			out = append(out, n)
		}
	}
	return out
}

// PreBind registers a declared type-variable name so later lookups find it
// even before any TypeFromAST call mentions it (used for a function's own
// `fn f(x: a) -> a` parameter list scan, executed before the return type).
func (h *Hydrator) PreBind(name string) gtype.Type {
	if t, ok := h.rigid[name]; ok {
		return t
	}
	t := &gtype.Var{Cell: gtype.NewGenericCell(h.env.NextUniqueID())}
	h.rigid[name] = t
	h.order = append(h.order, name)
	return t
}

// TypeFromAST is the Hydrator's main entry point, spec.md §4.1
// `type_from_ast`.
func (h *Hydrator) TypeFromAST(t ast.TypeAst) (gtype.Type, error) {
	switch t := t.(type) {
	case *ast.NamedType:
		return h.hydrateNamed(t)
	case *ast.FnType:
		args := make([]gtype.Type, len(t.Args))
		for i, a := range t.Args {
			at, err := h.TypeFromAST(a)
			if err != nil {
				return nil, err
			}
			args[i] = at
		}
		var ret gtype.Type = gtype.Nil
		if t.Ret != nil {
			r, err := h.TypeFromAST(t.Ret)
			if err != nil {
				return nil, err
			}
			ret = r
		}
		return &gtype.Fn{Args: args, Ret: ret}, nil
	case *ast.TupleType:
		elems := make([]gtype.Type, len(t.Elems))
		for i, e := range t.Elems {
			et, err := h.TypeFromAST(e)
			if err != nil {
				return nil, err
			}
			elems[i] = et
		}
		return &gtype.Tuple{Elems: elems}, nil
	case *ast.VarType:
		return h.hydrateVar(t)
	case *ast.HoleType:
		return h.hydrateHole(t)
	default:
		return nil, fmt.Errorf("hydrator: unknown TypeAst %T", t)
	}
}

func (h *Hydrator) hydrateVar(t *ast.VarType) (gtype.Type, error) {
	if existing, ok := h.rigid[t.Name]; ok {
		h.used[t.Name] = true
		return existing, nil
	}
	if h.disallowNewVars {
		h.probs.Error(&problems.Diagnostic{
			Code: "TYP010", Phase: "hydrator",
			Message: fmt.Sprintf("unknown type variable %q", t.Name),
			Span:    spanPtr(t.Span()),
		})
		return &gtype.Var{Cell: gtype.NewUnboundCell(h.env.NextUniqueID())}, nil
	}
	v := &gtype.Var{Cell: gtype.NewGenericCell(h.env.NextUniqueID())}
	h.rigid[t.Name] = v
	h.order = append(h.order, t.Name)
	h.used[t.Name] = true
	return v, nil
}

func (h *Hydrator) hydrateHole(t *ast.HoleType) (gtype.Type, error) {
	if !h.permitHoles {
		h.probs.Error(&problems.Diagnostic{
			Code: "TYP011", Phase: "hydrator",
			Message: "type holes are not permitted here",
			Span:    spanPtr(t.Span()),
		})
	}
	return &gtype.Var{Cell: gtype.NewUnboundCell(h.env.NextUniqueID())}, nil
}

func (h *Hydrator) hydrateNamed(t *ast.NamedType) (gtype.Type, error) {
	name := t.Name
	if builtin, ok := builtinType(name, t.Args, h); ok {
		return builtin, nil
	}

	tc, ok := h.lookupTypeConstructor(t.Module, name)
	if !ok {
		suggestions := h.suggestTypeNames(name)
		h.probs.Error(&problems.Diagnostic{
			Code: "RES001", Phase: "hydrator",
			Message: fmt.Sprintf("unknown type %q", qualifiedName(t.Module, name)),
			Span:    spanPtr(t.Span()),
			Data:    map[string]any{"suggestions": suggestions},
		})
		return &gtype.Var{Cell: gtype.NewUnboundCell(h.env.NextUniqueID())}, nil
	}
	if len(t.Args) != len(tc.Params) {
		h.probs.Error(&problems.Diagnostic{
			Code: "ARI001", Phase: "hydrator",
			Message: fmt.Sprintf("type %q expects %d argument(s), got %d", name, len(tc.Params), len(t.Args)),
			Span:    spanPtr(t.Span()),
		})
	}
	args := make([]gtype.Type, 0, len(t.Args))
	for _, a := range t.Args {
		at, err := h.TypeFromAST(a)
		if err != nil {
			return nil, err
		}
		args = append(args, at)
	}
	return &gtype.Named{Package: "", Module: tc.Module, Name: name, Publicity: tc.Publicity, Args: args}, nil
}

func (h *Hydrator) lookupTypeConstructor(module, name string) (*genv.TypeConstructor, bool) {
	if module == "" {
		return h.env.GetTypeConstructor(name)
	}
	iface, ok := h.env.GetImportedModule(module)
	if !ok {
		return nil, false
	}
	return iface.LookupType(name)
}

func (h *Hydrator) suggestTypeNames(name string) []string {
	// No suggestions are computed: the list is always empty, and neither
	// in-module nor imported type names are searched.
	_ = name
	return nil
}

func qualifiedName(module, name string) string {
	if module == "" {
		return name
	}
	return module + "." + name
}

func spanPtr(s srcspan.Span) *srcspan.Span { return &s }

// builtinType handles the prelude scalar/collection types that exist
// without any explicit `type` declaration: Int, Float, String, Bool, Nil,
// BitArray, List, Result.
func builtinType(name string, argsAst []ast.TypeAst, h *Hydrator) (gtype.Type, bool) {
	switch name {
	case "Int":
		return gtype.Int, true
	case "Float":
		return gtype.Float, true
	case "String":
		return gtype.StringT, true
	case "Bool":
		return gtype.Bool, true
	case "Nil":
		return gtype.Nil, true
	case "BitArray":
		return gtype.BitArray, true
	case "List":
		if len(argsAst) != 1 {
			return nil, false
		}
		elem, err := h.TypeFromAST(argsAst[0])
		if err != nil {
			return nil, false
		}
		return gtype.ListOf(elem), true
	case "Result":
		if len(argsAst) != 2 {
			return nil, false
		}
		ok, err1 := h.TypeFromAST(argsAst[0])
		errT, err2 := h.TypeFromAST(argsAst[1])
		if err1 != nil || err2 != nil {
			return nil, false
		}
		return gtype.ResultOf(ok, errT), true
	default:
		return nil, false
	}
}

// sortedRigidNames is exposed for tests that want a deterministic dump of
// the current rigid-name table.
func (h *Hydrator) sortedRigidNames() []string {
	names := make([]string, 0, len(h.rigid))
	for n := range h.rigid {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
