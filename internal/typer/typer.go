// Package typer is the Hindley-Milner Expression Typer spec.md §4.5
// describes: it walks internal/ast expression/statement/pattern trees
// already hydrated by internal/hydrator and produces internal/typedast
// trees with every node's internal/gtype.Type attached.
//
// Grounded on the teacher's internal/types.CoreTypeChecker (stateful
// checker struct threaded through one method per node kind, producing a
// parallel typed tree) generalised from the teacher's class-constraint
// based numeric defaulting to this compiler's simpler, annotation-driven
// Hindley-Milner (spec.md has no type classes) plus the extra rules
// spec.md §4.5 names that the teacher has no analogue of: use-sugar, pipe,
// record update, bit-array segments, and target-support narrowing.
package typer

import (
	"fmt"

	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/hydrator"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/glistix/glistix-core/internal/typedast"
)

// Typer infers types for one function/constant body at a time. A fresh
// Typer-level scope is opened per body (via env.InNewScope), but one Typer
// value is shared by every definition of a module: ResetImplementations
// resets Implementations narrowing and the previous_panics flag between
// definitions, which share one Problems sink and Environment.
type Typer struct {
	env   *genv.Environment
	probs *problems.Problems
	hyd   *hydrator.Hydrator

	// impls accumulates the Implementations of the function currently being
	// inferred, narrowed by every module-value reference (spec.md §4.5
	// "Target-support narrowing").
	impls genv.Implementations

	// previousPanics is spec.md §4.5's "Todo / panic / placeholder" flag:
	// set after a todo/panic/placeholder expression in a statement
	// sequence, consulted by the next statement to decide whether to warn
	// UnreachableCodeAfterPanic. Reset per new statement sequence.
	previousPanics bool
	panicWarned    bool

	// externals is the `@external` attribute list of the function currently
	// being inferred (nil for a constant), consulted by target-support
	// narrowing to excuse an otherwise-unsupported reference when the
	// current function has its own external stub for the target.
	externals []ast.ExternalAttr
}

// New creates a Typer bound to env/probs, sharing env's unique-id generator
// with its own Hydrator and Instantiator (so fresh type variables minted
// during inference never collide with ones the Hydrator minted during
// signature hydration).
func New(env *genv.Environment, probs *problems.Problems) *Typer {
	return &Typer{
		env:   env,
		probs: probs,
		hyd:   hydrator.New(env, probs),
	}
}

// freshInstantiator returns a new Instantiator, used every time a
// polymorphic signature is referenced so distinct use sites get distinct
// fresh type variables (spec.md §4.5's Hindley-Milner "instantiate at each
// use site" rule) rather than sharing one Instantiator's memoised fresh
// vars across the whole body.
func (t *Typer) freshInstantiator() *gtype.Instantiator {
	return gtype.NewInstantiator(t.env.NextUniqueID)
}

// Implementations returns the accumulated target-support record for the
// body most recently inferred by this Typer, per spec.md §4.4 Pass C
// ("starting Implementations derived from body presence + externals",
// narrowed during inference).
func (t *Typer) Implementations() genv.Implementations { return t.impls }

// ResetImplementations seeds the narrowing accumulator before inferring a
// new definition's body; start is the value registered in Pass B (pure
// Gleam, or external-only for a target with no portable fallback).
func (t *Typer) ResetImplementations(start genv.Implementations) {
	t.impls = start
	t.previousPanics = false
	t.panicWarned = false
	t.externals = nil
}

// SetCurrentExternals records the `@external` attributes of the
// function/constant currently being inferred, called once per definition
// right after ResetImplementations. Target-support narrowing (typer_var.go)
// consults this so a reference unsupported on the current target is excused
// when the current function has its own external stub for that target
// (spec.md §4.5's UnsupportedExpressionTarget rule).
func (t *Typer) SetCurrentExternals(externals []ast.ExternalAttr) {
	t.externals = externals
}

// InferBody infers a function body (a statement sequence) and unifies its
// final value with retAnnotation (if non-nil, already hydrated). Returns
// the typed statements and the body's resulting type.
func (t *Typer) InferBody(stmts []ast.Statement, retAnnotation gtype.Type) ([]typedast.TStatement, gtype.Type) {
	typed, resultType := t.inferStatementSeq(stmts)
	if retAnnotation != nil {
		if err := gtype.Unify(retAnnotation, resultType); err != nil {
			t.errorf(bodySpan(stmts), problems.TYP001UnifyError, "return type mismatch: %v", err)
		}
	}
	return typed, resultType
}

func bodySpan(stmts []ast.Statement) srcspan.Span {
	if len(stmts) == 0 {
		return srcspan.Span{}
	}
	return srcspan.NewSpan(stmts[0].Span().Start, stmts[len(stmts)-1].Span().End)
}

func (t *Typer) errorf(span srcspan.Span, code, format string, args ...any) {
	t.probs.Error(&problems.Diagnostic{
		Code: code, Phase: "typer",
		Message: fmt.Sprintf(format, args...),
		Span:    spanPtr(span),
	})
}

func (t *Typer) warnf(span srcspan.Span, code, format string, args ...any) {
	t.probs.Warn(&problems.Diagnostic{
		Code: code, Phase: "typer",
		Message: fmt.Sprintf(format, args...),
		Span:    spanPtr(span),
	})
}

// FlushUnusedBindings reports each entry of unused as a WRN004UnusedValue
// warning: every InNewScope call site passes its returned
// []genv.UnusedBinding here as soon as the scope closes, rather than
// discarding it.
func (t *Typer) FlushUnusedBindings(unused []genv.UnusedBinding) {
	for _, u := range unused {
		t.warnf(u.Span, problems.WRN004UnusedValue, "%s is never used", u.Name)
	}
}

func spanPtr(s srcspan.Span) *srcspan.Span { return &s }

func freshUnbound(env *genv.Environment) gtype.Type {
	return &gtype.Var{Cell: gtype.NewUnboundCell(env.NextUniqueID())}
}
