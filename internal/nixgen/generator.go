package nixgen

import (
	"fmt"

	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/nixir"
	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/glistix/glistix-core/internal/typedast"
)

// Generator lowers one top-level function or constant's typed body into
// nixir, threading a UsageTracker and the module's line-number table for
// panic/todo error-record positions. One Generator is created per
// definition (spec.md §4.7's Generator is likewise scoped to "usually a
// single Gleam function at a time").
type Generator struct {
	Module       string
	FunctionName string
	Tracker      *UsageTracker
	Lines        *srcspan.LineNumbers
}

// NewGenerator builds a Generator for one definition's body.
func NewGenerator(module, functionName string, tracker *UsageTracker, lines *srcspan.LineNumbers) *Generator {
	return &Generator{Module: module, FunctionName: functionName, Tracker: tracker, Lines: lines}
}

// lineOf resolves a span's starting line, falling back to 0 when no line
// table was supplied (e.g. in unit tests that build spans directly).
func (g *Generator) lineOf(span srcspan.Span) int {
	if g.Lines == nil {
		return 0
	}
	return g.Lines.LineCol(span.Start).Line
}

// letScope accumulates one flattened statement sequence's bindings plus the
// shadow-rename counters spec.md §4.7.4 describes ("shadowing produces
// name'1, name'2, ..."). Nested Fn literals get their own letScope, since a
// fresh Nix lambda shadows outer names natively; the manual renaming here
// only matters for sequential `let`s within one body that reuse a name,
// which Nix's non-recursive `let` would otherwise reject as a duplicate
// binding.
type letScope struct {
	gen      *Generator
	counts   map[string]int
	bindings []nixir.Binding
	strict   []nixir.Expr
	anonN    int
}

func newLetScope(gen *Generator) *letScope {
	return &letScope{gen: gen, counts: map[string]int{}}
}

// bind registers name as a binding target, returning the Nix identifier to
// use (possibly suffixed for shadowing) and recording value under it.
func (s *letScope) bind(name string, value nixir.Expr, strict bool) string {
	if name == "" {
		name = fmt.Sprintf("_'%d", s.anonN)
		s.anonN++
		s.bindings = append(s.bindings, nixir.Binding{Name: name, Value: value})
		if strict {
			s.strict = append(s.strict, &nixir.Var{Name: name})
		}
		return name
	}
	n := s.counts[name]
	ident := SanitiseIdent(name)
	if n > 0 {
		ident = fmt.Sprintf("%s'%d", ident, n)
	}
	s.counts[name] = n + 1
	s.bindings = append(s.bindings, nixir.Binding{Name: ident, Value: value})
	if strict {
		s.strict = append(s.strict, &nixir.Var{Name: ident})
	}
	return ident
}

// bindParam registers a lambda parameter's shadow-rename slot without
// recording a LetIn binding (the Nix Lambda node itself binds the name).
func (s *letScope) bindParam(name string) string {
	n := s.counts[name]
	ident := SanitiseIdent(name)
	if n > 0 {
		ident = fmt.Sprintf("%s'%d", ident, n)
	}
	s.counts[name] = n + 1
	return ident
}

// resolve returns the current (most recently bound) Nix identifier for a
// local name, or its plain sanitised form if it was never bound in this
// scope (a function parameter, or a name from an enclosing scope).
func (s *letScope) resolve(name string) string {
	n := s.counts[name]
	ident := SanitiseIdent(name)
	if n > 1 {
		ident = fmt.Sprintf("%s'%d", ident, n-1)
	}
	return ident
}

func (s *letScope) finish(body nixir.Expr) nixir.Expr {
	switch len(s.strict) {
	case 0:
		// no-op
	case 1:
		body = &nixir.Seq{Var: s.strict[0], Body: body}
	default:
		s.gen.Tracker.SeqAll = true
		body = &nixir.SeqAll{Vars: s.strict, Body: body}
	}
	if len(s.bindings) == 0 {
		return body
	}
	return &nixir.LetIn{Bindings: s.bindings, Body: body}
}

// scopeStack, used by lowerExpr for *typedast.Var, tracks which letScope
// (if any) currently owns shadow-renaming for local names; nested Fn
// literals push their own.
type scopeStack struct{ scopes []*letScope }

func (st *scopeStack) push(s *letScope) { st.scopes = append(st.scopes, s) }
func (st *scopeStack) pop()             { st.scopes = st.scopes[:len(st.scopes)-1] }
func (st *scopeStack) top() *letScope {
	if len(st.scopes) == 0 {
		return nil
	}
	return st.scopes[len(st.scopes)-1]
}

// resolve walks the open scopes innermost-first, returning the most
// recent shadow-renamed identifier for name from whichever scope bound it.
// A name never bound in any open scope (a top-level function/constant
// reference that parses as a Var rather than going through module-level
// resolution, which should not happen, or a genuinely free name) falls
// back to its plain sanitised form.
func (st *scopeStack) resolve(name string) string {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if st.scopes[i].counts[name] > 0 {
			return st.scopes[i].resolve(name)
		}
	}
	return SanitiseIdent(name)
}

// LowerBody lowers a function/constant's statement list into one nixir.Expr
// (spec.md §4.7.4: "let-in blocks collect bindings; the trailing
// expression is the in body").
func (g *Generator) LowerBody(stmts []typedast.TStatement) nixir.Expr {
	st := &scopeStack{}
	return g.lowerStatements(stmts, st)
}

func (g *Generator) lowerStatements(stmts []typedast.TStatement, st *scopeStack) nixir.Expr {
	scope := newLetScope(g)
	st.push(scope)
	defer st.pop()

	if len(stmts) == 0 {
		return &nixir.Null{}
	}

	var final nixir.Expr = &nixir.Null{}
	for i, s := range stmts {
		last := i == len(stmts)-1
		switch s := s.(type) {
		case *typedast.ExprStatement:
			val := g.lowerExpr(s.Expr, st)
			if last {
				final = val
			} else {
				scope.bind("", val, true)
			}
		case *typedast.LetStatement:
			g.lowerLetStatement(s, scope, st)
			if last {
				final = &nixir.Null{}
			}
		default:
			final = &nixir.Raw{Text: fmt.Sprintf("/* unhandled statement %T */", s)}
		}
	}
	return scope.finish(final)
}

// lowerLetStatement handles both LetPlain (the pattern is exhaustive by
// construction, checked by internal/dtree before typing finished, so it
// can be destructured unconditionally) and LetAssert (spec.md §4.7.5:
// assign the subject once, force an assertion binding, then force that
// assertion before any user binding can be observed).
func (g *Generator) lowerLetStatement(s *typedast.LetStatement, scope *letScope, st *scopeStack) {
	value := g.lowerExpr(s.Value, st)

	if name, ok := simpleVarPattern(s.Pattern); ok {
		scope.bind(name, value, false)
		return
	}

	subjectName := scope.bind("", value, false)
	subject := &nixir.Var{Name: subjectName}

	if s.Kind == typedast.LetPlain {
		for _, b := range destructureBindings(s.Pattern, subject) {
			scope.bind(b.name, b.value, false)
		}
		return
	}

	g.Tracker.MakeError = true
	cond, bindings := compilePattern(s.Pattern, subject)
	var checkFailed nixir.Expr
	if cond == nil {
		checkFailed = &nixir.Bool{Value: false}
	} else {
		checkFailed = &nixir.Negate{Op: "!", Value: cond}
	}
	assertExpr := &nixir.If{
		Cond: checkFailed,
		Then: &nixir.Throw{Value: g.makeErrorCall("assignment_no_match", g.lineOf(s.Span()))},
		Else: &nixir.Null{},
	}
	assertName := scope.bind("", assertExpr, true)
	assertRef := &nixir.Var{Name: assertName}
	for _, b := range bindings {
		scope.bind(b.name, &nixir.Seq{Var: assertRef, Body: b.value}, false)
	}
}

// simpleVarPattern reports whether p is a plain variable/discard binding
// (no destructuring, no assertion needed), the common case.
func simpleVarPattern(p typedast.TPattern) (string, bool) {
	switch p := p.(type) {
	case *typedast.VarPattern:
		return p.Name, true
	case *typedast.DiscardPattern:
		return "", false
	}
	return "", false
}

// makeErrorCall builds a call to the prelude's makeError helper (spec.md
// §4.7.7): `makeError kind module line function`, returning an attrs value
// thrown directly by the caller. line is resolved by the caller from a
// srcspan.LineNumbers table, since Generator itself holds no source text.
func (g *Generator) makeErrorCall(kind string, line int) *nixir.App {
	return &nixir.App{
		Fun: &nixir.Var{Name: "makeError"},
		Args: []nixir.Expr{
			&nixir.Str{Value: kind},
			&nixir.Str{Value: SanitiseString(g.Module)},
			&nixir.Int{Text: fmt.Sprintf("%d", line)},
			&nixir.Str{Value: SanitiseString(g.FunctionName)},
		},
	}
}

// boolType reports whether t is the builtin Bool type, found structurally
// (pointer identity against the interned gtype.Bool singleton) rather than
// by constructor name/module lookup, since nothing in internal/genv
// currently registers True/False as record constructors anywhere a
// nixgen lowering pass could find them (a bootstrap gap documented in
// DESIGN.md, not fixed here).
func boolType(t gtype.Type) bool {
	n, ok := gtype.Deref(t).(*gtype.Named)
	return ok && n == gtype.Bool
}

// nilType is boolType's Nil analogue, for the same structural reason.
func nilType(t gtype.Type) bool {
	n, ok := gtype.Deref(t).(*gtype.Named)
	return ok && n == gtype.Nil
}
