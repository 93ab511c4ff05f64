package nixgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/glistix/glistix-core/internal/nixir"
	"github.com/glistix/glistix-core/internal/typedast"
)

// binding is one name bound by a pattern match against some accessor
// expression rooted at the match's subject — the common currency between
// compilePattern (Case clauses, let assert) and destructureBindings (plain
// exhaustive let).
type binding struct {
	name  string
	value nixir.Expr
}

// compilePattern implements spec.md §4.7.6's "per-clause conjunctive
// checks compiled from the pattern" rule directly over one typedast
// pattern against one already-lowered subject expression, independent of
// internal/dtree's compiled decision tree (whose Switch.Column indices are
// locally renumbered per specialisation step and so aren't a stable
// accessor path back into the original subject — see DESIGN.md). Returns
// the boolean condition expression (nil if the pattern always matches,
// e.g. a bare variable) and the bindings it introduces.
func compilePattern(p typedast.TPattern, subject nixir.Expr) (nixir.Expr, []binding) {
	switch p := p.(type) {
	case *typedast.VarPattern:
		return nil, []binding{{name: p.Name, value: subject}}
	case *typedast.DiscardPattern:
		return nil, nil
	case *typedast.InvalidPattern:
		return nil, nil
	case *typedast.AssignPattern:
		cond, binds := compilePattern(p.Inner, subject)
		binds = append(binds, binding{name: p.Name, value: subject})
		return cond, binds
	case *typedast.IntPattern:
		return &nixir.BinOp{Op: "==", Left: subject, Right: lowerIntLiteralText(p.Text)}, nil
	case *typedast.FloatPattern:
		return &nixir.BinOp{Op: "==", Left: subject, Right: &nixir.Float{Text: p.Text}}, nil
	case *typedast.StringPattern:
		return &nixir.BinOp{Op: "==", Left: subject, Right: &nixir.Str{Value: SanitiseString(p.Value)}}, nil
	case *typedast.StringPrefixPattern:
		return compileStringPrefixPattern(p, subject)
	case *typedast.TuplePattern:
		return compileConjPattern(tupleElemAccessors(subject, len(p.Elements)), p.Elements)
	case *typedast.ListPattern:
		return compileListPattern(p, subject)
	case *typedast.ConstructorPattern:
		return compileConstructorPattern(p, subject)
	case *typedast.BitArrayPattern:
		return compileBitArrayPattern(p, subject)
	default:
		return &nixir.Bool{Value: false}, nil
	}
}

// lowerIntLiteralText renders an integer pattern's literal text without
// tracking prelude usage: a non-decimal literal appearing only in a
// pattern comparison is rare enough (spec.md's parseNumber polyfill is
// aimed at expression-position literals) that this backend converts a
// 0x/0o/0b literal to its decimal value at compile time instead; any other
// text is emitted unchanged.
func lowerIntLiteralText(text string) nixir.Expr {
	clean := strings.TrimPrefix(text, "-")
	if len(clean) > 1 && clean[0] == '0' && strings.ContainsRune("xXoObB", rune(clean[1])) {
		if n, err := strconv.ParseInt(text, 0, 64); err == nil {
			return &nixir.Int{Text: strconv.FormatInt(n, 10)}
		}
	}
	return &nixir.Int{Text: text}
}

// compileConjPattern ANDs together the per-element compiled conditions of
// a fixed-arity pattern group (tuple elements, constructor args), threading
// bindings through unconditionally.
func compileConjPattern(accessors []nixir.Expr, pats []typedast.TPattern) (nixir.Expr, []binding) {
	var cond nixir.Expr
	var binds []binding
	for i, sub := range pats {
		c, b := compilePattern(sub, accessors[i])
		cond = and(cond, c)
		binds = append(binds, b...)
	}
	return cond, binds
}

func and(a, b nixir.Expr) nixir.Expr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &nixir.BinOp{Op: "&&", Left: a, Right: b}
}

func tupleElemAccessors(subject nixir.Expr, n int) []nixir.Expr {
	out := make([]nixir.Expr, n)
	for i := 0; i < n; i++ {
		out[i] = &nixir.ElemAt{Tuple: subject, Index: i}
	}
	return out
}

// compileConstructorPattern checks the variant tag (__gleamTag, see
// constructorAttrs in expr.go) then conjunctively matches each positional
// field (also positional-keyed, per the same simplification), skipping the
// spread tail (`Spread` marks "the remaining fields are unconstrained",
// i.e. equivalent to each trailing field being a wildcard).
func compileConstructorPattern(p *typedast.ConstructorPattern, subject nixir.Expr) (nixir.Expr, []binding) {
	// Bool/Nil values lower to native Nix true/false/null (see expr.go's
	// Negate/BinOp handling), never to a tagged attrs record, so a pattern
	// matching one of their constructors (should the genv bootstrap gap
	// DESIGN.md documents ever register True/False/Nil as real Record
	// constructors) must compare the subject directly instead of going
	// through the generic __gleamTag path below.
	if boolType(p.Type()) {
		return &nixir.BinOp{Op: "==", Left: subject, Right: &nixir.Bool{Value: p.Name == "True"}}, nil
	}
	if nilType(p.Type()) {
		return nil, nil
	}

	tagCheck := &nixir.BinOp{
		Op:   "==",
		Left: &nixir.FieldAccess{Target: subject, Field: "__gleamTag"},
		Right: &nixir.Str{Value: SanitiseString(p.Name)},
	}
	cond := tagCheck
	if p.CtorCount <= 1 {
		// A single-constructor type's tag can never mismatch; omit the
		// redundant check so the emitted condition stays minimal.
		cond = nil
	}
	var binds []binding
	for i, sub := range p.Args {
		accessor := &nixir.FieldAccess{Target: subject, Field: fmt.Sprintf("_%d", i)}
		c, b := compilePattern(sub, accessor)
		cond = and(cond, c)
		binds = append(binds, b...)
	}
	return cond, binds
}

// compileListPattern walks a (possibly partial, Tail != nil) list pattern
// against the prelude's cons-list encoding: `{ __gleamTag = "Empty"; }` /
// `{ __gleamTag = "NonEmpty"; _0 = head; _1 = tail; }`, matching
// toList/listPrepend's own encoding in expr.go.
func compileListPattern(p *typedast.ListPattern, subject nixir.Expr) (nixir.Expr, []binding) {
	var cond nixir.Expr
	var binds []binding
	cur := subject
	for _, el := range p.Elements {
		nonEmpty := &nixir.BinOp{
			Op:   "==",
			Left: &nixir.FieldAccess{Target: cur, Field: "__gleamTag"},
			Right: &nixir.Str{Value: "NonEmpty"},
		}
		cond = and(cond, nonEmpty)
		head := &nixir.FieldAccess{Target: cur, Field: "_0"}
		c, b := compilePattern(el, head)
		cond = and(cond, c)
		binds = append(binds, b...)
		cur = &nixir.FieldAccess{Target: cur, Field: "_1"}
	}
	if p.Tail != nil {
		c, b := compilePattern(p.Tail, cur)
		cond = and(cond, c)
		binds = append(binds, b...)
	} else {
		isEmpty := &nixir.BinOp{
			Op:   "==",
			Left: &nixir.FieldAccess{Target: cur, Field: "__gleamTag"},
			Right: &nixir.Str{Value: "Empty"},
		}
		cond = and(cond, isEmpty)
	}
	return cond, binds
}

// compileStringPrefixPattern checks a literal prefix via builtins.substring
// / stringLength and binds the remainder, used for `"pre" <> rest` string
// patterns.
func compileStringPrefixPattern(p *typedast.StringPrefixPattern, subject nixir.Expr) (nixir.Expr, []binding) {
	prefixLen := len(p.Prefix)
	prefixExpr := &nixir.App{
		Fun:  &nixir.FieldAccess{Target: &nixir.Var{Name: "builtins"}, Field: "substring"},
		Args: []nixir.Expr{&nixir.Int{Text: "0"}, &nixir.Int{Text: fmt.Sprintf("%d", prefixLen)}, subject},
	}
	cond := &nixir.BinOp{Op: "==", Left: prefixExpr, Right: &nixir.Str{Value: SanitiseString(p.Prefix)}}
	var binds []binding
	if p.RightName != "" {
		rest := &nixir.App{
			Fun: &nixir.FieldAccess{Target: &nixir.Var{Name: "builtins"}, Field: "substring"},
			Args: []nixir.Expr{
				&nixir.Int{Text: fmt.Sprintf("%d", prefixLen)},
				&nixir.App{Fun: &nixir.FieldAccess{Target: &nixir.Var{Name: "builtins"}, Field: "stringLength"}, Args: []nixir.Expr{subject}},
				subject,
			},
		}
		binds = append(binds, binding{name: p.RightName, value: rest})
	}
	return cond, binds
}

// compileBitArrayPattern is intentionally conservative: bitarray.go lowers
// bit-array literals, but as a pattern every bit array, whatever its
// segments, compiles to an always-false condition, so such a clause never
// matches and control falls through to the surrounding Case's remaining
// clauses (ending in the prelude's makeError throw).
func compileBitArrayPattern(p *typedast.BitArrayPattern, subject nixir.Expr) (nixir.Expr, []binding) {
	_ = subject
	return &nixir.Bool{Value: false}, nil
}

// destructureBindings implements spec.md §4.7.5's "plain let destructuring
// needs no runtime check": the type checker already guaranteed p matches
// any value of subject's type, so only the bindings are wanted, never a
// condition. Reuses compilePattern and discards its condition.
func destructureBindings(p typedast.TPattern, subject nixir.Expr) []binding {
	_, binds := compilePattern(p, subject)
	return binds
}
