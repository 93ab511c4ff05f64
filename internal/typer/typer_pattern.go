package typer

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/dtree"
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/typedast"
)

// inferPattern type-checks a surface pattern against an expected subject
// type, binding any names it introduces into the current (innermost)
// environment scope, per spec.md §4.5/§4.6.
func (t *Typer) inferPattern(p ast.Pattern, subject gtype.Type) typedast.TPattern {
	switch p := p.(type) {
	case *ast.VarPattern:
		t.env.InsertVariable(p.Name, genv.LocalVariable{Location: p.Span()}, subject, gtype.Private, "")
		return typedast.NewVarPattern(p.Span(), subject, p.Name)

	case *ast.DiscardPattern:
		return typedast.NewDiscardPattern(p.Span(), subject, p.Name)

	case *ast.IntPattern:
		t.unifyPatternType(p, gtype.Int, subject, "int pattern")
		return typedast.NewIntPattern(p.Span(), gtype.Int, p.Text)

	case *ast.FloatPattern:
		t.unifyPatternType(p, gtype.Float, subject, "float pattern")
		return typedast.NewFloatPattern(p.Span(), gtype.Float, p.Text)

	case *ast.StringPattern:
		t.unifyPatternType(p, gtype.StringT, subject, "string pattern")
		return typedast.NewStringPattern(p.Span(), gtype.StringT, p.Value)

	case *ast.StringPrefixPattern:
		t.unifyPatternType(p, gtype.StringT, subject, "string prefix pattern")
		if p.RightName != "" {
			t.env.InsertVariable(p.RightName, genv.LocalVariable{Location: p.Span()}, gtype.StringT, gtype.Private, "")
		}
		return typedast.NewStringPrefixPattern(p.Span(), gtype.StringT, p.Prefix, p.RightName)

	case *ast.AssignPattern:
		inner := t.inferPattern(p.Inner, subject)
		t.env.InsertVariable(p.Name, genv.LocalVariable{Location: p.Span()}, subject, gtype.Private, "")
		return typedast.NewAssignPattern(p.Span(), subject, inner, p.Name)

	case *ast.TuplePattern:
		return t.inferTuplePattern(p, subject)

	case *ast.ListPattern:
		return t.inferListPattern(p, subject)

	case *ast.ConstructorPattern:
		return t.inferConstructorPattern(p, subject)

	case *ast.BitArrayPattern:
		return t.inferBitArrayPattern(p, subject)

	default:
		t.errorf(p.Span(), problems.PAR006InvalidPattern, "internal error: unhandled pattern kind %T", p)
		return typedast.NewInvalidPattern(p.Span(), subject)
	}
}

func (t *Typer) unifyPatternType(spanHolder ast.Pattern, want, got gtype.Type, situation string) {
	if err := gtype.Unify(want, got); err != nil {
		t.errorf(spanHolder.Span(), problems.TYP001UnifyError, "pattern type mismatch (%s): %v", situation, err)
	}
}

func (t *Typer) inferTuplePattern(p *ast.TuplePattern, subject gtype.Type) typedast.TPattern {
	elemTypes := make([]gtype.Type, len(p.Elements))
	for i := range elemTypes {
		elemTypes[i] = freshUnbound(t.env)
	}
	tupleType := &gtype.Tuple{Elems: elemTypes}
	if err := gtype.Unify(tupleType, subject); err != nil {
		t.errorf(p.Span(), problems.TYP002NotATuple, "expected a tuple: %v", err)
	}
	elements := make([]typedast.TPattern, len(p.Elements))
	for i, el := range p.Elements {
		elements[i] = t.inferPattern(el, elemTypes[i])
	}
	return typedast.NewTuplePattern(p.Span(), tupleType, elements)
}

func (t *Typer) inferListPattern(p *ast.ListPattern, subject gtype.Type) typedast.TPattern {
	elemType := freshUnbound(t.env)
	listType := gtype.ListOf(elemType)
	if err := gtype.Unify(listType, subject); err != nil {
		t.errorf(p.Span(), problems.TYP001UnifyError, "expected a list: %v", err)
	}
	elements := make([]typedast.TPattern, len(p.Elements))
	for i, el := range p.Elements {
		elements[i] = t.inferPattern(el, elemType)
	}
	var tail typedast.TPattern
	if p.Tail != nil {
		tail = t.inferPattern(p.Tail, listType)
	}
	return typedast.NewListPattern(p.Span(), listType, elements, tail)
}

// inferConstructorPattern resolves a Ctor(...) pattern against its
// registered genv.Record variant, reordering labelled fields into
// declaration order exactly like a call (spec.md §4.5 FieldMap reuse).
func (t *Typer) inferConstructorPattern(p *ast.ConstructorPattern, subject gtype.Type) typedast.TPattern {
	vc, found := t.lookupConstructor(p.Module, p.Name)
	if !found {
		t.errorf(p.Span(), problems.RES001UnknownVariable, "unknown constructor %q", p.Name)
		var args []typedast.TPattern
		for _, a := range p.Args {
			args = append(args, t.inferPattern(a.Pattern, freshUnbound(t.env)))
		}
		return typedast.NewConstructorPattern(p.Span(), subject, p.Module, p.Name, args, p.Spread, 0, 0)
	}
	rec, ok := vc.Variant.(genv.Record)
	if !ok {
		t.errorf(p.Span(), problems.RES001UnknownVariable, "%q is not a constructor", p.Name)
		return typedast.NewInvalidPattern(p.Span(), subject)
	}

	ctorType := t.freshInstantiator().Instantiate(vc.Type)
	var fieldTypes []gtype.Type
	var resultType gtype.Type = ctorType
	if fn, isFn := gtype.Deref(ctorType).(*gtype.Fn); isFn {
		fieldTypes = fn.Args
		resultType = fn.Ret
	}
	if err := gtype.Unify(resultType, subject); err != nil {
		t.errorf(p.Span(), problems.TYP001UnifyError, "pattern does not match subject type: %v", err)
	}

	args := make([]typedast.TPattern, len(fieldTypes))
	for i := range args {
		args[i] = typedast.NewDiscardPattern(p.Span(), fieldTypes[i], "")
	}
	filled := make([]bool, len(fieldTypes))
	next := 0
	for _, a := range p.Args {
		idx := -1
		if a.Label == "" {
			for next < len(filled) && filled[next] {
				next++
			}
			if next < len(filled) {
				idx = next
				next++
			}
		} else if rec.FieldMap != nil {
			if i, ok := rec.FieldMap.Fields[a.Label]; ok {
				idx = int(i)
			} else {
				t.errorf(p.Span(), problems.ARI003UnknownLabel, "unknown label %q", a.Label)
				continue
			}
		}
		if idx < 0 || idx >= len(fieldTypes) {
			t.errorf(p.Span(), problems.ARI001IncorrectArity, "too many pattern arguments for %q", p.Name)
			continue
		}
		filled[idx] = true
		args[idx] = t.inferPattern(a.Pattern, fieldTypes[idx])
	}
	if !p.Spread {
		for i, ok := range filled {
			if !ok {
				t.errorf(p.Span(), problems.ARI001IncorrectArity, "missing field %q in pattern for %q; use `..` to ignore it", labelAt(rec.FieldMap, i), p.Name)
			}
		}
	}

	return typedast.NewConstructorPattern(p.Span(), subject, p.Module, p.Name, args, p.Spread, rec.CtorIndex, rec.CtorCount)
}

func labelAt(fm *genv.FieldMap, index int) string {
	if fm == nil {
		return "#" + string(rune('0'+index))
	}
	for l, i := range fm.Fields {
		if int(i) == index {
			return l
		}
	}
	return "#" + string(rune('0'+index))
}

func (t *Typer) lookupConstructor(module, name string) (*genv.ValueConstructor, bool) {
	if module != "" {
		iface, ok := t.env.GetImportedModule(module)
		if !ok {
			return nil, false
		}
		return iface.LookupValue(name)
	}
	return t.env.GetVariable(name)
}

func (t *Typer) inferBitArrayPattern(p *ast.BitArrayPattern, subject gtype.Type) typedast.TPattern {
	if err := gtype.Unify(gtype.BitArray, subject); err != nil {
		t.errorf(p.Span(), problems.TYP001UnifyError, "expected a bit array: %v", err)
	}
	segments := make([]typedast.BitArraySegmentPattern, len(p.Segments))
	for i, s := range p.Segments {
		valType := gtype.Type(gtype.Int)
		for _, o := range s.Options {
			if o.Name == "bytes" || o.Name == "binary" || o.Name == "bits" || o.Name == "bitstring" {
				valType = gtype.BitArray
			}
			if o.Name == "utf8" || o.Name == "utf16" || o.Name == "utf32" {
				valType = gtype.StringT
			}
			if o.Name == "float" {
				valType = gtype.Float
			}
		}
		valPat := t.inferPattern(s.Value, valType)
		opts := t.checkBitArraySegmentOptions(s.Options)
		segments[i] = typedast.BitArraySegmentPattern{Value: valPat, Options: opts}
	}
	return typedast.NewBitArrayPattern(p.Span(), gtype.BitArray, segments)
}

// --- exhaustiveness glue over internal/dtree ---

func (t *Typer) compileExhaustiveness(rows [][]typedast.TPattern) dtree.Tree {
	clauses := make([]dtree.Clause, len(rows))
	for i, r := range rows {
		clauses[i] = dtree.Clause{Patterns: r}
	}
	return dtree.NewCompiler(clauses).Compile()
}

func isTreeExhaustive(tree dtree.Tree) bool { return dtree.IsExhaustive(tree) }

func missingPatternsOf(tree dtree.Tree) []string { return dtree.MissingPatterns(tree) }
