package nixgen

import (
	"fmt"

	"github.com/glistix/glistix-core/internal/nixir"
	"github.com/glistix/glistix-core/internal/typedast"
)

// binOpTable maps typedast.BinOpKind to Nix's own infix operator. Integer
// and float division are not in the table: lowerBinOp routes them to the
// prelude's divideInt/divideFloat, which have Gleam's
// div-by-zero-returns-zero semantics that Nix's native `/` does not have.
// Concatenation has no dedicated Nix operator and goes through `+`, which
// Nix applies to strings directly, so OpConcat maps to a plain BinOp rather
// than a prelude call.
var binOpTable = map[typedast.BinOpKind]string{
	typedast.OpAddInt:    "+",
	typedast.OpAddFloat:  "+",
	typedast.OpSubInt:    "-",
	typedast.OpSubFloat:  "-",
	typedast.OpMulInt:    "*",
	typedast.OpMulFloat:  "*",
	typedast.OpEq:        "==",
	typedast.OpNotEq:     "!=",
	typedast.OpLtInt:     "<",
	typedast.OpLtEqInt:   "<=",
	typedast.OpGtInt:     ">",
	typedast.OpGtEqInt:   ">=",
	typedast.OpLtFloat:   "<",
	typedast.OpLtEqFloat: "<=",
	typedast.OpGtFloat:   ">",
	typedast.OpGtEqFloat: ">=",
	typedast.OpAnd:       "&&",
	typedast.OpOr:        "||",
	typedast.OpConcat:    "+",
}

// lowerExpr dispatches one typed expression node to its Nix IR shape. st
// carries the stack of shadow-rename scopes currently open, so *Var lookups
// for local names resolve to the correct (possibly renamed) Nix identifier.
func (g *Generator) lowerExpr(e typedast.TExpr, st *scopeStack) nixir.Expr {
	switch e := e.(type) {
	case *typedast.Int:
		return g.lowerIntLiteral(e.Text)
	case *typedast.Float:
		return &nixir.Float{Text: e.Text}
	case *typedast.String:
		return &nixir.Str{Value: SanitiseString(e.Value)}
	case *typedast.Var:
		return g.lowerVar(e, st)
	case *typedast.List:
		return g.lowerList(e, st)
	case *typedast.Tuple:
		elems := make([]nixir.Expr, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = g.lowerExpr(el, st)
		}
		return &nixir.List{Elements: elems}
	case *typedast.Call:
		return g.lowerCall(e, st)
	case *typedast.Fn:
		return g.lowerFn(e, st)
	case *typedast.BinOp:
		return g.lowerBinOp(e, st)
	case *typedast.Negate:
		op := "-"
		if e.Kind == typedast.NegateBool {
			op = "!"
		}
		return &nixir.Negate{Op: op, Value: g.lowerExpr(e.Value, st)}
	case *typedast.Block:
		return g.lowerStatements(e.Statements, st)
	case *typedast.Case:
		return g.lowerCase(e, st)
	case *typedast.FieldAccess:
		return &nixir.FieldAccess{
			Target: g.lowerExpr(e.Record, st),
			Field:  fmt.Sprintf("_%d", e.Index),
		}
	case *typedast.TupleIndex:
		return &nixir.ElemAt{Tuple: g.lowerExpr(e.Tuple, st), Index: e.Index}
	case *typedast.RecordUpdate:
		return g.lowerRecordUpdate(e, st)
	case *typedast.Todo:
		g.Tracker.MakeError = true
		return &nixir.Throw{Value: g.makeErrorCall("todo", g.lineOf(e.Span()))}
	case *typedast.Panic:
		g.Tracker.MakeError = true
		return &nixir.Throw{Value: g.makeErrorCall("panic", g.lineOf(e.Span()))}
	case *typedast.BitArray:
		return g.lowerBitArray(e, st)
	case *typedast.Invalid:
		return &nixir.Raw{Text: "builtins.throw \"unreachable: invalid expression reached code generation\""}
	default:
		return &nixir.Raw{Text: fmt.Sprintf("/* unhandled expression %T */", e)}
	}
}

// lowerIntLiteral handles spec.md §4.7.2's "decimal literals render
// directly; 0x/0o/0b literals are passed to the prelude's parseNumber
// helper as a quoted string" rule.
func (g *Generator) lowerIntLiteral(text string) nixir.Expr {
	clean := text
	negative := false
	if len(clean) > 0 && clean[0] == '-' {
		negative = true
		clean = clean[1:]
	}
	isDecimal := len(clean) < 2 || (clean[0] != '0' || (clean[1] != 'x' && clean[1] != 'X' && clean[1] != 'o' && clean[1] != 'O' && clean[1] != 'b' && clean[1] != 'B'))
	if isDecimal {
		return &nixir.Int{Text: text}
	}
	g.Tracker.ParseNumber = true
	lit := text
	if negative {
		// parseNumber only handles the unsigned literal text; negate the
		// parsed result so `-0xFF` still becomes `-255` rather than a
		// literal `-` inside the quoted argument parseNumber doesn't expect.
		return &nixir.Negate{Op: "-", Value: &nixir.App{
			Fun:  &nixir.Var{Name: "parseNumber"},
			Args: []nixir.Expr{&nixir.Str{Value: clean}},
		}}
	}
	return &nixir.App{
		Fun:  &nixir.Var{Name: "parseNumber"},
		Args: []nixir.Expr{&nixir.Str{Value: lit}},
	}
}

func (g *Generator) lowerVar(e *typedast.Var, st *scopeStack) nixir.Expr {
	// A bare Var referencing a constructor (i.e. not the Fun of a
	// surrounding Call, which lowerCall handles separately) is always a
	// zero-argument constructor value: in a fully elaborated typed tree a
	// constructor that still needs arguments only ever appears as a Call's
	// Fun, never standing alone.
	if e.IsConstructor {
		return constructorAttrs(e.Name, nil)
	}
	switch e.Kind {
	case typedast.VarLocal:
		return &nixir.Var{Name: st.resolve(e.Name)}
	case typedast.VarImported:
		return &nixir.FieldAccess{Target: &nixir.Var{Name: ModuleAlias(e.Module)}, Field: SanitiseIdent(e.Name)}
	default:
		return &nixir.Var{Name: SanitiseIdent(e.Name)}
	}
}

// constructorAttrs builds the attrs literal spec.md §4.7.3 describes for a
// constructed record value: positional field keys _0.._n-1 (both labelled
// and unlabelled fields collapse to position, since pattern-side
// ConstructorPattern carries no labels to distinguish them either) plus a
// leading __gleamTag field naming the constructor, so Case lowering and
// the Nix equality/inspection the prelude offers can discriminate between
// variants of a multi-constructor type uniformly, without nixgen needing
// to know at Call-lowering time how many constructors the type has.
func constructorAttrs(name string, args []nixir.Expr) *nixir.Attrs {
	fields := make([]nixir.Field, 0, len(args)+1)
	fields = append(fields, nixir.Field{Key: "__gleamTag", Value: &nixir.Str{Value: name}})
	for i, a := range args {
		fields = append(fields, nixir.Field{Key: fmt.Sprintf("_%d", i), Value: a})
	}
	return &nixir.Attrs{Fields: fields}
}

func (g *Generator) lowerList(e *typedast.List, st *scopeStack) nixir.Expr {
	elems := make([]nixir.Expr, len(e.Elements))
	for i, el := range e.Elements {
		elems[i] = g.lowerExpr(el, st)
	}
	if e.Tail == nil {
		g.Tracker.ToList = true
		return &nixir.App{Fun: &nixir.Var{Name: "toList"}, Args: []nixir.Expr{&nixir.List{Elements: elems}}}
	}
	tail := g.lowerExpr(e.Tail, st)
	if len(elems) == 0 {
		return tail
	}
	g.Tracker.ListPrepend = true
	return &nixir.App{
		Fun:  &nixir.Var{Name: "listPrepend"},
		Args: []nixir.Expr{&nixir.List{Elements: elems}, tail},
	}
}

func (g *Generator) lowerCall(e *typedast.Call, st *scopeStack) nixir.Expr {
	args := make([]nixir.Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = g.lowerExpr(a, st)
	}
	if v, ok := e.Fun.(*typedast.Var); ok && v.IsConstructor {
		return constructorAttrs(v.Name, args)
	}
	fun := g.lowerExpr(e.Fun, st)
	return &nixir.App{Fun: fun, Args: args}
}

// lowerFn curries a multi-parameter Gleam function into nested single-arg
// Nix Lambdas, since Nix's `:` only ever binds one parameter (spec.md
// §4.7.4). Each parameter gets its own scope entry so the body can resolve
// it, and discarded (`_`) parameters get a synthetic name so Nix's lambda
// grammar (which requires a parameter identifier) stays satisfiable.
func (g *Generator) lowerFn(e *typedast.Fn, st *scopeStack) nixir.Expr {
	scope := newLetScope(g)
	st.push(scope)
	defer st.pop()

	names := make([]string, len(e.Params))
	for i, p := range e.Params {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("_discarded%d", i)
		}
		names[i] = scope.bindParam(name)
	}

	body := g.lowerStatements(e.Body, st)
	var result nixir.Expr = body
	for i := len(names) - 1; i >= 0; i-- {
		result = &nixir.Lambda{Param: names[i], Body: result}
	}
	return result
}

func (g *Generator) lowerBinOp(e *typedast.BinOp, st *scopeStack) nixir.Expr {
	left := g.lowerExpr(e.Left, st)
	right := g.lowerExpr(e.Right, st)
	switch e.Op {
	case typedast.OpDivInt:
		g.Tracker.DivideInt = true
		return &nixir.App{Fun: &nixir.Var{Name: "divideInt"}, Args: []nixir.Expr{left, right}}
	case typedast.OpDivFloat:
		g.Tracker.DivideFloat = true
		return &nixir.App{Fun: &nixir.Var{Name: "divideFloat"}, Args: []nixir.Expr{left, right}}
	}
	op, ok := binOpTable[e.Op]
	if !ok {
		op = "+"
	}
	return &nixir.BinOp{Op: op, Left: left, Right: right}
}

// lowerCase compiles a Case into the `if c1 then body1 else if c2 then
// body2 else ... else <unreachable>` chain spec.md §4.7.6 describes,
// built directly from each clause's patterns rather than from
// internal/dtree's compiled decision tree (see pattern.go's doc comment).
// Clause alternatives (`pat1 | pat2 -> ...`) OR their compiled conditions
// together; a clause's own guard (when present) ANDs onto that, evaluated
// in a LetIn scope carrying the pattern's bindings so the guard and body
// can reference them.
func (g *Generator) lowerCase(e *typedast.Case, st *scopeStack) nixir.Expr {
	subjects := make([]nixir.Expr, len(e.Subjects))
	for i, s := range e.Subjects {
		subjects[i] = g.lowerExpr(s, st)
	}

	// Subjects are named once up front so repeated access inside many
	// clauses' conditions doesn't re-evaluate a non-trivial subject
	// expression per clause.
	scope := newLetScope(g)
	st.push(scope)
	subjectVars := make([]nixir.Expr, len(subjects))
	for i, s := range subjects {
		name := scope.bind("", s, false)
		subjectVars[i] = &nixir.Var{Name: name}
	}

	var result nixir.Expr = &nixir.Throw{Value: g.makeErrorCall("case_no_match", g.lineOf(e.Span()))}
	g.Tracker.MakeError = true

	for i := len(e.Clauses) - 1; i >= 0; i-- {
		clause := e.Clauses[i]
		result = g.lowerClause(clause, subjectVars, result, st)
	}

	st.pop()
	return scope.finish(result)
}

// lowerClause lowers one Case clause into an If testing its (possibly
// multi-alternative) compiled pattern condition ANDed with its guard,
// falling through to elseBranch (the rest of the clause chain) otherwise.
func (g *Generator) lowerClause(clause typedast.Clause, subjects []nixir.Expr, elseBranch nixir.Expr, st *scopeStack) nixir.Expr {
	if len(clause.Patterns) == 0 {
		return elseBranch
	}

	var orCond nixir.Expr
	var firstBindings []binding
	for alt, pats := range clause.Patterns {
		var andCond nixir.Expr
		var binds []binding
		for i, p := range pats {
			c, b := compilePattern(p, subjects[i])
			andCond = and(andCond, c)
			binds = append(binds, b...)
		}
		if alt == 0 {
			firstBindings = binds
		}
		if andCond == nil {
			andCond = &nixir.Bool{Value: true}
		}
		if orCond == nil {
			orCond = andCond
		} else {
			orCond = &nixir.BinOp{Op: "||", Left: orCond, Right: andCond}
		}
	}

	scope := newLetScope(g)
	st.push(scope)
	for _, b := range firstBindings {
		scope.bind(b.name, b.value, false)
	}

	var cond nixir.Expr = orCond
	if clause.Guard != nil {
		guard := g.lowerExpr(clause.Guard, st)
		if cond == nil {
			cond = guard
		} else {
			cond = &nixir.BinOp{Op: "&&", Left: cond, Right: guard}
		}
	}

	body := g.lowerStatements(clause.Body, st)
	st.pop()

	inner := &nixir.If{Cond: cond, Then: body, Else: elseBranch}
	return scope.finish(inner)
}

func (g *Generator) lowerRecordUpdate(e *typedast.RecordUpdate, st *scopeStack) nixir.Expr {
	base := g.lowerExpr(e.Spread, st)
	fields := make([]nixir.Field, 0, len(e.Fields))
	for i, f := range e.Fields {
		if !f.Overridden {
			continue
		}
		fields = append(fields, nixir.Field{Key: fmt.Sprintf("_%d", i), Value: g.lowerExpr(f.Value, st)})
	}
	if len(fields) == 0 {
		return base
	}
	return &nixir.RecordUpdate{Base: base, Fields: fields}
}
