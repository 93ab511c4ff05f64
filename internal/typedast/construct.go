package typedast

import (
	"github.com/glistix/glistix-core/internal/genv"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/srcspan"
)

// This file rounds out the New* constructors internal/typer needs to build
// every node kind; base is unexported so only this package can populate it,
// matching the pattern the hand-written constructors earlier in
// typedast.go already establish for Int/Float/String/Var.

func NewList(span srcspan.Span, typ gtype.Type, elements []TExpr, tail TExpr) *List {
	return &List{newBase(span, typ), elements, tail}
}

func NewTuple(span srcspan.Span, typ gtype.Type, elements []TExpr) *Tuple {
	return &Tuple{newBase(span, typ), elements}
}

func NewCall(span srcspan.Span, typ gtype.Type, fun TExpr, args []TExpr) *Call {
	return &Call{newBase(span, typ), fun, args}
}

func NewFn(span srcspan.Span, typ gtype.Type, params []FnParam, body []TStatement) *Fn {
	return &Fn{newBase(span, typ), params, body}
}

func NewBinOp(span srcspan.Span, typ gtype.Type, op BinOpKind, left, right TExpr) *BinOp {
	return &BinOp{newBase(span, typ), op, left, right}
}

func NewNegate(span srcspan.Span, typ gtype.Type, kind NegateKind, value TExpr) *Negate {
	return &Negate{newBase(span, typ), kind, value}
}

func NewBlock(span srcspan.Span, typ gtype.Type, stmts []TStatement) *Block {
	return &Block{newBase(span, typ), stmts}
}

func NewCase(span srcspan.Span, typ gtype.Type, subjects []TExpr, clauses []Clause) *Case {
	return &Case{newBase(span, typ), subjects, clauses}
}

func NewFieldAccess(span srcspan.Span, typ gtype.Type, record TExpr, label string, index int) *FieldAccess {
	return &FieldAccess{newBase(span, typ), record, label, index}
}

func NewTupleIndex(span srcspan.Span, typ gtype.Type, tuple TExpr, index int) *TupleIndex {
	return &TupleIndex{newBase(span, typ), tuple, index}
}

func NewRecordUpdate(span srcspan.Span, typ gtype.Type, ctor string, spread TExpr, fields []RecordUpdateField) *RecordUpdate {
	return &RecordUpdate{newBase(span, typ), ctor, spread, fields}
}

func NewTodo(span srcspan.Span, typ gtype.Type, msg string) *Todo {
	return &Todo{newBase(span, typ), msg}
}

func NewPanic(span srcspan.Span, typ gtype.Type, msg string) *Panic {
	return &Panic{newBase(span, typ), msg}
}

func NewBitArray(span srcspan.Span, typ gtype.Type, segments []BitArraySegment) *BitArray {
	return &BitArray{newBase(span, typ), segments}
}

func NewExprStatement(span srcspan.Span, typ gtype.Type, expr TExpr) *ExprStatement {
	return &ExprStatement{newBase(span, typ), expr}
}

func NewLetStatement(span srcspan.Span, typ gtype.Type, kind LetKind, pattern TPattern, value TExpr) *LetStatement {
	return &LetStatement{newBase(span, typ), kind, pattern, value}
}

func NewIntPattern(span srcspan.Span, typ gtype.Type, text string) *IntPattern {
	return &IntPattern{newBase(span, typ), text}
}

func NewFloatPattern(span srcspan.Span, typ gtype.Type, text string) *FloatPattern {
	return &FloatPattern{newBase(span, typ), text}
}

func NewStringPattern(span srcspan.Span, typ gtype.Type, value string) *StringPattern {
	return &StringPattern{newBase(span, typ), value}
}

func NewAssignPattern(span srcspan.Span, typ gtype.Type, inner TPattern, name string) *AssignPattern {
	return &AssignPattern{newBase(span, typ), inner, name}
}

func NewListPattern(span srcspan.Span, typ gtype.Type, elements []TPattern, tail TPattern) *ListPattern {
	return &ListPattern{newBase(span, typ), elements, tail}
}

func NewTuplePattern(span srcspan.Span, typ gtype.Type, elements []TPattern) *TuplePattern {
	return &TuplePattern{newBase(span, typ), elements}
}

func NewConstructorPattern(span srcspan.Span, typ gtype.Type, module, name string, args []TPattern, spread bool, ctorIndex, ctorCount int) *ConstructorPattern {
	return &ConstructorPattern{newBase(span, typ), module, name, args, spread, ctorIndex, ctorCount}
}

func NewBitArrayPattern(span srcspan.Span, typ gtype.Type, segments []BitArraySegmentPattern) *BitArrayPattern {
	return &BitArrayPattern{newBase(span, typ), segments}
}

func NewStringPrefixPattern(span srcspan.Span, typ gtype.Type, prefix, rightName string) *StringPrefixPattern {
	return &StringPrefixPattern{newBase(span, typ), prefix, rightName}
}

// ImplementationsOf is a tiny accessor used by internal/nixgen to read a
// Var node's narrowed Implementations without importing internal/typer.
func ImplementationsOf(v *Var) genv.Implementations { return v.Implementations }
