package typer

import (
	"github.com/glistix/glistix-core/internal/ast"
	"github.com/glistix/glistix-core/internal/dtree"
	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/problems"
	"github.com/glistix/glistix-core/internal/srcspan"
	"github.com/glistix/glistix-core/internal/typedast"
)

// inferCase implements spec.md §4.5 "Case": infer subjects, type each
// clause's pattern alternatives/guard/body in a fresh scope, unify all
// bodies to a common type, then hand the typed patterns to internal/dtree
// for exhaustiveness and reachability.
func (t *Typer) inferCase(e *ast.CaseExpr) typedast.TExpr {
	subjects := make([]typedast.TExpr, len(e.Subjects))
	subjectTypes := make([]gtype.Type, len(e.Subjects))
	for i, s := range e.Subjects {
		te := t.inferExpr(s)
		subjects[i] = te
		subjectTypes[i] = te.Type()
	}

	usedLikeIf := everyClauseIsBareDiscardWithGuard(e.Clauses)

	clauses := make([]typedast.Clause, len(e.Clauses))
	var rows [][]typedast.TPattern
	var rowClauseIdx []int
	resultType := freshUnbound(t.env)

	for ci, clause := range e.Clauses {
		var typedAlts [][]typedast.TPattern
		var guard typedast.TExpr
		var body []typedast.TStatement

		unused := t.env.InNewScope(func() {
			for _, alt := range clause.Patterns {
				if len(alt) != len(subjectTypes) {
					t.errorf(clause.Span, problems.ARI001IncorrectArity,
						"pattern count does not match subject count")
					continue
				}
				typedAlt := make([]typedast.TPattern, len(alt))
				for i, p := range alt {
					typedAlt[i] = t.inferPattern(p, subjectTypes[i])
				}
				typedAlts = append(typedAlts, typedAlt)
			}

			if clause.Guard != nil {
				guard = t.inferExpr(clause.Guard)
				if err := gtype.Unify(gtype.Bool, guard.Type()); err != nil {
					t.errorf(clause.Guard.Span(), problems.TYP001UnifyError, "case guard must be Bool: %v", err)
				}
			}

			bodyStmts, bodyType := t.inferStatementSeq(clause.Body)
			body = bodyStmts
			if err := gtype.Unify(resultType, bodyType); err != nil {
				t.errorf(clauseBodySpan(clause), problems.TYP001UnifyError, "case clause has a different type than earlier clauses: %v", err)
			}
		})
		t.FlushUnusedBindings(unused)

		if !usedLikeIf && isLiteralSubjectMatch(e.Subjects, clause.Patterns) {
			t.warnf(clause.Span, problems.WRN009CaseMatchOnLiteral, "matching directly on a literal value")
		}

		clauses[ci] = typedast.Clause{Patterns: typedAlts, Guard: guard, Body: body, Span: clause.Span}
		for _, alt := range typedAlts {
			rows = append(rows, alt)
			rowClauseIdx = append(rowClauseIdx, ci)
		}
	}

	dclauses := make([]dtree.Clause, len(rows))
	for i, r := range rows {
		dclauses[i] = dtree.Clause{Patterns: r, Guarded: clauses[rowClauseIdx[i]].Guard != nil}
	}
	compiler := dtree.NewCompiler(dclauses)
	tree := compiler.Compile()

	reachable := make([]bool, len(clauses))
	for rowIdx, ci := range rowClauseIdx {
		if compiler.IsReachable(rowIdx) {
			reachable[ci] = true
		}
	}
	for ci := range clauses {
		clauses[ci].Reachable = reachable[ci]
		if !reachable[ci] {
			t.warnf(clauses[ci].Span, problems.EXH003UnreachableClause, "this case clause can never be reached")
		}
	}

	if !dtree.IsExhaustive(tree) {
		missing := dtree.MissingPatterns(tree)
		t.errorf(e.Span(), problems.EXH001InexhaustiveCase, "case expression is not exhaustive, missing: %v", missing)
	}

	return typedast.NewCase(e.Span(), resultType, subjects, clauses)
}

func clauseBodySpan(c ast.CaseClause) srcspan.Span {
	if len(c.Body) == 0 {
		return c.Span
	}
	return c.Body[len(c.Body)-1].Span()
}

// everyClauseIsBareDiscardWithGuard implements spec.md §4.5's "used like
// an if" exception: when every pattern is a discard and at least one
// clause has a guard, literal-subject-match warnings are suppressed.
func everyClauseIsBareDiscardWithGuard(clauses []ast.CaseClause) bool {
	hasGuard := false
	for _, c := range clauses {
		if c.Guard != nil {
			hasGuard = true
		}
		for _, alt := range c.Patterns {
			for _, p := range alt {
				if _, ok := p.(*ast.DiscardPattern); !ok {
					return false
				}
			}
		}
	}
	return hasGuard
}

// isLiteralSubjectMatch flags `case 1 { 1 -> ... }`-shaped clauses: every
// subject is itself a literal and the clause's pattern is the equivalent
// literal pattern, which is always either dead code or a constant result.
func isLiteralSubjectMatch(subjects []ast.Expr, alts [][]ast.Pattern) bool {
	for _, subj := range subjects {
		switch subj.(type) {
		case *ast.IntLit, *ast.FloatLit, *ast.StringLit:
		default:
			return false
		}
	}
	for _, alt := range alts {
		for _, p := range alt {
			switch p.(type) {
			case *ast.IntPattern, *ast.FloatPattern, *ast.StringPattern:
			default:
				return false
			}
		}
	}
	return len(alts) > 0
}
