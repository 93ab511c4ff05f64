package nixir

import (
	"fmt"
	"sort"
	"strings"
)

const indentStep = "  "

// Print renders a whole module to Nix source text: a `let` binding the
// prelude import and every other module's imports, then the module's own
// definitions, followed by `in { inherit <exports>; }` (spec.md §4.7.8).
func Print(m *Module) string {
	var b strings.Builder
	b.WriteString("let\n")
	if m.PreludePath != "" {
		fmt.Fprintf(&b, "%sprelude = builtins.import %s;\n", indentStep, m.PreludePath)
	}
	for _, imp := range m.Imports {
		printImport(&b, imp)
	}
	for _, def := range m.Definitions {
		if def.Doc != "" {
			writeDocComment(&b, def.Doc, indentStep)
		}
		fmt.Fprintf(&b, "%s%s = %s;\n", indentStep, def.Name, printExpr(def.Value, 1))
	}
	b.WriteString("in\n{\n")
	sorted := append([]string(nil), m.Exports...)
	sort.Strings(sorted)
	for _, name := range sorted {
		fmt.Fprintf(&b, "%sinherit %s;\n", indentStep, name)
	}
	b.WriteString("}\n")
	return b.String()
}

func writeDocComment(b *strings.Builder, doc, indent string) {
	for _, line := range strings.Split(strings.TrimRight(doc, "\n"), "\n") {
		fmt.Fprintf(b, "%s# %s\n", indent, line)
	}
}

func printImport(b *strings.Builder, imp Import) {
	if len(imp.Names) > 0 {
		names := make([]string, len(imp.Names))
		for i, n := range imp.Names {
			names[i] = n.Name
		}
		fmt.Fprintf(b, "%sinherit (builtins.import %s) %s;\n", indentStep, imp.Path, strings.Join(names, " "))
	}
	for _, a := range imp.Aliased {
		fmt.Fprintf(b, "%s%s = (builtins.import %s).%s;\n", indentStep, a.Alias, imp.Path, a.Remote)
	}
}

// printExpr renders e at the given indent depth (in indentStep units),
// used by multi-line forms (LetIn, Attrs with several fields) to keep
// nested blocks readable.
func printExpr(e Expr, depth int) string {
	ind := strings.Repeat(indentStep, depth)
	indIn := strings.Repeat(indentStep, depth+1)

	switch e := e.(type) {
	case nil:
		return "null"
	case *Raw:
		return e.Text
	case *Var:
		return e.Name
	case *Int:
		if e.Parse {
			return fmt.Sprintf("parseNumber %q", e.Text)
		}
		return e.Text
	case *Float:
		return e.Text
	case *Str:
		return "\"" + e.Value + "\""
	case *Bool:
		if e.Value {
			return "true"
		}
		return "false"
	case *Null:
		return "null"
	case *List:
		if len(e.Elements) == 0 {
			return "[ ]"
		}
		parts := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			parts[i] = wrapChild(el, depth)
		}
		return "[ " + strings.Join(parts, " ") + " ]"
	case *Attrs:
		if len(e.Fields) == 0 {
			return "{ }"
		}
		var b strings.Builder
		b.WriteString("{\n")
		for _, f := range e.Fields {
			fmt.Fprintf(&b, "%s%s = %s;\n", indIn, quoteKeyIfNeeded(f.Key), printExpr(f.Value, depth+1))
		}
		fmt.Fprintf(&b, "%s}", ind)
		return b.String()
	case *RecordUpdate:
		var b strings.Builder
		b.WriteString(wrapChild(e.Base, depth))
		b.WriteString(" // {\n")
		for _, f := range e.Fields {
			fmt.Fprintf(&b, "%s%s = %s;\n", indIn, quoteKeyIfNeeded(f.Key), printExpr(f.Value, depth+1))
		}
		fmt.Fprintf(&b, "%s}", ind)
		return b.String()
	case *FieldAccess:
		return wrapChild(e.Target, depth) + "." + quoteKeyIfNeeded(e.Field)
	case *ElemAt:
		return fmt.Sprintf("builtins.elemAt %s %d", wrapChild(e.Tuple, depth), e.Index)
	case *BinOp:
		return wrapChild(e.Left, depth) + " " + e.Op + " " + wrapChild(e.Right, depth)
	case *Negate:
		return e.Op + wrapChild(e.Value, depth)
	case *App:
		parts := make([]string, 0, len(e.Args)+1)
		parts = append(parts, wrapChild(e.Fun, depth))
		for _, a := range e.Args {
			parts = append(parts, wrapChild(a, depth))
		}
		return strings.Join(parts, " ")
	case *Lambda:
		return e.Param + ": " + printExpr(e.Body, depth)
	case *LetIn:
		var b strings.Builder
		b.WriteString("let\n")
		for _, bind := range e.Bindings {
			fmt.Fprintf(&b, "%s%s = %s;\n", indIn, bind.Name, printExpr(bind.Value, depth+1))
		}
		fmt.Fprintf(&b, "%sin %s", ind, printExpr(e.Body, depth))
		return b.String()
	case *If:
		return "if " + printExpr(e.Cond, depth) + " then " + printExpr(e.Then, depth) +
			" else " + printExpr(e.Else, depth)
	case *Seq:
		return fmt.Sprintf("builtins.seq %s %s", wrapChild(e.Var, depth), wrapChild(e.Body, depth))
	case *SeqAll:
		vars := make([]string, len(e.Vars))
		for i, v := range e.Vars {
			vars[i] = wrapChild(v, depth)
		}
		return fmt.Sprintf("seqAll [ %s ] %s", strings.Join(vars, " "), wrapChild(e.Body, depth))
	case *Throw:
		return "builtins.throw " + wrapChild(e.Value, depth)
	default:
		return fmt.Sprintf("/* unhandled nixir.Expr %T */", e)
	}
}

// wrapChild renders e the way it would appear as a function argument or
// list element, parenthesising it when its own representation contains
// top-level spaces or could otherwise be mis-parsed as more than one token
// (spec.md §4.7.7), mirroring the pack's own wrap_child_expression.
func wrapChild(e Expr, depth int) string {
	if needsParens(e) {
		return "(" + printExpr(e, depth) + ")"
	}
	return printExpr(e, depth)
}

func needsParens(e Expr) bool {
	switch e := e.(type) {
	case *Int:
		return e.Parse || strings.HasPrefix(e.Text, "-")
	case *Float:
		return strings.HasPrefix(e.Text, "-")
	case *Var, *Str, *Bool, *Null, *FieldAccess:
		return false
	case *Attrs:
		return len(e.Fields) > 0
	case *List:
		// Composite list literals lower to a toList/listPrepend call
		// (spec.md §4.7.3), which has spaces even when e.Elements is empty.
		return true
	default:
		return true
	}
}

// quoteKeyIfNeeded wraps an attribute-set key in double-quote syntax when it
// collides with a Nix keyword (spec.md §4.7.1's "attribute-set keys that
// collide with keywords are emitted with double-quote syntax").
func quoteKeyIfNeeded(key string) string {
	if isNixKeyword(key) {
		return "\"" + key + "\""
	}
	return key
}
