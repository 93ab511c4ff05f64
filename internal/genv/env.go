package genv

import (
	"sort"
	"strings"

	"github.com/glistix/glistix-core/internal/gtype"
	"github.com/glistix/glistix-core/internal/ident"
	"github.com/glistix/glistix-core/internal/srcspan"
)

// FieldMap maps a labelled argument or field name to its positional index,
// spec.md §3's FieldMap entity. Arity is the total number of
// positional+labelled slots, so callers can validate F.Values() ⊆ [0, Arity).
type FieldMap struct {
	Arity  uint32
	Fields map[string]uint32
}

// NewFieldMap builds an empty map of the given arity.
func NewFieldMap(arity uint32) *FieldMap {
	return &FieldMap{Arity: arity, Fields: make(map[string]uint32)}
}

// Insert records label -> index, returning false if label is already
// present (spec.md §4.1's DuplicateField case).
func (fm *FieldMap) Insert(label string, index uint32) bool {
	if _, exists := fm.Fields[label]; exists {
		return false
	}
	fm.Fields[label] = index
	return true
}

// SortedLabels returns the labels in ascending index order, the form
// diagnostics want when listing "missing labels" for IncorrectArity.
func (fm *FieldMap) SortedLabels() []string {
	type kv struct {
		label string
		index uint32
	}
	kvs := make([]kv, 0, len(fm.Fields))
	for l, i := range fm.Fields {
		kvs = append(kvs, kv{l, i})
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].index < kvs[j].index })
	out := make([]string, len(kvs))
	for i, e := range kvs {
		out[i] = e.label
	}
	return out
}

// ValueConstructorVariant distinguishes the kinds of thing a value name can
// resolve to, spec.md §3.
type ValueConstructorVariant interface{ isVariant() }

// LocalVariable is a `let`-bound or function-parameter name.
type LocalVariable struct{ Location srcspan.Span }

func (LocalVariable) isVariant() {}

// LocalConstant is a pattern-bound literal used only during exhaustiveness
// bookkeeping (not surfaced to users).
type LocalConstant struct{ Literal any }

func (LocalConstant) isVariant() {}

// ModuleConstant is a top-level `const`.
type ModuleConstant struct {
	Doc     string
	Literal any
	Module  string
	Impls   Implementations
}

func (ModuleConstant) isVariant() {}

// ModuleFn is a top-level function, local or imported.
type ModuleFn struct {
	Doc      string
	Name     string
	Module   string
	Arity    int
	FieldMap *FieldMap
	Location srcspan.Span
	Impls    Implementations
}

func (ModuleFn) isVariant() {}

// Record is a custom-type constructor function/value.
type Record struct {
	Name      string
	Arity     int
	FieldMap  *FieldMap
	Module    string
	CtorIndex int
	CtorCount int
	Doc       string
}

func (Record) isVariant() {}

// ValueConstructor is what a name resolves to in value scope.
type ValueConstructor struct {
	Publicity   gtype.Publicity
	Deprecation string
	Variant     ValueConstructorVariant
	Type        gtype.Type
}

// TypeConstructor is what a name resolves to in type scope: a registered
// custom type or builtin, spec.md §3.
type TypeConstructor struct {
	Origin      srcspan.Span
	Module      string
	Params      []gtype.Type
	Type        gtype.Type
	Publicity   gtype.Publicity
	Deprecation string
	Doc         string
}

// AccessorsMap records the field-accessor functions synthesised for a
// single-variant record type (`r.field`), keyed by field label.
type AccessorsMap struct {
	Type       gtype.Type
	Publicity  gtype.Publicity
	Accessors  map[string]RecordAccessor
}

// RecordAccessor is one field's position and type within its record.
type RecordAccessor struct {
	Index int
	Label string
	Type  gtype.Type
}

// Imported is one entry in Environment's imported-module table.
type Imported struct {
	Span      srcspan.Span
	Interface ModuleInterfaceRef
	Used      bool
}

// ModuleInterfaceRef is the subset of internal/iface.ModuleInterface the
// Environment needs without importing internal/iface directly (which would
// create an import cycle, since iface is built FROM an Environment's final
// state). internal/iface.ModuleInterface satisfies this interface.
type ModuleInterfaceRef interface {
	LookupValue(name string) (*ValueConstructor, bool)
	LookupType(name string) (*TypeConstructor, bool)
	LookupAccessors(name string) (*AccessorsMap, bool)
	PackageName() string
	IsInternal() bool
}

// scope holds one level of value/type bindings. Environment keeps a stack
// of these; closing a scope discards its bindings but never touches the
// shared UniqueIDGenerator (spec.md §4.2 in_new_scope contract).
type scope struct {
	values map[string]*ValueConstructor
	types  map[string]*TypeConstructor
	used   map[string]bool
}

func newScope() *scope {
	return &scope{values: map[string]*ValueConstructor{}, types: map[string]*TypeConstructor{}, used: map[string]bool{}}
}

// Environment is the per-module scope stack described by spec.md §4.2.
type Environment struct {
	scopes []*scope

	accessors map[string]*AccessorsMap
	imported  map[string]*Imported

	uidGen *ident.UniqueIDGenerator

	Target        Target
	TargetSupport TargetSupportMode
	CurrentPackage string
	CurrentModule  string

	unusedValueWarned []UnusedBinding

	// importedTypes tracks unqualified type imports (InsertImportedTypeConstructor),
	// separately from locally-declared types, so WRN005UnusedType only ever
	// fires on an import the module never actually referenced.
	importedTypes map[string]*Imported
}

// UnusedBinding records a never-read `let` binding, parameter or import.
// InNewScope returns one per unused local when its scope closes;
// UnusedImportBindings/UnusedTypeBindings return them for imports. The
// caller decides when to report them.
type UnusedBinding struct {
	Name string
	Span srcspan.Span
	Kind string // "variable" | "import" | "type" | "value"
}

// New creates an Environment for one module's analysis.
func New(pkg, module string, target Target, support TargetSupportMode, uidGen *ident.UniqueIDGenerator) *Environment {
	e := &Environment{
		accessors:      map[string]*AccessorsMap{},
		imported:       map[string]*Imported{},
		importedTypes:  map[string]*Imported{},
		uidGen:         uidGen,
		Target:         target,
		TargetSupport:  support,
		CurrentPackage: pkg,
		CurrentModule:  module,
	}
	e.scopes = []*scope{newScope()}
	return e
}

// NextUniqueID draws the next id from the module's shared generator, used
// for fresh type variable cells and Nix backend shadow-rename counters.
func (e *Environment) NextUniqueID() uint64 { return e.uidGen.Next() }

// InsertVariable adds name to the innermost scope.
func (e *Environment) InsertVariable(name string, variant ValueConstructorVariant, typ gtype.Type, pub gtype.Publicity, deprecation string) {
	top := e.scopes[len(e.scopes)-1]
	top.values[name] = &ValueConstructor{Publicity: pub, Deprecation: deprecation, Variant: variant, Type: typ}
}

// GetVariable looks up name from the innermost scope outward, and marks it
// used if found (for unused-variable tracking).
func (e *Environment) GetVariable(name string) (*ValueConstructor, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		s := e.scopes[i]
		if vc, ok := s.values[name]; ok {
			s.used[name] = true
			return vc, true
		}
	}
	return nil, false
}

// PeekVariable looks up name like GetVariable but without marking it used,
// for speculative lookups (e.g. checking whether an identifier shadows an
// import alias before committing to one parse).
func (e *Environment) PeekVariable(name string) (*ValueConstructor, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if vc, ok := e.scopes[i].values[name]; ok {
			return vc, true
		}
	}
	return nil, false
}

// ErrDuplicate is returned by InsertTypeConstructor when name is already
// registered in the current module (spec.md §4.4 Pass A: "Attempting to
// declare a name already present errors").
type ErrDuplicate struct{ Name string }

func (e *ErrDuplicate) Error() string { return "duplicate type: " + e.Name }

// InsertTypeConstructor registers name at module (outermost) scope.
func (e *Environment) InsertTypeConstructor(name string, ctor *TypeConstructor) error {
	top := e.scopes[0]
	if _, exists := top.types[name]; exists {
		return &ErrDuplicate{Name: name}
	}
	top.types[name] = ctor
	return nil
}

// GetTypeConstructor looks up a type name in the current module's scope
// only (types are never block-scoped in Gleam). It takes no module
// argument: a qualified reference is resolved by the caller through the
// imported module's interface. Marks an unqualified type import used, for
// WRN005UnusedType tracking.
func (e *Environment) GetTypeConstructor(name string) (*TypeConstructor, bool) {
	tc, ok := e.scopes[0].types[name]
	if ok {
		if imp, tracked := e.importedTypes[name]; tracked {
			imp.Used = true
		}
	}
	return tc, ok
}

// InsertImportedTypeConstructor registers an unqualified `import mod.{type
// T}` the same way InsertTypeConstructor does, additionally tracking it for
// the UnusedType warning (spec.md §4.2), which locally-declared types are
// never subject to.
func (e *Environment) InsertImportedTypeConstructor(name string, ctor *TypeConstructor, span srcspan.Span) error {
	if err := e.InsertTypeConstructor(name, ctor); err != nil {
		return err
	}
	e.importedTypes[name] = &Imported{Span: span}
	return nil
}

// UnusedTypeBindings returns every unqualified-imported type never
// referenced, for the UnusedType warning.
func (e *Environment) UnusedTypeBindings() []UnusedBinding {
	var out []UnusedBinding
	for name, imp := range e.importedTypes {
		if !imp.Used {
			out = append(out, UnusedBinding{Name: name, Span: imp.Span, Kind: "type"})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// InsertAccessors registers the accessor map for a record type name.
func (e *Environment) InsertAccessors(name string, am *AccessorsMap) { e.accessors[name] = am }

// GetAccessors looks up the accessor map for a record type name.
func (e *Environment) GetAccessors(name string) (*AccessorsMap, bool) {
	am, ok := e.accessors[name]
	return am, ok
}

// InNewScope opens a fresh value scope, runs f, then closes it: bindings
// introduced inside f are discarded afterward, but the unique-id generator's
// counter is shared and never reset (spec.md §4.2).
func (e *Environment) InNewScope(f func()) []UnusedBinding {
	e.scopes = append(e.scopes, newScope())
	f()
	top := e.scopes[len(e.scopes)-1]
	e.scopes = e.scopes[:len(e.scopes)-1]

	var unused []UnusedBinding
	for name, vc := range top.values {
		if top.used[name] {
			continue
		}
		if _, ok := vc.Variant.(LocalVariable); !ok {
			continue
		}
		if strings.HasPrefix(name, "_") {
			continue
		}
		loc := vc.Variant.(LocalVariable).Location
		unused = append(unused, UnusedBinding{Name: name, Span: loc, Kind: "variable"})
	}
	return unused
}

// AddImportedModule records alias -> module interface, spec.md §4.2
// imported_modules.
func (e *Environment) AddImportedModule(alias string, span srcspan.Span, iface ModuleInterfaceRef) {
	e.imported[alias] = &Imported{Span: span, Interface: iface}
}

// GetImportedModule looks up alias and marks it used.
func (e *Environment) GetImportedModule(alias string) (ModuleInterfaceRef, bool) {
	imp, ok := e.imported[alias]
	if !ok {
		return nil, false
	}
	imp.Used = true
	return imp.Interface, true
}

// UnusedImports returns every imported alias never referenced, for the
// UnusedImport warning.
func (e *Environment) UnusedImports() []string {
	var out []string
	for alias, imp := range e.imported {
		if !imp.Used {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// UnusedImportBindings is UnusedImports with each alias's Span preserved,
// for flushing spec.md §4.2's UnusedImport warning with a precise location.
func (e *Environment) UnusedImportBindings() []UnusedBinding {
	var out []UnusedBinding
	for alias, imp := range e.imported {
		if !imp.Used {
			out = append(out, UnusedBinding{Name: alias, Span: imp.Span, Kind: "import"})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SuggestModules returns up to 3 imported aliases close to name by edit
// distance, for did-you-mean diagnostics (spec.md §4.2 suggest_modules).
func (e *Environment) SuggestModules(name string) []string {
	type scored struct {
		alias string
		dist  int
	}
	var all []scored
	for alias := range e.imported {
		all = append(all, scored{alias, levenshtein(name, alias)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].dist != all[j].dist {
			return all[i].dist < all[j].dist
		}
		return all[i].alias < all[j].alias
	})
	var out []string
	for i := 0; i < len(all) && i < 3; i++ {
		if all[i].dist <= 3 {
			out = append(out, all[i].alias)
		}
	}
	return out
}

// levenshtein computes edit distance, used by every did-you-mean suggestion
// list in the diagnostic renderer (spec.md §7: "did-you-mean lists are
// produced via Levenshtein against in-scope names").
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}

// SuggestNames returns in-scope value names close to name by edit distance,
// for UnknownVariable "did you mean" suggestions.
func (e *Environment) SuggestNames(name string) []string {
	seen := map[string]bool{}
	var names []string
	for _, s := range e.scopes {
		for n := range s.values {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Slice(names, func(i, j int) bool {
		di, dj := levenshtein(name, names[i]), levenshtein(name, names[j])
		if di != dj {
			return di < dj
		}
		return names[i] < names[j]
	})
	var out []string
	for i := 0; i < len(names) && i < 3; i++ {
		if levenshtein(name, names[i]) <= 3 {
			out = append(out, names[i])
		}
	}
	return out
}
