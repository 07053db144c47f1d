// Package symbols implements the three layered scope tables of spec §4.C:
// a global variable table, a function table built atop it, and a
// per-function (and per-main-body) local variable table built atop both.
package symbols

import (
	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/diag"
)

// VarEntry records a variable's declared kind and the span where it was
// introduced, so collisions can report "originally defined here".
type VarEntry struct {
	Kind ast.Kind
	Span ast.Span
}

// FuncEntry records a function's declaration.
type FuncEntry struct {
	Decl *ast.FuncDecl
}

// GlobalTable is the first tier: program-level variables.
type GlobalTable struct {
	vars map[string]VarEntry
}

// BuildGlobals populates the global variable table in declaration order,
// returning the first name collision encountered (fail-fast, per spec §7).
func BuildGlobals(decls []*ast.VarDecl) (*GlobalTable, diag.Error) {
	t := &GlobalTable{vars: make(map[string]VarEntry)}
	for _, d := range decls {
		for _, name := range d.Ids {
			if existing, ok := t.vars[name]; ok {
				return nil, &diag.NameRedefinitionError{
					Name:         name,
					OriginalSpan: existing.Span,
					OriginalKind: diag.CategoryVariable,
					NewSpan:      d.Span,
					NewKind:      diag.CategoryVariable,
				}
			}
			t.vars[name] = VarEntry{Kind: d.Kind, Span: d.Span}
		}
	}
	return t, nil
}

// Lookup resolves a global variable by name.
func (t *GlobalTable) Lookup(name string) (VarEntry, bool) {
	e, ok := t.vars[name]
	return e, ok
}

// FuncTable is the second tier: it extends the global table with function
// names. A function name may not collide with a global variable or with
// another function.
type FuncTable struct {
	globals *GlobalTable
	funcs   map[string]FuncEntry
}

// BuildFunctions extends globals into a function table.
func BuildFunctions(funcs []*ast.FuncDecl, globals *GlobalTable) (*FuncTable, diag.Error) {
	t := &FuncTable{globals: globals, funcs: make(map[string]FuncEntry)}
	for _, fn := range funcs {
		if g, ok := globals.Lookup(fn.Id); ok {
			return nil, &diag.NameRedefinitionError{
				Name:         fn.Id,
				OriginalSpan: g.Span,
				OriginalKind: diag.CategoryVariable,
				NewSpan:      fn.Span,
				NewKind:      diag.CategoryFunction,
			}
		}
		if existing, ok := t.funcs[fn.Id]; ok {
			return nil, &diag.NameRedefinitionError{
				Name:         fn.Id,
				OriginalSpan: existing.Decl.Span,
				OriginalKind: diag.CategoryFunction,
				NewSpan:      fn.Span,
				NewKind:      diag.CategoryFunction,
			}
		}
		t.funcs[fn.Id] = FuncEntry{Decl: fn}
	}
	return t, nil
}

// Lookup resolves a function by name.
func (t *FuncTable) Lookup(name string) (*ast.FuncDecl, bool) {
	e, ok := t.funcs[name]
	if !ok {
		return nil, false
	}
	return e.Decl, true
}

// Globals exposes the underlying global table, which LocalTable.Lookup
// falls back to for names not declared locally.
func (t *FuncTable) Globals() *GlobalTable { return t.globals }

// LocalFactory produces fresh local variable tables layered atop a
// function table, one per function (and one for the main body).
type LocalFactory struct {
	funcs *FuncTable
}

// NewLocalFactory builds a factory atop a completed function table.
func NewLocalFactory(funcs *FuncTable) *LocalFactory {
	return &LocalFactory{funcs: funcs}
}

// LocalTable is the third tier: parameters and local variables of one
// function (or an empty one for the main body), shadowing globals but not
// functions.
type LocalTable struct {
	funcs *FuncTable
	vars  map[string]VarEntry
}

// Build constructs a local table for a function body. params and locals
// share one scope: a collision between them, or a local name that matches
// a function name, is an error. A local name is permitted to shadow a
// global. declSpan is used as the origin span for parameters, which have
// no span of their own (spec §3).
func (f *LocalFactory) Build(params []ast.ParamDecl, locals []*ast.VarDecl, declSpan ast.Span) (*LocalTable, diag.Error) {
	t := &LocalTable{funcs: f.funcs, vars: make(map[string]VarEntry)}

	addLocal := func(name string, kind ast.Kind, span ast.Span) diag.Error {
		if fn, ok := f.funcs.Lookup(name); ok {
			return &diag.NameRedefinitionError{
				Name:         name,
				OriginalSpan: fn.Span,
				OriginalKind: diag.CategoryFunction,
				NewSpan:      span,
				NewKind:      diag.CategoryVariable,
			}
		}
		if existing, ok := t.vars[name]; ok {
			return &diag.NameRedefinitionError{
				Name:         name,
				OriginalSpan: existing.Span,
				OriginalKind: diag.CategoryVariable,
				NewSpan:      span,
				NewKind:      diag.CategoryVariable,
			}
		}
		t.vars[name] = VarEntry{Kind: kind, Span: span}
		return nil
	}

	for _, p := range params {
		if err := addLocal(p.Id, p.Kind, declSpan); err != nil {
			return nil, err
		}
	}
	for _, d := range locals {
		for _, name := range d.Ids {
			if err := addLocal(name, d.Kind, d.Span); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// Lookup resolves a variable, checking the local scope first, then falling
// back to the global table.
func (t *LocalTable) Lookup(name string) (VarEntry, bool) {
	if e, ok := t.vars[name]; ok {
		return e, true
	}
	return t.funcs.Globals().Lookup(name)
}

// IsLocal reports whether name resolves in the local scope (as opposed to
// falling back to global).
func (t *LocalTable) IsLocal(name string) bool {
	_, ok := t.vars[name]
	return ok
}

// LookupFunc resolves a function by name through the same table.
func (t *LocalTable) LookupFunc(name string) (*ast.FuncDecl, bool) {
	return t.funcs.Lookup(name)
}
