// Package layout implements spec §4.G: assigning every variable a per-kind
// slot address and every function a sequential definition-order id, so the
// emitter (§4.H) can turn scope-table lookups into bytecode operands.
package layout

import (
	"fmt"

	"github.com/simpla-lang/simplac/internal/ast"
)

// AddrSize is the 16-bit operand the emitter writes for every variable
// reference. The high bit selects scope; the low 15 bits are the per-kind
// slot index, grounded on the original compiler's AddrSize/KindCounter
// design (var_cache.rs, simple_counter.rs).
type AddrSize uint16

const localBit AddrSize = 1 << 15

// MaxIndex is the largest per-kind index representable in the remaining 15
// bits, per spec §4.G.
const MaxIndex = (1 << 15) - 1

// Local builds a local-scope address from a per-kind index.
func Local(index uint16) AddrSize {
	if index > MaxIndex {
		panic(fmt.Sprintf("variable index %d exceeds per-kind maximum %d", index, MaxIndex))
	}
	return localBit | AddrSize(index)
}

// Global builds a global-scope address from a per-kind index.
func Global(index uint16) AddrSize {
	if index > MaxIndex {
		panic(fmt.Sprintf("variable index %d exceeds per-kind maximum %d", index, MaxIndex))
	}
	return AddrSize(index)
}

// IsLocal reports the scope encoded in the address's high bit.
func (a AddrSize) IsLocal() bool { return a&localBit != 0 }

// Index returns the per-kind slot index, stripping the scope bit.
func (a AddrSize) Index() uint16 { return uint16(a &^ localBit) }

// simpleCounter assigns sequential indices starting at 0, one kind at a
// time, mirroring the original SimpleCounter.
type simpleCounter struct{ next uint16 }

func (c *simpleCounter) take() uint16 {
	v := c.next
	c.next++
	return v
}

// kindCounter holds one simpleCounter per scalar kind, mirroring the
// original KindCounter. Void never reaches it: the checker rejects Void
// variable declarations before layout ever runs.
type kindCounter struct {
	counters [4]simpleCounter // indexed by ast.Int, ast.Real, ast.Bool, ast.Str
}

func (c *kindCounter) take(k ast.Kind) uint16 {
	if int(k) >= len(c.counters) {
		panic(fmt.Sprintf("layout: cannot assign a slot to kind %s", k))
	}
	return c.counters[k].take()
}

// Table maps variable names to addresses within one scope (either the
// global scope or a single function's local scope).
type Table struct {
	addrs   map[string]AddrSize
	kinds   map[string]ast.Kind
	counter kindCounter
	wrap    func(uint16) AddrSize
}

func newTable(wrap func(uint16) AddrSize) *Table {
	return &Table{addrs: make(map[string]AddrSize), kinds: make(map[string]ast.Kind), wrap: wrap}
}

func (t *Table) assign(name string, k ast.Kind) {
	idx := t.counter.take(k)
	t.addrs[name] = t.wrap(idx)
	t.kinds[name] = k
}

// Addr returns the address assigned to name.
func (t *Table) Addr(name string) (AddrSize, bool) {
	a, ok := t.addrs[name]
	return a, ok
}

// Kind returns the declared kind of name.
func (t *Table) Kind(name string) (ast.Kind, bool) {
	k, ok := t.kinds[name]
	return k, ok
}

// Counts returns the final per-kind slot counts, in the order
// [Int, Real, Bool, Str] — the four counts the emitter writes into an
// INIT block, per spec §4.H.
func (t *Table) Counts() [4]uint16 {
	var c [4]uint16
	for i := range c {
		c[i] = t.counter.counters[i].next
	}
	return c
}

// BuildGlobals assigns global-scope addresses to every declared name, in
// declaration order, per spec §4.G.
func BuildGlobals(decls []*ast.VarDecl) *Table {
	t := newTable(Global)
	for _, d := range decls {
		for _, name := range d.Ids {
			t.assign(name, d.Kind)
		}
	}
	return t
}

// FunctionLayout is one function's local address table plus the ordered
// list of its parameters' addresses, so the emitter can route call
// arguments into the right slots (spec §4.G, last paragraph).
type FunctionLayout struct {
	Locals     *Table
	ParamAddrs []AddrSize
}

// BuildFunction assigns local-scope addresses to a function's parameters
// and locals, in declaration order, sharing one numbering space per kind
// (params first, then locals, matching the original VarCache's
// cache_params-then-cache_local_vars order).
func BuildFunction(fn *ast.FuncDecl) *FunctionLayout {
	t := newTable(Local)
	paramAddrs := make([]AddrSize, len(fn.Params))
	for i, p := range fn.Params {
		t.assign(p.Id, p.Kind)
		addr, _ := t.Addr(p.Id)
		paramAddrs[i] = addr
	}
	for _, d := range fn.Locals {
		for _, name := range d.Ids {
			t.assign(name, d.Kind)
		}
	}
	return &FunctionLayout{Locals: t, ParamAddrs: paramAddrs}
}

// FunctionIndex maps function names to sequential 16-bit ids in
// definition order, grounded on the original FunctionIndex/
// build_function_index.
type FunctionIndex struct {
	ids   map[string]uint16
	order []string
}

// BuildFunctionIndex assigns each function an id equal to its position in
// funcs, per spec §4.G.
func BuildFunctionIndex(funcs []*ast.FuncDecl) *FunctionIndex {
	fi := &FunctionIndex{ids: make(map[string]uint16, len(funcs))}
	for _, fn := range funcs {
		id := uint16(len(fi.order))
		fi.ids[fn.Id] = id
		fi.order = append(fi.order, fn.Id)
	}
	return fi
}

// ID returns the function's definition-order id.
func (fi *FunctionIndex) ID(name string) (uint16, bool) {
	id, ok := fi.ids[name]
	return id, ok
}

// Len reports how many functions are indexed.
func (fi *FunctionIndex) Len() int { return len(fi.order) }

// Program bundles every layout artifact the emitter needs: the global
// table, one FunctionLayout per function, and the function index.
type Program struct {
	Globals   *Table
	Functions map[*ast.FuncDecl]*FunctionLayout
	Index     *FunctionIndex
}

// Build runs the full layout pass of spec §4.G over a checked program.
func Build(prog *ast.Program) *Program {
	p := &Program{
		Globals:   BuildGlobals(prog.Globals),
		Functions: make(map[*ast.FuncDecl]*FunctionLayout, len(prog.Functions)),
		Index:     BuildFunctionIndex(prog.Functions),
	}
	for _, fn := range prog.Functions {
		p.Functions[fn] = BuildFunction(fn)
	}
	return p
}
