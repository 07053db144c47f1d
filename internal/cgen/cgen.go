// Package cgen is the second, simpler code generator spec §6 mentions: a
// tree-walking C emitter that shares only the annotated AST with the
// bytecode backend and is otherwise unaffected by its design.
package cgen

import (
	"fmt"
	"strings"

	"github.com/simpla-lang/simplac/internal/ast"
)

const idPrefix = "__"

const header = `#include <stdio.h>
#include <stdlib.h>

#define TRUE 1
#define FALSE 0
#define BUFF_SIZE 1024

static char *_INPUT_BUFFER = NULL;

static char *_alloc_buffer(void) {
	char *output = calloc(BUFF_SIZE, sizeof(char));
	if (output == NULL) {
		fprintf(stderr, "cannot allocate buffer of size: %d", BUFF_SIZE);
		abort();
	}
	return output;
}

static void _read_buffer(char *dst) {
	char *tmp = dst;
	int c;
	int count = BUFF_SIZE - 1;
	while ((c = getchar()) != EOF && c != '\n' && count--)
		*tmp++ = (char)c;
	*tmp = '\0';
}

static char _read_bool(void) {
	_read_buffer(_INPUT_BUFFER);
	return atoi(_INPUT_BUFFER) ? TRUE : FALSE;
}

static int _read_int(void) {
	_read_buffer(_INPUT_BUFFER);
	return atoi(_INPUT_BUFFER);
}

static double _read_double(void) {
	_read_buffer(_INPUT_BUFFER);
	return atof(_INPUT_BUFFER);
}

static void _read_str(char *dst) {
	_read_buffer(dst);
}

static void _initialize(void) {
	_INPUT_BUFFER = _alloc_buffer();
}

static void _finalize(void) {
	free(_INPUT_BUFFER);
}
`

// Generate walks a checked program and returns portable C source text.
func Generate(prog *ast.Program) string {
	g := &generator{globals: make(map[string]ast.Kind)}
	for _, v := range prog.Globals {
		g.noteKinds(g.globals, v)
		g.genVarDecl(v)
	}
	for _, fn := range prog.Functions {
		g.genFunction(fn)
	}
	g.locals = nil
	g.genMain(prog.Body)

	var out strings.Builder
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(g.buf.String())
	return out.String()
}

type generator struct {
	buf     strings.Builder
	globals map[string]ast.Kind
	locals  map[string]ast.Kind
}

func (g *generator) noteKinds(into map[string]ast.Kind, v *ast.VarDecl) {
	for _, id := range v.Ids {
		into[id] = v.Kind
	}
}

// kindOf resolves a name's declared kind, locals shadowing globals, the
// same scoping rule internal/symbols enforces during checking.
func (g *generator) kindOf(name string) ast.Kind {
	if g.locals != nil {
		if k, ok := g.locals[name]; ok {
			return k
		}
	}
	return g.globals[name]
}

func (g *generator) genVarDecl(v *ast.VarDecl) {
	names := make([]string, len(v.Ids))
	for i, id := range v.Ids {
		names[i] = cID(id)
	}
	fmt.Fprintf(&g.buf, "%s %s;\n", cType(v.Kind), strings.Join(names, ", "))
}

func (g *generator) genFunction(fn *ast.FuncDecl) {
	locals := make(map[string]ast.Kind)
	for _, p := range fn.Params {
		locals[p.Id] = p.Kind
	}
	for _, v := range fn.Locals {
		g.noteKinds(locals, v)
	}
	g.locals = locals

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %s", cType(p.Kind), cID(p.Id))
	}
	fmt.Fprintf(&g.buf, "%s %s(%s) {\n", cType(fn.Result), cID(fn.Id), strings.Join(params, ", "))
	for _, v := range fn.Locals {
		g.genVarDecl(v)
	}
	g.genBlock(fn.Body)
	g.buf.WriteString("}\n\n")

	g.locals = nil
}

func (g *generator) genMain(body []ast.Statement) {
	g.buf.WriteString("int main(void) {\n_initialize();\n")
	g.genBlock(body)
	g.buf.WriteString("_finalize();\nreturn 0;\n}\n")
}

func (g *generator) genBlock(stmts []ast.Statement) {
	for _, s := range stmts {
		g.genStatement(s)
	}
}

func (g *generator) genStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.AssignStat:
		fmt.Fprintf(&g.buf, "%s = %s;\n", cID(st.Id), g.expr(st.Expr))
	case *ast.IfStat:
		fmt.Fprintf(&g.buf, "if (%s) {\n", g.expr(st.Cond))
		g.genBlock(st.Then)
		g.buf.WriteString("}")
		if st.Else != nil {
			g.buf.WriteString(" else {\n")
			g.genBlock(st.Else)
			g.buf.WriteString("}")
		}
		g.buf.WriteString("\n")
	case *ast.WhileStat:
		fmt.Fprintf(&g.buf, "while (%s) {\n", g.expr(st.Cond))
		g.genBlock(st.Body)
		g.buf.WriteString("}\n")
	case *ast.ForStat:
		id := cID(st.Id)
		fmt.Fprintf(&g.buf, "for (%s = %s; %s <= %s; %s++) {\n",
			id, g.expr(st.From), id, g.expr(st.To), id)
		g.genBlock(st.Body)
		g.buf.WriteString("}\n")
	case *ast.ReturnStat:
		if st.Expr != nil {
			fmt.Fprintf(&g.buf, "return %s;\n", g.expr(st.Expr))
		} else {
			g.buf.WriteString("return;\n")
		}
	case *ast.ReadStat:
		for _, id := range st.Ids {
			g.buf.WriteString(readStatement(cID(id), g.kindOf(id)))
		}
	case *ast.WriteStat:
		g.genWrite(st)
	case *ast.CallStat:
		fmt.Fprintf(&g.buf, "%s;\n", g.call(st.Call))
	case *ast.BreakStat:
		g.buf.WriteString("break;\n")
	default:
		panic(fmt.Sprintf("cgen: unknown statement variant %T", s))
	}
}

// readStatement renders one `read(id)` target as a call into the runtime
// header's per-kind `_read_*` helper (c_generator.rs's convert_read_stat).
func readStatement(cid string, k ast.Kind) string {
	switch k {
	case ast.Bool:
		return fmt.Sprintf("%s = _read_bool();\n", cid)
	case ast.Int:
		return fmt.Sprintf("%s = _read_int();\n", cid)
	case ast.Real:
		return fmt.Sprintf("%s = _read_double();\n", cid)
	default:
		return fmt.Sprintf("_read_str(%s);\n", cid)
	}
}

func (g *generator) genWrite(st *ast.WriteStat) {
	if len(st.Args) == 0 {
		if st.Newline {
			g.buf.WriteString("putchar('\\n');\n")
		}
		return
	}
	var spec strings.Builder
	args := make([]string, len(st.Args))
	for i, a := range st.Args {
		spec.WriteString(printfSpecifier(a.MustType()))
		spec.WriteString(" ")
		args[i] = g.expr(a)
	}
	fmt.Fprintf(&g.buf, "printf(\"%s\", %s);\n", spec.String(), strings.Join(args, ", "))
	if st.Newline {
		g.buf.WriteString("putchar('\\n');\n")
	}
}

func (g *generator) call(fc *ast.FuncCall) string {
	args := make([]string, len(fc.Args))
	for i, a := range fc.Args {
		args[i] = g.expr(a)
	}
	return fmt.Sprintf("%s(%s)", cID(fc.Id), strings.Join(args, ", "))
}

func (g *generator) expr(e *ast.Expr) string {
	switch t := e.Tree.(type) {
	case *ast.BinaryNode:
		return fmt.Sprintf("%s %s %s", g.expr(t.Left), cOperator(t.Op), g.expr(t.Right))
	case *ast.Factor:
		return g.factor(t)
	default:
		panic(fmt.Sprintf("cgen: unknown expr tree %T", e.Tree))
	}
}

func (g *generator) factor(f *ast.Factor) string {
	switch v := f.Value.(type) {
	case *ast.Id:
		return cID(v.Name)
	case *ast.UnaryOp:
		if v.Op == ast.Minus {
			return "-" + g.factor(v.Operand)
		}
		return "!" + g.factor(v.Operand)
	case *ast.Cond:
		return fmt.Sprintf("%s ? %s : %s", g.expr(v.Cond), g.expr(v.Then), g.expr(v.Else))
	case *ast.Cast:
		if v.Dir == ast.ToInt {
			return fmt.Sprintf("(int)(%s)", g.expr(v.Operand))
		}
		return fmt.Sprintf("(double)(%s)", g.expr(v.Operand))
	case *ast.Call:
		return g.call(v.FuncCall)
	case *ast.Const:
		return cConst(v)
	case *ast.Paren:
		return fmt.Sprintf("(%s)", g.expr(v.Inner))
	default:
		panic(fmt.Sprintf("cgen: unknown factor value %T", f.Value))
	}
}

func cConst(c *ast.Const) string {
	switch c.Kind {
	case ast.ConstBool:
		if c.BoolVal {
			return "TRUE"
		}
		return "FALSE"
	case ast.ConstInt:
		return fmt.Sprintf("%d", c.IntVal)
	case ast.ConstReal:
		return fmt.Sprintf("%v", c.RealVal)
	default:
		return fmt.Sprintf("%q", c.StrVal)
	}
}

func cType(k ast.Kind) string {
	switch k {
	case ast.Bool:
		return "char"
	case ast.Int:
		return "int"
	case ast.Real:
		return "double"
	case ast.Str:
		return "char*"
	default:
		return "void"
	}
}

func cOperator(op ast.Operator) string {
	switch op {
	case ast.Eq:
		return "=="
	case ast.Ne:
		return "!="
	case ast.Gt:
		return ">"
	case ast.Ge:
		return ">="
	case ast.Lt:
		return "<"
	case ast.Le:
		return "<="
	case ast.Add:
		return "+"
	case ast.Sub:
		return "-"
	case ast.Mul:
		return "*"
	case ast.Div:
		return "/"
	case ast.And:
		return "&&"
	default:
		return "||"
	}
}

func printfSpecifier(k ast.Kind) string {
	switch k {
	case ast.Bool:
		return "%c"
	case ast.Int:
		return "%d"
	case ast.Real:
		return "%f"
	default:
		return "%s"
	}
}

func cID(name string) string { return idPrefix + name }
