package bytecode

import (
	"fmt"

	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/layout"
)

// Emit walks a fully checked and laid-out program and produces its
// bytecode stream, per spec §4.H: global INIT, main body, EXT, then one
// FUNC…RET block per function in declaration order.
func Emit(prog *ast.Program, lay *layout.Program) []byte {
	e := &emitter{
		buf:     NewBuffer(),
		globals: lay.Globals,
		index:   lay.Index,
		byName:  make(map[string]*layout.FunctionLayout, len(prog.Functions)),
	}
	for _, fn := range prog.Functions {
		e.byName[fn.Id] = lay.Functions[fn]
	}

	e.emitInit(lay.Globals.Counts())
	e.emitStmts(prog.Body)
	e.buf.WriteOp(EXT)

	for _, fn := range prog.Functions {
		e.emitFunction(fn, lay.Functions[fn])
	}

	return e.buf.Code
}

type emitter struct {
	buf         *Buffer
	globals     *layout.Table
	locals      *layout.Table
	index       *layout.FunctionIndex
	byName      map[string]*layout.FunctionLayout
	nextLabel   uint16
	breakTarget []uint16
}

func (e *emitter) newLabel() uint16 {
	id := e.nextLabel
	e.nextLabel++
	return id
}

func (e *emitter) placeLabel(id uint16) {
	e.buf.WriteOp(LBL)
	e.buf.WriteU16(id)
}

func (e *emitter) jump(op Op, target uint16) {
	e.buf.WriteOp(op)
	e.buf.WriteU16(target)
}

func (e *emitter) resolve(name string) layout.AddrSize {
	if e.locals != nil {
		if a, ok := e.locals.Addr(name); ok {
			return a
		}
	}
	a, ok := e.globals.Addr(name)
	if !ok {
		panic("bytecode: unresolved variable " + name)
	}
	return a
}

func (e *emitter) writeAddr(a layout.AddrSize) {
	e.buf.WriteU16(uint16(a))
}

func (e *emitter) emitInit(counts [4]uint16) {
	e.buf.WriteOp(INIT)
	for _, c := range counts {
		e.buf.WriteU16(c)
	}
}

func (e *emitter) emitFunction(fn *ast.FuncDecl, fl *layout.FunctionLayout) {
	e.buf.WriteOp(FUNC)
	e.emitInit(fl.Locals.Counts())

	prev := e.locals
	e.locals = fl.Locals
	e.emitStmts(fn.Body)
	e.locals = prev

	// Only a trailing Return statement leaves RET as the last opcode.
	endsInReturn := false
	if n := len(fn.Body); n > 0 {
		_, endsInReturn = fn.Body[n-1].(*ast.ReturnStat)
	}
	if !endsInReturn {
		e.buf.WriteOp(RET)
	}
}

func (e *emitter) emitStmts(stmts []ast.Statement) {
	for _, s := range stmts {
		e.emitStmt(s)
	}
}

func (e *emitter) emitStmt(s ast.Statement) {
	switch st := s.(type) {
	case *ast.AssignStat:
		e.emitExpr(st.Expr)
		addr := e.resolve(st.Id)
		e.buf.WriteOp(Store(st.Expr.MustType()))
		e.writeAddr(addr)
	case *ast.IfStat:
		e.emitIf(st)
	case *ast.WhileStat:
		e.emitWhile(st)
	case *ast.ForStat:
		e.emitFor(st)
	case *ast.ReturnStat:
		if st.Expr != nil {
			e.emitExpr(st.Expr)
		}
		e.buf.WriteOp(RET)
	case *ast.ReadStat:
		for _, name := range st.Ids {
			addr := e.resolve(name)
			kind := e.kindOf(name)
			e.buf.WriteOp(Read(kind))
			e.writeAddr(addr)
		}
	case *ast.WriteStat:
		for _, arg := range st.Args {
			e.emitExpr(arg)
			e.buf.WriteOp(Write(arg.MustType()))
		}
		if st.Newline {
			e.buf.WriteOp(FLN)
		} else {
			e.buf.WriteOp(FLU)
		}
	case *ast.CallStat:
		e.emitCall(st.Call)
	case *ast.BreakStat:
		if len(e.breakTarget) == 0 {
			panic("bytecode: break emitted outside any loop")
		}
		e.jump(JUMP, e.breakTarget[len(e.breakTarget)-1])
	default:
		panic(fmt.Sprintf("bytecode: unknown statement variant %T", s))
	}
}

func (e *emitter) kindOf(name string) ast.Kind {
	if e.locals != nil {
		if k, ok := e.locals.Kind(name); ok {
			return k
		}
	}
	k, ok := e.globals.Kind(name)
	if !ok {
		panic("bytecode: unresolved variable " + name)
	}
	return k
}

func (e *emitter) emitIf(st *ast.IfStat) {
	e.emitExpr(st.Cond)
	endIf := e.newLabel()
	e.jump(JNE, endIf)
	e.emitStmts(st.Then)
	if st.Else != nil {
		endAll := e.newLabel()
		e.jump(JUMP, endAll)
		e.placeLabel(endIf)
		e.emitStmts(st.Else)
		e.placeLabel(endAll)
		return
	}
	e.placeLabel(endIf)
}

func (e *emitter) emitWhile(st *ast.WhileStat) {
	head := e.newLabel()
	end := e.newLabel()
	e.placeLabel(head)
	e.emitExpr(st.Cond)
	e.jump(JNE, end)

	e.breakTarget = append(e.breakTarget, end)
	e.emitStmts(st.Body)
	e.breakTarget = e.breakTarget[:len(e.breakTarget)-1]

	e.jump(JUMP, head)
	e.placeLabel(end)
}

func (e *emitter) emitFor(st *ast.ForStat) {
	addr := e.resolve(st.Id)

	e.emitExpr(st.From)
	e.buf.WriteOp(Store(ast.Int))
	e.writeAddr(addr)

	e.emitExpr(st.To)
	e.buf.WriteOp(BFOR)

	head := e.newLabel()
	end := e.newLabel()
	e.placeLabel(head)

	e.buf.WriteOp(LoadVar(ast.Int))
	e.writeAddr(addr)
	e.buf.WriteOp(CFOR)
	e.buf.WriteOp(BinaryOp(ast.Int, ast.Le))
	e.jump(JNE, end)

	e.breakTarget = append(e.breakTarget, end)
	e.emitStmts(st.Body)
	e.breakTarget = e.breakTarget[:len(e.breakTarget)-1]

	e.buf.WriteOp(LoadConst(ast.Int))
	e.buf.WriteI32(1)
	e.buf.WriteOp(LoadVar(ast.Int))
	e.writeAddr(addr)
	e.buf.WriteOp(BinaryOp(ast.Int, ast.Add))
	e.buf.WriteOp(Store(ast.Int))
	e.writeAddr(addr)

	e.jump(JUMP, head)
	e.placeLabel(end)
	e.buf.WriteOp(EFOR)
}

func (e *emitter) emitCall(fc *ast.FuncCall) {
	id, ok := e.index.ID(fc.Id)
	if !ok {
		panic("bytecode: unresolved function " + fc.Id)
	}
	fl, ok := e.byName[fc.Id]
	if !ok {
		panic("bytecode: no layout recorded for function " + fc.Id)
	}

	e.buf.WriteOp(PARAM)
	e.buf.WriteU16(id)
	for i, arg := range fc.Args {
		e.emitExpr(arg)
		e.buf.WriteOp(StoreParam(arg.MustType()))
		e.writeAddr(fl.ParamAddrs[i])
	}
	e.buf.WriteOp(CALL)
	e.buf.WriteU16(id)
}

func (e *emitter) emitExpr(expr *ast.Expr) {
	switch t := expr.Tree.(type) {
	case *ast.BinaryNode:
		e.emitBinary(t)
	case *ast.Factor:
		e.emitFactor(t)
	default:
		panic(fmt.Sprintf("bytecode: unknown expr tree %T", expr.Tree))
	}
}

func (e *emitter) emitBinary(n *ast.BinaryNode) {
	if n.Op.Class() == ast.Logic {
		e.emitShortCircuit(n)
		return
	}
	e.emitExpr(n.Left)
	e.emitExpr(n.Right)
	e.buf.WriteOp(BinaryOp(n.Left.MustType(), n.Op))
}

// emitShortCircuit implements spec §4.H's and/or lowering, per the
// resolved Open Question: JNE skips the right operand of an `and` when
// the left is false; JEQ skips the right operand of an `or` when the
// left is true.
func (e *emitter) emitShortCircuit(n *ast.BinaryNode) {
	e.emitExpr(n.Left)
	sc := e.newLabel()
	end := e.newLabel()
	if n.Op == ast.And {
		e.jump(JNE, sc)
		e.emitExpr(n.Right)
		e.jump(JUMP, end)
		e.placeLabel(sc)
		e.buf.WriteOp(LoadConst(ast.Bool))
		e.buf.WriteBool(false)
		e.placeLabel(end)
		return
	}
	e.jump(JEQ, sc)
	e.emitExpr(n.Right)
	e.jump(JUMP, end)
	e.placeLabel(sc)
	e.buf.WriteOp(LoadConst(ast.Bool))
	e.buf.WriteBool(true)
	e.placeLabel(end)
}

func (e *emitter) emitFactor(f *ast.Factor) {
	kind := f.MustType()
	switch v := f.Value.(type) {
	case *ast.Const:
		e.buf.WriteOp(LoadConst(kind))
		switch v.Kind {
		case ast.ConstInt:
			e.buf.WriteI32(int32(v.IntVal))
		case ast.ConstReal:
			e.buf.WriteF64(v.RealVal)
		case ast.ConstBool:
			e.buf.WriteBool(v.BoolVal)
		default:
			e.buf.WriteString(v.StrVal)
		}
	case *ast.Id:
		e.buf.WriteOp(LoadVar(kind))
		e.writeAddr(e.resolve(v.Name))
	case *ast.Paren:
		e.emitExpr(v.Inner)
	case *ast.UnaryOp:
		operandKind := v.Operand.MustType()
		e.emitFactor(v.Operand)
		if v.Op == ast.Minus {
			e.buf.WriteOp(UnaryMinus(operandKind))
		} else {
			e.buf.WriteOp(NOT)
		}
	case *ast.Cast:
		e.emitExpr(v.Operand)
		e.buf.WriteOp(Cast(v.Dir))
	case *ast.Cond:
		e.emitCondExpr(v)
	case *ast.Call:
		e.emitCall(v.FuncCall)
	default:
		panic(fmt.Sprintf("bytecode: unknown factor value %T", f.Value))
	}
}

func (e *emitter) emitCondExpr(c *ast.Cond) {
	e.emitExpr(c.Cond)
	falseLbl := e.newLabel()
	end := e.newLabel()
	e.jump(JNE, falseLbl)
	e.emitExpr(c.Then)
	e.jump(JUMP, end)
	e.placeLabel(falseLbl)
	e.emitExpr(c.Else)
	e.placeLabel(end)
}
