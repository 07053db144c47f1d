package check

import (
	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/diag"
	"github.com/simpla-lang/simplac/internal/symbols"
)

// blockContext is either Global (the main body) or InFunction, carrying
// the enclosing function declaration for Return's kind check.
type blockContext struct {
	fn *ast.FuncDecl
}

func globalContext() blockContext             { return blockContext{} }
func functionContext(fn *ast.FuncDecl) blockContext { return blockContext{fn: fn} }
func (b blockContext) inFunction() bool       { return b.fn != nil }

// loopContext tracks loop nesting and which names are currently active
// for-loop counters, so break/assignment/read legality can be checked.
type loopContext struct {
	nestedLoopCount   int
	activeForCounters map[string]bool
}

func newLoopContext() *loopContext {
	return &loopContext{activeForCounters: make(map[string]bool)}
}

func (l *loopContext) enterLoop() { l.nestedLoopCount++ }
func (l *loopContext) exitLoop()  { l.nestedLoopCount-- }

func (l *loopContext) enterForCounter(name string) { l.activeForCounters[name] = true }
func (l *loopContext) exitForCounter(name string)  { delete(l.activeForCounters, name) }

// CheckStatements validates a statement list under scope, block and loop,
// per spec §4.E. It returns the first error encountered.
func CheckStatements(stmts []ast.Statement, scope *symbols.LocalTable, block blockContext, loop *loopContext) diag.Error {
	for _, s := range stmts {
		if err := checkStatement(s, scope, block, loop); err != nil {
			return err
		}
	}
	return nil
}

func checkStatement(s ast.Statement, scope *symbols.LocalTable, block blockContext, loop *loopContext) diag.Error {
	switch st := s.(type) {
	case *ast.AssignStat:
		return checkAssign(st, scope, loop)
	case *ast.IfStat:
		return checkIf(st, scope, block, loop)
	case *ast.WhileStat:
		return checkWhile(st, scope, block, loop)
	case *ast.ForStat:
		return checkFor(st, scope, block, loop)
	case *ast.ReturnStat:
		return checkReturn(st, scope, block)
	case *ast.ReadStat:
		return checkRead(st, scope, loop)
	case *ast.WriteStat:
		return checkWrite(st, scope)
	case *ast.CallStat:
		_, err := typeFuncCall(st.Call, scope)
		return err
	case *ast.BreakStat:
		if loop.nestedLoopCount <= 0 {
			return &diag.BreakOutsideLoopError{BreakSpan: st.Span}
		}
		return nil
	default:
		panic("unreachable: unknown Statement variant")
	}
}

func checkAssign(st *ast.AssignStat, scope *symbols.LocalTable, loop *loopContext) diag.Error {
	entry, ok := scope.Lookup(st.Id)
	if !ok {
		return &diag.UnknownVariableError{RefSpan: st.Span, Name: st.Id}
	}
	if loop.activeForCounters[st.Id] {
		return &diag.ForLoopError{ForSpan: st.Span, Kind: diag.ForCountVariableAssignment, VarName: st.Id}
	}
	if err := CheckExpr(st.Expr, scope); err != nil {
		return err
	}
	given := st.Expr.MustType()
	if given != entry.Kind {
		return &diag.MismatchedAssignmentError{AssignSpan: st.Span, Name: st.Id, Declared: entry.Kind, Given: given}
	}
	return nil
}

func checkIf(st *ast.IfStat, scope *symbols.LocalTable, block blockContext, loop *loopContext) diag.Error {
	if err := CheckExpr(st.Cond, scope); err != nil {
		return err
	}
	if k := st.Cond.MustType(); k != ast.Bool {
		return &diag.NonBooleanConditionError{CondSpan: st.Cond.Span, Construct: diag.ConstructIf, Actual: k}
	}
	if err := CheckStatements(st.Then, scope, block, loop); err != nil {
		return err
	}
	return CheckStatements(st.Else, scope, block, loop)
}

func checkWhile(st *ast.WhileStat, scope *symbols.LocalTable, block blockContext, loop *loopContext) diag.Error {
	if err := CheckExpr(st.Cond, scope); err != nil {
		return err
	}
	if k := st.Cond.MustType(); k != ast.Bool {
		return &diag.NonBooleanConditionError{CondSpan: st.Cond.Span, Construct: diag.ConstructWhile, Actual: k}
	}
	loop.enterLoop()
	defer loop.exitLoop()
	return CheckStatements(st.Body, scope, block, loop)
}

func checkFor(st *ast.ForStat, scope *symbols.LocalTable, block blockContext, loop *loopContext) diag.Error {
	entry, ok := scope.Lookup(st.Id)
	if !ok {
		return &diag.UnknownVariableError{RefSpan: st.Span, Name: st.Id}
	}
	if entry.Kind != ast.Int {
		return &diag.ForLoopError{ForSpan: st.Span, Kind: diag.ForNonIntegerCount, Actual: entry.Kind}
	}
	if loop.activeForCounters[st.Id] {
		return &diag.ForLoopError{ForSpan: st.Span, Kind: diag.ForCountVariableAssignment, VarName: st.Id}
	}

	if err := CheckExpr(st.From, scope); err != nil {
		return err
	}
	if k := st.From.MustType(); k != ast.Int {
		return &diag.ForLoopError{ForSpan: st.Span, Kind: diag.ForNonIntegerStart, Actual: k}
	}
	if err := CheckExpr(st.To, scope); err != nil {
		return err
	}
	if k := st.To.MustType(); k != ast.Int {
		return &diag.ForLoopError{ForSpan: st.Span, Kind: diag.ForNonIntegerEnd, Actual: k}
	}

	loop.enterLoop()
	loop.enterForCounter(st.Id)
	err := CheckStatements(st.Body, scope, block, loop)
	loop.exitForCounter(st.Id)
	loop.exitLoop()
	return err
}

func checkReturn(st *ast.ReturnStat, scope *symbols.LocalTable, block blockContext) diag.Error {
	if !block.inFunction() {
		return &diag.ReturnError{ReturnSpan: st.Span, Kind: diag.ReturnOutsideFunction}
	}
	declared := block.fn.Result
	if st.Expr == nil {
		if declared != ast.Void {
			return &diag.ReturnError{ReturnSpan: st.Span, Kind: diag.ReturnMismatchedType, Declared: declared, Given: ast.Void}
		}
		return nil
	}
	if err := CheckExpr(st.Expr, scope); err != nil {
		return err
	}
	given := st.Expr.MustType()
	if given != declared {
		return &diag.ReturnError{ReturnSpan: st.Span, Kind: diag.ReturnMismatchedType, Declared: declared, Given: given}
	}
	return nil
}

func checkRead(st *ast.ReadStat, scope *symbols.LocalTable, loop *loopContext) diag.Error {
	for _, name := range st.Ids {
		if _, ok := scope.Lookup(name); !ok {
			return &diag.UnknownVariableError{RefSpan: st.Span, Name: name}
		}
		if loop.activeForCounters[name] {
			return &diag.ForLoopError{ForSpan: st.Span, Kind: diag.ForCountVariableAssignment, VarName: name}
		}
	}
	return nil
}

func checkWrite(st *ast.WriteStat, scope *symbols.LocalTable) diag.Error {
	for _, arg := range st.Args {
		if err := CheckExpr(arg, scope); err != nil {
			return err
		}
	}
	return nil
}
