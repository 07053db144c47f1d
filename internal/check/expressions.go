// Package check implements the semantic pipeline of spec §4.D–§4.F: the
// type checker, the statement checker, and the return-coverage analyzer.
// It operates bottom-up on an ast.Program already resolved against
// symbols tables, writing resolved kinds back into each Expr/Factor's
// TypeSlot and returning the first diagnostic encountered (fail-fast per
// phase, per spec §7).
package check

import (
	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/diag"
	"github.com/simpla-lang/simplac/internal/symbols"
)

// CheckExpr types e bottom-up against scope, filling e's TypeSlot (and
// every reachable nested Expr/Factor's TypeSlot) on success.
func CheckExpr(e *ast.Expr, scope *symbols.LocalTable) diag.Error {
	var k ast.Kind
	var err diag.Error
	switch t := e.Tree.(type) {
	case *ast.BinaryNode:
		k, err = typeBinary(e.Span, t, scope)
	case *ast.Factor:
		k, err = typeFactor(t, e.Span, scope)
	default:
		panic("unreachable: unknown ExprTree variant")
	}
	if err != nil {
		return err
	}
	e.Set(k)
	return nil
}

func typeBinary(span ast.Span, n *ast.BinaryNode, scope *symbols.LocalTable) (ast.Kind, diag.Error) {
	if err := CheckExpr(n.Left, scope); err != nil {
		return ast.Void, err
	}
	if err := CheckExpr(n.Right, scope); err != nil {
		return ast.Void, err
	}
	left := n.Left.MustType()
	right := n.Right.MustType()

	if left != right {
		return ast.Void, &diag.MismatchedOperationTypesError{OpSpan: span, Left: left, Right: right}
	}

	switch n.Op.Class() {
	case ast.Numeric:
		if left != ast.Int && left != ast.Real {
			return ast.Void, &diag.IncoherentOperationError{OpSpan: span, Kind: left, Operator: n.Op}
		}
		return left, nil
	case ast.Logic:
		if left != ast.Bool {
			return ast.Void, &diag.IncoherentOperationError{OpSpan: span, Kind: left, Operator: n.Op}
		}
		return ast.Bool, nil
	default: // Relational
		if left == ast.Void {
			return ast.Void, &diag.IncoherentOperationError{OpSpan: span, Kind: left, Operator: n.Op}
		}
		return ast.Bool, nil
	}
}

func typeFactor(f *ast.Factor, span ast.Span, scope *symbols.LocalTable) (ast.Kind, diag.Error) {
	k, err := computeFactorKind(f, span, scope)
	if err != nil {
		return ast.Void, err
	}
	f.Set(k)
	return k, nil
}

func computeFactorKind(f *ast.Factor, span ast.Span, scope *symbols.LocalTable) (ast.Kind, diag.Error) {
	switch v := f.Value.(type) {
	case *ast.Const:
		return v.ResultKind(), nil

	case *ast.Id:
		entry, ok := scope.Lookup(v.Name)
		if !ok {
			return ast.Void, &diag.UnknownVariableError{RefSpan: v.Span, Name: v.Name}
		}
		return entry.Kind, nil

	case *ast.Paren:
		if err := CheckExpr(v.Inner, scope); err != nil {
			return ast.Void, err
		}
		return v.Inner.MustType(), nil

	case *ast.UnaryOp:
		operandKind, err := typeFactor(v.Operand, v.Span, scope)
		if err != nil {
			return ast.Void, err
		}
		switch v.Op {
		case ast.Minus:
			if operandKind != ast.Int && operandKind != ast.Real {
				return ast.Void, &diag.MismatchedUnaryError{OpSpan: v.Span, Class: diag.UnaryNumeric, Operand: operandKind}
			}
			return operandKind, nil
		default: // Negate
			if operandKind != ast.Bool {
				return ast.Void, &diag.MismatchedUnaryError{OpSpan: v.Span, Class: diag.UnaryLogic, Operand: operandKind}
			}
			return ast.Bool, nil
		}

	case *ast.Cast:
		if err := CheckExpr(v.Operand, scope); err != nil {
			return ast.Void, err
		}
		operandKind := v.Operand.MustType()
		switch v.Dir {
		case ast.ToInt:
			if operandKind != ast.Real {
				return ast.Void, &diag.CastError{CastSpan: v.Span, Dir: ast.ToInt, Operand: operandKind}
			}
			return ast.Int, nil
		default: // ToReal
			if operandKind != ast.Int {
				return ast.Void, &diag.CastError{CastSpan: v.Span, Dir: ast.ToReal, Operand: operandKind}
			}
			return ast.Real, nil
		}

	case *ast.Cond:
		if err := CheckExpr(v.Cond, scope); err != nil {
			return ast.Void, err
		}
		condKind := v.Cond.MustType()
		if condKind != ast.Bool {
			return ast.Void, &diag.NonBooleanConditionError{CondSpan: v.Cond.Span, Construct: diag.ConstructCond, Actual: condKind}
		}
		if err := CheckExpr(v.Then, scope); err != nil {
			return ast.Void, err
		}
		if err := CheckExpr(v.Else, scope); err != nil {
			return ast.Void, err
		}
		thenKind := v.Then.MustType()
		elseKind := v.Else.MustType()
		if thenKind != elseKind {
			return ast.Void, &diag.MismatchedConditionalExpressionError{CondSpan: v.Span, Then: thenKind, Else: elseKind}
		}
		return thenKind, nil

	case *ast.Call:
		return typeFuncCall(v.FuncCall, scope)

	default:
		panic("unreachable: unknown FactorValue variant")
	}
}

func typeFuncCall(fc *ast.FuncCall, scope *symbols.LocalTable) (ast.Kind, diag.Error) {
	decl, ok := scope.LookupFunc(fc.Id)
	if !ok {
		return ast.Void, &diag.UnknownFunctionError{CallSpan: fc.Span, Name: fc.Id}
	}
	if len(fc.Args) != len(decl.Params) {
		return ast.Void, &diag.ArgumentCountError{
			FuncName: fc.Id,
			FuncSpan: decl.Span,
			CallSpan: fc.Span,
			Expected: len(decl.Params),
			Given:    len(fc.Args),
		}
	}
	for i, arg := range fc.Args {
		if err := CheckExpr(arg, scope); err != nil {
			return ast.Void, err
		}
		argKind := arg.MustType()
		if argKind != decl.Params[i].Kind {
			return ast.Void, &diag.MismatchedArgumentTypeError{
				FuncName: fc.Id,
				CallSpan: fc.Span,
				Index:    i,
				Expected: decl.Params[i].Kind,
				Given:    argKind,
			}
		}
	}
	return decl.Result, nil
}
