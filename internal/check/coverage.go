package check

import (
	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/diag"
)

// CheckReturnCoverage verifies that every control-flow path of a
// non-Void function ends in a Return, per spec §4.F. Void functions are
// always covered.
func CheckReturnCoverage(fn *ast.FuncDecl) diag.Error {
	if fn.Result == ast.Void {
		return nil
	}
	return checkCoverage(fn.Body, fn)
}

func checkCoverage(body []ast.Statement, fn *ast.FuncDecl) diag.Error {
	if len(body) == 0 {
		return &diag.MissingReturnError{FuncSpan: fn.Span, LastSpan: fn.Span, Declared: fn.Result}
	}
	last := body[len(body)-1]
	switch st := last.(type) {
	case *ast.ReturnStat:
		return nil
	case *ast.IfStat:
		if st.Else == nil {
			return &diag.MissingReturnError{FuncSpan: fn.Span, LastSpan: st.Span, Declared: fn.Result}
		}
		if err := checkCoverage(st.Then, fn); err != nil {
			return err
		}
		return checkCoverage(st.Else, fn)
	default:
		return &diag.MissingReturnError{FuncSpan: fn.Span, LastSpan: last.StatSpan(), Declared: fn.Result}
	}
}
