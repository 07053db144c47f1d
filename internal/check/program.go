package check

import (
	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/diag"
	"github.com/simpla-lang/simplac/internal/symbols"
)

// Result bundles the scope tables built while analyzing a Program. The
// layout pass (§4.G) does not take it: layout.Build derives its own
// address tables from the AST.
type Result struct {
	Globals *symbols.GlobalTable
	Funcs   *symbols.FuncTable
	Locals  map[*ast.FuncDecl]*symbols.LocalTable
	Body    *symbols.LocalTable
}

// AnalyzeProgram runs the full semantic pipeline of spec §4.C–§4.F over a
// Program, annotating every expression's TypeSlot and returning the first
// error encountered.
func AnalyzeProgram(prog *ast.Program) (*Result, diag.Error) {
	if err := validateVarDecls(prog.Globals); err != nil {
		return nil, err
	}
	globals, err := symbols.BuildGlobals(prog.Globals)
	if err != nil {
		return nil, err
	}

	funcs, err := symbols.BuildFunctions(prog.Functions, globals)
	if err != nil {
		return nil, err
	}
	factory := symbols.NewLocalFactory(funcs)

	res := &Result{
		Globals: globals,
		Funcs:   funcs,
		Locals:  make(map[*ast.FuncDecl]*symbols.LocalTable),
	}

	for _, fn := range prog.Functions {
		if err := validateVarDecls(fn.Locals); err != nil {
			return nil, err
		}
		locals, err := factory.Build(fn.Params, fn.Locals, fn.Span)
		if err != nil {
			return nil, err
		}
		res.Locals[fn] = locals

		if err := CheckStatements(fn.Body, locals, functionContext(fn), newLoopContext()); err != nil {
			return nil, err
		}
		if err := CheckReturnCoverage(fn); err != nil {
			return nil, err
		}
	}

	body, err := factory.Build(nil, nil, ast.Span{})
	if err != nil {
		return nil, err
	}
	res.Body = body
	if err := CheckStatements(prog.Body, body, globalContext(), newLoopContext()); err != nil {
		return nil, err
	}

	return res, nil
}

func validateVarDecls(decls []*ast.VarDecl) diag.Error {
	for _, d := range decls {
		if d.Kind == ast.Void {
			return &diag.VoidVariableDeclarationError{DeclSpan: d.Span, Names: d.Ids}
		}
	}
	return nil
}
