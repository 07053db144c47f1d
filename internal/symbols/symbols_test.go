package symbols

import (
	"testing"

	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/diag"
)

func TestGlobalCollision(t *testing.T) {
	decls := []*ast.VarDecl{
		{Ids: []string{"x"}, Kind: ast.Int, Span: ast.Span{Begin: 0, End: 5}},
		{Ids: []string{"x"}, Kind: ast.Real, Span: ast.Span{Begin: 10, End: 15}},
	}
	_, err := BuildGlobals(decls)
	if err == nil {
		t.Fatalf("expected collision error")
	}
	re, ok := err.(*diag.NameRedefinitionError)
	if !ok {
		t.Fatalf("expected *NameRedefinitionError, got %T", err)
	}
	if re.OriginalKind != diag.CategoryVariable || re.NewKind != diag.CategoryVariable {
		t.Fatalf("expected variable/variable collision, got %v/%v", re.OriginalKind, re.NewKind)
	}
}

func TestFunctionShadowsGlobalIsError(t *testing.T) {
	globals, err := BuildGlobals([]*ast.VarDecl{
		{Ids: []string{"total"}, Kind: ast.Int, Span: ast.Span{Begin: 0, End: 5}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	funcs := []*ast.FuncDecl{{Id: "total", Span: ast.Span{Begin: 20, End: 30}}}
	_, ferr := BuildFunctions(funcs, globals)
	if ferr == nil {
		t.Fatalf("expected function/global collision error")
	}
}

func TestLocalShadowsGlobalIsAllowed(t *testing.T) {
	globals, err := BuildGlobals([]*ast.VarDecl{
		{Ids: []string{"x"}, Kind: ast.Int, Span: ast.Span{Begin: 0, End: 5}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	funcTable, err := BuildFunctions(nil, globals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	factory := NewLocalFactory(funcTable)
	locals := []*ast.VarDecl{{Ids: []string{"x"}, Kind: ast.Real, Span: ast.Span{Begin: 40, End: 45}}}
	lt, lerr := factory.Build(nil, locals, ast.Span{Begin: 0, End: 1})
	if lerr != nil {
		t.Fatalf("unexpected error shadowing global: %v", lerr)
	}
	entry, ok := lt.Lookup("x")
	if !ok || entry.Kind != ast.Real {
		t.Fatalf("expected local shadow to resolve to Real, got %v, %v", entry.Kind, ok)
	}
	if !lt.IsLocal("x") {
		t.Fatalf("expected x to resolve locally")
	}
}

func TestLocalCannotShadowFunction(t *testing.T) {
	globals, _ := BuildGlobals(nil)
	funcs, _ := BuildFunctions([]*ast.FuncDecl{{Id: "f", Span: ast.Span{Begin: 0, End: 5}}}, globals)
	factory := NewLocalFactory(funcs)
	locals := []*ast.VarDecl{{Ids: []string{"f"}, Kind: ast.Int, Span: ast.Span{Begin: 10, End: 15}}}
	_, err := factory.Build(nil, locals, ast.Span{Begin: 0, End: 1})
	if err == nil {
		t.Fatalf("expected local/function collision error")
	}
}

func TestParamLocalCollision(t *testing.T) {
	globals, _ := BuildGlobals(nil)
	funcs, _ := BuildFunctions(nil, globals)
	factory := NewLocalFactory(funcs)
	params := []ast.ParamDecl{{Id: "n", Kind: ast.Int}}
	locals := []*ast.VarDecl{{Ids: []string{"n"}, Kind: ast.Int, Span: ast.Span{Begin: 10, End: 15}}}
	_, err := factory.Build(params, locals, ast.Span{Begin: 0, End: 1})
	if err == nil {
		t.Fatalf("expected param/local collision error")
	}
}

func TestUnknownVariableLookup(t *testing.T) {
	globals, _ := BuildGlobals(nil)
	funcs, _ := BuildFunctions(nil, globals)
	lt, _ := NewLocalFactory(funcs).Build(nil, nil, ast.Span{})
	if _, ok := lt.Lookup("missing"); ok {
		t.Fatalf("expected lookup miss")
	}
}
