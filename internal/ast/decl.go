package ast

// VarDecl declares one or more names of the same kind, e.g.
// `var x, y: integer;`. A declaration with Kind == Void is a hard error,
// enforced by the statement/declaration checker, not by this type.
type VarDecl struct {
	Span Span
	Ids  []string
	Kind Kind
}

// ParamDecl is a single function parameter. Parameters have no span of
// their own; the enclosing FuncDecl's span suffices for diagnostics.
type ParamDecl struct {
	Id   string
	Kind Kind
}

// FuncDecl is a top-level procedure declaration.
type FuncDecl struct {
	Span   Span
	Id     string
	Result Kind
	Params []ParamDecl
	Locals []*VarDecl
	Body   []Statement
}

// Program is the root of the AST: globals, functions, and the main body.
type Program struct {
	Globals   []*VarDecl
	Functions []*FuncDecl
	Body      []Statement
}
