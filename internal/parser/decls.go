package parser

import (
	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/token"
)

// Program parses global declarations, function declarations and the main
// body, per spec §3's Program = (globals, functions, body).
func (p *Parser) Program() *ast.Program {
	prog := &ast.Program{}

	for p.at(token.IDENT) && !p.failed() {
		prog.Globals = append(prog.Globals, p.varDecl())
	}
	for p.at(token.FUNC) && !p.failed() {
		prog.Functions = append(prog.Functions, p.funcDecl())
	}

	p.expect(token.BODY)
	prog.Body = p.statList(token.END)
	p.expect(token.END)
	p.expect(token.DOT)
	return prog
}

// varDecl parses `id {, id} : kind ;`.
func (p *Parser) varDecl() *ast.VarDecl {
	begin := p.cur.Begin
	ids := []string{p.expect(token.IDENT).Lexeme}
	for p.at(token.COMMA) {
		p.advance()
		ids = append(ids, p.expect(token.IDENT).Lexeme)
	}
	p.expect(token.COLON)
	kind := p.kind()
	end := p.cur.End
	p.expect(token.SEMI)
	return &ast.VarDecl{Span: ast.Span{Begin: begin, End: end}, Ids: ids, Kind: kind}
}

// kind parses a scalar-type keyword (not `void`, which is only legal as a
// function result and is parsed by resultKind).
func (p *Parser) kind() ast.Kind {
	switch p.cur.Type {
	case token.INTEGER:
		p.advance()
		return ast.Int
	case token.REAL:
		p.advance()
		return ast.Real
	case token.BOOLEAN:
		p.advance()
		return ast.Bool
	case token.STRING:
		p.advance()
		return ast.Str
	default:
		p.fail(p.tokSpan(), "expected a type, found "+p.cur.Type.String())
		return ast.Int
	}
}

func (p *Parser) resultKind() ast.Kind {
	if p.at(token.VOID) {
		p.advance()
		return ast.Void
	}
	return p.kind()
}

// funcDecl parses `func id ( params ) : resultKind { varDecl } body stats end ;`.
func (p *Parser) funcDecl() *ast.FuncDecl {
	begin := p.cur.Begin
	p.expect(token.FUNC)
	id := p.expect(token.IDENT).Lexeme

	p.expect(token.LPAREN)
	var params []ast.ParamDecl
	if !p.at(token.RPAREN) {
		params = append(params, p.paramDecl())
		for p.at(token.COMMA) {
			p.advance()
			params = append(params, p.paramDecl())
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.COLON)
	result := p.resultKind()

	var locals []*ast.VarDecl
	for p.at(token.IDENT) && !p.failed() {
		locals = append(locals, p.varDecl())
	}

	p.expect(token.BODY)
	body := p.statList(token.END)
	end := p.cur.End
	p.expect(token.END)
	p.expect(token.SEMI)

	return &ast.FuncDecl{
		Span: ast.Span{Begin: begin, End: end}, Id: id, Result: result,
		Params: params, Locals: locals, Body: body,
	}
}

func (p *Parser) paramDecl() ast.ParamDecl {
	id := p.expect(token.IDENT).Lexeme
	p.expect(token.COLON)
	return ast.ParamDecl{Id: id, Kind: p.kind()}
}
