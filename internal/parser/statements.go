package parser

import (
	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/token"
)

// statList parses statements until the current token matches stop, per the
// `end`/`else` terminators every Simpla block uses.
func (p *Parser) statList(stop token.Type) []ast.Statement {
	var stmts []ast.Statement
	for !p.at(stop) && !p.at(token.ELSE) && !p.at(token.EOF) && !p.failed() {
		stmts = append(stmts, p.statement())
	}
	return stmts
}

func (p *Parser) statement() ast.Statement {
	switch p.cur.Type {
	case token.IF:
		return p.ifStat()
	case token.WHILE:
		return p.whileStat()
	case token.FOR:
		return p.forStat()
	case token.RETURN:
		return p.returnStat()
	case token.READ:
		return p.readStat()
	case token.WRITE, token.WRITELN:
		return p.writeStat()
	case token.BREAK:
		span := p.tokSpan()
		p.advance()
		p.expect(token.SEMI)
		return &ast.BreakStat{Span: span}
	case token.IDENT:
		return p.assignOrCall()
	default:
		p.fail(p.tokSpan(), "expected a statement, found "+p.cur.Type.String())
		p.advance()
		return &ast.BreakStat{Span: p.tokSpan()}
	}
}

func (p *Parser) assignOrCall() ast.Statement {
	begin := p.cur.Begin
	id := p.expect(token.IDENT).Lexeme
	if p.at(token.LPAREN) {
		call := p.funcCallTail(id, begin)
		end := p.cur.End
		p.expect(token.SEMI)
		return &ast.CallStat{Span: ast.Span{Begin: begin, End: end}, Call: call}
	}
	p.expect(token.ASSIGN)
	expr := p.expr()
	end := p.cur.End
	p.expect(token.SEMI)
	return &ast.AssignStat{Span: ast.Span{Begin: begin, End: end}, Id: id, Expr: expr}
}

func (p *Parser) ifStat() ast.Statement {
	begin := p.cur.Begin
	p.expect(token.IF)
	cond := p.expr()
	p.expect(token.THEN)
	then := p.statList(token.END)

	var elseBody []ast.Statement
	if p.at(token.ELSE) {
		p.advance()
		elseBody = p.statList(token.END)
	}
	end := p.cur.End
	p.expect(token.END)
	p.expect(token.SEMI)
	return &ast.IfStat{Span: ast.Span{Begin: begin, End: end}, Cond: cond, Then: then, Else: elseBody}
}

func (p *Parser) whileStat() ast.Statement {
	begin := p.cur.Begin
	p.expect(token.WHILE)
	cond := p.expr()
	p.expect(token.DO)
	body := p.statList(token.END)
	end := p.cur.End
	p.expect(token.END)
	p.expect(token.SEMI)
	return &ast.WhileStat{Span: ast.Span{Begin: begin, End: end}, Cond: cond, Body: body}
}

func (p *Parser) forStat() ast.Statement {
	begin := p.cur.Begin
	p.expect(token.FOR)
	id := p.expect(token.IDENT).Lexeme
	p.expect(token.ASSIGN)
	from := p.expr()
	p.expect(token.TO)
	to := p.expr()
	p.expect(token.DO)
	body := p.statList(token.END)
	end := p.cur.End
	p.expect(token.END)
	p.expect(token.SEMI)
	return &ast.ForStat{Span: ast.Span{Begin: begin, End: end}, Id: id, From: from, To: to, Body: body}
}

func (p *Parser) returnStat() ast.Statement {
	begin := p.cur.Begin
	p.expect(token.RETURN)
	var e *ast.Expr
	if !p.at(token.SEMI) {
		e = p.expr()
	}
	end := p.cur.End
	p.expect(token.SEMI)
	return &ast.ReturnStat{Span: ast.Span{Begin: begin, End: end}, Expr: e}
}

func (p *Parser) readStat() ast.Statement {
	begin := p.cur.Begin
	p.expect(token.READ)
	p.expect(token.LPAREN)
	var ids []string
	if !p.at(token.RPAREN) {
		ids = append(ids, p.expect(token.IDENT).Lexeme)
		for p.at(token.COMMA) {
			p.advance()
			ids = append(ids, p.expect(token.IDENT).Lexeme)
		}
	}
	p.expect(token.RPAREN)
	end := p.cur.End
	p.expect(token.SEMI)
	return &ast.ReadStat{Span: ast.Span{Begin: begin, End: end}, Ids: ids}
}

func (p *Parser) writeStat() ast.Statement {
	begin := p.cur.Begin
	newline := p.cur.Type == token.WRITELN
	p.advance()
	p.expect(token.LPAREN)
	var args []*ast.Expr
	if !p.at(token.RPAREN) {
		args = append(args, p.expr())
		for p.at(token.COMMA) {
			p.advance()
			args = append(args, p.expr())
		}
	}
	p.expect(token.RPAREN)
	end := p.cur.End
	p.expect(token.SEMI)
	return &ast.WriteStat{Span: ast.Span{Begin: begin, End: end}, Newline: newline, Args: args}
}
