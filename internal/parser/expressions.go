package parser

import (
	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/token"
)

// expr parses a full expression at the lowest precedence (`or`), per the
// operator taxonomy in spec §3 and the precedence demonstrated by the
// original grammar's `5 + 6 * 7 * (8 + 9)` test.
func (p *Parser) expr() *ast.Expr { return p.orExpr() }

func (p *Parser) orExpr() *ast.Expr {
	left := p.andExpr()
	for p.at(token.OR) {
		p.advance()
		right := p.andExpr()
		left = binaryExpr(left, ast.Or, right)
	}
	return left
}

func (p *Parser) andExpr() *ast.Expr {
	left := p.relExpr()
	for p.at(token.AND) {
		p.advance()
		right := p.relExpr()
		left = binaryExpr(left, ast.And, right)
	}
	return left
}

var relOps = map[token.Type]ast.Operator{
	token.EQ: ast.Eq, token.NE: ast.Ne, token.LT: ast.Lt,
	token.LE: ast.Le, token.GT: ast.Gt, token.GE: ast.Ge,
}

func (p *Parser) relExpr() *ast.Expr {
	left := p.addExpr()
	for {
		op, ok := relOps[p.cur.Type]
		if !ok {
			return left
		}
		p.advance()
		right := p.addExpr()
		left = binaryExpr(left, op, right)
	}
}

func (p *Parser) addExpr() *ast.Expr {
	left := p.mulExpr()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := ast.Add
		if p.cur.Type == token.MINUS {
			op = ast.Sub
		}
		p.advance()
		right := p.mulExpr()
		left = binaryExpr(left, op, right)
	}
	return left
}

func (p *Parser) mulExpr() *ast.Expr {
	left := p.unaryExpr()
	for p.at(token.STAR) || p.at(token.SLASH) {
		op := ast.Mul
		if p.cur.Type == token.SLASH {
			op = ast.Div
		}
		p.advance()
		right := p.unaryExpr()
		left = binaryExpr(left, op, right)
	}
	return left
}

func binaryExpr(left *ast.Expr, op ast.Operator, right *ast.Expr) *ast.Expr {
	span := left.Span.Cover(right.Span)
	return &ast.Expr{Span: span, Tree: &ast.BinaryNode{Left: left, Op: op, Right: right}}
}

// unaryExpr wraps a Factor in an Expr, descending through `not`/`-` unary
// operators (which nest Factor-in-Factor, per ast.UnaryOp) down to a
// primary factor.
func (p *Parser) unaryExpr() *ast.Expr {
	f := p.unaryFactor()
	return &ast.Expr{Span: factorSpan(f), Tree: f}
}

func (p *Parser) unaryFactor() *ast.Factor {
	switch p.cur.Type {
	case token.NOT:
		begin := p.cur.Begin
		p.advance()
		operand := p.unaryFactor()
		span := ast.Span{Begin: begin, End: factorSpan(operand).End}
		return &ast.Factor{Value: &ast.UnaryOp{Op: ast.Negate, Operand: operand, Span: span}}
	case token.MINUS:
		begin := p.cur.Begin
		p.advance()
		operand := p.unaryFactor()
		span := ast.Span{Begin: begin, End: factorSpan(operand).End}
		return &ast.Factor{Value: &ast.UnaryOp{Op: ast.Minus, Operand: operand, Span: span}}
	default:
		return p.primaryFactor()
	}
}

// primaryFactor parses identifiers, calls, literals, casts, parenthesized
// expressions and the `(cond ? then : else)` conditional form.
func (p *Parser) primaryFactor() *ast.Factor {
	switch p.cur.Type {
	case token.IDENT:
		begin := p.cur.Begin
		name := p.cur.Lexeme
		p.advance()
		if p.at(token.LPAREN) {
			call := p.funcCallTail(name, begin)
			return &ast.Factor{Value: &ast.Call{FuncCall: call}}
		}
		span := ast.Span{Begin: begin, End: begin + len(name)}
		return &ast.Factor{Value: &ast.Id{Name: name, Span: span}}
	case token.INT_LIT:
		tok := p.cur
		p.advance()
		return &ast.Factor{Value: &ast.Const{Kind: ast.ConstInt, IntVal: tok.IntVal, Span: span(tok)}}
	case token.REAL_LIT:
		tok := p.cur
		p.advance()
		return &ast.Factor{Value: &ast.Const{Kind: ast.ConstReal, RealVal: tok.RealVal, Span: span(tok)}}
	case token.STR_LIT:
		tok := p.cur
		p.advance()
		return &ast.Factor{Value: &ast.Const{Kind: ast.ConstStr, StrVal: tok.StrVal, Span: span(tok)}}
	case token.TRUE:
		tok := p.cur
		p.advance()
		return &ast.Factor{Value: &ast.Const{Kind: ast.ConstBool, BoolVal: true, Span: span(tok)}}
	case token.FALSE:
		tok := p.cur
		p.advance()
		return &ast.Factor{Value: &ast.Const{Kind: ast.ConstBool, BoolVal: false, Span: span(tok)}}
	case token.INTEGER, token.REAL:
		return p.castFactor()
	case token.LPAREN:
		return p.parenOrCond()
	default:
		p.fail(p.tokSpan(), "expected an expression, found "+p.cur.Type.String())
		tok := p.cur
		return &ast.Factor{Value: &ast.Const{Kind: ast.ConstInt, Span: span(tok)}}
	}
}

// castFactor parses `integer(expr)` or `real(expr)`, per the original
// grammar's CastExpr::Integer/Real.
func (p *Parser) castFactor() *ast.Factor {
	begin := p.cur.Begin
	dir := ast.ToInt
	if p.cur.Type == token.REAL {
		dir = ast.ToReal
	}
	p.advance()
	p.expect(token.LPAREN)
	operand := p.expr()
	end := p.cur.End
	p.expect(token.RPAREN)
	return &ast.Factor{Value: &ast.Cast{Dir: dir, Operand: operand, Span: ast.Span{Begin: begin, End: end}}}
}

// parenOrCond parses `( expr )` as a Paren, or `( cond ? then : else )` as
// a Cond, disambiguated by whether a `?` follows the first expression.
func (p *Parser) parenOrCond() *ast.Factor {
	begin := p.cur.Begin
	p.expect(token.LPAREN)
	first := p.expr()
	if p.at(token.QUESTION) {
		p.advance()
		then := p.expr()
		p.expect(token.COLON)
		els := p.expr()
		end := p.cur.End
		p.expect(token.RPAREN)
		return &ast.Factor{Value: &ast.Cond{Cond: first, Then: then, Else: els, Span: ast.Span{Begin: begin, End: end}}}
	}
	end := p.cur.End
	p.expect(token.RPAREN)
	return &ast.Factor{Value: &ast.Paren{Inner: first, Span: ast.Span{Begin: begin, End: end}}}
}

// funcCallTail parses the `( args )` suffix of a call whose identifier and
// opening span start have already been read.
func (p *Parser) funcCallTail(id string, begin int) *ast.FuncCall {
	p.expect(token.LPAREN)
	var args []*ast.Expr
	if !p.at(token.RPAREN) {
		args = append(args, p.expr())
		for p.at(token.COMMA) {
			p.advance()
			args = append(args, p.expr())
		}
	}
	end := p.cur.End
	p.expect(token.RPAREN)
	return &ast.FuncCall{Id: id, Args: args, Span: ast.Span{Begin: begin, End: end}}
}

func span(tok token.Token) ast.Span { return ast.Span{Begin: tok.Begin, End: tok.End} }

// factorSpan recovers a Factor's span from its underlying value, since
// Factor itself (unlike Expr) carries no span field of its own.
func factorSpan(f *ast.Factor) ast.Span {
	switch v := f.Value.(type) {
	case *ast.Id:
		return v.Span
	case *ast.UnaryOp:
		return v.Span
	case *ast.Cond:
		return v.Span
	case *ast.Cast:
		return v.Span
	case *ast.Call:
		return v.Span
	case *ast.Const:
		return v.Span
	case *ast.Paren:
		return v.Span
	default:
		return ast.Span{}
	}
}
