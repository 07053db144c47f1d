// Package parser implements the external collaborator spec §6 describes:
// a recursive-descent reader that turns Simpla source text into an
// internal/ast tree with every span byte-offset-correct and every
// expression's type slot left empty for internal/check to fill.
package parser

import (
	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/diag"
	"github.com/simpla-lang/simplac/internal/lexer"
	"github.com/simpla-lang/simplac/internal/token"
)

// Parser holds one token of lookahead over a lexer's stream.
type Parser struct {
	lex *lexer.Lexer
	cur token.Token
	err diag.Error
}

// New returns a Parser ready to read source.
func New(source string) *Parser {
	p := &Parser{lex: lexer.New(source)}
	p.advance()
	return p
}

// Parse runs Program() and returns either a fully formed tree or the first
// syntax error encountered; the parser stops at the first error rather
// than attempting recovery, per the teacher's single-pass style.
func Parse(source string) (*ast.Program, diag.Error) {
	p := New(source)
	prog := p.Program()
	if p.err != nil {
		return nil, p.err
	}
	return prog, nil
}

func (p *Parser) advance() {
	p.cur = p.lex.NextToken()
}

func (p *Parser) fail(span ast.Span, message string) {
	if p.err == nil {
		p.err = &diag.SyntaxError{TokSpan: span, Message: message}
	}
}

func (p *Parser) failed() bool { return p.err != nil }

func (p *Parser) tokSpan() ast.Span {
	return ast.Span{Begin: p.cur.Begin, End: p.cur.End}
}

// expect consumes the current token if it has type t, recording a syntax
// error otherwise. On a match it returns the consumed token; on a mismatch
// it returns the current, unconsumed token, so callers can chain without an
// extra nil check (once an error is recorded, Parse discards the tree).
func (p *Parser) expect(t token.Type) token.Token {
	tok := p.cur
	if p.cur.Type != t {
		p.fail(p.tokSpan(), "expected "+t.String()+", found "+p.cur.Type.String())
		return tok
	}
	p.advance()
	return tok
}

func (p *Parser) at(t token.Type) bool { return p.cur.Type == t }
