package parser

import (
	"testing"

	"github.com/simpla-lang/simplac/internal/ast"
)

// mirrors lib.rs's parse_test: a factorial function plus a caller body.
func TestParseFactorialProgram(t *testing.T) {
	src := `
	number: integer;
	func factorial(n: integer): integer
	  fact: integer;
	  body
	    if n == 0 then
	        fact = 1;
	    else
	        fact = n * factorial(n - 1);
	    end;
	    return fact;
	end;

	body
	    read(number);
	    if number < 0 then
	        writeln(number, "is not a valid number");
	    else
	        number = 0;
	    end;
	end.
	`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(prog.Globals) != 1 || prog.Globals[0].Ids[0] != "number" {
		t.Fatalf("Globals = %+v", prog.Globals)
	}
	if len(prog.Functions) != 1 || prog.Functions[0].Id != "factorial" {
		t.Fatalf("Functions = %+v", prog.Functions)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("Body = %+v, want 2 statements", prog.Body)
	}
}

// mirrors lib.rs's test_operator_precedence: `a = 5 + 6 * 7 * (8 + 9);`
// must parse as Add(5, Mul(Mul(6,7), Paren(Add(8,9)))).
func TestOperatorPrecedenceAndAssociativity(t *testing.T) {
	prog, err := Parse("body a = 5 + 6 * 7 * (8 + 9); end.")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assign := prog.Body[0].(*ast.AssignStat)
	top := assign.Expr.Tree.(*ast.BinaryNode)
	if top.Op != ast.Add {
		t.Fatalf("top operator = %v, want Add", top.Op)
	}
	if _, ok := top.Left.Tree.(*ast.Factor); !ok {
		t.Fatalf("left operand should be the literal 5")
	}
	rightMul, ok := top.Right.Tree.(*ast.BinaryNode)
	if !ok || rightMul.Op != ast.Mul {
		t.Fatalf("right operand should be a Mul node, got %#v", top.Right.Tree)
	}
	innerMul, ok := rightMul.Left.Tree.(*ast.BinaryNode)
	if !ok || innerMul.Op != ast.Mul {
		t.Fatalf("6 * 7 should itself be a Mul node, got %#v", rightMul.Left.Tree)
	}
	paren, ok := rightMul.Right.Tree.(*ast.Factor)
	if !ok {
		t.Fatalf("rightmost operand should be a factor")
	}
	if _, ok := paren.Value.(*ast.Paren); !ok {
		t.Fatalf("rightmost factor should be the parenthesized (8 + 9), got %#v", paren.Value)
	}
}

// mirrors lib.rs's test_keywords: every reserved word is rejected as an
// identifier on the left of an assignment.
func TestKeywordCannotBeUsedAsIdentifier(t *testing.T) {
	keywords := []string{
		"if", "func", "body", "end", "break", "then", "else", "while", "for", "do", "to",
		"return", "read", "write", "writeln", "and", "or", "not", "integer", "real", "string",
		"boolean", "void", "true", "false",
	}
	for _, kw := range keywords {
		_, err := Parse("body\n" + kw + " = 45;\nend.")
		if err == nil {
			t.Fatalf("Parse() accepted keyword %q as an identifier", kw)
		}
	}
}

func TestUselessBracketsProduceEquivalentAssignment(t *testing.T) {
	a, err := Parse("body a = ((((b * next_number(45))))); end.")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b, err := Parse("body a =  (   b * next_number(45)   ); end.")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	aAssign := a.Body[0].(*ast.AssignStat)
	bAssign := b.Body[0].(*ast.AssignStat)
	if aAssign.Id != bAssign.Id {
		t.Fatalf("ids differ: %q vs %q", aAssign.Id, bAssign.Id)
	}
}

func TestCommentIsIgnoredByParser(t *testing.T) {
	src := `
	body
	    # while = if ** end;
	    writeln("Hello, World!");
	end.
	`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(prog.Body) != 1 {
		t.Fatalf("Body = %+v, want 1 statement", prog.Body)
	}
}

func TestTypeCastAndFunctionCallFactors(t *testing.T) {
	src := `
	body
	    a = 5.67;
	    b = integer(a);
	    c = f(b);
	end.
	`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	castAssign := prog.Body[1].(*ast.AssignStat)
	factor := castAssign.Expr.Tree.(*ast.Factor)
	cast, ok := factor.Value.(*ast.Cast)
	if !ok || cast.Dir != ast.ToInt {
		t.Fatalf("expected an integer() cast, got %#v", factor.Value)
	}

	callAssign := prog.Body[2].(*ast.AssignStat)
	callFactor := callAssign.Expr.Tree.(*ast.Factor)
	call, ok := callFactor.Value.(*ast.Call)
	if !ok || call.Id != "f" || len(call.Args) != 1 {
		t.Fatalf("expected a call to f(b), got %#v", callFactor.Value)
	}
}

func TestUnaryOperators(t *testing.T) {
	src := `
	body
	    a = not b;
	    c = -(5 * 6);
	end.
	`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	notAssign := prog.Body[0].(*ast.AssignStat)
	notFactor := notAssign.Expr.Tree.(*ast.Factor)
	unary, ok := notFactor.Value.(*ast.UnaryOp)
	if !ok || unary.Op != ast.Negate {
		t.Fatalf("expected `not b`, got %#v", notFactor.Value)
	}

	minusAssign := prog.Body[1].(*ast.AssignStat)
	minusFactor := minusAssign.Expr.Tree.(*ast.Factor)
	minusUnary, ok := minusFactor.Value.(*ast.UnaryOp)
	if !ok || minusUnary.Op != ast.Minus {
		t.Fatalf("expected `-(5 * 6)`, got %#v", minusFactor.Value)
	}
}

func TestConditionalExpressionFactor(t *testing.T) {
	prog, err := Parse("body a = (b > 0 ? 1 : -1); end.")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	assign := prog.Body[0].(*ast.AssignStat)
	factor := assign.Expr.Tree.(*ast.Factor)
	cond, ok := factor.Value.(*ast.Cond)
	if !ok {
		t.Fatalf("expected a conditional expression factor, got %#v", factor.Value)
	}
	if cond.Cond == nil || cond.Then == nil || cond.Else == nil {
		t.Fatalf("conditional expression missing a branch: %+v", cond)
	}
}

func TestForAndWhileLoopsNest(t *testing.T) {
	src := `
	func do_stuff(a: integer): void
	  i, j: integer;
	  body
	    for i = 0 to a do
	        j = i;
	        while j > 0 do
	            j = j - 1;
	        end;
	    end;
	  end;

	body
	    do_stuff(3);
	end.
	`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	fn := prog.Functions[0]
	forStat := fn.Body[0].(*ast.ForStat)
	if len(forStat.Body) != 2 {
		t.Fatalf("for body = %+v, want 2 statements", forStat.Body)
	}
	if _, ok := forStat.Body[1].(*ast.WhileStat); !ok {
		t.Fatalf("expected the second for-body statement to be a while loop, got %#v", forStat.Body[1])
	}
}

func TestMissingEndIsASyntaxError(t *testing.T) {
	_, err := Parse("body a = 1;")
	if err == nil {
		t.Fatalf("expected a syntax error for an unterminated body")
	}
}
