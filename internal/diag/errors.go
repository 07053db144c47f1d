package diag

import (
	"fmt"

	"github.com/simpla-lang/simplac/internal/ast"
)

// Error is implemented by every diagnostic in the taxonomy of spec §7.
// Span returns the primary span to excerpt; a diagnostic that needs a
// second span (e.g. redefinition, argument count, missing return) carries
// it in a field of its own struct instead of through this interface.
type Error interface {
	error
	Span() ast.Span
}

// RedefinitionCategory distinguishes what kind of thing was (re)defined.
type RedefinitionCategory int

const (
	CategoryVariable RedefinitionCategory = iota
	CategoryFunction
)

func (c RedefinitionCategory) String() string {
	if c == CategoryFunction {
		return "function"
	}
	return "variable"
}

// NameRedefinitionError reports a name used for two definitions in scopes
// where that collides (spec §4.C / §7).
type NameRedefinitionError struct {
	Name         string
	OriginalSpan ast.Span
	OriginalKind RedefinitionCategory
	NewSpan      ast.Span
	NewKind      RedefinitionCategory
}

func (e *NameRedefinitionError) Span() ast.Span { return e.NewSpan }
func (e *NameRedefinitionError) Error() string {
	return fmt.Sprintf("name error: %s defined multiple times, originally: %s, redefined: %s",
		e.Name, e.OriginalKind, e.NewKind)
}

// VoidVariableDeclarationError reports a VarDecl with Kind == Void.
type VoidVariableDeclarationError struct {
	DeclSpan ast.Span
	Names    []string
}

func (e *VoidVariableDeclarationError) Span() ast.Span { return e.DeclSpan }
func (e *VoidVariableDeclarationError) Error() string {
	return fmt.Sprintf("void declaration error: variables [%s] defined as type void: only a function can have type void",
		joinNames(e.Names))
}

// MismatchedOperationTypesError reports differing operand kinds on a
// binary operator (checked before incoherence, per spec §4.D).
type MismatchedOperationTypesError struct {
	OpSpan ast.Span
	Left   ast.Kind
	Right  ast.Kind
}

func (e *MismatchedOperationTypesError) Span() ast.Span { return e.OpSpan }
func (e *MismatchedOperationTypesError) Error() string {
	return fmt.Sprintf("mismatched operation error: left type: %s right type: %s", e.Left, e.Right)
}

// IncoherentOperationError reports an operator applied to a kind its class
// does not support.
type IncoherentOperationError struct {
	OpSpan   ast.Span
	Kind     ast.Kind
	Operator ast.Operator
}

func (e *IncoherentOperationError) Span() ast.Span { return e.OpSpan }
func (e *IncoherentOperationError) Error() string {
	return fmt.Sprintf("incoherent operation error: cannot apply operator %s to type %s", e.Operator, e.Kind)
}

// CastError reports a cast applied to an operand of the wrong kind.
type CastError struct {
	CastSpan ast.Span
	Dir      ast.CastDirection
	Operand  ast.Kind
}

func (e *CastError) Span() ast.Span { return e.CastSpan }
func (e *CastError) Error() string {
	return fmt.Sprintf("cast error: cannot cast %s into %s", e.Operand, e.Dir)
}

// CondConstruct names which construct required a boolean condition.
type CondConstruct int

const (
	ConstructIf CondConstruct = iota
	ConstructWhile
	ConstructCond
)

func (c CondConstruct) String() string {
	switch c {
	case ConstructIf:
		return "if"
	case ConstructWhile:
		return "while"
	default:
		return "conditional"
	}
}

// NonBooleanConditionError reports an if/while/cond construct whose
// condition did not type to Bool.
type NonBooleanConditionError struct {
	CondSpan  ast.Span
	Construct CondConstruct
	Actual    ast.Kind
}

func (e *NonBooleanConditionError) Span() ast.Span { return e.CondSpan }
func (e *NonBooleanConditionError) Error() string {
	return fmt.Sprintf("condition error: %s statement requires a boolean expression as condition, found: %s",
		e.Construct, e.Actual)
}

// MismatchedConditionalExpressionError reports a Cond factor whose Then
// and Else branches disagree in kind.
type MismatchedConditionalExpressionError struct {
	CondSpan ast.Span
	Then     ast.Kind
	Else     ast.Kind
}

func (e *MismatchedConditionalExpressionError) Span() ast.Span { return e.CondSpan }
func (e *MismatchedConditionalExpressionError) Error() string {
	return fmt.Sprintf("conditional expression error: left type: %s right type: %s", e.Then, e.Else)
}

// UnknownFunctionError reports a call to an undeclared function.
type UnknownFunctionError struct {
	CallSpan ast.Span
	Name     string
}

func (e *UnknownFunctionError) Span() ast.Span { return e.CallSpan }
func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function error: %s", e.Name)
}

// UnknownVariableError reports a reference to an undeclared variable.
type UnknownVariableError struct {
	RefSpan ast.Span
	Name    string
}

func (e *UnknownVariableError) Span() ast.Span { return e.RefSpan }
func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable error: %s", e.Name)
}

// UnaryClass distinguishes which unary operator was misapplied.
type UnaryClass int

const (
	UnaryLogic UnaryClass = iota
	UnaryNumeric
)

func (c UnaryClass) String() string {
	if c == UnaryNumeric {
		return "arithmetic negation"
	}
	return "logic negation"
}

// MismatchedUnaryError reports a unary operator applied to the wrong kind.
type MismatchedUnaryError struct {
	OpSpan  ast.Span
	Class   UnaryClass
	Operand ast.Kind
}

func (e *MismatchedUnaryError) Span() ast.Span { return e.OpSpan }
func (e *MismatchedUnaryError) Error() string {
	return fmt.Sprintf("negation error: %s cannot be applied to type: %s", e.Class, e.Operand)
}

// ArgumentCountError reports a call with the wrong number of arguments.
type ArgumentCountError struct {
	FuncName   string
	FuncSpan   ast.Span
	CallSpan   ast.Span
	Expected   int
	Given      int
}

func (e *ArgumentCountError) Span() ast.Span { return e.CallSpan }
func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("argument count error: function: %s expected %d args, but %d are used in function call",
		e.FuncName, e.Expected, e.Given)
}

// MismatchedArgumentTypeError reports a call argument of the wrong kind.
type MismatchedArgumentTypeError struct {
	FuncName string
	CallSpan ast.Span
	Index    int
	Expected ast.Kind
	Given    ast.Kind
}

func (e *MismatchedArgumentTypeError) Span() ast.Span { return e.CallSpan }
func (e *MismatchedArgumentTypeError) Error() string {
	return fmt.Sprintf("argument type error: calling function %s argument %d expected type: %s, found %s",
		e.FuncName, e.Index, e.Expected, e.Given)
}

// MismatchedAssignmentError reports an assignment whose expression kind
// does not match the variable's declared kind.
type MismatchedAssignmentError struct {
	AssignSpan ast.Span
	Name       string
	Declared   ast.Kind
	Given      ast.Kind
}

func (e *MismatchedAssignmentError) Span() ast.Span { return e.AssignSpan }
func (e *MismatchedAssignmentError) Error() string {
	return fmt.Sprintf("assignment error: expected %s, found %s in variable %s assignment",
		e.Declared, e.Given, e.Name)
}

// BreakOutsideLoopError reports a break statement reached outside a loop.
type BreakOutsideLoopError struct {
	BreakSpan ast.Span
}

func (e *BreakOutsideLoopError) Span() ast.Span { return e.BreakSpan }
func (e *BreakOutsideLoopError) Error() string {
	return "break error: break outside loop"
}

// ForLoopErrorKind discriminates the for-loop sub-errors.
type ForLoopErrorKind int

const (
	ForNonIntegerCount ForLoopErrorKind = iota
	ForNonIntegerStart
	ForNonIntegerEnd
	ForCountVariableAssignment
)

// ForLoopError reports one of the for-loop-specific violations.
type ForLoopError struct {
	ForSpan  ast.Span
	Kind     ForLoopErrorKind
	Actual   ast.Kind // used for the NonInteger* kinds
	VarName  string   // used for CountVariableAssignment
}

func (e *ForLoopError) Span() ast.Span { return e.ForSpan }
func (e *ForLoopError) Error() string {
	switch e.Kind {
	case ForCountVariableAssignment:
		return fmt.Sprintf("for loop error: count variable %s is modified into loop body", e.VarName)
	case ForNonIntegerCount:
		return fmt.Sprintf("for loop error: count variable is declared as %s, expected integer", e.Actual)
	case ForNonIntegerStart:
		return fmt.Sprintf("for loop error: for loop start expression of type %s, expected integer", e.Actual)
	default:
		return fmt.Sprintf("for loop error: for loop end expression of type %s, expected integer", e.Actual)
	}
}

// ReturnErrorKind discriminates the return-statement sub-errors.
type ReturnErrorKind int

const (
	ReturnOutsideFunction ReturnErrorKind = iota
	ReturnMismatchedType
)

// ReturnError reports a return statement misuse.
type ReturnError struct {
	ReturnSpan ast.Span
	Kind       ReturnErrorKind
	Declared   ast.Kind
	Given      ast.Kind
}

func (e *ReturnError) Span() ast.Span { return e.ReturnSpan }
func (e *ReturnError) Error() string {
	if e.Kind == ReturnOutsideFunction {
		return "return error: return statement is not allowed in main body, only in function declaration"
	}
	return fmt.Sprintf("return error: return statement type: %s, but %s was expected", e.Given, e.Declared)
}

// MissingReturnError reports a non-void function with a control-flow path
// lacking a terminating return (spec §4.F).
type MissingReturnError struct {
	FuncSpan ast.Span
	LastSpan ast.Span
	Declared ast.Kind
}

func (e *MissingReturnError) Span() ast.Span { return e.LastSpan }
func (e *MissingReturnError) Error() string {
	return fmt.Sprintf("missing return error: function declared to return %s does not return on every path", e.Declared)
}

// SyntaxError reports a parse failure: the source span of the offending
// token and a human-readable description of what was expected.
type SyntaxError struct {
	TokSpan ast.Span
	Message string
}

func (e *SyntaxError) Span() ast.Span { return e.TokSpan }
func (e *SyntaxError) Error() string  { return "syntax error: " + e.Message }

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
