package ast

import "fmt"

// TypeSlot is the single-assignment cell attached to every expression and
// factor. It is written exactly once by the type checker (idempotent
// re-assignment of the same kind is tolerated so that re-running analysis
// over an already-annotated tree stays idempotent) and read by the
// emitters.
type TypeSlot struct {
	kind *Kind
}

// Set fills the slot. Re-setting to the same kind is a no-op; re-setting to
// a different kind is a compiler bug and panics.
func (s *TypeSlot) Set(k Kind) {
	if s.kind != nil {
		if *s.kind != k {
			panic(fmt.Sprintf("type slot double-assigned: had %s, got %s", *s.kind, k))
		}
		return
	}
	v := k
	s.kind = &v
}

// Type returns the resolved kind and whether it has been set.
func (s *TypeSlot) Type() (Kind, bool) {
	if s.kind == nil {
		return Void, false
	}
	return *s.kind, true
}

// MustType returns the resolved kind, panicking if the slot was never
// filled. The emitter uses this: an empty slot reaching emission is an
// internal invariant violation, per spec §3 invariant 2.
func (s *TypeSlot) MustType() Kind {
	k, ok := s.Type()
	if !ok {
		panic("type slot read before being filled")
	}
	return k
}

// Expr is the wrapper every expression position carries: a source span, a
// type slot, and the underlying tree (a binary node or a factor).
type Expr struct {
	Span Span
	TypeSlot
	Tree ExprTree
}

// ExprTree is either a BinaryNode or a Factor.
type ExprTree interface {
	exprTree()
}

// BinaryNode is `left op right`.
type BinaryNode struct {
	Left  *Expr
	Op    Operator
	Right *Expr
}

func (*BinaryNode) exprTree() {}

// Factor wraps a single non-binary expression form. It carries its own
// type slot per the data model in spec §3; the checker fills both the
// Factor's slot and the owning Expr's slot to the same kind.
type Factor struct {
	TypeSlot
	Value FactorValue
}

func (*Factor) exprTree() {}

// FactorValue is one of Id, UnaryOp, Cond, Cast, Call, Const or Paren.
type FactorValue interface {
	factorValue()
}

// Id references a variable by name.
type Id struct {
	Name string
	Span Span
}

func (*Id) factorValue() {}

// UnaryOp applies Minus or Negate to an operand factor.
type UnaryOp struct {
	Op      UnaryOperator
	Operand *Factor
	Span    Span
}

func (*UnaryOp) factorValue() {}

// Cond is a conditional (ternary-like) expression: `cond ? then : else`.
type Cond struct {
	Cond *Expr
	Then *Expr
	Else *Expr
	Span Span
}

func (*Cond) factorValue() {}

// Cast converts between Int and Real.
type Cast struct {
	Dir     CastDirection
	Operand *Expr
	Span    Span
}

func (*Cast) factorValue() {}

// Call wraps a function-call-as-expression.
type Call struct {
	*FuncCall
}

func (*Call) factorValue() {}

// ConstKind discriminates the literal kinds a Const factor can hold.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstReal
	ConstBool
	ConstStr
)

// Const is a literal value.
type Const struct {
	Kind    ConstKind
	IntVal  int64
	RealVal float64
	BoolVal bool
	StrVal  string
	Span    Span
}

func (*Const) factorValue() {}

// ResultKind returns the scalar Kind this literal carries.
func (c *Const) ResultKind() Kind {
	switch c.Kind {
	case ConstInt:
		return Int
	case ConstReal:
		return Real
	case ConstBool:
		return Bool
	default:
		return Str
	}
}

// Paren preserves parenthesization for AST round-tripping; it has no
// semantic effect beyond carrying the inner expression.
type Paren struct {
	Inner *Expr
	Span  Span
}

func (*Paren) factorValue() {}

// FuncCall is `id(args...)`, used both as a Factor value and as the
// Call statement's payload.
type FuncCall struct {
	Id   string
	Args []*Expr
	Span Span
}
