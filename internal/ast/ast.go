// Package ast defines the expression tree produced by internal/parser and
// walked by internal/checker and internal/eval.
package ast

import "github.com/miningape/exprlang/internal/lexer"

// Expression is the common interface implemented by every AST node.
// Every expression is self-terminated by a semicolon at the top level; the
// node itself carries only the shape of the expression.
type Expression interface {
	Pos() lexer.Position
	expressionNode()
}

// UnaryOp identifies the operator of a Unary expression.
type UnaryOp int

const (
	UnaryMinus UnaryOp = iota
	UnaryNot
)

// BinaryOp identifies the operator of a Binary expression.
type BinaryOp int

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryEq
	BinaryNotEq
	BinaryGreater
	BinaryLess
	BinaryGreaterEq
	BinaryLessEq
	BinaryAnd
	BinaryOr
)

// LiteralKind distinguishes the scalar kind carried by a Literal node.
type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralBoolean
	LiteralNumber
	LiteralString
)

// Literal is a scalar token value: null, a boolean, a number, or a string.
type Literal struct {
	Kind   LiteralKind
	Bool   bool
	Number float32
	Str    string
	Pos_   lexer.Position
}

func (l *Literal) Pos() lexer.Position { return l.Pos_ }
func (*Literal) expressionNode()       {}

// Variable is a reference to a named binding.
type Variable struct {
	Name string
	Pos_ lexer.Position
}

func (v *Variable) Pos() lexer.Position { return v.Pos_ }
func (*Variable) expressionNode()       {}

// Annotation is the optional `: mutable? type` suffix of a let declaration.
type Annotation struct {
	Mutable bool
	Type    TypeExpr
}

// Declare introduces a new binding in the current scope.
type Declare struct {
	Key         string
	Annotation  *Annotation // nil when the declaration has no annotation
	Initializer Expression
	Pos_        lexer.Position
}

func (d *Declare) Pos() lexer.Position { return d.Pos_ }
func (*Declare) expressionNode()       {}

// Assign stores a new value into an existing binding.
type Assign struct {
	Key   string
	Value Expression
	Pos_  lexer.Position
}

func (a *Assign) Pos() lexer.Position { return a.Pos_ }
func (*Assign) expressionNode()       {}

// Unary applies a prefix operator to a single operand.
type Unary struct {
	Op      UnaryOp
	Operand Expression
	Pos_    lexer.Position
}

func (u *Unary) Pos() lexer.Position { return u.Pos_ }
func (*Unary) expressionNode()       {}

// Binary applies an infix operator to two operands.
type Binary struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
	Pos_  lexer.Position
}

func (b *Binary) Pos() lexer.Position { return b.Pos_ }
func (*Binary) expressionNode()       {}

// If is a conditional expression; Else is nil when the else-branch is absent.
type If struct {
	Condition Expression
	Then      Expression
	Else      Expression
	Pos_      lexer.Position
}

func (i *If) Pos() lexer.Position { return i.Pos_ }
func (*If) expressionNode()       {}

// Body is an ordered sequence of expressions evaluated in a new scope.
type Body struct {
	Children []Expression
	Pos_     lexer.Position
}

func (b *Body) Pos() lexer.Position { return b.Pos_ }
func (*Body) expressionNode()       {}

// Call invokes a function value with a list of argument expressions.
type Call struct {
	Target    Expression
	Arguments []Expression
	Pos_      lexer.Position
}

func (c *Call) Pos() lexer.Position { return c.Pos_ }
func (*Call) expressionNode()       {}

// Parameter is one `name: type` entry of a Function's argument list.
type Parameter struct {
	Name string
	Type TypeExpr
}

// Function is a function-literal expression. Body is shared by reference:
// cloning a Function value (e.g. storing it under several names) never
// deep-copies the body AST.
type Function struct {
	Parameters []Parameter
	ReturnType TypeExpr // nil means the Infer sentinel
	Body       Expression
	Pos_       lexer.Position
}

func (f *Function) Pos() lexer.Position { return f.Pos_ }
func (*Function) expressionNode()       {}

// ListLiteral is an ordered list of element expressions.
type ListLiteral struct {
	Elements []Expression
	Pos_     lexer.Position
}

func (l *ListLiteral) Pos() lexer.Position { return l.Pos_ }
func (*ListLiteral) expressionNode()       {}

// Return is an early-exit expression; Value is nil for a bare `return;`.
type Return struct {
	Value Expression
	Pos_  lexer.Position
}

func (r *Return) Pos() lexer.Position { return r.Pos_ }
func (*Return) expressionNode()       {}

// Program is the top-level sequence of semicolon-terminated expressions.
type Program struct {
	Expressions []Expression
}
