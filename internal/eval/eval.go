package eval

import (
	"fmt"

	"github.com/miningape/exprlang/internal/ast"
	"github.com/miningape/exprlang/internal/errors"
	"github.com/miningape/exprlang/internal/interp"
	"github.com/miningape/exprlang/internal/lexer"
)

// Evaluator walks internal/ast nodes against a lexically scoped
// interp.Environment[Value], mirroring internal/checker's walk shape over
// the same generic interp.Interpreter abstraction, instantiated for Value
// instead of types.Type.
type Evaluator struct {
	interp *interp.Interpreter[Value]
	source string
	file   string
}

// New creates an Evaluator with a fresh root scope.
func New(source, file string) *Evaluator {
	return &Evaluator{interp: interp.New[Value](), source: source, file: file}
}

// Environment exposes the root scope so a REPL session can install
// builtins and persist declarations across lines.
func (e *Evaluator) Environment() *interp.Environment[Value] { return e.interp.Current }

// UseEnvironment swaps in a pre-existing environment.
func (e *Evaluator) UseEnvironment(env *interp.Environment[Value]) { e.interp.Current = env }

func (e *Evaluator) errorAt(pos lexer.Position, format string, args ...any) *errors.CompilerError {
	return errors.NewRuntimeError(pos, fmt.Sprintf(format, args...), e.source, e.file)
}

// EvalProgram evaluates every top-level expression in order, in the shared
// root scope, and returns the last value (or Null for an empty program).
func (e *Evaluator) EvalProgram(program *ast.Program) (Value, *errors.CompilerError) {
	var result Value = Null{}
	for _, expr := range program.Expressions {
		v, err := e.Eval(expr)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Eval dispatches on the dynamic node type, per spec.md §4.6.
func (e *Evaluator) Eval(expr ast.Expression) (Value, *errors.CompilerError) {
	switch node := expr.(type) {
	case *ast.Literal:
		return e.evalLiteral(node), nil
	case *ast.Variable:
		return e.evalVariable(node)
	case *ast.Declare:
		return e.evalDeclare(node)
	case *ast.Assign:
		return e.evalAssign(node)
	case *ast.Unary:
		return e.evalUnary(node)
	case *ast.Binary:
		return e.evalBinary(node)
	case *ast.If:
		return e.evalIf(node)
	case *ast.Body:
		return e.evalBody(node)
	case *ast.Call:
		return e.evalCall(node)
	case *ast.Function:
		return &Function{Handle: newUserFunction(e, node, e.interp.Current)}, nil
	case *ast.ListLiteral:
		return e.evalListLiteral(node)
	case *ast.Return:
		return e.evalReturn(node)
	default:
		return nil, e.errorAt(expr.Pos(), "unhandled expression node %T", expr)
	}
}

func (e *Evaluator) evalLiteral(node *ast.Literal) Value {
	switch node.Kind {
	case ast.LiteralNull:
		return Null{}
	case ast.LiteralBoolean:
		return Boolean(node.Bool)
	case ast.LiteralNumber:
		return Number(node.Number)
	case ast.LiteralString:
		return String(node.Str)
	default:
		return Null{}
	}
}

func (e *Evaluator) evalVariable(node *ast.Variable) (Value, *errors.CompilerError) {
	v, ok := e.interp.Current.Get(node.Name)
	if !ok {
		return nil, e.errorAt(node.Pos(), "%q is not defined", node.Name)
	}
	return v, nil
}

func (e *Evaluator) evalDeclare(node *ast.Declare) (Value, *errors.CompilerError) {
	value, err := e.Eval(node.Initializer)
	if err != nil {
		return nil, err
	}
	mutable := node.Annotation != nil && node.Annotation.Mutable
	if createErr := e.interp.Current.Create(node.Key, mutable, value); createErr != nil {
		return nil, e.errorAt(node.Pos(), "%s", createErr)
	}
	return value, nil
}

func (e *Evaluator) evalAssign(node *ast.Assign) (Value, *errors.CompilerError) {
	value, err := e.Eval(node.Value)
	if err != nil {
		return nil, err
	}
	if setErr := e.interp.Current.Set(node.Key, value); setErr != nil {
		return nil, e.errorAt(node.Pos(), "%s", setErr)
	}
	return value, nil
}

func (e *Evaluator) evalUnary(node *ast.Unary) (Value, *errors.CompilerError) {
	operand, err := e.Eval(node.Operand)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case ast.UnaryNot:
		b, ok := operand.(Boolean)
		if !ok {
			return nil, e.errorAt(node.Pos(), "'!' requires a boolean operand")
		}
		return !b, nil
	case ast.UnaryMinus:
		n, ok := operand.(Number)
		if !ok {
			return nil, e.errorAt(node.Pos(), "unary '-' requires a number operand")
		}
		return -n, nil
	default:
		return nil, e.errorAt(node.Pos(), "unknown unary operator")
	}
}

func (e *Evaluator) evalBinary(node *ast.Binary) (Value, *errors.CompilerError) {
	// `&` and `|` short-circuit: the right operand is only evaluated when
	// the left doesn't already decide the result.
	if node.Op == ast.BinaryAnd || node.Op == ast.BinaryOr {
		left, err := e.Eval(node.Left)
		if err != nil {
			return nil, err
		}
		leftBool, ok := left.(Boolean)
		if !ok {
			return nil, e.errorAt(node.Pos(), "'&'/'|' require boolean operands")
		}
		if node.Op == ast.BinaryAnd && !bool(leftBool) {
			return Boolean(false), nil
		}
		if node.Op == ast.BinaryOr && bool(leftBool) {
			return Boolean(true), nil
		}
		right, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		rightBool, ok := right.(Boolean)
		if !ok {
			return nil, e.errorAt(node.Pos(), "'&'/'|' require boolean operands")
		}
		return rightBool, nil
	}

	left, err := e.Eval(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(node.Right)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case ast.BinaryAdd:
		leftNum, leftOK := left.(Number)
		rightNum, rightOK := right.(Number)
		if leftOK && rightOK {
			return leftNum + rightNum, nil
		}
		return String(Stringify(left) + Stringify(right)), nil
	case ast.BinarySub, ast.BinaryMul, ast.BinaryDiv, ast.BinaryLess, ast.BinaryLessEq, ast.BinaryGreater, ast.BinaryGreaterEq:
		leftNum, leftOK := left.(Number)
		rightNum, rightOK := right.(Number)
		if !leftOK || !rightOK {
			return nil, e.errorAt(node.Pos(), "operator requires two numbers")
		}
		return numericOp(node.Op, leftNum, rightNum)
	case ast.BinaryEq:
		return Boolean(valuesEqual(left, right)), nil
	case ast.BinaryNotEq:
		return Boolean(!valuesEqual(left, right)), nil
	default:
		return nil, e.errorAt(node.Pos(), "unknown binary operator")
	}
}

func numericOp(op ast.BinaryOp, a, b Number) (Value, *errors.CompilerError) {
	switch op {
	case ast.BinarySub:
		return a - b, nil
	case ast.BinaryMul:
		return a * b, nil
	case ast.BinaryDiv:
		return a / b, nil // division by zero yields IEEE infinity, not an error
	case ast.BinaryLess:
		return Boolean(a < b), nil
	case ast.BinaryLessEq:
		return Boolean(a <= b), nil
	case ast.BinaryGreater:
		return Boolean(a > b), nil
	case ast.BinaryGreaterEq:
		return Boolean(a >= b), nil
	default:
		return nil, nil
	}
}

func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !valuesEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	default:
		return false
	}
}

func (e *Evaluator) evalIf(node *ast.If) (Value, *errors.CompilerError) {
	cond, err := e.Eval(node.Condition)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(Boolean)
	if !ok {
		return nil, e.errorAt(node.Condition.Pos(), "if condition did not evaluate to a boolean")
	}
	if b {
		return e.Eval(node.Then)
	}
	if node.Else != nil {
		return e.Eval(node.Else)
	}
	return Null{}, nil
}

// evalBody mirrors checkBody's absorption of return-typed children: a
// Return encountered among this body's own children stops the loop and
// becomes this body's own (unwrapped) result, matching how checkBody folds
// a child's return-type component into its own join type rather than
// re-exporting a Return marker. A *Return can still escape a Body value
// itself, though — when node.Body is a bare tail expression rather than a
// `{ }` literal (e.g. `(n) => return n;`) there is no Body here to absorb
// it, so UserFunction.Call performs the final unwrap at the call boundary.
func (e *Evaluator) evalBody(node *ast.Body) (Value, *errors.CompilerError) {
	e.interp.PushScope()
	defer e.interp.PopScope()

	var last Value = Null{}
	for _, child := range node.Children {
		v, err := e.Eval(child)
		if err != nil {
			return nil, err
		}
		if ret, ok := v.(*Return); ok {
			return ret.Value, nil
		}
		last = v
	}
	return last, nil
}

func (e *Evaluator) evalCall(node *ast.Call) (Value, *errors.CompilerError) {
	target, err := e.Eval(node.Target)
	if err != nil {
		return nil, err
	}
	fn, ok := target.(*Function)
	if !ok {
		return nil, e.errorAt(node.Target.Pos(), "cannot call a non-function value")
	}

	args := make([]Value, len(node.Arguments))
	for i, a := range node.Arguments {
		v, err := e.Eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	result, callErr := fn.Handle.Call(args)
	if callErr != nil {
		return nil, e.errorAt(node.Pos(), "%s", callErr)
	}
	return result, nil
}

func (e *Evaluator) evalListLiteral(node *ast.ListLiteral) (Value, *errors.CompilerError) {
	elements := make([]Value, len(node.Elements))
	for i, el := range node.Elements {
		v, err := e.Eval(el)
		if err != nil {
			return nil, err
		}
		elements[i] = v
	}
	return &List{Elements: elements}, nil
}

func (e *Evaluator) evalReturn(node *ast.Return) (Value, *errors.CompilerError) {
	if node.Value == nil {
		return &Return{Value: Null{}}, nil
	}
	v, err := e.Eval(node.Value)
	if err != nil {
		return nil, err
	}
	return &Return{Value: v}, nil
}
