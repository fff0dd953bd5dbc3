// Package checker implements the bidirectional type checker of spec.md
// §4.5, walking internal/ast nodes against a
// interp.Interpreter[types.Type] environment.
package checker

import (
	"fmt"

	"github.com/miningape/exprlang/internal/ast"
	"github.com/miningape/exprlang/internal/errors"
	"github.com/miningape/exprlang/internal/interp"
	"github.com/miningape/exprlang/internal/lexer"
	"github.com/miningape/exprlang/internal/types"
)

// Checker walks a Program and assigns each node a types.Type, using a
// lexically scoped interp.Environment[types.Type] to track declared cells.
type Checker struct {
	interp *interp.Interpreter[types.Type]
	source string
	file   string
}

// New creates a Checker with a fresh root scope. Builtins are installed by
// the caller (cmd/exprlang and internal/repl) via builtins.Install, matching how the
// evaluator installs its own builtin callables in a parallel environment.
func New(source, file string) *Checker {
	return &Checker{interp: interp.New[types.Type](), source: source, file: file}
}

// Environment exposes the root scope so a REPL session can install builtins
// and persist declarations across lines.
func (c *Checker) Environment() *interp.Environment[types.Type] { return c.interp.Current }

// UseEnvironment swaps in a pre-existing environment, letting a REPL session
// keep type-checking against accumulated declarations from earlier lines.
func (c *Checker) UseEnvironment(env *interp.Environment[types.Type]) { c.interp.Current = env }

func (c *Checker) errorAt(pos lexer.Position, format string, args ...any) *errors.CompilerError {
	return errors.NewTypeError(pos, fmt.Sprintf(format, args...), c.source, c.file)
}

func (c *Checker) nameErrorAt(pos lexer.Position, format string, args ...any) *errors.CompilerError {
	return errors.NewNameError(pos, fmt.Sprintf(format, args...), c.source, c.file)
}

// CheckProgram types every top-level expression in order, in the shared
// root scope (top-level declarations persist across statements).
func (c *Checker) CheckProgram(program *ast.Program) ([]types.Type, *errors.CompilerError) {
	result := make([]types.Type, 0, len(program.Expressions))
	for _, expr := range program.Expressions {
		t, err := c.Check(expr)
		if err != nil {
			return nil, err
		}
		if _, isReturn := types.GetReturnType(t); isReturn {
			return nil, c.errorAt(expr.Pos(), "'return' is not allowed outside a function body")
		}
		result = append(result, t)
	}
	return result, nil
}

// Check dispatches on the dynamic node type, per spec.md §4.5.
func (c *Checker) Check(expr ast.Expression) (types.Type, *errors.CompilerError) {
	switch node := expr.(type) {
	case *ast.Literal:
		return c.checkLiteral(node)
	case *ast.Variable:
		return c.checkVariable(node)
	case *ast.Declare:
		return c.checkDeclare(node)
	case *ast.Assign:
		return c.checkAssign(node)
	case *ast.Unary:
		return c.checkUnary(node)
	case *ast.Binary:
		return c.checkBinary(node)
	case *ast.If:
		return c.checkIf(node)
	case *ast.Body:
		return c.checkBody(node)
	case *ast.Call:
		return c.checkCall(node)
	case *ast.Function:
		return c.checkFunction(node)
	case *ast.ListLiteral:
		return c.checkListLiteral(node)
	case *ast.Return:
		return c.checkReturn(node)
	default:
		return nil, c.errorAt(expr.Pos(), "unhandled expression node %T", expr)
	}
}

func (c *Checker) checkLiteral(node *ast.Literal) (types.Type, *errors.CompilerError) {
	switch node.Kind {
	case ast.LiteralNull:
		return types.TNull, nil
	case ast.LiteralBoolean:
		return types.TBoolean, nil
	case ast.LiteralNumber:
		return types.TNumber, nil
	case ast.LiteralString:
		return types.TString, nil
	default:
		return nil, c.errorAt(node.Pos(), "unknown literal kind")
	}
}

func (c *Checker) checkVariable(node *ast.Variable) (types.Type, *errors.CompilerError) {
	t, ok := c.interp.Current.Get(node.Name)
	if !ok {
		return nil, c.nameErrorAt(node.Pos(), "%q is not defined", node.Name)
	}
	return t, nil
}

func (c *Checker) resolveAnnotation(t ast.TypeExpr) types.Type {
	switch node := t.(type) {
	case *ast.BaseTypeExpr:
		switch node.Kind {
		case ast.TypeAny:
			return types.TAny
		case ast.TypeNull:
			return types.TNull
		case ast.TypeNumber:
			return types.TNumber
		case ast.TypeString:
			return types.TString
		case ast.TypeBoolean:
			return types.TBoolean
		}
	case *ast.OrTypeExpr:
		return types.NewOr(c.resolveAnnotation(node.Left), c.resolveAnnotation(node.Right))
	case *ast.FunctionTypeExpr:
		argTypes := make([]types.Type, len(node.Params))
		for i, p := range node.Params {
			argTypes[i] = c.resolveAnnotation(p)
		}
		return &types.FunctionType{Shape: types.ShapeLiteral, ArgTypes: argTypes, Return: c.resolveAnnotation(node.Return)}
	}
	return types.TInfer
}

func (c *Checker) checkDeclare(node *ast.Declare) (types.Type, *errors.CompilerError) {
	initType, err := c.Check(node.Initializer)
	if err != nil {
		return nil, err
	}
	if _, isReturn := types.GetReturnType(initType); isReturn {
		return nil, c.errorAt(node.Pos(), "return-typed expression cannot initialize a declaration")
	}

	mutable := false
	declared := initType
	if node.Annotation != nil {
		mutable = node.Annotation.Mutable
		annotated := c.resolveAnnotation(node.Annotation.Type)
		if annotated != types.TInfer {
			if !types.IsSubTypeOf(initType, annotated) {
				return nil, c.errorAt(node.Pos(), "%s does not sub-type declared type %s", initType.String(), annotated.String())
			}
			declared = annotated
		}
	}

	if err := c.interp.Current.Create(node.Key, mutable, declared); err != nil {
		return nil, c.nameErrorAt(node.Pos(), "%s", err)
	}
	return declared, nil
}

func (c *Checker) checkAssign(node *ast.Assign) (types.Type, *errors.CompilerError) {
	cellType, ok := c.interp.Current.Get(node.Key)
	if !ok {
		return nil, c.nameErrorAt(node.Pos(), "%q is not defined", node.Key)
	}
	valueType, err := c.Check(node.Value)
	if err != nil {
		return nil, err
	}
	if !types.IsSubTypeOf(valueType, cellType) {
		return nil, c.errorAt(node.Pos(), "%s does not sub-type %s", valueType.String(), cellType.String())
	}
	if setErr := c.interp.Current.Set(node.Key, cellType); setErr != nil {
		return nil, c.nameErrorAt(node.Pos(), "%s", setErr)
	}
	return cellType, nil
}

func (c *Checker) checkUnary(node *ast.Unary) (types.Type, *errors.CompilerError) {
	operandType, err := c.Check(node.Operand)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case ast.UnaryNot:
		if !types.IsSubTypeOf(operandType, types.TBoolean) {
			return nil, c.errorAt(node.Pos(), "'!' requires a boolean operand, got %s", operandType.String())
		}
		return types.TBoolean, nil
	case ast.UnaryMinus:
		if !types.IsSubTypeOf(operandType, types.TNumber) {
			return nil, c.errorAt(node.Pos(), "unary '-' requires a number operand, got %s", operandType.String())
		}
		return types.TNumber, nil
	default:
		return nil, c.errorAt(node.Pos(), "unknown unary operator")
	}
}

func (c *Checker) checkBinary(node *ast.Binary) (types.Type, *errors.CompilerError) {
	leftType, err := c.Check(node.Left)
	if err != nil {
		return nil, err
	}
	rightType, err := c.Check(node.Right)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case ast.BinaryAdd:
		if types.IsSubTypeOf(leftType, types.TNumber) && types.IsSubTypeOf(rightType, types.TNumber) {
			return types.TNumber, nil
		}
		if isAny(leftType) || isAny(rightType) {
			return types.NewOr(types.TNumber, types.TString), nil
		}
		return types.TString, nil
	case ast.BinarySub, ast.BinaryMul, ast.BinaryDiv:
		if !types.IsSubTypeOf(leftType, types.TNumber) || !types.IsSubTypeOf(rightType, types.TNumber) {
			return nil, c.errorAt(node.Pos(), "operator requires two numbers, got %s and %s", leftType.String(), rightType.String())
		}
		return types.TNumber, nil
	case ast.BinaryEq, ast.BinaryNotEq:
		return types.TBoolean, nil
	case ast.BinaryLess, ast.BinaryLessEq, ast.BinaryGreater, ast.BinaryGreaterEq:
		if !types.IsSubTypeOf(leftType, types.TNumber) || !types.IsSubTypeOf(rightType, types.TNumber) {
			return nil, c.errorAt(node.Pos(), "comparison requires two numbers, got %s and %s", leftType.String(), rightType.String())
		}
		return types.TBoolean, nil
	case ast.BinaryAnd, ast.BinaryOr:
		if !types.IsSubTypeOf(leftType, types.TBoolean) || !types.IsSubTypeOf(rightType, types.TBoolean) {
			return nil, c.errorAt(node.Pos(), "'&'/'|' require two booleans, got %s and %s", leftType.String(), rightType.String())
		}
		return types.TBoolean, nil
	default:
		return nil, c.errorAt(node.Pos(), "unknown binary operator")
	}
}

func isAny(t types.Type) bool {
	base, ok := t.(*types.BaseType)
	return ok && base.Kind == types.Any
}

func (c *Checker) checkIf(node *ast.If) (types.Type, *errors.CompilerError) {
	condType, err := c.Check(node.Condition)
	if err != nil {
		return nil, err
	}
	if !types.IsSubTypeOf(condType, types.TBoolean) {
		return nil, c.errorAt(node.Condition.Pos(), "if condition must be boolean, got %s", condType.String())
	}
	thenType, err := c.Check(node.Then)
	if err != nil {
		return nil, err
	}
	elseType := types.Type(types.TNull)
	if node.Else != nil {
		elseType, err = c.Check(node.Else)
		if err != nil {
			return nil, err
		}
	}
	// The result is the then-type whenever either branch sub-types the
	// other (not only on mutual sub-typing, which NewOr requires) — an
	// asymmetric pair like `if b 1 else someAnyValue` still narrows to the
	// then-type's side rather than ballooning into an Or.
	if types.IsSubTypeOf(thenType, elseType) || types.IsSubTypeOf(elseType, thenType) {
		return thenType, nil
	}
	return &types.OrType{Left: thenType, Right: elseType}, nil
}

func (c *Checker) checkBody(node *ast.Body) (types.Type, *errors.CompilerError) {
	c.interp.PushScope()
	defer c.interp.PopScope()

	var tail types.Type
	var returnTypes []types.Type
	for _, child := range node.Children {
		childType, err := c.Check(child)
		if err != nil {
			return nil, err
		}
		if ret, ok := types.GetReturnType(childType); ok {
			returnTypes = append(returnTypes, ret)
			tail = nil
			continue
		}
		tail = childType
	}

	var blockType types.Type = tail
	for _, ret := range returnTypes {
		if blockType == nil {
			blockType = ret
			continue
		}
		if types.IsSubTypeOf(ret, blockType) {
			continue
		}
		blockType = types.NewOr(blockType, ret)
	}

	if blockType == nil {
		return types.TNull, nil
	}
	return blockType, nil
}

func (c *Checker) checkCall(node *ast.Call) (types.Type, *errors.CompilerError) {
	targetType, err := c.Check(node.Target)
	if err != nil {
		return nil, err
	}
	fnType, ok := targetType.(*types.FunctionType)
	if !ok {
		return nil, c.errorAt(node.Target.Pos(), "cannot call a value of type %s", targetType.String())
	}

	argTypes := make([]types.Type, len(node.Arguments))
	for i, arg := range node.Arguments {
		argType, err := c.Check(arg)
		if err != nil {
			return nil, err
		}
		argTypes[i] = argType
	}

	result, applyErr := types.Apply(fnType, argTypes)
	if applyErr != nil {
		return nil, c.errorAt(node.Pos(), "%s", applyErr)
	}
	return result, nil
}

func (c *Checker) checkFunction(node *ast.Function) (types.Type, *errors.CompilerError) {
	handle := newFuncHandle(c, node)
	return &types.FunctionType{Shape: types.ShapeWithBody, Handle: handle}, nil
}

func (c *Checker) checkListLiteral(node *ast.ListLiteral) (types.Type, *errors.CompilerError) {
	if len(node.Elements) == 0 {
		return nil, c.errorAt(node.Pos(), "empty list literal has no element type")
	}
	var element types.Type
	for _, e := range node.Elements {
		t, err := c.Check(e)
		if err != nil {
			return nil, err
		}
		if element == nil {
			element = t
			continue
		}
		element = types.NewOr(element, t)
	}
	return &types.ListType{Element: element}, nil
}

func (c *Checker) checkReturn(node *ast.Return) (types.Type, *errors.CompilerError) {
	if node.Value == nil {
		return &types.ReturnType{Inner: types.TNull}, nil
	}
	t, err := c.Check(node.Value)
	if err != nil {
		return nil, err
	}
	return &types.ReturnType{Inner: t}, nil
}
