package checker

import (
	"fmt"

	"github.com/miningape/exprlang/internal/ast"
	"github.com/miningape/exprlang/internal/interp"
	"github.com/miningape/exprlang/internal/types"
)

// resolveState tracks where a funcHandle sits in the on-demand refinement
// state machine of spec.md §4.4.
type resolveState int

const (
	unresolved resolveState = iota
	provisional
	resolved
)

// funcHandle implements types.Resolver for a user Function AST node. It
// memoises the first type-query's result (or, while that query is still
// walking the body, a provisional type built from the declared argument and
// return types), so that a function
// recursing through its own name during refinement sees a stable signature
// instead of looping forever.
type funcHandle struct {
	checker *Checker
	node    *ast.Function
	closure *interp.Environment[types.Type]

	state resolveState
	cache *types.FunctionType
	err   error
}

func newFuncHandle(c *Checker, node *ast.Function) *funcHandle {
	return &funcHandle{checker: c, node: node, closure: c.interp.Current, state: unresolved}
}

// ResolveType implements types.Resolver, performing the §4.4 algorithm:
// resolve each parameter's declared type, install a provisional Literal
// signature (so recursive calls through the same handle see a stable arity
// and argument types), type the body in a scope seeded with the
// parameters, then reconcile the body's type against the declared return
// type (or adopt it, if the declared return type is Infer).
func (h *funcHandle) ResolveType() (*types.FunctionType, error) {
	switch h.state {
	case resolved:
		return h.cache, h.err
	case provisional:
		return h.cache, nil
	}

	argTypes := make([]types.Type, len(h.node.Parameters))
	for i, p := range h.node.Parameters {
		argTypes[i] = h.checker.resolveAnnotation(p.Type)
	}

	declaredReturn := types.TInfer
	if h.node.ReturnType != nil {
		declaredReturn = h.checker.resolveAnnotation(h.node.ReturnType)
	}

	h.state = provisional
	h.cache = &types.FunctionType{Shape: types.ShapeLiteral, ArgTypes: argTypes, Return: declaredReturn}

	restore := h.checker.interp.EnterFrame(h.closure.Push())
	for i, p := range h.node.Parameters {
		if err := h.checker.interp.Current.Create(p.Name, false, argTypes[i]); err != nil {
			restore()
			h.state = resolved
			h.err = err
			return nil, err
		}
	}

	bodyType, checkErr := h.checker.Check(h.node.Body)
	restore()

	if checkErr != nil {
		h.state = resolved
		h.err = checkErr
		return nil, checkErr
	}

	returnType := bodyType
	if ret, ok := types.GetReturnType(bodyType); ok {
		returnType = ret
	}

	var finalReturn types.Type
	if declaredReturn == types.TInfer {
		finalReturn = returnType
	} else {
		if !types.IsSubTypeOf(returnType, declaredReturn) {
			err := fmt.Errorf("function body returns %s, which does not sub-type the declared return type %s", returnType.String(), declaredReturn.String())
			h.state = resolved
			h.err = err
			return nil, err
		}
		finalReturn = declaredReturn
	}

	h.state = resolved
	h.cache = &types.FunctionType{Shape: types.ShapeLiteral, ArgTypes: argTypes, Return: finalReturn}
	h.err = nil
	return h.cache, nil
}
