package eval

import (
	"fmt"

	"github.com/miningape/exprlang/internal/ast"
	"github.com/miningape/exprlang/internal/interp"
)

// UserFunction is the runtime counterpart of internal/checker's funcHandle:
// a callable that closes over the environment active at the point the
// Function literal was evaluated, per spec.md §4.6 "Function evaluation".
type UserFunction struct {
	evaluator *Evaluator
	node      *ast.Function
	closure   *interp.Environment[Value]
}

func newUserFunction(e *Evaluator, node *ast.Function, closure *interp.Environment[Value]) *UserFunction {
	return &UserFunction{evaluator: e, node: node, closure: closure}
}

// Call pushes a fresh scope rooted in the closure environment (not the
// caller's current scope), binds each positional argument by name as
// immutable, evaluates the body, and pops the scope even on error.
func (f *UserFunction) Call(args []Value) (Value, error) {
	if len(args) != len(f.node.Parameters) {
		return nil, fmt.Errorf("expected %d argument(s), got %d", len(f.node.Parameters), len(args))
	}

	restore := f.evaluator.interp.EnterFrame(f.closure.Push())
	defer restore()

	for i, p := range f.node.Parameters {
		if err := f.evaluator.interp.Current.Create(p.Name, false, args[i]); err != nil {
			return nil, err
		}
	}

	result, cerr := f.evaluator.Eval(f.node.Body)
	if cerr != nil {
		return nil, cerr
	}
	if ret, ok := result.(*Return); ok {
		return ret.Value, nil
	}
	return result, nil
}

func (f *UserFunction) String() string {
	return fmt.Sprintf("(%d args)", len(f.node.Parameters))
}

// Builtin wraps a host-provided Go function as a Callable, for `print` and
// `map` (spec.md §6's "external operations the core invokes through the
// generic callable interface").
type Builtin struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (b *Builtin) Call(args []Value) (Value, error) { return b.Fn(args) }
func (b *Builtin) String() string                   { return b.Name }
