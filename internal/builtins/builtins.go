// Package builtins installs the two external collaborators named by
// spec.md §6 — `print` and `map` — into a matched pair of checker and
// evaluator root environments. Both are ordinary callables: the checker
// sees their static signature, the evaluator sees their Go implementation.
package builtins

import (
	"fmt"
	"io"

	"github.com/miningape/exprlang/internal/checker"
	"github.com/miningape/exprlang/internal/eval"
	"github.com/miningape/exprlang/internal/interp"
	"github.com/miningape/exprlang/internal/types"
)

// Install declares `print` and `map` in both the checker's and the
// evaluator's root environment, using one shared writer for `print`'s
// output (the CLI passes os.Stdout; tests can pass a buffer).
func Install(c *checker.Checker, e *eval.Evaluator, stdout io.Writer) {
	installTypes(c.Environment())
	installValues(e.Environment(), stdout)
}

func installTypes(env *interp.Environment[types.Type]) {
	printType := &types.FunctionType{Shape: types.ShapeArrayArgs, Element: types.TAny, Return: types.TString}
	_ = env.Create("print", false, printType)

	elementFn := &types.FunctionType{Shape: types.ShapeLiteral, ArgTypes: []types.Type{types.TAny}, Return: types.TAny}
	mapType := &types.FunctionType{
		Shape:    types.ShapeLiteral,
		ArgTypes: []types.Type{&types.ListType{Element: types.TAny}, elementFn},
		Return:   &types.ListType{Element: types.TAny},
	}
	_ = env.Create("map", false, mapType)
}

func installValues(env *interp.Environment[eval.Value], stdout io.Writer) {
	print := &eval.Builtin{
		Name: "print",
		Fn: func(args []eval.Value) (eval.Value, error) {
			out := ""
			for _, a := range args {
				out += eval.Stringify(a)
			}
			fmt.Fprintln(stdout, out)
			return eval.String(out), nil
		},
	}
	_ = env.Create("print", false, &eval.Function{Handle: print})

	mapFn := &eval.Builtin{
		Name: "map",
		Fn: func(args []eval.Value) (eval.Value, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("map expects 2 arguments, got %d", len(args))
			}
			list, ok := args[0].(*eval.List)
			if !ok {
				return nil, fmt.Errorf("map's first argument must be a list")
			}
			fn, ok := args[1].(*eval.Function)
			if !ok {
				return nil, fmt.Errorf("map's second argument must be a function")
			}
			results := make([]eval.Value, len(list.Elements))
			for i, elem := range list.Elements {
				v, err := fn.Handle.Call([]eval.Value{elem})
				if err != nil {
					return nil, err
				}
				results[i] = v
			}
			return &eval.List{Elements: results}, nil
		},
	}
	_ = env.Create("map", false, &eval.Function{Handle: mapFn})
}
