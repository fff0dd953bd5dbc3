// Package eval implements the tree-walking evaluator of spec.md §4.6 over
// the runtime value variants of spec.md §3 "Runtime values".
package eval

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the common interface of every runtime variant: Null, String,
// Number, Boolean, List, Function, and the transient Return wrapper.
type Value interface {
	valueNode()
}

// Null is the single null value.
type Null struct{}

func (Null) valueNode() {}

// Number is a 32-bit float, per spec.md's "numeric tower beyond 32-bit
// floating point" non-goal.
type Number float32

func (Number) valueNode() {}

// String is a raw text value.
type String string

func (String) valueNode() {}

// Boolean is a true/false value.
type Boolean bool

func (Boolean) valueNode() {}

// List is an ordered, mutable-length sequence of values. It is held by
// reference so list identity is preserved across bindings, matching the
// tagged-variant semantics of spec.md §3.
type List struct {
	Elements []Value
}

func (*List) valueNode() {}

// Callable is the generic interface every invocable value implements:
// user-defined functions (UserFunction) and host builtins (Builtin, for
// print and map). internal/types' Resolver, implemented by
// internal/checker's function handle, plays the same role on the static side.
type Callable interface {
	Call(args []Value) (Value, error)
	String() string
}

// Function is a shared, mutable handle to a callable: either a user
// function closing over its defining environment, or a host builtin.
type Function struct {
	Handle Callable
}

func (*Function) valueNode() {}

// Return wraps the value produced by a `return` expression. It is a
// transient propagation token used only while unwinding out of nested Body
// nodes inside a function call; it must never be stored in an environment
// or observed by calling code outside internal/eval.
type Return struct {
	Value Value
}

func (*Return) valueNode() {}

// Stringify renders a value per spec.md §6 "Value stringification", used
// by the `print` builtin and the REPL's result line.
func Stringify(v Value) string {
	switch val := v.(type) {
	case Null:
		return "null"
	case Number:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case String:
		return string(val)
	case Boolean:
		if val {
			return "true"
		}
		return "false"
	case *Function:
		return fmt.Sprintf("(fn:%s)", val.Handle.String())
	case *List:
		parts := make([]string, len(val.Elements))
		for i, e := range val.Elements {
			parts[i] = Stringify(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// DebugStringify is Stringify but quotes strings, matching the REPL's log
// form from spec.md §6.
func DebugStringify(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return Stringify(v)
}
