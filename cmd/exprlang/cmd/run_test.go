package cmd

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/miningape/exprlang/internal/builtins"
	"github.com/miningape/exprlang/internal/checker"
	"github.com/miningape/exprlang/internal/eval"
	"github.com/miningape/exprlang/internal/parser"
)

// runProgram drives one source string through the full pipeline, the way
// runScript does, and returns what its `print` calls wrote plus its final
// stringified result — the pair a fixture snapshot captures.
func runProgram(t *testing.T, src string) string {
	t.Helper()
	p, lexErr := parser.New(src, "<snapshot>")
	if lexErr != nil {
		t.Fatalf("unexpected lex error: %v", lexErr)
	}
	program, parseErr := p.ParseProgram()
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}

	c := checker.New(src, "<snapshot>")
	e := eval.New(src, "<snapshot>")
	var stdout bytes.Buffer
	builtins.Install(c, e, &stdout)

	if _, typeErr := c.CheckProgram(program); typeErr != nil {
		t.Fatalf("unexpected type error: %v", typeErr)
	}
	result, evalErr := e.EvalProgram(program)
	if evalErr != nil {
		t.Fatalf("unexpected eval error: %v", evalErr)
	}

	return stdout.String() + eval.Stringify(result)
}

func TestFixtureFactorial(t *testing.T) {
	src := `let fact = (n: number): number => if n <= 1 1 else n * fact(n - 1); print("factorial of 5 is", fact(5));`
	snaps.MatchSnapshot(t, runProgram(t, src))
}

func TestFixtureMapOverList(t *testing.T) {
	src := `let xs = [1, 2, 3, 4]; let squared = map(xs, (v: number): number => v * v); print(squared);`
	snaps.MatchSnapshot(t, runProgram(t, src))
}

func TestFixtureEarlyReturnInsideBody(t *testing.T) {
	src := `let classify = (n: number): string => { if n < 0 return "negative"; if n == 0 return "zero"; "positive"; }; print(classify(-3), classify(0), classify(7));`
	snaps.MatchSnapshot(t, runProgram(t, src))
}

func TestFixtureClosureOverMutableCounter(t *testing.T) {
	src := `let counter: mutable number = 0; let increment = (): number => { counter = counter + 1; counter; }; print(increment(), increment(), increment());`
	snaps.MatchSnapshot(t, runProgram(t, src))
}
