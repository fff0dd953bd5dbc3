package checker

import (
	"testing"

	"github.com/miningape/exprlang/internal/parser"
	"github.com/miningape/exprlang/internal/types"
)

func checkSrc(t *testing.T, src string) types.Type {
	t.Helper()
	p, perr := parser.New(src, "")
	if perr != nil {
		t.Fatalf("unexpected lex error: %v", perr)
	}
	program, parseErr := p.ParseProgram()
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	c := New(src, "")
	results, checkErr := c.CheckProgram(program)
	if checkErr != nil {
		t.Fatalf("unexpected type error: %v", checkErr)
	}
	return results[len(results)-1]
}

func checkSrcErr(t *testing.T, src string) {
	t.Helper()
	p, perr := parser.New(src, "")
	if perr != nil {
		t.Fatalf("unexpected lex error: %v", perr)
	}
	program, parseErr := p.ParseProgram()
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	c := New(src, "")
	if _, checkErr := c.CheckProgram(program); checkErr == nil {
		t.Fatal("expected a type error")
	}
}

func TestCheckLiteralTypes(t *testing.T) {
	if s := checkSrc(t, `1;`).String(); s != "number" {
		t.Errorf("got %s", s)
	}
	if s := checkSrc(t, `"x";`).String(); s != "string" {
		t.Errorf("got %s", s)
	}
	if s := checkSrc(t, `true;`).String(); s != "boolean" {
		t.Errorf("got %s", s)
	}
}

func TestCheckDeclareInfersFromInitializer(t *testing.T) {
	if s := checkSrc(t, `let x = 1; x;`).String(); s != "number" {
		t.Errorf("got %s", s)
	}
}

func TestCheckDeclareAnnotationMismatch(t *testing.T) {
	checkSrcErr(t, `let x: number = true;`)
}

func TestCheckImmutableAssignFails(t *testing.T) {
	checkSrcErr(t, `let x = 1; x = 2;`)
}

func TestCheckMutableAssignSucceeds(t *testing.T) {
	if s := checkSrc(t, `let x: mutable number = 1; x = 2; x;`).String(); s != "number" {
		t.Errorf("got %s", s)
	}
}

func TestCheckUndefinedVariable(t *testing.T) {
	checkSrcErr(t, `x;`)
}

func TestCheckAddNumbersYieldsNumber(t *testing.T) {
	if s := checkSrc(t, `1 + 2;`).String(); s != "number" {
		t.Errorf("got %s", s)
	}
}

func TestCheckAddWithStringYieldsString(t *testing.T) {
	if s := checkSrc(t, `"a" + 1;`).String(); s != "string" {
		t.Errorf("got %s", s)
	}
}

func TestCheckIfWithoutElseYieldsOrNull(t *testing.T) {
	s := checkSrc(t, `if true 1;`).String()
	if s != "(number | null)" {
		t.Errorf("got %s", s)
	}
}

func TestCheckIfConditionMustBeBoolean(t *testing.T) {
	checkSrcErr(t, `if 1 2;`)
}

func TestCheckFunctionLiteralAndCall(t *testing.T) {
	if s := checkSrc(t, `let double = (x: number): number => x * 2; double(3);`).String(); s != "number" {
		t.Errorf("got %s", s)
	}
}

func TestCheckFunctionInferredReturn(t *testing.T) {
	if s := checkSrc(t, `let f = (x: number) => x + 1; f(1);`).String(); s != "number" {
		t.Errorf("got %s", s)
	}
}

func TestCheckFunctionArityMismatch(t *testing.T) {
	checkSrcErr(t, `let f = (x: number): number => x; f(1, 2);`)
}

func TestCheckFunctionReturnMismatch(t *testing.T) {
	checkSrcErr(t, `let f = (x: number): string => x; f(1);`)
}

func TestCheckRecursiveFunction(t *testing.T) {
	// The let-binding itself carries no annotation so that `fact` exists in
	// scope before the handle is first resolved (triggered by the `fact(5)`
	// call below); the function's own declared return type gives the
	// provisional signature a real Return, not Infer, so the recursive call
	// inside the body type-checks against it.
	src := `let fact = (n: number): number => if n <= 1 1 else n * fact(n - 1); fact(5);`
	if s := checkSrc(t, src).String(); s != "number" {
		t.Errorf("got %s", s)
	}
}

func TestCheckListLiteralHomogeneous(t *testing.T) {
	if s := checkSrc(t, `[1, 2, 3];`).String(); s != "[number]" {
		t.Errorf("got %s", s)
	}
}

func TestCheckEmptyListLiteralIsError(t *testing.T) {
	checkSrcErr(t, `[];`)
}

func TestCheckBodyReturnsJoinOfReturnsAndTail(t *testing.T) {
	src := `let f = (n: number): number => { if n <= 0 return 0; n; }; f(1);`
	if s := checkSrc(t, src).String(); s != "number" {
		t.Errorf("got %s", s)
	}
}

func TestCheckReturnTypedInitializerRejected(t *testing.T) {
	checkSrcErr(t, `let x = return 1;`)
}

func TestCheckDuplicateDeclarationInScopeFails(t *testing.T) {
	checkSrcErr(t, `let x = 1; let x = 2; x;`)
}

func TestCheckShadowingInNestedBodyIsFine(t *testing.T) {
	src := `let x = 1; { let x = 2; x; };`
	if s := checkSrc(t, src).String(); s != "number" {
		t.Errorf("got %s", s)
	}
}
