package parser

import (
	"testing"

	"github.com/miningape/exprlang/internal/ast"
)

func parseOne(t *testing.T, src string) ast.Expression {
	t.Helper()
	p, err := New(src, "")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	program, perr := p.ParseProgram()
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	if len(program.Expressions) != 1 {
		t.Fatalf("expected 1 top-level expression, got %d", len(program.Expressions))
	}
	return program.Expressions[0]
}

func TestParseDeclareWithAnnotation(t *testing.T) {
	expr := parseOne(t, `let x: mutable number = 1;`)
	decl, ok := expr.(*ast.Declare)
	if !ok {
		t.Fatalf("got %T", expr)
	}
	if decl.Key != "x" || decl.Annotation == nil || !decl.Annotation.Mutable {
		t.Fatalf("got %+v", decl)
	}
	base, ok := decl.Annotation.Type.(*ast.BaseTypeExpr)
	if !ok || base.Kind != ast.TypeNumber {
		t.Fatalf("got %+v", decl.Annotation.Type)
	}
}

func TestParseDeclareWithoutAnnotation(t *testing.T) {
	expr := parseOne(t, `let x = 1;`)
	decl, ok := expr.(*ast.Declare)
	if !ok || decl.Annotation != nil {
		t.Fatalf("got %+v", expr)
	}
}

func TestParseIfElse(t *testing.T) {
	expr := parseOne(t, `if true 1 else 2;`)
	ifExpr, ok := expr.(*ast.If)
	if !ok || ifExpr.Else == nil {
		t.Fatalf("got %+v", expr)
	}
}

func TestParseAssignmentBacktrack(t *testing.T) {
	expr := parseOne(t, `x = 1 + 2;`)
	assign, ok := expr.(*ast.Assign)
	if !ok || assign.Key != "x" {
		t.Fatalf("got %T", expr)
	}
	if _, ok := assign.Value.(*ast.Binary); !ok {
		t.Fatalf("expected binary rhs, got %T", assign.Value)
	}
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as Binary(+, 1, Binary(*, 2, 3))
	expr := parseOne(t, `1 + 2 * 3;`)
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != ast.BinaryAdd {
		t.Fatalf("got %+v", expr)
	}
	if _, ok := bin.Left.(*ast.Literal); !ok {
		t.Fatalf("expected literal left, got %T", bin.Left)
	}
	rhs, ok := bin.Right.(*ast.Binary)
	if !ok || rhs.Op != ast.BinaryMul {
		t.Fatalf("expected multiplicative rhs, got %+v", bin.Right)
	}
}

func TestParseGroupedExpression(t *testing.T) {
	expr := parseOne(t, `(1 + 2) * 3;`)
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != ast.BinaryMul {
		t.Fatalf("got %+v", expr)
	}
	if _, ok := bin.Left.(*ast.Binary); !ok {
		t.Fatalf("expected grouped addition on the left, got %T", bin.Left)
	}
}

func TestParseSoleVariableReference(t *testing.T) {
	expr := parseOne(t, `(x);`)
	if _, ok := expr.(*ast.Variable); !ok {
		t.Fatalf("got %T", expr)
	}
}

func TestParseFunctionLiteral(t *testing.T) {
	expr := parseOne(t, `(x: number): number => x * 2;`)
	fn, ok := expr.(*ast.Function)
	if !ok {
		t.Fatalf("got %T", expr)
	}
	if len(fn.Parameters) != 1 || fn.Parameters[0].Name != "x" {
		t.Fatalf("got %+v", fn.Parameters)
	}
	if fn.ReturnType == nil {
		t.Fatalf("expected explicit return type")
	}
}

func TestParseZeroArgFunctionLiteral(t *testing.T) {
	expr := parseOne(t, `(): number => 5;`)
	fn, ok := expr.(*ast.Function)
	if !ok || len(fn.Parameters) != 0 {
		t.Fatalf("got %+v", expr)
	}
}

func TestParseFunctionWithInferredReturn(t *testing.T) {
	expr := parseOne(t, `(x: number) => x;`)
	fn, ok := expr.(*ast.Function)
	if !ok || fn.ReturnType != nil {
		t.Fatalf("got %+v", expr)
	}
}

func TestParseCallChain(t *testing.T) {
	expr := parseOne(t, `f(1)(2);`)
	outer, ok := expr.(*ast.Call)
	if !ok {
		t.Fatalf("got %T", expr)
	}
	inner, ok := outer.Target.(*ast.Call)
	if !ok {
		t.Fatalf("expected chained call target, got %T", outer.Target)
	}
	if _, ok := inner.Target.(*ast.Variable); !ok {
		t.Fatalf("expected variable at base of call chain, got %T", inner.Target)
	}
}

func TestParseListLiteral(t *testing.T) {
	expr := parseOne(t, `[1, 2, 3];`)
	list, ok := expr.(*ast.ListLiteral)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("got %+v", expr)
	}
}

func TestParseEmptyListLiteral(t *testing.T) {
	expr := parseOne(t, `[];`)
	list, ok := expr.(*ast.ListLiteral)
	if !ok || len(list.Elements) != 0 {
		t.Fatalf("got %+v", expr)
	}
}

func TestParseReturnWithValue(t *testing.T) {
	expr := parseOne(t, `return 1;`)
	ret, ok := expr.(*ast.Return)
	if !ok || ret.Value == nil {
		t.Fatalf("got %+v", expr)
	}
}

func TestParseBareReturn(t *testing.T) {
	expr := parseOne(t, `return;`)
	ret, ok := expr.(*ast.Return)
	if !ok || ret.Value != nil {
		t.Fatalf("got %+v", expr)
	}
}

func TestParseBody(t *testing.T) {
	expr := parseOne(t, `{ let x = 1; x; };`)
	body, ok := expr.(*ast.Body)
	if !ok || len(body.Children) != 2 {
		t.Fatalf("got %+v", expr)
	}
}

func TestParseUnionTypeAnnotation(t *testing.T) {
	expr := parseOne(t, `let x: number | string = 1;`)
	decl := expr.(*ast.Declare)
	if _, ok := decl.Annotation.Type.(*ast.OrTypeExpr); !ok {
		t.Fatalf("got %+v", decl.Annotation.Type)
	}
}

func TestParseFunctionTypeAnnotation(t *testing.T) {
	expr := parseOne(t, `let f: (number, number) => number = g;`)
	decl := expr.(*ast.Declare)
	fnType, ok := decl.Annotation.Type.(*ast.FunctionTypeExpr)
	if !ok || len(fnType.Params) != 2 {
		t.Fatalf("got %+v", decl.Annotation.Type)
	}
}

func TestParseErrorOnMismatchedBrace(t *testing.T) {
	p, err := New(`{ 1;`, "")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if _, perr := p.ParseProgram(); perr == nil {
		t.Fatal("expected parse error for unterminated body")
	}
}

func TestParseUnaryPrecedence(t *testing.T) {
	expr := parseOne(t, `!true & false;`)
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != ast.BinaryAnd {
		t.Fatalf("got %+v", expr)
	}
	if _, ok := bin.Left.(*ast.Unary); !ok {
		t.Fatalf("expected unary on the left, got %T", bin.Left)
	}
}
