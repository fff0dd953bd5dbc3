package types

import "testing"

func TestAnyIsTop(t *testing.T) {
	if !IsSubTypeOf(TNumber, TAny) {
		t.Error("Number should sub-type Any")
	}
	if IsSubTypeOf(TAny, TNumber) {
		t.Error("Any should not sub-type Number")
	}
}

func TestReflexivity(t *testing.T) {
	cases := []Type{TNumber, TString, TBoolean, TNull, &ListType{Element: TNumber}}
	for _, ty := range cases {
		if !IsSubTypeOf(ty, ty) {
			t.Errorf("%s should sub-type itself", ty.String())
		}
	}
}

func TestOrAbsorption(t *testing.T) {
	or := NewOr(TNumber, TString)
	if !IsSubTypeOf(TNumber, or) {
		t.Error("Number should sub-type Or(Number, String)")
	}
	if !IsSubTypeOf(TString, or) {
		t.Error("String should sub-type Or(Number, String)")
	}
}

func TestOrSelfIsIdentity(t *testing.T) {
	or := NewOr(TNumber, TNumber)
	if or != TNumber {
		t.Errorf("Or(Number, Number) should collapse to Number, got %s", or.String())
	}
}

func TestListCovariance(t *testing.T) {
	listAny := &ListType{Element: TAny}
	listNumber := &ListType{Element: TNumber}
	if !IsSubTypeOf(listNumber, listAny) {
		t.Error("List(Number) should sub-type List(Any)")
	}
	if IsSubTypeOf(listAny, listNumber) {
		t.Error("List(Any) should not sub-type List(Number)")
	}
}

func TestFunctionLiteralArgsAndReturnSubType(t *testing.T) {
	narrow := &FunctionType{Shape: ShapeLiteral, ArgTypes: []Type{TNumber}, Return: TNumber}
	wide := &FunctionType{Shape: ShapeLiteral, ArgTypes: []Type{TAny}, Return: TAny}

	// Argument positions sub-type per-position (not contravariantly): a
	// (number)=>number value satisfies a (any)=>any contract, the way
	// map's callback parameter accepts a narrower-typed function literal.
	if !IsSubTypeOf(narrow, wide) {
		t.Error("(number)=>number should sub-type (any)=>any")
	}
	if IsSubTypeOf(wide, narrow) {
		t.Error("(any)=>any should not sub-type (number)=>number")
	}

	same := &FunctionType{Shape: ShapeLiteral, ArgTypes: []Type{TNumber}, Return: TNumber}
	if !IsSubTypeOf(narrow, same) {
		t.Error("identical literal function types should be mutual sub-types")
	}
}

func TestApplyLiteralArityMismatch(t *testing.T) {
	f := &FunctionType{Shape: ShapeLiteral, ArgTypes: []Type{TNumber}, Return: TNumber}
	if _, err := Apply(f, []Type{}); err == nil {
		t.Error("expected arity error")
	}
}

func TestApplyArrayArgs(t *testing.T) {
	printType := &FunctionType{Shape: ShapeArrayArgs, Element: TAny, Return: TString}
	ret, err := Apply(printType, []Type{TNumber, TString, TBoolean})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ret != TString {
		t.Errorf("got %s, want string", ret.String())
	}
}

func TestGetReturnType(t *testing.T) {
	if _, ok := GetReturnType(TNumber); ok {
		t.Error("plain Number should carry no return type")
	}

	ret := &ReturnType{Inner: TNumber}
	got, ok := GetReturnType(ret)
	if !ok || got != TNumber {
		t.Errorf("got %v, %v", got, ok)
	}

	or := &OrType{Left: &ReturnType{Inner: TNumber}, Right: TString}
	got, ok = GetReturnType(or)
	if !ok {
		t.Fatal("expected a return type to be found inside the Or")
	}
	if got != TNumber {
		t.Errorf("got %s, want number (tail Or branch carries no Return)", got.String())
	}
}

type stubResolver struct {
	fn  *FunctionType
	err error
}

func (s *stubResolver) ResolveType() (*FunctionType, error) { return s.fn, s.err }

func TestWithBodyResolvesBeforeComparison(t *testing.T) {
	resolved := &FunctionType{Shape: ShapeLiteral, ArgTypes: []Type{TNumber}, Return: TNumber}
	withBody := &FunctionType{Shape: ShapeWithBody, Handle: &stubResolver{fn: resolved}}

	if !IsSubTypeOf(withBody, resolved) {
		t.Error("a WithBody function should resolve and compare equal to its resolved literal type")
	}
}
