package errors

import (
	"strings"
	"testing"

	"github.com/miningape/exprlang/internal/lexer"
)

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	src := "let x: number = true;"
	err := NewTypeError(lexer.Position{Line: 1, Column: 17}, "boolean does not sub-type number", src, "")

	out := err.Format(false)
	if !strings.Contains(out, "TypeError") {
		t.Errorf("expected kind in output, got %q", out)
	}
	if !strings.Contains(out, src) {
		t.Errorf("expected source line in output, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected caret in output, got %q", out)
	}
}

func TestFormatErrorsSingle(t *testing.T) {
	err := NewNameError(lexer.Position{Line: 1, Column: 1}, "x is immutable", "", "")
	out := FormatErrors([]*CompilerError{err}, false)
	if out != err.Format(false) {
		t.Errorf("single-error batch should format identically to Format")
	}
}

func TestFormatErrorsMultiple(t *testing.T) {
	e1 := NewParseError(lexer.Position{Line: 1, Column: 1}, "unexpected token", "", "f.expr")
	e2 := NewTypeError(lexer.Position{Line: 2, Column: 1}, "type mismatch", "", "f.expr")
	out := FormatErrors([]*CompilerError{e1, e2}, false)
	if !strings.Contains(out, "2 error(s)") {
		t.Errorf("expected error count in batch output, got %q", out)
	}
}
