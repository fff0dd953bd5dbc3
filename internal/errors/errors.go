// Package errors formats exprlang diagnostics with source context and a
// caret pointing at the offending column, the way internal/errors does for
// the teacher compiler. It also names the taxonomy of spec.md §7.
package errors

import (
	"fmt"
	"strings"

	"github.com/miningape/exprlang/internal/lexer"
)

// Kind is one of the five error phases named in spec.md §7.
type Kind int

const (
	LexErrorKind Kind = iota
	ParseErrorKind
	TypeErrorKind
	NameErrorKind
	RuntimeErrorKind
)

func (k Kind) String() string {
	switch k {
	case LexErrorKind:
		return "LexError"
	case ParseErrorKind:
		return "ParseError"
	case TypeErrorKind:
		return "TypeError"
	case NameErrorKind:
		return "NameError"
	case RuntimeErrorKind:
		return "RuntimeError"
	default:
		return "Error"
	}
}

// CompilerError is a single diagnostic with enough context to render a
// source-line-plus-caret view.
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// New creates a CompilerError of the given kind.
func New(kind Kind, pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message, Source: source, File: file}
}

func NewLexError(pos lexer.Position, message, source, file string) *CompilerError {
	return New(LexErrorKind, pos, message, source, file)
}

func NewParseError(pos lexer.Position, message, source, file string) *CompilerError {
	return New(ParseErrorKind, pos, message, source, file)
}

func NewTypeError(pos lexer.Position, message, source, file string) *CompilerError {
	return New(TypeErrorKind, pos, message, source, file)
}

func NewNameError(pos lexer.Position, message, source, file string) *CompilerError {
	return New(NameErrorKind, pos, message, source, file)
}

func NewRuntimeError(pos lexer.Position, message, source, file string) *CompilerError {
	return New(RuntimeErrorKind, pos, message, source, file)
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the diagnostic with a source-line-plus-caret view.
// When color is true, ANSI codes highlight the caret and the message.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column))
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+max(e.Pos.Column-1, 0)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FormatErrors formats a batch of diagnostics, numbering them when there is
// more than one.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("failed with %d error(s):\n\n", len(errs)))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("[%d of %d]\n", i+1, len(errs)))
		sb.WriteString(e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
