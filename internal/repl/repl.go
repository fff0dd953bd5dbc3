// Package repl implements the interactive read-type-check-evaluate-print
// loop described in SPEC_FULL.md's CLI driver section: one line at a time,
// against a persistent checker/evaluator environment pair so a `let` on one
// line is visible on the next.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/miningape/exprlang/internal/builtins"
	"github.com/miningape/exprlang/internal/checker"
	"github.com/miningape/exprlang/internal/eval"
	"github.com/miningape/exprlang/internal/interp"
	"github.com/miningape/exprlang/internal/parser"
	"github.com/miningape/exprlang/internal/types"
)

var (
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	cyanColor   = color.New(color.FgCyan)
)

const exitCommand = ".exit"

// Repl holds one persistent session: a checker's and an evaluator's root
// environments outlive any single line, while the Checker/Evaluator values
// themselves are rebuilt per line so each gets that line's own source text
// for error rendering.
type Repl struct {
	Prompt   string
	typeEnv  *interp.Environment[types.Type]
	valueEnv *interp.Environment[eval.Value]
}

// New builds a session with builtins installed in both environments.
func New(prompt string, stdout io.Writer) *Repl {
	c := checker.New("", "<repl>")
	e := eval.New("", "<repl>")
	builtins.Install(c, e, stdout)
	return &Repl{Prompt: prompt, typeEnv: c.Environment(), valueEnv: e.Environment()}
}

// Start runs the loop until EOF (Ctrl+D) or ".exit".
func (r *Repl) Start(writer io.Writer) {
	cyanColor.Fprintln(writer, "exprlang REPL — type '.exit' or Ctrl+D to quit")

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("\n"))
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == exitCommand {
			return
		}
		rl.SaveHistory(line)

		r.evalLine(writer, line)
	}
}

func (r *Repl) evalLine(writer io.Writer, line string) {
	p, lexErr := parser.New(line, "<repl>")
	if lexErr != nil {
		redColor.Fprintln(writer, lexErr.Format(true))
		return
	}

	program, parseErr := p.ParseProgram()
	if parseErr != nil {
		redColor.Fprintln(writer, parseErr.Format(true))
		return
	}

	c := checker.New(line, "<repl>")
	c.UseEnvironment(r.typeEnv)
	if _, typeErr := c.CheckProgram(program); typeErr != nil {
		redColor.Fprintln(writer, typeErr.Format(true))
		return
	}

	e := eval.New(line, "<repl>")
	e.UseEnvironment(r.valueEnv)
	result, evalErr := e.EvalProgram(program)
	if evalErr != nil {
		redColor.Fprintln(writer, evalErr.Format(true))
		return
	}

	yellowColor.Fprintln(writer, eval.DebugStringify(result))
}
