package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/miningape/exprlang/internal/builtins"
	"github.com/miningape/exprlang/internal/checker"
	"github.com/miningape/exprlang/internal/eval"
	"github.com/miningape/exprlang/internal/parser"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an exprlang file or expression",
	Long: `Scan, parse, type-check and evaluate an exprlang program.

Examples:
  exprlang run program.ex
  exprlang run -e "let x = 1 + 2; x;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
}

func readProgramSource(args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], readErr)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readProgramSource(args)
	if err != nil {
		return err
	}

	p, lexErr := parser.New(input, filename)
	if lexErr != nil {
		fmt.Fprintln(os.Stderr, lexErr.Format(true))
		return fmt.Errorf("lexing failed")
	}

	program, parseErr := p.ParseProgram()
	if parseErr != nil {
		fmt.Fprintln(os.Stderr, parseErr.Format(true))
		return fmt.Errorf("parsing failed")
	}

	c := checker.New(input, filename)
	e := eval.New(input, filename)
	builtins.Install(c, e, os.Stdout)

	if _, typeErr := c.CheckProgram(program); typeErr != nil {
		fmt.Fprintln(os.Stderr, typeErr.Format(true))
		return fmt.Errorf("type checking failed")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[running %s]\n", filename)
	}

	result, evalErr := e.EvalProgram(program)
	if evalErr != nil {
		fmt.Fprintln(os.Stderr, evalErr.Format(true))
		return fmt.Errorf("evaluation failed")
	}

	fmt.Println(eval.Stringify(result))
	return nil
}
