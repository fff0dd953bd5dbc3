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

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check an exprlang file or expression without evaluating it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "type-check inline code instead of reading from file")
}

func runCheck(_ *cobra.Command, args []string) error {
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
	// check needs a matching evaluator only so builtins.Install can seed
	// both environments from one call; its evaluator is never run.
	e := eval.New(input, filename)
	builtins.Install(c, e, os.Stdout)

	if _, typeErr := c.CheckProgram(program); typeErr != nil {
		fmt.Fprintln(os.Stderr, typeErr.Format(true))
		return fmt.Errorf("type checking failed")
	}

	fmt.Println("OK")
	return nil
}
