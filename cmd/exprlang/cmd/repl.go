package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/miningape/exprlang/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-type-check-evaluate-print loop",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		repl.New("exprlang> ", os.Stdout).Start(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
