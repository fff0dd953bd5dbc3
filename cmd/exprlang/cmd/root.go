package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/miningape/exprlang/internal/repl"
)

// Version is set by build flags; it defaults to a development marker.
var Version = "0.1.0-dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "exprlang",
	Short: "A small typed expression language",
	Long: `exprlang is a tree-walking interpreter for a small expression language
with structural sub-typing, type inference through function bodies, and a
single generic environment abstraction shared by its type checker and its
evaluator. Run with no subcommand to drop into the interactive REPL.`,
	Version: Version,
	Args:    cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		repl.New("exprlang> ", os.Stdout).Start(os.Stdout)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("exprlang version %s\n", Version))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
