// Command exprlang is the driver for the expression language implemented
// under internal/: a small typed, dynamically-evaluated expression language
// with a scan → parse → type-check → evaluate pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/miningape/exprlang/cmd/exprlang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
