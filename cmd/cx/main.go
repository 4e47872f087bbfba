// Command cx is the Cx language CLI: run scripts, evaluate one-off
// expressions, or drive an interactive REPL over the expression evaluator
// core (SPEC_FULL.md §4.10).
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-cx/cmd/cx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
