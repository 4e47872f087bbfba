package cmd

import (
	"fmt"
	"os"

	cxerrors "github.com/cwbudde/go-cx/internal/errors"
	"github.com/cwbudde/go-cx/internal/runtimeerr"
	"github.com/cwbudde/go-cx/internal/runtimestack"
	"github.com/cwbudde/go-cx/internal/statement"
	"github.com/cwbudde/go-cx/internal/symtab"
	"github.com/cwbudde/go-cx/internal/typesys"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Cx program",
	Long: `Execute a Cx program from a file or inline expression.

Examples:
  cx run script.cx
  cx run -e "print(1 + 2 * 3);"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "run inline source instead of reading from a file")
}

func runScript(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	ex, err := statement.New(source, os.Stdout)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	if traceEnabled {
		tracer := newTracer()
		ex.Trace = tracer
		ex.Eval.OnFetch = func(sym *symtab.SymbolNode, _ *runtimestack.Cell, typ *typesys.Descriptor) {
			tracer("fetch %s: %s", sym.Name, typ.TypeName)
		}
	}

	if runErr := ex.Run(); runErr != nil {
		reportRuntimeError(filename, runErr, ex.CallStack())
		return fmt.Errorf("execution failed")
	}
	return nil
}

func readSource(inlineExpr string, args []string) (source, filename string, err error) {
	if inlineExpr != "" {
		return inlineExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], readErr)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline source")
}

// reportRuntimeError prints a fatal runtime error (spec.md §7's "reported,
// process exits" contract) plus any live user-function call stack, colored
// when stderr is a terminal.
func reportRuntimeError(filename string, err error, stack cxerrors.StackTrace) {
	out := stderrWriter()
	bold := color.New(color.FgRed, color.Bold)
	bold.EnableColor()
	if !colorEnabled() {
		bold.DisableColor()
	}

	if filename != "" && filename != "<eval>" {
		fmt.Fprintf(out, "%s: ", filename)
	}
	fmt.Fprintln(out, bold.Sprint(formatRuntimeError(err)))

	if trace := stack.String(); trace != "" {
		fmt.Fprintln(out, "call stack:")
		fmt.Fprintln(out, trace)
	}
}

func formatRuntimeError(err error) string {
	if rerr, ok := err.(*runtimeerr.RuntimeError); ok {
		return rerr.Error()
	}
	return err.Error()
}
