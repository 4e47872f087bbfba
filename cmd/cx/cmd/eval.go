package cmd

import (
	"fmt"
	"io"

	"github.com/cwbudde/go-cx/internal/statement"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a single expression and print its value and type",
	Long: `Evaluate a single Cx expression with -e and print the result's static
type alongside its value, useful for exercising the evaluator core directly
without a full program (mirrors the teacher's 'run --eval').`,
	RunE: runEval,
}

var evalExprFlag string

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVarP(&evalExprFlag, "expr", "e", "", "expression to evaluate")
	_ = evalCmd.MarkFlagRequired("expr")
}

func runEval(_ *cobra.Command, _ []string) error {
	return evalAndPrint(evalExprFlag, io.Discard)
}

func evalAndPrint(source string, printOut io.Writer) error {
	typeName, value, err := statement.Eval(source, printOut)
	if err != nil {
		reportRuntimeError("<eval>", err, nil)
		return fmt.Errorf("evaluation failed")
	}
	fmt.Printf("%s :: %s\n", value, typeName)
	return nil
}
