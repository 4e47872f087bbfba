package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/cwbudde/go-cx/internal/statement"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Cx REPL",
	Long: `Start a line-buffered read-eval-print loop over the expression
evaluator core: each line is its own program; its leading declarations are
scanned, its ';'-separated expressions run in order, and the value of the
last one is printed immediately. A line holding only declarations has no
value and reports an error. Type '.exit' or press Ctrl+D to quit.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// replBanner mirrors the one-line startup banner convention of the teacher's
// own REPL, scaled down to Cx's much smaller feature set.
const replBanner = "cx REPL — type an expression, '.exit' or Ctrl+D to quit"

func runRepl(_ *cobra.Command, _ []string) error {
	rl, err := readline.New("cx> ")
	if err != nil {
		return fmt.Errorf("failed to start repl: %w", err)
	}
	defer rl.Close()

	errColor := color.New(color.FgRed)
	errColor.EnableColor()
	if !colorEnabled() {
		errColor.DisableColor()
	}

	fmt.Fprintln(rl.Stdout(), replBanner)

	// A fresh history line becomes the next statement.New source; Cx's
	// cursor-driven executor has no notion of "resume the previous program",
	// so each line is its own standalone program, consistent with
	// statement.Eval's contract (SPEC_FULL.md §4.10).
	for {
		line, readErr := rl.Readline()
		if readErr != nil {
			if readErr == readline.ErrInterrupt {
				continue
			}
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" || line == ".quit" {
			break
		}

		rl.SaveHistory(line)
		replEvalLine(rl.Stdout(), errColor, line)
	}
	return nil
}

func replEvalLine(out io.Writer, errColor *color.Color, line string) {
	source := line
	if !strings.HasSuffix(strings.TrimSpace(source), ";") {
		source += ";"
	}

	typeName, value, err := statement.Eval(source, out)
	if err != nil {
		errColor.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "%s :: %s\n", value, typeName)
}
