package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	traceEnabled bool
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "cx",
	Short: "Cx expression evaluator and interpreter",
	Long: `cx is a tree-walking interpreter for Cx, a small C-like expression
language built around a single token-cursor-driven evaluation core: four
mutually recursive evaluators (expression, simple-expression, term, factor),
an l-value navigator for array and record addressing, and a runtime stack of
tagged-union value cells.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVar(&traceEnabled, "trace", false, "log internal evaluation trace (array-arena growth, data fetches) to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
}

// newTracer builds the Trace func wired into statement.Executor when --trace
// is set: structured log/slog output (the stdlib is the grounded choice
// here, DESIGN.md) tagged with a per-run correlation ID from google/uuid so
// interleaved runs (e.g. a script that shells out to itself) stay
// distinguishable in a shared log stream.
func newTracer() func(format string, args ...any) {
	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(stderrWriter(), nil)).With("run_id", runID)
	return func(format string, args ...any) {
		logger.Info(fmt.Sprintf(format, args...))
	}
}

// colorEnabled reports whether diagnostics should be colorized: respects
// --no-color, and otherwise follows whether stderr is a real terminal
// (mattn/go-isatty), the same check akashmaji946-go-mix's REPL uses before
// wrapping os.Stdout in mattn/go-colorable.
func colorEnabled() bool {
	if noColor {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// stderrWriter wraps os.Stderr so ANSI sequences render correctly on
// Windows terminals that don't natively interpret them (mattn/go-colorable),
// mirroring how akashmaji946-go-mix wraps its REPL's output stream.
func stderrWriter() io.Writer {
	return colorable.NewColorableStderr()
}
