package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"numtype/internal/version"
)

// errReported marks failures whose details were already printed; main only
// sets the exit status.
var errReported = errors.New("failures reported")

var rootCmd = &cobra.Command{
	Use:   "numtype",
	Short: "Numeric promotion and assignability resolver",
	Long: `numtype resolves the result type of binary arithmetic over primitive,
boxed and arbitrary-precision numeric types, and decides assignability under
the numeric and textual coercion rules.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: startRun,
}

// runCleanup is installed by startRun and called once the command ends.
var runCleanup = func() {}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(boxCmd)
	rootCmd.AddCommand(unboxCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to numtype.toml (default: search upward from the working directory)")
	flags.String("scope", "", "resolution scope for queries without @scope")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept by the trace ring buffer")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")
}

func main() {
	err := rootCmd.Execute()
	runCleanup()
	if err == nil {
		return
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}

func startRun(cmd *cobra.Command, _ []string) error {
	stopProfiles, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	stopTrace, err := setupTracing(cmd)
	if err != nil {
		stopProfiles()
		return err
	}
	runCleanup = func() {
		stopTrace()
		stopProfiles()
	}
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
