package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"numtype/internal/driver"
	"numtype/internal/observ"
	"numtype/internal/query"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.ntq|directory>...",
	Short: "Evaluate query files and verify their expectations",
	Long: `Evaluate every query in the given .ntq files (directories are searched
recursively) and report results, failed expectations and diagnostics.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("cache", false, "reuse results stored under $XDG_CACHE_HOME/numtype")
	checkCmd.Flags().Bool("clear-cache", false, "drop every cached result before checking")
	checkCmd.Flags().Int("max-diagnostics", driver.DefaultMaxDiagnostics, "maximum diagnostics kept per file")
}

type checkOptions struct {
	format   driver.Format
	ui       switchMode
	cache    bool
	clear    bool
	timings  bool
	quiet    bool
	useColor bool
	run      driver.Options
}

func readCheckOptions(cmd *cobra.Command) (checkOptions, error) {
	var opts checkOptions
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if opts.format, err = driver.ParseFormat(formatStr); err != nil {
		return opts, err
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = parseSwitch("ui", uiStr); err != nil {
		return opts, err
	}
	if opts.cache, err = cmd.Flags().GetBool("cache"); err != nil {
		return opts, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if opts.clear, err = cmd.Flags().GetBool("clear-cache"); err != nil {
		return opts, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	if opts.run.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.run.MaxDiagnostics, err = cmd.Flags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts.quiet = quietFlag(cmd)
	if opts.useColor, err = colorEnabled(cmd, cmd.OutOrStdout()); err != nil {
		return opts, err
	}
	return opts, nil
}

// runCheck evaluates the query files named by args. It returns errReported
// after printing when any file failed to load or produced error diagnostics.
func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := readCheckOptions(cmd)
	if err != nil {
		return err
	}
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}
	files, err := driver.ListQueryFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found in %s", query.Ext, strings.Join(args, ", "))
	}

	if opts.timings {
		opts.run.Timer = observ.NewTimer()
	}
	if opts.cache || opts.clear {
		cache, err := driver.OpenDiskCache("numtype")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if opts.clear {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		if opts.cache {
			opts.run.Cache = cache
		}
	}

	ctx := cmd.Context()
	var res *driver.CheckResult
	if opts.format == driver.FormatPretty && !opts.quiet && opts.ui.enabled(interactive) {
		res, err = runCheckWithUI(ctx, "numtype check", files, s, opts.run)
	} else {
		res, err = s.Check(ctx, files, opts.run)
	}
	if err != nil {
		dumpTrace(cmd, cmd.ErrOrStderr())
		return err
	}

	if err := writeCheckResult(cmd, res, opts); err != nil {
		return err
	}
	if res.HasErrors() {
		dumpTraceOnErrors(cmd)
		return errReported
	}
	return nil
}

func writeCheckResult(cmd *cobra.Command, res *driver.CheckResult, opts checkOptions) error {
	out := cmd.OutOrStdout()
	var timings *observ.Report
	if opts.run.Timer != nil {
		report := opts.run.Timer.Report()
		timings = &report
	}
	switch opts.format {
	case driver.FormatJSON:
		return driver.WriteJSON(out, driver.BuildReport(res, timings))
	case driver.FormatMsgpack:
		return driver.WriteMsgpack(out, driver.BuildReport(res, timings))
	default:
		if err := driver.WritePretty(out, res, driver.PrettyOptions{Color: opts.useColor, Quiet: opts.quiet}); err != nil {
			return err
		}
		if timings != nil {
			fmt.Fprint(cmd.ErrOrStderr(), opts.run.Timer.Summary())
		}
		return nil
	}
}

// dumpTraceOnErrors dumps the trace ring when tracing was kept in memory.
func dumpTraceOnErrors(cmd *cobra.Command) {
	mode, err := cmd.Root().PersistentFlags().GetString("trace-mode")
	if err != nil || !strings.EqualFold(mode, "ring") {
		return
	}
	dumpTrace(cmd, cmd.ErrOrStderr())
}
