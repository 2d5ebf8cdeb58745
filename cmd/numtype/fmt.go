package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"numtype/internal/driver"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Rewrite query files in canonical layout",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "report files that are not formatted without rewriting them")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().Bool("stdout", false, "print formatted files to stdout instead of rewriting them")
}

type fmtFileReport struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Error   string `json:"error,omitempty"`
}

func runFmt(cmd *cobra.Command, args []string) error {
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	if toStdout && (check || outputFormat != "text") {
		return fmt.Errorf("fmt: --stdout cannot be combined with --check or --format")
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("fmt: unsupported format %q (must be text or json)", outputFormat)
	}

	results, err := driver.FormatPaths(cmd.Context(), args, driver.FormatOptions{Check: check, Stdout: toStdout})
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	var failed, changed bool
	reports := make([]fmtFileReport, 0, len(results))
	for _, r := range results {
		rep := fmtFileReport{Path: r.Path, Changed: r.Changed}
		if r.Err != nil {
			failed = true
			rep.Error = r.Err.Error()
		}
		changed = changed || r.Changed
		reports = append(reports, rep)

		if outputFormat != "text" {
			continue
		}
		switch {
		case r.Err != nil:
			fmt.Fprintf(errOut, "error: %v\n", r.Err)
		case toStdout:
			_, _ = out.Write(r.Output)
		case r.Changed && check:
			fmt.Fprintf(out, "would reformat %s\n", r.Path)
		case r.Changed:
			fmt.Fprintf(out, "formatted %s\n", r.Path)
		case !quietFlag(cmd):
			fmt.Fprintf(out, "unchanged %s\n", r.Path)
		}
	}
	if outputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	}
	if failed || (check && changed) {
		return errReported
	}
	return nil
}
