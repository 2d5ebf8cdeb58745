package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"numtype/internal/version"
)

// versionPayload is the --format json document. Optional fields are filled
// by --hash, --date and --full.
type versionPayload struct {
	Tool        string `json:"tool"`
	Version     string `json:"version"`
	GitCommit   string `json:"git_commit,omitempty"`
	BuildDate   string `json:"build_date,omitempty"`
	GoVersion   string `json:"go_version,omitempty"`
	Config      string `json:"config,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "also report the toolchain and the active configuration")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show numtype build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	full, _ := cmd.Flags().GetBool("full")
	withHash, _ := cmd.Flags().GetBool("hash")
	withDate, _ := cmd.Flags().GetBool("date")

	payload := versionPayload{Tool: "numtype", Version: strings.TrimSpace(version.Version)}
	if payload.Version == "" {
		payload.Version = "dev"
	}
	if withHash || full {
		payload.GitCommit = orUnknown(version.GitCommit)
	}
	if withDate || full {
		payload.BuildDate = orUnknown(version.BuildDate)
	}
	if full {
		payload.GoVersion = runtime.Version()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		payload.Config = "defaults"
		if cfg.Path != "" {
			payload.Config = cfg.Path
		}
		payload.Fingerprint = fmt.Sprintf("%016x", cfg.Hash)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	useColor, err := colorEnabled(cmd, out)
	if err != nil {
		return err
	}
	writeVersion(out, payload, useColor)
	return nil
}

func writeVersion(out io.Writer, p versionPayload, useColor bool) {
	shown := p.Version
	if useColor {
		prev := color.NoColor
		color.NoColor = false
		shown = version.Colored()
		color.NoColor = prev
	}
	fmt.Fprintf(out, "%s %s\n", p.Tool, shown)
	rows := [][2]string{
		{"commit", p.GitCommit},
		{"built", p.BuildDate},
		{"go", p.GoVersion},
		{"config", p.Config},
		{"fingerprint", p.Fingerprint},
	}
	for _, row := range rows {
		if row[1] != "" {
			fmt.Fprintf(out, "  %-12s %s\n", row[0]+":", row[1])
		}
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
