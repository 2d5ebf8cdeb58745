package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"numtype/internal/config"
	"numtype/internal/driver"
)

// loadConfig reads --config, or the nearest numtype.toml above the working
// directory, or falls back to the built-in tables.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	found, ok, err := config.Find(".")
	if err != nil {
		return nil, err
	}
	if !ok {
		return config.Default(), nil
	}
	return config.Load(found)
}

func loadSession(cmd *cobra.Command) (*driver.Session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	setup, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	scope, err := cmd.Root().PersistentFlags().GetString("scope")
	if err != nil {
		return nil, fmt.Errorf("failed to get scope flag: %w", err)
	}
	return driver.NewSession(setup, strings.TrimSpace(scope))
}

// colorEnabled resolves --color for output written to w.
func colorEnabled(cmd *cobra.Command, w io.Writer) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := parseSwitch("color", value)
	if err != nil {
		return false, err
	}
	return mode.enabled(colorTerminal(w)), nil
}

func quietFlag(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}
