package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// switchMode is the value of an auto|on|off flag such as --ui or --color.
type switchMode uint8

const (
	switchAuto switchMode = iota
	switchOn
	switchOff
)

func (m switchMode) String() string {
	switch m {
	case switchOn:
		return "on"
	case switchOff:
		return "off"
	default:
		return "auto"
	}
}

// parseSwitch accepts auto|on|off; always and never are aliases kept for
// --color.
func parseSwitch(flag, value string) (switchMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on", "always":
		return switchOn, nil
	case "off", "never":
		return switchOff, nil
	}
	return switchAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled settles an auto switch with detect.
func (m switchMode) enabled(detect func() bool) bool {
	switch m {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	return detect()
}

// interactive reports whether the progress UI can draw: it renders on
// stderr while the report goes to stdout, so both must be terminals.
func interactive() bool {
	return isTerminal(os.Stdout) && isTerminal(os.Stderr)
}

// colorTerminal reports whether w is a terminal that accepts color.
func colorTerminal(w io.Writer) func() bool {
	return func() bool {
		f, ok := w.(*os.File)
		return ok && isTerminal(f) && os.Getenv("NO_COLOR") == ""
	}
}
