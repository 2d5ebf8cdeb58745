package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"numtype/internal/config"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the promotion ladder, result fold, box table and scopes in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		setup, err := cfg.Build()
		if err != nil {
			return err
		}
		useColor, err := colorEnabled(cmd, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		renderTables(cmd.OutOrStdout(), setup, useColor)
		return nil
	},
}

type tableStyles struct {
	heading, dim lipgloss.Style
}

func renderTables(out io.Writer, setup *config.Setup, useColor bool) {
	st := tableStyles{heading: lipgloss.NewStyle(), dim: lipgloss.NewStyle()}
	if useColor {
		st.heading = st.heading.Bold(true).Foreground(lipgloss.Color("6"))
		st.dim = st.dim.Foreground(lipgloss.Color("8"))
	}

	ladder := make([][2]string, 0, setup.Ranks.Len())
	for _, e := range setup.Ranks.Entries() {
		ladder = append(ladder, [2]string{e.Name, strconv.Itoa(int(e.Rank))})
	}
	st.section(out, "promotion ladder", [2]string{"class", "rank"}, ladder)

	fold := make([][2]string, 0, len(setup.Ranks.Ranks()))
	for _, r := range setup.Ranks.Ranks() {
		name, _ := setup.Ranks.ResultNameOf(r)
		fold = append(fold, [2]string{strconv.Itoa(int(r)), name})
	}
	st.section(out, "result fold", [2]string{"rank", "result"}, fold)

	boxes := make([][2]string, 0, 8)
	for _, name := range setup.Boxes.Names() {
		kind, _ := setup.Boxes.Unboxed(name)
		boxes = append(boxes, [2]string{kind.String(), name})
	}
	st.section(out, "box table", [2]string{"primitive", "wrapper"}, boxes)

	scopes := make([][2]string, 0, 2)
	for _, name := range setup.Universe.ScopeNames() {
		scope, err := setup.Universe.Scope(name)
		if err != nil {
			continue
		}
		scopes = append(scopes, [2]string{name, strings.Join(scope.Modules(), ", ")})
	}
	st.section(out, "scopes", [2]string{"scope", "modules"}, scopes)

	fmt.Fprintf(out, "%s %s\n", st.heading.Render("textual class:"), setup.Textual)
}

// section prints a two-column block with the first column padded to its
// widest display width. Padding is computed before styling.
func (st tableStyles) section(out io.Writer, title string, header [2]string, rows [][2]string) {
	width := runewidth.StringWidth(header[0])
	for _, row := range rows {
		width = max(width, runewidth.StringWidth(row[0]))
	}
	var b strings.Builder
	b.WriteString(st.heading.Render(title) + "\n")
	b.WriteString("  " + st.dim.Render(runewidth.FillRight(header[0], width)) + "  " + st.dim.Render(header[1]) + "\n")
	for _, row := range rows {
		b.WriteString("  " + runewidth.FillRight(row[0], width) + "  " + row[1] + "\n")
	}
	b.WriteString("\n")
	fmt.Fprint(out, b.String())
}
