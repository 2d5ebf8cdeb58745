package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"numtype/internal/diag"
)

// PrettyOptions controls WritePretty.
type PrettyOptions struct {
	Color bool
	Quiet bool // only failing queries, diagnostics of severity error and the summary
}

type palette struct {
	pass, fail, invalid, none, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		pass:    color.New(color.FgGreen),
		fail:    color.New(color.FgRed, color.Bold),
		invalid: color.New(color.FgMagenta),
		none:    color.New(color.Faint),
		path:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.pass, p.fail, p.invalid, p.none, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) mark(m Mark) *color.Color {
	switch m {
	case MarkPass:
		return p.pass
	case MarkFail:
		return p.fail
	case MarkError:
		return p.invalid
	default:
		return p.none
	}
}

// ResultLine renders one result as "verb operands → value (detail)".
func ResultLine(r Result) string {
	var b strings.Builder
	b.WriteString(r.Verb.String())
	if r.Scope != "" {
		b.WriteString(" @" + r.Scope)
	}
	for _, f := range r.Flags.Names() {
		b.WriteString(" --" + f)
	}
	for i, op := range r.Operands {
		if i == 1 && r.Op != "" {
			b.WriteString(" " + r.Op)
		}
		b.WriteString(" " + op)
	}
	if r.Value != "" {
		b.WriteString(" → " + r.Value)
	}
	if r.Detail != "" {
		b.WriteString(" (" + r.Detail + ")")
	}
	return b.String()
}

// WritePretty prints results grouped by file followed by a summary line.
func WritePretty(w io.Writer, res *CheckResult, opts PrettyOptions) error {
	p := newPalette(opts.Color)
	var out strings.Builder
	for _, f := range res.Files {
		if f.Err != nil {
			fmt.Fprintf(&out, "%s\n  %s %v\n", p.path.Sprint(f.Path), p.fail.Sprint("error"), f.Err)
			continue
		}
		var lines []string
		for _, r := range f.Results {
			if opts.Quiet && r.Mark != MarkFail && r.Mark != MarkError {
				continue
			}
			lines = append(lines, fmt.Sprintf("  %4d %s %s", r.Line, p.mark(r.Mark).Sprintf("%-5s", r.Mark), ResultLine(r)))
		}
		var diags []diag.Diagnostic
		if f.Bag != nil {
			for _, d := range f.Bag.Items() {
				if !opts.Quiet || d.Severity >= diag.SevError {
					diags = append(diags, d)
				}
			}
		}
		if len(lines) == 0 && len(diags) == 0 {
			continue
		}
		header := p.path.Sprint(f.Path)
		if f.Cached {
			header += p.none.Sprint(" (cached)")
		}
		out.WriteString(header + "\n")
		for _, l := range lines {
			out.WriteString(l + "\n")
		}
		if short := diag.FormatShort(diags, res.FileSet, true); short != "" {
			for _, l := range strings.Split(short, "\n") {
				out.WriteString("  " + l + "\n")
			}
		}
	}
	out.WriteString(summaryLine(res.Totals(), p) + "\n")
	_, err := io.WriteString(w, out.String())
	return err
}

func summaryLine(t Totals, p palette) string {
	s := fmt.Sprintf("%d files, %d queries: %s passed, %s failed, %d invalid; %d errors, %d infos",
		t.Files, t.Queries,
		p.pass.Sprint(t.Passed), p.mark(failMark(t.Failed)).Sprint(t.Failed),
		t.Invalid, t.Errors, t.Infos)
	if t.Unloaded > 0 {
		s += fmt.Sprintf(", %d unreadable", t.Unloaded)
	}
	return s
}

func failMark(n int) Mark {
	if n > 0 {
		return MarkFail
	}
	return MarkNone
}
