package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"numtype/internal/source"
)

// Location is a diagnostic position resolved against a FileSet.
type Location struct {
	Path   string
	Line   uint32
	Column uint32
}

// Resolve maps span to a path and 1-based line/column. It reports false for
// spans whose file is not in fs.
func Resolve(fs *source.FileSet, span source.Span) (Location, bool) {
	if fs == nil || int(span.File) >= fs.Len() {
		return Location{}, false
	}
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return Location{
		Path:   filepath.ToSlash(file.Path),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

type shortLine struct {
	sev  Severity
	code string
	loc  Location
	msg  string
	note bool
}

// FormatShort renders one line per diagnostic (and per note when
// includeNotes is set): "<severity> <ID> <path>:<line>:<col> <message>".
// Lines are sorted by path, position, severity and code.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]shortLine, 0, len(diags))
	for _, d := range diags {
		if loc, ok := Resolve(fs, d.Primary); ok {
			lines = append(lines, shortLine{sev: d.Severity, code: d.Code.ID(), loc: loc, msg: sanitizeMessage(d.Message)})
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if loc, ok := Resolve(fs, n.Span); ok {
				lines = append(lines, shortLine{sev: d.Severity, code: d.Code.ID(), loc: loc, msg: sanitizeMessage(n.Msg), note: true})
			}
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		li, lj := lines[i], lines[j]
		if li.loc.Path != lj.loc.Path {
			return li.loc.Path < lj.loc.Path
		}
		if li.loc.Line != lj.loc.Line {
			return li.loc.Line < lj.loc.Line
		}
		if li.loc.Column != lj.loc.Column {
			return li.loc.Column < lj.loc.Column
		}
		if li.sev != lj.sev {
			return li.sev > lj.sev
		}
		return li.code < lj.code
	})

	var b strings.Builder
	for i, l := range lines {
		label := l.sev.Label()
		if l.note {
			label = "note"
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", label, l.code, l.loc.Path, l.loc.Line, l.loc.Column, l.msg)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
