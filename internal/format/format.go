package format

import (
	"bytes"
	"strings"

	"numtype/internal/query"
	"numtype/internal/source"
)

// Options tunes the printer.
type Options struct {
	// CommentGap is the number of spaces before a trailing comment.
	CommentGap int
}

func (o Options) withDefaults() Options {
	if o.CommentGap <= 0 {
		o.CommentGap = 2
	}
	return o
}

// File renders sf in canonical layout. qf must be the parse of sf.
func File(sf *source.File, qf *query.File, opt Options) []byte {
	opt = opt.withDefaults()
	byLine := make(map[uint32]query.Query, len(qf.Queries))
	for _, q := range qf.Queries {
		byLine[q.Line] = q
	}

	w := newWriter(len(sf.Content))
	lines, _ := sf.Lines()
	for i, raw := range lines {
		// #nosec G115 -- line count is bounded by the file size check in FileSet.Add.
		q, ok := byLine[uint32(i+1)]
		if !ok {
			w.line(strings.TrimRight(raw, " \t\r"))
			continue
		}
		text := Query(q)
		if c := trailingComment(raw); c != "" {
			text += strings.Repeat(" ", opt.CommentGap) + c
		}
		w.line(text)
	}
	return w.bytes()
}

// Query renders one query on a single line.
func Query(q query.Query) string {
	var b strings.Builder
	b.WriteString(q.Verb.String())
	if q.Scope != nil {
		b.WriteString(" @" + q.Scope.Text)
	}
	for _, f := range q.Flags.Names() {
		b.WriteString(" --" + f)
	}
	for i, op := range q.Operands {
		if i == 1 && q.Op != nil {
			b.WriteString(" " + q.Op.Text)
		}
		b.WriteString(" " + TypeText(op.Text))
	}
	if q.Expect != nil {
		b.WriteString(" => " + TypeText(q.Expect.Text))
	}
	return b.String()
}

// TypeText spaces type arguments as "Map<K, V>". Token text carries no
// whitespace, so commas are the only separators to adjust.
func TypeText(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}
	var b strings.Builder
	for _, part := range strings.Split(s, ",") {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strings.TrimSpace(part))
	}
	return b.String()
}

func trailingComment(raw string) string {
	i := strings.IndexByte(raw, '#')
	if i < 0 {
		return ""
	}
	return strings.TrimRight(raw[i:], " \t\r")
}

// writer collapses blank-line runs and guarantees one final newline.
type writer struct {
	buf    bytes.Buffer
	blanks int
	wrote  bool
}

func newWriter(hint int) *writer {
	w := &writer{}
	w.buf.Grow(hint)
	return w
}

func (w *writer) line(s string) {
	if s == "" {
		w.blanks++
		return
	}
	if w.wrote && w.blanks > 0 {
		w.buf.WriteByte('\n')
	}
	w.blanks = 0
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
	w.wrote = true
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}
