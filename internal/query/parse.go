package query

import (
	"fmt"
	"strings"

	"numtype/internal/diag"
	"numtype/internal/source"
	"numtype/internal/types"
)

const expectArrow = "=>"

// Parse reads every query in file id. Malformed lines are reported as
// diag.QuerySyntax and skipped; the remaining lines are still returned.
func Parse(fs *source.FileSet, id source.FileID, r diag.Reporter) *File {
	f := fs.Get(id)
	out := &File{ID: id, Path: f.Path}
	lines, offsets := f.Lines()
	for i, text := range lines {
		p := lineParser{file: id, base: offsets[i], text: text, reporter: r}
		// #nosec G115 -- line count is bounded by the file size check in FileSet.Add.
		q, ok := p.parse(uint32(i + 1))
		if ok {
			out.Queries = append(out.Queries, q)
		}
	}
	return out
}

type lineParser struct {
	file     source.FileID
	base     uint32
	text     string
	reporter diag.Reporter
}

func (p *lineParser) span(start, end int) source.Span {
	// #nosec G115 -- offsets are within one line of a size-checked file.
	return source.Span{File: p.file, Start: p.base + uint32(start), End: p.base + uint32(end)}
}

func (p *lineParser) errorf(start, end int, format string, args ...any) {
	diag.ReportError(p.reporter, diag.QuerySyntax, p.span(start, end), fmt.Sprintf(format, args...)).Emit()
}

func (p *lineParser) parse(line uint32) (Query, bool) {
	body := p.text
	if i := strings.IndexByte(body, '#'); i >= 0 {
		body = body[:i]
	}
	if strings.TrimSpace(body) == "" {
		return Query{}, false
	}
	lhsEnd := len(body)
	var expect *Token
	if i := strings.Index(body, expectArrow); i >= 0 {
		lhsEnd = i
		rest := body[i+len(expectArrow):]
		tok, ok := p.single(rest, i+len(expectArrow))
		if !ok {
			return Query{}, false
		}
		if tok == nil {
			p.errorf(i, i+len(expectArrow), "missing expectation after %q", expectArrow)
			return Query{}, false
		}
		expect = tok
	}

	toks, ok := p.split(body[:lhsEnd], 0)
	if !ok {
		return Query{}, false
	}
	if len(toks) == 0 {
		p.errorf(0, lhsEnd, "missing query before %q", expectArrow)
		return Query{}, false
	}
	first, last := toks[0].start, toks[len(toks)-1].end
	if expect != nil {
		// #nosec G115 -- expect span lies inside this line.
		last = int(expect.Span.End - p.base)
	}
	q := Query{Span: p.span(first, last), Line: line, Expect: expect}

	verb, ok := ParseVerb(toks[0].text)
	if !ok {
		p.errorf(toks[0].start, toks[0].end, "unknown query %q", toks[0].text)
		return Query{}, false
	}
	q.Verb = verb
	toks = toks[1:]
	if len(toks) > 0 && strings.HasPrefix(toks[0].text, "@") {
		name := strings.TrimPrefix(toks[0].text, "@")
		if name == "" {
			p.errorf(toks[0].start, toks[0].end, "empty scope name")
			return Query{}, false
		}
		q.Scope = &Token{Text: name, Span: p.span(toks[0].start+1, toks[0].end)}
		toks = toks[1:]
	}
	for len(toks) > 0 && strings.HasPrefix(toks[0].text, "--") {
		name := strings.TrimPrefix(toks[0].text, "--")
		flag, known := flagNames[name]
		if !known || !verb.Allows(flag) {
			p.errorf(toks[0].start, toks[0].end, "%s does not take --%s", verb, name)
			return Query{}, false
		}
		q.Flags |= flag
		toks = toks[1:]
	}
	if verb == VerbPromote && len(toks) == 3 {
		mid := toks[1]
		if _, known := types.ParseBinaryOp(mid.text); !known {
			p.errorf(mid.start, mid.end, "unknown operator %q", mid.text)
			return Query{}, false
		}
		q.Op = &Token{Text: mid.text, Span: p.span(mid.start, mid.end)}
		toks = []rawToken{toks[0], toks[2]}
	}
	if len(toks) != verb.Arity() {
		p.errorf(first, last, "%s takes %d type(s), got %d", verb, verb.Arity(), len(toks))
		return Query{}, false
	}
	for _, t := range toks {
		q.Operands = append(q.Operands, Token{Text: t.text, Span: p.span(t.start, t.end)})
	}
	if expect != nil && !p.checkExpect(verb, expect) {
		return Query{}, false
	}
	return q, true
}

func (p *lineParser) checkExpect(verb Verb, expect *Token) bool {
	start := int(expect.Span.Start - p.base)
	end := int(expect.Span.End - p.base)
	switch verb {
	case VerbAssign:
		if expect.Text != "true" && expect.Text != "false" {
			p.errorf(start, end, "assign expects true or false, got %q", expect.Text)
			return false
		}
	case VerbClassify:
		if _, ok := types.ParseTag(expect.Text); !ok {
			p.errorf(start, end, "unknown tag %q", expect.Text)
			return false
		}
	}
	return true
}

// single reads exactly one type expression (or nothing) from s.
func (p *lineParser) single(s string, offset int) (*Token, bool) {
	toks, ok := p.split(s, offset)
	if !ok {
		return nil, false
	}
	switch len(toks) {
	case 0:
		return nil, true
	case 1:
		return &Token{Text: toks[0].text, Span: p.span(toks[0].start, toks[0].end)}, true
	default:
		p.errorf(toks[1].start, toks[len(toks)-1].end, "unexpected text after expectation")
		return nil, false
	}
}

type rawToken struct {
	text       string
	start, end int
}

// split cuts s at whitespace outside angle brackets. Whitespace inside a
// type argument list is dropped from the token text.
func (p *lineParser) split(s string, offset int) ([]rawToken, bool) {
	var (
		toks  []rawToken
		cur   strings.Builder
		start = -1
		depth = 0
		open  = 0
	)
	flush := func(end int) {
		if start >= 0 {
			toks = append(toks, rawToken{text: cur.String(), start: offset + start, end: offset + end})
		}
		cur.Reset()
		start = -1
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			if depth == 0 {
				flush(i)
			}
			continue
		case c == '<':
			if depth == 0 {
				open = i
			}
			depth++
		case c == '>':
			depth--
			if depth < 0 {
				p.errorf(offset+i, offset+i+1, "unbalanced '>'")
				return nil, false
			}
		}
		if start < 0 {
			start = i
		}
		cur.WriteByte(c)
	}
	if depth > 0 {
		p.errorf(offset+open, offset+len(s), "unclosed '<'")
		return nil, false
	}
	flush(len(s))
	return toks, true
}
