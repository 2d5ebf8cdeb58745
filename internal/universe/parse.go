package universe

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"numtype/internal/types"
)

// ParseError reports a malformed type expression.
type ParseError struct {
	Text   string
	Offset int // byte offset into the normalized text
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("type %q at %d: %s", e.Text, e.Offset, e.Msg)
}

type typeParser struct {
	u     *Universe
	scope *Scope
	src   string
	pos   int
}

// Parse reads a type expression such as int, String or
// java.util.Map<String, java.util.List<Integer>>. Simple names are looked up
// in the default import packages; unknown names yield unresolved references.
func (u *Universe) Parse(text string, scope *Scope) (types.TypeRef, error) {
	if scope == nil {
		scope = u.DefaultScope()
	}
	p := &typeParser{u: u, scope: scope, src: norm.NFC.String(strings.TrimSpace(text))}
	if p.src == "" {
		return nil, &ParseError{Text: text, Msg: "empty type"}
	}
	ref, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return ref, nil
}

func (p *typeParser) errorf(format string, args ...any) error {
	return &ParseError{Text: p.src, Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) parseType() (types.TypeRef, error) {
	start := p.pos
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	var args []types.TypeRef
	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case '>':
				p.pos++
			default:
				return nil, p.errorf("expected ',' or '>'")
			}
			break
		}
	}
	if !strings.Contains(name, ".") {
		if kind, ok := types.ParsePrimitiveKind(name); ok {
			if len(args) > 0 {
				p.pos = start
				return nil, p.errorf("primitive %s takes no type arguments", name)
			}
			return types.Primitive(kind), nil
		}
		name = p.u.qualify(name)
	}
	if d, ok := p.u.Class(name); ok && len(args) > 0 && len(args) != d.Params {
		p.pos = start
		return nil, p.errorf("%s expects %d type arguments, got %d", name, d.Params, len(args))
	}
	return p.u.ClassType(name, args, p.scope), nil
}

func (p *typeParser) parseName() (string, error) {
	p.skipSpace()
	start := p.pos
	for {
		if !p.parseIdent() {
			return "", p.errorf("expected identifier")
		}
		if p.pos < len(p.src) && p.src[p.pos] == '.' {
			p.pos++
			continue
		}
		return p.src[start:p.pos], nil
	}
}

func (p *typeParser) parseIdent() bool {
	start := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		first := p.pos == start
		if r == '_' || r == '$' || unicode.IsLetter(r) || (!first && unicode.IsDigit(r)) {
			p.pos += size
			continue
		}
		break
	}
	return p.pos > start
}

// qualify resolves a simple name against the default imports.
func (u *Universe) qualify(simple string) string {
	for _, pkg := range u.imports {
		if _, ok := u.classes[pkg+"."+simple]; ok {
			return pkg + "." + simple
		}
	}
	return simple
}
