// Package literal parses host literal values as written one per line in
// .ast.gz dumps: dicts, lists, tuples, sets, quoted strings (single, double,
// triple, raw and byte prefixes), integers, floats, True, False and None.
// Trailing commas are accepted inside every container.
//
// Parsed values map to Go as follows: None -> nil, bool -> bool,
// int -> int64, float -> float64, str and bytes -> string, list -> []any,
// tuple -> Tuple, set -> Set, dict -> *Dict.
package literal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Dict is an ordered mapping; keys keep their source order.
type Dict struct {
	Keys   []any
	Values []any
}

// Tuple is an immutable sequence literal.
type Tuple []any

// Set is a set literal in source order.
type Set []any

// SyntaxError reports where parsing stopped.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("literal: %s at offset %d", e.Msg, e.Offset)
}

// Parse evaluates a single literal expression.
func Parse(src string) (any, error) {
	p := &parser{src: src}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("empty input")
	}
	v, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.peek())
	}
	return v, nil
}

// maxDepth bounds container nesting.
const maxDepth = 200

type parser struct {
	src   string
	pos   int
	depth int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		case '\\':
			// explicit line joining
			if strings.HasPrefix(p.src[p.pos:], "\\\n") {
				p.pos += 2
				continue
			}
			return
		default:
			return
		}
	}
}

func (p *parser) expr() (any, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, p.errorf("nesting deeper than %d levels", maxDepth)
	}
	c := p.peek()
	switch {
	case c == '{':
		return p.braces()
	case c == '[':
		items, err := p.sequence('[', ']')
		if err != nil {
			return nil, err
		}
		return items, nil
	case c == '(':
		return p.parens()
	case c == '\'' || c == '"' || p.atStringPrefix():
		return p.concatStrings()
	case c == '-' || c == '+':
		// Signs apply to number literals only.
		p.pos++
		p.skipSpace()
		if d := p.peek(); d != '.' && (d < '0' || d > '9') {
			return nil, p.errorf("unary %q applied to non-number", c)
		}
		v, err := p.number()
		if err != nil {
			return nil, err
		}
		switch n := v.(type) {
		case int64:
			if c == '-' {
				return -n, nil
			}
			return n, nil
		case float64:
			if c == '-' {
				return -n, nil
			}
			return n, nil
		default:
			return nil, p.errorf("unary %q applied to non-number", c)
		}
	case c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	case isIdentStart(c):
		return p.name()
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

func (p *parser) name() (any, error) {
	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.pos++
	}
	switch word := p.src[start:p.pos]; word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	default:
		p.pos = start
		return nil, p.errorf("malformed node %q", word)
	}
}

// sequence parses open item, item, ... close with an optional trailing comma.
func (p *parser) sequence(open, close byte) ([]any, error) {
	if p.peek() != open {
		return nil, p.errorf("expected %q", open)
	}
	p.pos++
	items := []any{}
	for {
		p.skipSpace()
		if p.peek() == close {
			p.pos++
			return items, nil
		}
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case close:
			p.pos++
			return items, nil
		default:
			if p.eof() {
				return nil, p.errorf("unterminated %q", open)
			}
			return nil, p.errorf("expected ',' or %q", close)
		}
	}
}

func (p *parser) parens() (any, error) {
	p.pos++
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return Tuple{}, nil
	}
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	switch p.peek() {
	case ')':
		p.pos++
		return first, nil
	case ',':
		p.pos++
	default:
		return nil, p.errorf("expected ',' or ')'")
	}
	items := Tuple{first}
	for {
		p.skipSpace()
		if p.peek() == ')' {
			p.pos++
			return items, nil
		}
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return items, nil
		default:
			return nil, p.errorf("expected ',' or ')'")
		}
	}
}

func (p *parser) braces() (any, error) {
	p.pos++
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return &Dict{}, nil
	}
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != ':' {
		// set literal
		items := Set{first}
		for {
			p.skipSpace()
			switch p.peek() {
			case ',':
				p.pos++
			case '}':
				p.pos++
				return items, nil
			default:
				return nil, p.errorf("expected ',' or '}'")
			}
			p.skipSpace()
			if p.peek() == '}' {
				p.pos++
				return items, nil
			}
			v, err := p.expr()
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
	}
	d := &Dict{}
	key := first
	for {
		p.pos++ // ':'
		val, err := p.expr()
		if err != nil {
			return nil, err
		}
		d.set(key, val)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return d, nil
		default:
			return nil, p.errorf("expected ',' or '}'")
		}
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return d, nil
		}
		if key, err = p.expr(); err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':'")
		}
	}
}

// set replaces the value of an existing key, as a later duplicate key wins.
func (d *Dict) set(k, v any) {
	for i, existing := range d.Keys {
		if Repr(existing) == Repr(k) {
			d.Values[i] = v
			return
		}
	}
	d.Keys = append(d.Keys, k)
	d.Values = append(d.Values, v)
}

func (p *parser) number() (any, error) {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if isIdentPart(c) || c == '.' {
			p.pos++
			continue
		}
		if (c == '+' || c == '-') && p.pos > start {
			if prev := p.src[p.pos-1]; (prev == 'e' || prev == 'E') && !isPrefixed(p.src[start:p.pos]) {
				p.pos++
				continue
			}
		}
		break
	}
	text := p.src[start:p.pos]
	if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
		p.pos = start
		return nil, p.errorf("complex numbers are not supported")
	}
	clean := strings.ReplaceAll(text, "_", "")
	if isPrefixed(clean) {
		n, err := strconv.ParseInt(clean, 0, 64)
		if err != nil {
			p.pos = start
			return nil, p.errorf("invalid number %q", text)
		}
		return n, nil
	}
	if !strings.ContainsAny(clean, ".eE") {
		if n, err := strconv.ParseInt(clean, 10, 64); err == nil {
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		p.pos = start
		return nil, p.errorf("invalid number %q", text)
	}
	return f, nil
}

func isPrefixed(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

func (p *parser) atStringPrefix() bool {
	i := p.pos
	for j := 0; j < 2 && i < len(p.src); j++ {
		switch p.src[i] {
		case 'r', 'R', 'b', 'B', 'u', 'U':
			i++
			continue
		}
		break
	}
	return i > p.pos && i < len(p.src) && (p.src[i] == '\'' || p.src[i] == '"')
}

// concatStrings parses one or more adjacent string literals and joins them.
func (p *parser) concatStrings() (any, error) {
	var b strings.Builder
	for {
		s, err := p.stringLiteral()
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
		save := p.pos
		p.skipSpace()
		if p.eof() || !(p.peek() == '\'' || p.peek() == '"' || p.atStringPrefix()) {
			p.pos = save
			return b.String(), nil
		}
	}
}

func (p *parser) stringLiteral() (string, error) {
	raw := false
	for !p.eof() && p.peek() != '\'' && p.peek() != '"' {
		if c := p.peek(); c == 'r' || c == 'R' {
			raw = true
		}
		p.pos++
	}
	quote := p.peek()
	triple := strings.HasPrefix(p.src[p.pos:], strings.Repeat(string(quote), 3))
	if triple {
		p.pos += 3
	} else {
		p.pos++
	}
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}
		c := p.peek()
		if c == quote {
			if !triple {
				p.pos++
				return b.String(), nil
			}
			if strings.HasPrefix(p.src[p.pos:], strings.Repeat(string(quote), 3)) {
				p.pos += 3
				return b.String(), nil
			}
		}
		if c == '\n' && !triple {
			return "", p.errorf("unterminated string")
		}
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
			continue
		}
		if p.pos+1 >= len(p.src) {
			return "", p.errorf("unterminated string")
		}
		if raw {
			b.WriteByte('\\')
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
			continue
		}
		if err := p.escape(&b); err != nil {
			return "", err
		}
	}
}

func (p *parser) escape(b *strings.Builder) error {
	p.pos++ // backslash
	c := p.peek()
	p.pos++
	switch c {
	case '\n':
	case '\\', '\'', '"':
		b.WriteByte(c)
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'v':
		b.WriteByte('\v')
	case 'x':
		return p.hexEscape(b, 2)
	case 'u':
		return p.hexEscape(b, 4)
	case 'U':
		return p.hexEscape(b, 8)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		start := p.pos - 1
		for p.pos-start < 3 && !p.eof() && p.peek() >= '0' && p.peek() <= '7' {
			p.pos++
		}
		n, _ := strconv.ParseUint(p.src[start:p.pos], 8, 32)
		b.WriteRune(rune(n))
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func (p *parser) hexEscape(b *strings.Builder, digits int) error {
	if p.pos+digits > len(p.src) {
		return p.errorf("truncated escape")
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return p.errorf("invalid escape")
	}
	p.pos += digits
	b.WriteRune(rune(n))
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || (c >= '0' && c <= '9') }
