package literal

import (
	"math"
	"strconv"
	"strings"
)

// Repr renders a parsed value back in literal syntax. Nested values stored
// in a single table cell use this form.
func Repr(v any) string {
	var b strings.Builder
	writeRepr(&b, v)
	return b.String()
}

func writeRepr(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if t {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case float64:
		b.WriteString(reprFloat(t))
	case string:
		b.WriteString(quote(t))
	case []any:
		b.WriteByte('[')
		writeItems(b, t)
		b.WriteByte(']')
	case Tuple:
		b.WriteByte('(')
		writeItems(b, t)
		if len(t) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case Set:
		if len(t) == 0 {
			b.WriteString("set()")
			return
		}
		b.WriteByte('{')
		writeItems(b, t)
		b.WriteByte('}')
	case *Dict:
		b.WriteByte('{')
		for i := range t.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, t.Keys[i])
			b.WriteString(": ")
			writeRepr(b, t.Values[i])
		}
		b.WriteByte('}')
	}
}

func writeItems(b *strings.Builder, items []any) {
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		writeRepr(b, it)
	}
}

func reprFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	var s string
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		s = strconv.FormatFloat(f, 'e', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// quote prefers single quotes unless the text contains one and no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			b.WriteString(`\x`)
			b.WriteString(strconv.FormatInt(int64(r)|0x100, 16)[1:])
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
