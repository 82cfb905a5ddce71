package frame

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the per-column type tag.
type Kind int

const (
	KindString Kind = iota
	KindNumeric
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

// IsNumeric reports whether values of this kind sort numerically.
// Bool columns count as numeric (false < true).
func (k Kind) IsNumeric() bool { return k == KindNumeric || k == KindBool }

// Value is a single typed cell.
type Value struct {
	Kind    Kind
	Null    bool
	Num     float64 // numeric value; 0/1 for bools
	Str     string
	Integer bool // render numeric without a fractional part
}

// String renders the value the way reports print it.
func (v Value) String() string {
	if v.Null {
		return "NaN"
	}
	switch v.Kind {
	case KindBool:
		if v.Num != 0 {
			return "True"
		}
		return "False"
	case KindNumeric:
		return formatNumber(v.Num, v.Integer)
	default:
		return v.Str
	}
}

// Less orders values numerically for numeric kinds and by string form otherwise.
func (v Value) Less(o Value) bool {
	if v.Kind.IsNumeric() && o.Kind.IsNumeric() && !v.Null && !o.Null {
		return v.Num < o.Num
	}
	return v.String() < o.String()
}

func formatNumber(x float64, integer bool) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	if integer && x == math.Trunc(x) {
		return strconv.FormatFloat(x, 'f', 0, 64)
	}
	var s string
	if a := math.Abs(x); a != 0 && (a < 1e-4 || a >= 1e16) {
		s = strconv.FormatFloat(x, 'e', -1, 64)
	} else {
		s = strconv.FormatFloat(x, 'f', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
