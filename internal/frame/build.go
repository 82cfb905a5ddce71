package frame

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseOptions controls how text cells are typed.
type ParseOptions struct {
	// MissingValues are cell texts read as null. Nil means DefaultMissingValues.
	MissingValues []string
	// DecimalSeparator replaces '.' when parsing numbers; 0 keeps '.'.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing numbers; 0 disables.
	ThousandsSeparator rune
}

// DefaultMissingValues lists the cell texts treated as null by default.
func DefaultMissingValues() []string {
	return []string{
		"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
		"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
		"n/a", "nan", "null",
	}
}

// FromStrings types text rows (CSV, TSV, spreadsheet) into a Frame. Rows
// shorter than the header are padded with nulls.
func FromStrings(header []string, rows [][]string, opt ParseOptions) (*Frame, error) {
	missing := opt.MissingValues
	if missing == nil {
		missing = DefaultMissingValues()
	}
	isMissing := make(map[string]struct{}, len(missing))
	for _, m := range missing {
		isMissing[m] = struct{}{}
	}

	names := uniqueNames(header)
	ncol := len(names)
	cells := make([][]string, ncol)
	nulls := make([][]bool, ncol)
	for j := range cells {
		cells[j] = make([]string, len(rows))
		nulls[j] = make([]bool, len(rows))
	}
	for i, rec := range rows {
		if len(rec) > ncol {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(rec), ncol)
		}
		for j := 0; j < ncol; j++ {
			if j >= len(rec) {
				nulls[j][i] = true
				continue
			}
			v := rec[j]
			if _, ok := isMissing[v]; ok {
				nulls[j][i] = true
				continue
			}
			cells[j][i] = v
		}
	}

	cols := make([]*Column, ncol)
	for j := range cols {
		cols[j] = typeTextColumn(names[j], cells[j], nulls[j], opt)
	}
	return New(cols...)
}

func typeTextColumn(name string, cells []string, nulls []bool, opt ParseOptions) *Column {
	nums := make([]float64, len(cells))
	numeric, integer := true, true
	for i, s := range cells {
		if nulls[i] {
			integer = false
			continue
		}
		x, isInt, ok := parseNumber(s, opt)
		if !ok {
			numeric = false
			break
		}
		if math.IsNaN(x) {
			nulls[i] = true
			integer = false
			continue
		}
		nums[i] = x
		integer = integer && isInt
	}
	if numeric {
		c := NewNumeric(name, nums, nulls)
		c.Integer = integer && len(cells) > 0
		return c
	}

	bools := make([]bool, len(cells))
	isBool := true
	for i, s := range cells {
		if nulls[i] {
			continue
		}
		switch {
		case strings.EqualFold(s, "true"):
			bools[i] = true
		case strings.EqualFold(s, "false"):
		default:
			isBool = false
		}
		if !isBool {
			break
		}
	}
	if isBool {
		return NewBool(name, bools, nulls)
	}
	return NewString(name, cells, nulls)
}

// parseNumber accepts plain or locale-formatted numbers. The second result
// reports whether the text is an integer literal.
func parseNumber(s string, opt ParseOptions) (float64, bool, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false, false
	}
	dec, thou := opt.DecimalSeparator, opt.ThousandsSeparator
	if thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != 0 && dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return float64(n), true, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, false
	}
	return f, false, true
}

// uniqueNames fills blank header cells and suffixes repeats with .1, .2, ...
func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[name]; dup {
			base, k := name, seen[name]
			for {
				k++
				name = fmt.Sprintf("%s.%d", base, k)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = k
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

// Record is one row from a record-oriented source, keys in source order.
type Record struct {
	Keys   []string
	Values []any
}

// Add appends a key/value pair.
func (r *Record) Add(key string, v any) {
	r.Keys = append(r.Keys, key)
	r.Values = append(r.Values, v)
}

// Builder accumulates records into columns. Columns appear in the order
// their keys are first seen; keys absent from a record are null.
type Builder struct {
	names []string
	pos   map[string]int
	cells [][]any
	rows  int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{pos: map[string]int{}}
}

// Append adds one record. A key repeated within a record keeps its last value.
func (b *Builder) Append(rec Record) {
	for j := range b.cells {
		b.cells[j] = append(b.cells[j], nil)
	}
	for i, k := range rec.Keys {
		j, ok := b.pos[k]
		if !ok {
			j = len(b.names)
			b.pos[k] = j
			b.names = append(b.names, k)
			b.cells = append(b.cells, make([]any, b.rows+1))
		}
		b.cells[j][b.rows] = rec.Values[i]
	}
	b.rows++
}

// Len returns the number of records appended.
func (b *Builder) Len() int { return b.rows }

// Frame types the accumulated columns.
func (b *Builder) Frame() (*Frame, error) {
	return FromColumns(b.names, b.cells)
}

// FromColumns types columns of Go scalars: nil, bool, integers, floats,
// json.Number, string, []byte and time.Time. Other values are kept by their
// fmt form. A column mixing kinds becomes a string column.
func FromColumns(names []string, values [][]any) (*Frame, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("%d names for %d columns: %w", len(names), len(values), ErrColumnLength)
	}
	cols := make([]*Column, len(names))
	for j, name := range names {
		cols[j] = typeAnyColumn(name, values[j])
	}
	return New(cols...)
}

type scalar struct {
	kind  Kind
	null  bool
	num   float64
	isInt bool
	str   string
}

func toScalar(v any) scalar {
	switch t := v.(type) {
	case nil:
		return scalar{null: true}
	case bool:
		s := scalar{kind: KindBool}
		if t {
			s.num = 1
		}
		return s
	case int:
		return scalar{kind: KindNumeric, num: float64(t), isInt: true}
	case int8:
		return scalar{kind: KindNumeric, num: float64(t), isInt: true}
	case int16:
		return scalar{kind: KindNumeric, num: float64(t), isInt: true}
	case int32:
		return scalar{kind: KindNumeric, num: float64(t), isInt: true}
	case int64:
		return scalar{kind: KindNumeric, num: float64(t), isInt: true}
	case uint:
		return scalar{kind: KindNumeric, num: float64(t), isInt: true}
	case uint8:
		return scalar{kind: KindNumeric, num: float64(t), isInt: true}
	case uint16:
		return scalar{kind: KindNumeric, num: float64(t), isInt: true}
	case uint32:
		return scalar{kind: KindNumeric, num: float64(t), isInt: true}
	case uint64:
		return scalar{kind: KindNumeric, num: float64(t), isInt: true}
	case float32:
		return floatScalar(float64(t))
	case float64:
		return floatScalar(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return scalar{kind: KindNumeric, num: float64(n), isInt: true}
		}
		if f, err := t.Float64(); err == nil {
			return floatScalar(f)
		}
		return scalar{kind: KindString, str: t.String()}
	case string:
		return scalar{kind: KindString, str: t}
	case []byte:
		return scalar{kind: KindString, str: string(t)}
	case time.Time:
		layout := "2006-01-02 15:04:05"
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			layout = "2006-01-02"
		}
		return scalar{kind: KindString, str: t.Format(layout)}
	default:
		return scalar{kind: KindString, str: fmt.Sprint(t)}
	}
}

func floatScalar(f float64) scalar {
	if math.IsNaN(f) {
		return scalar{null: true}
	}
	return scalar{kind: KindNumeric, num: f}
}

func (s scalar) text() string {
	switch s.kind {
	case KindString:
		return s.str
	default:
		return Value{Kind: s.kind, Num: s.num, Integer: s.isInt}.String()
	}
}

func typeAnyColumn(name string, vals []any) *Column {
	scalars := make([]scalar, len(vals))
	nulls := make([]bool, len(vals))
	kind, mixed, seen := KindNumeric, false, false
	integer := true
	for i, v := range vals {
		s := toScalar(v)
		scalars[i] = s
		if s.null {
			nulls[i] = true
			integer = false
			continue
		}
		if !seen {
			kind, seen = s.kind, true
		} else if s.kind != kind {
			mixed = true
		}
		integer = integer && s.isInt
	}
	if mixed {
		kind = KindString
	}
	switch kind {
	case KindNumeric:
		nums := make([]float64, len(vals))
		for i, s := range scalars {
			nums[i] = s.num
		}
		c := NewNumeric(name, nums, nulls)
		c.Integer = integer && len(vals) > 0
		return c
	case KindBool:
		bools := make([]bool, len(vals))
		for i, s := range scalars {
			bools[i] = s.num != 0
		}
		return NewBool(name, bools, nulls)
	default:
		strs := make([]string, len(vals))
		for i, s := range scalars {
			if !s.null {
				strs[i] = s.text()
			}
		}
		return NewString(name, strs, nulls)
	}
}
