package frame

import (
	"sort"
)

// Column is a named, typed sequence of cells with an explicit null mask.
// Numeric and bool columns keep their values in nums (bools as 0/1);
// string columns keep theirs in strs.
type Column struct {
	Name string
	Kind Kind
	// Integer marks numeric columns whose values are all integral and
	// non-null, so they render as 1 rather than 1.0.
	Integer bool

	nums  []float64
	strs  []string
	nulls []bool
}

// NewNumeric builds a numeric column. nulls may be nil.
func NewNumeric(name string, vals []float64, nulls []bool) *Column {
	return &Column{Name: name, Kind: KindNumeric, nums: vals, nulls: fillMask(nulls, len(vals))}
}

// NewInteger builds a numeric column rendered without fractional parts.
// Integer is cleared if any cell is null.
func NewInteger(name string, vals []int64, nulls []bool) *Column {
	nums := make([]float64, len(vals))
	for i, v := range vals {
		nums[i] = float64(v)
	}
	c := NewNumeric(name, nums, nulls)
	c.Integer = c.NullCount() == 0
	return c
}

// NewString builds a string column. nulls may be nil.
func NewString(name string, vals []string, nulls []bool) *Column {
	return &Column{Name: name, Kind: KindString, strs: vals, nulls: fillMask(nulls, len(vals))}
}

// NewBool builds a bool column. nulls may be nil.
func NewBool(name string, vals []bool, nulls []bool) *Column {
	nums := make([]float64, len(vals))
	for i, v := range vals {
		if v {
			nums[i] = 1
		}
	}
	return &Column{Name: name, Kind: KindBool, nums: nums, nulls: fillMask(nulls, len(vals))}
}

func fillMask(nulls []bool, n int) []bool {
	if len(nulls) == n {
		return nulls
	}
	out := make([]bool, n)
	copy(out, nulls)
	return out
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.nulls) }

// IsNull reports whether cell i is null.
func (c *Column) IsNull(i int) bool { return c.nulls[i] }

// Value returns cell i.
func (c *Column) Value(i int) Value {
	v := Value{Kind: c.Kind, Null: c.nulls[i], Integer: c.Integer}
	if v.Null {
		return v
	}
	if c.Kind == KindString {
		v.Str = c.strs[i]
	} else {
		v.Num = c.nums[i]
	}
	return v
}

// Float returns the numeric value of cell i and whether it is usable.
func (c *Column) Float(i int) (float64, bool) {
	if c.Kind == KindString || c.nulls[i] {
		return 0, false
	}
	return c.nums[i], true
}

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, isNull := range c.nulls {
		if isNull {
			n++
		}
	}
	return n
}

// NonNullCount returns the number of non-null cells.
func (c *Column) NonNullCount() int { return c.Len() - c.NullCount() }

func (c *Column) equalAt(i, j int) bool {
	if c.nulls[i] || c.nulls[j] {
		return c.nulls[i] == c.nulls[j]
	}
	if c.Kind == KindString {
		return c.strs[i] == c.strs[j]
	}
	return c.nums[i] == c.nums[j]
}

// keep retains the cells whose mask entry is false.
func (c *Column) keep(drop []bool) {
	n := 0
	for i := range c.nulls {
		if drop[i] {
			continue
		}
		c.nulls[n] = c.nulls[i]
		if c.Kind == KindString {
			c.strs[n] = c.strs[i]
		} else {
			c.nums[n] = c.nums[i]
		}
		n++
	}
	c.nulls = c.nulls[:n]
	if c.Kind == KindString {
		c.strs = c.strs[:n]
	} else {
		c.nums = c.nums[:n]
	}
}

func (c *Column) head(n int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, Integer: c.Integer}
	out.nulls = append([]bool(nil), c.nulls[:n]...)
	if c.Kind == KindString {
		out.strs = append([]string(nil), c.strs[:n]...)
	} else {
		out.nums = append([]float64(nil), c.nums[:n]...)
	}
	return out
}

// ValueCount pairs a distinct value with its frequency.
type ValueCount struct {
	Value Value
	Count int
}

// ValueCounts counts non-null values, most frequent first. Ties keep the
// order in which values first appear.
func (c *Column) ValueCounts() []ValueCount {
	pos := map[Value]int{}
	var out []ValueCount
	for i := range c.nulls {
		if c.nulls[i] {
			continue
		}
		v := c.Value(i)
		if p, ok := pos[v]; ok {
			out[p].Count++
			continue
		}
		pos[v] = len(out)
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Unique returns the distinct values in first-appearance order. When
// withNull is set a single null entry is included if the column has nulls.
func (c *Column) Unique(withNull bool) []Value {
	seen := map[Value]struct{}{}
	var out []Value
	for i := range c.nulls {
		if c.nulls[i] && !withNull {
			continue
		}
		v := c.Value(i)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (c *Column) memoryUsage() uint64 {
	n := uint64(c.Len())
	switch c.Kind {
	case KindString:
		total := 16 * n
		for _, s := range c.strs {
			total += uint64(len(s))
		}
		return total + n
	case KindBool:
		return n + n
	default:
		return 8*n + n
	}
}
