// Package frame holds the in-memory, column-oriented table used by the
// loader, profiler, cleaner and reporters.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/zeebo/xxh3"
)

var (
	ErrColumnLength    = errors.New("column length mismatch")
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// Frame is an ordered set of equally long columns plus a row index.
type Frame struct {
	cols   []*Column
	byName map[string]int
	index  []int
}

// New assembles columns into a Frame. All columns must have the same length
// and distinct names.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{byName: make(map[string]int, len(cols))}
	rows := 0
	for i, c := range cols {
		if i == 0 {
			rows = c.Len()
		} else if c.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d: %w", c.Name, c.Len(), rows, ErrColumnLength)
		}
		if _, dup := f.byName[c.Name]; dup {
			return nil, fmt.Errorf("column %q: %w", c.Name, ErrDuplicateColumn)
		}
		f.byName[c.Name] = i
		f.cols = append(f.cols, c)
	}
	f.index = make([]int, rows)
	for i := range f.index {
		f.index[i] = i
	}
	return f, nil
}

// NumRows returns the row count.
func (f *Frame) NumRows() int { return len(f.index) }

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.cols) }

// Columns returns the columns in order. The slice must not be modified.
func (f *Frame) Columns() []*Column { return f.cols }

// ColumnNames returns the column names in order.
func (f *Frame) ColumnNames() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks a column up by name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Index returns the current row labels.
func (f *Frame) Index() []int { return f.index }

// Head returns a copy of the first n rows, keeping their index labels.
func (f *Frame) Head(n int) *Frame {
	if n > f.NumRows() {
		n = f.NumRows()
	}
	if n < 0 {
		n = 0
	}
	out := &Frame{byName: make(map[string]int, len(f.cols))}
	for i, c := range f.cols {
		out.cols = append(out.cols, c.head(n))
		out.byName[c.Name] = i
	}
	out.index = append([]int(nil), f.index[:n]...)
	return out
}

// AllNullRows marks rows where every column is null. A frame without
// columns has no such rows.
func (f *Frame) AllNullRows() []bool {
	out := make([]bool, f.NumRows())
	if len(f.cols) == 0 {
		return out
	}
	for r := range out {
		all := true
		for _, c := range f.cols {
			if !c.nulls[r] {
				all = false
				break
			}
		}
		out[r] = all
	}
	return out
}

// NullCounts returns the null count of every column, in column order.
func (f *Frame) NullCounts() []int {
	out := make([]int, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.NullCount()
	}
	return out
}

// TotalNulls returns the number of null cells across the frame.
func (f *Frame) TotalNulls() int {
	n := 0
	for _, c := range f.NullCounts() {
		n += c
	}
	return n
}

// Duplicated marks every row that repeats an earlier row across all
// columns (null equals null). The first occurrence is not marked.
func (f *Frame) Duplicated() []bool {
	out := make([]bool, f.NumRows())
	buckets := make(map[uint64][]int, f.NumRows())
	var key []byte
	for r := range out {
		key = f.appendRowKey(key[:0], r)
		h := xxh3.Hash(key)
		for _, prev := range buckets[h] {
			if f.rowsEqual(prev, r) {
				out[r] = true
				break
			}
		}
		if !out[r] {
			buckets[h] = append(buckets[h], r)
		}
	}
	return out
}

func (f *Frame) appendRowKey(b []byte, r int) []byte {
	for _, c := range f.cols {
		if c.nulls[r] {
			b = append(b, 0x00)
		} else if c.Kind == KindString {
			b = append(b, 0x01)
			b = append(b, c.strs[r]...)
		} else {
			x := c.nums[r]
			if x == 0 {
				x = 0 // -0 hashes as 0
			}
			b = append(b, 0x02)
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(x))
		}
		b = append(b, 0x1f)
	}
	return b
}

func (f *Frame) rowsEqual(i, j int) bool {
	for _, c := range f.cols {
		if !c.equalAt(i, j) {
			return false
		}
	}
	return true
}

// DropRows removes every row whose mask entry is true, in place, and
// returns how many were removed. Index labels of kept rows are preserved.
func (f *Frame) DropRows(drop []bool) int {
	if len(drop) != f.NumRows() {
		return 0
	}
	removed := 0
	for _, d := range drop {
		if d {
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	for _, c := range f.cols {
		c.keep(drop)
	}
	n := 0
	for i, label := range f.index {
		if !drop[i] {
			f.index[n] = label
			n++
		}
	}
	f.index = f.index[:n]
	return removed
}

// ResetIndex relabels rows 0..n-1.
func (f *Frame) ResetIndex() {
	for i := range f.index {
		f.index[i] = i
	}
}

// MemoryUsage estimates the bytes held by the frame's cells and index.
func (f *Frame) MemoryUsage() uint64 {
	total := uint64(8 * len(f.index))
	for _, c := range f.cols {
		total += c.memoryUsage()
	}
	return total
}
