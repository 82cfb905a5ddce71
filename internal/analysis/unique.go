package analysis

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
)

// UniqueSummary describes the distinct values of one column.
type UniqueSummary struct {
	Column       string
	Distinct     int // a null counts as one value
	AllDifferent bool
	Values       []string // sorted by text; empty when AllDifferent
}

// CountEntry is one listed value with its frequency.
type CountEntry struct {
	Value   string
	Count   int
	Percent float64
}

// CountReport is the result of UniqueCount and UniqueCountAll.
type CountReport struct {
	Column    string
	Total     int // non-null cells
	Distinct  int
	Truncated bool
	Entries   []CountEntry
}

// ListReport is the result of UniqueCountList.
type ListReport struct {
	Column string
	Values []string
}

// ColumnUnique prints, for every column, either that all values differ or
// the sorted list of its distinct values.
func (r *Reporter) ColumnUnique(f *frame.Frame) []UniqueSummary {
	out := make([]UniqueSummary, 0, f.NumCols())
	for _, c := range f.Columns() {
		vals := c.Unique(true)
		s := UniqueSummary{Column: c.Name, Distinct: len(vals), AllDifferent: len(vals) == c.Len()}
		if s.AllDifferent {
			r.printf("Column: %s - All values are different\n", c.Name)
		} else {
			s.Values = make([]string, len(vals))
			for i, v := range vals {
				s.Values[i] = uniqueText(v)
			}
			sort.Strings(s.Values)
			r.printf("Column: %s - Unique values: %s\n", c.Name, strings.Join(s.Values, ", "))
		}
		r.printf("%s\n", strings.Repeat("-", 50))
		out = append(out, s)
	}
	return out
}

// uniqueText is the listing form of v; nulls read "nan" and sort with the
// other text values.
func uniqueText(v frame.Value) string {
	if v.Null {
		return "nan"
	}
	return v.String()
}

// UniqueCount prints the most frequent values of column, at most TopN of
// them, with counts and share of the non-null total.
func (r *Reporter) UniqueCount(f *frame.Frame, column string) *CountReport {
	return r.count(f, column, r.opt.TopN)
}

// UniqueCountAll is UniqueCount without the cap.
func (r *Reporter) UniqueCountAll(f *frame.Frame, column string) *CountReport {
	return r.count(f, column, 0)
}

func (r *Reporter) count(f *frame.Frame, column string, limit int) *CountReport {
	c, ok := r.lookup(f, column)
	if !ok {
		return nil
	}
	counts := c.ValueCounts()
	rep := &CountReport{Column: column, Total: c.NonNullCount(), Distinct: len(counts)}
	if limit > 0 && len(counts) > limit {
		rep.Truncated = true
		counts = counts[:limit]
		r.printf("\nUnique values in '%s' (total %d) - Showing only the first %d values:\n", column, rep.Total, limit)
	} else {
		r.printf("\nUnique values in '%s' (total %d):\n", column, rep.Total)
	}
	for _, vc := range counts {
		e := CountEntry{
			Value:   vc.Value.String(),
			Count:   vc.Count,
			Percent: float64(vc.Count) / float64(rep.Total) * 100,
		}
		rep.Entries = append(rep.Entries, e)
		r.printf("%s: %d times (%.2f%%)\n", e.Value, e.Count, e.Percent)
	}
	return rep
}

// UniqueCountList prints every distinct non-null value of column once,
// numerically ordered for numeric kinds and by text otherwise.
func (r *Reporter) UniqueCountList(f *frame.Frame, column string) *ListReport {
	c, ok := r.lookup(f, column)
	if !ok {
		return nil
	}
	vals := c.Unique(false)
	sort.SliceStable(vals, func(i, j int) bool { return vals[i].Less(vals[j]) })
	rep := &ListReport{Column: column, Values: make([]string, len(vals))}
	r.printf("\nTotal unique values in '%s': %d\n", column, len(vals))
	r.printf("Unique values in order:\n")
	for i, v := range vals {
		rep.Values[i] = v.String()
		r.printf("%s\n", rep.Values[i])
	}
	return rep
}
