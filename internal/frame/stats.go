package frame

import (
	"math"
	"sort"
)

// ColumnStats is one column of a describe summary. Numeric columns fill
// Count and the moment/quantile fields; categorical ones fill Count,
// Unique, Top and Freq.
type ColumnStats struct {
	Name    string
	Numeric bool
	Count   int
	Mean    float64
	Std     float64
	Min     float64
	Q25     float64
	Q50     float64
	Q75     float64
	Max     float64
	Unique  int
	Top     string
	Freq    int
}

// Describe summarises numeric columns; when the frame has none it
// summarises the remaining columns categorically instead.
func (f *Frame) Describe() []ColumnStats {
	var out []ColumnStats
	for _, c := range f.cols {
		if c.Kind == KindNumeric {
			out = append(out, numericStats(c))
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, c := range f.cols {
		out = append(out, categoricalStats(c))
	}
	return out
}

func numericStats(c *Column) ColumnStats {
	s := ColumnStats{Name: c.Name, Numeric: true}
	vals := make([]float64, 0, c.Len())
	// Welford
	var mean, m2 float64
	for i := range c.nulls {
		x, ok := c.Float(i)
		if !ok {
			continue
		}
		vals = append(vals, x)
		s.Count++
		delta := x - mean
		mean += delta / float64(s.Count)
		m2 += delta * (x - mean)
	}
	if s.Count == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	s.Mean = mean
	s.Std = math.NaN()
	if s.Count > 1 {
		s.Std = math.Sqrt(m2 / float64(s.Count-1))
	}
	sort.Float64s(vals)
	s.Min = vals[0]
	s.Max = vals[len(vals)-1]
	s.Q25 = quantile(vals, 0.25)
	s.Q50 = quantile(vals, 0.5)
	s.Q75 = quantile(vals, 0.75)
	return s
}

func categoricalStats(c *Column) ColumnStats {
	s := ColumnStats{Name: c.Name, Count: c.NonNullCount()}
	counts := c.ValueCounts()
	s.Unique = len(counts)
	if len(counts) > 0 {
		s.Top = counts[0].Value.String()
		s.Freq = counts[0].Count
	}
	return s
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
