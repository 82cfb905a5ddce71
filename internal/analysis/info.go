package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
)

// Profile is what Info measured.
type Profile struct {
	Name       string
	Rows       int
	Columns    []string
	NullCounts []int // aligned with Columns
	Duplicates int
	EmptyRows  int
	Stats      []frame.ColumnStats
	Memory     uint64
}

// Info prints a profile of f: duplicate and empty-row counts, a head
// preview, a structural summary, descriptive statistics and per-column
// null counts. f is not modified.
func (r *Reporter) Info(f *frame.Frame, name string) *Profile {
	if name == "" {
		name = DefaultName
	}
	p := &Profile{
		Name:       name,
		Rows:       f.NumRows(),
		Columns:    f.ColumnNames(),
		NullCounts: f.NullCounts(),
		Duplicates: countTrue(f.Duplicated()),
		EmptyRows:  countTrue(f.AllNullRows()),
		Stats:      f.Describe(),
		Memory:     f.MemoryUsage(),
	}

	r.printf("\n%s\n", banner("Info", name, 64))
	r.printf("---Duplicated values: %d\n", p.Duplicates)
	r.printf("---Fully empty rows: %d\n", p.EmptyRows)
	r.printf("\n---Dataframe head:\n%s", renderFrame(f.Head(r.opt.PreviewRows)))
	r.printf("\n---Dataframe info:\n\n%s", structure(f, p.Memory))
	r.printf("\n----Dataframe description:\n%s", describeGrid(p.Stats))
	r.printf("\n---Missing values:\n%s", missingList(p.Columns, p.NullCounts))
	return p
}

// Preview prints the shape of f and its first PreviewRows rows.
func (r *Reporter) Preview(f *frame.Frame) {
	r.printf("Shape: %d rows x %d columns\n", f.NumRows(), f.NumCols())
	r.printf("%s", renderFrame(f.Head(r.opt.PreviewRows)))
}

func countTrue(mask []bool) int {
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n
}

// renderFrame prints every row of f with its index label.
func renderFrame(f *frame.Frame) string {
	if f.NumRows() == 0 || f.NumCols() == 0 {
		return fmt.Sprintf("Empty DataFrame\nColumns: [%s]\nIndex: []\n", strings.Join(f.ColumnNames(), ", "))
	}
	g := grid{header: f.ColumnNames()}
	for _, idx := range f.Index() {
		g.labels = append(g.labels, strconv.Itoa(idx))
	}
	cols := f.Columns()
	for i := 0; i < f.NumRows(); i++ {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = c.Value(i).String()
		}
		g.rows = append(g.rows, row)
	}
	return g.String()
}

func kindLabel(c *frame.Column) string {
	if c.Kind == frame.KindNumeric && c.Integer {
		return "integer"
	}
	return c.Kind.String()
}

// structure lists each column's non-null count and kind, then a kind
// tally and the memory estimate.
func structure(f *frame.Frame, mem uint64) string {
	var b strings.Builder
	idx := f.Index()
	if len(idx) == 0 {
		b.WriteString("Index: 0 entries\n")
	} else {
		fmt.Fprintf(&b, "Index: %d entries, %d to %d\n", len(idx), idx[0], idx[len(idx)-1])
	}
	cols := f.Columns()
	fmt.Fprintf(&b, "Data columns (total %d columns):\n", len(cols))

	numW, nameW, countW := len("#"), len("Column"), len("Non-Null Count")
	counts := make([]string, len(cols))
	for i, c := range cols {
		counts[i] = fmt.Sprintf("%d non-null", c.NonNullCount())
		numW = max(numW, len(strconv.Itoa(i)))
		nameW = max(nameW, utf8.RuneCountInString(safeVal(c.Name)))
		countW = max(countW, len(counts[i]))
	}
	fmt.Fprintf(&b, " %s  %s  %s  Kind\n", padRight("#", numW), padRight("Column", nameW), padRight("Non-Null Count", countW))
	fmt.Fprintf(&b, " %s  %s  %s  ----\n", strings.Repeat("-", numW), strings.Repeat("-", nameW), strings.Repeat("-", countW))
	tally := map[string]int{}
	for i, c := range cols {
		kind := kindLabel(c)
		tally[kind]++
		fmt.Fprintf(&b, " %s  %s  %s  %s\n", padRight(strconv.Itoa(i), numW), padRight(safeVal(c.Name), nameW), padRight(counts[i], countW), kind)
	}
	kinds := make([]string, 0, len(tally))
	for k := range tally {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s(%d)", k, tally[k])
	}
	fmt.Fprintf(&b, "kinds: %s\n", strings.Join(parts, ", "))
	fmt.Fprintf(&b, "memory usage: %s\n", humanize.Bytes(mem))
	return b.String()
}

func describeGrid(stats []frame.ColumnStats) string {
	if len(stats) == 0 {
		return "Empty DataFrame\n"
	}
	g := grid{}
	for _, s := range stats {
		g.header = append(g.header, s.Name)
	}
	if stats[0].Numeric {
		g.labels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}
		for _, pick := range []func(frame.ColumnStats) float64{
			func(s frame.ColumnStats) float64 { return float64(s.Count) },
			func(s frame.ColumnStats) float64 { return s.Mean },
			func(s frame.ColumnStats) float64 { return s.Std },
			func(s frame.ColumnStats) float64 { return s.Min },
			func(s frame.ColumnStats) float64 { return s.Q25 },
			func(s frame.ColumnStats) float64 { return s.Q50 },
			func(s frame.ColumnStats) float64 { return s.Q75 },
			func(s frame.ColumnStats) float64 { return s.Max },
		} {
			row := make([]string, len(stats))
			for j, s := range stats {
				row[j] = fixed6(pick(s))
			}
			g.rows = append(g.rows, row)
		}
		return g.String()
	}
	g.labels = []string{"count", "unique", "top", "freq"}
	rows := [4][]string{}
	for _, s := range stats {
		top := s.Top
		if s.Count == 0 {
			top = "NaN"
		}
		rows[0] = append(rows[0], strconv.Itoa(s.Count))
		rows[1] = append(rows[1], strconv.Itoa(s.Unique))
		rows[2] = append(rows[2], top)
		rows[3] = append(rows[3], strconv.Itoa(s.Freq))
	}
	g.rows = rows[:]
	return g.String()
}

func fixed6(x float64) string {
	if math.IsNaN(x) {
		return "NaN"
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func missingList(names []string, nulls []int) string {
	nameW := 0
	for _, n := range names {
		nameW = max(nameW, utf8.RuneCountInString(safeVal(n)))
	}
	var b strings.Builder
	for i, n := range names {
		fmt.Fprintf(&b, "%s    %d\n", padRight(safeVal(n), nameW), nulls[i])
	}
	return b.String()
}
