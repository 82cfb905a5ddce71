package analysis

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
)

func csvFrame(t *testing.T, header []string, rows ...[]string) *frame.Frame {
	t.Helper()
	f, err := frame.FromStrings(header, rows, frame.ParseOptions{})
	if err != nil {
		t.Fatalf("FromStrings: %v", err)
	}
	return f
}

func TestBanner(t *testing.T) {
	got := banner("Info", "sales data", 64)
	if !strings.HasPrefix(got, "---Info-sales-data-") {
		t.Fatalf("banner = %q", got)
	}
	// "---Info-" (8) + name (10) + dashes (64-10-10 = 44)
	if len(got) != 8+10+44 {
		t.Fatalf("banner length = %d", len(got))
	}
	long := strings.Repeat("x", 70)
	if got := banner("Cleaning", long, 60); got != "---Cleaning-"+long {
		t.Fatalf("long banner = %q", got)
	}
	if got := banner("Info", "", 64); !strings.HasPrefix(got, "---Info-"+DefaultName+"-") {
		t.Fatalf("default banner = %q", got)
	}
}

func TestCleanEndToEnd(t *testing.T) {
	f := csvFrame(t, []string{"a", "b"},
		[]string{"1", "x"},
		[]string{"1", "x"},
		[]string{"", ""},
		[]string{"2", ""},
	)
	var out bytes.Buffer
	res := New(&out, DefaultOptions()).Clean(f, "demo")
	if res.Duplicates != 1 || res.MissingValues != 3 || res.EmptyRowsDropped != 1 {
		t.Fatalf("result = %+v", res)
	}
	if f.NumRows() != 2 || res.RowsAfter != 2 || res.RowsBefore != 4 {
		t.Fatalf("rows = %d, result = %+v", f.NumRows(), res)
	}
	idx := f.Index()
	if len(idx) != 2 || idx[0] != 0 || idx[1] != 1 {
		t.Fatalf("index = %v, want [0 1]", idx)
	}
	s := out.String()
	for _, want := range []string{
		"\n---Cleaning-demo-",
		"1 duplicate rows removed.\n",
		"3 missing values removed.\n",
		"Index reset.\n",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("output missing %q:\n%s", want, s)
		}
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	f := csvFrame(t, []string{"a"}, []string{"1"}, []string{"1"}, []string{""}, []string{"3"})
	r := New(&bytes.Buffer{}, DefaultOptions())
	r.Clean(f, "")
	rows := f.NumRows()
	again := r.Clean(f, "")
	if again.Duplicates != 0 || again.EmptyRowsDropped != 0 || f.NumRows() != rows {
		t.Fatalf("second clean changed the frame: %+v rows=%d", again, f.NumRows())
	}
}

func TestStructureAlignsEscapedNames(t *testing.T) {
	name := "long\nname\nxx"
	f := csvFrame(t, []string{name, "b"}, []string{"x", ""})
	lines := strings.Split(structure(f, 0), "\n")
	var header, row string
	for _, l := range lines {
		switch {
		case strings.HasSuffix(l, "Kind"):
			header = l
		case strings.Contains(l, `long\nname\nxx`):
			row = l
		}
	}
	if header == "" || row == "" {
		t.Fatalf("structure:\n%s", strings.Join(lines, "\n"))
	}
	if got, want := strings.Index(row, "string"), strings.Index(header, "Kind"); got != want {
		t.Fatalf("kind column at %d, header at %d:\n%s\n%s", got, want, header, row)
	}

	got := missingList([]string{name, "b"}, []int{0, 1})
	want := "long\\nname\\nxx    0\nb                 1\n"
	if got != want {
		t.Fatalf("missingList = %q, want %q", got, want)
	}
}

func TestInfoSections(t *testing.T) {
	f := csvFrame(t, []string{"n", "s"},
		[]string{"1", "a"},
		[]string{"2", "b"},
		[]string{"2", "b"},
		[]string{"", ""},
		[]string{"4", "c"},
	)
	var out bytes.Buffer
	p := New(&out, DefaultOptions()).Info(f, "my frame")
	if p.Duplicates != 1 || p.EmptyRows != 1 || p.Rows != 5 {
		t.Fatalf("profile = %+v", p)
	}
	if p.NullCounts[0] != 1 || p.NullCounts[1] != 1 {
		t.Fatalf("null counts = %v", p.NullCounts)
	}
	s := out.String()
	order := []string{
		"\n---Info-my-frame-",
		"---Duplicated values: 1\n",
		"---Fully empty rows: 1\n",
		"\n---Dataframe head:\n",
		"\n---Dataframe info:\n\n",
		"Index: 5 entries, 0 to 4",
		"memory usage: ",
		"\n----Dataframe description:\n",
		"2.250000",
		"\n---Missing values:\n",
	}
	pos := 0
	for _, want := range order {
		i := strings.Index(s[pos:], want)
		if i < 0 {
			t.Fatalf("output missing %q after offset %d:\n%s", want, pos, s)
		}
		pos += i + len(want)
	}
	head := s[strings.Index(s, "---Dataframe head:"):strings.Index(s, "---Dataframe info:")]
	if strings.Contains(head, "\n3  ") {
		t.Fatalf("head shows more than 3 rows:\n%s", head)
	}
	if f.NumRows() != 5 {
		t.Fatalf("Info must not modify the frame")
	}
}

func TestInfoDescribeFallsBackToCategorical(t *testing.T) {
	f := csvFrame(t, []string{"s"}, []string{"a"}, []string{"b"}, []string{"a"})
	var out bytes.Buffer
	New(&out, DefaultOptions()).Info(f, "cats")
	s := out.String()
	desc := s[strings.Index(s, "----Dataframe description:"):]
	for _, want := range []string{"unique", "top", "freq"} {
		if !strings.Contains(desc, want) {
			t.Fatalf("description missing %q:\n%s", want, desc)
		}
	}
}

func TestColumnUnique(t *testing.T) {
	f := csvFrame(t, []string{"id", "c"},
		[]string{"1", "b"},
		[]string{"2", "a"},
		[]string{"3", "b"},
	)
	var out bytes.Buffer
	got := New(&out, DefaultOptions()).ColumnUnique(f)
	if len(got) != 2 || !got[0].AllDifferent || got[1].AllDifferent {
		t.Fatalf("summaries = %+v", got)
	}
	s := out.String()
	if !strings.Contains(s, "Column: id - All values are different\n") {
		t.Fatalf("output:\n%s", s)
	}
	if !strings.Contains(s, "Column: c - Unique values: a, b\n") {
		t.Fatalf("output:\n%s", s)
	}
	if strings.Count(s, strings.Repeat("-", 50)+"\n") != 2 {
		t.Fatalf("want one separator per column:\n%s", s)
	}
}

func TestColumnUniqueSortsNullAsText(t *testing.T) {
	f := csvFrame(t, []string{"c"},
		[]string{"b"},
		[]string{""},
		[]string{"Zed"},
		[]string{"b"},
	)
	var out bytes.Buffer
	got := New(&out, DefaultOptions()).ColumnUnique(f)
	if len(got) != 1 || got[0].Distinct != 3 {
		t.Fatalf("summaries = %+v", got)
	}
	if !strings.Contains(out.String(), "Column: c - Unique values: Zed, b, nan\n") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestUniqueCountTruncates(t *testing.T) {
	var rows [][]string
	for i := 0; i < 12; i++ {
		rows = append(rows, []string{string(rune('a' + i))})
	}
	rows = append(rows, []string{"a"}, []string{""})
	f := csvFrame(t, []string{"v"}, rows...)

	var out bytes.Buffer
	rep := New(&out, DefaultOptions()).UniqueCount(f, "v")
	if !rep.Truncated || len(rep.Entries) != 10 || rep.Distinct != 12 || rep.Total != 13 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.Entries[0].Value != "a" || rep.Entries[0].Count != 2 {
		t.Fatalf("first entry = %+v", rep.Entries[0])
	}
	s := out.String()
	if !strings.Contains(s, "(total 13) - Showing only the first 10 values:\n") {
		t.Fatalf("output:\n%s", s)
	}
	if n := strings.Count(s, " times ("); n != 10 {
		t.Fatalf("listed %d values, want 10", n)
	}
	if !strings.Contains(s, "a: 2 times (15.38%)\n") {
		t.Fatalf("output:\n%s", s)
	}
}

func TestUniqueCountAllSumsToHundred(t *testing.T) {
	var rows [][]string
	for i := 0; i < 15; i++ {
		rows = append(rows, []string{string(rune('a' + i%13))})
	}
	f := csvFrame(t, []string{"v"}, rows...)
	var out bytes.Buffer
	rep := New(&out, DefaultOptions()).UniqueCountAll(f, "v")
	if rep.Truncated || len(rep.Entries) != 13 {
		t.Fatalf("report = %+v", rep)
	}
	sum := 0.0
	for _, e := range rep.Entries {
		sum += e.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percent sum = %v", sum)
	}
	if !strings.Contains(out.String(), "\nUnique values in 'v' (total 15):\n") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestUniqueCountList(t *testing.T) {
	f := csvFrame(t, []string{"n", "s"},
		[]string{"3", "b"},
		[]string{"1", "a"},
		[]string{"2", "a"},
		[]string{"1", ""},
	)
	var out bytes.Buffer
	r := New(&out, DefaultOptions())
	rep := r.UniqueCountList(f, "n")
	if strings.Join(rep.Values, ",") != "1,2,3" {
		t.Fatalf("numeric values = %v", rep.Values)
	}
	if !strings.Contains(out.String(), "\nTotal unique values in 'n': 3\nUnique values in order:\n1\n2\n3\n") {
		t.Fatalf("output:\n%s", out.String())
	}
	rep = r.UniqueCountList(f, "s")
	if strings.Join(rep.Values, ",") != "a,b" {
		t.Fatalf("string values = %v", rep.Values)
	}

	g := csvFrame(t, []string{"n"}, []string{"10"}, []string{"9"})
	if rep := r.UniqueCountList(g, "n"); strings.Join(rep.Values, ",") != "9,10" {
		t.Fatalf("numbers must sort numerically: %v", rep.Values)
	}
}

func TestReportersMissingColumn(t *testing.T) {
	f := csvFrame(t, []string{"a"}, []string{"1"})
	const msg = "Column 'zz' does not exist in the DataFrame.\n"
	for name, run := range map[string]func(r *Reporter) bool{
		"count": func(r *Reporter) bool { return r.UniqueCount(f, "zz") == nil },
		"all":   func(r *Reporter) bool { return r.UniqueCountAll(f, "zz") == nil },
		"list":  func(r *Reporter) bool { return r.UniqueCountList(f, "zz") == nil },
	} {
		var out bytes.Buffer
		if !run(New(&out, DefaultOptions())) {
			t.Fatalf("%s: expected nil result", name)
		}
		if out.String() != msg {
			t.Fatalf("%s: output = %q", name, out.String())
		}
	}
}
