package loader

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/klauspost/compress/gzip"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func mustLoad(t *testing.T, path string, opt Options) (*frame.Frame, Format) {
	t.Helper()
	f, format, err := Load(context.Background(), path, opt)
	if err != nil {
		t.Fatalf("Load(%s): %v", filepath.Base(path), err)
	}
	return f, format
}

func column(t *testing.T, f *frame.Frame, name string) *frame.Column {
	t.Helper()
	c, ok := f.Column(name)
	if !ok {
		t.Fatalf("missing column %q (have %v)", name, f.ColumnNames())
	}
	return c
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"a.csv":          FormatCSV,
		"DATA.CSV":       FormatCSV,
		"a.tsv":          FormatTSV,
		"a.json.gz":      FormatJSONGzip,
		"a.json":         FormatJSON,
		"dump.ast.gz":    FormatLiteralGzip,
		"a.parquet":      FormatParquet,
		"book.xlsx":      FormatXLSX,
		"x.sqlite":       FormatSQLite,
		"x.sqlite3":      FormatSQLite,
		"x.db":           FormatSQLite,
		"a.txt":          FormatUnsupported,
		"a.gz":           FormatUnsupported,
		"a.csv.bak":      FormatUnsupported,
		"archive.tar.gz": FormatUnsupported,
	}
	for path, want := range cases {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "people.csv", []byte("name,age,city\nann,31,Oslo\nbob,,Rome\n\ncy,40,\n"))
	f, format := mustLoad(t, p, DefaultOptions())
	if format != FormatCSV {
		t.Fatalf("format = %v", format)
	}
	if f.NumRows() != 3 || f.NumCols() != 3 {
		t.Fatalf("shape = %dx%d, want 3x3", f.NumRows(), f.NumCols())
	}
	age := column(t, f, "age")
	if age.Kind != frame.KindNumeric || !age.IsNull(1) {
		t.Fatalf("age kind=%v null[1]=%v", age.Kind, age.IsNull(1))
	}
	if column(t, f, "city").NullCount() != 1 {
		t.Fatalf("city nulls = %d", column(t, f, "city").NullCount())
	}
}

func TestLoadTSVAndDelimiterOverride(t *testing.T) {
	p := writeFile(t, "t.tsv", []byte("a\tb\n1\tx\n2\ty\n"))
	f, format := mustLoad(t, p, DefaultOptions())
	if format != FormatTSV || f.NumRows() != 2 || f.NumCols() != 2 {
		t.Fatalf("format=%v shape=%dx%d", format, f.NumRows(), f.NumCols())
	}

	p = writeFile(t, "semi.csv", []byte("a;b\n1,5;2\n"))
	opt := DefaultOptions()
	opt.Delimiter = ';'
	opt.DecimalSeparator = ','
	f, _ = mustLoad(t, p, opt)
	if x, ok := column(t, f, "a").Float(0); !ok || x != 1.5 {
		t.Fatalf("a[0] = %v %v, want 1.5", x, ok)
	}
}

func TestLoadCSVLatin1(t *testing.T) {
	p := writeFile(t, "l1.csv", []byte("name\ncaf\xe9\n"))
	opt := DefaultOptions()
	opt.Encoding = "latin1"
	f, _ := mustLoad(t, p, opt)
	if got := column(t, f, "name").Value(0).String(); got != "café" {
		t.Fatalf("name[0] = %q, want café", got)
	}

	opt.Encoding = "no-such-charset"
	if _, _, err := Load(context.Background(), p, opt); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}

func TestLoadCSVStripsBOM(t *testing.T) {
	p := writeFile(t, "bom.csv", []byte("\xef\xbb\xbfid,v\n1,2\n"))
	f, _ := mustLoad(t, p, DefaultOptions())
	column(t, f, "id")
}

func TestLoadJSONLines(t *testing.T) {
	src := `{"b": 1, "a": "x"}

{"a": "y", "c": {"k": [1, 2]}, "b": 2.5}
`
	p := writeFile(t, "rows.json", []byte(src))
	f, format := mustLoad(t, p, DefaultOptions())
	if format != FormatJSON {
		t.Fatalf("format = %v", format)
	}
	names := f.ColumnNames()
	if strings.Join(names, ",") != "b,a,c" {
		t.Fatalf("columns = %v, want b,a,c", names)
	}
	if f.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2 (blank line skipped)", f.NumRows())
	}
	if got := column(t, f, "c").Value(1).String(); got != `{"k":[1,2]}` {
		t.Fatalf("nested cell = %q", got)
	}
	if !column(t, f, "c").IsNull(0) {
		t.Fatalf("missing key should be null")
	}
}

func TestLoadJSONGzipArraysAndScalars(t *testing.T) {
	p := writeFile(t, "rows.json.gz", gzipBytes(t, "[1, \"a\"]\n[2, \"b\", true]\n"))
	f, format := mustLoad(t, p, DefaultOptions())
	if format != FormatJSONGzip {
		t.Fatalf("format = %v", format)
	}
	if strings.Join(f.ColumnNames(), ",") != "0,1,2" || f.NumRows() != 2 {
		t.Fatalf("columns = %v rows = %d", f.ColumnNames(), f.NumRows())
	}

	p = writeFile(t, "scalars.json", []byte("5\n6\n"))
	f, _ = mustLoad(t, p, DefaultOptions())
	if f.NumCols() != 1 || column(t, f, "0").Kind != frame.KindNumeric {
		t.Fatalf("scalar lines: %v", f.ColumnNames())
	}
}

func TestLoadJSONMalformed(t *testing.T) {
	p := writeFile(t, "bad.json", []byte("{\"a\": 1}\n{\"a\": \n"))
	_, _, err := Load(context.Background(), p, DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v, want line 2 failure", err)
	}
	p = writeFile(t, "trail.json", []byte("{\"a\": 1} x\n"))
	if _, _, err := Load(context.Background(), p, DefaultOptions()); err == nil {
		t.Fatalf("expected trailing data error")
	}
}

func TestLoadLiteralGzip(t *testing.T) {
	src := "{'id': 1, 'tags': ['a', 'b'], 'ok': True}\n{'id': 2, 'ok': None, 3: 'x'}\n"
	p := writeFile(t, "dump.ast.gz", gzipBytes(t, src))
	f, format := mustLoad(t, p, DefaultOptions())
	if format != FormatLiteralGzip {
		t.Fatalf("format = %v", format)
	}
	if strings.Join(f.ColumnNames(), ",") != "id,tags,ok,3" {
		t.Fatalf("columns = %v", f.ColumnNames())
	}
	if got := column(t, f, "tags").Value(0).String(); got != "['a', 'b']" {
		t.Fatalf("tags[0] = %q", got)
	}
	ok := column(t, f, "ok")
	if ok.Kind != frame.KindBool || !ok.IsNull(1) {
		t.Fatalf("ok kind=%v null[1]=%v", ok.Kind, ok.IsNull(1))
	}

	p = writeFile(t, "bad.ast.gz", gzipBytes(t, "{'a': foo}\n"))
	if _, _, err := Load(context.Background(), p, DefaultOptions()); err == nil {
		t.Fatalf("expected literal syntax error")
	}
	var out bytes.Buffer
	p = writeFile(t, "deep.ast.gz", gzipBytes(t, strings.Repeat("[", 1_000_000)+"\n"))
	if f := Extract(context.Background(), &out, p, DefaultOptions()); f != nil {
		t.Fatalf("expected nil for deeply nested line")
	}
	if got := out.String(); !strings.HasPrefix(got, "Error during extraction: line 1: ") || !strings.Contains(got, "nesting") {
		t.Fatalf("output = %q", got)
	}
	p = writeFile(t, "notgzip.ast.gz", []byte("{'a': 1}\n"))
	if _, _, err := Load(context.Background(), p, DefaultOptions()); err == nil {
		t.Fatalf("expected gzip error")
	}
}

func TestLoadParquet(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"a", "", "c"}, []bool{true, false, true})
	b.Field(2).(*array.Float64Builder).AppendValues([]float64{0.5, 1.5, 0}, []bool{true, true, false})
	rec := b.NewRecord()
	defer rec.Release()

	p := filepath.Join(t.TempDir(), "t.parquet")
	out, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w, err := pqarrow.NewFileWriter(schema, out, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	if err := w.Write(rec); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	_ = out.Close()

	f, format := mustLoad(t, p, DefaultOptions())
	if format != FormatParquet || f.NumRows() != 3 || f.NumCols() != 3 {
		t.Fatalf("format=%v shape=%dx%d", format, f.NumRows(), f.NumCols())
	}
	id := column(t, f, "id")
	if id.Kind != frame.KindNumeric || !id.Integer {
		t.Fatalf("id kind=%v integer=%v", id.Kind, id.Integer)
	}
	if !column(t, f, "name").IsNull(1) || !column(t, f, "score").IsNull(2) {
		t.Fatalf("nulls not preserved")
	}
}

func TestLoadXLSX(t *testing.T) {
	x := excelize.NewFile()
	if err := x.SetSheetRow("Sheet1", "A1", &[]any{"id", "name"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	if err := x.SetSheetRow("Sheet1", "A2", &[]any{1, "a"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	if err := x.SetSheetRow("Sheet1", "A3", &[]any{2, "b", "extra"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	if _, err := x.NewSheet("Other"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	if err := x.SetSheetRow("Other", "A1", &[]any{"only"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	if err := x.SetSheetRow("Other", "A2", &[]any{"z"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	p := filepath.Join(t.TempDir(), "book.xlsx")
	if err := x.SaveAs(p); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	_ = x.Close()

	f, format := mustLoad(t, p, DefaultOptions())
	if format != FormatXLSX || f.NumRows() != 2 || f.NumCols() != 3 {
		t.Fatalf("format=%v shape=%dx%d", format, f.NumRows(), f.NumCols())
	}
	if column(t, f, "id").Kind != frame.KindNumeric {
		t.Fatalf("id should be numeric")
	}
	column(t, f, "Unnamed: 2")

	opt := DefaultOptions()
	opt.SheetName = "Other"
	f, _ = mustLoad(t, p, opt)
	if strings.Join(f.ColumnNames(), ",") != "only" {
		t.Fatalf("columns = %v", f.ColumnNames())
	}
	opt = DefaultOptions()
	opt.SheetIndex = 2
	f, _ = mustLoad(t, p, opt)
	column(t, f, "only")

	opt.SheetIndex = 5
	if _, _, err := Load(context.Background(), p, opt); err == nil {
		t.Fatalf("expected out-of-range sheet error")
	}
}

func TestLoadSQLite(t *testing.T) {
	p := filepath.Join(t.TempDir(), "shop.sqlite")
	db, err := sql.Open("sqlite", p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	stmts := []string{
		`CREATE TABLE zeta (v TEXT)`,
		`CREATE TABLE items (id INTEGER, name TEXT, price REAL)`,
		`INSERT INTO items VALUES (1, 'pen', 1.5), (2, NULL, 2.0), (3, 'ink', NULL)`,
		`INSERT INTO zeta VALUES ('z')`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	_ = db.Close()

	f, format := mustLoad(t, p, DefaultOptions())
	if format != FormatSQLite || f.NumRows() != 3 || f.NumCols() != 3 {
		t.Fatalf("format=%v shape=%dx%d", format, f.NumRows(), f.NumCols())
	}
	if !column(t, f, "name").IsNull(1) || column(t, f, "price").NullCount() != 1 {
		t.Fatalf("nulls not preserved")
	}

	opt := DefaultOptions()
	opt.SQLiteTable = "zeta"
	f, _ = mustLoad(t, p, opt)
	column(t, f, "v")

	missing := filepath.Join(t.TempDir(), "missing.db")
	if _, _, err := Load(context.Background(), missing, DefaultOptions()); err == nil {
		t.Fatalf("expected error for missing database")
	}
	if _, err := os.Stat(missing); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("loading must not create %s", missing)
	}
}

func TestLoadUnsupported(t *testing.T) {
	_, format, err := Load(context.Background(), "notes.txt", DefaultOptions())
	if !errors.Is(err, ErrUnsupported) || format != FormatUnsupported {
		t.Fatalf("err = %v format = %v", err, format)
	}
}

func TestExtractMessages(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	p := writeFile(t, "ok.csv", []byte("a\n1\n"))
	if f := Extract(ctx, &out, p, DefaultOptions()); f == nil || f.NumRows() != 1 {
		t.Fatalf("Extract returned %v", f)
	}
	if got := out.String(); got != "CSV data extraction successful.\n" {
		t.Fatalf("output = %q", got)
	}

	out.Reset()
	if f := Extract(ctx, &out, "data.xml", DefaultOptions()); f != nil {
		t.Fatalf("expected nil for unsupported format")
	}
	if got := out.String(); got != "Unsupported file format: data.xml\n" {
		t.Fatalf("output = %q", got)
	}

	out.Reset()
	p = writeFile(t, "empty.csv", nil)
	if f := Extract(ctx, &out, p, DefaultOptions()); f != nil {
		t.Fatalf("expected nil for empty csv")
	}
	if !strings.HasPrefix(out.String(), "Error during extraction: ") {
		t.Fatalf("output = %q", out.String())
	}

	out.Reset()
	if f := Extract(ctx, &out, filepath.Join(t.TempDir(), "absent.parquet"), DefaultOptions()); f != nil {
		t.Fatalf("expected nil for missing file")
	}
	if !strings.HasPrefix(out.String(), "Error during extraction: ") {
		t.Fatalf("output = %q", out.String())
	}
}
