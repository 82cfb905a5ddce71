package loader

import "strings"

// Format identifies a supported input layout. The set is closed.
type Format int

const (
	FormatUnsupported Format = iota
	FormatCSV
	FormatTSV
	FormatJSONGzip
	FormatJSON
	FormatLiteralGzip
	FormatParquet
	FormatXLSX
	FormatSQLite
)

// String returns the name used in extraction messages.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "CSV"
	case FormatTSV:
		return "TSV"
	case FormatJSONGzip:
		return "Gzip JSON"
	case FormatJSON:
		return "JSON"
	case FormatLiteralGzip:
		return "AST Gzip"
	case FormatParquet:
		return "Parquet"
	case FormatXLSX:
		return "XLSX"
	case FormatSQLite:
		return "SQLite"
	default:
		return "unsupported"
	}
}

// suffixes is checked in order; the first match wins, so ".json.gz" must
// precede ".json".
var suffixes = []struct {
	suffix string
	format Format
}{
	{".csv", FormatCSV},
	{".tsv", FormatTSV},
	{".json.gz", FormatJSONGzip},
	{".json", FormatJSON},
	{".ast.gz", FormatLiteralGzip},
	{".parquet", FormatParquet},
	{".xlsx", FormatXLSX},
	{".sqlite", FormatSQLite},
	{".sqlite3", FormatSQLite},
	{".db", FormatSQLite},
}

// DetectFormat picks the format from the path suffix, ignoring case.
func DetectFormat(path string) Format {
	name := strings.ToLower(path)
	for _, s := range suffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.format
		}
	}
	return FormatUnsupported
}
