package loader

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
)

// Options tunes how files are read. The zero value reads UTF-8 with the
// default missing-value tokens.
type Options struct {
	// Delimiter overrides the field separator for CSV and TSV; 0 keeps ',' or '\t'.
	Delimiter rune
	// Encoding names the text encoding of CSV, TSV and line formats. Empty
	// and "utf-8" read UTF-8, dropping a leading BOM. Other values are
	// WHATWG labels such as "latin1" or "windows-1250".
	Encoding string
	// MissingValues are the cell texts read as null. Nil uses the defaults.
	MissingValues []string
	// Numeric parsing locale for text formats.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// SheetName selects an XLSX sheet by name; it wins over SheetIndex.
	SheetName string
	// SheetIndex selects an XLSX sheet, 1-based. 0 means the first sheet.
	SheetIndex int
	// SQLiteTable names the table to read; empty picks the first user table by name.
	SQLiteTable string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

func (o Options) parseOptions() frame.ParseOptions {
	return frame.ParseOptions{
		MissingValues:      o.MissingValues,
		DecimalSeparator:   o.DecimalSeparator,
		ThousandsSeparator: o.ThousandsSeparator,
	}
}

// decode wraps r so that it yields UTF-8 text.
func (o Options) decode(r io.Reader) (io.Reader, error) {
	label := strings.ToLower(strings.TrimSpace(o.Encoding))
	switch label {
	case "", "utf-8", "utf8", "utf-8-sig", "utf8-sig":
		return transform.NewReader(r, unicode.BOMOverride(transform.Nop)), nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", o.Encoding, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
