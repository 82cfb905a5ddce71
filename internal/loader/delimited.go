package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
)

// ErrNoColumns is returned for text sources without a header row.
var ErrNoColumns = errors.New("no columns to parse from file")

func readDelimited(path string, delim rune, opt Options) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	if opt.Delimiter != 0 {
		delim = opt.Delimiter
	}
	src, err := opt.decode(f)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoColumns
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return frame.FromStrings(header, rows, opt.parseOptions())
}
