// Package loader reads tabular files into frames, choosing the reader from
// the file suffix.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
)

// ErrUnsupported indicates a file suffix no reader handles.
var ErrUnsupported = errors.New("unsupported file format")

// Load reads path with the reader its suffix selects.
func Load(ctx context.Context, path string, opt Options) (*frame.Frame, Format, error) {
	format := DetectFormat(path)
	slog.Debug("detected format", "path", path, "format", format.String())

	var (
		f   *frame.Frame
		err error
	)
	switch format {
	case FormatCSV:
		f, err = readDelimited(path, ',', opt)
	case FormatTSV:
		f, err = readDelimited(path, '\t', opt)
	case FormatJSONGzip:
		f, err = readLines(path, true, decodeJSONLine, opt)
	case FormatJSON:
		f, err = readLines(path, false, decodeJSONLine, opt)
	case FormatLiteralGzip:
		f, err = readLines(path, true, decodeLiteralLine, opt)
	case FormatParquet:
		f, err = readParquet(ctx, path)
	case FormatXLSX:
		f, err = readXLSX(path, opt)
	case FormatSQLite:
		f, err = readSQLite(ctx, path, opt)
	default:
		return nil, format, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	if err != nil {
		return nil, format, err
	}
	slog.Debug("loaded table", "path", path, "rows", f.NumRows(), "columns", f.NumCols())
	return f, format, nil
}

// Extract loads path and reports the outcome on w. It never fails: on any
// error it writes a message and returns nil.
func Extract(ctx context.Context, w io.Writer, path string, opt Options) *frame.Frame {
	f, format, err := Load(ctx, path, opt)
	switch {
	case errors.Is(err, ErrUnsupported):
		fmt.Fprintf(w, "Unsupported file format: %s\n", path)
		return nil
	case err != nil:
		fmt.Fprintf(w, "Error during extraction: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "%s data extraction successful.\n", format)
	return f
}
