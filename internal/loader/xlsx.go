package loader

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
)

// readXLSX reads one sheet; its first row is the header. Data wider than
// the header gets unnamed columns.
func readXLSX(path string, opt Options) (*frame.Frame, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f, opt)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoColumns
	}
	header := rows[0]
	width := len(header)
	for _, r := range rows[1:] {
		if len(r) > width {
			width = len(r)
		}
	}
	for len(header) < width {
		header = append(header, "")
	}
	if width == 0 {
		return nil, ErrNoColumns
	}
	return frame.FromStrings(header, rows[1:], opt.parseOptions())
}

func pickSheet(f *excelize.File, opt Options) (string, error) {
	if opt.SheetName != "" {
		if idx, err := f.GetSheetIndex(opt.SheetName); err != nil || idx < 0 {
			return "", fmt.Errorf("sheet %q not found", opt.SheetName)
		}
		return opt.SheetName, nil
	}
	sheets := f.GetSheetList()
	idx := opt.SheetIndex
	if idx == 0 {
		idx = 1
	}
	if idx < 1 || idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))
	}
	return sheets[idx-1], nil
}
