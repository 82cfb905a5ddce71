package loader

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	pqfile "github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
)

func readParquet(ctx context.Context, path string) (*frame.Frame, error) {
	pqReader, err := pqfile.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("create arrow reader: %w", err)
	}
	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	defer table.Release()

	ncol := int(table.NumCols())
	names := make([]string, ncol)
	values := make([][]any, ncol)
	for j := 0; j < ncol; j++ {
		col := table.Column(j)
		names[j] = col.Name()
		vals := make([]any, 0, table.NumRows())
		for _, chunk := range col.Data().Chunks() {
			for i := 0; i < chunk.Len(); i++ {
				vals = append(vals, arrowValue(chunk, i))
			}
		}
		values[j] = vals
	}
	return frame.FromColumns(names, values)
}

// arrowValue converts one array slot to a Go scalar the frame package types.
func arrowValue(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(i)
	case *array.Int8:
		return a.Value(i)
	case *array.Int16:
		return a.Value(i)
	case *array.Int32:
		return a.Value(i)
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return a.Value(i)
	case *array.Uint16:
		return a.Value(i)
	case *array.Uint32:
		return a.Value(i)
	case *array.Uint64:
		return a.Value(i)
	case *array.Float32:
		return a.Value(i)
	case *array.Float64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Binary:
		return string(a.Value(i))
	case *array.Date32:
		return a.Value(i).ToTime()
	case *array.Date64:
		return a.Value(i).ToTime()
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit)
	default:
		return arr.ValueStr(i)
	}
}
