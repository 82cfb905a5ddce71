package analysis

import "github.com/KaramelBytes/datakit-cli/internal/frame"

// CleanResult reports what Clean changed.
type CleanResult struct {
	RowsBefore int
	RowsAfter  int
	Duplicates int
	// MissingValues is the null cell count after de-duplication, measured
	// before empty rows are dropped. It is what the report prints.
	MissingValues int
	// EmptyRowsDropped is the number of all-null rows actually removed.
	EmptyRowsDropped int
}

// Clean removes duplicate rows (keeping the first), then rows where every
// column is null, then resets the index. f is modified in place.
func (r *Reporter) Clean(f *frame.Frame, name string) *CleanResult {
	res := &CleanResult{RowsBefore: f.NumRows()}
	r.printf("\n%s\n", banner("Cleaning", name, 60))

	res.Duplicates = f.DropRows(f.Duplicated())
	r.printf("%d duplicate rows removed.\n", res.Duplicates)

	res.MissingValues = f.TotalNulls()
	res.EmptyRowsDropped = f.DropRows(f.AllNullRows())
	r.printf("%d missing values removed.\n", res.MissingValues)

	f.ResetIndex()
	r.printf("Index reset.\n")
	res.RowsAfter = f.NumRows()
	return res
}
