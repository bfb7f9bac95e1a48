package htmltable

import "github.com/tsawler/htmltable/model"

// RecordTransform post-processes a shaped record. Returning an error aborts
// the whole extraction; no partial table is returned.
type RecordTransform func(model.Record) (model.Record, error)

// formatRecord keys the row by header, when there is one, then applies fn.
func formatRecord(row []string, header []string, fn RecordTransform) (model.Record, error) {
	var record model.Record
	if len(header) == 0 {
		record = model.Positional(row...)
	} else {
		record = model.Keyed(header, row)
	}
	if fn == nil {
		return record, nil
	}
	return fn(record)
}
