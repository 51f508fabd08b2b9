package extract

import (
	"context"
	"encoding/csv"
	"os"
)

// CSVExtractor reads a whole CSV file as a single table.
type CSVExtractor struct{}

// Format returns the extractor name.
func (e *CSVExtractor) Format() string { return "csv" }

// Extract reads all records. Ragged rows are tolerated; a short row keeps
// its cells as-is and missing trailing cells read as empty downstream.
func (e *CSVExtractor) Extract(ctx context.Context, path string) ([]Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, nil
	}
	return []Table{{Rows: records}}, nil
}
