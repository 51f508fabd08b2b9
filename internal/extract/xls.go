package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/extrame/xls"
)

// XLSExtractor reads legacy Excel statement exports; each sheet with any
// content becomes one table.
type XLSExtractor struct{}

// Format returns the extractor name.
func (e *XLSExtractor) Format() string { return "xls" }

// Extract walks every sheet row by row. Empty cells are kept as empty
// strings so column positions stay stable.
func (e *XLSExtractor) Extract(ctx context.Context, path string) ([]Table, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("opening workbook: %w", err)}
	}

	var tables []Table
	for i := 0; i < wb.NumSheets(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells[c] = strings.TrimSpace(row.Col(c))
			}
			rows = append(rows, cells)
		}
		if len(rows) > 0 {
			tables = append(tables, Table{Page: i, Rows: rows})
		}
	}
	return tables, nil
}
