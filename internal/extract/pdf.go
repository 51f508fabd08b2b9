package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

// PDFExtractor detects tables in the text layout of a PDF. It shells out to
// pdftotext -layout and reconstructs the grid from column gaps, which handles
// the ruled ("lattice") statement layouts banks emit. Scanned documents have
// no text layer and simply yield zero tables.
type PDFExtractor struct {
	// Command is the pdftotext binary; overridable for tests.
	Command string
}

// NewPDFExtractor returns a PDFExtractor using the pdftotext on PATH.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{Command: "pdftotext"}
}

// Format returns the extractor name.
func (e *PDFExtractor) Format() string { return "pdf" }

// Extract converts the PDF to layout-preserving text and detects tables per
// page. Tables continuing across a page break are concatenated in page order.
func (e *PDFExtractor) Extract(ctx context.Context, path string) ([]Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}

	cmd := exec.CommandContext(ctx, e.Command, "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("pdftotext: %w", err)}
	}
	return tablesFromText(string(out)), nil
}

// cellGap splits layout text into cells on runs of two or more spaces.
var cellGap = regexp.MustCompile(`\s{2,}`)

// tablesFromText detects grid regions in layout-preserving text. A table is
// a run of consecutive lines that each split into at least two cells; blank
// lines and prose end it. Pages are separated by form feeds.
func tablesFromText(text string) []Table {
	var tables []Table
	for page, pageText := range strings.Split(text, "\f") {
		var current [][]string
		flush := func() {
			if len(current) > 0 {
				tables = append(tables, Table{Page: page, Rows: current})
				current = nil
			}
		}
		for _, line := range strings.Split(pageText, "\n") {
			cells := splitLine(line)
			if len(cells) < 2 {
				flush()
				continue
			}
			current = append(current, cells)
		}
		flush()
	}
	return mergePageSpans(tables)
}

func splitLine(line string) []string {
	line = strings.TrimRight(line, " \t\r")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	cells := cellGap.Split(strings.TrimLeft(line, " \t"), -1)
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// mergePageSpans joins a table ending one page with the table opening the
// next when their widths match, so a statement grid spanning pages comes
// back as one table.
func mergePageSpans(tables []Table) []Table {
	var merged []Table
	for _, t := range tables {
		if n := len(merged); n > 0 {
			prev := &merged[n-1]
			if t.Page == prev.Page+1 && width(t) == width(*prev) {
				prev.Rows = append(prev.Rows, t.Rows...)
				prev.Page = t.Page
				continue
			}
		}
		merged = append(merged, t)
	}
	return merged
}

func width(t Table) int {
	w := 0
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
