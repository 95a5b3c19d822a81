// Package ingest turns raw PO spreadsheet exports into the canonical table.
package ingest

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/po-insight/internal/po"
)

// RawTable is a parsed spreadsheet before any normalization: free-form header
// text plus every cell rendered as a string.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// ReadXLSX parses the first sheet of an XLSX file on disk.
// Returns po.ParseError when the file is unreadable.
func ReadXLSX(path string) (*RawTable, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, &po.ParseError{Err: eris.Wrap(err, "ingest: open xlsx")}
	}
	return fromFile(f)
}

// ReadXLSXBytes parses the first sheet of an in-memory XLSX upload.
// Returns po.ParseError when the bytes are not a readable workbook.
func ReadXLSXBytes(b []byte) (*RawTable, error) {
	f, err := xlsx.OpenBinary(b)
	if err != nil {
		return nil, &po.ParseError{Err: eris.Wrap(err, "ingest: open xlsx bytes")}
	}
	return fromFile(f)
}

func fromFile(f *xlsx.File) (*RawTable, error) {
	if len(f.Sheets) == 0 {
		return nil, &po.ParseError{Err: eris.New("ingest: workbook has no sheets")}
	}
	sheet := f.Sheets[0]

	raw := &RawTable{}
	for i, row := range sheet.Rows {
		cells := rowToStrings(row)
		if i == 0 {
			raw.Headers = cells
			continue
		}
		raw.Rows = append(raw.Rows, cells)
	}
	if len(raw.Headers) == 0 {
		return nil, &po.ParseError{Err: eris.New("ingest: sheet has no header row")}
	}
	return raw, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
