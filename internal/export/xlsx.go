package export

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// writeSheet builds a single-sheet workbook from a string grid and returns
// its bytes.
func writeSheet(name string, grid [][]string) ([]byte, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(name)
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	for _, cells := range grid {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "export: write workbook")
	}
	return buf.Bytes(), nil
}
