package testhelpers

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// EntitySheet builds an .xlsx file with header on row 1 and rows below it.
func EntitySheet(t *testing.T, header []string, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	const sheet = "Sheet1"

	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			t.Fatalf("header cell: %v", err)
		}
		if err = f.SetCellValue(sheet, cell, h); err != nil {
			t.Fatalf("set header cell: %v", err)
		}
	}
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				t.Fatalf("data cell: %v", err)
			}
			if err = f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write spreadsheet: %v", err)
	}
	return buf.Bytes()
}
