package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/scanworks/passport-scanner/internal/normalize"
)

// WriteXLSX renders records as an XLSX workbook. Numeric country codes are
// written as numbers, unmapped ones as text, so the spreadsheet side can
// tell them apart at a glance.
func WriteXLSX(records []normalize.NormalizedRecord) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Pasaportes"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet excelize creates.
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range records {
		for col, v := range rowValues(r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	// Widen the text-heavy columns
	_ = f.SetColWidth(sheet, "A", "B", 14) // ids
	_ = f.SetColWidth(sheet, "D", "E", 22) // names
	_ = f.SetColWidth(sheet, "F", "F", 32) // street
	_ = f.SetColWidth(sheet, "H", "H", 22) // locality
	_ = f.SetColWidth(sheet, "M", "M", 22) // birthplace
	_ = f.SetColWidth(sheet, "N", "N", 18) // profession

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
