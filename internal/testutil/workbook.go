// workbook.go - Test helpers for building .xlsx roster fixtures
package testutil

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes rows to the first sheet of a new .xlsx file at path.
// Each row is a slice of cell values starting at column A.
func WriteWorkbook(path string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	return f.SaveAs(path)
}
