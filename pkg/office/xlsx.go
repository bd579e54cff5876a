package office

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// writeXLSX writes one sheet per page, one row per line and one cell per
// word cluster
func writeXLSX(w io.Writer, pages [][]Line) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	for i, lines := range pages {
		sheet := fmt.Sprintf("Page %d", i+1)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		for row, l := range lines {
			for col, text := range l.Clusters() {
				cell, err := excelize.CoordinatesToCellName(col+1, row+1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, text); err != nil {
					return err
				}
			}
		}
	}
	if len(pages) == 0 {
		if err := f.SetSheetName("Sheet1", "Page 1"); err != nil {
			return err
		}
	}
	return f.Write(w)
}
