// Package export renders shopping lists as spreadsheet workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/emberforge/craftcost/internal/shoplist"
)

const (
	sheetName = "Shopping List"

	colItem      = "A"
	colQuantity  = "B"
	colUnitPrice = "C"
	colLineCost  = "D"
)

// WriteWorkbook renders shopping list lines into an xlsx workbook and
// writes it to w. Lines keep their aggregation order; a total row closes
// the sheet.
func WriteWorkbook(w io.Writer, identifier string, lines []shoplist.Line) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetName)

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", identifier); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}

	headings := map[string]string{
		colItem:      "Item",
		colQuantity:  "Quantity",
		colUnitPrice: "Unit Price (g)",
		colLineCost:  "Line Cost (g)",
	}
	for col, title := range headings {
		cell := col + "2"
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return fmt.Errorf("failed to write heading: %w", err)
		}
	}
	if err := f.SetCellStyle(sheetName, colItem+"1", colLineCost+"2", header); err != nil {
		return fmt.Errorf("failed to style headings: %w", err)
	}

	row := 3
	for _, line := range lines {
		cells := map[string]interface{}{
			colItem:      line.Name,
			colQuantity:  line.Quantity,
			colUnitPrice: line.UnitPrice,
			colLineCost:  line.LineCost,
		}
		for col, value := range cells {
			if err := f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), value); err != nil {
				return fmt.Errorf("failed to write line %d: %w", row, err)
			}
		}
		row++
	}

	if err := f.SetCellValue(sheetName, fmt.Sprintf("%s%d", colItem, row), "Total"); err != nil {
		return fmt.Errorf("failed to write total label: %w", err)
	}
	if err := f.SetCellValue(sheetName, fmt.Sprintf("%s%d", colLineCost, row), shoplist.Total(lines)); err != nil {
		return fmt.Errorf("failed to write total: %w", err)
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("%s%d", colItem, row), fmt.Sprintf("%s%d", colLineCost, row), header); err != nil {
		return fmt.Errorf("failed to style total row: %w", err)
	}

	if err := f.SetColWidth(sheetName, colItem, colItem, 36); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
