package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateFilename is the suggested download name for the template.
const TemplateFilename = "sales_import_template.xlsx"

// templateColumns are the canonical headers in their display form. Each
// one resolves through the synonym table on import.
var templateColumns = []interface{}{
	"Product Name", "Category", "Quantity Sold", "Revenue", "Sales Date",
}

var templateSamples = [][]interface{}{
	{"Laptop", "Electronics", 15, 120000, "2025-10-05"},
	{"Headphones", "Accessories", 40, 40000, "2025-10-08"},
}

// BuildTemplate generates the import template workbook: a single sheet
// with the five canonical columns and sample rows.
func BuildTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &templateColumns); err != nil {
		return nil, fmt.Errorf("failed to write template header: %w", err)
	}

	for i, sample := range templateSamples {
		cell := fmt.Sprintf("A%d", i+2)
		row := sample
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write sample row %d: %w", i+2, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "E1", bold)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize template: %w", err)
	}

	return buf, nil
}
