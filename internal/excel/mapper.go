package excel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/salesboard/salesboard/internal/dates"
	"github.com/salesboard/salesboard/internal/models"
)

// ErrEmptySheet is returned when the first sheet has no data rows.
var ErrEmptySheet = errors.New("spreadsheet is empty")

// RowError reports a validation failure for one spreadsheet row. Row is
// the row number as the user sees it in their spreadsheet program, so
// the first data row after the header reports as row 2.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// columnSynonyms maps normalized column headers to canonical sale fields.
// Headers outside this table are ignored.
var columnSynonyms = map[string]string{
	"product name":  "productName",
	"productname":   "productName",
	"product":       "productName",
	"category":      "category",
	"quantity sold": "quantitySold",
	"quantitysold":  "quantitySold",
	"quantity":      "quantitySold",
	"revenue":       "revenue",
	"sales date":    "salesDate",
	"salesdate":     "salesDate",
	"date":          "salesDate",
}

var requiredFields = []string{"productName", "category", "quantitySold", "revenue", "salesDate"}

// ParseFile reads the first sheet of an .xlsx or legacy .xls workbook
// and maps it into validated sale inputs. The file is removed
// afterwards regardless of outcome; uploads are temporary artifacts.
func ParseFile(path string) ([]models.SaleInput, []RowError, error) {
	defer os.Remove(path)

	var rows [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		rows, err = readXLS(path)
	} else {
		rows, err = readXLSX(path)
	}
	if err != nil {
		return nil, nil, err
	}

	return MapRows(rows)
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return rows, nil
}

// readXLS reads a legacy BIFF workbook. excelize only understands the
// OOXML container, so .xls uploads go through a separate reader.
func readXLS(path string) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptySheet
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}

	return rows, nil
}

// MapRows converts raw sheet rows (header row first) into validated sale
// inputs. The contract is all-or-nothing: if any row fails validation,
// no inputs are returned and every failing row is reported, in input
// order, so the user can fix the whole spreadsheet in one pass.
func MapRows(rows [][]string) ([]models.SaleInput, []RowError, error) {
	if len(rows) < 2 {
		return nil, nil, ErrEmptySheet
	}

	// Resolve which column index feeds which canonical field.
	fieldCols := make(map[string]int)
	for i, header := range rows[0] {
		normalized := strings.ToLower(strings.TrimSpace(header))
		if field, ok := columnSynonyms[normalized]; ok {
			fieldCols[field] = i
		}
	}

	var sales []models.SaleInput
	var rowErrors []RowError

	for i, row := range rows[1:] {
		// Row number as shown in the spreadsheet: 1-indexed plus header.
		rowNum := i + 2

		raw := make(map[string]string, len(requiredFields))
		for field, col := range fieldCols {
			if col < len(row) {
				raw[field] = strings.TrimSpace(row[col])
			}
		}

		var missing []string
		for _, field := range requiredFields {
			if raw[field] == "" {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			rowErrors = append(rowErrors, RowError{
				Row:   rowNum,
				Error: "Missing fields: " + strings.Join(missing, ", "),
			})
			continue
		}

		quantity, err := ParseNumber(raw["quantitySold"])
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}

		revenue, err := ParseNumber(raw["revenue"])
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}

		salesDate, err := ParseDate(raw["salesDate"])
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}

		if quantity < 0 {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Error: "Quantity sold cannot be negative"})
			continue
		}
		if revenue < 0 {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Error: "Revenue cannot be negative"})
			continue
		}

		sales = append(sales, models.SaleInput{
			ProductName:  raw["productName"],
			Category:     raw["category"],
			QuantitySold: quantity,
			Revenue:      revenue,
			SalesDate:    salesDate,
		})
	}

	if len(rowErrors) > 0 {
		return nil, rowErrors, nil
	}

	return sales, nil, nil
}

// currencyStripper removes currency symbols, thousands separators and
// whitespace before numeric parsing.
var currencyStripper = strings.NewReplacer("$", "", "₹", "", "€", "", "£", "", ",", "", " ", "")

// ParseNumber coerces a raw cell value into a number, tolerating
// currency formatting such as "₹1,20,000" or "$ 499.99".
func ParseNumber(raw string) (float64, error) {
	cleaned := currencyStripper.Replace(strings.TrimSpace(raw))
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("Invalid number: %s", raw)
	}
	return n, nil
}

// serialEpoch is the spreadsheet 1900 date system epoch. Serial 1 is
// 1899-12-31, with the off-by-two quirk of the fictitious 1900 leap day
// already accounted for by anchoring at Dec 30.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// minDateSerial rejects implausibly small serials: a stray "15" in the
// date column is a typo, not a day in January 1900. Serial 1000 is
// late 1902, well before any plausible sales data.
const minDateSerial = 1000

// ParseDate coerces a raw cell value into a calendar date. Cells may
// hold a formatted date string or a numeric spreadsheet date serial.
func ParseDate(raw string) (time.Time, error) {
	if t, err := dates.Parse(raw); err == nil {
		return t, nil
	}

	if serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && serial >= minDateSerial {
		days := int(serial)
		frac := serial - float64(days)
		t := serialEpoch.AddDate(0, 0, days)
		return t.Add(time.Duration(frac * float64(24*time.Hour))), nil
	}

	return time.Time{}, fmt.Errorf("Invalid date: %s", raw)
}
