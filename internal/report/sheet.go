// =============================================================================
// Kebab Dashboard - Spreadsheet Report
// =============================================================================
//
// The spreadsheet lists the raw transaction records (one row per record, not
// per grouped order). Layout of the single "Laporan" sheet:
//
//   Row 1     | Laporan Transaksi                         (merged A:G)
//   Row 2     | Tanggal: 2024-01-01 / Semua Tanggal
//   Row 3     | Dicetak: 2024-01-01 12:00
//   Row 4     | (blank)
//   Row 5     | No | ID | Waktu | Pelanggan | Produk | Jumlah | Total
//   Row 6..n  | one row per record
//   Row n+1   | TOTAL |    |       |           |        | qty    | revenue
//
// ReadSpreadsheet parses the data rows back, skipping the title block and
// the totals row, so exports can be verified and re-imported.
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/kebab-dashboard/internal/aggregator"
	"github.com/ginjaninja78/kebab-dashboard/internal/transaction"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the report sheet.
const SheetName = "Laporan"

// SheetHeader is the header row of the data table.
var SheetHeader = []string{"No", "ID", "Waktu", "Pelanggan", "Produk", "Jumlah", "Total"}

// totalsMarker is the first cell of the totals row.
const totalsMarker = "TOTAL"

// =============================================================================
// SHEET STRUCTURES
// =============================================================================

// SheetRow is one record in the spreadsheet.
type SheetRow struct {
	ID       string
	Time     string
	Customer string
	Product  string
	Quantity int
	Total    decimal.Decimal
}

// Sheet is the computed content of the spreadsheet.
type Sheet struct {
	Title     string
	Label     string
	Generated string

	Rows []SheetRow

	TotalQuantity int
	TotalRevenue  decimal.Decimal
}

// TitleBlock returns the rows written above the header.
func (s Sheet) TitleBlock() [][]interface{} {
	return [][]interface{}{
		{s.Title},
		{s.Label},
		{"Dicetak: " + s.Generated},
		{},
	}
}

// =============================================================================
// BUILDING
// =============================================================================

// BuildSheet produces one row per record plus the totals, with times in loc.
func BuildSheet(records []transaction.Record, summary aggregator.Summary, day *aggregator.Day, now time.Time, loc *time.Location) Sheet {
	sheet := Sheet{
		Title:        ReportTitle,
		Label:        DateLabel(day),
		Generated:    inZone(now, loc).Format("2006-01-02 15:04"),
		Rows:         make([]SheetRow, 0, len(records)),
		TotalRevenue: summary.Revenue,
	}

	for _, r := range records {
		sheet.Rows = append(sheet.Rows, SheetRow{
			ID:       r.ID,
			Time:     formatTime(r, loc),
			Customer: r.Customer,
			Product:  r.Product.Display(),
			Quantity: r.Quantity,
			Total:    r.Total,
		})
		sheet.TotalQuantity += r.Quantity
	}

	return sheet
}

// =============================================================================
// XLSX OUTPUT
// =============================================================================

// WriteSpreadsheet renders the sheet as an XLSX workbook.
func WriteSpreadsheet(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Border: thinBorder(),
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3, Border: thinBorder()})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 3, Border: thinBorder()})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	row := 1
	for _, values := range sheet.TitleBlock() {
		if err := setRow(f, row, values); err != nil {
			return err
		}
		row++
	}
	if err := f.MergeCell(SheetName, "A1", lastColumn()+"1"); err != nil {
		return fmt.Errorf("failed to merge title: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "A1", titleStyle); err != nil {
		return fmt.Errorf("failed to style title: %w", err)
	}

	header := make([]interface{}, len(SheetHeader))
	for i, h := range SheetHeader {
		header[i] = h
	}
	if err := setRow(f, row, header); err != nil {
		return err
	}
	if err := styleRow(f, row, headerStyle); err != nil {
		return err
	}
	row++

	for i, r := range sheet.Rows {
		values := []interface{}{i + 1, r.ID, r.Time, r.Customer, r.Product, r.Quantity}
		if err := setRow(f, row, values); err != nil {
			return err
		}
		if err := setDecimal(f, len(values)+1, row, r.Total); err != nil {
			return err
		}
		if err := styleRow(f, row, moneyStyle); err != nil {
			return err
		}
		row++
	}

	totals := []interface{}{totalsMarker, "", "", "", "", sheet.TotalQuantity}
	if err := setRow(f, row, totals); err != nil {
		return err
	}
	if err := setDecimal(f, len(totals)+1, row, sheet.TotalRevenue); err != nil {
		return err
	}
	if err := styleRow(f, row, totalStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetName, "A", "A", 6); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", lastColumn(), 20); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// setDecimal stores d as a numeric cell holding its exact decimal text, so
// no float64 rounding happens on the way in.
func setDecimal(f *excelize.File, col, row int, d decimal.Decimal) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellDefault(SheetName, cell, d.String()); err != nil {
		return fmt.Errorf("failed to write %s: %w", cell, err)
	}
	return nil
}

func styleRow(f *excelize.File, row int, style int) error {
	first := fmt.Sprintf("A%d", row)
	last := fmt.Sprintf("%s%d", lastColumn(), row)
	if err := f.SetCellStyle(SheetName, first, last, style); err != nil {
		return fmt.Errorf("failed to style row %d: %w", row, err)
	}
	return nil
}

func lastColumn() string {
	name, _ := excelize.ColumnNumberToName(len(SheetHeader))
	return name
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#A6A6A6", Style: 1},
		{Type: "right", Color: "#A6A6A6", Style: 1},
		{Type: "top", Color: "#A6A6A6", Style: 1},
		{Type: "bottom", Color: "#A6A6A6", Style: 1},
	}
}

// =============================================================================
// XLSX INPUT
// =============================================================================

// ReadSpreadsheet parses the data rows of a workbook written by
// WriteSpreadsheet. The title block and the totals row are skipped.
func ReadSpreadsheet(r io.Reader) ([]SheetRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	start := -1
	for i, row := range rows {
		if isHeaderRow(row) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("header row not found in sheet %q", SheetName)
	}

	result := make([]SheetRow, 0, len(rows)-start)
	for i := start; i < len(rows); i++ {
		row := rows[i]

		// Data cells are returned as stored; only the markers and the
		// numeric columns are trimmed.
		getCell := func(index int) string {
			if index < len(row) {
				return row[index]
			}
			return ""
		}

		if strings.TrimSpace(getCell(0)) == totalsMarker || isRowEmpty(row) {
			break
		}

		quantity, err := strconv.Atoi(strings.TrimSpace(getCell(5)))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid quantity %q: %w", i+1, getCell(5), err)
		}
		total, err := decimal.NewFromString(strings.TrimSpace(getCell(6)))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid total %q: %w", i+1, getCell(6), err)
		}

		result = append(result, SheetRow{
			ID:       getCell(1),
			Time:     getCell(2),
			Customer: getCell(3),
			Product:  getCell(4),
			Quantity: quantity,
			Total:    total,
		})
	}

	return result, nil
}

func isHeaderRow(row []string) bool {
	if len(row) < len(SheetHeader) {
		return false
	}
	for i, h := range SheetHeader {
		if strings.TrimSpace(row[i]) != h {
			return false
		}
	}
	return true
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
