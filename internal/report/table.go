// =============================================================================
// Kebab Dashboard - Tabular PDF Report
// =============================================================================
//
// The PDF report lists every line item of every grouped order, followed by a
// totals row:
//
//   | Pelanggan | Waktu | Produk | Qty | Harga Satuan | Subtotal |
//
// Row building (BuildTable) is pure and tested on its own; WritePDF only lays
// the rows out. Pages break automatically and repeat the header row.
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/kebab-dashboard/internal/aggregator"
	"github.com/ginjaninja78/kebab-dashboard/internal/transaction"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// TableColumns are the PDF column headers.
var TableColumns = []string{"Pelanggan", "Waktu", "Produk", "Qty", "Harga Satuan", "Subtotal"}

// columnWidths in millimetres, summing to the usable A4 landscape width.
var columnWidths = []float64{60, 40, 70, 20, 40, 47}

const (
	rowHeight    = 7.0
	pageMargin   = 10.0
	footerHeight = 12.0
)

// =============================================================================
// TABLE STRUCTURES
// =============================================================================

// TableRow is one line item in the PDF.
type TableRow struct {
	Customer  string
	Time      string
	Product   string
	Quantity  int
	UnitPrice float64
	LineTotal decimal.Decimal
}

// Cells renders the row as text.
func (r TableRow) Cells() []string {
	return []string{
		r.Customer,
		r.Time,
		r.Product,
		fmt.Sprint(r.Quantity),
		FormatUnitPrice(r.UnitPrice),
		FormatMoney(r.LineTotal),
	}
}

// Table is the computed content of the PDF report.
type Table struct {
	Title string
	Label string

	Rows []TableRow

	OrderCount    int
	TotalQuantity int
	TotalRevenue  decimal.Decimal
}

// TotalsCells renders the trailing totals row.
func (t Table) TotalsCells() []string {
	return []string{
		"TOTAL",
		fmt.Sprintf("%d pesanan", t.OrderCount),
		"",
		fmt.Sprint(t.TotalQuantity),
		"",
		FormatMoney(t.TotalRevenue),
	}
}

// =============================================================================
// BUILDING
// =============================================================================

// BuildTable flattens the orders into one row per line item. The unit price
// is lineTotal / quantity in floating point, so a zero quantity yields a
// non-finite value. Times are shown in loc.
func BuildTable(orders []aggregator.GroupedOrder, summary aggregator.Summary, day *aggregator.Day, loc *time.Location) Table {
	table := Table{
		Title:        ReportTitle,
		Label:        DateLabel(day),
		Rows:         make([]TableRow, 0),
		OrderCount:   summary.OrderCount,
		TotalRevenue: summary.Revenue,
	}

	for _, order := range orders {
		for _, item := range order.Items {
			table.Rows = append(table.Rows, TableRow{
				Customer:  order.Customer,
				Time:      formatTime(item, loc),
				Product:   item.Product.Display(),
				Quantity:  item.Quantity,
				UnitPrice: UnitPrice(item.Total, item.Quantity),
				LineTotal: item.Total,
			})
		}
		table.TotalQuantity += order.Quantity()
	}

	return table
}

// formatTime renders a record's timestamp in loc. A nil loc keeps the zone
// the timestamp was parsed with.
func formatTime(r transaction.Record, loc *time.Location) string {
	if r.HasTimestamp() {
		return inZone(r.Timestamp, loc).Format("2006-01-02 15:04")
	}
	if r.RawTimestamp != "" {
		return r.RawTimestamp
	}
	return "-"
}

func inZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

// =============================================================================
// PDF OUTPUT
// =============================================================================

// WritePDF lays the table out on A4 landscape pages and writes the document.
func WritePDF(w io.Writer, table Table) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(table.Title, true)
	pdf.SetCreator("kebab-dashboard", true)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Halaman %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	_, pageHeight := pdf.GetPageSize()
	limit := pageHeight - pageMargin - footerHeight

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(221, 235, 247)
		for i, col := range TableColumns {
			pdf.CellFormat(columnWidths[i], rowHeight, tr(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(rowHeight)
		pdf.SetFont("Helvetica", "", 9)
	}

	row := func(cells []string, bold bool) {
		if pdf.GetY()+rowHeight > limit {
			pdf.AddPage()
			header()
		}
		if bold {
			pdf.SetFont("Helvetica", "B", 9)
		}
		for i, cell := range cells {
			align := "L"
			if i >= 3 {
				align = "R"
			}
			pdf.CellFormat(columnWidths[i], rowHeight, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(rowHeight)
		if bold {
			pdf.SetFont("Helvetica", "", 9)
		}
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(table.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(table.Label), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	header()
	for _, r := range table.Rows {
		row(r.Cells(), false)
	}
	row(table.TotalsCells(), true)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
