// =============================================================================
// Kebab Dashboard - Print View
// =============================================================================
//
// The print view is a standalone HTML page with one block per grouped
// order and a totals row. It opens the browser's print dialog on load.
// The same view model feeds the dashboard page.
//
// =============================================================================

package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/ginjaninja78/kebab-dashboard/internal/aggregator"
)

//go:embed templates/print.html
var printFS embed.FS

var printTemplate = template.Must(template.ParseFS(printFS, "templates/print.html"))

// PrintView is the computed content of the print page.
type PrintView struct {
	Title     string
	Label     string
	Generated string

	Orders []PrintOrder

	OrderCount    int
	TotalQuantity int
	Revenue       string
	Average       string
}

// PrintOrder is one grouped order block.
type PrintOrder struct {
	Customer string
	Time     string
	Quantity int
	Total    string
	Items    []PrintItem
}

// PrintItem is one line item inside an order block.
type PrintItem struct {
	Product   string
	Quantity  int
	UnitPrice string
	Total     string
}

// BuildPrintView formats the grouped orders for printing, with times in loc.
func BuildPrintView(orders []aggregator.GroupedOrder, summary aggregator.Summary, day *aggregator.Day, now time.Time, loc *time.Location) PrintView {
	view := PrintView{
		Title:      ReportTitle,
		Label:      DateLabel(day),
		Generated:  inZone(now, loc).Format("2006-01-02 15:04"),
		Orders:     make([]PrintOrder, 0, len(orders)),
		OrderCount: summary.OrderCount,
		Revenue:    FormatMoney(summary.Revenue),
		Average:    FormatMoney(summary.AveragePerOrder),
	}

	for _, order := range orders {
		po := PrintOrder{
			Customer: order.Customer,
			Time:     "-",
			Quantity: order.Quantity(),
			Total:    FormatMoney(order.Total()),
			Items:    make([]PrintItem, 0, len(order.Items)),
		}
		if len(order.Items) > 0 {
			po.Time = formatTime(order.Items[0], loc)
		}
		for _, item := range order.Items {
			po.Items = append(po.Items, PrintItem{
				Product:   item.Product.Display(),
				Quantity:  item.Quantity,
				UnitPrice: FormatUnitPrice(UnitPrice(item.Total, item.Quantity)),
				Total:     FormatMoney(item.Total),
			})
		}
		view.TotalQuantity += po.Quantity
		view.Orders = append(view.Orders, po)
	}

	return view
}

// WritePrintView renders the print page. The page calls window.print() as
// soon as it loads.
func WritePrintView(w io.Writer, view PrintView) error {
	if err := printTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render print view: %w", err)
	}
	return nil
}
