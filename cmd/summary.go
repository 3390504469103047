// =============================================================================
// Kebab Dashboard - Summary Command
// =============================================================================
//
// COMMAND USAGE:
//   kebab-dashboard summary [--date YYYY-MM-DD] [--input file.json] [--json]
//
// OUTPUT:
//   Tanggal: 2024-01-01
//   Pendapatan:   Rp 34.000
//   Pesanan:      2
//   Rata-rata:    Rp 17.000
//
//   PRODUK   TERJUAL
//   Snack    3
//   Kebab    2
//   ...
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/kebab-dashboard/internal/report"
)

var (
	summaryDate   string
	summaryInput  string
	summaryJSON   bool
	summaryOrders bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print revenue, order count and best sellers",
	RunE:  runSummary,
}

// summaryOutput is the --json shape.
type summaryOutput struct {
	Date        string          `json:"date,omitempty"`
	Revenue     string          `json:"revenue"`
	OrderCount  int             `json:"order_count"`
	Average     string          `json:"average_per_order"`
	TopProducts []productOutput `json:"top_products"`
	Issues      int             `json:"issues"`
}

type productOutput struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func runSummary(cmd *cobra.Command, args []string) error {
	day, err := parseDayFlag(summaryDate)
	if err != nil {
		return err
	}

	records, issues, err := loadRecords(cmd.Context(), summaryInput)
	if err != nil {
		return err
	}

	result := newAggregator().Aggregate(records, day)
	out := cmd.OutOrStdout()

	if summaryJSON {
		s := summaryOutput{
			Revenue:     result.Summary.Revenue.String(),
			OrderCount:  result.Summary.OrderCount,
			Average:     result.Summary.AveragePerOrder.StringFixed(2),
			TopProducts: make([]productOutput, 0, len(result.TopProducts)),
			Issues:      len(issues),
		}
		if day != nil {
			s.Date = day.String()
		}
		for _, p := range result.TopProducts {
			s.TopProducts = append(s.TopProducts, productOutput{Name: p.Name, Quantity: p.Quantity})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintln(out, report.DateLabel(day))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Pendapatan:\t%s\n", report.FormatMoney(result.Summary.Revenue))
	fmt.Fprintf(tw, "Pesanan:\t%d\n", result.Summary.OrderCount)
	fmt.Fprintf(tw, "Rata-rata:\t%s\n", report.FormatMoney(result.Summary.AveragePerOrder))
	if len(issues) > 0 {
		fmt.Fprintf(tw, "Catatan data:\t%d\n", len(issues))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "PRODUK\tTERJUAL")
	for _, p := range result.TopProducts {
		fmt.Fprintf(tw, "%s\t%d\n", p.Name, p.Quantity)
	}

	if summaryOrders {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "PELANGGAN\tITEM\tTOTAL")
		for _, o := range result.Orders {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", o.Customer, len(o.Items), report.FormatMoney(o.Total()))
		}
	}

	return tw.Flush()
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryDate, "date", "d", "", "Only transactions on this day (YYYY-MM-DD)")
	summaryCmd.Flags().StringVarP(&summaryInput, "input", "i", "", "Saved transaction JSON to read instead of the backend")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Print JSON instead of a table")
	summaryCmd.Flags().BoolVar(&summaryOrders, "orders", false, "Also list the grouped orders")

	rootCmd.AddCommand(summaryCmd)
}
