// =============================================================================
// Kebab Dashboard - Aggregator
// =============================================================================
//
// The aggregator turns the flat list of line items returned by the backend
// into the numbers shown on the dashboard and written to exports.
//
// PIPELINE:
//   1. FilterByDate  - optionally keep only one calendar day (local time)
//   2. Group         - bucket line items into orders by customer + minute
//   3. TopProducts   - rank products by quantity sold
//   4. Summarize     - revenue, order count, average revenue per order
//
// None of the steps fail. Malformed records (zero or negative quantity,
// missing timestamp) are aggregated exactly as received.
//
// =============================================================================

package aggregator

import (
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/kebab-dashboard/internal/transaction"
	"github.com/shopspring/decimal"
)

// DefaultTopLimit is the length of the best seller list.
const DefaultTopLimit = 5

// minuteLayout is the grouping resolution.
const minuteLayout = "2006-01-02T15:04"

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// GroupedOrder is the set of line items one customer bought at one moment.
type GroupedOrder struct {
	// ID is the grouping key: customer name and minute.
	ID string

	// Customer is the display name shared by every item.
	Customer string

	// Timestamp is the first item's timestamp.
	Timestamp time.Time

	// Items are in source order.
	Items []transaction.Record
}

// Total is the sum of the item totals. It is recomputed on every call so it
// can never drift from Items.
func (o GroupedOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total)
	}
	return total
}

// Quantity is the sum of the item quantities.
func (o GroupedOrder) Quantity() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// ProductRank is one entry of the best seller list.
type ProductRank struct {
	Name     string
	Quantity int
}

// Summary holds the dashboard totals.
type Summary struct {
	Revenue         decimal.Decimal
	OrderCount      int
	AveragePerOrder decimal.Decimal
}

// Result is everything the dashboard and the exports need.
type Result struct {
	// Day is the filter that was applied, nil for all records.
	Day *Day

	// Location is the zone the day filter and the grouping minutes were
	// computed in. Reports format timestamps in it.
	Location *time.Location

	// Records are the filtered line items, in source order.
	Records []transaction.Record

	Orders      []GroupedOrder
	TopProducts []ProductRank
	Summary     Summary
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Logger is the logging surface the aggregator needs.
type Logger interface {
	Debug(msg string, args ...any)
}

// Aggregator holds the settings shared by all aggregation steps.
type Aggregator struct {
	loc    *time.Location
	limit  int
	logger Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLocation sets the zone that defines "local time" for day filtering
// and minute truncation.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithTopLimit sets the best seller list length.
func WithTopLimit(limit int) Option {
	return func(a *Aggregator) {
		if limit > 0 {
			a.limit = limit
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Aggregator. Defaults: time.Local, top 5, no logging.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		loc:    time.Local,
		limit:  DefaultTopLimit,
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Location returns the zone used for day filtering.
func (a *Aggregator) Location() *time.Location {
	return a.loc
}

// Aggregate runs the whole pipeline.
func (a *Aggregator) Aggregate(records []transaction.Record, day *Day) Result {
	filtered := a.FilterByDate(records, day)
	orders := a.Group(filtered)

	result := Result{
		Day:         day,
		Location:    a.Location(),
		Records:     filtered,
		Orders:      orders,
		TopProducts: TopProducts(filtered, a.limit),
		Summary:     Summarize(filtered, orders),
	}

	a.logger.Debug("aggregated transactions",
		"input", len(records),
		"filtered", len(filtered),
		"orders", len(orders),
	)

	return result
}

// FilterByDate returns the records whose timestamp falls on day. A nil day
// returns records unchanged.
func (a *Aggregator) FilterByDate(records []transaction.Record, day *Day) []transaction.Record {
	if day == nil {
		return records
	}

	filtered := make([]transaction.Record, 0, len(records))
	for _, r := range records {
		if day.Contains(r.Timestamp, a.loc) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Group buckets records into orders keyed by customer and minute. Orders are
// returned in first-seen key order; items keep source order.
func (a *Aggregator) Group(records []transaction.Record) []GroupedOrder {
	orders := make([]GroupedOrder, 0)
	index := make(map[string]int)

	for _, r := range records {
		key := a.GroupKey(r)

		i, exists := index[key]
		if !exists {
			i = len(orders)
			index[key] = i
			orders = append(orders, GroupedOrder{
				ID:        key,
				Customer:  r.Customer,
				Timestamp: r.Timestamp,
			})
		}
		orders[i].Items = append(orders[i].Items, r)
	}

	return orders
}

// GroupKey is the customer name joined with the timestamp truncated to the
// minute. Records without a usable timestamp fall back to the raw value.
func (a *Aggregator) GroupKey(r transaction.Record) string {
	moment := r.RawTimestamp
	if r.HasTimestamp() {
		moment = r.Timestamp.In(a.loc).Format(minuteLayout)
	}

	var b strings.Builder
	b.WriteString(r.Customer)
	b.WriteByte('_')
	b.WriteString(moment)
	return b.String()
}

// TopProducts ranks products by cumulative quantity, highest first, ties in
// first-seen order, truncated to limit. Records without a product name are
// skipped. A limit <= 0 means DefaultTopLimit.
func TopProducts(records []transaction.Record, limit int) []ProductRank {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	ranks := make([]ProductRank, 0)
	index := make(map[string]int)

	for _, r := range records {
		if r.Product.IsZero() {
			continue
		}
		i, exists := index[r.Product.Name]
		if !exists {
			i = len(ranks)
			index[r.Product.Name] = i
			ranks = append(ranks, ProductRank{Name: r.Product.Name})
		}
		ranks[i].Quantity += r.Quantity
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Quantity > ranks[j].Quantity
	})

	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}

// Summarize computes revenue over records and the average per order.
// The average is zero when there are no orders.
func Summarize(records []transaction.Record, orders []GroupedOrder) Summary {
	revenue := decimal.Zero
	for _, r := range records {
		revenue = revenue.Add(r.Total)
	}

	summary := Summary{
		Revenue:         revenue,
		OrderCount:      len(orders),
		AveragePerOrder: decimal.Zero,
	}
	if summary.OrderCount > 0 {
		summary.AveragePerOrder = revenue.Div(decimal.NewFromInt(int64(summary.OrderCount)))
	}
	return summary
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
