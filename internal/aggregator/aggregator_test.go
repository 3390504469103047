package aggregator

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/ginjaninja78/kebab-dashboard/internal/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, customer, ts string, kind transaction.ProductKind, product string, qty int, total int64) transaction.Record {
	r := transaction.Record{
		ID:           id,
		RawTimestamp: ts,
		Customer:     customer,
		Product:      transaction.ProductRef{Kind: kind, Name: product},
		Quantity:     qty,
		Total:        decimal.NewFromInt(total),
	}
	if ts != "" {
		parsed, err := transaction.ParseTimestamp(ts, time.UTC)
		if err != nil {
			panic(err)
		}
		r.Timestamp = parsed
	}
	return r
}

func scenario() []transaction.Record {
	return []transaction.Record{
		rec("1", "A", "2024-01-01T10:00", transaction.KindKebab, "Kebab", 2, 20000),
		rec("2", "A", "2024-01-01T10:00", transaction.KindDrink, "Drink", 1, 5000),
		rec("3", "B", "2024-01-01T11:00", transaction.KindSnack, "Snack", 3, 9000),
	}
}

func TestGroupScenario(t *testing.T) {
	a := New(WithLocation(time.UTC))
	records := scenario()

	orders := a.Group(records)
	require.Len(t, orders, 2)

	assert.Equal(t, "A_2024-01-01T10:00", orders[0].ID)
	assert.Equal(t, "A", orders[0].Customer)
	assert.Len(t, orders[0].Items, 2)
	assert.Equal(t, "25000", orders[0].Total().String())
	assert.Equal(t, []string{"1", "2"}, []string{orders[0].Items[0].ID, orders[0].Items[1].ID})

	assert.Equal(t, "B", orders[1].Customer)
	assert.Len(t, orders[1].Items, 1)
	assert.Equal(t, "9000", orders[1].Total().String())

	summary := Summarize(records, orders)
	assert.Equal(t, "34000", summary.Revenue.String())
	assert.Equal(t, 2, summary.OrderCount)
	assert.Equal(t, "17000", summary.AveragePerOrder.String())
}

func TestGroupTruncatesToMinute(t *testing.T) {
	a := New(WithLocation(time.UTC))
	records := []transaction.Record{
		rec("1", "A", "2024-01-01T10:00:05", transaction.KindKebab, "Kebab", 1, 1),
		rec("2", "A", "2024-01-01T10:00:59", transaction.KindKebab, "Kebab", 1, 1),
		rec("3", "A", "2024-01-01T10:01:00", transaction.KindKebab, "Kebab", 1, 1),
		rec("4", "B", "2024-01-01T10:00:10", transaction.KindKebab, "Kebab", 1, 1),
	}

	orders := a.Group(records)
	require.Len(t, orders, 3)
	assert.Len(t, orders[0].Items, 2)
	assert.Equal(t, "A_2024-01-01T10:01", orders[1].ID)
	assert.Equal(t, "B", orders[2].Customer)
}

func TestGroupEmpty(t *testing.T) {
	orders := New().Group(nil)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestGroupIsPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := New(WithLocation(time.UTC))
	customers := []string{"A", "B", "C"}

	for run := 0; run < 50; run++ {
		n := 1 + rng.Intn(40)
		records := make([]transaction.Record, n)
		inputTotal := decimal.Zero
		for i := range records {
			ts := fmt.Sprintf("2024-01-0%dT1%d:0%d", 1+rng.Intn(3), rng.Intn(3), rng.Intn(3))
			total := int64(rng.Intn(50000))
			records[i] = rec(fmt.Sprint(i), customers[rng.Intn(len(customers))], ts,
				transaction.KindKebab, "Kebab", 1+rng.Intn(5), total)
			inputTotal = inputTotal.Add(decimal.NewFromInt(total))
		}

		orders := a.Group(records)
		groupedTotal := decimal.Zero
		items := 0
		for _, o := range orders {
			groupedTotal = groupedTotal.Add(o.Total())
			items += len(o.Items)
		}

		assert.True(t, inputTotal.Equal(groupedTotal), "run %d: %s != %s", run, inputTotal, groupedTotal)
		assert.Equal(t, n, items, "run %d", run)
	}
}

func TestFilterByDate(t *testing.T) {
	a := New(WithLocation(time.UTC))
	records := scenario()

	day, err := ParseDay("2024-01-02")
	require.NoError(t, err)
	filtered := a.FilterByDate(records, &day)
	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)

	day, err = ParseDay("2024-01-01")
	require.NoError(t, err)
	assert.Len(t, a.FilterByDate(records, &day), 3)

	assert.Equal(t, records, a.FilterByDate(records, nil))
}

func TestFilterByDateUsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	a := New(WithLocation(jakarta))

	// 20:00 UTC on Jan 1 is 03:00 on Jan 2 in Jakarta.
	r := rec("1", "A", "2024-01-01T20:00:00Z", transaction.KindKebab, "Kebab", 1, 1)

	jan2 := Day{Year: 2024, Month: time.January, Day: 2}
	assert.Len(t, a.FilterByDate([]transaction.Record{r}, &jan2), 1)

	noTime := rec("2", "A", "", transaction.KindKebab, "Kebab", 1, 1)
	assert.Empty(t, a.FilterByDate([]transaction.Record{noTime}, &jan2))
}

func TestTopProducts(t *testing.T) {
	records := []transaction.Record{
		rec("1", "A", "", transaction.KindKebab, "Kebab Modern", 2, 0),
		rec("2", "A", "", transaction.KindSnack, "Sosis Keju", 5, 0),
		rec("3", "A", "", transaction.KindDrink, "Es Buah", 2, 0),
		rec("4", "A", "", transaction.KindKebab, "Kebab Modern", 1, 0),
		rec("5", "A", "", transaction.KindPackage, "Paket Hemat", 3, 0),
		rec("6", "A", "", transaction.KindDrink, "Es Teh", 1, 0),
		rec("7", "A", "", transaction.KindDrink, "Kopi", 1, 0),
		rec("8", "A", "", transaction.KindUnknown, "", 100, 0),
	}

	top := TopProducts(records, 5)
	assert.Equal(t, []ProductRank{
		{Name: "Sosis Keju", Quantity: 5},
		{Name: "Kebab Modern", Quantity: 3},
		{Name: "Paket Hemat", Quantity: 3},
		{Name: "Es Buah", Quantity: 2},
		{Name: "Es Teh", Quantity: 1},
	}, top)

	assert.Len(t, TopProducts(records, 0), DefaultTopLimit)
	assert.Len(t, TopProducts(records, 2), 2)
	assert.Empty(t, TopProducts(nil, 5))
}

func TestTopProductsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		records := make([]transaction.Record, rng.Intn(30))
		for i := range records {
			records[i] = rec(fmt.Sprint(i), "A", "", transaction.KindSnack,
				fmt.Sprintf("P%d", rng.Intn(10)), rng.Intn(10), 0)
		}

		top := TopProducts(records, DefaultTopLimit)
		assert.LessOrEqual(t, len(top), DefaultTopLimit)
		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(t, top[i-1].Quantity, top[i].Quantity)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, nil)
	assert.True(t, summary.Revenue.IsZero())
	assert.Equal(t, 0, summary.OrderCount)
	assert.True(t, summary.AveragePerOrder.IsZero())
}

func TestAggregate(t *testing.T) {
	a := New(WithLocation(time.UTC), WithTopLimit(2))
	day := Day{Year: 2024, Month: time.January, Day: 1}

	result := a.Aggregate(scenario(), &day)
	assert.Equal(t, &day, result.Day)
	assert.Len(t, result.Records, 3)
	assert.Len(t, result.Orders, 2)
	assert.Len(t, result.TopProducts, 2)
	assert.Equal(t, "Snack", result.TopProducts[0].Name)
	assert.Equal(t, "34000", result.Summary.Revenue.String())
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", day.String())

	_, err = ParseDay("09/03/2024")
	assert.Error(t, err)
}
