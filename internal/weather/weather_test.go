package weather

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentJSON = `{
  "location": {"name": "Jakarta", "region": "Jakarta Raya", "country": "Indonesia"},
  "current": {"temp_c": 31.2, "condition": {"text": "Partly cloudy", "icon": "//cdn/116.png"},
              "wind_kph": 11.2, "humidity": 70, "pressure_mb": 1009}
}`

const forecastJSON = `{"forecast": {"forecastday": [
  {"date": "2024-01-01", "day": {"avgtemp_c": 28.1, "maxtemp_c": 32, "mintemp_c": 25, "condition": {"text": "Patchy rain nearby"}}},
  {"date": "2024-01-02", "day": {"avgtemp_c": 27.5, "maxtemp_c": 31, "mintemp_c": 24, "condition": {"text": "Sunny"}}},
  {"date": "2024-01-03", "day": {"avgtemp_c": 27.0}},
  {"date": "2024-01-04", "day": {"avgtemp_c": 26.0}},
  {"date": "2024-01-05", "day": {"avgtemp_c": 26.5}},
  {"date": "2024-01-06", "day": {"avgtemp_c": 26.9}}
]}}`

type fakeAPI struct {
	requests atomic.Int32
	fail     atomic.Bool
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "-6.2,106.8", r.URL.Query().Get("q"))

		if f.fail.Load() {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"error": {"code": 2008, "message": "API key has been disabled."}}`)
			return
		}

		switch r.URL.Path {
		case "/current.json":
			_, _ = io.WriteString(w, currentJSON)
		case "/forecast.json":
			assert.Equal(t, "5", r.URL.Query().Get("days"))
			_, _ = io.WriteString(w, forecastJSON)
		default:
			http.NotFound(w, r)
		}
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func setup(t *testing.T, cache Cache) (*Client, *fakeAPI, *clock) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	clk := &clock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	client := NewClient("secret", srv.URL,
		WithHTTPClient(srv.Client()),
		WithCache(cache, 30*time.Minute),
		WithClock(clk.now))
	return client, api, clk
}

func TestReport(t *testing.T) {
	client, _, _ := setup(t, NewMemoryCache())

	report, err := client.Report(context.Background(), -6.2, 106.8)
	require.NoError(t, err)

	assert.Equal(t, "Jakarta", report.Location.Name)
	assert.Equal(t, 31.2, report.Current.TempC)
	assert.Equal(t, "Partly cloudy", report.Current.Condition)
	assert.Equal(t, "cloud", report.Current.Kind)
	assert.Equal(t, 70, report.Current.Humidity)
	require.Len(t, report.Forecast, ForecastDays)
	assert.Equal(t, "2024-01-01", report.Forecast[0].Date)
	assert.Equal(t, "Patchy rain nearby", report.Forecast[0].Condition)
	assert.Equal(t, "rain", report.Forecast[0].Kind)
	assert.False(t, report.Stale)
}

func TestReportCachedWithinTTL(t *testing.T) {
	client, api, clk := setup(t, NewMemoryCache())
	ctx := context.Background()

	_, err := client.Report(ctx, -6.2, 106.8)
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.requests.Load())

	clk.advance(10 * time.Minute)
	_, err = client.Report(ctx, -6.2, 106.8)
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.requests.Load())

	clk.advance(25 * time.Minute)
	_, err = client.Report(ctx, -6.2, 106.8)
	require.NoError(t, err)
	assert.Equal(t, int32(4), api.requests.Load())
}

func TestReportStaleFallback(t *testing.T) {
	client, api, clk := setup(t, NewMemoryCache())
	ctx := context.Background()

	_, err := client.Report(ctx, -6.2, 106.8)
	require.NoError(t, err)

	api.fail.Store(true)
	clk.advance(40 * time.Minute)

	report, err := client.Report(ctx, -6.2, 106.8)
	require.NoError(t, err)
	assert.True(t, report.Stale)
	assert.Equal(t, "Using cached data (last updated: 09:00:00)", report.Note)

	clk.advance(time.Hour)
	_, err = client.Report(ctx, -6.2, 106.8)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 2008, apiErr.Code)
	assert.Equal(t, "API key has been disabled.", apiErr.Message)
}

func TestReportWithoutKey(t *testing.T) {
	client := NewClient("", "http://127.0.0.1:0")
	_, err := client.Report(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestSQLiteCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "weather.db")
	cache, err := OpenSQLiteCache(path)
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	_, ok, err := cache.Get(ctx, "1.00,2.00")
	require.NoError(t, err)
	assert.False(t, ok)

	fetched := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, cache.Put(ctx, "1.00,2.00", Report{Location: Location{Name: "A"}, FetchedAt: fetched}))
	require.NoError(t, cache.Put(ctx, "1.00,2.00", Report{Location: Location{Name: "B"}, FetchedAt: fetched}))

	got, ok, err := cache.Get(ctx, "1.00,2.00")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "B", got.Location.Name)
	assert.True(t, got.FetchedAt.Equal(fetched))
}

func TestClientWithSQLiteCache(t *testing.T) {
	cache, err := OpenSQLiteCache(filepath.Join(t.TempDir(), "weather.db"))
	require.NoError(t, err)
	defer cache.Close()

	client, api, _ := setup(t, cache)
	for i := 0; i < 3; i++ {
		_, err := client.Report(context.Background(), -6.2, 106.8)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), api.requests.Load())
}

func TestCacheKeyAndDescribe(t *testing.T) {
	assert.Equal(t, "-6.21,106.85", CacheKey(-6.2088, 106.8456))
	assert.Equal(t, "sunny", Describe("Clear"))
	assert.Equal(t, "rain", Describe("Light drizzle"))
	assert.Equal(t, "cloud", Describe("Overcast clouds"))
	assert.Equal(t, "sunny", Describe("Mist"))
}
