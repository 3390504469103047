// =============================================================================
// Kebab Dashboard - Weather Widget
// =============================================================================
//
// Current conditions and a 5-day forecast for a coordinate, from
// weatherapi.com:
//
//   GET {base}/current.json?key=...&q=lat,lon
//   GET {base}/forecast.json?key=...&q=lat,lon&days=5
//
// Reports are cached per coordinate (rounded to 2 decimals). A cached report
// younger than the TTL is served without a request. When a request fails, a
// cached report younger than MaxStale is served instead, marked stale with a
// note; otherwise the error is returned.
//
// =============================================================================

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ForecastDays is the forecast length requested.
const ForecastDays = 5

// DefaultMaxStale is how old a cached report may be and still be served
// when the API fails.
const DefaultMaxStale = time.Hour

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("weather API key not configured")

// APIError is an error response from weatherapi.com.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("weather data request failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("weather API error %d: %s", e.Code, e.Message)
}

// =============================================================================
// REPORT
// =============================================================================

// Report is what the widget shows.
type Report struct {
	Location  Location      `json:"location"`
	Current   Conditions    `json:"current"`
	Forecast  []ForecastDay `json:"forecast"`
	FetchedAt time.Time     `json:"fetched_at"`

	// Stale is set when the report came from the cache after a failure.
	Stale bool   `json:"stale"`
	Note  string `json:"note,omitempty"`
}

// Location is the place the API resolved the coordinate to.
type Location struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// Conditions is the current weather.
type Conditions struct {
	TempC      float64 `json:"temp_c"`
	Condition  string  `json:"condition"`
	Icon       string  `json:"icon"`
	Kind       string  `json:"kind"`
	WindKph    float64 `json:"wind_kph"`
	Humidity   int     `json:"humidity"`
	PressureMb float64 `json:"pressure_mb"`
}

// ForecastDay is one day of the forecast.
type ForecastDay struct {
	Date      string  `json:"date"`
	AvgTempC  float64 `json:"avgtemp_c"`
	MaxTempC  float64 `json:"maxtemp_c"`
	MinTempC  float64 `json:"mintemp_c"`
	Condition string  `json:"condition"`
	Kind      string  `json:"kind"`
}

// Wire shapes of the API responses.
type apiCondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type apiCurrent struct {
	Location Location `json:"location"`
	Current  struct {
		TempC      float64      `json:"temp_c"`
		Condition  apiCondition `json:"condition"`
		WindKph    float64      `json:"wind_kph"`
		Humidity   int          `json:"humidity"`
		PressureMb float64      `json:"pressure_mb"`
	} `json:"current"`
}

type apiForecast struct {
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				AvgTempC  float64      `json:"avgtemp_c"`
				MaxTempC  float64      `json:"maxtemp_c"`
				MinTempC  float64      `json:"mintemp_c"`
				Condition apiCondition `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Logger is the logging surface the client needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Client fetches and caches weather reports.
type Client struct {
	apiKey   string
	baseURL  string
	http     *http.Client
	cache    Cache
	ttl      time.Duration
	maxStale time.Duration
	now      func() time.Time
	logger   Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCache sets the report cache.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.ttl = ttl
	}
}

// WithMaxStale sets how old a fallback report may be.
func WithMaxStale(d time.Duration) Option {
	return func(c *Client) { c.maxStale = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client. Without WithCache, nothing is cached.
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 15 * time.Second},
		maxStale: DefaultMaxStale,
		now:      time.Now,
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Report returns the weather at lat, lon.
func (c *Client) Report(ctx context.Context, lat, lon float64) (Report, error) {
	key := CacheKey(lat, lon)

	cached, hit := c.lookup(ctx, key)
	if hit && c.now().Sub(cached.FetchedAt) < c.ttl {
		c.logger.Debug("weather cache hit", "key", key)
		return cached, nil
	}

	report, err := c.fetch(ctx, lat, lon)
	if err != nil {
		if hit && c.now().Sub(cached.FetchedAt) < c.maxStale {
			c.logger.Warn("weather fetch failed, serving cached report", "key", key, "error", err)
			cached.Stale = true
			cached.Note = "Using cached data (last updated: " + cached.FetchedAt.Format("15:04:05") + ")"
			return cached, nil
		}
		return Report{}, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, report); err != nil {
			c.logger.Warn("failed to cache weather report", "key", key, "error", err)
		}
	}
	return report, nil
}

func (c *Client) lookup(ctx context.Context, key string) (Report, bool) {
	if c.cache == nil {
		return Report{}, false
	}
	report, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("failed to read weather cache", "key", key, "error", err)
		return Report{}, false
	}
	return report, ok
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (Report, error) {
	if c.apiKey == "" {
		return Report{}, ErrNoAPIKey
	}

	q := fmt.Sprintf("%g,%g", lat, lon)

	var current apiCurrent
	if err := c.get(ctx, "/current.json", url.Values{"q": {q}}, &current); err != nil {
		return Report{}, err
	}

	var forecast apiForecast
	if err := c.get(ctx, "/forecast.json", url.Values{"q": {q}, "days": {fmt.Sprint(ForecastDays)}}, &forecast); err != nil {
		return Report{}, err
	}

	report := Report{
		Location: current.Location,
		Current: Conditions{
			TempC:      current.Current.TempC,
			Condition:  current.Current.Condition.Text,
			Icon:       current.Current.Condition.Icon,
			Kind:       Describe(current.Current.Condition.Text),
			WindKph:    current.Current.WindKph,
			Humidity:   current.Current.Humidity,
			PressureMb: current.Current.PressureMb,
		},
		Forecast:  make([]ForecastDay, 0, ForecastDays),
		FetchedAt: c.now(),
	}
	for i, day := range forecast.Forecast.ForecastDay {
		if i == ForecastDays {
			break
		}
		report.Forecast = append(report.Forecast, ForecastDay{
			Date:      day.Date,
			AvgTempC:  day.Day.AvgTempC,
			MaxTempC:  day.Day.MaxTempC,
			MinTempC:  day.Day.MinTempC,
			Condition: day.Day.Condition.Text,
			Kind:      Describe(day.Day.Condition.Text),
		})
	}

	return report, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body apiErrorBody
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &body) == nil {
			apiErr.Code = body.Error.Code
			apiErr.Message = body.Error.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode weather response: %w", err)
	}
	return nil
}

// CacheKey rounds the coordinate to 2 decimals (about 1 km).
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

// Describe maps a condition text to the widget's icon family: "sunny",
// "rain", "cloud", or "sunny" when nothing matches.
func Describe(condition string) string {
	text := strings.ToLower(condition)
	switch {
	case strings.Contains(text, "sunny"), strings.Contains(text, "clear"):
		return "sunny"
	case strings.Contains(text, "rain"), strings.Contains(text, "drizzle"):
		return "rain"
	case strings.Contains(text, "cloud"):
		return "cloud"
	default:
		return "sunny"
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
