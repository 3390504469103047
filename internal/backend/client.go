// =============================================================================
// Kebab Dashboard - Backend REST Client
// =============================================================================
//
// The REST backend owns transactions, catalog items and logins. This client
// speaks plain JSON over HTTP to it:
//
//   GET    /DetailTransaksi        flat transaction records
//   POST   /auth/login             {email, password} -> {token, user}
//   GET    /{Resource}             catalog list
//   POST   /{Resource}             catalog create
//   PUT    /{Resource}/{id}        catalog update
//   DELETE /{Resource}/{id}        catalog delete
//
// Failures are returned to the caller as-is; nothing is retried.
//
// =============================================================================

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ginjaninja78/kebab-dashboard/internal/session"
	"github.com/ginjaninja78/kebab-dashboard/internal/transaction"
)

// TransactionsPath is the transaction list endpoint.
const TransactionsPath = "/DetailTransaksi"

// LoginPath is the login endpoint.
const LoginPath = "/auth/login"

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBackendUnavailable covers transport failures and 5xx responses.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound is a 404 response.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is a 401 or 403 response.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRejected is any other 4xx response.
	ErrRejected = errors.New("request rejected")
)

// StatusError is a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap maps the status code to a sentinel error.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode >= 500:
		return ErrBackendUnavailable
	default:
		return ErrRejected
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// DefaultTimeout bounds requests when WithTimeout is not given.
const DefaultTimeout = 15 * time.Second

// Logger is the logging surface the client needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Client talks to the REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	loc     *time.Location
	token   string
	logger  Logger
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

// WithTimeout bounds every request through its context. The http.Client
// itself is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLocation sets the zone for timestamps without one.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.loc = loc
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

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: DefaultTimeout,
		loc:     time.Local,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of the client that sends token as a bearer
// credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// =============================================================================
// TRANSACTIONS & LOGIN
// =============================================================================

// Transactions fetches and decodes the flat transaction list. Issues found
// in individual records are returned alongside the records.
func (c *Client) Transactions(ctx context.Context) ([]transaction.Record, []*transaction.Issue, error) {
	var records []transaction.Record
	var issues []*transaction.Issue

	err := c.do(ctx, http.MethodGet, TransactionsPath, nil, func(body io.Reader) error {
		var err error
		records, issues, err = transaction.Decode(body, c.loc)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	for _, issue := range issues {
		c.logger.Warn("transaction record issue", "issue", issue.Error())
	}
	return records, issues, nil
}

// LoginResult is the backend's login response.
type LoginResult struct {
	Token string          `json:"token"`
	User  session.Profile `json:"user"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, LoginPath, payload, decodeInto(&result)); err != nil {
		return LoginResult{}, err
	}
	if result.Token == "" {
		return LoginResult{}, fmt.Errorf("login response has no token: %w", ErrUnauthorized)
	}
	return result, nil
}

// =============================================================================
// CATALOG CRUD
// =============================================================================

// List decodes the resource list into out.
func (c *Client) List(ctx context.Context, resource string, out any) error {
	return c.do(ctx, http.MethodGet, "/"+resource, nil, decodeInto(out))
}

// Create posts payload to the resource.
func (c *Client) Create(ctx context.Context, resource string, payload any) error {
	return c.do(ctx, http.MethodPost, "/"+resource, payload, nil)
}

// Update puts payload to the resource item.
func (c *Client) Update(ctx context.Context, resource string, id int64, payload any) error {
	return c.do(ctx, http.MethodPut, itemPath(resource, id), payload, nil)
}

// Delete removes the resource item.
func (c *Client) Delete(ctx context.Context, resource string, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(resource, id), nil, nil)
}

func itemPath(resource string, id int64) string {
	return fmt.Sprintf("/%s/%d", resource, id)
}

// =============================================================================
// TRANSPORT
// =============================================================================

func decodeInto(out any) func(io.Reader) error {
	return func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}
}

// do sends one request. payload, when not nil, is sent as JSON; decode,
// when not nil, reads a 2xx body.
func (c *Client) do(ctx context.Context, method, path string, payload any, decode func(io.Reader) error) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if decode == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return decode(resp.Body)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
