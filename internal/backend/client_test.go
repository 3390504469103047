package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transactionsJSON = `[
  {"id_Detail": 1, "tanggal_Transaksi": "2024-01-01T10:00", "nama_Customer": "A", "nama_Kebab": "Kebab", "jumlah": 2, "total_Harga": 20000},
  {"id_Detail": "2", "tanggal_Transaksi": "2024-01-01T10:00", "nama_Customer": "A", "nama_Minuman": "Drink", "jumlah": "1", "total_Harga": "5000"},
  {"id_Detail": 3, "tanggal_Transaksi": "2024-01-01T11:00", "nama_Customer": "B", "nama_Snack": "Snack", "jumlah": 0, "total_Harga": 9000}
]`

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", WithHTTPClient(srv.Client()), WithLocation(time.UTC))
}

func TestTransactions(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, TransactionsPath, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, transactionsJSON)
	}).WithToken("tok")

	records, issues, err := client.Transactions(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "2", records[1].ID)
	assert.Equal(t, "Drink", records[1].Product.Name)
	assert.Equal(t, "5000", records[1].Total.String())
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), records[0].Timestamp)

	require.Len(t, issues, 1)
	assert.Equal(t, "3", issues[0].RecordID)
}

func TestTransactionsMalformed(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id_Detail": 1, "jumlah": "dua", "total_Harga": 1}]`)
	})

	_, _, err := client.Transactions(context.Background())
	require.Error(t, err)
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusBadRequest, ErrRejected},
		{http.StatusInternalServerError, ErrBackendUnavailable},
		{http.StatusBadGateway, ErrBackendUnavailable},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", tt.status)
			})

			err := client.Delete(context.Background(), "Kebab", 7)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, "/Kebab/7", se.Path)
			assert.Equal(t, "boom", se.Body)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, _, err := NewClient(url).Transactions(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestLogin(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, LoginPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "rahasia" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"token": "abc", "user": {"name": "Admin", "email": "admin@example.com"}}`)
	})

	result, err := client.Login(context.Background(), "admin@example.com", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, "abc", result.Token)
	assert.Equal(t, "Admin", result.User.Name)

	_, err = client.Login(context.Background(), "admin@example.com", "salah")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginWithoutToken(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"user": {"name": "Admin"}}`)
	})

	_, err := client.Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCatalogRequests(t *testing.T) {
	type call struct {
		method string
		path   string
		body   string
	}
	var calls []call

	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.Path, string(data)})
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `[{"id_Snack": 1, "namaSnack": "Kentang"}]`)
		}
	})

	ctx := context.Background()
	var list []map[string]any
	require.NoError(t, client.List(ctx, "Snack", &list))
	require.NoError(t, client.Create(ctx, "Snack", map[string]any{"namaSnack": "Kentang"}))
	require.NoError(t, client.Update(ctx, "Snack", 1, map[string]any{"id_Snack": 1}))
	require.NoError(t, client.Delete(ctx, "Snack", 1))

	assert.Len(t, list, 1)
	assert.Equal(t, []call{
		{http.MethodGet, "/Snack", ""},
		{http.MethodPost, "/Snack", `{"namaSnack":"Kentang"}`},
		{http.MethodPut, "/Snack/1", `{"id_Snack":1}`},
		{http.MethodDelete, "/Snack/1", ""},
	}, calls)
}

func TestContextCancelled(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[]")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := client.Transactions(ctx)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestTimeoutLeavesSharedClientAlone(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	shared := srv.Client()
	shared.Timeout = time.Minute
	client := NewClient(srv.URL, WithHTTPClient(shared), WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, _, err := client.Transactions(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, time.Minute, shared.Timeout)
}
