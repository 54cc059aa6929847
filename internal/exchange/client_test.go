package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbay/signal-engine/internal/config"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(url string) *Client {
	return NewClient(&config.ExchangeConfig{BaseURL: url, TimeoutSeconds: 5}, testLogger())
}

func TestFetchSeriesParsesKlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "4h", r.URL.Query().Get("interval"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			[1700006400000, "37000.50", "37500.00", "36800.25", "37400.10", "1250.5", 1700020799999, "0", 0, "0", "0", "0"],
			[1700020800000, "37400.10", "37900.00", "37200.00", "37800.55", "980.2", 1700035199999, "0", 0, "0", "0", "0"]
		]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	s, err := client.FetchSeries(context.Background(), "BTC/USDT", "4h", 2)
	require.NoError(t, err)
	require.Len(t, s, 2)

	assert.Equal(t, time.UnixMilli(1700006400000).UTC(), s[0].Timestamp)
	assert.Equal(t, 37000.50, s[0].Open)
	assert.Equal(t, 37500.00, s[0].High)
	assert.Equal(t, 36800.25, s[0].Low)
	assert.Equal(t, 37400.10, s[0].Close)
	assert.Equal(t, 1250.5, s[0].Volume)
	assert.Equal(t, 37800.55, s[1].Close)
}

func TestFetchSeriesDropsFormingBar(t *testing.T) {
	closedOpen := time.Now().UTC().Truncate(4 * time.Hour).Add(-4 * time.Hour)
	formingOpen := closedOpen.Add(4 * time.Hour)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		body := fmt.Sprintf(`[
			[%d, "100.0", "101.0", "99.0", "100.5", "10.0"],
			[%d, "100.5", "102.0", "100.0", "101.2", "4.0"]
		]`, closedOpen.UnixMilli(), formingOpen.UnixMilli())
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	s, err := newTestClient(srv.URL).FetchSeries(context.Background(), "BTC/USDT", "4h", 2)
	require.NoError(t, err)
	require.Len(t, s, 1)
	assert.Equal(t, closedOpen, s[0].Timestamp)
	assert.Equal(t, 100.5, s[0].Close)
}

func TestFetchSeriesNumericPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[[1700006400000, 100.5, 101.0, 99.5, 100.8, 12.0]]`))
	}))
	defer srv.Close()

	s, err := newTestClient(srv.URL).FetchSeries(context.Background(), "ETH/USDT", "1d", 1)
	require.NoError(t, err)
	require.Len(t, s, 1)
	assert.Equal(t, 100.8, s[0].Close)
}

func TestFetchSeriesExchangeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code": -1121, "msg": "Invalid symbol."}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchSeries(context.Background(), "NOPE/USDT", "4h", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid symbol")
}

func TestFetchSeriesMalformedPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[[1700006400000, "not-a-price", "1", "1", "1", "1"]]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchSeries(context.Background(), "BTC/USDT", "4h", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid price")
}

func TestFetchSeriesShortRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[[1700006400000, "1", "1"]]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchSeries(context.Background(), "BTC/USDT", "4h", 1)
	require.Error(t, err)
}

func TestFetchSeriesContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := newTestClient(srv.URL).FetchSeries(ctx, "BTC/USDT", "4h", 1)
	require.Error(t, err)
}
