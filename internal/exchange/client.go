// Package exchange fetches candlestick history from a Binance-compatible
// REST API and hands it to the normalizer as raw kline rows.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/quantbay/signal-engine/internal/config"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// Client is the kline REST client. BaseURL and HTTPClient are exported so
// tests can point the client at an httptest server.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	logger     *logrus.Logger
}

// NewClient creates a kline client from the exchange configuration.
func NewClient(cfg *config.ExchangeConfig, logger *logrus.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		BaseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:     logger,
	}
}

// FetchSeries retrieves up to limit closed candles for symbol/timeframe and
// returns them as a normalized series. Symbols use the slash convention
// ("BTC/USDT"); the slash is stripped for the wire format.
func (c *Client) FetchSeries(ctx context.Context, symbol, timeframe string, limit int) (ohlcv.Series, error) {
	rows, err := c.fetchKlines(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, err
	}
	s, err := ohlcv.Normalize(rows)
	if err != nil {
		return nil, fmt.Errorf("normalize %s %s klines: %w", symbol, timeframe, err)
	}
	// The exchange includes the still-forming candle; strategies only act
	// on closed bars.
	s = s.DropUnclosed(timeframe, time.Now().UTC())
	c.logger.WithFields(logrus.Fields{
		"symbol":    symbol,
		"timeframe": timeframe,
		"bars":      len(s),
	}).Debug("Fetched kline series")
	return s, nil
}

// fetchKlines performs the raw request. Rows come back as mixed-type JSON
// arrays with string-encoded prices; values are parsed through decimal so a
// malformed price field fails loudly instead of silently truncating.
func (c *Client) fetchKlines(ctx context.Context, symbol, timeframe string, limit int) ([][]float64, error) {
	params := url.Values{}
	params.Set("symbol", strings.ReplaceAll(symbol, "/", ""))
	params.Set("interval", timeframe)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	endpoint := c.BaseURL + "/api/v3/klines?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch klines: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("Error closing response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		var errResp struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Msg != "" {
			return nil, fmt.Errorf("exchange error (%d): %s", resp.StatusCode, errResp.Msg)
		}
		return nil, fmt.Errorf("exchange error (%d): %s", resp.StatusCode, string(body))
	}

	var raw [][]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal klines: %w", err)
	}

	rows := make([][]float64, 0, len(raw))
	for i, kline := range raw {
		if len(kline) < 6 {
			return nil, fmt.Errorf("kline row %d: expected at least 6 fields, got %d", i, len(kline))
		}
		row := make([]float64, 6)
		var ts int64
		if err := json.Unmarshal(kline[0], &ts); err != nil {
			return nil, fmt.Errorf("kline row %d: bad open time: %w", i, err)
		}
		row[0] = float64(ts)
		for j := 1; j < 6; j++ {
			v, err := parsePrice(kline[j])
			if err != nil {
				return nil, fmt.Errorf("kline row %d field %d: %w", i, j, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parsePrice(raw json.RawMessage) (float64, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		// Some deployments return bare numbers instead of strings.
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0, fmt.Errorf("not a price value: %s", string(raw))
		}
		return f, nil
	}
	d, err := decimal.NewFromString(str)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", str, err)
	}
	return d.InexactFloat64(), nil
}
