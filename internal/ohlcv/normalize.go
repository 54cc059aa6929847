package ohlcv

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// SchemaError indicates malformed or incomplete OHLCV input. It is fatal to
// the evaluation of the symbol that produced it, but callers must not let it
// abort processing of other symbols.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("ohlcv schema error: %s", e.Reason)
}

// fieldAliases maps the abbreviated keys seen in exchange payloads to the
// canonical column names.
var fieldAliases = map[string]string{
	"time": "timestamp",
	"ts":   "timestamp",
	"t":    "timestamp",
	"o":    "open",
	"h":    "high",
	"l":    "low",
	"c":    "close",
	"v":    "volume",
}

// Normalize coerces a raw candle payload into a canonical Series. Two input
// shapes are recognized: nested rows of at least six numeric fields in
// timestamp/open/high/low/close/volume order, and keyed records using either
// canonical or abbreviated field names. Rows missing any of open, high, low
// or close are dropped; missing volume defaults to zero. The result is
// sorted by timestamp ascending with duplicate timestamps removed.
//
// A *SchemaError is returned when the container type is unrecognized or when
// the required columns are entirely absent after mapping.
func Normalize(raw any) (Series, error) {
	switch v := raw.(type) {
	case Series:
		return normalizeRows(seriesToRows(v))
	case []Candle:
		return normalizeRows(seriesToRows(v))
	case [][]float64:
		rows := make([]map[string]any, 0, len(v))
		for _, r := range v {
			row, ok := positionalRow(floatsToAny(r))
			if ok {
				rows = append(rows, row)
			}
		}
		return normalizeRows(rows)
	case [][]any:
		rows := make([]map[string]any, 0, len(v))
		for _, r := range v {
			row, ok := positionalRow(r)
			if ok {
				rows = append(rows, row)
			}
		}
		return normalizeRows(rows)
	case []any:
		// Mixed decoding from encoding/json: each element is either a row
		// slice or a keyed record.
		rows := make([]map[string]any, 0, len(v))
		for _, el := range v {
			switch e := el.(type) {
			case []any:
				if row, ok := positionalRow(e); ok {
					rows = append(rows, row)
				}
			case map[string]any:
				rows = append(rows, remapKeys(e))
			default:
				return nil, &SchemaError{Reason: fmt.Sprintf("unsupported row type %T", el)}
			}
		}
		return normalizeRows(rows)
	case []map[string]any:
		rows := make([]map[string]any, 0, len(v))
		for _, e := range v {
			rows = append(rows, remapKeys(e))
		}
		return normalizeRows(rows)
	default:
		return nil, &SchemaError{Reason: fmt.Sprintf("unsupported input type %T", raw)}
	}
}

// Validate checks that a series exposes all six canonical fields with
// strictly increasing timestamps. It runs before every strategy evaluation
// and before backtest replay.
func Validate(s Series) error {
	for i, c := range s {
		if c.Timestamp.IsZero() {
			return &SchemaError{Reason: fmt.Sprintf("row %d: missing timestamp", i)}
		}
		if !validPrice(c.Open) || !validPrice(c.High) || !validPrice(c.Low) || !validPrice(c.Close) {
			return &SchemaError{Reason: fmt.Sprintf("row %d: invalid price field", i)}
		}
		if !isFinite(c.Volume) || c.Volume < 0 {
			return &SchemaError{Reason: fmt.Sprintf("row %d: invalid volume", i)}
		}
		if i > 0 && !s[i-1].Timestamp.Before(c.Timestamp) {
			return &SchemaError{Reason: fmt.Sprintf("row %d: timestamps not strictly increasing", i)}
		}
	}
	return nil
}

func normalizeRows(rows []map[string]any) (Series, error) {
	if len(rows) == 0 {
		return Series{}, nil
	}

	sawRequired := false
	out := make(Series, 0, len(rows))
	for _, row := range rows {
		for _, col := range []string{"open", "high", "low", "close"} {
			if _, ok := row[col]; ok {
				sawRequired = true
			}
		}
		c, ok := candleFromRow(row)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	if !sawRequired {
		return nil, &SchemaError{Reason: "required columns open/high/low/close absent"}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	// Keep one representative per timestamp.
	dedup := out[:0]
	for _, c := range out {
		if len(dedup) > 0 && dedup[len(dedup)-1].Timestamp.Equal(c.Timestamp) {
			continue
		}
		dedup = append(dedup, c)
	}
	return dedup, nil
}

func candleFromRow(row map[string]any) (Candle, bool) {
	ts, ok := coerceTimestamp(row["timestamp"])
	if !ok {
		return Candle{}, false
	}
	var c Candle
	c.Timestamp = ts
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"open", &c.Open},
		{"high", &c.High},
		{"low", &c.Low},
		{"close", &c.Close},
	} {
		v, ok := coerceFloat(row[f.name])
		if !ok {
			return Candle{}, false
		}
		*f.dst = v
	}
	if v, ok := coerceFloat(row["volume"]); ok && v >= 0 {
		c.Volume = v
	}
	return c, true
}

func positionalRow(fields []any) (map[string]any, bool) {
	if len(fields) < 6 {
		return nil, false
	}
	return map[string]any{
		"timestamp": fields[0],
		"open":      fields[1],
		"high":      fields[2],
		"low":       fields[3],
		"close":     fields[4],
		"volume":    fields[5],
	}, true
}

func remapKeys(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		if canon, ok := fieldAliases[k]; ok {
			if _, exists := row[canon]; !exists {
				out[canon] = v
			}
			continue
		}
		out[k] = v
	}
	return out
}

// coerceTimestamp prefers epoch-millisecond values and falls back to generic
// date parsing. Both paths normalize to UTC.
func coerceTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case int64:
		return time.UnixMilli(t).UTC(), true
	case int:
		return time.UnixMilli(int64(t)).UTC(), true
	case float64:
		if !isFinite(t) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(t)).UTC(), true
	case string:
		if ms, err := strconv.ParseInt(t, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UTC(), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if !isFinite(n) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil || !isFinite(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func floatsToAny(fields []float64) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = f
	}
	return out
}

func seriesToRows(s []Candle) []map[string]any {
	rows := make([]map[string]any, len(s))
	for i, c := range s {
		rows[i] = map[string]any{
			"timestamp": c.Timestamp,
			"open":      c.Open,
			"high":      c.High,
			"low":       c.Low,
			"close":     c.Close,
			"volume":    c.Volume,
		}
	}
	return rows
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Prices are positive reals; a zero entry would poison downstream ratios.
func validPrice(f float64) bool {
	return isFinite(f) && f > 0
}
