package ohlcv

import (
	"time"
)

// Candle represents one OHLCV bar for a symbol and timeframe.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Series is an ordered, timestamp-sorted, duplicate-free sequence of candles
// for one symbol and one timeframe. Spacing may be irregular; only ordering
// is guaranteed.
type Series []Candle

// timeframeSeconds maps the supported timeframe strings to bar durations.
var timeframeSeconds = map[string]int64{
	"4h": 4 * 3600,
	"1d": 24 * 3600,
	"1w": 7 * 24 * 3600,
}

// TimeframeDuration returns the bar duration for a timeframe string, or zero
// when the timeframe is not one of the supported set.
func TimeframeDuration(tf string) time.Duration {
	sec, ok := timeframeSeconds[normalizeTF(tf)]
	if !ok {
		return 0
	}
	return time.Duration(sec) * time.Second
}

func normalizeTF(tf string) string {
	switch tf {
	case "4H", "4h":
		return "4h"
	case "1D", "1d", "D":
		return "1d"
	case "1W", "1w", "W":
		return "1w"
	}
	return tf
}

// Opens returns the open column.
func (s Series) Opens() []float64 { return s.column(func(c Candle) float64 { return c.Open }) }

// Highs returns the high column.
func (s Series) Highs() []float64 { return s.column(func(c Candle) float64 { return c.High }) }

// Lows returns the low column.
func (s Series) Lows() []float64 { return s.column(func(c Candle) float64 { return c.Low }) }

// Closes returns the close column.
func (s Series) Closes() []float64 { return s.column(func(c Candle) float64 { return c.Close }) }

// Volumes returns the volume column.
func (s Series) Volumes() []float64 { return s.column(func(c Candle) float64 { return c.Volume }) }

// Timestamps returns the timestamp column.
func (s Series) Timestamps() []time.Time {
	out := make([]time.Time, len(s))
	for i, c := range s {
		out[i] = c.Timestamp
	}
	return out
}

func (s Series) column(get func(Candle) float64) []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = get(c)
	}
	return out
}

// Last returns the final candle of the series. The boolean is false for an
// empty series.
func (s Series) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// Prefix returns the sub-series covering bars [0..i]. It shares backing
// storage with s; callers must not mutate the result.
func (s Series) Prefix(i int) Series {
	if i < 0 {
		return nil
	}
	if i >= len(s) {
		return s
	}
	return s[:i+1]
}

// DropUnclosed removes the last bar when it is still forming at the given
// instant, so that closed-bar strategies never act on a partial candle.
// Series for unknown timeframes are returned unchanged.
func (s Series) DropUnclosed(tf string, now time.Time) Series {
	if len(s) == 0 {
		return s
	}
	d := TimeframeDuration(tf)
	if d == 0 {
		return s
	}
	last := s[len(s)-1].Timestamp
	if now.Sub(last) < d {
		return s[:len(s)-1]
	}
	return s
}

// Resample aggregates a series into a higher timeframe, right-closed and
// right-labeled: each output bar is stamped with the end of its bucket,
// open is the first open, high/low are the extremes, close is the last
// close and volume is the sum. Supported rules: "1d", "1w".
func Resample(s Series, rule string) Series {
	d := TimeframeDuration(rule)
	if d == 0 || len(s) == 0 {
		return nil
	}

	var out Series
	var cur *Candle
	var curEnd time.Time

	for _, c := range s {
		end := bucketEnd(c.Timestamp, rule)
		if cur == nil || !end.Equal(curEnd) {
			if cur != nil {
				out = append(out, *cur)
			}
			nc := c
			nc.Timestamp = end
			cur = &nc
			curEnd = end
			continue
		}
		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Volume += c.Volume
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// bucketEnd returns the right edge of the resample bucket containing ts.
// Buckets are right-closed: a timestamp exactly on a boundary belongs to the
// bucket ending there. Daily buckets end at UTC midnight, weekly buckets at
// Monday midnight (ISO weeks).
func bucketEnd(ts time.Time, rule string) time.Time {
	ts = ts.UTC()
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	switch normalizeTF(rule) {
	case "1w":
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		if ts.Equal(start) {
			return start
		}
		return start.AddDate(0, 0, 7)
	default:
		if ts.Equal(day) {
			return day
		}
		return day.AddDate(0, 0, 1)
	}
}
