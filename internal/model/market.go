package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned when a time window token is not one of the supported ranges.
var ErrInvalidPeriod = errors.New("invalid period")

// Period is a lookback window token understood by the data providers.
type Period string

const (
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	PeriodMax Period = "max"

	DefaultPeriod = Period5Y
)

var periods = []Period{Period1Mo, Period3Mo, Period6Mo, Period1Y, Period2Y, Period5Y, PeriodMax}

// Periods returns every supported period in ascending order.
func Periods() []Period {
	out := make([]Period, len(periods))
	copy(out, periods)
	return out
}

// ParsePeriod validates a period token.
func ParsePeriod(s string) (Period, error) {
	for _, p := range periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

func (p Period) Valid() bool {
	_, err := ParsePeriod(string(p))
	return err == nil
}

func (p Period) String() string { return string(p) }

// Bar is a single daily OHLCV record. Date is the trading date at midnight UTC.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series holds the daily bars of one symbol, oldest first, one bar per trading day.
type Series struct {
	Symbol string
	Bars   []Bar
}

func (s Series) Len() int { return len(s.Bars) }

// Closes extracts the close prices in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Dates extracts the bar dates in order.
func (s Series) Dates() []time.Time {
	dates := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		dates[i] = b.Date
	}
	return dates
}

// TradingDate truncates t to its calendar date at midnight UTC.
func TradingDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Instrument pairs a ticker with its best-effort display name.
type Instrument struct {
	Symbol      string
	DisplayName string
}

// Label returns the display name, or the symbol when no name was resolved.
func (i Instrument) Label() string {
	if i.DisplayName == "" {
		return i.Symbol
	}
	return i.DisplayName
}
