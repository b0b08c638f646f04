package calculator

import (
	"errors"
	"math"

	"StockTrends/internal/model"
)

// CalculateRange scans the given bars and returns the highest high and lowest low.
func CalculateRange(bars []model.Bar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// CalculatePosition returns where the current price sits within the range (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// CalculateChange returns the percent change from the first to the last close.
func CalculateChange(bars []model.Bar) (float64, error) {
	if len(bars) < 2 {
		return 0, errors.New("need at least two bars")
	}
	first := bars[0].Close
	if first == 0 {
		return 0, errors.New("first close is zero")
	}
	return (bars[len(bars)-1].Close - first) / first * 100, nil
}

// Summarize builds the headline figures for a series. Figures that cannot be
// computed are left at their zero value; RSI falls back to 50 and the latest
// moving averages are NaN without enough history.
func Summarize(series model.Series) model.Summary {
	sum := model.Summary{Points: series.Len(), RSI: neutralRSI, MA50: math.NaN(), MA200: math.NaN()}
	if series.Len() == 0 {
		return sum
	}
	closes := series.Closes()
	sum.Last = closes[len(closes)-1]
	if chg, err := CalculateChange(series.Bars); err == nil {
		sum.ChangePct = chg
	}
	if h, l, err := CalculateRange(series.Bars); err == nil {
		sum.High, sum.Low = h, l
		if pos, err := CalculatePosition(sum.Last, h, l); err == nil {
			sum.Position = pos
		}
	}
	if rsi, err := CalculateRSI(closes, RSIPeriod); err == nil {
		sum.RSI = rsi
	}
	if ma, err := CalculateSMA(closes, ShortWindow); err == nil {
		sum.MA50 = ma
	}
	if ma, err := CalculateSMA(closes, LongWindow); err == nil {
		sum.MA200 = ma
	}
	return sum
}
