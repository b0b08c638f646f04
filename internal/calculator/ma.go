package calculator

import (
	"errors"
	"fmt"
	"math"

	"StockTrends/internal/model"
)

const (
	ShortWindow = 50
	LongWindow  = 200
)

// CalculateSMA returns the mean of the last window closes, the latest point of
// RollingSMA without building the whole column.
func CalculateSMA(closes []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(closes) < window {
		return 0, fmt.Errorf("need %d closes for SMA, have %d", window, len(closes))
	}
	sum := 0.0
	for _, v := range closes[len(closes)-window:] {
		if !finite(v) {
			return 0, errors.New("non-finite close in SMA window")
		}
		sum += v
	}
	return sum / float64(window), nil
}

// RollingSMA returns the trailing simple moving average of values for every position.
// It returns nil when there are fewer values than the window. Positions before
// window-1, and windows containing a non-finite value, are NaN.
func RollingSMA(values []float64, window int) model.Column {
	if window <= 0 || len(values) < window {
		return nil
	}
	out := make(model.Column, len(values))
	sum := 0.0
	bad := 0 // non-finite values inside the window
	for i, v := range values {
		if finite(v) {
			sum += v
		} else {
			bad++
		}
		if i >= window {
			old := values[i-window]
			if finite(old) {
				sum -= old
			} else {
				bad--
			}
		}
		if i < window-1 || bad > 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// Augment attaches the 50- and 200-period close moving averages to a series.
func Augment(series model.Series) model.AugmentedSeries {
	closes := series.Closes()
	return model.AugmentedSeries{
		Series: series,
		MA50:   RollingSMA(closes, ShortWindow),
		MA200:  RollingSMA(closes, LongWindow),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
