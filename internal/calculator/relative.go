package calculator

import (
	"math"

	"StockTrends/internal/model"
)

// RelativePerformance divides a's close by b's close on every date both series share.
// A zero or non-finite denominator yields NaN for that date. Moving averages are
// computed over the ratio with thresholds applied to the number of shared dates.
func RelativePerformance(a, b model.AugmentedSeries) model.RelativeSeries {
	rel := model.RelativeSeries{LabelA: a.Symbol, LabelB: b.Symbol}

	byDate := make(map[int64]float64, len(b.Bars))
	for _, bar := range b.Bars {
		byDate[bar.Date.Unix()] = bar.Close
	}
	for _, bar := range a.Bars {
		denom, ok := byDate[bar.Date.Unix()]
		if !ok {
			continue
		}
		rel.Dates = append(rel.Dates, bar.Date)
		rel.Ratio = append(rel.Ratio, ratio(bar.Close, denom))
	}

	rel.MA50 = RollingSMA(rel.Ratio, ShortWindow)
	rel.MA200 = RollingSMA(rel.Ratio, LongWindow)
	return rel
}

func ratio(num, denom float64) float64 {
	if denom == 0 || !finite(denom) || !finite(num) {
		return math.NaN()
	}
	return num / denom
}
