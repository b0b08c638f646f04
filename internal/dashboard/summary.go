package dashboard

import (
	"math"

	"github.com/shopspring/decimal"

	"StockTrends/internal/calculator"
	"StockTrends/internal/model"
)

// SummaryView is a region's headline figures, formatted for display.
type SummaryView struct {
	Points   int
	Last     string
	Change   string
	High     string
	Low      string
	Position string
	RSI      string
	MA50     string // "-" without enough history
	MA200    string
}

func priceSummary(series model.Series) SummaryView {
	return formatSummary(calculator.Summarize(series), 2)
}

// ratioSummary summarizes the defined points of a relative series.
func ratioSummary(rel model.RelativeSeries) SummaryView {
	bars := make([]model.Bar, 0, rel.Len())
	for i, v := range rel.Ratio {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		bars = append(bars, model.Bar{Date: rel.Dates[i], Open: v, High: v, Low: v, Close: v})
	}
	view := formatSummary(calculator.Summarize(model.Series{Bars: bars}), 4)
	view.Points = rel.Len()
	return view
}

func formatSummary(s model.Summary, places int32) SummaryView {
	view := SummaryView{Points: s.Points}
	if s.Points == 0 {
		return view
	}
	view.Last = fixed(s.Last, places)
	view.High = fixed(s.High, places)
	view.Low = fixed(s.Low, places)
	view.Change = percent(s.ChangePct)
	view.Position = fixed(s.Position*100, 0) + "%"
	view.RSI = fixed(s.RSI, 1)
	view.MA50 = fixed(s.MA50, places)
	view.MA200 = fixed(s.MA200, places)
	return view
}

func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

func percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}
