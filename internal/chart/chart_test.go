package chart

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTrends/internal/calculator"
	"StockTrends/internal/model"
)

func series(symbol string, n, offset int) model.AugmentedSeries {
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := range bars {
		p := 100 + float64(i%11)
		bars[i] = model.Bar{Date: start.AddDate(0, 0, offset+i), Open: p, High: p, Low: p, Close: p}
	}
	return calculator.Augment(model.Series{Symbol: symbol, Bars: bars})
}

func TestRenderPriceChart_WithAverages(t *testing.T) {
	r := NewRenderer()
	art, err := r.RenderPriceChart(series("AAPL", 250, 0), "Apple Inc.", "AAPL")
	require.NoError(t, err)

	html := string(art.HTML)
	assert.Equal(t, "Apple Inc.", art.Title)
	assert.Contains(t, html, "Apple Inc.")
	assert.Contains(t, html, `"AAPL"`)
	assert.Contains(t, html, "50DMA")
	assert.Contains(t, html, "200DMA")
	assert.Contains(t, html, "Price")
	assert.Contains(t, html, "Date")
	assert.Contains(t, html, "2022-01-03")
}

func TestRenderPriceChart_ShortHistory(t *testing.T) {
	r := NewRenderer()
	art, err := r.RenderPriceChart(series("ARM", 30, 0), "Arm Holdings", "ARM")
	require.NoError(t, err)

	html := string(art.HTML)
	assert.Contains(t, html, "Arm Holdings")
	assert.NotContains(t, html, "50DMA")
	assert.NotContains(t, html, "200DMA")
}

func TestRenderPriceChart_OnlyShortAverage(t *testing.T) {
	r := NewRenderer()
	art, err := r.RenderPriceChart(series("X", 120, 0), "X", "X")
	require.NoError(t, err)
	assert.Contains(t, string(art.HTML), "50DMA")
	assert.NotContains(t, string(art.HTML), "200DMA")
}

func TestRenderRelativeChart(t *testing.T) {
	r := NewRenderer()
	rel := calculator.RelativePerformance(series("AAPL", 250, 0), series("SPY", 250, 0))
	art, err := r.RenderRelativeChart(rel, "AAPL", "SPY")
	require.NoError(t, err)

	html := string(art.HTML)
	assert.Equal(t, "AAPL vs SPY", art.Title)
	assert.Contains(t, html, "AAPL vs SPY")
	assert.Contains(t, html, "Relative Performance")
	assert.Contains(t, html, "50DMA")
	assert.Contains(t, html, "200DMA")
}

func TestRenderRelativeChart_Empty(t *testing.T) {
	r := NewRenderer()
	rel := calculator.RelativePerformance(series("AAPL", 250, 0), model.AugmentedSeries{Series: model.Series{Symbol: "DEAD"}})
	require.Equal(t, 0, rel.Len())

	art, err := r.RenderRelativeChart(rel, "AAPL", "DEAD")
	require.NoError(t, err)
	assert.Contains(t, string(art.HTML), "AAPL vs DEAD")
	assert.NotContains(t, string(art.HTML), "50DMA")
}

func TestLineData_Gaps(t *testing.T) {
	data := lineData([]float64{1, math.NaN(), math.Inf(1), 2})
	require.Len(t, data, 4)
	assert.Equal(t, 1.0, data[0].Value)
	assert.Equal(t, gap, data[1].Value)
	assert.Equal(t, gap, data[2].Value)
	assert.Equal(t, 2.0, data[3].Value)
}

func TestFormatDates(t *testing.T) {
	got := formatDates([]time.Time{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)})
	assert.Equal(t, []string{"2024-02-29"}, got)
	assert.Empty(t, formatDates(nil))
}
