package chart

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"StockTrends/internal/model"
)

const (
	dateLayout = "2006-01-02"

	// ECharts treats "-" as a missing point and leaves a gap in the line.
	gap = "-"

	shortLabel = "50DMA"
	longLabel  = "200DMA"
	shortColor = "orange"
	longColor  = "green"
)

// Renderer turns series into self-contained go-echarts pages.
type Renderer struct {
	Theme      string
	AssetsHost string // empty uses the go-echarts default CDN
	Width      string
	Height     string
}

// NewRenderer returns a Renderer with the dashboard defaults.
func NewRenderer() *Renderer {
	return &Renderer{
		Theme:  types.ThemeWesteros,
		Width:  "100%",
		Height: "520px",
	}
}

// RenderPriceChart plots the close line labelled seriesLabel, plus the moving
// averages that have at least one defined value.
func (r *Renderer) RenderPriceChart(series model.AugmentedSeries, title, seriesLabel string) (model.ChartArtifact, error) {
	line := r.newLine(title, "Price")
	line.SetXAxis(formatDates(series.Dates())).
		AddSeries(seriesLabel, lineData(series.Closes()))
	addAverages(line, series.MA50, series.MA200)
	return r.render(line, title)
}

// RenderRelativeChart plots the ratio line "A vs B" and its defined moving averages.
func (r *Renderer) RenderRelativeChart(series model.RelativeSeries, titleA, titleB string) (model.ChartArtifact, error) {
	title := fmt.Sprintf("%s vs %s", titleA, titleB)
	line := r.newLine(title, "Relative Performance")
	line.SetXAxis(formatDates(series.Dates)).
		AddSeries(title, lineData(series.Ratio))
	addAverages(line, series.MA50, series.MA200)
	return r.render(line, title)
}

func (r *Renderer) newLine(title, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  title,
			Width:      r.Width,
			Height:     r.Height,
			Theme:      r.Theme,
			AssetsHost: r.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Scale: true}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)
	return line
}

func addAverages(line *charts.Line, ma50, ma200 model.Column) {
	if ma50.Defined() {
		line.AddSeries(shortLabel, lineData(ma50),
			charts.WithLineStyleOpts(opts.LineStyle{Color: shortColor, Type: "dotted"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: shortColor}),
		)
	}
	if ma200.Defined() {
		line.AddSeries(longLabel, lineData(ma200),
			charts.WithLineStyleOpts(opts.LineStyle{Color: longColor, Type: "dotted"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: longColor}),
		)
	}
}

func (r *Renderer) render(line *charts.Line, title string) (model.ChartArtifact, error) {
	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return model.ChartArtifact{}, fmt.Errorf("render %q: %w", title, err)
	}
	return model.ChartArtifact{Title: title, HTML: buf.Bytes()}, nil
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			data[i] = opts.LineData{Value: gap, Symbol: "none"}
			continue
		}
		data[i] = opts.LineData{Value: v, Symbol: "none"}
	}
	return data
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	return out
}
