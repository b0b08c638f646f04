package model

import (
	"math"
	"time"
)

// Column is a derived value per bar. A nil Column means the source had too little
// history; inside a present Column, warm-up positions hold NaN.
type Column []float64

// Defined reports whether at least one finite value exists.
func (c Column) Defined() bool {
	for _, v := range c {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// At returns the value at i and whether it is defined.
func (c Column) At(i int) (float64, bool) {
	if i < 0 || i >= len(c) {
		return 0, false
	}
	v := c[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// AugmentedSeries is a Series with its 50- and 200-period close moving averages.
type AugmentedSeries struct {
	Series
	MA50  Column
	MA200 Column
}

// RelativeSeries is the ratio of two instruments' closes over their shared dates.
type RelativeSeries struct {
	LabelA string
	LabelB string
	Dates  []time.Time
	Ratio  []float64
	MA50   Column
	MA200  Column
}

func (r RelativeSeries) Len() int { return len(r.Ratio) }

// Summary holds headline figures for a price region.
type Summary struct {
	Last      float64
	ChangePct float64
	High      float64
	Low       float64
	Position  float64 // 0.0 ~ 1.0 within [Low, High]
	RSI       float64
	MA50      float64 // latest 50-period average, NaN without enough history
	MA200     float64
	Points    int
}

// ChartArtifact is a rendered, self-contained chart page.
type ChartArtifact struct {
	Title string
	HTML  []byte
}
