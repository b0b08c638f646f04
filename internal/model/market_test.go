package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePeriod(t *testing.T) {
	for _, p := range Periods() {
		got, err := ParsePeriod(p.String())
		assert.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePeriod("10y")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	assert.False(t, Period("").Valid())
	assert.Len(t, Periods(), 7)
	assert.Equal(t, Period5Y, DefaultPeriod)
}

func TestTradingDate(t *testing.T) {
	in := time.Date(2024, 6, 5, 15, 59, 0, 0, time.FixedZone("EDT", -4*3600))
	assert.Equal(t, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), TradingDate(in))
}

func TestColumn(t *testing.T) {
	var absent Column
	assert.False(t, absent.Defined())

	warm := Column{math.NaN(), math.NaN()}
	assert.False(t, warm.Defined())

	c := Column{math.NaN(), 2.5}
	assert.True(t, c.Defined())
	_, ok := c.At(0)
	assert.False(t, ok)
	v, ok := c.At(1)
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
	_, ok = c.At(5)
	assert.False(t, ok)
}

func TestInstrumentLabel(t *testing.T) {
	assert.Equal(t, "AAPL", Instrument{Symbol: "AAPL"}.Label())
	assert.Equal(t, "Apple Inc.", Instrument{Symbol: "AAPL", DisplayName: "Apple Inc."}.Label())
}
