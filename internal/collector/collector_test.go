package collector

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTrends/internal/cache"
	"StockTrends/internal/model"
)

func newTestCollector(f Fetcher) *Collector {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewCollector(f,
		cache.NewMemo[[]model.Bar]("bars", time.Hour, nil, log),
		cache.NewMemo[string]("names", time.Hour, nil, log),
		log)
}

func TestCollector_Fetch(t *testing.T) {
	mock := &MockFetcher{Price: 100, Days: 250, Names: map[string]string{"AAPL": "Apple Inc."}}
	c := newTestCollector(mock)

	series, inst, err := c.Fetch(context.Background(), "AAPL", model.Period1Y)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", series.Symbol)
	assert.Equal(t, 250, series.Len())
	assert.Equal(t, "Apple Inc.", inst.DisplayName)
	assert.True(t, series.MA50.Defined())
	assert.True(t, series.MA200.Defined())
}

func TestCollector_FetchShortHistory(t *testing.T) {
	mock := &MockFetcher{Price: 20, Days: 30}
	c := newTestCollector(mock)

	series, _, err := c.Fetch(context.Background(), "ARM", model.Period1Mo)
	require.NoError(t, err)
	assert.Equal(t, 30, series.Len())
	assert.Nil(t, series.MA50)
	assert.Nil(t, series.MA200)
}

func TestCollector_NameFallback(t *testing.T) {
	mock := &MockFetcher{
		Days:     10,
		NameErrs: map[string]error{"ZS": errors.New("quote summary unavailable")},
	}
	c := newTestCollector(mock)

	_, inst, err := c.Fetch(context.Background(), "ZS", model.Period1Y)
	require.NoError(t, err)
	assert.Equal(t, "ZS", inst.DisplayName)
	assert.Equal(t, "ZS", inst.Label())

	// The fallback is memoized; a second period does not ask for the name again.
	_, inst, err = c.Fetch(context.Background(), "ZS", model.Period5Y)
	require.NoError(t, err)
	assert.Equal(t, "ZS", inst.DisplayName)
	assert.Equal(t, 1, mock.Calls("name:ZS"))
}

func TestCollector_InvalidateAndFlush(t *testing.T) {
	mock := &MockFetcher{Days: 60}
	c := newTestCollector(mock)
	ctx := context.Background()

	_, _, err := c.Fetch(ctx, "QQQ", model.Period1Y)
	require.NoError(t, err)
	_, _, err = c.Fetch(ctx, "SPY", model.Period1Y)
	require.NoError(t, err)

	c.Invalidate("QQQ")
	_, _, err = c.Fetch(ctx, "QQQ", model.Period1Y)
	require.NoError(t, err)
	_, _, err = c.Fetch(ctx, "SPY", model.Period1Y)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls("bars:QQQ:1y"))
	assert.Equal(t, 2, mock.Calls("name:QQQ"))
	assert.Equal(t, 1, mock.Calls("bars:SPY:1y"))

	bars, names := c.Flush()
	assert.Equal(t, 2, bars)
	assert.Equal(t, 2, names)
	_, _, err = c.Fetch(ctx, "SPY", model.Period1Y)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls("bars:SPY:1y"))
}

func TestCollector_EmptyNameFallsBack(t *testing.T) {
	mock := &MockFetcher{Days: 10, Names: map[string]string{"Z": "  "}}
	c := newTestCollector(mock)

	_, inst, err := c.Fetch(context.Background(), "Z", model.Period1Y)
	require.NoError(t, err)
	assert.Equal(t, "Z", inst.DisplayName)
}

func TestCollector_NoDataIsEmptySeries(t *testing.T) {
	mock := &MockFetcher{BarErrs: map[string]error{"DEAD": ErrNoData}}
	c := newTestCollector(mock)

	series, inst, err := c.Fetch(context.Background(), "DEAD", model.Period5Y)
	require.NoError(t, err)
	assert.Equal(t, 0, series.Len())
	assert.Nil(t, series.MA50)
	assert.Nil(t, series.MA200)
	assert.Equal(t, "DEAD", inst.Symbol)
}

func TestCollector_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	mock := &MockFetcher{BarErrs: map[string]error{"AAPL": boom}}
	c := newTestCollector(mock)

	_, _, err := c.Fetch(context.Background(), "AAPL", model.Period5Y)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	// Errors are not memoized.
	_, _, _ = c.Fetch(context.Background(), "AAPL", model.Period5Y)
	assert.Equal(t, 2, mock.Calls("bars:AAPL:5y"))
}

func TestCollector_InvalidInput(t *testing.T) {
	c := newTestCollector(&MockFetcher{})

	_, _, err := c.Fetch(context.Background(), "  ", model.Period5Y)
	assert.Error(t, err)

	_, _, err = c.Fetch(context.Background(), "AAPL", model.Period("10y"))
	assert.ErrorIs(t, err, model.ErrInvalidPeriod)
}

func TestCollector_Memoized(t *testing.T) {
	mock := &MockFetcher{Days: 60}
	c := newTestCollector(mock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := c.Fetch(ctx, "SPY", model.Period3Mo)
		require.NoError(t, err)
	}
	_, _, err := c.Fetch(ctx, "SPY", model.Period6Mo)
	require.NoError(t, err)

	assert.Equal(t, 1, mock.Calls("bars:SPY:3mo"))
	assert.Equal(t, 1, mock.Calls("bars:SPY:6mo"))
	assert.Equal(t, 1, mock.Calls("name:SPY"))
}

func TestGenerateMockBars(t *testing.T) {
	end := time.Date(2024, 6, 9, 15, 0, 0, 0, time.UTC) // Sunday
	bars := generateMockBars("QQQ", 100, 10, end)
	require.Len(t, bars, 10)
	assert.Equal(t, time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC), bars[9].Date)
	for i, b := range bars {
		assert.NotEqual(t, time.Saturday, b.Date.Weekday())
		assert.NotEqual(t, time.Sunday, b.Date.Weekday())
		if i > 0 {
			assert.True(t, b.Date.After(bars[i-1].Date))
		}
	}
}
