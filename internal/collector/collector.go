package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"StockTrends/internal/cache"
	"StockTrends/internal/calculator"
	"StockTrends/internal/metrics"
	"StockTrends/internal/model"
)

// Collector fetches price history and display names and attaches moving averages.
type Collector struct {
	Fetcher Fetcher
	bars    *cache.Memo[[]model.Bar]
	names   *cache.Memo[string]
	log     logrus.FieldLogger
}

// NewCollector creates a new Collector. Both memo caches are required.
func NewCollector(fetcher Fetcher, bars *cache.Memo[[]model.Bar], names *cache.Memo[string], log logrus.FieldLogger) *Collector {
	return &Collector{
		Fetcher: fetcher,
		bars:    bars,
		names:   names,
		log:     log.WithField("provider", fetcher.Name()),
	}
}

// Fetch returns the augmented series and instrument identity for ticker over period.
// A symbol the provider has no data for yields an empty series, not an error.
// Display name failures are swallowed and replaced by the ticker.
func (c *Collector) Fetch(ctx context.Context, ticker string, period model.Period) (model.AugmentedSeries, model.Instrument, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return model.AugmentedSeries{}, model.Instrument{}, errors.New("empty ticker")
	}
	if !period.Valid() {
		return model.AugmentedSeries{}, model.Instrument{}, fmt.Errorf("%w: %q", model.ErrInvalidPeriod, period)
	}
	log := c.log.WithFields(logrus.Fields{"symbol": ticker, "period": period})

	bars, err := c.FetchBars(ctx, ticker, period)
	if err != nil {
		return model.AugmentedSeries{}, model.Instrument{}, fmt.Errorf("fetch %s %s: %w", ticker, period, err)
	}
	if len(bars) == 0 {
		log.Warn("provider returned no bars")
	}

	inst := model.Instrument{Symbol: ticker, DisplayName: c.DisplayName(ctx, ticker)}
	series := calculator.Augment(model.Series{Symbol: ticker, Bars: bars})
	log.WithField("bars", len(bars)).Debug("series ready")
	return series, inst, nil
}

// FetchBars returns the memoized bars for (ticker, period).
func (c *Collector) FetchBars(ctx context.Context, ticker string, period model.Period) ([]model.Bar, error) {
	return c.bars.Get(ctx, ticker+":"+period.String(), func(ctx context.Context) ([]model.Bar, error) {
		bars, err := c.Fetcher.FetchBars(ctx, ticker, period)
		switch {
		case errors.Is(err, ErrNoData):
			metrics.ProviderRequests.WithLabelValues(c.Fetcher.Name(), "bars", "empty").Inc()
			return []model.Bar{}, nil
		case err != nil:
			metrics.ProviderRequests.WithLabelValues(c.Fetcher.Name(), "bars", "error").Inc()
			return nil, err
		}
		metrics.ProviderRequests.WithLabelValues(c.Fetcher.Name(), "bars", "ok").Inc()
		return bars, nil
	})
}

// DisplayName resolves the long name of ticker, falling back to the ticker itself.
// The fallback is memoized like a real name, so a symbol without one is not
// looked up again until its entry expires or is invalidated.
func (c *Collector) DisplayName(ctx context.Context, ticker string) string {
	name, _ := c.names.Get(ctx, ticker, func(ctx context.Context) (string, error) {
		name, err := c.Fetcher.FetchLongName(ctx, ticker)
		if err != nil {
			metrics.ProviderRequests.WithLabelValues(c.Fetcher.Name(), "name", "error").Inc()
		} else {
			metrics.ProviderRequests.WithLabelValues(c.Fetcher.Name(), "name", "ok").Inc()
		}
		if err != nil || strings.TrimSpace(name) == "" {
			c.log.WithField("symbol", ticker).WithError(err).Warn("display name lookup failed, using ticker")
			metrics.NameFallbacks.Inc()
			return ticker, nil
		}
		return name, nil
	})
	if name == "" {
		return ticker
	}
	return name
}

// Invalidate forgets the name and the bars of every period for ticker, so the
// next evaluation refetches it.
func (c *Collector) Invalidate(ticker string) {
	c.names.Invalidate(ticker)
	for _, p := range model.Periods() {
		c.bars.Invalidate(ticker + ":" + p.String())
	}
}

// Flush empties both caches.
func (c *Collector) Flush() (bars, names int) {
	return c.bars.Flush(), c.names.Flush()
}

// Purge drops expired entries from both caches.
func (c *Collector) Purge() (bars, names int) {
	return c.bars.Purge(), c.names.Purge()
}
