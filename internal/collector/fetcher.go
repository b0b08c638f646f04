package collector

import (
	"context"
	"errors"

	"StockTrends/internal/model"
)

// ErrNoData is returned when a provider answers but has no bars for the symbol.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchBars returns daily bars over the trailing period ending now, oldest first.
	FetchBars(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error)
	// FetchLongName returns the long-form instrument name.
	FetchLongName(ctx context.Context, symbol string) (string, error)
	Name() string
}
