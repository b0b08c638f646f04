package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"StockTrends/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	Limiter   *rate.Limiter

	names sync.Map // symbol -> name seen in chart metadata
}

// NewYahooFetcher creates a new Yahoo Finance fetcher. ratePerSec <= 0 disables throttling.
func NewYahooFetcher(proxyURL string, ratePerSec float64) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
		Limiter: limiter,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("yahoo throttle: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)
	if resp.StatusCode == http.StatusNotFound && decodeErr == nil &&
		chart.Chart.Error != nil && chart.Chart.Error.Code == "Not Found" {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("yahoo decode: %w", decodeErr)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	return &chart, nil
}

// FetchBars returns daily bars for the trailing period. Days where the provider
// has no close (holidays, partial history) are skipped, and a trailing intraday
// bar that repeats the last trading date replaces it.
func (f *YahooFetcher) FetchBars(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error) {
	chart, err := f.fetchChart(ctx, symbol, "1d", period.String())
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if name := metaName(result.Meta.LongName, result.Meta.ShortName); name != "" {
		f.names.Store(symbol, name)
	}
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]
	offset := result.Meta.GMTOffset
	bars := make([]model.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == nil {
			continue
		}
		bar := model.Bar{
			Date:  model.TradingDate(time.Unix(ts+offset, 0).UTC()),
			Close: *c,
		}
		bar.Open = valueOr(at(quote.Open, i), bar.Close)
		bar.High = valueOr(at(quote.High, i), bar.Close)
		bar.Low = valueOr(at(quote.Low, i), bar.Close)
		bar.Volume = valueOr(at(quote.Volume, i), 0)
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return dedupeDates(bars), nil
}

// FetchLongName reads the instrument name from the chart metadata. A name already
// seen in a FetchBars response is returned without another request.
func (f *YahooFetcher) FetchLongName(ctx context.Context, symbol string) (string, error) {
	if name, ok := f.names.Load(symbol); ok {
		return name.(string), nil
	}
	chart, err := f.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return "", err
	}
	meta := chart.Chart.Result[0].Meta
	name := metaName(meta.LongName, meta.ShortName)
	if name == "" {
		return "", fmt.Errorf("yahoo %s: no name in metadata", symbol)
	}
	f.names.Store(symbol, name)
	return name, nil
}

func metaName(long, short string) string {
	if long != "" {
		return long
	}
	return short
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// dedupeDates keeps the last bar of each trading date. bars must be sorted.
func dedupeDates(bars []model.Bar) []model.Bar {
	if len(bars) < 2 {
		return bars
	}
	out := bars[:1]
	for _, b := range bars[1:] {
		if b.Date.Equal(out[len(out)-1].Date) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
