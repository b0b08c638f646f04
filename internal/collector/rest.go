package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockTrends/internal/model"
)

// RESTFetcher implements Fetcher against a generic bars REST API:
//
//	GET {base}/api/v1/bars/daily?symbol=AAPL&range=5y  -> [{"timestamp":..,"open":..,...}]
//	GET {base}/api/v1/instruments/name?symbol=AAPL     -> {"name":"Apple Inc."}
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      float64  `json:"open"`
	High      float64  `json:"high"`
	Low       float64  `json:"low"`
	Close     *float64 `json:"close"`
	Volume    float64  `json:"volume"`
}

func (f *RESTFetcher) FetchBars(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&range=%s",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(period.String()))

	var raw []restBar
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	bars := make([]model.Bar, 0, len(raw))
	for _, rb := range raw {
		if rb.Close == nil {
			continue
		}
		bars = append(bars, model.Bar{
			Date:   model.TradingDate(time.Unix(rb.Timestamp, 0).UTC()),
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  *rb.Close,
			Volume: rb.Volume,
		})
	}
	// Ensure chronological order
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return dedupeDates(bars), nil
}

func (f *RESTFetcher) FetchLongName(ctx context.Context, symbol string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/v1/instruments/name?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var result struct {
		Name string `json:"name"`
	}
	if err := f.getJSON(ctx, endpoint, &result); err != nil {
		return "", fmt.Errorf("fetch name: %w", err)
	}
	if result.Name == "" {
		return "", fmt.Errorf("fetch name: empty name for %s", symbol)
	}
	return result.Name, nil
}

func (f *RESTFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
