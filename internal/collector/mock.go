package collector

import (
	"context"
	"sync"
	"time"

	"StockTrends/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without explicit data get generated bars around Price.
type MockFetcher struct {
	Price    float64
	Days     int
	Bars     map[string][]model.Bar
	Names    map[string]string
	BarErrs  map[string]error
	NameErrs map[string]error
	Now      func() time.Time

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol string, period model.Period) ([]model.Bar, error) {
	m.count("bars:" + symbol + ":" + period.String())
	if err, ok := m.BarErrs[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	days := m.Days
	if days == 0 {
		days = periodDays(period)
	}
	price := m.Price
	if price == 0 {
		price = 100
	}
	return generateMockBars(symbol, price, days, m.now()), nil
}

func (m *MockFetcher) FetchLongName(_ context.Context, symbol string) (string, error) {
	m.count("name:" + symbol)
	if err, ok := m.NameErrs[symbol]; ok {
		return "", err
	}
	if name, ok := m.Names[symbol]; ok {
		return name, nil
	}
	return symbol + " Mock Corp.", nil
}

// Calls returns how many times key ("bars:SYM:period" or "name:SYM") was requested.
func (m *MockFetcher) Calls(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[key]
}

func (m *MockFetcher) count(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[key]++
}

func (m *MockFetcher) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// generateMockBars produces count weekday bars ending at end, oldest first. The
// symbol seeds a small deterministic drift so symbols do not move in lockstep.
func generateMockBars(symbol string, basePrice float64, count int, end time.Time) []model.Bar {
	seed := 0
	for _, r := range symbol {
		seed += int(r)
	}
	drift := float64(seed%7-3) * 0.0005

	dates := make([]time.Time, 0, count)
	for day := model.TradingDate(end); len(dates) < count; day = day.AddDate(0, 0, -1) {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, day)
		}
	}

	bars := make([]model.Bar, count)
	for i := range bars {
		p := basePrice * (1 + float64(i-count/2)*drift)
		bars[i] = model.Bar{
			Date:   dates[count-1-i],
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// periodDays approximates the trading days in a period.
func periodDays(p model.Period) int {
	switch p {
	case model.Period1Mo:
		return 21
	case model.Period3Mo:
		return 63
	case model.Period6Mo:
		return 126
	case model.Period1Y:
		return 252
	case model.Period2Y:
		return 504
	case model.Period5Y:
		return 1260
	case model.PeriodMax:
		return 2520
	}
	return 252
}
