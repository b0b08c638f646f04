package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"StockTrends/internal/cache"
	"StockTrends/internal/chart"
	"StockTrends/internal/collector"
	"StockTrends/internal/config"
	"StockTrends/internal/dashboard"
	"StockTrends/internal/model"
	"StockTrends/internal/recorder"
	"StockTrends/internal/universe"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	collector *collector.Collector
	dashboard *dashboard.Dashboard
	closers   []func() error
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newLogger(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) *app {
	a := &app{cfg: cfg, log: log}

	fetcher := newFetcher(cfg)
	log.WithField("provider", fetcher.Name()).Info("data source ready")

	var store cache.Store
	if cfg.Cache.RedisAddr != "" {
		rs, err := cache.NewRedisStore(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, using in-process cache only")
		} else {
			store = rs
			a.closers = append(a.closers, rs.Close)
		}
	}
	a.collector = collector.NewCollector(fetcher,
		cache.NewMemo[[]model.Bar]("bars", cfg.Cache.TTL, store, log),
		cache.NewMemo[string]("names", cfg.Cache.TTL, store, log),
		log)

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.WithError(err).Warn("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}
	a.closers = append(a.closers, rec.Close)

	a.dashboard = dashboard.New(a.collector, chart.NewRenderer(), rec, buildUniverse(cfg), log)
	return a
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.WithError(err).Warn("close failed")
		}
	}
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "rest":
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		return &collector.MockFetcher{Price: 100}
	default:
		return collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.RatePerSec)
	}
}

// buildUniverse starts from the built-in lists and replaces any list the config sets.
func buildUniverse(cfg *config.Config) universe.Universe {
	u := universe.Default()
	if len(cfg.Universe.Stocks) > 0 {
		u.Stocks = upper(cfg.Universe.Stocks)
	}
	if len(cfg.Universe.Indexes) > 0 {
		u.Indexes = upper(cfg.Universe.Indexes)
	}
	return u
}

func upper(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
