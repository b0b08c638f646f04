package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"StockTrends/internal/calculator"
	"StockTrends/internal/chart"
	"StockTrends/internal/collector"
	"StockTrends/internal/metrics"
	"StockTrends/internal/model"
	"StockTrends/internal/recorder"
	"StockTrends/internal/universe"
)

// RegionPrice is the first region; the comparison regions follow it.
const RegionPrice = "price"

// RelativeRegion returns the name of the i-th (0-based) comparison region.
func RelativeRegion(i int) string { return fmt.Sprintf("relative-%d", i+1) }

// Region is one chart slot on the page. Exactly one of Artifact or Err is meaningful.
type Region struct {
	Name     string
	Title    string
	Artifact model.ChartArtifact
	Summary  SummaryView
	Err      string
}

// Failed reports whether the region is in the error state.
func (r Region) Failed() bool { return r.Err != "" }

// Page is the result of one evaluation.
type Page struct {
	ID        string
	Selection Selection
	Regions   []Region
	Elapsed   time.Duration
}

// Region looks a region up by name.
func (p *Page) Region(name string) (Region, bool) {
	for _, r := range p.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// Dashboard evaluates selections into pages of chart regions.
type Dashboard struct {
	Collector *collector.Collector
	Renderer  *chart.Renderer
	Recorder  recorder.Recorder
	Universe  universe.Universe
	log       logrus.FieldLogger
}

// New creates a Dashboard. A nil recorder disables render recording.
func New(col *collector.Collector, r *chart.Renderer, rec recorder.Recorder, u universe.Universe, log logrus.FieldLogger) *Dashboard {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Dashboard{Collector: col, Renderer: r, Recorder: rec, Universe: u, log: log}
}

type fetched struct {
	symbol string
	series model.AugmentedSeries
	inst   model.Instrument
	err    error
}

// Evaluate runs one full pass for sel: every distinct instrument is fetched once,
// then the price region and the three relative regions are built in order.
// Fetch and render failures are confined to their regions; only an invalid
// selection or a cancelled context fails the whole page.
func (d *Dashboard) Evaluate(ctx context.Context, sel Selection) (*Page, error) {
	sel = sel.Normalize()
	if err := sel.Validate(d.Universe); err != nil {
		return nil, err
	}
	start := time.Now()
	page := &Page{ID: uuid.NewString(), Selection: sel}
	log := d.log.WithFields(logrus.Fields{"render_id": page.ID, "symbol": sel.Primary, "period": sel.Period})

	data, err := d.fetchAll(ctx, sel)
	if err != nil {
		return nil, err
	}

	primary := data[sel.Primary]
	page.Regions = append(page.Regions, d.priceRegion(primary))
	for i, c := range sel.Compare {
		page.Regions = append(page.Regions, d.relativeRegion(RelativeRegion(i), primary, data[c]))
	}

	page.Elapsed = time.Since(start)
	metrics.EvaluationDuration.Observe(page.Elapsed.Seconds())
	for _, r := range page.Regions {
		if r.Failed() {
			metrics.RegionErrors.WithLabelValues(r.Name).Inc()
			log.WithField("region", r.Name).Warn(r.Err)
		}
	}
	if err := d.Recorder.RecordRender(renderEvent(page, start)); err != nil {
		log.WithError(err).Warn("record render failed")
	}
	log.WithField("elapsed", page.Elapsed).Info("dashboard evaluated")
	return page, nil
}

// fetchAll loads each distinct symbol once, in parallel. Per-symbol errors are
// kept in the result map.
func (d *Dashboard) fetchAll(ctx context.Context, sel Selection) (map[string]*fetched, error) {
	symbols := sel.Symbols()
	results := make([]*fetched, len(symbols))

	var g errgroup.Group
	g.SetLimit(len(symbols))
	for i, sym := range symbols {
		g.Go(func() error {
			series, inst, err := d.Collector.Fetch(ctx, sym, sel.Period)
			results[i] = &fetched{symbol: sym, series: series, inst: inst, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]*fetched, len(symbols))
	for i, sym := range symbols {
		out[sym] = results[i]
	}
	return out, nil
}

func (d *Dashboard) priceRegion(p *fetched) Region {
	reg := Region{Name: RegionPrice, Title: p.symbol}
	if p.err != nil {
		reg.Err = p.err.Error()
		return reg
	}
	art, err := d.Renderer.RenderPriceChart(p.series, p.inst.Label(), p.inst.Symbol)
	if err != nil {
		reg.Err = err.Error()
		return reg
	}
	reg.Title = art.Title
	reg.Artifact = art
	reg.Summary = priceSummary(p.series.Series)
	return reg
}

func (d *Dashboard) relativeRegion(name string, a, b *fetched) Region {
	reg := Region{Name: name, Title: fmt.Sprintf("%s vs %s", a.symbol, b.symbol)}
	switch {
	case a.err != nil:
		reg.Err = a.err.Error()
		return reg
	case b.err != nil:
		reg.Err = b.err.Error()
		return reg
	}
	rel := calculator.RelativePerformance(a.series, b.series)
	art, err := d.Renderer.RenderRelativeChart(rel, a.symbol, b.symbol)
	if err != nil {
		reg.Err = err.Error()
		return reg
	}
	reg.Artifact = art
	reg.Summary = ratioSummary(rel)
	return reg
}

// PriceChart renders the price chart for a single ticker.
func (d *Dashboard) PriceChart(ctx context.Context, ticker string, period model.Period) (model.ChartArtifact, error) {
	if err := d.checkSymbols(ticker); err != nil {
		return model.ChartArtifact{}, err
	}
	series, inst, err := d.Collector.Fetch(ctx, ticker, period)
	if err != nil {
		return model.ChartArtifact{}, err
	}
	return d.Renderer.RenderPriceChart(series, inst.Label(), inst.Symbol)
}

// RelativeChart renders a vs b for a single pair of tickers.
func (d *Dashboard) RelativeChart(ctx context.Context, a, b string, period model.Period) (model.ChartArtifact, error) {
	if err := d.checkSymbols(a, b); err != nil {
		return model.ChartArtifact{}, err
	}
	sa, _, err := d.Collector.Fetch(ctx, a, period)
	if err != nil {
		return model.ChartArtifact{}, err
	}
	sb, _, err := d.Collector.Fetch(ctx, b, period)
	if err != nil {
		return model.ChartArtifact{}, err
	}
	return d.Renderer.RenderRelativeChart(calculator.RelativePerformance(sa, sb), a, b)
}

func (d *Dashboard) checkSymbols(symbols ...string) error {
	for _, s := range symbols {
		if !d.Universe.IsComparable(s) {
			return fmt.Errorf("%w: %q is not a known instrument", ErrInvalidSelection, s)
		}
	}
	return nil
}

func renderEvent(p *Page, start time.Time) *recorder.RenderEvent {
	evt := &recorder.RenderEvent{
		ID:       p.ID,
		At:       start,
		Primary:  p.Selection.Primary,
		Compare:  p.Selection.Compare[:],
		Period:   p.Selection.Period.String(),
		Duration: p.Elapsed,
	}
	for _, r := range p.Regions {
		evt.Regions = append(evt.Regions, recorder.RegionOutcome{
			Region: r.Name,
			Title:  r.Title,
			Points: r.Summary.Points,
			Error:  r.Err,
		})
	}
	return evt
}
