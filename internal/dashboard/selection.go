package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"StockTrends/internal/model"
	"StockTrends/internal/universe"
)

// ErrInvalidSelection is returned for selections outside the universe.
var ErrInvalidSelection = errors.New("invalid selection")

// Comparisons is the number of relative-performance regions on the page.
const Comparisons = 3

// Selection is the full picker state for one evaluation.
type Selection struct {
	Primary string
	Compare [Comparisons]string
	Period  model.Period
}

// DefaultSelection picks the first stock, the first three comparison options and 5y.
func DefaultSelection(u universe.Universe) Selection {
	sel := Selection{Period: model.DefaultPeriod}
	if len(u.Stocks) > 0 {
		sel.Primary = u.Stocks[0]
	}
	opts := u.ComparisonOptions()
	for i := range sel.Compare {
		if i < len(opts) {
			sel.Compare[i] = opts[i]
		}
	}
	return sel
}

// Normalize trims and upper-cases the tickers.
func (s Selection) Normalize() Selection {
	s.Primary = strings.ToUpper(strings.TrimSpace(s.Primary))
	for i := range s.Compare {
		s.Compare[i] = strings.ToUpper(strings.TrimSpace(s.Compare[i]))
	}
	return s
}

// Validate checks every picker value against the universe and the period list.
func (s Selection) Validate(u universe.Universe) error {
	if !u.IsStock(s.Primary) {
		return fmt.Errorf("%w: primary %q is not in the stock universe", ErrInvalidSelection, s.Primary)
	}
	for i, c := range s.Compare {
		if !u.IsComparable(c) {
			return fmt.Errorf("%w: comparison %d %q is not a known instrument", ErrInvalidSelection, i+1, c)
		}
	}
	if !s.Period.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidSelection, model.ErrInvalidPeriod)
	}
	return nil
}

// Symbols returns the distinct tickers of the selection, primary first.
func (s Selection) Symbols() []string {
	out := []string{s.Primary}
	seen := map[string]bool{s.Primary: true}
	for _, c := range s.Compare {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
