package server

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"StockTrends/internal/dashboard"
	"StockTrends/internal/model"
	"StockTrends/internal/universe"
)

type pageView struct {
	Pickers []picker
	Regions []dashboard.Region
	Error   string
}

type picker struct {
	Name    string
	Label   string
	Options []option
}

type option struct {
	Value    string
	Selected bool
}

// selectionFromQuery reads ticker, compare1..compare3 and period, keeping the
// defaults for anything not given.
func (h *Handler) selectionFromQuery(c *gin.Context) (dashboard.Selection, error) {
	sel := dashboard.DefaultSelection(h.dash.Universe)
	if v := c.Query("ticker"); v != "" {
		sel.Primary = v
	}
	for i := range sel.Compare {
		if v := c.Query(compareParam(i)); v != "" {
			sel.Compare[i] = v
		}
	}
	sel = sel.Normalize()
	if v := c.Query("period"); v != "" {
		p, err := model.ParsePeriod(v)
		if err != nil {
			return sel, err
		}
		sel.Period = p
	}
	return sel, nil
}

func compareParam(i int) string { return fmt.Sprintf("compare%d", i+1) }

func pickers(u universe.Universe, sel dashboard.Selection) []picker {
	periods := make([]string, 0, len(model.Periods()))
	for _, p := range model.Periods() {
		periods = append(periods, p.String())
	}

	out := []picker{{Name: "ticker", Label: "Ticker", Options: options(u.Stocks, sel.Primary)}}
	for i, c := range sel.Compare {
		out = append(out, picker{
			Name:    compareParam(i),
			Label:   fmt.Sprintf("Comparison %d", i+1),
			Options: options(u.ComparisonOptions(), c),
		})
	}
	return append(out, picker{Name: "period", Label: "Period", Options: options(periods, sel.Period.String())})
}

func options(values []string, selected string) []option {
	out := make([]option, len(values))
	for i, v := range values {
		out[i] = option{Value: v, Selected: v == selected}
	}
	return out
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
