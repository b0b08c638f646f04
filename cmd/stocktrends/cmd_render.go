package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"StockTrends/internal/dashboard"
	"StockTrends/internal/model"
)

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log.Level, cfg.Log.Format)
	a := newApp(cmd.Context(), cfg, log)
	defer a.Close()

	sel, err := selectionFromFlags(cmd, dashboard.DefaultSelection(a.dashboard.Universe))
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	return renderTo(cmd.Context(), a.dashboard, sel, out, cmd.OutOrStdout())
}

func selectionFromFlags(cmd *cobra.Command, sel dashboard.Selection) (dashboard.Selection, error) {
	if v, _ := cmd.Flags().GetString("ticker"); v != "" {
		sel.Primary = v
	}
	compare, _ := cmd.Flags().GetStringSlice("compare")
	if len(compare) > len(sel.Compare) {
		return sel, fmt.Errorf("%w: at most %d comparisons", dashboard.ErrInvalidSelection, len(sel.Compare))
	}
	copy(sel.Compare[:], compare)
	if v, _ := cmd.Flags().GetString("period"); v != "" {
		p, err := model.ParsePeriod(v)
		if err != nil {
			return sel, err
		}
		sel.Period = p
	}
	return sel, nil
}

// renderTo evaluates sel and writes one HTML file per region into dir.
func renderTo(ctx context.Context, dash *dashboard.Dashboard, sel dashboard.Selection, dir string, w io.Writer) error {
	page, err := dash.Evaluate(ctx, sel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, r := range page.Regions {
		if r.Failed() {
			fmt.Fprintf(w, "%-11s %-24s ERROR %s\n", r.Name, r.Title, r.Err)
			continue
		}
		path := filepath.Join(dir, r.Name+".html")
		if err := os.WriteFile(path, r.Artifact.HTML, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		s := r.Summary
		fmt.Fprintf(w, "%-11s %-24s last=%s change=%s points=%d -> %s\n", r.Name, r.Title, s.Last, s.Change, s.Points, path)
	}
	return nil
}
