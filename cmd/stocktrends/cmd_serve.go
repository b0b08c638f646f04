package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"StockTrends/internal/dashboard"
	"StockTrends/internal/scheduler"
	"StockTrends/internal/server"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTP.Addr = addr
	}
	log := newLogger(cfg.Log.Level, cfg.Log.Format)
	log.Info("StockTrends starting...")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := newApp(ctx, cfg, log)
	defer a.Close()

	prewarm := []dashboard.Selection{dashboard.DefaultSelection(a.dashboard.Universe)}
	sched := scheduler.NewScheduler(ctx, a.collector, a.dashboard, prewarm, log)
	if err := sched.RegisterAll(cfg.Cache.PurgeCron, cfg.Cache.PrewarmCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if run, _ := cmd.Flags().GetBool("prewarm"); run {
		log.Info("prewarm enabled, evaluating default selection now")
		go sched.RunPrewarmNow()
	}

	if err := server.Run(ctx, cfg.HTTP.Addr, server.NewHandler(a.dashboard, log), log); err != nil {
		return err
	}
	log.Info("StockTrends stopped")
	return nil
}
