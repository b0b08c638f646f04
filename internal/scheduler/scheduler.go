package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"StockTrends/internal/dashboard"
)

// Purger drops expired cache entries.
type Purger interface {
	Purge() (bars, names int)
}

// Evaluator runs one dashboard pass.
type Evaluator interface {
	Evaluate(ctx context.Context, sel dashboard.Selection) (*dashboard.Page, error)
}

// Scheduler manages the cache maintenance cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Cache     Purger
	Dashboard Evaluator
	Prewarm   []dashboard.Selection
	Ctx       context.Context
	log       logrus.FieldLogger
}

// NewScheduler creates a new Scheduler. Prewarm lists the selections evaluated by the prewarm task.
func NewScheduler(ctx context.Context, cache Purger, dash Evaluator, prewarm []dashboard.Selection, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Cache:     cache,
		Dashboard: dash,
		Prewarm:   prewarm,
		Ctx:       ctx,
		log:       log.WithField("component", "scheduler"),
	}
}

// RegisterAll registers the purge and prewarm tasks. An empty cron expression skips the task.
func (s *Scheduler) RegisterAll(purgeCron, prewarmCron string) error {
	if purgeCron != "" {
		if _, err := s.Cron.AddFunc(purgeCron, s.purgeTask); err != nil {
			return fmt.Errorf("register purge task: %w", err)
		}
	}
	if prewarmCron != "" {
		if _, err := s.Cron.AddFunc(prewarmCron, func() { s.prewarmTask() }); err != nil {
			return fmt.Errorf("register prewarm task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.WithField("jobs", len(s.Cron.Entries())).Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunPrewarmNow executes the prewarm task immediately.
func (s *Scheduler) RunPrewarmNow() int {
	return s.prewarmTask()
}

// RunPurgeNow executes the purge task immediately.
func (s *Scheduler) RunPurgeNow() {
	s.purgeTask()
}

func (s *Scheduler) purgeTask() {
	bars, names := s.Cache.Purge()
	s.log.WithFields(logrus.Fields{"bars": bars, "names": names}).Debug("expired cache entries purged")
}

// prewarmTask evaluates each prewarm selection and returns how many succeeded.
func (s *Scheduler) prewarmTask() int {
	ok := 0
	for _, sel := range s.Prewarm {
		if s.Ctx.Err() != nil {
			break
		}
		page, err := s.Dashboard.Evaluate(s.Ctx, sel)
		if err != nil {
			s.log.WithError(err).WithField("symbol", sel.Primary).Error("prewarm failed")
			continue
		}
		ok++
		s.log.WithFields(logrus.Fields{"symbol": sel.Primary, "period": sel.Period, "elapsed": page.Elapsed}).
			Info("prewarmed")
	}
	return ok
}
