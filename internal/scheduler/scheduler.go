package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"algotix/internal/logging"
)

// DailyReportSpec fires every day at 21:00 UTC.
const DailyReportSpec = "0 21 * * *"

// Scheduler runs named jobs on cron schedules. Overlapping runs of the same
// job are skipped.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	log     logging.Logger
	running atomic.Bool
}

func New(log logging.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
}

// Every registers fn to run at a fixed interval (rounded to whole seconds,
// at least one second).
func (s *Scheduler) Every(interval time.Duration, name string, fn func(ctx context.Context) error) {
	s.cron.Schedule(cron.Every(interval), s.job(name, fn))
}

// At registers fn on a standard five-field cron spec.
func (s *Scheduler) At(spec, name string, fn func(ctx context.Context) error) error {
	if _, err := s.cron.AddJob(spec, s.job(name, fn)); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) job(name string, fn func(ctx context.Context) error) cron.Job {
	return cron.FuncJob(func() {
		if err := fn(s.ctx); err != nil {
			s.log.Warn(s.ctx, "scheduled job failed", "job", name, "error", err)
		}
	})
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.running.Store(true)
	s.log.Info(s.ctx, "scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop cancels the jobs' context and waits for running jobs to return.
func (s *Scheduler) Stop() {
	if !s.running.Swap(false) {
		s.cancel()
		return
	}
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info(context.Background(), "scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.running.Load() && len(s.cron.Entries()) > 0
}
