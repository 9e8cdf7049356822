// Package scheduler runs the nightly counter reconciliation sweep.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/application/reconcile"
	"github.com/fieldledger/backend/internal/infrastructure/config"
)

// ErrSchedulerNotRunning is returned when a manual trigger arrives while the
// scheduler is stopped.
var ErrSchedulerNotRunning = errors.New("scheduler is not running")

// ReconciliationScheduler drives the reconciler on a cron schedule
type ReconciliationScheduler struct {
	reconciler *reconcile.Reconciler
	schedule   string
	jobTimeout time.Duration
	log        *zap.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	lastRunAt *time.Time
}

// NewReconciliationScheduler creates a scheduler from configuration
func NewReconciliationScheduler(cfg config.ReconciliationConfig, reconciler *reconcile.Reconciler, log *zap.Logger) *ReconciliationScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReconciliationScheduler{
		reconciler: reconciler,
		schedule:   cfg.CronSchedule,
		jobTimeout: cfg.JobTimeout,
		log:        log,
	}
}

// Start registers the cron entry and begins scheduling
func (s *ReconciliationScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.runSweep); err != nil {
		return err
	}
	s.cron.Start()
	s.isRunning = true

	s.log.Info("reconciliation scheduler started", zap.String("schedule", s.schedule))
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish
func (s *ReconciliationScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	c := s.cron
	s.mu.Unlock()

	select {
	case <-c.Stop().Done():
		s.log.Info("reconciliation scheduler stopped")
		return nil
	case <-ctx.Done():
		s.log.Warn("reconciliation scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerManualRun starts a sweep immediately, outside the cron schedule.
// Runs in the background so the triggering HTTP request can return.
func (s *ReconciliationScheduler) TriggerManualRun() error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}
	go s.runSweep()
	return nil
}

// LastRunAt returns when the last sweep started
func (s *ReconciliationScheduler) LastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}

func (s *ReconciliationScheduler) runSweep() {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	s.log.Info("starting counter reconciliation sweep")
	results, err := s.reconciler.ReconcileAll(ctx)
	if err != nil {
		s.log.Error("counter reconciliation sweep failed", zap.Error(err))
		return
	}

	drifted := 0
	for _, result := range results {
		drifted += len(result.Drifts)
	}
	s.log.Info("counter reconciliation sweep finished",
		zap.Int("tenants", len(results)),
		zap.Int("drifted_counters", drifted),
		zap.Duration("elapsed", time.Since(now)))
}
