package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/logger"
)

// JobFunc is one unit of scheduled work
type JobFunc func(ctx context.Context) error

// Jobs are the background tasks of serve mode. A nil func disables the job.
type Jobs struct {
	Snapshot JobFunc
	Sync     JobFunc
	Settle   JobFunc
	Scan     JobFunc
}

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 10 * time.Minute

// Scheduler runs the recurring ledger and market jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	names           map[cron.EntryID]string
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler. Overlapping runs of the same job are skipped.
func NewScheduler(log *logrus.Logger) *Scheduler {
	log = logger.OrDefault(log)
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))),
		),
		logger:          log,
		jobIDs:          make([]cron.EntryID, 0),
		names:           make(map[cron.EntryID]string),
		gracefulTimeout: 30 * time.Second,
	}
}

// AddJob schedules fn under a standard five-field cron spec or descriptor
func (s *Scheduler) AddJob(name, spec string, timeout time.Duration, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if fn == nil {
		return fmt.Errorf("job %s has no function", name)
	}
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}

	entryID, err := s.cron.AddFunc(spec, func() { s.runJob(name, timeout, fn) })
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.names[entryID] = name
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": spec,
	}).Info("Scheduled job")

	return nil
}

// Register schedules every job that has both a function and a cron spec
func (s *Scheduler) Register(cfg config.SchedulerConfig, jobs Jobs) error {
	planned := []struct {
		name string
		spec string
		fn   JobFunc
	}{
		{"snapshot", cfg.SnapshotCron, jobs.Snapshot},
		{"sync_results", cfg.SyncCron, jobs.Sync},
		{"settle", cfg.SettleCron, jobs.Settle},
		{"scan", cfg.ScanCron, jobs.Scan},
	}

	for _, p := range planned {
		if p.spec == "" || p.fn == nil {
			continue
		}
		if err := s.AddJob(p.name, p.spec, DefaultJobTimeout, p.fn); err != nil {
			return err
		}
	}
	return nil
}

// runJob executes one job run with its own timeout and logs the outcome
func (s *Scheduler) runJob(name string, timeout time.Duration, fn JobFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	entry := s.logger.WithField("job", name)
	entry.Debug("Job starting")

	if err := fn(ctx); err != nil {
		entry.WithError(err).WithField("duration", time.Since(start).String()).Error("Job failed")
		return
	}
	entry.WithField("duration", time.Since(start).String()).Info("Job completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs, up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// JobNames returns the scheduled job names in registration order
func (s *Scheduler) JobNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobIDs))
	for _, id := range s.jobIDs {
		names = append(names, s.names[id])
	}
	return names
}
