// Package jobs holds the background work the scheduler triggers.
package jobs

import (
	"context"
	"time"

	"campusrent/internal/logger"
	"campusrent/internal/models"
)

// Config controls when jobs run and what they consider overdue.
type Config struct {
	ReminderSchedule string
	StaleAfter       time.Duration
	Timeout          time.Duration
}

func DefaultConfig() Config {
	return Config{
		ReminderSchedule: "0 * * * *",
		StaleAfter:       72 * time.Hour,
		Timeout:          time.Minute,
	}
}

// StaleEscrowLister is the escrow service query the reminder uses.
type StaleEscrowLister interface {
	ListStale(ctx context.Context, state models.EscrowState, olderThan time.Duration) ([]models.EscrowTransaction, error)
}

type StaleNotifier interface {
	EscrowStale(ctx context.Context, escrow models.EscrowTransaction, age time.Duration) error
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	escrows  StaleEscrowLister
	notifier StaleNotifier
	config   Config
	nowFn    func() time.Time
}

func NewJobRunner(escrows StaleEscrowLister, notifier StaleNotifier, cfg Config) *JobRunner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &JobRunner{
		escrows:  escrows,
		notifier: notifier,
		config:   cfg,
		nowFn:    time.Now,
	}
}

func (jr *JobRunner) Config() Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start).String())
}
