package scheduler

import (
	"fmt"
	"time"

	"campusrent/internal/jobs"
	"campusrent/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler registers every job on a UTC cron. Schedules use the standard
// five-field syntax and descriptors such as "@hourly".
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config()

	if _, err := s.cron.AddFunc(cfg.ReminderSchedule, s.jobs.RemindStaleEscrows); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", cfg.ReminderSchedule, err)
	}

	logger.Info("Cron jobs registered", "jobs", len(s.cron.Entries()))
	return nil
}

func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Next reports when each registered job fires next.
func (s *Scheduler) Next() []time.Time {
	entries := s.cron.Entries()
	next := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		next = append(next, e.Next)
	}
	return next
}
