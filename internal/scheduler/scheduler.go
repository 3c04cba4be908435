// Package scheduler runs the periodic result-refresh job.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/scoreline/internal/service"
)

// Scheduler manages the cron job that attaches final results to pending
// ledger entries.
type Scheduler struct {
	cron       *cron.Cron
	svc        *service.PredictionService
	logger     *logrus.Logger
	mu         sync.Mutex
	isRunning  bool
	jobIDs     []cron.EntryID
	jobTimeout time.Duration
}

// NewScheduler creates a new scheduler.
func NewScheduler(svc *service.PredictionService, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		svc:        svc,
		logger:     logger,
		jobTimeout: 2 * time.Minute,
	}
}

// ScheduleResultRefresh registers the refresh job under the given cron
// expression.
func (s *Scheduler) ScheduleResultRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	id, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		updated, err := s.svc.RefreshResults(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled result refresh failed")
			return
		}
		s.logger.WithField("updated", updated).Debug("Scheduled result refresh completed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule result refresh: %w", err)
	}

	s.jobIDs = append(s.jobIDs, id)
	return nil
}

// Start begins job execution.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}
