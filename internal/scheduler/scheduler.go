// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/oblog/internal/model"
)

// PruneSchedule is the cron expression for the event log retention job.
const PruneSchedule = "@daily"

// EventPruner deletes audit events older than a given age.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
	LogSystemEvent(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error
}

// Scheduler handles periodic maintenance such as event log retention.
type Scheduler struct {
	cron      *cron.Cron
	events    EventPruner
	retention time.Duration
	logger    *slog.Logger
}

// New creates a scheduler. A zero retention disables event pruning.
func New(events EventPruner, retention time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		events:    events,
		retention: retention,
		logger:    logger,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.retention > 0 && s.events != nil {
		if _, err := s.cron.AddFunc(PruneSchedule, func() {
			if _, err := s.PruneEvents(context.Background()); err != nil {
				s.logger.Error("failed to prune event log", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PruneEvents deletes events older than the retention period.
func (s *Scheduler) PruneEvents(ctx context.Context) (int64, error) {
	n, err := s.events.DeleteOldEvents(ctx, s.retention)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	s.logger.Info("pruned event log", "deleted", n, "retention", s.retention)
	_ = s.events.LogSystemEvent(ctx, model.EventLevelInfo, "Event log pruned", nil, "", map[string]any{
		"deleted":        n,
		"retention_days": int(s.retention.Hours() / 24),
	})
	return n, nil
}
