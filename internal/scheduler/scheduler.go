// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic integrity scan over every persisted
// document.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// DefaultSchedule is used when no schedule is configured.
const DefaultSchedule = "@every 15m"

const scanConcurrency = 4

// Checker verifies that a persisted document is still readable and valid.
type Checker interface {
	Check(ctx context.Context) error
}

// Recorder receives scan results, usually for metrics.
type Recorder interface {
	DocumentChecked(document string, healthy bool)
	ScanCompleted(d time.Duration)
}

// Report is the outcome of one integrity scan.
type Report struct {
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
	Failures  map[string]string `json:"failures,omitempty"`
	Checked   []string          `json:"checked"`
}

// Healthy reports whether every document passed.
func (r Report) Healthy() bool {
	return len(r.Failures) == 0
}

// Scheduler handles scheduled integrity scans.
type Scheduler struct {
	cron     *cron.Cron
	logger   *slog.Logger
	checkers map[string]Checker
	recorder Recorder

	mu   sync.RWMutex
	last *Report
}

// New creates a new scheduler instance. recorder may be nil.
func New(checkers map[string]Checker, recorder Recorder, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:     cron.New(),
		logger:   logger,
		checkers: checkers,
		recorder: recorder,
	}
}

// Start registers the scan on schedule and starts the cron runner.
// An empty schedule uses DefaultSchedule.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.Scan(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid integrity schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", schedule, "documents", len(s.checkers))
	return nil
}

// Stop waits for a running scan to finish and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Scan checks every document once and stores the report.
func (s *Scheduler) Scan(ctx context.Context) Report {
	names := make([]string, 0, len(s.checkers))
	for name := range s.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	report := Report{StartedAt: time.Now(), Checked: names}

	results := make([]error, len(names))
	var g errgroup.Group
	g.SetLimit(scanConcurrency)
	for i, name := range names {
		g.Go(func() error {
			results[i] = s.checkers[name].Check(ctx)
			return nil
		})
	}
	_ = g.Wait()

	for i, name := range names {
		err := results[i]
		if s.recorder != nil {
			s.recorder.DocumentChecked(name, err == nil)
		}
		if err == nil {
			continue
		}
		if report.Failures == nil {
			report.Failures = make(map[string]string)
		}
		report.Failures[name] = err.Error()

		level := slog.LevelError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "document integrity check failed", "document", name, "error", err)
	}
	report.Duration = time.Since(report.StartedAt)

	if s.recorder != nil {
		s.recorder.ScanCompleted(report.Duration)
	}
	if report.Healthy() {
		s.logger.Debug("integrity scan passed", "documents", len(names), "duration", report.Duration)
	}

	s.mu.Lock()
	s.last = &report
	s.mu.Unlock()
	return report
}

// LastReport returns the most recent scan, if one has run.
func (s *Scheduler) LastReport() (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Report{}, false
	}
	return *s.last, true
}
