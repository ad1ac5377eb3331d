// Package schedule submits scenario runs on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/seantiz/asyncdemo/internal/engine"
	"github.com/seantiz/asyncdemo/internal/model"
)

// Submitter starts a run without waiting for it.
type Submitter interface {
	Submit(ctx context.Context, r *model.Run) error
}

// Scheduler periodically submits runs of one scenario.
type Scheduler struct {
	cron     *cron.Cron
	submit   Submitter
	scenario string
	logger   *slog.Logger
}

// New parses spec (standard five-field cron or descriptors such as
// "@every 5m") and returns a stopped scheduler for the named scenario.
func New(spec, scenarioName string, s Submitter, logger *slog.Logger) (*Scheduler, error) {
	sch := &Scheduler{
		cron:     cron.New(),
		submit:   s,
		scenario: scenarioName,
		logger:   logger,
	}
	if _, err := sch.cron.AddFunc(spec, sch.Trigger); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return sch, nil
}

// Trigger submits one run immediately. Failures are logged.
func (s *Scheduler) Trigger() {
	r := engine.NewRun(s.scenario, nil, nil)
	if err := s.submit.Submit(context.Background(), r); err != nil {
		s.logger.Error("scheduled run not submitted", "scenario", s.scenario, "error", err)
		return
	}
	s.logger.Info("scheduled run submitted", "scenario", s.scenario, "run_id", r.ID)
}

// Start begins firing in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and returns a context that is done once any
// in-progress trigger has returned.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
