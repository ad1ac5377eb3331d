package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/seantiz/asyncdemo/internal/model"
	"github.com/seantiz/asyncdemo/internal/scenario"
	"github.com/seantiz/asyncdemo/internal/store"
)

// DefaultRunTimeout bounds a run when Options.RunTimeout is zero.
const DefaultRunTimeout = 120 * time.Second

// Options configures run defaults.
type Options struct {
	// Delay is used when a run does not set DelayMS.
	Delay time.Duration
	// RunTimeout bounds each run.
	RunTimeout time.Duration
	// Console, if set, receives every progress line as it is produced.
	Console io.Writer
}

// Engine orchestrates scenario runs.
type Engine struct {
	store    store.Store
	registry *scenario.Registry
	logger   *slog.Logger
	opts     Options
	wg       sync.WaitGroup
	broker   *LogBroker

	consoleMu sync.Mutex
}

// NewEngine creates a new execution engine.
func NewEngine(s store.Store, reg *scenario.Registry, logger *slog.Logger, opts Options) *Engine {
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = DefaultRunTimeout
	}
	return &Engine{
		store:    s,
		registry: reg,
		logger:   logger,
		opts:     opts,
		broker:   NewLogBroker(),
	}
}

// Broker returns the engine's log broker for SSE subscription.
func (e *Engine) Broker() *LogBroker {
	return e.broker
}

// NewRun builds a pending run for the named scenario. Nil overrides select
// the configured defaults at execution time.
func NewRun(name string, delayMS, tasks *int) *model.Run {
	return &model.Run{
		ID:        model.NewID(),
		Scenario:  name,
		Status:    model.StatusPending,
		DelayMS:   delayMS,
		Tasks:     tasks,
		CreatedAt: time.Now().UTC(),
	}
}

// Run stores r as pending and executes it synchronously, returning the final
// record. A scenario failure is recorded on the run, not returned as an error.
func (e *Engine) Run(ctx context.Context, r *model.Run) (*model.Run, error) {
	if err := e.store.CreateRun(ctx, r); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	e.execute(r)

	final, err := e.store.GetRun(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("get finished run: %w", err)
	}
	return final, nil
}

// Submit stores r as pending and launches execution in a goroutine. The
// goroutine operates on a copy of the run to avoid data races with the caller.
func (e *Engine) Submit(ctx context.Context, r *model.Run) error {
	if err := e.store.CreateRun(ctx, r); err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	rCopy := *r
	e.wg.Go(func() {
		e.execute(&rCopy)
	})

	return nil
}

// Wait blocks until all submitted runs complete.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// execute runs the lifecycle pending→running→completed/failed.
func (e *Engine) execute(r *model.Run) {
	// Close the log stream when execution finishes, regardless of outcome.
	defer e.broker.Close(r.ID)

	logger := e.logger.With("run_id", r.ID, "scenario", r.Scenario)

	if err := e.store.UpdateRunStatus(context.Background(), r.ID, model.StatusRunning); err != nil {
		logger.Error("failed to transition to running", "error", err)
		e.finishFailed(r, nil, fmt.Sprintf("failed to start: %v", err))
		return
	}

	// Capture start time immediately after the running transition so that
	// started_at stays consistent across success, failure and resolve-error paths.
	start := time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), e.opts.RunTimeout)
	defer cancel()

	// Progress lines are persisted for history, published for live streaming
	// and echoed to the console. Fan-out scenarios write them concurrently.
	var seq atomic.Int32
	spec := scenario.RunSpec{
		ID:    r.ID,
		Delay: e.opts.Delay,
		LogWriter: func(line string) {
			currentSeq := int(seq.Add(1) - 1)
			if err := e.store.InsertLogLine(context.Background(), r.ID, currentSeq, line); err != nil {
				logger.Error("failed to persist log line", "seq", currentSeq, "error", err)
			}
			e.broker.Publish(r.ID, line)
			e.echo(line)
		},
	}
	if r.DelayMS != nil && *r.DelayMS >= 0 {
		spec.Delay = time.Duration(*r.DelayMS) * time.Millisecond
	}
	if r.Tasks != nil {
		spec.Tasks = *r.Tasks
	}

	s, err := e.registry.Resolve(r.Scenario)
	if err != nil {
		e.finishFailed(r, &start, fmt.Sprintf("resolve scenario: %v", err))
		return
	}

	logger.Debug("run started", "delay", spec.Delay, "tasks", spec.Tasks)
	result, err := s.Execute(ctx, spec)

	if err != nil {
		errMsg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == context.DeadlineExceeded {
			errMsg = fmt.Sprintf("run timed out after %s", e.opts.RunTimeout)
		}
		logger.Warn("run failed", "error", errMsg)
		e.finishFailed(r, &start, errMsg)
		return
	}

	// Prefer the scenario's own stopwatch; fall back to wall clock.
	dur := int(time.Since(start).Milliseconds())
	if result.Elapsed > 0 {
		dur = int(result.Elapsed.Milliseconds())
	}
	now := time.Now().UTC()

	completed := &model.Run{
		ID:         r.ID,
		Status:     model.StatusCompleted,
		Output:     result.Output,
		DurationMS: &dur,
		StartedAt:  &start,
		FinishedAt: &now,
	}

	if err := e.store.UpdateRun(context.Background(), completed); err != nil {
		logger.Error("failed to update completed run", "error", err)
		return
	}
	observeRun(r.Scenario, model.StatusCompleted, time.Duration(dur)*time.Millisecond)
	logger.Info("run completed", "duration_ms", dur)
}

// finishFailed marks a run as failed with the given error message.
// startedAt may be nil if execution never started.
func (e *Engine) finishFailed(r *model.Run, startedAt *time.Time, errMsg string) {
	now := time.Now().UTC()
	var durationMS int
	if startedAt != nil {
		durationMS = int(time.Since(*startedAt).Milliseconds())
	}

	failed := &model.Run{
		ID:         r.ID,
		Status:     model.StatusFailed,
		Error:      errMsg,
		DurationMS: &durationMS,
		StartedAt:  startedAt,
		FinishedAt: &now,
	}

	if err := e.store.UpdateRun(context.Background(), failed); err != nil {
		e.logger.Error("failed to update failed run", "run_id", r.ID, "error", err)
		return
	}
	observeRun(r.Scenario, model.StatusFailed, time.Duration(durationMS)*time.Millisecond)
}

// echo writes a progress line to the console writer, if any.
func (e *Engine) echo(line string) {
	if e.opts.Console == nil {
		return
	}
	e.consoleMu.Lock()
	defer e.consoleMu.Unlock()
	if _, err := fmt.Fprintln(e.opts.Console, line); err != nil {
		e.logger.Debug("console write failed", "error", err)
	}
}
