package scenario

import (
	"context"
	"fmt"

	"github.com/seantiz/asyncdemo/internal/model"
	"github.com/seantiz/asyncdemo/internal/timing"
)

// Blocking sleeps in the calling goroutine.
type Blocking struct{}

func (Blocking) Info() Info {
	return Info{
		Name:        model.ScenarioBlocking,
		Description: "Sleeps for the delay, holding the calling goroutine.",
		Blocking:    true,
	}
}

func (Blocking) Execute(_ context.Context, spec RunSpec) (RunResult, error) {
	sw := timing.StartNew()
	spec.logf("Blocking method started...")
	Sleep(spec.Delay)
	spec.logf("Blocking method finished.")
	return report(spec, "Blocking Method", sw, ""), nil
}

// Async waits for the delay without blocking.
type Async struct{}

func (Async) Info() Info {
	return Info{
		Name:        model.ScenarioAsync,
		Description: "Waits for the delay on a timer, yielding until it fires.",
	}
}

func (Async) Execute(ctx context.Context, spec RunSpec) (RunResult, error) {
	sw := timing.StartNew()
	spec.logf("Async method started...")
	if err := Delay(ctx, spec.Delay); err != nil {
		return RunResult{}, fmt.Errorf("async delay: %w", err)
	}
	spec.logf("Async method finished.")
	return report(spec, "Async Method", sw, ""), nil
}

// Parallel starts several non-blocking delays at once and joins them.
type Parallel struct {
	// Tasks is the default fan-out width.
	Tasks int
}

func (p Parallel) Info() Info {
	return Info{
		Name:         model.ScenarioParallel,
		Description:  "Starts several delays concurrently and waits for all of them.",
		DefaultTasks: p.Tasks,
	}
}

func (p Parallel) Execute(ctx context.Context, spec RunSpec) (RunResult, error) {
	n := spec.tasksOr(p.Tasks)
	sw := timing.StartNew()
	spec.logf("Starting parallel async execution (%d tasks)...", n)

	err := FanOut(ctx, n, func(ctx context.Context, i int) error {
		spec.logf("Async method started... [task %d]", i+1)
		if err := Delay(ctx, spec.Delay); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
		spec.logf("Async method finished. [task %d]", i+1)
		return nil
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("wait for tasks: %w", err)
	}

	return report(spec, "Parallel Async Execution", sw, ""), nil
}

// Mixed sleeps and then waits, so its cost is the sum of both.
type Mixed struct{}

func (Mixed) Info() Info {
	return Info{
		Name:        model.ScenarioMixed,
		Description: "Sleeps for the delay, then waits for it again without blocking.",
		Blocking:    true,
	}
}

func (Mixed) Execute(ctx context.Context, spec RunSpec) (RunResult, error) {
	sw := timing.StartNew()
	spec.logf("Mixed method started...")
	Sleep(spec.Delay)
	if err := Delay(ctx, spec.Delay); err != nil {
		return RunResult{}, fmt.Errorf("mixed delay: %w", err)
	}
	spec.logf("Mixed method finished.")
	return report(spec, "Mixed Method", sw, ""), nil
}
