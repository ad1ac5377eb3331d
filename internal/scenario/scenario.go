package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/seantiz/asyncdemo/internal/timing"
)

// Scenario is the interface every demo runner implements.
type Scenario interface {
	// Execute runs the scenario once. The context carries the run deadline;
	// blocking sections do not observe it.
	Execute(ctx context.Context, spec RunSpec) (RunResult, error)

	// Info describes the scenario for listing and defaulting.
	Info() Info
}

// RunSpec describes one execution of a scenario.
type RunSpec struct {
	ID string `json:"id"`

	// Delay is the simulated work duration of each sleep or delay.
	Delay time.Duration `json:"delay"`

	// Tasks is the fan-out width for concurrent scenarios. Zero selects the
	// scenario's default.
	Tasks int `json:"tasks"`

	// LogWriter is an optional callback receiving human-readable progress lines.
	LogWriter func(line string) `json:"-"`
}

func (s RunSpec) logf(format string, args ...any) {
	if s.LogWriter == nil {
		return
	}
	s.LogWriter(fmt.Sprintf(format, args...))
}

func (s RunSpec) tasksOr(def int) int {
	if s.Tasks > 0 {
		return s.Tasks
	}
	if def > 0 {
		return def
	}
	return 1
}

// RunResult holds what a scenario produced.
type RunResult struct {
	Output  string        `json:"output"`
	Elapsed time.Duration `json:"elapsed"`
}

// Info describes a scenario.
type Info struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Blocking     bool   `json:"blocking"`
	DefaultTasks int    `json:"default_tasks,omitempty"`
}

// report stops sw, emits the "<label> Time: N ms" line and returns the result.
func report(spec RunSpec, label string, sw *timing.Stopwatch, output string) RunResult {
	sw.Stop()
	line := fmt.Sprintf("%s Time: %d ms", label, sw.ElapsedMilliseconds())
	spec.logf("%s", line)
	if output == "" {
		output = line
	}
	return RunResult{Output: output, Elapsed: sw.Elapsed()}
}
