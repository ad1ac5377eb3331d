package model

import "time"

// Run status constants.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Scenario name constants, in the order the comparison runs them.
const (
	ScenarioBlocking      = "blocking"
	ScenarioAsync         = "async"
	ScenarioParallel      = "parallel"
	ScenarioMixed         = "mixed"
	ScenarioFetch         = "fetch"
	ScenarioParallelFetch = "parallel-fetch"
	ScenarioSave          = "save"
	ScenarioList          = "list"
)

// ComparisonOrder lists the scenarios executed by a full comparison.
var ComparisonOrder = []string{
	ScenarioBlocking,
	ScenarioAsync,
	ScenarioParallel,
	ScenarioMixed,
	ScenarioFetch,
	ScenarioParallelFetch,
	ScenarioSave,
	ScenarioList,
}

// validTransitions maps each status to the set of statuses it may transition to.
var validTransitions = map[string]map[string]bool{
	StatusPending: {
		StatusRunning: true,
		StatusFailed:  true,
	},
	StatusRunning: {
		StatusCompleted: true,
		StatusFailed:    true,
	},
}

// ValidTransition reports whether transitioning from one status to another is allowed.
func ValidTransition(from, to string) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// IsTerminal reports whether a run in the given status will not change again.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// LogLine represents a single persisted progress line from a run.
type LogLine struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Seq       int       `json:"seq"`
	Line      string    `json:"line"`
	CreatedAt time.Time `json:"created_at"`
}

// Run records one execution of a scenario.
type Run struct {
	ID         string     `json:"id"`
	Scenario   string     `json:"scenario"`
	Status     string     `json:"status"`
	DelayMS    *int       `json:"delay_ms,omitempty"`
	Tasks      *int       `json:"tasks,omitempty"`
	Output     string     `json:"output,omitempty"`
	Error      string     `json:"error,omitempty"`
	DurationMS *int       `json:"duration_ms,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
