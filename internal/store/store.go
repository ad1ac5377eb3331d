package store

import (
	"context"
	"errors"

	"github.com/seantiz/asyncdemo/internal/model"
)

// ErrInvalidTransition is returned when a run status transition is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// RunStats holds aggregate execution statistics.
type RunStats struct {
	Total           int            `json:"total"`
	CountByStatus   map[string]int `json:"count_by_status"`
	CountByScenario map[string]int `json:"count_by_scenario"`
	AvgDurationMS   float64        `json:"avg_duration_ms"`
	StoredResponses int64          `json:"stored_responses"`
}

// Store defines the persistence operations for runs, their progress lines and
// fetched API responses.
type Store interface {
	CreateRun(ctx context.Context, r *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]*model.Run, int, error)
	UpdateRunStatus(ctx context.Context, id, status string) error
	UpdateRun(ctx context.Context, r *model.Run) error
	GetRunStats(ctx context.Context) (*RunStats, error)
	InsertLogLine(ctx context.Context, runID string, seq int, line string) error
	GetLogLines(ctx context.Context, runID string) ([]model.LogLine, error)

	SaveResponse(ctx context.Context, r *model.ApiResponse) error
	ListResponses(ctx context.Context) ([]model.ApiResponse, error)
	CountResponses(ctx context.Context) (int64, error)

	// Ping reports whether the database is reachable.
	Ping(ctx context.Context) error
	Close() error
}
