package scenario

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seantiz/asyncdemo/internal/fetch"
	"github.com/seantiz/asyncdemo/internal/model"
	"github.com/seantiz/asyncdemo/internal/timing"
)

// previewLen is how much of a body or stored row is echoed in progress lines.
const previewLen = 60

// Fetcher returns a response body or a fetch.ErrorMarker-prefixed label.
type Fetcher interface {
	Fetch(ctx context.Context) string
}

// ResponseStore persists fetched bodies.
type ResponseStore interface {
	SaveResponse(ctx context.Context, r *model.ApiResponse) error
	ListResponses(ctx context.Context) ([]model.ApiResponse, error)
}

// Fetch performs a single API call.
type Fetch struct {
	Client Fetcher
}

func (f Fetch) Info() Info {
	return Info{
		Name:        model.ScenarioFetch,
		Description: "Fetches the configured API endpoint once.",
	}
}

func (f Fetch) Execute(ctx context.Context, spec RunSpec) (RunResult, error) {
	sw := timing.StartNew()
	spec.logf("Fetching data from API...")
	outcome := f.Client.Fetch(ctx)
	spec.logf("API response: %s", describe(outcome))
	return report(spec, "API Call", sw, model.Truncate(outcome, model.MaxResponseData)), nil
}

// ParallelFetch performs several API calls concurrently and joins them.
type ParallelFetch struct {
	Client Fetcher
	// Tasks is the default fan-out width.
	Tasks int
}

func (f ParallelFetch) Info() Info {
	return Info{
		Name:         model.ScenarioParallelFetch,
		Description:  "Fetches the configured API endpoint several times concurrently.",
		DefaultTasks: f.Tasks,
	}
}

func (f ParallelFetch) Execute(ctx context.Context, spec RunSpec) (RunResult, error) {
	n := spec.tasksOr(f.Tasks)
	sw := timing.StartNew()
	spec.logf("Starting %d parallel API calls...", n)

	outcomes := make([]string, n)
	err := FanOut(ctx, n, func(ctx context.Context, i int) error {
		outcomes[i] = f.Client.Fetch(ctx)
		spec.logf("Request %d: %s", i+1, describe(outcomes[i]))
		return nil
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("wait for requests: %w", err)
	}

	failed := 0
	for _, o := range outcomes {
		if fetch.IsError(o) {
			failed++
		}
	}
	output := fmt.Sprintf("%d requests, %d failed", n, failed)
	spec.logf("%s", output)
	return report(spec, "Parallel API Calls", sw, output), nil
}

// Save fetches the API and stores a truncated copy of the body. Failure labels
// are never stored.
type Save struct {
	Client Fetcher
	Store  ResponseStore
}

func (s Save) Info() Info {
	return Info{
		Name:        model.ScenarioSave,
		Description: "Fetches the API and stores the first 500 characters of the body.",
	}
}

func (s Save) Execute(ctx context.Context, spec RunSpec) (RunResult, error) {
	sw := timing.StartNew()
	spec.logf("Fetching data to save...")
	outcome := s.Client.Fetch(ctx)

	if fetch.IsError(outcome) {
		spec.logf("Skipping save: %s", outcome)
		return report(spec, "Save Response", sw, "skipped: "+outcome), nil
	}

	rec := model.NewApiResponse(outcome, time.Now().UTC())
	if err := s.Store.SaveResponse(ctx, rec); err != nil {
		return RunResult{}, fmt.Errorf("save response: %w", err)
	}

	output := fmt.Sprintf("saved response %d", rec.ID)
	spec.logf("Saved response #%d (%d chars).", rec.ID, len([]rune(rec.Data)))
	return report(spec, "Save Response", sw, output), nil
}

// List prints every stored response.
type List struct {
	Store ResponseStore
}

func (l List) Info() Info {
	return Info{
		Name:        model.ScenarioList,
		Description: "Lists every stored API response.",
	}
}

func (l List) Execute(ctx context.Context, spec RunSpec) (RunResult, error) {
	sw := timing.StartNew()
	spec.logf("Retrieving stored responses...")

	rows, err := l.Store.ListResponses(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("list responses: %w", err)
	}

	if len(rows) == 0 {
		spec.logf("No stored responses.")
	}
	for _, r := range rows {
		spec.logf("#%d [%s] %s", r.ID, r.RetrievedAt.Format(time.RFC3339), oneLine(model.Truncate(r.Data, previewLen)))
	}

	return report(spec, "Retrieve Responses", sw, fmt.Sprintf("%d stored responses", len(rows))), nil
}

// describe turns an outcome into a short progress line.
func describe(outcome string) string {
	if fetch.IsError(outcome) {
		return outcome
	}
	if title := fetch.Summary(outcome); title != "" {
		return fmt.Sprintf("%d bytes, title %q", len(outcome), title)
	}
	return fmt.Sprintf("%d bytes, %s", len(outcome), oneLine(model.Truncate(outcome, previewLen)))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
