package scenario_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seantiz/asyncdemo/internal/model"
	"github.com/seantiz/asyncdemo/internal/scenario"
)

// echoScenario is a minimal Scenario used to verify registration.
type echoScenario struct {
	name string
}

func (e echoScenario) Execute(_ context.Context, spec scenario.RunSpec) (scenario.RunResult, error) {
	return scenario.RunResult{Output: spec.ID}, nil
}

func (e echoScenario) Info() scenario.Info {
	return scenario.Info{Name: e.name, Description: "echo"}
}

// Compile-time checks that the built-in runners satisfy the interface.
var (
	_ scenario.Scenario = scenario.Blocking{}
	_ scenario.Scenario = scenario.Async{}
	_ scenario.Scenario = scenario.Parallel{}
	_ scenario.Scenario = scenario.Mixed{}
	_ scenario.Scenario = scenario.Fetch{}
	_ scenario.Scenario = scenario.ParallelFetch{}
	_ scenario.Scenario = scenario.Save{}
	_ scenario.Scenario = scenario.List{}
)

func TestRegistryResolve(t *testing.T) {
	reg := scenario.NewRegistry()
	reg.Register(echoScenario{name: "echo"})

	s, err := reg.Resolve("echo")
	require.NoError(t, err)

	res, err := s.Execute(context.Background(), scenario.RunSpec{ID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Output)
	assert.True(t, reg.Has("echo"))
}

func TestRegistryResolveUnknown(t *testing.T) {
	reg := scenario.NewRegistry()

	_, err := reg.Resolve("nope")
	assert.ErrorContains(t, err, `scenario "nope" is not registered`)
	assert.False(t, reg.Has("nope"))
}

func TestRegistryRegisterReplaces(t *testing.T) {
	reg := scenario.NewRegistry()
	reg.Register(echoScenario{name: "x"})
	reg.Register(echoScenario{name: "x"})

	assert.Len(t, reg.List(), 1)
}

func TestRegisterDefaults(t *testing.T) {
	reg := scenario.NewRegistry()
	scenario.RegisterDefaults(reg, scenario.Defaults{
		FanOut:      2,
		FetchFanOut: 3,
		Client:      &stubFetcher{outcome: post},
		Store:       newStore(t),
	})

	infos := reg.List()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
		assert.NotEmpty(t, info.Description, info.Name)
	}
	assert.ElementsMatch(t, model.ComparisonOrder, names)
	assert.IsIncreasing(t, names, "List is sorted by name")

	for _, info := range infos {
		switch info.Name {
		case model.ScenarioParallel:
			assert.Equal(t, 2, info.DefaultTasks)
		case model.ScenarioParallelFetch:
			assert.Equal(t, 3, info.DefaultTasks)
		}
	}
}
