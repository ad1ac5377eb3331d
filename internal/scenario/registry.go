package scenario

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds registered scenarios and resolves them by name.
type Registry struct {
	mu        sync.RWMutex
	scenarios map[string]Scenario
}

// NewRegistry creates an empty scenario registry.
func NewRegistry() *Registry {
	return &Registry{
		scenarios: make(map[string]Scenario),
	}
}

// Register adds a scenario under its Info().Name, replacing any previous one.
func (r *Registry) Register(s Scenario) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarios[s.Info().Name] = s
}

// Resolve returns the scenario registered under name.
func (r *Registry) Resolve(name string) (Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario %q is not registered", name)
	}
	return s, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.scenarios[name]
	return ok
}

// List returns information about all registered scenarios, sorted by name
// for a stable API response.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.scenarios))
	for _, s := range r.scenarios {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Defaults configures the built-in scenarios.
type Defaults struct {
	FanOut      int
	FetchFanOut int
	Client      Fetcher
	Store       ResponseStore
}

// RegisterDefaults registers every built-in scenario.
func RegisterDefaults(r *Registry, d Defaults) {
	r.Register(Blocking{})
	r.Register(Async{})
	r.Register(Parallel{Tasks: d.FanOut})
	r.Register(Mixed{})
	r.Register(Fetch{Client: d.Client})
	r.Register(ParallelFetch{Client: d.Client, Tasks: d.FetchFanOut})
	r.Register(Save{Client: d.Client, Store: d.Store})
	r.Register(List{Store: d.Store})
}
