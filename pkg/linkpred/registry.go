package linkpred

import (
	"fmt"
	"sync"

	"github.com/dd0wney/drugnet/pkg/runlog"
)

// Registry holds trained models by (drug, period, model). Each key is
// assigned once.
type Registry struct {
	mu     sync.RWMutex
	models map[runlog.Key]Model
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[runlog.Key]Model)}
}

// Register stores m under k.
func (r *Registry) Register(k runlog.Key, m Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[k]; ok {
		return fmt.Errorf("%w: %s/%s/%s", ErrAlreadyRegistered, k.Drug, k.Period, k.Model)
	}
	r.models[k] = m
	return nil
}

// Get returns the model stored under k.
func (r *Registry) Get(k runlog.Key) (Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[k]
	return m, ok
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}
