// Package registry maps blend operator names to compositor operators so
// that projects and configuration can select one by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/framecast/pkg/compositor"
)

// Built-in operator names.
const (
	OperatorOver    = "over"
	OperatorReplace = "replace"
)

// Registry manages the available blend operators.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]compositor.Operator
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[string]compositor.Operator),
	}
}

// Default returns a registry holding the built-in operators.
func Default() *Registry {
	r := NewRegistry()
	r.Register(OperatorOver, compositor.Over)
	r.Register(OperatorReplace, compositor.Replace)
	return r
}

// Register adds an operator to the registry.
// If an operator with the same name exists, it is overwritten.
func (r *Registry) Register(name string, op compositor.Operator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[name] = op
}

// Lookup returns the operator registered under name. The empty name
// selects source-over.
func (r *Registry) Lookup(name string) (compositor.Operator, error) {
	if name == "" {
		name = OperatorOver
	}
	r.mu.RLock()
	op, ok := r.ops[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("blend operator not found: %s", name)
	}
	return op, nil
}

// Names lists the registered operators, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
