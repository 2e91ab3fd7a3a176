// Package rules holds the rules shipped with esfix. Every rule is a thin
// client of the dispatch core (package rule) and the patch composites
// (package fix).
package rules

import (
	"slices"
	"sync"

	"esfix/internal/rule"
)

// Registry maps rule names to definitions. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	defs   []*rule.Definition
	byName map[string]int // name -> index into defs
}

// NewRegistry creates a registry holding defs in the given order.
func NewRegistry(defs ...*rule.Definition) *Registry {
	r := &Registry{byName: make(map[string]int, len(defs))}
	for _, d := range defs {
		r.Add(d)
	}
	return r
}

// Add registers def, replacing a rule of the same name in place.
func (r *Registry) Add(def *rule.Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.byName[def.Name]; ok {
		r.defs[idx] = def
		return
	}
	r.byName[def.Name] = len(r.defs)
	r.defs = append(r.defs, def)
}

// Get returns the rule called name.
func (r *Registry) Get(name string) (*rule.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.defs[idx], true
}

// All returns every registered rule in registration order.
func (r *Registry) All() []*rule.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.defs)
}

// Names returns the sorted rule names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for _, d := range r.defs {
		names = append(names, d.Name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// Builtin returns a registry of every shipped rule.
func Builtin() *Registry {
	return NewRegistry(All()...)
}

// All returns fresh definitions of every shipped rule.
func All() []*rule.Definition {
	return []*rule.Definition{
		NewForBuiltins(),
		ThrowNewError(),
		NoUselessUndefined(),
		RequireNumberToFixedDigitsArgument(),
		PreferArrayFlatMap(),
		PreferSpread(),
		NoHexEscape(),
		ExpiringTodoComments(),
	}
}
