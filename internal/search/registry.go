package search

import (
	"fmt"
	"sort"

	"github.com/chamorrodict/dictsearch/internal/dictionary"
	"github.com/chamorrodict/dictsearch/internal/domain/providers"
	apperrors "github.com/chamorrodict/dictsearch/pkg/errors"
)

// Registry looks ranking systems up by name.
type Registry struct {
	systems map[string]providers.RankingSystem
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{systems: make(map[string]providers.RankingSystem)}
}

// NewDefaultRegistry registers the built-in in-memory systems for dict.
func NewDefaultRegistry(dict *dictionary.Dictionary) *Registry {
	r := NewRegistry()
	r.Register(NewRatioSystem(dict))
	r.Register(NewStrippedSystem(dict))
	r.Register(NewVariantsSystem(dict))
	r.Register(NewSpreadSystem(dict))
	return r
}

// Register adds or replaces a system under its name.
func (r *Registry) Register(system providers.RankingSystem) {
	r.systems[system.Name()] = system
}

// Wrap replaces every registered system with wrap(system).
func (r *Registry) Wrap(wrap func(providers.RankingSystem) providers.RankingSystem) {
	for name, system := range r.systems {
		r.systems[name] = wrap(system)
	}
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.systems))
	for name := range r.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named system.
func (r *Registry) Get(name string) (providers.RankingSystem, error) {
	system, ok := r.systems[name]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown ranking system %q (known: %v)", name, r.Names()))
	}
	return system, nil
}

// Resolve returns the named systems in the order given.
func (r *Registry) Resolve(names []string) ([]providers.RankingSystem, error) {
	out := make([]providers.RankingSystem, 0, len(names))
	for _, name := range names {
		system, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, system)
	}
	return out, nil
}
