package feature

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryReporter sets the fault reporter given to every registered feature.
func WithRegistryReporter(r FaultReporter) RegistryOption {
	return func(reg *Registry) {
		if r != nil {
			reg.reporter = r
		}
	}
}

// WithRegistryPersister sets the persister given to every registered feature.
func WithRegistryPersister(p Persister) RegistryOption {
	return func(reg *Registry) {
		if p != nil {
			reg.persister = p
		}
	}
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Category Category
	// Tags matches features carrying at least one of the tags.
	Tags []string
}

func (f Filter) match(d Descriptor) bool {
	if f.Category != "" && d.Category != f.Category {
		return false
	}
	if len(f.Tags) == 0 {
		return true
	}
	return slices.ContainsFunc(f.Tags, d.HasTag)
}

// Registry owns the lifecycles of every feature in the host.
// Names are unique ignoring case. The map itself is safe for concurrent use;
// the lifecycles it returns are not.
type Registry struct {
	reporter  FaultReporter
	persister Persister

	mu       sync.RWMutex
	features map[string]*Lifecycle
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	reg := &Registry{
		reporter:  NopReporter{},
		persister: NopPersister{},
		features:  make(map[string]*Lifecycle),
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register creates the lifecycle for a feature. Options override the registry defaults.
func (r *Registry) Register(desc Descriptor, hooks Hooks, opts ...Option) (*Lifecycle, error) {
	base := []Option{WithFaultReporter(r.reporter), WithPersister(r.persister)}
	l, err := New(desc, hooks, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(desc.Name)
	if _, exists := r.features[k]; exists {
		return nil, errors.Join(ErrDuplicateFeature, fmt.Errorf("feature %q", desc.Name))
	}
	r.features[k] = l
	return l, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(desc Descriptor, hooks Hooks, opts ...Option) *Lifecycle {
	l, err := r.Register(desc, hooks, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to register feature: %v", err))
	}
	return l
}

// Get looks a feature up by name, ignoring case.
func (r *Registry) Get(name string) (*Lifecycle, error) {
	r.mu.RLock()
	l, ok := r.features[key(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrFeatureNotFound
	}
	return l, nil
}

// Len returns the number of registered features.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.features)
}

// List returns the features matching the filter, sorted by name.
func (r *Registry) List(f Filter) []*Lifecycle {
	r.mu.RLock()
	result := make([]*Lifecycle, 0, len(r.features))
	for _, l := range r.features {
		if f.match(l.desc) {
			result = append(result, l)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(result, func(a, b *Lifecycle) int {
		return strings.Compare(key(a.desc.Name), key(b.desc.Name))
	})
	return result
}

// States returns the enabled intent of every feature keyed by name.
func (r *Registry) States() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make(map[string]bool, len(r.features))
	for _, l := range r.features {
		states[l.desc.Name] = l.enabled
	}
	return states
}

// Restore activates the named features as part of startup.
// Names that are not registered are returned untouched.
func (r *Registry) Restore(ctx context.Context, enabled []string) (unknown []string) {
	for _, name := range enabled {
		l, err := r.Get(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		if l.enabled {
			continue
		}
		l.ActivateOnStartup(ctx)
	}
	return unknown
}

// EnforceCompatibility blocks or unblocks every restricted feature and returns
// the names of those that were enabled, i.e. whose activity actually changed.
func (r *Registry) EnforceCompatibility(ctx context.Context, enforce bool) []string {
	var affected []string
	for _, l := range r.List(Filter{}) {
		if !l.desc.Restricted || l.blocked == enforce {
			continue
		}
		l.SetBlocked(ctx, enforce)
		if l.enabled {
			affected = append(affected, l.desc.Name)
		}
	}
	return affected
}
