package featurestore

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
)

// State is the persisted intent of one feature.
type State struct {
	Name    string `yaml:"name" json:"name" db:"name" bson:"_id"`
	Enabled bool   `yaml:"enabled" json:"enabled" db:"enabled" bson:"enabled"`
}

// Store loads and saves the full set of feature states.
// Save replaces whatever was stored before.
type Store interface {
	Load(ctx context.Context) ([]State, error)
	Save(ctx context.Context, states []State) error
	Close() error
}

// StatesFromMap converts a name->enabled map into states sorted by name.
func StatesFromMap(m map[string]bool) []State {
	names := slices.SortedFunc(maps.Keys(m), func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	states := make([]State, 0, len(names))
	for _, name := range names {
		states = append(states, State{Name: name, Enabled: m[name]})
	}
	return states
}

// EnabledNames returns the names of the enabled states, in order.
func EnabledNames(states []State) []string {
	var names []string
	for _, s := range states {
		if s.Enabled {
			names = append(names, s.Name)
		}
	}
	return names
}

// MemoryStore keeps states in memory. It is useful in tests and for hosts
// that do not need restarts to remember anything.
type MemoryStore struct {
	mu     sync.RWMutex
	states []State
	saves  int
}

// NewMemoryStore returns a store holding a copy of initial.
func NewMemoryStore(initial ...State) *MemoryStore {
	return &MemoryStore{states: slices.Clone(initial)}
}

func (m *MemoryStore) Load(context.Context) ([]State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.states), nil
}

func (m *MemoryStore) Save(_ context.Context, states []State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = slices.Clone(states)
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MemoryStore) Close() error { return nil }
