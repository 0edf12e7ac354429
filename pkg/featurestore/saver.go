package featurestore

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/togglekit/pkg/logger"
)

// StateSource supplies the current enabled intent of every feature.
// *feature.Registry implements it.
type StateSource interface {
	States() map[string]bool
}

// Restorer activates persisted features at startup and returns unknown names.
// *feature.Registry implements it.
type Restorer interface {
	Restore(ctx context.Context, enabled []string) (unknown []string)
}

// SaverOption configures a Saver.
type SaverOption func(*Saver)

// WithLogger sets the logger used for save failures and restore reports.
func WithLogger(log *slog.Logger) SaverOption {
	return func(s *Saver) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSaveTimeout bounds every save triggered by NotifyChanged.
func WithSaveTimeout(d time.Duration) SaverOption {
	return func(s *Saver) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithNonPersistable excludes features from persistence, ignoring case.
func WithNonPersistable(names ...string) SaverOption {
	return func(s *Saver) {
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				s.skip[strings.ToLower(n)] = struct{}{}
			}
		}
	}
}

// Saver is the persistence collaborator of the feature engine. It writes a
// full snapshot of the tracked source every time a persistable feature changes.
type Saver struct {
	store   Store
	log     *slog.Logger
	timeout time.Duration
	skip    map[string]struct{}

	mu     sync.Mutex
	source StateSource
}

// NewSaver creates a Saver writing to store. Call Track before the first save.
func NewSaver(store Store, opts ...SaverOption) *Saver {
	s := &Saver{
		store:   store,
		log:     slog.Default(),
		timeout: 5 * time.Second,
		skip:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("featurestore"))
	return s
}

// Track sets the source snapshotted on every save. The registry usually
// needs the saver at construction, so tracking is attached afterwards.
func (s *Saver) Track(src StateSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = src
}

// IsPersistable reports whether name is outside the non-persistable set.
func (s *Saver) IsPersistable(name string) bool {
	_, skipped := s.skip[strings.ToLower(strings.TrimSpace(name))]
	return !skipped
}

// NotifyChanged saves a snapshot and logs the outcome. It never fails the
// caller and is not cancelled with the caller's context.
func (s *Saver) NotifyChanged(ctx context.Context, name string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.Save(ctx); err != nil {
		s.log.ErrorContext(ctx, "failed to persist feature state", logger.Feature(name), logger.Error(err))
		return
	}
	s.log.DebugContext(ctx, "feature state persisted", logger.Feature(name), logger.Duration(time.Since(start)))
}

// Save writes the current snapshot and returns any error.
func (s *Saver) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return ErrNoStateSourceAttached
	}
	return s.store.Save(ctx, s.snapshot())
}

func (s *Saver) snapshot() []State {
	all := s.source.States()
	for name := range all {
		if !s.IsPersistable(name) {
			delete(all, name)
		}
	}
	return StatesFromMap(all)
}

// Restore loads persisted states and activates every enabled, persistable
// feature. Unknown features are logged and returned.
func (s *Saver) Restore(ctx context.Context, r Restorer) ([]string, error) {
	states, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var enabled []string
	for _, name := range EnabledNames(states) {
		if s.IsPersistable(name) {
			enabled = append(enabled, name)
		}
	}

	unknown := r.Restore(ctx, enabled)
	if len(unknown) > 0 {
		s.log.WarnContext(ctx, "persisted features are not registered", logger.Features(unknown))
	}
	s.log.InfoContext(ctx, "feature states restored", slog.Int("enabled", len(enabled)-len(unknown)))
	return unknown, nil
}

// Close closes the underlying store.
func (s *Saver) Close() error {
	return s.store.Close()
}
