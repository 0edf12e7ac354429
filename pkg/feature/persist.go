package feature

import "context"

// Persister is the persistence collaborator notified after user-driven changes.
type Persister interface {
	// IsPersistable reports whether the feature's state should survive restarts.
	IsPersistable(name string) bool
	// NotifyChanged is fire-and-forget: save failures belong to the persister.
	NotifyChanged(ctx context.Context, name string)
}

// NopPersister persists nothing.
type NopPersister struct{}

func (NopPersister) IsPersistable(string) bool { return false }

func (NopPersister) NotifyChanged(context.Context, string) {}
