package feature

import (
	"context"
	"fmt"
)

// Option configures a Lifecycle during construction.
type Option func(*Lifecycle)

// WithFaultReporter sets the collaborator that receives hook failures.
// Nil reporters are ignored.
func WithFaultReporter(r FaultReporter) Option {
	return func(l *Lifecycle) {
		if r != nil {
			l.reporter = r
		}
	}
}

// WithPersister sets the collaborator notified after user-driven changes.
// Nil persisters are ignored.
func WithPersister(p Persister) Option {
	return func(l *Lifecycle) {
		if p != nil {
			l.persister = p
		}
	}
}

// Status is a point-in-time view of a feature's lifecycle state.
type Status struct {
	Enabled bool `json:"enabled"`
	Blocked bool `json:"blocked"`
	Active  bool `json:"active"`
}

// Lifecycle is the per-feature state machine.
//
// enabled is the user's intent, blocked is an external suppression and active
// is always enabled && !blocked. Every operation updates the state before any
// hook runs and never returns an error: hook failures go to the FaultReporter.
//
// A Lifecycle is not safe for concurrent use; serialise calls externally.
type Lifecycle struct {
	desc      Descriptor
	hooks     Hooks
	reporter  FaultReporter
	persister Persister

	enabled bool
	blocked bool
	active  bool
}

// New creates the lifecycle for a feature. A nil hooks value means no behaviour.
func New(desc Descriptor, hooks Hooks, opts ...Option) (*Lifecycle, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if hooks == nil {
		hooks = HookFuncs{}
	}

	l := &Lifecycle{
		desc:      desc.clone(),
		hooks:     hooks,
		reporter:  NopReporter{},
		persister: NopPersister{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// MustNew is like New but panics on an invalid descriptor.
func MustNew(desc Descriptor, hooks Hooks, opts ...Option) *Lifecycle {
	l, err := New(desc, hooks, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create feature lifecycle: %v", err))
	}
	return l
}

// Name returns the feature name.
func (l *Lifecycle) Name() string {
	return l.desc.Name
}

// Descriptor returns a copy of the registration metadata.
func (l *Lifecycle) Descriptor() Descriptor {
	return l.desc.clone()
}

// Keybinds returns the suggested commands for this feature.
func (l *Lifecycle) Keybinds() [3]Keybind {
	return Keybinds(l.desc.Name)
}

// IsEnabled reports the user's intent.
func (l *Lifecycle) IsEnabled() bool { return l.enabled }

// IsBlocked reports whether a policy suppresses the feature.
func (l *Lifecycle) IsBlocked() bool { return l.blocked }

// IsActive reports whether the feature is enabled and not blocked.
func (l *Lifecycle) IsActive() bool { return l.active }

// Status returns the current state triple.
func (l *Lifecycle) Status() Status {
	return Status{Enabled: l.enabled, Blocked: l.blocked, Active: l.active}
}

// SetEnabled records the user's intent and runs the matching hooks.
//
// Enabling a blocked feature only records the intent: no hooks run and the
// persister is not notified, so unblocking later restores the feature.
// Repeated calls with the same value run the hooks again.
func (l *Lifecycle) SetEnabled(ctx context.Context, enabled bool) {
	l.enabled = enabled
	l.recompute()
	if l.blocked && enabled {
		return
	}

	l.runTransition(ctx, enabled)

	if l.persister.IsPersistable(l.desc.Name) {
		l.persister.NotifyChanged(ctx, l.desc.Name)
	}
}

// Toggle flips the enabled intent.
func (l *Lifecycle) Toggle(ctx context.Context) {
	l.SetEnabled(ctx, !l.enabled)
}

// ActivateOnStartup restores a persisted enabled state.
// The hooks always run, even while blocked, and the persister is not notified.
func (l *Lifecycle) ActivateOnStartup(ctx context.Context) {
	l.enabled = true
	l.recompute()
	l.runTransition(ctx, true)
}

// SetBlocked applies or lifts an external suppression.
// Hooks run only if the feature is enabled. Policy changes are never persisted.
func (l *Lifecycle) SetBlocked(ctx context.Context, blocked bool) {
	l.blocked = blocked
	l.recompute()
	if !l.enabled {
		return
	}
	l.runTransition(ctx, !blocked)
}

// PrimaryAction names what DoPrimaryAction would do: "Enable" or "Disable".
func (l *Lifecycle) PrimaryAction() string {
	if l.enabled {
		return "Disable"
	}
	return "Enable"
}

// DoPrimaryAction is the user clicking the feature's main button.
func (l *Lifecycle) DoPrimaryAction(ctx context.Context) {
	l.Toggle(ctx)
}

func (l *Lifecycle) recompute() {
	l.active = l.enabled && !l.blocked
}

// runTransition fires OnToggle and then OnEnable or OnDisable.
// A failing hook never stops the next one.
func (l *Lifecycle) runTransition(ctx context.Context, on bool) {
	note := toggleNote(on)
	l.invoke(ctx, PhaseToggle, note, l.hooks.OnToggle)
	if on {
		l.invoke(ctx, PhaseEnable, note, l.hooks.OnEnable)
	} else {
		l.invoke(ctx, PhaseDisable, note, l.hooks.OnDisable)
	}
}
