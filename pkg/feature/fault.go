package feature

import (
	"context"
	"errors"
	"fmt"
)

// Phase names the lifecycle hook a failure came from.
type Phase string

const (
	PhaseToggle  Phase = "toggle"
	PhaseEnable  Phase = "enable"
	PhaseDisable Phase = "disable"
)

// Verb returns the phrase used in diagnostics, e.g. "enabling".
func (p Phase) Verb() string {
	switch p {
	case PhaseToggle:
		return "toggling"
	case PhaseEnable:
		return "enabling"
	case PhaseDisable:
		return "disabling"
	default:
		return string(p)
	}
}

// CallbackError describes a failure inside a feature's own hook.
// It matches ErrCallbackFailed through errors.Is.
type CallbackError struct {
	Feature string
	Phase   Phase
	// Note describes the logical state the transition left behind.
	Note string
	Err  error
}

// Error names the feature, the phase and the hook's error.
func (e *CallbackError) Error() string {
	return fmt.Sprintf("feature %q failed while %s: %v", e.Feature, e.Phase.Verb(), e.Err)
}

// Unwrap returns the hook's error.
func (e *CallbackError) Unwrap() error {
	return e.Err
}

// Is matches ErrCallbackFailed.
func (e *CallbackError) Is(target error) bool {
	return target == ErrCallbackFailed
}

// FaultReporter receives hook failures. Implementations must not panic.
type FaultReporter interface {
	ReportFault(ctx context.Context, fault *CallbackError)
}

// FaultReporterFunc adapts a function to FaultReporter.
type FaultReporterFunc func(ctx context.Context, fault *CallbackError)

func (f FaultReporterFunc) ReportFault(ctx context.Context, fault *CallbackError) {
	f(ctx, fault)
}

// NopReporter discards every fault.
type NopReporter struct{}

func (NopReporter) ReportFault(context.Context, *CallbackError) {}

func toggleNote(on bool) string {
	if on {
		return "feature was toggled on"
	}
	return "feature was toggled off"
}

// invoke runs a single hook and contains its failure.
// The caller has already committed the new state, so nothing here can leave
// enabled/blocked/active inconsistent. Failures are reported once, never retried.
func (l *Lifecycle) invoke(ctx context.Context, phase Phase, note string, hook func(context.Context) error) {
	err := safeCall(ctx, hook)
	if err == nil {
		return
	}
	l.reporter.ReportFault(ctx, &CallbackError{
		Feature: l.desc.Name,
		Phase:   phase,
		Note:    note,
		Err:     err,
	})
}

func safeCall(ctx context.Context, hook func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = errors.Join(ErrCallbackPanicked, rerr)
				return
			}
			err = errors.Join(ErrCallbackPanicked, fmt.Errorf("%v", r))
		}
	}()
	return hook(ctx)
}
