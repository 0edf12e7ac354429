package feature

import "context"

// Hooks is the behaviour a feature plugs into its lifecycle.
// A hook fails by returning an error or by panicking; either way the failure
// is reported and the transition carries on.
type Hooks interface {
	OnToggle(ctx context.Context) error
	OnEnable(ctx context.Context) error
	OnDisable(ctx context.Context) error
}

// HookFuncs adapts plain functions to Hooks. Nil fields are no-ops.
type HookFuncs struct {
	Toggle  func(ctx context.Context) error
	Enable  func(ctx context.Context) error
	Disable func(ctx context.Context) error
}

func (h HookFuncs) OnToggle(ctx context.Context) error {
	if h.Toggle == nil {
		return nil
	}
	return h.Toggle(ctx)
}

func (h HookFuncs) OnEnable(ctx context.Context) error {
	if h.Enable == nil {
		return nil
	}
	return h.Enable(ctx)
}

func (h HookFuncs) OnDisable(ctx context.Context) error {
	if h.Disable == nil {
		return nil
	}
	return h.Disable(ctx)
}
