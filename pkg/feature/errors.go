package feature

import "errors"

// Predefined errors for the feature package.
var (
	// ErrFeatureNotFound indicates that no feature is registered under the requested name.
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrDuplicateFeature indicates that a feature with the same name is already registered.
	ErrDuplicateFeature = errors.New("feature already registered")

	// ErrInvalidDescriptor indicates that the descriptor supplied at registration is invalid.
	ErrInvalidDescriptor = errors.New("invalid feature descriptor")

	// ErrInvalidCategory indicates an unknown feature category.
	ErrInvalidCategory = errors.New("invalid feature category")

	// ErrCallbackFailed marks every failure raised by a feature's own lifecycle hooks.
	ErrCallbackFailed = errors.New("feature callback failed")

	// ErrCallbackPanicked marks hook failures that were raised as panics.
	ErrCallbackPanicked = errors.New("feature callback panicked")
)
