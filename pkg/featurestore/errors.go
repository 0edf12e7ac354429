package featurestore

import "errors"

var (
	ErrUnknownDriver         = errors.New("unknown feature store driver")
	ErrMissingConnectionURL  = errors.New("feature store connection url is empty")
	ErrStoreNotReady         = errors.New("feature store did not become ready")
	ErrLoadFailed            = errors.New("failed to load feature states")
	ErrSaveFailed            = errors.New("failed to save feature states")
	ErrMigrationFailed       = errors.New("failed to apply feature store migrations")
	ErrInvalidStateFile      = errors.New("invalid feature state file")
	ErrInvalidStoredState    = errors.New("invalid stored feature state")
	ErrNoStateSourceAttached = errors.New("no feature state source attached to saver")
)
