package featureapi

import "errors"

// ErrInvalidRequest marks malformed request bodies.
var ErrInvalidRequest = errors.New("invalid request")
