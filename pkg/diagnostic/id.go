package diagnostic

import (
	"context"

	"github.com/google/uuid"
)

type faultIDKey struct{}

// WithFaultID stores the fault identifier reporters should use.
func WithFaultID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, faultIDKey{}, id)
}

// FaultID returns the identifier stored in ctx, or a fresh one.
func FaultID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(faultIDKey{}).(uuid.UUID); ok {
		return id
	}
	return uuid.New()
}
