package utils

import (
	"context"

	"grievance-portal/internal/models"
)

type ctxKey struct{}

// WithActor stores the authenticated caller on ctx.
func WithActor(ctx context.Context, a models.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// ActorFrom returns the caller stored by WithActor, if any.
func ActorFrom(ctx context.Context) (models.Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(models.Actor)
	return a, ok && a.UserID != ""
}
