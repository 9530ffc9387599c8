// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import (
	"context"
	"strings"
)

// Surfaces an operation can arrive through.
const (
	OriginCLI  = "cli"
	OriginHTTP = "http"
)

// ActorKey is the context key for actor ID.
type ActorKey struct{}

// WithActorID returns a context with the actor ID embedded.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// WithOrigin records the actor as "origin:actor", or just origin when the
// caller did not name themselves.
func WithOrigin(ctx context.Context, origin, actorID string) context.Context {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return WithActorID(ctx, origin)
	}
	return WithActorID(ctx, origin+":"+actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}
