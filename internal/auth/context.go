package auth

import (
	"context"
	"errors"
)

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(ctxKey{}).(Identity); ok && id.Username != "" {
		return id, nil
	}
	return Identity{}, errors.New("identity not in context")
}

// Username returns the caller's username or "" when unauthenticated.
func Username(ctx context.Context) string {
	id, err := IdentityFrom(ctx)
	if err != nil {
		return ""
	}
	return id.Username
}
