// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import (
	"context"

	"github.com/uosw/memberhub/internal/ctxkeys"
	"github.com/uosw/memberhub/internal/services/session"
)

// SetClaims returns a child context carrying the verified session claims.
func SetClaims(ctx context.Context, claims *session.Claims) context.Context {
	return context.WithValue(ctx, ctxkeys.Claims{}, claims)
}

// GetClaims returns the verified claims from the context, or nil if the
// request is not authenticated.
func GetClaims(ctx context.Context) *session.Claims {
	if claims, ok := ctx.Value(ctxkeys.Claims{}).(*session.Claims); ok {
		return claims
	}
	return nil
}

// IsAuthenticated returns true if the context has verified claims.
func IsAuthenticated(ctx context.Context) bool {
	return GetClaims(ctx) != nil
}
