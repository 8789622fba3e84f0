// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

// Package middleware provides HTTP middleware for the member portal.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/uosw/memberhub/internal/auth"
	"github.com/uosw/memberhub/internal/services/session"
)

const bearerPrefix = "Bearer "

// RequireAuth verifies the bearer session credential and attaches its
// claims to the request context. Verification is purely local; no store
// lookup happens per request. Every failure gets the same generic 401.
func RequireAuth(codec *session.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return unauthorized(c)
			}

			claims, err := codec.Verify(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				return unauthorized(c)
			}

			ctx := auth.SetClaims(c.Request().Context(), claims)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]any{
		"success": false,
		"message": "Invalid or expired session",
	})
}
