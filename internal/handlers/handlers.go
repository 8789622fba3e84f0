// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

// Package handlers contains all HTTP handlers. Responses use the envelope
// the dashboard client expects: {success, message, data}.
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type response struct { //nolint:govet // fieldalignment not critical
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, response{Success: true, Data: data})
}

func okMessage(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, response{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, response{Success: false, Message: message})
}

// serverError hides internal details behind a generic 500. Callers log
// the cause before returning it.
func serverError(c echo.Context) error {
	return fail(c, http.StatusInternalServerError, "Internal server error")
}

// queryInt parses an optional numeric query parameter, returning 0 when the
// parameter is absent. The error message names the offending parameter.
func queryInt(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}

// Health returns the health status.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
