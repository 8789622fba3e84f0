// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/uosw/memberhub/internal/database"
	"github.com/uosw/memberhub/internal/models"
	"github.com/uosw/memberhub/internal/repository"
	"github.com/vinovest/sqlx"
)

// NewTestDB creates a migrated SQLite database in a per-test temp dir.
// A file-backed database is used because the pool opens several
// connections and ":memory:" would give each its own empty database.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestMember creates a member in the database.
func NewTestMember(t *testing.T, repo *repository.Repository, name, email, uoID string) *models.Member {
	t.Helper()
	member := &models.Member{Name: name, Email: email, UOID: uoID}
	require.NoError(t, repo.CreateMember(context.Background(), member))
	return member
}

// NewTestEvent creates an event in the database.
func NewTestEvent(t *testing.T, repo *repository.Repository, event *models.Event) *models.Event {
	t.Helper()
	require.NoError(t, repo.CreateEvent(context.Background(), event))
	return event
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewEchoContextWithHeaders creates an Echo context with custom headers.
func NewEchoContextWithHeaders(e *echo.Echo, method, path string, body io.Reader, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
