// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uosw/memberhub/internal/handlers"
	"github.com/uosw/memberhub/internal/models"
	"github.com/uosw/memberhub/internal/repository"
	"github.com/uosw/memberhub/internal/testutil"
)

type reportFixture struct {
	handlers *handlers.ReportHandlers
	repo     *repository.Repository
	echo     *echo.Echo
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	return &reportFixture{
		handlers: handlers.NewReports(repo),
		repo:     repo,
		echo:     echo.New(),
	}
}

func TestMembershipReport(t *testing.T) {
	f := newReportFixture(t)
	testutil.NewTestMember(t, f.repo, "Ada Lovelace", "ada@uosw.example", "951000001")
	testutil.NewTestMember(t, f.repo, "Grace Hopper", "grace@uosw.example", "951000002")

	c, rec := testutil.NewEchoContext(f.echo, http.MethodGet, "/api/reports/membership", nil)
	require.NoError(t, f.handlers.Membership(c))
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body.String())
	data := envelope["data"].(map[string]any)
	assert.Equal(t, float64(2), data["total_members"])
	assert.Contains(t, data, "by_status")
	assert.Contains(t, data, "by_dues")
	assert.Contains(t, data, "by_role")
	assert.Contains(t, data, "by_workplace")
}

func TestDashboardReport(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	member := testutil.NewTestMember(t, f.repo, "Ada Lovelace", "ada@uosw.example", "951000001")
	upcoming := testutil.NewTestEvent(t, f.repo, &models.Event{
		Title:       "General Assembly",
		EventDate:   time.Now().Add(48 * time.Hour),
		QRCodeToken: uuid.NewString(),
	})
	testutil.NewTestEvent(t, f.repo, &models.Event{
		Title:       "Last Month Social",
		EventDate:   time.Now().Add(-30 * 24 * time.Hour),
		QRCodeToken: uuid.NewString(),
	})
	_, err := f.repo.RecordCheckIn(ctx, member.ID, upcoming.ID, nil)
	require.NoError(t, err)

	c, rec := testutil.NewEchoContext(f.echo, http.MethodGet, "/api/reports/dashboard", nil)
	require.NoError(t, f.handlers.Dashboard(c))
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body.String())
	data := envelope["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total_members"])
	assert.Equal(t, float64(2), data["total_events"])

	upcomingEvents := data["upcoming_events"].([]any)
	require.Len(t, upcomingEvents, 1)

	recent := data["recent_check_ins"].([]any)
	assert.Len(t, recent, 1)
}

func TestAttendanceReportByMember(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	member := testutil.NewTestMember(t, f.repo, "Ada Lovelace", "ada@uosw.example", "951000001")
	event := testutil.NewTestEvent(t, f.repo, &models.Event{
		Title:       "General Assembly",
		EventDate:   time.Now().Add(-24 * time.Hour),
		QRCodeToken: uuid.NewString(),
	})
	_, err := f.repo.RecordCheckIn(ctx, member.ID, event.ID, nil)
	require.NoError(t, err)

	memberID := strconv.FormatInt(member.ID, 10)
	c, rec := testutil.NewEchoContext(f.echo, http.MethodGet, "/api/reports/attendance?member_id="+memberID, nil)
	require.NoError(t, f.handlers.Attendance(c))
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body.String())
	data := envelope["data"].(map[string]any)
	stats := data["statistics"].(map[string]any)
	assert.Equal(t, float64(1), stats["total_check_ins"])
}

func TestAttendanceReportByEvent(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	member := testutil.NewTestMember(t, f.repo, "Ada Lovelace", "ada@uosw.example", "951000001")
	event := testutil.NewTestEvent(t, f.repo, &models.Event{
		Title:       "General Assembly",
		EventDate:   time.Now().Add(time.Hour),
		QRCodeToken: uuid.NewString(),
	})
	_, err := f.repo.RecordCheckIn(ctx, member.ID, event.ID, nil)
	require.NoError(t, err)

	eventID := strconv.FormatInt(event.ID, 10)
	c, rec := testutil.NewEchoContext(f.echo, http.MethodGet, "/api/reports/attendance?event_id="+eventID, nil)
	require.NoError(t, f.handlers.Attendance(c))
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body.String())
	data := envelope["data"].(map[string]any)
	summary := data["summary"].(map[string]any)
	assert.Equal(t, "General Assembly", summary["event_title"])
	assert.Equal(t, float64(1), summary["total_attendance"])
}

func TestAttendanceReportRecent(t *testing.T) {
	f := newReportFixture(t)

	c, rec := testutil.NewEchoContext(f.echo, http.MethodGet, "/api/reports/attendance", nil)
	require.NoError(t, f.handlers.Attendance(c))
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body.String())
	data := envelope["data"].(map[string]any)
	assert.Contains(t, data, "recent_check_ins")
}

func TestAttendanceReportUnknownMember(t *testing.T) {
	f := newReportFixture(t)

	c, rec := testutil.NewEchoContext(f.echo, http.MethodGet, "/api/reports/attendance?member_id=999", nil)
	require.NoError(t, f.handlers.Attendance(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
