// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/uosw/memberhub/internal/repository"
)

// ReportHandlers contains handlers for aggregate reports.
type ReportHandlers struct {
	repo *repository.Repository
}

// NewReports creates a new ReportHandlers instance.
func NewReports(repo *repository.Repository) *ReportHandlers {
	return &ReportHandlers{repo: repo}
}

// Membership returns member counts grouped by status, dues, role and
// workplace.
func (h *ReportHandlers) Membership(c echo.Context) error {
	ctx := c.Request().Context()

	total, err := h.repo.CountMembers(ctx)
	if err != nil {
		slog.Error("membership_report_failed", "error", err)
		return serverError(c)
	}
	byStatus, err := h.repo.MembershipStatusCounts(ctx)
	if err != nil {
		slog.Error("membership_report_failed", "error", err)
		return serverError(c)
	}
	byDues, err := h.repo.DuesStatusCounts(ctx)
	if err != nil {
		slog.Error("membership_report_failed", "error", err)
		return serverError(c)
	}
	byRole, err := h.repo.RoleCounts(ctx)
	if err != nil {
		slog.Error("membership_report_failed", "error", err)
		return serverError(c)
	}
	byWorkplace, err := h.repo.WorkplaceCounts(ctx)
	if err != nil {
		slog.Error("membership_report_failed", "error", err)
		return serverError(c)
	}

	return ok(c, map[string]any{
		"total_members": total,
		"by_status":     byStatus,
		"by_dues":       byDues,
		"by_role":       byRole,
		"by_workplace":  byWorkplace,
	})
}

// Dashboard returns the at-a-glance numbers the member dashboard shows:
// totals, dues breakdown, the next few events and recent check-ins.
func (h *ReportHandlers) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	totalMembers, err := h.repo.CountMembers(ctx)
	if err != nil {
		slog.Error("dashboard_report_failed", "error", err)
		return serverError(c)
	}
	totalEvents, err := h.repo.CountEvents(ctx)
	if err != nil {
		slog.Error("dashboard_report_failed", "error", err)
		return serverError(c)
	}
	byDues, err := h.repo.DuesStatusCounts(ctx)
	if err != nil {
		slog.Error("dashboard_report_failed", "error", err)
		return serverError(c)
	}
	upcoming, err := h.repo.ListEvents(ctx, repository.EventFilter{Upcoming: true, Limit: 5})
	if err != nil {
		slog.Error("dashboard_report_failed", "error", err)
		return serverError(c)
	}
	recent, err := h.repo.RecentCheckIns(ctx, 10)
	if err != nil {
		slog.Error("dashboard_report_failed", "error", err)
		return serverError(c)
	}

	return ok(c, map[string]any{
		"total_members":    totalMembers,
		"total_events":     totalEvents,
		"by_dues":          byDues,
		"upcoming_events":  upcoming,
		"recent_check_ins": recent,
	})
}

// Attendance returns a member history, an event summary, or a recent
// check-in overview depending on the query parameters.
func (h *ReportHandlers) Attendance(c echo.Context) error {
	ctx := c.Request().Context()

	if raw := c.QueryParam("member_id"); raw != "" {
		memberID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid member_id")
		}

		member, err := h.repo.GetMemberByID(ctx, memberID)
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Member not found")
		}
		if err != nil {
			slog.Error("attendance_report_failed", "error", err)
			return serverError(c)
		}

		history, err := h.repo.ListAttendanceByMember(ctx, memberID)
		if err != nil {
			slog.Error("attendance_report_failed", "error", err)
			return serverError(c)
		}
		stats, err := h.repo.GetMemberAttendanceStats(ctx, memberID)
		if err != nil {
			slog.Error("attendance_report_failed", "error", err)
			return serverError(c)
		}

		return ok(c, map[string]any{
			"member":             member,
			"attendance_history": history,
			"statistics":         stats,
		})
	}

	if raw := c.QueryParam("event_id"); raw != "" {
		eventID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid event_id")
		}

		event, err := h.repo.GetEventByID(ctx, eventID)
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Event not found")
		}
		if err != nil {
			slog.Error("attendance_report_failed", "error", err)
			return serverError(c)
		}

		roster, err := h.repo.ListAttendanceByEvent(ctx, eventID)
		if err != nil {
			slog.Error("attendance_report_failed", "error", err)
			return serverError(c)
		}
		summary, err := h.repo.GetEventAttendanceSummary(ctx, eventID)
		if err != nil {
			slog.Error("attendance_report_failed", "error", err)
			return serverError(c)
		}

		return ok(c, map[string]any{
			"event":      event,
			"attendance": roster,
			"summary":    summary,
		})
	}

	recent, err := h.repo.RecentCheckIns(ctx, 20)
	if err != nil {
		slog.Error("attendance_report_failed", "error", err)
		return serverError(c)
	}

	return ok(c, map[string]any{"recent_check_ins": recent})
}
