// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/uosw/memberhub/internal/models"
	"github.com/uosw/memberhub/internal/repository"
)

// EventHandlers contains handlers for events and check-ins.
type EventHandlers struct {
	repo *repository.Repository
}

// NewEvents creates a new EventHandlers instance.
func NewEvents(repo *repository.Repository) *EventHandlers {
	return &EventHandlers{repo: repo}
}

// List returns events matching the query filters.
func (h *EventHandlers) List(c echo.Context) error {
	filter := repository.EventFilter{
		Upcoming: c.QueryParam("upcoming") == "true",
		Past:     c.QueryParam("past") == "true",
		Search:   c.QueryParam("search"),
	}

	var err error
	if filter.CreatedBy, err = queryInt(c, "created_by"); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	filter.Limit, filter.Offset = int(limit), int(offset)

	events, err := h.repo.ListEvents(c.Request().Context(), filter)
	if err != nil {
		slog.Error("list_events_failed", "error", err)
		return serverError(c)
	}

	return ok(c, map[string]any{"events": events, "count": len(events)})
}

// Get returns an event with its attendance roster.
func (h *EventHandlers) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}

	ctx := c.Request().Context()

	event, err := h.repo.GetEventByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Event not found")
	}
	if err != nil {
		slog.Error("get_event_failed", "error", err, "event_id", id)
		return serverError(c)
	}

	attendance, err := h.repo.ListAttendanceByEvent(ctx, id)
	if err != nil {
		slog.Error("get_event_failed", "error", err, "event_id", id)
		return serverError(c)
	}

	return ok(c, map[string]any{
		"event":            event,
		"attendance":       attendance,
		"attendance_count": len(attendance),
	})
}

// Create adds a new event with a fresh QR check-in token.
func (h *EventHandlers) Create(c echo.Context) error {
	var event models.Event
	if err := c.Bind(&event); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if event.Title == "" {
		return fail(c, http.StatusBadRequest, "title is required")
	}
	if event.EventDate.IsZero() {
		return fail(c, http.StatusBadRequest, "event_date is required")
	}

	ctx := c.Request().Context()

	if event.CreatedBy != nil {
		if _, err := h.repo.GetMemberByID(ctx, *event.CreatedBy); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fail(c, http.StatusBadRequest, "invalid creator id")
			}
			slog.Error("create_event_failed", "error", err)
			return serverError(c)
		}
	}

	event.QRCodeToken = uuid.NewString()

	if err := h.repo.CreateEvent(ctx, &event); err != nil {
		slog.Error("create_event_failed", "error", err)
		return serverError(c)
	}

	return okMessage(c, http.StatusCreated, "Event created successfully", map[string]any{"event": event})
}

// Update modifies an existing event.
func (h *EventHandlers) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}

	ctx := c.Request().Context()

	event, err := h.repo.GetEventByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Event not found")
	}
	if err != nil {
		slog.Error("update_event_failed", "error", err, "event_id", id)
		return serverError(c)
	}

	if err := c.Bind(event); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	event.ID = id

	if err := h.repo.UpdateEvent(ctx, event); err != nil {
		slog.Error("update_event_failed", "error", err, "event_id", id)
		return serverError(c)
	}

	return okMessage(c, http.StatusOK, "Event updated successfully", map[string]any{"event": event})
}

// Delete removes an event and its attendance records.
func (h *EventHandlers) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}

	err = h.repo.DeleteEvent(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Event not found")
	}
	if err != nil {
		slog.Error("delete_event_failed", "error", err, "event_id", id)
		return serverError(c)
	}

	return okMessage(c, http.StatusOK, "Event deleted successfully", nil)
}

// CheckInBody is the request body for CheckIn.
type CheckInBody struct {
	MemberID    int64   `json:"member_id"`
	QRCodeToken *string `json:"qr_code_token"`
}

// CheckIn records a member's attendance at an event.
func (h *EventHandlers) CheckIn(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}

	var req CheckInBody
	if err := c.Bind(&req); err != nil || req.MemberID == 0 {
		return fail(c, http.StatusBadRequest, "member_id is required")
	}

	ctx := c.Request().Context()

	if _, err := h.repo.GetEventByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Event not found")
		}
		slog.Error("check_in_failed", "error", err, "event_id", eventID)
		return serverError(c)
	}

	if _, err := h.repo.GetMemberByID(ctx, req.MemberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Member not found")
		}
		slog.Error("check_in_failed", "error", err, "member_id", req.MemberID)
		return serverError(c)
	}

	checkedIn, err := h.repo.IsCheckedIn(ctx, req.MemberID, eventID)
	if err != nil {
		slog.Error("check_in_failed", "error", err)
		return serverError(c)
	}
	if checkedIn {
		return fail(c, http.StatusConflict, "Member is already checked in")
	}

	attendance, err := h.repo.RecordCheckIn(ctx, req.MemberID, eventID, req.QRCodeToken)
	if err != nil {
		// Concurrent check-ins race past IsCheckedIn onto the UNIQUE pair.
		if repository.IsUniqueViolation(err) {
			return fail(c, http.StatusConflict, "Member is already checked in")
		}
		slog.Error("check_in_failed", "error", err)
		return serverError(c)
	}

	return okMessage(c, http.StatusCreated, "Checked in successfully", map[string]any{"attendance": attendance})
}
