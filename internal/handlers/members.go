// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/uosw/memberhub/internal/models"
	"github.com/uosw/memberhub/internal/repository"
)

// WelcomeNotifier sends a membership confirmation; delivery failures never
// fail the registration.
type WelcomeNotifier interface {
	SendWelcome(ctx context.Context, toEmail, toName string) error
}

// MemberHandlers contains handlers for member management.
type MemberHandlers struct {
	repo     *repository.Repository
	notifier WelcomeNotifier
}

// NewMembers creates a new MemberHandlers instance.
func NewMembers(repo *repository.Repository, notifier WelcomeNotifier) *MemberHandlers {
	return &MemberHandlers{repo: repo, notifier: notifier}
}

// List returns members matching the query filters.
func (h *MemberHandlers) List(c echo.Context) error {
	filter := repository.MemberFilter{
		MembershipStatus: c.QueryParam("membership_status"),
		DuesStatus:       c.QueryParam("dues_status"),
		Search:           c.QueryParam("search"),
	}

	var err error
	if filter.WorkplaceID, err = queryInt(c, "workplace_id"); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if filter.RoleID, err = queryInt(c, "role_id"); err != nil {
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

	members, err := h.repo.ListMembers(c.Request().Context(), filter)
	if err != nil {
		slog.Error("list_members_failed", "error", err)
		return serverError(c)
	}

	return ok(c, map[string]any{"members": members, "count": len(members)})
}

// Get returns a single member by ID.
func (h *MemberHandlers) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid member id")
	}

	member, err := h.repo.GetMemberByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Member not found")
	}
	if err != nil {
		slog.Error("get_member_failed", "error", err, "member_id", id)
		return serverError(c)
	}

	return ok(c, map[string]any{"member": member})
}

// Create registers a new member and sends a welcome mail.
func (h *MemberHandlers) Create(c echo.Context) error {
	var member models.Member
	if err := c.Bind(&member); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if member.Name == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}
	if member.Email == "" {
		return fail(c, http.StatusBadRequest, "email is required")
	}
	if member.UOID == "" {
		return fail(c, http.StatusBadRequest, "uo_id is required")
	}

	ctx := c.Request().Context()

	if _, err := h.repo.GetMemberByEmail(ctx, member.Email); err == nil {
		return fail(c, http.StatusConflict, "Member with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		slog.Error("create_member_failed", "error", err)
		return serverError(c)
	}

	if _, err := h.repo.GetMemberByUOID(ctx, member.UOID); err == nil {
		return fail(c, http.StatusConflict, "Member with this UO ID already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		slog.Error("create_member_failed", "error", err)
		return serverError(c)
	}

	if err := h.repo.CreateMember(ctx, &member); err != nil {
		// A concurrent create can slip past the lookups above and land
		// on the UNIQUE constraint instead.
		if repository.IsUniqueViolation(err) {
			return fail(c, http.StatusConflict, "Member with this email or UO ID already exists")
		}
		slog.Error("create_member_failed", "error", err)
		return serverError(c)
	}

	if err := h.notifier.SendWelcome(ctx, member.Email, member.Name); err != nil {
		slog.Error("welcome_email_failed", "member_id", member.ID, "error", err)
	}

	return okMessage(c, http.StatusCreated, "Member registered successfully", map[string]any{"member": member})
}

// Update modifies an existing member.
func (h *MemberHandlers) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid member id")
	}

	ctx := c.Request().Context()

	member, err := h.repo.GetMemberByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Member not found")
	}
	if err != nil {
		slog.Error("update_member_failed", "error", err, "member_id", id)
		return serverError(c)
	}

	if err := c.Bind(member); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	member.ID = id

	if err := h.repo.UpdateMember(ctx, member); err != nil {
		if repository.IsUniqueViolation(err) {
			return fail(c, http.StatusConflict, "Member with this email or UO ID already exists")
		}
		slog.Error("update_member_failed", "error", err, "member_id", id)
		return serverError(c)
	}

	return okMessage(c, http.StatusOK, "Member updated successfully", map[string]any{"member": member})
}

// Delete removes a member.
func (h *MemberHandlers) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid member id")
	}

	err = h.repo.DeleteMember(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Member not found")
	}
	if err != nil {
		slog.Error("delete_member_failed", "error", err, "member_id", id)
		return serverError(c)
	}

	return okMessage(c, http.StatusOK, "Member deleted successfully", nil)
}

// Roles returns the role lookup list.
func (h *MemberHandlers) Roles(c echo.Context) error {
	roles, err := h.repo.ListRoles(c.Request().Context())
	if err != nil {
		slog.Error("list_roles_failed", "error", err)
		return serverError(c)
	}
	return ok(c, map[string]any{"roles": roles})
}

// Workplaces returns the workplace lookup list.
func (h *MemberHandlers) Workplaces(c echo.Context) error {
	workplaces, err := h.repo.ListWorkplaces(c.Request().Context())
	if err != nil {
		slog.Error("list_workplaces_failed", "error", err)
		return serverError(c)
	}
	return ok(c, map[string]any{"workplaces": workplaces})
}
