// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"strings"
	"time"

	"github.com/uosw/memberhub/internal/models"
)

const memberSelect = `
	SELECT m.*, r.name AS role_name, w.name AS workplace_name
	FROM members m
	LEFT JOIN roles r ON m.role_id = r.id
	LEFT JOIN workplaces w ON m.workplace_id = w.id`

// MemberFilter narrows ListMembers results. Zero values are ignored.
type MemberFilter struct { //nolint:govet // fieldalignment not critical
	MembershipStatus string
	DuesStatus       string
	WorkplaceID      int64
	RoleID           int64
	Search           string
	Limit            int
	Offset           int
}

// GetMemberByID retrieves a member with joined role and workplace names.
func (r *Repository) GetMemberByID(ctx context.Context, id int64) (*models.Member, error) {
	var m models.Member
	if err := r.db.GetContext(ctx, &m, memberSelect+` WHERE m.id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &m, nil
}

// NormalizeEmail lowercases and trims an email address. Members are stored
// and looked up with normalized emails so login works regardless of casing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetMemberByEmail retrieves a member by email address. This is the single
// identity-resolution point the auth flow depends on.
func (r *Repository) GetMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	var m models.Member
	if err := r.db.GetContext(ctx, &m, memberSelect+` WHERE m.email = ?`, NormalizeEmail(email)); err != nil {
		return nil, wrapError(err)
	}
	return &m, nil
}

// GetMemberByUOID retrieves a member by university ID.
func (r *Repository) GetMemberByUOID(ctx context.Context, uoID string) (*models.Member, error) {
	var m models.Member
	if err := r.db.GetContext(ctx, &m, memberSelect+` WHERE m.uo_id = ?`, uoID); err != nil {
		return nil, wrapError(err)
	}
	return &m, nil
}

// CreateMember inserts a new member and fills in the generated fields.
func (r *Repository) CreateMember(ctx context.Context, m *models.Member) error {
	m.Email = NormalizeEmail(m.Email)
	if m.DuesStatus == "" {
		m.DuesStatus = "unpaid"
	}
	if m.MembershipStatus == "" {
		m.MembershipStatus = "active"
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO members (name, email, uo_id, workplace_id, role_id, dues_status,
		 membership_status, major, phone, pronouns, graduation_year)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Email, m.UOID, m.WorkplaceID, m.RoleID, m.DuesStatus,
		m.MembershipStatus, m.Major, m.Phone, m.Pronouns, m.GraduationYear)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	return nil
}

// UpdateMember updates all mutable fields of a member.
func (r *Repository) UpdateMember(ctx context.Context, m *models.Member) error {
	m.Email = NormalizeEmail(m.Email)
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET name = ?, email = ?, uo_id = ?, workplace_id = ?, role_id = ?,
		 dues_status = ?, membership_status = ?, major = ?, phone = ?, pronouns = ?,
		 graduation_year = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		m.Name, m.Email, m.UOID, m.WorkplaceID, m.RoleID, m.DuesStatus,
		m.MembershipStatus, m.Major, m.Phone, m.Pronouns, m.GraduationYear, m.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMember deletes a member by ID.
func (r *Repository) DeleteMember(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMembers returns members matching the filter, newest first.
func (r *Repository) ListMembers(ctx context.Context, f MemberFilter) ([]models.Member, error) {
	var (
		conds []string
		args  []any
	)
	if f.MembershipStatus != "" {
		conds = append(conds, "m.membership_status = ?")
		args = append(args, f.MembershipStatus)
	}
	if f.DuesStatus != "" {
		conds = append(conds, "m.dues_status = ?")
		args = append(args, f.DuesStatus)
	}
	if f.WorkplaceID != 0 {
		conds = append(conds, "m.workplace_id = ?")
		args = append(args, f.WorkplaceID)
	}
	if f.RoleID != 0 {
		conds = append(conds, "m.role_id = ?")
		args = append(args, f.RoleID)
	}
	if f.Search != "" {
		conds = append(conds, "(m.name LIKE ? OR m.email LIKE ? OR m.uo_id LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query := memberSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY m.created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
		if f.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, f.Offset)
		}
	}

	members := []models.Member{}
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, err
	}
	return members, nil
}

// ListRoles returns all roles.
func (r *Repository) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles := []models.Role{}
	if err := r.db.SelectContext(ctx, &roles, `SELECT * FROM roles ORDER BY id`); err != nil {
		return nil, err
	}
	return roles, nil
}

// ListWorkplaces returns all workplaces.
func (r *Repository) ListWorkplaces(ctx context.Context) ([]models.Workplace, error) {
	workplaces := []models.Workplace{}
	if err := r.db.SelectContext(ctx, &workplaces, `SELECT * FROM workplaces ORDER BY name`); err != nil {
		return nil, err
	}
	return workplaces, nil
}

// CreateWorkplace inserts a new workplace.
func (r *Repository) CreateWorkplace(ctx context.Context, w *models.Workplace) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO workplaces (name, location) VALUES (?, ?)`, w.Name, w.Location)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = id
	return nil
}
