// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"strings"
	"time"

	"github.com/uosw/memberhub/internal/models"
)

// EventFilter narrows ListEvents results. Zero values are ignored.
type EventFilter struct { //nolint:govet // fieldalignment not critical
	Upcoming  bool
	Past      bool
	Search    string
	CreatedBy int64
	Limit     int
	Offset    int
}

// CreateEvent inserts a new event.
func (r *Repository) CreateEvent(ctx context.Context, e *models.Event) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (title, description, event_date, location, qr_code_token, created_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Title, e.Description, e.EventDate, e.Location, e.QRCodeToken, e.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	e.CreatedAt = time.Now()
	return nil
}

// GetEventByID retrieves an event.
func (r *Repository) GetEventByID(ctx context.Context, id int64) (*models.Event, error) {
	var e models.Event
	if err := r.db.GetContext(ctx, &e, `SELECT * FROM events WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &e, nil
}

// ListEvents returns events matching the filter, soonest first.
func (r *Repository) ListEvents(ctx context.Context, f EventFilter) ([]models.Event, error) {
	var (
		conds []string
		args  []any
	)
	if f.Upcoming {
		conds = append(conds, "event_date > ?")
		args = append(args, time.Now())
	}
	if f.Past {
		conds = append(conds, "event_date <= ?")
		args = append(args, time.Now())
	}
	if f.Search != "" {
		conds = append(conds, "(title LIKE ? OR location LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	if f.CreatedBy != 0 {
		conds = append(conds, "created_by = ?")
		args = append(args, f.CreatedBy)
	}

	query := `SELECT * FROM events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY event_date ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
		if f.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, f.Offset)
		}
	}

	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateEvent updates the mutable fields of an event.
func (r *Repository) UpdateEvent(ctx context.Context, e *models.Event) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ?, event_date = ?, location = ?
		 WHERE id = ?`,
		e.Title, e.Description, e.EventDate, e.Location, e.ID)
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

// DeleteEvent deletes an event and its attendance records.
func (r *Repository) DeleteEvent(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE event_id = ?`, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
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

// IsCheckedIn reports whether a member already checked in to an event.
func (r *Repository) IsCheckedIn(ctx context.Context, memberID, eventID int64) (bool, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT count(*) FROM attendance WHERE member_id = ? AND event_id = ?`, memberID, eventID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecordCheckIn inserts an attendance row for a member at an event.
func (r *Repository) RecordCheckIn(ctx context.Context, memberID, eventID int64, qrToken *string) (*models.Attendance, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO attendance (member_id, event_id, qr_code_token) VALUES (?, ?, ?)`,
		memberID, eventID, qrToken)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Attendance{
		ID:          id,
		MemberID:    memberID,
		EventID:     eventID,
		QRCodeToken: qrToken,
		CheckedInAt: time.Now(),
	}, nil
}

// ListAttendanceByEvent returns the roster for an event, earliest first.
func (r *Repository) ListAttendanceByEvent(ctx context.Context, eventID int64) ([]models.Attendance, error) {
	rows := []models.Attendance{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT a.*, m.name AS member_name, m.email AS member_email, w.name AS workplace_name
		 FROM attendance a
		 JOIN members m ON a.member_id = m.id
		 LEFT JOIN workplaces w ON m.workplace_id = w.id
		 WHERE a.event_id = ?
		 ORDER BY a.checked_in_at ASC`, eventID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAttendanceByMember returns a member's check-in history, newest first.
func (r *Repository) ListAttendanceByMember(ctx context.Context, memberID int64) ([]models.Attendance, error) {
	rows := []models.Attendance{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT a.* FROM attendance a WHERE a.member_id = ? ORDER BY a.checked_in_at DESC`, memberID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RecentCheckIns returns the most recent check-ins across all events.
func (r *Repository) RecentCheckIns(ctx context.Context, limit int) ([]models.Attendance, error) {
	rows := []models.Attendance{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT a.*, m.name AS member_name, m.email AS member_email, w.name AS workplace_name
		 FROM attendance a
		 JOIN members m ON a.member_id = m.id
		 LEFT JOIN workplaces w ON m.workplace_id = w.id
		 ORDER BY a.checked_in_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
