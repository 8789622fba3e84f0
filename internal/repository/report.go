// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package repository

import "context"

// StatusCount is a generic label/count pair used by the report queries.
type StatusCount struct {
	Label string `db:"label" json:"label"`
	Count int64  `db:"count" json:"count"`
}

// MemberAttendanceStats summarizes a member's check-in history.
type MemberAttendanceStats struct {
	TotalCheckIns int64 `db:"total_check_ins" json:"total_check_ins"`
	PastEvents    int64 `db:"past_events" json:"past_events"`
}

// EventAttendanceSummary summarizes attendance for one event.
type EventAttendanceSummary struct { //nolint:govet // fieldalignment not critical
	EventTitle            string `db:"event_title" json:"event_title"`
	TotalAttendance       int64  `db:"total_attendance" json:"total_attendance"`
	WorkplacesRepresented int64  `db:"workplaces_represented" json:"workplaces_represented"`
}

// CountMembers returns the total number of members.
func (r *Repository) CountMembers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM members`); err != nil {
		return 0, err
	}
	return count, nil
}

// CountEvents returns the total number of events.
func (r *Repository) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM events`); err != nil {
		return 0, err
	}
	return count, nil
}

// MembershipStatusCounts returns member counts grouped by membership status.
func (r *Repository) MembershipStatusCounts(ctx context.Context) ([]StatusCount, error) {
	rows := []StatusCount{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT membership_status AS label, count(*) AS count
		 FROM members GROUP BY membership_status ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DuesStatusCounts returns member counts grouped by dues status.
func (r *Repository) DuesStatusCounts(ctx context.Context) ([]StatusCount, error) {
	rows := []StatusCount{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT dues_status AS label, count(*) AS count
		 FROM members GROUP BY dues_status ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RoleCounts returns member counts per role.
func (r *Repository) RoleCounts(ctx context.Context) ([]StatusCount, error) {
	rows := []StatusCount{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT r.name AS label, count(m.id) AS count
		 FROM roles r
		 LEFT JOIN members m ON m.role_id = r.id
		 GROUP BY r.id ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// WorkplaceCounts returns member counts per workplace.
func (r *Repository) WorkplaceCounts(ctx context.Context) ([]StatusCount, error) {
	rows := []StatusCount{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT w.name AS label, count(m.id) AS count
		 FROM workplaces w
		 LEFT JOIN members m ON m.workplace_id = w.id
		 GROUP BY w.id ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetMemberAttendanceStats aggregates a member's check-in history.
func (r *Repository) GetMemberAttendanceStats(ctx context.Context, memberID int64) (*MemberAttendanceStats, error) {
	var stats MemberAttendanceStats
	err := r.db.GetContext(ctx, &stats,
		`SELECT count(*) AS total_check_ins,
		        count(CASE WHEN e.event_date <= CURRENT_TIMESTAMP THEN 1 END) AS past_events
		 FROM attendance a
		 JOIN events e ON a.event_id = e.id
		 WHERE a.member_id = ?`, memberID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetEventAttendanceSummary aggregates the roster for one event.
func (r *Repository) GetEventAttendanceSummary(ctx context.Context, eventID int64) (*EventAttendanceSummary, error) {
	var summary EventAttendanceSummary
	err := r.db.GetContext(ctx, &summary,
		`SELECT e.title AS event_title,
		        count(a.id) AS total_attendance,
		        count(DISTINCT m.workplace_id) AS workplaces_represented
		 FROM events e
		 LEFT JOIN attendance a ON e.id = a.event_id
		 LEFT JOIN members m ON a.member_id = m.id
		 WHERE e.id = ?
		 GROUP BY e.id`, eventID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &summary, nil
}
