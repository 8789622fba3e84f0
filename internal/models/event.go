// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package models

import "time"

// Event is a union event members can check in to.
type Event struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	EventDate   time.Time `db:"event_date" json:"event_date"`
	Location    *string   `db:"location" json:"location"`
	QRCodeToken string    `db:"qr_code_token" json:"qr_code_token"`
	CreatedBy   *int64    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Attendance records a member checking in to an event. MemberName, Email
// and WorkplaceName come from joins for event rosters.
type Attendance struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64     `db:"id" json:"id"`
	MemberID    int64     `db:"member_id" json:"member_id"`
	EventID     int64     `db:"event_id" json:"event_id"`
	QRCodeToken *string   `db:"qr_code_token" json:"qr_code_token"`
	CheckedInAt time.Time `db:"checked_in_at" json:"checked_in_at"`

	MemberName    *string `db:"member_name" json:"member_name,omitempty"`
	MemberEmail   *string `db:"member_email" json:"member_email,omitempty"`
	WorkplaceName *string `db:"workplace_name" json:"workplace_name,omitempty"`
}
