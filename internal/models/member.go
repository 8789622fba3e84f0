// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

// Package models defines the persisted entities of the member portal.
package models

import "time"

// Member is a registered union member. RoleName and WorkplaceName are
// populated from joins, not stored on the members table.
type Member struct { //nolint:govet // fieldalignment: readability over optimization
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	UOID             string    `db:"uo_id" json:"uo_id"`
	WorkplaceID      *int64    `db:"workplace_id" json:"workplace_id"`
	RoleID           *int64    `db:"role_id" json:"role_id"`
	DuesStatus       string    `db:"dues_status" json:"dues_status"`
	MembershipStatus string    `db:"membership_status" json:"membership_status"`
	Major            *string   `db:"major" json:"major"`
	Phone            *string   `db:"phone" json:"phone"`
	Pronouns         *string   `db:"pronouns" json:"pronouns"`
	GraduationYear   *int64    `db:"graduation_year" json:"graduation_year"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	RoleName      *string `db:"role_name" json:"role_name"`
	WorkplaceName *string `db:"workplace_name" json:"workplace_name"`
}

// Role is a union role such as President or Treasurer.
type Role struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Workplace is a campus workplace members are organized around.
type Workplace struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  *string   `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
