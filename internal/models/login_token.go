// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package models

import "time"

// LoginToken is a single-use magic-link token. The token value is the sole
// lookup key; a token is dead once used or past expires_at.
type LoginToken struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Token     string    `db:"token" json:"-"`
	Used      bool      `db:"used" json:"used"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
