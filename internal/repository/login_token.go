// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/uosw/memberhub/internal/models"
)

// CreateLoginToken persists a new single-use login token for an email.
func (r *Repository) CreateLoginToken(ctx context.Context, email, token string, expiresAt time.Time) (*models.LoginToken, error) {
	var lt models.LoginToken
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO login_tokens (email, token, expires_at) VALUES (?, ?, ?)
		 RETURNING id, email, token, used, expires_at, created_at`,
		email, token, expiresAt).StructScan(&lt)
	if err != nil {
		return nil, wrapError(err)
	}
	return &lt, nil
}

// ConsumeLoginToken flips a token from unused to used and returns it, in a
// single conditional UPDATE. Concurrent calls with the same value see at
// most one row returned; everyone else gets ErrNotFound. Used, expired and
// unknown tokens are indistinguishable here on purpose.
func (r *Repository) ConsumeLoginToken(ctx context.Context, token string, now time.Time) (*models.LoginToken, error) {
	var lt models.LoginToken
	err := r.db.QueryRowxContext(ctx,
		`UPDATE login_tokens SET used = 1
		 WHERE token = ? AND used = 0 AND expires_at > ?
		 RETURNING id, email, token, used, expires_at, created_at`,
		token, now).StructScan(&lt)
	if err != nil {
		return nil, wrapError(err)
	}
	return &lt, nil
}

// DeleteLoginTokensByEmail invalidates all outstanding tokens for an email.
// Called before issuing a new one so at most one live token exists per
// identity.
func (r *Repository) DeleteLoginTokensByEmail(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM login_tokens WHERE email = ?`, email)
	return err
}

// DeleteExpiredLoginTokens garbage-collects dead token rows. Not required
// for correctness; consume already filters on used and expires_at.
func (r *Repository) DeleteExpiredLoginTokens(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM login_tokens WHERE used = 1 OR expires_at <= ?`, now)
	return err
}
