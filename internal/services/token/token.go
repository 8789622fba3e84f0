// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

// Package token implements the magic-link flow: issuing single-use login
// tokens and redeeming them for an authenticated member.
package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/uosw/memberhub/internal/models"
	"github.com/uosw/memberhub/internal/repository"
)

// ErrInvalidToken covers every redemption failure a caller may see:
// unknown, already used, expired, or no longer backed by a member. One
// error for all of them so responses leak nothing.
var ErrInvalidToken = errors.New("invalid or expired token")

// tokenBytes gives 256 bits of entropy; collisions are negligible.
const tokenBytes = 32

// Notifier delivers the login link out of band. Delivery runs in its own
// failure domain: the issuer logs and swallows its errors.
type Notifier interface {
	SendLoginLink(ctx context.Context, toEmail, toName, loginURL string) error
}

// Service issues and redeems login tokens.
type Service struct {
	repo     *repository.Repository
	notifier Notifier
	baseURL  string
	ttl      time.Duration
}

// NewService creates a token Service. baseURL is the externally reachable
// URL login links are built from.
func NewService(repo *repository.Repository, notifier Notifier, baseURL string, ttl time.Duration) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		ttl:      ttl,
	}
}

// RequestLogin issues a fresh login token for the email and asks the
// Notifier to deliver it. It returns nil for unregistered emails so the
// response never reveals whether an account exists. Prior outstanding
// tokens for the email are invalidated first; at most one live token
// exists per identity.
func (s *Service) RequestLogin(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	member, err := s.repo.GetMemberByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Info("login_requested_unknown_email", "email", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolving identity: %w", err)
	}

	if err := s.repo.DeleteLoginTokensByEmail(ctx, member.Email); err != nil {
		return fmt.Errorf("invalidating prior tokens: %w", err)
	}

	value, err := generateToken()
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	if _, err := s.repo.CreateLoginToken(ctx, member.Email, value, time.Now().Add(s.ttl)); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}

	// The token is valid regardless of delivery; the member can always
	// request a fresh one.
	if err := s.notifier.SendLoginLink(ctx, member.Email, member.Name, s.loginURL(value)); err != nil {
		slog.Error("login_email_failed", "member_id", member.ID, "error", err)
	}

	slog.Info("login_token_issued", "member_id", member.ID)
	return nil
}

// Redeem atomically consumes a presented token and resolves it to the
// member it authenticates. A token can be redeemed at most once, even
// under concurrent attempts; the store's conditional update guarantees it.
func (s *Service) Redeem(ctx context.Context, value string) (*models.Member, error) {
	lt, err := s.repo.ConsumeLoginToken(ctx, value, time.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("consuming token: %w", err)
	}

	member, err := s.repo.GetMemberByEmail(ctx, lt.Email)
	if errors.Is(err, repository.ErrNotFound) {
		// Member deleted between issuance and redemption. Externally
		// indistinguishable from a bad token.
		slog.Warn("login_token_orphaned", "email", lt.Email)
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("resolving identity: %w", err)
	}

	slog.Info("login_success", "member_id", member.ID)
	return member, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) loginURL(value string) string {
	return fmt.Sprintf("%s/api/auth/verify?token=%s", s.baseURL, url.QueryEscape(value))
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
