// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uosw/memberhub/internal/auth"
	"github.com/uosw/memberhub/internal/models"
	"github.com/uosw/memberhub/internal/services/session"
	"github.com/uosw/memberhub/internal/services/token"
)

// AuthHandlers contains handlers for the magic-link login flow.
type AuthHandlers struct {
	tokens   *token.Service
	sessions *session.Codec
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(tokens *token.Service, sessions *session.Codec) *AuthHandlers {
	return &AuthHandlers{tokens: tokens, sessions: sessions}
}

// memberProfile is the public shape of a member returned after login.
type memberProfile struct { //nolint:govet // fieldalignment not critical
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	RoleName      *string `json:"role_name"`
	WorkplaceName *string `json:"workplace_name"`
}

func profileOf(m *models.Member) memberProfile {
	return memberProfile{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		RoleName:      m.RoleName,
		WorkplaceName: m.WorkplaceName,
	}
}

// RequestLoginBody is the request body for RequestLogin.
type RequestLoginBody struct {
	Email string `json:"email"`
}

// RequestLogin starts the login flow. The response is the same whether or
// not the email is registered, so it cannot be used to enumerate members.
func (h *AuthHandlers) RequestLogin(c echo.Context) error {
	var req RequestLoginBody
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return fail(c, http.StatusBadRequest, "email is required")
	}

	if err := h.tokens.RequestLogin(c.Request().Context(), req.Email); err != nil {
		slog.Error("request_login_failed", "error", err)
		return serverError(c)
	}

	return okMessage(c, http.StatusOK, "If the email is registered, a login link has been sent", nil)
}

// VerifyLogin redeems a login token and mints a session credential. Any
// redemption failure is a generic 401; a token works exactly once.
func (h *AuthHandlers) VerifyLogin(c echo.Context) error {
	value := c.QueryParam("token")
	if value == "" {
		return fail(c, http.StatusBadRequest, "token is required")
	}

	member, err := h.tokens.Redeem(c.Request().Context(), value)
	if errors.Is(err, token.ErrInvalidToken) {
		return fail(c, http.StatusUnauthorized, "Invalid or expired token")
	}
	if err != nil {
		slog.Error("verify_login_failed", "error", err)
		return serverError(c)
	}

	credential, err := h.sessions.Mint(member)
	if err != nil {
		slog.Error("mint_session_failed", "error", err)
		return serverError(c)
	}

	return ok(c, map[string]any{
		"token":  credential,
		"member": profileOf(member),
	})
}

// Me returns the claims of the authenticated session.
func (h *AuthHandlers) Me(c echo.Context) error {
	claims := auth.GetClaims(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Invalid or expired session")
	}

	return ok(c, map[string]any{
		"member": map[string]any{
			"id":    claims.SubjectID,
			"name":  claims.SubjectName,
			"email": claims.SubjectEmail,
		},
		"expires_at": claims.Expiry(),
	})
}
