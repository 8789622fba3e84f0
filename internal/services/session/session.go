// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

// Package session mints and verifies self-contained session credentials.
//
// A credential is base64url(JSON claims) + "." + hex(HMAC-SHA256 tag). The
// base64url and hex alphabets both exclude the dot, so the encoding is
// self-delimiting. Verification is stateless: a structurally valid,
// correctly signed, unexpired credential is proof of its claims. There is
// no revocation before expiry; a denylist checked here would be the
// extension point if that is ever needed.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/uosw/memberhub/internal/models"
)

// ErrInvalidCredential covers every verification failure: malformed
// encoding, signature mismatch and expiry. Callers must not be able to
// tell these apart.
var ErrInvalidCredential = errors.New("invalid or expired credential")

const separator = "."

// Claims are the identity assertions embedded in a credential.
type Claims struct { //nolint:govet // fieldalignment not critical
	SubjectID    int64  `json:"sub"`
	SubjectEmail string `json:"email"`
	SubjectName  string `json:"name"`
	ExpiresAt    int64  `json:"exp"` // Unix seconds
}

// Expiry returns the expiry as a time.Time.
func (c *Claims) Expiry() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// Codec signs and verifies session credentials with an injected secret so
// tests can supply deterministic keys.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec. The secret must be non-empty; config validation
// rejects weak secrets before the server starts.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Mint serializes the member's public claims with an expiry and signs them.
func (c *Codec) Mint(member *models.Member) (string, error) {
	claims := Claims{
		SubjectID:    member.ID,
		SubjectEmail: member.Email,
		SubjectName:  member.Name,
		ExpiresAt:    time.Now().Add(c.ttl).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	tag := c.sign(payload)
	return encoded + separator + hex.EncodeToString(tag), nil
}

// Verify checks structure, signature and expiry, returning the embedded
// claims on success.
func (c *Codec) Verify(credential string) (*Claims, error) {
	encoded, tagHex, ok := strings.Cut(credential, separator)
	if !ok {
		return nil, ErrInvalidCredential
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCredential
	}
	tag, err := hex.DecodeString(tagHex)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	if !hmac.Equal(tag, c.sign(payload)) {
		return nil, ErrInvalidCredential
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrInvalidCredential
	}
	if !time.Now().Before(claims.Expiry()) {
		return nil, ErrInvalidCredential
	}

	return &claims, nil
}

func (c *Codec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
