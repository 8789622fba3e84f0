// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uosw/memberhub/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testMember() *models.Member {
	return &models.Member{
		ID:    42,
		Name:  "Ada Lovelace",
		Email: "ada@uosw.example",
	}
}

func TestMintAndVerify(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	credential, err := codec.Mint(testMember())
	require.NoError(t, err)
	require.Contains(t, credential, separator)

	claims, err := codec.Verify(credential)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.SubjectID)
	assert.Equal(t, "ada@uosw.example", claims.SubjectEmail)
	assert.Equal(t, "Ada Lovelace", claims.SubjectName)
	assert.True(t, claims.Expiry().After(time.Now()))
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	credential, err := codec.Mint(testMember())
	require.NoError(t, err)

	encoded, tag, ok := strings.Cut(credential, separator)
	require.True(t, ok)

	// Flip one bit in the payload, keep the tag.
	flipped := []byte(encoded)
	flipped[0] ^= 0x01
	_, err = codec.Verify(string(flipped) + separator + tag)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsTamperedTag(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	credential, err := codec.Mint(testMember())
	require.NoError(t, err)

	encoded, tag, ok := strings.Cut(credential, separator)
	require.True(t, ok)

	// hex alphabet: flipping between '0' and '1' keeps it decodable
	mutated := []byte(tag)
	if mutated[0] == '0' {
		mutated[0] = '1'
	} else {
		mutated[0] = '0'
	}
	_, err = codec.Verify(encoded + separator + string(mutated))
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	credential, err := NewCodec(testSecret, time.Hour).Mint(testMember())
	require.NoError(t, err)

	other := NewCodec("another-secret-another-secret-32", time.Hour)
	_, err = other.Verify(credential)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsExpired(t *testing.T) {
	codec := NewCodec(testSecret, -time.Minute)

	credential, err := codec.Mint(testMember())
	require.NoError(t, err)

	_, err = codec.Verify(credential)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	for _, credential := range []string{
		"",
		"no-separator",
		"not-base64!!!.abcdef",
		"eyJzdWIiOjF9.not-hex",
	} {
		_, err := codec.Verify(credential)
		assert.ErrorIs(t, err, ErrInvalidCredential, "credential %q", credential)
	}
}
