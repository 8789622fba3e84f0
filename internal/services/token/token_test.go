// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package token_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uosw/memberhub/internal/services/token"
	"github.com/uosw/memberhub/internal/testutil"
)

// fakeNotifier records login links instead of delivering them.
type fakeNotifier struct {
	links []string
	err   error
}

func (n *fakeNotifier) SendLoginLink(_ context.Context, _, _, loginURL string) error {
	if n.err != nil {
		return n.err
	}
	n.links = append(n.links, loginURL)
	return nil
}

// tokenFromLink extracts the token query parameter from a login URL.
func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	value := u.Query().Get("token")
	require.NotEmpty(t, value)
	return value
}

func TestRequestLoginAndRedeem(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	member := testutil.NewTestMember(t, repo, "Ada Lovelace", "ada@uosw.example", "951000001")

	notifier := &fakeNotifier{}
	svc := token.NewService(repo, notifier, "http://localhost:8080", 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.RequestLogin(ctx, "ada@uosw.example"))
	require.Len(t, notifier.links, 1)
	assert.True(t, strings.HasPrefix(notifier.links[0], "http://localhost:8080/api/auth/verify?token="))

	value := tokenFromLink(t, notifier.links[0])
	assert.Len(t, value, 64) // 32 bytes hex-encoded

	got, err := svc.Redeem(ctx, value)
	require.NoError(t, err)
	assert.Equal(t, member.ID, got.ID)

	// Single use: the same token never works twice.
	_, err = svc.Redeem(ctx, value)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestRequestLoginUnknownEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	notifier := &fakeNotifier{}
	svc := token.NewService(repo, notifier, "http://localhost:8080", 15*time.Minute)

	// Unregistered emails succeed without sending anything.
	require.NoError(t, svc.RequestLogin(context.Background(), "nobody@uosw.example"))
	assert.Empty(t, notifier.links)
}

func TestRequestLoginMixedCaseRegistration(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	// Registered with arbitrary casing, requested with arbitrary casing:
	// still the same identity, and the link still arrives.
	member := testutil.NewTestMember(t, repo, "Ada Lovelace", "Ada@Uosw.Example", "951000001")

	notifier := &fakeNotifier{}
	svc := token.NewService(repo, notifier, "http://localhost:8080", 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.RequestLogin(ctx, "Ada@Uosw.Example"))
	require.NotEmpty(t, notifier.links)

	got, err := svc.Redeem(ctx, tokenFromLink(t, notifier.links[0]))
	require.NoError(t, err)
	assert.Equal(t, member.ID, got.ID)
}

func TestRequestLoginNormalizesEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	testutil.NewTestMember(t, repo, "Ada Lovelace", "ada@uosw.example", "951000001")

	notifier := &fakeNotifier{}
	svc := token.NewService(repo, notifier, "http://localhost:8080", 15*time.Minute)

	require.NoError(t, svc.RequestLogin(context.Background(), "  ADA@UOSW.EXAMPLE  "))
	assert.Len(t, notifier.links, 1)
}

func TestRequestLoginInvalidatesPriorTokens(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	testutil.NewTestMember(t, repo, "Ada Lovelace", "ada@uosw.example", "951000001")

	notifier := &fakeNotifier{}
	svc := token.NewService(repo, notifier, "http://localhost:8080", 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.RequestLogin(ctx, "ada@uosw.example"))
	require.NoError(t, svc.RequestLogin(ctx, "ada@uosw.example"))
	require.Len(t, notifier.links, 2)

	first := tokenFromLink(t, notifier.links[0])
	second := tokenFromLink(t, notifier.links[1])

	_, err := svc.Redeem(ctx, first)
	assert.ErrorIs(t, err, token.ErrInvalidToken)

	_, err = svc.Redeem(ctx, second)
	assert.NoError(t, err)
}

func TestRequestLoginSurvivesNotifierFailure(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	testutil.NewTestMember(t, repo, "Ada Lovelace", "ada@uosw.example", "951000001")

	notifier := &fakeNotifier{err: errors.New("smtp down")}
	svc := token.NewService(repo, notifier, "http://localhost:8080", 15*time.Minute)

	// Delivery failure is not the caller's problem.
	assert.NoError(t, svc.RequestLogin(context.Background(), "ada@uosw.example"))
}

func TestRedeemExpiredToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	testutil.NewTestMember(t, repo, "Ada Lovelace", "ada@uosw.example", "951000001")

	notifier := &fakeNotifier{}
	svc := token.NewService(repo, notifier, "http://localhost:8080", -time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.RequestLogin(ctx, "ada@uosw.example"))
	value := tokenFromLink(t, notifier.links[0])

	_, err := svc.Redeem(ctx, value)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestRedeemOrphanedToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	member := testutil.NewTestMember(t, repo, "Ada Lovelace", "ada@uosw.example", "951000001")

	notifier := &fakeNotifier{}
	svc := token.NewService(repo, notifier, "http://localhost:8080", 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.RequestLogin(ctx, "ada@uosw.example"))
	value := tokenFromLink(t, notifier.links[0])

	// Member removed between issuance and redemption.
	require.NoError(t, repo.DeleteMember(ctx, member.ID))

	_, err := svc.Redeem(ctx, value)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestRedeemUnknownToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	svc := token.NewService(repo, &fakeNotifier{}, "http://localhost:8080", 15*time.Minute)

	_, err := svc.Redeem(context.Background(), "never-issued")
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}
