// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uosw/memberhub/internal/repository"
	"github.com/uosw/memberhub/internal/testutil"
)

func TestCreateLoginToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	lt, err := repo.CreateLoginToken(ctx, "ada@uosw.example", "tok-1", time.Now().Add(15*time.Minute))
	require.NoError(t, err)

	assert.NotZero(t, lt.ID)
	assert.Equal(t, "ada@uosw.example", lt.Email)
	assert.Equal(t, "tok-1", lt.Token)
	assert.False(t, lt.Used)
}

func TestConsumeLoginToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.CreateLoginToken(ctx, "ada@uosw.example", "tok-1", time.Now().Add(15*time.Minute))
	require.NoError(t, err)

	lt, err := repo.ConsumeLoginToken(ctx, "tok-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "ada@uosw.example", lt.Email)
	assert.True(t, lt.Used)

	// Second consume of the same token must fail.
	_, err = repo.ConsumeLoginToken(ctx, "tok-1", time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConsumeLoginTokenUnknown(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.ConsumeLoginToken(context.Background(), "never-issued", time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConsumeLoginTokenExpired(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.CreateLoginToken(ctx, "ada@uosw.example", "tok-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = repo.ConsumeLoginToken(ctx, "tok-1", time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestConsumeLoginTokenConcurrent hammers one token from many goroutines.
// The conditional UPDATE must let exactly one of them win.
func TestConsumeLoginTokenConcurrent(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.CreateLoginToken(ctx, "ada@uosw.example", "tok-race", time.Now().Add(15*time.Minute))
	require.NoError(t, err)

	const attempts = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ConsumeLoginToken(ctx, "tok-race", time.Now()); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestDeleteLoginTokensByEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	expiry := time.Now().Add(15 * time.Minute)
	_, err := repo.CreateLoginToken(ctx, "ada@uosw.example", "tok-1", expiry)
	require.NoError(t, err)
	_, err = repo.CreateLoginToken(ctx, "ada@uosw.example", "tok-2", expiry)
	require.NoError(t, err)
	_, err = repo.CreateLoginToken(ctx, "grace@uosw.example", "tok-3", expiry)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteLoginTokensByEmail(ctx, "ada@uosw.example"))

	_, err = repo.ConsumeLoginToken(ctx, "tok-1", time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.ConsumeLoginToken(ctx, "tok-2", time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Other identities keep their tokens.
	_, err = repo.ConsumeLoginToken(ctx, "tok-3", time.Now())
	assert.NoError(t, err)
}

func TestDeleteExpiredLoginTokens(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.CreateLoginToken(ctx, "ada@uosw.example", "tok-dead", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = repo.CreateLoginToken(ctx, "ada@uosw.example", "tok-live", time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteExpiredLoginTokens(ctx, time.Now()))

	_, err = repo.ConsumeLoginToken(ctx, "tok-dead", time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.ConsumeLoginToken(ctx, "tok-live", time.Now())
	assert.NoError(t, err)
}
