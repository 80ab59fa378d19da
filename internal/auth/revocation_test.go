package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocations(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRevocations()

	revoked, err := m.IsTokenRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, m.Revoke(ctx, "token-a", time.Now().Add(time.Hour)))

	revoked, err = m.IsTokenRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = m.IsTokenRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevocations_Purge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryRevocations()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Revoke(ctx, "expired", now.Add(-time.Minute)))
	require.NoError(t, m.Revoke(ctx, "live", now.Add(time.Minute)))

	removed, err := m.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.Len())

	revoked, err := m.IsTokenRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryRevocations_KeepsLongestExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryRevocations()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Revoke(ctx, "token", now.Add(time.Hour)))
	require.NoError(t, m.Revoke(ctx, "token", now.Add(-time.Hour)))

	removed, err := m.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMemoryRevocations_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryRevocations().IsTokenRevoked(ctx, "token")
	assert.ErrorIs(t, err, context.Canceled)
}
