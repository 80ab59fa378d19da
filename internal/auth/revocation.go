package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type RevocationRegistry interface {
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
}

// MemoryRevocations keeps revoked tokens, keyed by their sha256, until the
// token would have expired on its own.
type MemoryRevocations struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryRevocations) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	_, ok := m.revoked[tokenHash(token)]
	m.mu.RUnlock()

	return ok, nil
}

func (m *MemoryRevocations) Revoke(ctx context.Context, token string, until time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := tokenHash(token)
	if existing, ok := m.revoked[key]; ok && existing.After(until) {
		return nil
	}
	m.revoked[key] = until.UTC()
	return nil
}

// Purge drops entries whose tokens are past their expiry and returns how many
// were removed.
func (m *MemoryRevocations) Purge(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := m.now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, until := range m.revoked {
		if !until.After(now) {
			delete(m.revoked, key)
			removed++
		}
	}
	return removed, nil
}

// Len reports how many revocations are currently held.
func (m *MemoryRevocations) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.revoked)
}

func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
