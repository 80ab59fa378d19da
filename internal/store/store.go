// Package store holds the keyed collections behind the user and character
// stores. Implementations must be safe for concurrent use; concurrent writes
// to the same key are last-write-wins.
package store

import (
	"context"
	"sync"
)

type Store[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool, error)
	Set(ctx context.Context, key K, value V) error
	Delete(ctx context.Context, key K) (bool, error)
	List(ctx context.Context) ([]V, error)
}

type Memory[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
	order []K
}

func NewMemory[K comparable, V any]() *Memory[K, V] {
	return &Memory[K, V]{items: make(map[K]V)}
}

func (m *Memory[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	return value, ok, nil
}

func (m *Memory[K, V]) Set(ctx context.Context, key K, value V) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists {
		m.order = append(m.order, key)
	}
	m.items[key] = value
	return nil
}

func (m *Memory[K, V]) Delete(ctx context.Context, key K) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists {
		return false, nil
	}
	delete(m.items, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// List returns values in insertion order.
func (m *Memory[K, V]) List(ctx context.Context) ([]V, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	values := make([]V, 0, len(m.order))
	for _, key := range m.order {
		values = append(values, m.items[key])
	}
	return values, nil
}
