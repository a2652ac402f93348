package kv

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/forge/pkg/types"
)

// Memory is an in-process Store. Contents are lost when the process exits.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Load implements Store.
func (m *Memory) Load(_ context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, types.ErrStoreClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return types.ErrStoreClosed
	}
	m.data[key] = value
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Reopen clears the closed flag while keeping the contents. Tests use it to
// simulate a restart against the same storage.
func (m *Memory) Reopen() *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = false
	return m
}
