package storage

import (
	"context"
	"sync"

	"github.com/multichain-wallet/multichain-wallet/pkg/types"
)

// MemoryKV is an in-memory KV implementation used in tests and for running
// the daemon without a database.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV creates an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get retrieves a value by key.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores a value under key.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Delete removes a key.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Apply performs puts and deletes under one lock acquisition.
func (m *MemoryKV) Apply(_ context.Context, puts map[string][]byte, deletes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range puts {
		stored := make([]byte, len(value))
		copy(stored, value)
		m.data[key] = stored
	}
	for _, key := range deletes {
		delete(m.data, key)
	}
	return nil
}

// MemoryTokenStore is an in-memory TokenStore implementation for tests.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string][]types.TokenDescriptor
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string][]types.TokenDescriptor)}
}

// Add appends a token for a chain.
func (m *MemoryTokenStore) Add(_ context.Context, token types.TokenDescriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[token.ChainID] = append(m.tokens[token.ChainID], token)
	return nil
}

// ListByChain returns the tokens stored for a chain in insertion order.
func (m *MemoryTokenStore) ListByChain(_ context.Context, chainID string) ([]types.TokenDescriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.TokenDescriptor, len(m.tokens[chainID]))
	copy(out, m.tokens[chainID])
	return out, nil
}
