// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
)

// # In-Memory Storage

// MemoryStorage implements [Storage] in process memory.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStorage creates an empty in-memory [Storage].
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get implements [Storage].
func (storage *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	value, ok := storage.values[key]
	return value, ok, nil
}

// SetAll implements [Storage].
func (storage *MemoryStorage) SetAll(_ context.Context, values map[string]string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	for key, value := range values {
		storage.values[key] = value
	}
	return nil
}

// DeleteAll implements [Storage].
func (storage *MemoryStorage) DeleteAll(_ context.Context, keys ...string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	for _, key := range keys {
		delete(storage.values, key)
	}
	return nil
}

// Len returns the number of stored keys.
func (storage *MemoryStorage) Len() int {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	return len(storage.values)
}
