// Package storage содержит реализации хранилища учетных данных.
package storage

import (
	"context"
	"sync"

	"tcofront/internal/front/ports/storage"
)

// MemoryStore хранит значения в памяти процесса.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore создает пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

var _ storage.KeyValueStore = (*MemoryStore)(nil)

// Get получает значение по ключу.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set устанавливает значение для ключа.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete удаляет значения по ключам.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Apply применяет пакет изменений под одной блокировкой.
func (s *MemoryStore) Apply(_ context.Context, batch storage.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range batch.Set {
		s.values[k] = v
	}
	for _, k := range batch.Delete {
		delete(s.values, k)
	}
	return nil
}

// Snapshot возвращает копию содержимого.
func (s *MemoryStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Close ничего не делает.
func (s *MemoryStore) Close() error {
	return nil
}
