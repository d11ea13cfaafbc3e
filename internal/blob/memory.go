package blob

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore — хранилище в памяти для тестов.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	// FailOn — если вернул true, Put по этому ключу завершается ошибкой.
	FailOn func(key string) bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) Driver() Driver { return DriverMemory }

func (m *MemoryStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if m.FailOn != nil && m.FailOn(key) {
		return "", fmt.Errorf("memory store: put %s failed", key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; ok {
		return "", fmt.Errorf("blob %s already exists", key)
	}
	m.objects[key] = append([]byte(nil), data...)
	return "mem://" + key, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Len — количество сохранённых объектов.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
