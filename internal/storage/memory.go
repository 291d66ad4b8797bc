package storage

import (
	"context"
	"time"
)

// MemorySlot keeps payloads in process memory. Nothing survives a restart.
type MemorySlot struct {
	values map[string][]byte
	stamps map[string]time.Time
}

// NewMemory returns an empty in-memory slot store.
func NewMemory() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte), stamps: make(map[string]time.Time)}
}
// Read returns a copy of the payload stored under key, or ErrNotFound.
func (m *MemorySlot) Read(_ context.Context, key string) ([]byte, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Write stores a copy of payload under key.
func (m *MemorySlot) Write(_ context.Context, key string, payload []byte) error {
	m.values[key] = append([]byte(nil), payload...)
	m.stamps[key] = time.Now().UTC()
	return nil
}

// UpdatedAt reports when key was last written.
func (m *MemorySlot) UpdatedAt(_ context.Context, key string) (time.Time, error) {
	t, ok := m.stamps[key]
	if !ok {
		return time.Time{}, ErrNotFound
	}
	return t, nil
}
