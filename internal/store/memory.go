// File: internal/store/memory.go
package store

import (
	"context"
	"sync"

	"github.com/smartdevs17/health-sms-relay/internal/models"
)

// MemoryStore is a process-local entry store used by tests and the
// connectivity check command. It mirrors the spreadsheet semantics:
// append-only, insertion order, last N = most recently appended.
type MemoryStore struct {
	config *StoreConfig

	mu      sync.Mutex
	entries []*models.Entry
}

// NewMemoryStore creates a new in-memory entry store
func NewMemoryStore(config *StoreConfig) *MemoryStore {
	return &MemoryStore{config: config}
}

func (m *MemoryStore) Connect() error                 { return nil }
func (m *MemoryStore) Close() error                   { return nil }
func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

// Append appends an entry
func (m *MemoryStore) Append(ctx context.Context, entry *models.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries = append(m.entries, &copied)
	return nil
}

// LastEntries returns the n most recently appended entries, oldest first
func (m *MemoryStore) LastEntries(ctx context.Context, n int) ([]*models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.entries
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}

	out := make([]*models.Entry, 0, len(entries))
	for _, entry := range entries {
		copied := *entry
		out = append(out, &copied)
	}
	return out, nil
}

// ShareableLink returns a placeholder location for the in-memory store
func (m *MemoryStore) ShareableLink(ctx context.Context) (string, error) {
	return "memory://" + m.config.SpreadsheetName, nil
}

// Len reports the number of stored entries
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
