package database

import (
	"context"
	"sync"
)

// MemoryLedgerRepository keeps the notification ledger for the lifetime of the process.
type MemoryLedgerRepository struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryLedgerRepository() *MemoryLedgerRepository {
	return &MemoryLedgerRepository{entries: make(map[string]string)}
}

func (r *MemoryLedgerRepository) LastNotified(_ context.Context, userID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	date, ok := r.entries[userID]
	return date, ok, nil
}

func (r *MemoryLedgerRepository) MarkNotified(_ context.Context, userID, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[userID] = date
	return nil
}

// PruneBefore relies on YYYY-MM-DD dates sorting lexically in calendar order.
func (r *MemoryLedgerRepository) PruneBefore(_ context.Context, date string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for userID, last := range r.entries {
		if last < date {
			delete(r.entries, userID)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of users in the ledger.
func (r *MemoryLedgerRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
