package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/pricing"
)

// InMemoryHistoryWriter is an in-memory test double for pricing.HistoryWriter
// and pricing.HistoryReader.
type InMemoryHistoryWriter struct {
	mu      sync.Mutex
	entries []pricing.HistoryEntry
}

// NewInMemoryHistoryWriter creates a new empty in-memory history log.
func NewInMemoryHistoryWriter() *InMemoryHistoryWriter {
	return &InMemoryHistoryWriter{}
}

// Append implements pricing.HistoryWriter.
func (w *InMemoryHistoryWriter) Append(ctx context.Context, entry pricing.HistoryEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.entries = append(w.entries, entry)
	return nil
}

// FindByItem implements pricing.HistoryReader.
func (w *InMemoryHistoryWriter) FindByItem(ctx context.Context, itemID string, limit, offset int) ([]pricing.HistoryEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var matches []pricing.HistoryEntry
	for i := len(w.entries) - 1; i >= 0; i-- {
		if w.entries[i].ItemID == itemID {
			matches = append(matches, w.entries[i])
		}
	}

	if offset > len(matches) {
		offset = len(matches)
	}
	end := len(matches)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matches[offset:end], nil
}

// All returns every appended entry in append order, for test assertions.
func (w *InMemoryHistoryWriter) All() []pricing.HistoryEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]pricing.HistoryEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Latest returns the most recently appended entry for itemID, and whether
// one exists.
func (w *InMemoryHistoryWriter) Latest(itemID string) (pricing.HistoryEntry, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := len(w.entries) - 1; i >= 0; i-- {
		if w.entries[i].ItemID == itemID {
			return w.entries[i], true
		}
	}
	return pricing.HistoryEntry{}, false
}
