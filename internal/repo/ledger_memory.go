package repo

import (
	"sync"
	"time"

	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
)

type InMemoryLedgerRepository struct {
	mu      sync.Mutex
	entries []models.LedgerEntry
}

func NewInMemoryLedgerRepository() *InMemoryLedgerRepository {
	return &InMemoryLedgerRepository{
		entries: []models.LedgerEntry{},
	}
}

// Append records a new ledger entry.
func (r *InMemoryLedgerRepository) Append(e models.LedgerEntry) (models.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = len(r.entries) + 1
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	r.entries = append(r.entries, e)
	return e, nil
}

func matchesLedgerFilter(e models.LedgerEntry, f LedgerFilter) bool {
	if f.Since != nil && e.CreatedAt.Before(*f.Since) {
		return false
	}
	if f.Until != nil && e.CreatedAt.After(*f.Until) {
		return false
	}
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if f.Location != "" && e.Location != f.Location {
		return false
	}
	return true
}

// GetByItemID returns the entries for one item, optionally filtered by
// date range and paginated.
func (r *InMemoryLedgerRepository) GetByItemID(itemID int, f LedgerFilter) ([]models.LedgerEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.LedgerEntry
	for _, e := range r.entries {
		if e.ItemID == itemID && matchesLedgerFilter(e, f) {
			filtered = append(filtered, e)
		}
	}

	if f.Offset != nil && *f.Offset > len(filtered) {
		return []models.LedgerEntry{}, len(filtered), nil
	}

	start := 0
	if f.Offset != nil {
		start = clamp(*f.Offset, 0, len(filtered))
	}

	end := len(filtered)
	if f.Limit != nil && *f.Limit > 0 {
		end = clamp(start+*f.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

// GetAll returns every entry matching the filter, in append order.
func (r *InMemoryLedgerRepository) GetAll(f LedgerFilter) ([]models.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.LedgerEntry
	for _, e := range r.entries {
		if matchesLedgerFilter(e, f) {
			out = append(out, e)
		}
	}
	return out, nil
}

// SumByItemID returns the sum of all deltas recorded for an item. This is
// the authoritative quantity the cache must agree with.
func (r *InMemoryLedgerRepository) SumByItemID(itemID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := 0
	for _, e := range r.entries {
		if e.ItemID == itemID {
			sum += e.Delta
		}
	}
	return sum, nil
}

func (r *InMemoryLedgerRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = []models.LedgerEntry{}
}
