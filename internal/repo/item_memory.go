package repo

import (
	"strings"
	"sync"

	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
)

// InMemoryItemRepository is an in-memory implementation of ItemRepository.
// Used by the handler test suites and as a stand-in store during local
// development.
type InMemoryItemRepository struct {
	mu     sync.Mutex
	items  []models.Item
	nextID int
}

// NewInMemoryItemRepository creates a new instance of InMemoryItemRepository.
func NewInMemoryItemRepository() *InMemoryItemRepository {
	return &InMemoryItemRepository{
		items:  []models.Item{},
		nextID: 1,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func matchesFilter(i models.Item, f ItemFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(i.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Location != "" && i.Location != f.Location {
		return false
	}
	if f.Category != "" && !strings.EqualFold(i.Category, f.Category) {
		return false
	}
	if f.MinQty != nil && i.Quantity < *f.MinQty {
		return false
	}
	if f.MaxQty != nil && i.Quantity > *f.MaxQty {
		return false
	}
	if f.LowStock && !i.LowStock() {
		return false
	}
	return true
}

func (r *InMemoryItemRepository) Filter(f ItemFilter) ([]models.Item, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Item
	for _, i := range r.items {
		if matchesFilter(i, f) {
			filtered = append(filtered, i)
		}
	}

	if f.Offset != nil && *f.Offset > len(filtered) {
		return []models.Item{}, 0, nil
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

// Create adds a new item to the repository.
func (r *InMemoryItemRepository) Create(item models.Item) (models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, i := range r.items {
		if strings.EqualFold(i.Name, item.Name) && i.Location == item.Location {
			return models.Item{}, ErrDuplicatedValueUnique
		}
	}

	item.ID = r.nextID
	r.nextID++
	r.items = append(r.items, item)
	return item, nil
}

// GetAll retrieves all items from the repository.
func (r *InMemoryItemRepository) GetAll() ([]models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

// GetByID retrieves an item by its ID.
func (r *InMemoryItemRepository) GetByID(id int) (models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.items {
		if i.ID == id {
			return i, nil
		}
	}
	return models.Item{}, ErrItemNotFound
}

// GetByNameAndLocation retrieves the location-variant for a (name, location) pair.
func (r *InMemoryItemRepository) GetByNameAndLocation(name, location string) (models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.items {
		if strings.EqualFold(i.Name, name) && i.Location == location {
			return i, nil
		}
	}
	return models.Item{}, ErrItemNotFound
}

// GetByName retrieves every location-variant sharing the given name.
func (r *InMemoryItemRepository) GetByName(name string) ([]models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Item
	for _, i := range r.items {
		if strings.EqualFold(i.Name, name) {
			out = append(out, i)
		}
	}
	return out, nil
}

// Update modifies an existing item in the repository.
func (r *InMemoryItemRepository) Update(item models.Item) (models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, i := range r.items {
		if i.ID == item.ID {
			r.items[idx] = item
			return item, nil
		}
	}
	return models.Item{}, ErrItemNotFound
}

// UpdateQuantity overwrites the cached quantity of an item.
func (r *InMemoryItemRepository) UpdateQuantity(id, quantity int) (models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, i := range r.items {
		if i.ID == id {
			r.items[idx].Quantity = quantity
			return r.items[idx], nil
		}
	}
	return models.Item{}, ErrItemNotFound
}

// SetThresholdByName fans a threshold out to every variant sharing the
// name and returns the number of rows updated.
func (r *InMemoryItemRepository) SetThresholdByName(name string, threshold int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	updated := 0
	for idx, i := range r.items {
		if strings.EqualFold(i.Name, name) {
			r.items[idx].Threshold = threshold
			updated++
		}
	}
	return updated, nil
}

// Delete removes an item from the repository by its ID.
func (r *InMemoryItemRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, i := range r.items {
		if i.ID == id {
			r.items = append(r.items[:idx], r.items[idx+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// DeleteByName removes every variant sharing the name and returns how
// many rows were removed.
func (r *InMemoryItemRepository) DeleteByName(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	removed := 0
	for _, i := range r.items {
		if strings.EqualFold(i.Name, name) {
			removed++
			continue
		}
		kept = append(kept, i)
	}
	r.items = kept
	if removed == 0 {
		return 0, ErrItemNotFound
	}
	return removed, nil
}

func (r *InMemoryItemRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = []models.Item{}
}
