// Package inventory implements the mutation engine over the item quantity
// cache and the append-only ledger. The cached quantity of every item must
// equal the sum of its ledger deltas; the two writes are not atomic as a
// pair, and Reconcile repairs the invariant after a partial failure.
package inventory

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
)

// ItemRef identifies a location-variant by (name, location). Category is
// only consulted when the first mutation implicitly creates the row.
type ItemRef struct {
	Name     string
	Location string
	Category string
}

func (r ItemRef) key() string {
	return strings.ToLower(r.Name) + "|" + r.Location
}

// Engine validates and applies quantity changes. Read-modify-write per
// item is serialized with a per-item lock so two concurrent issues cannot
// both pass the non-negativity check against a stale read.
type Engine struct {
	items  repo.ItemRepository
	ledger repo.LedgerRepository
	log    zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(items repo.ItemRepository, ledger repo.LedgerRepository, log zerolog.Logger) *Engine {
	return &Engine{
		items:  items,
		ledger: ledger,
		log:    log,
		locks:  map[string]*sync.Mutex{},
	}
}

func (e *Engine) lockFor(ref ItemRef) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[ref.key()]
	if !ok {
		l = &sync.Mutex{}
		e.locks[ref.key()] = l
	}
	return l
}

// Apply records a signed change for the referenced item. The item is
// created on its first mutation. Fails with ErrInvalidQuantityChange and
// performs no write when the change would drive the quantity negative.
func (e *Engine) Apply(ref ItemRef, delta int, kind models.EntryKind, reason, actor string) (models.Item, error) {
	l := e.lockFor(ref)
	l.Lock()
	defer l.Unlock()
	return e.applyLocked(ref, delta, kind, reason, actor)
}

func (e *Engine) applyLocked(ref ItemRef, delta int, kind models.EntryKind, reason, actor string) (models.Item, error) {
	item, err := e.items.GetByNameAndLocation(ref.Name, ref.Location)
	exists := err == nil
	if err != nil && !errors.Is(err, repo.ErrItemNotFound) {
		return models.Item{}, err
	}

	current := 0
	if exists {
		current = item.Quantity
	}
	if current+delta < 0 {
		return models.Item{}, repo.ErrInvalidQuantityChange
	}

	if exists {
		item, err = e.items.UpdateQuantity(item.ID, current+delta)
	} else {
		now := time.Now().UTC().Format(time.RFC3339)
		item, err = e.items.Create(models.Item{
			Name:      ref.Name,
			Location:  ref.Location,
			Category:  ref.Category,
			Quantity:  current + delta,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err != nil {
		return models.Item{}, err
	}

	// Cache first, ledger second. A crash between the two leaves a
	// divergence that Reconcile repairs.
	_, err = e.ledger.Append(models.LedgerEntry{
		ItemID:    item.ID,
		ItemName:  item.Name,
		Location:  item.Location,
		Delta:     delta,
		Kind:      kind,
		Reason:    reason,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		e.log.Error().Err(err).
			Str("item", item.Name).Str("location", item.Location).Int("delta", delta).
			Msg("ledger append failed after cache update, reconcile required")
		return item, err
	}

	if item.LowStock() {
		e.log.Warn().
			Str("item", item.Name).Str("location", item.Location).
			Int("quantity", item.Quantity).Int("threshold", item.Threshold).
			Msg("item at or below threshold")
	}

	return item, nil
}

// Correct sets the item to an absolute quantity by computing the delta
// against the current value and delegating to Apply. The ledger only ever
// stores deltas. A zero delta against an existing item skips the write.
func (e *Engine) Correct(ref ItemRef, desired int, reason, actor string) (models.Item, error) {
	item, _, err := e.correct(ref, desired, reason, actor)
	return item, err
}

// correct additionally reports whether a ledger write happened, so batch
// callers can keep an accurate applied count across zero-delta skips.
// The current-quantity read and the delta derived from it stay inside the
// per-item lock; computing the delta from a read taken outside it lets
// two concurrent corrections race each other to a spurious failure.
func (e *Engine) correct(ref ItemRef, desired int, reason, actor string) (models.Item, bool, error) {
	if desired < 0 {
		return models.Item{}, false, repo.ErrInvalidQuantityChange
	}

	l := e.lockFor(ref)
	l.Lock()
	defer l.Unlock()

	item, err := e.items.GetByNameAndLocation(ref.Name, ref.Location)
	exists := err == nil
	if err != nil && !errors.Is(err, repo.ErrItemNotFound) {
		return models.Item{}, false, err
	}

	current := 0
	if exists {
		current = item.Quantity
	}
	delta := desired - current
	if exists && delta == 0 {
		return item, false, nil
	}

	kind := models.KindRestock
	switch {
	case !exists:
		kind = models.KindInitial
	case delta < 0:
		kind = models.KindIssue
	}

	item, err = e.applyLocked(ref, delta, kind, reason, actor)
	return item, err == nil, err
}

// Reconcile recomputes the cached quantity as the sum of every ledger
// entry for the item and overwrites the cache. Divergence is logged,
// never silently dropped.
func (e *Engine) Reconcile(ref ItemRef) (models.Item, error) {
	l := e.lockFor(ref)
	l.Lock()
	defer l.Unlock()

	item, err := e.items.GetByNameAndLocation(ref.Name, ref.Location)
	if err != nil {
		return models.Item{}, err
	}

	sum, err := e.ledger.SumByItemID(item.ID)
	if err != nil {
		return models.Item{}, err
	}

	if item.Quantity != sum {
		e.log.Warn().
			Str("item", item.Name).Str("location", item.Location).
			Int("cached", item.Quantity).Int("ledger", sum).
			Msg("cache diverged from ledger, restoring")
		return e.items.UpdateQuantity(item.ID, sum)
	}

	return item, nil
}
