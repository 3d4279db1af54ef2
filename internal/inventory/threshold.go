package inventory

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
)

// ErrInvalidThreshold is returned for negative threshold values.
var ErrInvalidThreshold = errors.New("threshold cannot be negative")

// ThresholdManager owns the per-name low-stock threshold. The threshold
// is conceptually a property of the item name but persisted per
// location-variant, so an update fans out to every existing row sharing
// the name. Rows created after the fan-out keep their own value.
type ThresholdManager struct {
	items repo.ItemRepository
	log   zerolog.Logger
}

func NewThresholdManager(items repo.ItemRepository, log zerolog.Logger) *ThresholdManager {
	return &ThresholdManager{items: items, log: log}
}

// SetThreshold fans the value out to every existing variant of the name
// and returns the number of rows updated.
func (m *ThresholdManager) SetThreshold(name string, threshold int) (int, error) {
	if threshold < 0 {
		return 0, ErrInvalidThreshold
	}
	updated, err := m.items.SetThresholdByName(name, threshold)
	if err != nil {
		return 0, err
	}
	m.log.Debug().Str("item", name).Int("threshold", threshold).Int("rows", updated).Msg("threshold fan-out")
	return updated, nil
}

// LowStockCount counts variants at or below their threshold. The count is
// per row, not deduplicated by name.
func (m *ThresholdManager) LowStockCount() (int, error) {
	_, total, err := m.items.Filter(repo.ItemFilter{LowStock: true})
	return total, err
}
