package repo

import (
	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
)

// ItemRepository defines the interface for item (location-variant) data
// operations. It is the quantity cache of the inventory core: quantities
// held here are derived from the ledger.
type ItemRepository interface {
	Create(item models.Item) (models.Item, error)
	GetAll() ([]models.Item, error)
	GetByID(id int) (models.Item, error)
	GetByNameAndLocation(name, location string) (models.Item, error)
	GetByName(name string) ([]models.Item, error)
	Update(item models.Item) (models.Item, error)
	UpdateQuantity(id, quantity int) (models.Item, error)
	SetThresholdByName(name string, threshold int) (int, error)
	Delete(id int) error
	DeleteByName(name string) (int, error)
	Filter(f ItemFilter) ([]models.Item, int, error)
}
