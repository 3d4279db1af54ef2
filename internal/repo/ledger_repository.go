package repo

import (
	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
)

// LedgerRepository is the append-only store of signed quantity changes.
// Entries are immutable once written; there is deliberately no update or
// delete operation.
type LedgerRepository interface {
	Append(e models.LedgerEntry) (models.LedgerEntry, error)
	GetByItemID(itemID int, f LedgerFilter) ([]models.LedgerEntry, int, error)
	GetAll(f LedgerFilter) ([]models.LedgerEntry, error)
	SumByItemID(itemID int) (int, error)
}
