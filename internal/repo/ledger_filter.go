package repo

import (
	"time"

	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
)

type LedgerFilter struct {
	Since    *time.Time
	Until    *time.Time
	Kind     models.EntryKind // empty matches every kind
	Location string           // empty matches every location
	Offset   *int
	Limit    *int
}
